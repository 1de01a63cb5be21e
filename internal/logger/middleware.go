// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

package logger

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/mia-platform/calllog/internal/requestctx"
)

const (
	forwardedHostHeaderKey = "X-Forwarded-Host"
	forwardedForHeaderKey  = "X-Forwarded-For"
	requestIDHeaderName    = "X-Request-Id"
	userAgentHeaderName    = "User-Agent"

	IncomingRequestMessage  = "incoming request"
	RequestCompletedMessage = "request completed"
)

// accessLog is the request part of the access log lines.
type accessLog struct {
	Request  *accessRequest  `json:"request,omitempty"`
	Response *accessResponse `json:"response,omitempty"`
}

type userAgent struct {
	Original string `json:"original,omitempty"`
}

type accessRequest struct {
	Method    string    `json:"method,omitempty"`
	UserAgent userAgent `json:"userAgent"`
}

type responseBody struct {
	Bytes int `json:"bytes,omitempty"`
}

type accessResponse struct {
	StatusCode int          `json:"statusCode,omitempty"`
	Body       responseBody `json:"body"`
}

type host struct {
	Hostname      string `json:"hostname,omitempty"`
	ForwardedHost string `json:"forwardedHost,omitempty"`
	IP            string `json:"ip,omitempty"`
}

type url struct {
	Path string `json:"path,omitempty"`
}

// servedRequest collects what the access log needs from a fiber request.
type servedRequest struct {
	requestctx.Request

	c          *fiber.Ctx
	headers    map[string]string
	handlerErr error
}

func newServedRequest(c *fiber.Ctx) *servedRequest {
	req := requestctx.FromFiber(c)
	return &servedRequest{
		Request: req,
		c:       c,
		headers: req.Headers(),
	}
}

func (s *servedRequest) header(name string) string {
	return s.headers[name]
}

func (s *servedRequest) host() host {
	return host{
		ForwardedHost: s.header(forwardedHostHeaderKey),
		Hostname:      strings.Split(string(s.c.Request().Host()), ":")[0],
		IP:            s.header(forwardedForHeaderKey),
	}
}

func (s *servedRequest) request() *accessRequest {
	return &accessRequest{
		Method:    s.Method(),
		UserAgent: userAgent{Original: s.header(userAgentHeaderName)},
	}
}

func (s *servedRequest) response() *accessResponse {
	if fiberErr, ok := s.handlerErr.(*fiber.Error); ok {
		return &accessResponse{StatusCode: fiberErr.Code, Body: responseBody{Bytes: len(fiberErr.Error())}}
	}

	bodySize := len(s.c.Response().Body())
	if content := s.c.GetRespHeader(fiber.HeaderContentLength); content != "" {
		if length, err := strconv.Atoi(content); err == nil {
			bodySize = length
		}
	}
	return &accessResponse{StatusCode: s.Response().StatusCode(), Body: responseBody{Bytes: bodySize}}
}

// requestID returns the incoming request id or a new random one.
func (s *servedRequest) requestID() string {
	if requestID := s.header(requestIDHeaderName); requestID != "" {
		return requestID
	}

	requestID, err := uuid.NewRandom()
	if err != nil {
		panic(fmt.Errorf("error generating request id: %w", err))
	}
	return requestID.String()
}

// RequestMiddlewareLogger is a fiber middleware to log all requests.
// It logs the incoming request and when request is completed, adding latency of the request.
// A logger named after the request id and the ambient request are stored in the fiber user
// context; requests whose URI starts with one of excludedPrefix are passed through untouched.
func RequestMiddlewareLogger(logger Logger, excludedPrefix []string) func(*fiber.Ctx) error {
	return func(fiberCtx *fiber.Ctx) error {
		served := newServedRequest(fiberCtx)

		for _, prefix := range excludedPrefix {
			if strings.HasPrefix(served.URI(), prefix) {
				return fiberCtx.Next()
			}
		}

		start := time.Now()

		requestID := served.requestID()
		fiberCtx.Set(requestIDHeaderName, requestID)
		requestLogger := logger.WithName("request").WithName(requestID)

		ctx := WithContext(fiberCtx.UserContext(), requestLogger)
		ctx = requestctx.WithContext(ctx, served.Request)
		fiberCtx.SetUserContext(ctx)

		requestLogger.WithName("incoming_request").Trace(IncomingRequestMessage,
			"http", accessLog{Request: served.request()},
			"url", url{Path: served.URI()},
			"host", served.host(),
		)

		err := fiberCtx.Next()
		served.handlerErr = err

		requestLogger.WithName("request_completed").Info(RequestCompletedMessage,
			"http", accessLog{Request: served.request(), Response: served.response()},
			"url", url{Path: served.URI()},
			"host", served.host(),
			"responseTime", float64(time.Since(start).Milliseconds()),
		)

		return err
	}
}
