// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/mia-platform/calllog/internal/interceptor"
	"github.com/mia-platform/calllog/internal/server"
)

var (
	// ErrEmptyMessage is returned when there is nothing to echo.
	ErrEmptyMessage = errors.New("message is empty")
)

// EchoService is the sample operation decorated by the serve command.
type EchoService struct{}

// Echo returns message without surrounding spaces.
func (s *EchoService) Echo(ctx context.Context, message string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	message = strings.TrimSpace(message)
	if message == "" {
		return "", ErrEmptyMessage
	}
	return message, nil
}

// echoHandler serves EchoService.Echo with both logged and timed decoration.
func echoHandler(ic *interceptor.Interceptor, service *EchoService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx := c.UserContext()
		message := c.Query("message")

		inv := interceptor.NewInvocation(ctx, interceptor.TypeNameOf(service), "Echo", message)
		echoed, err := interceptor.Logged(ic, inv, func() (string, error) {
			return interceptor.Timed(ic, inv, func() (string, error) {
				return service.Echo(ctx, message)
			})
		})

		switch {
		case errors.Is(err, ErrEmptyMessage):
			return server.ErrorResponse(c, http.StatusBadRequest, err.Error())
		case err != nil:
			return server.ErrorResponse(c, http.StatusInternalServerError, err.Error())
		}
		return c.JSON(fiber.Map{"message": echoed})
	}
}

// echoHTTPHandler is the net/http flavour of echoHandler, for hosts that are not built on fiber.
func echoHTTPHandler(ic *interceptor.Interceptor, service *EchoService) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		message := r.URL.Query().Get("message")

		inv := interceptor.NewInvocation(ctx, interceptor.TypeNameOf(service), "Echo", message)
		echoed, err := interceptor.Logged(ic, inv, func() (string, error) {
			return service.Echo(ctx, message)
		})

		statusCode := http.StatusOK
		body := map[string]any{"message": echoed}
		switch {
		case errors.Is(err, ErrEmptyMessage):
			statusCode = http.StatusBadRequest
		case err != nil:
			statusCode = http.StatusInternalServerError
		}
		if err != nil {
			body = map[string]any{
				"statusCode": statusCode,
				"error":      http.StatusText(statusCode),
				"message":    err.Error(),
			}
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(statusCode)
		_ = json.NewEncoder(w).Encode(body)
	})
}
