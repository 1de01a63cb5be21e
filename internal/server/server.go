// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/mia-platform/calllog/internal/info"
	"github.com/mia-platform/calllog/internal/logger"
)

const (
	loggerName = "calllog:server"

	statusRoutesPrefix = "/-/"
	healthzPath        = statusRoutesPrefix + "healthz"
	readyPath          = statusRoutesPrefix + "ready"
	metricsPath        = statusRoutesPrefix + "metrics"
)

type Server interface {
	AddRoute(method string, path string, handler fiber.Handler)
	Start() error
	Stop() error
	StartAsync(ctx context.Context)
}

type impServer struct {
	Config

	app *fiber.App
}

var (
	ErrServerListen   = errors.New("server listen error")
	ErrServerShutdown = errors.New("server shutdown error")
)

// NewServer configures a fiber app from the environment. The logger found in ctx is used
// for the access log; metrics from gatherer are served when it is not nil.
func NewServer(ctx context.Context, gatherer prometheus.Gatherer) (Server, error) {
	return newServer(ctx, gatherer)
}

func newServer(ctx context.Context, gatherer prometheus.Gatherer) (*impServer, error) {
	cfg, err := LoadServerConfig()
	if err != nil {
		return nil, err
	}

	app := fiber.New(fiber.Config{
		AppName:               info.AppName,
		DisableStartupMessage: cfg.DisableStartupMessage,
		Immutable:             true, // ensure that accessing request body returns a copy that is valid after the request lifecycle (accessing body and headers in goroutines in the request handlers)
	})
	log := logger.FromContext(ctx)
	app.Use(logger.RequestMiddlewareLogger(log, []string{statusRoutesPrefix}))

	statusRoutes(app, info.AppName, info.Version)
	if gatherer != nil {
		app.Get(metricsPath, adaptor.HTTPHandler(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))
	}

	return &impServer{
		app:    app,
		Config: *cfg,
	}, nil
}

func statusRoutes(app *fiber.App, name, version string) {
	status := func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "OK",
			"name":    name,
			"version": version,
		})
	}

	app.Get(healthzPath, status)
	app.Get(readyPath, status)
}

func (s *impServer) AddRoute(method string, path string, handler fiber.Handler) {
	s.app.Add(method, path, handler)
}

func (s *impServer) Start() error {
	if err := s.app.Listen(fmt.Sprintf("%s:%d", s.HTTPHost, s.HTTPPort)); err != nil {
		return fmt.Errorf("%w: %w", ErrServerListen, err)
	}
	return nil
}

func (s *impServer) Stop() error {
	if err := s.app.Shutdown(); err != nil {
		return fmt.Errorf("%w: %w", ErrServerShutdown, err)
	}
	return nil
}

func (s *impServer) StartAsync(ctx context.Context) {
	log := logger.Named(ctx, loggerName)
	go func() {
		if err := s.Start(); err != nil {
			log.Error(err.Error())
		}
	}()
}

// ErrorResponse writes the JSON error body used by the instrumented routes.
func ErrorResponse(c *fiber.Ctx, statusCode int, message string) error {
	return c.Status(statusCode).JSON(fiber.Map{
		"statusCode": statusCode,
		"error":      http.StatusText(statusCode),
		"message":    message,
	})
}
