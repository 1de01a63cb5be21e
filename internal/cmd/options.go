// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

package cmd

import (
	"context"
	"net/http"

	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/mia-platform/calllog/internal/config"
	"github.com/mia-platform/calllog/internal/interceptor"
	"github.com/mia-platform/calllog/internal/logger"
	"github.com/mia-platform/calllog/internal/metrics"
	"github.com/mia-platform/calllog/internal/requestctx"
	"github.com/mia-platform/calllog/internal/server"
)

const (
	serveLoggerName       = "calllog:serve"
	interceptorLoggerName = "calllog:interceptor"

	echoPath     = "/echo"
	echoHTTPPath = "/echo/http"
)

// options configures the serve command.
type options struct {
	configFile    string
	watch         bool
	serverFactory func(context.Context, prometheus.Gatherer) (server.Server, error)
}

// validate checks the configured values and reports invalid setups.
func (o *options) validate() error {
	if o.watch && o.configFile == "" {
		return errWatchWithoutFile
	}

	return nil
}

// loadConfig reads the logging configuration from the file, if set, or from the environment.
func (o *options) loadConfig() (config.Config, error) {
	if o.configFile != "" {
		return config.FromFile(o.configFile)
	}
	return config.FromEnv()
}

// execute serves the echo route until ctx is done or the server fails.
func (o *options) execute(ctx context.Context) error {
	log := logger.FromContext(ctx)

	cfg, err := o.loadConfig()
	if err != nil {
		return err
	}

	store := config.NewStore(cfg)
	if o.watch {
		if err := config.Watch(ctx, o.configFile, store); err != nil {
			return err
		}
	}

	registry := prometheus.NewRegistry()
	ic := interceptor.New(store, log.WithName(interceptorLoggerName),
		interceptor.WithRecorder(metrics.NewRecorder(registry)),
	)

	srv, err := o.serverFactory(ctx, registry)
	if err != nil {
		return err
	}
	service := &EchoService{}
	srv.AddRoute(http.MethodGet, echoPath, echoHandler(ic, service))
	srv.AddRoute(http.MethodGet, echoHTTPPath, adaptor.HTTPHandler(requestctx.Middleware(echoHTTPHandler(ic, service))))

	log.WithName(serveLoggerName).Info("starting server", "loggingEnabled", cfg.Enabled, "loggingLevel", cfg.Level)
	errChan := make(chan error, 1)
	go func() {
		errChan <- srv.Start()
	}()

	select {
	case err := <-errChan:
		return err
	case <-ctx.Done():
		return srv.Stop()
	}
}
