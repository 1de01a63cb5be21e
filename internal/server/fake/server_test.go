// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

package fake

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mia-platform/calllog/internal/requestctx"
)

func TestAddRouteRegistersHandler(t *testing.T) {
	t.Parallel()

	server := NewFakeServer(t)
	server.AddRoute(http.MethodGet, "/echo", func(c *fiber.Ctx) error {
		req := requestctx.FromContext(c.UserContext())
		if req == nil {
			return c.SendStatus(http.StatusInternalServerError)
		}
		return c.SendString(req.Headers()["X-Test"])
	})
	require.Len(t, server.RegisteredRoutes, 1)

	request := httptest.NewRequest(http.MethodGet, "/echo", nil)
	request.Header.Set("X-Test", "value")
	response, err := server.App().Test(request)
	require.NoError(t, err)
	defer response.Body.Close()
	assert.Equal(t, http.StatusOK, response.StatusCode)
}

func TestStartAndStop(t *testing.T) {
	t.Parallel()

	server := NewFakeServer(t)

	done := make(chan struct{})
	go func() {
		defer close(done)
		assert.NoError(t, server.Start())
	}()

	<-server.StartedServer()
	require.NoError(t, server.Stop())
	require.NoError(t, server.Stop())
	<-server.StoppedServer()
	<-done
}

func TestStartAsyncSignalsStarted(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithTimeout(t.Context(), 1*time.Second)
	defer cancel()

	server := NewFakeServer(t)
	server.StartAsync(ctx)

	select {
	case <-server.StartedServer():
	case <-ctx.Done():
		assert.Fail(t, "context cancelled", "error", ctx.Err())
	}
}
