// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

package logger

import (
	"bytes"
	"encoding/json"
	netHTTP "net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mia-platform/calllog/internal/requestctx"
)

func TestRequestMiddlewareLogger(t *testing.T) {
	t.Parallel()

	buffer := new(bytes.Buffer)
	logger := NewLogger(buffer)
	logger.SetLevel(TRACE)

	app := fiber.New(fiber.Config{})
	require.NotNil(t, app)

	middleware := RequestMiddlewareLogger(logger, []string{"/-/healthz"})
	require.NotNil(t, middleware)

	app.Use(middleware)

	var ambient requestctx.Request
	app.Get("/foo", func(c *fiber.Ctx) error {
		ambient = requestctx.FromContext(c.UserContext())
		assert.NotEqual(t, nullLogger, FromContext(c.UserContext()))
		return c.Status(netHTTP.StatusTeapot).SendString("short and stout")
	})
	app.Get("/-/healthz", func(c *fiber.Ctx) error {
		ambient = requestctx.FromContext(c.UserContext())
		return c.SendStatus(netHTTP.StatusOK)
	})

	req := httptest.NewRequest(netHTTP.MethodGet, "http://example.com/foo", nil)
	req.Header.Set("User-Agent", "UnitTestAgent/1.0")
	req.Header.Set("X-Request-Id", "req-1")
	req.RemoteAddr = "127.0.0.1:12345"

	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, "req-1", resp.Header.Get("X-Request-Id"))
	require.NotNil(t, ambient)
	assert.Equal(t, netHTTP.MethodGet, ambient.Method())

	logs := buffer.String()
	splitted := strings.Split(logs, "\n")
	require.Len(t, splitted, 3)
	require.Empty(t, splitted[2])

	var completed map[string]any
	require.NoError(t, json.Unmarshal([]byte(splitted[1]), &completed))
	assert.Equal(t, RequestCompletedMessage, completed["@message"])
	assert.Equal(t, "request_completed", completed["@module"])
	response := completed["http"].(map[string]any)["response"].(map[string]any)
	assert.InDelta(t, netHTTP.StatusTeapot, response["statusCode"], 0)

	buffer.Reset()
	ambient = nil
	health, err := app.Test(httptest.NewRequest(netHTTP.MethodGet, "/-/healthz", nil))
	require.NoError(t, err)
	defer health.Body.Close()

	assert.Empty(t, buffer.String())
	assert.Nil(t, ambient)
	assert.Empty(t, health.Header.Get("X-Request-Id"))
}

func TestRequestMiddlewareLoggerGeneratesRequestID(t *testing.T) {
	t.Parallel()

	app := fiber.New()
	app.Use(RequestMiddlewareLogger(NewLogger(new(bytes.Buffer)), nil))
	app.Get("/", func(c *fiber.Ctx) error {
		return c.SendStatus(netHTTP.StatusNoContent)
	})

	resp, err := app.Test(httptest.NewRequest(netHTTP.MethodGet, "/", nil))
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Len(t, resp.Header.Get("X-Request-Id"), 36)
}
