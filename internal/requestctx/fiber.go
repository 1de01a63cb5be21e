// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

package requestctx

import (
	"github.com/gofiber/fiber/v2"
)

type fiberRequest struct {
	c *fiber.Ctx
}

// FromFiber adapts a fiber context to a Request. The returned value is only valid
// while the fiber handler is running.
func FromFiber(c *fiber.Ctx) Request {
	return &fiberRequest{c: c}
}

// FiberMiddleware installs the current request in the fiber user context.
func FiberMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		c.SetUserContext(WithContext(c.UserContext(), FromFiber(c)))
		return c.Next()
	}
}

func (r *fiberRequest) Method() string {
	return r.c.Method()
}

func (r *fiberRequest) URI() string {
	return string(r.c.Request().URI().Path())
}

func (r *fiberRequest) Headers() map[string]string {
	return flattenHeaders(r.c.GetReqHeaders())
}

func (r *fiberRequest) Response() Response {
	return r
}

func (r *fiberRequest) StatusCode() int {
	return r.c.Response().StatusCode()
}
