// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

package requestctx

import (
	"context"
	"strings"
)

// Request exposes the ambient request of a handler. URI is the request path without
// the query string.
type Request interface {
	Method() string
	URI() string
	Headers() map[string]string

	// Response returns the response being built for the request, or nil when unavailable.
	Response() Response
}

// Response exposes the ambient response of a handler.
type Response interface {
	StatusCode() int
}

// WithContext returns a new context carrying req.
func WithContext(ctx context.Context, req Request) context.Context {
	return context.WithValue(ctx, contextKey, req)
}

// FromContext returns the request stored in ctx, or nil if there is none.
func FromContext(ctx context.Context) Request {
	if ctx != nil {
		if req, ok := ctx.Value(contextKey).(Request); ok {
			return req
		}
	}

	return nil
}

type contextKeyType struct{}

var contextKey = contextKeyType{}

// flattenHeaders joins multi-valued headers with a comma.
func flattenHeaders(headers map[string][]string) map[string]string {
	flattened := make(map[string]string, len(headers))
	for name, values := range headers {
		flattened[name] = strings.Join(values, ", ")
	}
	return flattened
}
