// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

// Package requestctx carries the HTTP request being served alongside a context.Context.
// Host applications install it with the fiber or net/http adapters so that code running
// inside a handler can read the request method, URI, headers and the response status
// without reaching into global state. Outside of a request scope nothing is installed
// and FromContext returns nil.
package requestctx
