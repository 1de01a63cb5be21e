// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

// Package server contains the HTTP server hosting the instrumented application.
// It sets up the Fiber app with the access log middleware, which also makes the
// current request available to intercepted calls, and exposes status and metrics routes.
package server
