// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

// Package interceptor logs calls to operations the host code decorates explicitly.
// An Interceptor emits a line before the call, one after it succeeds or fails, and
// a duration line around timed calls. Everything is skipped when the configuration
// disables logging, and results and errors of the wrapped operation always reach
// the caller untouched.
//
//	inv := interceptor.NewInvocation(ctx, "OrderService", "Create", order)
//	created, err := interceptor.Logged(ic, inv, func() (*Order, error) {
//		return service.Create(ctx, order)
//	})
package interceptor
