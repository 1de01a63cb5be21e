// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

// Package logger wraps hclog behind the Logger interface used across the application.
// It maps level names to levels, makes loggers available through context helpers and
// provides the fiber access log middleware.
package logger
