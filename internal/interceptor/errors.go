// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

package interceptor

import (
	"fmt"
)

// kinded lets an error choose the kind reported in the failure line.
type kinded interface {
	Kind() string
}

// panicError carries a value recovered from a panicking operation. It is only used to
// compose log lines; the original value is panicked again.
type panicError struct {
	value any
}

func (e panicError) Error() string {
	return fmt.Sprint(e.value)
}

func (e panicError) Kind() string {
	return "panic"
}

func errorKind(err error) string {
	if err == nil {
		return nullToken
	}
	if k, ok := err.(kinded); ok && !isNil(k) {
		return k.Kind()
	}
	return TypeNameOf(err)
}

// errorMessage falls back to null when err is nil, typed-nil or its Error method panics.
func errorMessage(err error) (message string) {
	if isNil(err) {
		return nullToken
	}

	defer func() {
		if r := recover(); r != nil {
			message = nullToken
		}
	}()
	if msg := err.Error(); msg != "" {
		return msg
	}
	return nullToken
}

// causeChain lists kind and message of err and of every error it wraps, depth first.
func causeChain(err error) []string {
	if isNil(err) {
		return nil
	}

	chain := []string{errorKind(err) + ": " + errorMessage(err)}
	switch wrapped := err.(type) {
	case interface{ Unwrap() error }:
		chain = append(chain, causeChain(wrapped.Unwrap())...)
	case interface{ Unwrap() []error }:
		for _, inner := range wrapped.Unwrap() {
			chain = append(chain, causeChain(inner)...)
		}
	}
	return chain
}
