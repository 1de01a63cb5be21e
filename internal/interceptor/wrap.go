// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

package interceptor

import (
	"time"
)

// Logged runs proceed between BeforeCall and AfterSuccess or AfterFailure.
// proceed results are returned as they are. A panic in proceed is logged as a
// failure and then propagated with its original value.
func Logged[V any](ic *Interceptor, inv Invocation, proceed func() (V, error)) (V, error) {
	ic.BeforeCall(inv)

	returned := false
	defer func() {
		if returned {
			return
		}
		// recover is nil when proceed called runtime.Goexit
		if r := recover(); r != nil {
			ic.AfterFailure(inv, panicError{value: r})
			panic(r)
		}
	}()

	value, err := proceed()
	returned = true
	if err != nil {
		return value, ic.AfterFailure(inv, err)
	}

	ic.AfterSuccess(inv, value)
	return value, nil
}

// Call is Logged for operations without a result; success reports void.
func Call(ic *Interceptor, inv Invocation, proceed func() error) error {
	_, err := Logged(ic, inv, func() (any, error) {
		return nil, proceed()
	})
	return err
}

// Timed runs proceed and logs how long it took in milliseconds. When logging is
// disabled proceed is called directly. A panic in proceed is logged as an error
// and then propagated with its original value.
func Timed[V any](ic *Interceptor, inv Invocation, proceed func() (V, error)) (V, error) {
	cfg := ic.source.Current()
	if !cfg.Enabled {
		return proceed()
	}

	start := time.Now()
	returned := false
	defer func() {
		if returned {
			return
		}
		if r := recover(); r != nil {
			ic.timedFailure(cfg, inv, time.Since(start), panicError{value: r})
			panic(r)
		}
	}()

	value, err := proceed()
	returned = true
	elapsed := time.Since(start)
	if err != nil {
		ic.timedFailure(cfg, inv, elapsed, err)
		return value, err
	}

	ic.timedSuccess(cfg, inv, elapsed)
	return value, nil
}

// TimedCall is Timed for operations without a result.
func TimedCall(ic *Interceptor, inv Invocation, proceed func() error) error {
	_, err := Timed(ic, inv, func() (struct{}, error) {
		return struct{}{}, proceed()
	})
	return err
}
