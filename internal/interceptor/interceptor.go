// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

package interceptor

import (
	"fmt"
	"strings"
	"time"

	"github.com/mia-platform/calllog/internal/config"
	"github.com/mia-platform/calllog/internal/logger"
)

const (
	startMarker   = ">>> METHOD EXECUTION START <<<"
	successMarker = ">>> METHOD EXECUTION END (SUCCESS) <<<"
	failureMarker = ">>> METHOD EXECUTION END (FAILURE) <<<"
	separator     = "----------------------------------"
)

// Recorder receives the outcome of every timed call.
type Recorder interface {
	ObserveCall(typeName, operation string, failed bool, elapsed time.Duration)
}

// Interceptor emits the log lines around decorated calls.
// It holds no per-call state and is safe for concurrent use.
type Interceptor struct {
	source   config.Source
	log      logger.Logger
	recorder Recorder
}

// Option customizes an Interceptor.
type Option func(*Interceptor)

// WithRecorder reports timed calls to recorder.
func WithRecorder(recorder Recorder) Option {
	return func(ic *Interceptor) {
		ic.recorder = recorder
	}
}

// New returns an Interceptor reading its settings from source on every call and
// writing to log. A nil source uses config.Default and a nil log discards everything.
func New(source config.Source, log logger.Logger, opts ...Option) *Interceptor {
	if source == nil {
		source = config.Default()
	}
	if log == nil {
		log = logger.NewNullLogger()
	}

	ic := &Interceptor{
		source: source,
		log:    log,
	}
	for _, opt := range opts {
		opt(ic)
	}
	return ic
}

// BeforeCall logs the start of inv with its arguments and, if present, its request.
func (ic *Interceptor) BeforeCall(inv Invocation) {
	cfg := ic.source.Current()
	if !cfg.Enabled {
		return
	}

	ic.emit(cfg, inv, func(b *strings.Builder) {
		b.WriteString(startMarker + "\n")
		fmt.Fprintf(b, "Type: %s, Method: %s\n", inv.TypeName, inv.Operation)
		fmt.Fprintf(b, "Arguments: %s\n", inv.arguments())
		if inv.Request != nil {
			b.WriteString("Request Details:\n")
			fmt.Fprintf(b, "  Method: %s, URI: %s\n", inv.Request.Method, inv.Request.URI)
			fmt.Fprintf(b, "  Headers: %v\n", inv.Request.Headers)
		}
		b.WriteString(separator)
	})
}

// AfterSuccess logs the successful end of inv with its result.
// A nil result is reported as void.
func (ic *Interceptor) AfterSuccess(inv Invocation, result any) {
	cfg := ic.source.Current()
	if !cfg.Enabled {
		return
	}

	ic.emit(cfg, inv, func(b *strings.Builder) {
		returned := voidToken
		if !isNil(result) {
			returned = render(result)
		}

		b.WriteString(successMarker + "\n")
		fmt.Fprintf(b, "Type: %s, Method: %s\n", inv.TypeName, inv.Operation)
		fmt.Fprintf(b, "Return Value: %s\n", returned)
		if inv.response != nil {
			fmt.Fprintf(b, "Response Status: %d\n", inv.response.StatusCode())
		}
		b.WriteString(separator)
	})
}

// AfterFailure logs the failed end of inv and returns err unchanged.
// When the logger has DEBUG or TRACE enabled the full error chain is also logged
// at ERROR, whatever the configured level.
func (ic *Interceptor) AfterFailure(inv Invocation, err error) error {
	cfg := ic.source.Current()
	if !cfg.Enabled {
		return err
	}

	ic.emit(cfg, inv, func(b *strings.Builder) {
		b.WriteString(failureMarker + "\n")
		fmt.Fprintf(b, "Type: %s, Method: %s\n", inv.TypeName, inv.Operation)
		fmt.Fprintf(b, "Exception: %s\n", errorKind(err))
		fmt.Fprintf(b, "Error Message: %s\n", errorMessage(err))
		b.WriteString(separator)
	})

	if ic.log.IsDebug() || ic.log.IsTrace() {
		ic.errorDetail(inv, err)
	}
	return err
}

func (ic *Interceptor) errorDetail(inv Invocation, err error) {
	defer func() {
		if r := recover(); r != nil {
			ic.log.Error("full error detail for "+inv.name()+" unavailable", "reason", fmt.Sprint(r))
		}
	}()

	ic.log.Error("full error detail for "+inv.name(),
		"error", fmt.Sprintf("%+v", err),
		"causes", causeChain(err),
	)
}

func (ic *Interceptor) timedSuccess(cfg config.Config, inv Invocation, elapsed time.Duration) {
	ic.emit(cfg, inv, func(b *strings.Builder) {
		fmt.Fprintf(b, "Method %s completed successfully in %d ms", inv.name(), elapsed.Milliseconds())
	})
	ic.observe(inv, false, elapsed)
}

func (ic *Interceptor) timedFailure(cfg config.Config, inv Invocation, elapsed time.Duration, err error) {
	ic.emit(cfg, inv, func(b *strings.Builder) {
		fmt.Fprintf(b, "Method %s completed with error in %d ms: %s", inv.name(), elapsed.Milliseconds(), errorMessage(err))
	})
	ic.observe(inv, true, elapsed)
}

func (ic *Interceptor) observe(inv Invocation, failed bool, elapsed time.Duration) {
	if ic.recorder != nil {
		ic.recorder.ObserveCall(inv.TypeName, inv.Operation, failed, elapsed)
	}
}

// emit composes a message and sends it to the logger at the configured level.
// A panic during composition is replaced by a short fallback line.
func (ic *Interceptor) emit(cfg config.Config, inv Invocation, compose func(*strings.Builder)) {
	ic.log.Log(logger.LevelFromString(cfg.Level), composeMessage(inv, compose))
}

func composeMessage(inv Invocation, compose func(*strings.Builder)) (message string) {
	defer func() {
		if r := recover(); r != nil {
			message = fmt.Sprintf("Type: %s, Method: %s (message composition failed: %v)", inv.TypeName, inv.Operation, r)
		}
	}()

	b := new(strings.Builder)
	compose(b)
	return b.String()
}
