// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

package interceptor

import (
	"context"
	"fmt"
	"reflect"
	"strings"

	"github.com/mia-platform/calllog/internal/requestctx"
)

const (
	nullToken = "null"
	voidToken = "void"
)

// Invocation is the snapshot of a call taken when it starts.
type Invocation struct {
	TypeName  string
	Operation string
	// Args holds the textual form of every argument, in order.
	Args []string
	// Request is nil when the call does not happen while serving a request.
	Request *RequestInfo

	response requestctx.Response
}

// RequestInfo is the request being served when the call started.
type RequestInfo struct {
	Method  string
	URI     string
	Headers map[string]string
}

// NewInvocation captures a call of typeName.operation with args. The ambient request,
// if any, is read from ctx.
func NewInvocation(ctx context.Context, typeName, operation string, args ...any) Invocation {
	rendered := make([]string, 0, len(args))
	for _, arg := range args {
		rendered = append(rendered, render(arg))
	}

	inv := Invocation{
		TypeName:  typeName,
		Operation: operation,
		Args:      rendered,
	}
	return inv.WithRequest(requestctx.FromContext(ctx))
}

// WithRequest returns a copy of inv bound to req; a nil req removes any request.
func (inv Invocation) WithRequest(req requestctx.Request) Invocation {
	if req == nil {
		inv.Request = nil
		inv.response = nil
		return inv
	}

	inv.Request = &RequestInfo{
		Method:  req.Method(),
		URI:     req.URI(),
		Headers: req.Headers(),
	}
	inv.response = req.Response()
	return inv
}

// TypeNameOf returns the name of the dynamic type of v without package or pointers.
func TypeNameOf(v any) string {
	t := reflect.TypeOf(v)
	if t == nil {
		return nullToken
	}
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if name := t.Name(); name != "" {
		return name
	}
	return t.String()
}

func (inv Invocation) name() string {
	return inv.TypeName + "." + inv.Operation
}

func (inv Invocation) arguments() string {
	return "[" + strings.Join(inv.Args, ", ") + "]"
}

// render returns the default textual form of value; nil values become nullToken.
func render(value any) (text string) {
	if isNil(value) {
		return nullToken
	}

	defer func() {
		if r := recover(); r != nil {
			text = fmt.Sprintf("<%T: %v>", value, r)
		}
	}()
	return fmt.Sprint(value)
}

func isNil(value any) bool {
	if value == nil {
		return true
	}

	v := reflect.ValueOf(value)
	switch v.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Func, reflect.Chan, reflect.Map, reflect.Slice:
		return v.IsNil()
	default:
		return false
	}
}
