// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

package requestctx

import (
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
)

type httpRequest struct {
	r *http.Request
	w middleware.WrapResponseWriter
}

// Middleware installs the current request in the request context for net/http handlers.
// The response writer is wrapped so the status code can be read once the handler wrote it.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		req := &httpRequest{r: r, w: ww}
		next.ServeHTTP(ww, r.WithContext(WithContext(r.Context(), req)))
	})
}

func (h *httpRequest) Method() string {
	return h.r.Method
}

func (h *httpRequest) URI() string {
	return h.r.URL.EscapedPath()
}

func (h *httpRequest) Headers() map[string]string {
	return flattenHeaders(h.r.Header)
}

func (h *httpRequest) Response() Response {
	if h.w == nil {
		return nil
	}
	return h
}

// StatusCode follows net/http and reports 200 until the handler writes another status.
func (h *httpRequest) StatusCode() int {
	if status := h.w.Status(); status != 0 {
		return status
	}
	return http.StatusOK
}
