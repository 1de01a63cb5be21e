// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

// Package metrics exposes the timing of intercepted calls as Prometheus metrics.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	namespace = "calllog"

	statusSuccess = "success"
	statusError   = "error"
)

// Recorder counts timed calls and tracks their duration.
type Recorder struct {
	// CallsTotal is labelled by type, operation and status.
	CallsTotal *prometheus.CounterVec
	// CallDuration is in milliseconds and labelled by type and operation.
	CallDuration *prometheus.HistogramVec
}

// NewRecorder registers the call metrics on registerer.
func NewRecorder(registerer prometheus.Registerer) *Recorder {
	factory := promauto.With(registerer)
	return &Recorder{
		CallsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "calls_total",
				Help:      "Total number of timed calls",
			},
			[]string{"type", "operation", "status"},
		),
		CallDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "call_duration_milliseconds",
				Help:      "Duration of timed calls in milliseconds",
				Buckets:   []float64{1, 5, 10, 50, 100, 250, 500, 1000, 2500, 5000, 10000},
			},
			[]string{"type", "operation"},
		),
	}
}

// ObserveCall records one timed call.
func (r *Recorder) ObserveCall(typeName, operation string, failed bool, elapsed time.Duration) {
	status := statusSuccess
	if failed {
		status = statusError
	}

	r.CallsTotal.WithLabelValues(typeName, operation, status).Inc()
	r.CallDuration.WithLabelValues(typeName, operation).Observe(float64(elapsed) / float64(time.Millisecond))
}
