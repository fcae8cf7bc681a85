package rpc

import (
	"time"

	"github.com/froyo-sdk/provider-sdk/pkg/telemetry"
)

// Metrics adapts a telemetry.Metrics collector to the narrow interface
// the Dispatcher records against. It exists so pkg/rpc does not need
// to import prometheus directly; telemetry owns the instruments.
type Metrics struct {
	inner *telemetry.Metrics
}

// NewMetrics wraps an existing telemetry.Metrics collector for use by
// a Dispatcher.
func NewMetrics(m *telemetry.Metrics) *Metrics {
	return &Metrics{inner: m}
}

// RecordDispatch records one dispatched request's method and outcome.
func (m *Metrics) RecordDispatch(method, outcome string) {
	if m == nil || m.inner == nil {
		return
	}
	m.inner.RecordDispatch(method, outcome)
}

// ObserveDuration records how long a dispatched request took.
func (m *Metrics) ObserveDuration(method string, d time.Duration) {
	if m == nil || m.inner == nil {
		return
	}
	m.inner.ObserveDuration(method, d)
}
