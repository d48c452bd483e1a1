// Package observe builds the bridge's logger and OpenTelemetry metrics.
package observe

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
)

const meterName = "eud4xr-bridge"

// Metrics holds the bridge's instruments. All fields are safe for concurrent use.
type Metrics struct {
	// Updates counts inbound updates by outcome (applied, stale, queued, ...).
	Updates metric.Int64Counter

	// FailedUpdates tracks the depth of the failed-update queue.
	FailedUpdates metric.Int64UpDownCounter

	// Outbound counts sends by target (unity, host) and status.
	Outbound metric.Int64Counter

	// AutomationWrites counts rule-file writes by status.
	AutomationWrites metric.Int64Counter
}

func NewMetrics(mp metric.MeterProvider) (*Metrics, error) {
	m := mp.Meter(meterName)
	var err error
	met := &Metrics{}

	if met.Updates, err = m.Int64Counter("eud4xr.updates",
		metric.WithDescription("Inbound simulation updates by outcome."),
	); err != nil {
		return nil, err
	}
	if met.FailedUpdates, err = m.Int64UpDownCounter("eud4xr.failed_updates",
		metric.WithDescription("Updates waiting for their entity to be registered."),
	); err != nil {
		return nil, err
	}
	if met.Outbound, err = m.Int64Counter("eud4xr.outbound",
		metric.WithDescription("Outbound messages by target and status."),
	); err != nil {
		return nil, err
	}
	if met.AutomationWrites, err = m.Int64Counter("eud4xr.automation.writes",
		metric.WithDescription("Automation rule-file writes by status."),
	); err != nil {
		return nil, err
	}
	return met, nil
}

// Noop returns instruments that record nothing.
func Noop() *Metrics {
	m, _ := NewMetrics(noop.NewMeterProvider())
	return m
}

func (m *Metrics) RecordUpdate(ctx context.Context, outcome string) {
	m.Updates.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", outcome)))
}

func (m *Metrics) RecordOutbound(ctx context.Context, target, status string) {
	m.Outbound.Add(ctx, 1, metric.WithAttributes(
		attribute.String("target", target),
		attribute.String("status", status),
	))
}

func (m *Metrics) RecordAutomationWrite(ctx context.Context, status string) {
	m.AutomationWrites.Add(ctx, 1, metric.WithAttributes(attribute.String("status", status)))
}

func (m *Metrics) AddFailed(ctx context.Context, delta int64) {
	m.FailedUpdates.Add(ctx, delta)
}
