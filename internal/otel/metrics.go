package otel

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const meterName = "toggle-term"

// Metrics holds all OTEL metric instruments for toggle-term.
// All counters are cumulative (monotonic) and safe for concurrent use.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	// Toggle transitions partitioned by outcome: create, show, hide.
	Toggles metric.Int64Counter

	// Stale-reference resets partitioned by reason: pane_gone, wrong_tab,
	// invoker_gone.
	StaleResets metric.Int64Counter

	// Bounded in-transition retries after an invoker reset.
	Retries metric.Int64Counter

	// Host topology inconsistencies (a just-created pane reported the
	// wrong tab).
	TopologyInconsistencies metric.Int64Counter

	// Snapshot persistence failures partitioned by op: write, clear.
	SnapshotErrors metric.Int64Counter
}

// NewMetrics creates all metric instruments. Returns no-op instruments
// when no MeterProvider is registered (safe to call unconditionally).
func NewMetrics() (*Metrics, error) {
	meter := otel.Meter(meterName)
	m := &Metrics{}
	var err error

	m.Toggles, err = meter.Int64Counter("toggles.total",
		metric.WithDescription("Toggle transitions partitioned by outcome (create, show, hide)"))
	if err != nil {
		return nil, err
	}

	m.StaleResets, err = meter.Int64Counter("stale_resets.total",
		metric.WithDescription("Registry resets caused by stale pane references, partitioned by reason"))
	if err != nil {
		return nil, err
	}

	m.Retries, err = meter.Int64Counter("retries.total",
		metric.WithDescription("In-transition retries after a broken invoker reference"))
	if err != nil {
		return nil, err
	}

	m.TopologyInconsistencies, err = meter.Int64Counter("topology_inconsistencies.total",
		metric.WithDescription("Aborted creations where the host placed the new pane in the wrong tab"))
	if err != nil {
		return nil, err
	}

	m.SnapshotErrors, err = meter.Int64Counter("snapshot_errors.total",
		metric.WithDescription("Best-effort snapshot persistence failures, partitioned by op"))
	if err != nil {
		return nil, err
	}

	return m, nil
}

// RecordToggle records a completed toggle transition.
func (m *Metrics) RecordToggle(ctx context.Context, outcome string) {
	if m == nil {
		return
	}
	m.Toggles.Add(ctx, 1, metric.WithAttributes(
		attribute.String("toggle.outcome", outcome),
	))
}

// RecordStaleReset records a stale-reference reset.
func (m *Metrics) RecordStaleReset(ctx context.Context, reason string) {
	if m == nil {
		return
	}
	m.StaleResets.Add(ctx, 1, metric.WithAttributes(
		attribute.String("reset.reason", reason),
	))
}

// RecordRetry records a bounded in-transition retry.
func (m *Metrics) RecordRetry(ctx context.Context) {
	if m == nil {
		return
	}
	m.Retries.Add(ctx, 1)
}

// RecordTopologyInconsistency records an aborted creation.
func (m *Metrics) RecordTopologyInconsistency(ctx context.Context) {
	if m == nil {
		return
	}
	m.TopologyInconsistencies.Add(ctx, 1)
}

// RecordSnapshotError records a snapshot persistence failure.
func (m *Metrics) RecordSnapshotError(ctx context.Context, op string) {
	if m == nil {
		return
	}
	m.SnapshotErrors.Add(ctx, 1, metric.WithAttributes(
		attribute.String("snapshot.op", op),
	))
}
