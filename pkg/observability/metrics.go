package observability

import (
	"fmt"

	"go.opentelemetry.io/otel/metric"
)

// Metrics holds the metric instruments recorded by the aggregate repositories.
type Metrics struct {
	// AggregateLoads counts aggregates rebuilt from history.
	AggregateLoads metric.Int64Counter

	// RepositorySaves counts successful repository saves.
	RepositorySaves metric.Int64Counter

	// EventsAppended counts events appended to the event store.
	EventsAppended metric.Int64Counter

	// EventsPublished counts events published to the event bus.
	EventsPublished metric.Int64Counter

	// ConcurrencyConflicts counts optimistic concurrency conflicts on save.
	ConcurrencyConflicts metric.Int64Counter
}

// NewMetrics creates all metric instruments on the given meter.
func NewMetrics(meter metric.Meter) (*Metrics, error) {
	m := &Metrics{}
	var err error

	m.AggregateLoads, err = meter.Int64Counter(
		"backoffice.aggregate.loads",
		metric.WithDescription("Aggregates rebuilt from event history"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating aggregate.loads: %w", err)
	}

	m.RepositorySaves, err = meter.Int64Counter(
		"backoffice.repository.saves",
		metric.WithDescription("Successful repository saves"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating repository.saves: %w", err)
	}

	m.EventsAppended, err = meter.Int64Counter(
		"backoffice.events.appended",
		metric.WithDescription("Events appended to the event store"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating events.appended: %w", err)
	}

	m.EventsPublished, err = meter.Int64Counter(
		"backoffice.events.published",
		metric.WithDescription("Events published to the event bus"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating events.published: %w", err)
	}

	m.ConcurrencyConflicts, err = meter.Int64Counter(
		"backoffice.repository.conflicts",
		metric.WithDescription("Optimistic concurrency conflicts on save"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating repository.conflicts: %w", err)
	}

	return m, nil
}
