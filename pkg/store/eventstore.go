package store

import (
	"github.com/plaenen/backoffice/pkg/eventsourcing"
)

// EventStore defines the interface for persisting and retrieving events.
type EventStore interface {
	// AppendEvents appends events to an aggregate's stream atomically.
	// Returns eventsourcing.ErrConcurrencyConflict if expectedVersion doesn't
	// match the stream's current version.
	AppendEvents(aggregateID string, expectedVersion int64, events []*eventsourcing.Event) error

	// LoadEvents loads all events for an aggregate starting after afterVersion.
	LoadEvents(aggregateID string, afterVersion int64) ([]*eventsourcing.Event, error)

	// LoadAllEvents loads events from all aggregates in append order,
	// for projection building.
	LoadAllEvents(fromPosition int64, limit int) ([]*eventsourcing.Event, error)

	// GetAggregateVersion returns the current version of an aggregate.
	// Returns 0 if the aggregate doesn't exist.
	GetAggregateVersion(aggregateID string) (int64, error)

	// Close closes the event store and releases resources.
	Close() error
}

// EventPublisher publishes committed events to downstream consumers
// (projections, other services).
type EventPublisher interface {
	Publish(events []*eventsourcing.Event) error
}
