package eventsourcing

import (
	"encoding/json"
	"fmt"

	"github.com/plaenen/backoffice/pkg/idgen"
)

// Aggregate defines the interface that all aggregates must implement.
type Aggregate interface {
	// ID returns the unique identifier of the aggregate.
	ID() string

	// Type returns the type name of the aggregate.
	Type() string

	// Version returns the current version of the aggregate.
	Version() int64

	// ApplyEvent applies a domain event to the aggregate's state.
	// The same dispatch is used for replay and for live command application.
	ApplyEvent(event DomainEvent) error

	// UncommittedEvents returns events that have been applied but not yet persisted.
	UncommittedEvents() []*Event

	// ClearUncommittedEvents clears the uncommitted events after they've been persisted.
	ClearUncommittedEvents()
}

// AggregateRoot provides base functionality for all aggregates.
// Use this as an embedded type in your aggregate implementations.
type AggregateRoot struct {
	id                string
	aggregateType     string
	version           int64
	uncommittedEvents []*Event
}

// NewAggregateRoot creates a new aggregate root with the given ID and type.
func NewAggregateRoot(id, aggregateType string) AggregateRoot {
	return AggregateRoot{
		id:                id,
		aggregateType:     aggregateType,
		version:           0,
		uncommittedEvents: make([]*Event, 0),
	}
}

// ID returns the aggregate's unique identifier.
func (a *AggregateRoot) ID() string {
	return a.id
}

// Type returns the aggregate's type name.
func (a *AggregateRoot) Type() string {
	return a.aggregateType
}

// Version returns the aggregate's current version.
func (a *AggregateRoot) Version() int64 {
	return a.version
}

// UncommittedEvents returns events that haven't been persisted yet.
func (a *AggregateRoot) UncommittedEvents() []*Event {
	return a.uncommittedEvents
}

// ClearUncommittedEvents clears the uncommitted events list.
func (a *AggregateRoot) ClearUncommittedEvents() {
	a.uncommittedEvents = make([]*Event, 0)
}

// Record wraps a new domain event in an envelope and appends it to the
// uncommitted list. The caller must have already applied the event to its
// in-memory state through the same handler used during replay, so that state
// after N live commands equals state after replaying the N resulting events.
func (a *AggregateRoot) Record(event DomainEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event %s: %w", event.EventType(), err)
	}

	evt := &Event{
		ID:            idgen.MustGenerateSortableID(),
		AggregateID:   a.id,
		AggregateType: a.aggregateType,
		EventType:     event.EventType(),
		Version:       a.version + 1,
		Timestamp:     Now(),
		Data:          data,
	}

	a.uncommittedEvents = append(a.uncommittedEvents, evt)
	a.version++

	return nil
}

// LoadFromHistory advances the aggregate version to match a replayed history.
// The event payloads themselves are applied by the repository through
// ApplyEvent before this is called.
func (a *AggregateRoot) LoadFromHistory(events []*Event) error {
	for _, evt := range events {
		if evt.Version <= a.version {
			continue
		}
		a.version = evt.Version
	}
	return nil
}
