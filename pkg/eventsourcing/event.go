package eventsourcing

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"
)

// DomainEvent is implemented by every domain event. An event is an immutable
// fact carrying all data needed to reapply the change standalone.
type DomainEvent interface {
	// EventType returns the stable wire name of the event
	// (e.g. "contract.Created", "transaction.MerchantFeeAdded").
	EventType() string
}

// Event is the persisted envelope around a serialized domain event.
type Event struct {
	// ID is the unique, sortable identifier for this event
	ID string

	// AggregateID is the identifier of the aggregate this event belongs to
	AggregateID string

	// AggregateType is the type name of the aggregate (e.g., "Merchant", "Transaction")
	AggregateType string

	// EventType is the stable wire name of the event
	EventType string

	// Version is the version number of the aggregate after applying this event
	Version int64

	// Timestamp is when the event was created
	Timestamp time.Time

	// Data is the serialized JSON payload of the event
	Data []byte

	// Metadata contains additional contextual information
	Metadata EventMetadata
}

// EventMetadata contains contextual information about an event.
type EventMetadata struct {
	// CausationID is the ID of the command that caused this event
	CausationID string

	// CorrelationID is used to trace related events across aggregates
	CorrelationID string

	// PrincipalID is the identifier of the principal who triggered this event
	PrincipalID string
}

// Payload deserializes the envelope's data into its registered domain event.
func (e *Event) Payload() (DomainEvent, error) {
	return UnmarshalEvent(e.EventType, e.Data)
}

var (
	registryMu sync.RWMutex
	registry   = make(map[string]func() DomainEvent)
)

// RegisterEvent registers a factory for an event type so envelopes can be
// deserialized during replay. Aggregate packages call this from init for
// their closed event set. Registering the same type twice panics.
func RegisterEvent(factory func() DomainEvent) {
	event := factory()
	eventType := event.EventType()

	registryMu.Lock()
	defer registryMu.Unlock()

	if _, exists := registry[eventType]; exists {
		panic(fmt.Sprintf("event type %s already registered", eventType))
	}
	registry[eventType] = factory
}

// UnmarshalEvent deserializes an event payload by its registered type name.
// An unregistered type means a corrupt or incompatible stream and fails fast.
func UnmarshalEvent(eventType string, data []byte) (DomainEvent, error) {
	registryMu.RLock()
	factory, exists := registry[eventType]
	registryMu.RUnlock()

	if !exists {
		return nil, fmt.Errorf("%w: %s", ErrUnknownEventType, eventType)
	}

	event := factory()
	if err := json.Unmarshal(data, event); err != nil {
		return nil, fmt.Errorf("failed to unmarshal event %s: %w", eventType, err)
	}

	return event, nil
}
