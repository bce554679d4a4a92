// Package operator implements the operator aggregate: a named payment
// operator/scheme configuration owned by an estate.
package operator

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/plaenen/backoffice/pkg/eventsourcing"
)

// AggregateType is the stream type name for operator aggregates.
const AggregateType = "Operator"

// Aggregate is the operator aggregate root.
type Aggregate struct {
	eventsourcing.AggregateRoot

	operatorID                  uuid.UUID
	estateID                    uuid.UUID
	name                        string
	requireCustomMerchantNumber bool
	requireCustomTerminalNumber bool
	isCreated                   bool
}

// NewAggregate creates an empty operator aggregate with only identity set.
func NewAggregate(id uuid.UUID) *Aggregate {
	return &Aggregate{
		AggregateRoot: eventsourcing.NewAggregateRoot(id.String(), AggregateType),
		operatorID:    id,
	}
}

// Factory creates an empty aggregate from a stream ID, for repository replay.
func Factory(id string) *Aggregate {
	return NewAggregate(uuid.MustParse(id))
}

// IsCreated reports whether the operator has been created.
func (a *Aggregate) IsCreated() bool { return a.isCreated }

// EstateID returns the owning estate.
func (a *Aggregate) EstateID() uuid.UUID { return a.estateID }

// Name returns the operator name.
func (a *Aggregate) Name() string { return a.name }

// RequireCustomMerchantNumber reports whether merchants assigned this
// operator must carry a custom merchant number.
func (a *Aggregate) RequireCustomMerchantNumber() bool { return a.requireCustomMerchantNumber }

// RequireCustomTerminalNumber reports whether merchants assigned this
// operator must carry a custom terminal number.
func (a *Aggregate) RequireCustomTerminalNumber() bool { return a.requireCustomTerminalNumber }

// Create creates the operator. Re-creating an existing operator is an
// illegal operation.
func (a *Aggregate) Create(estateID uuid.UUID, name string, requireCustomMerchantNumber, requireCustomTerminalNumber bool) error {
	if a.isCreated {
		return eventsourcing.NewInvalidOperationError("operator %s has already been created", a.operatorID)
	}
	if estateID == uuid.Nil {
		return eventsourcing.NewValidationError("estate ID is required")
	}
	if name == "" {
		return eventsourcing.NewValidationError("operator name is required")
	}

	return a.raise(&CreatedEvent{
		OperatorID:                  a.operatorID,
		EstateID:                    estateID,
		Name:                        name,
		RequireCustomMerchantNumber: requireCustomMerchantNumber,
		RequireCustomTerminalNumber: requireCustomTerminalNumber,
	})
}

// Update changes the operator configuration. Only fields that actually
// change raise events.
func (a *Aggregate) Update(name string, requireCustomMerchantNumber, requireCustomTerminalNumber bool) error {
	if !a.isCreated {
		return eventsourcing.NewInvalidOperationError("operator has not been created")
	}
	if name == "" {
		return eventsourcing.NewValidationError("operator name is required")
	}

	if name != a.name {
		if err := a.raise(&NameUpdatedEvent{OperatorID: a.operatorID, EstateID: a.estateID, Name: name}); err != nil {
			return err
		}
	}
	if requireCustomMerchantNumber != a.requireCustomMerchantNumber {
		if err := a.raise(&RequireCustomMerchantNumberChangedEvent{
			OperatorID:                  a.operatorID,
			EstateID:                    a.estateID,
			RequireCustomMerchantNumber: requireCustomMerchantNumber,
		}); err != nil {
			return err
		}
	}
	if requireCustomTerminalNumber != a.requireCustomTerminalNumber {
		if err := a.raise(&RequireCustomTerminalNumberChangedEvent{
			OperatorID:                  a.operatorID,
			EstateID:                    a.estateID,
			RequireCustomTerminalNumber: requireCustomTerminalNumber,
		}); err != nil {
			return err
		}
	}

	return nil
}

func (a *Aggregate) raise(event eventsourcing.DomainEvent) error {
	if err := a.ApplyEvent(event); err != nil {
		return err
	}
	return a.Record(event)
}

// ApplyEvent folds a single event into the aggregate state.
func (a *Aggregate) ApplyEvent(event eventsourcing.DomainEvent) error {
	switch e := event.(type) {
	case *CreatedEvent:
		a.estateID = e.EstateID
		a.name = e.Name
		a.requireCustomMerchantNumber = e.RequireCustomMerchantNumber
		a.requireCustomTerminalNumber = e.RequireCustomTerminalNumber
		a.isCreated = true
	case *NameUpdatedEvent:
		a.name = e.Name
	case *RequireCustomMerchantNumberChangedEvent:
		a.requireCustomMerchantNumber = e.RequireCustomMerchantNumber
	case *RequireCustomTerminalNumberChangedEvent:
		a.requireCustomTerminalNumber = e.RequireCustomTerminalNumber
	default:
		return fmt.Errorf("%w: %s", eventsourcing.ErrUnknownEventType, event.EventType())
	}
	return nil
}
