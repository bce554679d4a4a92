package operator

import (
	"github.com/google/uuid"
	"github.com/plaenen/backoffice/pkg/eventsourcing"
)

func init() {
	eventsourcing.RegisterEvent(func() eventsourcing.DomainEvent { return &CreatedEvent{} })
	eventsourcing.RegisterEvent(func() eventsourcing.DomainEvent { return &NameUpdatedEvent{} })
	eventsourcing.RegisterEvent(func() eventsourcing.DomainEvent { return &RequireCustomMerchantNumberChangedEvent{} })
	eventsourcing.RegisterEvent(func() eventsourcing.DomainEvent { return &RequireCustomTerminalNumberChangedEvent{} })
}

// CreatedEvent records the creation of an operator.
type CreatedEvent struct {
	OperatorID                  uuid.UUID
	EstateID                    uuid.UUID
	Name                        string
	RequireCustomMerchantNumber bool
	RequireCustomTerminalNumber bool
}

func (e *CreatedEvent) EventType() string { return "operator.Created" }

// NameUpdatedEvent records an operator rename.
type NameUpdatedEvent struct {
	OperatorID uuid.UUID
	EstateID   uuid.UUID
	Name       string
}

func (e *NameUpdatedEvent) EventType() string { return "operator.NameUpdated" }

// RequireCustomMerchantNumberChangedEvent records a change to the custom
// merchant number requirement.
type RequireCustomMerchantNumberChangedEvent struct {
	OperatorID                  uuid.UUID
	EstateID                    uuid.UUID
	RequireCustomMerchantNumber bool
}

func (e *RequireCustomMerchantNumberChangedEvent) EventType() string {
	return "operator.RequireCustomMerchantNumberChanged"
}

// RequireCustomTerminalNumberChangedEvent records a change to the custom
// terminal number requirement.
type RequireCustomTerminalNumberChangedEvent struct {
	OperatorID                  uuid.UUID
	EstateID                    uuid.UUID
	RequireCustomTerminalNumber bool
}

func (e *RequireCustomTerminalNumberChangedEvent) EventType() string {
	return "operator.RequireCustomTerminalNumberChanged"
}
