package estate

import (
	"github.com/google/uuid"
	"github.com/plaenen/backoffice/pkg/eventsourcing"
)

func init() {
	eventsourcing.RegisterEvent(func() eventsourcing.DomainEvent { return &CreatedEvent{} })
	eventsourcing.RegisterEvent(func() eventsourcing.DomainEvent { return &ReferenceAllocatedEvent{} })
	eventsourcing.RegisterEvent(func() eventsourcing.DomainEvent { return &OperatorAddedEvent{} })
	eventsourcing.RegisterEvent(func() eventsourcing.DomainEvent { return &OperatorRemovedEvent{} })
	eventsourcing.RegisterEvent(func() eventsourcing.DomainEvent { return &SecurityUserAddedEvent{} })
}

// CreatedEvent records the creation of an estate.
type CreatedEvent struct {
	EstateID uuid.UUID
	Name     string
}

func (e *CreatedEvent) EventType() string { return "estate.Created" }

// ReferenceAllocatedEvent records the one-time allocation of the estate's
// reference.
type ReferenceAllocatedEvent struct {
	EstateID  uuid.UUID
	Reference string
}

func (e *ReferenceAllocatedEvent) EventType() string { return "estate.ReferenceAllocated" }

// OperatorAddedEvent records an operator association.
type OperatorAddedEvent struct {
	EstateID   uuid.UUID
	OperatorID uuid.UUID
}

func (e *OperatorAddedEvent) EventType() string { return "estate.OperatorAdded" }

// OperatorRemovedEvent records the soft deletion of an operator association.
type OperatorRemovedEvent struct {
	EstateID   uuid.UUID
	OperatorID uuid.UUID
}

func (e *OperatorRemovedEvent) EventType() string { return "estate.OperatorRemoved" }

// SecurityUserAddedEvent records a security user association.
type SecurityUserAddedEvent struct {
	EstateID       uuid.UUID
	SecurityUserID uuid.UUID
	EmailAddress   string
}

func (e *SecurityUserAddedEvent) EventType() string { return "estate.SecurityUserAdded" }
