package merchant

import (
	"time"

	"github.com/google/uuid"
	"github.com/plaenen/backoffice/pkg/eventsourcing"
)

func init() {
	eventsourcing.RegisterEvent(func() eventsourcing.DomainEvent { return &CreatedEvent{} })
	eventsourcing.RegisterEvent(func() eventsourcing.DomainEvent { return &ReferenceAllocatedEvent{} })
	eventsourcing.RegisterEvent(func() eventsourcing.DomainEvent { return &AddressAddedEvent{} })
	eventsourcing.RegisterEvent(func() eventsourcing.DomainEvent { return &ContactAddedEvent{} })
	eventsourcing.RegisterEvent(func() eventsourcing.DomainEvent { return &OperatorAssignedEvent{} })
	eventsourcing.RegisterEvent(func() eventsourcing.DomainEvent { return &OperatorRemovedEvent{} })
	eventsourcing.RegisterEvent(func() eventsourcing.DomainEvent { return &DeviceAddedEvent{} })
	eventsourcing.RegisterEvent(func() eventsourcing.DomainEvent { return &DeviceSwappedEvent{} })
	eventsourcing.RegisterEvent(func() eventsourcing.DomainEvent { return &ContractAddedEvent{} })
	eventsourcing.RegisterEvent(func() eventsourcing.DomainEvent { return &ContractRemovedEvent{} })
	eventsourcing.RegisterEvent(func() eventsourcing.DomainEvent { return &SecurityUserAddedEvent{} })
	eventsourcing.RegisterEvent(func() eventsourcing.DomainEvent { return &SettlementScheduleChangedEvent{} })
}

// CreatedEvent records the creation of a merchant under an estate.
type CreatedEvent struct {
	MerchantID  uuid.UUID
	EstateID    uuid.UUID
	Name        string
	DateCreated time.Time
}

func (e *CreatedEvent) EventType() string { return "merchant.Created" }

// ReferenceAllocatedEvent records the one-time allocation of the merchant's
// reference.
type ReferenceAllocatedEvent struct {
	MerchantID uuid.UUID
	EstateID   uuid.UUID
	Reference  string
}

func (e *ReferenceAllocatedEvent) EventType() string { return "merchant.ReferenceAllocated" }

// AddressAddedEvent records a new merchant address.
type AddressAddedEvent struct {
	MerchantID   uuid.UUID
	EstateID     uuid.UUID
	AddressID    uuid.UUID
	AddressLine1 string
	AddressLine2 string
	AddressLine3 string
	AddressLine4 string
	Town         string
	Region       string
	PostalCode   string
	Country      string
}

func (e *AddressAddedEvent) EventType() string { return "merchant.AddressAdded" }

// ContactAddedEvent records a new merchant contact.
type ContactAddedEvent struct {
	MerchantID   uuid.UUID
	EstateID     uuid.UUID
	ContactID    uuid.UUID
	Name         string
	PhoneNumber  string
	EmailAddress string
}

func (e *ContactAddedEvent) EventType() string { return "merchant.ContactAdded" }

// OperatorAssignedEvent records an operator assignment.
type OperatorAssignedEvent struct {
	MerchantID     uuid.UUID
	EstateID       uuid.UUID
	OperatorID     uuid.UUID
	Name           string
	MerchantNumber string
	TerminalNumber string
}

func (e *OperatorAssignedEvent) EventType() string { return "merchant.OperatorAssigned" }

// OperatorRemovedEvent records the soft deletion of an operator assignment.
type OperatorRemovedEvent struct {
	MerchantID uuid.UUID
	EstateID   uuid.UUID
	OperatorID uuid.UUID
}

func (e *OperatorRemovedEvent) EventType() string { return "merchant.OperatorRemoved" }

// DeviceAddedEvent records a payment device registration.
type DeviceAddedEvent struct {
	MerchantID       uuid.UUID
	EstateID         uuid.UUID
	DeviceID         uuid.UUID
	DeviceIdentifier string
}

func (e *DeviceAddedEvent) EventType() string { return "merchant.DeviceAdded" }

// DeviceSwappedEvent records a device swap: the original device is disabled
// and the new device added enabled. Both are retained.
type DeviceSwappedEvent struct {
	MerchantID               uuid.UUID
	EstateID                 uuid.UUID
	OriginalDeviceID         uuid.UUID
	NewDeviceID              uuid.UUID
	OriginalDeviceIdentifier string
	NewDeviceIdentifier      string
}

func (e *DeviceSwappedEvent) EventType() string { return "merchant.DeviceSwapped" }

// ContractAddedEvent records a contract association with a snapshot of the
// contract's products at the time of association.
type ContractAddedEvent struct {
	MerchantID uuid.UUID
	EstateID   uuid.UUID
	ContractID uuid.UUID
	ProductIDs []uuid.UUID
}

func (e *ContractAddedEvent) EventType() string { return "merchant.ContractAdded" }

// ContractRemovedEvent records the soft deletion of a contract association.
type ContractRemovedEvent struct {
	MerchantID uuid.UUID
	EstateID   uuid.UUID
	ContractID uuid.UUID
}

func (e *ContractRemovedEvent) EventType() string { return "merchant.ContractRemoved" }

// SecurityUserAddedEvent records a security-user association.
type SecurityUserAddedEvent struct {
	MerchantID     uuid.UUID
	EstateID       uuid.UUID
	SecurityUserID uuid.UUID
	EmailAddress   string
}

func (e *SecurityUserAddedEvent) EventType() string { return "merchant.SecurityUserAdded" }

// SettlementScheduleChangedEvent records a settlement schedule change and the
// recomputed next settlement due date. Setting the same schedule again still
// records an event.
type SettlementScheduleChangedEvent struct {
	MerchantID            uuid.UUID
	EstateID              uuid.UUID
	Schedule              SettlementSchedule
	NextSettlementDueDate time.Time
}

func (e *SettlementScheduleChangedEvent) EventType() string {
	return "merchant.SettlementScheduleChanged"
}
