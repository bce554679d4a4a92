package contract

import (
	"time"

	"github.com/google/uuid"
	"github.com/plaenen/backoffice/pkg/eventsourcing"
	"github.com/shopspring/decimal"
)

func init() {
	eventsourcing.RegisterEvent(func() eventsourcing.DomainEvent { return &CreatedEvent{} })
	eventsourcing.RegisterEvent(func() eventsourcing.DomainEvent { return &FixedValueProductAddedEvent{} })
	eventsourcing.RegisterEvent(func() eventsourcing.DomainEvent { return &VariableValueProductAddedEvent{} })
	eventsourcing.RegisterEvent(func() eventsourcing.DomainEvent { return &TransactionFeeAddedEvent{} })
	eventsourcing.RegisterEvent(func() eventsourcing.DomainEvent { return &TransactionFeeDisabledEvent{} })
}

// CreatedEvent records the creation of a contract for an estate and operator.
type CreatedEvent struct {
	ContractID  uuid.UUID
	EstateID    uuid.UUID
	OperatorID  uuid.UUID
	Description string
	CreatedAt   time.Time
}

func (e *CreatedEvent) EventType() string { return "contract.Created" }

// FixedValueProductAddedEvent records a product with a fixed transaction value.
type FixedValueProductAddedEvent struct {
	ContractID  uuid.UUID
	EstateID    uuid.UUID
	ProductID   uuid.UUID
	Name        string
	DisplayText string
	Value       decimal.Decimal
	ProductType ProductType
}

func (e *FixedValueProductAddedEvent) EventType() string { return "contract.FixedValueProductAdded" }

// VariableValueProductAddedEvent records a product whose value is provided
// per transaction.
type VariableValueProductAddedEvent struct {
	ContractID  uuid.UUID
	EstateID    uuid.UUID
	ProductID   uuid.UUID
	Name        string
	DisplayText string
	ProductType ProductType
}

func (e *VariableValueProductAddedEvent) EventType() string {
	return "contract.VariableValueProductAdded"
}

// TransactionFeeAddedEvent records a fee configured against a product.
type TransactionFeeAddedEvent struct {
	ContractID      uuid.UUID
	EstateID        uuid.UUID
	ProductID       uuid.UUID
	FeeID           uuid.UUID
	Description     string
	CalculationType CalculationType
	FeeType         FeeType
	Value           decimal.Decimal
}

func (e *TransactionFeeAddedEvent) EventType() string { return "contract.TransactionFeeAdded" }

// TransactionFeeDisabledEvent records a fee being disabled. Fees are never
// removed.
type TransactionFeeDisabledEvent struct {
	ContractID uuid.UUID
	EstateID   uuid.UUID
	ProductID  uuid.UUID
	FeeID      uuid.UUID
}

func (e *TransactionFeeDisabledEvent) EventType() string { return "contract.TransactionFeeDisabled" }
