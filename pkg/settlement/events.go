package settlement

import (
	"time"

	"github.com/google/uuid"
	"github.com/plaenen/backoffice/pkg/eventsourcing"
	"github.com/shopspring/decimal"
)

// CreatedEvent is recorded when a settlement batch is opened for a merchant
// and settlement date.
type CreatedEvent struct {
	SettlementID   uuid.UUID `json:"settlementId"`
	EstateID       uuid.UUID `json:"estateId"`
	MerchantID     uuid.UUID `json:"merchantId"`
	SettlementDate time.Time `json:"settlementDate"`
}

func (e *CreatedEvent) EventType() string { return "settlement.Created" }

// MerchantFeeAddedEvent adds a merchant fee to the pending list.
type MerchantFeeAddedEvent struct {
	SettlementID    uuid.UUID       `json:"settlementId"`
	EstateID        uuid.UUID       `json:"estateId"`
	MerchantID      uuid.UUID       `json:"merchantId"`
	TransactionID   uuid.UUID       `json:"transactionId"`
	FeeID           uuid.UUID       `json:"feeId"`
	CalculatedValue decimal.Decimal `json:"calculatedValue"`
}

func (e *MerchantFeeAddedEvent) EventType() string { return "settlement.MerchantFeeAdded" }

// FeeSettledEvent moves a pending fee to the settled list.
type FeeSettledEvent struct {
	SettlementID    uuid.UUID `json:"settlementId"`
	EstateID        uuid.UUID `json:"estateId"`
	MerchantID      uuid.UUID `json:"merchantId"`
	TransactionID   uuid.UUID `json:"transactionId"`
	FeeID           uuid.UUID `json:"feeId"`
	SettledDateTime time.Time `json:"settledDateTime"`
}

func (e *FeeSettledEvent) EventType() string { return "settlement.FeeSettled" }

// FeeImmediatelySettledEvent records a fee straight into the settled list
// without it ever being pending.
type FeeImmediatelySettledEvent struct {
	SettlementID    uuid.UUID       `json:"settlementId"`
	EstateID        uuid.UUID       `json:"estateId"`
	MerchantID      uuid.UUID       `json:"merchantId"`
	TransactionID   uuid.UUID       `json:"transactionId"`
	FeeID           uuid.UUID       `json:"feeId"`
	CalculatedValue decimal.Decimal `json:"calculatedValue"`
	SettledDateTime time.Time       `json:"settledDateTime"`
}

func (e *FeeImmediatelySettledEvent) EventType() string { return "settlement.FeeImmediatelySettled" }

// ProcessingStartedEvent marks the batch as picked up for processing.
type ProcessingStartedEvent struct {
	SettlementID              uuid.UUID `json:"settlementId"`
	EstateID                  uuid.UUID `json:"estateId"`
	MerchantID                uuid.UUID `json:"merchantId"`
	ProcessingStartedDateTime time.Time `json:"processingStartedDateTime"`
}

func (e *ProcessingStartedEvent) EventType() string { return "settlement.ProcessingStarted" }

// CompletedEvent is recorded when the last pending fee settles.
type CompletedEvent struct {
	SettlementID      uuid.UUID `json:"settlementId"`
	EstateID          uuid.UUID `json:"estateId"`
	MerchantID        uuid.UUID `json:"merchantId"`
	CompletedDateTime time.Time `json:"completedDateTime"`
}

func (e *CompletedEvent) EventType() string { return "settlement.Completed" }

// ManuallyCompletedEvent forces the batch complete regardless of pending fees.
type ManuallyCompletedEvent struct {
	SettlementID      uuid.UUID `json:"settlementId"`
	EstateID          uuid.UUID `json:"estateId"`
	MerchantID        uuid.UUID `json:"merchantId"`
	CompletedDateTime time.Time `json:"completedDateTime"`
}

func (e *ManuallyCompletedEvent) EventType() string { return "settlement.ManuallyCompleted" }

func init() {
	eventsourcing.RegisterEvent(func() eventsourcing.DomainEvent { return &CreatedEvent{} })
	eventsourcing.RegisterEvent(func() eventsourcing.DomainEvent { return &MerchantFeeAddedEvent{} })
	eventsourcing.RegisterEvent(func() eventsourcing.DomainEvent { return &FeeSettledEvent{} })
	eventsourcing.RegisterEvent(func() eventsourcing.DomainEvent { return &FeeImmediatelySettledEvent{} })
	eventsourcing.RegisterEvent(func() eventsourcing.DomainEvent { return &ProcessingStartedEvent{} })
	eventsourcing.RegisterEvent(func() eventsourcing.DomainEvent { return &CompletedEvent{} })
	eventsourcing.RegisterEvent(func() eventsourcing.DomainEvent { return &ManuallyCompletedEvent{} })
}
