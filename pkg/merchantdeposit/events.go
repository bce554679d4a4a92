package merchantdeposit

import (
	"time"

	"github.com/google/uuid"
	"github.com/plaenen/backoffice/pkg/eventsourcing"
	"github.com/shopspring/decimal"
)

// CreatedEvent is recorded when a deposit list is opened for a merchant.
type CreatedEvent struct {
	DepositListID uuid.UUID `json:"depositListId"`
	EstateID      uuid.UUID `json:"estateId"`
	MerchantID    uuid.UUID `json:"merchantId"`
}

func (e *CreatedEvent) EventType() string { return "merchantdeposit.Created" }

// DepositRecordedEvent adds a deposit to the ledger.
type DepositRecordedEvent struct {
	DepositListID   uuid.UUID       `json:"depositListId"`
	EstateID        uuid.UUID       `json:"estateId"`
	MerchantID      uuid.UUID       `json:"merchantId"`
	DepositID       uuid.UUID       `json:"depositId"`
	Source          DepositSource   `json:"source"`
	Reference       string          `json:"reference"`
	DepositDateTime time.Time       `json:"depositDateTime"`
	Amount          decimal.Decimal `json:"amount"`
}

func (e *DepositRecordedEvent) EventType() string { return "merchantdeposit.DepositRecorded" }

// WithdrawalRecordedEvent adds a withdrawal to the ledger.
type WithdrawalRecordedEvent struct {
	DepositListID      uuid.UUID       `json:"depositListId"`
	EstateID           uuid.UUID       `json:"estateId"`
	MerchantID         uuid.UUID       `json:"merchantId"`
	WithdrawalID       uuid.UUID       `json:"withdrawalId"`
	WithdrawalDateTime time.Time       `json:"withdrawalDateTime"`
	Amount             decimal.Decimal `json:"amount"`
}

func (e *WithdrawalRecordedEvent) EventType() string { return "merchantdeposit.WithdrawalRecorded" }

func init() {
	eventsourcing.RegisterEvent(func() eventsourcing.DomainEvent { return &CreatedEvent{} })
	eventsourcing.RegisterEvent(func() eventsourcing.DomainEvent { return &DepositRecordedEvent{} })
	eventsourcing.RegisterEvent(func() eventsourcing.DomainEvent { return &WithdrawalRecordedEvent{} })
}
