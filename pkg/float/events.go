package float

import (
	"time"

	"github.com/google/uuid"
	"github.com/plaenen/backoffice/pkg/eventsourcing"
	"github.com/shopspring/decimal"
)

// CreatedEvent is recorded when a float is opened for a contract product.
type CreatedEvent struct {
	FloatID    uuid.UUID `json:"floatId"`
	EstateID   uuid.UUID `json:"estateId"`
	ContractID uuid.UUID `json:"contractId"`
	ProductID  uuid.UUID `json:"productId"`
	CreatedAt  time.Time `json:"createdAt"`
}

func (e *CreatedEvent) EventType() string { return "float.Created" }

// CreditPurchaseRecordedEvent records a purchase of prepaid credit and the
// resulting weighted average unit cost.
type CreditPurchaseRecordedEvent struct {
	FloatID              uuid.UUID       `json:"floatId"`
	EstateID             uuid.UUID       `json:"estateId"`
	PurchaseDateTime     time.Time       `json:"purchaseDateTime"`
	CreditPurchased      decimal.Decimal `json:"creditPurchased"`
	CostPrice            decimal.Decimal `json:"costPrice"`
	TotalCreditPurchases decimal.Decimal `json:"totalCreditPurchases"`
	TotalCostPrice       decimal.Decimal `json:"totalCostPrice"`
	UnitCostPrice        decimal.Decimal `json:"unitCostPrice"`
}

func (e *CreditPurchaseRecordedEvent) EventType() string { return "float.CreditPurchaseRecorded" }

// ActivityCreatedEvent is recorded when an activity ledger is opened for a
// float.
type ActivityCreatedEvent struct {
	ActivityID uuid.UUID `json:"activityId"`
	EstateID   uuid.UUID `json:"estateId"`
	FloatID    uuid.UUID `json:"floatId"`
}

func (e *ActivityCreatedEvent) EventType() string { return "floatactivity.Created" }

// CreditRecordedEvent adds a credit line to the activity ledger.
type CreditRecordedEvent struct {
	ActivityID     uuid.UUID       `json:"activityId"`
	EstateID       uuid.UUID       `json:"estateId"`
	CreditID       uuid.UUID       `json:"creditId"`
	CreditDateTime time.Time       `json:"creditDateTime"`
	Amount         decimal.Decimal `json:"amount"`
}

func (e *CreditRecordedEvent) EventType() string { return "floatactivity.CreditRecorded" }

// DebitRecordedEvent adds a debit line to the activity ledger.
type DebitRecordedEvent struct {
	ActivityID    uuid.UUID       `json:"activityId"`
	EstateID      uuid.UUID       `json:"estateId"`
	TransactionID uuid.UUID       `json:"transactionId"`
	DebitDateTime time.Time       `json:"debitDateTime"`
	Amount        decimal.Decimal `json:"amount"`
}

func (e *DebitRecordedEvent) EventType() string { return "floatactivity.DebitRecorded" }

func init() {
	eventsourcing.RegisterEvent(func() eventsourcing.DomainEvent { return &CreatedEvent{} })
	eventsourcing.RegisterEvent(func() eventsourcing.DomainEvent { return &CreditPurchaseRecordedEvent{} })
	eventsourcing.RegisterEvent(func() eventsourcing.DomainEvent { return &ActivityCreatedEvent{} })
	eventsourcing.RegisterEvent(func() eventsourcing.DomainEvent { return &CreditRecordedEvent{} })
	eventsourcing.RegisterEvent(func() eventsourcing.DomainEvent { return &DebitRecordedEvent{} })
}
