package reconciliation

import (
	"time"

	"github.com/google/uuid"
	"github.com/plaenen/backoffice/pkg/eventsourcing"
	"github.com/shopspring/decimal"
)

// StartedEvent is recorded when a device submits a reconciliation request.
type StartedEvent struct {
	TransactionID       uuid.UUID `json:"transactionId"`
	EstateID            uuid.UUID `json:"estateId"`
	MerchantID          uuid.UUID `json:"merchantId"`
	DeviceIdentifier    string    `json:"deviceIdentifier"`
	TransactionDateTime time.Time `json:"transactionDateTime"`
	TransactionNumber   string    `json:"transactionNumber"`
}

func (e *StartedEvent) EventType() string { return "reconciliation.Started" }

// OverallTotalsRecordedEvent carries the device-reported batch totals.
type OverallTotalsRecordedEvent struct {
	TransactionID    uuid.UUID       `json:"transactionId"`
	EstateID         uuid.UUID       `json:"estateId"`
	MerchantID       uuid.UUID       `json:"merchantId"`
	TransactionCount int             `json:"transactionCount"`
	TransactionValue decimal.Decimal `json:"transactionValue"`
}

func (e *OverallTotalsRecordedEvent) EventType() string { return "reconciliation.OverallTotalsRecorded" }

// AuthorisedEvent is recorded when the batch totals are accepted.
type AuthorisedEvent struct {
	TransactionID   uuid.UUID `json:"transactionId"`
	EstateID        uuid.UUID `json:"estateId"`
	MerchantID      uuid.UUID `json:"merchantId"`
	ResponseCode    string    `json:"responseCode"`
	ResponseMessage string    `json:"responseMessage"`
}

func (e *AuthorisedEvent) EventType() string { return "reconciliation.Authorised" }

// DeclinedEvent is recorded when the batch totals are rejected.
type DeclinedEvent struct {
	TransactionID   uuid.UUID `json:"transactionId"`
	EstateID        uuid.UUID `json:"estateId"`
	MerchantID      uuid.UUID `json:"merchantId"`
	ResponseCode    string    `json:"responseCode"`
	ResponseMessage string    `json:"responseMessage"`
}

func (e *DeclinedEvent) EventType() string { return "reconciliation.Declined" }

// CompletedEvent closes the reconciliation.
type CompletedEvent struct {
	TransactionID     uuid.UUID `json:"transactionId"`
	EstateID          uuid.UUID `json:"estateId"`
	MerchantID        uuid.UUID `json:"merchantId"`
	CompletedDateTime time.Time `json:"completedDateTime"`
}

func (e *CompletedEvent) EventType() string { return "reconciliation.Completed" }

func init() {
	eventsourcing.RegisterEvent(func() eventsourcing.DomainEvent { return &StartedEvent{} })
	eventsourcing.RegisterEvent(func() eventsourcing.DomainEvent { return &OverallTotalsRecordedEvent{} })
	eventsourcing.RegisterEvent(func() eventsourcing.DomainEvent { return &AuthorisedEvent{} })
	eventsourcing.RegisterEvent(func() eventsourcing.DomainEvent { return &DeclinedEvent{} })
	eventsourcing.RegisterEvent(func() eventsourcing.DomainEvent { return &CompletedEvent{} })
}
