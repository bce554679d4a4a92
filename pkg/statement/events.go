package statement

import (
	"time"

	"github.com/google/uuid"
	"github.com/plaenen/backoffice/pkg/eventsourcing"
	"github.com/shopspring/decimal"
)

// CreatedEvent is recorded when a statement is opened for a merchant period.
type CreatedEvent struct {
	StatementID  uuid.UUID `json:"statementId"`
	EstateID     uuid.UUID `json:"estateId"`
	MerchantID   uuid.UUID `json:"merchantId"`
	CurrencyCode string    `json:"currencyCode"`
}

func (e *CreatedEvent) EventType() string { return "statement.Created" }

// DailySummaryAddedEvent adds one day's activity summary to the statement.
type DailySummaryAddedEvent struct {
	StatementID      uuid.UUID       `json:"statementId"`
	EstateID         uuid.UUID       `json:"estateId"`
	MerchantID       uuid.UUID       `json:"merchantId"`
	ActivityDate     time.Time       `json:"activityDate"`
	TransactionCount int             `json:"transactionCount"`
	TransactionValue decimal.Decimal `json:"transactionValue"`
	FeeCount         int             `json:"feeCount"`
	FeeValue         decimal.Decimal `json:"feeValue"`
	DepositsValue    decimal.Decimal `json:"depositsValue"`
	WithdrawalsValue decimal.Decimal `json:"withdrawalsValue"`
}

func (e *DailySummaryAddedEvent) EventType() string { return "statement.DailySummaryAdded" }

// GeneratedEvent freezes the statement contents.
type GeneratedEvent struct {
	StatementID       uuid.UUID `json:"statementId"`
	EstateID          uuid.UUID `json:"estateId"`
	MerchantID        uuid.UUID `json:"merchantId"`
	GeneratedDateTime time.Time `json:"generatedDateTime"`
}

func (e *GeneratedEvent) EventType() string { return "statement.Generated" }

// BuiltEvent carries the rendered statement document.
type BuiltEvent struct {
	StatementID   uuid.UUID `json:"statementId"`
	EstateID      uuid.UUID `json:"estateId"`
	MerchantID    uuid.UUID `json:"merchantId"`
	Document      string    `json:"document"`
	BuiltDateTime time.Time `json:"builtDateTime"`
}

func (e *BuiltEvent) EventType() string { return "statement.Built" }

// EmailedEvent is recorded when the built statement is sent.
type EmailedEvent struct {
	StatementID     uuid.UUID `json:"statementId"`
	EstateID        uuid.UUID `json:"estateId"`
	MerchantID      uuid.UUID `json:"merchantId"`
	EmailAddress    string    `json:"emailAddress"`
	EmailedDateTime time.Time `json:"emailedDateTime"`
}

func (e *EmailedEvent) EventType() string { return "statement.Emailed" }

// ForDateCreatedEvent opens a per-day line item accumulator for a merchant.
type ForDateCreatedEvent struct {
	ForDateID    uuid.UUID `json:"forDateId"`
	EstateID     uuid.UUID `json:"estateId"`
	MerchantID   uuid.UUID `json:"merchantId"`
	ActivityDate time.Time `json:"activityDate"`
}

func (e *ForDateCreatedEvent) EventType() string { return "statementfordate.Created" }

// LineAddedEvent adds a single activity line, deduplicated by the source
// event ID and line type.
type LineAddedEvent struct {
	ForDateID     uuid.UUID       `json:"forDateId"`
	EstateID      uuid.UUID       `json:"estateId"`
	MerchantID    uuid.UUID       `json:"merchantId"`
	SourceEventID uuid.UUID       `json:"sourceEventId"`
	LineType      LineType        `json:"lineType"`
	LineDateTime  time.Time       `json:"lineDateTime"`
	Amount        decimal.Decimal `json:"amount"`
}

func (e *LineAddedEvent) EventType() string { return "statementfordate.LineAdded" }

func init() {
	eventsourcing.RegisterEvent(func() eventsourcing.DomainEvent { return &CreatedEvent{} })
	eventsourcing.RegisterEvent(func() eventsourcing.DomainEvent { return &DailySummaryAddedEvent{} })
	eventsourcing.RegisterEvent(func() eventsourcing.DomainEvent { return &GeneratedEvent{} })
	eventsourcing.RegisterEvent(func() eventsourcing.DomainEvent { return &BuiltEvent{} })
	eventsourcing.RegisterEvent(func() eventsourcing.DomainEvent { return &EmailedEvent{} })
	eventsourcing.RegisterEvent(func() eventsourcing.DomainEvent { return &ForDateCreatedEvent{} })
	eventsourcing.RegisterEvent(func() eventsourcing.DomainEvent { return &LineAddedEvent{} })
}
