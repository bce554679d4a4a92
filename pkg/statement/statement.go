// Package statement implements the merchant statement aggregates: a per-day
// line item accumulator and the statement itself, which collects daily
// summaries and moves through a generate, build, email lifecycle.
package statement

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/plaenen/backoffice/pkg/eventsourcing"
	"github.com/shopspring/decimal"
)

// AggregateType is the stream type name for merchant statements.
const AggregateType = "MerchantStatement"

// DailySummary is one day's activity on a statement.
type DailySummary struct {
	ActivityDate     time.Time
	TransactionCount int
	TransactionValue decimal.Decimal
	FeeCount         int
	FeeValue         decimal.Decimal
	DepositsValue    decimal.Decimal
	WithdrawalsValue decimal.Decimal
}

// Aggregate is the merchant statement aggregate root.
type Aggregate struct {
	eventsourcing.AggregateRoot

	statementID  uuid.UUID
	estateID     uuid.UUID
	merchantID   uuid.UUID
	currencyCode string
	isCreated    bool

	summaries    []DailySummary
	summaryDates map[time.Time]struct{}
	isGenerated  bool
	isBuilt      bool
	isEmailed    bool
	document     string
}

// NewAggregate creates an empty statement aggregate with only identity set.
func NewAggregate(id uuid.UUID) *Aggregate {
	return &Aggregate{
		AggregateRoot: eventsourcing.NewAggregateRoot(id.String(), AggregateType),
		statementID:   id,
		summaryDates:  make(map[time.Time]struct{}),
	}
}

// Factory creates an empty aggregate from a stream ID, for repository replay.
func Factory(id string) *Aggregate {
	return NewAggregate(uuid.MustParse(id))
}

// IsCreated reports whether the statement has been created.
func (a *Aggregate) IsCreated() bool { return a.isCreated }

// IsGenerated reports whether the statement contents are frozen.
func (a *Aggregate) IsGenerated() bool { return a.isGenerated }

// IsBuilt reports whether the statement document has been rendered.
func (a *Aggregate) IsBuilt() bool { return a.isBuilt }

// IsEmailed reports whether the statement has been sent.
func (a *Aggregate) IsEmailed() bool { return a.isEmailed }

// MerchantID returns the merchant the statement is for.
func (a *Aggregate) MerchantID() uuid.UUID { return a.merchantID }

// CurrencyCode returns the ISO currency code statements render in.
func (a *Aggregate) CurrencyCode() string { return a.currencyCode }

// Document returns the rendered statement, empty until built.
func (a *Aggregate) Document() string { return a.document }

// Summaries returns a copy of the daily summaries.
func (a *Aggregate) Summaries() []DailySummary {
	summaries := make([]DailySummary, len(a.summaries))
	copy(summaries, a.summaries)
	return summaries
}

// Create opens the statement. Calling Create on a created statement is a
// no-op.
func (a *Aggregate) Create(estateID, merchantID uuid.UUID, currencyCode string) error {
	if a.isCreated {
		return nil
	}
	if estateID == uuid.Nil {
		return eventsourcing.NewValidationError("estate ID is required")
	}
	if merchantID == uuid.Nil {
		return eventsourcing.NewValidationError("merchant ID is required")
	}
	if currencyCode == "" {
		return eventsourcing.NewValidationError("currency code is required")
	}

	return a.raise(&CreatedEvent{
		StatementID:  a.statementID,
		EstateID:     estateID,
		MerchantID:   merchantID,
		CurrencyCode: currencyCode,
	})
}

// AddDailySummaryRecord adds one day's summary. A second summary for the
// same date is an illegal operation.
func (a *Aggregate) AddDailySummaryRecord(summary DailySummary) error {
	if !a.isCreated {
		return eventsourcing.NewInvalidOperationError("statement has not been created")
	}
	if a.isGenerated {
		return eventsourcing.NewInvalidOperationError("statement has already been generated")
	}
	if summary.ActivityDate.IsZero() {
		return eventsourcing.NewValidationError("activity date is required")
	}
	date := dateOnly(summary.ActivityDate)
	if _, ok := a.summaryDates[date]; ok {
		return eventsourcing.NewInvalidOperationError("a summary for %s has already been added", date.Format("2006-01-02"))
	}

	return a.raise(&DailySummaryAddedEvent{
		StatementID:      a.statementID,
		EstateID:         a.estateID,
		MerchantID:       a.merchantID,
		ActivityDate:     date,
		TransactionCount: summary.TransactionCount,
		TransactionValue: summary.TransactionValue,
		FeeCount:         summary.FeeCount,
		FeeValue:         summary.FeeValue,
		DepositsValue:    summary.DepositsValue,
		WithdrawalsValue: summary.WithdrawalsValue,
	})
}

// GenerateStatement freezes the statement. At least one daily summary is
// required and a generated statement cannot be regenerated.
func (a *Aggregate) GenerateStatement(asOf time.Time) error {
	if !a.isCreated {
		return eventsourcing.NewInvalidOperationError("statement has not been created")
	}
	if a.isGenerated {
		return eventsourcing.NewInvalidOperationError("statement has already been generated")
	}
	if len(a.summaries) == 0 {
		return eventsourcing.NewInvalidOperationError("statement has no daily summaries")
	}

	return a.raise(&GeneratedEvent{
		StatementID:       a.statementID,
		EstateID:          a.estateID,
		MerchantID:        a.merchantID,
		GeneratedDateTime: asOf,
	})
}

// BuildStatement renders the generated statement into its document form.
func (a *Aggregate) BuildStatement(asOf time.Time) error {
	if !a.isGenerated {
		return eventsourcing.NewInvalidOperationError("statement has not been generated")
	}
	if a.isBuilt {
		return eventsourcing.NewInvalidOperationError("statement has already been built")
	}

	builder, err := NewBuilder(a.currencyCode)
	if err != nil {
		return eventsourcing.NewValidationError("unsupported currency code %q", a.currencyCode)
	}

	return a.raise(&BuiltEvent{
		StatementID:   a.statementID,
		EstateID:      a.estateID,
		MerchantID:    a.merchantID,
		Document:      builder.Build(a.merchantID, a.summaries),
		BuiltDateTime: asOf,
	})
}

// EmailStatement sends the built statement to the merchant.
func (a *Aggregate) EmailStatement(emailAddress string, asOf time.Time) error {
	if !a.isBuilt {
		return eventsourcing.NewInvalidOperationError("statement has not been built")
	}
	if emailAddress == "" {
		return eventsourcing.NewValidationError("email address is required")
	}

	return a.raise(&EmailedEvent{
		StatementID:     a.statementID,
		EstateID:        a.estateID,
		MerchantID:      a.merchantID,
		EmailAddress:    emailAddress,
		EmailedDateTime: asOf,
	})
}

// raise applies the event through the replay dispatch, then records it.
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
		a.merchantID = e.MerchantID
		a.currencyCode = e.CurrencyCode
		a.isCreated = true
	case *DailySummaryAddedEvent:
		a.summaryDates[e.ActivityDate] = struct{}{}
		a.summaries = append(a.summaries, DailySummary{
			ActivityDate:     e.ActivityDate,
			TransactionCount: e.TransactionCount,
			TransactionValue: e.TransactionValue,
			FeeCount:         e.FeeCount,
			FeeValue:         e.FeeValue,
			DepositsValue:    e.DepositsValue,
			WithdrawalsValue: e.WithdrawalsValue,
		})
	case *GeneratedEvent:
		a.isGenerated = true
	case *BuiltEvent:
		a.document = e.Document
		a.isBuilt = true
	case *EmailedEvent:
		a.isEmailed = true
	default:
		return fmt.Errorf("%w: %s", eventsourcing.ErrUnknownEventType, event.EventType())
	}
	return nil
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
