package float

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/plaenen/backoffice/pkg/eventsourcing"
	"github.com/shopspring/decimal"
)

// ActivityAggregateType is the stream type name for float activity ledgers.
const ActivityAggregateType = "FloatActivity"

// ActivityAggregate is the debit and credit ledger for a float. Lines are
// keyed by an external correlation ID and duplicates are silently ignored.
type ActivityAggregate struct {
	eventsourcing.AggregateRoot

	activityID uuid.UUID
	estateID   uuid.UUID
	floatID    uuid.UUID
	isCreated  bool

	creditIDs map[uuid.UUID]struct{}
	debitIDs  map[uuid.UUID]struct{}

	totalCredits decimal.Decimal
	totalDebits  decimal.Decimal
}

// NewActivityAggregate creates an empty ledger with only identity set.
func NewActivityAggregate(id uuid.UUID) *ActivityAggregate {
	return &ActivityAggregate{
		AggregateRoot: eventsourcing.NewAggregateRoot(id.String(), ActivityAggregateType),
		activityID:    id,
		creditIDs:     make(map[uuid.UUID]struct{}),
		debitIDs:      make(map[uuid.UUID]struct{}),
	}
}

// ActivityFactory creates an empty ledger from a stream ID, for repository
// replay.
func ActivityFactory(id string) *ActivityAggregate {
	return NewActivityAggregate(uuid.MustParse(id))
}

// IsCreated reports whether the ledger has been created.
func (a *ActivityAggregate) IsCreated() bool { return a.isCreated }

// FloatID returns the float the ledger belongs to.
func (a *ActivityAggregate) FloatID() uuid.UUID { return a.floatID }

// TotalCredits returns the sum of credit lines.
func (a *ActivityAggregate) TotalCredits() decimal.Decimal { return a.totalCredits }

// TotalDebits returns the sum of debit lines.
func (a *ActivityAggregate) TotalDebits() decimal.Decimal { return a.totalDebits }

// Balance returns credits less debits.
func (a *ActivityAggregate) Balance() decimal.Decimal { return a.totalCredits.Sub(a.totalDebits) }

// Create opens the ledger. Calling Create on a created ledger is a no-op.
func (a *ActivityAggregate) Create(estateID, floatID uuid.UUID) error {
	if a.isCreated {
		return nil
	}
	if estateID == uuid.Nil {
		return eventsourcing.NewValidationError("estate ID is required")
	}
	if floatID == uuid.Nil {
		return eventsourcing.NewValidationError("float ID is required")
	}

	return a.raise(&ActivityCreatedEvent{
		ActivityID: a.activityID,
		EstateID:   estateID,
		FloatID:    floatID,
	})
}

// RecordCredit adds a credit line. A credit ID already recorded is silently
// ignored.
func (a *ActivityAggregate) RecordCredit(creditID uuid.UUID, creditDateTime time.Time, amount decimal.Decimal) error {
	if !a.isCreated {
		return eventsourcing.NewInvalidOperationError("float activity has not been created")
	}
	if creditID == uuid.Nil {
		return eventsourcing.NewValidationError("credit ID is required")
	}
	if amount.LessThanOrEqual(decimal.Zero) {
		return eventsourcing.NewValidationError("credit amount must be greater than zero")
	}
	if _, ok := a.creditIDs[creditID]; ok {
		return nil
	}

	return a.raise(&CreditRecordedEvent{
		ActivityID:     a.activityID,
		EstateID:       a.estateID,
		CreditID:       creditID,
		CreditDateTime: creditDateTime,
		Amount:         amount,
	})
}

// RecordDebit adds a debit line for a transaction. A transaction ID already
// recorded is silently ignored.
func (a *ActivityAggregate) RecordDebit(transactionID uuid.UUID, debitDateTime time.Time, amount decimal.Decimal) error {
	if !a.isCreated {
		return eventsourcing.NewInvalidOperationError("float activity has not been created")
	}
	if transactionID == uuid.Nil {
		return eventsourcing.NewValidationError("transaction ID is required")
	}
	if amount.LessThanOrEqual(decimal.Zero) {
		return eventsourcing.NewValidationError("debit amount must be greater than zero")
	}
	if _, ok := a.debitIDs[transactionID]; ok {
		return nil
	}

	return a.raise(&DebitRecordedEvent{
		ActivityID:    a.activityID,
		EstateID:      a.estateID,
		TransactionID: transactionID,
		DebitDateTime: debitDateTime,
		Amount:        amount,
	})
}

// raise applies the event through the replay dispatch, then records it.
func (a *ActivityAggregate) raise(event eventsourcing.DomainEvent) error {
	if err := a.ApplyEvent(event); err != nil {
		return err
	}
	return a.Record(event)
}

// ApplyEvent folds a single event into the ledger state.
func (a *ActivityAggregate) ApplyEvent(event eventsourcing.DomainEvent) error {
	switch e := event.(type) {
	case *ActivityCreatedEvent:
		a.estateID = e.EstateID
		a.floatID = e.FloatID
		a.isCreated = true
	case *CreditRecordedEvent:
		a.creditIDs[e.CreditID] = struct{}{}
		a.totalCredits = a.totalCredits.Add(e.Amount)
	case *DebitRecordedEvent:
		a.debitIDs[e.TransactionID] = struct{}{}
		a.totalDebits = a.totalDebits.Add(e.Amount)
	default:
		return fmt.Errorf("%w: %s", eventsourcing.ErrUnknownEventType, event.EventType())
	}
	return nil
}
