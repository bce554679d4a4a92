// Package reconciliation implements the reconciliation aggregate: a batch
// reconciliation submitted by a device, moving through a strictly linear
// lifecycle of start, totals, authorise or decline, complete.
package reconciliation

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/plaenen/backoffice/pkg/eventsourcing"
	"github.com/plaenen/backoffice/pkg/validators"
	"github.com/shopspring/decimal"
)

// AggregateType is the stream type name for reconciliation aggregates.
const AggregateType = "Reconciliation"

// State enumerates the reconciliation lifecycle positions.
type State int

const (
	StateNotStarted State = iota
	StateStarted
	StateTotalsRecorded
	StateAuthorised
	StateDeclined
	StateCompleted
)

func (s State) String() string {
	switch s {
	case StateNotStarted:
		return "NotStarted"
	case StateStarted:
		return "Started"
	case StateTotalsRecorded:
		return "TotalsRecorded"
	case StateAuthorised:
		return "Authorised"
	case StateDeclined:
		return "Declined"
	case StateCompleted:
		return "Completed"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Aggregate is the reconciliation aggregate root, keyed by the reconciliation
// transaction ID.
type Aggregate struct {
	eventsourcing.AggregateRoot

	transactionID uuid.UUID
	estateID      uuid.UUID
	merchantID    uuid.UUID
	state         State

	transactionCount int
	transactionValue decimal.Decimal

	responseCode    string
	responseMessage string
}

// NewAggregate creates an empty reconciliation aggregate with only identity
// set.
func NewAggregate(transactionID uuid.UUID) *Aggregate {
	return &Aggregate{
		AggregateRoot: eventsourcing.NewAggregateRoot(transactionID.String(), AggregateType),
		transactionID: transactionID,
	}
}

// Factory creates an empty aggregate from a stream ID, for repository replay.
func Factory(id string) *Aggregate {
	return NewAggregate(uuid.MustParse(id))
}

// State returns the current lifecycle position.
func (a *Aggregate) State() State { return a.state }

// EstateID returns the owning estate.
func (a *Aggregate) EstateID() uuid.UUID { return a.estateID }

// MerchantID returns the reconciling merchant.
func (a *Aggregate) MerchantID() uuid.UUID { return a.merchantID }

// TransactionCount returns the recorded batch transaction count.
func (a *Aggregate) TransactionCount() int { return a.transactionCount }

// TransactionValue returns the recorded batch transaction value.
func (a *Aggregate) TransactionValue() decimal.Decimal { return a.transactionValue }

// ResponseCode returns the authorise or decline response code.
func (a *Aggregate) ResponseCode() string { return a.responseCode }

// ResponseMessage returns the authorise or decline response message.
func (a *Aggregate) ResponseMessage() string { return a.responseMessage }

// StartReconciliation begins the reconciliation. A completed reconciliation
// cannot be restarted.
func (a *Aggregate) StartReconciliation(
	transactionDateTime time.Time,
	transactionNumber string,
	estateID uuid.UUID,
	merchantID uuid.UUID,
	deviceIdentifier string,
) error {
	if a.state != StateNotStarted {
		return eventsourcing.NewInvalidOperationError("reconciliation is %s, cannot start", a.state)
	}
	if transactionDateTime.IsZero() {
		return eventsourcing.NewValidationError("transaction date time is required")
	}
	if !validators.IsNumeric(transactionNumber) {
		return eventsourcing.NewValidationError("transaction number %q must be numeric", transactionNumber)
	}
	if estateID == uuid.Nil {
		return eventsourcing.NewValidationError("estate ID is required")
	}
	if merchantID == uuid.Nil {
		return eventsourcing.NewValidationError("merchant ID is required")
	}
	if deviceIdentifier == "" {
		return eventsourcing.NewValidationError("device identifier is required")
	}

	return a.raise(&StartedEvent{
		TransactionID:       a.transactionID,
		EstateID:            estateID,
		MerchantID:          merchantID,
		DeviceIdentifier:    deviceIdentifier,
		TransactionDateTime: transactionDateTime,
		TransactionNumber:   transactionNumber,
	})
}

// RecordOverallTotals records the device-reported batch totals.
func (a *Aggregate) RecordOverallTotals(transactionCount int, transactionValue decimal.Decimal) error {
	if a.state != StateStarted {
		return eventsourcing.NewInvalidOperationError("reconciliation is %s, cannot record totals", a.state)
	}
	if transactionCount < 0 {
		return eventsourcing.NewValidationError("transaction count cannot be negative")
	}
	if transactionValue.IsNegative() {
		return eventsourcing.NewValidationError("transaction value cannot be negative")
	}

	return a.raise(&OverallTotalsRecordedEvent{
		TransactionID:    a.transactionID,
		EstateID:         a.estateID,
		MerchantID:       a.merchantID,
		TransactionCount: transactionCount,
		TransactionValue: transactionValue,
	})
}

// Authorise accepts the recorded totals.
func (a *Aggregate) Authorise(responseCode, responseMessage string) error {
	if a.state != StateTotalsRecorded {
		return eventsourcing.NewInvalidOperationError("reconciliation is %s, cannot authorise", a.state)
	}

	return a.raise(&AuthorisedEvent{
		TransactionID:   a.transactionID,
		EstateID:        a.estateID,
		MerchantID:      a.merchantID,
		ResponseCode:    responseCode,
		ResponseMessage: responseMessage,
	})
}

// Decline rejects the recorded totals.
func (a *Aggregate) Decline(responseCode, responseMessage string) error {
	if a.state != StateTotalsRecorded {
		return eventsourcing.NewInvalidOperationError("reconciliation is %s, cannot decline", a.state)
	}

	return a.raise(&DeclinedEvent{
		TransactionID:   a.transactionID,
		EstateID:        a.estateID,
		MerchantID:      a.merchantID,
		ResponseCode:    responseCode,
		ResponseMessage: responseMessage,
	})
}

// CompleteReconciliation closes an authorised or declined reconciliation.
func (a *Aggregate) CompleteReconciliation() error {
	if a.state != StateAuthorised && a.state != StateDeclined {
		return eventsourcing.NewInvalidOperationError("reconciliation is %s, cannot complete", a.state)
	}

	return a.raise(&CompletedEvent{
		TransactionID:     a.transactionID,
		EstateID:          a.estateID,
		MerchantID:        a.merchantID,
		CompletedDateTime: eventsourcing.Now(),
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
	case *StartedEvent:
		a.estateID = e.EstateID
		a.merchantID = e.MerchantID
		a.state = StateStarted
	case *OverallTotalsRecordedEvent:
		a.transactionCount = e.TransactionCount
		a.transactionValue = e.TransactionValue
		a.state = StateTotalsRecorded
	case *AuthorisedEvent:
		a.responseCode = e.ResponseCode
		a.responseMessage = e.ResponseMessage
		a.state = StateAuthorised
	case *DeclinedEvent:
		a.responseCode = e.ResponseCode
		a.responseMessage = e.ResponseMessage
		a.state = StateDeclined
	case *CompletedEvent:
		a.state = StateCompleted
	default:
		return fmt.Errorf("%w: %s", eventsourcing.ErrUnknownEventType, event.EventType())
	}
	return nil
}
