// Package merchantdeposit implements the merchant deposit list aggregate: an
// append-only deposit and withdrawal ledger with silent duplicate
// suppression keyed by deposit and withdrawal ID.
package merchantdeposit

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/plaenen/backoffice/pkg/eventsourcing"
	"github.com/shopspring/decimal"
)

// AggregateType is the stream type name for merchant deposit lists.
const AggregateType = "MerchantDepositList"

// DepositSource identifies how a deposit reached the merchant account.
type DepositSource int

const (
	SourceNotSet DepositSource = iota
	SourceManual
	SourceAutomatic
)

// IsValid reports whether the value is a usable deposit source.
func (s DepositSource) IsValid() bool {
	return s == SourceManual || s == SourceAutomatic
}

// Deposit is a single deposit line.
type Deposit struct {
	DepositID       uuid.UUID
	Source          DepositSource
	Reference       string
	DepositDateTime time.Time
	Amount          decimal.Decimal
}

// Withdrawal is a single withdrawal line.
type Withdrawal struct {
	WithdrawalID       uuid.UUID
	WithdrawalDateTime time.Time
	Amount             decimal.Decimal
}

// Aggregate is the merchant deposit list aggregate root.
type Aggregate struct {
	eventsourcing.AggregateRoot

	depositListID uuid.UUID
	estateID      uuid.UUID
	merchantID    uuid.UUID
	isCreated     bool

	deposits    []Deposit
	withdrawals []Withdrawal
}

// NewAggregate creates an empty deposit list with only identity set.
func NewAggregate(id uuid.UUID) *Aggregate {
	return &Aggregate{
		AggregateRoot: eventsourcing.NewAggregateRoot(id.String(), AggregateType),
		depositListID: id,
	}
}

// Factory creates an empty aggregate from a stream ID, for repository replay.
func Factory(id string) *Aggregate {
	return NewAggregate(uuid.MustParse(id))
}

// IsCreated reports whether the deposit list has been created.
func (a *Aggregate) IsCreated() bool { return a.isCreated }

// MerchantID returns the merchant the ledger belongs to.
func (a *Aggregate) MerchantID() uuid.UUID { return a.merchantID }

// Deposits returns a copy of the deposit lines.
func (a *Aggregate) Deposits() []Deposit {
	deposits := make([]Deposit, len(a.deposits))
	copy(deposits, a.deposits)
	return deposits
}

// Withdrawals returns a copy of the withdrawal lines.
func (a *Aggregate) Withdrawals() []Withdrawal {
	withdrawals := make([]Withdrawal, len(a.withdrawals))
	copy(withdrawals, a.withdrawals)
	return withdrawals
}

// Create opens the ledger. Calling Create on a created ledger is a no-op.
func (a *Aggregate) Create(estateID, merchantID uuid.UUID) error {
	if a.isCreated {
		return nil
	}
	if estateID == uuid.Nil {
		return eventsourcing.NewValidationError("estate ID is required")
	}
	if merchantID == uuid.Nil {
		return eventsourcing.NewValidationError("merchant ID is required")
	}

	return a.raise(&CreatedEvent{
		DepositListID: a.depositListID,
		EstateID:      estateID,
		MerchantID:    merchantID,
	})
}

// RecordDeposit adds a deposit line. A deposit ID already recorded is
// silently ignored.
func (a *Aggregate) RecordDeposit(depositID uuid.UUID, source DepositSource, reference string, depositDateTime time.Time, amount decimal.Decimal) error {
	if !a.isCreated {
		return eventsourcing.NewInvalidOperationError("merchant deposit list has not been created")
	}
	if depositID == uuid.Nil {
		return eventsourcing.NewValidationError("deposit ID is required")
	}
	if !source.IsValid() {
		return eventsourcing.NewValidationError("invalid deposit source %d", source)
	}
	if reference == "" {
		return eventsourcing.NewValidationError("deposit reference is required")
	}
	if depositDateTime.IsZero() {
		return eventsourcing.NewValidationError("deposit date time is required")
	}
	if amount.LessThanOrEqual(decimal.Zero) {
		return eventsourcing.NewValidationError("deposit amount must be greater than zero")
	}
	for _, deposit := range a.deposits {
		if deposit.DepositID == depositID {
			return nil
		}
	}

	return a.raise(&DepositRecordedEvent{
		DepositListID:   a.depositListID,
		EstateID:        a.estateID,
		MerchantID:      a.merchantID,
		DepositID:       depositID,
		Source:          source,
		Reference:       reference,
		DepositDateTime: depositDateTime,
		Amount:          amount,
	})
}

// RecordWithdrawal adds a withdrawal line. A withdrawal ID already recorded
// is silently ignored.
func (a *Aggregate) RecordWithdrawal(withdrawalID uuid.UUID, withdrawalDateTime time.Time, amount decimal.Decimal) error {
	if !a.isCreated {
		return eventsourcing.NewInvalidOperationError("merchant deposit list has not been created")
	}
	if withdrawalID == uuid.Nil {
		return eventsourcing.NewValidationError("withdrawal ID is required")
	}
	if withdrawalDateTime.IsZero() {
		return eventsourcing.NewValidationError("withdrawal date time is required")
	}
	if amount.LessThanOrEqual(decimal.Zero) {
		return eventsourcing.NewValidationError("withdrawal amount must be greater than zero")
	}
	for _, withdrawal := range a.withdrawals {
		if withdrawal.WithdrawalID == withdrawalID {
			return nil
		}
	}

	return a.raise(&WithdrawalRecordedEvent{
		DepositListID:      a.depositListID,
		EstateID:           a.estateID,
		MerchantID:         a.merchantID,
		WithdrawalID:       withdrawalID,
		WithdrawalDateTime: withdrawalDateTime,
		Amount:             amount,
	})
}

// raise applies the event through the replay dispatch, then records it.
func (a *Aggregate) raise(event eventsourcing.DomainEvent) error {
	if err := a.ApplyEvent(event); err != nil {
		return err
	}
	return a.Record(event)
}

// ApplyEvent folds a single event into the ledger state.
func (a *Aggregate) ApplyEvent(event eventsourcing.DomainEvent) error {
	switch e := event.(type) {
	case *CreatedEvent:
		a.estateID = e.EstateID
		a.merchantID = e.MerchantID
		a.isCreated = true
	case *DepositRecordedEvent:
		a.deposits = append(a.deposits, Deposit{
			DepositID:       e.DepositID,
			Source:          e.Source,
			Reference:       e.Reference,
			DepositDateTime: e.DepositDateTime,
			Amount:          e.Amount,
		})
	case *WithdrawalRecordedEvent:
		a.withdrawals = append(a.withdrawals, Withdrawal{
			WithdrawalID:       e.WithdrawalID,
			WithdrawalDateTime: e.WithdrawalDateTime,
			Amount:             e.Amount,
		})
	default:
		return fmt.Errorf("%w: %s", eventsourcing.ErrUnknownEventType, event.EventType())
	}
	return nil
}
