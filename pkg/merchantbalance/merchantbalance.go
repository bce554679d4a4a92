// Package merchantbalance implements the merchant balance aggregate: running
// activity counters and a net balance per merchant. Every record command is
// keyed by an external correlation ID and silently ignores duplicates, so the
// same upstream event can be applied more than once without drift.
//
// The balance moves as deposits + settled merchant fees - withdrawals -
// authorised sales. Declined sales are counted but never move the balance.
package merchantbalance

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/plaenen/backoffice/pkg/eventsourcing"
	"github.com/shopspring/decimal"
)

// AggregateType is the stream type name for merchant balance aggregates.
const AggregateType = "MerchantBalance"

// Counter is a running activity tally.
type Counter struct {
	Count        int
	Value        decimal.Decimal
	LastActivity time.Time
}

func (c *Counter) record(dateTime time.Time, amount decimal.Decimal) {
	c.Count++
	c.Value = c.Value.Add(amount)
	if dateTime.After(c.LastActivity) {
		c.LastActivity = dateTime
	}
}

// Aggregate is the merchant balance aggregate root.
type Aggregate struct {
	eventsourcing.AggregateRoot

	balanceID  uuid.UUID
	estateID   uuid.UUID
	merchantID uuid.UUID
	isCreated  bool

	seen map[uuid.UUID]struct{}

	authorisedSales Counter
	declinedSales   Counter
	deposits        Counter
	withdrawals     Counter
	fees            Counter

	balance decimal.Decimal
}

// NewAggregate creates an empty balance aggregate with only identity set.
func NewAggregate(id uuid.UUID) *Aggregate {
	return &Aggregate{
		AggregateRoot: eventsourcing.NewAggregateRoot(id.String(), AggregateType),
		balanceID:     id,
		seen:          make(map[uuid.UUID]struct{}),
	}
}

// Factory creates an empty aggregate from a stream ID, for repository replay.
func Factory(id string) *Aggregate {
	return NewAggregate(uuid.MustParse(id))
}

// IsCreated reports whether the balance has been created.
func (a *Aggregate) IsCreated() bool { return a.isCreated }

// MerchantID returns the merchant the balance belongs to.
func (a *Aggregate) MerchantID() uuid.UUID { return a.merchantID }

// Balance returns the net balance.
func (a *Aggregate) Balance() decimal.Decimal { return a.balance }

// AuthorisedSales returns the authorised sale counter.
func (a *Aggregate) AuthorisedSales() Counter { return a.authorisedSales }

// DeclinedSales returns the declined sale counter.
func (a *Aggregate) DeclinedSales() Counter { return a.declinedSales }

// Deposits returns the deposit counter.
func (a *Aggregate) Deposits() Counter { return a.deposits }

// Withdrawals returns the withdrawal counter.
func (a *Aggregate) Withdrawals() Counter { return a.withdrawals }

// Fees returns the settled merchant fee counter.
func (a *Aggregate) Fees() Counter { return a.fees }

// Create opens the balance. Calling Create on a created balance is a no-op.
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
		BalanceID:  a.balanceID,
		EstateID:   estateID,
		MerchantID: merchantID,
	})
}

// RecordAuthorisedSale records a sale and decreases the balance. A
// transaction ID already recorded is silently ignored.
func (a *Aggregate) RecordAuthorisedSale(transactionID uuid.UUID, saleDateTime time.Time, amount decimal.Decimal) error {
	if err := a.validateActivity(transactionID, amount); err != nil {
		return err
	}
	if a.isDuplicate(transactionID) {
		return nil
	}

	return a.raise(&AuthorisedSaleRecordedEvent{
		BalanceID:     a.balanceID,
		EstateID:      a.estateID,
		MerchantID:    a.merchantID,
		TransactionID: transactionID,
		SaleDateTime:  saleDateTime,
		Amount:        amount,
	})
}

// RecordDeclinedSale counts a declined sale. The balance is unchanged.
func (a *Aggregate) RecordDeclinedSale(transactionID uuid.UUID, saleDateTime time.Time, amount decimal.Decimal) error {
	if err := a.validateActivity(transactionID, amount); err != nil {
		return err
	}
	if a.isDuplicate(transactionID) {
		return nil
	}

	return a.raise(&DeclinedSaleRecordedEvent{
		BalanceID:     a.balanceID,
		EstateID:      a.estateID,
		MerchantID:    a.merchantID,
		TransactionID: transactionID,
		SaleDateTime:  saleDateTime,
		Amount:        amount,
	})
}

// RecordDeposit records a deposit and increases the balance.
func (a *Aggregate) RecordDeposit(depositID uuid.UUID, depositDateTime time.Time, amount decimal.Decimal) error {
	if err := a.validateActivity(depositID, amount); err != nil {
		return err
	}
	if a.isDuplicate(depositID) {
		return nil
	}

	return a.raise(&DepositRecordedEvent{
		BalanceID:       a.balanceID,
		EstateID:        a.estateID,
		MerchantID:      a.merchantID,
		DepositID:       depositID,
		DepositDateTime: depositDateTime,
		Amount:          amount,
	})
}

// RecordWithdrawal records a withdrawal and decreases the balance.
func (a *Aggregate) RecordWithdrawal(withdrawalID uuid.UUID, withdrawalDateTime time.Time, amount decimal.Decimal) error {
	if err := a.validateActivity(withdrawalID, amount); err != nil {
		return err
	}
	if a.isDuplicate(withdrawalID) {
		return nil
	}

	return a.raise(&WithdrawalRecordedEvent{
		BalanceID:          a.balanceID,
		EstateID:           a.estateID,
		MerchantID:         a.merchantID,
		WithdrawalID:       withdrawalID,
		WithdrawalDateTime: withdrawalDateTime,
		Amount:             amount,
	})
}

// RecordMerchantFee records a settled merchant fee and increases the balance.
func (a *Aggregate) RecordMerchantFee(feeID uuid.UUID, feeDateTime time.Time, amount decimal.Decimal) error {
	if err := a.validateActivity(feeID, amount); err != nil {
		return err
	}
	if a.isDuplicate(feeID) {
		return nil
	}

	return a.raise(&MerchantFeeRecordedEvent{
		BalanceID:   a.balanceID,
		EstateID:    a.estateID,
		MerchantID:  a.merchantID,
		FeeID:       feeID,
		FeeDateTime: feeDateTime,
		Amount:      amount,
	})
}

func (a *Aggregate) validateActivity(correlationID uuid.UUID, amount decimal.Decimal) error {
	if !a.isCreated {
		return eventsourcing.NewInvalidOperationError("merchant balance has not been created")
	}
	if correlationID == uuid.Nil {
		return eventsourcing.NewValidationError("correlation ID is required")
	}
	if amount.IsNegative() {
		return eventsourcing.NewValidationError("amount cannot be negative")
	}
	return nil
}

func (a *Aggregate) isDuplicate(correlationID uuid.UUID) bool {
	_, ok := a.seen[correlationID]
	return ok
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
		a.isCreated = true
	case *AuthorisedSaleRecordedEvent:
		a.seen[e.TransactionID] = struct{}{}
		a.authorisedSales.record(e.SaleDateTime, e.Amount)
		a.balance = a.balance.Sub(e.Amount)
	case *DeclinedSaleRecordedEvent:
		a.seen[e.TransactionID] = struct{}{}
		a.declinedSales.record(e.SaleDateTime, e.Amount)
	case *DepositRecordedEvent:
		a.seen[e.DepositID] = struct{}{}
		a.deposits.record(e.DepositDateTime, e.Amount)
		a.balance = a.balance.Add(e.Amount)
	case *WithdrawalRecordedEvent:
		a.seen[e.WithdrawalID] = struct{}{}
		a.withdrawals.record(e.WithdrawalDateTime, e.Amount)
		a.balance = a.balance.Sub(e.Amount)
	case *MerchantFeeRecordedEvent:
		a.seen[e.FeeID] = struct{}{}
		a.fees.record(e.FeeDateTime, e.Amount)
		a.balance = a.balance.Add(e.Amount)
	default:
		return fmt.Errorf("%w: %s", eventsourcing.ErrUnknownEventType, event.EventType())
	}
	return nil
}
