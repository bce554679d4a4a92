// Package settlement implements the settlement aggregate: a per-merchant,
// per-date batch of merchant fees moving from pending to settled.
package settlement

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/plaenen/backoffice/pkg/contract"
	"github.com/plaenen/backoffice/pkg/eventsourcing"
	"github.com/shopspring/decimal"
)

// AggregateType is the stream type name for settlement aggregates.
const AggregateType = "Settlement"

// feeKey identifies a fee within the batch.
type feeKey struct {
	TransactionID uuid.UUID
	FeeID         uuid.UUID
}

// Fee is a merchant fee tracked by the batch.
type Fee struct {
	TransactionID   uuid.UUID
	FeeID           uuid.UUID
	CalculatedValue decimal.Decimal
	SettledDateTime time.Time
}

// Aggregate is the settlement aggregate root.
type Aggregate struct {
	eventsourcing.AggregateRoot

	settlementID   uuid.UUID
	estateID       uuid.UUID
	merchantID     uuid.UUID
	settlementDate time.Time
	isCreated      bool

	pendingFees map[feeKey]Fee
	settledFees map[feeKey]Fee

	processingStarted         bool
	processingStartedDateTime time.Time
	settlementComplete        bool
	completedDateTime         time.Time
}

// NewAggregate creates an empty settlement aggregate with only identity set.
func NewAggregate(id uuid.UUID) *Aggregate {
	return &Aggregate{
		AggregateRoot: eventsourcing.NewAggregateRoot(id.String(), AggregateType),
		settlementID:  id,
		pendingFees:   make(map[feeKey]Fee),
		settledFees:   make(map[feeKey]Fee),
	}
}

// Factory creates an empty aggregate from a stream ID, for repository replay.
func Factory(id string) *Aggregate {
	return NewAggregate(uuid.MustParse(id))
}

// IsCreated reports whether the batch has been created.
func (a *Aggregate) IsCreated() bool { return a.isCreated }

// EstateID returns the owning estate.
func (a *Aggregate) EstateID() uuid.UUID { return a.estateID }

// MerchantID returns the settling merchant.
func (a *Aggregate) MerchantID() uuid.UUID { return a.merchantID }

// SettlementDate returns the batch date, normalized to midnight UTC.
func (a *Aggregate) SettlementDate() time.Time { return a.settlementDate }

// IsComplete reports whether the batch has completed.
func (a *Aggregate) IsComplete() bool { return a.settlementComplete }

// ProcessingStarted reports whether processing has been started.
func (a *Aggregate) ProcessingStarted() bool { return a.processingStarted }

// ProcessingStartedDateTime returns when processing last started.
func (a *Aggregate) ProcessingStartedDateTime() time.Time { return a.processingStartedDateTime }

// CompletedDateTime returns when the batch last completed.
func (a *Aggregate) CompletedDateTime() time.Time { return a.completedDateTime }

// GetNumberOfFeesPendingSettlement returns the pending fee count.
func (a *Aggregate) GetNumberOfFeesPendingSettlement() int { return len(a.pendingFees) }

// GetNumberOfFeesSettled returns the settled fee count.
func (a *Aggregate) GetNumberOfFeesSettled() int { return len(a.settledFees) }

// Create opens the batch. The settlement date is normalized to date-only.
// Creating an already-created batch is an illegal operation.
func (a *Aggregate) Create(estateID, merchantID uuid.UUID, settlementDate time.Time) error {
	if a.isCreated {
		return eventsourcing.NewInvalidOperationError("settlement has already been created")
	}
	if estateID == uuid.Nil {
		return eventsourcing.NewValidationError("estate ID is required")
	}
	if merchantID == uuid.Nil {
		return eventsourcing.NewValidationError("merchant ID is required")
	}
	if settlementDate.IsZero() {
		return eventsourcing.NewValidationError("settlement date is required")
	}

	return a.raise(&CreatedEvent{
		SettlementID:   a.settlementID,
		EstateID:       estateID,
		MerchantID:     merchantID,
		SettlementDate: dateOnly(settlementDate),
	})
}

// AddFee adds a merchant fee to the pending list. A fee already present in
// either list is silently ignored. Service provider fees are rejected.
func (a *Aggregate) AddFee(transactionID, feeID uuid.UUID, feeType contract.FeeType, calculatedValue decimal.Decimal) error {
	if !a.isCreated {
		return eventsourcing.NewInvalidOperationError("settlement has not been created")
	}
	if feeType != contract.FeeTypeMerchant {
		return eventsourcing.NewValidationError("only merchant fees can be settled, got fee type %d", feeType)
	}
	if transactionID == uuid.Nil {
		return eventsourcing.NewValidationError("transaction ID is required")
	}
	if feeID == uuid.Nil {
		return eventsourcing.NewValidationError("fee ID is required")
	}
	key := feeKey{TransactionID: transactionID, FeeID: feeID}
	if _, ok := a.pendingFees[key]; ok {
		return nil
	}
	if _, ok := a.settledFees[key]; ok {
		return nil
	}

	return a.raise(&MerchantFeeAddedEvent{
		SettlementID:    a.settlementID,
		EstateID:        a.estateID,
		MerchantID:      a.merchantID,
		TransactionID:   transactionID,
		FeeID:           feeID,
		CalculatedValue: calculatedValue,
	})
}

// MarkFeeAsSettled moves a pending fee to the settled list. A missing or
// already-settled fee is a silent no-op. When the last pending fee settles,
// the batch completes automatically.
func (a *Aggregate) MarkFeeAsSettled(merchantID, transactionID, feeID uuid.UUID, settlementDate time.Time) error {
	if !a.isCreated {
		return eventsourcing.NewInvalidOperationError("settlement has not been created")
	}
	if merchantID != a.merchantID {
		return eventsourcing.NewValidationError("merchant %s does not match settlement merchant %s", merchantID, a.merchantID)
	}
	if !dateOnly(settlementDate).Equal(a.settlementDate) {
		return eventsourcing.NewValidationError("settlement date %s does not match batch date %s",
			dateOnly(settlementDate).Format("2006-01-02"), a.settlementDate.Format("2006-01-02"))
	}
	key := feeKey{TransactionID: transactionID, FeeID: feeID}
	if _, ok := a.pendingFees[key]; !ok {
		return nil
	}

	if err := a.raise(&FeeSettledEvent{
		SettlementID:    a.settlementID,
		EstateID:        a.estateID,
		MerchantID:      a.merchantID,
		TransactionID:   transactionID,
		FeeID:           feeID,
		SettledDateTime: eventsourcing.Now(),
	}); err != nil {
		return err
	}

	if len(a.pendingFees) == 0 {
		return a.raise(&CompletedEvent{
			SettlementID:      a.settlementID,
			EstateID:          a.estateID,
			MerchantID:        a.merchantID,
			CompletedDateTime: eventsourcing.Now(),
		})
	}
	return nil
}

// ImmediatelyMarkFeeAsSettled records a fee straight into the settled list,
// for merchants on an immediate settlement schedule. It never completes the
// batch. A fee already present in either list is silently ignored.
func (a *Aggregate) ImmediatelyMarkFeeAsSettled(transactionID, feeID uuid.UUID, feeType contract.FeeType, calculatedValue decimal.Decimal) error {
	if !a.isCreated {
		return eventsourcing.NewInvalidOperationError("settlement has not been created")
	}
	if feeType != contract.FeeTypeMerchant {
		return eventsourcing.NewValidationError("only merchant fees can be settled, got fee type %d", feeType)
	}
	key := feeKey{TransactionID: transactionID, FeeID: feeID}
	if _, ok := a.pendingFees[key]; ok {
		return nil
	}
	if _, ok := a.settledFees[key]; ok {
		return nil
	}

	return a.raise(&FeeImmediatelySettledEvent{
		SettlementID:    a.settlementID,
		EstateID:        a.estateID,
		MerchantID:      a.merchantID,
		TransactionID:   transactionID,
		FeeID:           feeID,
		CalculatedValue: calculatedValue,
		SettledDateTime: eventsourcing.Now(),
	})
}

// StartProcessing marks the batch as picked up. Re-callable, the latest
// timestamp wins.
func (a *Aggregate) StartProcessing(asOf time.Time) error {
	if !a.isCreated {
		return eventsourcing.NewInvalidOperationError("settlement has not been created")
	}

	return a.raise(&ProcessingStartedEvent{
		SettlementID:              a.settlementID,
		EstateID:                  a.estateID,
		MerchantID:                a.merchantID,
		ProcessingStartedDateTime: asOf,
	})
}

// ManuallyComplete forces the batch complete regardless of pending fees.
// Re-callable, the latest timestamp wins.
func (a *Aggregate) ManuallyComplete(asOf time.Time) error {
	if !a.isCreated {
		return eventsourcing.NewInvalidOperationError("settlement has not been created")
	}

	return a.raise(&ManuallyCompletedEvent{
		SettlementID:      a.settlementID,
		EstateID:          a.estateID,
		MerchantID:        a.merchantID,
		CompletedDateTime: asOf,
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
		a.settlementDate = e.SettlementDate
		a.isCreated = true
	case *MerchantFeeAddedEvent:
		key := feeKey{TransactionID: e.TransactionID, FeeID: e.FeeID}
		a.pendingFees[key] = Fee{
			TransactionID:   e.TransactionID,
			FeeID:           e.FeeID,
			CalculatedValue: e.CalculatedValue,
		}
	case *FeeSettledEvent:
		key := feeKey{TransactionID: e.TransactionID, FeeID: e.FeeID}
		fee, ok := a.pendingFees[key]
		if !ok {
			return fmt.Errorf("settlement %s: fee %s/%s settled but never pending", a.settlementID, e.TransactionID, e.FeeID)
		}
		delete(a.pendingFees, key)
		fee.SettledDateTime = e.SettledDateTime
		a.settledFees[key] = fee
	case *FeeImmediatelySettledEvent:
		key := feeKey{TransactionID: e.TransactionID, FeeID: e.FeeID}
		a.settledFees[key] = Fee{
			TransactionID:   e.TransactionID,
			FeeID:           e.FeeID,
			CalculatedValue: e.CalculatedValue,
			SettledDateTime: e.SettledDateTime,
		}
	case *ProcessingStartedEvent:
		a.processingStarted = true
		a.processingStartedDateTime = e.ProcessingStartedDateTime
	case *CompletedEvent:
		a.settlementComplete = true
		a.completedDateTime = e.CompletedDateTime
	case *ManuallyCompletedEvent:
		a.settlementComplete = true
		a.completedDateTime = e.CompletedDateTime
	default:
		return fmt.Errorf("%w: %s", eventsourcing.ErrUnknownEventType, event.EventType())
	}
	return nil
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
