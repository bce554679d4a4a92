// Package float implements the float aggregate, the prepaid credit balance
// backing a contract product, and its activity ledger. Each credit purchase
// recomputes a weighted average unit cost price kept at full precision; a
// separate accessor rounds it for display.
package float

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/plaenen/backoffice/pkg/eventsourcing"
	"github.com/shopspring/decimal"
)

// AggregateType is the stream type name for float aggregates.
const AggregateType = "Float"

// unitCostScale is the internal precision kept for the weighted average unit
// cost price.
const unitCostScale = 28

// Aggregate is the float aggregate root.
type Aggregate struct {
	eventsourcing.AggregateRoot

	floatID    uuid.UUID
	estateID   uuid.UUID
	contractID uuid.UUID
	productID  uuid.UUID
	isCreated  bool

	purchaseDateTimes    map[int64]struct{}
	totalCreditPurchases decimal.Decimal
	totalCostPrice       decimal.Decimal
	unitCostPrice        decimal.Decimal
}

// NewAggregate creates an empty float aggregate with only identity set.
func NewAggregate(id uuid.UUID) *Aggregate {
	return &Aggregate{
		AggregateRoot:     eventsourcing.NewAggregateRoot(id.String(), AggregateType),
		floatID:           id,
		purchaseDateTimes: make(map[int64]struct{}),
	}
}

// Factory creates an empty aggregate from a stream ID, for repository replay.
func Factory(id string) *Aggregate {
	return NewAggregate(uuid.MustParse(id))
}

// IsCreated reports whether the float has been created.
func (a *Aggregate) IsCreated() bool { return a.isCreated }

// ContractID returns the contract the float belongs to.
func (a *Aggregate) ContractID() uuid.UUID { return a.contractID }

// ProductID returns the product the float backs.
func (a *Aggregate) ProductID() uuid.UUID { return a.productID }

// TotalCreditPurchases returns the running total of credit purchased.
func (a *Aggregate) TotalCreditPurchases() decimal.Decimal { return a.totalCreditPurchases }

// TotalCostPrice returns the running total spent on credit.
func (a *Aggregate) TotalCostPrice() decimal.Decimal { return a.totalCostPrice }

// UnitCostPrice returns the weighted average unit cost at full internal
// precision. Callers displaying the value should use UnitCostPriceRounded.
func (a *Aggregate) UnitCostPrice() decimal.Decimal { return a.unitCostPrice }

// UnitCostPriceRounded returns the unit cost rounded to four decimal places.
func (a *Aggregate) UnitCostPriceRounded() decimal.Decimal { return a.unitCostPrice.Round(4) }

// CreateFloat opens the float. Creating twice is an illegal operation.
func (a *Aggregate) CreateFloat(estateID, contractID, productID uuid.UUID) error {
	if a.isCreated {
		return eventsourcing.NewInvalidOperationError("float has already been created")
	}
	if estateID == uuid.Nil {
		return eventsourcing.NewValidationError("estate ID is required")
	}
	if contractID == uuid.Nil {
		return eventsourcing.NewValidationError("contract ID is required")
	}
	if productID == uuid.Nil {
		return eventsourcing.NewValidationError("product ID is required")
	}

	return a.raise(&CreatedEvent{
		FloatID:    a.floatID,
		EstateID:   estateID,
		ContractID: contractID,
		ProductID:  productID,
		CreatedAt:  eventsourcing.Now(),
	})
}

// RecordCreditPurchase records a credit purchase and recomputes the weighted
// average unit cost. A purchase with a date time already recorded is an
// illegal operation.
func (a *Aggregate) RecordCreditPurchase(purchaseDateTime time.Time, creditPurchased, costPrice decimal.Decimal) error {
	if !a.isCreated {
		return eventsourcing.NewInvalidOperationError("float has not been created")
	}
	if purchaseDateTime.IsZero() {
		return eventsourcing.NewValidationError("purchase date time is required")
	}
	if creditPurchased.LessThanOrEqual(decimal.Zero) {
		return eventsourcing.NewValidationError("credit purchased must be greater than zero")
	}
	if costPrice.LessThanOrEqual(decimal.Zero) {
		return eventsourcing.NewValidationError("cost price must be greater than zero")
	}
	// Keyed by instant so a replayed purchase in a different zone still dedups.
	if _, ok := a.purchaseDateTimes[purchaseDateTime.UnixNano()]; ok {
		return eventsourcing.NewInvalidOperationError("a credit purchase at %s has already been recorded", purchaseDateTime.Format(time.RFC3339))
	}

	totalCredit := a.totalCreditPurchases.Add(creditPurchased)
	totalCost := a.totalCostPrice.Add(costPrice)
	return a.raise(&CreditPurchaseRecordedEvent{
		FloatID:              a.floatID,
		EstateID:             a.estateID,
		PurchaseDateTime:     purchaseDateTime,
		CreditPurchased:      creditPurchased,
		CostPrice:            costPrice,
		TotalCreditPurchases: totalCredit,
		TotalCostPrice:       totalCost,
		UnitCostPrice:        totalCost.DivRound(totalCredit, unitCostScale),
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
		a.contractID = e.ContractID
		a.productID = e.ProductID
		a.isCreated = true
	case *CreditPurchaseRecordedEvent:
		a.purchaseDateTimes[e.PurchaseDateTime.UnixNano()] = struct{}{}
		a.totalCreditPurchases = e.TotalCreditPurchases
		a.totalCostPrice = e.TotalCostPrice
		a.unitCostPrice = e.UnitCostPrice
	default:
		return fmt.Errorf("%w: %s", eventsourcing.ErrUnknownEventType, event.EventType())
	}
	return nil
}
