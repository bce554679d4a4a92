// Package contract implements the contract aggregate: a commercial contract
// owned by an estate and operator, holding a collection of products and their
// transaction fees.
package contract

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/plaenen/backoffice/pkg/eventsourcing"
	"github.com/shopspring/decimal"
)

// AggregateType is the stream type name for contract aggregates.
const AggregateType = "Contract"

// Aggregate is the contract aggregate root.
type Aggregate struct {
	eventsourcing.AggregateRoot

	contractID  uuid.UUID
	estateID    uuid.UUID
	operatorID  uuid.UUID
	description string
	isCreated   bool
	products    []Product
}

// NewAggregate creates an empty contract aggregate with only identity set.
func NewAggregate(id uuid.UUID) *Aggregate {
	return &Aggregate{
		AggregateRoot: eventsourcing.NewAggregateRoot(id.String(), AggregateType),
		contractID:    id,
	}
}

// Factory creates an empty aggregate from a stream ID, for repository replay.
func Factory(id string) *Aggregate {
	return NewAggregate(uuid.MustParse(id))
}

// IsCreated reports whether the contract has been created.
func (a *Aggregate) IsCreated() bool { return a.isCreated }

// EstateID returns the owning estate.
func (a *Aggregate) EstateID() uuid.UUID { return a.estateID }

// OperatorID returns the operator the contract is for.
func (a *Aggregate) OperatorID() uuid.UUID { return a.operatorID }

// Description returns the contract description.
func (a *Aggregate) Description() string { return a.description }

// Products returns a copy of the contract's products.
func (a *Aggregate) Products() []Product {
	products := make([]Product, len(a.products))
	copy(products, a.products)
	for i := range products {
		fees := make([]TransactionFee, len(a.products[i].TransactionFees))
		copy(fees, a.products[i].TransactionFees)
		products[i].TransactionFees = fees
	}
	return products
}

// GetProduct returns the product with the given ID, if present.
func (a *Aggregate) GetProduct(productID uuid.UUID) (Product, bool) {
	for _, product := range a.products {
		if product.ProductID == productID {
			return product, true
		}
	}
	return Product{}, false
}

// Create creates the contract. Calling Create on an already-created contract
// is a no-op.
func (a *Aggregate) Create(estateID, operatorID uuid.UUID, description string) error {
	if a.isCreated {
		return nil
	}
	if estateID == uuid.Nil {
		return eventsourcing.NewValidationError("estate ID is required")
	}
	if operatorID == uuid.Nil {
		return eventsourcing.NewValidationError("operator ID is required")
	}
	if description == "" {
		return eventsourcing.NewValidationError("contract description is required")
	}

	return a.raise(&CreatedEvent{
		ContractID:  a.contractID,
		EstateID:    estateID,
		OperatorID:  operatorID,
		Description: description,
		CreatedAt:   eventsourcing.Now(),
	})
}

// AddFixedValueProduct adds a product with a fixed transaction value.
func (a *Aggregate) AddFixedValueProduct(productID uuid.UUID, name, displayText string, value decimal.Decimal, productType ProductType) error {
	if err := a.validateProduct(productID, name, displayText); err != nil {
		return err
	}
	if value.LessThanOrEqual(decimal.Zero) {
		return eventsourcing.NewValidationError("product value must be greater than zero")
	}

	return a.raise(&FixedValueProductAddedEvent{
		ContractID:  a.contractID,
		EstateID:    a.estateID,
		ProductID:   productID,
		Name:        name,
		DisplayText: displayText,
		Value:       value,
		ProductType: productType,
	})
}

// AddVariableValueProduct adds a product whose value is supplied per
// transaction.
func (a *Aggregate) AddVariableValueProduct(productID uuid.UUID, name, displayText string, productType ProductType) error {
	if err := a.validateProduct(productID, name, displayText); err != nil {
		return err
	}

	return a.raise(&VariableValueProductAddedEvent{
		ContractID:  a.contractID,
		EstateID:    a.estateID,
		ProductID:   productID,
		Name:        name,
		DisplayText: displayText,
		ProductType: productType,
	})
}

// AddTransactionFee configures a fee against an existing product. Adding a
// fee with an ID already present on the product is an illegal operation.
func (a *Aggregate) AddTransactionFee(product *Product, feeID uuid.UUID, description string, calculationType CalculationType, feeType FeeType, value decimal.Decimal) error {
	if !a.isCreated {
		return eventsourcing.NewInvalidOperationError("contract has not been created")
	}
	if product == nil {
		return eventsourcing.NewValidationError("product is required")
	}
	existing, found := a.GetProduct(product.ProductID)
	if !found {
		return eventsourcing.NewInvalidOperationError("product %s not found on contract", product.ProductID)
	}
	if feeID == uuid.Nil {
		return eventsourcing.NewValidationError("fee ID is required")
	}
	if description == "" {
		return eventsourcing.NewValidationError("fee description is required")
	}
	if !calculationType.IsValid() {
		return eventsourcing.NewValidationError("invalid calculation type %d", calculationType)
	}
	if !feeType.IsValid() {
		return eventsourcing.NewValidationError("invalid fee type %d", feeType)
	}
	if value.LessThanOrEqual(decimal.Zero) {
		return eventsourcing.NewValidationError("fee value must be greater than zero")
	}
	for _, fee := range existing.TransactionFees {
		if fee.FeeID == feeID {
			return eventsourcing.NewInvalidOperationError("fee %s already added to product %s", feeID, product.ProductID)
		}
	}

	return a.raise(&TransactionFeeAddedEvent{
		ContractID:      a.contractID,
		EstateID:        a.estateID,
		ProductID:       product.ProductID,
		FeeID:           feeID,
		Description:     description,
		CalculationType: calculationType,
		FeeType:         feeType,
		Value:           value,
	})
}

// DisableTransactionFee disables a fee on a product. The fee is retained.
func (a *Aggregate) DisableTransactionFee(productID, feeID uuid.UUID) error {
	if !a.isCreated {
		return eventsourcing.NewInvalidOperationError("contract has not been created")
	}
	product, found := a.GetProduct(productID)
	if !found {
		return eventsourcing.NewInvalidOperationError("product %s not found on contract", productID)
	}
	feeFound := false
	for _, fee := range product.TransactionFees {
		if fee.FeeID == feeID {
			feeFound = true
			break
		}
	}
	if !feeFound {
		return eventsourcing.NewInvalidOperationError("fee %s not found on product %s", feeID, productID)
	}

	return a.raise(&TransactionFeeDisabledEvent{
		ContractID: a.contractID,
		EstateID:   a.estateID,
		ProductID:  productID,
		FeeID:      feeID,
	})
}

func (a *Aggregate) validateProduct(productID uuid.UUID, name, displayText string) error {
	if !a.isCreated {
		return eventsourcing.NewInvalidOperationError("contract has not been created")
	}
	if productID == uuid.Nil {
		return eventsourcing.NewValidationError("product ID is required")
	}
	if name == "" {
		return eventsourcing.NewValidationError("product name is required")
	}
	if displayText == "" {
		return eventsourcing.NewValidationError("product display text is required")
	}
	for _, product := range a.products {
		if product.ProductID == productID {
			return eventsourcing.NewInvalidOperationError("product %s already added to contract", productID)
		}
		if product.Name == name {
			return eventsourcing.NewInvalidOperationError("product named %q already added to contract", name)
		}
	}
	return nil
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
		a.playCreated(e)
	case *FixedValueProductAddedEvent:
		a.playFixedValueProductAdded(e)
	case *VariableValueProductAddedEvent:
		a.playVariableValueProductAdded(e)
	case *TransactionFeeAddedEvent:
		a.playTransactionFeeAdded(e)
	case *TransactionFeeDisabledEvent:
		a.playTransactionFeeDisabled(e)
	default:
		return fmt.Errorf("%w: %s", eventsourcing.ErrUnknownEventType, event.EventType())
	}
	return nil
}

func (a *Aggregate) playCreated(e *CreatedEvent) {
	a.estateID = e.EstateID
	a.operatorID = e.OperatorID
	a.description = e.Description
	a.isCreated = true
}

func (a *Aggregate) playFixedValueProductAdded(e *FixedValueProductAddedEvent) {
	value := e.Value
	a.products = append(a.products, Product{
		ProductID:   e.ProductID,
		Name:        e.Name,
		DisplayText: e.DisplayText,
		Value:       &value,
		ProductType: e.ProductType,
	})
}

func (a *Aggregate) playVariableValueProductAdded(e *VariableValueProductAddedEvent) {
	a.products = append(a.products, Product{
		ProductID:   e.ProductID,
		Name:        e.Name,
		DisplayText: e.DisplayText,
		ProductType: e.ProductType,
	})
}

func (a *Aggregate) playTransactionFeeAdded(e *TransactionFeeAddedEvent) {
	for i := range a.products {
		if a.products[i].ProductID == e.ProductID {
			a.products[i].TransactionFees = append(a.products[i].TransactionFees, TransactionFee{
				FeeID:           e.FeeID,
				Description:     e.Description,
				CalculationType: e.CalculationType,
				FeeType:         e.FeeType,
				Value:           e.Value,
				IsEnabled:       true,
			})
			return
		}
	}
}

func (a *Aggregate) playTransactionFeeDisabled(e *TransactionFeeDisabledEvent) {
	for i := range a.products {
		if a.products[i].ProductID != e.ProductID {
			continue
		}
		for j := range a.products[i].TransactionFees {
			if a.products[i].TransactionFees[j].FeeID == e.FeeID {
				a.products[i].TransactionFees[j].IsEnabled = false
				return
			}
		}
	}
}
