package contract

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CalculationType determines how a transaction fee is calculated.
type CalculationType int

const (
	// CalculationTypeFixed applies the fee value as an absolute amount.
	CalculationTypeFixed CalculationType = iota

	// CalculationTypePercentage applies the fee value as a percentage of the
	// transaction amount.
	CalculationTypePercentage
)

// IsValid reports whether the calculation type is a defined enum value.
func (c CalculationType) IsValid() bool {
	return c == CalculationTypeFixed || c == CalculationTypePercentage
}

// FeeType determines who a transaction fee is payable to.
type FeeType int

const (
	// FeeTypeMerchant fees are payable to the merchant.
	FeeTypeMerchant FeeType = iota

	// FeeTypeServiceProvider fees are payable to the service provider.
	FeeTypeServiceProvider
)

// IsValid reports whether the fee type is a defined enum value.
func (f FeeType) IsValid() bool {
	return f == FeeTypeMerchant || f == FeeTypeServiceProvider
}

// ProductType categorizes a contract product.
type ProductType int

const (
	ProductTypeNotSet ProductType = iota
	ProductTypeMobileTopup
	ProductTypeVoucher
	ProductTypeBillPayment
)

// Product is a product sold under a contract. Value is nil for
// variable-value products.
type Product struct {
	ProductID       uuid.UUID
	Name            string
	DisplayText     string
	Value           *decimal.Decimal
	ProductType     ProductType
	TransactionFees []TransactionFee
}

// TransactionFee is a fee configured against a contract product.
// Fees can be disabled but never removed.
type TransactionFee struct {
	FeeID           uuid.UUID
	Description     string
	CalculationType CalculationType
	FeeType         FeeType
	Value           decimal.Decimal
	IsEnabled       bool
}
