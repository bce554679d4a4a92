package transaction

import (
	"time"

	"github.com/google/uuid"
	"github.com/plaenen/backoffice/pkg/contract"
	"github.com/shopspring/decimal"
)

// TransactionType is the kind of transaction being processed.
type TransactionType int

const (
	// TypeLogon is a device logon test transaction. Carries no amount and is
	// authorised locally.
	TypeLogon TransactionType = iota

	// TypeSale is a sale routed to an operator for authorisation.
	TypeSale

	// TypeReconciliation is a device reconciliation submission.
	TypeReconciliation
)

// IsValid reports whether the transaction type is a defined enum value.
func (t TransactionType) IsValid() bool {
	switch t {
	case TypeLogon, TypeSale, TypeReconciliation:
		return true
	default:
		return false
	}
}

// RequiresAmount reports whether transactions of this type must carry an
// amount.
func (t TransactionType) RequiresAmount() bool {
	return t == TypeSale
}

// SupportsLocalAuthorisation reports whether transactions of this type are
// authorised locally rather than routed to an operator.
func (t TransactionType) SupportsLocalAuthorisation() bool {
	return t == TypeLogon
}

// RequiresProductDetails reports whether transactions of this type must have
// product details recorded before an operator response.
func (t TransactionType) RequiresProductDetails() bool {
	return t == TypeSale
}

// TransactionSource records where a transaction originated.
type TransactionSource int

const (
	SourceNotSet TransactionSource = iota
	SourceDevice
	SourceFile
)

// IsValid reports whether the source is a defined, set enum value.
func (s TransactionSource) IsValid() bool {
	return s == SourceDevice || s == SourceFile
}

// CalculatedFee is a fee calculated for a transaction. Merchant fees are
// settled to the merchant on their settlement schedule; service provider
// fees are not settled through the merchant settlement process.
type CalculatedFee struct {
	FeeID                 uuid.UUID
	FeeType               contract.FeeType
	FeeCalculationType    contract.CalculationType
	FeeValue              decimal.Decimal
	CalculatedValue       decimal.Decimal
	FeeCalculatedDateTime time.Time
	SettlementDueDate     time.Time
	IsSettled             bool
	SettledDateTime       time.Time
}
