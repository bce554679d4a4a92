package transaction

import (
	"time"

	"github.com/google/uuid"
	"github.com/plaenen/backoffice/pkg/contract"
	"github.com/plaenen/backoffice/pkg/eventsourcing"
	"github.com/shopspring/decimal"
)

func init() {
	eventsourcing.RegisterEvent(func() eventsourcing.DomainEvent { return &StartedEvent{} })
	eventsourcing.RegisterEvent(func() eventsourcing.DomainEvent { return &ProductDetailsAddedEvent{} })
	eventsourcing.RegisterEvent(func() eventsourcing.DomainEvent { return &SourceAddedEvent{} })
	eventsourcing.RegisterEvent(func() eventsourcing.DomainEvent { return &AdditionalRequestDataRecordedEvent{} })
	eventsourcing.RegisterEvent(func() eventsourcing.DomainEvent { return &LocallyAuthorisedEvent{} })
	eventsourcing.RegisterEvent(func() eventsourcing.DomainEvent { return &LocallyDeclinedEvent{} })
	eventsourcing.RegisterEvent(func() eventsourcing.DomainEvent { return &AuthorisedEvent{} })
	eventsourcing.RegisterEvent(func() eventsourcing.DomainEvent { return &DeclinedEvent{} })
	eventsourcing.RegisterEvent(func() eventsourcing.DomainEvent { return &AdditionalResponseDataRecordedEvent{} })
	eventsourcing.RegisterEvent(func() eventsourcing.DomainEvent { return &CompletedEvent{} })
	eventsourcing.RegisterEvent(func() eventsourcing.DomainEvent { return &ServiceProviderFeeAddedEvent{} })
	eventsourcing.RegisterEvent(func() eventsourcing.DomainEvent { return &MerchantFeePendingSettlementAddedEvent{} })
	eventsourcing.RegisterEvent(func() eventsourcing.DomainEvent { return &SettledMerchantFeeAddedEvent{} })
	eventsourcing.RegisterEvent(func() eventsourcing.DomainEvent { return &CostPriceRecordedEvent{} })
	eventsourcing.RegisterEvent(func() eventsourcing.DomainEvent { return &EmailReceiptRequestedEvent{} })
	eventsourcing.RegisterEvent(func() eventsourcing.DomainEvent { return &EmailReceiptResendRequestedEvent{} })
}

// StartedEvent records the start of a transaction.
type StartedEvent struct {
	TransactionID        uuid.UUID
	EstateID             uuid.UUID
	MerchantID           uuid.UUID
	TransactionDateTime  time.Time
	TransactionNumber    string
	TransactionType      TransactionType
	TransactionReference string
	DeviceIdentifier     string
	TransactionAmount    *decimal.Decimal
}

func (e *StartedEvent) EventType() string { return "transaction.Started" }

// ProductDetailsAddedEvent records the contract product the transaction is
// for.
type ProductDetailsAddedEvent struct {
	TransactionID uuid.UUID
	EstateID      uuid.UUID
	MerchantID    uuid.UUID
	ContractID    uuid.UUID
	ProductID     uuid.UUID
}

func (e *ProductDetailsAddedEvent) EventType() string { return "transaction.ProductDetailsAdded" }

// SourceAddedEvent records where the transaction originated.
type SourceAddedEvent struct {
	TransactionID uuid.UUID
	EstateID      uuid.UUID
	MerchantID    uuid.UUID
	Source        TransactionSource
}

func (e *SourceAddedEvent) EventType() string { return "transaction.SourceAdded" }

// AdditionalRequestDataRecordedEvent records operator-bound request metadata.
type AdditionalRequestDataRecordedEvent struct {
	TransactionID uuid.UUID
	EstateID      uuid.UUID
	MerchantID    uuid.UUID
	OperatorID    uuid.UUID
	RequestData   map[string]string
}

func (e *AdditionalRequestDataRecordedEvent) EventType() string {
	return "transaction.AdditionalRequestDataRecorded"
}

// LocallyAuthorisedEvent records a local (non-operator) authorisation.
type LocallyAuthorisedEvent struct {
	TransactionID     uuid.UUID
	EstateID          uuid.UUID
	MerchantID        uuid.UUID
	AuthorisationCode string
	ResponseCode      string
	ResponseMessage   string
}

func (e *LocallyAuthorisedEvent) EventType() string { return "transaction.LocallyAuthorised" }

// LocallyDeclinedEvent records a local (non-operator) decline.
type LocallyDeclinedEvent struct {
	TransactionID   uuid.UUID
	EstateID        uuid.UUID
	MerchantID      uuid.UUID
	ResponseCode    string
	ResponseMessage string
}

func (e *LocallyDeclinedEvent) EventType() string { return "transaction.LocallyDeclined" }

// AuthorisedEvent records an operator authorisation. Operator-side response
// fields are distinct from the merchant-facing response.
type AuthorisedEvent struct {
	TransactionID           uuid.UUID
	EstateID                uuid.UUID
	MerchantID              uuid.UUID
	OperatorID              uuid.UUID
	AuthorisationCode       string
	OperatorResponseCode    string
	OperatorResponseMessage string
	OperatorTransactionID   string
	ResponseCode            string
	ResponseMessage         string
}

func (e *AuthorisedEvent) EventType() string { return "transaction.Authorised" }

// DeclinedEvent records an operator decline.
type DeclinedEvent struct {
	TransactionID           uuid.UUID
	EstateID                uuid.UUID
	MerchantID              uuid.UUID
	OperatorID              uuid.UUID
	OperatorResponseCode    string
	OperatorResponseMessage string
	ResponseCode            string
	ResponseMessage         string
}

func (e *DeclinedEvent) EventType() string { return "transaction.Declined" }

// AdditionalResponseDataRecordedEvent records operator response metadata.
type AdditionalResponseDataRecordedEvent struct {
	TransactionID uuid.UUID
	EstateID      uuid.UUID
	MerchantID    uuid.UUID
	OperatorID    uuid.UUID
	ResponseData  map[string]string
}

func (e *AdditionalResponseDataRecordedEvent) EventType() string {
	return "transaction.AdditionalResponseDataRecorded"
}

// CompletedEvent records the completion of a transaction.
type CompletedEvent struct {
	TransactionID     uuid.UUID
	EstateID          uuid.UUID
	MerchantID        uuid.UUID
	IsAuthorised      bool
	ResponseCode      string
	ResponseMessage   string
	CompletedDateTime time.Time
}

func (e *CompletedEvent) EventType() string { return "transaction.Completed" }

// ServiceProviderFeeAddedEvent records a service provider fee attached to a
// completed transaction.
type ServiceProviderFeeAddedEvent struct {
	TransactionID         uuid.UUID
	EstateID              uuid.UUID
	MerchantID            uuid.UUID
	FeeID                 uuid.UUID
	FeeCalculationType    contract.CalculationType
	FeeValue              decimal.Decimal
	CalculatedValue       decimal.Decimal
	FeeCalculatedDateTime time.Time
}

func (e *ServiceProviderFeeAddedEvent) EventType() string {
	return "transaction.ServiceProviderFeeAdded"
}

// MerchantFeePendingSettlementAddedEvent records a merchant fee awaiting
// settlement on the merchant's schedule.
type MerchantFeePendingSettlementAddedEvent struct {
	TransactionID         uuid.UUID
	EstateID              uuid.UUID
	MerchantID            uuid.UUID
	FeeID                 uuid.UUID
	FeeCalculationType    contract.CalculationType
	FeeValue              decimal.Decimal
	CalculatedValue       decimal.Decimal
	FeeCalculatedDateTime time.Time
	SettlementDueDate     time.Time
}

func (e *MerchantFeePendingSettlementAddedEvent) EventType() string {
	return "transaction.MerchantFeePendingSettlementAdded"
}

// SettledMerchantFeeAddedEvent records a merchant fee settled immediately.
type SettledMerchantFeeAddedEvent struct {
	TransactionID         uuid.UUID
	EstateID              uuid.UUID
	MerchantID            uuid.UUID
	FeeID                 uuid.UUID
	FeeCalculationType    contract.CalculationType
	FeeValue              decimal.Decimal
	CalculatedValue       decimal.Decimal
	FeeCalculatedDateTime time.Time
	SettledDateTime       time.Time
}

func (e *SettledMerchantFeeAddedEvent) EventType() string {
	return "transaction.SettledMerchantFeeAdded"
}

// CostPriceRecordedEvent records the cost price of the transaction's product.
type CostPriceRecordedEvent struct {
	TransactionID uuid.UUID
	EstateID      uuid.UUID
	MerchantID    uuid.UUID
	UnitCost      decimal.Decimal
	TotalCost     decimal.Decimal
}

func (e *CostPriceRecordedEvent) EventType() string { return "transaction.CostPriceRecorded" }

// EmailReceiptRequestedEvent records a customer email receipt request.
type EmailReceiptRequestedEvent struct {
	TransactionID        uuid.UUID
	EstateID             uuid.UUID
	MerchantID           uuid.UUID
	CustomerEmailAddress string
}

func (e *EmailReceiptRequestedEvent) EventType() string { return "transaction.EmailReceiptRequested" }

// EmailReceiptResendRequestedEvent records a receipt resend request.
type EmailReceiptResendRequestedEvent struct {
	TransactionID uuid.UUID
	EstateID      uuid.UUID
	MerchantID    uuid.UUID
}

func (e *EmailReceiptResendRequestedEvent) EventType() string {
	return "transaction.EmailReceiptResendRequested"
}
