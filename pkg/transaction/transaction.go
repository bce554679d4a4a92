// Package transaction implements the transaction aggregate: the lifecycle of
// a logon or sale transaction from start through authorisation or decline,
// fee attachment, cost price recording and receipt requests.
//
// Unlike the other aggregates, commands here report failures as
// eventsourcing.Result values rather than errors.
package transaction

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/plaenen/backoffice/pkg/contract"
	"github.com/plaenen/backoffice/pkg/eventsourcing"
	"github.com/plaenen/backoffice/pkg/validators"
	"github.com/shopspring/decimal"
)

// AggregateType is the stream type name for transaction aggregates.
const AggregateType = "Transaction"

// Aggregate is the transaction aggregate root.
type Aggregate struct {
	eventsourcing.AggregateRoot

	transactionID        uuid.UUID
	estateID             uuid.UUID
	merchantID           uuid.UUID
	transactionDateTime  time.Time
	transactionNumber    string
	transactionType      TransactionType
	transactionReference string
	deviceIdentifier     string
	transactionAmount    *decimal.Decimal

	contractID uuid.UUID
	productID  uuid.UUID

	source TransactionSource

	requestDataRecorded  bool
	responseDataRecorded bool

	isStarted   bool
	isCompleted bool

	isLocallyAuthorised bool
	isAuthorised        bool
	isLocallyDeclined   bool
	isDeclined          bool

	authorisationCode       string
	responseCode            string
	responseMessage         string
	operatorID              uuid.UUID
	operatorResponseCode    string
	operatorResponseMessage string
	operatorTransactionID   string

	unitCost           *decimal.Decimal
	totalCost          *decimal.Decimal
	hasCostsCalculated bool

	calculatedFees []CalculatedFee

	receiptRequested     bool
	receiptResendCount   int
	customerEmailAddress string
}

// NewAggregate creates an empty transaction aggregate with only identity set.
func NewAggregate(id uuid.UUID) *Aggregate {
	return &Aggregate{
		AggregateRoot: eventsourcing.NewAggregateRoot(id.String(), AggregateType),
		transactionID: id,
	}
}

// Factory creates an empty aggregate from a stream ID, for repository replay.
func Factory(id string) *Aggregate {
	return NewAggregate(uuid.MustParse(id))
}

// State accessors.

func (a *Aggregate) IsStarted() bool           { return a.isStarted }
func (a *Aggregate) IsCompleted() bool         { return a.isCompleted }
func (a *Aggregate) IsAuthorised() bool        { return a.isAuthorised }
func (a *Aggregate) IsLocallyAuthorised() bool { return a.isLocallyAuthorised }
func (a *Aggregate) IsDeclined() bool          { return a.isDeclined }
func (a *Aggregate) IsLocallyDeclined() bool   { return a.isLocallyDeclined }
func (a *Aggregate) EstateID() uuid.UUID       { return a.estateID }
func (a *Aggregate) MerchantID() uuid.UUID     { return a.merchantID }
func (a *Aggregate) ContractID() uuid.UUID     { return a.contractID }
func (a *Aggregate) ProductID() uuid.UUID      { return a.productID }
func (a *Aggregate) ResponseCode() string      { return a.responseCode }
func (a *Aggregate) ResponseMessage() string   { return a.responseMessage }
func (a *Aggregate) AuthorisationCode() string { return a.authorisationCode }
func (a *Aggregate) HasCostsCalculated() bool  { return a.hasCostsCalculated }
func (a *Aggregate) ReceiptRequested() bool    { return a.receiptRequested }
func (a *Aggregate) ReceiptResendCount() int   { return a.receiptResendCount }
func (a *Aggregate) Source() TransactionSource { return a.source }
func (a *Aggregate) TransactionNumber() string { return a.transactionNumber }

func (a *Aggregate) TransactionType() TransactionType { return a.transactionType }

// TransactionAmount returns the transaction amount, nil for amountless types.
func (a *Aggregate) TransactionAmount() *decimal.Decimal {
	if a.transactionAmount == nil {
		return nil
	}
	amount := *a.transactionAmount
	return &amount
}

// UnitCost returns the recorded unit cost, nil until costs are calculated.
func (a *Aggregate) UnitCost() *decimal.Decimal {
	if a.unitCost == nil {
		return nil
	}
	cost := *a.unitCost
	return &cost
}

// TotalCost returns the recorded total cost, nil until costs are calculated.
func (a *Aggregate) TotalCost() *decimal.Decimal {
	if a.totalCost == nil {
		return nil
	}
	cost := *a.totalCost
	return &cost
}

// Fees returns a copy of the fees attached to the transaction.
func (a *Aggregate) Fees() []CalculatedFee {
	fees := make([]CalculatedFee, len(a.calculatedFees))
	copy(fees, a.calculatedFees)
	return fees
}

// StartTransaction starts the transaction. An amount is required for
// transaction types that carry one; logon transactions permit a nil amount.
func (a *Aggregate) StartTransaction(
	transactionDateTime time.Time,
	transactionNumber string,
	transactionType TransactionType,
	transactionReference string,
	estateID uuid.UUID,
	merchantID uuid.UUID,
	deviceIdentifier string,
	transactionAmount *decimal.Decimal,
) eventsourcing.Result {
	if a.isStarted {
		return eventsourcing.Invalid("transaction has already been started")
	}
	if a.isCompleted {
		return eventsourcing.Invalid("transaction has already been completed")
	}
	if transactionDateTime.IsZero() {
		return eventsourcing.Invalid("transaction date time is required")
	}
	if !validators.IsNumeric(transactionNumber) {
		return eventsourcing.Invalid("transaction number %q must be numeric", transactionNumber)
	}
	if !transactionType.IsValid() {
		return eventsourcing.Invalid("invalid transaction type %d", transactionType)
	}
	if transactionReference == "" {
		return eventsourcing.Invalid("transaction reference is required")
	}
	if estateID == uuid.Nil {
		return eventsourcing.Invalid("estate ID is required")
	}
	if merchantID == uuid.Nil {
		return eventsourcing.Invalid("merchant ID is required")
	}
	if deviceIdentifier == "" {
		return eventsourcing.Invalid("device identifier is required")
	}
	if transactionType.RequiresAmount() && transactionAmount == nil {
		return eventsourcing.Invalid("transaction amount is required for type %d", transactionType)
	}

	return a.raise(&StartedEvent{
		TransactionID:        a.transactionID,
		EstateID:             estateID,
		MerchantID:           merchantID,
		TransactionDateTime:  transactionDateTime,
		TransactionNumber:    transactionNumber,
		TransactionType:      transactionType,
		TransactionReference: transactionReference,
		DeviceIdentifier:     deviceIdentifier,
		TransactionAmount:    transactionAmount,
	})
}

// AddProductDetails records the contract product for the transaction.
func (a *Aggregate) AddProductDetails(contractID, productID uuid.UUID) eventsourcing.Result {
	if !a.isStarted {
		return eventsourcing.Invalid("transaction has not been started")
	}
	if a.isCompleted {
		return eventsourcing.Invalid("transaction has already been completed")
	}
	if contractID == uuid.Nil {
		return eventsourcing.Invalid("contract ID is required")
	}
	if productID == uuid.Nil {
		return eventsourcing.Invalid("product ID is required")
	}
	if a.productID != uuid.Nil {
		return eventsourcing.Invalid("product details have already been added")
	}

	return a.raise(&ProductDetailsAddedEvent{
		TransactionID: a.transactionID,
		EstateID:      a.estateID,
		MerchantID:    a.merchantID,
		ContractID:    contractID,
		ProductID:     productID,
	})
}

// AddTransactionSource records where the transaction originated.
func (a *Aggregate) AddTransactionSource(source TransactionSource) eventsourcing.Result {
	if !a.isStarted {
		return eventsourcing.Invalid("transaction has not been started")
	}
	if !source.IsValid() {
		return eventsourcing.Invalid("invalid transaction source %d", source)
	}
	if a.source != SourceNotSet {
		return eventsourcing.Invalid("transaction source has already been added")
	}

	return a.raise(&SourceAddedEvent{
		TransactionID: a.transactionID,
		EstateID:      a.estateID,
		MerchantID:    a.merchantID,
		Source:        source,
	})
}

// RecordAdditionalRequestData records operator-bound request metadata, once.
func (a *Aggregate) RecordAdditionalRequestData(operatorID uuid.UUID, requestData map[string]string) eventsourcing.Result {
	if !a.isStarted {
		return eventsourcing.Invalid("transaction has not been started")
	}
	if a.isCompleted {
		return eventsourcing.Invalid("transaction has already been completed")
	}
	if a.hasBeenAuthorisedOrDeclined() {
		return eventsourcing.Invalid("transaction has already been authorised or declined")
	}
	if a.requestDataRecorded {
		return eventsourcing.Invalid("additional request data has already been recorded")
	}

	return a.raise(&AdditionalRequestDataRecordedEvent{
		TransactionID: a.transactionID,
		EstateID:      a.estateID,
		MerchantID:    a.merchantID,
		OperatorID:    operatorID,
		RequestData:   requestData,
	})
}

// AuthoriseTransactionLocally authorises a transaction that does not require
// operator routing. Authorised, locally authorised, declined and locally
// declined are mutually exclusive.
func (a *Aggregate) AuthoriseTransactionLocally(authorisationCode, responseCode, responseMessage string) eventsourcing.Result {
	if !a.isStarted {
		return eventsourcing.Invalid("transaction has not been started")
	}
	if a.isCompleted {
		return eventsourcing.Invalid("transaction has already been completed")
	}
	if a.hasBeenAuthorisedOrDeclined() {
		return eventsourcing.Invalid("transaction has already been authorised or declined")
	}
	if !a.transactionType.SupportsLocalAuthorisation() {
		return eventsourcing.Invalid("transaction type %d cannot be authorised locally", a.transactionType)
	}

	return a.raise(&LocallyAuthorisedEvent{
		TransactionID:     a.transactionID,
		EstateID:          a.estateID,
		MerchantID:        a.merchantID,
		AuthorisationCode: authorisationCode,
		ResponseCode:      responseCode,
		ResponseMessage:   responseMessage,
	})
}

// DeclineTransactionLocally declines a transaction that does not require
// operator routing.
func (a *Aggregate) DeclineTransactionLocally(responseCode, responseMessage string) eventsourcing.Result {
	if !a.isStarted {
		return eventsourcing.Invalid("transaction has not been started")
	}
	if a.isCompleted {
		return eventsourcing.Invalid("transaction has already been completed")
	}
	if a.hasBeenAuthorisedOrDeclined() {
		return eventsourcing.Invalid("transaction has already been authorised or declined")
	}
	if !a.transactionType.SupportsLocalAuthorisation() {
		return eventsourcing.Invalid("transaction type %d cannot be declined locally", a.transactionType)
	}

	return a.raise(&LocallyDeclinedEvent{
		TransactionID:   a.transactionID,
		EstateID:        a.estateID,
		MerchantID:      a.merchantID,
		ResponseCode:    responseCode,
		ResponseMessage: responseMessage,
	})
}

// AuthoriseTransaction records an operator authorisation. The operator-side
// response code and message are recorded distinctly from the merchant-facing
// response.
func (a *Aggregate) AuthoriseTransaction(
	operatorID uuid.UUID,
	authorisationCode string,
	operatorResponseCode string,
	operatorResponseMessage string,
	operatorTransactionID string,
	responseCode string,
	responseMessage string,
) eventsourcing.Result {
	if !a.isStarted {
		return eventsourcing.Invalid("transaction has not been started")
	}
	if a.isCompleted {
		return eventsourcing.Invalid("transaction has already been completed")
	}
	if a.hasBeenAuthorisedOrDeclined() {
		return eventsourcing.Invalid("transaction has already been authorised or declined")
	}
	if a.transactionType.SupportsLocalAuthorisation() {
		return eventsourcing.Invalid("transaction type %d must be authorised locally", a.transactionType)
	}
	if a.transactionType.RequiresProductDetails() && a.productID == uuid.Nil {
		return eventsourcing.Invalid("product details have not been added")
	}
	if operatorID == uuid.Nil {
		return eventsourcing.Invalid("operator ID is required")
	}

	return a.raise(&AuthorisedEvent{
		TransactionID:           a.transactionID,
		EstateID:                a.estateID,
		MerchantID:              a.merchantID,
		OperatorID:              operatorID,
		AuthorisationCode:       authorisationCode,
		OperatorResponseCode:    operatorResponseCode,
		OperatorResponseMessage: operatorResponseMessage,
		OperatorTransactionID:   operatorTransactionID,
		ResponseCode:            responseCode,
		ResponseMessage:         responseMessage,
	})
}

// DeclineTransaction records an operator decline.
func (a *Aggregate) DeclineTransaction(
	operatorID uuid.UUID,
	operatorResponseCode string,
	operatorResponseMessage string,
	responseCode string,
	responseMessage string,
) eventsourcing.Result {
	if !a.isStarted {
		return eventsourcing.Invalid("transaction has not been started")
	}
	if a.isCompleted {
		return eventsourcing.Invalid("transaction has already been completed")
	}
	if a.hasBeenAuthorisedOrDeclined() {
		return eventsourcing.Invalid("transaction has already been authorised or declined")
	}
	if a.transactionType.SupportsLocalAuthorisation() {
		return eventsourcing.Invalid("transaction type %d must be declined locally", a.transactionType)
	}
	if a.transactionType.RequiresProductDetails() && a.productID == uuid.Nil {
		return eventsourcing.Invalid("product details have not been added")
	}
	if operatorID == uuid.Nil {
		return eventsourcing.Invalid("operator ID is required")
	}

	return a.raise(&DeclinedEvent{
		TransactionID:           a.transactionID,
		EstateID:                a.estateID,
		MerchantID:              a.merchantID,
		OperatorID:              operatorID,
		OperatorResponseCode:    operatorResponseCode,
		OperatorResponseMessage: operatorResponseMessage,
		ResponseCode:            responseCode,
		ResponseMessage:         responseMessage,
	})
}

// RecordAdditionalResponseData records operator response metadata, once.
func (a *Aggregate) RecordAdditionalResponseData(operatorID uuid.UUID, responseData map[string]string) eventsourcing.Result {
	if !a.isStarted {
		return eventsourcing.Invalid("transaction has not been started")
	}
	if a.responseDataRecorded {
		return eventsourcing.Invalid("additional response data has already been recorded")
	}

	return a.raise(&AdditionalResponseDataRecordedEvent{
		TransactionID: a.transactionID,
		EstateID:      a.estateID,
		MerchantID:    a.merchantID,
		OperatorID:    operatorID,
		ResponseData:  responseData,
	})
}

// CompleteTransaction completes a transaction that has been authorised or
// declined in some form.
func (a *Aggregate) CompleteTransaction() eventsourcing.Result {
	if !a.isStarted {
		return eventsourcing.Invalid("transaction has not been started")
	}
	if a.isCompleted {
		return eventsourcing.Invalid("transaction has already been completed")
	}
	if !a.hasBeenAuthorisedOrDeclined() {
		return eventsourcing.Invalid("transaction has not been authorised or declined")
	}

	return a.raise(&CompletedEvent{
		TransactionID:     a.transactionID,
		EstateID:          a.estateID,
		MerchantID:        a.merchantID,
		IsAuthorised:      a.isAuthorised || a.isLocallyAuthorised,
		ResponseCode:      a.responseCode,
		ResponseMessage:   a.responseMessage,
		CompletedDateTime: eventsourcing.Now(),
	})
}

// AddFee attaches a service provider fee to a completed, authorised
// transaction. Re-adding a fee ID already present is a silent success.
func (a *Aggregate) AddFee(fee *CalculatedFee) eventsourcing.Result {
	if fee == nil {
		return eventsourcing.Invalid("fee is required")
	}
	if a.hasFee(fee.FeeID) {
		return eventsourcing.Success()
	}
	if result := a.validateFeeAttachment(); result.IsFailed() {
		return result
	}
	if fee.FeeType != contract.FeeTypeServiceProvider {
		return eventsourcing.Invalid("unsupported fee type %d for AddFee", fee.FeeType)
	}

	return a.raise(&ServiceProviderFeeAddedEvent{
		TransactionID:         a.transactionID,
		EstateID:              a.estateID,
		MerchantID:            a.merchantID,
		FeeID:                 fee.FeeID,
		FeeCalculationType:    fee.FeeCalculationType,
		FeeValue:              fee.FeeValue,
		CalculatedValue:       fee.CalculatedValue,
		FeeCalculatedDateTime: fee.FeeCalculatedDateTime,
	})
}

// AddFeePendingSettlement attaches a merchant fee that will settle on the
// merchant's settlement schedule.
func (a *Aggregate) AddFeePendingSettlement(fee *CalculatedFee, settlementDueDate time.Time) eventsourcing.Result {
	if fee == nil {
		return eventsourcing.Invalid("fee is required")
	}
	if a.hasFee(fee.FeeID) {
		return eventsourcing.Success()
	}
	if result := a.validateFeeAttachment(); result.IsFailed() {
		return result
	}
	if fee.FeeType != contract.FeeTypeMerchant {
		return eventsourcing.Invalid("unsupported fee type %d for AddFeePendingSettlement", fee.FeeType)
	}

	return a.raise(&MerchantFeePendingSettlementAddedEvent{
		TransactionID:         a.transactionID,
		EstateID:              a.estateID,
		MerchantID:            a.merchantID,
		FeeID:                 fee.FeeID,
		FeeCalculationType:    fee.FeeCalculationType,
		FeeValue:              fee.FeeValue,
		CalculatedValue:       fee.CalculatedValue,
		FeeCalculatedDateTime: fee.FeeCalculatedDateTime,
		SettlementDueDate:     settlementDueDate,
	})
}

// AddSettledFee attaches a merchant fee that settled immediately.
func (a *Aggregate) AddSettledFee(fee *CalculatedFee, settledDateTime time.Time) eventsourcing.Result {
	if fee == nil {
		return eventsourcing.Invalid("fee is required")
	}
	if a.hasFee(fee.FeeID) {
		return eventsourcing.Success()
	}
	if result := a.validateFeeAttachment(); result.IsFailed() {
		return result
	}
	if fee.FeeType != contract.FeeTypeMerchant {
		return eventsourcing.Invalid("unsupported fee type %d for AddSettledFee", fee.FeeType)
	}

	return a.raise(&SettledMerchantFeeAddedEvent{
		TransactionID:         a.transactionID,
		EstateID:              a.estateID,
		MerchantID:            a.merchantID,
		FeeID:                 fee.FeeID,
		FeeCalculationType:    fee.FeeCalculationType,
		FeeValue:              fee.FeeValue,
		CalculatedValue:       fee.CalculatedValue,
		FeeCalculatedDateTime: fee.FeeCalculatedDateTime,
		SettledDateTime:       settledDateTime,
	})
}

// RecordCostPrice records the product cost price. Costs are only considered
// calculated when both values are strictly positive; otherwise the call is a
// silent no-op. Recording twice is a silent no-op.
func (a *Aggregate) RecordCostPrice(unitCost, totalCost decimal.Decimal) eventsourcing.Result {
	if !a.isStarted {
		return eventsourcing.Invalid("transaction has not been started")
	}
	if a.hasCostsCalculated {
		return eventsourcing.Success()
	}
	if unitCost.LessThanOrEqual(decimal.Zero) || totalCost.LessThanOrEqual(decimal.Zero) {
		return eventsourcing.Success()
	}

	return a.raise(&CostPriceRecordedEvent{
		TransactionID: a.transactionID,
		EstateID:      a.estateID,
		MerchantID:    a.merchantID,
		UnitCost:      unitCost,
		TotalCost:     totalCost,
	})
}

// RequestEmailReceipt requests a customer email receipt for a completed
// transaction.
func (a *Aggregate) RequestEmailReceipt(customerEmailAddress string) eventsourcing.Result {
	if !a.isCompleted {
		return eventsourcing.Invalid("transaction has not been completed")
	}
	if a.receiptRequested {
		return eventsourcing.Invalid("email receipt has already been requested")
	}
	if !validators.IsEmail(customerEmailAddress) {
		return eventsourcing.Invalid("invalid customer email address %q", customerEmailAddress)
	}

	return a.raise(&EmailReceiptRequestedEvent{
		TransactionID:        a.transactionID,
		EstateID:             a.estateID,
		MerchantID:           a.merchantID,
		CustomerEmailAddress: customerEmailAddress,
	})
}

// RequestEmailReceiptResend requests a resend of a previously requested
// receipt and increments the resend counter.
func (a *Aggregate) RequestEmailReceiptResend() eventsourcing.Result {
	if !a.receiptRequested {
		return eventsourcing.Invalid("email receipt has not been requested")
	}

	return a.raise(&EmailReceiptResendRequestedEvent{
		TransactionID: a.transactionID,
		EstateID:      a.estateID,
		MerchantID:    a.merchantID,
	})
}

func (a *Aggregate) hasBeenAuthorisedOrDeclined() bool {
	return a.isAuthorised || a.isLocallyAuthorised || a.isDeclined || a.isLocallyDeclined
}

func (a *Aggregate) hasFee(feeID uuid.UUID) bool {
	for _, fee := range a.calculatedFees {
		if fee.FeeID == feeID {
			return true
		}
	}
	return false
}

func (a *Aggregate) validateFeeAttachment() eventsourcing.Result {
	if !a.isCompleted {
		return eventsourcing.Invalid("transaction has not been completed")
	}
	if !a.isAuthorised && !a.isLocallyAuthorised {
		return eventsourcing.Invalid("transaction has not been authorised")
	}
	return eventsourcing.Success()
}

// raise applies the event through the replay dispatch, then records it.
func (a *Aggregate) raise(event eventsourcing.DomainEvent) eventsourcing.Result {
	if err := a.ApplyEvent(event); err != nil {
		return eventsourcing.Failed("failed to apply event: %v", err)
	}
	if err := a.Record(event); err != nil {
		return eventsourcing.Failed("failed to record event: %v", err)
	}
	return eventsourcing.Success()
}

// ApplyEvent folds a single event into the aggregate state.
func (a *Aggregate) ApplyEvent(event eventsourcing.DomainEvent) error {
	switch e := event.(type) {
	case *StartedEvent:
		a.estateID = e.EstateID
		a.merchantID = e.MerchantID
		a.transactionDateTime = e.TransactionDateTime
		a.transactionNumber = e.TransactionNumber
		a.transactionType = e.TransactionType
		a.transactionReference = e.TransactionReference
		a.deviceIdentifier = e.DeviceIdentifier
		a.transactionAmount = e.TransactionAmount
		a.isStarted = true
	case *ProductDetailsAddedEvent:
		a.contractID = e.ContractID
		a.productID = e.ProductID
	case *SourceAddedEvent:
		a.source = e.Source
	case *AdditionalRequestDataRecordedEvent:
		a.operatorID = e.OperatorID
		a.requestDataRecorded = true
	case *LocallyAuthorisedEvent:
		a.isLocallyAuthorised = true
		a.authorisationCode = e.AuthorisationCode
		a.responseCode = e.ResponseCode
		a.responseMessage = e.ResponseMessage
	case *LocallyDeclinedEvent:
		a.isLocallyDeclined = true
		a.responseCode = e.ResponseCode
		a.responseMessage = e.ResponseMessage
	case *AuthorisedEvent:
		a.isAuthorised = true
		a.operatorID = e.OperatorID
		a.authorisationCode = e.AuthorisationCode
		a.operatorResponseCode = e.OperatorResponseCode
		a.operatorResponseMessage = e.OperatorResponseMessage
		a.operatorTransactionID = e.OperatorTransactionID
		a.responseCode = e.ResponseCode
		a.responseMessage = e.ResponseMessage
	case *DeclinedEvent:
		a.isDeclined = true
		a.operatorID = e.OperatorID
		a.operatorResponseCode = e.OperatorResponseCode
		a.operatorResponseMessage = e.OperatorResponseMessage
		a.responseCode = e.ResponseCode
		a.responseMessage = e.ResponseMessage
	case *AdditionalResponseDataRecordedEvent:
		a.responseDataRecorded = true
	case *CompletedEvent:
		a.isCompleted = true
	case *ServiceProviderFeeAddedEvent:
		a.calculatedFees = append(a.calculatedFees, CalculatedFee{
			FeeID:                 e.FeeID,
			FeeType:               contract.FeeTypeServiceProvider,
			FeeCalculationType:    e.FeeCalculationType,
			FeeValue:              e.FeeValue,
			CalculatedValue:       e.CalculatedValue,
			FeeCalculatedDateTime: e.FeeCalculatedDateTime,
		})
	case *MerchantFeePendingSettlementAddedEvent:
		a.calculatedFees = append(a.calculatedFees, CalculatedFee{
			FeeID:                 e.FeeID,
			FeeType:               contract.FeeTypeMerchant,
			FeeCalculationType:    e.FeeCalculationType,
			FeeValue:              e.FeeValue,
			CalculatedValue:       e.CalculatedValue,
			FeeCalculatedDateTime: e.FeeCalculatedDateTime,
			SettlementDueDate:     e.SettlementDueDate,
		})
	case *SettledMerchantFeeAddedEvent:
		a.calculatedFees = append(a.calculatedFees, CalculatedFee{
			FeeID:                 e.FeeID,
			FeeType:               contract.FeeTypeMerchant,
			FeeCalculationType:    e.FeeCalculationType,
			FeeValue:              e.FeeValue,
			CalculatedValue:       e.CalculatedValue,
			FeeCalculatedDateTime: e.FeeCalculatedDateTime,
			IsSettled:             true,
			SettledDateTime:       e.SettledDateTime,
		})
	case *CostPriceRecordedEvent:
		unitCost := e.UnitCost
		totalCost := e.TotalCost
		a.unitCost = &unitCost
		a.totalCost = &totalCost
		a.hasCostsCalculated = true
	case *EmailReceiptRequestedEvent:
		a.receiptRequested = true
		a.customerEmailAddress = e.CustomerEmailAddress
	case *EmailReceiptResendRequestedEvent:
		a.receiptResendCount++
	default:
		return fmt.Errorf("%w: %s", eventsourcing.ErrUnknownEventType, event.EventType())
	}
	return nil
}
