package merchantbalance

import (
	"time"

	"github.com/google/uuid"
	"github.com/plaenen/backoffice/pkg/eventsourcing"
	"github.com/shopspring/decimal"
)

// CreatedEvent is recorded when a balance is opened for a merchant.
type CreatedEvent struct {
	BalanceID  uuid.UUID `json:"balanceId"`
	EstateID   uuid.UUID `json:"estateId"`
	MerchantID uuid.UUID `json:"merchantId"`
}

func (e *CreatedEvent) EventType() string { return "merchantbalance.Created" }

// AuthorisedSaleRecordedEvent decreases the balance by the sale amount.
type AuthorisedSaleRecordedEvent struct {
	BalanceID     uuid.UUID       `json:"balanceId"`
	EstateID      uuid.UUID       `json:"estateId"`
	MerchantID    uuid.UUID       `json:"merchantId"`
	TransactionID uuid.UUID       `json:"transactionId"`
	SaleDateTime  time.Time       `json:"saleDateTime"`
	Amount        decimal.Decimal `json:"amount"`
}

func (e *AuthorisedSaleRecordedEvent) EventType() string {
	return "merchantbalance.AuthorisedSaleRecorded"
}

// DeclinedSaleRecordedEvent counts a declined sale without moving the
// balance.
type DeclinedSaleRecordedEvent struct {
	BalanceID     uuid.UUID       `json:"balanceId"`
	EstateID      uuid.UUID       `json:"estateId"`
	MerchantID    uuid.UUID       `json:"merchantId"`
	TransactionID uuid.UUID       `json:"transactionId"`
	SaleDateTime  time.Time       `json:"saleDateTime"`
	Amount        decimal.Decimal `json:"amount"`
}

func (e *DeclinedSaleRecordedEvent) EventType() string {
	return "merchantbalance.DeclinedSaleRecorded"
}

// DepositRecordedEvent increases the balance by the deposit amount.
type DepositRecordedEvent struct {
	BalanceID       uuid.UUID       `json:"balanceId"`
	EstateID        uuid.UUID       `json:"estateId"`
	MerchantID      uuid.UUID       `json:"merchantId"`
	DepositID       uuid.UUID       `json:"depositId"`
	DepositDateTime time.Time       `json:"depositDateTime"`
	Amount          decimal.Decimal `json:"amount"`
}

func (e *DepositRecordedEvent) EventType() string { return "merchantbalance.DepositRecorded" }

// WithdrawalRecordedEvent decreases the balance by the withdrawal amount.
type WithdrawalRecordedEvent struct {
	BalanceID          uuid.UUID       `json:"balanceId"`
	EstateID           uuid.UUID       `json:"estateId"`
	MerchantID         uuid.UUID       `json:"merchantId"`
	WithdrawalID       uuid.UUID       `json:"withdrawalId"`
	WithdrawalDateTime time.Time       `json:"withdrawalDateTime"`
	Amount             decimal.Decimal `json:"amount"`
}

func (e *WithdrawalRecordedEvent) EventType() string { return "merchantbalance.WithdrawalRecorded" }

// MerchantFeeRecordedEvent increases the balance by the settled fee amount.
type MerchantFeeRecordedEvent struct {
	BalanceID   uuid.UUID       `json:"balanceId"`
	EstateID    uuid.UUID       `json:"estateId"`
	MerchantID  uuid.UUID       `json:"merchantId"`
	FeeID       uuid.UUID       `json:"feeId"`
	FeeDateTime time.Time       `json:"feeDateTime"`
	Amount      decimal.Decimal `json:"amount"`
}

func (e *MerchantFeeRecordedEvent) EventType() string { return "merchantbalance.MerchantFeeRecorded" }

func init() {
	eventsourcing.RegisterEvent(func() eventsourcing.DomainEvent { return &CreatedEvent{} })
	eventsourcing.RegisterEvent(func() eventsourcing.DomainEvent { return &AuthorisedSaleRecordedEvent{} })
	eventsourcing.RegisterEvent(func() eventsourcing.DomainEvent { return &DeclinedSaleRecordedEvent{} })
	eventsourcing.RegisterEvent(func() eventsourcing.DomainEvent { return &DepositRecordedEvent{} })
	eventsourcing.RegisterEvent(func() eventsourcing.DomainEvent { return &WithdrawalRecordedEvent{} })
	eventsourcing.RegisterEvent(func() eventsourcing.DomainEvent { return &MerchantFeeRecordedEvent{} })
}
