package voucher

import (
	"time"

	"github.com/google/uuid"
	"github.com/plaenen/backoffice/pkg/eventsourcing"
	"github.com/shopspring/decimal"
)

// GeneratedEvent is recorded when a voucher is generated for a sale.
type GeneratedEvent struct {
	VoucherID         uuid.UUID       `json:"voucherId"`
	EstateID          uuid.UUID       `json:"estateId"`
	TransactionID     uuid.UUID       `json:"transactionId"`
	Value             decimal.Decimal `json:"value"`
	VoucherCode       string          `json:"voucherCode"`
	ExpiryDateTime    time.Time       `json:"expiryDateTime"`
	GeneratedDateTime time.Time       `json:"generatedDateTime"`
}

func (e *GeneratedEvent) EventType() string { return "voucher.Generated" }

// BarcodeAddedEvent attaches a base64-encoded barcode image to the voucher.
type BarcodeAddedEvent struct {
	VoucherID uuid.UUID `json:"voucherId"`
	EstateID  uuid.UUID `json:"estateId"`
	Barcode   string    `json:"barcode"`
}

func (e *BarcodeAddedEvent) EventType() string { return "voucher.BarcodeAdded" }

// IssuedEvent is recorded when the voucher is delivered to a recipient.
type IssuedEvent struct {
	VoucherID       uuid.UUID `json:"voucherId"`
	EstateID        uuid.UUID `json:"estateId"`
	RecipientEmail  string    `json:"recipientEmail"`
	RecipientMobile string    `json:"recipientMobile"`
	IssuedDateTime  time.Time `json:"issuedDateTime"`
}

func (e *IssuedEvent) EventType() string { return "voucher.Issued" }

// RedeemedEvent is recorded when the voucher is redeemed.
type RedeemedEvent struct {
	VoucherID        uuid.UUID `json:"voucherId"`
	EstateID         uuid.UUID `json:"estateId"`
	RedeemedDateTime time.Time `json:"redeemedDateTime"`
}

func (e *RedeemedEvent) EventType() string { return "voucher.Redeemed" }

func init() {
	eventsourcing.RegisterEvent(func() eventsourcing.DomainEvent { return &GeneratedEvent{} })
	eventsourcing.RegisterEvent(func() eventsourcing.DomainEvent { return &BarcodeAddedEvent{} })
	eventsourcing.RegisterEvent(func() eventsourcing.DomainEvent { return &IssuedEvent{} })
	eventsourcing.RegisterEvent(func() eventsourcing.DomainEvent { return &RedeemedEvent{} })
}
