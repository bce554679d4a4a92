// Package voucher implements the voucher aggregate: a one-way generate,
// issue, redeem lifecycle for vouchers sold through a contract product.
package voucher

import (
	"fmt"
	"hash/fnv"
	"time"

	"github.com/google/uuid"
	"github.com/plaenen/backoffice/pkg/eventsourcing"
	"github.com/plaenen/backoffice/pkg/validators"
	"github.com/shopspring/decimal"
)

// AggregateType is the stream type name for voucher aggregates.
const AggregateType = "Voucher"

// validityPeriod is how long a generated voucher remains redeemable.
const validityPeriod = 30 * 24 * time.Hour

// State enumerates the voucher lifecycle positions.
type State int

const (
	StateNotGenerated State = iota
	StateGenerated
	StateIssued
	StateRedeemed
)

func (s State) String() string {
	switch s {
	case StateNotGenerated:
		return "NotGenerated"
	case StateGenerated:
		return "Generated"
	case StateIssued:
		return "Issued"
	case StateRedeemed:
		return "Redeemed"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Aggregate is the voucher aggregate root.
type Aggregate struct {
	eventsourcing.AggregateRoot

	voucherID     uuid.UUID
	estateID      uuid.UUID
	transactionID uuid.UUID
	state         State

	value          decimal.Decimal
	voucherCode    string
	barcode        string
	expiryDateTime time.Time

	recipientEmail   string
	recipientMobile  string
	redeemedDateTime time.Time
}

// NewAggregate creates an empty voucher aggregate with only identity set.
func NewAggregate(id uuid.UUID) *Aggregate {
	return &Aggregate{
		AggregateRoot: eventsourcing.NewAggregateRoot(id.String(), AggregateType),
		voucherID:     id,
	}
}

// Factory creates an empty aggregate from a stream ID, for repository replay.
func Factory(id string) *Aggregate {
	return NewAggregate(uuid.MustParse(id))
}

// State returns the current lifecycle position.
func (a *Aggregate) State() State { return a.state }

// EstateID returns the owning estate.
func (a *Aggregate) EstateID() uuid.UUID { return a.estateID }

// TransactionID returns the sale transaction that produced the voucher.
func (a *Aggregate) TransactionID() uuid.UUID { return a.transactionID }

// Value returns the voucher value.
func (a *Aggregate) Value() decimal.Decimal { return a.value }

// VoucherCode returns the redemption code.
func (a *Aggregate) VoucherCode() string { return a.voucherCode }

// Barcode returns the base64-encoded barcode, empty until added.
func (a *Aggregate) Barcode() string { return a.barcode }

// ExpiryDateTime returns when the voucher expires.
func (a *Aggregate) ExpiryDateTime() time.Time { return a.expiryDateTime }

// Generate creates the voucher with a code derived from the voucher ID and a
// thirty day expiry.
func (a *Aggregate) Generate(estateID, transactionID uuid.UUID, value decimal.Decimal) error {
	if a.state != StateNotGenerated {
		return eventsourcing.NewInvalidOperationError("voucher is %s, cannot generate", a.state)
	}
	if estateID == uuid.Nil {
		return eventsourcing.NewValidationError("estate ID is required")
	}
	if transactionID == uuid.Nil {
		return eventsourcing.NewValidationError("transaction ID is required")
	}
	if value.LessThanOrEqual(decimal.Zero) {
		return eventsourcing.NewValidationError("voucher value must be greater than zero")
	}

	now := eventsourcing.Now()
	return a.raise(&GeneratedEvent{
		VoucherID:         a.voucherID,
		EstateID:          estateID,
		TransactionID:     transactionID,
		Value:             value,
		VoucherCode:       voucherCode(a.voucherID),
		ExpiryDateTime:    now.Add(validityPeriod),
		GeneratedDateTime: now,
	})
}

// AddBarcode attaches a base64-encoded barcode to a generated voucher.
func (a *Aggregate) AddBarcode(barcode string) error {
	if a.state == StateNotGenerated {
		return eventsourcing.NewInvalidOperationError("voucher has not been generated")
	}
	if barcode == "" {
		return eventsourcing.NewValidationError("barcode is required")
	}
	if a.barcode != "" {
		return eventsourcing.NewInvalidOperationError("barcode has already been added")
	}

	return a.raise(&BarcodeAddedEvent{
		VoucherID: a.voucherID,
		EstateID:  a.estateID,
		Barcode:   barcode,
	})
}

// Issue delivers the voucher to a recipient. At least one of email or mobile
// is required, and an email when present must be well formed.
func (a *Aggregate) Issue(recipientEmail, recipientMobile string) error {
	if a.state != StateGenerated {
		return eventsourcing.NewInvalidOperationError("voucher is %s, cannot issue", a.state)
	}
	if recipientEmail == "" && recipientMobile == "" {
		return eventsourcing.NewValidationError("a recipient email or mobile number is required")
	}
	if recipientEmail != "" && !validators.IsEmail(recipientEmail) {
		return eventsourcing.NewValidationError("invalid recipient email address %q", recipientEmail)
	}

	return a.raise(&IssuedEvent{
		VoucherID:       a.voucherID,
		EstateID:        a.estateID,
		RecipientEmail:  recipientEmail,
		RecipientMobile: recipientMobile,
		IssuedDateTime:  eventsourcing.Now(),
	})
}

// Redeem redeems an issued voucher.
func (a *Aggregate) Redeem(asOf time.Time) error {
	if a.state != StateIssued {
		return eventsourcing.NewInvalidOperationError("voucher is %s, cannot redeem", a.state)
	}
	if asOf.IsZero() {
		return eventsourcing.NewValidationError("redemption date time is required")
	}

	return a.raise(&RedeemedEvent{
		VoucherID:        a.voucherID,
		EstateID:         a.estateID,
		RedeemedDateTime: asOf,
	})
}

// voucherCode derives a stable ten digit numeric code from the voucher ID.
func voucherCode(id uuid.UUID) string {
	h := fnv.New64a()
	h.Write(id[:])
	return fmt.Sprintf("%010d", h.Sum64()%10_000_000_000)
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
	case *GeneratedEvent:
		a.estateID = e.EstateID
		a.transactionID = e.TransactionID
		a.value = e.Value
		a.voucherCode = e.VoucherCode
		a.expiryDateTime = e.ExpiryDateTime
		a.state = StateGenerated
	case *BarcodeAddedEvent:
		a.barcode = e.Barcode
	case *IssuedEvent:
		a.recipientEmail = e.RecipientEmail
		a.recipientMobile = e.RecipientMobile
		a.state = StateIssued
	case *RedeemedEvent:
		a.redeemedDateTime = e.RedeemedDateTime
		a.state = StateRedeemed
	default:
		return fmt.Errorf("%w: %s", eventsourcing.ErrUnknownEventType, event.EventType())
	}
	return nil
}
