package merchant

import (
	"github.com/google/uuid"
)

// SettlementSchedule determines when merchant fees are settled.
type SettlementSchedule int

const (
	// SettlementScheduleImmediate settles fees as transactions complete.
	SettlementScheduleImmediate SettlementSchedule = iota

	// SettlementScheduleWeekly settles fees seven days after the schedule is set.
	SettlementScheduleWeekly

	// SettlementScheduleMonthly settles fees one month after the schedule is set.
	SettlementScheduleMonthly
)

// IsValid reports whether the schedule is a defined enum value.
func (s SettlementSchedule) IsValid() bool {
	switch s {
	case SettlementScheduleImmediate, SettlementScheduleWeekly, SettlementScheduleMonthly:
		return true
	default:
		return false
	}
}

// Address is a merchant address. Addresses are append only; history is
// retained.
type Address struct {
	AddressID    uuid.UUID
	AddressLine1 string
	AddressLine2 string
	AddressLine3 string
	AddressLine4 string
	Town         string
	Region       string
	PostalCode   string
	Country      string
}

// sameContent compares every field except the address identity.
func (a Address) sameContent(other Address) bool {
	return a.AddressLine1 == other.AddressLine1 &&
		a.AddressLine2 == other.AddressLine2 &&
		a.AddressLine3 == other.AddressLine3 &&
		a.AddressLine4 == other.AddressLine4 &&
		a.Town == other.Town &&
		a.Region == other.Region &&
		a.PostalCode == other.PostalCode &&
		a.Country == other.Country
}

// Contact is a merchant contact.
type Contact struct {
	ContactID    uuid.UUID
	Name         string
	PhoneNumber  string
	EmailAddress string
}

func (c Contact) sameContent(other Contact) bool {
	return c.Name == other.Name &&
		c.PhoneNumber == other.PhoneNumber &&
		c.EmailAddress == other.EmailAddress
}

// Operator is an operator assignment. Assignments are soft-deleted, never
// physically removed.
type Operator struct {
	OperatorID     uuid.UUID
	Name           string
	MerchantNumber string
	TerminalNumber string
	IsDeleted      bool
}

// Device is a payment device. Swapped-out devices are retained disabled.
type Device struct {
	DeviceID         uuid.UUID
	DeviceIdentifier string
	IsEnabled        bool
}

// Contract is a contract association holding a snapshot of the contract's
// product IDs at the time of association.
type Contract struct {
	ContractID uuid.UUID
	ProductIDs []uuid.UUID
	IsDeleted  bool
}

// SecurityUser is a security-user association. Append only.
type SecurityUser struct {
	SecurityUserID uuid.UUID
	EmailAddress   string
}
