// Package merchant implements the merchant aggregate: addresses, contacts,
// operator assignments, devices, contract associations and the settlement
// schedule.
package merchant

import (
	"fmt"
	"hash/fnv"
	"time"

	"github.com/google/uuid"
	"github.com/plaenen/backoffice/pkg/contract"
	"github.com/plaenen/backoffice/pkg/eventsourcing"
)

// AggregateType is the stream type name for merchant aggregates.
const AggregateType = "Merchant"

// maxDeviceCount is the number of device slots a merchant has. Swapping a
// device deliberately exceeds this: the swapped-out device is retained
// disabled.
const maxDeviceCount = 1

// Aggregate is the merchant aggregate root.
type Aggregate struct {
	eventsourcing.AggregateRoot

	merchantID            uuid.UUID
	estateID              uuid.UUID
	name                  string
	dateCreated           time.Time
	reference             string
	isCreated             bool
	addresses             []Address
	contacts              []Contact
	operators             []Operator
	devices               []Device
	contracts             []Contract
	securityUsers         []SecurityUser
	settlementSchedule    SettlementSchedule
	scheduleSet           bool
	nextSettlementDueDate time.Time
}

// NewAggregate creates an empty merchant aggregate with only identity set.
func NewAggregate(id uuid.UUID) *Aggregate {
	return &Aggregate{
		AggregateRoot: eventsourcing.NewAggregateRoot(id.String(), AggregateType),
		merchantID:    id,
	}
}

// Factory creates an empty aggregate from a stream ID, for repository replay.
func Factory(id string) *Aggregate {
	return NewAggregate(uuid.MustParse(id))
}

// IsCreated reports whether the merchant has been created.
func (a *Aggregate) IsCreated() bool { return a.isCreated }

// EstateID returns the owning estate.
func (a *Aggregate) EstateID() uuid.UUID { return a.estateID }

// Name returns the merchant name.
func (a *Aggregate) Name() string { return a.name }

// DateCreated returns the business creation date.
func (a *Aggregate) DateCreated() time.Time { return a.dateCreated }

// Reference returns the allocated merchant reference, empty until allocated.
func (a *Aggregate) Reference() string { return a.reference }

// Addresses returns a copy of the merchant's addresses, oldest first.
func (a *Aggregate) Addresses() []Address {
	addresses := make([]Address, len(a.addresses))
	copy(addresses, a.addresses)
	return addresses
}

// Contacts returns a copy of the merchant's contacts.
func (a *Aggregate) Contacts() []Contact {
	contacts := make([]Contact, len(a.contacts))
	copy(contacts, a.contacts)
	return contacts
}

// Operators returns a copy of the operator assignments, deleted included.
func (a *Aggregate) Operators() []Operator {
	operators := make([]Operator, len(a.operators))
	copy(operators, a.operators)
	return operators
}

// Devices returns a copy of the merchant's devices, disabled included.
func (a *Aggregate) Devices() []Device {
	devices := make([]Device, len(a.devices))
	copy(devices, a.devices)
	return devices
}

// Contracts returns a copy of the contract associations, deleted included.
func (a *Aggregate) Contracts() []Contract {
	contracts := make([]Contract, len(a.contracts))
	copy(contracts, a.contracts)
	for i := range contracts {
		products := make([]uuid.UUID, len(a.contracts[i].ProductIDs))
		copy(products, a.contracts[i].ProductIDs)
		contracts[i].ProductIDs = products
	}
	return contracts
}

// SecurityUsers returns a copy of the security-user associations.
func (a *Aggregate) SecurityUsers() []SecurityUser {
	users := make([]SecurityUser, len(a.securityUsers))
	copy(users, a.securityUsers)
	return users
}

// SettlementSchedule returns the current settlement schedule.
func (a *Aggregate) SettlementSchedule() SettlementSchedule { return a.settlementSchedule }

// NextSettlementDueDate returns the computed next settlement due date. Zero
// for an immediate schedule.
func (a *Aggregate) NextSettlementDueDate() time.Time { return a.nextSettlementDueDate }

// Create creates the merchant. Calling Create on an already-created merchant
// is a no-op.
func (a *Aggregate) Create(estateID uuid.UUID, name string, dateCreated time.Time) error {
	if a.isCreated {
		return nil
	}
	if estateID == uuid.Nil {
		return eventsourcing.NewValidationError("estate ID is required")
	}
	if name == "" {
		return eventsourcing.NewValidationError("merchant name is required")
	}

	return a.raise(&CreatedEvent{
		MerchantID:  a.merchantID,
		EstateID:    estateID,
		Name:        name,
		DateCreated: dateCreated,
	})
}

// GenerateReference allocates the merchant reference. Regeneration is a no-op.
func (a *Aggregate) GenerateReference() error {
	if !a.isCreated {
		return eventsourcing.NewInvalidOperationError("merchant has not been created")
	}
	if a.reference != "" {
		return nil
	}

	h := fnv.New32a()
	h.Write(a.merchantID[:])

	return a.raise(&ReferenceAllocatedEvent{
		MerchantID: a.merchantID,
		EstateID:   a.estateID,
		Reference:  fmt.Sprintf("%08X", h.Sum32()),
	})
}

// AddAddress appends a new address. An address whose content exactly matches
// the most recently added address is silently dropped; distinct historical
// addresses are always retained.
func (a *Aggregate) AddAddress(address Address) error {
	if !a.isCreated {
		return eventsourcing.NewInvalidOperationError("merchant has not been created")
	}
	if address.AddressID == uuid.Nil {
		return eventsourcing.NewValidationError("address ID is required")
	}
	if address.AddressLine1 == "" {
		return eventsourcing.NewValidationError("address line 1 is required")
	}
	if len(a.addresses) > 0 && a.addresses[len(a.addresses)-1].sameContent(address) {
		return nil
	}

	return a.raise(&AddressAddedEvent{
		MerchantID:   a.merchantID,
		EstateID:     a.estateID,
		AddressID:    address.AddressID,
		AddressLine1: address.AddressLine1,
		AddressLine2: address.AddressLine2,
		AddressLine3: address.AddressLine3,
		AddressLine4: address.AddressLine4,
		Town:         address.Town,
		Region:       address.Region,
		PostalCode:   address.PostalCode,
		Country:      address.Country,
	})
}

// AddContact appends a new contact. An exact-content duplicate of any
// existing contact is silently dropped.
func (a *Aggregate) AddContact(contact Contact) error {
	if !a.isCreated {
		return eventsourcing.NewInvalidOperationError("merchant has not been created")
	}
	if contact.ContactID == uuid.Nil {
		return eventsourcing.NewValidationError("contact ID is required")
	}
	if contact.Name == "" {
		return eventsourcing.NewValidationError("contact name is required")
	}
	for _, existing := range a.contacts {
		if existing.sameContent(contact) {
			return nil
		}
	}

	return a.raise(&ContactAddedEvent{
		MerchantID:   a.merchantID,
		EstateID:     a.estateID,
		ContactID:    contact.ContactID,
		Name:         contact.Name,
		PhoneNumber:  contact.PhoneNumber,
		EmailAddress: contact.EmailAddress,
	})
}

// AssignOperator assigns an operator to the merchant. Reassigning an
// operator ID that has ever been assigned is an illegal operation.
func (a *Aggregate) AssignOperator(operatorID uuid.UUID, name, merchantNumber, terminalNumber string) error {
	if !a.isCreated {
		return eventsourcing.NewInvalidOperationError("merchant has not been created")
	}
	if operatorID == uuid.Nil {
		return eventsourcing.NewValidationError("operator ID is required")
	}
	for _, operator := range a.operators {
		if operator.OperatorID == operatorID {
			return eventsourcing.NewInvalidOperationError("operator %s already assigned to merchant", operatorID)
		}
	}

	return a.raise(&OperatorAssignedEvent{
		MerchantID:     a.merchantID,
		EstateID:       a.estateID,
		OperatorID:     operatorID,
		Name:           name,
		MerchantNumber: merchantNumber,
		TerminalNumber: terminalNumber,
	})
}

// RemoveOperator soft-deletes an operator assignment.
func (a *Aggregate) RemoveOperator(operatorID uuid.UUID) error {
	if !a.isCreated {
		return eventsourcing.NewInvalidOperationError("merchant has not been created")
	}
	found := false
	for _, operator := range a.operators {
		if operator.OperatorID == operatorID && !operator.IsDeleted {
			found = true
			break
		}
	}
	if !found {
		return eventsourcing.NewInvalidOperationError("operator %s not assigned to merchant", operatorID)
	}

	return a.raise(&OperatorRemovedEvent{
		MerchantID: a.merchantID,
		EstateID:   a.estateID,
		OperatorID: operatorID,
	})
}

// AddDevice registers a payment device. Fails when the merchant has no
// remaining device capacity or the identifier is already registered.
func (a *Aggregate) AddDevice(deviceID uuid.UUID, deviceIdentifier string) error {
	if !a.isCreated {
		return eventsourcing.NewInvalidOperationError("merchant has not been created")
	}
	if deviceID == uuid.Nil {
		return eventsourcing.NewValidationError("device ID is required")
	}
	if deviceIdentifier == "" {
		return eventsourcing.NewValidationError("device identifier is required")
	}
	for _, device := range a.devices {
		if device.DeviceIdentifier == deviceIdentifier {
			return eventsourcing.NewInvalidOperationError("device %s already added to merchant", deviceIdentifier)
		}
	}
	if len(a.devices) >= maxDeviceCount {
		return eventsourcing.NewInvalidOperationError("merchant has no space for devices")
	}

	return a.raise(&DeviceAddedEvent{
		MerchantID:       a.merchantID,
		EstateID:         a.estateID,
		DeviceID:         deviceID,
		DeviceIdentifier: deviceIdentifier,
	})
}

// SwapDevice disables the device with the original identifier and registers
// the new device enabled. Both devices are retained in history.
func (a *Aggregate) SwapDevice(newDeviceID uuid.UUID, originalDeviceIdentifier, newDeviceIdentifier string) error {
	if !a.isCreated {
		return eventsourcing.NewInvalidOperationError("merchant has not been created")
	}
	if originalDeviceIdentifier == "" {
		return eventsourcing.NewValidationError("original device identifier is required")
	}
	if newDeviceIdentifier == "" {
		return eventsourcing.NewValidationError("new device identifier is required")
	}

	var original *Device
	for i := range a.devices {
		if a.devices[i].DeviceIdentifier == originalDeviceIdentifier {
			original = &a.devices[i]
		}
		if a.devices[i].DeviceIdentifier == newDeviceIdentifier {
			return eventsourcing.NewInvalidOperationError("device %s already added to merchant", newDeviceIdentifier)
		}
	}
	if original == nil {
		return eventsourcing.NewInvalidOperationError("device %s not found on merchant", originalDeviceIdentifier)
	}

	return a.raise(&DeviceSwappedEvent{
		MerchantID:               a.merchantID,
		EstateID:                 a.estateID,
		OriginalDeviceID:         original.DeviceID,
		NewDeviceID:              newDeviceID,
		OriginalDeviceIdentifier: originalDeviceIdentifier,
		NewDeviceIdentifier:      newDeviceIdentifier,
	})
}

// AddContract associates a contract, snapshotting its product list at the
// time of association rather than live-linking the aggregate.
func (a *Aggregate) AddContract(c *contract.Aggregate) error {
	if !a.isCreated {
		return eventsourcing.NewInvalidOperationError("merchant has not been created")
	}
	if c == nil {
		return eventsourcing.NewValidationError("contract is required")
	}
	if !c.IsCreated() {
		return eventsourcing.NewValidationError("contract has not been created")
	}
	contractID := uuid.MustParse(c.ID())
	for _, existing := range a.contracts {
		if existing.ContractID == contractID {
			return eventsourcing.NewInvalidOperationError("contract %s already added to merchant", contractID)
		}
	}

	products := c.Products()
	productIDs := make([]uuid.UUID, 0, len(products))
	for _, product := range products {
		productIDs = append(productIDs, product.ProductID)
	}

	return a.raise(&ContractAddedEvent{
		MerchantID: a.merchantID,
		EstateID:   a.estateID,
		ContractID: contractID,
		ProductIDs: productIDs,
	})
}

// RemoveContract soft-deletes a contract association.
func (a *Aggregate) RemoveContract(contractID uuid.UUID) error {
	if !a.isCreated {
		return eventsourcing.NewInvalidOperationError("merchant has not been created")
	}
	found := false
	for _, existing := range a.contracts {
		if existing.ContractID == contractID && !existing.IsDeleted {
			found = true
			break
		}
	}
	if !found {
		return eventsourcing.NewInvalidOperationError("contract %s not added to merchant", contractID)
	}

	return a.raise(&ContractRemovedEvent{
		MerchantID: a.merchantID,
		EstateID:   a.estateID,
		ContractID: contractID,
	})
}

// AddSecurityUser associates a security user with the merchant.
func (a *Aggregate) AddSecurityUser(securityUserID uuid.UUID, emailAddress string) error {
	if !a.isCreated {
		return eventsourcing.NewInvalidOperationError("merchant has not been created")
	}
	if securityUserID == uuid.Nil {
		return eventsourcing.NewValidationError("security user ID is required")
	}
	if emailAddress == "" {
		return eventsourcing.NewValidationError("email address is required")
	}

	return a.raise(&SecurityUserAddedEvent{
		MerchantID:     a.merchantID,
		EstateID:       a.estateID,
		SecurityUserID: securityUserID,
		EmailAddress:   emailAddress,
	})
}

// SetSettlementSchedule sets the settlement schedule and recomputes the next
// settlement due date from asOf. Setting the same schedule again still
// records an event.
func (a *Aggregate) SetSettlementSchedule(schedule SettlementSchedule, asOf time.Time) error {
	if !a.isCreated {
		return eventsourcing.NewInvalidOperationError("merchant has not been created")
	}
	if !schedule.IsValid() {
		return eventsourcing.NewValidationError("invalid settlement schedule %d", schedule)
	}

	var nextDue time.Time
	switch schedule {
	case SettlementScheduleWeekly:
		nextDue = asOf.AddDate(0, 0, 7)
	case SettlementScheduleMonthly:
		nextDue = asOf.AddDate(0, 1, 0)
	}

	return a.raise(&SettlementScheduleChangedEvent{
		MerchantID:            a.merchantID,
		EstateID:              a.estateID,
		Schedule:              schedule,
		NextSettlementDueDate: nextDue,
	})
}

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
		a.name = e.Name
		a.dateCreated = e.DateCreated
		a.isCreated = true
	case *ReferenceAllocatedEvent:
		a.reference = e.Reference
	case *AddressAddedEvent:
		a.addresses = append(a.addresses, Address{
			AddressID:    e.AddressID,
			AddressLine1: e.AddressLine1,
			AddressLine2: e.AddressLine2,
			AddressLine3: e.AddressLine3,
			AddressLine4: e.AddressLine4,
			Town:         e.Town,
			Region:       e.Region,
			PostalCode:   e.PostalCode,
			Country:      e.Country,
		})
	case *ContactAddedEvent:
		a.contacts = append(a.contacts, Contact{
			ContactID:    e.ContactID,
			Name:         e.Name,
			PhoneNumber:  e.PhoneNumber,
			EmailAddress: e.EmailAddress,
		})
	case *OperatorAssignedEvent:
		a.operators = append(a.operators, Operator{
			OperatorID:     e.OperatorID,
			Name:           e.Name,
			MerchantNumber: e.MerchantNumber,
			TerminalNumber: e.TerminalNumber,
		})
	case *OperatorRemovedEvent:
		for i := range a.operators {
			if a.operators[i].OperatorID == e.OperatorID && !a.operators[i].IsDeleted {
				a.operators[i].IsDeleted = true
				break
			}
		}
	case *DeviceAddedEvent:
		a.devices = append(a.devices, Device{
			DeviceID:         e.DeviceID,
			DeviceIdentifier: e.DeviceIdentifier,
			IsEnabled:        true,
		})
	case *DeviceSwappedEvent:
		for i := range a.devices {
			if a.devices[i].DeviceIdentifier == e.OriginalDeviceIdentifier {
				a.devices[i].IsEnabled = false
				break
			}
		}
		a.devices = append(a.devices, Device{
			DeviceID:         e.NewDeviceID,
			DeviceIdentifier: e.NewDeviceIdentifier,
			IsEnabled:        true,
		})
	case *ContractAddedEvent:
		a.contracts = append(a.contracts, Contract{
			ContractID: e.ContractID,
			ProductIDs: e.ProductIDs,
		})
	case *ContractRemovedEvent:
		for i := range a.contracts {
			if a.contracts[i].ContractID == e.ContractID && !a.contracts[i].IsDeleted {
				a.contracts[i].IsDeleted = true
				break
			}
		}
	case *SecurityUserAddedEvent:
		a.securityUsers = append(a.securityUsers, SecurityUser{
			SecurityUserID: e.SecurityUserID,
			EmailAddress:   e.EmailAddress,
		})
	case *SettlementScheduleChangedEvent:
		a.settlementSchedule = e.Schedule
		a.scheduleSet = true
		a.nextSettlementDueDate = e.NextSettlementDueDate
	default:
		return fmt.Errorf("%w: %s", eventsourcing.ErrUnknownEventType, event.EventType())
	}
	return nil
}
