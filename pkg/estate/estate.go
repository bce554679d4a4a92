// Package estate implements the estate aggregate: the tenant root owning
// operator and security-user associations.
package estate

import (
	"fmt"
	"hash/fnv"

	"github.com/google/uuid"
	"github.com/plaenen/backoffice/pkg/eventsourcing"
)

// AggregateType is the stream type name for estate aggregates.
const AggregateType = "Estate"

// Operator is an operator association. Associations are soft-deleted,
// never physically removed.
type Operator struct {
	OperatorID uuid.UUID
	IsDeleted  bool
}

// SecurityUser is a security-user association. Append only.
type SecurityUser struct {
	SecurityUserID uuid.UUID
	EmailAddress   string
}

// Aggregate is the estate aggregate root.
type Aggregate struct {
	eventsourcing.AggregateRoot

	estateID      uuid.UUID
	name          string
	reference     string
	isCreated     bool
	operators     []Operator
	securityUsers []SecurityUser
}

// NewAggregate creates an empty estate aggregate with only identity set.
func NewAggregate(id uuid.UUID) *Aggregate {
	return &Aggregate{
		AggregateRoot: eventsourcing.NewAggregateRoot(id.String(), AggregateType),
		estateID:      id,
	}
}

// Factory creates an empty aggregate from a stream ID, for repository replay.
func Factory(id string) *Aggregate {
	return NewAggregate(uuid.MustParse(id))
}

// IsCreated reports whether the estate has been created.
func (a *Aggregate) IsCreated() bool { return a.isCreated }

// Name returns the estate name.
func (a *Aggregate) Name() string { return a.name }

// Reference returns the allocated estate reference, empty until allocated.
func (a *Aggregate) Reference() string { return a.reference }

// Operators returns a copy of the operator associations, deleted included.
func (a *Aggregate) Operators() []Operator {
	operators := make([]Operator, len(a.operators))
	copy(operators, a.operators)
	return operators
}

// SecurityUsers returns a copy of the security-user associations.
func (a *Aggregate) SecurityUsers() []SecurityUser {
	users := make([]SecurityUser, len(a.securityUsers))
	copy(users, a.securityUsers)
	return users
}

// Create creates the estate. Calling Create on an already-created estate is
// a no-op.
func (a *Aggregate) Create(name string) error {
	if a.isCreated {
		return nil
	}
	if name == "" {
		return eventsourcing.NewValidationError("estate name is required")
	}

	return a.raise(&CreatedEvent{EstateID: a.estateID, Name: name})
}

// GenerateReference allocates the estate reference. Regeneration is a no-op.
func (a *Aggregate) GenerateReference() error {
	if !a.isCreated {
		return eventsourcing.NewInvalidOperationError("estate has not been created")
	}
	if a.reference != "" {
		return nil
	}

	return a.raise(&ReferenceAllocatedEvent{
		EstateID:  a.estateID,
		Reference: shortReference(a.estateID),
	})
}

// AddOperator associates an operator with the estate.
func (a *Aggregate) AddOperator(operatorID uuid.UUID) error {
	if !a.isCreated {
		return eventsourcing.NewInvalidOperationError("estate has not been created")
	}
	if operatorID == uuid.Nil {
		return eventsourcing.NewValidationError("operator ID is required")
	}
	for _, operator := range a.operators {
		if operator.OperatorID == operatorID && !operator.IsDeleted {
			return eventsourcing.NewInvalidOperationError("operator %s already added to estate", operatorID)
		}
	}

	return a.raise(&OperatorAddedEvent{EstateID: a.estateID, OperatorID: operatorID})
}

// RemoveOperator soft-deletes an operator association.
func (a *Aggregate) RemoveOperator(operatorID uuid.UUID) error {
	if !a.isCreated {
		return eventsourcing.NewInvalidOperationError("estate has not been created")
	}
	found := false
	for _, operator := range a.operators {
		if operator.OperatorID == operatorID && !operator.IsDeleted {
			found = true
			break
		}
	}
	if !found {
		return eventsourcing.NewInvalidOperationError("operator %s not added to estate", operatorID)
	}

	return a.raise(&OperatorRemovedEvent{EstateID: a.estateID, OperatorID: operatorID})
}

// AddSecurityUser associates a security user with the estate.
func (a *Aggregate) AddSecurityUser(securityUserID uuid.UUID, emailAddress string) error {
	if !a.isCreated {
		return eventsourcing.NewInvalidOperationError("estate has not been created")
	}
	if securityUserID == uuid.Nil {
		return eventsourcing.NewValidationError("security user ID is required")
	}
	if emailAddress == "" {
		return eventsourcing.NewValidationError("email address is required")
	}

	return a.raise(&SecurityUserAddedEvent{
		EstateID:       a.estateID,
		SecurityUserID: securityUserID,
		EmailAddress:   emailAddress,
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
		a.name = e.Name
		a.isCreated = true
	case *ReferenceAllocatedEvent:
		a.reference = e.Reference
	case *OperatorAddedEvent:
		a.operators = append(a.operators, Operator{OperatorID: e.OperatorID})
	case *OperatorRemovedEvent:
		for i := range a.operators {
			if a.operators[i].OperatorID == e.OperatorID && !a.operators[i].IsDeleted {
				a.operators[i].IsDeleted = true
				break
			}
		}
	case *SecurityUserAddedEvent:
		a.securityUsers = append(a.securityUsers, SecurityUser{
			SecurityUserID: e.SecurityUserID,
			EmailAddress:   e.EmailAddress,
		})
	default:
		return fmt.Errorf("%w: %s", eventsourcing.ErrUnknownEventType, event.EventType())
	}
	return nil
}

// shortReference derives a stable 8-character hex reference from an ID.
func shortReference(id uuid.UUID) string {
	h := fnv.New32a()
	h.Write(id[:])
	return fmt.Sprintf("%08X", h.Sum32())
}
