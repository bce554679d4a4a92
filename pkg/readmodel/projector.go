package readmodel

import (
	"context"
	"fmt"

	"github.com/plaenen/backoffice/pkg/contract"
	"github.com/plaenen/backoffice/pkg/estate"
	"github.com/plaenen/backoffice/pkg/eventsourcing"
	"github.com/plaenen/backoffice/pkg/merchant"
	"github.com/plaenen/backoffice/pkg/statement"
)

// Projector folds committed event envelopes into the read model. Events it
// does not project are skipped, and projecting the same envelope twice is
// harmless.
type Projector struct {
	store *Store
}

// NewProjector creates a projector on top of a read model store.
func NewProjector(store *Store) *Projector {
	return &Projector{store: store}
}

// Handle projects a single envelope. It satisfies the event bus handler
// signature via a closure over a context.
func (p *Projector) Handle(ctx context.Context, envelope *eventsourcing.Event) error {
	domainEvent, err := envelope.Payload()
	if err != nil {
		return fmt.Errorf("failed to decode %s: %w", envelope.EventType, err)
	}

	switch e := domainEvent.(type) {
	case *estate.CreatedEvent:
		return p.store.AddEstate(ctx, e.EstateID, e.Name)
	case *estate.ReferenceAllocatedEvent:
		return p.store.SetEstateReference(ctx, e.EstateID, e.Reference)
	case *merchant.CreatedEvent:
		return p.store.AddMerchant(ctx, e.MerchantID, e.EstateID, e.Name)
	case *merchant.ReferenceAllocatedEvent:
		return p.store.SetMerchantReference(ctx, e.MerchantID, e.Reference)
	case *merchant.DeviceAddedEvent:
		return p.store.AddMerchantDevice(ctx, e.MerchantID, e.DeviceID, e.DeviceIdentifier)
	case *merchant.DeviceSwappedEvent:
		return p.store.SwapMerchantDevice(ctx, e.MerchantID, e.OriginalDeviceID, e.NewDeviceID, e.NewDeviceIdentifier)
	case *contract.FixedValueProductAddedEvent:
		value := e.Value.String()
		return p.store.AddContractProduct(ctx, e.ContractID, e.ProductID, e.Name, e.DisplayText, &value)
	case *contract.VariableValueProductAddedEvent:
		return p.store.AddContractProduct(ctx, e.ContractID, e.ProductID, e.Name, e.DisplayText, nil)
	case *statement.CreatedEvent:
		return p.store.CreateStatement(ctx, e.StatementID, e.MerchantID)
	case *statement.GeneratedEvent:
		return p.store.MarkStatementGenerated(ctx, e.StatementID)
	case *statement.BuiltEvent:
		return p.store.MarkStatementBuilt(ctx, e.StatementID)
	case *statement.EmailedEvent:
		return p.store.MarkStatementEmailed(ctx, e.StatementID)
	default:
		return nil
	}
}
