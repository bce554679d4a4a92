package statement

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/plaenen/backoffice/pkg/eventsourcing"
	"github.com/shopspring/decimal"
)

// ForDateAggregateType is the stream type name for per-day statement
// accumulators.
const ForDateAggregateType = "MerchantStatementForDate"

// LineType classifies a statement line.
type LineType int

const (
	LineTransaction LineType = iota
	LineSettledFee
	LineDeposit
	LineWithdrawal
)

func (t LineType) String() string {
	switch t {
	case LineTransaction:
		return "Transaction"
	case LineSettledFee:
		return "SettledFee"
	case LineDeposit:
		return "Deposit"
	case LineWithdrawal:
		return "Withdrawal"
	default:
		return fmt.Sprintf("LineType(%d)", int(t))
	}
}

// Line is a single statement line.
type Line struct {
	SourceEventID uuid.UUID
	LineType      LineType
	LineDateTime  time.Time
	Amount        decimal.Decimal
}

// lineKey deduplicates lines by source event and type.
type lineKey struct {
	SourceEventID uuid.UUID
	LineType      LineType
}

// ForDateAggregate accumulates one day's statement lines for a merchant.
// Lines are keyed by (source event ID, line type) and duplicates are
// silently ignored, so upstream events can be applied more than once.
type ForDateAggregate struct {
	eventsourcing.AggregateRoot

	forDateID    uuid.UUID
	estateID     uuid.UUID
	merchantID   uuid.UUID
	activityDate time.Time
	isCreated    bool

	lineKeys map[lineKey]struct{}
	lines    []Line
}

// NewForDateAggregate creates an empty accumulator with only identity set.
func NewForDateAggregate(id uuid.UUID) *ForDateAggregate {
	return &ForDateAggregate{
		AggregateRoot: eventsourcing.NewAggregateRoot(id.String(), ForDateAggregateType),
		forDateID:     id,
		lineKeys:      make(map[lineKey]struct{}),
	}
}

// ForDateFactory creates an empty accumulator from a stream ID, for
// repository replay.
func ForDateFactory(id string) *ForDateAggregate {
	return NewForDateAggregate(uuid.MustParse(id))
}

// IsCreated reports whether the accumulator has been created.
func (a *ForDateAggregate) IsCreated() bool { return a.isCreated }

// MerchantID returns the merchant the accumulator is for.
func (a *ForDateAggregate) MerchantID() uuid.UUID { return a.merchantID }

// ActivityDate returns the day being accumulated.
func (a *ForDateAggregate) ActivityDate() time.Time { return a.activityDate }

// Lines returns a copy of the accumulated lines.
func (a *ForDateAggregate) Lines() []Line {
	lines := make([]Line, len(a.lines))
	copy(lines, a.lines)
	return lines
}

// LinesOfType returns the accumulated lines of one type.
func (a *ForDateAggregate) LinesOfType(lineType LineType) []Line {
	var lines []Line
	for _, line := range a.lines {
		if line.LineType == lineType {
			lines = append(lines, line)
		}
	}
	return lines
}

// Create opens the accumulator. Calling Create twice is a no-op.
func (a *ForDateAggregate) Create(estateID, merchantID uuid.UUID, activityDate time.Time) error {
	if a.isCreated {
		return nil
	}
	if estateID == uuid.Nil {
		return eventsourcing.NewValidationError("estate ID is required")
	}
	if merchantID == uuid.Nil {
		return eventsourcing.NewValidationError("merchant ID is required")
	}
	if activityDate.IsZero() {
		return eventsourcing.NewValidationError("activity date is required")
	}

	return a.raise(&ForDateCreatedEvent{
		ForDateID:    a.forDateID,
		EstateID:     estateID,
		MerchantID:   merchantID,
		ActivityDate: dateOnly(activityDate),
	})
}

// AddTransactionLine adds a completed transaction line.
func (a *ForDateAggregate) AddTransactionLine(sourceEventID uuid.UUID, lineDateTime time.Time, amount decimal.Decimal) error {
	return a.addLine(sourceEventID, LineTransaction, lineDateTime, amount)
}

// AddSettledFeeLine adds a settled merchant fee line.
func (a *ForDateAggregate) AddSettledFeeLine(sourceEventID uuid.UUID, lineDateTime time.Time, amount decimal.Decimal) error {
	return a.addLine(sourceEventID, LineSettledFee, lineDateTime, amount)
}

// AddDepositLine adds a deposit line.
func (a *ForDateAggregate) AddDepositLine(sourceEventID uuid.UUID, lineDateTime time.Time, amount decimal.Decimal) error {
	return a.addLine(sourceEventID, LineDeposit, lineDateTime, amount)
}

// AddWithdrawalLine adds a withdrawal line.
func (a *ForDateAggregate) AddWithdrawalLine(sourceEventID uuid.UUID, lineDateTime time.Time, amount decimal.Decimal) error {
	return a.addLine(sourceEventID, LineWithdrawal, lineDateTime, amount)
}

func (a *ForDateAggregate) addLine(sourceEventID uuid.UUID, lineType LineType, lineDateTime time.Time, amount decimal.Decimal) error {
	if !a.isCreated {
		return eventsourcing.NewInvalidOperationError("statement for date has not been created")
	}
	if sourceEventID == uuid.Nil {
		return eventsourcing.NewValidationError("source event ID is required")
	}
	if _, ok := a.lineKeys[lineKey{SourceEventID: sourceEventID, LineType: lineType}]; ok {
		return nil
	}

	return a.raise(&LineAddedEvent{
		ForDateID:     a.forDateID,
		EstateID:      a.estateID,
		MerchantID:    a.merchantID,
		SourceEventID: sourceEventID,
		LineType:      lineType,
		LineDateTime:  lineDateTime,
		Amount:        amount,
	})
}

// raise applies the event through the replay dispatch, then records it.
func (a *ForDateAggregate) raise(event eventsourcing.DomainEvent) error {
	if err := a.ApplyEvent(event); err != nil {
		return err
	}
	return a.Record(event)
}

// ApplyEvent folds a single event into the accumulator state.
func (a *ForDateAggregate) ApplyEvent(event eventsourcing.DomainEvent) error {
	switch e := event.(type) {
	case *ForDateCreatedEvent:
		a.estateID = e.EstateID
		a.merchantID = e.MerchantID
		a.activityDate = e.ActivityDate
		a.isCreated = true
	case *LineAddedEvent:
		a.lineKeys[lineKey{SourceEventID: e.SourceEventID, LineType: e.LineType}] = struct{}{}
		a.lines = append(a.lines, Line{
			SourceEventID: e.SourceEventID,
			LineType:      e.LineType,
			LineDateTime:  e.LineDateTime,
			Amount:        e.Amount,
		})
	default:
		return fmt.Errorf("%w: %s", eventsourcing.ErrUnknownEventType, event.EventType())
	}
	return nil
}
