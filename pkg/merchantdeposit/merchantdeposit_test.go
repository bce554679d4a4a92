package merchantdeposit_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/plaenen/backoffice/pkg/eventsourcing"
	"github.com/plaenen/backoffice/pkg/merchantdeposit"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createdList(t *testing.T) *merchantdeposit.Aggregate {
	t.Helper()
	list := merchantdeposit.NewAggregate(uuid.New())
	require.NoError(t, list.Create(uuid.New(), uuid.New()))
	return list
}

func depositAt(hour int) time.Time {
	return time.Date(2024, 6, 1, hour, 0, 0, 0, time.UTC)
}

func TestCreate(t *testing.T) {
	t.Run("create is idempotent", func(t *testing.T) {
		list := createdList(t)
		before := list.Version()
		require.NoError(t, list.Create(uuid.New(), uuid.New()))
		assert.Equal(t, before, list.Version())
	})

	t.Run("validation", func(t *testing.T) {
		list := merchantdeposit.NewAggregate(uuid.New())
		assert.ErrorIs(t, list.Create(uuid.Nil, uuid.New()), eventsourcing.ErrValidation)
		assert.ErrorIs(t, list.Create(uuid.New(), uuid.Nil), eventsourcing.ErrValidation)
	})
}

func TestRecordDeposit(t *testing.T) {
	t.Run("records a deposit line", func(t *testing.T) {
		list := createdList(t)
		depositID := uuid.New()
		require.NoError(t, list.RecordDeposit(depositID, merchantdeposit.SourceManual, "EFT-001",
			depositAt(8), decimal.NewFromInt(500)))

		deposits := list.Deposits()
		require.Len(t, deposits, 1)
		assert.Equal(t, depositID, deposits[0].DepositID)
		assert.Equal(t, merchantdeposit.SourceManual, deposits[0].Source)
		assert.Equal(t, "EFT-001", deposits[0].Reference)
		assert.Equal(t, "500", deposits[0].Amount.String())
	})

	t.Run("duplicate deposit id is a silent no-op", func(t *testing.T) {
		list := createdList(t)
		depositID := uuid.New()
		require.NoError(t, list.RecordDeposit(depositID, merchantdeposit.SourceManual, "EFT-001",
			depositAt(8), decimal.NewFromInt(500)))
		before := list.Version()

		require.NoError(t, list.RecordDeposit(depositID, merchantdeposit.SourceAutomatic, "EFT-002",
			depositAt(9), decimal.NewFromInt(900)))

		assert.Equal(t, before, list.Version())
		require.Len(t, list.Deposits(), 1)
		assert.Equal(t, "EFT-001", list.Deposits()[0].Reference)
	})

	t.Run("validation", func(t *testing.T) {
		list := createdList(t)
		amount := decimal.NewFromInt(100)

		assert.ErrorIs(t, list.RecordDeposit(uuid.Nil, merchantdeposit.SourceManual, "R", depositAt(8), amount),
			eventsourcing.ErrValidation)
		assert.ErrorIs(t, list.RecordDeposit(uuid.New(), merchantdeposit.SourceNotSet, "R", depositAt(8), amount),
			eventsourcing.ErrValidation)
		assert.ErrorIs(t, list.RecordDeposit(uuid.New(), merchantdeposit.SourceManual, "", depositAt(8), amount),
			eventsourcing.ErrValidation)
		assert.ErrorIs(t, list.RecordDeposit(uuid.New(), merchantdeposit.SourceManual, "R", time.Time{}, amount),
			eventsourcing.ErrValidation)
		assert.ErrorIs(t, list.RecordDeposit(uuid.New(), merchantdeposit.SourceManual, "R", depositAt(8), decimal.Zero),
			eventsourcing.ErrValidation)
		assert.Empty(t, list.Deposits())
	})

	t.Run("requires created list", func(t *testing.T) {
		list := merchantdeposit.NewAggregate(uuid.New())
		err := list.RecordDeposit(uuid.New(), merchantdeposit.SourceManual, "R", depositAt(8), decimal.NewFromInt(1))
		assert.ErrorIs(t, err, eventsourcing.ErrInvalidOperation)
	})
}

func TestRecordWithdrawal(t *testing.T) {
	t.Run("records a withdrawal line", func(t *testing.T) {
		list := createdList(t)
		withdrawalID := uuid.New()
		require.NoError(t, list.RecordWithdrawal(withdrawalID, depositAt(14), decimal.RequireFromString("250.75")))

		withdrawals := list.Withdrawals()
		require.Len(t, withdrawals, 1)
		assert.Equal(t, withdrawalID, withdrawals[0].WithdrawalID)
		assert.Equal(t, "250.75", withdrawals[0].Amount.String())
	})

	t.Run("duplicate withdrawal id is a silent no-op", func(t *testing.T) {
		list := createdList(t)
		withdrawalID := uuid.New()
		require.NoError(t, list.RecordWithdrawal(withdrawalID, depositAt(14), decimal.NewFromInt(100)))
		before := list.Version()

		require.NoError(t, list.RecordWithdrawal(withdrawalID, depositAt(15), decimal.NewFromInt(999)))

		assert.Equal(t, before, list.Version())
		assert.Len(t, list.Withdrawals(), 1)
	})

	t.Run("validation", func(t *testing.T) {
		list := createdList(t)
		assert.ErrorIs(t, list.RecordWithdrawal(uuid.Nil, depositAt(14), decimal.NewFromInt(1)),
			eventsourcing.ErrValidation)
		assert.ErrorIs(t, list.RecordWithdrawal(uuid.New(), time.Time{}, decimal.NewFromInt(1)),
			eventsourcing.ErrValidation)
		assert.ErrorIs(t, list.RecordWithdrawal(uuid.New(), depositAt(14), decimal.NewFromInt(-1)),
			eventsourcing.ErrValidation)
	})
}

func TestReplaySymmetry(t *testing.T) {
	list := createdList(t)
	require.NoError(t, list.RecordDeposit(uuid.New(), merchantdeposit.SourceManual, "EFT-001",
		depositAt(8), decimal.NewFromInt(500)))
	require.NoError(t, list.RecordDeposit(uuid.New(), merchantdeposit.SourceAutomatic, "SETTLE-9",
		depositAt(9), decimal.RequireFromString("12.35")))
	require.NoError(t, list.RecordWithdrawal(uuid.New(), depositAt(14), decimal.NewFromInt(100)))

	replayed := merchantdeposit.Factory(list.ID())
	for _, envelope := range list.UncommittedEvents() {
		event, err := envelope.Payload()
		require.NoError(t, err)
		require.NoError(t, replayed.ApplyEvent(event))
	}
	require.NoError(t, replayed.LoadFromHistory(list.UncommittedEvents()))

	assert.Equal(t, list.Version(), replayed.Version())
	assert.Equal(t, list.MerchantID(), replayed.MerchantID())
	require.Len(t, replayed.Deposits(), 2)
	require.Len(t, replayed.Withdrawals(), 1)
	assert.Equal(t, list.Deposits()[0].DepositID, replayed.Deposits()[0].DepositID)
	assert.True(t, list.Deposits()[1].Amount.Equal(replayed.Deposits()[1].Amount))
}
