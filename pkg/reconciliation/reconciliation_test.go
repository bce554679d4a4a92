package reconciliation_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/plaenen/backoffice/pkg/eventsourcing"
	"github.com/plaenen/backoffice/pkg/reconciliation"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func started(t *testing.T) *reconciliation.Aggregate {
	t.Helper()
	rec := reconciliation.NewAggregate(uuid.New())
	err := rec.StartReconciliation(time.Date(2024, 6, 1, 17, 0, 0, 0, time.UTC), "0099",
		uuid.New(), uuid.New(), "DEV-1")
	require.NoError(t, err)
	return rec
}

func TestStartReconciliation(t *testing.T) {
	t.Run("valid start", func(t *testing.T) {
		rec := started(t)
		assert.Equal(t, reconciliation.StateStarted, rec.State())
		assert.NotEqual(t, uuid.Nil, rec.EstateID())
		assert.NotEqual(t, uuid.Nil, rec.MerchantID())
	})

	t.Run("validation", func(t *testing.T) {
		rec := reconciliation.NewAggregate(uuid.New())

		err := rec.StartReconciliation(time.Time{}, "0099", uuid.New(), uuid.New(), "DEV-1")
		assert.ErrorIs(t, err, eventsourcing.ErrValidation)

		err = rec.StartReconciliation(time.Now(), "9A", uuid.New(), uuid.New(), "DEV-1")
		assert.ErrorIs(t, err, eventsourcing.ErrValidation)

		err = rec.StartReconciliation(time.Now(), "0099", uuid.Nil, uuid.New(), "DEV-1")
		assert.ErrorIs(t, err, eventsourcing.ErrValidation)

		err = rec.StartReconciliation(time.Now(), "0099", uuid.New(), uuid.New(), "")
		assert.ErrorIs(t, err, eventsourcing.ErrValidation)

		assert.Equal(t, reconciliation.StateNotStarted, rec.State())
	})

	t.Run("restart rejected", func(t *testing.T) {
		rec := started(t)
		err := rec.StartReconciliation(time.Now(), "0100", uuid.New(), uuid.New(), "DEV-1")
		assert.ErrorIs(t, err, eventsourcing.ErrInvalidOperation)
	})
}

func TestRecordOverallTotals(t *testing.T) {
	t.Run("records batch totals", func(t *testing.T) {
		rec := started(t)
		value := decimal.RequireFromString("1250.75")
		require.NoError(t, rec.RecordOverallTotals(42, value))
		assert.Equal(t, reconciliation.StateTotalsRecorded, rec.State())
		assert.Equal(t, 42, rec.TransactionCount())
		assert.True(t, rec.TransactionValue().Equal(value))
	})

	t.Run("zero totals are valid", func(t *testing.T) {
		rec := started(t)
		require.NoError(t, rec.RecordOverallTotals(0, decimal.Zero))
	})

	t.Run("negative values rejected", func(t *testing.T) {
		rec := started(t)
		assert.ErrorIs(t, rec.RecordOverallTotals(-1, decimal.Zero), eventsourcing.ErrValidation)
		assert.ErrorIs(t, rec.RecordOverallTotals(0, decimal.NewFromInt(-5)), eventsourcing.ErrValidation)
	})

	t.Run("requires started state", func(t *testing.T) {
		rec := reconciliation.NewAggregate(uuid.New())
		assert.ErrorIs(t, rec.RecordOverallTotals(1, decimal.Zero), eventsourcing.ErrInvalidOperation)
	})

	t.Run("cannot record twice", func(t *testing.T) {
		rec := started(t)
		require.NoError(t, rec.RecordOverallTotals(1, decimal.NewFromInt(10)))
		assert.ErrorIs(t, rec.RecordOverallTotals(2, decimal.NewFromInt(20)), eventsourcing.ErrInvalidOperation)
	})
}

func TestAuthoriseAndDecline(t *testing.T) {
	withTotals := func(t *testing.T) *reconciliation.Aggregate {
		rec := started(t)
		require.NoError(t, rec.RecordOverallTotals(10, decimal.NewFromInt(100)))
		return rec
	}

	t.Run("authorise from totals recorded", func(t *testing.T) {
		rec := withTotals(t)
		require.NoError(t, rec.Authorise("00", "reconciliation accepted"))
		assert.Equal(t, reconciliation.StateAuthorised, rec.State())
		assert.Equal(t, "00", rec.ResponseCode())
	})

	t.Run("decline from totals recorded", func(t *testing.T) {
		rec := withTotals(t)
		require.NoError(t, rec.Decline("05", "totals mismatch"))
		assert.Equal(t, reconciliation.StateDeclined, rec.State())
		assert.Equal(t, "totals mismatch", rec.ResponseMessage())
	})

	t.Run("outcomes are mutually exclusive", func(t *testing.T) {
		rec := withTotals(t)
		require.NoError(t, rec.Authorise("00", "ok"))
		assert.ErrorIs(t, rec.Decline("05", "no"), eventsourcing.ErrInvalidOperation)
		assert.ErrorIs(t, rec.Authorise("00", "ok"), eventsourcing.ErrInvalidOperation)
	})

	t.Run("require recorded totals", func(t *testing.T) {
		rec := started(t)
		assert.ErrorIs(t, rec.Authorise("00", "ok"), eventsourcing.ErrInvalidOperation)
		assert.ErrorIs(t, rec.Decline("05", "no"), eventsourcing.ErrInvalidOperation)
	})
}

func TestCompleteReconciliation(t *testing.T) {
	t.Run("completes after authorise", func(t *testing.T) {
		rec := started(t)
		require.NoError(t, rec.RecordOverallTotals(10, decimal.NewFromInt(100)))
		require.NoError(t, rec.Authorise("00", "ok"))
		require.NoError(t, rec.CompleteReconciliation())
		assert.Equal(t, reconciliation.StateCompleted, rec.State())
	})

	t.Run("completes after decline", func(t *testing.T) {
		rec := started(t)
		require.NoError(t, rec.RecordOverallTotals(10, decimal.NewFromInt(100)))
		require.NoError(t, rec.Decline("05", "no"))
		require.NoError(t, rec.CompleteReconciliation())
		assert.Equal(t, reconciliation.StateCompleted, rec.State())
	})

	t.Run("requires an outcome", func(t *testing.T) {
		rec := started(t)
		assert.ErrorIs(t, rec.CompleteReconciliation(), eventsourcing.ErrInvalidOperation)
	})

	t.Run("completed is terminal", func(t *testing.T) {
		rec := started(t)
		require.NoError(t, rec.RecordOverallTotals(10, decimal.NewFromInt(100)))
		require.NoError(t, rec.Authorise("00", "ok"))
		require.NoError(t, rec.CompleteReconciliation())

		assert.ErrorIs(t, rec.CompleteReconciliation(), eventsourcing.ErrInvalidOperation)
		assert.ErrorIs(t, rec.StartReconciliation(time.Now(), "0100", uuid.New(), uuid.New(), "DEV-1"),
			eventsourcing.ErrInvalidOperation)
	})
}

func TestReplaySymmetry(t *testing.T) {
	rec := started(t)
	require.NoError(t, rec.RecordOverallTotals(17, decimal.RequireFromString("431.25")))
	require.NoError(t, rec.Authorise("00", "ok"))
	require.NoError(t, rec.CompleteReconciliation())

	replayed := reconciliation.Factory(rec.ID())
	for _, envelope := range rec.UncommittedEvents() {
		event, err := envelope.Payload()
		require.NoError(t, err)
		require.NoError(t, replayed.ApplyEvent(event))
	}
	require.NoError(t, replayed.LoadFromHistory(rec.UncommittedEvents()))

	assert.Equal(t, rec.Version(), replayed.Version())
	assert.Equal(t, rec.State(), replayed.State())
	assert.Equal(t, rec.EstateID(), replayed.EstateID())
	assert.Equal(t, rec.TransactionCount(), replayed.TransactionCount())
	assert.True(t, rec.TransactionValue().Equal(replayed.TransactionValue()))
	assert.Equal(t, rec.ResponseCode(), replayed.ResponseCode())
}
