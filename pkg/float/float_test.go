package float_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/plaenen/backoffice/pkg/eventsourcing"
	"github.com/plaenen/backoffice/pkg/float"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createdFloat(t *testing.T) *float.Aggregate {
	t.Helper()
	f := float.NewAggregate(uuid.New())
	require.NoError(t, f.CreateFloat(uuid.New(), uuid.New(), uuid.New()))
	return f
}

func TestCreateFloat(t *testing.T) {
	t.Run("valid create", func(t *testing.T) {
		f := createdFloat(t)
		assert.True(t, f.IsCreated())
		assert.True(t, f.TotalCreditPurchases().IsZero())
		assert.True(t, f.UnitCostPrice().IsZero())
	})

	t.Run("second create rejected", func(t *testing.T) {
		f := createdFloat(t)
		err := f.CreateFloat(uuid.New(), uuid.New(), uuid.New())
		assert.ErrorIs(t, err, eventsourcing.ErrInvalidOperation)
	})

	t.Run("validation", func(t *testing.T) {
		f := float.NewAggregate(uuid.New())
		assert.ErrorIs(t, f.CreateFloat(uuid.Nil, uuid.New(), uuid.New()), eventsourcing.ErrValidation)
		assert.ErrorIs(t, f.CreateFloat(uuid.New(), uuid.Nil, uuid.New()), eventsourcing.ErrValidation)
		assert.ErrorIs(t, f.CreateFloat(uuid.New(), uuid.New(), uuid.Nil), eventsourcing.ErrValidation)
	})
}

func TestRecordCreditPurchase(t *testing.T) {
	t.Run("weighted average unit cost", func(t *testing.T) {
		f := createdFloat(t)

		steps := []struct {
			at            time.Time
			credit        int64
			cost          int64
			fullPrecision string
			rounded       string
		}{
			{time.Date(2024, 6, 1, 8, 0, 0, 0, time.UTC), 1000, 900,
				"0.9", "0.9000"},
			{time.Date(2024, 6, 2, 8, 0, 0, 0, time.UTC), 2000, 1750,
				"0.8833333333333333333333333333", "0.8833"},
			{time.Date(2024, 6, 3, 8, 0, 0, 0, time.UTC), 20000, 16000,
				"0.810869565217391304347826087", "0.8109"},
		}
		for _, step := range steps {
			require.NoError(t, f.RecordCreditPurchase(step.at,
				decimal.NewFromInt(step.credit), decimal.NewFromInt(step.cost)))
			assert.True(t, f.UnitCostPrice().Equal(decimal.RequireFromString(step.fullPrecision)),
				"unit cost %s after %d credit", f.UnitCostPrice(), step.credit)
			assert.Equal(t, step.rounded, f.UnitCostPriceRounded().String())
		}

		assert.Equal(t, "23000", f.TotalCreditPurchases().String())
		assert.Equal(t, "18650", f.TotalCostPrice().String())
	})

	t.Run("internal precision exceeds the rounded view", func(t *testing.T) {
		f := createdFloat(t)
		require.NoError(t, f.RecordCreditPurchase(time.Date(2024, 6, 1, 8, 0, 0, 0, time.UTC),
			decimal.NewFromInt(3), decimal.NewFromInt(1)))

		// 1/3 carries far more digits internally than the display rounding.
		assert.Equal(t, "0.3333", f.UnitCostPriceRounded().String())
		assert.True(t, f.UnitCostPrice().Sub(decimal.RequireFromString("0.3333")).IsPositive())
	})

	t.Run("duplicate purchase date time rejected", func(t *testing.T) {
		f := createdFloat(t)
		at := time.Date(2024, 6, 1, 8, 0, 0, 0, time.UTC)
		require.NoError(t, f.RecordCreditPurchase(at, decimal.NewFromInt(100), decimal.NewFromInt(90)))

		err := f.RecordCreditPurchase(at, decimal.NewFromInt(50), decimal.NewFromInt(45))
		assert.ErrorIs(t, err, eventsourcing.ErrInvalidOperation)
		assert.Equal(t, "100", f.TotalCreditPurchases().String())
	})

	t.Run("duplicate instant in another zone rejected after replay", func(t *testing.T) {
		f := createdFloat(t)
		zone := time.FixedZone("SAST", 2*60*60)
		at := time.Date(2024, 6, 1, 10, 0, 0, 0, zone)
		require.NoError(t, f.RecordCreditPurchase(at, decimal.NewFromInt(100), decimal.NewFromInt(90)))

		replayed := float.Factory(f.ID())
		for _, envelope := range f.UncommittedEvents() {
			event, err := envelope.Payload()
			require.NoError(t, err)
			require.NoError(t, replayed.ApplyEvent(event))
		}
		require.NoError(t, replayed.LoadFromHistory(f.UncommittedEvents()))

		err := replayed.RecordCreditPurchase(at.UTC(), decimal.NewFromInt(50), decimal.NewFromInt(45))
		assert.ErrorIs(t, err, eventsourcing.ErrInvalidOperation)
		assert.Equal(t, "100", replayed.TotalCreditPurchases().String())
	})

	t.Run("validation", func(t *testing.T) {
		f := createdFloat(t)
		at := time.Date(2024, 6, 1, 8, 0, 0, 0, time.UTC)

		assert.ErrorIs(t, f.RecordCreditPurchase(time.Time{}, decimal.NewFromInt(10), decimal.NewFromInt(9)),
			eventsourcing.ErrValidation)
		assert.ErrorIs(t, f.RecordCreditPurchase(at, decimal.Zero, decimal.NewFromInt(9)),
			eventsourcing.ErrValidation)
		assert.ErrorIs(t, f.RecordCreditPurchase(at, decimal.NewFromInt(10), decimal.Zero),
			eventsourcing.ErrValidation)
	})

	t.Run("requires created float", func(t *testing.T) {
		f := float.NewAggregate(uuid.New())
		err := f.RecordCreditPurchase(time.Now(), decimal.NewFromInt(10), decimal.NewFromInt(9))
		assert.ErrorIs(t, err, eventsourcing.ErrInvalidOperation)
	})
}

func TestFloatReplaySymmetry(t *testing.T) {
	f := createdFloat(t)
	require.NoError(t, f.RecordCreditPurchase(time.Date(2024, 6, 1, 8, 0, 0, 0, time.UTC),
		decimal.NewFromInt(100), decimal.NewFromInt(90)))
	require.NoError(t, f.RecordCreditPurchase(time.Date(2024, 6, 2, 8, 0, 0, 0, time.UTC),
		decimal.NewFromInt(20), decimal.NewFromInt(16)))

	replayed := float.Factory(f.ID())
	for _, envelope := range f.UncommittedEvents() {
		event, err := envelope.Payload()
		require.NoError(t, err)
		require.NoError(t, replayed.ApplyEvent(event))
	}
	require.NoError(t, replayed.LoadFromHistory(f.UncommittedEvents()))

	assert.Equal(t, f.Version(), replayed.Version())
	assert.Equal(t, f.ContractID(), replayed.ContractID())
	assert.True(t, f.TotalCreditPurchases().Equal(replayed.TotalCreditPurchases()))
	assert.True(t, f.TotalCostPrice().Equal(replayed.TotalCostPrice()))
	assert.True(t, f.UnitCostPrice().Equal(replayed.UnitCostPrice()))
}

func TestActivityLedger(t *testing.T) {
	createdLedger := func(t *testing.T) *float.ActivityAggregate {
		ledger := float.NewActivityAggregate(uuid.New())
		require.NoError(t, ledger.Create(uuid.New(), uuid.New()))
		return ledger
	}

	t.Run("create is idempotent", func(t *testing.T) {
		ledger := createdLedger(t)
		before := ledger.Version()
		require.NoError(t, ledger.Create(uuid.New(), uuid.New()))
		assert.Equal(t, before, ledger.Version())
	})

	t.Run("balance is credits less debits", func(t *testing.T) {
		ledger := createdLedger(t)
		require.NoError(t, ledger.RecordCredit(uuid.New(), time.Now(), decimal.NewFromInt(100)))
		require.NoError(t, ledger.RecordDebit(uuid.New(), time.Now(), decimal.RequireFromString("12.50")))
		require.NoError(t, ledger.RecordDebit(uuid.New(), time.Now(), decimal.RequireFromString("7.50")))

		assert.Equal(t, "100", ledger.TotalCredits().String())
		assert.Equal(t, "20", ledger.TotalDebits().String())
		assert.Equal(t, "80", ledger.Balance().String())
	})

	t.Run("duplicate ids are silently ignored", func(t *testing.T) {
		ledger := createdLedger(t)
		creditID := uuid.New()
		transactionID := uuid.New()
		require.NoError(t, ledger.RecordCredit(creditID, time.Now(), decimal.NewFromInt(100)))
		require.NoError(t, ledger.RecordDebit(transactionID, time.Now(), decimal.NewFromInt(10)))
		before := ledger.Version()

		require.NoError(t, ledger.RecordCredit(creditID, time.Now(), decimal.NewFromInt(100)))
		require.NoError(t, ledger.RecordDebit(transactionID, time.Now(), decimal.NewFromInt(10)))

		assert.Equal(t, before, ledger.Version())
		assert.Equal(t, "90", ledger.Balance().String())
	})

	t.Run("validation", func(t *testing.T) {
		ledger := createdLedger(t)
		assert.ErrorIs(t, ledger.RecordCredit(uuid.Nil, time.Now(), decimal.NewFromInt(1)), eventsourcing.ErrValidation)
		assert.ErrorIs(t, ledger.RecordCredit(uuid.New(), time.Now(), decimal.Zero), eventsourcing.ErrValidation)
		assert.ErrorIs(t, ledger.RecordDebit(uuid.Nil, time.Now(), decimal.NewFromInt(1)), eventsourcing.ErrValidation)
		assert.ErrorIs(t, ledger.RecordDebit(uuid.New(), time.Now(), decimal.NewFromInt(-1)), eventsourcing.ErrValidation)

		uncreated := float.NewActivityAggregate(uuid.New())
		assert.ErrorIs(t, uncreated.RecordCredit(uuid.New(), time.Now(), decimal.NewFromInt(1)),
			eventsourcing.ErrInvalidOperation)
	})

	t.Run("replay symmetry", func(t *testing.T) {
		ledger := createdLedger(t)
		require.NoError(t, ledger.RecordCredit(uuid.New(), time.Now(), decimal.NewFromInt(100)))
		require.NoError(t, ledger.RecordDebit(uuid.New(), time.Now(), decimal.NewFromInt(25)))

		replayed := float.ActivityFactory(ledger.ID())
		for _, envelope := range ledger.UncommittedEvents() {
			event, err := envelope.Payload()
			require.NoError(t, err)
			require.NoError(t, replayed.ApplyEvent(event))
		}
		require.NoError(t, replayed.LoadFromHistory(ledger.UncommittedEvents()))

		assert.Equal(t, ledger.Version(), replayed.Version())
		assert.Equal(t, ledger.FloatID(), replayed.FloatID())
		assert.True(t, ledger.Balance().Equal(replayed.Balance()))
	})
}
