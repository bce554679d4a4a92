package settlement_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/plaenen/backoffice/pkg/contract"
	"github.com/plaenen/backoffice/pkg/eventsourcing"
	"github.com/plaenen/backoffice/pkg/settlement"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var batchDate = time.Date(2024, 6, 8, 0, 0, 0, 0, time.UTC)

func createdBatch(t *testing.T) *settlement.Aggregate {
	t.Helper()
	batch := settlement.NewAggregate(uuid.New())
	require.NoError(t, batch.Create(uuid.New(), uuid.New(), batchDate))
	return batch
}

func feeValue() decimal.Decimal { return decimal.RequireFromString("0.125") }

func TestCreate(t *testing.T) {
	t.Run("normalizes the settlement date", func(t *testing.T) {
		batch := settlement.NewAggregate(uuid.New())
		require.NoError(t, batch.Create(uuid.New(), uuid.New(),
			time.Date(2024, 6, 8, 14, 32, 9, 0, time.UTC)))
		assert.True(t, batch.IsCreated())
		assert.Equal(t, batchDate, batch.SettlementDate())
	})

	t.Run("second create rejected", func(t *testing.T) {
		batch := createdBatch(t)
		err := batch.Create(uuid.New(), uuid.New(), batchDate)
		assert.ErrorIs(t, err, eventsourcing.ErrInvalidOperation)
	})

	t.Run("validation", func(t *testing.T) {
		batch := settlement.NewAggregate(uuid.New())
		assert.ErrorIs(t, batch.Create(uuid.Nil, uuid.New(), batchDate), eventsourcing.ErrValidation)
		assert.ErrorIs(t, batch.Create(uuid.New(), uuid.Nil, batchDate), eventsourcing.ErrValidation)
		assert.ErrorIs(t, batch.Create(uuid.New(), uuid.New(), time.Time{}), eventsourcing.ErrValidation)
		assert.False(t, batch.IsCreated())
	})
}

func TestAddFee(t *testing.T) {
	t.Run("adds pending merchant fee", func(t *testing.T) {
		batch := createdBatch(t)
		require.NoError(t, batch.AddFee(uuid.New(), uuid.New(), contract.FeeTypeMerchant, feeValue()))
		assert.Equal(t, 1, batch.GetNumberOfFeesPendingSettlement())
		assert.Equal(t, 0, batch.GetNumberOfFeesSettled())
	})

	t.Run("duplicate fee is a silent no-op", func(t *testing.T) {
		batch := createdBatch(t)
		transactionID := uuid.New()
		feeID := uuid.New()
		require.NoError(t, batch.AddFee(transactionID, feeID, contract.FeeTypeMerchant, feeValue()))
		before := batch.Version()

		require.NoError(t, batch.AddFee(transactionID, feeID, contract.FeeTypeMerchant, feeValue()))

		assert.Equal(t, before, batch.Version())
		assert.Equal(t, 1, batch.GetNumberOfFeesPendingSettlement())
	})

	t.Run("same fee id on another transaction is distinct", func(t *testing.T) {
		batch := createdBatch(t)
		feeID := uuid.New()
		require.NoError(t, batch.AddFee(uuid.New(), feeID, contract.FeeTypeMerchant, feeValue()))
		require.NoError(t, batch.AddFee(uuid.New(), feeID, contract.FeeTypeMerchant, feeValue()))
		assert.Equal(t, 2, batch.GetNumberOfFeesPendingSettlement())
	})

	t.Run("service provider fee rejected", func(t *testing.T) {
		batch := createdBatch(t)
		err := batch.AddFee(uuid.New(), uuid.New(), contract.FeeTypeServiceProvider, feeValue())
		assert.ErrorIs(t, err, eventsourcing.ErrValidation)
	})

	t.Run("requires created batch", func(t *testing.T) {
		batch := settlement.NewAggregate(uuid.New())
		err := batch.AddFee(uuid.New(), uuid.New(), contract.FeeTypeMerchant, feeValue())
		assert.ErrorIs(t, err, eventsourcing.ErrInvalidOperation)
	})
}

func TestMarkFeeAsSettled(t *testing.T) {
	t.Run("moves fee from pending to settled", func(t *testing.T) {
		batch := createdBatch(t)
		transactionID := uuid.New()
		feeID := uuid.New()
		require.NoError(t, batch.AddFee(transactionID, feeID, contract.FeeTypeMerchant, feeValue()))
		require.NoError(t, batch.AddFee(uuid.New(), uuid.New(), contract.FeeTypeMerchant, feeValue()))

		require.NoError(t, batch.MarkFeeAsSettled(batch.MerchantID(), transactionID, feeID, batchDate))

		assert.Equal(t, 1, batch.GetNumberOfFeesPendingSettlement())
		assert.Equal(t, 1, batch.GetNumberOfFeesSettled())
		assert.False(t, batch.IsComplete())
	})

	t.Run("settling the last fee completes the batch", func(t *testing.T) {
		batch := createdBatch(t)
		transactionID := uuid.New()
		feeID := uuid.New()
		require.NoError(t, batch.AddFee(transactionID, feeID, contract.FeeTypeMerchant, feeValue()))

		require.NoError(t, batch.MarkFeeAsSettled(batch.MerchantID(), transactionID, feeID, batchDate))

		assert.True(t, batch.IsComplete())
		events := batch.UncommittedEvents()
		require.NotEmpty(t, events)
		last, err := events[len(events)-1].Payload()
		require.NoError(t, err)
		assert.IsType(t, &settlement.CompletedEvent{}, last)
	})

	t.Run("missing fee is a silent no-op", func(t *testing.T) {
		batch := createdBatch(t)
		before := batch.Version()
		require.NoError(t, batch.MarkFeeAsSettled(batch.MerchantID(), uuid.New(), uuid.New(), batchDate))
		assert.Equal(t, before, batch.Version())
	})

	t.Run("merchant and date must match the batch", func(t *testing.T) {
		batch := createdBatch(t)
		transactionID := uuid.New()
		feeID := uuid.New()
		require.NoError(t, batch.AddFee(transactionID, feeID, contract.FeeTypeMerchant, feeValue()))

		err := batch.MarkFeeAsSettled(uuid.New(), transactionID, feeID, batchDate)
		assert.ErrorIs(t, err, eventsourcing.ErrValidation)

		err = batch.MarkFeeAsSettled(batch.MerchantID(), transactionID, feeID, batchDate.AddDate(0, 0, 1))
		assert.ErrorIs(t, err, eventsourcing.ErrValidation)

		assert.Equal(t, 1, batch.GetNumberOfFeesPendingSettlement())
	})

	t.Run("time of day is ignored in the date match", func(t *testing.T) {
		batch := createdBatch(t)
		transactionID := uuid.New()
		feeID := uuid.New()
		require.NoError(t, batch.AddFee(transactionID, feeID, contract.FeeTypeMerchant, feeValue()))

		require.NoError(t, batch.MarkFeeAsSettled(batch.MerchantID(), transactionID, feeID,
			time.Date(2024, 6, 8, 23, 59, 0, 0, time.UTC)))
		assert.Equal(t, 1, batch.GetNumberOfFeesSettled())
	})
}

func TestImmediatelyMarkFeeAsSettled(t *testing.T) {
	t.Run("records straight to settled without completing", func(t *testing.T) {
		batch := createdBatch(t)
		require.NoError(t, batch.ImmediatelyMarkFeeAsSettled(uuid.New(), uuid.New(), contract.FeeTypeMerchant, feeValue()))

		assert.Equal(t, 0, batch.GetNumberOfFeesPendingSettlement())
		assert.Equal(t, 1, batch.GetNumberOfFeesSettled())
		assert.False(t, batch.IsComplete())
	})

	t.Run("duplicate is a silent no-op", func(t *testing.T) {
		batch := createdBatch(t)
		transactionID := uuid.New()
		feeID := uuid.New()
		require.NoError(t, batch.ImmediatelyMarkFeeAsSettled(transactionID, feeID, contract.FeeTypeMerchant, feeValue()))
		before := batch.Version()

		require.NoError(t, batch.ImmediatelyMarkFeeAsSettled(transactionID, feeID, contract.FeeTypeMerchant, feeValue()))
		assert.Equal(t, before, batch.Version())
	})

	t.Run("service provider fee rejected", func(t *testing.T) {
		batch := createdBatch(t)
		err := batch.ImmediatelyMarkFeeAsSettled(uuid.New(), uuid.New(), contract.FeeTypeServiceProvider, feeValue())
		assert.ErrorIs(t, err, eventsourcing.ErrValidation)
	})
}

func TestProcessingAndManualCompletion(t *testing.T) {
	t.Run("start processing latest timestamp wins", func(t *testing.T) {
		batch := createdBatch(t)
		first := time.Date(2024, 6, 8, 1, 0, 0, 0, time.UTC)
		second := time.Date(2024, 6, 8, 2, 0, 0, 0, time.UTC)

		require.NoError(t, batch.StartProcessing(first))
		require.NoError(t, batch.StartProcessing(second))

		assert.True(t, batch.ProcessingStarted())
		assert.Equal(t, second, batch.ProcessingStartedDateTime())
	})

	t.Run("manual completion ignores pending fees", func(t *testing.T) {
		batch := createdBatch(t)
		require.NoError(t, batch.AddFee(uuid.New(), uuid.New(), contract.FeeTypeMerchant, feeValue()))

		require.NoError(t, batch.ManuallyComplete(time.Date(2024, 6, 9, 0, 0, 0, 0, time.UTC)))

		assert.True(t, batch.IsComplete())
		assert.Equal(t, 1, batch.GetNumberOfFeesPendingSettlement())
	})

	t.Run("manual completion keeps the latest timestamp", func(t *testing.T) {
		batch := createdBatch(t)
		first := time.Date(2024, 6, 9, 8, 0, 0, 0, time.UTC)
		second := time.Date(2024, 6, 9, 14, 0, 0, 0, time.UTC)

		require.NoError(t, batch.ManuallyComplete(first))
		assert.Equal(t, first, batch.CompletedDateTime())

		require.NoError(t, batch.ManuallyComplete(second))
		assert.Equal(t, second, batch.CompletedDateTime())
	})

	t.Run("require created batch", func(t *testing.T) {
		batch := settlement.NewAggregate(uuid.New())
		assert.ErrorIs(t, batch.StartProcessing(time.Now()), eventsourcing.ErrInvalidOperation)
		assert.ErrorIs(t, batch.ManuallyComplete(time.Now()), eventsourcing.ErrInvalidOperation)
	})
}

func TestReplaySymmetry(t *testing.T) {
	batch := createdBatch(t)
	transactionID := uuid.New()
	feeID := uuid.New()
	require.NoError(t, batch.AddFee(transactionID, feeID, contract.FeeTypeMerchant, feeValue()))
	require.NoError(t, batch.AddFee(uuid.New(), uuid.New(), contract.FeeTypeMerchant, feeValue()))
	require.NoError(t, batch.ImmediatelyMarkFeeAsSettled(uuid.New(), uuid.New(), contract.FeeTypeMerchant, feeValue()))
	require.NoError(t, batch.StartProcessing(time.Date(2024, 6, 8, 1, 0, 0, 0, time.UTC)))
	require.NoError(t, batch.MarkFeeAsSettled(batch.MerchantID(), transactionID, feeID, batchDate))

	replayed := settlement.Factory(batch.ID())
	for _, envelope := range batch.UncommittedEvents() {
		event, err := envelope.Payload()
		require.NoError(t, err)
		require.NoError(t, replayed.ApplyEvent(event))
	}
	require.NoError(t, replayed.LoadFromHistory(batch.UncommittedEvents()))

	assert.Equal(t, batch.Version(), replayed.Version())
	assert.Equal(t, batch.EstateID(), replayed.EstateID())
	assert.Equal(t, batch.MerchantID(), replayed.MerchantID())
	assert.Equal(t, batch.SettlementDate(), replayed.SettlementDate())
	assert.Equal(t, batch.GetNumberOfFeesPendingSettlement(), replayed.GetNumberOfFeesPendingSettlement())
	assert.Equal(t, batch.GetNumberOfFeesSettled(), replayed.GetNumberOfFeesSettled())
	assert.Equal(t, batch.ProcessingStarted(), replayed.ProcessingStarted())
	assert.Equal(t, batch.IsComplete(), replayed.IsComplete())
}

func TestFeeSettledReplayWithoutPendingFails(t *testing.T) {
	batch := settlement.Factory(uuid.New().String())
	err := batch.ApplyEvent(&settlement.FeeSettledEvent{
		SettlementID:  uuid.New(),
		TransactionID: uuid.New(),
		FeeID:         uuid.New(),
	})
	require.Error(t, err)
}
