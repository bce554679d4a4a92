package voucher_test

import (
	"regexp"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/plaenen/backoffice/pkg/eventsourcing"
	"github.com/plaenen/backoffice/pkg/voucher"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var voucherValue = decimal.RequireFromString("50.00")

func generated(t *testing.T) *voucher.Aggregate {
	t.Helper()
	v := voucher.NewAggregate(uuid.New())
	require.NoError(t, v.Generate(uuid.New(), uuid.New(), voucherValue))
	return v
}

func TestGenerate(t *testing.T) {
	t.Run("generates code and expiry", func(t *testing.T) {
		generatedAt := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
		restore := eventsourcing.TimeFunc
		eventsourcing.TimeFunc = func() time.Time { return generatedAt }
		defer func() { eventsourcing.TimeFunc = restore }()

		v := generated(t)
		assert.Equal(t, voucher.StateGenerated, v.State())
		assert.Regexp(t, regexp.MustCompile(`^\d{10}$`), v.VoucherCode())
		assert.Equal(t, generatedAt.Add(30*24*time.Hour), v.ExpiryDateTime())
		assert.True(t, v.Value().Equal(voucherValue))
	})

	t.Run("code is stable per voucher id", func(t *testing.T) {
		id := uuid.New()
		first := voucher.NewAggregate(id)
		require.NoError(t, first.Generate(uuid.New(), uuid.New(), voucherValue))

		second := voucher.NewAggregate(id)
		require.NoError(t, second.Generate(uuid.New(), uuid.New(), voucherValue))

		assert.Equal(t, first.VoucherCode(), second.VoucherCode())

		other := generated(t)
		assert.NotEqual(t, first.VoucherCode(), other.VoucherCode())
	})

	t.Run("validation", func(t *testing.T) {
		v := voucher.NewAggregate(uuid.New())
		assert.ErrorIs(t, v.Generate(uuid.Nil, uuid.New(), voucherValue), eventsourcing.ErrValidation)
		assert.ErrorIs(t, v.Generate(uuid.New(), uuid.Nil, voucherValue), eventsourcing.ErrValidation)
		assert.ErrorIs(t, v.Generate(uuid.New(), uuid.New(), decimal.Zero), eventsourcing.ErrValidation)
		assert.ErrorIs(t, v.Generate(uuid.New(), uuid.New(), decimal.NewFromInt(-1)), eventsourcing.ErrValidation)
	})

	t.Run("cannot regenerate", func(t *testing.T) {
		v := generated(t)
		err := v.Generate(uuid.New(), uuid.New(), voucherValue)
		assert.ErrorIs(t, err, eventsourcing.ErrInvalidOperation)
	})
}

func TestAddBarcode(t *testing.T) {
	t.Run("adds once", func(t *testing.T) {
		v := generated(t)
		require.NoError(t, v.AddBarcode("iVBORw0KGgo="))
		assert.Equal(t, "iVBORw0KGgo=", v.Barcode())

		err := v.AddBarcode("c2Vjb25k")
		assert.ErrorIs(t, err, eventsourcing.ErrInvalidOperation)
		assert.Equal(t, "iVBORw0KGgo=", v.Barcode())
	})

	t.Run("requires generated voucher", func(t *testing.T) {
		v := voucher.NewAggregate(uuid.New())
		assert.ErrorIs(t, v.AddBarcode("iVBORw0KGgo="), eventsourcing.ErrInvalidOperation)
	})

	t.Run("empty barcode rejected", func(t *testing.T) {
		v := generated(t)
		assert.ErrorIs(t, v.AddBarcode(""), eventsourcing.ErrValidation)
	})
}

func TestIssue(t *testing.T) {
	t.Run("issues to an email recipient", func(t *testing.T) {
		v := generated(t)
		require.NoError(t, v.Issue("customer@example.com", ""))
		assert.Equal(t, voucher.StateIssued, v.State())
	})

	t.Run("issues to a mobile recipient", func(t *testing.T) {
		v := generated(t)
		require.NoError(t, v.Issue("", "+27821234567"))
		assert.Equal(t, voucher.StateIssued, v.State())
	})

	t.Run("requires a recipient", func(t *testing.T) {
		v := generated(t)
		assert.ErrorIs(t, v.Issue("", ""), eventsourcing.ErrValidation)
	})

	t.Run("rejects a malformed email", func(t *testing.T) {
		v := generated(t)
		assert.ErrorIs(t, v.Issue("not-an-email", "+27821234567"), eventsourcing.ErrValidation)
	})

	t.Run("cannot issue twice", func(t *testing.T) {
		v := generated(t)
		require.NoError(t, v.Issue("customer@example.com", ""))
		assert.ErrorIs(t, v.Issue("customer@example.com", ""), eventsourcing.ErrInvalidOperation)
	})

	t.Run("requires generated voucher", func(t *testing.T) {
		v := voucher.NewAggregate(uuid.New())
		assert.ErrorIs(t, v.Issue("customer@example.com", ""), eventsourcing.ErrInvalidOperation)
	})
}

func TestRedeem(t *testing.T) {
	issuedVoucher := func(t *testing.T) *voucher.Aggregate {
		v := generated(t)
		require.NoError(t, v.Issue("customer@example.com", ""))
		return v
	}

	t.Run("redeems an issued voucher", func(t *testing.T) {
		v := issuedVoucher(t)
		require.NoError(t, v.Redeem(time.Date(2024, 6, 5, 9, 0, 0, 0, time.UTC)))
		assert.Equal(t, voucher.StateRedeemed, v.State())
	})

	t.Run("only issued vouchers redeem", func(t *testing.T) {
		v := generated(t)
		assert.ErrorIs(t, v.Redeem(time.Now()), eventsourcing.ErrInvalidOperation)

		redeemed := issuedVoucher(t)
		require.NoError(t, redeemed.Redeem(time.Now()))
		assert.ErrorIs(t, redeemed.Redeem(time.Now()), eventsourcing.ErrInvalidOperation)
	})

	t.Run("zero redemption time rejected", func(t *testing.T) {
		v := issuedVoucher(t)
		assert.ErrorIs(t, v.Redeem(time.Time{}), eventsourcing.ErrValidation)
	})
}

func TestReplaySymmetry(t *testing.T) {
	v := generated(t)
	require.NoError(t, v.AddBarcode("iVBORw0KGgo="))
	require.NoError(t, v.Issue("customer@example.com", "+27821234567"))
	require.NoError(t, v.Redeem(time.Date(2024, 6, 5, 9, 0, 0, 0, time.UTC)))

	replayed := voucher.Factory(v.ID())
	for _, envelope := range v.UncommittedEvents() {
		event, err := envelope.Payload()
		require.NoError(t, err)
		require.NoError(t, replayed.ApplyEvent(event))
	}
	require.NoError(t, replayed.LoadFromHistory(v.UncommittedEvents()))

	assert.Equal(t, v.Version(), replayed.Version())
	assert.Equal(t, v.State(), replayed.State())
	assert.Equal(t, v.EstateID(), replayed.EstateID())
	assert.Equal(t, v.TransactionID(), replayed.TransactionID())
	assert.Equal(t, v.VoucherCode(), replayed.VoucherCode())
	assert.Equal(t, v.Barcode(), replayed.Barcode())
	assert.True(t, v.Value().Equal(replayed.Value()))
	assert.Equal(t, v.ExpiryDateTime(), replayed.ExpiryDateTime())
}
