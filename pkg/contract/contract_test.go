package contract_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/plaenen/backoffice/pkg/contract"
	"github.com/plaenen/backoffice/pkg/eventsourcing"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createdContract(t *testing.T) *contract.Aggregate {
	t.Helper()
	c := contract.NewAggregate(uuid.New())
	require.NoError(t, c.Create(uuid.New(), uuid.New(), "Mobile topup contract"))
	return c
}

func TestCreate(t *testing.T) {
	t.Run("sets state", func(t *testing.T) {
		c := contract.NewAggregate(uuid.New())
		estateID := uuid.New()
		operatorID := uuid.New()

		require.NoError(t, c.Create(estateID, operatorID, "Topups"))

		assert.True(t, c.IsCreated())
		assert.Equal(t, estateID, c.EstateID())
		assert.Equal(t, operatorID, c.OperatorID())
		assert.Equal(t, "Topups", c.Description())
		assert.Len(t, c.UncommittedEvents(), 1)
	})

	t.Run("second call is a no-op", func(t *testing.T) {
		c := createdContract(t)
		before := c.Version()

		require.NoError(t, c.Create(uuid.New(), uuid.New(), "Another description"))

		assert.Equal(t, before, c.Version())
	})

	t.Run("validates arguments", func(t *testing.T) {
		c := contract.NewAggregate(uuid.New())

		assert.ErrorIs(t, c.Create(uuid.Nil, uuid.New(), "x"), eventsourcing.ErrValidation)
		assert.ErrorIs(t, c.Create(uuid.New(), uuid.Nil, "x"), eventsourcing.ErrValidation)
		assert.ErrorIs(t, c.Create(uuid.New(), uuid.New(), ""), eventsourcing.ErrValidation)
	})
}

func TestAddProducts(t *testing.T) {
	t.Run("fixed value product requires positive value", func(t *testing.T) {
		c := createdContract(t)
		err := c.AddFixedValueProduct(uuid.New(), "10 Topup", "£10", decimal.Zero, contract.ProductTypeMobileTopup)
		assert.ErrorIs(t, err, eventsourcing.ErrValidation)
	})

	t.Run("fixed value product stored with value", func(t *testing.T) {
		c := createdContract(t)
		productID := uuid.New()
		value := decimal.RequireFromString("10.00")

		require.NoError(t, c.AddFixedValueProduct(productID, "10 Topup", "£10", value, contract.ProductTypeMobileTopup))

		product, found := c.GetProduct(productID)
		require.True(t, found)
		require.NotNil(t, product.Value)
		assert.True(t, product.Value.Equal(value))
	})

	t.Run("variable value product stored without value", func(t *testing.T) {
		c := createdContract(t)
		productID := uuid.New()

		require.NoError(t, c.AddVariableValueProduct(productID, "Custom Topup", "Custom", contract.ProductTypeMobileTopup))

		product, found := c.GetProduct(productID)
		require.True(t, found)
		assert.Nil(t, product.Value)
	})

	t.Run("duplicate product id rejected", func(t *testing.T) {
		c := createdContract(t)
		productID := uuid.New()
		require.NoError(t, c.AddVariableValueProduct(productID, "Custom Topup", "Custom", contract.ProductTypeMobileTopup))

		err := c.AddVariableValueProduct(productID, "Other name", "Other", contract.ProductTypeMobileTopup)
		assert.ErrorIs(t, err, eventsourcing.ErrInvalidOperation)
	})

	t.Run("duplicate product name rejected", func(t *testing.T) {
		c := createdContract(t)
		require.NoError(t, c.AddVariableValueProduct(uuid.New(), "Custom Topup", "Custom", contract.ProductTypeMobileTopup))

		err := c.AddVariableValueProduct(uuid.New(), "Custom Topup", "Other", contract.ProductTypeMobileTopup)
		assert.ErrorIs(t, err, eventsourcing.ErrInvalidOperation)
	})

	t.Run("requires created contract", func(t *testing.T) {
		c := contract.NewAggregate(uuid.New())
		err := c.AddVariableValueProduct(uuid.New(), "Custom Topup", "Custom", contract.ProductTypeMobileTopup)
		assert.ErrorIs(t, err, eventsourcing.ErrInvalidOperation)
	})
}

func TestAddTransactionFee(t *testing.T) {
	newProduct := func(t *testing.T, c *contract.Aggregate) contract.Product {
		t.Helper()
		productID := uuid.New()
		require.NoError(t, c.AddVariableValueProduct(productID, "Custom Topup", "Custom", contract.ProductTypeMobileTopup))
		product, found := c.GetProduct(productID)
		require.True(t, found)
		return product
	}

	t.Run("adds enabled fee", func(t *testing.T) {
		c := createdContract(t)
		product := newProduct(t, c)
		feeID := uuid.New()

		require.NoError(t, c.AddTransactionFee(&product, feeID, "Merchant commission",
			contract.CalculationTypePercentage, contract.FeeTypeMerchant, decimal.RequireFromString("0.5")))

		stored, _ := c.GetProduct(product.ProductID)
		require.Len(t, stored.TransactionFees, 1)
		assert.Equal(t, feeID, stored.TransactionFees[0].FeeID)
		assert.True(t, stored.TransactionFees[0].IsEnabled)
	})

	t.Run("nil product rejected", func(t *testing.T) {
		c := createdContract(t)
		err := c.AddTransactionFee(nil, uuid.New(), "Fee", contract.CalculationTypeFixed, contract.FeeTypeMerchant, decimal.NewFromInt(1))
		assert.ErrorIs(t, err, eventsourcing.ErrValidation)
	})

	t.Run("unknown product rejected", func(t *testing.T) {
		c := createdContract(t)
		unknown := contract.Product{ProductID: uuid.New()}
		err := c.AddTransactionFee(&unknown, uuid.New(), "Fee", contract.CalculationTypeFixed, contract.FeeTypeMerchant, decimal.NewFromInt(1))
		assert.ErrorIs(t, err, eventsourcing.ErrInvalidOperation)
	})

	t.Run("duplicate fee id on same product rejected", func(t *testing.T) {
		c := createdContract(t)
		product := newProduct(t, c)
		feeID := uuid.New()
		require.NoError(t, c.AddTransactionFee(&product, feeID, "Fee",
			contract.CalculationTypeFixed, contract.FeeTypeMerchant, decimal.NewFromInt(1)))

		err := c.AddTransactionFee(&product, feeID, "Fee again",
			contract.CalculationTypeFixed, contract.FeeTypeMerchant, decimal.NewFromInt(1))
		assert.ErrorIs(t, err, eventsourcing.ErrInvalidOperation)
	})

	t.Run("invalid enums and value rejected", func(t *testing.T) {
		c := createdContract(t)
		product := newProduct(t, c)

		err := c.AddTransactionFee(&product, uuid.New(), "Fee", contract.CalculationType(9), contract.FeeTypeMerchant, decimal.NewFromInt(1))
		assert.ErrorIs(t, err, eventsourcing.ErrValidation)

		err = c.AddTransactionFee(&product, uuid.New(), "Fee", contract.CalculationTypeFixed, contract.FeeType(9), decimal.NewFromInt(1))
		assert.ErrorIs(t, err, eventsourcing.ErrValidation)

		err = c.AddTransactionFee(&product, uuid.New(), "Fee", contract.CalculationTypeFixed, contract.FeeTypeMerchant, decimal.Zero)
		assert.ErrorIs(t, err, eventsourcing.ErrValidation)
	})
}

func TestDisableTransactionFee(t *testing.T) {
	c := createdContract(t)
	productID := uuid.New()
	require.NoError(t, c.AddVariableValueProduct(productID, "Custom Topup", "Custom", contract.ProductTypeMobileTopup))
	product, _ := c.GetProduct(productID)
	feeID := uuid.New()
	require.NoError(t, c.AddTransactionFee(&product, feeID, "Fee",
		contract.CalculationTypeFixed, contract.FeeTypeMerchant, decimal.NewFromInt(1)))

	t.Run("disables but retains fee", func(t *testing.T) {
		require.NoError(t, c.DisableTransactionFee(productID, feeID))

		stored, _ := c.GetProduct(productID)
		require.Len(t, stored.TransactionFees, 1)
		assert.False(t, stored.TransactionFees[0].IsEnabled)
	})

	t.Run("missing product or fee rejected", func(t *testing.T) {
		assert.ErrorIs(t, c.DisableTransactionFee(uuid.New(), feeID), eventsourcing.ErrInvalidOperation)
		assert.ErrorIs(t, c.DisableTransactionFee(productID, uuid.New()), eventsourcing.ErrInvalidOperation)
	})
}

func TestReplaySymmetry(t *testing.T) {
	c := createdContract(t)
	productID := uuid.New()
	require.NoError(t, c.AddFixedValueProduct(productID, "10 Topup", "£10", decimal.RequireFromString("10.00"), contract.ProductTypeMobileTopup))
	product, _ := c.GetProduct(productID)
	feeID := uuid.New()
	require.NoError(t, c.AddTransactionFee(&product, feeID, "Fee",
		contract.CalculationTypePercentage, contract.FeeTypeServiceProvider, decimal.RequireFromString("1.5")))
	require.NoError(t, c.DisableTransactionFee(productID, feeID))

	replayed := contract.Factory(c.ID())
	for _, envelope := range c.UncommittedEvents() {
		event, err := envelope.Payload()
		require.NoError(t, err)
		require.NoError(t, replayed.ApplyEvent(event))
	}
	require.NoError(t, replayed.LoadFromHistory(c.UncommittedEvents()))

	assert.Equal(t, c.Version(), replayed.Version())
	assert.Equal(t, c.IsCreated(), replayed.IsCreated())
	assert.Equal(t, c.EstateID(), replayed.EstateID())
	assert.Equal(t, c.Description(), replayed.Description())
	assert.Equal(t, c.Products(), replayed.Products())
}
