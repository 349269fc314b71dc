package model

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOrderRequestValidate(t *testing.T) {
	qty := decimal.RequireFromString("0.01")
	price := decimal.RequireFromString("2000")

	base := func() OrderRequest {
		return OrderRequest{
			Symbol:      "ETHUSDC",
			Side:        SideBuy,
			Type:        OrderTypeLimit,
			TimeInForce: TimeInForceGTC,
			Quantity:    qty,
			Price:       price,
		}
	}

	t.Run("valid limit order", func(t *testing.T) {
		o := base()
		require.NoError(t, o.Validate())
	})

	t.Run("limit requires price", func(t *testing.T) {
		o := base()
		o.Price = decimal.Zero
		assert.ErrorContains(t, o.Validate(), "requires price")
	})

	t.Run("limit requires timeInForce", func(t *testing.T) {
		o := base()
		o.TimeInForce = ""
		assert.ErrorContains(t, o.Validate(), "timeInForce")
	})

	t.Run("market needs no price", func(t *testing.T) {
		o := base()
		o.Type = OrderTypeMarket
		o.Price = decimal.Zero
		o.TimeInForce = ""
		require.NoError(t, o.Validate())
	})

	t.Run("stop requires stopPrice", func(t *testing.T) {
		o := base()
		o.Type = OrderTypeStop
		assert.ErrorContains(t, o.Validate(), "stopPrice")
	})

	t.Run("stop market requires stopPrice only", func(t *testing.T) {
		o := base()
		o.Type = OrderTypeStopMarket
		o.Price = decimal.Zero
		o.TimeInForce = ""
		o.StopPrice = decimal.RequireFromString("1900")
		require.NoError(t, o.Validate())
	})

	t.Run("quantity required without closePosition", func(t *testing.T) {
		o := base()
		o.Type = OrderTypeMarket
		o.Price = decimal.Zero
		o.TimeInForce = ""
		o.Quantity = decimal.Zero
		assert.ErrorContains(t, o.Validate(), "quantity is required")
	})

	t.Run("closePosition excludes quantity", func(t *testing.T) {
		o := base()
		o.Type = OrderTypeStopMarket
		o.Price = decimal.Zero
		o.TimeInForce = ""
		o.StopPrice = decimal.RequireFromString("1900")
		o.ClosePosition = true
		assert.ErrorContains(t, o.Validate(), "mutually exclusive")

		o.Quantity = decimal.Zero
		require.NoError(t, o.Validate())
	})

	t.Run("closePosition excludes reduceOnly", func(t *testing.T) {
		o := base()
		o.Type = OrderTypeStopMarket
		o.Price = decimal.Zero
		o.TimeInForce = ""
		o.StopPrice = decimal.RequireFromString("1900")
		o.Quantity = decimal.Zero
		o.ClosePosition = true
		o.ReduceOnly = true
		assert.ErrorContains(t, o.Validate(), "reduceOnly")
	})

	t.Run("invalid enums rejected", func(t *testing.T) {
		o := base()
		o.Side = "HOLD"
		assert.ErrorContains(t, o.Validate(), "invalid side")

		o = base()
		o.Type = "ICEBERG"
		assert.ErrorContains(t, o.Validate(), "invalid type")

		o = base()
		o.PositionSide = "SIDEWAYS"
		assert.ErrorContains(t, o.Validate(), "positionSide")
	})
}

func TestOrderTypeClassification(t *testing.T) {
	assert.True(t, OrderTypeMarket.IsMarket())
	assert.True(t, OrderTypeStopMarket.IsMarket())
	assert.True(t, OrderTypeTrailingStopMarket.IsMarket())
	assert.False(t, OrderTypeLimit.IsMarket())
	assert.False(t, OrderTypeStop.IsMarket())

	assert.True(t, OrderTypeStop.IsConditional())
	assert.True(t, OrderTypeTakeProfitMarket.IsConditional())
	assert.False(t, OrderTypeLimit.IsConditional())
	assert.False(t, OrderTypeTrailingStopMarket.IsConditional())
}

func TestParseSide(t *testing.T) {
	s, err := ParseSide("BUY")
	require.NoError(t, err)
	assert.Equal(t, SideBuy, s)

	_, err = ParseSide("buy")
	assert.ErrorContains(t, err, "unsupported order side")
}
