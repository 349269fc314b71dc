package market

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Misaki-Akeno/QuantTools/internal/binance"
)

func kline(open, high, low, close string) binance.Kline {
	return binance.Kline{Open: open, High: high, Low: low, Close: close}
}

func TestGarmanKlassFlatMarketIsZero(t *testing.T) {
	klines := []binance.Kline{
		kline("100", "100", "100", "100"),
		kline("100", "100", "100", "100"),
	}
	vol, err := GarmanKlass(klines)
	require.NoError(t, err)
	assert.Equal(t, 0.0, vol)
}

func TestGarmanKlassSingleCandle(t *testing.T) {
	// open=close removes the second term, leaving
	// sigma = sqrt(0.5 * ln(high/low)^2).
	vol, err := GarmanKlass([]binance.Kline{kline("100", "102", "98", "100")})
	require.NoError(t, err)

	want := math.Sqrt(0.5 * math.Pow(math.Log(102.0/98.0), 2))
	assert.InDelta(t, want, vol, 1e-12)
}

func TestGarmanKlassWiderRangeMeansMoreVolatility(t *testing.T) {
	calm, err := GarmanKlass([]binance.Kline{kline("100", "100.5", "99.5", "100.1")})
	require.NoError(t, err)
	wild, err := GarmanKlass([]binance.Kline{kline("100", "108", "93", "101")})
	require.NoError(t, err)
	assert.Greater(t, wild, calm)
}

func TestGarmanKlassSkipsBadCandles(t *testing.T) {
	klines := []binance.Kline{
		kline("", "x", "y", "z"),
		kline("0", "1", "0", "1"),
		kline("100", "102", "98", "100"),
	}
	vol, err := GarmanKlass(klines)
	require.NoError(t, err)
	assert.Greater(t, vol, 0.0)
}

func TestGarmanKlassNoUsableData(t *testing.T) {
	_, err := GarmanKlass(nil)
	assert.ErrorIs(t, err, ErrNotEnoughData)

	_, err = GarmanKlass([]binance.Kline{kline("bad", "bad", "bad", "bad")})
	assert.ErrorIs(t, err, ErrNotEnoughData)
}

func TestRange(t *testing.T) {
	klines := []binance.Kline{
		kline("100", "105", "99", "104"),
		kline("104", "110", "103", "108"),
		kline("108", "109", "101", "102"),
	}
	high, low, err := Range(klines)
	require.NoError(t, err)
	assert.Equal(t, 110.0, high)
	assert.Equal(t, 99.0, low)

	_, _, err = Range(nil)
	assert.ErrorIs(t, err, ErrNotEnoughData)
}
