// Package market provides candlestick analytics on top of the exchange
// client's market data.
package market

import (
	"errors"
	"math"
	"strconv"

	"github.com/Misaki-Akeno/QuantTools/internal/binance"
)

var ErrNotEnoughData = errors.New("not enough candles")

// GarmanKlass estimates per-candle volatility from OHLC data using the
// Garman-Klass estimator:
//
//	sigma^2 = 0.5 * ln(High/Low)^2 - (2*ln(2) - 1) * ln(Close/Open)^2
//
// The result is the square root of the average sigma^2 over the slice.
// Candles with unparseable or zero prices are skipped.
func GarmanKlass(klines []binance.Kline) (float64, error) {
	cons := 2.0*math.Log(2.0) - 1.0

	var sum float64
	count := 0
	for _, k := range klines {
		o, errO := strconv.ParseFloat(k.Open, 64)
		h, errH := strconv.ParseFloat(k.High, 64)
		l, errL := strconv.ParseFloat(k.Low, 64)
		c, errC := strconv.ParseFloat(k.Close, 64)
		if errO != nil || errH != nil || errL != nil || errC != nil || o == 0 || l == 0 {
			continue
		}

		term1 := math.Pow(math.Log(h/l), 2)
		term2 := math.Pow(math.Log(c/o), 2)
		sum += 0.5*term1 - cons*term2
		count++
	}

	if count == 0 {
		return 0, ErrNotEnoughData
	}
	return math.Sqrt(sum / float64(count)), nil
}

// Range returns the highest high and lowest low across the slice.
func Range(klines []binance.Kline) (high, low float64, err error) {
	for _, k := range klines {
		h, errH := strconv.ParseFloat(k.High, 64)
		l, errL := strconv.ParseFloat(k.Low, 64)
		if errH != nil || errL != nil {
			continue
		}
		if high == 0 || h > high {
			high = h
		}
		if low == 0 || l < low {
			low = l
		}
	}
	if high == 0 || low == 0 {
		return 0, 0, ErrNotEnoughData
	}
	return high, low, nil
}
