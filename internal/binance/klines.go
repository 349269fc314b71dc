package binance

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	json "github.com/goccy/go-json"
)

// Kline is one candlestick row. The exchange sends OHLCV as strings inside
// a mixed-type array; prices stay strings here.
type Kline struct {
	OpenTime  int64
	Open      string
	High      string
	Low       string
	Close     string
	Volume    string
	CloseTime int64
}

// GetKlines fetches recent candlesticks for the symbol. interval uses the
// exchange notation ("1m", "1h", "1d").
func (c *Client) GetKlines(ctx context.Context, symbol, interval string, limit int) ([]Kline, error) {
	query := url.Values{}
	query.Set("symbol", symbol)
	query.Set("interval", interval)
	if limit > 0 {
		query.Set("limit", strconv.Itoa(limit))
	}
	body, _, err := c.publicRequest(ctx, http.MethodGet, "/fapi/v1/klines", query)
	if err != nil {
		return nil, err
	}

	// Each row is [openTime, open, high, low, close, volume, closeTime, ...].
	var rows [][]json.RawMessage
	if err := json.Unmarshal(body, &rows); err != nil {
		return nil, fmt.Errorf("failed to parse klines: %w", err)
	}

	klines := make([]Kline, 0, len(rows))
	for _, row := range rows {
		if len(row) < 7 {
			continue
		}
		var k Kline
		fields := []struct {
			idx int
			dst interface{}
		}{
			{0, &k.OpenTime},
			{1, &k.Open},
			{2, &k.High},
			{3, &k.Low},
			{4, &k.Close},
			{5, &k.Volume},
			{6, &k.CloseTime},
		}
		ok := true
		for _, f := range fields {
			if err := json.Unmarshal(row[f.idx], f.dst); err != nil {
				ok = false
				break
			}
		}
		if ok {
			klines = append(klines, k)
		}
	}
	return klines, nil
}
