package binance

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	json "github.com/goccy/go-json"
	"github.com/shopspring/decimal"

	"github.com/Misaki-Akeno/QuantTools/internal/model"
)

// Market-data pass-through calls. Plain unsigned GETs with no validation
// logic; they exist so callers can source filters and mark prices from the
// same client.

// GetExchangeInfo fetches trading rules, optionally for a single symbol.
func (c *Client) GetExchangeInfo(ctx context.Context, symbol string) (*model.ExchangeInfo, error) {
	query := url.Values{}
	if symbol != "" {
		query.Set("symbol", symbol)
	}
	body, _, err := c.publicRequest(ctx, http.MethodGet, "/fapi/v1/exchangeInfo", query)
	if err != nil {
		return nil, err
	}
	var info model.ExchangeInfo
	if err := json.Unmarshal(body, &info); err != nil {
		return nil, fmt.Errorf("failed to parse exchange info: %w", err)
	}
	return &info, nil
}

// SymbolFilters fetches and parses the filter set for one symbol.
func (c *Client) SymbolFilters(ctx context.Context, symbol string) (*model.SymbolFilters, error) {
	info, err := c.GetExchangeInfo(ctx, symbol)
	if err != nil {
		return nil, err
	}
	for _, s := range info.Symbols {
		if s.Symbol == symbol {
			return model.ParseSymbolFilters(s)
		}
	}
	return nil, fmt.Errorf("symbol %s not present in exchange info", symbol)
}

// GetMarkPrice fetches the mark price used for filter checks and
// liquidation, distinct from the last traded price.
func (c *Client) GetMarkPrice(ctx context.Context, symbol string) (decimal.Decimal, error) {
	query := url.Values{}
	query.Set("symbol", symbol)
	body, _, err := c.publicRequest(ctx, http.MethodGet, "/fapi/v1/premiumIndex", query)
	if err != nil {
		return decimal.Zero, err
	}
	var resp struct {
		MarkPrice string `json:"markPrice"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return decimal.Zero, fmt.Errorf("failed to parse mark price: %w", err)
	}
	mark, err := decimal.NewFromString(resp.MarkPrice)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid mark price %q: %w", resp.MarkPrice, err)
	}
	return mark, nil
}

// TickerPrice fetches the last traded price.
func (c *Client) TickerPrice(ctx context.Context, symbol string) (decimal.Decimal, error) {
	query := url.Values{}
	query.Set("symbol", symbol)
	body, _, err := c.publicRequest(ctx, http.MethodGet, "/fapi/v2/ticker/price", query)
	if err != nil {
		return decimal.Zero, err
	}
	var resp struct {
		Price string `json:"price"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return decimal.Zero, fmt.Errorf("failed to parse ticker price: %w", err)
	}
	price, err := decimal.NewFromString(resp.Price)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid ticker price %q: %w", resp.Price, err)
	}
	return price, nil
}

// Depth is a top-of-book snapshot; bids and asks are [price, quantity]
// string pairs as the exchange sends them.
type Depth struct {
	LastUpdateID int64       `json:"lastUpdateId"`
	Bids         [][2]string `json:"bids"`
	Asks         [][2]string `json:"asks"`
}

// GetDepth fetches order book depth, limit rows per side.
func (c *Client) GetDepth(ctx context.Context, symbol string, limit int) (*Depth, error) {
	query := url.Values{}
	query.Set("symbol", symbol)
	if limit > 0 {
		query.Set("limit", strconv.Itoa(limit))
	}
	body, _, err := c.publicRequest(ctx, http.MethodGet, "/fapi/v1/depth", query)
	if err != nil {
		return nil, err
	}
	var depth Depth
	if err := json.Unmarshal(body, &depth); err != nil {
		return nil, fmt.Errorf("failed to parse depth: %w", err)
	}
	return &depth, nil
}
