package model

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Filter type tags as declared by the exchange.
const (
	FilterTypePrice            = "PRICE_FILTER"
	FilterTypeLotSize          = "LOT_SIZE"
	FilterTypeMarketLotSize    = "MARKET_LOT_SIZE"
	FilterTypeMinNotional      = "MIN_NOTIONAL"
	FilterTypePercentPrice     = "PERCENT_PRICE"
	FilterTypeMaxNumOrders     = "MAX_NUM_ORDERS"
	FilterTypeMaxNumAlgoOrders = "MAX_NUM_ALGO_ORDERS"
)

// PriceFilter bounds the order price. A zero field disables that sub-check.
type PriceFilter struct {
	MinPrice decimal.Decimal
	MaxPrice decimal.Decimal
	TickSize decimal.Decimal
}

// LotSizeFilter bounds the order quantity. Shared by LOT_SIZE and
// MARKET_LOT_SIZE, which differ only in which order types they apply to.
type LotSizeFilter struct {
	MinQty   decimal.Decimal
	MaxQty   decimal.Decimal
	StepSize decimal.Decimal
}

// NotionalFilter sets the minimum order notional (price * quantity).
type NotionalFilter struct {
	MinNotional decimal.Decimal
}

// PercentPriceFilter bounds the price relative to the mark price.
type PercentPriceFilter struct {
	MultiplierUp   decimal.Decimal
	MultiplierDown decimal.Decimal
}

// MaxOrdersFilter caps open orders; enforceable only with a live count.
type MaxOrdersFilter struct {
	Limit int
}

// SymbolFilters is the parsed, read-only trading rule set for one symbol.
// Nil members mean the exchange did not declare that filter.
type SymbolFilters struct {
	Symbol           string
	Price            *PriceFilter
	LotSize          *LotSizeFilter
	MarketLotSize    *LotSizeFilter
	MinNotional      *NotionalFilter
	PercentPrice     *PercentPriceFilter
	MaxNumOrders     *MaxOrdersFilter
	MaxNumAlgoOrders *MaxOrdersFilter
}

// ParseSymbolFilters converts the raw exchange-info entry for one symbol
// into exact decimal form. Unknown filter types are ignored.
func ParseSymbolFilters(info SymbolInfo) (*SymbolFilters, error) {
	sf := &SymbolFilters{Symbol: info.Symbol}
	for _, f := range info.Filters {
		switch f.FilterType {
		case FilterTypePrice:
			minPrice, err := parseFilterDecimal(f.MinPrice, info.Symbol, "minPrice")
			if err != nil {
				return nil, err
			}
			maxPrice, err := parseFilterDecimal(f.MaxPrice, info.Symbol, "maxPrice")
			if err != nil {
				return nil, err
			}
			tick, err := parseFilterDecimal(f.TickSize, info.Symbol, "tickSize")
			if err != nil {
				return nil, err
			}
			sf.Price = &PriceFilter{MinPrice: minPrice, MaxPrice: maxPrice, TickSize: tick}
		case FilterTypeLotSize, FilterTypeMarketLotSize:
			minQty, err := parseFilterDecimal(f.MinQty, info.Symbol, "minQty")
			if err != nil {
				return nil, err
			}
			maxQty, err := parseFilterDecimal(f.MaxQty, info.Symbol, "maxQty")
			if err != nil {
				return nil, err
			}
			step, err := parseFilterDecimal(f.StepSize, info.Symbol, "stepSize")
			if err != nil {
				return nil, err
			}
			lot := &LotSizeFilter{MinQty: minQty, MaxQty: maxQty, StepSize: step}
			if f.FilterType == FilterTypeLotSize {
				sf.LotSize = lot
			} else {
				sf.MarketLotSize = lot
			}
		case FilterTypeMinNotional:
			raw := f.Notional
			if raw == "" {
				raw = f.MinNotional
			}
			minNotional, err := parseFilterDecimal(raw, info.Symbol, "notional")
			if err != nil {
				return nil, err
			}
			sf.MinNotional = &NotionalFilter{MinNotional: minNotional}
		case FilterTypePercentPrice:
			up, err := parseFilterDecimal(f.MultiplierUp, info.Symbol, "multiplierUp")
			if err != nil {
				return nil, err
			}
			down, err := parseFilterDecimal(f.MultiplierDown, info.Symbol, "multiplierDown")
			if err != nil {
				return nil, err
			}
			sf.PercentPrice = &PercentPriceFilter{MultiplierUp: up, MultiplierDown: down}
		case FilterTypeMaxNumOrders:
			sf.MaxNumOrders = &MaxOrdersFilter{Limit: f.Limit}
		case FilterTypeMaxNumAlgoOrders:
			sf.MaxNumAlgoOrders = &MaxOrdersFilter{Limit: f.Limit}
		}
	}
	return sf, nil
}

func parseFilterDecimal(raw, symbol, field string) (decimal.Decimal, error) {
	if raw == "" {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%s: invalid %s %q: %w", symbol, field, raw, err)
	}
	return d, nil
}
