package model

// ExchangeInfo represents the response from /fapi/v1/exchangeInfo
type ExchangeInfo struct {
	Symbols []SymbolInfo `json:"symbols"`
}

// SymbolInfo represents a single symbol's configuration
type SymbolInfo struct {
	Symbol  string       `json:"symbol"`
	Status  string       `json:"status"`
	Filters []FilterInfo `json:"filters"`
}

// FilterInfo is a raw trading rule filter, keyed by filterType. The exchange
// serializes every numeric bound as a string.
type FilterInfo struct {
	FilterType string `json:"filterType"`

	// PRICE_FILTER
	MinPrice string `json:"minPrice,omitempty"`
	MaxPrice string `json:"maxPrice,omitempty"`
	TickSize string `json:"tickSize,omitempty"`

	// LOT_SIZE / MARKET_LOT_SIZE
	MinQty   string `json:"minQty,omitempty"`
	MaxQty   string `json:"maxQty,omitempty"`
	StepSize string `json:"stepSize,omitempty"`

	// MIN_NOTIONAL (futures uses "notional", spot used "minNotional")
	Notional    string `json:"notional,omitempty"`
	MinNotional string `json:"minNotional,omitempty"`

	// PERCENT_PRICE
	MultiplierUp   string `json:"multiplierUp,omitempty"`
	MultiplierDown string `json:"multiplierDown,omitempty"`

	// MAX_NUM_ORDERS / MAX_NUM_ALGO_ORDERS
	Limit int `json:"limit,omitempty"`
}
