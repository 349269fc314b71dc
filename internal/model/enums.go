package model

import "fmt"

// Side is the order direction token as the exchange expects it.
type Side string

const (
	SideBuy  Side = "BUY"
	SideSell Side = "SELL"
)

func (s Side) Valid() bool {
	return s == SideBuy || s == SideSell
}

// PositionSide selects the position leg in hedge mode. Empty means the
// account default (BOTH in one-way mode).
type PositionSide string

const (
	PositionSideBoth  PositionSide = "BOTH"
	PositionSideLong  PositionSide = "LONG"
	PositionSideShort PositionSide = "SHORT"
)

func (p PositionSide) Valid() bool {
	switch p {
	case "", PositionSideBoth, PositionSideLong, PositionSideShort:
		return true
	}
	return false
}

// OrderType covers the UM futures order types.
type OrderType string

const (
	OrderTypeLimit              OrderType = "LIMIT"
	OrderTypeMarket             OrderType = "MARKET"
	OrderTypeStop               OrderType = "STOP"
	OrderTypeStopMarket         OrderType = "STOP_MARKET"
	OrderTypeTakeProfit         OrderType = "TAKE_PROFIT"
	OrderTypeTakeProfitMarket   OrderType = "TAKE_PROFIT_MARKET"
	OrderTypeTrailingStopMarket OrderType = "TRAILING_STOP_MARKET"
)

func (t OrderType) Valid() bool {
	switch t {
	case OrderTypeLimit, OrderTypeMarket, OrderTypeStop, OrderTypeStopMarket,
		OrderTypeTakeProfit, OrderTypeTakeProfitMarket, OrderTypeTrailingStopMarket:
		return true
	}
	return false
}

// IsMarket reports whether the order executes at market, i.e. carries no
// limit price.
func (t OrderType) IsMarket() bool {
	switch t {
	case OrderTypeMarket, OrderTypeStopMarket, OrderTypeTakeProfitMarket, OrderTypeTrailingStopMarket:
		return true
	}
	return false
}

// IsConditional reports whether the order triggers off a stop price.
func (t OrderType) IsConditional() bool {
	switch t {
	case OrderTypeStop, OrderTypeStopMarket, OrderTypeTakeProfit, OrderTypeTakeProfitMarket:
		return true
	}
	return false
}

// TimeInForce controls how long an order rests on the book.
type TimeInForce string

const (
	TimeInForceGTC TimeInForce = "GTC"
	TimeInForceIOC TimeInForce = "IOC"
	TimeInForceFOK TimeInForce = "FOK"
	TimeInForceGTX TimeInForce = "GTX" // post-only
)

func (t TimeInForce) Valid() bool {
	switch t {
	case "", TimeInForceGTC, TimeInForceIOC, TimeInForceFOK, TimeInForceGTX:
		return true
	}
	return false
}

// RespType selects the shape of the order placement response.
type RespType string

const (
	RespTypeAck    RespType = "ACK"
	RespTypeResult RespType = "RESULT"
)

func (r RespType) Valid() bool {
	return r == "" || r == RespTypeAck || r == RespTypeResult
}

// ParseSide converts an exchange token into a Side.
func ParseSide(value string) (Side, error) {
	s := Side(value)
	if !s.Valid() {
		return "", fmt.Errorf("unsupported order side: %s", value)
	}
	return s, nil
}

// ParseOrderType converts an exchange token into an OrderType.
func ParseOrderType(value string) (OrderType, error) {
	t := OrderType(value)
	if !t.Valid() {
		return "", fmt.Errorf("unsupported order type: %s", value)
	}
	return t, nil
}
