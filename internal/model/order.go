package model

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// OrderRequest describes a UM futures order before submission. Price,
// quantity and stop price are exact decimals; a zero value means the field
// is absent.
type OrderRequest struct {
	Symbol       string
	Side         Side
	PositionSide PositionSide
	Type         OrderType
	Quantity     decimal.Decimal
	Price        decimal.Decimal
	StopPrice    decimal.Decimal
	TimeInForce  TimeInForce
	ReduceOnly   bool
	// ClosePosition flattens the whole position; quantity must be absent.
	ClosePosition    bool
	NewClientOrderID string
	NewOrderRespType RespType
}

// HasPrice reports whether the order carries a limit price.
func (o *OrderRequest) HasPrice() bool {
	return !o.Price.IsZero()
}

// Validate checks the structural requirements the exchange imposes per
// order type, before any filter or network work happens.
func (o *OrderRequest) Validate() error {
	if o.Symbol == "" {
		return fmt.Errorf("order: symbol is required")
	}
	if !o.Side.Valid() {
		return fmt.Errorf("order: invalid side %q", string(o.Side))
	}
	if !o.Type.Valid() {
		return fmt.Errorf("order: invalid type %q", string(o.Type))
	}
	if !o.PositionSide.Valid() {
		return fmt.Errorf("order: invalid positionSide %q", string(o.PositionSide))
	}
	if !o.TimeInForce.Valid() {
		return fmt.Errorf("order: invalid timeInForce %q", string(o.TimeInForce))
	}
	if !o.NewOrderRespType.Valid() {
		return fmt.Errorf("order: invalid newOrderRespType %q", string(o.NewOrderRespType))
	}

	if !o.Type.IsMarket() && !o.HasPrice() {
		return fmt.Errorf("order: type %s requires price", o.Type)
	}
	if o.Type.IsConditional() && o.StopPrice.IsZero() {
		return fmt.Errorf("order: type %s requires stopPrice", o.Type)
	}
	if o.Type == OrderTypeLimit && o.TimeInForce == "" {
		return fmt.Errorf("order: type LIMIT requires timeInForce")
	}

	if o.ClosePosition {
		if !o.Quantity.IsZero() {
			return fmt.Errorf("order: closePosition and quantity are mutually exclusive")
		}
		if o.ReduceOnly {
			return fmt.Errorf("order: closePosition already implies reduceOnly")
		}
	} else if o.Quantity.IsZero() {
		return fmt.Errorf("order: quantity is required")
	}
	return nil
}
