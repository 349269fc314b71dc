// Package filter validates proposed orders against a symbol's declared
// trading rules before they are submitted. All numeric comparisons use
// exact decimal arithmetic; tick and step checks are modulo-sensitive and
// would silently break on floats near boundary values.
package filter

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/Misaki-Akeno/QuantTools/internal/model"
)

// Status is the outcome of a single filter check.
type Status int

const (
	StatusPass Status = iota
	StatusFail
	// StatusSkipped means the filter does not apply to this order.
	StatusSkipped
	// StatusIndeterminate means the filter applies but cannot be decided
	// locally (missing mark price or open-order count). Not a failure.
	StatusIndeterminate
)

// Result is the per-check outcome.
type Result struct {
	Status Status
	Detail string
}

func pass() Result               { return Result{Status: StatusPass} }
func skipped() Result            { return Result{Status: StatusSkipped} }
func indeterminate(d string) Result {
	return Result{Status: StatusIndeterminate, Detail: d}
}
func fail(format string, args ...any) Result {
	return Result{Status: StatusFail, Detail: fmt.Sprintf(format, args...)}
}

// ValidationError reports the first filter an order violates. The order is
// never sent to the exchange.
type ValidationError struct {
	Filter string
	Detail string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("filter %s violated: %s", e.Filter, e.Detail)
}

// Context carries the order plus the live inputs some checks need. A zero
// MarkPrice means unknown; a negative count means unknown.
type Context struct {
	Order          *model.OrderRequest
	MarkPrice      decimal.Decimal
	OpenOrders     int
	OpenAlgoOrders int
}

// NewContext builds a Context with the count fields marked unknown.
func NewContext(order *model.OrderRequest, markPrice decimal.Decimal) *Context {
	return &Context{Order: order, MarkPrice: markPrice, OpenOrders: -1, OpenAlgoOrders: -1}
}

// Check is one trading rule. New filter types add a new Check, not a new
// branch in the caller.
type Check interface {
	Name() string
	Apply(ctx *Context) Result
}

// Report lists the checks that could not be decided locally.
type Report struct {
	Indeterminate []string
	Skipped       []string
}

// Validator evaluates a fixed, deterministic sequence of checks for one
// symbol. It is read-only after construction and safe for concurrent use.
type Validator struct {
	symbol string
	checks []Check
}

// NewValidator builds the check sequence for the symbol's declared filters.
// Evaluation order is fixed: PRICE_FILTER, LOT_SIZE/MARKET_LOT_SIZE,
// PERCENT_PRICE, MIN_NOTIONAL, then the advisory count caps.
func NewValidator(filters *model.SymbolFilters) *Validator {
	v := &Validator{symbol: filters.Symbol}
	if filters.Price != nil {
		v.checks = append(v.checks, &priceCheck{f: filters.Price})
	}
	if filters.LotSize != nil {
		v.checks = append(v.checks, &lotSizeCheck{f: filters.LotSize, name: model.FilterTypeLotSize, market: false})
	}
	if filters.MarketLotSize != nil {
		v.checks = append(v.checks, &lotSizeCheck{f: filters.MarketLotSize, name: model.FilterTypeMarketLotSize, market: true})
	}
	if filters.PercentPrice != nil {
		v.checks = append(v.checks, &percentPriceCheck{f: filters.PercentPrice})
	}
	if filters.MinNotional != nil {
		v.checks = append(v.checks, &notionalCheck{f: filters.MinNotional})
	}
	if filters.MaxNumOrders != nil {
		v.checks = append(v.checks, &maxOrdersCheck{limit: filters.MaxNumOrders.Limit, name: model.FilterTypeMaxNumOrders, algo: false})
	}
	if filters.MaxNumAlgoOrders != nil {
		v.checks = append(v.checks, &maxOrdersCheck{limit: filters.MaxNumAlgoOrders.Limit, name: model.FilterTypeMaxNumAlgoOrders, algo: true})
	}
	return v
}

// Validate runs every check in order. The first failure short-circuits and
// is returned as a *ValidationError; indeterminate and skipped checks are
// collected in the Report.
func (v *Validator) Validate(ctx *Context) (Report, error) {
	var report Report
	for _, check := range v.checks {
		res := check.Apply(ctx)
		switch res.Status {
		case StatusFail:
			return report, &ValidationError{Filter: check.Name(), Detail: res.Detail}
		case StatusIndeterminate:
			report.Indeterminate = append(report.Indeterminate, check.Name())
		case StatusSkipped:
			report.Skipped = append(report.Skipped, check.Name())
		}
	}
	return report, nil
}

type priceCheck struct {
	f *model.PriceFilter
}

func (c *priceCheck) Name() string { return model.FilterTypePrice }

func (c *priceCheck) Apply(ctx *Context) Result {
	if !ctx.Order.HasPrice() {
		return skipped()
	}
	price := ctx.Order.Price
	if !c.f.MinPrice.IsZero() && price.LessThan(c.f.MinPrice) {
		return fail("price %s below minPrice %s", price, c.f.MinPrice)
	}
	if !c.f.MaxPrice.IsZero() && price.GreaterThan(c.f.MaxPrice) {
		return fail("price %s above maxPrice %s", price, c.f.MaxPrice)
	}
	if !c.f.TickSize.IsZero() {
		if !price.Sub(c.f.MinPrice).Mod(c.f.TickSize).IsZero() {
			return fail("price %s not aligned to tickSize %s from minPrice %s", price, c.f.TickSize, c.f.MinPrice)
		}
	}
	return pass()
}

type lotSizeCheck struct {
	f      *model.LotSizeFilter
	name   string
	market bool
}

func (c *lotSizeCheck) Name() string { return c.name }

func (c *lotSizeCheck) Apply(ctx *Context) Result {
	if ctx.Order.Type.IsMarket() != c.market {
		return skipped()
	}
	if ctx.Order.Quantity.IsZero() {
		// closePosition orders carry no quantity to bound.
		return skipped()
	}
	qty := ctx.Order.Quantity
	if !c.f.MinQty.IsZero() && qty.LessThan(c.f.MinQty) {
		return fail("quantity %s below minQty %s", qty, c.f.MinQty)
	}
	if !c.f.MaxQty.IsZero() && qty.GreaterThan(c.f.MaxQty) {
		return fail("quantity %s above maxQty %s", qty, c.f.MaxQty)
	}
	if !c.f.StepSize.IsZero() {
		if !qty.Sub(c.f.MinQty).Mod(c.f.StepSize).IsZero() {
			return fail("quantity %s not aligned to stepSize %s from minQty %s", qty, c.f.StepSize, c.f.MinQty)
		}
	}
	return pass()
}

type percentPriceCheck struct {
	f *model.PercentPriceFilter
}

func (c *percentPriceCheck) Name() string { return model.FilterTypePercentPrice }

func (c *percentPriceCheck) Apply(ctx *Context) Result {
	if !ctx.Order.HasPrice() {
		return skipped()
	}
	if ctx.MarkPrice.IsZero() {
		return indeterminate("mark price unavailable")
	}
	price := ctx.Order.Price
	switch ctx.Order.Side {
	case model.SideBuy:
		if !c.f.MultiplierUp.IsZero() {
			upper := ctx.MarkPrice.Mul(c.f.MultiplierUp)
			if price.GreaterThan(upper) {
				return fail("buy price %s above mark %s * multiplierUp %s = %s", price, ctx.MarkPrice, c.f.MultiplierUp, upper)
			}
		}
	case model.SideSell:
		if !c.f.MultiplierDown.IsZero() {
			lower := ctx.MarkPrice.Mul(c.f.MultiplierDown)
			if price.LessThan(lower) {
				return fail("sell price %s below mark %s * multiplierDown %s = %s", price, ctx.MarkPrice, c.f.MultiplierDown, lower)
			}
		}
	}
	return pass()
}

type notionalCheck struct {
	f *model.NotionalFilter
}

func (c *notionalCheck) Name() string { return model.FilterTypeMinNotional }

func (c *notionalCheck) Apply(ctx *Context) Result {
	if c.f.MinNotional.IsZero() {
		return skipped()
	}
	if ctx.Order.Quantity.IsZero() {
		return skipped()
	}
	ref := ctx.Order.Price
	if ref.IsZero() {
		if ctx.MarkPrice.IsZero() {
			return indeterminate("no price or mark price to compute notional")
		}
		ref = ctx.MarkPrice
	}
	notional := ref.Mul(ctx.Order.Quantity)
	if notional.LessThan(c.f.MinNotional) {
		return fail("notional %s below minimum %s", notional, c.f.MinNotional)
	}
	return pass()
}

// maxOrdersCheck is advisory: the exchange counts open orders server-side
// and the client cannot enforce the cap without a live count from the
// caller.
type maxOrdersCheck struct {
	limit int
	name  string
	algo  bool
}

func (c *maxOrdersCheck) Name() string { return c.name }

func (c *maxOrdersCheck) Apply(ctx *Context) Result {
	count := ctx.OpenOrders
	if c.algo {
		count = ctx.OpenAlgoOrders
	}
	if count < 0 {
		return indeterminate("open-order count not supplied")
	}
	if c.limit > 0 && count >= c.limit {
		return fail("open orders %d at limit %d", count, c.limit)
	}
	return pass()
}
