// Package binance implements a signed REST client for the UM futures API:
// canonical parameter serialization, request signing, order-filter
// validation on submit, and typed interpretation of exchange responses.
package binance

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sync/atomic"
	"time"

	json "github.com/goccy/go-json"
	"github.com/shopspring/decimal"

	"github.com/Misaki-Akeno/QuantTools/internal/filter"
	"github.com/Misaki-Akeno/QuantTools/internal/model"
)

const (
	// FuturesBaseURL is the production UM futures REST endpoint.
	FuturesBaseURL = "https://fapi.binance.com"

	// DefaultRecvWindow is the exchange default staleness window in ms.
	DefaultRecvWindow = 5000
	// MaxRecvWindow is the largest recvWindow the exchange accepts.
	MaxRecvWindow = 60000
)

// Client is a UM futures trading client. It is safe for concurrent use:
// every call stamps and signs its own request, and the credential is
// immutable.
type Client struct {
	creds         Credential
	baseURL       string
	httpClient    *http.Client
	recvWindow    int64
	allowedSymbol string
	timeOffset    atomic.Int64
	now           func() time.Time
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL overrides the REST endpoint (testnet, fakes).
func WithBaseURL(base string) Option {
	return func(c *Client) { c.baseURL = base }
}

// WithHTTPClient substitutes the transport.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithRecvWindow overrides the default recvWindow in milliseconds.
func WithRecvWindow(ms int64) Option {
	return func(c *Client) { c.recvWindow = ms }
}

// WithAllowedSymbol restricts every mutating call to a single trading
// pair. This is a deployment policy, not an exchange rule.
func WithAllowedSymbol(symbol string) Option {
	return func(c *Client) { c.allowedSymbol = symbol }
}

// NewClient builds a futures client around an immutable credential.
func NewClient(creds Credential, opts ...Option) (*Client, error) {
	c := &Client{
		creds:      creds,
		baseURL:    FuturesBaseURL,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		recvWindow: DefaultRecvWindow,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.recvWindow <= 0 || c.recvWindow > MaxRecvWindow {
		return nil, &ConfigurationError{
			Param:  "recvWindow",
			Detail: fmt.Sprintf("%d ms outside accepted range (0, %d]", c.recvWindow, MaxRecvWindow),
		}
	}
	return c, nil
}

// SyncTime synchronizes the local clock with the exchange server time.
func (c *Client) SyncTime(ctx context.Context) error {
	body, _, err := c.publicRequest(ctx, http.MethodGet, "/fapi/v1/time", nil)
	if err != nil {
		return fmt.Errorf("failed to get server time: %w", err)
	}
	var timeResp struct {
		ServerTime int64 `json:"serverTime"`
	}
	if err := json.Unmarshal(body, &timeResp); err != nil {
		return fmt.Errorf("failed to parse time response: %w", err)
	}
	c.timeOffset.Store(timeResp.ServerTime - c.now().UnixMilli())
	return nil
}

// serverTime returns the current time adjusted by the offset.
// We subtract 1000ms as a safety bias to ensure we are slightly "behind" the server.
// The exchange rejects requests > 1000ms ahead, but accepts requests up to recvWindow behind.
func (c *Client) serverTime() int64 {
	return c.now().UnixMilli() + c.timeOffset.Load() - 1000
}

// signedQuery canonicalizes params, injects timestamp and recvWindow, and
// appends the signature last. The timestamp is generated here, immediately
// before signing, so concurrent calls never share a stamped request.
func (c *Client) signedQuery(p *Params) string {
	p.SetInt("recvWindow", c.recvWindow)
	p.SetInt("timestamp", c.serverTime())
	canonical := p.Encode()
	signature := c.creds.Sign([]byte(canonical))
	return canonical + "&signature=" + url.QueryEscape(signature)
}

func (c *Client) signedRequest(ctx context.Context, method, path string, p *Params) ([]byte, RateLimits, error) {
	reqURL := fmt.Sprintf("%s%s", c.baseURL, path)
	req, err := http.NewRequestWithContext(ctx, method, reqURL, nil)
	if err != nil {
		return nil, RateLimits{}, fmt.Errorf("failed to create request: %w", err)
	}
	// Parameters stay in the query string for every method; the signature
	// covers the exact encoded bytes, so the URL must carry them verbatim.
	req.URL.RawQuery = c.signedQuery(p)
	req.Header.Add("X-MBX-APIKEY", c.creds.APIKey())

	return c.do(req)
}

func (c *Client) publicRequest(ctx context.Context, method, path string, query url.Values) ([]byte, RateLimits, error) {
	reqURL := fmt.Sprintf("%s%s", c.baseURL, path)
	req, err := http.NewRequestWithContext(ctx, method, reqURL, nil)
	if err != nil {
		return nil, RateLimits{}, fmt.Errorf("failed to create request: %w", err)
	}
	if len(query) > 0 {
		req.URL.RawQuery = query.Encode()
	}
	return c.do(req)
}

func (c *Client) do(req *http.Request) ([]byte, RateLimits, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, RateLimits{}, &TransientError{cause: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, RateLimits{}, &TransientError{cause: err}
	}

	limits := parseRateLimits(resp.Header)
	if err := interpret(resp.StatusCode, resp.Header, body); err != nil {
		return nil, limits, err
	}
	return body, limits, nil
}

// checkSymbolPolicy guards every mutating operation.
func (c *Client) checkSymbolPolicy(op, symbol string) error {
	if symbol == "" {
		return &PolicyError{Op: op, Detail: "symbol is required"}
	}
	if c.allowedSymbol != "" && symbol != c.allowedSymbol {
		return &PolicyError{
			Op:     op,
			Detail: fmt.Sprintf("symbol %s not allowed, this deployment trades %s only", symbol, c.allowedSymbol),
		}
	}
	return nil
}

// OrderResponse is the exchange's order payload, for placement, cancel and
// query alike. Prices and quantities stay strings; callers needing exact
// arithmetic parse them into decimals.
type OrderResponse struct {
	Symbol        string `json:"symbol"`
	OrderID       int64  `json:"orderId"`
	ClientOrderID string `json:"clientOrderId"`
	Status        string `json:"status"`
	Price         string `json:"price"`
	AvgPrice      string `json:"avgPrice"`
	OrigQty       string `json:"origQty"`
	ExecutedQty   string `json:"executedQty"`
	CumQuote      string `json:"cumQuote"`
	TimeInForce   string `json:"timeInForce"`
	Type          string `json:"type"`
	Side          string `json:"side"`
	PositionSide  string `json:"positionSide"`
	StopPrice     string `json:"stopPrice"`
	ReduceOnly    bool   `json:"reduceOnly"`
	ClosePosition bool   `json:"closePosition"`
	UpdateTime    int64  `json:"updateTime"`
}

// orderParams serializes an order in canonical field order.
func orderParams(order *model.OrderRequest) *Params {
	p := NewParams()
	p.Set("symbol", order.Symbol)
	p.Set("side", string(order.Side))
	if order.PositionSide != "" {
		p.Set("positionSide", string(order.PositionSide))
	}
	p.Set("type", string(order.Type))
	if !order.Quantity.IsZero() {
		p.SetDecimal("quantity", order.Quantity)
	}
	if !order.Price.IsZero() {
		p.SetDecimal("price", order.Price)
	}
	if !order.StopPrice.IsZero() {
		p.SetDecimal("stopPrice", order.StopPrice)
	}
	if order.TimeInForce != "" {
		p.Set("timeInForce", string(order.TimeInForce))
	}
	if order.ReduceOnly {
		p.SetBool("reduceOnly", true)
	}
	if order.ClosePosition {
		p.SetBool("closePosition", true)
	}
	if order.NewClientOrderID != "" {
		p.Set("newClientOrderId", order.NewClientOrderID)
	}
	if order.NewOrderRespType != "" {
		p.Set("newOrderRespType", string(order.NewOrderRespType))
	}
	return p
}

// PlaceOrder validates the order against the symbol's filters and submits
// it. A validation failure returns without any network call. markPrice may
// be zero when unknown; mark-dependent checks then report indeterminate in
// the returned filter.Report instead of blocking the order.
func (c *Client) PlaceOrder(ctx context.Context, order *model.OrderRequest, filters *model.SymbolFilters, markPrice decimal.Decimal) (*OrderResponse, filter.Report, RateLimits, error) {
	var report filter.Report
	if err := c.checkSymbolPolicy("placeOrder", order.Symbol); err != nil {
		return nil, report, RateLimits{}, err
	}
	if err := order.Validate(); err != nil {
		return nil, report, RateLimits{}, err
	}
	if filters != nil {
		v := filter.NewValidator(filters)
		var err error
		report, err = v.Validate(filter.NewContext(order, markPrice))
		if err != nil {
			return nil, report, RateLimits{}, err
		}
	}

	body, limits, err := c.signedRequest(ctx, http.MethodPost, "/fapi/v1/order", orderParams(order))
	if err != nil {
		return nil, report, limits, err
	}
	var resp OrderResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, report, limits, fmt.Errorf("failed to parse order response: %w", err)
	}
	return &resp, report, limits, nil
}

// CancelOrder cancels by exchange order ID or client order ID; at least
// one must be provided.
func (c *Client) CancelOrder(ctx context.Context, symbol string, orderID int64, origClientOrderID string) (*OrderResponse, RateLimits, error) {
	if err := c.checkSymbolPolicy("cancelOrder", symbol); err != nil {
		return nil, RateLimits{}, err
	}
	if orderID == 0 && origClientOrderID == "" {
		return nil, RateLimits{}, &ConfigurationError{Param: "orderId", Detail: "cancel requires orderId or origClientOrderId"}
	}

	p := NewParams()
	p.Set("symbol", symbol)
	if orderID != 0 {
		p.SetInt("orderId", orderID)
	}
	if origClientOrderID != "" {
		p.Set("origClientOrderId", origClientOrderID)
	}

	body, limits, err := c.signedRequest(ctx, http.MethodDelete, "/fapi/v1/order", p)
	if err != nil {
		return nil, limits, err
	}
	var resp OrderResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, limits, fmt.Errorf("failed to parse cancel response: %w", err)
	}
	return &resp, limits, nil
}

// CancelAllOrders cancels every open order on the symbol.
func (c *Client) CancelAllOrders(ctx context.Context, symbol string) (RateLimits, error) {
	if err := c.checkSymbolPolicy("cancelAllOrders", symbol); err != nil {
		return RateLimits{}, err
	}
	p := NewParams()
	p.Set("symbol", symbol)
	_, limits, err := c.signedRequest(ctx, http.MethodDelete, "/fapi/v1/allOpenOrders", p)
	return limits, err
}

// QueryOrder fetches one order by exchange order ID or client order ID.
func (c *Client) QueryOrder(ctx context.Context, symbol string, orderID int64, origClientOrderID string) (*OrderResponse, RateLimits, error) {
	if symbol == "" {
		return nil, RateLimits{}, &ConfigurationError{Param: "symbol", Detail: "symbol is required"}
	}
	if orderID == 0 && origClientOrderID == "" {
		return nil, RateLimits{}, &ConfigurationError{Param: "orderId", Detail: "query requires orderId or origClientOrderId"}
	}

	p := NewParams()
	p.Set("symbol", symbol)
	if orderID != 0 {
		p.SetInt("orderId", orderID)
	}
	if origClientOrderID != "" {
		p.Set("origClientOrderId", origClientOrderID)
	}

	body, limits, err := c.signedRequest(ctx, http.MethodGet, "/fapi/v1/order", p)
	if err != nil {
		return nil, limits, err
	}
	var resp OrderResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, limits, fmt.Errorf("failed to parse order response: %w", err)
	}
	return &resp, limits, nil
}

// QueryOpenOrders lists open orders, all symbols when symbol is empty.
func (c *Client) QueryOpenOrders(ctx context.Context, symbol string) ([]OrderResponse, RateLimits, error) {
	p := NewParams()
	if symbol != "" {
		p.Set("symbol", symbol)
	}
	body, limits, err := c.signedRequest(ctx, http.MethodGet, "/fapi/v1/openOrders", p)
	if err != nil {
		return nil, limits, err
	}
	var orders []OrderResponse
	if err := json.Unmarshal(body, &orders); err != nil {
		return nil, limits, fmt.Errorf("failed to parse open orders: %w", err)
	}
	return orders, limits, nil
}

// PositionMode reports whether the account is in hedge (dual-side) mode.
// The client never infers this; callers pass it to their own reduceOnly
// handling.
func (c *Client) PositionMode(ctx context.Context) (bool, RateLimits, error) {
	body, limits, err := c.signedRequest(ctx, http.MethodGet, "/fapi/v1/positionSide/dual", NewParams())
	if err != nil {
		return false, limits, err
	}
	var resp struct {
		DualSidePosition bool `json:"dualSidePosition"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return false, limits, fmt.Errorf("failed to parse position mode: %w", err)
	}
	return resp.DualSidePosition, limits, nil
}

// SetPositionMode switches the account between one-way and hedge mode.
func (c *Client) SetPositionMode(ctx context.Context, dualSide bool) (RateLimits, error) {
	p := NewParams()
	p.SetBool("dualSidePosition", dualSide)
	_, limits, err := c.signedRequest(ctx, http.MethodPost, "/fapi/v1/positionSide/dual", p)
	return limits, err
}

// SetLeverage adjusts the symbol's leverage. The exchange accepts 1..125.
func (c *Client) SetLeverage(ctx context.Context, symbol string, leverage int) (RateLimits, error) {
	if err := c.checkSymbolPolicy("setLeverage", symbol); err != nil {
		return RateLimits{}, err
	}
	if leverage < 1 || leverage > 125 {
		return RateLimits{}, &ConfigurationError{Param: "leverage", Detail: fmt.Sprintf("%d outside 1..125", leverage)}
	}
	p := NewParams()
	p.Set("symbol", symbol)
	p.SetInt("leverage", int64(leverage))
	_, limits, err := c.signedRequest(ctx, http.MethodPost, "/fapi/v1/leverage", p)
	return limits, err
}
