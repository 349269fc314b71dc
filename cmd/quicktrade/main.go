package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/shopspring/decimal"

	"github.com/Misaki-Akeno/QuantTools/internal/binance"
	"github.com/Misaki-Akeno/QuantTools/internal/config"
	"github.com/Misaki-Akeno/QuantTools/internal/logger"
	"github.com/Misaki-Akeno/QuantTools/internal/market"
	"github.com/Misaki-Akeno/QuantTools/internal/metrics"
	"github.com/Misaki-Akeno/QuantTools/internal/model"
	"github.com/Misaki-Akeno/QuantTools/internal/repository"
)

// app bundles everything one invocation needs.
type app struct {
	client  *binance.Client
	tracker *metrics.Tracker
	journal *repository.Journal
	symbol  string
}

func main() {
	var (
		action   = flag.String("action", "open-orders", "open-orders | place | cancel | cancel-all | query | position-mode | volatility")
		side     = flag.String("side", "", "BUY or SELL (place)")
		orderTyp = flag.String("type", "LIMIT", "order type (place)")
		qty      = flag.String("qty", "", "order quantity (place)")
		price    = flag.String("price", "", "limit price (place)")
		tif      = flag.String("tif", "GTC", "time in force (place)")
		orderID  = flag.Int64("order-id", 0, "exchange order id (cancel/query)")
		clientID = flag.String("client-id", "", "client order id (cancel/query)")
	)
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger.Init(cfg.LogFile)
	logger.Info("Starting quicktrade", "symbol", cfg.Symbol, "action", *action)

	creds, err := buildCredential(cfg)
	if err != nil {
		log.Fatalf("Failed to build credential: %v", err)
	}

	opts := []binance.Option{
		binance.WithRecvWindow(cfg.RecvWindowMs),
		binance.WithAllowedSymbol(cfg.Symbol),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, binance.WithBaseURL(cfg.BaseURL))
	}
	client, err := binance.NewClient(creds, opts...)
	if err != nil {
		log.Fatalf("Failed to build client: %v", err)
	}

	a := &app{
		client:  client,
		tracker: metrics.NewTracker(),
		journal: repository.NewJournal(cfg.JournalFile),
		symbol:  cfg.Symbol,
	}
	defer a.tracker.LogSummary()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	// Bootstrap GETs are non-mutating, so retrying them here is safe.
	// Mutating calls below are never retried.
	if err := retryBootstrap(ctx, func() error { return client.SyncTime(ctx) }); err != nil {
		logger.Warn("Failed to synchronize time, using local clock", "error", err)
	}

	var filters *model.SymbolFilters
	err = retryBootstrap(ctx, func() error {
		var ferr error
		filters, ferr = client.SymbolFilters(ctx, cfg.Symbol)
		return ferr
	})
	if err != nil {
		log.Fatalf("Failed to fetch trading rules for %s: %v", cfg.Symbol, err)
	}

	switch *action {
	case "open-orders":
		a.runOpenOrders(ctx)
	case "place":
		a.runPlace(ctx, filters, *side, *orderTyp, *qty, *price, *tif)
	case "cancel":
		a.runCancel(ctx, *orderID, *clientID)
	case "cancel-all":
		a.runCancelAll(ctx)
	case "query":
		a.runQuery(ctx, *orderID, *clientID)
	case "position-mode":
		dual, _, err := client.PositionMode(ctx)
		exitOnError("position mode", err)
		fmt.Printf("dualSidePosition=%v\n", dual)
	case "volatility":
		a.runVolatility(ctx)
	default:
		log.Fatalf("Unknown action %q", *action)
	}
}

func buildCredential(cfg *config.Config) (binance.Credential, error) {
	if cfg.PrivateKeyPath != "" {
		pemKey, err := os.ReadFile(cfg.PrivateKeyPath)
		if err != nil {
			return binance.Credential{}, fmt.Errorf("read private key: %w", err)
		}
		return binance.NewEd25519Credential(cfg.ApiKey, pemKey)
	}
	return binance.NewHMACCredential(cfg.ApiKey, cfg.SecretKey)
}

// retryBootstrap retries a non-mutating call with exponential backoff.
func retryBootstrap(ctx context.Context, op func() error) error {
	backoffCfg := backoff.NewExponentialBackOff()
	backoffCfg.MaxInterval = 10 * time.Second

	var err error
	for attempt := 0; attempt < 5; attempt++ {
		if err = op(); err == nil {
			return nil
		}
		sleep := backoffCfg.NextBackOff()
		if sleep == backoff.Stop {
			break
		}
		logger.Warn("Bootstrap call failed, retrying", "error", err, "sleep", sleep)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(sleep):
		}
	}
	return err
}

func (a *app) runOpenOrders(ctx context.Context) {
	start := time.Now()
	orders, limits, err := a.client.QueryOpenOrders(ctx, a.symbol)
	a.tracker.Track("openOrders", time.Since(start), limits.UsedWeight)
	exitOnError("open orders", err)

	logger.Info("Open orders fetched", "count", len(orders), "used_weight", limits.UsedWeight)
	for _, o := range orders {
		fmt.Printf("%d %s %s %s qty=%s price=%s status=%s\n",
			o.OrderID, o.Symbol, o.Side, o.Type, o.OrigQty, o.Price, o.Status)
	}
}

func (a *app) runPlace(ctx context.Context, filters *model.SymbolFilters, side, orderTyp, qty, price, tif string) {
	order := &model.OrderRequest{
		Symbol:      a.symbol,
		Side:        model.Side(side),
		Type:        model.OrderType(orderTyp),
		TimeInForce: model.TimeInForce(tif),
	}
	var err error
	if qty != "" {
		order.Quantity, err = decimal.NewFromString(qty)
		exitOnError("parse qty", err)
	}
	if price != "" {
		order.Price, err = decimal.NewFromString(price)
		exitOnError("parse price", err)
	}
	if order.Type.IsMarket() {
		order.TimeInForce = ""
	}

	mark, err := a.client.GetMarkPrice(ctx, a.symbol)
	if err != nil {
		logger.Warn("Mark price unavailable, mark-based checks will be indeterminate", "error", err)
		mark = decimal.Zero
	}

	start := time.Now()
	resp, report, limits, err := a.client.PlaceOrder(ctx, order, filters, mark)
	a.tracker.Track("placeOrder", time.Since(start), limits.UsedWeight)
	a.journalOutcome("place", order, resp, err)
	exitOnError("place order", err)

	if len(report.Indeterminate) > 0 {
		logger.Warn("Some filters could not be checked locally", "filters", report.Indeterminate)
	}
	logger.Info("Order placed",
		"order_id", resp.OrderID, "status", resp.Status,
		"used_weight", limits.UsedWeight, "order_count", limits.OrderCount)
	fmt.Printf("placed order %d status=%s\n", resp.OrderID, resp.Status)
}

func (a *app) runCancel(ctx context.Context, orderID int64, clientID string) {
	start := time.Now()
	resp, limits, err := a.client.CancelOrder(ctx, a.symbol, orderID, clientID)
	a.tracker.Track("cancelOrder", time.Since(start), limits.UsedWeight)
	a.journalOutcome("cancel", nil, resp, err)
	exitOnError("cancel order", err)

	logger.Info("Order cancelled", "order_id", resp.OrderID, "used_weight", limits.UsedWeight)
	fmt.Printf("cancelled order %d status=%s\n", resp.OrderID, resp.Status)
}

func (a *app) runCancelAll(ctx context.Context) {
	start := time.Now()
	limits, err := a.client.CancelAllOrders(ctx, a.symbol)
	a.tracker.Track("cancelAllOrders", time.Since(start), limits.UsedWeight)
	a.journalOutcome("cancel-all", nil, nil, err)
	exitOnError("cancel all", err)

	logger.Info("All open orders cancelled", "symbol", a.symbol, "used_weight", limits.UsedWeight)
	fmt.Println("cancelled all open orders")
}

func (a *app) runQuery(ctx context.Context, orderID int64, clientID string) {
	start := time.Now()
	resp, limits, err := a.client.QueryOrder(ctx, a.symbol, orderID, clientID)
	a.tracker.Track("queryOrder", time.Since(start), limits.UsedWeight)
	exitOnError("query order", err)

	fmt.Printf("%d %s %s qty=%s filled=%s price=%s status=%s\n",
		resp.OrderID, resp.Side, resp.Type, resp.OrigQty, resp.ExecutedQty, resp.Price, resp.Status)
}

func (a *app) runVolatility(ctx context.Context) {
	klines, err := a.client.GetKlines(ctx, a.symbol, "1m", 30)
	exitOnError("fetch klines", err)

	vol, err := market.GarmanKlass(klines)
	exitOnError("volatility", err)
	high, low, err := market.Range(klines)
	exitOnError("range", err)

	logger.Info("Volatility computed", "symbol", a.symbol, "garman_klass", vol, "high", high, "low", low)
	fmt.Printf("garman-klass(1m,30)=%.6f high=%.2f low=%.2f\n", vol, high, low)
}

// journalOutcome records a mutating call in the local order journal. A
// journal write failure is logged, never fatal.
func (a *app) journalOutcome(action string, order *model.OrderRequest, resp *binance.OrderResponse, callErr error) {
	e := repository.Entry{Action: action, Symbol: a.symbol}
	if order != nil {
		e.Side = string(order.Side)
		e.Type = string(order.Type)
		if !order.Price.IsZero() {
			e.Price = order.Price.String()
		}
		if !order.Quantity.IsZero() {
			e.Quantity = order.Quantity.String()
		}
	}
	if resp != nil {
		e.OrderID = resp.OrderID
		e.ClientOrderID = resp.ClientOrderID
		e.Status = resp.Status
	}
	if callErr != nil {
		e.Error = callErr.Error()
	}
	if err := a.journal.Record(e); err != nil {
		logger.Error("Failed to write order journal", "error", err)
	}
}

func exitOnError(op string, err error) {
	if err != nil {
		logger.Error("Operation failed", "op", op, "error", err)
		log.Fatalf("%s: %v", op, err)
	}
}
