package binance

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSymbolFilters(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/fapi/v1/exchangeInfo", r.URL.Path)
		require.Equal(t, "ETHUSDC", r.URL.Query().Get("symbol"))
		// Public endpoint: no signature, no API key.
		require.Empty(t, r.Header.Get("X-MBX-APIKEY"))
		fmt.Fprint(w, `{"symbols":[{"symbol":"ETHUSDC","status":"TRADING","filters":[
			{"filterType":"PRICE_FILTER","minPrice":"39.86","maxPrice":"306177","tickSize":"0.01"},
			{"filterType":"LOT_SIZE","minQty":"0.001","maxQty":"10000","stepSize":"0.001"},
			{"filterType":"MIN_NOTIONAL","notional":"20"}
		]}]}`)
	}))
	defer srv.Close()

	client := newTestClient(t, srv)
	sf, err := client.SymbolFilters(context.Background(), "ETHUSDC")
	require.NoError(t, err)

	require.NotNil(t, sf.Price)
	assert.Equal(t, "0.01", sf.Price.TickSize.String())
	require.NotNil(t, sf.MinNotional)
	assert.Equal(t, "20", sf.MinNotional.MinNotional.String())
	assert.Nil(t, sf.PercentPrice)
}

func TestSymbolFiltersUnknownSymbol(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"symbols":[]}`)
	}))
	defer srv.Close()

	client := newTestClient(t, srv)
	_, err := client.SymbolFilters(context.Background(), "NOPEUSDC")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "NOPEUSDC")
}

func TestGetMarkPrice(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/fapi/v1/premiumIndex", r.URL.Path)
		fmt.Fprint(w, `{"symbol":"ETHUSDC","markPrice":"2612.34000000","indexPrice":"2612.50000000"}`)
	}))
	defer srv.Close()

	client := newTestClient(t, srv)
	mark, err := client.GetMarkPrice(context.Background(), "ETHUSDC")
	require.NoError(t, err)
	assert.Equal(t, "2612.34", mark.String())
}

func TestGetKlines(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/fapi/v1/klines", r.URL.Path)
		require.Equal(t, "1m", r.URL.Query().Get("interval"))
		require.Equal(t, "2", r.URL.Query().Get("limit"))
		// Rows mix numbers and strings; trailing fields are ignored.
		fmt.Fprint(w, `[
			[1700000000000,"2600.00","2601.50","2599.10","2600.90","154.2",1700000059999,"400000",120,"77.1","200000","0"],
			[1700000060000,"2600.90","2602.00","2600.00","2601.10","98.7",1700000119999,"256000",90,"40.0","104000","0"]
		]`)
	}))
	defer srv.Close()

	client := newTestClient(t, srv)
	klines, err := client.GetKlines(context.Background(), "ETHUSDC", "1m", 2)
	require.NoError(t, err)
	require.Len(t, klines, 2)
	assert.Equal(t, int64(1700000000000), klines[0].OpenTime)
	assert.Equal(t, "2601.50", klines[0].High)
	assert.Equal(t, "2600.90", klines[0].Close)
	assert.Equal(t, "98.7", klines[1].Volume)
	assert.Equal(t, int64(1700000119999), klines[1].CloseTime)
}

func TestGetDepth(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/fapi/v1/depth", r.URL.Path)
		require.Equal(t, "5", r.URL.Query().Get("limit"))
		fmt.Fprint(w, `{"lastUpdateId":1027024,"bids":[["2611.90","5.107"]],"asks":[["2612.00","2.380"]]}`)
	}))
	defer srv.Close()

	client := newTestClient(t, srv)
	depth, err := client.GetDepth(context.Background(), "ETHUSDC", 5)
	require.NoError(t, err)
	assert.Equal(t, int64(1027024), depth.LastUpdateID)
	require.Len(t, depth.Bids, 1)
	assert.Equal(t, [2]string{"2611.90", "5.107"}, depth.Bids[0])
}
