package handlers_test

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/ndewijer/Investment-Portfolio-Dashboard/internal/api/handlers"
	"github.com/ndewijer/Investment-Portfolio-Dashboard/internal/model"
	"github.com/ndewijer/Investment-Portfolio-Dashboard/internal/testutil"
)

// TestMarketHandler_Quotes tests the GET /api/market/quotes endpoint.
//
// WHY: The ticker strip polls this endpoint. Symbols are normalized before
// the lookup, oversized requests are refused, and a failing source must
// answer 502 so the client keeps its last quotes.
func TestMarketHandler_Quotes(t *testing.T) {
	setup := func(t *testing.T) (*handlers.MarketHandler, *testutil.FakeSource) {
		t.Helper()
		f := newFixture(t)
		f.src.SetQuotes(
			model.MarketQuote{Symbol: "AAPL", Price: testutil.Dec("195.30"), Change: testutil.Dec("2.45"), ChangePercentage: testutil.Dec("1.27")},
			model.MarketQuote{Symbol: "BTC", Price: testutil.Dec("45200"), Change: testutil.Dec("-300"), ChangePercentage: testutil.Dec("-0.66")},
		)
		return handlers.NewMarketHandler(testutil.NewTestMarketService(t, f.src, f.dashboard)), f.src
	}

	t.Run("returns quotes in request order", func(t *testing.T) {
		handler, _ := setup(t)

		req := testutil.NewRequestWithQueryParams(http.MethodGet, "/api/market/quotes",
			map[string]string{"symbols": " btc, AAPL ,btc"})
		w := httptest.NewRecorder()

		handler.Quotes(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
		}
		quotes := testutil.DecodeJSON[[]model.MarketQuote](t, w)
		if len(quotes) != 2 || quotes[0].Symbol != "BTC" || quotes[1].Symbol != "AAPL" {
			t.Errorf("Expected BTC then AAPL, got %+v", quotes)
		}
	})

	t.Run("returns 400 without symbols", func(t *testing.T) {
		handler, _ := setup(t)

		w := httptest.NewRecorder()
		handler.Quotes(w, httptest.NewRequest(http.MethodGet, "/api/market/quotes", nil))

		if w.Code != http.StatusBadRequest {
			t.Errorf("Expected 400, got %d", w.Code)
		}
	})

	t.Run("returns 400 for too many symbols", func(t *testing.T) {
		handler, _ := setup(t)

		symbols := make([]string, 51)
		for i := range symbols {
			symbols[i] = fmt.Sprintf("S%02d", i)
		}
		req := testutil.NewRequestWithQueryParams(http.MethodGet, "/api/market/quotes",
			map[string]string{"symbols": strings.Join(symbols, ",")})
		w := httptest.NewRecorder()

		handler.Quotes(w, req)

		if w.Code != http.StatusBadRequest {
			t.Errorf("Expected 400, got %d", w.Code)
		}
	})

	t.Run("returns 502 when the source fails", func(t *testing.T) {
		handler, src := setup(t)
		src.FailReads(errors.New("upstream timeout"))

		req := testutil.NewRequestWithQueryParams(http.MethodGet, "/api/market/quotes",
			map[string]string{"symbols": "AAPL"})
		w := httptest.NewRecorder()

		handler.Quotes(w, req)

		if w.Code != http.StatusBadGateway {
			t.Errorf("Expected 502, got %d", w.Code)
		}
	})
}
