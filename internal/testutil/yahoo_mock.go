package testutil

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

// YahooChart describes one symbol served by NewYahooServer: a daily close
// per entry, ending yesterday. A negative close is sent as null.
type YahooChart struct {
	Symbol   string
	Currency string
	Closes   []float64
	Volume   int64
}

// CreateMockYahooResponse renders chart as a Yahoo Finance chart API body.
func CreateMockYahooResponse(chart YahooChart) []byte {
	now := time.Now().UTC()
	yesterday := time.Date(now.Year(), now.Month(), now.Day()-1, 0, 0, 0, 0, time.UTC)

	days := len(chart.Closes)
	timestamps := make([]int64, days)
	closes := make([]*float64, days)
	volumes := make([]*int64, days)
	for i, c := range chart.Closes {
		timestamps[i] = yesterday.AddDate(0, 0, -days+i+1).Unix()
		if c >= 0 {
			closes[i] = &chart.Closes[i]
		}
		v := chart.Volume + int64(i)
		volumes[i] = &v
	}

	currency := chart.Currency
	if currency == "" {
		currency = "EUR"
	}

	body := map[string]any{
		"chart": map[string]any{
			"result": []any{
				map[string]any{
					"meta": map[string]any{
						"symbol":   chart.Symbol,
						"currency": currency,
						"longName": chart.Symbol + " Inc.",
					},
					"timestamp": timestamps,
					"indicators": map[string]any{
						"quote": []any{
							map[string]any{"close": closes, "volume": volumes},
						},
					},
				},
			},
			"error": nil,
		},
	}
	out, _ := json.Marshal(body)
	return out
}

// CreateMockYahooErrorResponse renders a chart API error body.
func CreateMockYahooErrorResponse(code, description string) []byte {
	out, _ := json.Marshal(map[string]any{
		"chart": map[string]any{
			"result": nil,
			"error":  map[string]string{"code": code, "description": description},
		},
	})
	return out
}

// NewYahooServer serves the chart API at /{symbol} for the given charts and
// answers unknown symbols with a Yahoo "Not Found" error. The server is
// closed when the test ends.
func NewYahooServer(t *testing.T, charts ...YahooChart) *httptest.Server {
	t.Helper()

	bodies := make(map[string][]byte, len(charts))
	for _, c := range charts {
		bodies[c.Symbol] = CreateMockYahooResponse(c)
	}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		symbol := strings.TrimPrefix(r.URL.Path, "/")
		w.Header().Set("Content-Type", "application/json")
		body, ok := bodies[symbol]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write(CreateMockYahooErrorResponse("Not Found", "No data found, symbol may be delisted"))
			return
		}
		_, _ = w.Write(body)
	}))
	t.Cleanup(srv.Close)
	return srv
}
