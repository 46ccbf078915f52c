package yahoo

import "time"

// Response represents the raw JSON response structure from Yahoo Finance API.
// This type maps directly to the Yahoo Finance chart API response format,
// containing nested structures for metadata, timestamps, and price indicators.
//
// The structure includes:
//   - Chart.Result: Array of result objects (typically contains one element)
//   - Chart.Result[].Meta: Symbol metadata (name, currency, previous close)
//   - Chart.Result[].Timestamp: Unix timestamps for each data point
//   - Chart.Result[].Indicators: Price data arrays (close, volume)
//   - Chart.Error: Optional error object from Yahoo API
type Response struct {
	Chart struct {
		Result []struct {
			Meta struct {
				Currency           string   `json:"currency"`
				Symbol             string   `json:"symbol"`
				ExchangeName       string   `json:"exchangeName"`
				LongName           string   `json:"longName"`
				Shortname          string   `json:"shortName"`
				RegularMarketPrice *float64 `json:"regularMarketPrice"`
				ChartPreviousClose *float64 `json:"chartPreviousClose"`
			} `json:"meta"`
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Close  []*float64 `json:"close"`
					Volume []*int64   `json:"volume"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

// PriceChart represents a parsed and structured price chart from Yahoo Finance.
// Days without a close price (holidays, halted trading) are left out.
type PriceChart struct {
	Symbol     string
	Currency   string
	LongName   string
	Indicators []Indicators
}

// Indicators represents a single day's closing data for a financial instrument.
type Indicators struct {
	Date       time.Time
	PriceClose float64
	Volume     int64
}
