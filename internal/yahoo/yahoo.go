package yahoo

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/ndewijer/Investment-Portfolio-Dashboard/internal/model"
)

// DefaultBaseURL is the Yahoo Finance chart API endpoint.
const DefaultBaseURL = "https://query1.finance.yahoo.com/v8/finance/chart"

// maxParallelQueries bounds concurrent chart requests in Quotes.
const maxParallelQueries = 4

// FinanceClient provides methods for fetching market quotes from the Yahoo
// Finance chart API. Outgoing requests are paced by a rate limiter so that a
// price refresh over many symbols does not get the client blocked.
type FinanceClient struct {
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
	log        zerolog.Logger
}

// NewFinanceClient creates a new Yahoo Finance client.
//
// Parameters:
//   - baseURL: Chart API base URL; empty selects DefaultBaseURL
//   - timeout: Per-request timeout; zero leaves requests unbounded
//   - log: Receives a warning for every symbol Quotes has to skip
//
// Returns:
//   - *FinanceClient: A new client instance ready for use
func NewFinanceClient(baseURL string, timeout time.Duration, log zerolog.Logger) *FinanceClient {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &FinanceClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		limiter:    rate.NewLimiter(rate.Limit(5), 5),
		log:        log.With().Str("client", "yahoo").Logger(),
	}
}

// ParseChart converts a raw Yahoo Finance API response into a structured price chart.
//
// The method performs validation to ensure:
//   - A result is present
//   - Timestamp data is present
//   - Close price data is present and matches the timestamps in length
//
// Parameters:
//   - yahooResult: Raw response from Yahoo Finance API
//
// Returns:
//   - PriceChart: Structured chart with daily closes
//   - error: If data is missing, malformed, or arrays have mismatched lengths
func ParseChart(yahooResult Response) (PriceChart, error) {
	if len(yahooResult.Chart.Result) == 0 {
		return PriceChart{}, fmt.Errorf("no results returned")
	}
	result := yahooResult.Chart.Result[0]

	if len(result.Timestamp) == 0 {
		return PriceChart{}, fmt.Errorf("no price data returned")
	}
	if len(result.Indicators.Quote) == 0 || len(result.Indicators.Quote[0].Close) == 0 {
		return PriceChart{}, fmt.Errorf("no close prices returned")
	}
	quote := result.Indicators.Quote[0]
	if len(quote.Close) != len(result.Timestamp) {
		return PriceChart{}, fmt.Errorf("mismatched data lengths")
	}

	indicators := make([]Indicators, 0, len(result.Timestamp))
	for i, v := range result.Timestamp {
		if quote.Close[i] == nil {
			continue
		}
		ind := Indicators{
			Date:       time.Unix(v, 0).UTC(),
			PriceClose: *quote.Close[i],
		}
		if i < len(quote.Volume) && quote.Volume[i] != nil {
			ind.Volume = *quote.Volume[i]
		}
		indicators = append(indicators, ind)
	}
	if len(indicators) == 0 {
		return PriceChart{}, fmt.Errorf("no close prices returned")
	}

	return PriceChart{
		Symbol:     result.Meta.Symbol,
		Currency:   result.Meta.Currency,
		LongName:   result.Meta.LongName,
		Indicators: indicators,
	}, nil
}

// Quote derives the latest market quote from the chart: price is the last
// close, change is measured against the close before it.
func (c PriceChart) Quote() model.MarketQuote {
	last := c.Indicators[len(c.Indicators)-1]
	price := decimal.NewFromFloat(last.PriceClose)

	q := model.MarketQuote{
		Symbol:           c.Symbol,
		Price:            price,
		Change:           decimal.Zero,
		ChangePercentage: decimal.Zero,
		Volume:           last.Volume,
	}
	if len(c.Indicators) > 1 {
		prev := decimal.NewFromFloat(c.Indicators[len(c.Indicators)-2].PriceClose)
		q.Change = price.Sub(prev).Round(4)
		q.ChangePercentage = model.Percentage(price.Sub(prev), prev).Round(2)
	}
	return q
}

// QueryYahooFiveDaySymbol fetches the last 5 days of daily price data for a symbol.
//
// Parameters:
//   - ctx: Request context
//   - symbol: Ticker symbol (e.g., "AAPL", "BTC-EUR")
//
// Returns:
//   - Response: Raw API response containing price data
//   - error: If the HTTP request fails, API returns an error, or no results found
func (c *FinanceClient) QueryYahooFiveDaySymbol(ctx context.Context, symbol string) (Response, error) {
	endpoint := fmt.Sprintf("%s/%s?interval=1d&range=5d", c.baseURL, url.PathEscape(symbol))
	result, err := c.queryYahoo(ctx, endpoint)
	if err != nil {
		return Response{}, err
	}
	if len(result.Chart.Result) == 0 {
		return Response{}, fmt.Errorf("no results returned for symbol %s", symbol)
	}

	return result, nil
}

// Quote fetches and parses the latest quote for one symbol.
func (c *FinanceClient) Quote(ctx context.Context, symbol string) (model.MarketQuote, error) {
	resp, err := c.QueryYahooFiveDaySymbol(ctx, symbol)
	if err != nil {
		return model.MarketQuote{}, err
	}
	chart, err := ParseChart(resp)
	if err != nil {
		return model.MarketQuote{}, fmt.Errorf("symbol %s: %w", symbol, err)
	}
	q := chart.Quote()
	q.Symbol = symbol
	return q, nil
}

// Quotes fetches quotes for symbols in parallel and returns them in input
// order. A symbol Yahoo cannot quote is logged and left out. The call only
// fails when the context ends or when no symbol could be quoted at all.
func (c *FinanceClient) Quotes(ctx context.Context, symbols []string) ([]model.MarketQuote, error) {
	results := make([]*model.MarketQuote, len(symbols))
	errs := make([]error, len(symbols))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxParallelQueries)
	for i, symbol := range symbols {
		g.Go(func() error {
			q, err := c.Quote(gctx, symbol)
			if err != nil {
				errs[i] = err
				return nil
			}
			results[i] = &q
			return nil
		})
	}
	_ = g.Wait()
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	out := make([]model.MarketQuote, 0, len(symbols))
	var lastErr error
	for i, q := range results {
		if q == nil {
			lastErr = errs[i]
			c.log.Warn().Err(errs[i]).Str("symbol", symbols[i]).Msg("skipping symbol without quote")
			continue
		}
		out = append(out, *q)
	}
	if len(out) == 0 && lastErr != nil {
		return nil, fmt.Errorf("no quotes for %d symbols: %w", len(symbols), lastErr)
	}
	return out, nil
}

// queryYahoo is an internal helper that executes HTTP requests to Yahoo Finance API.
// This method handles the common logic for pacing requests, reading responses,
// parsing JSON, and checking for API errors.
//
// The method sets required headers:
//   - User-Agent: Mimics a browser to avoid API blocking
//   - Accept: Requests JSON response format
func (c *FinanceClient) queryYahoo(ctx context.Context, endpoint string) (Response, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return Response{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return Response{}, err
	}

	req.Header.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Response{}, err
	}
	defer resp.Body.Close()

	var response Response
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		return Response{}, fmt.Errorf("failed to decode yahoo response (status %d): %w", resp.StatusCode, err)
	}

	if response.Chart.Error != nil {
		return response, fmt.Errorf("yahoo error: %s: %s", response.Chart.Error.Code, response.Chart.Error.Description)
	}

	return response, nil
}
