// Package remote is a data source backed by a dashboard REST API.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/ndewijer/Investment-Portfolio-Dashboard/internal/apperrors"
	"github.com/ndewijer/Investment-Portfolio-Dashboard/internal/model"
)

// maxErrorBody bounds how much of a failed response is kept for the log.
const maxErrorBody = 512

// Client talks to the REST API at baseURL. Every failure other than a 404 on
// a lookup by id is reported as apperrors.ErrDataSource.
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        zerolog.Logger
}

// NewClient creates a client for baseURL, e.g. "http://localhost:8000".
// A zero timeout leaves requests unbounded.
func NewClient(baseURL string, timeout time.Duration, log zerolog.Logger) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		log:        log.With().Str("datasource", "remote").Logger(),
	}
}

// errStatus is a non-2xx answer from the API.
type errStatus struct {
	code int
	body string
}

func (e *errStatus) Error() string {
	return fmt.Sprintf("unexpected status %d", e.code)
}

// do sends a request and decodes a JSON answer into out when out is non-nil.
func (c *Client) do(ctx context.Context, method, endpoint string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+endpoint, reader)
	if err != nil {
		return fmt.Errorf("%w: %v", apperrors.ErrDataSource, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.Warn().Err(err).Str("method", method).Str("endpoint", endpoint).Msg("request failed")
		return fmt.Errorf("%w: %s %s: %v", apperrors.ErrDataSource, method, endpoint, err)
	}
	defer resp.Body.Close()

	c.log.Debug().
		Str("method", method).
		Str("endpoint", endpoint).
		Int("status", resp.StatusCode).
		Dur("duration", time.Since(start)).
		Msg("request done")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &errStatus{code: resp.StatusCode, body: string(data)}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: failed to decode %s %s: %v", apperrors.ErrDataSource, method, endpoint, err)
	}
	return nil
}

// mapErr turns a status error into ErrDataSource, or into notFound for a 404
// when notFound is set.
func (c *Client) mapErr(err error, notFound error, id string) error {
	se, ok := err.(*errStatus)
	if !ok {
		return err
	}
	if se.code == http.StatusNotFound && notFound != nil {
		return fmt.Errorf("%w: %s", notFound, id)
	}
	c.log.Warn().Int("status", se.code).Str("body", se.body).Msg("unexpected response")
	return fmt.Errorf("%w: %v", apperrors.ErrDataSource, se)
}

func (c *Client) ListPortfolios(ctx context.Context) ([]model.Portfolio, error) {
	var out []model.Portfolio
	if err := c.do(ctx, http.MethodGet, "/portfolios/", nil, &out); err != nil {
		return nil, c.mapErr(err, nil, "")
	}
	return orEmpty(out), nil
}

func (c *Client) GetPortfolio(ctx context.Context, id string) (model.Portfolio, error) {
	var out model.Portfolio
	if err := c.do(ctx, http.MethodGet, "/portfolios/"+url.PathEscape(id), nil, &out); err != nil {
		return model.Portfolio{}, c.mapErr(err, apperrors.ErrPortfolioNotFound, id)
	}
	return out, nil
}

func (c *Client) CreatePortfolio(ctx context.Context, draft model.PortfolioDraft) (model.Portfolio, error) {
	var out model.Portfolio
	if err := c.do(ctx, http.MethodPost, "/portfolios/", draft, &out); err != nil {
		return model.Portfolio{}, c.mapErr(err, nil, "")
	}
	return out, nil
}

func (c *Client) ListPositions(ctx context.Context, portfolioID string) ([]model.Position, error) {
	endpoint := "/positions/"
	if portfolioID != "" {
		endpoint = "/portfolios/" + url.PathEscape(portfolioID) + "/positions/"
	}

	var out []model.Position
	if err := c.do(ctx, http.MethodGet, endpoint, nil, &out); err != nil {
		return nil, c.mapErr(err, nil, "")
	}
	return orEmpty(out), nil
}

func (c *Client) GetPosition(ctx context.Context, id string) (model.Position, error) {
	var out model.Position
	if err := c.do(ctx, http.MethodGet, "/positions/"+url.PathEscape(id), nil, &out); err != nil {
		return model.Position{}, c.mapErr(err, apperrors.ErrPositionNotFound, id)
	}
	return out, nil
}

func (c *Client) CreatePosition(ctx context.Context, p model.Position) (model.Position, error) {
	var out model.Position
	if err := c.do(ctx, http.MethodPost, "/positions/", p, &out); err != nil {
		return model.Position{}, c.mapErr(err, nil, "")
	}
	return out, nil
}

func (c *Client) GetPerformanceHistory(ctx context.Context, portfolioID string, period model.Period) ([]model.PerformancePoint, error) {
	endpoint := "/portfolios/" + url.PathEscape(portfolioID) + "/performance"
	if period != "" {
		endpoint += "?" + url.Values{"period": {string(period)}}.Encode()
	}

	var out []model.PerformancePoint
	if err := c.do(ctx, http.MethodGet, endpoint, nil, &out); err != nil {
		return nil, c.mapErr(err, apperrors.ErrPortfolioNotFound, portfolioID)
	}
	return orEmpty(out), nil
}

func (c *Client) GetMarketQuotes(ctx context.Context, symbols []string) ([]model.MarketQuote, error) {
	endpoint := "/market/quotes?" + url.Values{"symbols": {strings.Join(symbols, ",")}}.Encode()

	var out []model.MarketQuote
	if err := c.do(ctx, http.MethodGet, endpoint, nil, &out); err != nil {
		return nil, c.mapErr(err, nil, "")
	}
	return orEmpty(out), nil
}

// Ping checks that the API answers the portfolio listing.
func (c *Client) Ping(ctx context.Context) error {
	_, err := c.ListPortfolios(ctx)
	return err
}

func orEmpty[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
