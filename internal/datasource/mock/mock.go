// Package mock serves the canned dashboard dataset. It backs local
// development and is the fallback when the configured source fails.
package mock

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ndewijer/Investment-Portfolio-Dashboard/internal/apperrors"
	"github.com/ndewijer/Investment-Portfolio-Dashboard/internal/model"
	"github.com/ndewijer/Investment-Portfolio-Dashboard/internal/portfolio"
)

// Source is a read-only data source over the canned dataset. Creates are
// echoed back with a new id but not kept; every call sees the same data.
type Source struct {
	now func() time.Time
}

// New creates a mock source.
func New() *Source {
	return &Source{now: time.Now}
}

func (s *Source) ListPortfolios(_ context.Context) ([]model.Portfolio, error) {
	return portfolios(), nil
}

func (s *Source) GetPortfolio(_ context.Context, id string) (model.Portfolio, error) {
	for _, p := range portfolios() {
		if p.ID == id {
			return p, nil
		}
	}
	return model.Portfolio{}, fmt.Errorf("%w: %s", apperrors.ErrPortfolioNotFound, id)
}

func (s *Source) CreatePortfolio(_ context.Context, draft model.PortfolioDraft) (model.Portfolio, error) {
	now := s.now().UTC()
	return model.Portfolio{
		ID:        uuid.New().String(),
		Name:      strings.TrimSpace(draft.Name),
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

func (s *Source) ListPositions(_ context.Context, portfolioID string) ([]model.Position, error) {
	return portfolio.FilterByPortfolio(positions(), portfolioID), nil
}

func (s *Source) GetPosition(_ context.Context, id string) (model.Position, error) {
	for _, p := range positions() {
		if p.ID == id {
			return p, nil
		}
	}
	return model.Position{}, fmt.Errorf("%w: %s", apperrors.ErrPositionNotFound, id)
}

func (s *Source) CreatePosition(_ context.Context, p model.Position) (model.Position, error) {
	return p, nil
}

// GetPerformanceHistory returns the canned history for any known portfolio.
// Periods are measured back from HistoryEnd.
func (s *Source) GetPerformanceHistory(ctx context.Context, portfolioID string, period model.Period) ([]model.PerformancePoint, error) {
	if _, err := s.GetPortfolio(ctx, portfolioID); err != nil {
		return nil, err
	}
	return period.Filter(performance(), HistoryEnd), nil
}

// GetMarketQuotes returns the canned quotes of the requested symbols.
// Symbols without a canned quote are skipped.
func (s *Source) GetMarketQuotes(_ context.Context, symbols []string) ([]model.MarketQuote, error) {
	bySymbol := make(map[string]model.MarketQuote)
	for _, q := range quotes() {
		bySymbol[q.Symbol] = q
	}

	out := []model.MarketQuote{}
	for _, symbol := range symbols {
		if q, ok := bySymbol[strings.ToUpper(symbol)]; ok {
			out = append(out, q)
		}
	}
	return out, nil
}
