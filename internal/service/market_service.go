package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/ndewijer/Investment-Portfolio-Dashboard/internal/datasource"
	"github.com/ndewijer/Investment-Portfolio-Dashboard/internal/model"
)

// MarketService serves market quotes and pushes them into the dashboard.
type MarketService struct {
	source    datasource.Source
	dashboard *DashboardService
	log       zerolog.Logger
}

// NewMarketService creates a MarketService that reads quotes from source
// and applies refreshed prices to dashboard.
func NewMarketService(source datasource.Source, dashboard *DashboardService, log zerolog.Logger) *MarketService {
	return &MarketService{
		source:    source,
		dashboard: dashboard,
		log:       log.With().Str("service", "market").Logger(),
	}
}

// Quotes returns the latest quotes of symbols as reported by the source.
func (s *MarketService) Quotes(ctx context.Context, symbols []string) ([]model.MarketQuote, error) {
	quotes, err := s.source.GetMarketQuotes(ctx, symbols)
	if err != nil {
		return nil, fmt.Errorf("failed to get market quotes: %w", err)
	}
	return quotes, nil
}

// RefreshPrices fetches quotes for every held symbol and updates the current
// price of the matching positions. It returns the number of positions that
// changed.
func (s *MarketService) RefreshPrices(ctx context.Context) (int, error) {
	symbols := s.dashboard.HeldSymbols()
	if len(symbols) == 0 {
		return 0, nil
	}

	quotes, err := s.Quotes(ctx, symbols)
	if err != nil {
		return 0, err
	}

	n, err := s.dashboard.ApplyQuotes(ctx, quotes)
	if err != nil {
		return n, fmt.Errorf("failed to apply quotes: %w", err)
	}

	s.log.Info().
		Int("symbols", len(symbols)).
		Int("quotes", len(quotes)).
		Int("updated", n).
		Msg("prices refreshed")
	return n, nil
}
