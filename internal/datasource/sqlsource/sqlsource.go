// Package sqlsource is a data source backed by the local SQLite database,
// with market quotes from Yahoo Finance.
package sqlsource

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ndewijer/Investment-Portfolio-Dashboard/internal/apperrors"
	"github.com/ndewijer/Investment-Portfolio-Dashboard/internal/database"
	"github.com/ndewijer/Investment-Portfolio-Dashboard/internal/model"
	"github.com/ndewijer/Investment-Portfolio-Dashboard/internal/repository"
)

// QuoteClient fetches market quotes. *yahoo.FinanceClient implements it.
type QuoteClient interface {
	Quotes(ctx context.Context, symbols []string) ([]model.MarketQuote, error)
}

// Source reads and writes portfolios, positions and performance snapshots in
// SQLite. Database failures are reported as apperrors.ErrDataSource.
type Source struct {
	db           *sql.DB
	portfolios   *repository.PortfolioRepository
	positions    *repository.PositionRepository
	performance  *repository.PerformanceRepository
	quotes       QuoteClient
	historyClock func() time.Time
}

// New creates a source over db. The schema must already be migrated.
func New(db *sql.DB, quotes QuoteClient) *Source {
	return &Source{
		db:           db,
		portfolios:   repository.NewPortfolioRepository(db),
		positions:    repository.NewPositionRepository(db),
		performance:  repository.NewPerformanceRepository(db),
		quotes:       quotes,
		historyClock: time.Now,
	}
}

// wrap keeps typed not-found errors and marks everything else as a data
// source failure.
func wrap(err error) error {
	if err == nil ||
		errors.Is(err, apperrors.ErrPortfolioNotFound) ||
		errors.Is(err, apperrors.ErrPositionNotFound) {
		return err
	}
	return fmt.Errorf("%w: %v", apperrors.ErrDataSource, err)
}

func (s *Source) ListPortfolios(ctx context.Context) ([]model.Portfolio, error) {
	out, err := s.portfolios.GetPortfolios(ctx)
	return out, wrap(err)
}

func (s *Source) GetPortfolio(ctx context.Context, id string) (model.Portfolio, error) {
	out, err := s.portfolios.GetPortfolio(ctx, id)
	return out, wrap(err)
}

func (s *Source) CreatePortfolio(ctx context.Context, draft model.PortfolioDraft) (model.Portfolio, error) {
	now := time.Now().UTC().Truncate(time.Second)
	p := model.Portfolio{
		ID:        uuid.New().String(),
		Name:      strings.TrimSpace(draft.Name),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.portfolios.InsertPortfolio(ctx, p); err != nil {
		return model.Portfolio{}, wrap(err)
	}
	return p, nil
}

func (s *Source) ListPositions(ctx context.Context, portfolioID string) ([]model.Position, error) {
	out, err := s.positions.GetPositions(ctx, portfolioID)
	return out, wrap(err)
}

func (s *Source) GetPosition(ctx context.Context, id string) (model.Position, error) {
	out, err := s.positions.GetPosition(ctx, id)
	return out, wrap(err)
}

// CreatePosition stores p. The owning portfolio must exist.
func (s *Source) CreatePosition(ctx context.Context, p model.Position) (model.Position, error) {
	if _, err := s.portfolios.GetPortfolio(ctx, p.PortfolioID); err != nil {
		return model.Position{}, wrap(err)
	}
	if err := s.positions.InsertPosition(ctx, p); err != nil {
		return model.Position{}, wrap(err)
	}
	return p, nil
}

func (s *Source) UpdatePosition(ctx context.Context, p model.Position) error {
	return wrap(s.positions.UpdatePosition(ctx, p))
}

func (s *Source) DeletePosition(ctx context.Context, id string) error {
	return wrap(s.positions.DeletePosition(ctx, id))
}

// GetPerformanceHistory returns the recorded snapshots of the period ending
// today.
func (s *Source) GetPerformanceHistory(ctx context.Context, portfolioID string, period model.Period) ([]model.PerformancePoint, error) {
	if _, err := s.portfolios.GetPortfolio(ctx, portfolioID); err != nil {
		return nil, wrap(err)
	}
	out, err := s.performance.GetSnapshots(ctx, portfolioID, period.Start(s.historyClock()))
	return out, wrap(err)
}

// RecordSnapshot stores the valuation of a portfolio for one day.
func (s *Source) RecordSnapshot(ctx context.Context, portfolioID string, point model.PerformancePoint) error {
	return wrap(s.performance.UpsertSnapshot(ctx, portfolioID, point))
}

func (s *Source) GetMarketQuotes(ctx context.Context, symbols []string) ([]model.MarketQuote, error) {
	if s.quotes == nil {
		return nil, fmt.Errorf("%w: no quote client configured", apperrors.ErrDataSource)
	}
	out, err := s.quotes.Quotes(ctx, symbols)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrDataSource, err)
	}
	return out, nil
}

// Ping checks the database connection.
func (s *Source) Ping(_ context.Context) error {
	return wrap(database.HealthCheck(s.db))
}
