// Package datasource defines the contract between the dashboard and the
// system that owns portfolios and positions.
//
// Implementations live in subpackages: mock serves the canned dataset,
// remote talks to a dashboard REST API and sqlsource keeps the data in a
// SQLite database. Transport failures are reported by wrapping
// apperrors.ErrDataSource; lookups of absent ids return
// apperrors.ErrPortfolioNotFound or apperrors.ErrPositionNotFound.
package datasource

import (
	"context"

	"github.com/ndewijer/Investment-Portfolio-Dashboard/internal/model"
)

// Source is the read/create contract every data source implements.
type Source interface {
	ListPortfolios(ctx context.Context) ([]model.Portfolio, error)
	GetPortfolio(ctx context.Context, id string) (model.Portfolio, error)
	CreatePortfolio(ctx context.Context, draft model.PortfolioDraft) (model.Portfolio, error)

	// ListPositions returns the positions of portfolioID, or of every
	// portfolio when portfolioID is empty.
	ListPositions(ctx context.Context, portfolioID string) ([]model.Position, error)
	GetPosition(ctx context.Context, id string) (model.Position, error)
	// CreatePosition stores a position already built by the reconciler and
	// returns it as the source recorded it.
	CreatePosition(ctx context.Context, p model.Position) (model.Position, error)

	// GetPerformanceHistory returns valuations ordered by ascending date.
	GetPerformanceHistory(ctx context.Context, portfolioID string, period model.Period) ([]model.PerformancePoint, error)
	GetMarketQuotes(ctx context.Context, symbols []string) ([]model.MarketQuote, error)
}

// PositionWriter is implemented by sources that persist edits and deletes.
// Sources without it keep those changes in memory only.
type PositionWriter interface {
	UpdatePosition(ctx context.Context, p model.Position) error
	DeletePosition(ctx context.Context, id string) error
}

// SnapshotWriter is implemented by sources that can record performance
// history.
type SnapshotWriter interface {
	RecordSnapshot(ctx context.Context, portfolioID string, point model.PerformancePoint) error
}

// Pinger is implemented by sources that can report their own health.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Dataset is a complete snapshot of what the dashboard shows: every
// portfolio, every position and the performance history of the first
// portfolio.
type Dataset struct {
	Portfolios  []model.Portfolio
	Positions   []model.Position
	Performance []model.PerformancePoint
}
