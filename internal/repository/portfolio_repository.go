package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/ndewijer/Investment-Portfolio-Dashboard/internal/apperrors"
	"github.com/ndewijer/Investment-Portfolio-Dashboard/internal/model"
)

// PortfolioRepository provides data access methods for the portfolio table.
// Aggregates are not stored; rows come back with zero totals.
type PortfolioRepository struct {
	db *sql.DB
}

// NewPortfolioRepository creates a new PortfolioRepository with the provided database connection.
func NewPortfolioRepository(db *sql.DB) *PortfolioRepository {
	return &PortfolioRepository{db: db}
}

// GetPortfolios retrieves all portfolios ordered by creation time.
// Returns an empty slice if there are none.
func (r *PortfolioRepository) GetPortfolios(ctx context.Context) ([]model.Portfolio, error) {
	query := `
          SELECT id, name, created_at, updated_at
          FROM portfolio
          ORDER BY created_at, rowid
      `

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query portfolio table: %w", err)
	}
	defer rows.Close()

	portfolios := []model.Portfolio{}

	for rows.Next() {
		p, err := scanPortfolio(rows)
		if err != nil {
			return nil, err
		}
		portfolios = append(portfolios, p)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating portfolio table: %w", err)
	}

	return portfolios, nil
}

// GetPortfolio retrieves one portfolio.
// Returns ErrPortfolioNotFound if no record with the given ID exists.
func (r *PortfolioRepository) GetPortfolio(ctx context.Context, id string) (model.Portfolio, error) {
	query := `
          SELECT id, name, created_at, updated_at
          FROM portfolio
          WHERE id = ?
      `

	p, err := scanPortfolio(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return model.Portfolio{}, fmt.Errorf("%w: %s", apperrors.ErrPortfolioNotFound, id)
	}
	if err != nil {
		return model.Portfolio{}, err
	}

	return p, nil
}

// InsertPortfolio creates a new portfolio row.
func (r *PortfolioRepository) InsertPortfolio(ctx context.Context, p model.Portfolio) error {
	query := `
        INSERT INTO portfolio (id, name, created_at, updated_at)
        VALUES (?, ?, ?, ?)
    `

	_, err := r.db.ExecContext(ctx, query,
		p.ID,
		p.Name,
		formatTime(p.CreatedAt),
		formatTime(p.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("failed to insert portfolio: %w", err)
	}

	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPortfolio(row rowScanner) (model.Portfolio, error) {
	var p model.Portfolio
	var createdStr, updatedStr string

	if err := row.Scan(&p.ID, &p.Name, &createdStr, &updatedStr); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Portfolio{}, err
		}
		return model.Portfolio{}, fmt.Errorf("failed to scan portfolio: %w", err)
	}

	var err error
	if p.CreatedAt, err = ParseTime(createdStr); err != nil {
		return model.Portfolio{}, fmt.Errorf("failed to parse created_at of portfolio %s: %w", p.ID, err)
	}
	if p.UpdatedAt, err = ParseTime(updatedStr); err != nil {
		return model.Portfolio{}, fmt.Errorf("failed to parse updated_at of portfolio %s: %w", p.ID, err)
	}

	return p, nil
}
