package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/ndewijer/Investment-Portfolio-Dashboard/internal/model"
)

// PerformanceRepository provides data access methods for the
// performance_snapshot table: one valuation per portfolio per day.
type PerformanceRepository struct {
	db *sql.DB
}

// NewPerformanceRepository creates a new PerformanceRepository with the provided database connection.
func NewPerformanceRepository(db *sql.DB) *PerformanceRepository {
	return &PerformanceRepository{db: db}
}

// GetSnapshots returns the snapshots of portfolioID dated on or after since,
// ascending by date. A zero since returns the full history.
func (r *PerformanceRepository) GetSnapshots(ctx context.Context, portfolioID string, since time.Time) ([]model.PerformancePoint, error) {
	query := `
        SELECT date, value, profit_loss
        FROM performance_snapshot
        WHERE portfolio_id = ?
    `
	args := []any{portfolioID}
	if !since.IsZero() {
		query += " AND date >= ?"
		args = append(args, since.Format("2006-01-02"))
	}
	query += " ORDER BY date ASC"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query performance_snapshot table: %w", err)
	}
	defer rows.Close()

	points := []model.PerformancePoint{}
	for rows.Next() {
		var pt model.PerformancePoint
		var dateStr string
		if err := rows.Scan(&dateStr, &pt.Value, &pt.ProfitLoss); err != nil {
			return nil, fmt.Errorf("failed to scan performance_snapshot results: %w", err)
		}
		if pt.Date, err = ParseDate(dateStr); err != nil {
			return nil, fmt.Errorf("failed to parse snapshot date: %w", err)
		}
		points = append(points, pt)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating performance_snapshot table: %w", err)
	}

	return points, nil
}

// UpsertSnapshot records the valuation of portfolioID on point.Date,
// replacing an earlier snapshot of the same day.
func (r *PerformanceRepository) UpsertSnapshot(ctx context.Context, portfolioID string, point model.PerformancePoint) error {
	query := `
        INSERT INTO performance_snapshot (portfolio_id, date, value, profit_loss)
        VALUES (?, ?, ?, ?)
        ON CONFLICT (portfolio_id, date) DO UPDATE SET
            value = excluded.value,
            profit_loss = excluded.profit_loss
    `

	_, err := r.db.ExecContext(ctx, query, portfolioID, point.Date, point.Value, point.ProfitLoss)
	if err != nil {
		return fmt.Errorf("failed to upsert performance snapshot: %w", err)
	}
	return nil
}
