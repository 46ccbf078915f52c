package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ndewijer/Investment-Portfolio-Dashboard/internal/apperrors"
	"github.com/ndewijer/Investment-Portfolio-Dashboard/internal/model"
)

// PositionRepository provides data access methods for the position table.
// Only quantity, average cost and current price are stored; derived fields
// are recomputed on read.
type PositionRepository struct {
	db  *sql.DB
	now func() time.Time
}

// NewPositionRepository creates a new PositionRepository with the provided database connection.
func NewPositionRepository(db *sql.DB) *PositionRepository {
	return &PositionRepository{db: db, now: time.Now}
}

const positionColumns = `
	id, portfolio_id, symbol, name, asset_type,
	quantity, average_cost, current_price,
	sector, expense_ratio, maturity_date, yield
`

// GetPositions retrieves the positions of portfolioID in insertion order,
// or all positions when portfolioID is empty.
func (r *PositionRepository) GetPositions(ctx context.Context, portfolioID string) ([]model.Position, error) {
	//#nosec G202 -- Safe: only the column list is concatenated
	query := `SELECT ` + positionColumns + ` FROM position`
	var args []any
	if portfolioID != "" {
		query += ` WHERE portfolio_id = ?`
		args = append(args, portfolioID)
	}
	query += ` ORDER BY created_at, rowid`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query position table: %w", err)
	}
	defer rows.Close()

	positions := []model.Position{}
	for rows.Next() {
		p, err := scanPosition(rows)
		if err != nil {
			return nil, err
		}
		positions = append(positions, p)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating position table: %w", err)
	}

	return positions, nil
}

// GetPosition retrieves one position.
// Returns ErrPositionNotFound if no record with the given ID exists.
func (r *PositionRepository) GetPosition(ctx context.Context, id string) (model.Position, error) {
	//#nosec G202 -- Safe: only the column list is concatenated
	query := `SELECT ` + positionColumns + ` FROM position WHERE id = ?`

	p, err := scanPosition(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return model.Position{}, fmt.Errorf("%w: %s", apperrors.ErrPositionNotFound, id)
	}
	if err != nil {
		return model.Position{}, err
	}
	return p, nil
}

// InsertPosition creates a new position row.
func (r *PositionRepository) InsertPosition(ctx context.Context, p model.Position) error {
	query := `
        INSERT INTO position (
            id, portfolio_id, symbol, name, asset_type,
            quantity, average_cost, current_price,
            sector, expense_ratio, maturity_date, yield,
            created_at, updated_at
        )
        VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
    `

	attrs := model.Attributes(p.Asset)
	now := formatTime(r.now())
	_, err := r.db.ExecContext(ctx, query,
		p.ID,
		p.PortfolioID,
		p.Symbol,
		p.Name,
		string(p.Class()),
		p.Quantity,
		p.AverageCost,
		p.CurrentPrice,
		nullString(attrs.Sector),
		nullDecimal(attrs.ExpenseRatio),
		nullString(attrs.MaturityDate),
		nullDecimal(attrs.Yield),
		now,
		now,
	)
	if err != nil {
		return fmt.Errorf("failed to insert position: %w", err)
	}

	return nil
}

// UpdatePosition overwrites the mutable fields of an existing position.
// Returns ErrPositionNotFound if no record with the given ID exists.
func (r *PositionRepository) UpdatePosition(ctx context.Context, p model.Position) error {
	query := `
        UPDATE position
        SET name = ?, asset_type = ?, quantity = ?, average_cost = ?, current_price = ?,
            sector = ?, expense_ratio = ?, maturity_date = ?, yield = ?, updated_at = ?
        WHERE id = ?
    `

	attrs := model.Attributes(p.Asset)
	result, err := r.db.ExecContext(ctx, query,
		p.Name,
		string(p.Class()),
		p.Quantity,
		p.AverageCost,
		p.CurrentPrice,
		nullString(attrs.Sector),
		nullDecimal(attrs.ExpenseRatio),
		nullString(attrs.MaturityDate),
		nullDecimal(attrs.Yield),
		formatTime(r.now()),
		p.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update position: %w", err)
	}

	return requireOneRow(result, apperrors.ErrPositionNotFound, p.ID)
}

// DeletePosition removes a position by its ID.
// Returns ErrPositionNotFound if no record with the given ID exists.
func (r *PositionRepository) DeletePosition(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM position WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete position: %w", err)
	}

	return requireOneRow(result, apperrors.ErrPositionNotFound, id)
}

func requireOneRow(result sql.Result, notFound error, id string) error {
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("%w: %s", notFound, id)
	}
	return nil
}

func scanPosition(row rowScanner) (model.Position, error) {
	var p model.Position
	var assetType string
	var sector, maturity sql.NullString
	var expenseRatio, yield decimal.NullDecimal

	err := row.Scan(
		&p.ID,
		&p.PortfolioID,
		&p.Symbol,
		&p.Name,
		&assetType,
		&p.Quantity,
		&p.AverageCost,
		&p.CurrentPrice,
		&sector,
		&expenseRatio,
		&maturity,
		&yield,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Position{}, err
		}
		return model.Position{}, fmt.Errorf("failed to scan position: %w", err)
	}

	class, err := model.ParseAssetClass(assetType)
	if err != nil {
		return model.Position{}, fmt.Errorf("position %s: %w", p.ID, err)
	}

	attrs := model.AssetAttributes{Sector: sector.String}
	if expenseRatio.Valid {
		attrs.ExpenseRatio = &expenseRatio.Decimal
	}
	if yield.Valid {
		attrs.Yield = &yield.Decimal
	}
	if maturity.Valid {
		if attrs.MaturityDate, err = ParseDate(maturity.String); err != nil {
			return model.Position{}, fmt.Errorf("position %s maturity_date: %w", p.ID, err)
		}
	}

	if p.Asset, err = model.NewAsset(class, attrs); err != nil {
		return model.Position{}, err
	}

	p.Recompute()
	return p, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func nullDecimal(d *decimal.Decimal) decimal.NullDecimal {
	if d == nil {
		return decimal.NullDecimal{}
	}
	return decimal.NullDecimal{Decimal: *d, Valid: true}
}
