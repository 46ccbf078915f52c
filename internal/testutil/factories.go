package testutil

import (
	"database/sql"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ndewijer/Investment-Portfolio-Dashboard/internal/model"
)

// PortfolioBuilder provides a fluent interface for creating test portfolios.
//
// Example usage:
//
//	// Simple creation with defaults
//	portfolio := testutil.NewPortfolio().Build(t, db)
//
//	// Customized portfolio
//	portfolio := testutil.NewPortfolio().
//	    WithName("Custom Portfolio").
//	    Build(t, db)
type PortfolioBuilder struct {
	ID        string
	Name      string
	CreatedAt time.Time
}

// NewPortfolio creates a PortfolioBuilder with sensible defaults.
func NewPortfolio() *PortfolioBuilder {
	return &PortfolioBuilder{
		ID:        MakeID(),
		Name:      MakePortfolioName("Test Portfolio"),
		CreatedAt: time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC),
	}
}

// WithID sets a custom ID.
func (b *PortfolioBuilder) WithID(id string) *PortfolioBuilder {
	b.ID = id
	return b
}

// WithName sets a custom name.
func (b *PortfolioBuilder) WithName(name string) *PortfolioBuilder {
	b.Name = name
	return b
}

// WithCreatedAt sets the creation timestamp. Portfolios are listed in
// creation order.
func (b *PortfolioBuilder) WithCreatedAt(at time.Time) *PortfolioBuilder {
	b.CreatedAt = at
	return b
}

// Model returns the portfolio without touching a database.
func (b *PortfolioBuilder) Model() model.Portfolio {
	return model.Portfolio{
		ID:        b.ID,
		Name:      b.Name,
		CreatedAt: b.CreatedAt,
		UpdatedAt: b.CreatedAt,
	}
}

// Build creates the portfolio in the database and returns it.
func (b *PortfolioBuilder) Build(t *testing.T, db *sql.DB) model.Portfolio {
	t.Helper()

	query := `
		INSERT INTO portfolio (id, name, created_at, updated_at)
		VALUES (?, ?, ?, ?)
	`

	at := b.CreatedAt.UTC().Format(time.RFC3339)
	_, err := db.Exec(query, b.ID, b.Name, at, at)
	if err != nil {
		t.Fatalf("Failed to create test portfolio: %v", err)
	}

	return b.Model()
}

// CreatePortfolio creates a portfolio with the given name and default values.
//
// Example usage:
//
//	portfolio := testutil.CreatePortfolio(t, db, "My Portfolio")
func CreatePortfolio(t *testing.T, db *sql.DB, name string) model.Portfolio {
	t.Helper()
	return NewPortfolio().WithName(name).Build(t, db)
}

// PositionBuilder provides a fluent interface for creating test positions.
// The default is 10 shares of a Technology equity bought at 100 and priced
// at 110.
//
// Example usage:
//
//	position := testutil.NewPosition(portfolio.ID).
//	    WithSymbol("AAPL").
//	    WithQuantity("50").
//	    Build(t, db)
type PositionBuilder struct {
	ID           string
	PortfolioID  string
	Symbol       string
	Name         string
	Asset        model.Asset
	Quantity     decimal.Decimal
	AverageCost  decimal.Decimal
	CurrentPrice decimal.Decimal
	CreatedAt    time.Time
}

// NewPosition creates a PositionBuilder for portfolioID with sensible defaults.
func NewPosition(portfolioID string) *PositionBuilder {
	return &PositionBuilder{
		ID:           MakeID(),
		PortfolioID:  portfolioID,
		Symbol:       MakeSymbol("TST"),
		Name:         MakeSymbolName("Test Holding"),
		Asset:        model.Equity{Sector: "Technology"},
		Quantity:     decimal.NewFromInt(10),
		AverageCost:  decimal.NewFromInt(100),
		CurrentPrice: decimal.NewFromInt(110),
		CreatedAt:    time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC),
	}
}

// WithID sets a custom ID.
func (b *PositionBuilder) WithID(id string) *PositionBuilder {
	b.ID = id
	return b
}

// WithSymbol sets the ticker symbol.
func (b *PositionBuilder) WithSymbol(symbol string) *PositionBuilder {
	b.Symbol = symbol
	return b
}

// WithName sets the display name.
func (b *PositionBuilder) WithName(name string) *PositionBuilder {
	b.Name = name
	return b
}

// WithAsset sets the asset variant.
func (b *PositionBuilder) WithAsset(asset model.Asset) *PositionBuilder {
	b.Asset = asset
	return b
}

// WithQuantity sets the quantity from a decimal string.
func (b *PositionBuilder) WithQuantity(q string) *PositionBuilder {
	b.Quantity = decimal.RequireFromString(q)
	return b
}

// WithAverageCost sets the average cost from a decimal string.
func (b *PositionBuilder) WithAverageCost(c string) *PositionBuilder {
	b.AverageCost = decimal.RequireFromString(c)
	return b
}

// WithCurrentPrice sets the current price from a decimal string.
func (b *PositionBuilder) WithCurrentPrice(p string) *PositionBuilder {
	b.CurrentPrice = decimal.RequireFromString(p)
	return b
}

// WithCreatedAt sets the creation timestamp. Positions are listed in
// creation order.
func (b *PositionBuilder) WithCreatedAt(at time.Time) *PositionBuilder {
	b.CreatedAt = at
	return b
}

// Model returns the position, derived fields computed, without touching a
// database.
func (b *PositionBuilder) Model() model.Position {
	p := model.Position{
		ID:           b.ID,
		PortfolioID:  b.PortfolioID,
		Symbol:       b.Symbol,
		Name:         b.Name,
		Asset:        b.Asset,
		Quantity:     b.Quantity,
		AverageCost:  b.AverageCost,
		CurrentPrice: b.CurrentPrice,
	}
	p.Recompute()
	return p
}

// Build creates the position in the database and returns it.
func (b *PositionBuilder) Build(t *testing.T, db *sql.DB) model.Position {
	t.Helper()

	query := `
		INSERT INTO position (
			id, portfolio_id, symbol, name, asset_type,
			quantity, average_cost, current_price,
			sector, expense_ratio, maturity_date, yield,
			created_at, updated_at
		)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	attrs := model.Attributes(b.Asset)
	var sector, maturity any
	if attrs.Sector != "" {
		sector = attrs.Sector
	}
	if attrs.MaturityDate != "" {
		maturity = attrs.MaturityDate
	}
	var expenseRatio, yield any
	if attrs.ExpenseRatio != nil {
		expenseRatio = attrs.ExpenseRatio.String()
	}
	if attrs.Yield != nil {
		yield = attrs.Yield.String()
	}

	at := b.CreatedAt.UTC().Format(time.RFC3339)
	_, err := db.Exec(query,
		b.ID, b.PortfolioID, b.Symbol, b.Name, string(b.Asset.Class()),
		b.Quantity.String(), b.AverageCost.String(), b.CurrentPrice.String(),
		sector, expenseRatio, maturity, yield,
		at, at,
	)
	if err != nil {
		t.Fatalf("Failed to create test position: %v", err)
	}

	return b.Model()
}

// SnapshotBuilder provides a fluent interface for creating performance
// snapshots.
type SnapshotBuilder struct {
	PortfolioID string
	Date        string
	Value       decimal.Decimal
	ProfitLoss  decimal.Decimal
}

// NewSnapshot creates a SnapshotBuilder for portfolioID dated 2024-01-01.
func NewSnapshot(portfolioID string) *SnapshotBuilder {
	return &SnapshotBuilder{
		PortfolioID: portfolioID,
		Date:        "2024-01-01",
		Value:       decimal.NewFromInt(1000),
		ProfitLoss:  decimal.Zero,
	}
}

// WithDate sets the snapshot date (YYYY-MM-DD).
func (b *SnapshotBuilder) WithDate(date string) *SnapshotBuilder {
	b.Date = date
	return b
}

// WithValue sets the value and profit/loss from decimal strings.
func (b *SnapshotBuilder) WithValue(value, profitLoss string) *SnapshotBuilder {
	b.Value = decimal.RequireFromString(value)
	b.ProfitLoss = decimal.RequireFromString(profitLoss)
	return b
}

// Build creates the snapshot in the database and returns it.
func (b *SnapshotBuilder) Build(t *testing.T, db *sql.DB) model.PerformancePoint {
	t.Helper()

	_, err := db.Exec(
		`INSERT INTO performance_snapshot (portfolio_id, date, value, profit_loss) VALUES (?, ?, ?, ?)`,
		b.PortfolioID, b.Date, b.Value.String(), b.ProfitLoss.String(),
	)
	if err != nil {
		t.Fatalf("Failed to create test snapshot: %v", err)
	}

	return model.PerformancePoint{Date: b.Date, Value: b.Value, ProfitLoss: b.ProfitLoss}
}
