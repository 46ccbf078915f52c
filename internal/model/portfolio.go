package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Portfolio is a named collection of positions with aggregate metrics.
//
// The aggregate fields are recomputed from the portfolio's positions whenever
// the position set changes; values received from a data source are only a
// starting point and are never treated as authoritative.
type Portfolio struct {
	ID                   string          `json:"id"`
	Name                 string          `json:"name"`
	TotalValue           decimal.Decimal `json:"total_value"`
	InvestedAmount       decimal.Decimal `json:"invested_amount"`
	ProfitLoss           decimal.Decimal `json:"profit_loss"`
	ProfitLossPercentage decimal.Decimal `json:"profit_loss_percentage"`
	CreatedAt            time.Time       `json:"created_at"`
	UpdatedAt            time.Time       `json:"updated_at"`
}

// PortfolioDraft is the input for creating a portfolio.
type PortfolioDraft struct {
	Name string `json:"name"`
}

// Summary holds the metric cards shown at the top of the dashboard.
// All monetary values are sums over the underlying portfolios or positions.
type Summary struct {
	TotalValue                decimal.Decimal `json:"totalValue"`
	TotalInvested             decimal.Decimal `json:"totalInvested"`
	TotalProfitLoss           decimal.Decimal `json:"totalProfitLoss"`
	TotalProfitLossPercentage decimal.Decimal `json:"totalProfitLossPercentage"`
	ActivePositions           int             `json:"activePositions"`
}

// PerformancePoint is a portfolio valuation on a single date.
type PerformancePoint struct {
	Date       string          `json:"date"` // YYYY-MM-DD
	Value      decimal.Decimal `json:"value"`
	ProfitLoss decimal.Decimal `json:"profit_loss"`
}

// MarketQuote is the latest market data for one symbol.
type MarketQuote struct {
	Symbol           string           `json:"symbol"`
	Price            decimal.Decimal  `json:"price"`
	Change           decimal.Decimal  `json:"change"`
	ChangePercentage decimal.Decimal  `json:"change_percentage"`
	Volume           int64            `json:"volume"`
	MarketCap        *decimal.Decimal `json:"market_cap,omitempty"`
}
