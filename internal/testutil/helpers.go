package testutil

import (
	"database/sql"
	"math/rand"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/ndewijer/Investment-Portfolio-Dashboard/internal/datasource"
	"github.com/ndewijer/Investment-Portfolio-Dashboard/internal/datasource/mock"
	"github.com/ndewijer/Investment-Portfolio-Dashboard/internal/datasource/sqlsource"
	"github.com/ndewijer/Investment-Portfolio-Dashboard/internal/metrics"
	"github.com/ndewijer/Investment-Portfolio-Dashboard/internal/service"
)

// NewTestConfirmer returns a Confirmer with a random key and a one minute TTL.
func NewTestConfirmer(t *testing.T) *service.Confirmer {
	t.Helper()

	c, err := service.NewConfirmer("", time.Minute)
	if err != nil {
		t.Fatalf("Failed to create confirmer: %v", err)
	}
	return c
}

// NewTestDashboardService creates a dashboard over source with the canned
// fallback dataset, a fresh metrics registry and a silent logger. The
// dashboard is not loaded.
func NewTestDashboardService(t *testing.T, source datasource.Source) *service.DashboardService {
	t.Helper()

	return service.NewDashboardService(
		source,
		mock.Dataset,
		NewTestConfirmer(t),
		metrics.NewRegistry(),
		zerolog.Nop(),
	)
}

// NewLoadedDashboardService is NewTestDashboardService followed by a
// successful Load.
func NewLoadedDashboardService(t *testing.T, source datasource.Source) *service.DashboardService {
	t.Helper()

	svc := NewTestDashboardService(t, source)
	if _, err := svc.Load(t.Context()); err != nil {
		t.Fatalf("Failed to load dashboard: %v", err)
	}
	return svc
}

// NewTestSQLSource creates a SQL source over db without a quote client.
func NewTestSQLSource(t *testing.T, db *sql.DB) *sqlsource.Source {
	t.Helper()
	return sqlsource.New(db, nil)
}

// NewTestMarketService creates a MarketService over source and dashboard.
func NewTestMarketService(t *testing.T, source datasource.Source, dashboard *service.DashboardService) *service.MarketService {
	t.Helper()
	return service.NewMarketService(source, dashboard, zerolog.Nop())
}

// NewTestSystemService creates a SystemService over source and dashboard.
func NewTestSystemService(t *testing.T, source datasource.Source, dashboard *service.DashboardService) *service.SystemService {
	t.Helper()
	return service.NewSystemService(source, dashboard)
}

// Dec parses a decimal string and panics on malformed input.
func Dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// MakeID generates a UUID string for use in tests.
//
// Example usage:
//
//	id := testutil.MakeID()
//	// Returns: "550e8400-e29b-41d4-a716-446655440000"
func MakeID() string {
	return uuid.New().String()
}

// MakeSymbol generates a stock ticker symbol for testing.
//
// Example usage:
//
//	symbol := testutil.MakeSymbol("AAPL")
//	// Returns: "AAPL1A2B"
func MakeSymbol(base string) string {
	if base == "" {
		base = "TEST"
	}
	return base + randomAlphanumeric(4)
}

// MakePortfolioName generates a unique portfolio name for testing.
//
// Example usage:
//
//	name := testutil.MakePortfolioName("MyPortfolio")
//	// Returns: "MyPortfolio ABC123"
func MakePortfolioName(base string) string {
	if base == "" {
		base = "Portfolio"
	}
	return base + " " + randomAlphanumeric(6)
}

// MakeSymbolName generates a unique holding name for testing.
func MakeSymbolName(base string) string {
	if base == "" {
		base = "Symbol"
	}
	return base + " " + randomAlphanumeric(6)
}

// randomAlphanumeric generates a random alphanumeric string of specified length.
func randomAlphanumeric(length int) string {
	const charset = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	result := make([]byte, length)
	for i := range result {
		//nolint:gosec // G404: Using math/rand for test data generation is acceptable
		result[i] = charset[rand.Intn(len(charset))]
	}
	return string(result)
}
