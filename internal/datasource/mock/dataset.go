package mock

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/ndewijer/Investment-Portfolio-Dashboard/internal/datasource"
	"github.com/ndewijer/Investment-Portfolio-Dashboard/internal/model"
)

// Fixed ids of the canned portfolios.
const (
	MainPortfolioID   = "5a0c6a4e-1f0b-4c3e-9a51-000000000001"
	CryptoPortfolioID = "5a0c6a4e-1f0b-4c3e-9a51-000000000002"
)

// HistoryEnd is the date of the last canned performance point. Period
// filters over the canned history end here.
var HistoryEnd = time.Date(2024, time.July, 31, 0, 0, 0, 0, time.UTC)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func ts(s string) time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		panic(err)
	}
	return t
}

type cannedPosition struct {
	id, portfolioID, symbol, name string
	asset                         model.Asset
	quantity, cost, price         string
}

var cannedPositions = []cannedPosition{
	{"7d3e2f10-2a4b-4c5d-8e6f-000000000001", MainPortfolioID, "AAPL", "Apple Inc.", model.Equity{Sector: "Technology"}, "50", "180.25", "195.30"},
	{"7d3e2f10-2a4b-4c5d-8e6f-000000000002", MainPortfolioID, "MSFT", "Microsoft Corporation", model.Equity{Sector: "Technology"}, "30", "420.80", "445.20"},
	{"7d3e2f10-2a4b-4c5d-8e6f-000000000003", MainPortfolioID, "GOOGL", "Alphabet Inc.", model.Equity{Sector: "Technology"}, "25", "2650.00", "2725.50"},
	{"7d3e2f10-2a4b-4c5d-8e6f-000000000004", MainPortfolioID, "TSLA", "Tesla, Inc.", model.Equity{Sector: "Consumer Cyclical"}, "15", "845.30", "780.25"},
	{"7d3e2f10-2a4b-4c5d-8e6f-000000000005", MainPortfolioID, "NVDA", "NVIDIA Corporation", model.Equity{Sector: "Technology"}, "20", "520.15", "595.80"},
	{"7d3e2f10-2a4b-4c5d-8e6f-000000000006", CryptoPortfolioID, "BTC", "Bitcoin", model.Crypto{}, "0.5", "48000.00", "45200.00"},
	{"7d3e2f10-2a4b-4c5d-8e6f-000000000007", CryptoPortfolioID, "ETH", "Ethereum", model.Crypto{}, "8", "3200.00", "2950.00"},
}

var cannedPerformance = [][3]string{
	{"2024-01-01", "145000.00", "0"},
	{"2024-01-15", "148200.00", "3200.00"},
	{"2024-02-01", "151800.00", "6800.00"},
	{"2024-02-15", "149600.00", "4600.00"},
	{"2024-03-01", "153400.00", "8400.00"},
	{"2024-03-15", "156200.00", "11200.00"},
	{"2024-04-01", "154800.00", "9800.00"},
	{"2024-04-15", "158600.00", "13600.00"},
	{"2024-05-01", "155900.00", "10900.00"},
	{"2024-05-15", "159300.00", "14300.00"},
	{"2024-06-01", "157200.00", "12200.00"},
	{"2024-06-15", "161800.00", "16800.00"},
	{"2024-07-01", "158400.00", "13400.00"},
	{"2024-07-15", "162900.00", "17900.00"},
	{"2024-07-31", "156750.80", "11750.80"},
}

func portfolios() []model.Portfolio {
	return []model.Portfolio{
		{
			ID:                   MainPortfolioID,
			Name:                 "Portafoglio Principale",
			TotalValue:           d("156750.80"),
			InvestedAmount:       d("145000.00"),
			ProfitLoss:           d("11750.80"),
			ProfitLossPercentage: d("8.1"),
			CreatedAt:            ts("2024-01-15T00:00:00Z"),
			UpdatedAt:            ts("2024-07-31T12:00:00Z"),
		},
		{
			ID:                   CryptoPortfolioID,
			Name:                 "Portafoglio Crypto",
			TotalValue:           d("23420.15"),
			InvestedAmount:       d("28000.00"),
			ProfitLoss:           d("-4579.85"),
			ProfitLossPercentage: d("-16.4"),
			CreatedAt:            ts("2024-03-10T00:00:00Z"),
			UpdatedAt:            ts("2024-07-31T12:00:00Z"),
		},
	}
}

func positions() []model.Position {
	out := make([]model.Position, 0, len(cannedPositions))
	for _, c := range cannedPositions {
		p := model.Position{
			ID:           c.id,
			PortfolioID:  c.portfolioID,
			Symbol:       c.symbol,
			Name:         c.name,
			Asset:        c.asset,
			Quantity:     d(c.quantity),
			AverageCost:  d(c.cost),
			CurrentPrice: d(c.price),
		}
		p.Recompute()
		out = append(out, p)
	}
	return out
}

func performance() []model.PerformancePoint {
	out := make([]model.PerformancePoint, 0, len(cannedPerformance))
	for _, row := range cannedPerformance {
		out = append(out, model.PerformancePoint{Date: row[0], Value: d(row[1]), ProfitLoss: d(row[2])})
	}
	return out
}

func quotes() []model.MarketQuote {
	capOf := func(s string) *decimal.Decimal {
		v := d(s)
		return &v
	}
	return []model.MarketQuote{
		{Symbol: "AAPL", Price: d("195.30"), Change: d("2.45"), ChangePercentage: d("1.27"), Volume: 45672800, MarketCap: capOf("3024000000000")},
		{Symbol: "MSFT", Price: d("445.20"), Change: d("-1.85"), ChangePercentage: d("-0.41"), Volume: 28934500, MarketCap: capOf("3308000000000")},
		{Symbol: "GOOGL", Price: d("2725.50"), Change: d("15.75"), ChangePercentage: d("0.58"), Volume: 1245600, MarketCap: capOf("1712000000000")},
		{Symbol: "TSLA", Price: d("780.25"), Change: d("-12.80"), ChangePercentage: d("-1.61"), Volume: 42856700, MarketCap: capOf("247000000000")},
		{Symbol: "NVDA", Price: d("595.80"), Change: d("8.90"), ChangePercentage: d("1.52"), Volume: 38294100, MarketCap: capOf("1468000000000")},
	}
}

// Dataset returns a fresh copy of the canned dashboard data. Position
// derived fields are recomputed; portfolio aggregates are the canned ones and
// are expected to be rebuilt by the caller.
func Dataset() datasource.Dataset {
	return datasource.Dataset{
		Portfolios:  portfolios(),
		Positions:   positions(),
		Performance: performance(),
	}
}
