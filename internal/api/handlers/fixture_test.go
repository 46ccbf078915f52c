package handlers_test

import (
	"testing"

	"github.com/ndewijer/Investment-Portfolio-Dashboard/internal/datasource"
	"github.com/ndewijer/Investment-Portfolio-Dashboard/internal/model"
	"github.com/ndewijer/Investment-Portfolio-Dashboard/internal/service"
	"github.com/ndewijer/Investment-Portfolio-Dashboard/internal/testutil"
)

// fixture is a loaded dashboard over a fake source holding two portfolios:
// AAPL in main and BTC in crypto.
type fixture struct {
	src       *testutil.FakeSource
	dashboard *service.DashboardService
	main      model.Portfolio
	crypto    model.Portfolio
	aapl      model.Position
	btc       model.Position
}

func newFixture(t *testing.T) fixture {
	t.Helper()

	main := testutil.NewPortfolio().WithName("Main").Model()
	crypto := testutil.NewPortfolio().WithName("Crypto").Model()
	aapl := testutil.NewPosition(main.ID).
		WithSymbol("AAPL").
		WithName("Apple Inc.").
		WithQuantity("50").
		WithAverageCost("180.25").
		WithCurrentPrice("195.30").
		Model()
	btc := testutil.NewPosition(crypto.ID).
		WithSymbol("BTC").
		WithName("Bitcoin").
		WithAsset(model.Crypto{}).
		WithQuantity("0.5").
		WithAverageCost("48000").
		WithCurrentPrice("45200").
		Model()

	src := testutil.NewFakeSource(datasource.Dataset{
		Portfolios: []model.Portfolio{main, crypto},
		Positions:  []model.Position{aapl, btc},
		Performance: []model.PerformancePoint{
			{Date: "2024-07-01", Value: testutil.Dec("31000"), ProfitLoss: testutil.Dec("-2000")},
			{Date: "2024-07-31", Value: testutil.Dec("32365"), ProfitLoss: testutil.Dec("-647.50")},
		},
	})

	return fixture{
		src:       src,
		dashboard: testutil.NewLoadedDashboardService(t, src),
		main:      main,
		crypto:    crypto,
		aapl:      aapl,
		btc:       btc,
	}
}
