package service_test

import (
	"errors"
	"testing"
	"time"

	"github.com/ndewijer/Investment-Portfolio-Dashboard/internal/apperrors"
	"github.com/ndewijer/Investment-Portfolio-Dashboard/internal/datasource"
	"github.com/ndewijer/Investment-Portfolio-Dashboard/internal/datasource/mock"
	"github.com/ndewijer/Investment-Portfolio-Dashboard/internal/model"
	"github.com/ndewijer/Investment-Portfolio-Dashboard/internal/service"
	"github.com/ndewijer/Investment-Portfolio-Dashboard/internal/testutil"
)

// smallDataset is two portfolios: one AAPL equity position and one BTC
// crypto position.
//
//	AAPL 50 × 195.30 = 9765.00, cost 9012.50
//	BTC 0.5 × 45200 = 22600.00, cost 24000.00
func smallDataset() (datasource.Dataset, model.Position, model.Position) {
	main := testutil.NewPortfolio().WithName("Main").Model()
	crypto := testutil.NewPortfolio().WithName("Crypto").Model()

	aapl := testutil.NewPosition(main.ID).
		WithSymbol("AAPL").
		WithQuantity("50").
		WithAverageCost("180.25").
		WithCurrentPrice("195.30").
		Model()
	btc := testutil.NewPosition(crypto.ID).
		WithSymbol("BTC").
		WithAsset(model.Crypto{}).
		WithQuantity("0.5").
		WithAverageCost("48000").
		WithCurrentPrice("45200").
		Model()

	return datasource.Dataset{
		Portfolios: []model.Portfolio{main, crypto},
		Positions:  []model.Position{aapl, btc},
		Performance: []model.PerformancePoint{
			{Date: "2024-07-01", Value: testutil.Dec("31000"), ProfitLoss: testutil.Dec("-2000")},
			{Date: "2024-07-31", Value: testutil.Dec("32365"), ProfitLoss: testutil.Dec("-647.50")},
		},
	}, aapl, btc
}

// TestDashboardService_Load tests a successful load.
//
// WHY: The first load seeds the store and every aggregate the dashboard
// shows. Portfolio aggregates must be rebuilt from positions rather than
// taken from the source.
func TestDashboardService_Load(t *testing.T) {
	ds, aapl, _ := smallDataset()
	ds.Portfolios[0].TotalValue = testutil.Dec("999999")
	src := testutil.NewFakeSource(ds)
	svc := testutil.NewTestDashboardService(t, src)

	result, err := svc.Load(t.Context())
	if err != nil {
		t.Fatalf("Load() returned unexpected error: %v", err)
	}
	if result.Degraded || result.Stale {
		t.Errorf("Expected clean load, got %+v", result)
	}
	if result.Portfolios != 2 || result.Positions != 2 {
		t.Errorf("Expected 2 portfolios and 2 positions, got %d and %d", result.Portfolios, result.Positions)
	}

	view := svc.View()
	if !view.Portfolios[0].TotalValue.Equal(aapl.MarketValue) {
		t.Errorf("Expected recomputed total value %s, got %s", aapl.MarketValue, view.Portfolios[0].TotalValue)
	}
	if !view.Summary.TotalValue.Equal(testutil.Dec("32365")) {
		t.Errorf("Expected total value 32365, got %s", view.Summary.TotalValue)
	}
	if !view.Summary.TotalInvested.Equal(testutil.Dec("33012.50")) {
		t.Errorf("Expected total invested 33012.50, got %s", view.Summary.TotalInvested)
	}
	if view.Summary.ActivePositions != 2 {
		t.Errorf("Expected 2 active positions, got %d", view.Summary.ActivePositions)
	}
	if len(view.Performance) != 2 {
		t.Errorf("Expected 2 performance points, got %d", len(view.Performance))
	}
	if view.LastLoad.IsZero() {
		t.Error("Expected last load time to be set")
	}
}

// TestDashboardService_Allocations tests the two allocation views.
//
// WHY: The dashboard shows asset-class allocation of every position and
// sector allocation of equities only.
func TestDashboardService_Allocations(t *testing.T) {
	ds, _, _ := smallDataset()
	svc := testutil.NewLoadedDashboardService(t, testutil.NewFakeSource(ds))

	view := svc.View()
	if len(view.AssetAllocation) != 2 {
		t.Fatalf("Expected 2 asset class buckets, got %d", len(view.AssetAllocation))
	}
	if view.AssetAllocation[0].Key != "equity" || view.AssetAllocation[1].Key != "crypto" {
		t.Errorf("Expected equity, crypto, got %s, %s", view.AssetAllocation[0].Key, view.AssetAllocation[1].Key)
	}
	if len(view.SectorAllocation) != 1 || view.SectorAllocation[0].Key != "Technology" {
		t.Errorf("Expected only the Technology sector, got %+v", view.SectorAllocation)
	}

	t.Run("filters by asset class", func(t *testing.T) {
		buckets, err := svc.Allocation(model.GroupBySector, "crypto")
		if err != nil {
			t.Fatalf("Allocation() returned unexpected error: %v", err)
		}
		if len(buckets) != 1 || buckets[0].Key != "crypto" {
			t.Errorf("Expected a single crypto bucket, got %+v", buckets)
		}
	})

	t.Run("rejects unknown asset class", func(t *testing.T) {
		_, err := svc.Allocation(model.GroupBySector, "gold")
		if !errors.Is(err, apperrors.ErrUnknownAssetClass) {
			t.Errorf("Expected ErrUnknownAssetClass, got %v", err)
		}
	})
}

// TestDashboardService_Fallback tests loading from a failing source.
//
// WHY: A dashboard with an unreachable source must still show data. The
// canned dataset is served and the degraded flag tells clients so; the flag
// clears once the source answers again.
func TestDashboardService_Fallback(t *testing.T) {
	ds, _, _ := smallDataset()
	src := testutil.NewFakeSource(ds)
	src.FailReads(errors.New("connection refused"))
	svc := testutil.NewTestDashboardService(t, src)

	result, err := svc.Load(t.Context())
	if err != nil {
		t.Fatalf("Load() returned unexpected error: %v", err)
	}
	if !result.Degraded {
		t.Error("Expected degraded load")
	}
	if result.Error == "" {
		t.Error("Expected the source error to be reported")
	}
	if !svc.State().Degraded {
		t.Error("Expected degraded state")
	}

	view := svc.View()
	if len(view.Positions) != len(mock.Dataset().Positions) {
		t.Errorf("Expected %d fallback positions, got %d", len(mock.Dataset().Positions), len(view.Positions))
	}
	if len(view.Performance) != 15 {
		t.Errorf("Expected 15 fallback performance points, got %d", len(view.Performance))
	}

	src.FailReads(nil)
	result, err = svc.Load(t.Context())
	if err != nil {
		t.Fatalf("Load() returned unexpected error: %v", err)
	}
	if result.Degraded || svc.State().Degraded {
		t.Error("Expected degraded flag to clear after a successful load")
	}
	if got := len(svc.View().Positions); got != 2 {
		t.Errorf("Expected 2 source positions, got %d", got)
	}
}

// TestDashboardService_StaleLoad tests the sequence check.
//
// WHY: A load issued before a mutation must not overwrite the mutation when
// it resolves afterwards, or a user edit would silently disappear.
func TestDashboardService_StaleLoad(t *testing.T) {
	ds, aapl, btc := smallDataset()
	src := testutil.NewFakeSource(ds)
	svc := testutil.NewLoadedDashboardService(t, src)

	// The source now reports different data; the load fetching it is
	// overtaken by an edit.
	changed := aapl
	changed.Quantity = testutil.Dec("999")
	changed.Recompute()
	src.SetPositions(changed, btc)

	newQty := testutil.Dec("60")
	fired := false
	src.OnListPositions = func() {
		if fired {
			return
		}
		fired = true
		if _, err := svc.EditPosition(t.Context(), aapl.ID, model.PositionEdit{Quantity: &newQty}); err != nil {
			t.Errorf("EditPosition() returned unexpected error: %v", err)
		}
	}

	result, err := svc.Load(t.Context())
	if !errors.Is(err, apperrors.ErrStaleLoad) {
		t.Fatalf("Expected ErrStaleLoad, got %v", err)
	}
	if !result.Stale {
		t.Error("Expected result to be marked stale")
	}

	got, err := svc.Position(aapl.ID)
	if err != nil {
		t.Fatalf("Position() returned unexpected error: %v", err)
	}
	if !got.Quantity.Equal(newQty) {
		t.Errorf("Expected edited quantity 60 to survive, got %s", got.Quantity)
	}
	if !got.MarketValue.Equal(testutil.Dec("11718")) {
		t.Errorf("Expected market value 11718.00, got %s", got.MarketValue)
	}

	// The next load is not overtaken and wins.
	src.OnListPositions = nil
	if _, err := svc.Load(t.Context()); err != nil {
		t.Fatalf("Load() returned unexpected error: %v", err)
	}
	got, _ = svc.Position(aapl.ID)
	if !got.Quantity.Equal(testutil.Dec("999")) {
		t.Errorf("Expected reloaded quantity 999, got %s", got.Quantity)
	}
}

// TestDashboardService_CreatePosition tests adding positions.
//
// WHY: New positions are built by the reconciler and written to the source
// before they reach the store. Any rejection must leave the store untouched.
func TestDashboardService_CreatePosition(t *testing.T) {
	draft := func(portfolioID string) model.PositionDraft {
		return model.PositionDraft{
			PortfolioID: portfolioID,
			Symbol:      "msft",
			Name:        "Microsoft Corporation",
			AssetClass:  "stock",
			Quantity:    testutil.Dec("30"),
			AverageCost: testutil.Dec("420.80"),
			AssetAttributes: model.AssetAttributes{
				Sector: "Technology",
			},
		}
	}

	t.Run("defaults to the first portfolio", func(t *testing.T) {
		ds, _, _ := smallDataset()
		src := testutil.NewFakeSource(ds)
		svc := testutil.NewLoadedDashboardService(t, src)

		p, err := svc.CreatePosition(t.Context(), draft(""))
		if err != nil {
			t.Fatalf("CreatePosition() returned unexpected error: %v", err)
		}
		if p.PortfolioID != ds.Portfolios[0].ID {
			t.Errorf("Expected portfolio %s, got %s", ds.Portfolios[0].ID, p.PortfolioID)
		}
		if p.Symbol != "MSFT" {
			t.Errorf("Expected symbol MSFT, got %s", p.Symbol)
		}
		if !p.ProfitLoss.IsZero() {
			t.Errorf("Expected zero profit/loss, got %s", p.ProfitLoss)
		}

		view := svc.View()
		if view.Summary.ActivePositions != 3 {
			t.Errorf("Expected 3 positions, got %d", view.Summary.ActivePositions)
		}
		want := testutil.Dec("9765").Add(testutil.Dec("12624"))
		if !view.Portfolios[0].TotalValue.Equal(want) {
			t.Errorf("Expected portfolio value %s, got %s", want, view.Portfolios[0].TotalValue)
		}
	})

	t.Run("validation failure leaves store untouched", func(t *testing.T) {
		ds, _, _ := smallDataset()
		svc := testutil.NewLoadedDashboardService(t, testutil.NewFakeSource(ds))
		before := svc.State().Generation

		bad := draft("")
		bad.Quantity = testutil.Dec("0")
		_, err := svc.CreatePosition(t.Context(), bad)
		if !errors.Is(err, apperrors.ErrValidation) {
			t.Fatalf("Expected ErrValidation, got %v", err)
		}
		if got := len(svc.View().Positions); got != 2 {
			t.Errorf("Expected 2 positions, got %d", got)
		}
		if svc.State().Generation != before {
			t.Error("Expected generation to stay unchanged")
		}
	})

	t.Run("unknown portfolio", func(t *testing.T) {
		ds, _, _ := smallDataset()
		svc := testutil.NewLoadedDashboardService(t, testutil.NewFakeSource(ds))

		_, err := svc.CreatePosition(t.Context(), draft(testutil.MakeID()))
		if !errors.Is(err, apperrors.ErrPortfolioNotFound) {
			t.Errorf("Expected ErrPortfolioNotFound, got %v", err)
		}
	})

	t.Run("source failure leaves store untouched", func(t *testing.T) {
		ds, _, _ := smallDataset()
		src := testutil.NewFakeSource(ds)
		svc := testutil.NewLoadedDashboardService(t, src)
		src.FailWrites(errors.New("disk full"))

		_, err := svc.CreatePosition(t.Context(), draft(""))
		if !errors.Is(err, apperrors.ErrDataSource) {
			t.Fatalf("Expected ErrDataSource, got %v", err)
		}
		if got := len(svc.View().Positions); got != 2 {
			t.Errorf("Expected 2 positions, got %d", got)
		}
	})
}

// TestDashboardService_EditPosition tests editing a position.
//
// WHY: Edits recompute derived fields against the existing price and are
// persisted through the source when it can write.
func TestDashboardService_EditPosition(t *testing.T) {
	ds, aapl, _ := smallDataset()
	src := testutil.NewFakeSource(ds)
	svc := testutil.NewLoadedDashboardService(t, src)

	qty := testutil.Dec("60")
	p, err := svc.EditPosition(t.Context(), aapl.ID, model.PositionEdit{Quantity: &qty})
	if err != nil {
		t.Fatalf("EditPosition() returned unexpected error: %v", err)
	}

	if !p.MarketValue.Equal(testutil.Dec("11718")) {
		t.Errorf("Expected market value 11718.00, got %s", p.MarketValue)
	}
	if !p.ProfitLoss.Equal(testutil.Dec("903")) {
		t.Errorf("Expected profit/loss 903.00, got %s", p.ProfitLoss)
	}
	if got := p.ProfitLossPercentage.StringFixed(2); got != "8.35" {
		t.Errorf("Expected profit/loss 8.35%%, got %s", got)
	}
	if len(src.Updated) != 1 || src.Updated[0].ID != aapl.ID {
		t.Errorf("Expected the edit to be written through, got %+v", src.Updated)
	}

	if got := svc.View().Portfolios[0].TotalValue; !got.Equal(testutil.Dec("11718")) {
		t.Errorf("Expected portfolio value 11718, got %s", got)
	}

	t.Run("rejects non-positive quantity", func(t *testing.T) {
		zero := testutil.Dec("0")
		_, err := svc.EditPosition(t.Context(), aapl.ID, model.PositionEdit{Quantity: &zero})
		if !errors.Is(err, apperrors.ErrValidation) {
			t.Errorf("Expected ErrValidation, got %v", err)
		}
		got, _ := svc.Position(aapl.ID)
		if !got.Quantity.Equal(qty) {
			t.Errorf("Expected quantity to stay 60, got %s", got.Quantity)
		}
	})

	t.Run("unknown position", func(t *testing.T) {
		_, err := svc.EditPosition(t.Context(), testutil.MakeID(), model.PositionEdit{Quantity: &qty})
		if !errors.Is(err, apperrors.ErrPositionNotFound) {
			t.Errorf("Expected ErrPositionNotFound, got %v", err)
		}
	})
}

// TestDashboardService_DegradedMutations tests edits while degraded.
//
// WHY: While the fallback dataset is shown, edits apply in memory only; the
// canned ids do not exist in the real source.
func TestDashboardService_DegradedMutations(t *testing.T) {
	ds, _, _ := smallDataset()
	src := testutil.NewFakeSource(ds)
	src.FailReads(errors.New("timeout"))
	svc := testutil.NewLoadedDashboardService(t, src)

	canned := svc.View().Positions[0]
	qty := canned.Quantity.Add(testutil.Dec("1"))
	if _, err := svc.EditPosition(t.Context(), canned.ID, model.PositionEdit{Quantity: &qty}); err != nil {
		t.Fatalf("EditPosition() returned unexpected error: %v", err)
	}
	if len(src.Updated) != 0 {
		t.Errorf("Expected no write-through while degraded, got %d", len(src.Updated))
	}

	p, err := svc.CreatePortfolio(t.Context(), model.PortfolioDraft{Name: "  Offline  "})
	if err != nil {
		t.Fatalf("CreatePortfolio() returned unexpected error: %v", err)
	}
	if p.ID == "" || p.Name != "Offline" {
		t.Errorf("Expected an in-memory portfolio named Offline, got %+v", p)
	}
}

// TestDashboardService_DeletePosition tests the two-step delete.
//
// WHY: Deleting is irreversible, so it only happens with a token that was
// issued for the same position.
func TestDashboardService_DeletePosition(t *testing.T) {
	ds, aapl, btc := smallDataset()
	src := testutil.NewFakeSource(ds)
	svc := testutil.NewLoadedDashboardService(t, src)

	t.Run("requires a token", func(t *testing.T) {
		err := svc.DeletePosition(t.Context(), aapl.ID, "")
		if !errors.Is(err, apperrors.ErrConfirmationRequired) {
			t.Errorf("Expected ErrConfirmationRequired, got %v", err)
		}
		if len(svc.View().Positions) != 2 {
			t.Error("Expected store to be unchanged")
		}
	})

	t.Run("rejects a token for another position", func(t *testing.T) {
		tok, err := svc.RequestDelete(btc.ID)
		if err != nil {
			t.Fatalf("RequestDelete() returned unexpected error: %v", err)
		}
		err = svc.DeletePosition(t.Context(), aapl.ID, tok)
		if !errors.Is(err, apperrors.ErrInvalidConfirmation) {
			t.Errorf("Expected ErrInvalidConfirmation, got %v", err)
		}
		if len(svc.View().Positions) != 2 {
			t.Error("Expected store to be unchanged")
		}
	})

	t.Run("deletes with a valid token", func(t *testing.T) {
		tok, err := svc.RequestDelete(aapl.ID)
		if err != nil {
			t.Fatalf("RequestDelete() returned unexpected error: %v", err)
		}
		if err := svc.DeletePosition(t.Context(), aapl.ID, tok); err != nil {
			t.Fatalf("DeletePosition() returned unexpected error: %v", err)
		}
		if _, err := svc.Position(aapl.ID); !errors.Is(err, apperrors.ErrPositionNotFound) {
			t.Errorf("Expected position to be gone, got %v", err)
		}
		if len(src.Deleted) != 1 || src.Deleted[0] != aapl.ID {
			t.Errorf("Expected delete to be written through, got %v", src.Deleted)
		}
		if !svc.View().Portfolios[0].TotalValue.IsZero() {
			t.Error("Expected the emptied portfolio to have zero value")
		}
	})

	t.Run("unknown position", func(t *testing.T) {
		_, err := svc.RequestDelete(testutil.MakeID())
		if !errors.Is(err, apperrors.ErrPositionNotFound) {
			t.Errorf("Expected ErrPositionNotFound, got %v", err)
		}
	})
}

// TestDashboardService_ApplyQuotesPartialWriteFailure tests a price refresh
// whose write-through fails on the second position.
//
// WHY: A price refresh either commits every price or none. A failure after
// some source writes must leave the store, the portfolio aggregates and the
// generation untouched, and a retry must commit everything at once.
func TestDashboardService_ApplyQuotesPartialWriteFailure(t *testing.T) {
	ds, aapl, _ := smallDataset()
	src := testutil.NewFakeSource(ds)
	svc := testutil.NewLoadedDashboardService(t, src)

	notified := 0
	svc.Subscribe(func(service.View) { notified++ })
	before := svc.State().Generation

	quotes := []model.MarketQuote{
		{Symbol: "AAPL", Price: testutil.Dec("200")},
		{Symbol: "BTC", Price: testutil.Dec("50000")},
	}

	src.FailWritesAfter(1, errors.New("disk full"))
	n, err := svc.ApplyQuotes(t.Context(), quotes)
	if !errors.Is(err, apperrors.ErrDataSource) {
		t.Fatalf("Expected ErrDataSource, got %v", err)
	}
	if n != 0 {
		t.Errorf("Expected 0 applied quotes, got %d", n)
	}

	got, err := svc.Position(aapl.ID)
	if err != nil {
		t.Fatalf("Position() returned unexpected error: %v", err)
	}
	if !got.CurrentPrice.Equal(testutil.Dec("195.30")) {
		t.Errorf("Expected AAPL price to stay 195.30, got %s", got.CurrentPrice)
	}
	if v := svc.Portfolios()[0].TotalValue; !v.Equal(testutil.Dec("9765")) {
		t.Errorf("Expected Main total value 9765, got %s", v)
	}
	if g := svc.State().Generation; g != before {
		t.Errorf("Expected generation %d, got %d", before, g)
	}
	if notified != 0 {
		t.Errorf("Expected no notification, got %d", notified)
	}

	src.FailWritesAfter(2, errors.New("disk full"))
	n, err = svc.ApplyQuotes(t.Context(), quotes)
	if err != nil {
		t.Fatalf("ApplyQuotes() returned unexpected error: %v", err)
	}
	if n != 2 {
		t.Errorf("Expected 2 applied quotes, got %d", n)
	}
	if v := svc.Portfolios()[0].TotalValue; !v.Equal(testutil.Dec("10000")) {
		t.Errorf("Expected Main total value 10000, got %s", v)
	}
	if g := svc.State().Generation; g != before+1 {
		t.Errorf("Expected generation %d, got %d", before+1, g)
	}
	if notified != 1 {
		t.Errorf("Expected 1 notification, got %d", notified)
	}
}

// TestDashboardService_Subscribe tests change notifications.
//
// WHY: Observers are told synchronously about every accepted mutation and
// load with the recomputed view, and never about rejected ones.
func TestDashboardService_Subscribe(t *testing.T) {
	ds, aapl, _ := smallDataset()
	svc := testutil.NewLoadedDashboardService(t, testutil.NewFakeSource(ds))

	var views []service.View
	unsubscribe := svc.Subscribe(func(v service.View) {
		views = append(views, v)
	})

	qty := testutil.Dec("60")
	if _, err := svc.EditPosition(t.Context(), aapl.ID, model.PositionEdit{Quantity: &qty}); err != nil {
		t.Fatalf("EditPosition() returned unexpected error: %v", err)
	}
	zero := testutil.Dec("0")
	_, _ = svc.EditPosition(t.Context(), aapl.ID, model.PositionEdit{Quantity: &zero})

	if len(views) != 1 {
		t.Fatalf("Expected 1 notification, got %d", len(views))
	}
	if !views[0].Positions[0].Quantity.Equal(qty) {
		t.Errorf("Expected notified view to carry the edit, got %s", views[0].Positions[0].Quantity)
	}

	if _, err := svc.Load(t.Context()); err != nil {
		t.Fatalf("Load() returned unexpected error: %v", err)
	}
	if len(views) != 2 {
		t.Errorf("Expected 2 notifications after load, got %d", len(views))
	}

	unsubscribe()
	_, _ = svc.Load(t.Context())
	if len(views) != 2 {
		t.Errorf("Expected no notification after unsubscribe, got %d", len(views))
	}
}

// TestDashboardService_Performance tests performance lookups.
//
// WHY: While degraded the history comes from the fallback dataset, which
// only covers the first portfolio.
func TestDashboardService_Performance(t *testing.T) {
	t.Run("unknown portfolio", func(t *testing.T) {
		ds, _, _ := smallDataset()
		svc := testutil.NewLoadedDashboardService(t, testutil.NewFakeSource(ds))

		_, err := svc.Performance(t.Context(), testutil.MakeID(), model.PeriodAll)
		if !errors.Is(err, apperrors.ErrPortfolioNotFound) {
			t.Errorf("Expected ErrPortfolioNotFound, got %v", err)
		}
	})

	t.Run("degraded", func(t *testing.T) {
		ds, _, _ := smallDataset()
		src := testutil.NewFakeSource(ds)
		src.FailReads(errors.New("timeout"))
		svc := testutil.NewLoadedDashboardService(t, src)

		points, err := svc.Performance(t.Context(), mock.MainPortfolioID, model.PeriodMonth)
		if err != nil {
			t.Fatalf("Performance() returned unexpected error: %v", err)
		}
		if len(points) != 3 {
			t.Errorf("Expected 3 points in the last month of fallback history, got %d", len(points))
		}

		points, err = svc.Performance(t.Context(), mock.CryptoPortfolioID, model.PeriodAll)
		if err != nil {
			t.Fatalf("Performance() returned unexpected error: %v", err)
		}
		if len(points) != 0 {
			t.Errorf("Expected no history for the second portfolio, got %d", len(points))
		}
	})
}

// TestDashboardService_RecordSnapshots tests snapshot recording.
//
// WHY: The scheduled snapshot job builds the performance history of sources
// that keep one.
func TestDashboardService_RecordSnapshots(t *testing.T) {
	ds, _, _ := smallDataset()
	src := testutil.NewFakeSource(ds)
	svc := testutil.NewLoadedDashboardService(t, src)

	n, err := svc.RecordSnapshots(t.Context())
	if err != nil {
		t.Fatalf("RecordSnapshots() returned unexpected error: %v", err)
	}
	if n != 2 {
		t.Errorf("Expected 2 snapshots, got %d", n)
	}

	snaps := src.Snapshots[ds.Portfolios[0].ID]
	if len(snaps) != 1 {
		t.Fatalf("Expected 1 snapshot for the first portfolio, got %d", len(snaps))
	}
	if snaps[0].Date != time.Now().UTC().Format("2006-01-02") {
		t.Errorf("Expected snapshot dated today, got %s", snaps[0].Date)
	}
	if !snaps[0].Value.Equal(testutil.Dec("9765")) {
		t.Errorf("Expected snapshot value 9765, got %s", snaps[0].Value)
	}
}
