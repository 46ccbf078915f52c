package portfolio

import (
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ndewijer/Investment-Portfolio-Dashboard/internal/apperrors"
	"github.com/ndewijer/Investment-Portfolio-Dashboard/internal/model"
	"github.com/ndewijer/Investment-Portfolio-Dashboard/internal/validation"
)

func ptr[T any](v T) *T {
	return &v
}

func validDraft() model.PositionDraft {
	return model.PositionDraft{
		PortfolioID: "portfolio-1",
		Symbol:      "aapl",
		Name:        "Apple Inc.",
		AssetClass:  "stock",
		Quantity:    dec("50"),
		AverageCost: dec("180.25"),
		AssetAttributes: model.AssetAttributes{
			Sector: "Technology",
		},
	}
}

func fieldErrors(t *testing.T, err error) map[string]string {
	t.Helper()
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrValidation), "expected ErrValidation, got %v", err)
	var verr *validation.Error
	require.True(t, errors.As(err, &verr), "expected *validation.Error, got %T", err)
	return verr.Fields
}

func TestApplyCreate(t *testing.T) {
	p, err := ApplyCreate(validDraft())
	require.NoError(t, err)

	_, parseErr := uuid.Parse(p.ID)
	assert.NoError(t, parseErr, "id should be a UUID")
	assert.Equal(t, "AAPL", p.Symbol)
	assert.Equal(t, "portfolio-1", p.PortfolioID)
	assert.Equal(t, model.AssetClassEquity, p.Class())
	assert.Equal(t, "Technology", p.Sector())
	assert.True(t, p.CurrentPrice.Equal(p.AverageCost))
	assert.True(t, p.MarketValue.Equal(dec("9012.5")))
	assert.True(t, p.ProfitLoss.IsZero())
	assert.True(t, p.ProfitLossPercentage.IsZero())
	assert.True(t, p.IsConsistent())
}

func TestApplyCreate_Rejects(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(d *model.PositionDraft)
		field  string
	}{
		{"zero quantity", func(d *model.PositionDraft) { d.Quantity = decimal.Zero }, "quantity"},
		{"negative quantity", func(d *model.PositionDraft) { d.Quantity = dec("-1") }, "quantity"},
		{"zero average cost", func(d *model.PositionDraft) { d.AverageCost = decimal.Zero }, "average_cost"},
		{"equity without sector", func(d *model.PositionDraft) { d.Sector = "  " }, "sector"},
		{"unknown asset class", func(d *model.PositionDraft) { d.AssetClass = "option" }, "asset_type"},
		{"blank symbol", func(d *model.PositionDraft) { d.Symbol = "" }, "symbol"},
		{"blank name", func(d *model.PositionDraft) { d.Name = "" }, "name"},
		{"missing portfolio", func(d *model.PositionDraft) { d.PortfolioID = "" }, "portfolio_id"},
		{"fund expense ratio over 100", func(d *model.PositionDraft) {
			d.AssetClass = "etf"
			d.ExpenseRatio = ptr(dec("101"))
		}, "expense_ratio"},
		{"bond bad maturity", func(d *model.PositionDraft) {
			d.AssetClass = "bond"
			d.MaturityDate = "31/12/2030"
		}, "maturity_date"},
		{"bond negative yield", func(d *model.PositionDraft) {
			d.AssetClass = "bond"
			d.Yield = ptr(dec("-0.5"))
		}, "yield"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			draft := validDraft()
			tt.mutate(&draft)

			_, err := ApplyCreate(draft)

			fields := fieldErrors(t, err)
			assert.Contains(t, fields, tt.field)
		})
	}
}

func TestApplyCreate_CryptoWithoutSector(t *testing.T) {
	draft := model.PositionDraft{
		PortfolioID: "portfolio-2",
		Symbol:      "btc",
		Name:        "Bitcoin",
		AssetClass:  "crypto",
		Quantity:    dec("0.5"),
		AverageCost: dec("40000"),
	}

	p, err := ApplyCreate(draft)
	require.NoError(t, err)
	assert.Equal(t, model.AssetClassCrypto, p.Class())
	assert.Equal(t, "", p.Sector())
	assert.True(t, p.MarketValue.Equal(dec("20000")))
}

func TestApplyCreate_DropsForeignAttributes(t *testing.T) {
	draft := validDraft()
	draft.AssetClass = "fund"
	draft.ExpenseRatio = ptr(dec("0.03"))

	p, err := ApplyCreate(draft)
	require.NoError(t, err)

	fund, ok := p.Asset.(model.Fund)
	require.True(t, ok)
	assert.True(t, fund.ExpenseRatio.Equal(dec("0.03")))
	assert.Equal(t, "", p.Sector(), "sector only applies to equities")
}

func existingAAPL() model.Position {
	return priced("aapl-id", "portfolio-1", model.Equity{Sector: "Technology"}, "50", "180.25", "195.30")
}

func TestApplyEdit_QuantityScenario(t *testing.T) {
	existing := existingAAPL()

	updated, err := ApplyEdit(existing, model.PositionEdit{Quantity: ptr(dec("60"))})
	require.NoError(t, err)

	assert.Equal(t, "11718.00", updated.MarketValue.StringFixed(2))
	assert.Equal(t, "903.00", updated.ProfitLoss.StringFixed(2))
	assert.Equal(t, "8.35", updated.ProfitLossPercentage.StringFixed(2))
	assert.True(t, updated.IsConsistent())
	assert.True(t, updated.CurrentPrice.Equal(existing.CurrentPrice), "current price is not editable")
}

func TestApplyEdit_QuantityDelta(t *testing.T) {
	existing := existingAAPL()

	for _, q := range []string{"1", "49.5", "50", "75.125", "1000"} {
		updated, err := ApplyEdit(existing, model.PositionEdit{Quantity: ptr(dec(q))})
		require.NoError(t, err)

		delta := dec(q).Sub(existing.Quantity).Mul(existing.CurrentPrice)
		assert.True(t, updated.MarketValue.Sub(existing.MarketValue).Equal(delta), "quantity %s", q)
	}
}

func TestApplyEdit_AverageCost(t *testing.T) {
	existing := existingAAPL()

	updated, err := ApplyEdit(existing, model.PositionEdit{AverageCost: ptr(dec("195.30"))})
	require.NoError(t, err)

	assert.True(t, updated.MarketValue.Equal(existing.MarketValue))
	assert.True(t, updated.ProfitLoss.IsZero())
	assert.True(t, updated.IsConsistent())
}

func TestApplyEdit_Sector(t *testing.T) {
	existing := existingAAPL()

	updated, err := ApplyEdit(existing, model.PositionEdit{Sector: ptr("Consumer Electronics")})
	require.NoError(t, err)
	assert.Equal(t, "Consumer Electronics", updated.Sector())

	updated, err = ApplyEdit(existing, model.PositionEdit{Sector: ptr(" Consumer Electronics ")})
	require.NoError(t, err)
	assert.Equal(t, " Consumer Electronics ", updated.Sector(), "sector is stored as given")

	updated, err = ApplyEdit(existing, model.PositionEdit{Sector: ptr("  ")})
	assert.Contains(t, fieldErrors(t, err), "sector")
	assert.Equal(t, "Technology", updated.Sector(), "rejected edit returns the existing position")
}

func TestApplyEdit_SectorOnCrypto(t *testing.T) {
	existing := priced("btc-id", "portfolio-2", model.Crypto{}, "0.5", "40000", "45200")

	_, err := ApplyEdit(existing, model.PositionEdit{Sector: ptr("Currency")})

	fields := fieldErrors(t, err)
	assert.Contains(t, fields, "sector")
}

func TestApplyEdit_Rejects(t *testing.T) {
	existing := existingAAPL()

	tests := []struct {
		name  string
		edit  model.PositionEdit
		field string
	}{
		{"zero quantity", model.PositionEdit{Quantity: ptr(decimal.Zero)}, "quantity"},
		{"negative quantity", model.PositionEdit{Quantity: ptr(dec("-5"))}, "quantity"},
		{"zero average cost", model.PositionEdit{AverageCost: ptr(decimal.Zero)}, "average_cost"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ApplyEdit(existing, tt.edit)

			fields := fieldErrors(t, err)
			assert.Contains(t, fields, tt.field)
			assert.True(t, got.Quantity.Equal(existing.Quantity), "rejected edit returns the existing record")
		})
	}
}

func TestApplyPrice(t *testing.T) {
	existing := existingAAPL()

	updated, err := ApplyPrice(existing, dec("200"))
	require.NoError(t, err)
	assert.True(t, updated.MarketValue.Equal(dec("10000")))
	assert.True(t, updated.ProfitLoss.Equal(dec("987.5")))
	assert.True(t, updated.IsConsistent())

	_, err = ApplyPrice(existing, decimal.Zero)
	fields := fieldErrors(t, err)
	assert.Contains(t, fields, "current_price")
}
