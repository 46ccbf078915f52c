package model

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ndewijer/Investment-Portfolio-Dashboard/internal/apperrors"
)

func TestParseAssetClass(t *testing.T) {
	tests := []struct {
		in   string
		want AssetClass
	}{
		{"equity", AssetClassEquity},
		{"Stock", AssetClassEquity},
		{" crypto ", AssetClassCrypto},
		{"ETF", AssetClassFund},
		{"fund", AssetClassFund},
		{"bond", AssetClassBond},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseAssetClass(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := ParseAssetClass("commodity")
	assert.ErrorIs(t, err, apperrors.ErrUnknownAssetClass)
}

func TestAssetValidate(t *testing.T) {
	ratio := decimal.RequireFromString("0.2")
	tooHigh := decimal.RequireFromString("101")

	assert.Contains(t, Equity{Sector: "  "}.Validate(), "sector")
	assert.Empty(t, Equity{Sector: "Technology"}.Validate())
	assert.Empty(t, Crypto{}.Validate())
	assert.Empty(t, Fund{ExpenseRatio: &ratio}.Validate())
	assert.Contains(t, Fund{ExpenseRatio: &tooHigh}.Validate(), "expense_ratio")
	assert.Empty(t, Bond{MaturityDate: "2030-06-30"}.Validate())

	errs := Bond{MaturityDate: "30/06/2030", Yield: &tooHigh}.Validate()
	assert.Contains(t, errs, "maturity_date")
	assert.Contains(t, errs, "yield")
}

func TestNewAsset_DropsForeignAttributes(t *testing.T) {
	ratio := decimal.RequireFromString("0.07")
	attrs := AssetAttributes{Sector: " Energy ", ExpenseRatio: &ratio}

	a, err := NewAsset(AssetClassEquity, attrs)
	require.NoError(t, err)
	assert.Equal(t, Equity{Sector: "Energy"}, a)
	assert.Equal(t, AssetAttributes{Sector: "Energy"}, Attributes(a))

	a, err = NewAsset(AssetClassCrypto, attrs)
	require.NoError(t, err)
	assert.Equal(t, AssetAttributes{}, Attributes(a))

	_, err = NewAsset("gold", attrs)
	assert.ErrorIs(t, err, apperrors.ErrUnknownAssetClass)
}
