package model

import (
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"
)

func init() {
	// Amounts travel as JSON numbers, matching the dashboard REST contract.
	decimal.MarshalJSONWithoutQuotes = true
}

// Position is a single holding of one symbol within one portfolio.
//
// MarketValue, ProfitLoss and ProfitLossPercentage are derived from
// Quantity, AverageCost and CurrentPrice. They are only ever written by
// Recompute, never independently.
type Position struct {
	ID           string
	PortfolioID  string
	Symbol       string
	Name         string
	Asset        Asset
	Quantity     decimal.Decimal
	AverageCost  decimal.Decimal
	CurrentPrice decimal.Decimal

	MarketValue          decimal.Decimal
	ProfitLoss           decimal.Decimal
	ProfitLossPercentage decimal.Decimal
}

// Class returns the asset class of the position, or "" when no asset is set.
func (p Position) Class() AssetClass {
	if p.Asset == nil {
		return ""
	}
	return p.Asset.Class()
}

// Sector returns the sector label. Only equities carry one.
func (p Position) Sector() string {
	if e, ok := p.Asset.(Equity); ok {
		return e.Sector
	}
	return ""
}

// CostBasis is quantity × average cost.
func (p Position) CostBasis() decimal.Decimal {
	return p.Quantity.Mul(p.AverageCost)
}

// Recompute sets all three derived fields from quantity, average cost and
// current price in one step.
func (p *Position) Recompute() {
	p.MarketValue = p.Quantity.Mul(p.CurrentPrice)
	cost := p.CostBasis()
	p.ProfitLoss = p.MarketValue.Sub(cost)
	p.ProfitLossPercentage = Percentage(p.ProfitLoss, cost)
}

// IsConsistent reports whether the derived fields match the inputs.
func (p Position) IsConsistent() bool {
	expected := p
	expected.Recompute()
	return p.MarketValue.Equal(expected.MarketValue) &&
		p.ProfitLoss.Equal(expected.ProfitLoss) &&
		p.ProfitLossPercentage.Equal(expected.ProfitLossPercentage)
}

// Percentage returns part ÷ whole × 100, or zero when whole is zero.
func Percentage(part, whole decimal.Decimal) decimal.Decimal {
	if whole.IsZero() {
		return decimal.Zero
	}
	return part.Div(whole).Mul(hundred)
}

// PositionPatch is a field-by-field update to a stored position.
// Nil fields are left untouched.
type PositionPatch struct {
	Name                 *string
	Asset                Asset
	Quantity             *decimal.Decimal
	AverageCost          *decimal.Decimal
	CurrentPrice         *decimal.Decimal
	MarketValue          *decimal.Decimal
	ProfitLoss           *decimal.Decimal
	ProfitLossPercentage *decimal.Decimal
}

// Patch returns a patch carrying every mutable field of p, derived fields
// included, so that applying it keeps the stored record consistent.
func (p Position) Patch() PositionPatch {
	return PositionPatch{
		Name:                 &p.Name,
		Asset:                p.Asset,
		Quantity:             &p.Quantity,
		AverageCost:          &p.AverageCost,
		CurrentPrice:         &p.CurrentPrice,
		MarketValue:          &p.MarketValue,
		ProfitLoss:           &p.ProfitLoss,
		ProfitLossPercentage: &p.ProfitLossPercentage,
	}
}

// Merge applies the non-nil fields of patch onto p.
func (p Position) Merge(patch PositionPatch) Position {
	if patch.Name != nil {
		p.Name = *patch.Name
	}
	if patch.Asset != nil {
		p.Asset = patch.Asset
	}
	if patch.Quantity != nil {
		p.Quantity = *patch.Quantity
	}
	if patch.AverageCost != nil {
		p.AverageCost = *patch.AverageCost
	}
	if patch.CurrentPrice != nil {
		p.CurrentPrice = *patch.CurrentPrice
	}
	if patch.MarketValue != nil {
		p.MarketValue = *patch.MarketValue
	}
	if patch.ProfitLoss != nil {
		p.ProfitLoss = *patch.ProfitLoss
	}
	if patch.ProfitLossPercentage != nil {
		p.ProfitLossPercentage = *patch.ProfitLossPercentage
	}
	return p
}

// positionJSON is the flat wire shape of a position.
type positionJSON struct {
	ID                   string           `json:"id"`
	PortfolioID          string           `json:"portfolio_id"`
	Symbol               string           `json:"symbol"`
	Name                 string           `json:"name"`
	AssetType            string           `json:"asset_type"`
	Quantity             decimal.Decimal  `json:"quantity"`
	AverageCost          decimal.Decimal  `json:"average_cost"`
	CurrentPrice         decimal.Decimal  `json:"current_price"`
	MarketValue          decimal.Decimal  `json:"market_value"`
	ProfitLoss           decimal.Decimal  `json:"profit_loss"`
	ProfitLossPercentage decimal.Decimal  `json:"profit_loss_percentage"`
	Sector               string           `json:"sector,omitempty"`
	ExpenseRatio         *decimal.Decimal `json:"expense_ratio,omitempty"`
	MaturityDate         string           `json:"maturity_date,omitempty"`
	Yield                *decimal.Decimal `json:"yield,omitempty"`
}

func (p Position) MarshalJSON() ([]byte, error) {
	attrs := Attributes(p.Asset)
	return json.Marshal(positionJSON{
		ID:                   p.ID,
		PortfolioID:          p.PortfolioID,
		Symbol:               p.Symbol,
		Name:                 p.Name,
		AssetType:            string(p.Class()),
		Quantity:             p.Quantity,
		AverageCost:          p.AverageCost,
		CurrentPrice:         p.CurrentPrice,
		MarketValue:          p.MarketValue,
		ProfitLoss:           p.ProfitLoss,
		ProfitLossPercentage: p.ProfitLossPercentage,
		Sector:               attrs.Sector,
		ExpenseRatio:         attrs.ExpenseRatio,
		MaturityDate:         attrs.MaturityDate,
		Yield:                attrs.Yield,
	})
}

// UnmarshalJSON decodes the wire shape. Derived fields are taken as sent;
// callers that do not trust the sender call Recompute.
func (p *Position) UnmarshalJSON(data []byte) error {
	var raw positionJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	class, err := ParseAssetClass(raw.AssetType)
	if err != nil {
		return fmt.Errorf("position %s: %w", raw.ID, err)
	}
	asset, err := NewAsset(class, AssetAttributes{
		Sector:       raw.Sector,
		ExpenseRatio: raw.ExpenseRatio,
		MaturityDate: raw.MaturityDate,
		Yield:        raw.Yield,
	})
	if err != nil {
		return err
	}

	*p = Position{
		ID:                   raw.ID,
		PortfolioID:          raw.PortfolioID,
		Symbol:               raw.Symbol,
		Name:                 raw.Name,
		Asset:                asset,
		Quantity:             raw.Quantity,
		AverageCost:          raw.AverageCost,
		CurrentPrice:         raw.CurrentPrice,
		MarketValue:          raw.MarketValue,
		ProfitLoss:           raw.ProfitLoss,
		ProfitLossPercentage: raw.ProfitLossPercentage,
	}
	return nil
}

// PositionDraft is the input for creating a position.
type PositionDraft struct {
	PortfolioID string
	Symbol      string
	Name        string
	AssetClass  string
	Quantity    decimal.Decimal
	AverageCost decimal.Decimal
	AssetAttributes
}

// PositionEdit is the subset of fields a user may change on an existing
// position. Nil fields are left unchanged.
type PositionEdit struct {
	Quantity    *decimal.Decimal
	AverageCost *decimal.Decimal
	Sector      *string
}
