package request

import (
	"github.com/shopspring/decimal"

	"github.com/ndewijer/Investment-Portfolio-Dashboard/internal/model"
)

// CreatePortfolioRequest represents the request body for creating a portfolio
type CreatePortfolioRequest struct {
	Name string `json:"name"`
}

// Draft converts the request into the service input.
func (r CreatePortfolioRequest) Draft() model.PortfolioDraft {
	return model.PortfolioDraft{Name: r.Name}
}

// CreatePositionRequest represents the request body for adding an asset.
// Class-specific fields are optional and only read for their asset type.
type CreatePositionRequest struct {
	PortfolioID  string           `json:"portfolio_id"`
	Symbol       string           `json:"symbol"`
	Name         string           `json:"name"`
	AssetType    string           `json:"asset_type"`
	Quantity     decimal.Decimal  `json:"quantity"`
	AverageCost  decimal.Decimal  `json:"average_cost"`
	Sector       string           `json:"sector,omitempty"`
	ExpenseRatio *decimal.Decimal `json:"expense_ratio,omitempty"`
	MaturityDate string           `json:"maturity_date,omitempty"`
	Yield        *decimal.Decimal `json:"yield,omitempty"`
}

// Draft converts the request into the reconciler input.
func (r CreatePositionRequest) Draft() model.PositionDraft {
	return model.PositionDraft{
		PortfolioID: r.PortfolioID,
		Symbol:      r.Symbol,
		Name:        r.Name,
		AssetClass:  r.AssetType,
		Quantity:    r.Quantity,
		AverageCost: r.AverageCost,
		AssetAttributes: model.AssetAttributes{
			Sector:       r.Sector,
			ExpenseRatio: r.ExpenseRatio,
			MaturityDate: r.MaturityDate,
			Yield:        r.Yield,
		},
	}
}

// UpdatePositionRequest represents the request body for editing a position.
// All fields are optional.
type UpdatePositionRequest struct {
	Quantity    *decimal.Decimal `json:"quantity,omitempty"`
	AverageCost *decimal.Decimal `json:"average_cost,omitempty"`
	Sector      *string          `json:"sector,omitempty"`
}

// Edit converts the request into the reconciler input.
func (r UpdatePositionRequest) Edit() model.PositionEdit {
	return model.PositionEdit{
		Quantity:    r.Quantity,
		AverageCost: r.AverageCost,
		Sector:      r.Sector,
	}
}
