package portfolio

import (
	"maps"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ndewijer/Investment-Portfolio-Dashboard/internal/model"
	"github.com/ndewijer/Investment-Portfolio-Dashboard/internal/validation"
)

// ApplyCreate turns a draft into a new, consistent position.
//
// The current price starts equal to the average cost, so profit/loss and its
// percentage are zero. The symbol is upper-cased and a new UUID is assigned.
//
// Returns a *validation.Error when:
//   - symbol or name is blank
//   - quantity or average cost is not positive
//   - the asset class is not recognized
//   - the class-specific attributes are invalid (an equity without sector)
func ApplyCreate(draft model.PositionDraft) (model.Position, error) {
	errors := make(map[string]string)

	symbol := strings.ToUpper(strings.TrimSpace(draft.Symbol))
	if symbol == "" {
		errors["symbol"] = "symbol is required"
	}
	name := strings.TrimSpace(draft.Name)
	if name == "" {
		errors["name"] = "name is required"
	}
	if strings.TrimSpace(draft.PortfolioID) == "" {
		errors["portfolio_id"] = "portfolio_id is required"
	}
	checkPositive(errors, "quantity", draft.Quantity)
	checkPositive(errors, "average_cost", draft.AverageCost)

	var asset model.Asset
	class, err := model.ParseAssetClass(draft.AssetClass)
	if err != nil {
		errors["asset_type"] = "asset_type must be one of equity, crypto, fund, bond"
	} else {
		asset, err = model.NewAsset(class, draft.AssetAttributes)
		if err != nil {
			errors["asset_type"] = err.Error()
		} else {
			for field, msg := range asset.Validate() {
				errors[field] = msg
			}
		}
	}

	if err := validation.FromFields(errors); err != nil {
		return model.Position{}, err
	}

	p := model.Position{
		ID:           uuid.New().String(),
		PortfolioID:  draft.PortfolioID,
		Symbol:       symbol,
		Name:         name,
		Asset:        asset,
		Quantity:     draft.Quantity,
		AverageCost:  draft.AverageCost,
		CurrentPrice: draft.AverageCost,
	}
	p.Recompute()
	return p, nil
}

// ApplyEdit applies a quantity, average cost or sector change to existing and
// recomputes the derived fields against the existing current price.
//
// A supplied sector replaces the equity's sector exactly as given, so a blank
// one fails the equity's own validation. Supplying a sector for a position
// that is not an equity is rejected. existing is never modified.
func ApplyEdit(existing model.Position, edit model.PositionEdit) (model.Position, error) {
	errors := make(map[string]string)
	updated := existing

	if edit.Quantity != nil {
		updated.Quantity = *edit.Quantity
	}
	if edit.AverageCost != nil {
		updated.AverageCost = *edit.AverageCost
	}
	checkPositive(errors, "quantity", updated.Quantity)
	checkPositive(errors, "average_cost", updated.AverageCost)

	if edit.Sector != nil {
		if _, ok := existing.Asset.(model.Equity); ok {
			updated.Asset = model.Equity{Sector: *edit.Sector}
			maps.Copy(errors, updated.Asset.Validate())
		} else {
			errors["sector"] = "sector can only be set on equities"
		}
	}

	if err := validation.FromFields(errors); err != nil {
		return existing, err
	}

	updated.Recompute()
	return updated, nil
}

// ApplyPrice sets a new market price on existing and recomputes the derived
// fields. This is the only path that changes the current price.
func ApplyPrice(existing model.Position, price decimal.Decimal) (model.Position, error) {
	errors := make(map[string]string)
	checkPositive(errors, "current_price", price)
	if err := validation.FromFields(errors); err != nil {
		return existing, err
	}

	updated := existing
	updated.CurrentPrice = price
	updated.Recompute()
	return updated, nil
}

func checkPositive(errors map[string]string, field string, v decimal.Decimal) {
	if !v.IsPositive() {
		errors[field] = field + " must be greater than 0"
	}
}
