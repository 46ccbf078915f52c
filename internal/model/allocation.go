package model

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/ndewijer/Investment-Portfolio-Dashboard/internal/apperrors"
)

// GroupBy selects the key used to bucket positions in an allocation view.
type GroupBy string

const (
	// GroupBySector keys by sector, falling back to the asset class for
	// positions without one.
	GroupBySector GroupBy = "sector"
	// GroupByAssetClass keys by asset class only.
	GroupByAssetClass GroupBy = "assetClass"
)

// ParseGroupBy accepts "sector" and the spellings "assetClass",
// "asset_class" and "asset_type" for the asset class grouping.
// An empty string selects GroupBySector.
func ParseGroupBy(s string) (GroupBy, error) {
	switch strings.TrimSpace(s) {
	case "", "sector":
		return GroupBySector, nil
	case "assetClass", "asset_class", "asset_type":
		return GroupByAssetClass, nil
	}
	return "", fmt.Errorf("%w: %q", apperrors.ErrUnknownGroupBy, s)
}

// AllocationBucket is one slice of an allocation chart. It is recomputed on
// every read and never stored.
type AllocationBucket struct {
	Key        string          `json:"key"`
	Value      decimal.Decimal `json:"value"`
	Count      int             `json:"count"`
	Percentage decimal.Decimal `json:"percentage"`
}
