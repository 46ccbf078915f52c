package model

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ndewijer/Investment-Portfolio-Dashboard/internal/apperrors"
)

// AssetClass identifies the kind of instrument a position holds.
type AssetClass string

const (
	AssetClassEquity AssetClass = "equity"
	AssetClassCrypto AssetClass = "crypto"
	AssetClassFund   AssetClass = "fund"
	AssetClassBond   AssetClass = "bond"
)

// AssetClasses lists the recognized classes in display order.
var AssetClasses = []AssetClass{AssetClassEquity, AssetClassCrypto, AssetClassFund, AssetClassBond}

// assetClassAliases maps the wire names used by the dashboard REST contract
// onto the canonical classes.
var assetClassAliases = map[string]AssetClass{
	"equity": AssetClassEquity,
	"stock":  AssetClassEquity,
	"crypto": AssetClassCrypto,
	"fund":   AssetClassFund,
	"etf":    AssetClassFund,
	"bond":   AssetClassBond,
}

// ParseAssetClass normalizes s into an AssetClass.
// Accepts the canonical names and the aliases "stock" and "etf", case-insensitively.
func ParseAssetClass(s string) (AssetClass, error) {
	class, ok := assetClassAliases[strings.ToLower(strings.TrimSpace(s))]
	if !ok {
		return "", fmt.Errorf("%w: %q", apperrors.ErrUnknownAssetClass, s)
	}
	return class, nil
}

// Asset is the class-specific part of a position. It is a closed set:
// Equity, Crypto, Fund and Bond are the only implementations.
//
// Validate reports field-level problems keyed by the wire field name.
// An empty map means the variant is valid.
type Asset interface {
	Class() AssetClass
	Validate() map[string]string
	isAsset()
}

// Equity is a listed share. Sector is required.
type Equity struct {
	Sector string
}

// Crypto is a crypto-currency holding. It carries no extra attributes.
type Crypto struct{}

// Fund is an ETF or mutual fund with an optional expense ratio in percent.
type Fund struct {
	ExpenseRatio *decimal.Decimal
}

// Bond is a fixed-income holding. MaturityDate is YYYY-MM-DD when set and
// Yield is a percentage.
type Bond struct {
	MaturityDate string
	Yield        *decimal.Decimal
}

func (Equity) Class() AssetClass { return AssetClassEquity }
func (Crypto) Class() AssetClass { return AssetClassCrypto }
func (Fund) Class() AssetClass   { return AssetClassFund }
func (Bond) Class() AssetClass   { return AssetClassBond }

func (Equity) isAsset() {}
func (Crypto) isAsset() {}
func (Fund) isAsset()   {}
func (Bond) isAsset()   {}

var hundred = decimal.NewFromInt(100)

func (e Equity) Validate() map[string]string {
	errors := make(map[string]string)
	if strings.TrimSpace(e.Sector) == "" {
		errors["sector"] = "sector is required for equities"
	}
	return errors
}

func (Crypto) Validate() map[string]string {
	return map[string]string{}
}

func (f Fund) Validate() map[string]string {
	errors := make(map[string]string)
	if f.ExpenseRatio != nil && (f.ExpenseRatio.IsNegative() || f.ExpenseRatio.GreaterThan(hundred)) {
		errors["expense_ratio"] = "expense_ratio must be between 0 and 100"
	}
	return errors
}

func (b Bond) Validate() map[string]string {
	errors := make(map[string]string)
	if b.MaturityDate != "" {
		if _, err := time.Parse("2006-01-02", b.MaturityDate); err != nil {
			errors["maturity_date"] = "maturity_date must be in YYYY-MM-DD format"
		}
	}
	if b.Yield != nil && (b.Yield.IsNegative() || b.Yield.GreaterThan(hundred)) {
		errors["yield"] = "yield must be between 0 and 100"
	}
	return errors
}

// AssetAttributes is the flat form of the class-specific attributes, as they
// appear on the wire next to asset_type.
type AssetAttributes struct {
	Sector       string
	ExpenseRatio *decimal.Decimal
	MaturityDate string
	Yield        *decimal.Decimal
}

// NewAsset builds the variant for class from flat attributes. Attributes that
// do not belong to the class are dropped.
func NewAsset(class AssetClass, attrs AssetAttributes) (Asset, error) {
	switch class {
	case AssetClassEquity:
		return Equity{Sector: strings.TrimSpace(attrs.Sector)}, nil
	case AssetClassCrypto:
		return Crypto{}, nil
	case AssetClassFund:
		return Fund{ExpenseRatio: attrs.ExpenseRatio}, nil
	case AssetClassBond:
		return Bond{MaturityDate: attrs.MaturityDate, Yield: attrs.Yield}, nil
	}
	return nil, fmt.Errorf("%w: %q", apperrors.ErrUnknownAssetClass, class)
}

// Attributes flattens an asset back into its wire attributes.
func Attributes(a Asset) AssetAttributes {
	switch v := a.(type) {
	case Equity:
		return AssetAttributes{Sector: v.Sector}
	case Fund:
		return AssetAttributes{ExpenseRatio: v.ExpenseRatio}
	case Bond:
		return AssetAttributes{MaturityDate: v.MaturityDate, Yield: v.Yield}
	}
	return AssetAttributes{}
}
