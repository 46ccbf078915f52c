// Package display formats amounts the way the dashboard shows them:
// euros with Italian separators and signed two-decimal percentages.
package display

import (
	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// Currency is the code every amount is displayed in.
const Currency = money.EUR

var eur = func() *money.Formatter {
	cur := money.GetCurrency(Currency)
	// it-IT: "9.765,00 €"
	return money.NewFormatter(cur.Fraction, ",", ".", cur.Grapheme, "1 $")
}()

// EUR formats amount in euros, rounded to the cent.
func EUR(amount decimal.Decimal) string {
	return eur.Format(amount.Shift(int32(eur.Fraction)).Round(0).IntPart())
}

// SignedEUR is EUR with a leading "+" for amounts that are not negative.
func SignedEUR(amount decimal.Decimal) string {
	if amount.IsNegative() {
		return EUR(amount)
	}
	return "+" + EUR(amount)
}

// Percent formats a percentage with two decimals and a leading "+" when it
// is not negative, e.g. "+8.35%".
func Percent(p decimal.Decimal) string {
	prefix := ""
	if !p.IsNegative() {
		prefix = "+"
	}
	return prefix + p.StringFixed(2) + "%"
}
