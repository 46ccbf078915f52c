package display

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestEUR(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"9765", "9.765,00 €"},
		{"156750.80", "156.750,80 €"},
		{"0.5", "0,50 €"},
		{"0", "0,00 €"},
		{"-4579.85", "-4.579,85 €"},
		{"1234567.899", "1.234.567,90 €"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, EUR(decimal.RequireFromString(tt.in)))
		})
	}
}

func TestSignedEUR(t *testing.T) {
	assert.Equal(t, "+903,00 €", SignedEUR(decimal.RequireFromString("903")))
	assert.Equal(t, "-1.400,00 €", SignedEUR(decimal.RequireFromString("-1400")))
}

func TestPercent(t *testing.T) {
	assert.Equal(t, "+8.35%", Percent(decimal.RequireFromString("8.34950")))
	assert.Equal(t, "-5.83%", Percent(decimal.RequireFromString("-5.8333")))
	assert.Equal(t, "+0.00%", Percent(decimal.Zero))
}
