package pricing

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestPolicyQuote(t *testing.T) {
	p := DefaultPolicy()

	tests := []struct {
		name     string
		subtotal string
		shipping string
		tax      string
		total    string
		progress string
	}{
		{"empty cart", "0", "15", "0", "15", "0"},
		{"below threshold", "25", "15", "2", "42", "50"},
		{"exactly threshold pays shipping", "50", "15", "4", "69", "100"},
		{"above threshold ships free", "60", "0", "4.8", "64.8", "100"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := p.Quote(dec(tt.subtotal))
			assert.True(t, q.Shipping.Equal(dec(tt.shipping)), "shipping = %s", q.Shipping)
			assert.True(t, q.Tax.Equal(dec(tt.tax)), "tax = %s", q.Tax)
			assert.True(t, q.GrandTotal.Equal(dec(tt.total)), "total = %s", q.GrandTotal)
			assert.True(t, q.ProgressPct.Equal(dec(tt.progress)), "progress = %s", q.ProgressPct)
		})
	}
}

func TestPolicyQuote_RemainingNeverNegative(t *testing.T) {
	q := DefaultPolicy().Quote(dec("80"))
	assert.True(t, q.Remaining.IsZero(), "remaining = %s", q.Remaining)

	q = DefaultPolicy().Quote(dec("12.50"))
	assert.Equal(t, "37.50", q.Remaining.StringFixed(2))
}

func TestPolicyQuote_ZeroThreshold(t *testing.T) {
	p := Policy{FreeShippingThreshold: decimal.Zero, FlatShippingFee: dec("5"), TaxRate: decimal.Zero}
	q := p.Quote(dec("0"))
	assert.Equal(t, "100", q.ProgressPct.String())
}

func TestPolicyValidate(t *testing.T) {
	assert.NoError(t, DefaultPolicy().Validate())

	bad := DefaultPolicy()
	bad.TaxRate = dec("1.5")
	assert.Error(t, bad.Validate())

	bad = DefaultPolicy()
	bad.FlatShippingFee = dec("-1")
	assert.Error(t, bad.Validate())
}

func TestFormatMoney(t *testing.T) {
	assert.Equal(t, "$42.00", FormatMoney(dec("42")))
	assert.Equal(t, "$2.00", FormatMoney(dec("1.995")))
	assert.Equal(t, "-$3.10", FormatMoney(dec("-3.1")))
}
