// Package pricing computes order totals from a cart subtotal.
package pricing

import (
	"fmt"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// Policy holds the storefront's shipping and tax rules.
type Policy struct {
	FreeShippingThreshold decimal.Decimal
	FlatShippingFee       decimal.Decimal
	TaxRate               decimal.Decimal
}

// DefaultPolicy mirrors the storefront's published rules: free shipping above
// $50, otherwise a $15 flat fee, and 8% estimated tax.
func DefaultPolicy() Policy {
	return Policy{
		FreeShippingThreshold: decimal.NewFromInt(50),
		FlatShippingFee:       decimal.NewFromInt(15),
		TaxRate:               decimal.RequireFromString("0.08"),
	}
}

// Quote is the set of totals derived from a subtotal.
type Quote struct {
	Subtotal    decimal.Decimal
	Shipping    decimal.Decimal
	Tax         decimal.Decimal
	GrandTotal  decimal.Decimal
	ProgressPct decimal.Decimal // toward free shipping, 0..100
	Remaining   decimal.Decimal // still needed for free shipping, never negative
}

// Quote derives shipping, tax and totals for subtotal. Shipping is waived only
// when the subtotal is strictly above the threshold.
func (p Policy) Quote(subtotal decimal.Decimal) Quote {
	q := Quote{Subtotal: subtotal}

	q.Shipping = p.FlatShippingFee
	if subtotal.GreaterThan(p.FreeShippingThreshold) {
		q.Shipping = decimal.Zero
	}
	q.Tax = subtotal.Mul(p.TaxRate)
	q.GrandTotal = subtotal.Add(q.Shipping).Add(q.Tax)

	if p.FreeShippingThreshold.Sign() <= 0 {
		q.ProgressPct = hundred
	} else {
		q.ProgressPct = decimal.Min(hundred, subtotal.Mul(hundred).Div(p.FreeShippingThreshold))
	}
	q.Remaining = decimal.Max(decimal.Zero, p.FreeShippingThreshold.Sub(subtotal))
	return q
}

// Validate rejects negative amounts and tax rates outside [0, 1].
func (p Policy) Validate() error {
	if p.FreeShippingThreshold.IsNegative() {
		return fmt.Errorf("free shipping threshold must not be negative")
	}
	if p.FlatShippingFee.IsNegative() {
		return fmt.Errorf("flat shipping fee must not be negative")
	}
	if p.TaxRate.IsNegative() || p.TaxRate.GreaterThan(decimal.NewFromInt(1)) {
		return fmt.Errorf("tax rate %s out of range [0, 1]", p.TaxRate)
	}
	return nil
}

// FormatMoney renders an amount as dollars with two decimals.
func FormatMoney(amount decimal.Decimal) string {
	if amount.IsNegative() {
		return "-$" + amount.Neg().StringFixed(2)
	}
	return "$" + amount.StringFixed(2)
}
