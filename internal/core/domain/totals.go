package domain

import "github.com/shopspring/decimal"

var hundred = decimal.NewFromInt(100)

// LineInput is one resolved document line for totals computation: the
// tax percentage has already been looked up from the referenced tax row
// (zero when the line carries no tax).
type LineInput struct {
	Quantity   int
	UnitPrice  decimal.Decimal
	TaxPercent decimal.Decimal
}

// Totals are the derived monetary fields stored on a document header.
type Totals struct {
	Subtotal   decimal.Decimal
	TaxTotal   decimal.Decimal
	GrandTotal decimal.Decimal
}

// LineTotal returns the pre-tax amount of a line, rounded to 2 decimals.
func LineTotal(quantity int, unitPrice decimal.Decimal) decimal.Decimal {
	return unitPrice.Mul(decimal.NewFromInt(int64(quantity))).Round(2)
}

// ComputeTotals derives subtotal, tax total and grand total from the
// given lines. Tax accumulates per line as line × pct/100 but is stored
// only at the document level. All results are rounded to 2 decimals;
// the grand total is the sum of the rounded components.
func ComputeTotals(lines []LineInput) Totals {
	subtotal := decimal.Zero
	taxTotal := decimal.Zero
	for _, l := range lines {
		line := l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
		subtotal = subtotal.Add(line)
		if l.TaxPercent.IsPositive() {
			taxTotal = taxTotal.Add(line.Mul(l.TaxPercent).Div(hundred))
		}
	}
	sub := subtotal.Round(2)
	tax := taxTotal.Round(2)
	return Totals{
		Subtotal:   sub,
		TaxTotal:   tax,
		GrandTotal: sub.Add(tax),
	}
}
