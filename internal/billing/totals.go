package billing

import "math"

// Totals is the full set of derived invoice amounts.
//
//	subtotal     = Σ line amounts
//	discount     = subtotal × discount% / 100
//	taxable base = subtotal − discount
//	tax          = taxable base × tax% / 100
//	final        = taxable base + tax
type Totals struct {
	SubtotalCents int64 `json:"subtotal_cents"`
	DiscountCents int64 `json:"discount_cents"`
	TaxCents      int64 `json:"tax_cents"`
	FinalCents    int64 `json:"final_cents"`
}

// LineAmountCents computes one item's amount after its per-item discount.
func LineAmountCents(quantity, unitPriceCents int64, discountPercent float64) int64 {
	gross := quantity * unitPriceCents
	if discountPercent == 0 {
		return gross
	}
	return roundCents(float64(gross) * (1 - discountPercent/100))
}

// ComputeTotals derives all invoice amounts from the complete item list.
// The derivation is always total, never incremental, so repeated item edits
// cannot accumulate rounding drift.
func ComputeTotals(items []*InvoiceItem, discountPercent, taxPercent float64) Totals {
	var subtotal int64
	for _, item := range items {
		subtotal += item.AmountCents
	}
	discount := roundCents(float64(subtotal) * discountPercent / 100)
	taxableBase := subtotal - discount
	tax := roundCents(float64(taxableBase) * taxPercent / 100)
	return Totals{
		SubtotalCents: subtotal,
		DiscountCents: discount,
		TaxCents:      tax,
		FinalCents:    taxableBase + tax,
	}
}

// ApplyTotals writes the derived amounts onto the invoice.
func ApplyTotals(inv *Invoice, t Totals) {
	inv.TotalAmountCents = t.SubtotalCents
	inv.DiscountAmountCents = t.DiscountCents
	inv.TaxAmountCents = t.TaxCents
	inv.FinalAmountCents = t.FinalCents
}

func roundCents(v float64) int64 {
	return int64(math.Round(v))
}
