package billing

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLineAmountCents(t *testing.T) {
	tests := []struct {
		name            string
		quantity        int64
		unitPriceCents  int64
		discountPercent float64
		want            int64
	}{
		{"no discount", 2, 1500, 0, 3000},
		{"half off", 1, 10000, 50, 5000},
		{"rounds to nearest cent", 1, 999, 33.3, 666},
		{"full discount", 3, 2500, 100, 0},
		{"zero price", 5, 0, 10, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := LineAmountCents(tt.quantity, tt.unitPriceCents, tt.discountPercent)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestComputeTotals(t *testing.T) {
	// Two items of 200.00 and 300.00, 10% invoice discount, 5% tax:
	// subtotal 500.00, discount 50.00, tax on 450.00 is 22.50, final 472.50.
	items := []*InvoiceItem{
		{Quantity: 1, UnitPriceCents: 20000, AmountCents: 20000},
		{Quantity: 1, UnitPriceCents: 30000, AmountCents: 30000},
	}

	totals := ComputeTotals(items, 10, 5)

	assert.Equal(t, int64(50000), totals.SubtotalCents)
	assert.Equal(t, int64(5000), totals.DiscountCents)
	assert.Equal(t, int64(2250), totals.TaxCents)
	assert.Equal(t, int64(47250), totals.FinalCents)
}

func TestComputeTotals_NoDiscountNoTax(t *testing.T) {
	items := []*InvoiceItem{
		{AmountCents: 12345},
		{AmountCents: 678},
	}

	totals := ComputeTotals(items, 0, 0)

	assert.Equal(t, int64(13023), totals.SubtotalCents)
	assert.Equal(t, int64(0), totals.DiscountCents)
	assert.Equal(t, int64(0), totals.TaxCents)
	assert.Equal(t, totals.SubtotalCents, totals.FinalCents)
}

func TestComputeTotals_EmptyItems(t *testing.T) {
	totals := ComputeTotals(nil, 10, 5)

	assert.Equal(t, int64(0), totals.SubtotalCents)
	assert.Equal(t, int64(0), totals.FinalCents)
}

func TestComputeTotals_TaxAppliesAfterDiscount(t *testing.T) {
	items := []*InvoiceItem{{AmountCents: 10000}}

	totals := ComputeTotals(items, 50, 10)

	// Tax is 10% of the discounted 50.00, not of the 100.00 subtotal.
	assert.Equal(t, int64(500), totals.TaxCents)
	assert.Equal(t, int64(5500), totals.FinalCents)
}

func TestApplyTotals(t *testing.T) {
	inv := &Invoice{}
	ApplyTotals(inv, Totals{SubtotalCents: 1000, DiscountCents: 100, TaxCents: 90, FinalCents: 990})

	assert.Equal(t, int64(1000), inv.TotalAmountCents)
	assert.Equal(t, int64(100), inv.DiscountAmountCents)
	assert.Equal(t, int64(90), inv.TaxAmountCents)
	assert.Equal(t, int64(990), inv.FinalAmountCents)
}

func TestComputeTotals_RecomputeIsStable(t *testing.T) {
	// Recomputing from the same item list must give identical results no
	// matter how many edits preceded it.
	items := []*InvoiceItem{
		{AmountCents: 3333},
		{AmountCents: 6667},
	}

	first := ComputeTotals(items, 7.5, 19)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, ComputeTotals(items, 7.5, 19))
	}
}
