package inventory

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNextQuantity(t *testing.T) {
	tests := []struct {
		name    string
		current int64
		txType  string
		qty     int64
		want    int64
	}{
		{"purchase adds", 50, TxPurchase, 20, 70},
		{"consumption subtracts", 50, TxConsumption, 30, 20},
		{"adjustment sets absolute", 50, TxAdjustment, 5, 5},
		{"adjustment ignores prior value", 999, TxAdjustment, 5, 5},
		{"positive return adds", 50, TxReturn, 10, 60},
		{"negative return subtracts", 50, TxReturn, -10, 40},
		{"zero return is a no-op", 50, TxReturn, 0, 50},
		{"consumption can go negative", 70, TxConsumption, 80, -10},
		{"consumption from zero goes negative", 0, TxConsumption, 5, -5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NextQuantity(tt.current, &Transaction{Type: tt.txType, Quantity: tt.qty})
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNextQuantity_PurchaseConsumptionSymmetry(t *testing.T) {
	// A purchase followed by a consumption of the same quantity must return
	// the stock to where it started.
	for _, qty := range []int64{1, 17, 100, 5000} {
		start := int64(42)
		after := NextQuantity(start, &Transaction{Type: TxPurchase, Quantity: qty})
		back := NextQuantity(after, &Transaction{Type: TxConsumption, Quantity: qty})
		assert.Equal(t, start, back, "qty=%d", qty)
	}
}

func TestNextQuantity_ConcreteScenario(t *testing.T) {
	// Item starts at 50: purchase of 20 brings it to 70, then a consumption
	// of 80 drives it to -10. Negative stock is recorded, not clamped.
	q := NextQuantity(50, &Transaction{Type: TxPurchase, Quantity: 20})
	assert.Equal(t, int64(70), q)

	q = NextQuantity(q, &Transaction{Type: TxConsumption, Quantity: 80})
	assert.Equal(t, int64(-10), q)
}

func TestNeedsReorder(t *testing.T) {
	items := []*Item{
		{Name: "gloves", CurrentQuantity: 5, MinimumQuantity: 10},
		{Name: "masks", CurrentQuantity: 50, MinimumQuantity: 10},
		{Name: "anesthetic", CurrentQuantity: 10, MinimumQuantity: 10},
		{Name: "gauze", CurrentQuantity: -3, MinimumQuantity: 0},
	}

	low := NeedsReorder(items)

	// Order preserved; at-threshold counts as low.
	assert.Len(t, low, 3)
	assert.Equal(t, "gloves", low[0].Name)
	assert.Equal(t, "anesthetic", low[1].Name)
	assert.Equal(t, "gauze", low[2].Name)
}

func TestNeedsReorder_Empty(t *testing.T) {
	assert.Empty(t, NeedsReorder(nil))
	assert.Empty(t, NeedsReorder([]*Item{{CurrentQuantity: 100, MinimumQuantity: 1}}))
}
