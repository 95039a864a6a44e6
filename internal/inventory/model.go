package inventory

import (
	"strings"
	"time"
)

// Transaction types. Purchases add stock, consumptions remove it,
// adjustments set an absolute quantity, and returns carry a signed quantity.
const (
	TxPurchase    = "purchase"
	TxConsumption = "consumption"
	TxAdjustment  = "adjustment"
	TxReturn      = "return"
)

// Item is a stocked supply. CurrentQuantity is carried forward through the
// transaction ledger, not recomputed from history on read.
type Item struct {
	ID              string    `json:"id"`
	Name            string    `json:"name"`
	Category        string    `json:"category,omitempty"`
	Unit            string    `json:"unit,omitempty"`
	CurrentQuantity int64     `json:"current_quantity"`
	MinimumQuantity int64     `json:"minimum_quantity"`
	CostPriceCents  int64     `json:"cost_price_cents,omitempty"`
	SupplierID      string    `json:"supplier_id,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// Validate checks the item fields.
func (i *Item) Validate() error {
	if strings.TrimSpace(i.Name) == "" {
		return ErrMissingName
	}
	return nil
}

// NeedsReorder reports whether the item is at or below its reorder threshold.
func (i *Item) NeedsReorder() bool {
	return i.CurrentQuantity <= i.MinimumQuantity
}

// Transaction is one immutable entry in the stock ledger.
type Transaction struct {
	ID        string    `json:"id"`
	ItemID    string    `json:"item_id"`
	Type      string    `json:"type"`
	Quantity  int64     `json:"quantity"`
	UserID    string    `json:"user_id,omitempty"`
	Notes     string    `json:"notes,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Validate checks the transaction shape. Purchases, consumptions, and
// adjustments take non-negative quantities; returns carry a signed quantity
// and accept any value.
func (t *Transaction) Validate() error {
	if strings.TrimSpace(t.ItemID) == "" {
		return ErrMissingItem
	}
	switch t.Type {
	case TxPurchase, TxConsumption:
		if t.Quantity <= 0 {
			return ErrInvalidQuantity
		}
	case TxAdjustment:
		if t.Quantity < 0 {
			return ErrInvalidQuantity
		}
	case TxReturn:
	default:
		return ErrInvalidTransactionType
	}
	return nil
}

// Supplier is a vendor that inventory items reference.
type Supplier struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Contact   string    `json:"contact,omitempty"`
	Phone     string    `json:"phone,omitempty"`
	Email     string    `json:"email,omitempty"`
	Notes     string    `json:"notes,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Validate checks the supplier fields.
func (s *Supplier) Validate() error {
	if strings.TrimSpace(s.Name) == "" {
		return ErrMissingName
	}
	return nil
}
