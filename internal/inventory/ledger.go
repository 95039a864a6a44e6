package inventory

// NextQuantity computes the stock level after applying a transaction.
//
//	purchase     current + qty
//	consumption  current − qty
//	adjustment   qty (absolute set)
//	return       signed: qty > 0 adds, qty ≤ 0 subtracts |qty|
//
// The result may go negative; the caller decides whether to flag that.
func NextQuantity(current int64, tx *Transaction) int64 {
	switch tx.Type {
	case TxPurchase:
		return current + tx.Quantity
	case TxConsumption:
		return current - tx.Quantity
	case TxAdjustment:
		return tx.Quantity
	case TxReturn:
		if tx.Quantity > 0 {
			return current + tx.Quantity
		}
		return current - (-tx.Quantity)
	}
	return current
}

// NeedsReorder filters items at or below their minimum quantity, preserving
// the input order.
func NeedsReorder(items []*Item) []*Item {
	out := make([]*Item, 0)
	for _, item := range items {
		if item.NeedsReorder() {
			out = append(out, item)
		}
	}
	return out
}
