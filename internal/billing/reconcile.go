package billing

// TotalPaidCents sums all recorded payments for an invoice.
func TotalPaidCents(payments []*Payment) int64 {
	var total int64
	for _, p := range payments {
		total += p.AmountCents
	}
	return total
}

// RemainingAmountCents is the amount still owed, clamped at zero: an
// overpayment is absorbed rather than reported as a negative balance.
func RemainingAmountCents(finalAmountCents int64, payments []*Payment) int64 {
	remaining := finalAmountCents - TotalPaidCents(payments)
	if remaining < 0 {
		return 0
	}
	return remaining
}

// NextStatus derives the invoice status after a payment is recorded. The
// transition is monotonic: an invoice that reached paid stays paid, and the
// rule never moves a status backwards to issued or draft. Statuses outside
// the payment flow (draft, cancelled) only advance once money arrives.
func NextStatus(current string, totalPaidCents, finalAmountCents int64) string {
	if current == StatusPaid {
		return StatusPaid
	}
	switch {
	case totalPaidCents >= finalAmountCents:
		return StatusPaid
	case totalPaidCents > 0 && totalPaidCents < finalAmountCents:
		return StatusPartiallyPaid
	default:
		return current
	}
}
