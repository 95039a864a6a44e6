package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestClinicMetrics_Counters(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewClinicMetrics(reg)

	m.ObserveBooking("created")
	m.ObserveBooking("created")
	m.ObserveBooking("conflict")
	m.ObserveSlotConflict()
	m.ObservePayment("paid")
	m.ObserveOverpayment()
	m.ObserveInventoryTransaction("purchase")
	m.ObserveNegativeStock()
	m.SetItemsBelowMinimum(3)

	if got := testutil.ToFloat64(m.bookingsTotal.WithLabelValues("created")); got != 2 {
		t.Errorf("bookings_total{created} = %v, want 2", got)
	}
	if got := testutil.ToFloat64(m.slotConflictsTotal); got != 1 {
		t.Errorf("slot_conflicts_total = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.paymentsTotal.WithLabelValues("paid")); got != 1 {
		t.Errorf("payments_recorded_total{paid} = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.itemsBelowMinimum); got != 3 {
		t.Errorf("items_below_minimum = %v, want 3", got)
	}
}

func TestClinicMetrics_NilReceiverIsSafe(t *testing.T) {
	var m *ClinicMetrics
	m.ObserveBooking("created")
	m.ObserveSlotConflict()
	m.ObserveAvailabilityLatency(0.1)
	m.ObservePayment("paid")
	m.ObserveOverpayment()
	m.ObserveInvoiceRecompute()
	m.ObserveInventoryTransaction("purchase")
	m.ObserveNegativeStock()
	m.SetItemsBelowMinimum(0)
}
