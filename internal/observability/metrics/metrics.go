package metrics

import "github.com/prometheus/client_golang/prometheus"

// ClinicMetrics exposes counters/histograms for the scheduling, billing and
// inventory engines.
type ClinicMetrics struct {
	bookingsTotal       *prometheus.CounterVec
	slotConflictsTotal  prometheus.Counter
	availabilityLatency prometheus.Histogram
	paymentsTotal       *prometheus.CounterVec
	overpaymentsTotal   prometheus.Counter
	invoiceRecomputes   prometheus.Counter
	inventoryTxTotal    *prometheus.CounterVec
	negativeStockTotal  prometheus.Counter
	itemsBelowMinimum   prometheus.Gauge
}

func NewClinicMetrics(reg prometheus.Registerer) *ClinicMetrics {
	m := &ClinicMetrics{
		bookingsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "clinic",
			Subsystem: "scheduling",
			Name:      "bookings_total",
			Help:      "Booking attempts by outcome",
		}, []string{"outcome"}),
		slotConflictsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "clinic",
			Subsystem: "scheduling",
			Name:      "slot_conflicts_total",
			Help:      "Booking attempts rejected by the conflict check",
		}),
		availabilityLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "clinic",
			Subsystem: "scheduling",
			Name:      "availability_check_seconds",
			Help:      "Latency of slot availability checks",
			Buckets:   prometheus.DefBuckets,
		}),
		paymentsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "clinic",
			Subsystem: "billing",
			Name:      "payments_recorded_total",
			Help:      "Recorded payments by resulting invoice status",
		}, []string{"status"}),
		overpaymentsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "clinic",
			Subsystem: "billing",
			Name:      "overpayments_total",
			Help:      "Payments that pushed total paid beyond the final amount",
		}),
		invoiceRecomputes: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "clinic",
			Subsystem: "billing",
			Name:      "invoice_recomputes_total",
			Help:      "Full invoice total recomputations",
		}),
		inventoryTxTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "clinic",
			Subsystem: "inventory",
			Name:      "transactions_total",
			Help:      "Inventory transactions by type",
		}, []string{"type"}),
		negativeStockTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "clinic",
			Subsystem: "inventory",
			Name:      "negative_stock_total",
			Help:      "Transactions that drove an item quantity below zero",
		}),
		itemsBelowMinimum: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "clinic",
			Subsystem: "inventory",
			Name:      "items_below_minimum",
			Help:      "Items at or below their reorder threshold",
		}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(
		m.bookingsTotal,
		m.slotConflictsTotal,
		m.availabilityLatency,
		m.paymentsTotal,
		m.overpaymentsTotal,
		m.invoiceRecomputes,
		m.inventoryTxTotal,
		m.negativeStockTotal,
		m.itemsBelowMinimum,
	)
	return m
}

func (m *ClinicMetrics) ObserveBooking(outcome string) {
	if m == nil {
		return
	}
	m.bookingsTotal.WithLabelValues(outcome).Inc()
}

func (m *ClinicMetrics) ObserveSlotConflict() {
	if m == nil {
		return
	}
	m.slotConflictsTotal.Inc()
}

func (m *ClinicMetrics) ObserveAvailabilityLatency(seconds float64) {
	if m == nil {
		return
	}
	m.availabilityLatency.Observe(seconds)
}

func (m *ClinicMetrics) ObservePayment(status string) {
	if m == nil {
		return
	}
	m.paymentsTotal.WithLabelValues(status).Inc()
}

func (m *ClinicMetrics) ObserveOverpayment() {
	if m == nil {
		return
	}
	m.overpaymentsTotal.Inc()
}

func (m *ClinicMetrics) ObserveInvoiceRecompute() {
	if m == nil {
		return
	}
	m.invoiceRecomputes.Inc()
}

func (m *ClinicMetrics) ObserveInventoryTransaction(txType string) {
	if m == nil {
		return
	}
	m.inventoryTxTotal.WithLabelValues(txType).Inc()
}

func (m *ClinicMetrics) ObserveNegativeStock() {
	if m == nil {
		return
	}
	m.negativeStockTotal.Inc()
}

func (m *ClinicMetrics) SetItemsBelowMinimum(n int) {
	if m == nil {
		return
	}
	m.itemsBelowMinimum.Set(float64(n))
}
