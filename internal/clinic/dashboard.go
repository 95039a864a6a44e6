package clinic

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/wolfman30/dental-clinic-platform/internal/billing"
	"github.com/wolfman30/dental-clinic-platform/internal/inventory"
	"github.com/wolfman30/dental-clinic-platform/internal/patients"
	"github.com/wolfman30/dental-clinic-platform/internal/scheduling"
)

// Summary is the front-desk dashboard aggregate for one calendar date.
type Summary struct {
	Date                   string `json:"date"`
	AppointmentsToday      int64  `json:"appointments_today"`
	OutstandingInvoices    int64  `json:"outstanding_invoices"`
	OutstandingAmountCents int64  `json:"outstanding_amount_cents"`
	LowStockItems          int64  `json:"low_stock_items"`
	TotalPatients          int64  `json:"total_patients"`
}

// Summarizer produces the dashboard summary.
type Summarizer interface {
	Summarize(ctx context.Context, date string) (*Summary, error)
}

// dashboardDB defines the database interface needed by PostgresSummarizer
type dashboardDB interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PostgresSummarizer computes the summary as SQL aggregates.
type PostgresSummarizer struct {
	db dashboardDB
}

// NewPostgresSummarizer creates a summarizer backed by a pgx pool.
func NewPostgresSummarizer(pool *pgxpool.Pool) *PostgresSummarizer {
	if pool == nil {
		panic("clinic: pgx pool required for dashboard")
	}
	return &PostgresSummarizer{db: pool}
}

// NewPostgresSummarizerWithDB allows injecting a mock database for testing.
func NewPostgresSummarizerWithDB(db dashboardDB) *PostgresSummarizer {
	return &PostgresSummarizer{db: db}
}

// Summarize aggregates the dashboard counters for the given date.
// Outstanding amounts subtract recorded payments per invoice, floored at
// zero so overpaid invoices do not offset unpaid ones.
func (s *PostgresSummarizer) Summarize(ctx context.Context, date string) (*Summary, error) {
	out := &Summary{Date: date}

	apptQuery := `SELECT COUNT(*) FROM appointments WHERE date = $1 AND status NOT IN ('cancelled', 'no_show')`
	if err := s.db.QueryRow(ctx, apptQuery, date).Scan(&out.AppointmentsToday); err != nil {
		return nil, fmt.Errorf("clinic dashboard: count appointments: %w", err)
	}

	invoiceQuery := `
		SELECT COUNT(*), COALESCE(SUM(GREATEST(i.final_amount_cents - p.paid, 0)), 0)
		FROM invoices i
		LEFT JOIN (
			SELECT invoice_id, SUM(amount_cents) AS paid FROM payments GROUP BY invoice_id
		) p ON p.invoice_id = i.id
		WHERE i.status IN ('issued', 'partially_paid')`
	if err := s.db.QueryRow(ctx, invoiceQuery).Scan(&out.OutstandingInvoices, &out.OutstandingAmountCents); err != nil {
		return nil, fmt.Errorf("clinic dashboard: outstanding invoices: %w", err)
	}

	stockQuery := `SELECT COUNT(*) FROM inventory_items WHERE current_quantity <= minimum_quantity`
	if err := s.db.QueryRow(ctx, stockQuery).Scan(&out.LowStockItems); err != nil {
		return nil, fmt.Errorf("clinic dashboard: low stock: %w", err)
	}

	patientsQuery := `SELECT COUNT(*) FROM patients`
	if err := s.db.QueryRow(ctx, patientsQuery).Scan(&out.TotalPatients); err != nil {
		return nil, fmt.Errorf("clinic dashboard: count patients: %w", err)
	}

	return out, nil
}

// PatientLister is the slice of the patients store the in-memory summarizer
// needs.
type PatientLister interface {
	List(ctx context.Context, search string) ([]*patients.Patient, error)
}

// MemorySummarizer folds the summary from the in-memory domain services when
// no database is configured.
type MemorySummarizer struct {
	scheduling *scheduling.Service
	billing    *billing.Service
	inventory  *inventory.Service
	patients   PatientLister
}

// NewMemorySummarizer creates a summarizer over the in-memory services.
func NewMemorySummarizer(sched *scheduling.Service, bill *billing.Service, inv *inventory.Service, patients PatientLister) *MemorySummarizer {
	return &MemorySummarizer{scheduling: sched, billing: bill, inventory: inv, patients: patients}
}

// Summarize folds the counters from the live stores.
func (s *MemorySummarizer) Summarize(ctx context.Context, date string) (*Summary, error) {
	out := &Summary{Date: date}

	appts, err := s.scheduling.List(ctx, scheduling.ListFilter{Date: date})
	if err != nil {
		return nil, err
	}
	for _, a := range appts {
		if a.Status != scheduling.StatusCancelled && a.Status != scheduling.StatusNoShow {
			out.AppointmentsToday++
		}
	}

	for _, status := range []string{billing.StatusIssued, billing.StatusPartiallyPaid} {
		invoices, err := s.billing.ListInvoices(ctx, billing.ListFilter{Status: status})
		if err != nil {
			return nil, err
		}
		out.OutstandingInvoices += int64(len(invoices))
		for _, inv := range invoices {
			remaining, err := s.billing.Remaining(ctx, inv.ID)
			if err != nil {
				return nil, err
			}
			out.OutstandingAmountCents += remaining
		}
	}

	items, err := s.inventory.ReorderList(ctx)
	if err != nil {
		return nil, err
	}
	out.LowStockItems = int64(len(items))

	if s.patients != nil {
		all, err := s.patients.List(ctx, "")
		if err != nil {
			return nil, err
		}
		out.TotalPatients = int64(len(all))
	}

	return out, nil
}
