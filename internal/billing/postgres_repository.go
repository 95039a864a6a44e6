package billing

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// billingDB is the pgx surface the repository needs; pgxmock satisfies it in
// tests.
type billingDB interface {
	Begin(ctx context.Context) (pgx.Tx, error)
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// execer is the write surface shared by billingDB and pgx.Tx.
type execer interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// PostgresRepository persists invoices, items, and payments in Postgres.
type PostgresRepository struct {
	db billingDB
}

// NewPostgresRepository creates a repository backed by a pgx pool.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	if pool == nil {
		panic("billing: pgx pool required")
	}
	return &PostgresRepository{db: pool}
}

// NewPostgresRepositoryWithDB allows injecting a mock database for testing.
func NewPostgresRepositoryWithDB(db billingDB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const invoiceColumns = `id, patient_id, appointment_id, total_amount_cents, discount_percent, discount_amount_cents, tax_percent, tax_amount_cents, final_amount_cents, status, issue_date, due_date, notes, created_at, updated_at`

const itemColumns = `id, invoice_id, treatment_id, description, quantity, unit_price_cents, discount_percent, amount_cents, created_at, updated_at`

const paymentColumns = `id, invoice_id, amount_cents, method, payment_date, reference, notes, created_at`

// CreateInvoice inserts the invoice row and its initial items in one
// database transaction, so a failed item insert leaves no partial invoice.
func (r *PostgresRepository) CreateInvoice(ctx context.Context, inv *Invoice, items []*InvoiceItem) (*InvoiceDetail, error) {
	now := time.Now().UTC()
	stored := *inv
	stored.ID = uuid.NewString()
	stored.CreatedAt = now
	stored.UpdatedAt = now

	dbtx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("billing: begin tx: %w", err)
	}
	defer dbtx.Rollback(ctx)

	_, err = dbtx.Exec(ctx, `
		INSERT INTO invoices (id, patient_id, appointment_id, total_amount_cents, discount_percent, discount_amount_cents, tax_percent, tax_amount_cents, final_amount_cents, status, issue_date, due_date, notes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
	`, stored.ID, stored.PatientID, stored.AppointmentID, stored.TotalAmountCents, stored.DiscountPercent, stored.DiscountAmountCents, stored.TaxPercent, stored.TaxAmountCents, stored.FinalAmountCents, stored.Status, stored.IssueDate, stored.DueDate, stored.Notes, stored.CreatedAt, stored.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("billing: insert invoice: %w", err)
	}

	for _, item := range items {
		copied := *item
		copied.InvoiceID = stored.ID
		if _, err := r.insertItem(ctx, dbtx, &copied); err != nil {
			return nil, err
		}
	}

	if err := dbtx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("billing: commit tx: %w", err)
	}
	return r.GetInvoice(ctx, stored.ID)
}

// GetInvoice loads the invoice with its items and payments.
func (r *PostgresRepository) GetInvoice(ctx context.Context, id string) (*InvoiceDetail, error) {
	row := r.db.QueryRow(ctx, `SELECT `+invoiceColumns+` FROM invoices WHERE id = $1`, id)
	inv, err := scanInvoice(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrInvoiceNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("billing: load invoice: %w", err)
	}

	items, err := r.listItems(ctx, id)
	if err != nil {
		return nil, err
	}
	payments, err := r.listPayments(ctx, id)
	if err != nil {
		return nil, err
	}
	return &InvoiceDetail{Invoice: inv, Items: items, Payments: payments}, nil
}

// ListInvoices returns invoice rows matching the filter, newest first.
func (r *PostgresRepository) ListInvoices(ctx context.Context, filter ListFilter) ([]*Invoice, error) {
	query := `SELECT ` + invoiceColumns + ` FROM invoices WHERE 1=1`
	args := []any{}
	argIdx := 1
	if filter.PatientID != "" {
		query += fmt.Sprintf(" AND patient_id = $%d", argIdx)
		args = append(args, filter.PatientID)
		argIdx++
	}
	if filter.Status != "" {
		query += fmt.Sprintf(" AND status = $%d", argIdx)
		args = append(args, filter.Status)
		argIdx++
	}
	query += " ORDER BY created_at DESC, id"

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("billing: list invoices: %w", err)
	}
	defer rows.Close()

	var out []*Invoice
	for rows.Next() {
		inv, err := scanInvoice(rows)
		if err != nil {
			return nil, fmt.Errorf("billing: scan invoice: %w", err)
		}
		out = append(out, inv)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("billing: list invoices: %w", err)
	}
	return out, nil
}

// UpdateInvoice rewrites the invoice row.
func (r *PostgresRepository) UpdateInvoice(ctx context.Context, inv *Invoice) (*Invoice, error) {
	stored := *inv
	stored.UpdatedAt = time.Now().UTC()

	tag, err := r.db.Exec(ctx, `
		UPDATE invoices
		SET patient_id = $2, appointment_id = $3, total_amount_cents = $4, discount_percent = $5, discount_amount_cents = $6, tax_percent = $7, tax_amount_cents = $8, final_amount_cents = $9, status = $10, issue_date = $11, due_date = $12, notes = $13, updated_at = $14
		WHERE id = $1
	`, stored.ID, stored.PatientID, stored.AppointmentID, stored.TotalAmountCents, stored.DiscountPercent, stored.DiscountAmountCents, stored.TaxPercent, stored.TaxAmountCents, stored.FinalAmountCents, stored.Status, stored.IssueDate, stored.DueDate, stored.Notes, stored.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("billing: update invoice: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return nil, ErrInvoiceNotFound
	}
	return &stored, nil
}

// DeleteInvoice removes the invoice; items and payments cascade.
func (r *PostgresRepository) DeleteInvoice(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM invoices WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("billing: delete invoice: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrInvoiceNotFound
	}
	return nil
}

// AddItem inserts a line item for an existing invoice.
func (r *PostgresRepository) AddItem(ctx context.Context, item *InvoiceItem) (*InvoiceItem, error) {
	if err := r.invoiceExists(ctx, item.InvoiceID); err != nil {
		return nil, err
	}
	return r.insertItem(ctx, r.db, item)
}

// UpdateItem rewrites a line item row.
func (r *PostgresRepository) UpdateItem(ctx context.Context, item *InvoiceItem) (*InvoiceItem, error) {
	if err := r.invoiceExists(ctx, item.InvoiceID); err != nil {
		return nil, err
	}
	stored := *item
	stored.UpdatedAt = time.Now().UTC()

	tag, err := r.db.Exec(ctx, `
		UPDATE invoice_items
		SET treatment_id = $3, description = $4, quantity = $5, unit_price_cents = $6, discount_percent = $7, amount_cents = $8, updated_at = $9
		WHERE id = $1 AND invoice_id = $2
	`, stored.ID, stored.InvoiceID, stored.TreatmentID, stored.Description, stored.Quantity, stored.UnitPriceCents, stored.DiscountPercent, stored.AmountCents, stored.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("billing: update item: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return nil, ErrItemNotFound
	}
	return &stored, nil
}

// DeleteItem removes a line item row.
func (r *PostgresRepository) DeleteItem(ctx context.Context, invoiceID, itemID string) error {
	if err := r.invoiceExists(ctx, invoiceID); err != nil {
		return err
	}
	tag, err := r.db.Exec(ctx, `DELETE FROM invoice_items WHERE id = $1 AND invoice_id = $2`, itemID, invoiceID)
	if err != nil {
		return fmt.Errorf("billing: delete item: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrItemNotFound
	}
	return nil
}

// AddPayment inserts a payment row.
func (r *PostgresRepository) AddPayment(ctx context.Context, payment *Payment) (*Payment, error) {
	if err := r.invoiceExists(ctx, payment.InvoiceID); err != nil {
		return nil, err
	}
	stored := *payment
	stored.ID = uuid.NewString()
	stored.CreatedAt = time.Now().UTC()

	_, err := r.db.Exec(ctx, `
		INSERT INTO payments (id, invoice_id, amount_cents, method, payment_date, reference, notes, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, stored.ID, stored.InvoiceID, stored.AmountCents, stored.Method, stored.PaymentDate, stored.Reference, stored.Notes, stored.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("billing: insert payment: %w", err)
	}
	return &stored, nil
}

func (r *PostgresRepository) insertItem(ctx context.Context, db execer, item *InvoiceItem) (*InvoiceItem, error) {
	now := time.Now().UTC()
	stored := *item
	stored.ID = uuid.NewString()
	stored.CreatedAt = now
	stored.UpdatedAt = now

	_, err := db.Exec(ctx, `
		INSERT INTO invoice_items (id, invoice_id, treatment_id, description, quantity, unit_price_cents, discount_percent, amount_cents, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`, stored.ID, stored.InvoiceID, stored.TreatmentID, stored.Description, stored.Quantity, stored.UnitPriceCents, stored.DiscountPercent, stored.AmountCents, stored.CreatedAt, stored.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("billing: insert item: %w", err)
	}
	return &stored, nil
}

func (r *PostgresRepository) invoiceExists(ctx context.Context, id string) error {
	var found string
	err := r.db.QueryRow(ctx, `SELECT id FROM invoices WHERE id = $1`, id).Scan(&found)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrInvoiceNotFound
	}
	if err != nil {
		return fmt.Errorf("billing: check invoice: %w", err)
	}
	return nil
}

func (r *PostgresRepository) listItems(ctx context.Context, invoiceID string) ([]*InvoiceItem, error) {
	rows, err := r.db.Query(ctx, `SELECT `+itemColumns+` FROM invoice_items WHERE invoice_id = $1 ORDER BY created_at, id`, invoiceID)
	if err != nil {
		return nil, fmt.Errorf("billing: list items: %w", err)
	}
	defer rows.Close()

	out := make([]*InvoiceItem, 0)
	for rows.Next() {
		var item InvoiceItem
		if err := rows.Scan(
			&item.ID,
			&item.InvoiceID,
			&item.TreatmentID,
			&item.Description,
			&item.Quantity,
			&item.UnitPriceCents,
			&item.DiscountPercent,
			&item.AmountCents,
			&item.CreatedAt,
			&item.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("billing: scan item: %w", err)
		}
		out = append(out, &item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("billing: list items: %w", err)
	}
	return out, nil
}

func (r *PostgresRepository) listPayments(ctx context.Context, invoiceID string) ([]*Payment, error) {
	rows, err := r.db.Query(ctx, `SELECT `+paymentColumns+` FROM payments WHERE invoice_id = $1 ORDER BY created_at, id`, invoiceID)
	if err != nil {
		return nil, fmt.Errorf("billing: list payments: %w", err)
	}
	defer rows.Close()

	out := make([]*Payment, 0)
	for rows.Next() {
		var p Payment
		if err := rows.Scan(
			&p.ID,
			&p.InvoiceID,
			&p.AmountCents,
			&p.Method,
			&p.PaymentDate,
			&p.Reference,
			&p.Notes,
			&p.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("billing: scan payment: %w", err)
		}
		out = append(out, &p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("billing: list payments: %w", err)
	}
	return out, nil
}

func scanInvoice(row pgx.Row) (*Invoice, error) {
	var inv Invoice
	err := row.Scan(
		&inv.ID,
		&inv.PatientID,
		&inv.AppointmentID,
		&inv.TotalAmountCents,
		&inv.DiscountPercent,
		&inv.DiscountAmountCents,
		&inv.TaxPercent,
		&inv.TaxAmountCents,
		&inv.FinalAmountCents,
		&inv.Status,
		&inv.IssueDate,
		&inv.DueDate,
		&inv.Notes,
		&inv.CreatedAt,
		&inv.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &inv, nil
}
