package billing

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// ListFilter narrows invoice listings. Empty fields match everything.
type ListFilter struct {
	PatientID string
	Status    string
}

// Repository defines the interface for invoice storage. Items and payments
// are owned by their invoice; payments are append-only.
type Repository interface {
	CreateInvoice(ctx context.Context, inv *Invoice, items []*InvoiceItem) (*InvoiceDetail, error)
	GetInvoice(ctx context.Context, id string) (*InvoiceDetail, error)
	ListInvoices(ctx context.Context, filter ListFilter) ([]*Invoice, error)
	UpdateInvoice(ctx context.Context, inv *Invoice) (*Invoice, error)
	DeleteInvoice(ctx context.Context, id string) error

	AddItem(ctx context.Context, item *InvoiceItem) (*InvoiceItem, error)
	UpdateItem(ctx context.Context, item *InvoiceItem) (*InvoiceItem, error)
	DeleteItem(ctx context.Context, invoiceID, itemID string) error

	AddPayment(ctx context.Context, payment *Payment) (*Payment, error)
}

type invoiceRecord struct {
	invoice  *Invoice
	items    []*InvoiceItem
	payments []*Payment
}

// InMemoryRepository stores invoices in memory, guarded by a mutex.
type InMemoryRepository struct {
	mu       sync.RWMutex
	invoices map[string]*invoiceRecord
}

// NewInMemoryRepository creates a new in-memory repository
func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{
		invoices: make(map[string]*invoiceRecord),
	}
}

// CreateInvoice stores an invoice with its initial items.
func (r *InMemoryRepository) CreateInvoice(ctx context.Context, inv *Invoice, items []*InvoiceItem) (*InvoiceDetail, error) {
	now := time.Now().UTC()
	stored := *inv
	stored.ID = uuid.NewString()
	stored.CreatedAt = now
	stored.UpdatedAt = now

	rec := &invoiceRecord{invoice: &stored}
	for _, item := range items {
		copied := *item
		copied.ID = uuid.NewString()
		copied.InvoiceID = stored.ID
		copied.CreatedAt = now
		copied.UpdatedAt = now
		rec.items = append(rec.items, &copied)
	}

	r.mu.Lock()
	r.invoices[stored.ID] = rec
	r.mu.Unlock()

	return r.GetInvoice(ctx, stored.ID)
}

// GetInvoice returns the invoice with its items and payments.
func (r *InMemoryRepository) GetInvoice(ctx context.Context, id string) (*InvoiceDetail, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rec, ok := r.invoices[id]
	if !ok {
		return nil, ErrInvoiceNotFound
	}
	return copyDetail(rec), nil
}

// ListInvoices returns invoices matching the filter, newest first.
func (r *InMemoryRepository) ListInvoices(ctx context.Context, filter ListFilter) ([]*Invoice, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*Invoice, 0)
	for _, rec := range r.invoices {
		if filter.PatientID != "" && rec.invoice.PatientID != filter.PatientID {
			continue
		}
		if filter.Status != "" && rec.invoice.Status != filter.Status {
			continue
		}
		copied := *rec.invoice
		out = append(out, &copied)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

// UpdateInvoice replaces the stored invoice row, keeping items and payments.
func (r *InMemoryRepository) UpdateInvoice(ctx context.Context, inv *Invoice) (*Invoice, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	rec, ok := r.invoices[inv.ID]
	if !ok {
		return nil, ErrInvoiceNotFound
	}
	stored := *inv
	stored.CreatedAt = rec.invoice.CreatedAt
	stored.UpdatedAt = time.Now().UTC()
	rec.invoice = &stored

	out := stored
	return &out, nil
}

// DeleteInvoice removes the invoice and everything it owns.
func (r *InMemoryRepository) DeleteInvoice(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.invoices[id]; !ok {
		return ErrInvoiceNotFound
	}
	delete(r.invoices, id)
	return nil
}

// AddItem appends a line item to an existing invoice.
func (r *InMemoryRepository) AddItem(ctx context.Context, item *InvoiceItem) (*InvoiceItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	rec, ok := r.invoices[item.InvoiceID]
	if !ok {
		return nil, ErrInvoiceNotFound
	}
	now := time.Now().UTC()
	copied := *item
	copied.ID = uuid.NewString()
	copied.CreatedAt = now
	copied.UpdatedAt = now
	rec.items = append(rec.items, &copied)

	out := copied
	return &out, nil
}

// UpdateItem replaces an existing line item.
func (r *InMemoryRepository) UpdateItem(ctx context.Context, item *InvoiceItem) (*InvoiceItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	rec, ok := r.invoices[item.InvoiceID]
	if !ok {
		return nil, ErrInvoiceNotFound
	}
	for i, existing := range rec.items {
		if existing.ID == item.ID {
			copied := *item
			copied.CreatedAt = existing.CreatedAt
			copied.UpdatedAt = time.Now().UTC()
			rec.items[i] = &copied

			out := copied
			return &out, nil
		}
	}
	return nil, ErrItemNotFound
}

// DeleteItem removes a line item from an invoice.
func (r *InMemoryRepository) DeleteItem(ctx context.Context, invoiceID, itemID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	rec, ok := r.invoices[invoiceID]
	if !ok {
		return ErrInvoiceNotFound
	}
	for i, existing := range rec.items {
		if existing.ID == itemID {
			rec.items = append(rec.items[:i], rec.items[i+1:]...)
			return nil
		}
	}
	return ErrItemNotFound
}

// AddPayment appends a payment record. Payments are never edited or removed.
func (r *InMemoryRepository) AddPayment(ctx context.Context, payment *Payment) (*Payment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	rec, ok := r.invoices[payment.InvoiceID]
	if !ok {
		return nil, ErrInvoiceNotFound
	}
	copied := *payment
	copied.ID = uuid.NewString()
	copied.CreatedAt = time.Now().UTC()
	rec.payments = append(rec.payments, &copied)

	out := copied
	return &out, nil
}

func copyDetail(rec *invoiceRecord) *InvoiceDetail {
	inv := *rec.invoice
	detail := &InvoiceDetail{
		Invoice:  &inv,
		Items:    make([]*InvoiceItem, 0, len(rec.items)),
		Payments: make([]*Payment, 0, len(rec.payments)),
	}
	for _, item := range rec.items {
		copied := *item
		detail.Items = append(detail.Items, &copied)
	}
	for _, p := range rec.payments {
		copied := *p
		detail.Payments = append(detail.Payments, &copied)
	}
	return detail
}
