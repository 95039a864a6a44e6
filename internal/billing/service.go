package billing

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/wolfman30/dental-clinic-platform/internal/observability/metrics"
	"github.com/wolfman30/dental-clinic-platform/pkg/logging"
)

var billingTracer = otel.Tracer("clinic.internal.billing")

// Service handles invoice lifecycle, line-item edits, and payment
// reconciliation. Every mutation that touches the item list recomputes the
// invoice totals in full before persisting.
type Service struct {
	repo    Repository
	metrics *metrics.ClinicMetrics
	logger  *logging.Logger
}

// NewService creates a new billing service
func NewService(repo Repository, m *metrics.ClinicMetrics, logger *logging.Logger) *Service {
	if repo == nil {
		panic("billing: repository is required")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Service{repo: repo, metrics: m, logger: logger}
}

// UpdateInvoiceRequest carries the editable invoice header fields. Nil
// pointers leave the stored value untouched.
type UpdateInvoiceRequest struct {
	DiscountPercent *float64 `json:"discount_percent"`
	TaxPercent      *float64 `json:"tax_percent"`
	Status          *string  `json:"status"`
	DueDate         *string  `json:"due_date"`
	Notes           *string  `json:"notes"`
}

// CreateInvoice creates an invoice with its initial items and derived totals.
// New invoices start in the issued state unless the caller asked for a draft.
func (s *Service) CreateInvoice(ctx context.Context, req *CreateInvoiceRequest) (*InvoiceDetail, error) {
	ctx, span := billingTracer.Start(ctx, "billing.create_invoice")
	defer span.End()

	if err := req.Validate(); err != nil {
		return nil, err
	}

	items := make([]*InvoiceItem, 0, len(req.Items))
	for i := range req.Items {
		items = append(items, itemFromInput(&req.Items[i]))
	}

	issueDate := req.IssueDate
	if issueDate == "" {
		issueDate = time.Now().UTC().Format("2006-01-02")
	}

	inv := &Invoice{
		PatientID:       req.PatientID,
		AppointmentID:   req.AppointmentID,
		DiscountPercent: req.DiscountPercent,
		TaxPercent:      req.TaxPercent,
		Status:          StatusIssued,
		IssueDate:       issueDate,
		DueDate:         req.DueDate,
		Notes:           req.Notes,
	}
	ApplyTotals(inv, ComputeTotals(items, inv.DiscountPercent, inv.TaxPercent))

	detail, err := s.repo.CreateInvoice(ctx, inv, items)
	if err != nil {
		return nil, err
	}

	span.SetAttributes(
		attribute.String("invoice.id", detail.Invoice.ID),
		attribute.Int64("invoice.final_cents", detail.Invoice.FinalAmountCents),
	)
	s.logger.Info("invoice created",
		"invoice_id", detail.Invoice.ID,
		"patient_id", detail.Invoice.PatientID,
		"final_cents", detail.Invoice.FinalAmountCents,
	)
	return detail, nil
}

// GetInvoice returns an invoice with its items, payments, and the derived
// remaining balance.
func (s *Service) GetInvoice(ctx context.Context, id string) (*InvoiceDetail, error) {
	return s.repo.GetInvoice(ctx, id)
}

// ListInvoices returns invoices matching the filter.
func (s *Service) ListInvoices(ctx context.Context, filter ListFilter) ([]*Invoice, error) {
	if filter.Status != "" && !ValidStatus(filter.Status) {
		return nil, ErrInvalidStatus
	}
	return s.repo.ListInvoices(ctx, filter)
}

// UpdateInvoice edits invoice header fields. Changing the discount or tax
// percentage triggers a full recompute of the derived totals. A direct status
// edit is honored as-is; payment-driven promotion happens in RecordPayment.
func (s *Service) UpdateInvoice(ctx context.Context, id string, req *UpdateInvoiceRequest) (*InvoiceDetail, error) {
	ctx, span := billingTracer.Start(ctx, "billing.update_invoice")
	defer span.End()

	detail, err := s.repo.GetInvoice(ctx, id)
	if err != nil {
		return nil, err
	}
	inv := detail.Invoice

	if req.DiscountPercent != nil {
		if !validPercent(*req.DiscountPercent) {
			return nil, ErrInvalidPercent
		}
		inv.DiscountPercent = *req.DiscountPercent
	}
	if req.TaxPercent != nil {
		if !validPercent(*req.TaxPercent) {
			return nil, ErrInvalidPercent
		}
		inv.TaxPercent = *req.TaxPercent
	}
	if req.Status != nil {
		if !ValidStatus(*req.Status) {
			return nil, ErrInvalidStatus
		}
		inv.Status = *req.Status
	}
	if req.DueDate != nil {
		inv.DueDate = *req.DueDate
	}
	if req.Notes != nil {
		inv.Notes = *req.Notes
	}

	return s.recompute(ctx, span, detail)
}

// DeleteInvoice removes an invoice and its items and payments.
func (s *Service) DeleteInvoice(ctx context.Context, id string) error {
	return s.repo.DeleteInvoice(ctx, id)
}

// AddItem appends a line item and recomputes the invoice totals. The edit
// never touches the invoice status, even if the new final amount drops below
// what has already been paid.
func (s *Service) AddItem(ctx context.Context, invoiceID string, input *ItemInput) (*InvoiceDetail, error) {
	ctx, span := billingTracer.Start(ctx, "billing.add_item")
	defer span.End()

	if err := input.Validate(); err != nil {
		return nil, err
	}

	item := itemFromInput(input)
	item.InvoiceID = invoiceID
	if _, err := s.repo.AddItem(ctx, item); err != nil {
		return nil, err
	}

	detail, err := s.repo.GetInvoice(ctx, invoiceID)
	if err != nil {
		return nil, err
	}
	return s.recompute(ctx, span, detail)
}

// UpdateItem replaces a line item and recomputes the invoice totals.
func (s *Service) UpdateItem(ctx context.Context, invoiceID, itemID string, input *ItemInput) (*InvoiceDetail, error) {
	ctx, span := billingTracer.Start(ctx, "billing.update_item")
	defer span.End()

	if err := input.Validate(); err != nil {
		return nil, err
	}

	item := itemFromInput(input)
	item.ID = itemID
	item.InvoiceID = invoiceID
	if _, err := s.repo.UpdateItem(ctx, item); err != nil {
		return nil, err
	}

	detail, err := s.repo.GetInvoice(ctx, invoiceID)
	if err != nil {
		return nil, err
	}
	return s.recompute(ctx, span, detail)
}

// RemoveItem deletes a line item and recomputes the invoice totals.
func (s *Service) RemoveItem(ctx context.Context, invoiceID, itemID string) (*InvoiceDetail, error) {
	ctx, span := billingTracer.Start(ctx, "billing.remove_item")
	defer span.End()

	if err := s.repo.DeleteItem(ctx, invoiceID, itemID); err != nil {
		return nil, err
	}

	detail, err := s.repo.GetInvoice(ctx, invoiceID)
	if err != nil {
		return nil, err
	}
	return s.recompute(ctx, span, detail)
}

// RecordPayment appends a payment and promotes the invoice status based on
// the cumulative amount paid. Overpayments are accepted and absorbed; the
// remaining balance clamps at zero.
func (s *Service) RecordPayment(ctx context.Context, invoiceID string, req *RecordPaymentRequest) (*InvoiceDetail, error) {
	ctx, span := billingTracer.Start(ctx, "billing.record_payment")
	defer span.End()

	if err := req.Validate(); err != nil {
		return nil, err
	}

	detail, err := s.repo.GetInvoice(ctx, invoiceID)
	if err != nil {
		return nil, err
	}

	paymentDate := req.PaymentDate
	if paymentDate == "" {
		paymentDate = time.Now().UTC().Format("2006-01-02")
	}
	method := req.Method
	if method == "" {
		method = MethodCash
	}

	payment := &Payment{
		InvoiceID:   invoiceID,
		AmountCents: req.AmountCents,
		Method:      method,
		PaymentDate: paymentDate,
		Reference:   req.Reference,
		Notes:       req.Notes,
	}
	if _, err := s.repo.AddPayment(ctx, payment); err != nil {
		return nil, err
	}

	detail, err = s.repo.GetInvoice(ctx, invoiceID)
	if err != nil {
		return nil, err
	}

	inv := detail.Invoice
	totalPaid := TotalPaidCents(detail.Payments)
	next := NextStatus(inv.Status, totalPaid, inv.FinalAmountCents)

	if totalPaid > inv.FinalAmountCents {
		s.metrics.ObserveOverpayment()
		s.logger.Warn("invoice overpaid",
			"invoice_id", inv.ID,
			"final_cents", inv.FinalAmountCents,
			"paid_cents", totalPaid,
		)
	}

	if next != inv.Status {
		inv.Status = next
		if _, err := s.repo.UpdateInvoice(ctx, inv); err != nil {
			return nil, err
		}
	}

	s.metrics.ObservePayment(inv.Status)
	span.SetAttributes(
		attribute.String("invoice.id", inv.ID),
		attribute.String("invoice.status", inv.Status),
		attribute.Int64("payment.amount_cents", req.AmountCents),
	)
	s.logger.Info("payment recorded",
		"invoice_id", inv.ID,
		"amount_cents", req.AmountCents,
		"status", inv.Status,
		"remaining_cents", RemainingAmountCents(inv.FinalAmountCents, detail.Payments),
	)
	return s.repo.GetInvoice(ctx, invoiceID)
}

// Remaining returns the outstanding balance for an invoice.
func (s *Service) Remaining(ctx context.Context, invoiceID string) (int64, error) {
	detail, err := s.repo.GetInvoice(ctx, invoiceID)
	if err != nil {
		return 0, err
	}
	return RemainingAmountCents(detail.Invoice.FinalAmountCents, detail.Payments), nil
}

// recompute rederives the invoice totals from the current item list and
// persists the result.
func (s *Service) recompute(ctx context.Context, span trace.Span, detail *InvoiceDetail) (*InvoiceDetail, error) {
	inv := detail.Invoice
	ApplyTotals(inv, ComputeTotals(detail.Items, inv.DiscountPercent, inv.TaxPercent))

	if _, err := s.repo.UpdateInvoice(ctx, inv); err != nil {
		return nil, err
	}
	s.metrics.ObserveInvoiceRecompute()
	span.SetAttributes(attribute.Int64("invoice.final_cents", inv.FinalAmountCents))

	return s.repo.GetInvoice(ctx, inv.ID)
}

func itemFromInput(input *ItemInput) *InvoiceItem {
	return &InvoiceItem{
		TreatmentID:     input.TreatmentID,
		Description:     input.Description,
		Quantity:        input.Quantity,
		UnitPriceCents:  input.UnitPriceCents,
		DiscountPercent: input.DiscountPercent,
		AmountCents:     LineAmountCents(input.Quantity, input.UnitPriceCents, input.DiscountPercent),
	}
}
