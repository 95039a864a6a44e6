package billing

import (
	"strings"
	"time"
)

// Invoice lifecycle statuses. Payment reconciliation only ever promotes an
// invoice forward (issued → partially_paid → paid); it never demotes.
const (
	StatusDraft         = "draft"
	StatusIssued        = "issued"
	StatusPaid          = "paid"
	StatusPartiallyPaid = "partially_paid"
	StatusCancelled     = "cancelled"
)

// Payment methods.
const (
	MethodCash         = "cash"
	MethodCreditCard   = "credit_card"
	MethodInsurance    = "insurance"
	MethodBankTransfer = "bank_transfer"
)

// Invoice carries derived monetary totals in integer cents. TotalAmountCents
// is the item subtotal; FinalAmountCents is the amount owed after the
// invoice-level discount and tax. All four derived fields are recomputed in
// full from the item list on every mutation.
type Invoice struct {
	ID                  string    `json:"id"`
	PatientID           string    `json:"patient_id"`
	AppointmentID       string    `json:"appointment_id,omitempty"`
	TotalAmountCents    int64     `json:"total_amount_cents"`
	DiscountPercent     float64   `json:"discount_percent"`
	DiscountAmountCents int64     `json:"discount_amount_cents"`
	TaxPercent          float64   `json:"tax_percent"`
	TaxAmountCents      int64     `json:"tax_amount_cents"`
	FinalAmountCents    int64     `json:"final_amount_cents"`
	Status              string    `json:"status"`
	IssueDate           string    `json:"issue_date"`
	DueDate             string    `json:"due_date"`
	Notes               string    `json:"notes,omitempty"`
	CreatedAt           time.Time `json:"created_at"`
	UpdatedAt           time.Time `json:"updated_at"`
}

// InvoiceItem is one line on an invoice. AmountCents is the computed line
// amount after the per-item discount.
type InvoiceItem struct {
	ID              string    `json:"id"`
	InvoiceID       string    `json:"invoice_id"`
	TreatmentID     string    `json:"treatment_id"`
	Description     string    `json:"description"`
	Quantity        int64     `json:"quantity"`
	UnitPriceCents  int64     `json:"unit_price_cents"`
	DiscountPercent float64   `json:"discount_percent"`
	AmountCents     int64     `json:"amount_cents"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// Payment is an immutable record of money received against an invoice.
type Payment struct {
	ID          string    `json:"id"`
	InvoiceID   string    `json:"invoice_id"`
	AmountCents int64     `json:"amount_cents"`
	Method      string    `json:"method"`
	PaymentDate string    `json:"payment_date"`
	Reference   string    `json:"reference,omitempty"`
	Notes       string    `json:"notes,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// InvoiceDetail bundles an invoice with its items and payments.
type InvoiceDetail struct {
	Invoice  *Invoice       `json:"invoice"`
	Items    []*InvoiceItem `json:"items"`
	Payments []*Payment     `json:"payments"`
}

// ItemInput describes one line item on a create/update request.
type ItemInput struct {
	TreatmentID     string  `json:"treatment_id"`
	Description     string  `json:"description"`
	Quantity        int64   `json:"quantity"`
	UnitPriceCents  int64   `json:"unit_price_cents"`
	DiscountPercent float64 `json:"discount_percent"`
}

// Validate checks one line item.
func (i *ItemInput) Validate() error {
	if i.Quantity <= 0 {
		return ErrInvalidQuantity
	}
	if i.UnitPriceCents < 0 {
		return ErrInvalidUnitPrice
	}
	if !validPercent(i.DiscountPercent) {
		return ErrInvalidPercent
	}
	return nil
}

// CreateInvoiceRequest is the request body for creating an invoice with its
// initial line items.
type CreateInvoiceRequest struct {
	PatientID       string      `json:"patient_id"`
	AppointmentID   string      `json:"appointment_id"`
	DiscountPercent float64     `json:"discount_percent"`
	TaxPercent      float64     `json:"tax_percent"`
	IssueDate       string      `json:"issue_date"`
	DueDate         string      `json:"due_date"`
	Notes           string      `json:"notes"`
	Items           []ItemInput `json:"items"`
}

// Validate validates the create invoice request
func (r *CreateInvoiceRequest) Validate() error {
	if strings.TrimSpace(r.PatientID) == "" {
		return ErrMissingPatient
	}
	if len(r.Items) == 0 {
		return ErrNoItems
	}
	if !validPercent(r.DiscountPercent) || !validPercent(r.TaxPercent) {
		return ErrInvalidPercent
	}
	for i := range r.Items {
		if err := r.Items[i].Validate(); err != nil {
			return err
		}
	}
	return nil
}

// RecordPaymentRequest is the request body for recording a payment.
type RecordPaymentRequest struct {
	AmountCents int64  `json:"amount_cents"`
	Method      string `json:"method"`
	PaymentDate string `json:"payment_date"`
	Reference   string `json:"reference"`
	Notes       string `json:"notes"`
}

// Validate validates the record payment request
func (r *RecordPaymentRequest) Validate() error {
	if r.AmountCents <= 0 {
		return ErrInvalidPaymentAmount
	}
	return nil
}

func validPercent(p float64) bool {
	return p >= 0 && p <= 100
}

// ValidStatus reports whether s is a known lifecycle status.
func ValidStatus(s string) bool {
	switch s {
	case StatusDraft, StatusIssued, StatusPaid, StatusPartiallyPaid, StatusCancelled:
		return true
	}
	return false
}
