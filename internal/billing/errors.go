package billing

import "errors"

var (
	// ErrInvoiceNotFound is returned when an invoice is not found
	ErrInvoiceNotFound = errors.New("invoice not found")

	// ErrItemNotFound is returned when an invoice item is not found
	ErrItemNotFound = errors.New("invoice item not found")

	// ErrMissingPatient is returned when the patient id is empty
	ErrMissingPatient = errors.New("patient_id is required")

	// ErrNoItems is returned when an invoice is created without line items
	ErrNoItems = errors.New("invoice requires at least one item")

	// ErrInvalidQuantity is returned for a non-positive item quantity
	ErrInvalidQuantity = errors.New("item quantity must be positive")

	// ErrInvalidUnitPrice is returned for a negative unit price
	ErrInvalidUnitPrice = errors.New("item unit price must not be negative")

	// ErrInvalidPercent is returned for a percentage outside [0, 100]
	ErrInvalidPercent = errors.New("percentage must be between 0 and 100")

	// ErrInvalidPaymentAmount is returned for a non-positive payment amount
	ErrInvalidPaymentAmount = errors.New("payment amount must be positive")

	// ErrInvalidStatus is returned for an unknown lifecycle status
	ErrInvalidStatus = errors.New("invalid invoice status")
)
