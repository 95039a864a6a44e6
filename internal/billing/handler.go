package billing

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/wolfman30/dental-clinic-platform/pkg/logging"
)

// Handler handles HTTP requests for invoices and payments
type Handler struct {
	service *Service
	logger  *logging.Logger
}

// NewHandler creates a new billing handler
func NewHandler(service *Service, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{service: service, logger: logger}
}

// CreateInvoice handles POST /api/invoices
func (h *Handler) CreateInvoice(w http.ResponseWriter, r *http.Request) {
	var req CreateInvoiceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Error("failed to decode invoice request", "error", err)
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	detail, err := h.service.CreateInvoice(r.Context(), &req)
	if err != nil {
		h.writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(detail)
}

// ListInvoices handles GET /api/invoices
func (h *Handler) ListInvoices(w http.ResponseWriter, r *http.Request) {
	filter := ListFilter{
		PatientID: r.URL.Query().Get("patient_id"),
		Status:    r.URL.Query().Get("status"),
	}
	invoices, err := h.service.ListInvoices(r.Context(), filter)
	if err != nil {
		h.writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"invoices": invoices,
		"count":    len(invoices),
	})
}

// GetInvoice handles GET /api/invoices/{id}
func (h *Handler) GetInvoice(w http.ResponseWriter, r *http.Request) {
	detail, err := h.service.GetInvoice(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(detail)
}

// UpdateInvoice handles PUT /api/invoices/{id}
func (h *Handler) UpdateInvoice(w http.ResponseWriter, r *http.Request) {
	var req UpdateInvoiceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	detail, err := h.service.UpdateInvoice(r.Context(), chi.URLParam(r, "id"), &req)
	if err != nil {
		h.writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(detail)
}

// DeleteInvoice handles DELETE /api/invoices/{id}
func (h *Handler) DeleteInvoice(w http.ResponseWriter, r *http.Request) {
	if err := h.service.DeleteInvoice(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// AddItem handles POST /api/invoices/{id}/items
func (h *Handler) AddItem(w http.ResponseWriter, r *http.Request) {
	var input ItemInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	detail, err := h.service.AddItem(r.Context(), chi.URLParam(r, "id"), &input)
	if err != nil {
		h.writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(detail)
}

// UpdateItem handles PUT /api/invoices/{id}/items/{itemID}
func (h *Handler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	var input ItemInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	detail, err := h.service.UpdateItem(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "itemID"), &input)
	if err != nil {
		h.writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(detail)
}

// RemoveItem handles DELETE /api/invoices/{id}/items/{itemID}
func (h *Handler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	detail, err := h.service.RemoveItem(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "itemID"))
	if err != nil {
		h.writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(detail)
}

// RecordPayment handles POST /api/invoices/{id}/payments
func (h *Handler) RecordPayment(w http.ResponseWriter, r *http.Request) {
	var req RecordPaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	detail, err := h.service.RecordPayment(r.Context(), chi.URLParam(r, "id"), &req)
	if err != nil {
		h.writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(detail)
}

// GetRemaining handles GET /api/invoices/{id}/remaining
func (h *Handler) GetRemaining(w http.ResponseWriter, r *http.Request) {
	remaining, err := h.service.Remaining(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]int64{"remaining_cents": remaining})
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrInvoiceNotFound), errors.Is(err, ErrItemNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, ErrMissingPatient),
		errors.Is(err, ErrNoItems),
		errors.Is(err, ErrInvalidQuantity),
		errors.Is(err, ErrInvalidUnitPrice),
		errors.Is(err, ErrInvalidPercent),
		errors.Is(err, ErrInvalidPaymentAmount),
		errors.Is(err, ErrInvalidStatus):
		http.Error(w, err.Error(), http.StatusBadRequest)
	default:
		h.logger.Error("billing request failed", "error", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
	}
}
