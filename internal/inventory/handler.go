package inventory

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/wolfman30/dental-clinic-platform/pkg/logging"
)

// Handler handles HTTP requests for inventory items, transactions, and
// suppliers
type Handler struct {
	service *Service
	logger  *logging.Logger
}

// NewHandler creates a new inventory handler
func NewHandler(service *Service, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{service: service, logger: logger}
}

// CreateItem handles POST /api/inventory
func (h *Handler) CreateItem(w http.ResponseWriter, r *http.Request) {
	var item Item
	if err := json.NewDecoder(r.Body).Decode(&item); err != nil {
		h.logger.Error("failed to decode inventory item", "error", err)
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	created, err := h.service.CreateItem(r.Context(), &item)
	if err != nil {
		h.writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(created)
}

// ListItems handles GET /api/inventory
func (h *Handler) ListItems(w http.ResponseWriter, r *http.Request) {
	items, err := h.service.ListItems(r.Context())
	if err != nil {
		h.writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"items": items,
		"count": len(items),
	})
}

// GetItem handles GET /api/inventory/{id}
func (h *Handler) GetItem(w http.ResponseWriter, r *http.Request) {
	item, err := h.service.GetItem(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(item)
}

// UpdateItem handles PUT /api/inventory/{id}
func (h *Handler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	var item Item
	if err := json.NewDecoder(r.Body).Decode(&item); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	item.ID = chi.URLParam(r, "id")
	updated, err := h.service.UpdateItem(r.Context(), &item)
	if err != nil {
		h.writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(updated)
}

// DeleteItem handles DELETE /api/inventory/{id}
func (h *Handler) DeleteItem(w http.ResponseWriter, r *http.Request) {
	if err := h.service.DeleteItem(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ReorderList handles GET /api/inventory/reorder
func (h *Handler) ReorderList(w http.ResponseWriter, r *http.Request) {
	items, err := h.service.ReorderList(r.Context())
	if err != nil {
		h.writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"items": items,
		"count": len(items),
	})
}

// RecordTransaction handles POST /api/inventory-transactions
func (h *Handler) RecordTransaction(w http.ResponseWriter, r *http.Request) {
	var tx Transaction
	if err := json.NewDecoder(r.Body).Decode(&tx); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	recorded, item, err := h.service.RecordTransaction(r.Context(), &tx)
	if err != nil {
		h.writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(map[string]any{
		"transaction": recorded,
		"item":        item,
	})
}

// ListTransactions handles GET /api/inventory-transactions
func (h *Handler) ListTransactions(w http.ResponseWriter, r *http.Request) {
	txs, err := h.service.ListTransactions(r.Context(), r.URL.Query().Get("item_id"))
	if err != nil {
		h.writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"transactions": txs,
		"count":        len(txs),
	})
}

// CreateSupplier handles POST /api/suppliers
func (h *Handler) CreateSupplier(w http.ResponseWriter, r *http.Request) {
	var sup Supplier
	if err := json.NewDecoder(r.Body).Decode(&sup); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	created, err := h.service.CreateSupplier(r.Context(), &sup)
	if err != nil {
		h.writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(created)
}

// ListSuppliers handles GET /api/suppliers
func (h *Handler) ListSuppliers(w http.ResponseWriter, r *http.Request) {
	suppliers, err := h.service.ListSuppliers(r.Context())
	if err != nil {
		h.writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"suppliers": suppliers,
		"count":     len(suppliers),
	})
}

// GetSupplier handles GET /api/suppliers/{id}
func (h *Handler) GetSupplier(w http.ResponseWriter, r *http.Request) {
	sup, err := h.service.GetSupplier(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(sup)
}

// UpdateSupplier handles PUT /api/suppliers/{id}
func (h *Handler) UpdateSupplier(w http.ResponseWriter, r *http.Request) {
	var sup Supplier
	if err := json.NewDecoder(r.Body).Decode(&sup); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	sup.ID = chi.URLParam(r, "id")
	updated, err := h.service.UpdateSupplier(r.Context(), &sup)
	if err != nil {
		h.writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(updated)
}

// DeleteSupplier handles DELETE /api/suppliers/{id}
func (h *Handler) DeleteSupplier(w http.ResponseWriter, r *http.Request) {
	if err := h.service.DeleteSupplier(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrItemNotFound),
		errors.Is(err, ErrSupplierNotFound),
		errors.Is(err, ErrTransactionNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, ErrMissingName),
		errors.Is(err, ErrMissingItem),
		errors.Is(err, ErrInvalidTransactionType),
		errors.Is(err, ErrInvalidQuantity):
		http.Error(w, err.Error(), http.StatusBadRequest)
	default:
		h.logger.Error("inventory request failed", "error", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
	}
}
