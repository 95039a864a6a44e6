package treatments

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/wolfman30/dental-clinic-platform/pkg/logging"
)

// Handler handles HTTP requests for the treatment catalog
type Handler struct {
	repo   Repository
	logger *logging.Logger
}

// NewHandler creates a new treatments handler
func NewHandler(repo Repository, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{repo: repo, logger: logger}
}

// Create handles POST /api/treatments
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var t Treatment
	if err := json.NewDecoder(r.Body).Decode(&t); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if err := t.Validate(); err != nil {
		h.writeError(w, err)
		return
	}
	created, err := h.repo.Create(r.Context(), &t)
	if err != nil {
		h.writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(created)
}

// List handles GET /api/treatments
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	list, err := h.repo.List(r.Context(), r.URL.Query().Get("category"))
	if err != nil {
		h.writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"treatments": list,
		"count":      len(list),
	})
}

// Get handles GET /api/treatments/{id}
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	t, err := h.repo.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(t)
}

// Update handles PUT /api/treatments/{id}
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	var t Treatment
	if err := json.NewDecoder(r.Body).Decode(&t); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	t.ID = chi.URLParam(r, "id")
	if err := t.Validate(); err != nil {
		h.writeError(w, err)
		return
	}
	updated, err := h.repo.Update(r.Context(), &t)
	if err != nil {
		h.writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(updated)
}

// Delete handles DELETE /api/treatments/{id}
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.repo.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrTreatmentNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, ErrMissingName), errors.Is(err, ErrInvalidPrice):
		http.Error(w, err.Error(), http.StatusBadRequest)
	default:
		h.logger.Error("treatments request failed", "error", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
	}
}
