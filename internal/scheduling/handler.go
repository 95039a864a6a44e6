package scheduling

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/wolfman30/dental-clinic-platform/pkg/logging"
)

// Handler handles HTTP requests for appointments
type Handler struct {
	service *Service
	logger  *logging.Logger
}

// NewHandler creates a new scheduling handler
func NewHandler(service *Service, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{service: service, logger: logger}
}

// CreateAppointment handles POST /api/appointments
func (h *Handler) CreateAppointment(w http.ResponseWriter, r *http.Request) {
	var req CreateAppointmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Error("failed to decode appointment request", "error", err)
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	appt, err := h.service.Book(r.Context(), &req, r.Header.Get("X-Session-ID"))
	if err != nil {
		h.writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(appt)
}

// ListAppointments handles GET /api/appointments
func (h *Handler) ListAppointments(w http.ResponseWriter, r *http.Request) {
	filter := ListFilter{
		PractitionerID: r.URL.Query().Get("practitioner_id"),
		PatientID:      r.URL.Query().Get("patient_id"),
		Date:           r.URL.Query().Get("date"),
	}
	appts, err := h.service.List(r.Context(), filter)
	if err != nil {
		h.logger.Error("failed to list appointments", "error", err)
		http.Error(w, "failed to list appointments", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"appointments": appts,
		"count":        len(appts),
	})
}

// GetAppointment handles GET /api/appointments/{id}
func (h *Handler) GetAppointment(w http.ResponseWriter, r *http.Request) {
	appt, err := h.service.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(appt)
}

// UpdateAppointment handles PUT /api/appointments/{id}
func (h *Handler) UpdateAppointment(w http.ResponseWriter, r *http.Request) {
	var req CreateAppointmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	appt, err := h.service.Reschedule(r.Context(), chi.URLParam(r, "id"), &req)
	if err != nil {
		h.writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(appt)
}

// UpdateStatus handles POST /api/appointments/{id}/status
func (h *Handler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	appt, err := h.service.UpdateStatus(r.Context(), chi.URLParam(r, "id"), req.Status)
	if err != nil {
		h.writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(appt)
}

// DeleteAppointment handles DELETE /api/appointments/{id}
func (h *Handler) DeleteAppointment(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// CheckAvailability handles GET /api/appointments/availability
func (h *Handler) CheckAvailability(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	available, err := h.service.CheckAvailability(
		r.Context(),
		q.Get("practitioner_id"),
		q.Get("date"),
		q.Get("start_time"),
		q.Get("end_time"),
		q.Get("exclude_appointment_id"),
	)
	if err != nil {
		h.writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]bool{"available": available})
}

// HoldSlot handles POST /api/appointments/holds
func (h *Handler) HoldSlot(w http.ResponseWriter, r *http.Request) {
	var req struct {
		PractitionerID string `json:"practitioner_id"`
		Date           string `json:"date"`
		StartTime      string `json:"start_time"`
		EndTime        string `json:"end_time"`
		SessionID      string `json:"session_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	hold, err := h.service.HoldSlot(r.Context(), req.PractitionerID, req.Date, req.StartTime, req.EndTime, req.SessionID)
	if err != nil {
		h.writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	if hold == nil {
		// Holds disabled (no Redis configured); booking proceeds without them.
		json.NewEncoder(w).Encode(map[string]bool{"held": false})
		return
	}
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(hold)
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrAppointmentNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, ErrSlotConflict), errors.Is(err, ErrSlotHeld):
		http.Error(w, err.Error(), http.StatusConflict)
	case errors.Is(err, ErrInvalidSlot),
		errors.Is(err, ErrInvalidClockTime),
		errors.Is(err, ErrMissingPractitioner),
		errors.Is(err, ErrMissingPatient),
		errors.Is(err, ErrMissingDate),
		errors.Is(err, ErrInvalidStatus):
		http.Error(w, err.Error(), http.StatusBadRequest)
	default:
		h.logger.Error("scheduling request failed", "error", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
	}
}
