package clinic

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/wolfman30/dental-clinic-platform/pkg/logging"
)

// Handler handles HTTP requests for the dashboard summary
type Handler struct {
	summarizer Summarizer
	logger     *logging.Logger
}

// NewHandler creates a new dashboard handler
func NewHandler(summarizer Summarizer, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{summarizer: summarizer, logger: logger}
}

// GetSummary handles GET /api/dashboard. The date defaults to today (UTC)
// and can be overridden with ?date=YYYY-MM-DD.
func (h *Handler) GetSummary(w http.ResponseWriter, r *http.Request) {
	date := r.URL.Query().Get("date")
	if date == "" {
		date = time.Now().UTC().Format("2006-01-02")
	}

	summary, err := h.summarizer.Summarize(r.Context(), date)
	if err != nil {
		h.logger.Error("dashboard summary failed", "error", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(summary)
}
