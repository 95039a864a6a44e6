package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/wolfman30/dental-clinic-platform/internal/billing"
	"github.com/wolfman30/dental-clinic-platform/internal/clinic"
	httpmiddleware "github.com/wolfman30/dental-clinic-platform/internal/http/middleware"
	"github.com/wolfman30/dental-clinic-platform/internal/inventory"
	"github.com/wolfman30/dental-clinic-platform/internal/notify"
	"github.com/wolfman30/dental-clinic-platform/internal/patients"
	"github.com/wolfman30/dental-clinic-platform/internal/scheduling"
	"github.com/wolfman30/dental-clinic-platform/internal/treatments"
	"github.com/wolfman30/dental-clinic-platform/pkg/logging"
)

// Config holds router configuration
type Config struct {
	Logger             *logging.Logger
	SchedulingHandler  *scheduling.Handler
	BillingHandler     *billing.Handler
	InventoryHandler   *inventory.Handler
	PatientsHandler    *patients.Handler
	TreatmentsHandler  *treatments.Handler
	DashboardHandler   *clinic.Handler
	NotifyHandler      *notify.Handler
	MetricsHandler     http.Handler
	CORSAllowedOrigins []string
	RateLimitPerSecond float64
	RateLimitBurst     int
}

// New creates a new Chi router with all routes configured
func New(cfg *Config) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Compress(5))
	if len(cfg.CORSAllowedOrigins) > 0 {
		r.Use(httpmiddleware.CORS(cfg.CORSAllowedOrigins))
	}
	if cfg.Logger != nil {
		r.Use(httpmiddleware.RequestLogger(cfg.Logger))
	}
	if cfg.RateLimitPerSecond > 0 {
		r.Use(httpmiddleware.RateLimit(cfg.RateLimitPerSecond, cfg.RateLimitBurst))
	}

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})
	if cfg.MetricsHandler != nil {
		r.Handle("/metrics", cfg.MetricsHandler)
	}

	r.Route("/api", func(api chi.Router) {
		if h := cfg.SchedulingHandler; h != nil {
			api.Route("/appointments", func(r chi.Router) {
				r.Get("/", h.ListAppointments)
				r.Post("/", h.CreateAppointment)
				r.Get("/availability", h.CheckAvailability)
				r.Post("/holds", h.HoldSlot)
				r.Route("/{id}", func(r chi.Router) {
					r.Get("/", h.GetAppointment)
					r.Put("/", h.UpdateAppointment)
					r.Delete("/", h.DeleteAppointment)
					r.Post("/status", h.UpdateStatus)
				})
			})
		}

		if h := cfg.BillingHandler; h != nil {
			api.Route("/invoices", func(r chi.Router) {
				r.Get("/", h.ListInvoices)
				r.Post("/", h.CreateInvoice)
				r.Route("/{id}", func(r chi.Router) {
					r.Get("/", h.GetInvoice)
					r.Put("/", h.UpdateInvoice)
					r.Delete("/", h.DeleteInvoice)
					r.Get("/remaining", h.GetRemaining)
					r.Post("/items", h.AddItem)
					r.Put("/items/{itemID}", h.UpdateItem)
					r.Delete("/items/{itemID}", h.RemoveItem)
					r.Get("/payments", h.GetInvoice)
					r.Post("/payments", h.RecordPayment)
				})
			})
		}

		if h := cfg.InventoryHandler; h != nil {
			api.Route("/inventory", func(r chi.Router) {
				r.Get("/", h.ListItems)
				r.Post("/", h.CreateItem)
				r.Get("/reorder", h.ReorderList)
				r.Route("/{id}", func(r chi.Router) {
					r.Get("/", h.GetItem)
					r.Put("/", h.UpdateItem)
					r.Delete("/", h.DeleteItem)
				})
			})
			api.Route("/inventory-transactions", func(r chi.Router) {
				r.Get("/", h.ListTransactions)
				r.Post("/", h.RecordTransaction)
			})
			api.Route("/suppliers", func(r chi.Router) {
				r.Get("/", h.ListSuppliers)
				r.Post("/", h.CreateSupplier)
				r.Route("/{id}", func(r chi.Router) {
					r.Get("/", h.GetSupplier)
					r.Put("/", h.UpdateSupplier)
					r.Delete("/", h.DeleteSupplier)
				})
			})
		}

		if h := cfg.PatientsHandler; h != nil {
			api.Route("/patients", func(r chi.Router) {
				r.Get("/", h.List)
				r.Post("/", h.Create)
				r.Route("/{id}", func(r chi.Router) {
					r.Get("/", h.Get)
					r.Put("/", h.Update)
					r.Delete("/", h.Delete)
				})
			})
		}

		if h := cfg.TreatmentsHandler; h != nil {
			api.Route("/treatments", func(r chi.Router) {
				r.Get("/", h.List)
				r.Post("/", h.Create)
				r.Route("/{id}", func(r chi.Router) {
					r.Get("/", h.Get)
					r.Put("/", h.Update)
					r.Delete("/", h.Delete)
				})
			})
		}

		if h := cfg.DashboardHandler; h != nil {
			api.Get("/dashboard", h.GetSummary)
		}

		if h := cfg.NotifyHandler; h != nil {
			api.Route("/notifications", func(r chi.Router) {
				r.Get("/", h.List)
				r.Post("/{id}/read", h.MarkRead)
			})
		}
	})

	return r
}
