package notify

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/wolfman30/dental-clinic-platform/pkg/logging"
)

// Notification kinds surfaced on the dashboard.
const (
	KindInventoryAlert      = "inventory_alert"
	KindPaymentDue          = "payment_due"
	KindAppointmentReminder = "appointment_reminder"
)

// ErrNotificationNotFound is returned when a notification is not found
var ErrNotificationNotFound = errors.New("notification not found")

// Notification is an in-app record shown to front-desk staff. Delivery
// channels (SMS, email) are out of scope; these are dashboard entries only.
type Notification struct {
	ID        string    `json:"id"`
	Kind      string    `json:"kind"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	RefID     string    `json:"ref_id,omitempty"`
	Read      bool      `json:"read"`
	CreatedAt time.Time `json:"created_at"`
}

// Repository defines the interface for notification storage
type Repository interface {
	Create(ctx context.Context, n *Notification) (*Notification, error)
	List(ctx context.Context, unreadOnly bool) ([]*Notification, error)
	MarkRead(ctx context.Context, id string) (*Notification, error)
}

// InMemoryRepository stores notifications in memory, guarded by a mutex.
type InMemoryRepository struct {
	mu            sync.RWMutex
	notifications map[string]*Notification
}

// NewInMemoryRepository creates a new in-memory repository
func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{notifications: make(map[string]*Notification)}
}

// Create stores a notification.
func (r *InMemoryRepository) Create(ctx context.Context, n *Notification) (*Notification, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored := *n
	stored.ID = uuid.NewString()
	stored.CreatedAt = time.Now().UTC()
	r.notifications[stored.ID] = &stored

	out := stored
	return &out, nil
}

// List returns notifications, newest first.
func (r *InMemoryRepository) List(ctx context.Context, unreadOnly bool) ([]*Notification, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*Notification, 0, len(r.notifications))
	for _, n := range r.notifications {
		if unreadOnly && n.Read {
			continue
		}
		copied := *n
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

// MarkRead flags a notification as read.
func (r *InMemoryRepository) MarkRead(ctx context.Context, id string) (*Notification, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	n, ok := r.notifications[id]
	if !ok {
		return nil, ErrNotificationNotFound
	}
	n.Read = true

	out := *n
	return &out, nil
}

// Service raises dashboard notifications from domain events.
type Service struct {
	repo   Repository
	logger *logging.Logger
}

// NewService creates a notification service.
func NewService(repo Repository, logger *logging.Logger) *Service {
	if repo == nil {
		panic("notify: repository is required")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Service{repo: repo, logger: logger}
}

// LowStock records an inventory alert for an item at or below its minimum.
func (s *Service) LowStock(ctx context.Context, itemID, itemName string, current, minimum int64) (*Notification, error) {
	n, err := s.repo.Create(ctx, &Notification{
		Kind:    KindInventoryAlert,
		Title:   "Low stock: " + itemName,
		Message: fmt.Sprintf("%s is at %d (minimum %d)", itemName, current, minimum),
		RefID:   itemID,
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("low stock notification raised", "item_id", itemID, "quantity", current)
	return n, nil
}

// PaymentDue records a reminder for an invoice with an outstanding balance.
func (s *Service) PaymentDue(ctx context.Context, invoiceID string, remainingCents int64, dueDate string) (*Notification, error) {
	n, err := s.repo.Create(ctx, &Notification{
		Kind:    KindPaymentDue,
		Title:   "Payment due",
		Message: fmt.Sprintf("invoice has %d cents outstanding, due %s", remainingCents, dueDate),
		RefID:   invoiceID,
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("payment due notification raised", "invoice_id", invoiceID, "remaining_cents", remainingCents)
	return n, nil
}

// AppointmentReminder records a reminder for an upcoming appointment.
func (s *Service) AppointmentReminder(ctx context.Context, appointmentID, patientID, date, startTime string) (*Notification, error) {
	n, err := s.repo.Create(ctx, &Notification{
		Kind:    KindAppointmentReminder,
		Title:   "Upcoming appointment",
		Message: fmt.Sprintf("patient %s at %s on %s", patientID, startTime, date),
		RefID:   appointmentID,
	})
	if err != nil {
		return nil, err
	}
	return n, nil
}

// List returns notifications, optionally only unread ones.
func (s *Service) List(ctx context.Context, unreadOnly bool) ([]*Notification, error) {
	return s.repo.List(ctx, unreadOnly)
}

// MarkRead flags a notification as read.
func (s *Service) MarkRead(ctx context.Context, id string) (*Notification, error) {
	return s.repo.MarkRead(ctx, id)
}
