package scheduling

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// ListFilter narrows appointment listings. Empty fields match everything.
type ListFilter struct {
	PractitionerID string
	PatientID      string
	Date           string
}

// Repository defines the interface for appointment storage
type Repository interface {
	Create(ctx context.Context, appt *Appointment) (*Appointment, error)
	GetByID(ctx context.Context, id string) (*Appointment, error)
	List(ctx context.Context, filter ListFilter) ([]*Appointment, error)
	Update(ctx context.Context, appt *Appointment) (*Appointment, error)
	Delete(ctx context.Context, id string) error
}

// InMemoryRepository stores appointments in memory, guarded by a mutex.
// The service layer performs its check-then-write booking under this
// repository's single-writer discipline.
type InMemoryRepository struct {
	mu           sync.RWMutex
	appointments map[string]*Appointment
}

// NewInMemoryRepository creates a new in-memory repository
func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{
		appointments: make(map[string]*Appointment),
	}
}

// Create stores a new appointment, assigning its ID and timestamps.
func (r *InMemoryRepository) Create(ctx context.Context, appt *Appointment) (*Appointment, error) {
	now := time.Now().UTC()
	stored := *appt
	stored.ID = uuid.NewString()
	stored.CreatedAt = now
	stored.UpdatedAt = now

	r.mu.Lock()
	r.appointments[stored.ID] = &stored
	r.mu.Unlock()

	out := stored
	return &out, nil
}

// GetByID retrieves an appointment by ID
func (r *InMemoryRepository) GetByID(ctx context.Context, id string) (*Appointment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	appt, ok := r.appointments[id]
	if !ok {
		return nil, ErrAppointmentNotFound
	}
	out := *appt
	return &out, nil
}

// List returns appointments matching the filter, ordered by date then start
// time for stable output.
func (r *InMemoryRepository) List(ctx context.Context, filter ListFilter) ([]*Appointment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*Appointment, 0)
	for _, appt := range r.appointments {
		if filter.PractitionerID != "" && appt.PractitionerID != filter.PractitionerID {
			continue
		}
		if filter.PatientID != "" && appt.PatientID != filter.PatientID {
			continue
		}
		if filter.Date != "" && appt.Date != filter.Date {
			continue
		}
		copied := *appt
		out = append(out, &copied)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Date != out[j].Date {
			return out[i].Date < out[j].Date
		}
		if out[i].StartTime != out[j].StartTime {
			return out[i].StartTime < out[j].StartTime
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

// Update replaces a stored appointment.
func (r *InMemoryRepository) Update(ctx context.Context, appt *Appointment) (*Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.appointments[appt.ID]
	if !ok {
		return nil, ErrAppointmentNotFound
	}
	stored := *appt
	stored.CreatedAt = existing.CreatedAt
	stored.UpdatedAt = time.Now().UTC()
	r.appointments[stored.ID] = &stored

	out := stored
	return &out, nil
}

// Delete removes an appointment. Deletion is terminal; there is no
// tombstoning.
func (r *InMemoryRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.appointments[id]; !ok {
		return ErrAppointmentNotFound
	}
	delete(r.appointments, id)
	return nil
}
