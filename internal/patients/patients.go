package patients

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

var (
	// ErrPatientNotFound is returned when a patient is not found
	ErrPatientNotFound = errors.New("patient not found")

	// ErrMissingName is returned when the patient name is empty
	ErrMissingName = errors.New("patient name is required")
)

// Patient is a clinic patient record.
type Patient struct {
	ID             string    `json:"id"`
	FirstName      string    `json:"first_name"`
	LastName       string    `json:"last_name"`
	Phone          string    `json:"phone,omitempty"`
	Email          string    `json:"email,omitempty"`
	DateOfBirth    string    `json:"date_of_birth,omitempty"`
	Address        string    `json:"address,omitempty"`
	Allergies      string    `json:"allergies,omitempty"`
	MedicalHistory string    `json:"medical_history,omitempty"`
	Notes          string    `json:"notes,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// Validate checks the patient fields.
func (p *Patient) Validate() error {
	if strings.TrimSpace(p.FirstName) == "" && strings.TrimSpace(p.LastName) == "" {
		return ErrMissingName
	}
	return nil
}

// Repository defines the interface for patient storage
type Repository interface {
	Create(ctx context.Context, p *Patient) (*Patient, error)
	GetByID(ctx context.Context, id string) (*Patient, error)
	List(ctx context.Context, search string) ([]*Patient, error)
	Update(ctx context.Context, p *Patient) (*Patient, error)
	Delete(ctx context.Context, id string) error
}

// InMemoryRepository stores patients in memory, guarded by a mutex.
type InMemoryRepository struct {
	mu       sync.RWMutex
	patients map[string]*Patient
}

// NewInMemoryRepository creates a new in-memory repository
func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{patients: make(map[string]*Patient)}
}

// Create stores a new patient.
func (r *InMemoryRepository) Create(ctx context.Context, p *Patient) (*Patient, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now().UTC()
	stored := *p
	stored.ID = uuid.NewString()
	stored.CreatedAt = now
	stored.UpdatedAt = now
	r.patients[stored.ID] = &stored

	out := stored
	return &out, nil
}

// GetByID returns a patient by ID.
func (r *InMemoryRepository) GetByID(ctx context.Context, id string) (*Patient, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.patients[id]
	if !ok {
		return nil, ErrPatientNotFound
	}
	out := *p
	return &out, nil
}

// List returns patients, optionally filtered by a case-insensitive name
// substring, sorted by last then first name.
func (r *InMemoryRepository) List(ctx context.Context, search string) ([]*Patient, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	search = strings.ToLower(strings.TrimSpace(search))
	out := make([]*Patient, 0, len(r.patients))
	for _, p := range r.patients {
		if search != "" {
			full := strings.ToLower(p.FirstName + " " + p.LastName)
			if !strings.Contains(full, search) {
				continue
			}
		}
		copied := *p
		out = append(out, &copied)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].LastName != out[j].LastName {
			return out[i].LastName < out[j].LastName
		}
		if out[i].FirstName != out[j].FirstName {
			return out[i].FirstName < out[j].FirstName
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

// Update replaces a stored patient.
func (r *InMemoryRepository) Update(ctx context.Context, p *Patient) (*Patient, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.patients[p.ID]
	if !ok {
		return nil, ErrPatientNotFound
	}
	stored := *p
	stored.CreatedAt = existing.CreatedAt
	stored.UpdatedAt = time.Now().UTC()
	r.patients[stored.ID] = &stored

	out := stored
	return &out, nil
}

// Delete removes a patient.
func (r *InMemoryRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.patients[id]; !ok {
		return ErrPatientNotFound
	}
	delete(r.patients, id)
	return nil
}
