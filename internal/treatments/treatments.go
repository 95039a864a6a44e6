package treatments

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
	// ErrTreatmentNotFound is returned when a treatment is not found
	ErrTreatmentNotFound = errors.New("treatment not found")

	// ErrMissingName is returned when the treatment name is empty
	ErrMissingName = errors.New("treatment name is required")

	// ErrInvalidPrice is returned for a negative price
	ErrInvalidPrice = errors.New("treatment price must not be negative")
)

// Treatment is a catalog entry that invoice line items reference. Prices are
// integer cents.
type Treatment struct {
	ID              string    `json:"id"`
	Name            string    `json:"name"`
	Category        string    `json:"category,omitempty"`
	Description     string    `json:"description,omitempty"`
	PriceCents      int64     `json:"price_cents"`
	DurationMinutes int       `json:"duration_minutes,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// Validate checks the treatment fields.
func (t *Treatment) Validate() error {
	if strings.TrimSpace(t.Name) == "" {
		return ErrMissingName
	}
	if t.PriceCents < 0 {
		return ErrInvalidPrice
	}
	return nil
}

// Repository defines the interface for treatment catalog storage
type Repository interface {
	Create(ctx context.Context, t *Treatment) (*Treatment, error)
	GetByID(ctx context.Context, id string) (*Treatment, error)
	List(ctx context.Context, category string) ([]*Treatment, error)
	Update(ctx context.Context, t *Treatment) (*Treatment, error)
	Delete(ctx context.Context, id string) error
}

// InMemoryRepository stores the catalog in memory, guarded by a mutex.
type InMemoryRepository struct {
	mu         sync.RWMutex
	treatments map[string]*Treatment
}

// NewInMemoryRepository creates a new in-memory repository
func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{treatments: make(map[string]*Treatment)}
}

// Create stores a new treatment.
func (r *InMemoryRepository) Create(ctx context.Context, t *Treatment) (*Treatment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now().UTC()
	stored := *t
	stored.ID = uuid.NewString()
	stored.CreatedAt = now
	stored.UpdatedAt = now
	r.treatments[stored.ID] = &stored

	out := stored
	return &out, nil
}

// GetByID returns a treatment by ID.
func (r *InMemoryRepository) GetByID(ctx context.Context, id string) (*Treatment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	t, ok := r.treatments[id]
	if !ok {
		return nil, ErrTreatmentNotFound
	}
	out := *t
	return &out, nil
}

// List returns treatments sorted by name, optionally scoped to one category.
func (r *InMemoryRepository) List(ctx context.Context, category string) ([]*Treatment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*Treatment, 0, len(r.treatments))
	for _, t := range r.treatments {
		if category != "" && t.Category != category {
			continue
		}
		copied := *t
		out = append(out, &copied)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

// Update replaces a stored treatment.
func (r *InMemoryRepository) Update(ctx context.Context, t *Treatment) (*Treatment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.treatments[t.ID]
	if !ok {
		return nil, ErrTreatmentNotFound
	}
	stored := *t
	stored.CreatedAt = existing.CreatedAt
	stored.UpdatedAt = time.Now().UTC()
	r.treatments[stored.ID] = &stored

	out := stored
	return &out, nil
}

// Delete removes a treatment.
func (r *InMemoryRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.treatments[id]; !ok {
		return ErrTreatmentNotFound
	}
	delete(r.treatments, id)
	return nil
}
