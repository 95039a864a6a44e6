package inventory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Repository defines the interface for inventory storage. ApplyTransaction
// must append the transaction and update the item quantity as one atomic
// step.
type Repository interface {
	CreateItem(ctx context.Context, item *Item) (*Item, error)
	GetItem(ctx context.Context, id string) (*Item, error)
	ListItems(ctx context.Context) ([]*Item, error)
	UpdateItem(ctx context.Context, item *Item) (*Item, error)
	DeleteItem(ctx context.Context, id string) error

	ApplyTransaction(ctx context.Context, tx *Transaction, newQuantity int64) (*Transaction, error)
	ListTransactions(ctx context.Context, itemID string) ([]*Transaction, error)

	CreateSupplier(ctx context.Context, s *Supplier) (*Supplier, error)
	GetSupplier(ctx context.Context, id string) (*Supplier, error)
	ListSuppliers(ctx context.Context) ([]*Supplier, error)
	UpdateSupplier(ctx context.Context, s *Supplier) (*Supplier, error)
	DeleteSupplier(ctx context.Context, id string) error
}

// InMemoryRepository stores inventory in memory, guarded by a mutex.
type InMemoryRepository struct {
	mu           sync.RWMutex
	items        map[string]*Item
	transactions map[string]*Transaction
	suppliers    map[string]*Supplier
}

// NewInMemoryRepository creates a new in-memory repository
func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{
		items:        make(map[string]*Item),
		transactions: make(map[string]*Transaction),
		suppliers:    make(map[string]*Supplier),
	}
}

// CreateItem stores a new inventory item.
func (r *InMemoryRepository) CreateItem(ctx context.Context, item *Item) (*Item, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now().UTC()
	stored := *item
	stored.ID = uuid.NewString()
	stored.CreatedAt = now
	stored.UpdatedAt = now
	r.items[stored.ID] = &stored

	out := stored
	return &out, nil
}

// GetItem returns an item by ID.
func (r *InMemoryRepository) GetItem(ctx context.Context, id string) (*Item, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.items[id]
	if !ok {
		return nil, ErrItemNotFound
	}
	out := *item
	return &out, nil
}

// ListItems returns all items sorted by name.
func (r *InMemoryRepository) ListItems(ctx context.Context) ([]*Item, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*Item, 0, len(r.items))
	for _, item := range r.items {
		copied := *item
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

// UpdateItem replaces a stored item.
func (r *InMemoryRepository) UpdateItem(ctx context.Context, item *Item) (*Item, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.items[item.ID]
	if !ok {
		return nil, ErrItemNotFound
	}
	stored := *item
	stored.CreatedAt = existing.CreatedAt
	stored.UpdatedAt = time.Now().UTC()
	r.items[stored.ID] = &stored

	out := stored
	return &out, nil
}

// DeleteItem removes an item. Its transaction history is kept.
func (r *InMemoryRepository) DeleteItem(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.items[id]; !ok {
		return ErrItemNotFound
	}
	delete(r.items, id)
	return nil
}

// ApplyTransaction appends the transaction and writes the new quantity under
// one lock.
func (r *InMemoryRepository) ApplyTransaction(ctx context.Context, tx *Transaction, newQuantity int64) (*Transaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	item, ok := r.items[tx.ItemID]
	if !ok {
		return nil, ErrItemNotFound
	}

	stored := *tx
	stored.ID = uuid.NewString()
	stored.CreatedAt = time.Now().UTC()
	r.transactions[stored.ID] = &stored

	item.CurrentQuantity = newQuantity
	item.UpdatedAt = stored.CreatedAt

	out := stored
	return &out, nil
}

// ListTransactions returns transactions, optionally scoped to one item,
// oldest first.
func (r *InMemoryRepository) ListTransactions(ctx context.Context, itemID string) ([]*Transaction, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*Transaction, 0)
	for _, tx := range r.transactions {
		if itemID != "" && tx.ItemID != itemID {
			continue
		}
		copied := *tx
		out = append(out, &copied)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

// CreateSupplier stores a new supplier.
func (r *InMemoryRepository) CreateSupplier(ctx context.Context, s *Supplier) (*Supplier, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now().UTC()
	stored := *s
	stored.ID = uuid.NewString()
	stored.CreatedAt = now
	stored.UpdatedAt = now
	r.suppliers[stored.ID] = &stored

	out := stored
	return &out, nil
}

// GetSupplier returns a supplier by ID.
func (r *InMemoryRepository) GetSupplier(ctx context.Context, id string) (*Supplier, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.suppliers[id]
	if !ok {
		return nil, ErrSupplierNotFound
	}
	out := *s
	return &out, nil
}

// ListSuppliers returns all suppliers sorted by name.
func (r *InMemoryRepository) ListSuppliers(ctx context.Context) ([]*Supplier, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*Supplier, 0, len(r.suppliers))
	for _, s := range r.suppliers {
		copied := *s
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

// UpdateSupplier replaces a stored supplier.
func (r *InMemoryRepository) UpdateSupplier(ctx context.Context, s *Supplier) (*Supplier, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.suppliers[s.ID]
	if !ok {
		return nil, ErrSupplierNotFound
	}
	stored := *s
	stored.CreatedAt = existing.CreatedAt
	stored.UpdatedAt = time.Now().UTC()
	r.suppliers[stored.ID] = &stored

	out := stored
	return &out, nil
}

// DeleteSupplier removes a supplier.
func (r *InMemoryRepository) DeleteSupplier(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.suppliers[id]; !ok {
		return ErrSupplierNotFound
	}
	delete(r.suppliers, id)
	return nil
}
