package inventory

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/wolfman30/dental-clinic-platform/internal/observability/metrics"
	"github.com/wolfman30/dental-clinic-platform/pkg/logging"
)

var inventoryTracer = otel.Tracer("clinic.internal.inventory")

// Service manages stock items, the transaction ledger, and suppliers. All
// quantity changes flow through RecordTransaction so the append and the
// carried-forward quantity can never diverge.
type Service struct {
	repo    Repository
	metrics *metrics.ClinicMetrics
	logger  *logging.Logger
}

// NewService creates a new inventory service
func NewService(repo Repository, m *metrics.ClinicMetrics, logger *logging.Logger) *Service {
	if repo == nil {
		panic("inventory: repository is required")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Service{repo: repo, metrics: m, logger: logger}
}

// CreateItem adds a stock item.
func (s *Service) CreateItem(ctx context.Context, item *Item) (*Item, error) {
	if err := item.Validate(); err != nil {
		return nil, err
	}
	created, err := s.repo.CreateItem(ctx, item)
	if err != nil {
		return nil, err
	}
	s.logger.Info("inventory item created",
		"item_id", created.ID,
		"name", created.Name,
		"quantity", created.CurrentQuantity,
	)
	s.refreshReorderGauge(ctx)
	return created, nil
}

// GetItem returns an item by ID.
func (s *Service) GetItem(ctx context.Context, id string) (*Item, error) {
	return s.repo.GetItem(ctx, id)
}

// ListItems returns all stock items.
func (s *Service) ListItems(ctx context.Context) ([]*Item, error) {
	return s.repo.ListItems(ctx)
}

// UpdateItem edits item metadata. CurrentQuantity is preserved from the
// stored row; the ledger is the only path that changes it.
func (s *Service) UpdateItem(ctx context.Context, item *Item) (*Item, error) {
	if err := item.Validate(); err != nil {
		return nil, err
	}
	existing, err := s.repo.GetItem(ctx, item.ID)
	if err != nil {
		return nil, err
	}
	item.CurrentQuantity = existing.CurrentQuantity

	updated, err := s.repo.UpdateItem(ctx, item)
	if err != nil {
		return nil, err
	}
	s.refreshReorderGauge(ctx)
	return updated, nil
}

// DeleteItem removes a stock item.
func (s *Service) DeleteItem(ctx context.Context, id string) error {
	if err := s.repo.DeleteItem(ctx, id); err != nil {
		return err
	}
	s.refreshReorderGauge(ctx)
	return nil
}

// RecordTransaction appends a ledger entry and applies the quantity delta in
// one step. A transaction for an unknown item is rejected, never skipped.
// The resulting quantity may go negative; that is recorded and flagged, not
// blocked.
func (s *Service) RecordTransaction(ctx context.Context, tx *Transaction) (*Transaction, *Item, error) {
	ctx, span := inventoryTracer.Start(ctx, "inventory.record_transaction")
	defer span.End()

	if err := tx.Validate(); err != nil {
		return nil, nil, err
	}

	item, err := s.repo.GetItem(ctx, tx.ItemID)
	if err != nil {
		return nil, nil, err
	}

	newQuantity := NextQuantity(item.CurrentQuantity, tx)
	recorded, err := s.repo.ApplyTransaction(ctx, tx, newQuantity)
	if err != nil {
		return nil, nil, err
	}

	s.metrics.ObserveInventoryTransaction(tx.Type)
	span.SetAttributes(
		attribute.String("item.id", item.ID),
		attribute.String("transaction.type", tx.Type),
		attribute.Int64("item.new_quantity", newQuantity),
	)

	if newQuantity < 0 {
		s.metrics.ObserveNegativeStock()
		s.logger.Warn("stock went negative",
			"item_id", item.ID,
			"name", item.Name,
			"quantity", newQuantity,
			"transaction_type", tx.Type,
		)
	}
	s.logger.Info("inventory transaction recorded",
		"item_id", item.ID,
		"transaction_type", tx.Type,
		"quantity", tx.Quantity,
		"new_quantity", newQuantity,
	)

	item, err = s.repo.GetItem(ctx, tx.ItemID)
	if err != nil {
		return nil, nil, err
	}
	s.refreshReorderGauge(ctx)
	return recorded, item, nil
}

// ListTransactions returns the ledger, optionally scoped to one item.
func (s *Service) ListTransactions(ctx context.Context, itemID string) ([]*Transaction, error) {
	return s.repo.ListTransactions(ctx, itemID)
}

// ReorderList returns items at or below their minimum quantity.
func (s *Service) ReorderList(ctx context.Context) ([]*Item, error) {
	items, err := s.repo.ListItems(ctx)
	if err != nil {
		return nil, err
	}
	return NeedsReorder(items), nil
}

// CreateSupplier adds a supplier.
func (s *Service) CreateSupplier(ctx context.Context, sup *Supplier) (*Supplier, error) {
	if err := sup.Validate(); err != nil {
		return nil, err
	}
	return s.repo.CreateSupplier(ctx, sup)
}

// GetSupplier returns a supplier by ID.
func (s *Service) GetSupplier(ctx context.Context, id string) (*Supplier, error) {
	return s.repo.GetSupplier(ctx, id)
}

// ListSuppliers returns all suppliers.
func (s *Service) ListSuppliers(ctx context.Context) ([]*Supplier, error) {
	return s.repo.ListSuppliers(ctx)
}

// UpdateSupplier edits a supplier.
func (s *Service) UpdateSupplier(ctx context.Context, sup *Supplier) (*Supplier, error) {
	if err := sup.Validate(); err != nil {
		return nil, err
	}
	return s.repo.UpdateSupplier(ctx, sup)
}

// DeleteSupplier removes a supplier.
func (s *Service) DeleteSupplier(ctx context.Context, id string) error {
	return s.repo.DeleteSupplier(ctx, id)
}

func (s *Service) refreshReorderGauge(ctx context.Context) {
	items, err := s.repo.ListItems(ctx)
	if err != nil {
		return
	}
	s.metrics.SetItemsBelowMinimum(len(NeedsReorder(items)))
}
