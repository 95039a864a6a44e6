package inventory

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// inventoryDB is the pgx surface the repository needs; pgxmock satisfies it
// in tests.
type inventoryDB interface {
	Begin(ctx context.Context) (pgx.Tx, error)
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PostgresRepository persists inventory in Postgres.
type PostgresRepository struct {
	db inventoryDB
}

// NewPostgresRepository creates a repository backed by a pgx pool.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	if pool == nil {
		panic("inventory: pgx pool required")
	}
	return &PostgresRepository{db: pool}
}

// NewPostgresRepositoryWithDB allows injecting a mock database for testing.
func NewPostgresRepositoryWithDB(db inventoryDB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const itemColumns = `id, name, category, unit, current_quantity, minimum_quantity, cost_price_cents, supplier_id, created_at, updated_at`

const transactionColumns = `id, item_id, type, quantity, user_id, notes, created_at`

const supplierColumns = `id, name, contact, phone, email, notes, created_at, updated_at`

// CreateItem inserts an item row.
func (r *PostgresRepository) CreateItem(ctx context.Context, item *Item) (*Item, error) {
	now := time.Now().UTC()
	stored := *item
	stored.ID = uuid.NewString()
	stored.CreatedAt = now
	stored.UpdatedAt = now

	_, err := r.db.Exec(ctx, `
		INSERT INTO inventory_items (id, name, category, unit, current_quantity, minimum_quantity, cost_price_cents, supplier_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`, stored.ID, stored.Name, stored.Category, stored.Unit, stored.CurrentQuantity, stored.MinimumQuantity, stored.CostPriceCents, stored.SupplierID, stored.CreatedAt, stored.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("inventory: insert item: %w", err)
	}
	return &stored, nil
}

// GetItem loads an item row.
func (r *PostgresRepository) GetItem(ctx context.Context, id string) (*Item, error) {
	row := r.db.QueryRow(ctx, `SELECT `+itemColumns+` FROM inventory_items WHERE id = $1`, id)
	item, err := scanItem(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrItemNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("inventory: load item: %w", err)
	}
	return item, nil
}

// ListItems returns all items ordered by name.
func (r *PostgresRepository) ListItems(ctx context.Context) ([]*Item, error) {
	rows, err := r.db.Query(ctx, `SELECT `+itemColumns+` FROM inventory_items ORDER BY name, id`)
	if err != nil {
		return nil, fmt.Errorf("inventory: list items: %w", err)
	}
	defer rows.Close()

	var out []*Item
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("inventory: scan item: %w", err)
		}
		out = append(out, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("inventory: list items: %w", err)
	}
	return out, nil
}

// UpdateItem rewrites an item row.
func (r *PostgresRepository) UpdateItem(ctx context.Context, item *Item) (*Item, error) {
	stored := *item
	stored.UpdatedAt = time.Now().UTC()

	tag, err := r.db.Exec(ctx, `
		UPDATE inventory_items
		SET name = $2, category = $3, unit = $4, current_quantity = $5, minimum_quantity = $6, cost_price_cents = $7, supplier_id = $8, updated_at = $9
		WHERE id = $1
	`, stored.ID, stored.Name, stored.Category, stored.Unit, stored.CurrentQuantity, stored.MinimumQuantity, stored.CostPriceCents, stored.SupplierID, stored.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("inventory: update item: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return nil, ErrItemNotFound
	}
	return &stored, nil
}

// DeleteItem removes an item row. Ledger rows are kept.
func (r *PostgresRepository) DeleteItem(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM inventory_items WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("inventory: delete item: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrItemNotFound
	}
	return nil
}

// ApplyTransaction appends the ledger row and updates the item quantity
// inside one database transaction, so the quantity never diverges from the
// ledger. The quantity update keys on the item id; zero rows affected means
// the item vanished between the read and the write.
func (r *PostgresRepository) ApplyTransaction(ctx context.Context, tx *Transaction, newQuantity int64) (*Transaction, error) {
	stored := *tx
	stored.ID = uuid.NewString()
	stored.CreatedAt = time.Now().UTC()

	dbtx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("inventory: begin tx: %w", err)
	}
	defer dbtx.Rollback(ctx)

	tag, err := dbtx.Exec(ctx, `
		UPDATE inventory_items SET current_quantity = $2, updated_at = $3 WHERE id = $1
	`, stored.ItemID, newQuantity, stored.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("inventory: update quantity: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return nil, ErrItemNotFound
	}

	_, err = dbtx.Exec(ctx, `
		INSERT INTO inventory_transactions (id, item_id, type, quantity, user_id, notes, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, stored.ID, stored.ItemID, stored.Type, stored.Quantity, stored.UserID, stored.Notes, stored.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("inventory: insert transaction: %w", err)
	}

	if err := dbtx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("inventory: commit tx: %w", err)
	}
	return &stored, nil
}

// ListTransactions returns ledger rows, optionally scoped to one item,
// oldest first.
func (r *PostgresRepository) ListTransactions(ctx context.Context, itemID string) ([]*Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM inventory_transactions`
	args := []any{}
	if itemID != "" {
		query += ` WHERE item_id = $1`
		args = append(args, itemID)
	}
	query += ` ORDER BY created_at, id`

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("inventory: list transactions: %w", err)
	}
	defer rows.Close()

	var out []*Transaction
	for rows.Next() {
		var tx Transaction
		if err := rows.Scan(&tx.ID, &tx.ItemID, &tx.Type, &tx.Quantity, &tx.UserID, &tx.Notes, &tx.CreatedAt); err != nil {
			return nil, fmt.Errorf("inventory: scan transaction: %w", err)
		}
		out = append(out, &tx)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("inventory: list transactions: %w", err)
	}
	return out, nil
}

// CreateSupplier inserts a supplier row.
func (r *PostgresRepository) CreateSupplier(ctx context.Context, s *Supplier) (*Supplier, error) {
	now := time.Now().UTC()
	stored := *s
	stored.ID = uuid.NewString()
	stored.CreatedAt = now
	stored.UpdatedAt = now

	_, err := r.db.Exec(ctx, `
		INSERT INTO suppliers (id, name, contact, phone, email, notes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, stored.ID, stored.Name, stored.Contact, stored.Phone, stored.Email, stored.Notes, stored.CreatedAt, stored.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("inventory: insert supplier: %w", err)
	}
	return &stored, nil
}

// GetSupplier loads a supplier row.
func (r *PostgresRepository) GetSupplier(ctx context.Context, id string) (*Supplier, error) {
	row := r.db.QueryRow(ctx, `SELECT `+supplierColumns+` FROM suppliers WHERE id = $1`, id)
	s, err := scanSupplier(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrSupplierNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("inventory: load supplier: %w", err)
	}
	return s, nil
}

// ListSuppliers returns all suppliers ordered by name.
func (r *PostgresRepository) ListSuppliers(ctx context.Context) ([]*Supplier, error) {
	rows, err := r.db.Query(ctx, `SELECT `+supplierColumns+` FROM suppliers ORDER BY name, id`)
	if err != nil {
		return nil, fmt.Errorf("inventory: list suppliers: %w", err)
	}
	defer rows.Close()

	var out []*Supplier
	for rows.Next() {
		s, err := scanSupplier(rows)
		if err != nil {
			return nil, fmt.Errorf("inventory: scan supplier: %w", err)
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("inventory: list suppliers: %w", err)
	}
	return out, nil
}

// UpdateSupplier rewrites a supplier row.
func (r *PostgresRepository) UpdateSupplier(ctx context.Context, s *Supplier) (*Supplier, error) {
	stored := *s
	stored.UpdatedAt = time.Now().UTC()

	tag, err := r.db.Exec(ctx, `
		UPDATE suppliers
		SET name = $2, contact = $3, phone = $4, email = $5, notes = $6, updated_at = $7
		WHERE id = $1
	`, stored.ID, stored.Name, stored.Contact, stored.Phone, stored.Email, stored.Notes, stored.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("inventory: update supplier: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return nil, ErrSupplierNotFound
	}
	return &stored, nil
}

// DeleteSupplier removes a supplier row.
func (r *PostgresRepository) DeleteSupplier(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM suppliers WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("inventory: delete supplier: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrSupplierNotFound
	}
	return nil
}

func scanItem(row pgx.Row) (*Item, error) {
	var item Item
	err := row.Scan(
		&item.ID,
		&item.Name,
		&item.Category,
		&item.Unit,
		&item.CurrentQuantity,
		&item.MinimumQuantity,
		&item.CostPriceCents,
		&item.SupplierID,
		&item.CreatedAt,
		&item.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func scanSupplier(row pgx.Row) (*Supplier, error) {
	var s Supplier
	err := row.Scan(
		&s.ID,
		&s.Name,
		&s.Contact,
		&s.Phone,
		&s.Email,
		&s.Notes,
		&s.CreatedAt,
		&s.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &s, nil
}
