package treatments

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

type treatmentsDB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PostgresRepository persists the treatment catalog in Postgres.
type PostgresRepository struct {
	db treatmentsDB
}

// NewPostgresRepository creates a repository backed by a pgx pool.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	if pool == nil {
		panic("treatments: pgx pool required")
	}
	return &PostgresRepository{db: pool}
}

// NewPostgresRepositoryWithDB allows injecting a mock database for testing.
func NewPostgresRepositoryWithDB(db treatmentsDB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const treatmentColumns = `id, name, category, description, price_cents, duration_minutes, created_at, updated_at`

// Create inserts a treatment row.
func (r *PostgresRepository) Create(ctx context.Context, t *Treatment) (*Treatment, error) {
	now := time.Now().UTC()
	stored := *t
	stored.ID = uuid.NewString()
	stored.CreatedAt = now
	stored.UpdatedAt = now

	_, err := r.db.Exec(ctx, `
		INSERT INTO treatments (id, name, category, description, price_cents, duration_minutes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, stored.ID, stored.Name, stored.Category, stored.Description, stored.PriceCents, stored.DurationMinutes, stored.CreatedAt, stored.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("treatments: insert treatment: %w", err)
	}
	return &stored, nil
}

// GetByID loads a treatment row.
func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*Treatment, error) {
	row := r.db.QueryRow(ctx, `SELECT `+treatmentColumns+` FROM treatments WHERE id = $1`, id)
	t, err := scanTreatment(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrTreatmentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("treatments: load treatment: %w", err)
	}
	return t, nil
}

// List returns treatments ordered by name.
func (r *PostgresRepository) List(ctx context.Context, category string) ([]*Treatment, error) {
	query := `SELECT ` + treatmentColumns + ` FROM treatments`
	args := []any{}
	if category != "" {
		query += ` WHERE category = $1`
		args = append(args, category)
	}
	query += ` ORDER BY name, id`

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("treatments: list treatments: %w", err)
	}
	defer rows.Close()

	var out []*Treatment
	for rows.Next() {
		t, err := scanTreatment(rows)
		if err != nil {
			return nil, fmt.Errorf("treatments: scan treatment: %w", err)
		}
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("treatments: list treatments: %w", err)
	}
	return out, nil
}

// Update rewrites a treatment row.
func (r *PostgresRepository) Update(ctx context.Context, t *Treatment) (*Treatment, error) {
	stored := *t
	stored.UpdatedAt = time.Now().UTC()

	tag, err := r.db.Exec(ctx, `
		UPDATE treatments
		SET name = $2, category = $3, description = $4, price_cents = $5, duration_minutes = $6, updated_at = $7
		WHERE id = $1
	`, stored.ID, stored.Name, stored.Category, stored.Description, stored.PriceCents, stored.DurationMinutes, stored.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("treatments: update treatment: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return nil, ErrTreatmentNotFound
	}
	return &stored, nil
}

// Delete removes a treatment row.
func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM treatments WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("treatments: delete treatment: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrTreatmentNotFound
	}
	return nil
}

func scanTreatment(row pgx.Row) (*Treatment, error) {
	var t Treatment
	err := row.Scan(
		&t.ID,
		&t.Name,
		&t.Category,
		&t.Description,
		&t.PriceCents,
		&t.DurationMinutes,
		&t.CreatedAt,
		&t.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
