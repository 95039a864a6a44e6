package patients

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

type patientsDB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PostgresRepository persists patients in Postgres.
type PostgresRepository struct {
	db patientsDB
}

// NewPostgresRepository creates a repository backed by a pgx pool.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	if pool == nil {
		panic("patients: pgx pool required")
	}
	return &PostgresRepository{db: pool}
}

// NewPostgresRepositoryWithDB allows injecting a mock database for testing.
func NewPostgresRepositoryWithDB(db patientsDB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const patientColumns = `id, first_name, last_name, phone, email, date_of_birth, address, allergies, medical_history, notes, created_at, updated_at`

// Create inserts a patient row.
func (r *PostgresRepository) Create(ctx context.Context, p *Patient) (*Patient, error) {
	now := time.Now().UTC()
	stored := *p
	stored.ID = uuid.NewString()
	stored.CreatedAt = now
	stored.UpdatedAt = now

	_, err := r.db.Exec(ctx, `
		INSERT INTO patients (id, first_name, last_name, phone, email, date_of_birth, address, allergies, medical_history, notes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`, stored.ID, stored.FirstName, stored.LastName, stored.Phone, stored.Email, stored.DateOfBirth, stored.Address, stored.Allergies, stored.MedicalHistory, stored.Notes, stored.CreatedAt, stored.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("patients: insert patient: %w", err)
	}
	return &stored, nil
}

// GetByID loads a patient row.
func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*Patient, error) {
	row := r.db.QueryRow(ctx, `SELECT `+patientColumns+` FROM patients WHERE id = $1`, id)
	p, err := scanPatient(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrPatientNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("patients: load patient: %w", err)
	}
	return p, nil
}

// List returns patients, optionally filtered by a name substring.
func (r *PostgresRepository) List(ctx context.Context, search string) ([]*Patient, error) {
	query := `SELECT ` + patientColumns + ` FROM patients`
	args := []any{}
	if search != "" {
		query += ` WHERE (first_name || ' ' || last_name) ILIKE $1`
		args = append(args, "%"+search+"%")
	}
	query += ` ORDER BY last_name, first_name, id`

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("patients: list patients: %w", err)
	}
	defer rows.Close()

	var out []*Patient
	for rows.Next() {
		p, err := scanPatient(rows)
		if err != nil {
			return nil, fmt.Errorf("patients: scan patient: %w", err)
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("patients: list patients: %w", err)
	}
	return out, nil
}

// Update rewrites a patient row.
func (r *PostgresRepository) Update(ctx context.Context, p *Patient) (*Patient, error) {
	stored := *p
	stored.UpdatedAt = time.Now().UTC()

	tag, err := r.db.Exec(ctx, `
		UPDATE patients
		SET first_name = $2, last_name = $3, phone = $4, email = $5, date_of_birth = $6, address = $7, allergies = $8, medical_history = $9, notes = $10, updated_at = $11
		WHERE id = $1
	`, stored.ID, stored.FirstName, stored.LastName, stored.Phone, stored.Email, stored.DateOfBirth, stored.Address, stored.Allergies, stored.MedicalHistory, stored.Notes, stored.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("patients: update patient: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return nil, ErrPatientNotFound
	}
	return &stored, nil
}

// Delete removes a patient row.
func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM patients WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("patients: delete patient: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrPatientNotFound
	}
	return nil
}

func scanPatient(row pgx.Row) (*Patient, error) {
	var p Patient
	err := row.Scan(
		&p.ID,
		&p.FirstName,
		&p.LastName,
		&p.Phone,
		&p.Email,
		&p.DateOfBirth,
		&p.Address,
		&p.Allergies,
		&p.MedicalHistory,
		&p.Notes,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}
