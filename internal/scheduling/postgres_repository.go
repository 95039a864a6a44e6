package scheduling

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

// schedulingDB is the pgx surface the repository needs; pgxmock satisfies it
// in tests.
type schedulingDB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PostgresRepository persists appointments in Postgres.
type PostgresRepository struct {
	db schedulingDB
}

// NewPostgresRepository creates a repository backed by a pgx pool.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	if pool == nil {
		panic("scheduling: pgx pool required")
	}
	return &PostgresRepository{db: pool}
}

// NewPostgresRepositoryWithDB allows injecting a mock database for testing.
func NewPostgresRepositoryWithDB(db schedulingDB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const appointmentColumns = `id, patient_id, practitioner_id, date, start_time, end_time, status, type, notes, created_at, updated_at`

// Create inserts an appointment row.
func (r *PostgresRepository) Create(ctx context.Context, appt *Appointment) (*Appointment, error) {
	now := time.Now().UTC()
	stored := *appt
	stored.ID = uuid.NewString()
	stored.CreatedAt = now
	stored.UpdatedAt = now

	_, err := r.db.Exec(ctx, `
		INSERT INTO appointments (id, patient_id, practitioner_id, date, start_time, end_time, status, type, notes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`, stored.ID, stored.PatientID, stored.PractitionerID, stored.Date, stored.StartTime, stored.EndTime, stored.Status, stored.Type, stored.Notes, stored.CreatedAt, stored.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("scheduling: insert appointment: %w", err)
	}
	return &stored, nil
}

// GetByID loads an appointment.
func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*Appointment, error) {
	row := r.db.QueryRow(ctx, `SELECT `+appointmentColumns+` FROM appointments WHERE id = $1`, id)
	appt, err := scanAppointment(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrAppointmentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scheduling: load appointment: %w", err)
	}
	return appt, nil
}

// List returns appointments matching the filter ordered by date and start time.
func (r *PostgresRepository) List(ctx context.Context, filter ListFilter) ([]*Appointment, error) {
	query := `SELECT ` + appointmentColumns + ` FROM appointments WHERE 1=1`
	args := []any{}
	argIdx := 1
	if filter.PractitionerID != "" {
		query += fmt.Sprintf(" AND practitioner_id = $%d", argIdx)
		args = append(args, filter.PractitionerID)
		argIdx++
	}
	if filter.PatientID != "" {
		query += fmt.Sprintf(" AND patient_id = $%d", argIdx)
		args = append(args, filter.PatientID)
		argIdx++
	}
	if filter.Date != "" {
		query += fmt.Sprintf(" AND date = $%d", argIdx)
		args = append(args, filter.Date)
		argIdx++
	}
	query += " ORDER BY date, start_time, id"

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("scheduling: list appointments: %w", err)
	}
	defer rows.Close()

	var out []*Appointment
	for rows.Next() {
		appt, err := scanAppointment(rows)
		if err != nil {
			return nil, fmt.Errorf("scheduling: scan appointment: %w", err)
		}
		out = append(out, appt)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("scheduling: list appointments: %w", err)
	}
	return out, nil
}

// Update rewrites an appointment row.
func (r *PostgresRepository) Update(ctx context.Context, appt *Appointment) (*Appointment, error) {
	stored := *appt
	stored.UpdatedAt = time.Now().UTC()

	tag, err := r.db.Exec(ctx, `
		UPDATE appointments
		SET patient_id = $2, practitioner_id = $3, date = $4, start_time = $5, end_time = $6, status = $7, type = $8, notes = $9, updated_at = $10
		WHERE id = $1
	`, stored.ID, stored.PatientID, stored.PractitionerID, stored.Date, stored.StartTime, stored.EndTime, stored.Status, stored.Type, stored.Notes, stored.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("scheduling: update appointment: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return nil, ErrAppointmentNotFound
	}
	return &stored, nil
}

// Delete removes an appointment row.
func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM appointments WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("scheduling: delete appointment: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrAppointmentNotFound
	}
	return nil
}

func scanAppointment(row pgx.Row) (*Appointment, error) {
	var appt Appointment
	err := row.Scan(
		&appt.ID,
		&appt.PatientID,
		&appt.PractitionerID,
		&appt.Date,
		&appt.StartTime,
		&appt.EndTime,
		&appt.Status,
		&appt.Type,
		&appt.Notes,
		&appt.CreatedAt,
		&appt.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &appt, nil
}
