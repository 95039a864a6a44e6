package scheduling

import (
	"context"
	"testing"
	"time"

	"github.com/pashagolub/pgxmock/v4"
)

var apptCols = []string{"id", "patient_id", "practitioner_id", "date", "start_time", "end_time", "status", "type", "notes", "created_at", "updated_at"}

func TestPostgresRepository_Create(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("failed to create mock pool: %v", err)
	}
	defer mock.Close()

	mock.ExpectExec(`INSERT INTO appointments`).
		WithArgs(pgxmock.AnyArg(), "p-1", "dr-1", "2026-03-02", "09:00", "10:00", StatusScheduled, TypeCheckup, "", pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	repo := NewPostgresRepositoryWithDB(mock)
	created, err := repo.Create(context.Background(), &Appointment{
		PatientID:      "p-1",
		PractitionerID: "dr-1",
		Date:           "2026-03-02",
		StartTime:      "09:00",
		EndTime:        "10:00",
		Status:         StatusScheduled,
		Type:           TypeCheckup,
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if created.ID == "" {
		t.Error("expected generated appointment ID")
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestPostgresRepository_List_ByPractitionerAndDate(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("failed to create mock pool: %v", err)
	}
	defer mock.Close()

	now := time.Now().UTC()
	mock.ExpectQuery(`SELECT .+ FROM appointments WHERE 1=1 AND practitioner_id = \$1 AND date = \$2 ORDER BY date, start_time, id`).
		WithArgs("dr-1", "2026-03-02").
		WillReturnRows(pgxmock.NewRows(apptCols).
			AddRow("a1", "p-1", "dr-1", "2026-03-02", "09:00", "10:00", StatusScheduled, TypeCheckup, "", now, now).
			AddRow("a2", "p-2", "dr-1", "2026-03-02", "11:00", "12:00", StatusConfirmed, TypeTreatment, "", now, now))

	repo := NewPostgresRepositoryWithDB(mock)
	got, err := repo.List(context.Background(), ListFilter{PractitionerID: "dr-1", Date: "2026-03-02"})
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 appointments, got %d", len(got))
	}
	if got[1].StartTime != "11:00" {
		t.Errorf("StartTime = %q, want 11:00", got[1].StartTime)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestPostgresRepository_GetByID_NotFound(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("failed to create mock pool: %v", err)
	}
	defer mock.Close()

	mock.ExpectQuery(`SELECT .+ FROM appointments WHERE id = \$1`).
		WithArgs("missing").
		WillReturnRows(pgxmock.NewRows(apptCols))

	repo := NewPostgresRepositoryWithDB(mock)
	_, err = repo.GetByID(context.Background(), "missing")
	if err != ErrAppointmentNotFound {
		t.Errorf("expected ErrAppointmentNotFound, got %v", err)
	}
}

func TestPostgresRepository_UpdateAndDelete_NotFound(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("failed to create mock pool: %v", err)
	}
	defer mock.Close()

	mock.ExpectExec(`UPDATE appointments`).
		WithArgs("missing", "p-1", "dr-1", "2026-03-02", "09:00", "10:00", StatusScheduled, TypeCheckup, "", pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))
	mock.ExpectExec(`DELETE FROM appointments WHERE id = \$1`).
		WithArgs("missing").
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	repo := NewPostgresRepositoryWithDB(mock)
	_, err = repo.Update(context.Background(), &Appointment{
		ID:             "missing",
		PatientID:      "p-1",
		PractitionerID: "dr-1",
		Date:           "2026-03-02",
		StartTime:      "09:00",
		EndTime:        "10:00",
		Status:         StatusScheduled,
		Type:           TypeCheckup,
	})
	if err != ErrAppointmentNotFound {
		t.Errorf("Update: expected ErrAppointmentNotFound, got %v", err)
	}

	if err := repo.Delete(context.Background(), "missing"); err != ErrAppointmentNotFound {
		t.Errorf("Delete: expected ErrAppointmentNotFound, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}
