package scheduling

import (
	"context"
	"testing"
)

func TestInMemoryRepository_CreateAndGet(t *testing.T) {
	repo := NewInMemoryRepository()
	ctx := context.Background()

	created, err := repo.Create(ctx, &Appointment{
		PatientID:      "p-1",
		PractitionerID: "dr-1",
		Date:           "2026-03-02",
		StartTime:      "09:00",
		EndTime:        "10:00",
		Status:         StatusScheduled,
		Type:           TypeCheckup,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if created.ID == "" {
		t.Error("expected appointment ID to be set")
	}
	if created.CreatedAt.IsZero() {
		t.Error("expected CreatedAt to be set")
	}

	found, err := repo.GetByID(ctx, created.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if found.PractitionerID != "dr-1" {
		t.Errorf("PractitionerID = %q, want dr-1", found.PractitionerID)
	}
}

func TestInMemoryRepository_GetByID_NotFound(t *testing.T) {
	repo := NewInMemoryRepository()

	_, err := repo.GetByID(context.Background(), "nonexistent")
	if err != ErrAppointmentNotFound {
		t.Errorf("expected ErrAppointmentNotFound, got %v", err)
	}
}

func TestInMemoryRepository_ListFiltersAndOrders(t *testing.T) {
	repo := NewInMemoryRepository()
	ctx := context.Background()

	seed := []*Appointment{
		{PatientID: "p-1", PractitionerID: "dr-1", Date: "2026-03-02", StartTime: "11:00", EndTime: "12:00"},
		{PatientID: "p-2", PractitionerID: "dr-1", Date: "2026-03-02", StartTime: "09:00", EndTime: "10:00"},
		{PatientID: "p-3", PractitionerID: "dr-2", Date: "2026-03-02", StartTime: "09:00", EndTime: "10:00"},
		{PatientID: "p-1", PractitionerID: "dr-1", Date: "2026-03-01", StartTime: "09:00", EndTime: "10:00"},
	}
	for _, a := range seed {
		if _, err := repo.Create(ctx, a); err != nil {
			t.Fatalf("seed failed: %v", err)
		}
	}

	got, err := repo.List(ctx, ListFilter{PractitionerID: "dr-1", Date: "2026-03-02"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 appointments, got %d", len(got))
	}
	if got[0].StartTime != "09:00" || got[1].StartTime != "11:00" {
		t.Errorf("expected start-time ordering, got %s then %s", got[0].StartTime, got[1].StartTime)
	}

	byPatient, err := repo.List(ctx, ListFilter{PatientID: "p-1"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(byPatient) != 2 {
		t.Errorf("expected 2 appointments for p-1, got %d", len(byPatient))
	}
}

func TestInMemoryRepository_UpdateAndDelete(t *testing.T) {
	repo := NewInMemoryRepository()
	ctx := context.Background()

	created, err := repo.Create(ctx, &Appointment{
		PatientID:      "p-1",
		PractitionerID: "dr-1",
		Date:           "2026-03-02",
		StartTime:      "09:00",
		EndTime:        "10:00",
		Status:         StatusScheduled,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	created.Status = StatusCancelled
	updated, err := repo.Update(ctx, created)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated.Status != StatusCancelled {
		t.Errorf("Status = %q, want cancelled", updated.Status)
	}

	if err := repo.Delete(ctx, created.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := repo.GetByID(ctx, created.ID); err != ErrAppointmentNotFound {
		t.Errorf("expected ErrAppointmentNotFound after delete, got %v", err)
	}
	if err := repo.Delete(ctx, created.ID); err != ErrAppointmentNotFound {
		t.Errorf("expected ErrAppointmentNotFound on double delete, got %v", err)
	}
}

func TestInMemoryRepository_Update_NotFound(t *testing.T) {
	repo := NewInMemoryRepository()

	_, err := repo.Update(context.Background(), &Appointment{ID: "missing"})
	if err != ErrAppointmentNotFound {
		t.Errorf("expected ErrAppointmentNotFound, got %v", err)
	}
}
