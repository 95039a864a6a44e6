package treatments

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
)

func TestInMemoryRepository_CRUD(t *testing.T) {
	repo := NewInMemoryRepository()
	ctx := context.Background()

	created, err := repo.Create(ctx, &Treatment{Name: "Root canal", Category: "endodontics", PriceCents: 20000, DurationMinutes: 90})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if created.ID == "" {
		t.Fatal("expected generated treatment ID")
	}

	got, err := repo.GetByID(ctx, created.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if got.PriceCents != 20000 {
		t.Errorf("PriceCents = %d, want 20000", got.PriceCents)
	}

	got.PriceCents = 22000
	if _, err := repo.Update(ctx, got); err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	if err := repo.Delete(ctx, created.ID); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, err := repo.GetByID(ctx, created.ID); err != ErrTreatmentNotFound {
		t.Errorf("expected ErrTreatmentNotFound, got %v", err)
	}
}

func TestInMemoryRepository_ListByCategory(t *testing.T) {
	repo := NewInMemoryRepository()
	ctx := context.Background()

	repo.Create(ctx, &Treatment{Name: "Cleaning", Category: "hygiene", PriceCents: 8000})
	repo.Create(ctx, &Treatment{Name: "Whitening", Category: "cosmetic", PriceCents: 15000})
	repo.Create(ctx, &Treatment{Name: "Scaling", Category: "hygiene", PriceCents: 9000})

	hygiene, err := repo.List(ctx, "hygiene")
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(hygiene) != 2 || hygiene[0].Name != "Cleaning" {
		t.Errorf("unexpected category list: %+v", hygiene)
	}
}

func TestTreatmentValidate(t *testing.T) {
	if err := (&Treatment{}).Validate(); err != ErrMissingName {
		t.Errorf("expected ErrMissingName, got %v", err)
	}
	if err := (&Treatment{Name: "Filling", PriceCents: -1}).Validate(); err != ErrInvalidPrice {
		t.Errorf("expected ErrInvalidPrice, got %v", err)
	}
	if err := (&Treatment{Name: "Filling", PriceCents: 12000}).Validate(); err != nil {
		t.Errorf("expected valid treatment, got %v", err)
	}
}

func TestHandler_CreateRejectsNegativePrice(t *testing.T) {
	handler := NewHandler(NewInMemoryRepository(), nil)

	r := chi.NewRouter()
	r.Post("/api/treatments", handler.Create)

	body, _ := json.Marshal(Treatment{Name: "Filling", PriceCents: -100})
	req := httptest.NewRequest(http.MethodPost, "/api/treatments", bytes.NewReader(body))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected status 400, got %d", w.Code)
	}
}
