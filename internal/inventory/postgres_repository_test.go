package inventory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/pashagolub/pgxmock/v4"
)

var invItemCols = []string{"id", "name", "category", "unit", "current_quantity", "minimum_quantity", "cost_price_cents", "supplier_id", "created_at", "updated_at"}

func TestPostgresRepository_CreateItem(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("failed to create mock pool: %v", err)
	}
	defer mock.Close()

	mock.ExpectExec(`INSERT INTO inventory_items`).
		WithArgs(pgxmock.AnyArg(), "gloves", "consumables", "box", int64(100), int64(20), int64(0), "", pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	repo := NewPostgresRepositoryWithDB(mock)
	created, err := repo.CreateItem(context.Background(), &Item{
		Name:            "gloves",
		Category:        "consumables",
		Unit:            "box",
		CurrentQuantity: 100,
		MinimumQuantity: 20,
	})
	if err != nil {
		t.Fatalf("CreateItem failed: %v", err)
	}
	if created.ID == "" {
		t.Error("expected generated item ID")
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestPostgresRepository_GetItem_NotFound(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("failed to create mock pool: %v", err)
	}
	defer mock.Close()

	mock.ExpectQuery(`SELECT .+ FROM inventory_items WHERE id = \$1`).
		WithArgs("missing").
		WillReturnRows(pgxmock.NewRows(invItemCols))

	repo := NewPostgresRepositoryWithDB(mock)
	_, err = repo.GetItem(context.Background(), "missing")
	if err != ErrItemNotFound {
		t.Errorf("expected ErrItemNotFound, got %v", err)
	}
}

func TestPostgresRepository_ApplyTransaction(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("failed to create mock pool: %v", err)
	}
	defer mock.Close()

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE inventory_items SET current_quantity = \$2`).
		WithArgs("item-1", int64(70), pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectExec(`INSERT INTO inventory_transactions`).
		WithArgs(pgxmock.AnyArg(), "item-1", TxPurchase, int64(20), "", "", pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectCommit()

	repo := NewPostgresRepositoryWithDB(mock)
	recorded, err := repo.ApplyTransaction(context.Background(), &Transaction{
		ItemID:   "item-1",
		Type:     TxPurchase,
		Quantity: 20,
	}, 70)
	if err != nil {
		t.Fatalf("ApplyTransaction failed: %v", err)
	}
	if recorded.ID == "" {
		t.Error("expected generated transaction ID")
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestPostgresRepository_ApplyTransaction_UnknownItem(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("failed to create mock pool: %v", err)
	}
	defer mock.Close()

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE inventory_items SET current_quantity = \$2`).
		WithArgs("missing", int64(5), pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))
	mock.ExpectRollback()

	repo := NewPostgresRepositoryWithDB(mock)
	_, err = repo.ApplyTransaction(context.Background(), &Transaction{
		ItemID:   "missing",
		Type:     TxPurchase,
		Quantity: 5,
	}, 5)
	if err != ErrItemNotFound {
		t.Errorf("expected ErrItemNotFound, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestPostgresRepository_ApplyTransaction_RollsBackOnInsertFailure(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("failed to create mock pool: %v", err)
	}
	defer mock.Close()

	// The quantity update and the ledger insert share one transaction; a
	// failed insert must roll the quantity change back.
	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE inventory_items SET current_quantity = \$2`).
		WithArgs("item-1", int64(70), pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectExec(`INSERT INTO inventory_transactions`).
		WithArgs(pgxmock.AnyArg(), "item-1", TxPurchase, int64(20), "", "", pgxmock.AnyArg()).
		WillReturnError(errors.New("connection reset"))
	mock.ExpectRollback()

	repo := NewPostgresRepositoryWithDB(mock)
	_, err = repo.ApplyTransaction(context.Background(), &Transaction{
		ItemID:   "item-1",
		Type:     TxPurchase,
		Quantity: 20,
	}, 70)
	if err == nil {
		t.Fatal("expected error when ledger insert fails")
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestPostgresRepository_ListItems(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("failed to create mock pool: %v", err)
	}
	defer mock.Close()

	now := time.Now().UTC()
	mock.ExpectQuery(`SELECT .+ FROM inventory_items ORDER BY name, id`).
		WillReturnRows(pgxmock.NewRows(invItemCols).
			AddRow("i1", "anesthetic", "medication", "vial", int64(5), int64(10), int64(1200), "", now, now).
			AddRow("i2", "gloves", "consumables", "box", int64(100), int64(20), int64(800), "", now, now))

	repo := NewPostgresRepositoryWithDB(mock)
	got, err := repo.ListItems(context.Background())
	if err != nil {
		t.Fatalf("ListItems failed: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 items, got %d", len(got))
	}

	low := NeedsReorder(got)
	if len(low) != 1 || low[0].Name != "anesthetic" {
		t.Errorf("unexpected reorder list: %+v", low)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}
