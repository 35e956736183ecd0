package repository

import "testing"

func TestDecrementStockStopsAtZero(t *testing.T) {
	db := openRepositoryTestDB(t)
	repo := NewProductRepository(db)
	product := createTestProduct(t, db, "kibble", "100.00", 3)

	affected, err := repo.DecrementStock(product.ID, 2)
	if err != nil || affected != 1 {
		t.Fatalf("first decrement want 1 row, got %d err=%v", affected, err)
	}
	affected, err = repo.DecrementStock(product.ID, 2)
	if err != nil {
		t.Fatalf("second decrement failed: %v", err)
	}
	if affected != 0 {
		t.Fatalf("decrement beyond stock should affect 0 rows, got %d", affected)
	}

	reloaded, err := repo.GetByID(product.ID)
	if err != nil || reloaded == nil {
		t.Fatalf("reload product failed: %v", err)
	}
	if reloaded.Stock != 1 {
		t.Fatalf("stock want 1 got %d", reloaded.Stock)
	}
}

func TestDecrementStockRejectsInvalidParams(t *testing.T) {
	db := openRepositoryTestDB(t)
	repo := NewProductRepository(db)
	if _, err := repo.DecrementStock(0, 1); err == nil {
		t.Fatalf("expected error for zero product id")
	}
	if _, err := repo.DecrementStock(1, 0); err == nil {
		t.Fatalf("expected error for zero quantity")
	}
}

func TestProductListSearchAndActive(t *testing.T) {
	db := openRepositoryTestDB(t)
	repo := NewProductRepository(db)
	createTestProduct(t, db, "cat-kibble", "10.00", 1)
	createTestProduct(t, db, "dog-leash", "20.00", 1)
	hidden := createTestProduct(t, db, "cat-tree", "30.00", 1)
	if err := db.Model(hidden).Update("is_active", false).Error; err != nil {
		t.Fatalf("deactivate failed: %v", err)
	}

	items, total, err := repo.List(ProductListFilter{Search: "cat", OnlyActive: true, Page: 1, PageSize: 10})
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if total != 1 || len(items) != 1 || items[0].Slug != "cat-kibble" {
		t.Fatalf("unexpected list result total=%d items=%+v", total, items)
	}
}
