package repository

import "testing"

func TestCartAddQuantityIncrementsExistingLine(t *testing.T) {
	db := openRepositoryTestDB(t)
	repo := NewCartRepository(db)
	user := createTestUser(t, db, "cart@example.com")
	product := createTestProduct(t, db, "toy", "5.00", 10)

	if err := repo.AddQuantity(user.ID, product.ID, 1); err != nil {
		t.Fatalf("add failed: %v", err)
	}
	if err := repo.AddQuantity(user.ID, product.ID, 2); err != nil {
		t.Fatalf("add again failed: %v", err)
	}

	items, err := repo.ListByUser(user.ID)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("expected one cart line, got %d", len(items))
	}
	if items[0].Quantity != 3 {
		t.Fatalf("quantity want 3 got %d", items[0].Quantity)
	}
	if items[0].Product == nil || items[0].Product.ID != product.ID {
		t.Fatalf("product should be preloaded")
	}
}

func TestCartSetQuantityAndDeleteByIDs(t *testing.T) {
	db := openRepositoryTestDB(t)
	repo := NewCartRepository(db)
	user := createTestUser(t, db, "clear@example.com")
	product := createTestProduct(t, db, "bowl", "7.00", 10)

	if _, err := repo.SetQuantity(user.ID, product.ID, 0); err == nil {
		t.Fatalf("zero quantity should be rejected")
	}
	affected, err := repo.SetQuantity(user.ID, product.ID, 4)
	if err != nil || affected != 0 {
		t.Fatalf("missing line should affect 0 rows, got %d err=%v", affected, err)
	}
	if err := repo.AddQuantity(user.ID, product.ID, 1); err != nil {
		t.Fatalf("add failed: %v", err)
	}
	if affected, err := repo.SetQuantity(user.ID, product.ID, 4); err != nil || affected != 1 {
		t.Fatalf("set quantity want 1 row, got %d err=%v", affected, err)
	}
	line, err := repo.GetLine(user.ID, product.ID)
	if err != nil || line == nil {
		t.Fatalf("get line failed: %v", err)
	}
	if deleted, err := repo.DeleteByIDs(user.ID, []uint{line.ID}); err != nil || deleted != 1 {
		t.Fatalf("delete want 1 row, got %d err=%v", deleted, err)
	}
	items, err := repo.ListByUserForUpdate(user.ID)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(items) != 0 {
		t.Fatalf("cart should be empty, got %d", len(items))
	}
}

func TestCartDeleteByIDsKeepsOtherLinesAndUsers(t *testing.T) {
	db := openRepositoryTestDB(t)
	repo := NewCartRepository(db)
	owner := createTestUser(t, db, "owner@example.com")
	other := createTestUser(t, db, "other@example.com")
	leash := createTestProduct(t, db, "leash", "12.00", 10)
	collar := createTestProduct(t, db, "collar", "9.00", 10)

	for _, add := range []struct{ user, product uint }{
		{owner.ID, leash.ID}, {owner.ID, collar.ID}, {other.ID, leash.ID},
	} {
		if err := repo.AddQuantity(add.user, add.product, 1); err != nil {
			t.Fatalf("add failed: %v", err)
		}
	}
	ownerLeash, _ := repo.GetLine(owner.ID, leash.ID)
	otherLeash, _ := repo.GetLine(other.ID, leash.ID)
	if ownerLeash == nil || otherLeash == nil {
		t.Fatalf("seeded lines missing")
	}

	deleted, err := repo.DeleteByIDs(owner.ID, []uint{ownerLeash.ID, otherLeash.ID})
	if err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if deleted != 1 {
		t.Fatalf("foreign line must not be deleted, affected %d", deleted)
	}
	if line, _ := repo.GetLine(owner.ID, collar.ID); line == nil {
		t.Fatalf("unlisted line should survive")
	}
	if line, _ := repo.GetLine(other.ID, leash.ID); line == nil {
		t.Fatalf("other user's line should survive")
	}
	if deleted, err := repo.DeleteByIDs(owner.ID, nil); err != nil || deleted != 0 {
		t.Fatalf("empty id list should be a no-op, got %d err=%v", deleted, err)
	}
}
