package repository

import (
	"testing"
	"time"

	"github.com/petshop-next/internal/constants"
	"github.com/petshop-next/internal/models"

	"gorm.io/gorm"
)

func createTestOrder(t *testing.T, db *gorm.DB, userID uint, number, status string, productID uint) *models.Order {
	t.Helper()
	repo := NewOrderRepository(db)
	order := &models.Order{
		OrderNumber:  number,
		UserID:       userID,
		AddressID:    1,
		Status:       status,
		Currency:     "RUB",
		Subtotal:     models.MustMoney("100"),
		ShippingCost: models.MustMoney("300"),
		Tax:          models.MustMoney("5"),
		Total:        models.MustMoney("405"),
	}
	items := []models.OrderItem{{
		ProductID:   productID,
		ProductName: "Snapshot",
		UnitPrice:   models.MustMoney("100"),
		Quantity:    1,
		Subtotal:    models.MustMoney("100"),
	}}
	if err := repo.Create(order, items); err != nil {
		t.Fatalf("create order failed: %v", err)
	}
	return order
}

func TestUpdateStatusFromIsConditional(t *testing.T) {
	db := openRepositoryTestDB(t)
	repo := NewOrderRepository(db)
	user := createTestUser(t, db, "status@example.com")
	order := createTestOrder(t, db, user.ID, "AAAA000000000001", constants.OrderStatusPending, 1)

	affected, err := repo.UpdateStatusFrom(order.ID, []string{constants.OrderStatusPending}, constants.OrderStatusCancelled, map[string]interface{}{
		"cancelled_at": time.Now(),
	})
	if err != nil || affected != 1 {
		t.Fatalf("cancel from pending want 1 row, got %d err=%v", affected, err)
	}
	affected, err = repo.UpdateStatusFrom(order.ID, []string{constants.OrderStatusPending}, constants.OrderStatusCancelled, nil)
	if err != nil {
		t.Fatalf("second update failed: %v", err)
	}
	if affected != 0 {
		t.Fatalf("second cancel should not match, got %d", affected)
	}

	reloaded, err := repo.GetByIDAndUser(order.ID, user.ID)
	if err != nil || reloaded == nil {
		t.Fatalf("reload failed: %v", err)
	}
	if reloaded.Status != constants.OrderStatusCancelled || reloaded.CancelledAt == nil {
		t.Fatalf("unexpected order after cancel: %+v", reloaded)
	}
	if len(reloaded.Items) != 1 {
		t.Fatalf("items should be preloaded")
	}
}

func TestGetByIDAndUserHidesForeignOrders(t *testing.T) {
	db := openRepositoryTestDB(t)
	repo := NewOrderRepository(db)
	owner := createTestUser(t, db, "owner@example.com")
	other := createTestUser(t, db, "other@example.com")
	order := createTestOrder(t, db, owner.ID, "AAAA000000000002", constants.OrderStatusPending, 1)

	got, err := repo.GetByIDAndUser(order.ID, other.ID)
	if err != nil {
		t.Fatalf("lookup failed: %v", err)
	}
	if got != nil {
		t.Fatalf("foreign user must not see order")
	}
	email, err := repo.ResolveReceiverEmailByOrderID(order.ID)
	if err != nil || email != "owner@example.com" {
		t.Fatalf("receiver email want owner@example.com got %q err=%v", email, err)
	}
}

func TestMarkReturnRequestedOnlyDelivered(t *testing.T) {
	db := openRepositoryTestDB(t)
	repo := NewOrderRepository(db)
	user := createTestUser(t, db, "return@example.com")
	pending := createTestOrder(t, db, user.ID, "AAAA000000000003", constants.OrderStatusPending, 1)
	delivered := createTestOrder(t, db, user.ID, "AAAA000000000004", constants.OrderStatusDelivered, 7)

	if affected, _ := repo.MarkReturnRequested(pending.ID, user.ID, time.Now()); affected != 0 {
		t.Fatalf("pending order must not accept return request")
	}
	if affected, err := repo.MarkReturnRequested(delivered.ID, user.ID, time.Now()); err != nil || affected != 1 {
		t.Fatalf("delivered order should accept return request, got %d err=%v", affected, err)
	}
	ok, err := repo.HasDeliveredPurchase(user.ID, 7)
	if err != nil || !ok {
		t.Fatalf("expected delivered purchase, ok=%v err=%v", ok, err)
	}
	ok, _ = repo.HasDeliveredPurchase(user.ID, 1)
	if ok {
		t.Fatalf("pending order should not count as delivered purchase")
	}
}

func TestListByUserPaginates(t *testing.T) {
	db := openRepositoryTestDB(t)
	repo := NewOrderRepository(db)
	user := createTestUser(t, db, "list@example.com")
	createTestOrder(t, db, user.ID, "BBBB000000000001", constants.OrderStatusPending, 1)
	createTestOrder(t, db, user.ID, "BBBB000000000002", constants.OrderStatusShipped, 1)
	createTestOrder(t, db, user.ID, "BBBB000000000003", constants.OrderStatusPending, 1)

	orders, total, err := repo.ListByUser(OrderListFilter{UserID: user.ID, Page: 1, PageSize: 2})
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if total != 3 || len(orders) != 2 {
		t.Fatalf("unexpected page total=%d len=%d", total, len(orders))
	}
	if orders[0].OrderNumber != "BBBB000000000003" {
		t.Fatalf("orders should be newest first, got %s", orders[0].OrderNumber)
	}

	pending, total, err := repo.ListAdmin(OrderListFilter{Status: constants.OrderStatusPending})
	if err != nil || total != 2 || len(pending) != 2 {
		t.Fatalf("admin status filter want 2 got %d err=%v", total, err)
	}
}
