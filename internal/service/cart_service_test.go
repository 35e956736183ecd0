package service

import (
	"testing"

	"github.com/petshop-next/internal/models"
	"github.com/petshop-next/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCartServiceForTest(t *testing.T) (*CartService, *models.User, *models.Product) {
	t.Helper()
	db := openServiceTestDB(t)
	user := seedUser(t, db, "cart@example.com")
	product := seedProduct(t, db, "cat-litter", "45.50", 3)
	svc := NewCartService(repository.NewCartRepository(db), repository.NewProductRepository(db))
	return svc, user, product
}

func TestCartAddItemAccumulatesQuantity(t *testing.T) {
	svc, user, product := newCartServiceForTest(t)

	require.NoError(t, svc.AddItem(user.ID, product.ID, 1))
	require.NoError(t, svc.AddItem(user.ID, product.ID, 2))

	view, err := svc.ListByUser(user.ID)
	require.NoError(t, err)
	require.Len(t, view.Items, 1)
	assert.Equal(t, 3, view.Items[0].Quantity)
	assert.Equal(t, 3, view.Count)
	assert.Equal(t, "136.50", view.Subtotal.StringFixed(2))
	assert.True(t, view.Items[0].InStock)
}

func TestCartSetQuantityRules(t *testing.T) {
	svc, user, product := newCartServiceForTest(t)

	assert.ErrorIs(t, svc.SetQuantity(user.ID, product.ID, 2), ErrCartLineNotFound)
	require.NoError(t, svc.AddItem(user.ID, product.ID, 1))
	assert.ErrorIs(t, svc.SetQuantity(user.ID, product.ID, 0), ErrInvalidCartLine)
	require.NoError(t, svc.SetQuantity(user.ID, product.ID, 5))

	view, err := svc.ListByUser(user.ID)
	require.NoError(t, err)
	require.Len(t, view.Items, 1)
	assert.Equal(t, 5, view.Items[0].Quantity)
	assert.False(t, view.Items[0].InStock)
}

func TestCartRejectsUnknownOrInactiveProduct(t *testing.T) {
	svc, user, product := newCartServiceForTest(t)

	assert.ErrorIs(t, svc.AddItem(user.ID, 9999, 1), ErrProductNotFound)
	assert.ErrorIs(t, svc.AddItem(user.ID, product.ID, 0), ErrInvalidCartLine)

	require.NoError(t, models.DB.Model(&models.Product{}).Where("id = ?", product.ID).Update("is_active", false).Error)
	assert.ErrorIs(t, svc.AddItem(user.ID, product.ID, 1), ErrProductUnavailable)
}

func TestCartListDropsDeactivatedLines(t *testing.T) {
	svc, user, product := newCartServiceForTest(t)
	require.NoError(t, svc.AddItem(user.ID, product.ID, 1))
	require.NoError(t, models.DB.Model(&models.Product{}).Where("id = ?", product.ID).Update("is_active", false).Error)

	view, err := svc.ListByUser(user.ID)
	require.NoError(t, err)
	assert.Empty(t, view.Items)
	assert.True(t, view.Subtotal.IsZero())

	var count int64
	require.NoError(t, models.DB.Model(&models.CartItem{}).Where("user_id = ?", user.ID).Count(&count).Error)
	assert.Zero(t, count)
}

func TestCartRemoveItem(t *testing.T) {
	svc, user, product := newCartServiceForTest(t)
	require.NoError(t, svc.AddItem(user.ID, product.ID, 2))
	require.NoError(t, svc.RemoveItem(user.ID, product.ID))

	view, err := svc.ListByUser(user.ID)
	require.NoError(t, err)
	assert.Empty(t, view.Items)
}
