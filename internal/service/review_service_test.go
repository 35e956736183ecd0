package service

import (
	"testing"

	"github.com/petshop-next/internal/constants"
	"github.com/petshop-next/internal/models"
	"github.com/petshop-next/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newReviewServiceForTest(db *gorm.DB) *ReviewService {
	return NewReviewService(repository.NewReviewRepository(db), repository.NewProductRepository(db), repository.NewOrderRepository(db))
}

func TestReviewCreateMarksVerifiedPurchase(t *testing.T) {
	db := openServiceTestDB(t)
	user := seedUser(t, db, "reviewer@example.com")
	address := seedAddress(t, db, user.ID)
	product := seedProduct(t, db, "scratching-post", "990.00", 5)
	order := seedOrder(t, db, user.ID, address.ID, "REVIEW0000000001", constants.OrderStatusDelivered)
	require.NoError(t, db.Create(&models.OrderItem{
		OrderID:     order.ID,
		ProductID:   product.ID,
		ProductName: product.Name,
		UnitPrice:   product.Price,
		Quantity:    1,
		Subtotal:    product.Price,
	}).Error)
	svc := newReviewServiceForTest(db)

	review, err := svc.Create(CreateReviewInput{UserID: user.ID, ProductID: product.ID, Rating: 5, Title: " Great "})
	require.NoError(t, err)
	assert.True(t, review.IsVerifiedPurchase)
	assert.False(t, review.IsApproved)
	assert.Equal(t, "Great", review.Title)

	_, err = svc.Create(CreateReviewInput{UserID: user.ID, ProductID: product.ID, Rating: 4})
	assert.ErrorIs(t, err, ErrReviewExists)
}

func TestReviewCreateValidation(t *testing.T) {
	db := openServiceTestDB(t)
	user := seedUser(t, db, "picky@example.com")
	product := seedProduct(t, db, "bird-cage", "1500.00", 1)
	svc := newReviewServiceForTest(db)

	_, err := svc.Create(CreateReviewInput{UserID: user.ID, ProductID: product.ID, Rating: 0})
	assert.ErrorIs(t, err, ErrInvalidRating)
	_, err = svc.Create(CreateReviewInput{UserID: user.ID, ProductID: product.ID, Rating: 6})
	assert.ErrorIs(t, err, ErrInvalidRating)
	_, err = svc.Create(CreateReviewInput{UserID: user.ID, ProductID: 9999, Rating: 3})
	assert.ErrorIs(t, err, ErrProductNotFound)

	review, err := svc.Create(CreateReviewInput{UserID: user.ID, ProductID: product.ID, Rating: 3})
	require.NoError(t, err)
	assert.False(t, review.IsVerifiedPurchase)
}

func TestReviewApprovalControlsPublicListing(t *testing.T) {
	db := openServiceTestDB(t)
	product := seedProduct(t, db, "fish-tank", "3000.00", 2)
	alice := seedUser(t, db, "alice@example.com")
	bob := seedUser(t, db, "bob@example.com")
	svc := newReviewServiceForTest(db)

	first, err := svc.Create(CreateReviewInput{UserID: alice.ID, ProductID: product.ID, Rating: 5})
	require.NoError(t, err)
	_, err = svc.Create(CreateReviewInput{UserID: bob.ID, ProductID: product.ID, Rating: 2})
	require.NoError(t, err)

	public, err := svc.ListApproved(product.ID, 1, 10)
	require.NoError(t, err)
	assert.Empty(t, public.Reviews)
	assert.Zero(t, public.AverageRating)

	approved, err := svc.Approve(first.ID)
	require.NoError(t, err)
	assert.True(t, approved.IsApproved)

	public, err = svc.ListApproved(product.ID, 1, 10)
	require.NoError(t, err)
	require.Len(t, public.Reviews, 1)
	assert.Equal(t, int64(1), public.RatingCount)
	assert.InDelta(t, 5.0, public.AverageRating, 0.001)

	all, total, err := svc.ListForAdmin(repository.ReviewListFilter{ProductID: product.ID})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Len(t, all, 2)

	_, err = svc.Approve(9999)
	assert.ErrorIs(t, err, ErrReviewNotFound)
	require.NoError(t, svc.Delete(first.ID))
	assert.ErrorIs(t, svc.Delete(first.ID), ErrReviewNotFound)
}
