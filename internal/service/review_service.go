package service

import (
	"math"
	"strings"

	"github.com/petshop-next/internal/models"
	"github.com/petshop-next/internal/repository"
)

// ReviewService 商品评价服务
type ReviewService struct {
	reviewRepo  repository.ReviewRepository
	productRepo repository.ProductRepository
	orderRepo   repository.OrderRepository
}

// NewReviewService 创建评价服务
func NewReviewService(reviewRepo repository.ReviewRepository, productRepo repository.ProductRepository, orderRepo repository.OrderRepository) *ReviewService {
	return &ReviewService{
		reviewRepo:  reviewRepo,
		productRepo: productRepo,
		orderRepo:   orderRepo,
	}
}

// CreateReviewInput 提交评价输入
type CreateReviewInput struct {
	UserID    uint
	ProductID uint
	Rating    int
	Title     string
	Content   string
}

// ProductReviews 商品评价汇总
type ProductReviews struct {
	Reviews       []models.Review `json:"reviews"`
	Total         int64           `json:"total"`
	AverageRating float64         `json:"average_rating"`
	RatingCount   int64           `json:"rating_count"`
}

// Create 提交评价，每个用户每个商品仅一条，需后台审核后展示
func (s *ReviewService) Create(input CreateReviewInput) (*models.Review, error) {
	if input.Rating < 1 || input.Rating > 5 {
		return nil, ErrInvalidRating
	}
	product, err := s.productRepo.GetByID(input.ProductID)
	if err != nil {
		return nil, err
	}
	if product == nil || !product.IsActive {
		return nil, ErrProductNotFound
	}
	existing, err := s.reviewRepo.GetByProductAndUser(input.ProductID, input.UserID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrReviewExists
	}
	verified, err := s.orderRepo.HasDeliveredPurchase(input.UserID, input.ProductID)
	if err != nil {
		return nil, err
	}

	review := &models.Review{
		ProductID:          input.ProductID,
		UserID:             input.UserID,
		Rating:             input.Rating,
		Title:              strings.TrimSpace(input.Title),
		Content:            strings.TrimSpace(input.Content),
		IsVerifiedPurchase: verified,
	}
	if err := s.reviewRepo.Create(review); err != nil {
		return nil, err
	}
	return review, nil
}

// ListApproved 商品已审核评价及平均分
func (s *ReviewService) ListApproved(productID uint, page, pageSize int) (*ProductReviews, error) {
	reviews, total, err := s.reviewRepo.List(repository.ReviewListFilter{
		Page:         page,
		PageSize:     pageSize,
		ProductID:    productID,
		OnlyApproved: true,
	})
	if err != nil {
		return nil, err
	}
	avg, count, err := s.reviewRepo.AverageApprovedRating(productID)
	if err != nil {
		return nil, err
	}
	return &ProductReviews{
		Reviews:       reviews,
		Total:         total,
		AverageRating: math.Round(avg*10) / 10,
		RatingCount:   count,
	}, nil
}

// ListForAdmin 后台评价列表
func (s *ReviewService) ListForAdmin(filter repository.ReviewListFilter) ([]models.Review, int64, error) {
	filter.OnlyApproved = false
	return s.reviewRepo.List(filter)
}

// Approve 审核通过
func (s *ReviewService) Approve(id uint) (*models.Review, error) {
	affected, err := s.reviewRepo.Approve(id)
	if err != nil {
		return nil, err
	}
	if affected == 0 {
		return nil, ErrReviewNotFound
	}
	return s.reviewRepo.GetByID(id)
}

// Delete 删除评价
func (s *ReviewService) Delete(id uint) error {
	review, err := s.reviewRepo.GetByID(id)
	if err != nil {
		return err
	}
	if review == nil {
		return ErrReviewNotFound
	}
	return s.reviewRepo.Delete(id)
}
