package repository

import (
	"github.com/petshop-next/internal/models"

	"gorm.io/gorm"
)

// ReviewRepository 评价数据访问接口
type ReviewRepository interface {
	GetByID(id uint) (*models.Review, error)
	GetByProductAndUser(productID, userID uint) (*models.Review, error)
	Create(review *models.Review) error
	Approve(id uint) (int64, error)
	Delete(id uint) error
	List(filter ReviewListFilter) ([]models.Review, int64, error)
	AverageApprovedRating(productID uint) (float64, int64, error)
}

// GormReviewRepository GORM 实现
type GormReviewRepository struct {
	db *gorm.DB
}

// NewReviewRepository 创建评价仓库
func NewReviewRepository(db *gorm.DB) *GormReviewRepository {
	return &GormReviewRepository{db: db}
}

// GetByID 根据 ID 获取评价
func (r *GormReviewRepository) GetByID(id uint) (*models.Review, error) {
	return first[models.Review](r.db, id)
}

// GetByProductAndUser 获取用户对某商品的评价
func (r *GormReviewRepository) GetByProductAndUser(productID, userID uint) (*models.Review, error) {
	return first[models.Review](r.db.Where("product_id = ? AND user_id = ?", productID, userID))
}

// Create 创建评价
func (r *GormReviewRepository) Create(review *models.Review) error {
	return r.db.Create(review).Error
}

// Approve 审核通过
func (r *GormReviewRepository) Approve(id uint) (int64, error) {
	result := r.db.Model(&models.Review{}).Where("id = ?", id).Update("is_approved", true)
	return result.RowsAffected, result.Error
}

// Delete 删除评价
func (r *GormReviewRepository) Delete(id uint) error {
	return r.db.Delete(&models.Review{}, id).Error
}

// List 评价列表
func (r *GormReviewRepository) List(filter ReviewListFilter) ([]models.Review, int64, error) {
	approved := filter.IsApproved
	if filter.OnlyApproved {
		yes := true
		approved = &yes
	}
	query := r.db.Model(&models.Review{}).Scopes(
		eq("product_id", filter.ProductID),
		eqPtr("is_approved", approved),
	)
	return listPage[models.Review](query, filter.Page, filter.PageSize, "User")
}

// AverageApprovedRating 已审核评价的平均分与数量
func (r *GormReviewRepository) AverageApprovedRating(productID uint) (float64, int64, error) {
	var row struct {
		Avg   *float64
		Count int64
	}
	err := r.db.Model(&models.Review{}).
		Select("AVG(rating) AS avg, COUNT(*) AS count").
		Where("product_id = ? AND is_approved = ?", productID, true).
		Scan(&row).Error
	if err != nil {
		return 0, 0, err
	}
	if row.Avg == nil {
		return 0, row.Count, nil
	}
	return *row.Avg, row.Count, nil
}
