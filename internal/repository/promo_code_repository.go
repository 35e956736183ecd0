package repository

import (
	"errors"

	"github.com/petshop-next/internal/constants"
	"github.com/petshop-next/internal/models"

	"gorm.io/gorm"
)

// PromoCodeRepository 优惠码数据访问接口
type PromoCodeRepository interface {
	GetByID(id uint) (*models.PromoCode, error)
	GetByCode(code string) (*models.PromoCode, error)
	Create(promo *models.PromoCode) error
	Update(promo *models.PromoCode) (int64, error)
	Delete(id uint) error
	List(filter PromoCodeListFilter) ([]models.PromoCode, int64, error)
	IncrementUsesIfAvailable(id uint) (bool, error)
	CountOrderReferences(id uint) (int64, error)
	WithTx(tx *gorm.DB) PromoCodeRepository
}

// GormPromoCodeRepository GORM 实现
type GormPromoCodeRepository struct {
	db *gorm.DB
}

// NewPromoCodeRepository 创建优惠码仓库
func NewPromoCodeRepository(db *gorm.DB) *GormPromoCodeRepository {
	return &GormPromoCodeRepository{db: db}
}

// WithTx 绑定事务
func (r *GormPromoCodeRepository) WithTx(tx *gorm.DB) PromoCodeRepository {
	if tx == nil {
		return r
	}
	return &GormPromoCodeRepository{db: tx}
}

// GetByID 根据ID获取优惠码
func (r *GormPromoCodeRepository) GetByID(id uint) (*models.PromoCode, error) {
	return first[models.PromoCode](r.db, id)
}

// GetByCode 根据优惠码获取，调用方负责规范化大小写
func (r *GormPromoCodeRepository) GetByCode(code string) (*models.PromoCode, error) {
	return first[models.PromoCode](r.db.Where("code = ?", code))
}

// Create 创建优惠码
func (r *GormPromoCodeRepository) Create(promo *models.PromoCode) error {
	return r.db.Create(promo).Error
}

// Update 更新优惠码的可编辑字段，current_uses 不在此处修改。
// max_uses 不得低于当前 current_uses，条件不满足时影响行数为 0
func (r *GormPromoCodeRepository) Update(promo *models.PromoCode) (int64, error) {
	if promo == nil {
		return 0, nil
	}
	query := r.db.Model(&models.PromoCode{}).Where("id = ?", promo.ID)
	if promo.MaxUses != constants.UnlimitedUses {
		query = query.Where("current_uses <= ?", promo.MaxUses)
	}
	result := query.Updates(map[string]interface{}{
		"discount_type":  promo.DiscountType,
		"discount_value": promo.DiscountValue,
		"valid_from":     promo.ValidFrom,
		"valid_until":    promo.ValidUntil,
		"max_uses":       promo.MaxUses,
		"is_active":      promo.IsActive,
	})
	return result.RowsAffected, result.Error
}

// Delete 删除优惠码
func (r *GormPromoCodeRepository) Delete(id uint) error {
	return r.db.Delete(&models.PromoCode{}, id).Error
}

// List 优惠码列表
func (r *GormPromoCodeRepository) List(filter PromoCodeListFilter) ([]models.PromoCode, int64, error) {
	query := r.db.Model(&models.PromoCode{}).Scopes(
		keyword(filter.Code, "code"),
		eqPtr("is_active", filter.IsActive),
	)
	return listPage[models.PromoCode](query, filter.Page, filter.PageSize)
}

// IncrementUsesIfAvailable 原子地将使用次数加一，超出上限时返回 false
func (r *GormPromoCodeRepository) IncrementUsesIfAvailable(id uint) (bool, error) {
	if id == 0 {
		return false, errors.New("invalid promo code id")
	}
	result := r.db.Model(&models.PromoCode{}).
		Where("id = ? AND (max_uses = ? OR current_uses < max_uses)", id, constants.UnlimitedUses).
		Update("current_uses", gorm.Expr("current_uses + ?", 1))
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}

// CountOrderReferences 统计引用该优惠码的订单数
func (r *GormPromoCodeRepository) CountOrderReferences(id uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.Order{}).Where("promo_code_id = ?", id).Count(&count).Error
	return count, err
}
