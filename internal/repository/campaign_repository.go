package repository

import (
	"github.com/petshop-next/internal/models"

	"gorm.io/gorm"
)

// CampaignRepository 优惠码群发记录数据访问接口
type CampaignRepository interface {
	Create(campaign *models.PromoCampaign) error
	UpdateRecipientCount(id uint, count int) error
	List(filter CampaignListFilter) ([]models.PromoCampaign, int64, error)
}

// GormCampaignRepository GORM 实现
type GormCampaignRepository struct {
	db *gorm.DB
}

// NewCampaignRepository 创建群发记录仓库
func NewCampaignRepository(db *gorm.DB) *GormCampaignRepository {
	return &GormCampaignRepository{db: db}
}

// Create 写入群发记录
func (r *GormCampaignRepository) Create(campaign *models.PromoCampaign) error {
	return r.db.Omit("PromoCode").Create(campaign).Error
}

// UpdateRecipientCount 回写实际入队的收件人数
func (r *GormCampaignRepository) UpdateRecipientCount(id uint, count int) error {
	return r.db.Model(&models.PromoCampaign{}).Where("id = ?", id).Update("recipient_count", count).Error
}

// List 群发记录列表
func (r *GormCampaignRepository) List(filter CampaignListFilter) ([]models.PromoCampaign, int64, error) {
	query := r.db.Model(&models.PromoCampaign{}).Scopes(eq("promo_code_id", filter.PromoCodeID))
	return listPage[models.PromoCampaign](query, filter.Page, filter.PageSize, "PromoCode")
}
