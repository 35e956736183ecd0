package repository

import (
	"strings"

	"github.com/petshop-next/internal/models"

	"gorm.io/gorm"
)

// SubscriberRepository 订阅者数据访问接口
type SubscriberRepository interface {
	GetByEmail(email string) (*models.Subscriber, error)
	Create(subscriber *models.Subscriber) error
	Update(subscriber *models.Subscriber) error
	Delete(id uint) error
	List(filter SubscriberListFilter) ([]models.Subscriber, int64, error)
	ListDeliverableEmails() ([]string, error)
	WithTx(tx *gorm.DB) SubscriberRepository
}

// GormSubscriberRepository GORM 实现
type GormSubscriberRepository struct {
	db *gorm.DB
}

// NewSubscriberRepository 创建订阅者仓库
func NewSubscriberRepository(db *gorm.DB) *GormSubscriberRepository {
	return &GormSubscriberRepository{db: db}
}

// WithTx 绑定事务
func (r *GormSubscriberRepository) WithTx(tx *gorm.DB) SubscriberRepository {
	if tx == nil {
		return r
	}
	return &GormSubscriberRepository{db: tx}
}

// GetByEmail 根据邮箱获取订阅者
func (r *GormSubscriberRepository) GetByEmail(email string) (*models.Subscriber, error) {
	return first[models.Subscriber](r.db.Where("email = ?", strings.ToLower(strings.TrimSpace(email))))
}

// Create 创建订阅者
func (r *GormSubscriberRepository) Create(subscriber *models.Subscriber) error {
	return r.db.Create(subscriber).Error
}

// Update 更新订阅者
func (r *GormSubscriberRepository) Update(subscriber *models.Subscriber) error {
	return r.db.Save(subscriber).Error
}

// Delete 删除订阅者
func (r *GormSubscriberRepository) Delete(id uint) error {
	return r.db.Delete(&models.Subscriber{}, id).Error
}

// List 订阅者列表
func (r *GormSubscriberRepository) List(filter SubscriberListFilter) ([]models.Subscriber, int64, error) {
	query := r.db.Model(&models.Subscriber{}).Scopes(
		keyword(filter.Search, "email"),
		eqPtr("is_active", filter.IsActive),
	)
	return listPage[models.Subscriber](query, filter.Page, filter.PageSize)
}

// ListDeliverableEmails 获取已验证且仍在订阅中的邮箱
func (r *GormSubscriberRepository) ListDeliverableEmails() ([]string, error) {
	var emails []string
	err := r.db.Model(&models.Subscriber{}).
		Where("is_verified = ? AND is_active = ?", true, true).
		Order("id asc").
		Pluck("email", &emails).Error
	if err != nil {
		return nil, err
	}
	return emails, nil
}
