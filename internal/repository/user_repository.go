package repository

import (
	"strings"

	"github.com/petshop-next/internal/constants"
	"github.com/petshop-next/internal/models"

	"gorm.io/gorm"
)

// UserRepository 用户数据访问接口
type UserRepository interface {
	GetByEmail(email string) (*models.User, error)
	GetByID(id uint) (*models.User, error)
	Create(user *models.User) error
	ListVerifiedActiveEmails() ([]string, error)
	List(filter UserListFilter) ([]models.User, int64, error)
	Count() (int64, error)
}

// GormUserRepository GORM 实现
type GormUserRepository struct {
	db *gorm.DB
}

// NewUserRepository 创建用户仓库
func NewUserRepository(db *gorm.DB) *GormUserRepository {
	return &GormUserRepository{db: db}
}

// GetByEmail 根据邮箱获取用户
func (r *GormUserRepository) GetByEmail(email string) (*models.User, error) {
	return first[models.User](r.db.Where("email = ?", strings.ToLower(strings.TrimSpace(email))))
}

// GetByID 根据 ID 获取用户
func (r *GormUserRepository) GetByID(id uint) (*models.User, error) {
	return first[models.User](r.db, id)
}

// Create 创建用户
func (r *GormUserRepository) Create(user *models.User) error {
	return r.db.Create(user).Error
}

// ListVerifiedActiveEmails 获取已验证且未禁用用户的邮箱
func (r *GormUserRepository) ListVerifiedActiveEmails() ([]string, error) {
	var emails []string
	err := r.db.Model(&models.User{}).
		Where("is_verified = ? AND status = ?", true, constants.UserStatusActive).
		Order("id asc").
		Pluck("email", &emails).Error
	if err != nil {
		return nil, err
	}
	return emails, nil
}

// List 后台用户列表
func (r *GormUserRepository) List(filter UserListFilter) ([]models.User, int64, error) {
	query := r.db.Model(&models.User{}).Scopes(
		keyword(filter.Search, "email", "username"),
		eq("status", filter.Status),
	)
	return listPage[models.User](query, filter.Page, filter.PageSize)
}

// Count 用户总数
func (r *GormUserRepository) Count() (int64, error) {
	var count int64
	err := r.db.Model(&models.User{}).Count(&count).Error
	return count, err
}
