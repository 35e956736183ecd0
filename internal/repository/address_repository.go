package repository

import (
	"github.com/petshop-next/internal/models"

	"gorm.io/gorm"
)

// AddressRepository 收货地址数据访问接口
type AddressRepository interface {
	GetByID(id uint) (*models.Address, error)
	GetByIDAndUser(id, userID uint) (*models.Address, error)
	ListByUser(userID uint) ([]models.Address, error)
	CountByUser(userID uint) (int64, error)
	Create(address *models.Address) error
	Update(address *models.Address) error
	Delete(id uint) error
	SetDefault(userID, addressID uint) error
	WithTx(tx *gorm.DB) AddressRepository
}

// GormAddressRepository GORM 实现
type GormAddressRepository struct {
	db *gorm.DB
}

// NewAddressRepository 创建地址仓库
func NewAddressRepository(db *gorm.DB) *GormAddressRepository {
	return &GormAddressRepository{db: db}
}

// WithTx 绑定事务
func (r *GormAddressRepository) WithTx(tx *gorm.DB) AddressRepository {
	if tx == nil {
		return r
	}
	return &GormAddressRepository{db: tx}
}

// GetByID 根据 ID 获取地址
func (r *GormAddressRepository) GetByID(id uint) (*models.Address, error) {
	return first[models.Address](r.db, id)
}

// GetByIDAndUser 获取属于指定用户的地址
func (r *GormAddressRepository) GetByIDAndUser(id, userID uint) (*models.Address, error) {
	return first[models.Address](r.db.Where("id = ? AND user_id = ?", id, userID))
}

// ListByUser 获取用户地址，默认地址在前
func (r *GormAddressRepository) ListByUser(userID uint) ([]models.Address, error) {
	var addresses []models.Address
	if err := r.db.Where("user_id = ?", userID).Order("is_default desc, id asc").Find(&addresses).Error; err != nil {
		return nil, err
	}
	return addresses, nil
}

// CountByUser 统计用户地址数量
func (r *GormAddressRepository) CountByUser(userID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.Address{}).Where("user_id = ?", userID).Count(&count).Error
	return count, err
}

// Create 创建地址
func (r *GormAddressRepository) Create(address *models.Address) error {
	return r.db.Create(address).Error
}

// Update 更新地址
func (r *GormAddressRepository) Update(address *models.Address) error {
	return r.db.Save(address).Error
}

// Delete 删除地址
func (r *GormAddressRepository) Delete(id uint) error {
	return r.db.Delete(&models.Address{}, id).Error
}

// SetDefault 设置默认地址，同一用户仅保留一个默认地址
func (r *GormAddressRepository) SetDefault(userID, addressID uint) error {
	if err := r.db.Model(&models.Address{}).
		Where("user_id = ? AND id <> ?", userID, addressID).
		Update("is_default", false).Error; err != nil {
		return err
	}
	return r.db.Model(&models.Address{}).
		Where("user_id = ? AND id = ?", userID, addressID).
		Update("is_default", true).Error
}
