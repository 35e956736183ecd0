package repository

import (
	"errors"
	"time"

	"github.com/petshop-next/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CartRepository 购物车数据访问接口
type CartRepository interface {
	ListByUser(userID uint) ([]models.CartItem, error)
	ListByUserForUpdate(userID uint) ([]models.CartItem, error)
	GetLine(userID, productID uint) (*models.CartItem, error)
	AddQuantity(userID, productID uint, quantity int) error
	SetQuantity(userID, productID uint, quantity int) (int64, error)
	DeleteByUserAndProduct(userID, productID uint) error
	DeleteByIDs(userID uint, ids []uint) (int64, error)
	WithTx(tx *gorm.DB) CartRepository
}

// GormCartRepository GORM 实现
type GormCartRepository struct {
	db *gorm.DB
}

// NewCartRepository 创建购物车仓库
func NewCartRepository(db *gorm.DB) *GormCartRepository {
	return &GormCartRepository{db: db}
}

// WithTx 绑定事务
func (r *GormCartRepository) WithTx(tx *gorm.DB) CartRepository {
	if tx == nil {
		return r
	}
	return &GormCartRepository{db: tx}
}

// ListByUser 获取用户购物车项
func (r *GormCartRepository) ListByUser(userID uint) ([]models.CartItem, error) {
	var items []models.CartItem
	if err := r.db.Preload("Product").Where("user_id = ?", userID).Order("id asc").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// ListByUserForUpdate 加锁读取购物车行，结算事务内使用
func (r *GormCartRepository) ListByUserForUpdate(userID uint) ([]models.CartItem, error) {
	var items []models.CartItem
	if err := r.db.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("user_id = ?", userID).
		Order("id asc").
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// GetLine 获取单个购物车行
func (r *GormCartRepository) GetLine(userID, productID uint) (*models.CartItem, error) {
	return first[models.CartItem](r.db.Where("user_id = ? AND product_id = ?", userID, productID))
}

// AddQuantity 加入购物车，已存在则累加数量
func (r *GormCartRepository) AddQuantity(userID, productID uint, quantity int) error {
	if quantity <= 0 {
		return errors.New("invalid cart quantity")
	}
	now := time.Now()
	item := models.CartItem{UserID: userID, ProductID: productID, Quantity: quantity, CreatedAt: now, UpdatedAt: now}
	return r.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}, {Name: "product_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"quantity":   gorm.Expr("cart_items.quantity + ?", quantity),
			"updated_at": now,
		}),
	}).Create(&item).Error
}

// SetQuantity 设置购物车行数量，返回影响行数
func (r *GormCartRepository) SetQuantity(userID, productID uint, quantity int) (int64, error) {
	if quantity <= 0 {
		return 0, errors.New("invalid cart quantity")
	}
	result := r.db.Model(&models.CartItem{}).
		Where("user_id = ? AND product_id = ?", userID, productID).
		Updates(map[string]interface{}{"quantity": quantity, "updated_at": time.Now()})
	return result.RowsAffected, result.Error
}

// DeleteByUserAndProduct 删除购物车项
func (r *GormCartRepository) DeleteByUserAndProduct(userID, productID uint) error {
	return r.db.Where("user_id = ? AND product_id = ?", userID, productID).Delete(&models.CartItem{}).Error
}

// DeleteByIDs 删除指定购物车行，仅限该用户，返回影响行数
func (r *GormCartRepository) DeleteByIDs(userID uint, ids []uint) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	result := r.db.Where("user_id = ? AND id IN ?", userID, ids).Delete(&models.CartItem{})
	return result.RowsAffected, result.Error
}
