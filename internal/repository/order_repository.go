package repository

import (
	"errors"
	"strings"
	"time"

	"github.com/petshop-next/internal/constants"
	"github.com/petshop-next/internal/models"

	"gorm.io/gorm"
)

// OrderRepository 订单数据访问接口
type OrderRepository interface {
	Create(order *models.Order, items []models.OrderItem) error
	GetByID(id uint) (*models.Order, error)
	GetByIDAndUser(id uint, userID uint) (*models.Order, error)
	ResolveReceiverEmailByOrderID(orderID uint) (string, error)
	ListByUser(filter OrderListFilter) ([]models.Order, int64, error)
	ListAdmin(filter OrderListFilter) ([]models.Order, int64, error)
	UpdateStatusFrom(id uint, from []string, status string, updates map[string]interface{}) (int64, error)
	MarkReturnRequested(id uint, userID uint, at time.Time) (int64, error)
	CountByAddress(addressID uint) (int64, error)
	HasDeliveredPurchase(userID, productID uint) (bool, error)
	WithTx(tx *gorm.DB) OrderRepository
}

// GormOrderRepository GORM 实现
type GormOrderRepository struct {
	db *gorm.DB
}

// NewOrderRepository 创建订单仓库
func NewOrderRepository(db *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{db: db}
}

// WithTx 绑定事务
func (r *GormOrderRepository) WithTx(tx *gorm.DB) OrderRepository {
	if tx == nil {
		return r
	}
	return &GormOrderRepository{db: tx}
}

// Create 创建订单与订单项
func (r *GormOrderRepository) Create(order *models.Order, items []models.OrderItem) error {
	if err := r.db.Omit("Items", "PromoCode").Create(order).Error; err != nil {
		return err
	}
	for i := range items {
		items[i].OrderID = order.ID
	}
	if len(items) > 0 {
		if err := r.db.Create(&items).Error; err != nil {
			return err
		}
	}
	order.Items = items
	return nil
}

// GetByID 根据 ID 获取订单
func (r *GormOrderRepository) GetByID(id uint) (*models.Order, error) {
	return first[models.Order](r.db.Preload("Items").Preload("PromoCode"), id)
}

// GetByIDAndUser 获取用户订单详情
func (r *GormOrderRepository) GetByIDAndUser(id uint, userID uint) (*models.Order, error) {
	return first[models.Order](r.db.Preload("Items").Preload("PromoCode").
		Where("id = ? AND user_id = ?", id, userID))
}

// ResolveReceiverEmailByOrderID 根据订单 ID 解析通知收件邮箱
func (r *GormOrderRepository) ResolveReceiverEmailByOrderID(orderID uint) (string, error) {
	if orderID == 0 {
		return "", nil
	}
	var row struct {
		Email string
	}
	err := r.db.Model(&models.Order{}).
		Select("users.email AS email").
		Joins("JOIN users ON users.id = orders.user_id").
		Where("orders.id = ?", orderID).
		Take(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", nil
		}
		return "", err
	}
	return strings.TrimSpace(row.Email), nil
}

// ListByUser 获取用户订单列表
func (r *GormOrderRepository) ListByUser(filter OrderListFilter) ([]models.Order, int64, error) {
	query := r.db.Model(&models.Order{}).Where("user_id = ?", filter.UserID).Scopes(eq("status", filter.Status))
	if filter.OrderNumber != "" {
		query = query.Where("order_number LIKE ?", "%"+strings.ToUpper(filter.OrderNumber)+"%")
	}
	return listPage[models.Order](query, filter.Page, filter.PageSize, "Items")
}

// ListAdmin 后台订单列表
func (r *GormOrderRepository) ListAdmin(filter OrderListFilter) ([]models.Order, int64, error) {
	query := r.db.Model(&models.Order{}).Scopes(
		eq("user_id", filter.UserID),
		eq("status", filter.Status),
		eq("order_number", strings.ToUpper(filter.OrderNumber)),
	)
	if filter.CreatedFrom != nil {
		query = query.Where("created_at >= ?", *filter.CreatedFrom)
	}
	if filter.CreatedTo != nil {
		query = query.Where("created_at <= ?", *filter.CreatedTo)
	}
	return listPage[models.Order](query, filter.Page, filter.PageSize, "Items")
}

// UpdateStatusFrom 仅当当前状态属于 from 时更新状态，返回影响行数
func (r *GormOrderRepository) UpdateStatusFrom(id uint, from []string, status string, updates map[string]interface{}) (int64, error) {
	if len(from) == 0 {
		return 0, errors.New("empty source status set")
	}
	if updates == nil {
		updates = map[string]interface{}{}
	}
	updates["status"] = status
	updates["updated_at"] = time.Now()
	result := r.db.Model(&models.Order{}).
		Where("id = ? AND status IN ?", id, from).
		Updates(updates)
	return result.RowsAffected, result.Error
}

// MarkReturnRequested 标记退货申请，仅对尚未申请过的已签收订单生效，不改变状态
func (r *GormOrderRepository) MarkReturnRequested(id uint, userID uint, at time.Time) (int64, error) {
	result := r.db.Model(&models.Order{}).
		Where("id = ? AND user_id = ? AND status = ? AND return_requested_at IS NULL", id, userID, constants.OrderStatusDelivered).
		Updates(map[string]interface{}{"return_requested_at": at, "updated_at": at})
	return result.RowsAffected, result.Error
}

// CountByAddress 统计引用该地址的订单数
func (r *GormOrderRepository) CountByAddress(addressID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.Order{}).Where("address_id = ?", addressID).Count(&count).Error
	return count, err
}

// HasDeliveredPurchase 用户是否有包含该商品的已签收订单
func (r *GormOrderRepository) HasDeliveredPurchase(userID, productID uint) (bool, error) {
	var count int64
	err := r.db.Model(&models.OrderItem{}).
		Joins("JOIN orders ON orders.id = order_items.order_id").
		Where("orders.user_id = ? AND orders.status = ? AND order_items.product_id = ?",
			userID, constants.OrderStatusDelivered, productID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
