package repository

import (
	"time"

	"github.com/petshop-next/internal/constants"
	"github.com/petshop-next/internal/models"

	"gorm.io/gorm"
)

// DashboardRepository 后台仪表盘聚合查询接口
// 说明：仅聚合统计数据，不承载业务规则。
type DashboardRepository interface {
	GetOverview(startAt, endAt time.Time) (DashboardOverviewRow, error)
	CountOrdersByStatus(startAt, endAt time.Time) (map[string]int64, error)
	GetTopProducts(startAt, endAt time.Time, limit int) ([]DashboardProductRankingRow, error)
}

// DashboardOverviewRow 仪表盘总览原始统计结果
type DashboardOverviewRow struct {
	TotalUsers       int64
	TotalProducts    int64
	LowStockProducts int64
	OrdersTotal      int64
	Revenue          float64
	DiscountGiven    float64
	PromoOrders      int64
}

// DashboardProductRankingRow 商品销量排行原始行
type DashboardProductRankingRow struct {
	ProductID   uint
	ProductName string
	Quantity    int64
	Amount      float64
}

// GormDashboardRepository GORM 仪表盘聚合实现
type GormDashboardRepository struct {
	db *gorm.DB
}

// NewDashboardRepository 创建仪表盘仓库
func NewDashboardRepository(db *gorm.DB) *GormDashboardRepository {
	return &GormDashboardRepository{db: db}
}

const dashboardLowStockThreshold = 5

// GetOverview 获取总览统计，营收不含已取消订单
func (r *GormDashboardRepository) GetOverview(startAt, endAt time.Time) (DashboardOverviewRow, error) {
	result := DashboardOverviewRow{}

	if err := r.db.Model(&models.User{}).Count(&result.TotalUsers).Error; err != nil {
		return result, err
	}
	if err := r.db.Model(&models.Product{}).Where("is_active = ?", true).Count(&result.TotalProducts).Error; err != nil {
		return result, err
	}
	if err := r.db.Model(&models.Product{}).
		Where("is_active = ? AND stock < ?", true, dashboardLowStockThreshold).
		Count(&result.LowStockProducts).Error; err != nil {
		return result, err
	}

	orderBase := func() *gorm.DB {
		return r.db.Model(&models.Order{}).Where("created_at >= ? AND created_at < ?", startAt, endAt)
	}
	if err := orderBase().Count(&result.OrdersTotal).Error; err != nil {
		return result, err
	}
	if err := orderBase().
		Where("status <> ?", constants.OrderStatusCancelled).
		Select("COALESCE(SUM(total), 0)").
		Scan(&result.Revenue).Error; err != nil {
		return result, err
	}
	if err := orderBase().
		Where("status <> ?", constants.OrderStatusCancelled).
		Select("COALESCE(SUM(discount_amount), 0)").
		Scan(&result.DiscountGiven).Error; err != nil {
		return result, err
	}
	if err := orderBase().Where("promo_code_id IS NOT NULL").Count(&result.PromoOrders).Error; err != nil {
		return result, err
	}
	return result, nil
}

// CountOrdersByStatus 按状态统计订单数量
func (r *GormDashboardRepository) CountOrdersByStatus(startAt, endAt time.Time) (map[string]int64, error) {
	var rows []struct {
		Status string
		Total  int64
	}
	if err := r.db.Model(&models.Order{}).
		Select("status, COUNT(*) AS total").
		Where("created_at >= ? AND created_at < ?", startAt, endAt).
		Group("status").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	counts := make(map[string]int64, len(rows))
	for _, row := range rows {
		counts[row.Status] = row.Total
	}
	return counts, nil
}

// GetTopProducts 获取销量排行
func (r *GormDashboardRepository) GetTopProducts(startAt, endAt time.Time, limit int) ([]DashboardProductRankingRow, error) {
	if limit <= 0 {
		limit = 5
	}
	var rows []DashboardProductRankingRow
	err := r.db.Model(&models.OrderItem{}).
		Select("order_items.product_id AS product_id, MAX(order_items.product_name) AS product_name, SUM(order_items.quantity) AS quantity, COALESCE(SUM(order_items.subtotal), 0) AS amount").
		Joins("JOIN orders ON orders.id = order_items.order_id").
		Where("orders.created_at >= ? AND orders.created_at < ? AND orders.status <> ?", startAt, endAt, constants.OrderStatusCancelled).
		Group("order_items.product_id").
		Order("quantity DESC").
		Limit(limit).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}
