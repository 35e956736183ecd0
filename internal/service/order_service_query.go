package service

import (
	"strings"

	"github.com/petshop-next/internal/constants"
	"github.com/petshop-next/internal/models"
	"github.com/petshop-next/internal/repository"
)

// OrderQueryService 订单查询（用户端与后台）
type OrderQueryService struct {
	orderRepo repository.OrderRepository
}

// NewOrderQueryService 创建订单查询服务
func NewOrderQueryService(orderRepo repository.OrderRepository) *OrderQueryService {
	return &OrderQueryService{orderRepo: orderRepo}
}

// GetOrderByUser 获取用户自己的订单详情
func (s *OrderQueryService) GetOrderByUser(orderID, userID uint) (*models.Order, error) {
	order, err := s.orderRepo.GetByIDAndUser(orderID, userID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	return order, nil
}

// ListOrdersByUser 获取用户订单列表
func (s *OrderQueryService) ListOrdersByUser(filter repository.OrderListFilter) ([]models.Order, int64, error) {
	if filter.UserID == 0 {
		return nil, 0, ErrOrderNotFound
	}
	filter.Status = normalizeStatusFilter(filter.Status)
	return s.orderRepo.ListByUser(filter)
}

// GetOrderForAdmin 后台订单详情
func (s *OrderQueryService) GetOrderForAdmin(orderID uint) (*models.Order, error) {
	order, err := s.orderRepo.GetByID(orderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	return order, nil
}

// ListOrdersForAdmin 后台订单列表
func (s *OrderQueryService) ListOrdersForAdmin(filter repository.OrderListFilter) ([]models.Order, int64, error) {
	filter.Status = normalizeStatusFilter(filter.Status)
	filter.OrderNumber = strings.TrimSpace(filter.OrderNumber)
	return s.orderRepo.ListAdmin(filter)
}

// normalizeStatusFilter 未知状态当作不过滤
func normalizeStatusFilter(status string) string {
	status = normalizeOrderStatus(status)
	switch status {
	case constants.OrderStatusPending,
		constants.OrderStatusConfirmed,
		constants.OrderStatusShipped,
		constants.OrderStatusDelivered,
		constants.OrderStatusCancelled:
		return status
	}
	return ""
}
