package service

import (
	"context"
	"strings"
	"time"

	"github.com/petshop-next/internal/constants"
	"github.com/petshop-next/internal/logger"
	"github.com/petshop-next/internal/models"
	"github.com/petshop-next/internal/queue"
	"github.com/petshop-next/internal/repository"
)

// Authorizer 能力判定，由调用方显式传入
type Authorizer interface {
	Can(userID uint, capability string) (bool, error)
}

// AuthorizerFunc 便于以函数形式提供 Authorizer
type AuthorizerFunc func(userID uint, capability string) (bool, error)

// Can 实现 Authorizer
func (f AuthorizerFunc) Can(userID uint, capability string) (bool, error) {
	return f(userID, capability)
}

// allowedTransitions 订单状态单步迁移图
var allowedTransitions = map[string]map[string]bool{
	constants.OrderStatusPending: {
		constants.OrderStatusConfirmed: true,
		constants.OrderStatusCancelled: true,
	},
	constants.OrderStatusConfirmed: {
		constants.OrderStatusShipped: true,
	},
	constants.OrderStatusShipped: {
		constants.OrderStatusDelivered: true,
	},
}

// forwardRank 履约方向上的先后顺序
var forwardRank = map[string]int{
	constants.OrderStatusPending:   0,
	constants.OrderStatusConfirmed: 1,
	constants.OrderStatusShipped:   2,
	constants.OrderStatusDelivered: 3,
}

// statusTimestampColumn 状态对应的时间戳列
var statusTimestampColumn = map[string]string{
	constants.OrderStatusConfirmed: "confirmed_at",
	constants.OrderStatusShipped:   "shipped_at",
	constants.OrderStatusDelivered: "delivered_at",
	constants.OrderStatusCancelled: "cancelled_at",
}

// CanTransition 判断单步迁移是否合法
func CanTransition(from, to string) bool {
	next, ok := allowedTransitions[normalizeOrderStatus(from)]
	if !ok {
		return false
	}
	return next[normalizeOrderStatus(to)]
}

// IsTerminalStatus 已签收与已取消为终态
func IsTerminalStatus(status string) bool {
	status = normalizeOrderStatus(status)
	return status == constants.OrderStatusDelivered || status == constants.OrderStatusCancelled
}

func normalizeOrderStatus(status string) string {
	return strings.ToLower(strings.TrimSpace(status))
}

// canAdvance 后台可沿履约方向跨步前进，或将待处理订单取消
func canAdvance(from, to string) bool {
	from = normalizeOrderStatus(from)
	to = normalizeOrderStatus(to)
	if from == constants.OrderStatusCancelled {
		return false
	}
	if to == constants.OrderStatusCancelled {
		return from == constants.OrderStatusPending
	}
	fromRank, ok := forwardRank[from]
	if !ok {
		return false
	}
	toRank, ok := forwardRank[to]
	if !ok {
		return false
	}
	return toRank > fromRank
}

// sourcesForAdvance 能前进到 target 的全部来源状态，作为条件更新的守卫
func sourcesForAdvance(target string) []string {
	sources := make([]string, 0, len(forwardRank))
	for status := range forwardRank {
		if canAdvance(status, target) {
			sources = append(sources, status)
		}
	}
	return sources
}

// OrderLifecycle 订单状态机
type OrderLifecycle struct {
	orderRepo repository.OrderRepository
	notifier  NotificationSink
	now       func() time.Time
}

// NewOrderLifecycle 创建订单状态机
func NewOrderLifecycle(orderRepo repository.OrderRepository, notifier NotificationSink) *OrderLifecycle {
	return &OrderLifecycle{
		orderRepo: orderRepo,
		notifier:  notifier,
		now:       time.Now,
	}
}

// Cancel 用户取消订单，仅待处理状态可取消；不回退优惠码使用次数
func (l *OrderLifecycle) Cancel(ctx context.Context, userID, orderID uint) (*models.Order, error) {
	order, err := l.orderRepo.GetByIDAndUser(orderID, userID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	if !CanTransition(order.Status, constants.OrderStatusCancelled) {
		return nil, ErrInvalidTransition
	}
	return l.applyTransition(ctx, order, []string{constants.OrderStatusPending}, constants.OrderStatusCancelled)
}

// RequestReturn 已签收订单申请退货，仅记录时间并通知，不改变状态
func (l *OrderLifecycle) RequestReturn(ctx context.Context, userID, orderID uint) (*models.Order, error) {
	order, err := l.orderRepo.GetByIDAndUser(orderID, userID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	if normalizeOrderStatus(order.Status) != constants.OrderStatusDelivered {
		return nil, ErrReturnNotAllowed
	}
	now := l.now()
	affected, err := l.orderRepo.MarkReturnRequested(order.ID, userID, now)
	if err != nil {
		return nil, err
	}
	if affected == 0 {
		return nil, ErrReturnNotAllowed
	}
	order.ReturnRequestedAt = &now
	l.notifyStatus(ctx, order.ID, order.Status, queue.OrderEventReturnRequested)
	return order, nil
}

// Advance 后台推进订单状态，需要 manage_orders 能力
func (l *OrderLifecycle) Advance(ctx context.Context, authorizer Authorizer, actorID, orderID uint, target string) (*models.Order, error) {
	if authorizer == nil {
		return nil, ErrForbidden
	}
	allowed, err := authorizer.Can(actorID, constants.CapabilityManageOrders)
	if err != nil {
		return nil, err
	}
	if !allowed {
		return nil, ErrForbidden
	}

	order, err := l.orderRepo.GetByID(orderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	target = normalizeOrderStatus(target)
	if !canAdvance(order.Status, target) {
		return nil, ErrInvalidTransition
	}
	updated, err := l.applyTransition(ctx, order, sourcesForAdvance(target), target)
	if err != nil {
		return nil, err
	}
	logger.FromContext(ctx).Infow("order_status_advanced",
		"order_id", order.ID,
		"actor_id", actorID,
		"status", target,
	)
	return updated, nil
}

// applyTransition 以当前状态为守卫执行条件更新，并发修改导致未命中时返回 ErrInvalidTransition
func (l *OrderLifecycle) applyTransition(ctx context.Context, order *models.Order, from []string, target string) (*models.Order, error) {
	now := l.now()
	updates := map[string]interface{}{}
	if column, ok := statusTimestampColumn[target]; ok {
		updates[column] = now
	}
	affected, err := l.orderRepo.UpdateStatusFrom(order.ID, from, target, updates)
	if err != nil {
		return nil, err
	}
	if affected == 0 {
		return nil, ErrInvalidTransition
	}
	fresh, err := l.orderRepo.GetByID(order.ID)
	if err != nil {
		return nil, err
	}
	if fresh == nil {
		return nil, ErrOrderNotFound
	}
	l.notifyStatus(ctx, fresh.ID, fresh.Status, queue.OrderEventStatusChanged)
	return fresh, nil
}

func (l *OrderLifecycle) notifyStatus(ctx context.Context, orderID uint, status, event string) {
	if _, err := enqueueOrderStatusEmailIfEligible(l.orderRepo, l.notifier, orderID, status, event); err != nil {
		logger.FromContext(ctx).Warnw("order_enqueue_status_email_failed",
			"order_id", orderID,
			"status", status,
			"event", event,
			"error", err,
		)
	}
}
