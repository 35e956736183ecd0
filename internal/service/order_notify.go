package service

import (
	"strings"

	"github.com/petshop-next/internal/queue"
	"github.com/petshop-next/internal/repository"
)

// NotificationSink 异步通知出口，*queue.Client 即为其实现
type NotificationSink interface {
	Enabled() bool
	EnqueueOrderConfirmation(payload queue.OrderConfirmationPayload) error
	EnqueueOrderStatusEmail(payload queue.OrderStatusEmailPayload) error
	EnqueuePromoCodeEmail(payload queue.PromoCodeEmailPayload) error
	EnqueueCampaignEmail(payload queue.CampaignEmailPayload) error
}

func sinkEnabled(sink NotificationSink) bool {
	return sink != nil && sink.Enabled()
}

// enqueueOrderStatusEmailIfEligible 根据订单接收邮箱决定是否入队状态邮件任务。
// 返回值 skipped 表示任务被跳过（队列未启用或用户没有邮箱）。
func enqueueOrderStatusEmailIfEligible(orderRepo repository.OrderRepository, sink NotificationSink, orderID uint, status, event string) (skipped bool, err error) {
	if !sinkEnabled(sink) || orderID == 0 {
		return true, nil
	}
	if orderRepo != nil {
		receiverEmail, lookupErr := orderRepo.ResolveReceiverEmailByOrderID(orderID)
		if lookupErr == nil && strings.TrimSpace(receiverEmail) == "" {
			return true, nil
		}
	}

	if err := sink.EnqueueOrderStatusEmail(queue.OrderStatusEmailPayload{
		OrderID: orderID,
		Status:  strings.TrimSpace(status),
		Event:   strings.TrimSpace(event),
	}); err != nil {
		return false, err
	}
	return false, nil
}
