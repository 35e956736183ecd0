package worker

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"github.com/petshop-next/internal/logger"
	"github.com/petshop-next/internal/models"
	"github.com/petshop-next/internal/provider"
	"github.com/petshop-next/internal/queue"
	"github.com/petshop-next/internal/repository"
	"github.com/petshop-next/internal/service"

	"github.com/hibiken/asynq"
)

// Mailer 任务消费所需的邮件能力
type Mailer interface {
	SendOrderConfirmation(toEmail string, order *models.Order, locale string) error
	SendOrderStatusEmail(toEmail string, order *models.Order, status, locale string) error
	SendReturnRequested(order *models.Order, customerEmail, locale string) error
	SendPromoCode(toEmail string, input service.PromoCodeEmailInput, locale string) error
	SendCampaignEmail(toEmail, subject, body, code, locale string) error
}

// Consumer 异步任务消费者
type Consumer struct {
	orderRepo repository.OrderRepository
	mailer    Mailer
}

// NewConsumer 创建消费者
func NewConsumer(c *provider.Container) *Consumer {
	if c == nil {
		return nil
	}
	return &Consumer{orderRepo: c.OrderRepo, mailer: c.EmailService}
}

// Register 注册消费者
func (c *Consumer) Register(mux *asynq.ServeMux) {
	if c == nil || mux == nil {
		logger.Debugw("worker_register_skip_nil", "consumer_nil", c == nil, "mux_nil", mux == nil)
		return
	}
	mux.HandleFunc(queue.TaskOrderConfirmation, c.handleOrderConfirmation)
	mux.HandleFunc(queue.TaskOrderStatusEmail, c.handleOrderStatusEmail)
	mux.HandleFunc(queue.TaskPromoCodeEmail, c.handlePromoCodeEmail)
	mux.HandleFunc(queue.TaskCampaignEmail, c.handleCampaignEmail)
}

func (c *Consumer) handleOrderConfirmation(ctx context.Context, task *asynq.Task) error {
	if c == nil || task == nil {
		return nil
	}
	var payload queue.OrderConfirmationPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		logger.Warnw("worker_order_confirmation_unmarshal_failed", "error", err)
		return err
	}
	order, receiver, err := c.loadOrderReceiver(payload.OrderID)
	if err != nil || order == nil || receiver == "" {
		return err
	}
	err = c.mailer.SendOrderConfirmation(receiver, order, "")
	return c.finishSend(ctx, "order_confirmation", err, "order_id", order.ID, "order_number", order.OrderNumber)
}

func (c *Consumer) handleOrderStatusEmail(ctx context.Context, task *asynq.Task) error {
	if c == nil || task == nil {
		return nil
	}
	var payload queue.OrderStatusEmailPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		logger.Warnw("worker_order_status_email_unmarshal_failed", "error", err)
		return err
	}
	order, receiver, err := c.loadOrderReceiver(payload.OrderID)
	if err != nil || order == nil || receiver == "" {
		return err
	}
	status := strings.TrimSpace(payload.Status)
	if status == "" {
		status = order.Status
	}
	if payload.Event == queue.OrderEventReturnRequested {
		err = c.mailer.SendReturnRequested(order, receiver, "")
		return c.finishSend(ctx, "return_requested", err, "order_id", order.ID, "order_number", order.OrderNumber)
	}
	err = c.mailer.SendOrderStatusEmail(receiver, order, status, "")
	return c.finishSend(ctx, "order_status_email", err, "order_id", order.ID, "order_number", order.OrderNumber, "status", status)
}

func (c *Consumer) handlePromoCodeEmail(ctx context.Context, task *asynq.Task) error {
	if c == nil || task == nil {
		return nil
	}
	var payload queue.PromoCodeEmailPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		logger.Warnw("worker_promo_code_email_unmarshal_failed", "error", err)
		return err
	}
	email := strings.TrimSpace(payload.Email)
	if email == "" || strings.TrimSpace(payload.Code) == "" {
		logger.Debugw("worker_promo_code_email_skip_invalid_payload", "email", email)
		return nil
	}
	err := c.mailer.SendPromoCode(email, service.PromoCodeEmailInput{
		Code:       payload.Code,
		Discount:   payload.Discount,
		ValidUntil: payload.ValidUntil,
	}, payload.Locale)
	return c.finishSend(ctx, "promo_code_email", err, "email", email, "promo_code", payload.Code)
}

func (c *Consumer) handleCampaignEmail(ctx context.Context, task *asynq.Task) error {
	if c == nil || task == nil {
		return nil
	}
	var payload queue.CampaignEmailPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		logger.Warnw("worker_campaign_email_unmarshal_failed", "error", err)
		return err
	}
	email := strings.TrimSpace(payload.Email)
	if email == "" {
		logger.Debugw("worker_campaign_email_skip_empty_receiver", "campaign_id", payload.CampaignID)
		return nil
	}
	err := c.mailer.SendCampaignEmail(email, payload.Subject, payload.Body, payload.Code, "")
	return c.finishSend(ctx, "campaign_email", err, "campaign_id", payload.CampaignID, "email", email)
}

// loadOrderReceiver 订单或收件人缺失时返回 nil，任务直接结束
func (c *Consumer) loadOrderReceiver(orderID uint) (*models.Order, string, error) {
	if orderID == 0 {
		logger.Debugw("worker_order_email_skip_invalid_payload", "order_id", orderID)
		return nil, "", nil
	}
	order, err := c.orderRepo.GetByID(orderID)
	if err != nil {
		logger.Warnw("worker_order_email_fetch_order_failed", "order_id", orderID, "error", err)
		return nil, "", err
	}
	if order == nil {
		logger.Debugw("worker_order_email_skip_order_not_found", "order_id", orderID)
		return nil, "", nil
	}
	receiver, err := c.orderRepo.ResolveReceiverEmailByOrderID(orderID)
	if err != nil {
		logger.Warnw("worker_order_email_resolve_receiver_failed", "order_id", orderID, "error", err)
		return nil, "", err
	}
	receiver = strings.TrimSpace(receiver)
	if receiver == "" {
		logger.Debugw("worker_order_email_skip_empty_receiver", "order_id", orderID, "order_number", order.OrderNumber)
		return nil, "", nil
	}
	return order, receiver, nil
}

// finishSend 邮件未启用或收件人被拒时不再重试
func (c *Consumer) finishSend(ctx context.Context, kind string, err error, fields ...interface{}) error {
	if err == nil {
		return nil
	}
	log := logger.FromContext(ctx)
	fields = append(fields, "kind", kind, "error", err)
	switch {
	case errors.Is(err, service.ErrEmailServiceDisabled),
		errors.Is(err, service.ErrEmailServiceNotConfigured):
		log.Debugw("worker_email_skip_disabled", fields...)
		return nil
	case errors.Is(err, service.ErrEmailRecipientRejected),
		errors.Is(err, service.ErrEmailRecipientNotFound):
		log.Warnw("worker_email_recipient_rejected", fields...)
		return nil
	default:
		log.Warnw("worker_email_send_failed", fields...)
		return err
	}
}
