package queue

import (
	"encoding/json"

	"github.com/petshop-next/internal/constants"

	"github.com/hibiken/asynq"
)

const (
	// TaskOrderConfirmation 下单确认邮件任务
	TaskOrderConfirmation = constants.TaskOrderConfirmation
	// TaskOrderStatusEmail 订单状态邮件通知任务
	TaskOrderStatusEmail = constants.TaskOrderStatusEmail
	// TaskPromoCodeEmail 单封优惠码邮件任务
	TaskPromoCodeEmail = constants.TaskPromoCodeEmail
	// TaskCampaignEmail 群发优惠码邮件任务（每个收件人一条）
	TaskCampaignEmail = constants.TaskCampaignEmail
)

// 订单状态邮件事件
const (
	OrderEventStatusChanged   = "status_changed"
	OrderEventReturnRequested = "return_requested"
)

// OrderConfirmationPayload 下单确认任务载荷
type OrderConfirmationPayload struct {
	OrderID uint `json:"order_id"`
}

// OrderStatusEmailPayload 订单状态邮件任务载荷
type OrderStatusEmailPayload struct {
	OrderID uint   `json:"order_id"`
	Status  string `json:"status"`
	Event   string `json:"event"`
}

// PromoCodeEmailPayload 优惠码邮件任务载荷
type PromoCodeEmailPayload struct {
	Email      string `json:"email"`
	Code       string `json:"code"`
	Discount   string `json:"discount"`
	ValidUntil string `json:"valid_until,omitempty"`
	Locale     string `json:"locale,omitempty"`
}

// CampaignEmailPayload 群发优惠码邮件任务载荷
type CampaignEmailPayload struct {
	CampaignID uint   `json:"campaign_id"`
	Email      string `json:"email"`
	Code       string `json:"code"`
	Subject    string `json:"subject"`
	Body       string `json:"body"`
}

func newJSONTask(taskType string, payload interface{}) (*asynq.Task, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(taskType, body), nil
}

// NewOrderConfirmationTask 创建下单确认任务
func NewOrderConfirmationTask(payload OrderConfirmationPayload) (*asynq.Task, error) {
	return newJSONTask(TaskOrderConfirmation, payload)
}

// NewOrderStatusEmailTask 创建订单状态邮件任务
func NewOrderStatusEmailTask(payload OrderStatusEmailPayload) (*asynq.Task, error) {
	return newJSONTask(TaskOrderStatusEmail, payload)
}

// NewPromoCodeEmailTask 创建优惠码邮件任务
func NewPromoCodeEmailTask(payload PromoCodeEmailPayload) (*asynq.Task, error) {
	return newJSONTask(TaskPromoCodeEmail, payload)
}

// NewCampaignEmailTask 创建群发邮件任务
func NewCampaignEmailTask(payload CampaignEmailPayload) (*asynq.Task, error) {
	return newJSONTask(TaskCampaignEmail, payload)
}
