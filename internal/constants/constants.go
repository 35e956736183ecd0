package constants

// 订单状态常量
const (
	OrderStatusPending   = "pending"
	OrderStatusConfirmed = "confirmed"
	OrderStatusShipped   = "shipped"
	OrderStatusDelivered = "delivered"
	OrderStatusCancelled = "cancelled"
)

// 优惠码类型
const (
	DiscountTypePercent = "percent"
	DiscountTypeFixed   = "fixed"
)

// UnlimitedUses 优惠码不限次数标记
const UnlimitedUses = -1

// 用户状态常量
const (
	UserStatusActive   = "active"
	UserStatusDisabled = "disabled"
)

// 推广活动受众
const (
	CampaignAudienceUsers       = "users"
	CampaignAudienceSubscribers = "subscribers"
)

// 权限能力（casbin 对象）
const (
	CapabilityManageOrders     = "manage_orders"
	CapabilityManagePromoCodes = "manage_promo_codes"
	CapabilitySendMassEmails   = "send_mass_emails"
	CapabilityManageReviews    = "manage_reviews"
	CapabilityManageUsers      = "manage_users"
)

// 队列名称
const (
	QueueDefault  = "default"
	QueueCritical = "critical"
	QueueBulk     = "bulk"
)

// 异步任务类型
const (
	TaskOrderConfirmation = "order:confirmation"
	TaskOrderStatusEmail  = "order:status_email"
	TaskPromoCodeEmail    = "promo:code_email"
	TaskCampaignEmail     = "promo:campaign_email"
)

// 登录日志
const (
	LoginLogStatusSuccess = "success"
	LoginLogStatusFailed  = "failed"

	LoginLogFailReasonInvalidEmail       = "invalid_email"
	LoginLogFailReasonInvalidCredentials = "invalid_credentials"
	LoginLogFailReasonUserDisabled       = "user_disabled"
	LoginLogFailReasonInternalError      = "internal_error"
)
