package service

import (
	"errors"
	"fmt"
)

// 购物车 / 地址
var (
	ErrEmptyCart          = errors.New("cart is empty")
	ErrInvalidCartLine    = errors.New("invalid cart line")
	ErrCartLineNotFound   = errors.New("cart line not found")
	ErrAddressNotFound    = errors.New("address not found")
	ErrAddressNotOwned    = errors.New("address does not belong to user")
	ErrAddressInUse       = errors.New("address referenced by orders")
	ErrAddressInvalid     = errors.New("address invalid")
	ErrProductNotFound    = errors.New("product not found")
	ErrProductUnavailable = errors.New("product unavailable")
	ErrInsufficientStock  = errors.New("insufficient stock")
)

// 优惠码
var (
	ErrPromoNotFound      = errors.New("promo code not found")
	ErrPromoInactive      = errors.New("promo code inactive")
	ErrPromoNotStarted    = errors.New("promo code not yet valid")
	ErrPromoExpired       = errors.New("promo code expired")
	ErrPromoUsageExceeded = errors.New("promo code usage limit reached")
	ErrPromoInvalid       = errors.New("promo code invalid")
	ErrPromoCodeExists    = errors.New("promo code already exists")
	ErrPromoInUse         = errors.New("promo code referenced by orders")
)

// 结算 / 订单
var (
	ErrCheckoutCommitFailed = errors.New("checkout commit failed")
	ErrOrderNotFound        = errors.New("order not found")
	ErrInvalidTransition    = errors.New("invalid order status transition")
	ErrReturnNotAllowed     = errors.New("return not allowed")
	ErrForbidden            = errors.New("forbidden")
)

// 用户 / 订阅 / 评价 / 推广
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserDisabled       = errors.New("user disabled")
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidEmail       = errors.New("invalid email")
	ErrAlreadySubscribed  = errors.New("already subscribed")
	ErrSubscriberNotFound = errors.New("subscriber not found")
	ErrInvalidRating      = errors.New("rating must be between 1 and 5")
	ErrReviewExists       = errors.New("review already exists")
	ErrReviewNotFound     = errors.New("review not found")
	ErrNoRecipients       = errors.New("no recipients")
	ErrCampaignInvalid    = errors.New("campaign invalid")
	ErrInvalidRole        = errors.New("invalid role")

	ErrLoginLogFilterInvalid = errors.New("login log filter invalid")
)

// 邮件
var (
	ErrEmailServiceDisabled      = errors.New("email service disabled")
	ErrEmailServiceNotConfigured = errors.New("email service not configured")
	ErrEmailRecipientRejected    = errors.New("email recipient rejected")
	ErrEmailRecipientNotFound    = errors.New("email recipient not found")
)

// 优惠码校验失败原因
const (
	PromoReasonNotFound      = "not_found"
	PromoReasonInactive      = "inactive"
	PromoReasonNotStarted    = "not_started"
	PromoReasonExpired       = "expired"
	PromoReasonUsageExceeded = "usage_exceeded"
)

var promoReasonErrors = map[string]error{
	PromoReasonNotFound:      ErrPromoNotFound,
	PromoReasonInactive:      ErrPromoInactive,
	PromoReasonNotStarted:    ErrPromoNotStarted,
	PromoReasonExpired:       ErrPromoExpired,
	PromoReasonUsageExceeded: ErrPromoUsageExceeded,
}

// PromoValidationError 优惠码不可用，Reason 为机器可读原因
type PromoValidationError struct {
	Reason string
	Code   string
}

func (e *PromoValidationError) Error() string {
	return fmt.Sprintf("promo code %q rejected: %s", e.Code, e.Reason)
}

// Unwrap 映射到对应的哨兵错误，便于 errors.Is 判断
func (e *PromoValidationError) Unwrap() error {
	if target, ok := promoReasonErrors[e.Reason]; ok {
		return target
	}
	return ErrPromoInvalid
}

// Is 任何校验失败都视为 ErrPromoInvalid
func (e *PromoValidationError) Is(target error) bool {
	return target == ErrPromoInvalid
}

func newPromoValidationError(reason, code string) error {
	return &PromoValidationError{Reason: reason, Code: code}
}

// PromoRejectReason 提取校验失败原因，非校验错误返回空串
func PromoRejectReason(err error) string {
	var pve *PromoValidationError
	if errors.As(err, &pve) {
		return pve.Reason
	}
	return ""
}
