package shared

import (
	"errors"

	"github.com/petshop-next/internal/http/response"
	"github.com/petshop-next/internal/service"

	"github.com/gin-gonic/gin"
)

// MappedError 业务错误到接口错误码与文案 key 的映射
type MappedError struct {
	Target error
	Code   int
	Key    string
}

// 优惠码校验失败的具体原因需排在 ErrPromoInvalid 之前
var serviceErrorRules = []MappedError{
	{Target: service.ErrEmptyCart, Code: response.CodeBadRequest, Key: "cart.empty"},
	{Target: service.ErrInvalidCartLine, Code: response.CodeBadRequest, Key: "cart.invalid_quantity"},
	{Target: service.ErrCartLineNotFound, Code: response.CodeNotFound, Key: "cart.line_not_found"},
	{Target: service.ErrAddressNotFound, Code: response.CodeNotFound, Key: "address.not_found"},
	{Target: service.ErrAddressNotOwned, Code: response.CodeForbidden, Key: "checkout.address_not_owned"},
	{Target: service.ErrAddressInUse, Code: response.CodeConflict, Key: "address.in_use"},
	{Target: service.ErrAddressInvalid, Code: response.CodeBadRequest, Key: "address.invalid"},
	{Target: service.ErrProductNotFound, Code: response.CodeNotFound, Key: "product.not_found"},
	{Target: service.ErrProductUnavailable, Code: response.CodeBadRequest, Key: "product.inactive"},
	{Target: service.ErrInsufficientStock, Code: response.CodeConflict, Key: "checkout.insufficient_stock"},
	{Target: service.ErrPromoNotFound, Code: response.CodeUnprocessable, Key: "promo.not_found"},
	{Target: service.ErrPromoInactive, Code: response.CodeUnprocessable, Key: "promo.inactive"},
	{Target: service.ErrPromoNotStarted, Code: response.CodeUnprocessable, Key: "promo.not_started"},
	{Target: service.ErrPromoExpired, Code: response.CodeUnprocessable, Key: "promo.expired"},
	{Target: service.ErrPromoUsageExceeded, Code: response.CodeUnprocessable, Key: "promo.usage_exceeded"},
	{Target: service.ErrPromoCodeExists, Code: response.CodeConflict, Key: "promo.code_exists"},
	{Target: service.ErrPromoInUse, Code: response.CodeConflict, Key: "promo.in_use"},
	{Target: service.ErrPromoInvalid, Code: response.CodeBadRequest, Key: "promo.invalid"},
	{Target: service.ErrCheckoutCommitFailed, Code: response.CodeInternal, Key: "checkout.commit_failed"},
	{Target: service.ErrOrderNotFound, Code: response.CodeNotFound, Key: "order.not_found"},
	{Target: service.ErrInvalidTransition, Code: response.CodeConflict, Key: "order.invalid_transition"},
	{Target: service.ErrReturnNotAllowed, Code: response.CodeConflict, Key: "order.return_not_allowed"},
	{Target: service.ErrForbidden, Code: response.CodeForbidden, Key: "error.forbidden"},
	{Target: service.ErrInvalidCredentials, Code: response.CodeUnauthorized, Key: "auth.invalid_credentials"},
	{Target: service.ErrUserDisabled, Code: response.CodeForbidden, Key: "auth.user_disabled"},
	{Target: service.ErrUserNotFound, Code: response.CodeNotFound, Key: "user.not_found"},
	{Target: service.ErrInvalidEmail, Code: response.CodeBadRequest, Key: "newsletter.invalid_email"},
	{Target: service.ErrAlreadySubscribed, Code: response.CodeConflict, Key: "newsletter.already_subscribed"},
	{Target: service.ErrSubscriberNotFound, Code: response.CodeNotFound, Key: "newsletter.not_found"},
	{Target: service.ErrInvalidRating, Code: response.CodeBadRequest, Key: "review.invalid_rating"},
	{Target: service.ErrReviewExists, Code: response.CodeConflict, Key: "review.exists"},
	{Target: service.ErrReviewNotFound, Code: response.CodeNotFound, Key: "review.not_found"},
	{Target: service.ErrNoRecipients, Code: response.CodeBadRequest, Key: "campaign.no_recipients"},
	{Target: service.ErrCampaignInvalid, Code: response.CodeBadRequest, Key: "campaign.invalid"},
	{Target: service.ErrInvalidRole, Code: response.CodeBadRequest, Key: "role.invalid"},
	{Target: service.ErrEmailServiceDisabled, Code: response.CodeBadRequest, Key: "email.disabled"},
	{Target: service.ErrDashboardRangeInvalid, Code: response.CodeBadRequest, Key: "dashboard.range_invalid"},
	{Target: service.ErrLoginLogFilterInvalid, Code: response.CodeBadRequest, Key: "error.bad_request"},
}

// LookupServiceError 查找业务错误映射，未命中返回 false
func LookupServiceError(err error) (MappedError, bool) {
	for _, rule := range serviceErrorRules {
		if errors.Is(err, rule.Target) {
			return rule, true
		}
	}
	return MappedError{}, false
}

// RespondServiceError 按业务错误映射响应，未知错误记录日志并返回 fallbackKey
func RespondServiceError(c *gin.Context, err error, fallbackKey string) {
	if rule, ok := LookupServiceError(err); ok {
		RespondError(c, rule.Code, rule.Key, nil)
		return
	}
	RespondError(c, response.CodeInternal, fallbackKey, err)
}
