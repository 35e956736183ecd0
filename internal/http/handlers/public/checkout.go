package public

import (
	"github.com/petshop-next/internal/http/response"
	"github.com/petshop-next/internal/i18n"
	"github.com/petshop-next/internal/service"

	"github.com/gin-gonic/gin"
)

// PromoCodeRequest 优惠码请求
type PromoCodeRequest struct {
	Code string `json:"code" binding:"required"`
}

// CheckoutCommitRequest 提交订单请求
type CheckoutCommitRequest struct {
	AddressID uint   `json:"address_id" binding:"required"`
	PromoCode string `json:"promo_code"`
	Notes     string `json:"notes"`
}

// PreviewCheckout 结算预览，未传 code 时沿用已暂存的优惠码
func (h *Handler) PreviewCheckout(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	preview, err := h.CheckoutService.Preview(c.Request.Context(), uid, c.Query("promo_code"))
	if err != nil {
		respondServiceError(c, err, "error.internal")
		return
	}
	response.Success(c, preview)
}

// ApplyCheckoutPromo 校验并暂存优惠码
func (h *Handler) ApplyCheckoutPromo(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	var req PromoCodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	preview, err := h.CheckoutService.ApplyPromo(c.Request.Context(), uid, req.Code)
	if err != nil {
		respondServiceError(c, err, "error.internal")
		return
	}
	response.Success(c, preview)
}

// ClearCheckoutPromo 移除已暂存的优惠码
func (h *Handler) ClearCheckoutPromo(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	h.CheckoutService.ClearPromo(c.Request.Context(), uid)
	response.Success(c, gin.H{"cleared": true})
}

// CommitCheckout 提交订单
func (h *Handler) CommitCheckout(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	var req CheckoutCommitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	result, err := h.CheckoutService.Commit(c.Request.Context(), service.CheckoutInput{
		UserID:    uid,
		AddressID: req.AddressID,
		PromoCode: req.PromoCode,
		Notes:     req.Notes,
	})
	if err != nil {
		respondServiceError(c, err, "checkout.commit_failed")
		return
	}

	locale := i18n.ResolveLocale(c)
	notices := make([]string, 0, 2)
	if result.PromoDropped {
		notices = append(notices, i18n.T(locale, "checkout.promo_dropped"))
	}
	if !result.NotificationQueued {
		notices = append(notices, i18n.T(locale, "checkout.notification_failed"))
	}
	response.Success(c, gin.H{
		"order":               result.Order,
		"promo_dropped":       result.PromoDropped,
		"promo_drop_reason":   result.PromoDropReason,
		"notification_queued": result.NotificationQueued,
		"notices":             notices,
	})
}
