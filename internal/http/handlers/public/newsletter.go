package public

import (
	"github.com/petshop-next/internal/http/response"
	"github.com/petshop-next/internal/i18n"

	"github.com/gin-gonic/gin"
)

// NewsletterRequest 订阅/退订请求
type NewsletterRequest struct {
	Email string `json:"email" binding:"required"`
}

// SubscribeNewsletter 订阅邮件并发放欢迎优惠码
func (h *Handler) SubscribeNewsletter(c *gin.Context) {
	var req NewsletterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "newsletter.invalid_email", err)
		return
	}
	result, err := h.NewsletterService.Subscribe(c.Request.Context(), req.Email, i18n.ResolveLocale(c))
	if err != nil {
		respondServiceError(c, err, "error.internal")
		return
	}
	response.Success(c, result)
}

// UnsubscribeNewsletter 退订
func (h *Handler) UnsubscribeNewsletter(c *gin.Context) {
	var req NewsletterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "newsletter.invalid_email", err)
		return
	}
	if err := h.NewsletterService.Unsubscribe(req.Email); err != nil {
		respondServiceError(c, err, "error.internal")
		return
	}
	response.Success(c, gin.H{"unsubscribed": true})
}
