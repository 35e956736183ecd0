package admin

import (
	"github.com/petshop-next/internal/http/response"
	"github.com/petshop-next/internal/repository"
	"github.com/petshop-next/internal/service"

	"github.com/gin-gonic/gin"
)

// SendCampaignRequest 群发请求
type SendCampaignRequest struct {
	PromoCodeID uint   `json:"promo_code_id" binding:"required"`
	Subject     string `json:"subject" binding:"required"`
	Body        string `json:"body"`
	Audience    string `json:"audience" binding:"required"`
}

// SendCampaign 向用户或订阅者群发优惠码
func (h *Handler) SendCampaign(c *gin.Context) {
	operatorID, ok := getOperatorID(c)
	if !ok {
		return
	}
	var req SendCampaignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "campaign.invalid", err)
		return
	}
	campaign, err := h.CampaignService.Send(c.Request.Context(), service.SendCampaignInput{
		SenderID:    operatorID,
		PromoCodeID: req.PromoCodeID,
		Subject:     req.Subject,
		Body:        req.Body,
		Audience:    req.Audience,
	})
	if err != nil {
		respondServiceError(c, err, "error.internal")
		return
	}
	response.Success(c, campaign)
}

// ListCampaigns 群发记录
func (h *Handler) ListCampaigns(c *gin.Context) {
	query, ok := bindQuery[struct {
		PromoCodeID uint `form:"promo_code_id"`
	}](c)
	if !ok {
		return
	}
	page, pageSize := pageQuery(c)
	items, total, err := h.CampaignService.List(repository.CampaignListFilter{
		Page:        page,
		PageSize:    pageSize,
		PromoCodeID: query.PromoCodeID,
	})
	if err != nil {
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}
	successWithPage(c, items, page, pageSize, total)
}
