package admin

import (
	"strings"
	"time"

	"github.com/petshop-next/internal/http/response"
	"github.com/petshop-next/internal/models"
	"github.com/petshop-next/internal/repository"
	"github.com/petshop-next/internal/service"

	"github.com/gin-gonic/gin"
)

// PromoCodeRequest 创建/更新优惠码请求
type PromoCodeRequest struct {
	Code          string       `json:"code"`
	DiscountType  string       `json:"discount_type" binding:"required"`
	DiscountValue models.Money `json:"discount_value"`
	ValidFrom     *time.Time   `json:"valid_from"`
	ValidUntil    *time.Time   `json:"valid_until"`
	MaxUses       *int         `json:"max_uses"`
	IsActive      *bool        `json:"is_active"`
}

// 有效期统一按 UTC 存储
func (r PromoCodeRequest) toInput() service.PromoCodeInput {
	return service.PromoCodeInput{
		Code:          r.Code,
		DiscountType:  r.DiscountType,
		DiscountValue: r.DiscountValue,
		ValidFrom:     utcTime(r.ValidFrom),
		ValidUntil:    utcTime(r.ValidUntil),
		MaxUses:       r.MaxUses,
		IsActive:      r.IsActive,
	}
}

func utcTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	utc := t.UTC()
	return &utc
}

// ListPromoCodes 优惠码列表
func (h *Handler) ListPromoCodes(c *gin.Context) {
	query, ok := bindQuery[struct {
		Code     string `form:"code"`
		IsActive *bool  `form:"is_active"`
	}](c)
	if !ok {
		return
	}
	page, pageSize := pageQuery(c)
	codes, total, err := h.PromoAdminService.List(repository.PromoCodeListFilter{
		Page:     page,
		PageSize: pageSize,
		Code:     strings.TrimSpace(query.Code),
		IsActive: query.IsActive,
	})
	if err != nil {
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}
	successWithPage(c, codes, page, pageSize, total)
}

// GetPromoCode 优惠码详情
func (h *Handler) GetPromoCode(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	promo, err := h.PromoAdminService.Get(id)
	if err != nil {
		respondServiceError(c, err, "error.internal")
		return
	}
	response.Success(c, promo)
}

// CreatePromoCode 创建优惠码
func (h *Handler) CreatePromoCode(c *gin.Context) {
	var req PromoCodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "promo.invalid", err)
		return
	}
	promo, err := h.PromoAdminService.Create(req.toInput())
	if err != nil {
		respondServiceError(c, err, "error.internal")
		return
	}
	response.Success(c, promo)
}

// UpdatePromoCode 更新优惠码
func (h *Handler) UpdatePromoCode(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req PromoCodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "promo.invalid", err)
		return
	}
	promo, err := h.PromoAdminService.Update(id, req.toInput())
	if err != nil {
		respondServiceError(c, err, "error.internal")
		return
	}
	response.Success(c, promo)
}

// DeletePromoCode 删除优惠码，被订单引用时拒绝
func (h *Handler) DeletePromoCode(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if err := h.PromoAdminService.Delete(id); err != nil {
		respondServiceError(c, err, "error.internal")
		return
	}
	response.Success(c, gin.H{"deleted": true})
}
