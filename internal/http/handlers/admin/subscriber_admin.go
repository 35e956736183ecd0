package admin

import (
	"github.com/petshop-next/internal/http/response"
	"github.com/petshop-next/internal/repository"

	"github.com/gin-gonic/gin"
)

// ListSubscribers 订阅者列表
func (h *Handler) ListSubscribers(c *gin.Context) {
	query, ok := bindQuery[struct {
		Search   string `form:"search"`
		IsActive *bool  `form:"is_active"`
	}](c)
	if !ok {
		return
	}
	page, pageSize := pageQuery(c)
	items, total, err := h.NewsletterService.List(repository.SubscriberListFilter{
		Page:     page,
		PageSize: pageSize,
		Search:   query.Search,
		IsActive: query.IsActive,
	})
	if err != nil {
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}
	successWithPage(c, items, page, pageSize, total)
}

// DeleteSubscriber 删除订阅者
func (h *Handler) DeleteSubscriber(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if err := h.NewsletterService.Delete(id); err != nil {
		respondServiceError(c, err, "error.internal")
		return
	}
	response.Success(c, gin.H{"deleted": true})
}
