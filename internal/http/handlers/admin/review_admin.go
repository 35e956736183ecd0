package admin

import (
	"github.com/petshop-next/internal/http/response"
	"github.com/petshop-next/internal/repository"

	"github.com/gin-gonic/gin"
)

// ListReviews 后台评价列表，可按审核状态过滤
func (h *Handler) ListReviews(c *gin.Context) {
	query, ok := bindQuery[struct {
		ProductID  uint  `form:"product_id"`
		IsApproved *bool `form:"is_approved"`
	}](c)
	if !ok {
		return
	}
	page, pageSize := pageQuery(c)
	items, total, err := h.ReviewService.ListForAdmin(repository.ReviewListFilter{
		Page:       page,
		PageSize:   pageSize,
		ProductID:  query.ProductID,
		IsApproved: query.IsApproved,
	})
	if err != nil {
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}
	successWithPage(c, items, page, pageSize, total)
}

// ApproveReview 审核通过
func (h *Handler) ApproveReview(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	review, err := h.ReviewService.Approve(id)
	if err != nil {
		respondServiceError(c, err, "error.internal")
		return
	}
	response.Success(c, review)
}

// DeleteReview 删除评价
func (h *Handler) DeleteReview(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if err := h.ReviewService.Delete(id); err != nil {
		respondServiceError(c, err, "error.internal")
		return
	}
	response.Success(c, gin.H{"deleted": true})
}
