package public

import (
	"strings"

	handlershared "github.com/petshop-next/internal/http/handlers/shared"
	"github.com/petshop-next/internal/http/response"
	"github.com/petshop-next/internal/service"

	"github.com/gin-gonic/gin"
)

// CreateReviewRequest 提交评价请求
type CreateReviewRequest struct {
	Rating  int    `json:"rating" binding:"required"`
	Title   string `json:"title"`
	Content string `json:"content"`
}

// ListProducts 上架商品列表
func (h *Handler) ListProducts(c *gin.Context) {
	page, pageSize := pageQuery(c)
	products, total, err := h.ProductService.ListPublic(strings.TrimSpace(c.Query("search")), page, pageSize)
	if err != nil {
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}
	response.SuccessWithPage(c, products, handlershared.BuildPagination(page, pageSize, total))
}

// GetProduct 商品详情，支持 ID 或 slug
func (h *Handler) GetProduct(c *gin.Context) {
	product, err := h.ProductService.GetPublic(c.Param("ref"))
	if err != nil {
		respondServiceError(c, err, "error.internal")
		return
	}
	response.Success(c, product)
}

// ListProductReviews 商品已审核评价与平均分
func (h *Handler) ListProductReviews(c *gin.Context) {
	product, err := h.ProductService.GetPublic(c.Param("ref"))
	if err != nil {
		respondServiceError(c, err, "error.internal")
		return
	}
	page, pageSize := pageQuery(c)
	reviews, err := h.ReviewService.ListApproved(product.ID, page, pageSize)
	if err != nil {
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}
	response.Success(c, reviews)
}

// CreateProductReview 提交商品评价
func (h *Handler) CreateProductReview(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	product, err := h.ProductService.GetPublic(c.Param("ref"))
	if err != nil {
		respondServiceError(c, err, "error.internal")
		return
	}
	var req CreateReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	review, err := h.ReviewService.Create(service.CreateReviewInput{
		UserID:    uid,
		ProductID: product.ID,
		Rating:    req.Rating,
		Title:     req.Title,
		Content:   req.Content,
	})
	if err != nil {
		respondServiceError(c, err, "error.internal")
		return
	}
	response.Success(c, review)
}
