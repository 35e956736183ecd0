package admin

import (
	"github.com/petshop-next/internal/http/response"
	"github.com/petshop-next/internal/models"
	"github.com/petshop-next/internal/service"

	"github.com/gin-gonic/gin"
)

// CreateProductRequest 创建商品请求
type CreateProductRequest struct {
	Name        string        `json:"name" binding:"required"`
	Slug        string        `json:"slug" binding:"required"`
	Description string        `json:"description"`
	Price       models.Money  `json:"price"`
	OldPrice    *models.Money `json:"old_price"`
	Stock       int           `json:"stock"`
	SKU         string        `json:"sku"`
	IsActive    *bool         `json:"is_active"`
}

// ListProducts 后台商品列表
func (h *Handler) ListProducts(c *gin.Context) {
	page, pageSize := pageQuery(c)
	products, total, err := h.ProductService.ListAdmin(c.Query("search"), page, pageSize)
	if err != nil {
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}
	successWithPage(c, products, page, pageSize, total)
}

// CreateProduct 创建商品
func (h *Handler) CreateProduct(c *gin.Context) {
	var req CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	product, err := h.ProductService.Create(service.CreateProductInput{
		Name:        req.Name,
		Slug:        req.Slug,
		Description: req.Description,
		Price:       req.Price,
		OldPrice:    req.OldPrice,
		Stock:       req.Stock,
		SKU:         req.SKU,
		IsActive:    req.IsActive,
	})
	if err != nil {
		respondServiceError(c, err, "error.internal")
		return
	}
	response.Success(c, product)
}
