package public

import (
	"github.com/petshop-next/internal/http/response"

	"github.com/gin-gonic/gin"
)

// CartItemRequest 加入购物车请求
type CartItemRequest struct {
	ProductID uint `json:"product_id" binding:"required"`
	Quantity  int  `json:"quantity"`
}

// CartQuantityRequest 修改数量请求
type CartQuantityRequest struct {
	Quantity int `json:"quantity"`
}

// GetCart 获取购物车
func (h *Handler) GetCart(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	view, err := h.CartService.ListByUser(uid)
	if err != nil {
		respondServiceError(c, err, "error.internal")
		return
	}
	response.Success(c, view)
}

// AddCartItem 加入购物车，已存在时累加数量
func (h *Handler) AddCartItem(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	var req CartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	if req.Quantity == 0 {
		req.Quantity = 1
	}
	if err := h.CartService.AddItem(uid, req.ProductID, req.Quantity); err != nil {
		respondServiceError(c, err, "error.internal")
		return
	}
	h.respondCart(c, uid)
}

// UpdateCartItem 修改购物车商品数量
func (h *Handler) UpdateCartItem(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	productID, ok := parseIDParam(c, "product_id")
	if !ok {
		return
	}
	var req CartQuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	if err := h.CartService.SetQuantity(uid, productID, req.Quantity); err != nil {
		respondServiceError(c, err, "error.internal")
		return
	}
	h.respondCart(c, uid)
}

// RemoveCartItem 移除购物车商品
func (h *Handler) RemoveCartItem(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	productID, ok := parseIDParam(c, "product_id")
	if !ok {
		return
	}
	if err := h.CartService.RemoveItem(uid, productID); err != nil {
		respondServiceError(c, err, "error.internal")
		return
	}
	h.respondCart(c, uid)
}

func (h *Handler) respondCart(c *gin.Context, uid uint) {
	view, err := h.CartService.ListByUser(uid)
	if err != nil {
		respondServiceError(c, err, "error.internal")
		return
	}
	response.Success(c, view)
}
