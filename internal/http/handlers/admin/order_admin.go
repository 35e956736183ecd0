package admin

import (
	"strings"
	"time"

	"github.com/petshop-next/internal/http/response"
	"github.com/petshop-next/internal/repository"

	"github.com/gin-gonic/gin"
)

// AdvanceOrderRequest 推进订单状态请求
type AdvanceOrderRequest struct {
	Status string `json:"status" binding:"required"`
}

// ListOrders 后台订单列表
func (h *Handler) ListOrders(c *gin.Context) {
	query, ok := bindQuery[struct {
		UserID      uint       `form:"user_id"`
		Status      string     `form:"status"`
		OrderNumber string     `form:"order_number"`
		CreatedFrom *time.Time `form:"created_from" time_format:"2006-01-02T15:04:05Z07:00"`
		CreatedTo   *time.Time `form:"created_to" time_format:"2006-01-02T15:04:05Z07:00"`
	}](c)
	if !ok {
		return
	}
	page, pageSize := pageQuery(c)
	orders, total, err := h.OrderQueryService.ListOrdersForAdmin(repository.OrderListFilter{
		Page:        page,
		PageSize:    pageSize,
		UserID:      query.UserID,
		Status:      strings.TrimSpace(query.Status),
		OrderNumber: strings.TrimSpace(query.OrderNumber),
		CreatedFrom: query.CreatedFrom,
		CreatedTo:   query.CreatedTo,
	})
	if err != nil {
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}
	successWithPage(c, orders, page, pageSize, total)
}

// GetOrder 后台订单详情
func (h *Handler) GetOrder(c *gin.Context) {
	orderID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	order, err := h.OrderQueryService.GetOrderForAdmin(orderID)
	if err != nil {
		respondServiceError(c, err, "error.internal")
		return
	}
	response.Success(c, order)
}

// AdvanceOrder 推进订单状态
func (h *Handler) AdvanceOrder(c *gin.Context) {
	operatorID, ok := getOperatorID(c)
	if !ok {
		return
	}
	orderID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req AdvanceOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	order, err := h.OrderLifecycle.Advance(c.Request.Context(), h.AuthzService, operatorID, orderID, req.Status)
	if err != nil {
		respondServiceError(c, err, "error.internal")
		return
	}
	requestLog(c).Infow("admin_order_advanced",
		"operator_id", operatorID,
		"order_id", order.ID,
		"status", order.Status,
	)
	response.Success(c, order)
}
