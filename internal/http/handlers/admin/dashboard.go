package admin

import (
	"strings"
	"time"

	"github.com/petshop-next/internal/http/response"
	"github.com/petshop-next/internal/service"

	"github.com/gin-gonic/gin"
)

type dashboardQuery struct {
	Range        string     `form:"range,default=7d"`
	From         *time.Time `form:"from" time_format:"2006-01-02T15:04:05Z07:00"`
	To           *time.Time `form:"to" time_format:"2006-01-02T15:04:05Z07:00"`
	Timezone     string     `form:"tz"`
	ForceRefresh bool       `form:"force_refresh"`
}

// GetDashboardOverview 获取后台仪表盘总览
func (h *Handler) GetDashboardOverview(c *gin.Context) {
	query, ok := bindQuery[dashboardQuery](c)
	if !ok {
		return
	}

	data, err := h.DashboardService.GetOverview(c.Request.Context(), service.DashboardQueryInput{
		Range:        strings.TrimSpace(query.Range),
		From:         query.From,
		To:           query.To,
		Timezone:     strings.TrimSpace(query.Timezone),
		ForceRefresh: query.ForceRefresh,
	})
	if err != nil {
		respondServiceError(c, err, "error.internal")
		return
	}
	response.Success(c, data)
}
