package service

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/petshop-next/internal/cache"
	"github.com/petshop-next/internal/constants"
	"github.com/petshop-next/internal/logger"
	"github.com/petshop-next/internal/repository"

	"github.com/shopspring/decimal"
)

const (
	dashboardCacheTTL      = 45 * time.Second
	dashboardCustomMaxDays = 90
	dashboardTopProducts   = 5
)

// ErrDashboardRangeInvalid 统计区间不合法
var ErrDashboardRangeInvalid = errors.New("dashboard range invalid")

// DashboardService 仪表盘服务
// 说明：聚合后台首页核心经营数据，结果短暂缓存在 Redis。
type DashboardService struct {
	repo repository.DashboardRepository
}

// NewDashboardService 创建仪表盘服务
func NewDashboardService(repo repository.DashboardRepository) *DashboardService {
	return &DashboardService{repo: repo}
}

// DashboardQueryInput 仪表盘查询输入
type DashboardQueryInput struct {
	Range        string
	From         *time.Time
	To           *time.Time
	Timezone     string
	ForceRefresh bool
}

// DashboardOverviewResponse 仪表盘总览响应
type DashboardOverviewResponse struct {
	Range          string                    `json:"range"`
	From           string                    `json:"from"`
	To             string                    `json:"to"`
	Timezone       string                    `json:"timezone"`
	KPI            DashboardKPI              `json:"kpi"`
	OrdersByStatus map[string]int64          `json:"orders_by_status"`
	TopProducts    []DashboardProductRanking `json:"top_products"`
	Alerts         []DashboardAlertItem      `json:"alerts"`
}

// DashboardKPI 仪表盘核心指标
type DashboardKPI struct {
	TotalUsers       int64  `json:"total_users"`
	ActiveProducts   int64  `json:"active_products"`
	LowStockProducts int64  `json:"low_stock_products"`
	OrdersTotal      int64  `json:"orders_total"`
	Revenue          string `json:"revenue"`
	DiscountGiven    string `json:"discount_given"`
	PromoOrders      int64  `json:"promo_orders"`
	PromoOrderRate   string `json:"promo_order_rate"`
}

// DashboardProductRanking 商品排行项
type DashboardProductRanking struct {
	ProductID uint   `json:"product_id"`
	Name      string `json:"name"`
	Quantity  int64  `json:"quantity"`
	Amount    string `json:"amount"`
}

// DashboardAlertItem 仪表盘告警项
type DashboardAlertItem struct {
	Type  string `json:"type"`
	Level string `json:"level"`
	Value int64  `json:"value"`
}

// 滚动区间覆盖的自然日数（含今天）
var dashboardRollingDays = map[string]int{
	"today": 1,
	"7d":    7,
	"30d":   30,
}

type dashboardWindow struct {
	rangeKey string
	startAt  time.Time
	endAt    time.Time
	timezone string
}

func (w dashboardWindow) cacheKey() string {
	return "dashboard:overview:" + strings.Join([]string{
		w.rangeKey,
		strconv.FormatInt(w.startAt.Unix(), 10),
		strconv.FormatInt(w.endAt.Unix(), 10),
		w.timezone,
	}, ":")
}

// GetOverview 获取仪表盘总览
func (s *DashboardService) GetOverview(ctx context.Context, input DashboardQueryInput) (*DashboardOverviewResponse, error) {
	if s == nil || s.repo == nil {
		return &DashboardOverviewResponse{}, nil
	}
	window, err := resolveDashboardWindow(input, time.Now())
	if err != nil {
		return nil, err
	}

	key := window.cacheKey()
	if !input.ForceRefresh {
		var cached DashboardOverviewResponse
		if hit, _ := cache.GetJSON(ctx, key, &cached); hit {
			return &cached, nil
		}
	}

	response, err := s.aggregate(window)
	if err != nil {
		return nil, err
	}
	if err := cache.SetJSON(ctx, key, response, dashboardCacheTTL); err != nil {
		logger.Warnw("dashboard_cache_write_failed", "key", key, "error", err)
	}
	return response, nil
}

func (s *DashboardService) aggregate(window dashboardWindow) (*DashboardOverviewResponse, error) {
	overview, err := s.repo.GetOverview(window.startAt, window.endAt)
	if err != nil {
		return nil, err
	}
	byStatus, err := s.repo.CountOrdersByStatus(window.startAt, window.endAt)
	if err != nil {
		return nil, err
	}
	ranking, err := s.repo.GetTopProducts(window.startAt, window.endAt, dashboardTopProducts)
	if err != nil {
		return nil, err
	}

	top := make([]DashboardProductRanking, len(ranking))
	for i, row := range ranking {
		name := strings.TrimSpace(row.ProductName)
		if name == "" {
			name = "-"
		}
		top[i] = DashboardProductRanking{
			ProductID: row.ProductID,
			Name:      name,
			Quantity:  row.Quantity,
			Amount:    fixed2(decimal.NewFromFloat(row.Amount)),
		}
	}

	promoRate := decimal.Zero
	if overview.OrdersTotal > 0 {
		promoRate = decimal.NewFromInt(overview.PromoOrders).
			Mul(decimal.NewFromInt(100)).
			Div(decimal.NewFromInt(overview.OrdersTotal))
	}

	return &DashboardOverviewResponse{
		Range:    window.rangeKey,
		From:     window.startAt.Format(time.RFC3339),
		To:       window.endAt.Add(-time.Second).Format(time.RFC3339),
		Timezone: window.timezone,
		KPI: DashboardKPI{
			TotalUsers:       overview.TotalUsers,
			ActiveProducts:   overview.TotalProducts,
			LowStockProducts: overview.LowStockProducts,
			OrdersTotal:      overview.OrdersTotal,
			Revenue:          fixed2(decimal.NewFromFloat(overview.Revenue)),
			DiscountGiven:    fixed2(decimal.NewFromFloat(overview.DiscountGiven)),
			PromoOrders:      overview.PromoOrders,
			PromoOrderRate:   fixed2(promoRate),
		},
		OrdersByStatus: byStatus,
		TopProducts:    top,
		Alerts:         buildDashboardAlerts(overview, byStatus),
	}, nil
}

// resolveDashboardWindow 将查询参数换算为左闭右开的时间窗口
func resolveDashboardWindow(input DashboardQueryInput, now time.Time) (dashboardWindow, error) {
	window := dashboardWindow{rangeKey: strings.ToLower(strings.TrimSpace(input.Range))}
	if window.rangeKey == "" {
		window.rangeKey = "7d"
	}

	location := time.Local
	if tz := strings.TrimSpace(input.Timezone); tz != "" {
		if loaded, err := time.LoadLocation(tz); err == nil {
			location = loaded
		}
	}
	window.timezone = location.String()

	if days, ok := dashboardRollingDays[window.rangeKey]; ok {
		y, m, d := now.In(location).Date()
		tomorrow := time.Date(y, m, d+1, 0, 0, 0, 0, location)
		window.startAt = tomorrow.AddDate(0, 0, -days)
		window.endAt = tomorrow
		return window, nil
	}
	if window.rangeKey != "custom" || input.From == nil || input.To == nil {
		return dashboardWindow{}, ErrDashboardRangeInvalid
	}

	window.startAt = input.From.In(location)
	window.endAt = input.To.In(location).Add(time.Second)
	span := window.endAt.Sub(window.startAt)
	if span <= 0 || span > dashboardCustomMaxDays*24*time.Hour+time.Second {
		return dashboardWindow{}, ErrDashboardRangeInvalid
	}
	return window, nil
}

func fixed2(value decimal.Decimal) string {
	return value.StringFixed(2)
}

func buildDashboardAlerts(overview repository.DashboardOverviewRow, byStatus map[string]int64) []DashboardAlertItem {
	var alerts []DashboardAlertItem
	if overview.LowStockProducts > 0 {
		alerts = append(alerts, DashboardAlertItem{Type: "low_stock_products", Level: "warning", Value: overview.LowStockProducts})
	}
	if pending := byStatus[constants.OrderStatusPending]; pending > 0 {
		alerts = append(alerts, DashboardAlertItem{Type: "pending_orders", Level: "info", Value: pending})
	}
	if alerts == nil {
		alerts = []DashboardAlertItem{}
	}
	return alerts
}
