package repository

import "time"

// ProductListFilter 查询商品列表的过滤条件
type ProductListFilter struct {
	Page       int
	PageSize   int
	Search     string
	OnlyActive bool
}

// OrderListFilter 查询订单列表的过滤条件
type OrderListFilter struct {
	Page        int
	PageSize    int
	UserID      uint
	Status      string
	OrderNumber string
	CreatedFrom *time.Time
	CreatedTo   *time.Time
}

// PromoCodeListFilter 查询优惠码列表的过滤条件
type PromoCodeListFilter struct {
	Page     int
	PageSize int
	Code     string
	IsActive *bool
}

// SubscriberListFilter 查询订阅者列表的过滤条件
type SubscriberListFilter struct {
	Page     int
	PageSize int
	Search   string
	IsActive *bool
}

// ReviewListFilter 查询评价列表的过滤条件
type ReviewListFilter struct {
	Page         int
	PageSize     int
	ProductID    uint
	OnlyApproved bool
	IsApproved   *bool
}

// CampaignListFilter 查询群发记录的过滤条件
type CampaignListFilter struct {
	Page        int
	PageSize    int
	PromoCodeID uint
}

// UserListFilter 查询用户列表的过滤条件
type UserListFilter struct {
	Page     int
	PageSize int
	Search   string
	Status   string
}
