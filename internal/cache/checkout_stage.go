package cache

import (
	"context"
	"fmt"
	"time"
)

// CheckoutStage 结算预览暂存的优惠码提示
// 说明：仅作为提交时的输入提示，提交前必须重新校验。
type CheckoutStage struct {
	PromoCode   string `json:"promo_code"`
	Discount    string `json:"discount"`
	Total       string `json:"total"`
	PreviewedAt int64  `json:"previewed_at"`
}

// CheckoutStageStore 基于 Redis 的结算暂存
type CheckoutStageStore struct {
	ttl time.Duration
}

// NewCheckoutStageStore 创建结算暂存，ttl 非正时使用 30 分钟
func NewCheckoutStageStore(ttl time.Duration) *CheckoutStageStore {
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}
	return &CheckoutStageStore{ttl: ttl}
}

func checkoutStageKey(userID uint) string {
	return fmt.Sprintf("checkout:stage:%d", userID)
}

// Put 暂存预览结果，Redis 未启用时静默跳过
func (s *CheckoutStageStore) Put(ctx context.Context, userID uint, stage CheckoutStage) error {
	if userID == 0 {
		return nil
	}
	return SetJSON(ctx, checkoutStageKey(userID), stage, s.ttl)
}

// Get 读取暂存，未命中返回 nil
func (s *CheckoutStageStore) Get(ctx context.Context, userID uint) (*CheckoutStage, error) {
	if userID == 0 {
		return nil, nil
	}
	var stage CheckoutStage
	hit, err := GetJSON(ctx, checkoutStageKey(userID), &stage)
	if err != nil || !hit {
		return nil, err
	}
	return &stage, nil
}

// Clear 清除暂存
func (s *CheckoutStageStore) Clear(ctx context.Context, userID uint) error {
	if userID == 0 {
		return nil
	}
	return Del(ctx, checkoutStageKey(userID))
}
