package models

import (
	"time"

	"github.com/petshop-next/internal/constants"
)

// PromoCode 优惠码表
// 说明：max_uses 为 -1 表示不限次数；current_uses 只增不减。
type PromoCode struct {
	ID            uint       `gorm:"primarykey" json:"id"`                                        // 主键
	Code          string     `gorm:"size:50;uniqueIndex;not null" json:"code"`                    // 优惠码（大写）
	DiscountType  string     `gorm:"size:20;not null" json:"discount_type"`                       // 优惠类型（percent/fixed）
	DiscountValue Money      `gorm:"type:decimal(20,2);not null;default:0" json:"discount_value"` // 优惠值
	ValidFrom     *time.Time `gorm:"index" json:"valid_from"`                                     // 生效时间
	ValidUntil    *time.Time `gorm:"index" json:"valid_until"`                                    // 失效时间
	MaxUses       int        `gorm:"not null;default:-1" json:"max_uses"`                         // 最大使用次数
	CurrentUses   int        `gorm:"not null;default:0" json:"current_uses"`                      // 已使用次数
	IsActive      bool       `gorm:"not null;default:true;index" json:"is_active"`                // 是否启用
	CreatedAt     time.Time  `gorm:"index" json:"created_at"`                                     // 创建时间
	UpdatedAt     time.Time  `json:"updated_at"`                                                  // 更新时间
}

// TableName 指定表名
func (PromoCode) TableName() string {
	return "promo_codes"
}

// Unlimited 是否不限次数
func (p PromoCode) Unlimited() bool {
	return p.MaxUses == constants.UnlimitedUses
}

// RemainingUses 剩余可用次数，不限次数时返回 -1
func (p PromoCode) RemainingUses() int {
	if p.Unlimited() {
		return constants.UnlimitedUses
	}
	if left := p.MaxUses - p.CurrentUses; left > 0 {
		return left
	}
	return 0
}
