package models

import (
	"time"
)

// Order 订单表
// 说明：金额字段创建后不可变，之后仅状态与状态时间戳会变化。
type Order struct {
	ID                uint       `gorm:"primarykey" json:"id"`                                         // 主键
	OrderNumber       string     `gorm:"size:32;uniqueIndex;not null" json:"order_number"`             // 订单编号
	UserID            uint       `gorm:"index;not null" json:"user_id"`                                // 用户ID
	AddressID         uint       `gorm:"index;not null" json:"address_id"`                             // 收货地址ID
	AddressSnapshot   string     `gorm:"type:text" json:"address_snapshot"`                            // 下单时地址快照
	Status            string     `gorm:"size:20;index;not null" json:"status"`                         // 订单状态
	Currency          string     `gorm:"size:10;not null" json:"currency"`                             // 币种
	Subtotal          Money      `gorm:"type:decimal(20,2);not null;default:0" json:"subtotal"`        // 商品小计
	ShippingCost      Money      `gorm:"type:decimal(20,2);not null;default:0" json:"shipping_cost"`   // 运费
	Tax               Money      `gorm:"type:decimal(20,2);not null;default:0" json:"tax"`             // 税费
	DiscountAmount    Money      `gorm:"type:decimal(20,2);not null;default:0" json:"discount_amount"` // 优惠金额
	Total             Money      `gorm:"type:decimal(20,2);not null;default:0" json:"total"`           // 实付金额
	PromoCodeID       *uint      `gorm:"index" json:"promo_code_id,omitempty"`                         // 优惠码ID
	Notes             string     `gorm:"type:text" json:"notes"`                                       // 买家备注
	ConfirmedAt       *time.Time `json:"confirmed_at"`                                                 // 确认时间
	ShippedAt         *time.Time `json:"shipped_at"`                                                   // 发货时间
	DeliveredAt       *time.Time `json:"delivered_at"`                                                 // 签收时间
	CancelledAt       *time.Time `json:"cancelled_at"`                                                 // 取消时间
	ReturnRequestedAt *time.Time `json:"return_requested_at"`                                          // 申请退货时间（仅标记）
	CreatedAt         time.Time  `gorm:"index" json:"created_at"`                                      // 创建时间
	UpdatedAt         time.Time  `json:"updated_at"`                                                   // 更新时间

	Items     []OrderItem `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"items,omitempty"` // 订单项
	PromoCode *PromoCode  `gorm:"foreignKey:PromoCodeID" json:"promo_code,omitempty"`                    // 关联优惠码
}

// TableName 指定表名
func (Order) TableName() string {
	return "orders"
}
