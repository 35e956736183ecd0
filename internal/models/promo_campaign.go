package models

import "time"

// PromoCampaign 优惠码群发记录
type PromoCampaign struct {
	ID             uint      `gorm:"primarykey" json:"id"`                      // 主键
	PromoCodeID    uint      `gorm:"index;not null" json:"promo_code_id"`       // 优惠码ID
	SenderID       uint      `gorm:"index;not null" json:"sender_id"`           // 发送人
	Subject        string    `gorm:"size:200;not null" json:"subject"`          // 邮件标题
	Body           string    `gorm:"type:text" json:"body"`                     // 邮件正文
	Audience       string    `gorm:"size:20;index;not null" json:"audience"`    // 受众（users/subscribers）
	RecipientCount int       `gorm:"not null;default:0" json:"recipient_count"` // 入队收件人数
	SentAt         time.Time `gorm:"index" json:"sent_at"`                      // 发送时间

	PromoCode *PromoCode `gorm:"foreignKey:PromoCodeID" json:"promo_code,omitempty"` // 关联优惠码
}

// TableName 指定表名
func (PromoCampaign) TableName() string {
	return "promo_campaigns"
}
