package models

import "time"

// Subscriber 邮件订阅者
type Subscriber struct {
	ID             uint       `gorm:"primarykey" json:"id"`                            // 主键
	Email          string     `gorm:"size:120;uniqueIndex;not null" json:"email"`      // 邮箱
	IsActive       bool       `gorm:"not null;default:true;index" json:"is_active"`    // 是否订阅中
	IsVerified     bool       `gorm:"not null;default:false;index" json:"is_verified"` // 是否已验证
	VerifiedAt     *time.Time `json:"verified_at"`                                     // 验证时间
	UnsubscribedAt *time.Time `json:"unsubscribed_at"`                                 // 退订时间
	CreatedAt      time.Time  `gorm:"index" json:"created_at"`                         // 创建时间
	UpdatedAt      time.Time  `json:"updated_at"`                                      // 更新时间
}

// TableName 指定表名
func (Subscriber) TableName() string {
	return "subscribers"
}
