package models

import (
	"strings"
	"time"
)

// Address 收货地址
type Address struct {
	ID         uint      `gorm:"primarykey" json:"id"`                     // 主键
	UserID     uint      `gorm:"index;not null" json:"user_id"`            // 所属用户
	FullName   string    `gorm:"size:150;not null" json:"full_name"`       // 收件人
	Phone      string    `gorm:"size:20;not null" json:"phone"`            // 电话
	Street     string    `gorm:"size:200;not null" json:"street"`          // 街道
	City       string    `gorm:"size:100;not null" json:"city"`            // 城市
	PostalCode string    `gorm:"size:20" json:"postal_code"`               // 邮编
	Country    string    `gorm:"size:100;default:'Russia'" json:"country"` // 国家
	IsDefault  bool      `gorm:"not null;default:false" json:"is_default"` // 是否默认地址
	CreatedAt  time.Time `json:"created_at"`                               // 创建时间
	UpdatedAt  time.Time `json:"updated_at"`                               // 更新时间
}

// TableName 指定表名
func (Address) TableName() string {
	return "addresses"
}

// Snapshot 生成写入订单的地址快照文本
func (a Address) Snapshot() string {
	parts := []string{a.FullName, a.Phone, a.Street, a.City}
	if strings.TrimSpace(a.PostalCode) != "" {
		parts = append(parts, a.PostalCode)
	}
	if strings.TrimSpace(a.Country) != "" {
		parts = append(parts, a.Country)
	}
	return strings.Join(parts, ", ")
}
