package models

import (
	"time"

	"gorm.io/gorm"
)

// User 用户表
type User struct {
	ID           uint           `gorm:"primarykey" json:"id"`                            // 主键
	Username     string         `gorm:"uniqueIndex;size:80;not null" json:"username"`    // 用户名
	Email        string         `gorm:"uniqueIndex;size:120;not null" json:"email"`      // 邮箱
	PasswordHash string         `gorm:"not null" json:"-"`                               // 密码哈希
	FirstName    string         `gorm:"size:50" json:"first_name"`                       // 名
	LastName     string         `gorm:"size:50" json:"last_name"`                        // 姓
	Phone        string         `gorm:"size:20" json:"phone"`                            // 电话
	IsVerified   bool           `gorm:"not null;default:false;index" json:"is_verified"` // 邮箱是否已验证
	Status       string         `gorm:"size:20;not null;default:'active'" json:"status"` // 账号状态
	CreatedAt    time.Time      `gorm:"index" json:"created_at"`                         // 创建时间
	UpdatedAt    time.Time      `json:"updated_at"`                                      // 更新时间
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`                                  // 软删除时间
}

// TableName 指定表名
func (User) TableName() string {
	return "users"
}
