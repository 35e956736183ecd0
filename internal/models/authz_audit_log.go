package models

import "time"

// AuthzAuditLog 角色变更审计日志
// 说明：记录后台对用户角色的授予与回收，支持按操作人与目标用户检索。
type AuthzAuditLog struct {
	ID             uint      `gorm:"primarykey" json:"id"`
	OperatorUserID uint      `gorm:"index;not null" json:"operator_user_id"`
	TargetUserID   uint      `gorm:"index;not null" json:"target_user_id"`
	Action         string    `gorm:"type:varchar(100);index;not null" json:"action"`
	Role           string    `gorm:"type:varchar(120);index;not null;default:''" json:"role"`
	RequestID      string    `gorm:"type:varchar(64);index;not null;default:''" json:"request_id"`
	DetailJSON     JSON      `gorm:"type:json" json:"detail"`
	CreatedAt      time.Time `gorm:"index" json:"created_at"`
}

// TableName 指定表名
func (AuthzAuditLog) TableName() string {
	return "authz_audit_logs"
}
