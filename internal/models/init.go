package models

import (
	"strings"

	"github.com/petshop-next/internal/constants"
	"github.com/petshop-next/internal/logger"

	"golang.org/x/crypto/bcrypt"
)

const defaultAdminPassword = "admin123"

// InitDefaultAdmin 初始化默认管理员账号，返回其用户ID，角色绑定由 authz 完成
func InitDefaultAdmin(email, password string) (uint, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		email = "admin@petshop.local"
	}

	var existing User
	if err := DB.Where("email = ?", email).Limit(1).Find(&existing).Error; err != nil {
		return 0, err
	}
	if existing.ID != 0 {
		return existing.ID, nil
	}

	if password == "" {
		password = defaultAdminPassword
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return 0, err
	}

	admin := User{
		Username:     "admin",
		Email:        email,
		PasswordHash: string(hash),
		IsVerified:   true,
		Status:       constants.UserStatusActive,
	}
	if err := DB.Create(&admin).Error; err != nil {
		return 0, err
	}

	if password == defaultAdminPassword {
		logger.Warnw("default_admin_created_with_default_password", "email", email)
		logger.Warnw("default_admin_password_change_required", "email", email)
	} else {
		logger.Warnw("default_admin_created", "email", email, "password_hidden", true)
	}
	return admin.ID, nil
}
