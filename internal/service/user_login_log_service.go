package service

import (
	"errors"
	"strings"
	"time"

	"github.com/petshop-next/internal/constants"
	"github.com/petshop-next/internal/models"
	"github.com/petshop-next/internal/repository"
)

// UserLoginLogService 用户登录日志服务
type UserLoginLogService struct {
	repo repository.UserLoginLogRepository
}

// NewUserLoginLogService 创建用户登录日志服务
func NewUserLoginLogService(repo repository.UserLoginLogRepository) *UserLoginLogService {
	return &UserLoginLogService{repo: repo}
}

// RecordUserLoginInput 登录日志记录输入
type RecordUserLoginInput struct {
	UserID     uint
	Email      string
	Status     string
	FailReason string
	ClientIP   string
	RequestID  string
}

// Record 记录登录行为
func (s *UserLoginLogService) Record(input RecordUserLoginInput) error {
	if s == nil || s.repo == nil {
		return nil
	}

	email := strings.TrimSpace(input.Email)
	if normalized, err := NormalizeEmail(email); err == nil {
		email = normalized
	}

	status := strings.ToLower(strings.TrimSpace(input.Status))
	if status != constants.LoginLogStatusSuccess {
		status = constants.LoginLogStatusFailed
	}

	failReason := strings.ToLower(strings.TrimSpace(input.FailReason))
	if status == constants.LoginLogStatusSuccess {
		failReason = ""
	} else if failReason == "" {
		failReason = constants.LoginLogFailReasonInternalError
	}

	return s.repo.Create(&models.UserLoginLog{
		UserID:     input.UserID,
		Email:      email,
		Status:     status,
		FailReason: failReason,
		ClientIP:   strings.TrimSpace(input.ClientIP),
		RequestID:  strings.TrimSpace(input.RequestID),
		CreatedAt:  time.Now(),
	})
}

// ListAdmin 后台查询登录日志
func (s *UserLoginLogService) ListAdmin(filter repository.UserLoginLogListFilter) ([]models.UserLoginLog, int64, error) {
	if s == nil || s.repo == nil {
		return []models.UserLoginLog{}, 0, nil
	}
	if filter.Status != "" && filter.Status != constants.LoginLogStatusSuccess && filter.Status != constants.LoginLogStatusFailed {
		return nil, 0, ErrLoginLogFilterInvalid
	}
	return s.repo.ListAdmin(filter)
}

// LoginFailReason 将登录错误映射为日志失败原因
func LoginFailReason(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrInvalidEmail):
		return constants.LoginLogFailReasonInvalidEmail
	case errors.Is(err, ErrInvalidCredentials):
		return constants.LoginLogFailReasonInvalidCredentials
	case errors.Is(err, ErrUserDisabled):
		return constants.LoginLogFailReasonUserDisabled
	}
	return constants.LoginLogFailReasonInternalError
}
