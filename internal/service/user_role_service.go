package service

import (
	"context"
	"strings"
	"time"

	"github.com/petshop-next/internal/logger"
	"github.com/petshop-next/internal/models"
	"github.com/petshop-next/internal/repository"
)

// 角色审计动作
const (
	AuditActionSetUserRoles = "user_roles_set"
)

// RoleStore 角色存储，由 casbin 授权服务实现
type RoleStore interface {
	ListRoles() ([]string, error)
	GetUserRoles(userID uint) ([]string, error)
	GetUserCapabilities(userID uint) ([]string, error)
	SetUserRoles(userID uint, roles []string) error
}

// UserRoleService 后台用户角色管理，每次变更写审计日志
type UserRoleService struct {
	userRepo  repository.UserRepository
	roles     RoleStore
	auditRepo repository.AuthzAuditLogRepository
}

// NewUserRoleService 创建用户角色服务
func NewUserRoleService(userRepo repository.UserRepository, roles RoleStore, auditRepo repository.AuthzAuditLogRepository) *UserRoleService {
	return &UserRoleService{userRepo: userRepo, roles: roles, auditRepo: auditRepo}
}

// SetUserRolesInput 设置角色输入
type SetUserRolesInput struct {
	OperatorID uint
	TargetID   uint
	Roles      []string
	RequestID  string
}

// UserAccess 用户角色与生效能力
type UserAccess struct {
	UserID       uint     `json:"user_id"`
	Roles        []string `json:"roles"`
	Capabilities []string `json:"capabilities"`
}

// ListUsers 后台用户列表
func (s *UserRoleService) ListUsers(filter repository.UserListFilter) ([]models.User, int64, error) {
	filter.Search = strings.TrimSpace(filter.Search)
	return s.userRepo.List(filter)
}

// ListRoles 可分配的角色
func (s *UserRoleService) ListRoles() ([]string, error) {
	return s.roles.ListRoles()
}

// GetAccess 查询用户角色与能力
func (s *UserRoleService) GetAccess(userID uint) (*UserAccess, error) {
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	roles, err := s.roles.GetUserRoles(userID)
	if err != nil {
		return nil, err
	}
	capabilities, err := s.roles.GetUserCapabilities(userID)
	if err != nil {
		return nil, err
	}
	return &UserAccess{UserID: userID, Roles: roles, Capabilities: capabilities}, nil
}

// SetUserRoles 覆盖设置用户角色，仅允许已存在的角色
func (s *UserRoleService) SetUserRoles(ctx context.Context, input SetUserRolesInput) (*UserAccess, error) {
	user, err := s.userRepo.GetByID(input.TargetID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	known, err := s.roles.ListRoles()
	if err != nil {
		return nil, err
	}
	normalized, err := filterKnownRoles(input.Roles, known)
	if err != nil {
		return nil, err
	}
	before, err := s.roles.GetUserRoles(input.TargetID)
	if err != nil {
		return nil, err
	}
	if err := s.roles.SetUserRoles(input.TargetID, normalized); err != nil {
		return nil, err
	}

	entry := &models.AuthzAuditLog{
		OperatorUserID: input.OperatorID,
		TargetUserID:   input.TargetID,
		Action:         AuditActionSetUserRoles,
		Role:           strings.Join(normalized, ","),
		RequestID:      strings.TrimSpace(input.RequestID),
		DetailJSON: models.JSON{
			"before": before,
			"after":  normalized,
		},
		CreatedAt: time.Now(),
	}
	if s.auditRepo != nil {
		if err := s.auditRepo.Create(entry); err != nil {
			logger.FromContext(ctx).Warnw("authz_audit_write_failed",
				"operator_user_id", input.OperatorID,
				"target_user_id", input.TargetID,
				"error", err,
			)
		}
	}
	return s.GetAccess(input.TargetID)
}

// ListAuditLogs 角色审计日志
func (s *UserRoleService) ListAuditLogs(filter repository.AuthzAuditLogListFilter) ([]models.AuthzAuditLog, int64, error) {
	if s.auditRepo == nil {
		return []models.AuthzAuditLog{}, 0, nil
	}
	filter.Action = strings.TrimSpace(filter.Action)
	return s.auditRepo.ListAdmin(filter)
}

// filterKnownRoles 统一为 role: 前缀并去重，未知角色返回 ErrInvalidRole
func filterKnownRoles(roles, known []string) ([]string, error) {
	knownSet := make(map[string]struct{}, len(known))
	for _, role := range known {
		knownSet[role] = struct{}{}
	}
	seen := make(map[string]struct{}, len(roles))
	result := make([]string, 0, len(roles))
	for _, raw := range roles {
		role := strings.ReplaceAll(strings.TrimSpace(raw), " ", "_")
		if role == "" {
			continue
		}
		if !strings.HasPrefix(role, "role:") {
			role = "role:" + role
		}
		if _, ok := knownSet[role]; !ok {
			return nil, ErrInvalidRole
		}
		if _, ok := seen[role]; ok {
			continue
		}
		seen[role] = struct{}{}
		result = append(result, role)
	}
	return result, nil
}
