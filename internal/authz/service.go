package authz

import (
	"fmt"
	"sort"

	"github.com/casbin/casbin/v3"
	"github.com/casbin/casbin/v3/model"
	gormadapter "github.com/casbin/gorm-adapter/v3"
	"gorm.io/gorm"
)

// Service 基于 casbin 的能力授权，策略持久化在 casbin_rule 表
type Service struct {
	enforcer *casbin.SyncedEnforcer
}

// NewService 创建授权服务并加载已有策略
func NewService(db *gorm.DB) (*Service, error) {
	if db == nil {
		return nil, fmt.Errorf("authz db is nil")
	}
	adapter, err := gormadapter.NewAdapterByDBUseTableName(db, "", casbinTableName)
	if err != nil {
		return nil, fmt.Errorf("create authz adapter: %w", err)
	}
	m, err := model.NewModelFromString(capabilityRBACModel)
	if err != nil {
		return nil, fmt.Errorf("load authz model: %w", err)
	}
	enforcer, err := casbin.NewSyncedEnforcer(m, adapter)
	if err != nil {
		return nil, fmt.Errorf("init authz enforcer: %w", err)
	}
	enforcer.EnableAutoSave(true)
	if err := enforcer.LoadPolicy(); err != nil {
		return nil, fmt.Errorf("load authz policy: %w", err)
	}
	return &Service{enforcer: enforcer}, nil
}

func (s *Service) ready() error {
	if s == nil || s.enforcer == nil {
		return ErrUnavailable
	}
	return nil
}

// Can 用户是否拥有某项能力，匿名用户恒为 false
func (s *Service) Can(userID uint, capability string) (bool, error) {
	if userID == 0 {
		return false, nil
	}
	if err := s.ready(); err != nil {
		return false, err
	}
	return s.enforcer.Enforce(SubjectForUser(userID), NormalizeCapability(capability), ActionUse)
}

// ensureRole 登记角色，已存在时无副作用
func (s *Service) ensureRole(role string) (string, error) {
	normalized, err := NormalizeRole(role)
	if err != nil {
		return "", err
	}
	if _, err := s.enforcer.AddNamedGroupingPolicy("g", normalized, roleAnchor); err != nil {
		return "", fmt.Errorf("register role %s: %w", normalized, err)
	}
	return normalized, nil
}

// GrantRoleCapability 为角色授予能力，角色不存在时一并登记
func (s *Service) GrantRoleCapability(role, capability string) error {
	if err := s.ready(); err != nil {
		return err
	}
	normalized, err := s.ensureRole(role)
	if err != nil {
		return err
	}
	capability = NormalizeCapability(capability)
	if capability == "" {
		return fmt.Errorf("capability is required")
	}
	if _, err := s.enforcer.AddPolicy(normalized, capability, ActionUse); err != nil {
		return fmt.Errorf("grant %s to %s: %w", capability, normalized, err)
	}
	return nil
}

// ListRoles 已登记的全部角色，按名称排序
func (s *Service) ListRoles() ([]string, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	rules, err := s.enforcer.GetFilteredNamedGroupingPolicy("g", 1, roleAnchor)
	if err != nil {
		return nil, fmt.Errorf("list roles: %w", err)
	}
	roles := make([]string, 0, len(rules))
	for _, rule := range rules {
		if len(rule) > 0 && isRole(rule[0]) {
			roles = append(roles, rule[0])
		}
	}
	sort.Strings(roles)
	return roles, nil
}

// SetUserRoles 用给定角色整体替换用户角色；角色名先全部校验，失败时不改动
func (s *Service) SetUserRoles(userID uint, roles []string) error {
	if userID == 0 {
		return fmt.Errorf("user id is required")
	}
	if err := s.ready(); err != nil {
		return err
	}
	normalized := make([]string, 0, len(roles))
	for _, role := range roles {
		name, err := NormalizeRole(role)
		if err != nil {
			return err
		}
		normalized = append(normalized, name)
	}

	subject := SubjectForUser(userID)
	if _, err := s.enforcer.RemoveFilteredNamedGroupingPolicy("g", 0, subject); err != nil {
		return fmt.Errorf("clear roles of %s: %w", subject, err)
	}
	for _, role := range normalized {
		if _, err := s.ensureRole(role); err != nil {
			return err
		}
		if _, err := s.enforcer.AddNamedGroupingPolicy("g", subject, role); err != nil {
			return fmt.Errorf("assign %s to %s: %w", role, subject, err)
		}
	}
	return nil
}

// GetUserRoles 用户直接绑定的角色
func (s *Service) GetUserRoles(userID uint) ([]string, error) {
	if userID == 0 {
		return nil, fmt.Errorf("user id is required")
	}
	if err := s.ready(); err != nil {
		return nil, err
	}
	all, err := s.enforcer.GetRolesForUser(SubjectForUser(userID))
	if err != nil {
		return nil, fmt.Errorf("get user roles: %w", err)
	}
	roles := make([]string, 0, len(all))
	for _, role := range all {
		if isRole(role) {
			roles = append(roles, role)
		}
	}
	sort.Strings(roles)
	return roles, nil
}

// GetUserCapabilities 用户经角色继承后生效的能力
func (s *Service) GetUserCapabilities(userID uint) ([]string, error) {
	if userID == 0 {
		return nil, fmt.Errorf("user id is required")
	}
	if err := s.ready(); err != nil {
		return nil, err
	}
	implicit, err := s.enforcer.GetImplicitPermissionsForUser(SubjectForUser(userID))
	if err != nil {
		return nil, fmt.Errorf("get user capabilities: %w", err)
	}
	seen := make(map[string]struct{}, len(implicit))
	capabilities := make([]string, 0, len(implicit))
	for _, rule := range implicit {
		if len(rule) < 2 {
			continue
		}
		capability := NormalizeCapability(rule[1])
		if _, ok := seen[capability]; ok {
			continue
		}
		seen[capability] = struct{}{}
		capabilities = append(capabilities, capability)
	}
	sort.Strings(capabilities)
	return capabilities, nil
}
