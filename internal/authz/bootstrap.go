package authz

import (
	"fmt"

	"github.com/petshop-next/internal/constants"
)

// RoleSeed 预置角色：直接能力 + 继承的角色
type RoleSeed struct {
	Role         string
	Inherits     []string
	Capabilities []string
}

// 预置角色名称
const (
	RoleAdmin         = "admin"
	RoleOrderManager  = "order_manager"
	RoleMarketing     = "marketing"
	RoleModerator     = "moderator"
	RoleStoreOperator = "store_operator"
)

// BuiltinRoleSeeds 预置角色矩阵；store_operator 覆盖日常运营但不能管理用户
func BuiltinRoleSeeds() []RoleSeed {
	return []RoleSeed{
		{Role: RoleAdmin, Capabilities: []string{AnyCapability}},
		{Role: RoleOrderManager, Capabilities: []string{constants.CapabilityManageOrders}},
		{Role: RoleMarketing, Capabilities: []string{constants.CapabilityManagePromoCodes, constants.CapabilitySendMassEmails}},
		{Role: RoleModerator, Capabilities: []string{constants.CapabilityManageReviews}},
		{Role: RoleStoreOperator, Inherits: []string{RoleOrderManager, RoleMarketing, RoleModerator}},
	}
}

// IsBuiltinRole 是否为预置角色
func IsBuiltinRole(role string) bool {
	normalized, err := NormalizeRole(role)
	if err != nil {
		return false
	}
	for _, seed := range BuiltinRoleSeeds() {
		if name, _ := NormalizeRole(seed.Role); name == normalized {
			return true
		}
	}
	return false
}

// BootstrapBuiltinRoles 写入预置角色，可重复执行
func (s *Service) BootstrapBuiltinRoles() error {
	if err := s.ready(); err != nil {
		return err
	}
	for _, seed := range BuiltinRoleSeeds() {
		role, err := s.ensureRole(seed.Role)
		if err != nil {
			return err
		}
		for _, parent := range seed.Inherits {
			parentRole, err := s.ensureRole(parent)
			if err != nil {
				return err
			}
			if _, err := s.enforcer.AddNamedGroupingPolicy("g", role, parentRole); err != nil {
				return fmt.Errorf("link %s to %s: %w", role, parentRole, err)
			}
		}
		for _, capability := range seed.Capabilities {
			if err := s.GrantRoleCapability(role, capability); err != nil {
				return err
			}
		}
	}
	return nil
}
