package authz

import (
	"errors"
	"strconv"
	"strings"
)

// 主体与角色命名：用户为 user:<id>，角色统一带 role: 前缀。
// 角色本身通过挂到锚点角色登记，便于在没有成员时也能列出。
const (
	casbinTableName = "casbin_rule"
	userSubject     = "user:"
	rolePrefix      = "role:"
	roleAnchor      = "role:__anchor__"

	// ActionUse 能力授权的唯一动作
	ActionUse = "use"
	// AnyCapability 通配能力，仅授予 admin
	AnyCapability = "*"
)

// 对象是能力名称（如 manage_orders）
const capabilityRBACModel = `
[request_definition]
r = sub, obj, act

[policy_definition]
p = sub, obj, act

[role_definition]
g = _, _

[policy_effect]
e = some(where (p.eft == allow))

[matchers]
m = (g(r.sub, p.sub) || r.sub == p.sub) && (r.obj == p.obj || p.obj == "*") && r.act == p.act
`

var (
	// ErrUnavailable 授权服务未初始化
	ErrUnavailable = errors.New("authz service unavailable")
	// ErrRoleRequired 角色名为空
	ErrRoleRequired = errors.New("role is required")
)

// SubjectForUser 用户主体标识
func SubjectForUser(userID uint) string {
	return userSubject + strconv.FormatUint(uint64(userID), 10)
}

// NormalizeRole 空格转下划线并补齐 role: 前缀，锚点角色不可直接使用
func NormalizeRole(role string) (string, error) {
	name := strings.TrimPrefix(strings.TrimSpace(role), rolePrefix)
	name = strings.ReplaceAll(strings.TrimSpace(name), " ", "_")
	if name == "" {
		return "", ErrRoleRequired
	}
	normalized := rolePrefix + name
	if normalized == roleAnchor {
		return "", errors.New("reserved role is not allowed")
	}
	return normalized, nil
}

// NormalizeCapability 能力名统一小写
func NormalizeCapability(capability string) string {
	return strings.ToLower(strings.TrimSpace(capability))
}

func isRole(name string) bool {
	return strings.HasPrefix(name, rolePrefix) && name != roleAnchor
}
