package domain

import "errors"

// Role 成员角色标签
// 来源是身份提供方的字符串数组，在身份边界处归一为枚举能力标签
type Role string

const (
	// RoleAdmin 管理员：可删除组织内的共享笔记
	RoleAdmin Role = "admin"
	// RoleMember 普通成员
	RoleMember Role = "member"
)

// RoleSet 角色集合
type RoleSet []Role

// Has 判断集合中是否含有指定角色
func (s RoleSet) Has(role Role) bool {
	for _, r := range s {
		if r == role {
			return true
		}
	}
	return false
}

// Strings 返回字符串形式的角色列表
func (s RoleSet) Strings() []string {
	out := make([]string, 0, len(s))
	for _, r := range s {
		out = append(out, string(r))
	}
	return out
}

// ParseRoles 将身份提供方的角色字符串归一为 RoleSet
// 未知角色标签保留原值但不携带任何能力
func ParseRoles(roles []string) RoleSet {
	set := make(RoleSet, 0, len(roles))
	for _, r := range roles {
		if r == "" {
			continue
		}
		set = append(set, Role(r))
	}
	return set
}

// ErrIncompleteIdentity 身份上下文缺少成员或组织信息
var ErrIncompleteIdentity = errors.New("identity requires member and organization")

// Identity 每次请求构造的身份上下文
// 服务完全信任该三元组，所有操作以它为授权依据
type Identity struct {
	MemberID       string
	OrganizationID string
	Roles          RoleSet
}

// NewIdentity 在身份边界处构造并校验身份上下文
func NewIdentity(memberID, organizationID string, roles []string) (*Identity, error) {
	if memberID == "" || organizationID == "" {
		return nil, ErrIncompleteIdentity
	}
	return &Identity{
		MemberID:       memberID,
		OrganizationID: organizationID,
		Roles:          ParseRoles(roles),
	}, nil
}

// IsAdmin 判断调用者是否为管理员
// 角色仅用于删除授权
func (i *Identity) IsAdmin() bool {
	return i.Roles.Has(RoleAdmin)
}
