package points

import "strings"

// Role 帳戶角色
type Role string

const (
	RoleNone  Role = "none"
	RoleStaff Role = "staff"
	RoleAdmin Role = "admin"
)

// ParseRole 解析角色字串（不分大小寫，空字串視為 none）
func ParseRole(s string) (Role, error) {
	switch Role(strings.ToLower(strings.TrimSpace(s))) {
	case "", RoleNone:
		return RoleNone, nil
	case RoleStaff:
		return RoleStaff, nil
	case RoleAdmin:
		return RoleAdmin, nil
	}
	return RoleNone, ErrInvalidRole.WithContext("input", s)
}

// CanGrant 判斷角色是否可以發放積分
func (r Role) CanGrant() bool {
	return r == RoleStaff || r == RoleAdmin
}

func (r Role) String() string {
	if r == "" {
		return string(RoleNone)
	}
	return string(r)
}
