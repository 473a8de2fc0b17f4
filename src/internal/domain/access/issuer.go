package access

import (
	"strings"

	"github.com/jackyeh168/point_grant/src/internal/domain/points"
)

// ===========================
// RoleClaim 憑證內嵌的角色宣告
// ===========================

// RoleClaim 憑證中的角色宣告
//
// 新格式使用 Role 字串；舊版管理工具寫入的是布林旗標 admin / staff。
// 零值代表憑證沒有任何角色宣告。
type RoleClaim struct {
	Role  string `json:"role,omitempty" yaml:"role,omitempty"`
	Admin bool   `json:"admin,omitempty" yaml:"admin,omitempty"`
	Staff bool   `json:"staff,omitempty" yaml:"staff,omitempty"`
}

// NewRoleClaim 建立角色宣告（僅接受 staff / admin）
func NewRoleClaim(role points.Role) (RoleClaim, error) {
	if !role.CanGrant() {
		return RoleClaim{}, ErrInvalidRoleClaim.WithContext("role", role.String())
	}
	return RoleClaim{Role: string(role)}, nil
}

// Resolve 解析宣告
//
// 返回的 ok 為 false 代表宣告缺席（或無法辨識），呼叫者應改查個人資料。
func (c RoleClaim) Resolve() (points.Role, bool) {
	if strings.TrimSpace(c.Role) != "" {
		if role, err := points.ParseRole(c.Role); err == nil {
			return role, true
		}
	}
	switch {
	case c.Admin:
		return points.RoleAdmin, true
	case c.Staff:
		return points.RoleStaff, true
	}
	return points.RoleNone, false
}

// IsZero 判斷是否沒有任何宣告
func (c RoleClaim) IsZero() bool {
	return c == RoleClaim{}
}

// ===========================
// Issuer 發放者
// ===========================

// Issuer 已驗證的呼叫者
//
// nil *Issuer 代表沒有可驗證的身份。
type Issuer struct {
	uid   points.AccountID
	claim RoleClaim
}

// NewIssuer 由已驗證的 UID 與宣告建立 Issuer
func NewIssuer(uid string, claim RoleClaim) (*Issuer, error) {
	id, err := points.AccountIDFromString(uid)
	if err != nil {
		return nil, ErrUnauthenticated.WithContext("reason", "invalid subject")
	}
	return &Issuer{uid: id, claim: claim}, nil
}

// UID 返回呼叫者帳戶 ID
func (i *Issuer) UID() points.AccountID {
	return i.uid
}

// Claim 返回憑證內嵌的角色宣告
func (i *Issuer) Claim() RoleClaim {
	return i.claim
}
