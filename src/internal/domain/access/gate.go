package access

import (
	"context"

	"github.com/jackyeh168/point_grant/src/internal/domain/points"
)

// AuthorizationGate 發放權限檢查
type AuthorizationGate struct {
	resolver *RoleResolver
}

// NewAuthorizationGate 建立權限檢查
func NewAuthorizationGate(resolver *RoleResolver) *AuthorizationGate {
	return &AuthorizationGate{resolver: resolver}
}

// Authorize 檢查呼叫者能否發放積分
//
// 錯誤：
// - ErrUnauthenticated：issuer 為 nil
// - ErrPermissionDenied：解析後的角色不是 staff / admin
// - ErrRoleLookupFailed：讀取個人資料失敗
func (g *AuthorizationGate) Authorize(ctx context.Context, issuer *Issuer) (points.Role, error) {
	if issuer == nil {
		return points.RoleNone, ErrUnauthenticated
	}

	role, err := g.resolver.Resolve(ctx, issuer)
	if err != nil {
		return points.RoleNone, err
	}

	if !role.CanGrant() {
		return role, ErrPermissionDenied.WithContext(
			"uid", issuer.UID().String(),
			"role", role.String(),
		)
	}
	return role, nil
}
