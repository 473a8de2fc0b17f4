package access

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackyeh168/point_grant/src/internal/domain/points"
	"github.com/jackyeh168/point_grant/src/internal/domain/shared"
)

// ===========================
// RoleSource 角色來源
// ===========================

// RoleSource 單一角色來源
//
// ok 為 false 表示此來源無法判斷，交給下一個來源。
type RoleSource interface {
	ResolveRole(ctx context.Context, issuer *Issuer) (role points.Role, ok bool, err error)
}

// ClaimRoleSource 讀取憑證內嵌的角色宣告（不需要讀取儲存）
type ClaimRoleSource struct{}

// ResolveRole 實現 RoleSource
func (ClaimRoleSource) ResolveRole(_ context.Context, issuer *Issuer) (points.Role, bool, error) {
	role, ok := issuer.Claim().Resolve()
	return role, ok, nil
}

// ProfileRoleSource 讀取儲存的帳戶角色
//
// 帳戶不存在時解析為 RoleNone，不視為錯誤。
type ProfileRoleSource struct {
	accounts points.AccountRepository
}

// NewProfileRoleSource 建立個人資料角色來源
func NewProfileRoleSource(accounts points.AccountRepository) *ProfileRoleSource {
	return &ProfileRoleSource{accounts: accounts}
}

// ResolveRole 實現 RoleSource
func (s *ProfileRoleSource) ResolveRole(ctx context.Context, issuer *Issuer) (points.Role, bool, error) {
	account, err := s.accounts.FindByID(shared.Detached(ctx), issuer.UID())
	if errors.Is(err, points.ErrAccountNotFound) {
		return points.RoleNone, true, nil
	}
	if err != nil {
		return points.RoleNone, false, fmt.Errorf("%w: %v", ErrRoleLookupFailed, err)
	}
	return account.Role(), true, nil
}

// ===========================
// RoleResolver 依序解析
// ===========================

// RoleResolver 按順序詢問角色來源，第一個能判斷的來源決定結果
type RoleResolver struct {
	sources []RoleSource
}

// NewRoleResolver 建立解析器
func NewRoleResolver(sources ...RoleSource) *RoleResolver {
	return &RoleResolver{sources: sources}
}

// NewDefaultRoleResolver 先讀憑證宣告，再讀個人資料
func NewDefaultRoleResolver(accounts points.AccountRepository) *RoleResolver {
	return NewRoleResolver(ClaimRoleSource{}, NewProfileRoleSource(accounts))
}

// Resolve 解析角色；所有來源都無法判斷時返回 RoleNone
func (r *RoleResolver) Resolve(ctx context.Context, issuer *Issuer) (points.Role, error) {
	for _, source := range r.sources {
		role, ok, err := source.ResolveRole(ctx, issuer)
		if err != nil {
			return points.RoleNone, err
		}
		if ok {
			return role, nil
		}
	}
	return points.RoleNone, nil
}
