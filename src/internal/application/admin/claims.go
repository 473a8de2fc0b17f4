package admin

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackyeh168/point_grant/src/internal/domain/access"
	"github.com/jackyeh168/point_grant/src/internal/domain/points"
	"github.com/jackyeh168/point_grant/src/internal/domain/shared"
)

// ===========================
// SetClaims Use Case
// ===========================

// ClaimAction 宣告操作
type ClaimAction string

const (
	ClaimActionSet    ClaimAction = "set"
	ClaimActionRemove ClaimAction = "remove"
)

// ParseClaimAction 解析操作（空字串預設 set）
func ParseClaimAction(s string) (ClaimAction, error) {
	switch ClaimAction(strings.ToLower(strings.TrimSpace(s))) {
	case "", ClaimActionSet:
		return ClaimActionSet, nil
	case ClaimActionRemove:
		return ClaimActionRemove, nil
	}
	return "", ErrInvalidAction.WithContext("action", s)
}

// SetClaimsCommand 設定或清除自訂宣告
type SetClaimsCommand struct {
	UID    string
	Action string
	Role   string // 預設 staff
}

// SetClaimsResult 操作結果
type SetClaimsResult struct {
	UID    string
	Action ClaimAction
	Claim  access.RoleClaim
}

// SetClaimsUseCase 自訂宣告 Use Case
type SetClaimsUseCase struct {
	claims    access.ClaimStore
	txManager shared.TransactionManager
}

// NewSetClaimsUseCase 創建 Use Case 實例
func NewSetClaimsUseCase(claims access.ClaimStore, txManager shared.TransactionManager) *SetClaimsUseCase {
	return &SetClaimsUseCase{claims: claims, txManager: txManager}
}

// Execute 執行設定或清除
func (uc *SetClaimsUseCase) Execute(ctx context.Context, cmd SetClaimsCommand) (*SetClaimsResult, error) {
	uid, err := points.AccountIDFromString(cmd.UID)
	if err != nil {
		return nil, fmt.Errorf("failed to parse uid: %w", err)
	}
	action, err := ParseClaimAction(cmd.Action)
	if err != nil {
		return nil, err
	}

	result := &SetClaimsResult{UID: uid.String(), Action: action}
	if action == ClaimActionSet {
		rawRole := cmd.Role
		if rawRole == "" {
			rawRole = string(points.RoleStaff)
		}
		role, err := points.ParseRole(rawRole)
		if err != nil {
			return nil, err
		}
		if result.Claim, err = access.NewRoleClaim(role); err != nil {
			return nil, err
		}
	}

	err = uc.txManager.InTransaction(ctx, func(tx shared.TransactionContext) error {
		if action == ClaimActionRemove {
			return uc.claims.Remove(tx, uid)
		}
		return uc.claims.Set(tx, uid, result.Claim)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to %s claims: %w", action, err)
	}
	return result, nil
}
