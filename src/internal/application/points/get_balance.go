package points

import (
	"context"
	"fmt"

	"github.com/jackyeh168/point_grant/src/internal/domain/access"
	"github.com/jackyeh168/point_grant/src/internal/domain/points"
	"github.com/jackyeh168/point_grant/src/internal/domain/shared"
)

// Authorizer 權限檢查（與發放共用同一個 gate）
type Authorizer interface {
	Authorize(ctx context.Context, issuer *access.Issuer) (points.Role, error)
}

// GetBalanceQuery 查詢帳戶餘額
type GetBalanceQuery struct {
	UID string
}

// GetBalanceResult 餘額快照
type GetBalanceResult struct {
	UID                  string
	Role                 string
	Points               int64
	TotalPointsObtained  int64
	TotalPointsRemaining int64
}

// GetBalanceUseCase 查詢餘額 Use Case
//
// 呼叫者可以查詢自己的帳戶；查詢他人帳戶需要 staff / admin。
type GetBalanceUseCase struct {
	gate     Authorizer
	accounts points.AccountRepository
}

// NewGetBalanceUseCase 創建 Use Case 實例
func NewGetBalanceUseCase(gate Authorizer, accounts points.AccountRepository) *GetBalanceUseCase {
	return &GetBalanceUseCase{gate: gate, accounts: accounts}
}

// Execute 執行查詢
//
// 錯誤處理：
// - ErrUnauthenticated: issuer 為 nil
// - ErrPermissionDenied: 查詢他人帳戶但角色不足
// - ErrInvalidAccountID: UID 格式無效
// - ErrAccountNotFound: 帳戶不存在
func (uc *GetBalanceUseCase) Execute(ctx context.Context, issuer *access.Issuer, query GetBalanceQuery) (*GetBalanceResult, error) {
	if issuer == nil {
		return nil, access.ErrUnauthenticated
	}

	uid, err := points.AccountIDFromString(query.UID)
	if err != nil {
		return nil, err
	}

	if !uid.Equals(issuer.UID()) {
		if _, err := uc.gate.Authorize(ctx, issuer); err != nil {
			return nil, err
		}
	}

	account, err := uc.accounts.FindByID(shared.Detached(ctx), uid)
	if err != nil {
		return nil, fmt.Errorf("failed to find account: %w", err)
	}

	balance := account.Balance()
	return &GetBalanceResult{
		UID:                  account.AccountID().String(),
		Role:                 account.Role().String(),
		Points:               balance.Points,
		TotalPointsObtained:  balance.TotalPointsObtained,
		TotalPointsRemaining: balance.TotalPointsRemaining,
	}, nil
}
