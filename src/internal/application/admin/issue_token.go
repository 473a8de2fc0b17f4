package admin

import (
	"context"
	"fmt"
	"time"

	"github.com/jackyeh168/point_grant/src/internal/domain/access"
	"github.com/jackyeh168/point_grant/src/internal/domain/points"
	"github.com/jackyeh168/point_grant/src/internal/domain/shared"
)

// TokenMinter 簽發憑證
type TokenMinter interface {
	Mint(uid string, claim access.RoleClaim, ttl time.Duration) (token string, expiresAt time.Time, err error)
}

// IssueTokenCommand 為 UID 簽發憑證，嵌入目前的自訂宣告
type IssueTokenCommand struct {
	UID string
	TTL time.Duration
}

// IssueTokenResult 簽發結果
type IssueTokenResult struct {
	Token     string
	ExpiresAt time.Time
	Claim     access.RoleClaim
}

// IssueTokenUseCase 簽發憑證 Use Case
type IssueTokenUseCase struct {
	claims access.ClaimStore
	minter TokenMinter
}

// NewIssueTokenUseCase 創建 Use Case 實例
func NewIssueTokenUseCase(claims access.ClaimStore, minter TokenMinter) *IssueTokenUseCase {
	return &IssueTokenUseCase{claims: claims, minter: minter}
}

// Execute 讀取宣告並簽發
func (uc *IssueTokenUseCase) Execute(ctx context.Context, cmd IssueTokenCommand) (*IssueTokenResult, error) {
	uid, err := points.AccountIDFromString(cmd.UID)
	if err != nil {
		return nil, fmt.Errorf("failed to parse uid: %w", err)
	}

	claim, err := uc.claims.Get(shared.Detached(ctx), uid)
	if err != nil {
		return nil, fmt.Errorf("failed to load claims: %w", err)
	}

	token, expiresAt, err := uc.minter.Mint(uid.String(), claim, cmd.TTL)
	if err != nil {
		return nil, ErrTokenMintFailed.WithContext("uid", uid.String(), "error", err.Error())
	}
	return &IssueTokenResult{Token: token, ExpiresAt: expiresAt, Claim: claim}, nil
}
