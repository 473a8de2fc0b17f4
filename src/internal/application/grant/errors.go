package grant

import "github.com/jackyeh168/point_grant/src/internal/domain/shared"

const (
	ErrCodeInvalidTarget  shared.ErrorCode = "GRANT_TARGET_INVALID"
	ErrCodeInvalidPoints  shared.ErrorCode = "GRANT_POINTS_INVALID"
	ErrCodeInvalidClaimID shared.ErrorCode = "GRANT_CLAIM_ID_INVALID"
	ErrCodeInvalidTag     shared.ErrorCode = "GRANT_TARGET_TAG_INVALID"
	ErrCodeReplayMissing  shared.ErrorCode = "GRANT_REPLAY_MISSING"
)

// 驗證錯誤：Context["field"] 是出錯的請求欄位名稱
var (
	ErrInvalidTarget = &shared.DomainError{
		Kind:    shared.KindInvalidArgument,
		Code:    ErrCodeInvalidTarget,
		Message: "target uid is required",
	}

	ErrInvalidPoints = &shared.DomainError{
		Kind:    shared.KindInvalidArgument,
		Code:    ErrCodeInvalidPoints,
		Message: "points must be an integer between 1 and 1000",
	}

	ErrInvalidClaimID = &shared.DomainError{
		Kind:    shared.KindInvalidArgument,
		Code:    ErrCodeInvalidClaimID,
		Message: "claimId is required",
	}

	ErrInvalidTargetTag = &shared.DomainError{
		Kind:    shared.KindInvalidArgument,
		Code:    ErrCodeInvalidTag,
		Message: "targetId is too long",
	}
)

// ErrReplayMissing 衝突後重讀時找不到勝出者的記錄
var ErrReplayMissing = &shared.DomainError{
	Kind:    shared.KindInternal,
	Code:    ErrCodeReplayMissing,
	Message: "冪等記錄衝突後無法重讀",
}
