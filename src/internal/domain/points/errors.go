package points

import "github.com/jackyeh168/point_grant/src/internal/domain/shared"

// ===========================
// 錯誤代碼定義
// ===========================

// 錯誤代碼常量
const (
	// 積分數量相關
	ErrCodeNegativePointsAmount ErrorCode = "POINTS_NEGATIVE"
	ErrCodePointsOverflow       ErrorCode = "POINTS_OVERFLOW"
	ErrCodeGrantOutOfRange      ErrorCode = "GRANT_POINTS_OUT_OF_RANGE"

	// 帳戶相關
	ErrCodeInvalidAccountID ErrorCode = "ACCOUNT_ID_INVALID"
	ErrCodeInvalidRole      ErrorCode = "ROLE_INVALID"
	ErrCodeCorruptedAccount ErrorCode = "ACCOUNT_CORRUPTED"

	// 審計記錄相關
	ErrCodeInvalidAuditID       ErrorCode = "AUDIT_ID_INVALID"
	ErrCodeInvalidTargetTag     ErrorCode = "AUDIT_TARGET_TAG_INVALID"
	ErrCodeCorruptedAuditRecord ErrorCode = "AUDIT_RECORD_CORRUPTED"
)

// ErrorCode 錯誤代碼類型
type ErrorCode = shared.ErrorCode

// DomainError 積分上下文沿用共用的領域錯誤結構
type DomainError = shared.DomainError

// ===========================
// 預定義錯誤
// ===========================

// 積分數量相關錯誤
var (
	ErrNegativePointsAmount = &DomainError{
		Kind:    shared.KindInvalidArgument,
		Code:    ErrCodeNegativePointsAmount,
		Message: "積分數量不能為負數",
	}

	ErrPointsOverflow = &DomainError{
		Kind:    shared.KindInternal,
		Code:    ErrCodePointsOverflow,
		Message: "積分累加溢位",
	}

	ErrGrantAmountOutOfRange = &DomainError{
		Kind:    shared.KindInvalidArgument,
		Code:    ErrCodeGrantOutOfRange,
		Message: "發放積分必須在 1-1000 之間",
	}
)

// 帳戶相關錯誤
var (
	ErrInvalidAccountID = &DomainError{
		Kind:    shared.KindInvalidArgument,
		Code:    ErrCodeInvalidAccountID,
		Message: "無效的帳戶 ID",
	}

	ErrInvalidRole = &DomainError{
		Kind:    shared.KindInvalidArgument,
		Code:    ErrCodeInvalidRole,
		Message: "無效的角色",
	}

	// ErrCorruptedAccount 資料庫中的帳戶資料違反不變條件
	ErrCorruptedAccount = &DomainError{
		Kind:    shared.KindInternal,
		Code:    ErrCodeCorruptedAccount,
		Message: "帳戶資料損壞",
	}
)

// 審計記錄相關錯誤
var (
	ErrInvalidAuditID = &DomainError{
		Kind:    shared.KindInvalidArgument,
		Code:    ErrCodeInvalidAuditID,
		Message: "無效的審計記錄 ID",
	}

	ErrInvalidTargetTag = &DomainError{
		Kind:    shared.KindInvalidArgument,
		Code:    ErrCodeInvalidTargetTag,
		Message: "無效的關聯標籤",
	}

	ErrCorruptedAuditRecord = &DomainError{
		Kind:    shared.KindInternal,
		Code:    ErrCodeCorruptedAuditRecord,
		Message: "審計記錄資料損壞",
	}
)
