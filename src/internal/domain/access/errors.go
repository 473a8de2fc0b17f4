package access

import "github.com/jackyeh168/point_grant/src/internal/domain/shared"

// ===========================
// Access Domain 錯誤定義
// ===========================

const (
	ErrCodeUnauthenticated   shared.ErrorCode = "UNAUTHENTICATED"
	ErrCodePermissionDenied  shared.ErrorCode = "PERMISSION_DENIED"
	ErrCodeRoleLookupFailed  shared.ErrorCode = "ROLE_LOOKUP_FAILED"
	ErrCodeInvalidRoleClaim  shared.ErrorCode = "ROLE_CLAIM_INVALID"
	ErrCodeClaimStoreFailure shared.ErrorCode = "CLAIM_STORE_FAILURE"
)

var (
	// ErrUnauthenticated 沒有可驗證的呼叫者身份
	ErrUnauthenticated = &shared.DomainError{
		Kind:    shared.KindUnauthenticated,
		Code:    ErrCodeUnauthenticated,
		Message: "需要登入",
	}

	// ErrPermissionDenied 呼叫者角色不是 staff 或 admin
	ErrPermissionDenied = &shared.DomainError{
		Kind:    shared.KindPermissionDenied,
		Code:    ErrCodePermissionDenied,
		Message: "沒有發放積分的權限",
	}

	// ErrRoleLookupFailed 讀取個人資料角色失敗
	ErrRoleLookupFailed = &shared.DomainError{
		Kind:    shared.KindInternal,
		Code:    ErrCodeRoleLookupFailed,
		Message: "無法讀取角色",
	}

	// ErrInvalidRoleClaim 管理工具寫入的宣告不合法
	ErrInvalidRoleClaim = &shared.DomainError{
		Kind:    shared.KindInvalidArgument,
		Code:    ErrCodeInvalidRoleClaim,
		Message: "無效的角色宣告",
	}

	// ErrClaimStoreFailure 宣告儲存失敗
	ErrClaimStoreFailure = &shared.DomainError{
		Kind:    shared.KindInternal,
		Code:    ErrCodeClaimStoreFailure,
		Message: "宣告儲存操作失敗",
	}
)
