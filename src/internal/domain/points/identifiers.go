package points

import (
	"github.com/jackyeh168/point_grant/src/internal/domain/shared"
)

// ===========================
// 實體 ID 類型定義
// ===========================

// AccountMarker 是 AccountID 的標記類型
type AccountMarker struct{}

// AccountID 帳戶的唯一標識符
//
// 帳戶 ID 由外部身份系統簽發（UID），這裡只做格式檢查。
type AccountID = shared.EntityID[AccountMarker]

// AccountIDFromString 從字串解析帳戶 ID
func AccountIDFromString(s string) (AccountID, error) {
	return shared.EntityIDFromString[AccountMarker](s, ErrInvalidAccountID)
}

// AuditMarker 是 AuditID 的標記類型
type AuditMarker struct{}

// AuditID 審計記錄 ID，同時是冪等鍵
//
// 冪等路徑使用呼叫者提供的 claimId；簡單路徑每次生成新的 UUID。
type AuditID = shared.EntityID[AuditMarker]

// NewAuditID 生成新的審計記錄 ID（UUID v4）
func NewAuditID() AuditID {
	return shared.NewEntityID[AuditMarker]()
}

// AuditIDFromString 從字串解析審計記錄 ID
func AuditIDFromString(s string) (AuditID, error) {
	return shared.EntityIDFromString[AuditMarker](s, ErrInvalidAuditID)
}
