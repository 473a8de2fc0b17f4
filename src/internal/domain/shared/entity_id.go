package shared

import (
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
)

// ===========================
// EntityID[T] 泛型實體 ID
// ===========================

// MaxEntityIDLength 實體 ID 的最大字元數
//
// 身份提供者的 UID 上限為 128 字元，呼叫者提供的 claimId 沿用同一上限，
// 與資料表 varchar(128) 欄位一致。
const MaxEntityIDLength = 128

// EntityID 是一個泛型實體 ID 值對象
//
// ID 是不透明字串：帳戶 ID 由外部身份系統簽發，審計記錄 ID 可能是
// 呼叫者提供的 claimId，也可能是系統生成的 UUID。
//
// 泛型參數 T 是標記類型，使 AccountID 與 AuditID 成為不同類型：
//
//	type AccountMarker struct{}
//	type AccountID = shared.EntityID[AccountMarker]
type EntityID[T any] struct {
	value string
}

// NewEntityID 生成新的實體 ID（UUID v4 字串）
func NewEntityID[T any]() EntityID[T] {
	return EntityID[T]{value: uuid.NewString()}
}

// EntityIDFromString 從字串建立實體 ID
//
// 驗證規則：
// - 去除前後空白後不能為空
// - 長度不超過 MaxEntityIDLength
// - 不能包含 "/"（舊文件儲存的路徑分隔符，保持 ID 可遷移）
//
// 失敗時返回 errTemplate；若 errTemplate 支援 WithContext，附加輸入與原因。
func EntityIDFromString[T any](s string, errTemplate error) (EntityID[T], error) {
	reason := ""
	switch {
	case strings.TrimSpace(s) == "":
		reason = "id cannot be blank"
	case utf8.RuneCountInString(s) > MaxEntityIDLength:
		reason = "id exceeds maximum length"
	case strings.Contains(s, "/"):
		reason = "id cannot contain '/'"
	}

	if reason != "" {
		if domainErr, ok := errTemplate.(interface {
			WithContext(keyValues ...interface{}) error
		}); ok {
			return EntityID[T]{}, domainErr.WithContext(
				"input", s,
				"reason", reason,
			)
		}
		return EntityID[T]{}, errTemplate
	}

	return EntityID[T]{value: s}, nil
}

// String 返回原始字串
func (e EntityID[T]) String() string {
	return e.value
}

// Equals 比較兩個 EntityID 是否相等
func (e EntityID[T]) Equals(other EntityID[T]) bool {
	return e.value == other.value
}

// IsEmpty 判斷是否為空 ID（零值）
func (e EntityID[T]) IsEmpty() bool {
	return e.value == ""
}
