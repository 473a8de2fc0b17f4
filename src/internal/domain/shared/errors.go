package shared

import (
	"errors"
	"fmt"
)

// ===========================
// 錯誤分類（Error Kind）
// ===========================

// ErrorKind 錯誤分類
//
// 所有 bounded context 的 DomainError 都歸入以下分類之一，
// 傳輸層（RPC / HTTP）只依據分類決定狀態碼，不認識具體錯誤代碼。
type ErrorKind string

const (
	KindUnauthenticated  ErrorKind = "unauthenticated"   // 沒有可驗證的呼叫者身份
	KindInvalidArgument  ErrorKind = "invalid-argument"  // 請求欄位格式錯誤
	KindPermissionDenied ErrorKind = "permission-denied" // 已驗證但角色不足
	KindNotFound         ErrorKind = "not-found"         // 目標不存在
	KindConflict         ErrorKind = "already-exists"    // 唯一鍵衝突
	KindInternal         ErrorKind = "internal"          // 儲存或基礎設施錯誤
)

// ErrorCode 錯誤代碼類型（各 bounded context 自行定義常量）
type ErrorCode string

// ===========================
// DomainError 結構
// ===========================

// DomainError 領域錯誤
//
// 預定義錯誤是模板：呼叫 WithContext 產生帶上下文的新實例，模板本身不變。
// errors.Is 以 Code 比較，因此帶上下文的實例仍然等於模板。
type DomainError struct {
	Kind    ErrorKind
	Code    ErrorCode
	Message string
	Context map[string]interface{}
}

// Error 實現 error 接口
func (e *DomainError) Error() string {
	if len(e.Context) == 0 {
		return fmt.Sprintf("[%s] %s", e.Code, e.Message)
	}
	return fmt.Sprintf("[%s] %s (context: %+v)", e.Code, e.Message, e.Context)
}

// WithContext 添加上下文信息（返回新的錯誤實例）
func (e *DomainError) WithContext(keyValues ...interface{}) error {
	if len(keyValues)%2 != 0 {
		panic("WithContext requires even number of arguments (key-value pairs)")
	}

	ctx := make(map[string]interface{}, len(e.Context)+len(keyValues)/2)
	for k, v := range e.Context {
		ctx[k] = v
	}
	for i := 0; i < len(keyValues); i += 2 {
		key, ok := keyValues[i].(string)
		if !ok {
			panic(fmt.Sprintf("context key must be string, got %T", keyValues[i]))
		}
		ctx[key] = keyValues[i+1]
	}

	return &DomainError{
		Kind:    e.Kind,
		Code:    e.Code,
		Message: e.Message,
		Context: ctx,
	}
}

// Is 實現 errors.Is 接口
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// ContextValue 讀取上下文欄位（不存在時返回空字串）
func (e *DomainError) ContextValue(key string) string {
	v, ok := e.Context[key]
	if !ok || v == nil {
		return ""
	}
	return fmt.Sprint(v)
}

// ===========================
// 分類查詢
// ===========================

// KindOf 返回錯誤鏈中第一個 DomainError 的分類
//
// 不是 DomainError 的錯誤（驅動錯誤、panic 轉換等）一律視為 KindInternal。
func KindOf(err error) ErrorKind {
	if err == nil {
		return ""
	}
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Kind
	}
	return KindInternal
}

// AsDomainError 取出錯誤鏈中的 DomainError
func AsDomainError(err error) (*DomainError, bool) {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr, true
	}
	return nil, false
}
