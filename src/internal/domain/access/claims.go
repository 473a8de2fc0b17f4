package access

import (
	"github.com/jackyeh168/point_grant/src/internal/domain/points"
	"github.com/jackyeh168/point_grant/src/internal/domain/shared"
)

// ClaimStore 身份提供者端的自訂宣告
//
// 管理工具寫入宣告；簽發憑證時讀取並嵌入。使用者需要重新取得憑證
// 宣告才會生效。
type ClaimStore interface {
	// Get 返回宣告；沒有宣告時返回零值
	Get(tx shared.TransactionContext, uid points.AccountID) (RoleClaim, error)

	// Set 覆寫宣告
	Set(tx shared.TransactionContext, uid points.AccountID, claim RoleClaim) error

	// Remove 清除宣告（不存在時不視為錯誤）
	Remove(tx shared.TransactionContext, uid points.AccountID) error
}
