package persistence

import (
	"context"

	"github.com/jackyeh168/point_grant/src/internal/domain/shared"
	"gorm.io/gorm"
)

// ===========================
// GORM TransactionContext 實作
// ===========================

// gormTransactionContext GORM 事務上下文
//
// GetDB 不在 shared.TransactionContext 介面中，Domain Layer 無法取得 *gorm.DB。
type gormTransactionContext struct {
	db  *gorm.DB
	ctx context.Context
}

// NewGORMTransactionContext 創建 GORM 事務上下文
func NewGORMTransactionContext(ctx context.Context, db *gorm.DB) shared.TransactionContext {
	if ctx == nil {
		ctx = context.Background()
	}
	return &gormTransactionContext{db: db.WithContext(ctx), ctx: ctx}
}

// Context 實現 shared.TransactionContext
func (c *gormTransactionContext) Context() context.Context {
	return c.ctx
}

// GetDB 獲取 GORM DB 連接（僅供 Infrastructure Layer 內部使用）
func (c *gormTransactionContext) GetDB() *gorm.DB {
	return c.db
}

// dbFrom 從 TransactionContext 取得 DB
//
// 事務上下文返回事務連接；其他上下文（Detached 或 nil）返回帶請求
// context 的預設連接。
func dbFrom(base *gorm.DB, tx shared.TransactionContext) *gorm.DB {
	if gormCtx, ok := tx.(*gormTransactionContext); ok {
		return gormCtx.GetDB()
	}
	return base.WithContext(shared.ContextOf(tx))
}
