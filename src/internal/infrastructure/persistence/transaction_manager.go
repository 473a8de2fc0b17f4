package persistence

import (
	"context"
	"database/sql"

	"github.com/jackyeh168/point_grant/src/internal/domain/shared"
	"gorm.io/gorm"
)

// ===========================
// GORMTransactionManager
// ===========================

// GORMTransactionManager 以 gorm.DB.Transaction 實作 shared.TransactionManager
//
// fn 返回錯誤或 panic 時回滾（panic 會被重新拋出），否則提交。
// 提交失敗（例如 PostgreSQL 序列化衝突）以原始錯誤返回。
type GORMTransactionManager struct {
	db     *gorm.DB
	txOpts *sql.TxOptions
}

// TransactionOption 事務管理器選項
type TransactionOption func(*GORMTransactionManager)

// WithIsolationLevel 指定事務隔離等級
//
// SQLite 驅動忽略隔離等級（寫入由 _txlock=immediate 序列化）；
// PostgreSQL 建議使用 sql.LevelSerializable。
func WithIsolationLevel(level sql.IsolationLevel) TransactionOption {
	return func(m *GORMTransactionManager) {
		m.txOpts = &sql.TxOptions{Isolation: level}
	}
}

// NewGORMTransactionManager 創建事務管理器
func NewGORMTransactionManager(db *gorm.DB, opts ...TransactionOption) *GORMTransactionManager {
	m := &GORMTransactionManager{db: db}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

var _ shared.TransactionManager = (*GORMTransactionManager)(nil)

// InTransaction 在事務中執行 fn
func (m *GORMTransactionManager) InTransaction(ctx context.Context, fn func(tx shared.TransactionContext) error) error {
	if ctx == nil {
		ctx = context.Background()
	}

	var txOpts []*sql.TxOptions
	if m.txOpts != nil {
		txOpts = append(txOpts, m.txOpts)
	}

	return m.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormTransactionContext{db: tx, ctx: ctx})
	}, txOpts...)
}
