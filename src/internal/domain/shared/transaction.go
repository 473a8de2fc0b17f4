package shared

import "context"

// TransactionContext 事務上下文介面
//
// 行為約定：
// - 由 TransactionManager.InTransaction 傳入的 ctx：在該事務中執行
// - 由 Detached(ctx) 建立的 ctx：不參與事務（auto-commit），僅攜帶請求的 context.Context
// - nil：auto-commit，使用背景 context
//
// Repository 方法約束：
// - 寫操作（Append、ApplyGrant、UpsertRole）必須在事務中
// - 讀操作（Exists、FindByID）可選擇是否參與事務
//
// 範例：
//
//	txManager.InTransaction(ctx, func(tx TransactionContext) error {
//	    exists, _ := audits.Exists(tx, auditID)
//	    ...
//	    return accounts.ApplyGrant(tx, account)
//	})
//
//	account, _ := accounts.FindByID(shared.Detached(ctx), accountID)
type TransactionContext interface {
	Context() context.Context
}

// TransactionManager 事務管理器介面
//
// fn 返回錯誤時整個事務回滾，返回 nil 時提交。
type TransactionManager interface {
	InTransaction(ctx context.Context, fn func(tx TransactionContext) error) error
}

type detachedContext struct {
	ctx context.Context
}

func (d detachedContext) Context() context.Context {
	return d.ctx
}

// Detached 返回不參與事務的上下文
func Detached(ctx context.Context) TransactionContext {
	if ctx == nil {
		ctx = context.Background()
	}
	return detachedContext{ctx: ctx}
}

// ContextOf 取出 TransactionContext 攜帶的 context.Context（nil 安全）
func ContextOf(tx TransactionContext) context.Context {
	if tx == nil {
		return context.Background()
	}
	if ctx := tx.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
