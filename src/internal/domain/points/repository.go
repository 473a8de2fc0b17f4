package points

import (
	"time"

	"github.com/jackyeh168/point_grant/src/internal/domain/shared"
)

// ===========================
// Account Repository 介面
// ===========================

// AccountRepository 帳戶倉儲介面
//
// 事務使用範例：
//
//	txManager.InTransaction(ctx, func(tx shared.TransactionContext) error {
//	    account, _ := accounts.FindByID(tx, accountID)
//	    account.Grant(amount, auditID, issuer, now)
//	    return accounts.ApplyGrant(tx, account.AccountID(), amount, now)
//	})
type AccountRepository interface {
	// Save 保存新的帳戶
	// 錯誤：ErrAccountAlreadyExists（如果 ID 已存在）
	Save(tx shared.TransactionContext, account *Account) error

	// FindByID 根據帳戶 ID 查找帳戶
	// 返回：找到的帳戶，或 ErrAccountNotFound
	FindByID(tx shared.TransactionContext, accountID AccountID) (*Account, error)

	// ApplyGrant 把 amount 累加到三個餘額欄位並更新 updatedAt
	//
	// 以欄位遞增的方式更新（合併語義），不覆寫其他欄位。
	// 錯誤：ErrAccountNotFound（如果帳戶不存在）
	ApplyGrant(tx shared.TransactionContext, accountID AccountID, amount GrantAmount, at time.Time) error

	// UpsertRole 設定帳戶角色；帳戶不存在時建立餘額為 0 的帳戶
	UpsertRole(tx shared.TransactionContext, account *Account) error
}

// ===========================
// AuditTrail 介面
// ===========================

// AuditTrail 發放審計記錄（只增不改）
type AuditTrail interface {
	// Exists 判斷冪等鍵是否已有記錄
	Exists(tx shared.TransactionContext, auditID AuditID) (bool, error)

	// FindByID 返回記錄，或 ErrAuditRecordNotFound
	FindByID(tx shared.TransactionContext, auditID AuditID) (*GrantAuditRecord, error)

	// Append 寫入新記錄，必須與餘額更新在同一事務中
	// 錯誤：ErrAuditRecordExists（同一 ID 已存在）
	Append(tx shared.TransactionContext, record *GrantAuditRecord) error

	// FindByTarget 依建立時間倒序返回目標帳戶的記錄
	FindByTarget(tx shared.TransactionContext, target AccountID, limit int) ([]*GrantAuditRecord, error)
}

// ===========================
// Repository 錯誤定義
// ===========================

const (
	ErrCodeAccountNotFound      ErrorCode = "ACCOUNT_NOT_FOUND"
	ErrCodeAccountAlreadyExists ErrorCode = "ACCOUNT_ALREADY_EXISTS"
	ErrCodeAuditRecordNotFound  ErrorCode = "AUDIT_RECORD_NOT_FOUND"
	ErrCodeAuditRecordExists    ErrorCode = "AUDIT_RECORD_EXISTS"
	ErrCodeRepositoryError      ErrorCode = "REPOSITORY_ERROR"
)

var (
	// ErrAccountNotFound 帳戶不存在
	ErrAccountNotFound = &DomainError{
		Kind:    shared.KindNotFound,
		Code:    ErrCodeAccountNotFound,
		Message: "帳戶不存在",
	}

	// ErrAccountAlreadyExists 帳戶已存在
	ErrAccountAlreadyExists = &DomainError{
		Kind:    shared.KindConflict,
		Code:    ErrCodeAccountAlreadyExists,
		Message: "帳戶已存在",
	}

	// ErrAuditRecordNotFound 審計記錄不存在
	ErrAuditRecordNotFound = &DomainError{
		Kind:    shared.KindNotFound,
		Code:    ErrCodeAuditRecordNotFound,
		Message: "審計記錄不存在",
	}

	// ErrAuditRecordExists 冪等鍵已被使用
	ErrAuditRecordExists = &DomainError{
		Kind:    shared.KindConflict,
		Code:    ErrCodeAuditRecordExists,
		Message: "審計記錄已存在",
	}

	// ErrRepositoryError 倉儲操作錯誤（通用）
	ErrRepositoryError = &DomainError{
		Kind:    shared.KindInternal,
		Code:    ErrCodeRepositoryError,
		Message: "倉儲操作失敗",
	}
)
