package persistence

import (
	"context"
	"errors"
	"testing"

	"github.com/jackyeh168/point_grant/src/internal/domain/points"
	"github.com/jackyeh168/point_grant/src/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ===========================
// TransactionManager Integration Tests
// ===========================
//
// 這些測試驗證 TransactionManager 的核心保證：
// 1. 事務隔離：錯誤時回滾，成功時提交
// 2. Panic 處理：panic 時自動回滾
// 3. 多操作原子性：審計記錄與餘額更新一起成功或一起失敗

// TestRollbackOnError_DoesNotCommit 驗證事務回滾機制
//
// 場景：在事務中寫入審計記錄並累加餘額，然後返回錯誤。
// 預期：兩項寫入都不可見。
func TestRollbackOnError_DoesNotCommit(t *testing.T) {
	// Arrange
	db, cleanup := setupTestDB(t)
	defer cleanup()
	txManager := NewGORMTransactionManager(db)
	accounts := NewAccountRepository(db)
	trail := NewAuditTrail(db)
	createTestAccount(t, db, "student-1", points.RoleNone, 10)
	simulated := errors.New("simulated error - trigger rollback")

	// Act
	err := txManager.InTransaction(context.Background(), func(tx shared.TransactionContext) error {
		require.NoError(t, trail.Append(tx, newTestRecord(t, "claim-1", "student-1", 5, testTime)))
		require.NoError(t, accounts.ApplyGrant(tx, mustAccountID(t, "student-1"), mustGrantAmount(t, 5), testTime))
		return simulated
	})

	// Assert
	assert.ErrorIs(t, err, simulated)

	exists, err := trail.Exists(nil, mustAuditID(t, "claim-1"))
	require.NoError(t, err)
	assert.False(t, exists, "audit record should not exist after rollback")

	account, err := accounts.FindByID(nil, mustAccountID(t, "student-1"))
	require.NoError(t, err)
	assert.Equal(t, int64(10), account.Balance().Points, "balance should be unchanged after rollback")
}

// TestCommitOnSuccess_SavesData 驗證事務提交機制
func TestCommitOnSuccess_SavesData(t *testing.T) {
	// Arrange
	db, cleanup := setupTestDB(t)
	defer cleanup()
	txManager := NewGORMTransactionManager(db)
	accounts := NewAccountRepository(db)
	trail := NewAuditTrail(db)
	createTestAccount(t, db, "student-1", points.RoleNone, 10)

	// Act
	err := txManager.InTransaction(context.Background(), func(tx shared.TransactionContext) error {
		if err := trail.Append(tx, newTestRecord(t, "claim-1", "student-1", 5, testTime)); err != nil {
			return err
		}
		return accounts.ApplyGrant(tx, mustAccountID(t, "student-1"), mustGrantAmount(t, 5), testTime)
	})

	// Assert
	require.NoError(t, err)

	exists, err := trail.Exists(nil, mustAuditID(t, "claim-1"))
	require.NoError(t, err)
	assert.True(t, exists)

	account, err := accounts.FindByID(nil, mustAccountID(t, "student-1"))
	require.NoError(t, err)
	assert.Equal(t, int64(15), account.Balance().Points)
}

// TestPanicRecovery_RollsBackAndRepanics 驗證 panic 處理
//
// 預期：事務回滾，panic 被重新拋出（由調用者處理）。
func TestPanicRecovery_RollsBackAndRepanics(t *testing.T) {
	// Arrange
	db, cleanup := setupTestDB(t)
	defer cleanup()
	txManager := NewGORMTransactionManager(db)
	trail := NewAuditTrail(db)
	createTestAccount(t, db, "student-1", points.RoleNone, 0)

	// Act & Assert
	assert.Panics(t, func() {
		_ = txManager.InTransaction(context.Background(), func(tx shared.TransactionContext) error {
			require.NoError(t, trail.Append(tx, newTestRecord(t, "claim-1", "student-1", 5, testTime)))
			panic("simulated panic - should rollback")
		})
	}, "panic should be re-thrown")

	exists, err := trail.Exists(nil, mustAuditID(t, "claim-1"))
	require.NoError(t, err)
	assert.False(t, exists, "audit record should not exist after panic rollback")
}

// TestDuplicateAppend_RollsBackBalance 驗證唯一鍵衝突導致整個事務回滾
//
// 場景：第二個事務先累加餘額，再寫入重複的審計 ID。
// 預期：事務返回 ErrAuditRecordExists，第二次的餘額累加不可見。
func TestDuplicateAppend_RollsBackBalance(t *testing.T) {
	// Arrange
	db, cleanup := setupTestDB(t)
	defer cleanup()
	txManager := NewGORMTransactionManager(db)
	accounts := NewAccountRepository(db)
	trail := NewAuditTrail(db)
	createTestAccount(t, db, "student-1", points.RoleNone, 0)
	require.NoError(t, trail.Append(nil, newTestRecord(t, "claim-1", "student-1", 5, testTime)))

	// Act
	err := txManager.InTransaction(context.Background(), func(tx shared.TransactionContext) error {
		if err := accounts.ApplyGrant(tx, mustAccountID(t, "student-1"), mustGrantAmount(t, 5), testTime); err != nil {
			return err
		}
		return trail.Append(tx, newTestRecord(t, "claim-1", "student-1", 5, testTime))
	})

	// Assert
	assert.ErrorIs(t, err, points.ErrAuditRecordExists)
	account, findErr := accounts.FindByID(nil, mustAccountID(t, "student-1"))
	require.NoError(t, findErr)
	assert.Equal(t, int64(0), account.Balance().Points)
}

// TestRepository_DetachedContext_AutoCommitMode 驗證事務外的讀取
//
// Detached 上下文不參與任何事務，每次查詢獨立提交。
func TestRepository_DetachedContext_AutoCommitMode(t *testing.T) {
	// Arrange
	db, cleanup := setupTestDB(t)
	defer cleanup()
	accounts := NewAccountRepository(db)
	createTestAccount(t, db, "student-1", points.RoleStaff, 3)

	// Act
	account, err := accounts.FindByID(shared.Detached(context.Background()), mustAccountID(t, "student-1"))

	// Assert
	require.NoError(t, err)
	assert.Equal(t, points.RoleStaff, account.Role())
	assert.Equal(t, int64(3), account.Balance().Points)
}
