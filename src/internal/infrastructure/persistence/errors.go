package persistence

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackyeh168/point_grant/src/internal/domain/points"
	"github.com/jackyeh168/point_grant/src/internal/domain/shared"
	"gorm.io/gorm"
)

// PostgreSQL SQLSTATE
const (
	pgUniqueViolation      = "23505"
	pgSerializationFailure = "40001"
	pgDeadlockDetected     = "40P01"
)

// mapError 映射 GORM／驅動錯誤到 Domain 錯誤
//
// 映射規則：
// - gorm.ErrRecordNotFound → notFound
// - 唯一約束違反（PostgreSQL 23505、SQLite UNIQUE constraint） → conflict
// - 其他 → points.ErrRepositoryError（序列化衝突附帶 retryable=true）
func mapError(err error, notFound, conflict *shared.DomainError, keyValues ...interface{}) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return notFound.WithContext(keyValues...)
	}

	if isUniqueViolation(err) {
		return conflict.WithContext(append(keyValues, "database_error", err.Error())...)
	}

	return points.ErrRepositoryError.WithContext(append(keyValues,
		"database_error", err.Error(),
		"retryable", isRetryable(err),
	)...)
}

// isUniqueViolation 判斷唯一約束違反
func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgUniqueViolation
	}

	// SQLite: "UNIQUE constraint failed"
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint") || strings.Contains(msg, "PRIMARY KEY constraint")
}

// isRetryable 判斷是否為暫時性衝突（呼叫者可以用同一冪等鍵重試）
func isRetryable(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgSerializationFailure || pgErr.Code == pgDeadlockDetected
	}
	msg := err.Error()
	return strings.Contains(msg, "database is locked") || strings.Contains(msg, "SQLITE_BUSY")
}
