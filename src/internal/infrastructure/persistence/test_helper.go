package persistence

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/jackyeh168/point_grant/src/internal/domain/points"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// ===========================
// 測試輔助函數
// ===========================

// setupTestDB 創建測試用的 SQLite in-memory 資料庫
//
// in-memory 資料庫每條連線各自獨立，因此限制為單一連線；
// 並發的事務會排隊等待這條連線。
func setupTestDB(t *testing.T) (*gorm.DB, func()) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("Failed to resolve sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := Migrate(db); err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}

	cleanup := func() {
		_ = sqlDB.Close()
	}
	return db, cleanup
}

// setupFileTestDB 在暫存目錄建立檔案型 SQLite，允許多條連線
//
// 連線選項與 DefaultSQLiteDSN 相同：寫入事務以 BEGIN IMMEDIATE 取得鎖，
// 其他連線最多等待 busy_timeout。
func setupFileTestDB(t *testing.T, maxOpenConns int) *gorm.DB {
	t.Helper()

	dsn := "file:" + filepath.Join(t.TempDir(), "grant.db") +
		"?_txlock=immediate&_busy_timeout=5000&_foreign_keys=on"
	db, err := Open(context.Background(), Options{
		Driver:       DriverSQLite,
		DSN:          dsn,
		MaxOpenConns: maxOpenConns,
		LogLevel:     logger.Silent,
	})
	if err != nil {
		t.Fatalf("Failed to open file database: %v", err)
	}
	t.Cleanup(func() { _ = Close(db) })

	if err := Migrate(db); err != nil {
		t.Fatalf("Failed to migrate file database: %v", err)
	}
	return db
}

var testTime = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

// createTestAccount 直接寫入帳戶列
func createTestAccount(t *testing.T, db *gorm.DB, id string, role points.Role, balance int64) {
	t.Helper()
	model := &AccountModel{
		ID:                   id,
		Role:                 role.String(),
		Points:               balance,
		TotalPointsObtained:  balance,
		TotalPointsRemaining: balance,
		CreatedAt:            testTime,
		UpdatedAt:            testTime,
	}
	if err := db.Create(model).Error; err != nil {
		t.Fatalf("Failed to seed account: %v", err)
	}
}

func mustAccountID(t *testing.T, s string) points.AccountID {
	t.Helper()
	id, err := points.AccountIDFromString(s)
	if err != nil {
		t.Fatalf("invalid account id %q: %v", s, err)
	}
	return id
}

func mustAuditID(t *testing.T, s string) points.AuditID {
	t.Helper()
	id, err := points.AuditIDFromString(s)
	if err != nil {
		t.Fatalf("invalid audit id %q: %v", s, err)
	}
	return id
}

func mustGrantAmount(t *testing.T, v int64) points.GrantAmount {
	t.Helper()
	amount, err := points.NewGrantAmount(v)
	if err != nil {
		t.Fatalf("invalid grant amount %d: %v", v, err)
	}
	return amount
}
