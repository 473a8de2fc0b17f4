package persistence

import (
	"time"
)

// ===========================
// GORM Model 定義
// ===========================

// AccountModel 帳戶模型
//
// 帳戶列由個人資料系統建立；發放只更新三個餘額欄位與 updated_at。
type AccountModel struct {
	ID                   string    `gorm:"type:varchar(128);primaryKey"`
	Role                 string    `gorm:"type:varchar(16);not null;default:'none'"`
	Points               int64     `gorm:"not null;default:0"`
	TotalPointsObtained  int64     `gorm:"not null;default:0"`
	TotalPointsRemaining int64     `gorm:"not null;default:0"`
	CreatedAt            time.Time `gorm:"not null"`
	UpdatedAt            time.Time `gorm:"not null"`
}

// TableName 指定表名
func (AccountModel) TableName() string {
	return "accounts"
}

// GrantAuditModel 發放審計模型
//
// 主鍵即冪等鍵；重複寫入由主鍵唯一約束拒絕。
type GrantAuditModel struct {
	ID         string    `gorm:"type:varchar(128);primaryKey"`
	Issuer     string    `gorm:"type:varchar(128);not null"`
	Target     string    `gorm:"type:varchar(128);not null;index:idx_grant_audit_target_created,priority:1"`
	Points     int64     `gorm:"not null"`
	TargetTag  string    `gorm:"type:varchar(256);not null;default:''"`
	Idempotent bool      `gorm:"not null;default:false"`
	CreatedAt  time.Time `gorm:"not null;index:idx_grant_audit_target_created,priority:2"`
}

// TableName 指定表名
func (GrantAuditModel) TableName() string {
	return "grant_audit"
}

// IdentityClaimsModel 自訂宣告模型
type IdentityClaimsModel struct {
	UID       string    `gorm:"column:uid;type:varchar(128);primaryKey"`
	Role      string    `gorm:"type:varchar(16);not null;default:''"`
	Admin     bool      `gorm:"not null;default:false"`
	Staff     bool      `gorm:"not null;default:false"`
	UpdatedAt time.Time `gorm:"not null"`
}

// TableName 指定表名
func (IdentityClaimsModel) TableName() string {
	return "identity_claims"
}

// allModels 遷移清單
func allModels() []interface{} {
	return []interface{}{
		&AccountModel{},
		&GrantAuditModel{},
		&IdentityClaimsModel{},
	}
}
