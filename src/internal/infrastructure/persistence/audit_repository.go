package persistence

import (
	"github.com/jackyeh168/point_grant/src/internal/domain/points"
	"github.com/jackyeh168/point_grant/src/internal/domain/shared"
	"gorm.io/gorm"
)

// ===========================
// GORM AuditTrail 實作
// ===========================

// GORMAuditTrail 發放審計記錄（只增不改）
type GORMAuditTrail struct {
	db *gorm.DB
}

// NewAuditTrail 創建審計記錄倉儲
func NewAuditTrail(db *gorm.DB) *GORMAuditTrail {
	return &GORMAuditTrail{db: db}
}

var _ points.AuditTrail = (*GORMAuditTrail)(nil)

// Exists 判斷冪等鍵是否已有記錄
func (r *GORMAuditTrail) Exists(tx shared.TransactionContext, auditID points.AuditID) (bool, error) {
	var count int64
	err := dbFrom(r.db, tx).
		Model(&GrantAuditModel{}).
		Where("id = ?", auditID.String()).
		Count(&count).Error
	if err != nil {
		return false, mapError(err, points.ErrAuditRecordNotFound, points.ErrAuditRecordExists,
			"audit_id", auditID.String())
	}
	return count > 0, nil
}

// FindByID 根據冪等鍵查找記錄
func (r *GORMAuditTrail) FindByID(tx shared.TransactionContext, auditID points.AuditID) (*points.GrantAuditRecord, error) {
	var model GrantAuditModel
	err := dbFrom(r.db, tx).First(&model, "id = ?", auditID.String()).Error
	if err != nil {
		return nil, mapError(err, points.ErrAuditRecordNotFound, points.ErrAuditRecordExists,
			"audit_id", auditID.String())
	}
	return auditToDomain(&model)
}

// Append 寫入新記錄
//
// 錯誤：ErrAuditRecordExists（主鍵衝突，即同一冪等鍵已生效）
func (r *GORMAuditTrail) Append(tx shared.TransactionContext, record *points.GrantAuditRecord) error {
	model := auditToModel(record)
	if err := dbFrom(r.db, tx).Create(model).Error; err != nil {
		return mapError(err, points.ErrAuditRecordNotFound, points.ErrAuditRecordExists,
			"audit_id", model.ID)
	}
	return nil
}

// FindByTarget 依建立時間倒序返回目標帳戶的記錄
func (r *GORMAuditTrail) FindByTarget(tx shared.TransactionContext, target points.AccountID, limit int) ([]*points.GrantAuditRecord, error) {
	var models []GrantAuditModel
	err := dbFrom(r.db, tx).
		Where("target = ?", target.String()).
		Order("created_at DESC").
		Order("id DESC").
		Limit(limit).
		Find(&models).Error
	if err != nil {
		return nil, mapError(err, points.ErrAuditRecordNotFound, points.ErrAuditRecordExists,
			"target", target.String())
	}

	records := make([]*points.GrantAuditRecord, 0, len(models))
	for i := range models {
		record, err := auditToDomain(&models[i])
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}
	return records, nil
}
