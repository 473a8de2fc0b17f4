package persistence

import (
	"github.com/jackyeh168/point_grant/src/internal/domain/points"
)

// ===========================
// Domain ↔ GORM Model 轉換函數
// ===========================

// accountToDomain 將 AccountModel 轉換為聚合根
//
// 資料庫中的資料也要驗證：ID 格式錯誤、未知角色或負數餘額都返回
// ErrCorruptedAccount，不會 panic。
func accountToDomain(model *AccountModel) (*points.Account, error) {
	accountID, err := points.AccountIDFromString(model.ID)
	if err != nil {
		return nil, points.ErrCorruptedAccount.WithContext(
			"id", model.ID,
			"reason", "invalid account id in database",
		)
	}

	role, err := points.ParseRole(model.Role)
	if err != nil {
		return nil, points.ErrCorruptedAccount.WithContext(
			"id", model.ID,
			"role", model.Role,
			"reason", "unknown role in database",
		)
	}

	return points.ReconstructAccount(
		accountID,
		role,
		model.Points,
		model.TotalPointsObtained,
		model.TotalPointsRemaining,
		model.CreatedAt,
		model.UpdatedAt,
	)
}

// accountToModel 將聚合根轉換為 AccountModel
func accountToModel(account *points.Account) *AccountModel {
	balance := account.Balance()
	return &AccountModel{
		ID:                   account.AccountID().String(),
		Role:                 account.Role().String(),
		Points:               balance.Points,
		TotalPointsObtained:  balance.TotalPointsObtained,
		TotalPointsRemaining: balance.TotalPointsRemaining,
		CreatedAt:            account.CreatedAt(),
		UpdatedAt:            account.UpdatedAt(),
	}
}

// auditToDomain 將 GrantAuditModel 轉換為審計記錄
func auditToDomain(model *GrantAuditModel) (*points.GrantAuditRecord, error) {
	auditID, err := points.AuditIDFromString(model.ID)
	if err != nil {
		return nil, points.ErrCorruptedAuditRecord.WithContext("id", model.ID, "field", "id")
	}
	issuer, err := points.AccountIDFromString(model.Issuer)
	if err != nil {
		return nil, points.ErrCorruptedAuditRecord.WithContext("id", model.ID, "field", "issuer")
	}
	target, err := points.AccountIDFromString(model.Target)
	if err != nil {
		return nil, points.ErrCorruptedAuditRecord.WithContext("id", model.ID, "field", "target")
	}

	return points.ReconstructGrantAuditRecord(
		auditID,
		issuer,
		target,
		model.Points,
		model.TargetTag,
		model.Idempotent,
		model.CreatedAt,
	)
}

// auditToModel 將審計記錄轉換為 GrantAuditModel
func auditToModel(record *points.GrantAuditRecord) *GrantAuditModel {
	return &GrantAuditModel{
		ID:         record.AuditID().String(),
		Issuer:     record.Issuer().String(),
		Target:     record.Target().String(),
		Points:     record.Points().Value(),
		TargetTag:  record.TargetTag(),
		Idempotent: record.Idempotent(),
		CreatedAt:  record.CreatedAt(),
	}
}
