package persistence

import (
	"time"

	"github.com/jackyeh168/point_grant/src/internal/domain/points"
	"github.com/jackyeh168/point_grant/src/internal/domain/shared"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ===========================
// GORM AccountRepository 實作
// ===========================

// GORMAccountRepository GORM 實作的帳戶倉儲
//
// 職責：Domain ↔ GORM 轉換與錯誤映射，不包含業務邏輯。
type GORMAccountRepository struct {
	db *gorm.DB
}

// NewAccountRepository 創建 GORM Repository 實例
func NewAccountRepository(db *gorm.DB) *GORMAccountRepository {
	return &GORMAccountRepository{db: db}
}

var _ points.AccountRepository = (*GORMAccountRepository)(nil)

// Save 保存新的帳戶
//
// 錯誤：ErrAccountAlreadyExists（主鍵衝突）
func (r *GORMAccountRepository) Save(tx shared.TransactionContext, account *points.Account) error {
	model := accountToModel(account)
	if err := dbFrom(r.db, tx).Create(model).Error; err != nil {
		return mapError(err, points.ErrAccountNotFound, points.ErrAccountAlreadyExists,
			"account_id", model.ID)
	}
	return nil
}

// FindByID 根據帳戶 ID 查找帳戶
func (r *GORMAccountRepository) FindByID(tx shared.TransactionContext, accountID points.AccountID) (*points.Account, error) {
	var model AccountModel
	err := dbFrom(r.db, tx).First(&model, "id = ?", accountID.String()).Error
	if err != nil {
		return nil, mapError(err, points.ErrAccountNotFound, points.ErrAccountAlreadyExists,
			"account_id", accountID.String())
	}
	return accountToDomain(&model)
}

// ApplyGrant 以欄位遞增更新三個餘額欄位
//
// 單一 UPDATE 完成累加與存在性檢查：RowsAffected = 0 代表帳戶不存在。
// 不寫入 role、created_at 等其他欄位。
func (r *GORMAccountRepository) ApplyGrant(
	tx shared.TransactionContext,
	accountID points.AccountID,
	amount points.GrantAmount,
	at time.Time,
) error {
	delta := amount.Value()
	result := dbFrom(r.db, tx).
		Model(&AccountModel{}).
		Where("id = ?", accountID.String()).
		Updates(map[string]interface{}{
			"points":                 gorm.Expr("points + ?", delta),
			"total_points_obtained":  gorm.Expr("total_points_obtained + ?", delta),
			"total_points_remaining": gorm.Expr("total_points_remaining + ?", delta),
			"updated_at":             at,
		})

	if result.Error != nil {
		return mapError(result.Error, points.ErrAccountNotFound, points.ErrAccountAlreadyExists,
			"account_id", accountID.String())
	}
	if result.RowsAffected == 0 {
		return points.ErrAccountNotFound.WithContext(
			"account_id", accountID.String(),
			"reason", "account does not exist in database",
		)
	}
	return nil
}

// UpsertRole 設定角色；帳戶不存在時以零餘額建立
//
// 衝突時只更新 role 與 updated_at，既有餘額保持不變。
func (r *GORMAccountRepository) UpsertRole(tx shared.TransactionContext, account *points.Account) error {
	model := accountToModel(account)
	err := dbFrom(r.db, tx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"role":       model.Role,
			"updated_at": model.UpdatedAt,
		}),
	}).Create(model).Error
	if err != nil {
		return mapError(err, points.ErrAccountNotFound, points.ErrAccountAlreadyExists,
			"account_id", model.ID)
	}
	return nil
}
