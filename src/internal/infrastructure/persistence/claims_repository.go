package persistence

import (
	"errors"
	"time"

	"github.com/jackyeh168/point_grant/src/internal/domain/access"
	"github.com/jackyeh168/point_grant/src/internal/domain/points"
	"github.com/jackyeh168/point_grant/src/internal/domain/shared"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GORMClaimStore 自訂宣告儲存
type GORMClaimStore struct {
	db    *gorm.DB
	clock func() time.Time
}

// NewClaimStore 創建宣告儲存
func NewClaimStore(db *gorm.DB) *GORMClaimStore {
	return &GORMClaimStore{db: db, clock: func() time.Time { return time.Now().UTC() }}
}

var _ access.ClaimStore = (*GORMClaimStore)(nil)

// Get 返回宣告；沒有記錄時返回零值
func (s *GORMClaimStore) Get(tx shared.TransactionContext, uid points.AccountID) (access.RoleClaim, error) {
	var model IdentityClaimsModel
	err := dbFrom(s.db, tx).First(&model, "uid = ?", uid.String()).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return access.RoleClaim{}, nil
	}
	if err != nil {
		return access.RoleClaim{}, access.ErrClaimStoreFailure.WithContext(
			"uid", uid.String(),
			"database_error", err.Error(),
		)
	}
	return access.RoleClaim{Role: model.Role, Admin: model.Admin, Staff: model.Staff}, nil
}

// Set 覆寫宣告
func (s *GORMClaimStore) Set(tx shared.TransactionContext, uid points.AccountID, claim access.RoleClaim) error {
	model := &IdentityClaimsModel{
		UID:       uid.String(),
		Role:      claim.Role,
		Admin:     claim.Admin,
		Staff:     claim.Staff,
		UpdatedAt: s.clock(),
	}
	err := dbFrom(s.db, tx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "uid"}},
		DoUpdates: clause.AssignmentColumns([]string{"role", "admin", "staff", "updated_at"}),
	}).Create(model).Error
	if err != nil {
		return access.ErrClaimStoreFailure.WithContext(
			"uid", uid.String(),
			"database_error", err.Error(),
		)
	}
	return nil
}

// Remove 清除宣告
func (s *GORMClaimStore) Remove(tx shared.TransactionContext, uid points.AccountID) error {
	err := dbFrom(s.db, tx).Where("uid = ?", uid.String()).Delete(&IdentityClaimsModel{}).Error
	if err != nil {
		return access.ErrClaimStoreFailure.WithContext(
			"uid", uid.String(),
			"database_error", err.Error(),
		)
	}
	return nil
}
