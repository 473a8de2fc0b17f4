package points

import (
	"time"
	"unicode/utf8"
)

// MaxTargetTagLength 關聯標籤（targetId）的最大字元數
const MaxTargetTagLength = 256

// ===========================
// GrantAuditRecord 審計記錄
// ===========================

// GrantAuditRecord 發放審計記錄
//
// 每筆生效的發放恰好有一筆記錄，建立後不可修改。
// 記錄 ID 同時是冪等鍵：同一 ID 的記錄存在即代表該次發放已經生效。
type GrantAuditRecord struct {
	auditID    AuditID
	issuer     AccountID
	target     AccountID
	points     GrantAmount
	targetTag  string
	idempotent bool
	createdAt  time.Time
}

// NewGrantAuditRecord 建立審計記錄
func NewGrantAuditRecord(
	auditID AuditID,
	issuer AccountID,
	target AccountID,
	points GrantAmount,
	targetTag string,
	idempotent bool,
	createdAt time.Time,
) (*GrantAuditRecord, error) {
	if auditID.IsEmpty() {
		return nil, ErrInvalidAuditID.WithContext("reason", "auditID cannot be empty")
	}
	if issuer.IsEmpty() {
		return nil, ErrInvalidAccountID.WithContext("field", "issuer")
	}
	if target.IsEmpty() {
		return nil, ErrInvalidAccountID.WithContext("field", "target")
	}
	if utf8.RuneCountInString(targetTag) > MaxTargetTagLength {
		return nil, ErrInvalidTargetTag.WithContext(
			"field", "targetId",
			"max", MaxTargetTagLength,
		)
	}

	return &GrantAuditRecord{
		auditID:    auditID,
		issuer:     issuer,
		target:     target,
		points:     points,
		targetTag:  targetTag,
		idempotent: idempotent,
		createdAt:  createdAt,
	}, nil
}

// ReconstructGrantAuditRecord 從持久化存儲重建審計記錄
func ReconstructGrantAuditRecord(
	auditID AuditID,
	issuer AccountID,
	target AccountID,
	points int64,
	targetTag string,
	idempotent bool,
	createdAt time.Time,
) (*GrantAuditRecord, error) {
	amount, err := NewGrantAmount(points)
	if err != nil {
		return nil, ErrCorruptedAuditRecord.WithContext(
			"auditID", auditID.String(),
			"points", points,
		)
	}
	return NewGrantAuditRecord(auditID, issuer, target, amount, targetTag, idempotent, createdAt)
}

func (r *GrantAuditRecord) AuditID() AuditID { return r.auditID }
func (r *GrantAuditRecord) Issuer() AccountID { return r.issuer }
func (r *GrantAuditRecord) Target() AccountID { return r.target }
func (r *GrantAuditRecord) Points() GrantAmount { return r.points }
func (r *GrantAuditRecord) TargetTag() string { return r.targetTag }
func (r *GrantAuditRecord) Idempotent() bool { return r.idempotent }
func (r *GrantAuditRecord) CreatedAt() time.Time { return r.createdAt }

// Matches 判斷重送的請求內容是否與已記錄的發放一致
func (r *GrantAuditRecord) Matches(target AccountID, points GrantAmount) bool {
	return r.target.Equals(target) && r.points.Value() == points.Value()
}
