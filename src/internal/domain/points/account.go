package points

import (
	"time"

	"github.com/jackyeh168/point_grant/src/internal/domain/shared"
)

// ===========================
// Account 聚合根
// ===========================

// Account 帳戶聚合根
//
// 帳戶由外部身份／個人資料系統建立，本系統只修改三個餘額欄位與 updatedAt，
// 以及管理工具指派的角色。
//
// 不變條件：
// - points、totalPointsObtained、totalPointsRemaining 皆 >= 0
// - totalPointsObtained 永不減少
type Account struct {
	accountID AccountID
	role      Role

	points               PointsAmount
	totalPointsObtained  PointsAmount
	totalPointsRemaining PointsAmount

	createdAt time.Time
	updatedAt time.Time

	events []shared.DomainEvent
}

// NewAccount 建立新的帳戶（餘額為 0）
func NewAccount(accountID AccountID, role Role, at time.Time) (*Account, error) {
	if accountID.IsEmpty() {
		return nil, ErrInvalidAccountID.WithContext(
			"reason", "accountID cannot be empty",
		)
	}

	return &Account{
		accountID:            accountID,
		role:                 role,
		points:               newPointsAmountUnchecked(0),
		totalPointsObtained:  newPointsAmountUnchecked(0),
		totalPointsRemaining: newPointsAmountUnchecked(0),
		createdAt:            at,
		updatedAt:            at,
		events:               make([]shared.DomainEvent, 0),
	}, nil
}

// ===========================
// 查詢方法（Getters）
// ===========================

// AccountID 獲取帳戶 ID
func (a *Account) AccountID() AccountID {
	return a.accountID
}

// Role 獲取角色
func (a *Account) Role() Role {
	return a.role
}

// Points 獲取目前積分
func (a *Account) Points() PointsAmount {
	return a.points
}

// TotalPointsObtained 獲取累積獲得積分
func (a *Account) TotalPointsObtained() PointsAmount {
	return a.totalPointsObtained
}

// TotalPointsRemaining 獲取剩餘積分
func (a *Account) TotalPointsRemaining() PointsAmount {
	return a.totalPointsRemaining
}

// Balance 返回餘額快照
func (a *Account) Balance() Balance {
	return Balance{
		Points:               a.points.Value(),
		TotalPointsObtained:  a.totalPointsObtained.Value(),
		TotalPointsRemaining: a.totalPointsRemaining.Value(),
	}
}

// CreatedAt 獲取創建時間
func (a *Account) CreatedAt() time.Time {
	return a.createdAt
}

// UpdatedAt 獲取最後更新時間
func (a *Account) UpdatedAt() time.Time {
	return a.updatedAt
}

// ===========================
// 事件管理
// ===========================

func (a *Account) addEvent(event shared.DomainEvent) {
	a.events = append(a.events, event)
}

// PullEvents 獲取所有待發布事件並清空列表
func (a *Account) PullEvents() []shared.DomainEvent {
	events := a.events
	a.events = make([]shared.DomainEvent, 0)
	return events
}

// ===========================
// 命令方法（狀態變更）
// ===========================

// Grant 發放積分
//
// 三個餘額欄位都加上 amount。totalPointsRemaining 目前與 points 同步增加，
// 而不是在消費時遞減；這個語義尚待產品確認，修改前必須同步調整
// AccountRepository.ApplyGrant。
//
// 任一欄位溢位時返回錯誤，帳戶狀態不變。
func (a *Account) Grant(amount GrantAmount, auditID AuditID, issuer AccountID, at time.Time) error {
	delta := amount.Points()

	newPoints, err := a.points.Add(delta)
	if err != nil {
		return err
	}
	newObtained, err := a.totalPointsObtained.Add(delta)
	if err != nil {
		return err
	}
	newRemaining, err := a.totalPointsRemaining.Add(delta)
	if err != nil {
		return err
	}

	a.points = newPoints
	a.totalPointsObtained = newObtained
	a.totalPointsRemaining = newRemaining
	a.updatedAt = at

	a.addEvent(NewPointsGrantedEvent(a.accountID, auditID, issuer, amount, a.Balance(), at))

	return nil
}

// AssignRole 指派角色（管理工具使用）
func (a *Account) AssignRole(role Role, at time.Time) {
	if a.role == role {
		return
	}
	previous := a.role
	a.role = role
	a.updatedAt = at
	a.addEvent(NewRoleAssignedEvent(a.accountID, previous, role, at))
}

// ===========================
// 聚合重建方法（僅供 Infrastructure Layer 使用）
// ===========================

// ReconstructAccount 從持久化存儲重建聚合根，不發布事件
//
// 即使是從資料庫重建，也驗證不變條件，防止損壞資料進入領域層。
func ReconstructAccount(
	accountID AccountID,
	role Role,
	points int64,
	totalPointsObtained int64,
	totalPointsRemaining int64,
	createdAt time.Time,
	updatedAt time.Time,
) (*Account, error) {
	if accountID.IsEmpty() {
		return nil, ErrInvalidAccountID.WithContext(
			"reason", "invalid account ID in database",
		)
	}

	values := []struct {
		field string
		value int64
	}{
		{"points", points},
		{"totalPointsObtained", totalPointsObtained},
		{"totalPointsRemaining", totalPointsRemaining},
	}
	for _, v := range values {
		if v.value < 0 {
			return nil, ErrCorruptedAccount.WithContext(
				"accountID", accountID.String(),
				"field", v.field,
				"value", v.value,
			)
		}
	}

	return &Account{
		accountID:            accountID,
		role:                 role,
		points:               newPointsAmountUnchecked(points),
		totalPointsObtained:  newPointsAmountUnchecked(totalPointsObtained),
		totalPointsRemaining: newPointsAmountUnchecked(totalPointsRemaining),
		createdAt:            createdAt,
		updatedAt:            updatedAt,
		events:               make([]shared.DomainEvent, 0),
	}, nil
}
