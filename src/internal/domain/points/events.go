package points

import (
	"time"

	"github.com/google/uuid"
)

// ===========================
// PointsGranted 領域事件
// ===========================

// PointsGrantedEvent 積分已發放事件
type PointsGrantedEvent struct {
	eventID    string
	accountID  AccountID
	auditID    AuditID
	issuer     AccountID
	amount     GrantAmount
	balance    Balance
	occurredAt time.Time
}

// NewPointsGrantedEvent 創建積分已發放事件
func NewPointsGrantedEvent(
	accountID AccountID,
	auditID AuditID,
	issuer AccountID,
	amount GrantAmount,
	balance Balance,
	occurredAt time.Time,
) *PointsGrantedEvent {
	return &PointsGrantedEvent{
		eventID:    uuid.New().String(),
		accountID:  accountID,
		auditID:    auditID,
		issuer:     issuer,
		amount:     amount,
		balance:    balance,
		occurredAt: occurredAt,
	}
}

// EventID 實現 DomainEvent 介面
func (e *PointsGrantedEvent) EventID() string {
	return e.eventID
}

// EventType 實現 DomainEvent 介面
func (e *PointsGrantedEvent) EventType() string {
	return "points.granted"
}

// OccurredAt 實現 DomainEvent 介面
func (e *PointsGrantedEvent) OccurredAt() time.Time {
	return e.occurredAt
}

// AggregateID 實現 DomainEvent 介面
func (e *PointsGrantedEvent) AggregateID() string {
	return e.accountID.String()
}

func (e *PointsGrantedEvent) AuditID() AuditID { return e.auditID }
func (e *PointsGrantedEvent) Issuer() AccountID { return e.issuer }
func (e *PointsGrantedEvent) Amount() GrantAmount { return e.amount }
func (e *PointsGrantedEvent) BalanceAfter() Balance { return e.balance }

// ===========================
// RoleAssigned 領域事件
// ===========================

// RoleAssignedEvent 角色已指派事件
type RoleAssignedEvent struct {
	eventID    string
	accountID  AccountID
	previous   Role
	role       Role
	occurredAt time.Time
}

// NewRoleAssignedEvent 創建角色已指派事件
func NewRoleAssignedEvent(accountID AccountID, previous, role Role, occurredAt time.Time) *RoleAssignedEvent {
	return &RoleAssignedEvent{
		eventID:    uuid.New().String(),
		accountID:  accountID,
		previous:   previous,
		role:       role,
		occurredAt: occurredAt,
	}
}

func (e *RoleAssignedEvent) EventID() string { return e.eventID }
func (e *RoleAssignedEvent) EventType() string { return "points.role_assigned" }
func (e *RoleAssignedEvent) OccurredAt() time.Time { return e.occurredAt }
func (e *RoleAssignedEvent) AggregateID() string { return e.accountID.String() }
func (e *RoleAssignedEvent) Previous() Role { return e.previous }
func (e *RoleAssignedEvent) Role() Role { return e.role }
