package grant

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/jackyeh168/point_grant/src/internal/domain/access"
	"github.com/jackyeh168/point_grant/src/internal/domain/points"
	"github.com/jackyeh168/point_grant/src/internal/domain/shared"
)

// ===========================
// 記憶體儲存（支援回滾）
// ===========================

type accountRow struct {
	role                 points.Role
	points               int64
	obtained             int64
	remaining            int64
	createdAt, updatedAt time.Time
}

type auditRow struct {
	issuer, target string
	points         int64
	tag            string
	idempotent     bool
	createdAt      time.Time
}

type memoryStore struct {
	mu       sync.Mutex
	accounts map[string]accountRow
	audits   map[string]auditRow
}

func newMemoryStore() *memoryStore {
	return &memoryStore{
		accounts: make(map[string]accountRow),
		audits:   make(map[string]auditRow),
	}
}

func (s *memoryStore) seedAccount(uid string, role points.Role, balance int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	s.accounts[uid] = accountRow{role: role, points: balance, obtained: balance, remaining: balance, createdAt: now, updatedAt: now}
}

func (s *memoryStore) balance(uid string) points.Balance {
	s.mu.Lock()
	defer s.mu.Unlock()
	row := s.accounts[uid]
	return points.Balance{Points: row.points, TotalPointsObtained: row.obtained, TotalPointsRemaining: row.remaining}
}

func (s *memoryStore) auditCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.audits)
}

func (s *memoryStore) snapshot() (map[string]accountRow, map[string]auditRow) {
	s.mu.Lock()
	defer s.mu.Unlock()
	accounts := make(map[string]accountRow, len(s.accounts))
	for k, v := range s.accounts {
		accounts[k] = v
	}
	audits := make(map[string]auditRow, len(s.audits))
	for k, v := range s.audits {
		audits[k] = v
	}
	return accounts, audits
}

func (s *memoryStore) restore(accounts map[string]accountRow, audits map[string]auditRow) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.accounts = accounts
	s.audits = audits
}

// ===========================
// Mock TransactionManager
// ===========================

// MockTransactionManager 序列化所有事務，fn 返回錯誤時回滾記憶體儲存
type MockTransactionManager struct {
	store                  *memoryStore
	txMu                   sync.Mutex
	mu                     sync.Mutex
	InTransactionCallCount int
}

func NewMockTransactionManager(store *memoryStore) *MockTransactionManager {
	return &MockTransactionManager{store: store}
}

type mockTxContext struct {
	ctx context.Context
}

func (m mockTxContext) Context() context.Context { return m.ctx }

func (m *MockTransactionManager) InTransaction(ctx context.Context, fn func(tx shared.TransactionContext) error) error {
	m.mu.Lock()
	m.InTransactionCallCount++
	m.mu.Unlock()

	m.txMu.Lock()
	defer m.txMu.Unlock()

	accounts, audits := m.store.snapshot()
	if err := fn(mockTxContext{ctx: ctx}); err != nil {
		m.store.restore(accounts, audits)
		return err
	}
	return nil
}

func (m *MockTransactionManager) calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.InTransactionCallCount
}

// ===========================
// Mock AccountRepository
// ===========================

type MockAccountRepository struct {
	store         *memoryStore
	applyGrantErr error
}

func (m *MockAccountRepository) Save(_ shared.TransactionContext, account *points.Account) error {
	m.store.mu.Lock()
	defer m.store.mu.Unlock()
	id := account.AccountID().String()
	if _, ok := m.store.accounts[id]; ok {
		return points.ErrAccountAlreadyExists
	}
	b := account.Balance()
	m.store.accounts[id] = accountRow{role: account.Role(), points: b.Points, obtained: b.TotalPointsObtained, remaining: b.TotalPointsRemaining, createdAt: account.CreatedAt(), updatedAt: account.UpdatedAt()}
	return nil
}

func (m *MockAccountRepository) FindByID(_ shared.TransactionContext, id points.AccountID) (*points.Account, error) {
	m.store.mu.Lock()
	row, ok := m.store.accounts[id.String()]
	m.store.mu.Unlock()
	if !ok {
		return nil, points.ErrAccountNotFound.WithContext("accountID", id.String())
	}
	return points.ReconstructAccount(id, row.role, row.points, row.obtained, row.remaining, row.createdAt, row.updatedAt)
}

func (m *MockAccountRepository) ApplyGrant(_ shared.TransactionContext, id points.AccountID, amount points.GrantAmount, at time.Time) error {
	if m.applyGrantErr != nil {
		return m.applyGrantErr
	}
	m.store.mu.Lock()
	defer m.store.mu.Unlock()
	row, ok := m.store.accounts[id.String()]
	if !ok {
		return points.ErrAccountNotFound
	}
	row.points += amount.Value()
	row.obtained += amount.Value()
	row.remaining += amount.Value()
	row.updatedAt = at
	m.store.accounts[id.String()] = row
	return nil
}

func (m *MockAccountRepository) UpsertRole(_ shared.TransactionContext, account *points.Account) error {
	return errors.New("not used")
}

// ===========================
// Mock AuditTrail
// ===========================

type MockAuditTrail struct {
	store *memoryStore
}

func (m *MockAuditTrail) Exists(_ shared.TransactionContext, id points.AuditID) (bool, error) {
	m.store.mu.Lock()
	defer m.store.mu.Unlock()
	_, ok := m.store.audits[id.String()]
	return ok, nil
}

func (m *MockAuditTrail) FindByID(_ shared.TransactionContext, id points.AuditID) (*points.GrantAuditRecord, error) {
	m.store.mu.Lock()
	row, ok := m.store.audits[id.String()]
	m.store.mu.Unlock()
	if !ok {
		return nil, points.ErrAuditRecordNotFound
	}
	return toRecord(id.String(), row)
}

func (m *MockAuditTrail) Append(_ shared.TransactionContext, record *points.GrantAuditRecord) error {
	m.store.mu.Lock()
	defer m.store.mu.Unlock()
	id := record.AuditID().String()
	if _, ok := m.store.audits[id]; ok {
		return points.ErrAuditRecordExists.WithContext("auditID", id)
	}
	m.store.audits[id] = auditRow{
		issuer:     record.Issuer().String(),
		target:     record.Target().String(),
		points:     record.Points().Value(),
		tag:        record.TargetTag(),
		idempotent: record.Idempotent(),
		createdAt:  record.CreatedAt(),
	}
	return nil
}

func (m *MockAuditTrail) FindByTarget(_ shared.TransactionContext, target points.AccountID, limit int) ([]*points.GrantAuditRecord, error) {
	m.store.mu.Lock()
	type pair struct {
		id  string
		row auditRow
	}
	var rows []pair
	for id, row := range m.store.audits {
		if row.target == target.String() {
			rows = append(rows, pair{id, row})
		}
	}
	m.store.mu.Unlock()

	sort.Slice(rows, func(i, j int) bool { return rows[i].row.createdAt.After(rows[j].row.createdAt) })
	if len(rows) > limit {
		rows = rows[:limit]
	}
	records := make([]*points.GrantAuditRecord, 0, len(rows))
	for _, p := range rows {
		record, err := toRecord(p.id, p.row)
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}
	return records, nil
}

func toRecord(id string, row auditRow) (*points.GrantAuditRecord, error) {
	auditID, _ := points.AuditIDFromString(id)
	issuer, _ := points.AccountIDFromString(row.issuer)
	target, _ := points.AccountIDFromString(row.target)
	return points.ReconstructGrantAuditRecord(auditID, issuer, target, row.points, row.tag, row.idempotent, row.createdAt)
}

// staleExistsAuditTrail 第一次 Exists 返回 false，模擬並發的勝出者在檢查後才提交
type staleExistsAuditTrail struct {
	*MockAuditTrail
	mu    sync.Mutex
	stale bool
}

func (m *staleExistsAuditTrail) Exists(tx shared.TransactionContext, id points.AuditID) (bool, error) {
	m.mu.Lock()
	stale := m.stale
	m.stale = false
	m.mu.Unlock()
	if stale {
		return false, nil
	}
	return m.MockAuditTrail.Exists(tx, id)
}

// ===========================
// Mock Authorizer / Publisher
// ===========================

type stubAuthorizer struct {
	err error
}

func (s *stubAuthorizer) Authorize(_ context.Context, issuer *access.Issuer) (points.Role, error) {
	if issuer == nil {
		return points.RoleNone, access.ErrUnauthenticated
	}
	if s.err != nil {
		return points.RoleNone, s.err
	}
	return points.RoleAdmin, nil
}

type MockEventPublisher struct {
	mu        sync.Mutex
	published []shared.DomainEvent
	err       error
}

func (m *MockEventPublisher) Publish(ctx context.Context, event shared.DomainEvent) error {
	return m.PublishBatch(ctx, []shared.DomainEvent{event})
}

func (m *MockEventPublisher) PublishBatch(_ context.Context, events []shared.DomainEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.published = append(m.published, events...)
	return m.err
}

func (m *MockEventPublisher) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.published)
}
