package access_test

import (
	"errors"
	"time"

	"github.com/jackyeh168/point_grant/src/internal/domain/points"
	"github.com/jackyeh168/point_grant/src/internal/domain/shared"
)

// ===========================
// Mock AccountRepository
// ===========================

type MockAccountRepository struct {
	accounts      map[string]*points.Account
	findErr       error
	findByIDCalls int
}

func NewMockAccountRepository() *MockAccountRepository {
	return &MockAccountRepository{accounts: make(map[string]*points.Account)}
}

func (m *MockAccountRepository) withRole(uid string, role points.Role) *MockAccountRepository {
	id, _ := points.AccountIDFromString(uid)
	account, _ := points.NewAccount(id, role, time.Now())
	m.accounts[uid] = account
	return m
}

func (m *MockAccountRepository) Save(_ shared.TransactionContext, account *points.Account) error {
	m.accounts[account.AccountID().String()] = account
	return nil
}

func (m *MockAccountRepository) FindByID(_ shared.TransactionContext, id points.AccountID) (*points.Account, error) {
	m.findByIDCalls++
	if m.findErr != nil {
		return nil, m.findErr
	}
	account, ok := m.accounts[id.String()]
	if !ok {
		return nil, points.ErrAccountNotFound
	}
	return account, nil
}

func (m *MockAccountRepository) ApplyGrant(shared.TransactionContext, points.AccountID, points.GrantAmount, time.Time) error {
	return errors.New("not used")
}

func (m *MockAccountRepository) UpsertRole(_ shared.TransactionContext, account *points.Account) error {
	m.accounts[account.AccountID().String()] = account
	return nil
}
