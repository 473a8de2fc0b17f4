package httpapi

import (
	"context"
	"errors"
	"sync"

	"github.com/jackyeh168/point_grant/src/internal/application/grant"
	pointsapp "github.com/jackyeh168/point_grant/src/internal/application/points"
	"github.com/jackyeh168/point_grant/src/internal/domain/access"
)

// MockGrantService 記錄收到的呼叫並返回預設結果
type MockGrantService struct {
	mu sync.Mutex

	grantCalls []grant.GrantPointsCommand
	claimCalls []grant.ClaimPointsCommand
	issuers    []*access.Issuer

	grantErr    error
	claimResult *grant.ClaimPointsResult
	claimErr    error
	auditView   *grant.AuditRecordView
	auditErr    error
	listViews   []*grant.AuditRecordView
	listLimit   int
	listTarget  string
}

func (m *MockGrantService) record(issuer *access.Issuer) error {
	m.issuers = append(m.issuers, issuer)
	if issuer == nil {
		return access.ErrUnauthenticated
	}
	return nil
}

func (m *MockGrantService) GrantPoints(_ context.Context, issuer *access.Issuer, cmd grant.GrantPointsCommand) (*grant.GrantPointsResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.grantCalls = append(m.grantCalls, cmd)
	if err := m.record(issuer); err != nil {
		return nil, err
	}
	if m.grantErr != nil {
		return nil, m.grantErr
	}
	return &grant.GrantPointsResult{Success: true, AuditID: "generated"}, nil
}

func (m *MockGrantService) ClaimPoints(_ context.Context, issuer *access.Issuer, cmd grant.ClaimPointsCommand) (*grant.ClaimPointsResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.claimCalls = append(m.claimCalls, cmd)
	if err := m.record(issuer); err != nil {
		return nil, err
	}
	if m.claimErr != nil {
		return nil, m.claimErr
	}
	return m.claimResult, nil
}

func (m *MockGrantService) GetAuditRecord(_ context.Context, issuer *access.Issuer, _ string) (*grant.AuditRecordView, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.record(issuer); err != nil {
		return nil, err
	}
	return m.auditView, m.auditErr
}

func (m *MockGrantService) ListTargetGrants(_ context.Context, issuer *access.Issuer, target string, limit int) ([]*grant.AuditRecordView, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.record(issuer); err != nil {
		return nil, err
	}
	m.listTarget = target
	m.listLimit = limit
	return m.listViews, nil
}

// stubVerifier 只接受 "good-token"
type stubVerifier struct{}

func (stubVerifier) Verify(token string) (*access.Issuer, error) {
	if token != "good-token" {
		return nil, errors.New("bad token")
	}
	return access.NewIssuer("teacher-1", access.RoleClaim{Role: "staff"})
}

// stubBalances 返回固定餘額或預設錯誤
type stubBalances struct {
	result *pointsapp.GetBalanceResult
	err    error
}

func (s stubBalances) Execute(_ context.Context, issuer *access.Issuer, query pointsapp.GetBalanceQuery) (*pointsapp.GetBalanceResult, error) {
	if issuer == nil {
		return nil, access.ErrUnauthenticated
	}
	if s.err != nil {
		return nil, s.err
	}
	result := *s.result
	result.UID = query.UID
	return &result, nil
}
