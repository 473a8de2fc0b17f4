package grant

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackyeh168/point_grant/src/internal/domain/access"
	"github.com/jackyeh168/point_grant/src/internal/domain/points"
	"github.com/jackyeh168/point_grant/src/internal/domain/shared"
)

// ===========================
// GrantService
// ===========================

// GrantService 兩種傳輸方式共用的發放能力
//
// issuer 為 nil 代表沒有可驗證的呼叫者身份。
type GrantService interface {
	GrantPoints(ctx context.Context, issuer *access.Issuer, cmd GrantPointsCommand) (*GrantPointsResult, error)
	ClaimPoints(ctx context.Context, issuer *access.Issuer, cmd ClaimPointsCommand) (*ClaimPointsResult, error)
	GetAuditRecord(ctx context.Context, issuer *access.Issuer, auditID string) (*AuditRecordView, error)
	ListTargetGrants(ctx context.Context, issuer *access.Issuer, targetUID string, limit int) ([]*AuditRecordView, error)
}

// Authorizer 權限檢查
type Authorizer interface {
	Authorize(ctx context.Context, issuer *access.Issuer) (points.Role, error)
}

const (
	DefaultListLimit = 50
	MaxListLimit     = 200
)

// Service 發放流程：驗證身份 → 權限 → 請求格式 → 事務
//
// 驗證身份與權限失敗時不會進入事務，也不會讀寫審計記錄。
type Service struct {
	gate        Authorizer
	validator   *GrantValidator
	transaction *IdempotentGrantTransaction
	audits      points.AuditTrail
	publisher   shared.EventPublisher
	logger      *slog.Logger
}

var _ GrantService = (*Service)(nil)

// NewService 建立發放服務；publisher 可為 nil
func NewService(
	gate Authorizer,
	validator *GrantValidator,
	transaction *IdempotentGrantTransaction,
	audits points.AuditTrail,
	publisher shared.EventPublisher,
	logger *slog.Logger,
) *Service {
	return &Service{
		gate:        gate,
		validator:   validator,
		transaction: transaction,
		audits:      audits,
		publisher:   publisher,
		logger:      resolveLogger(logger),
	}
}

// GrantPoints 簡單發放，重複呼叫會重複累加
func (s *Service) GrantPoints(ctx context.Context, issuer *access.Issuer, cmd GrantPointsCommand) (*GrantPointsResult, error) {
	if _, err := s.gate.Authorize(ctx, issuer); err != nil {
		return nil, err
	}
	g, err := s.validator.ValidateGrant(cmd)
	if err != nil {
		return nil, err
	}

	outcome, err := s.transaction.Apply(ctx, issuer.UID(), g)
	if err != nil {
		s.logFailure(ctx, "grant_points_failed", issuer, g, err)
		return nil, err
	}
	s.publish(ctx, outcome.Events)

	s.logger.InfoContext(ctx, "grant points completed",
		"event", "grant_points_completed",
		"module", "grant",
		"layer", "application",
		"issuer", issuer.UID().String(),
		"target", g.Target.String(),
		"points", g.Amount.Value(),
		"audit_id", outcome.AuditID.String(),
	)

	return &GrantPointsResult{Success: true, AuditID: outcome.AuditID.String()}, nil
}

// ClaimPoints 冪等發放
func (s *Service) ClaimPoints(ctx context.Context, issuer *access.Issuer, cmd ClaimPointsCommand) (*ClaimPointsResult, error) {
	if _, err := s.gate.Authorize(ctx, issuer); err != nil {
		return nil, err
	}
	g, err := s.validator.ValidateClaim(cmd)
	if err != nil {
		return nil, err
	}

	outcome, err := s.transaction.Apply(ctx, issuer.UID(), g)
	if err != nil {
		s.logFailure(ctx, "claim_points_failed", issuer, g, err)
		return nil, err
	}
	s.publish(ctx, outcome.Events)

	s.logger.InfoContext(ctx, "claim points completed",
		"event", "claim_points_completed",
		"module", "grant",
		"layer", "application",
		"issuer", issuer.UID().String(),
		"target", g.Target.String(),
		"points", g.Amount.Value(),
		"audit_id", outcome.AuditID.String(),
		"already_processed", outcome.AlreadyProcessed,
	)

	return &ClaimPointsResult{
		Success:              true,
		AlreadyProcessed:     outcome.AlreadyProcessed,
		AuditID:              outcome.AuditID.String(),
		NewPoints:            outcome.Balance.Points,
		TotalPointsObtained:  outcome.Balance.TotalPointsObtained,
		TotalPointsRemaining: outcome.Balance.TotalPointsRemaining,
	}, nil
}

// GetAuditRecord 查詢單筆審計記錄（staff / admin）
func (s *Service) GetAuditRecord(ctx context.Context, issuer *access.Issuer, auditID string) (*AuditRecordView, error) {
	if _, err := s.gate.Authorize(ctx, issuer); err != nil {
		return nil, err
	}
	id, err := points.AuditIDFromString(auditID)
	if err != nil {
		return nil, err
	}

	record, err := s.audits.FindByID(shared.Detached(ctx), id)
	if err != nil {
		return nil, fmt.Errorf("load audit record: %w", err)
	}
	return toView(record), nil
}

// ListTargetGrants 依時間倒序列出目標帳戶收到的發放（staff / admin）
func (s *Service) ListTargetGrants(ctx context.Context, issuer *access.Issuer, targetUID string, limit int) ([]*AuditRecordView, error) {
	if _, err := s.gate.Authorize(ctx, issuer); err != nil {
		return nil, err
	}
	target, err := s.validator.parseTarget("target", targetUID)
	if err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = DefaultListLimit
	}
	if limit > MaxListLimit {
		limit = MaxListLimit
	}

	records, err := s.audits.FindByTarget(shared.Detached(ctx), target, limit)
	if err != nil {
		return nil, fmt.Errorf("list audit records: %w", err)
	}
	views := make([]*AuditRecordView, 0, len(records))
	for _, record := range records {
		views = append(views, toView(record))
	}
	return views, nil
}

func (s *Service) publish(ctx context.Context, events []shared.DomainEvent) {
	if s.publisher == nil || len(events) == 0 {
		return
	}
	if err := s.publisher.PublishBatch(ctx, events); err != nil {
		s.logger.WarnContext(ctx, "grant event publish failed",
			"event", "grant_event_publish_failed",
			"module", "grant",
			"layer", "application",
			"error", err.Error(),
		)
	}
}

func (s *Service) logFailure(ctx context.Context, event string, issuer *access.Issuer, g *ValidatedGrant, err error) {
	level := slog.LevelWarn
	if shared.KindOf(err) == shared.KindInternal {
		level = slog.LevelError
	}
	s.logger.Log(ctx, level, "grant transaction failed",
		"event", event,
		"module", "grant",
		"layer", "application",
		"issuer", issuer.UID().String(),
		"target", g.Target.String(),
		"audit_id", g.AuditID.String(),
		"error", err.Error(),
	)
}

func toView(record *points.GrantAuditRecord) *AuditRecordView {
	return &AuditRecordView{
		AuditID:    record.AuditID().String(),
		Issuer:     record.Issuer().String(),
		Target:     record.Target().String(),
		Points:     record.Points().Value(),
		TargetID:   record.TargetTag(),
		Idempotent: record.Idempotent(),
		CreatedAt:  record.CreatedAt(),
	}
}
