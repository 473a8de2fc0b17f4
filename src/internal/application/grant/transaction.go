package grant

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackyeh168/point_grant/src/internal/domain/points"
	"github.com/jackyeh168/point_grant/src/internal/domain/shared"
)

// ===========================
// IdempotentGrantTransaction
// ===========================

// GrantOutcome 事務結果
type GrantOutcome struct {
	AuditID          points.AuditID
	AlreadyProcessed bool
	Balance          points.Balance
	Events           []shared.DomainEvent
}

// IdempotentGrantTransaction 在單一事務中讀寫審計記錄與餘額
//
// 同一審計 ID 最多生效一次：審計記錄的主鍵是唯一性的最終保證，
// 事務隔離保證記錄與餘額一起提交或一起回滾。
type IdempotentGrantTransaction struct {
	accounts  points.AccountRepository
	audits    points.AuditTrail
	txManager shared.TransactionManager
	clock     func() time.Time
	logger    *slog.Logger
}

// NewIdempotentGrantTransaction 建立事務單元
func NewIdempotentGrantTransaction(
	accounts points.AccountRepository,
	audits points.AuditTrail,
	txManager shared.TransactionManager,
	clock func() time.Time,
	logger *slog.Logger,
) *IdempotentGrantTransaction {
	if clock == nil {
		clock = func() time.Time { return time.Now().UTC() }
	}
	return &IdempotentGrantTransaction{
		accounts:  accounts,
		audits:    audits,
		txManager: txManager,
		clock:     clock,
		logger:    resolveLogger(logger),
	}
}

// Apply 套用發放
//
// 冪等請求：記錄已存在時只讀取目前餘額並返回 AlreadyProcessed。
// 簡單請求：不檢查既有記錄，每次都是新的審計 ID。
//
// 並發的重複請求中，較晚提交的一方在寫入審計記錄時得到
// ErrAuditRecordExists，整個事務回滾；此時在新的事務中重讀勝出者的結果。
func (t *IdempotentGrantTransaction) Apply(ctx context.Context, issuer points.AccountID, g *ValidatedGrant) (*GrantOutcome, error) {
	var outcome *GrantOutcome
	err := t.txManager.InTransaction(ctx, func(tx shared.TransactionContext) error {
		if g.Idempotent {
			replayed, found, err := t.replay(tx, g)
			if err != nil {
				return err
			}
			if found {
				outcome = replayed
				return nil
			}
		}

		applied, err := t.apply(tx, issuer, g)
		if err != nil {
			return err
		}
		outcome = applied
		return nil
	})
	if err == nil {
		return outcome, nil
	}

	if !g.Idempotent || !errors.Is(err, points.ErrAuditRecordExists) {
		return nil, err
	}

	t.logger.Info("grant lost race, replaying winner",
		"event", "grant_claim_conflict_replay",
		"module", "grant",
		"layer", "application",
		"audit_id", g.AuditID.String(),
	)

	outcome = nil
	err = t.txManager.InTransaction(ctx, func(tx shared.TransactionContext) error {
		replayed, found, err := t.replay(tx, g)
		if err != nil {
			return err
		}
		if !found {
			return ErrReplayMissing.WithContext("auditID", g.AuditID.String())
		}
		outcome = replayed
		return nil
	})
	if err != nil {
		return nil, err
	}
	return outcome, nil
}

// replay 讀取既有記錄與目標帳戶目前的餘額（不寫入）
func (t *IdempotentGrantTransaction) replay(tx shared.TransactionContext, g *ValidatedGrant) (*GrantOutcome, bool, error) {
	exists, err := t.audits.Exists(tx, g.AuditID)
	if err != nil {
		return nil, false, fmt.Errorf("check audit record: %w", err)
	}
	if !exists {
		return nil, false, nil
	}

	record, err := t.audits.FindByID(tx, g.AuditID)
	if err != nil {
		return nil, false, fmt.Errorf("load audit record: %w", err)
	}

	if !record.Matches(g.Target, g.Amount) {
		t.logger.Warn("grant replay payload differs from recorded grant",
			"event", "grant_claim_replay_mismatch",
			"module", "grant",
			"layer", "application",
			"audit_id", g.AuditID.String(),
			"recorded_target", record.Target().String(),
			"recorded_points", record.Points().Value(),
			"requested_target", g.Target.String(),
			"requested_points", g.Amount.Value(),
		)
	}

	account, err := t.accounts.FindByID(tx, record.Target())
	if err != nil {
		return nil, false, fmt.Errorf("load replay target: %w", err)
	}

	return &GrantOutcome{
		AuditID:          record.AuditID(),
		AlreadyProcessed: true,
		Balance:          account.Balance(),
	}, true, nil
}

// apply 寫入審計記錄並累加餘額
func (t *IdempotentGrantTransaction) apply(tx shared.TransactionContext, issuer points.AccountID, g *ValidatedGrant) (*GrantOutcome, error) {
	account, err := t.accounts.FindByID(tx, g.Target)
	if err != nil {
		return nil, fmt.Errorf("load grant target: %w", err)
	}

	now := t.clock()
	if err := account.Grant(g.Amount, g.AuditID, issuer, now); err != nil {
		return nil, fmt.Errorf("grant points: %w", err)
	}

	record, err := points.NewGrantAuditRecord(g.AuditID, issuer, g.Target, g.Amount, g.TargetTag, g.Idempotent, now)
	if err != nil {
		return nil, fmt.Errorf("build audit record: %w", err)
	}
	if err := t.audits.Append(tx, record); err != nil {
		return nil, fmt.Errorf("append audit record: %w", err)
	}

	if err := t.accounts.ApplyGrant(tx, g.Target, g.Amount, now); err != nil {
		return nil, fmt.Errorf("apply grant: %w", err)
	}

	updated, err := t.accounts.FindByID(tx, g.Target)
	if err != nil {
		return nil, fmt.Errorf("reload grant target: %w", err)
	}

	return &GrantOutcome{
		AuditID:          g.AuditID,
		AlreadyProcessed: false,
		Balance:          updated.Balance(),
		Events:           account.PullEvents(),
	}, nil
}

func resolveLogger(logger *slog.Logger) *slog.Logger {
	if logger == nil {
		return slog.Default()
	}
	return logger
}
