package admin

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
// AssignRole Use Case
// ===========================

// AssignRoleCommand 指派個人資料角色
//
// Role 為空時預設 staff。帳戶不存在時建立餘額為 0 的帳戶（合併寫入）。
type AssignRoleCommand struct {
	UID  string
	Role string
}

// AssignRoleResult 指派結果
type AssignRoleResult struct {
	UID      string
	Role     string
	Previous string
	Created  bool
}

// AssignRoleUseCase 指派角色 Use Case
type AssignRoleUseCase struct {
	accounts  points.AccountRepository
	txManager shared.TransactionManager
	publisher shared.EventPublisher
	logger    *slog.Logger
	clock     func() time.Time
}

// NewAssignRoleUseCase 創建 Use Case 實例；publisher 可為 nil，logger 為 nil 時使用 slog.Default()
func NewAssignRoleUseCase(
	accounts points.AccountRepository,
	txManager shared.TransactionManager,
	publisher shared.EventPublisher,
	logger *slog.Logger,
) *AssignRoleUseCase {
	if logger == nil {
		logger = slog.Default()
	}
	return &AssignRoleUseCase{
		accounts:  accounts,
		txManager: txManager,
		publisher: publisher,
		logger:    logger,
		clock:     func() time.Time { return time.Now().UTC() },
	}
}

// Execute 執行指派
func (uc *AssignRoleUseCase) Execute(ctx context.Context, cmd AssignRoleCommand) (*AssignRoleResult, error) {
	uid, err := points.AccountIDFromString(cmd.UID)
	if err != nil {
		return nil, fmt.Errorf("failed to parse uid: %w", err)
	}

	rawRole := cmd.Role
	if rawRole == "" {
		rawRole = string(points.RoleStaff)
	}
	role, err := points.ParseRole(rawRole)
	if err != nil {
		return nil, err
	}

	var (
		result *AssignRoleResult
		events []shared.DomainEvent
	)
	err = uc.txManager.InTransaction(ctx, func(tx shared.TransactionContext) error {
		now := uc.clock()
		created := false

		account, err := uc.accounts.FindByID(tx, uid)
		switch {
		case errors.Is(err, points.ErrAccountNotFound):
			account, err = points.NewAccount(uid, points.RoleNone, now)
			if err != nil {
				return err
			}
			created = true
		case err != nil:
			return fmt.Errorf("failed to load account: %w", err)
		}

		previous := account.Role()
		account.AssignRole(role, now)
		if err := uc.accounts.UpsertRole(tx, account); err != nil {
			return fmt.Errorf("failed to save role: %w", err)
		}

		events = account.PullEvents()
		result = &AssignRoleResult{
			UID:      uid.String(),
			Role:     role.String(),
			Previous: previous.String(),
			Created:  created,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if uc.publisher != nil && len(events) > 0 {
		// 角色已提交，發布失敗只記錄
		if err := uc.publisher.PublishBatch(ctx, events); err != nil {
			uc.logger.WarnContext(ctx, "role event publish failed",
				"event", "role_event_publish_failed",
				"module", "admin",
				"layer", "application",
				"uid", result.UID,
				"error", err.Error(),
			)
		}
	}
	return result, nil
}
