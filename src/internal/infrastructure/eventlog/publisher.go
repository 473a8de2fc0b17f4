package eventlog

import (
	"context"
	"log/slog"

	"github.com/jackyeh168/point_grant/src/internal/domain/points"
	"github.com/jackyeh168/point_grant/src/internal/domain/shared"
)

// Publisher 把領域事件寫入結構化日誌
//
// 事件在事務提交後才到達這裡；下游系統以日誌管線消費。
type Publisher struct {
	logger *slog.Logger
}

// NewPublisher 建立事件發布器
func NewPublisher(logger *slog.Logger) *Publisher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Publisher{logger: logger}
}

var _ shared.EventPublisher = (*Publisher)(nil)

// Publish 實現 shared.EventPublisher
func (p *Publisher) Publish(ctx context.Context, event shared.DomainEvent) error {
	if event == nil {
		return nil
	}
	attrs := []any{
		"event", "domain_event_published",
		"module", "eventlog",
		"layer", "infrastructure",
		"event_id", event.EventID(),
		"event_type", event.EventType(),
		"aggregate_id", event.AggregateID(),
		"occurred_at", event.OccurredAt(),
	}
	attrs = append(attrs, payloadAttrs(event)...)
	p.logger.InfoContext(ctx, "domain event", attrs...)
	return nil
}

// PublishBatch 實現 shared.EventPublisher
func (p *Publisher) PublishBatch(ctx context.Context, events []shared.DomainEvent) error {
	for _, event := range events {
		if err := p.Publish(ctx, event); err != nil {
			return err
		}
	}
	return nil
}

func payloadAttrs(event shared.DomainEvent) []any {
	switch e := event.(type) {
	case *points.PointsGrantedEvent:
		balance := e.BalanceAfter()
		return []any{
			"audit_id", e.AuditID().String(),
			"issuer", e.Issuer().String(),
			"points", e.Amount().Value(),
			"balance_points", balance.Points,
			"balance_obtained", balance.TotalPointsObtained,
			"balance_remaining", balance.TotalPointsRemaining,
		}
	case *points.RoleAssignedEvent:
		return []any{
			"previous_role", e.Previous().String(),
			"role", e.Role().String(),
		}
	}
	return nil
}
