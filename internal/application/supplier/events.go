package supplier

import (
	"context"

	"github.com/ecofoods/backend/internal/domain/shared"
	"github.com/ecofoods/backend/internal/infrastructure/logger"
	"go.uber.org/zap"
)

// publishAfterCommit drains and publishes events raised by the aggregate.
// Call it only once the transaction that stored the aggregate committed.
func publishAfterCommit(ctx context.Context, publisher shared.EventPublisher, agg interface {
	GetDomainEvents() []shared.DomainEvent
	ClearDomainEvents()
}) {
	events := agg.GetDomainEvents()
	agg.ClearDomainEvents()
	if publisher == nil || len(events) == 0 {
		return
	}
	if err := publisher.Publish(ctx, events...); err != nil {
		logger.FromContext(ctx).Error("Failed to publish domain events",
			zap.String("event_type", events[0].EventType()),
			zap.Int("count", len(events)),
			zap.Error(err),
		)
	}
}
