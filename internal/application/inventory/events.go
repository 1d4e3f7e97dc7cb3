package inventory

import (
	"context"

	"github.com/ecofoods/backend/internal/domain/shared"
	"github.com/ecofoods/backend/internal/infrastructure/logger"
	"go.uber.org/zap"
)

// eventSource is anything that queues domain events until it is stored
type eventSource interface {
	GetDomainEvents() []shared.DomainEvent
	ClearDomainEvents()
}

// collectEvents drains pending events from every source
func collectEvents(sources ...eventSource) []shared.DomainEvent {
	var events []shared.DomainEvent
	for _, src := range sources {
		if src == nil {
			continue
		}
		events = append(events, src.GetDomainEvents()...)
		src.ClearDomainEvents()
	}
	return events
}

// publishEvents publishes events after the surrounding transaction committed.
// The write already happened, so a failure is logged rather than returned.
func publishEvents(ctx context.Context, publisher shared.EventPublisher, events []shared.DomainEvent) {
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
