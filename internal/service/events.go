package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/iliyamo/filmorate/internal/metrics"
	"github.com/iliyamo/filmorate/internal/queue"
)

// emit publishes an activity event. A failed publish is logged and counted
// but never fails the operation that produced the event.
func emit(ctx context.Context, pub EventPublisher, log *zap.Logger, ev queue.ActivityEvent) {
	if pub == nil {
		return
	}
	if err := pub.Publish(ctx, ev); err != nil {
		metrics.EventPublishErrors.Inc()
		log.Warn("activity event not published",
			zap.String("event_type", string(ev.EventType)),
			zap.String("operation", string(ev.Operation)),
			zap.Int64("user_id", ev.UserID),
			zap.Int64("entity_id", ev.EntityID),
			zap.Error(err))
	}
}

func countChange(relation, op string, applied bool) {
	result := metrics.ResultNoop
	if applied {
		result = metrics.ResultApplied
	}
	metrics.RelationshipChanges.WithLabelValues(relation, op, result).Inc()
}
