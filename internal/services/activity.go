package services

import (
	"context"

	"innkeeper/internal/amqp"
	applog "innkeeper/internal/log"
)

// publishActivity sends an audit event and swallows failures. The operation
// that triggered the event is already durable; the audit trail is best-effort.
func publishActivity(ctx context.Context, pub ActivityPublisher, logger *applog.Logger, event *amqp.ActivityEvent) {
	if pub == nil {
		return
	}
	if err := pub.PublishActivity(ctx, event); err != nil {
		logger.WarnContext(ctx, "Failed to publish activity event",
			applog.FieldError, err,
			applog.FieldAction, event.Action,
			applog.FieldEntity, event.Entity,
			applog.FieldEntityID, event.EntityID)
	}
}
