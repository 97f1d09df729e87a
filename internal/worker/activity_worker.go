// Package worker persists audit events consumed from the message queue.
package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"innkeeper/internal/amqp"
	applog "innkeeper/internal/log"
	"innkeeper/internal/storage"
)

// ActivityStore is the slice of storage the worker needs.
type ActivityStore interface {
	InsertActivityLog(ctx context.Context, e storage.ActivityLog) error
}

// ActivityWorker writes consumed activity events to the audit log table.
type ActivityWorker struct {
	store  ActivityStore
	logger *applog.Logger
	now    func() time.Time
}

func NewActivityWorker(store ActivityStore, logger *applog.Logger) *ActivityWorker {
	return &ActivityWorker{
		store:  store,
		logger: logger.WithComponent(applog.ComponentWorker),
		now:    time.Now,
	}
}

// HandleEvent converts one event into an audit log row. Returning an error
// requeues the delivery, so only storage failures are reported back.
func (w *ActivityWorker) HandleEvent(ctx context.Context, event *amqp.ActivityEvent) error {
	if err := event.Validate(); err != nil {
		w.logger.Warn("Dropping invalid activity event", "error", err)
		return nil
	}

	meta := ""
	if len(event.Metadata) > 0 {
		b, err := json.Marshal(event.Metadata)
		if err != nil {
			w.logger.Warn("Dropping unserializable event metadata",
				"action", event.Action,
				"entity", event.Entity,
				"error", err)
		} else {
			meta = string(b)
		}
	}

	ts := event.Timestamp
	if ts.IsZero() {
		ts = w.now().UTC()
	}

	entry := storage.ActivityLog{
		Actor:     event.Actor,
		Action:    event.Action,
		Entity:    event.Entity,
		EntityID:  event.EntityID,
		Metadata:  meta,
		CreatedAt: ts,
	}

	if err := w.store.InsertActivityLog(ctx, entry); err != nil {
		return fmt.Errorf("insert activity log: %w", err)
	}

	w.logger.Info("Recorded activity",
		"actor", event.Actor,
		"action", event.Action,
		"entity", event.Entity,
		"entity_id", event.EntityID)
	return nil
}
