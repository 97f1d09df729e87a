package amqp

import (
	"encoding/json"
	"fmt"
	"time"
)

// ActivityEvent is the audit trail message published whenever a console
// operation changes data. The worker persists it to the activity log table.
type ActivityEvent struct {
	Actor     string            `json:"actor,omitempty"`
	Action    string            `json:"action"`
	Entity    string            `json:"entity"`
	EntityID  string            `json:"entity_id,omitempty"`
	Metadata  map[string]string `json:"metadata,omitempty"`
	Timestamp time.Time         `json:"timestamp"`
}

func NewActivityEvent(action, entity, entityID string) *ActivityEvent {
	return &ActivityEvent{
		Action:    action,
		Entity:    entity,
		EntityID:  entityID,
		Timestamp: time.Now().UTC(),
	}
}

func (e *ActivityEvent) WithActor(actor string) *ActivityEvent {
	e.Actor = actor
	return e
}

func (e *ActivityEvent) WithMetadata(key, value string) *ActivityEvent {
	if e.Metadata == nil {
		e.Metadata = make(map[string]string)
	}
	e.Metadata[key] = value
	return e
}

func (e *ActivityEvent) Validate() error {
	if e.Action == "" {
		return fmt.Errorf("activity event missing action")
	}
	if e.Entity == "" {
		return fmt.Errorf("activity event missing entity")
	}
	return nil
}

func (e *ActivityEvent) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

func ActivityEventFromJSON(data []byte) (*ActivityEvent, error) {
	var e ActivityEvent
	if err := json.Unmarshal(data, &e); err != nil {
		return nil, err
	}
	if err := e.Validate(); err != nil {
		return nil, err
	}
	return &e, nil
}
