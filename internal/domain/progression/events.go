package progression

import (
	"time"

	"github.com/google/uuid"
)

func newEvent(eventType string, now time.Time, payload map[string]any) DomainEvent {
	if payload == nil {
		payload = map[string]any{}
	}
	return DomainEvent{
		ID:         uuid.NewString(),
		Type:       eventType,
		OccurredAt: now,
		Payload:    payload,
	}
}
