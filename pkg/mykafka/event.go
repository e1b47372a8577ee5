package mykafka

import (
	"context"
	"time"

	"github.com/Skotchmaster/microshop/pkg/logging"
)

type Event struct {
	Type       string    `json:"type"`
	OccurredAt time.Time `json:"occurred_at"`
	Data       any       `json:"data"`
}

func NewEvent(typ string, data any) Event {
	return Event{Type: typ, OccurredAt: time.Now().UTC(), Data: data}
}

// Emit publishes ev and logs the error instead of returning it.
func Emit(ctx context.Context, p Publisher, key string, ev Event) {
	if p == nil {
		return
	}
	if err := p.PublishEvent(ctx, key, ev); err != nil {
		logging.FromContext(ctx).Warn("event_publish_failed", "type", ev.Type, "key", key, "error", err)
	}
}
