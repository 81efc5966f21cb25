package service

import (
	"context"
	"fmt"
	"time"

	"github.com/Skotchmaster/neuronotes/internal/domain"
	"github.com/Skotchmaster/neuronotes/internal/logging"
)

const publishTimeout = 5 * time.Second

type EventPublisher interface {
	PublishEvent(ctx context.Context, topic, key string, event any) error
}

// NoteIndex mirrors notes into a secondary search index.
type NoteIndex interface {
	IndexNote(ctx context.Context, note domain.Note) error
	DeleteNote(ctx context.Context, id uint) error
}

// publish is best effort: failures are logged and never reach the caller.
func publish(ctx context.Context, p EventPublisher, topic string, key any, event map[string]any) {
	if p == nil {
		return
	}
	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()
	if err := p.PublishEvent(ctx, topic, fmt.Sprint(key), event); err != nil {
		logging.FromContext(ctx).Error("publish_event_failed", "topic", topic, "type", event["type"], "error", err)
	}
}
