package usage

import (
	"context"
	"tldr/pkg/models"
)

type Publisher interface {
	Publish(ctx context.Context, event *models.Event) error
}

// QueueTracker forwards usage rows as events for the usage collector.
type QueueTracker struct {
	publisher Publisher
}

func NewQueueTracker(p Publisher) *QueueTracker {
	return &QueueTracker{publisher: p}
}

func (t *QueueTracker) Record(ctx context.Context, u *models.Usage) error {
	return t.publisher.Publish(ctx, models.NewUsageEvent(u))
}
