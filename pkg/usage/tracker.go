package usage

import (
	"context"
	"errors"
	"tldr/pkg/config"
	"tldr/pkg/models"
)

// Tracker records one row per delivered summary.
type Tracker interface {
	Record(ctx context.Context, u *models.Usage) error
}

type multi []Tracker

// Multi records to every tracker, attempting all of them even when one fails.
func Multi(trackers ...Tracker) Tracker {
	return multi(trackers)
}

func (m multi) Record(ctx context.Context, u *models.Usage) error {
	var errs []error
	for _, t := range m {
		if err := t.Record(ctx, u); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// NewTracker picks where the bot records usage. With a publisher, rows go to the queue and the
// usage collector writes the files; the local files are also written only when
// queue.local_usage is set, which requires the collector to use a different data directory.
func NewTracker(cfg *config.Config, p Publisher) Tracker {
	csvTracker := NewCSVTracker(cfg.MetricsDir())
	if p == nil {
		return csvTracker
	}

	queueTracker := NewQueueTracker(p)
	if cfg.Queue.LocalUsage {
		return Multi(csvTracker, queueTracker)
	}
	return queueTracker
}
