package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"tldr/pkg/config"
	"tldr/pkg/log"
	"tldr/pkg/models"
	"tldr/pkg/queue"
	"tldr/pkg/usage"
)

const defaultConfigFilename = "config.yaml"

func main() {
	configFilename := defaultConfigFilename
	if len(os.Args) > 1 {
		configFilename = os.Args[1]
	}

	cfg, err := config.ReadConfig(configFilename, len(os.Args) > 1)
	if err != nil {
		panic(err)
	}

	if !cfg.QueueEnabled() || len(cfg.Queue.Subscription) == 0 {
		panic("usage collector requires google_cloud.project_id, queue.topic and queue.subscription")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	initializeLogger(ctx, cfg)
	defer log.Logger().Close()
	logger := log.Logger()

	q, err := queue.Initialize(ctx, cfg)
	if err != nil {
		panic(fmt.Errorf("error initializing queue, %s", err))
	}
	defer q.Close()

	tracker := usage.NewCSVTracker(cfg.MetricsDir())

	logger.Noticef(nil, "collecting usage from %s into %s", cfg.Queue.Subscription, cfg.MetricsDir())

	err = q.Receive(ctx, func(e *models.Event) {
		switch e.Type {
		case models.EventTypeUsage:
			u, ok := e.Data.(models.Usage)
			if !ok {
				logger.Errorf(e, "unexpected usage payload %T", e.Data)
				return
			}
			if err := tracker.Record(ctx, &u); err != nil {
				logger.Errorf(e, "error recording usage, %s", err)
			}
		default:
			logger.Warningf(e, "ignoring event of type %s", e.Type)
		}
	})
	if err != nil {
		logger.Errorf(nil, "error receiving events, %s", err)
	}
}

func initializeLogger(ctx context.Context, cfg *config.Config) {
	var err error
	switch cfg.Logging.Backend {
	case config.LoggingBackendGCP:
		_, err = log.InitializeGCPLogger(ctx, cfg)
	default:
		_, err = log.InitializeZapLogger(cfg)
	}
	if err != nil {
		panic(fmt.Errorf("error initializing logger, %s", err))
	}
}
