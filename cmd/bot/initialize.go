package main

import (
	"context"
	"fmt"
	"tldr/pkg/api/discord"
	"tldr/pkg/config"
	"tldr/pkg/log"
	"tldr/pkg/queue"
	"tldr/pkg/store"
	"tldr/pkg/usage"
)

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

func initializeStore(ctx context.Context, cfg *config.Config) store.Store {
	s, err := store.Open(ctx, cfg)
	if err != nil {
		panic(fmt.Errorf("error initializing store, %s", err))
	}
	return s
}

// initializeUsage records usage to the metrics files or, when a topic is configured, to the queue.
func initializeUsage(ctx context.Context, cfg *config.Config) usage.Tracker {
	if !cfg.QueueEnabled() {
		return usage.NewTracker(cfg, nil)
	}

	q, err := queue.Initialize(ctx, cfg)
	if err != nil {
		panic(fmt.Errorf("error initializing queue, %s", err))
	}

	return usage.NewTracker(cfg, q)
}

func initializeDiscord(cfg *config.Config) discord.Discord {
	svc, err := discord.NewDiscord(cfg)
	if err != nil {
		panic(fmt.Errorf("error initializing discord, %s", err))
	}
	return svc
}
