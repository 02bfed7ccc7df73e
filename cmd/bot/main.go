package main

import (
	stdcontext "context"
	"golang.org/x/sync/errgroup"
	"os"
	"os/signal"
	"syscall"
	"time"
	"tldr/pkg/api/context"
	"tldr/pkg/api/events"
	"tldr/pkg/config"
	"tldr/pkg/log"
	"tldr/pkg/metrics"
	"tldr/pkg/queue"
	"tldr/pkg/wordcab"
)

const (
	defaultConfigFilename = "config.yaml"
	shutdownTimeout       = 30 * time.Second
)

func main() {
	configFilename := defaultConfigFilename
	if len(os.Args) > 1 {
		configFilename = os.Args[1]
	}

	cfg, err := config.ReadConfig(configFilename, len(os.Args) > 1)
	if err != nil {
		panic(err)
	}

	if err = cfg.Validate(); err != nil {
		panic(err)
	}

	signals, stop := signal.NotifyContext(stdcontext.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	initializeLogger(signals, cfg)
	defer log.Logger().Close()
	logger := log.Logger()

	s := initializeStore(signals, cfg)
	defer s.Close()

	tracker := initializeUsage(signals, cfg)
	if cfg.QueueEnabled() {
		defer queue.Get().Close()
	}

	svc := initializeDiscord(cfg)

	ctx := context.NewContext(signals, context.Dependencies{
		Config:  cfg,
		Store:   s,
		Wordcab: wordcab.NewClient(cfg.Wordcab.APIURL, cfg.Wordcab.RequestTimeout),
		Discord: svc,
		Usage:   tracker,
	})

	metrics.RegisterRunningJobs(ctx.Jobs().Count)

	events.NewHandler(ctx).Attach(svc)

	if err = svc.Open(); err != nil {
		panic(err)
	}

	g, gctx := errgroup.WithContext(signals)
	if len(cfg.Metrics.Address) > 0 {
		g.Go(func() error {
			logger.Infof(nil, "serving metrics on %s", cfg.Metrics.Address)
			return metrics.Serve(gctx, cfg.Metrics.Address)
		})
	}
	g.Go(func() error {
		<-gctx.Done()
		return nil
	})

	if err = g.Wait(); err != nil {
		logger.Errorf(nil, "error serving metrics, %s", err)
	}

	logger.Noticef(nil, "shutting down, %d jobs running", ctx.Jobs().Count())

	shutdown, cancel := stdcontext.WithTimeout(stdcontext.Background(), shutdownTimeout)
	defer cancel()

	if err = ctx.Jobs().Shutdown(shutdown); err != nil {
		logger.Warningf(nil, "error waiting for jobs, %s", err)
	}

	if err = svc.Close(); err != nil {
		logger.Warningf(nil, "error closing discord session, %s", err)
	}
}
