package metrics

import (
	"context"
	"errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"net/http"
	"sync"
	"time"
)

var (
	CommandsHandled = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "tldr_commands_total",
		Help: "Interactions routed to commands, by command and interaction type",
	}, []string{"command", "type"})

	JobsSubmitted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "tldr_jobs_submitted_total",
		Help: "Summarization jobs submitted to Wordcab",
	})

	JobOutcomes = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "tldr_job_outcomes_total",
		Help: "Summarization jobs that left the polling loop, by outcome",
	}, []string{"outcome"})

	JobPolls = promauto.NewCounter(prometheus.CounterOpts{
		Name: "tldr_job_polls_total",
		Help: "Job status requests made while waiting for summaries",
	})

	SummariesDelivered = promauto.NewCounter(prometheus.CounterOpts{
		Name: "tldr_summaries_delivered_total",
		Help: "Summaries sent to users by direct message",
	})

	JobDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "tldr_job_duration_seconds",
		Help:    "Time from submission to delivery",
		Buckets: []float64{5, 10, 30, 60, 120, 300, 600, 1800},
	})

	ChatCharacters = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "tldr_collected_characters",
		Help:    "Raw characters collected per summarize request",
		Buckets: []float64{0, 250, 500, 1000, 2000, 3000, 4000, 6000},
	})
)

var runningOnce sync.Once

// RegisterRunningJobs exposes count as the running jobs gauge. Only the first call registers.
func RegisterRunningJobs(count func() int) {
	runningOnce.Do(func() {
		prometheus.MustRegister(prometheus.NewGaugeFunc(
			prometheus.GaugeOpts{
				Name: "tldr_jobs_running",
				Help: "Summarization jobs currently in flight",
			},
			func() float64 {
				return float64(count())
			},
		))
	})
}

// Serve exposes /metrics on address until ctx is done.
func Serve(ctx context.Context, address string) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	server := &http.Server{
		Addr:              address,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errs := make(chan error, 1)
	go func() {
		errs <- server.ListenAndServe()
	}()

	select {
	case err := <-errs:
		return err
	case <-ctx.Done():
		shutdown, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdown); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}
