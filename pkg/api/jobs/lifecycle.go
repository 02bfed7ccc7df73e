package jobs

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"
	"tldr/pkg/api/style"
	"tldr/pkg/config"
	"tldr/pkg/log"
	"tldr/pkg/metrics"
	"tldr/pkg/models"
	"tldr/pkg/usage"
	"tldr/pkg/wordcab"
)

const messageLimit = 2000

type Provider interface {
	StartSummary(ctx context.Context, token string, r *wordcab.SummaryRequest) (*wordcab.Job, error)
	RetrieveJob(ctx context.Context, token, jobName string) (*wordcab.Job, error)
	RetrieveSummary(ctx context.Context, token, summaryID string) (*wordcab.Summary, error)
	DeleteJob(ctx context.Context, token, jobName string) error
}

type Messenger interface {
	SendDirectMessage(ctx context.Context, userID, content string) error
}

type SummaryStore interface {
	StoreSummaryID(ctx context.Context, discordGuildID, summaryID string) (*models.SummaryRecord, error)
}

type Outcome int

const (
	Complete Outcome = iota
	Deleted
	Failed
	TimedOut
)

func (o Outcome) String() string {
	switch o {
	case Complete:
		return "complete"
	case Deleted:
		return "deleted"
	case Failed:
		return "error"
	default:
		return "timed_out"
	}
}

// Status is the job state reported to the user.
func (o Outcome) Status() string {
	switch o {
	case Complete:
		return wordcab.StatusSummaryComplete
	case Deleted:
		return wordcab.StatusDeleted
	case Failed:
		return wordcab.StatusError
	default:
		return "TimedOut"
	}
}

// Request is one summarize invocation.
type Request struct {
	Token         string
	GuildID       string
	GuildName     string
	ChannelName   string
	UserID        string
	UserName      string
	SummaryLength int
	Timeframe     string
	Language      string
	IncludeChat   bool
	Messages      []string
	TotalChars    int
	StartedAt     time.Time
}

func (r *Request) DisplayName() string {
	return fmt.Sprintf("%s_%s_%s", r.ChannelName, r.GuildName, r.UserName)
}

func (r *Request) Labels() map[string]string {
	return map[string]string{
		"guild_id": r.GuildID,
		"user_id":  r.UserID,
		"channel":  r.ChannelName,
	}
}

type Lifecycle struct {
	provider     Provider
	messenger    Messenger
	store        SummaryStore
	tracker      usage.Tracker
	summaryType  string
	pollInterval time.Duration
	maxWait      time.Duration
}

func NewLifecycle(cfg *config.Config, provider Provider, messenger Messenger, store SummaryStore, tracker usage.Tracker) *Lifecycle {
	return &Lifecycle{
		provider:     provider,
		messenger:    messenger,
		store:        store,
		tracker:      tracker,
		summaryType:  cfg.Wordcab.SummaryType,
		pollInterval: cfg.Wordcab.PollInterval,
		maxWait:      cfg.Wordcab.MaxWait,
	}
}

func (l *Lifecycle) Submit(ctx context.Context, r *Request) (*wordcab.Job, error) {
	job, err := l.provider.StartSummary(ctx, r.Token, &wordcab.SummaryRequest{
		Transcript:    r.Messages,
		DisplayName:   r.DisplayName(),
		SourceLang:    r.Language,
		SummaryType:   l.summaryType,
		SummaryLength: r.SummaryLength,
		Tags:          []string{r.ChannelName, r.GuildName, r.UserName},
	})
	if err != nil {
		return nil, err
	}

	metrics.JobsSubmitted.Inc()
	return job, nil
}

// AwaitCompletion polls the job until it reaches a terminal status or maxWait elapses. Failed
// status requests are retried until then.
func (l *Lifecycle) AwaitCompletion(ctx context.Context, token, jobName string) (Outcome, *wordcab.Job, error) {
	logger := log.Logger()

	deadline := time.Now().Add(l.maxWait)
	timer := time.NewTimer(0)
	defer timer.Stop()

	var last *wordcab.Job
	for {
		select {
		case <-ctx.Done():
			return TimedOut, last, ctx.Err()
		case <-timer.C:
		}

		metrics.JobPolls.Inc()
		job, err := l.provider.RetrieveJob(ctx, token, jobName)
		if err != nil {
			if ctx.Err() != nil {
				return TimedOut, last, ctx.Err()
			}
			logger.Warningf(nil, "error polling %s, %s", jobName, err)
		} else {
			last = job
			switch job.JobStatus {
			case wordcab.StatusSummaryComplete:
				return Complete, job, nil
			case wordcab.StatusDeleted:
				return Deleted, job, nil
			case wordcab.StatusError:
				return Failed, job, nil
			}
		}

		if l.maxWait > 0 && !time.Now().Before(deadline) {
			return TimedOut, last, nil
		}

		timer.Reset(l.pollInterval)
	}
}

// Deliver sends the finished summary, and optionally the chat it was built from, to the requester.
func (l *Lifecycle) Deliver(ctx context.Context, r *Request, job *wordcab.Job) error {
	logger := log.Logger()

	summaryID := job.SummaryDetails.SummaryID
	summary, err := l.provider.RetrieveSummary(ctx, r.Token, summaryID)
	if err != nil {
		return err
	}

	record, err := l.store.StoreSummaryID(ctx, r.GuildID, summaryID)
	if err != nil {
		logger.Warningf(r, "error storing summary id %s, %s", summaryID, err)
	}

	messages := []string{style.Bold("Your summary:")}
	for _, u := range summary.Utterances(r.SummaryLength) {
		messages = append(messages, Chunk([]string{u.Summary}, messageLimit)...)
	}

	if r.IncludeChat {
		messages = append(messages, style.Bold("Chats used for the summary:"))
		messages = append(messages, Chunk(r.Messages, messageLimit)...)
	}

	if record != nil {
		messages = append(messages, fmt.Sprintf("Summary reference: %s", style.Code(record.Reference)))
	}

	for _, m := range messages {
		if err = l.messenger.SendDirectMessage(ctx, r.UserID, m); err != nil {
			return err
		}
	}

	metrics.SummariesDelivered.Inc()

	started, err := summary.Started()
	if err != nil {
		started = r.StartedAt
	}
	completed, err := summary.Completed()
	if err != nil {
		completed = time.Now()
	}
	if !r.StartedAt.IsZero() {
		metrics.JobDuration.Observe(time.Since(r.StartedAt).Seconds())
	}

	err = l.tracker.Record(ctx, &models.Usage{
		User:          r.UserName,
		GuildName:     r.GuildName,
		SummarySize:   strconv.Itoa(r.SummaryLength),
		Timeframe:     r.Timeframe,
		Language:      r.Language,
		IncludeChat:   r.IncludeChat,
		TimeStarted:   started,
		TimeCompleted: completed,
	})
	if err != nil {
		logger.Warningf(r, "error recording usage, %s", err)
	}

	return nil
}

// Cleanup deletes a completed job from Wordcab. Failures are only logged.
func (l *Lifecycle) Cleanup(ctx context.Context, token, jobName string) {
	logger := log.Logger()

	job, err := l.provider.RetrieveJob(ctx, token, jobName)
	if err != nil {
		logger.Warningf(nil, "error checking %s before deletion, %s", jobName, err)
		return
	}

	if job.JobStatus != wordcab.StatusSummaryComplete {
		return
	}

	if err = l.provider.DeleteJob(ctx, token, jobName); err != nil {
		logger.Warningf(job, "error deleting %s, %s", jobName, err)
		return
	}

	logger.Debugf(job, "deleted %s", jobName)
}

// Run carries a submitted job through to delivery and cleanup.
func (l *Lifecycle) Run(ctx context.Context, r *Request, jobName string) {
	logger := log.Logger()

	outcome, job, err := l.AwaitCompletion(ctx, r.Token, jobName)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			logger.Noticef(r, "stopped waiting for %s", jobName)
		} else {
			logger.Warningf(r, "error waiting for %s, %s", jobName, err)
		}
		return
	}

	metrics.JobOutcomes.WithLabelValues(outcome.String()).Inc()
	logger.Infof(r, "%s finished, %s", jobName, outcome)

	if outcome != Complete {
		message := fmt.Sprintf("Your job has been [%s]. Please try again.", outcome.Status())
		if err = l.messenger.SendDirectMessage(ctx, r.UserID, message); err != nil {
			logger.Warningf(r, "error notifying %s, %s", r.UserName, err)
		}
		return
	}

	if err = l.Deliver(ctx, r, job); err != nil {
		logger.Errorf(r, "error delivering %s, %s", jobName, err)
		return
	}

	logger.Infof(r, "📬 delivered %s to %s", jobName, r.UserName)

	l.Cleanup(ctx, r.Token, jobName)
}

// Runner binds Run to one request for use with Registry.Start.
func (l *Lifecycle) Runner(r *Request, jobName string) func(ctx context.Context) {
	return func(ctx context.Context) {
		l.Run(ctx, r, jobName)
	}
}
