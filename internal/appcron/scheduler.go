package appcron

import (
	"context"
	"fmt"
	"runtime/debug"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/creatorstation/tweetbot/internal/history"
	"github.com/creatorstation/tweetbot/internal/logging"
	"github.com/creatorstation/tweetbot/internal/models"
)

const (
	TriggerSchedule = "schedule"
	TriggerManual   = "manual"
	TriggerCLI      = "cli"
)

// JobFunc runs one job and returns the ids of the posts it created.
type JobFunc func(ctx context.Context) ([]string, error)

// Scheduler runs registered jobs on their cron specs. Every run goes through Run,
// which keeps job failures away from the cron loop and from other jobs.
type Scheduler struct {
	cron     *cron.Cron
	jobs     map[string]JobFunc
	entries  map[string]cron.EntryID
	recorder history.Recorder
	hub      *sentry.Hub
	logger   *zap.Logger

	mu      sync.Mutex
	manual  sync.WaitGroup
	stopped bool
}

type Option func(*Scheduler)

// WithRecorder stores a JobRun for every run.
func WithRecorder(recorder history.Recorder) Option {
	return func(s *Scheduler) { s.recorder = recorder }
}

// WithSentry reports failed runs to hub.
func WithSentry(hub *sentry.Hub) Option {
	return func(s *Scheduler) { s.hub = hub }
}

// NewScheduler creates a stopped scheduler evaluating specs in loc.
// Overlapping runs of the same job are allowed.
func NewScheduler(loc *time.Location, logger *zap.Logger, opts ...Option) *Scheduler {
	if loc == nil {
		loc = time.Local
	}

	s := &Scheduler{
		cron: cron.New(
			cron.WithLocation(loc),
			cron.WithLogger(logging.NewCronLogger(logger)),
		),
		jobs:     make(map[string]JobFunc),
		entries:  make(map[string]cron.EntryID),
		recorder: history.Nop{},
		logger:   logger,
	}

	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Register schedules job under name with a standard five-field cron spec.
func (s *Scheduler) Register(name, spec string, job JobFunc) error {
	if _, exists := s.jobs[name]; exists {
		return fmt.Errorf("job %q already registered", name)
	}

	id, err := s.cron.AddFunc(spec, func() {
		s.Run(context.Background(), name, TriggerSchedule)
	})
	if err != nil {
		return fmt.Errorf("failed to add %s cron job: %w", name, err)
	}

	s.jobs[name] = job
	s.entries[name] = id
	s.logger.Info("Job scheduled", zap.String("job", name), zap.String("spec", spec))
	return nil
}

// Jobs lists the registered job names.
func (s *Scheduler) Jobs() []string {
	names := make([]string, 0, len(s.jobs))
	for name := range s.jobs {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Next reports when the named job fires next. It is zero until the scheduler starts.
func (s *Scheduler) Next(name string) time.Time {
	id, ok := s.entries[name]
	if !ok {
		return time.Time{}
	}
	return s.cron.Entry(id).Next
}

func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop halts the timers and waits for running jobs, scheduled or triggered,
// until ctx is done.
func (s *Scheduler) Stop(ctx context.Context) error {
	s.mu.Lock()
	s.stopped = true
	s.mu.Unlock()

	done := make(chan struct{})
	go func() {
		<-s.cron.Stop().Done()
		s.manual.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Trigger starts the named job in the background, outside its schedule.
func (s *Scheduler) Trigger(name, trigger string) error {
	if _, ok := s.jobs[name]; !ok {
		return fmt.Errorf("unknown job %q", name)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopped {
		return fmt.Errorf("scheduler is stopped")
	}

	s.manual.Add(1)
	go func() {
		defer s.manual.Done()
		s.Run(context.Background(), name, trigger)
	}()
	return nil
}

// Run executes the named job once and never lets its failure escape: errors and
// panics are logged once, reported to Sentry and recorded, then dropped.
func (s *Scheduler) Run(ctx context.Context, name, trigger string) models.JobRun {
	run := models.JobRun{
		ID:        uuid.NewString(),
		Job:       name,
		Trigger:   trigger,
		StartedAt: time.Now(),
	}
	logger := s.logger.With(zap.String("job", name), zap.String("run_id", run.ID))

	var postIDs []string
	job, ok := s.jobs[name]
	err := fmt.Errorf("unknown job %q", name)
	if ok {
		logger.Info("Starting job", zap.String("trigger", trigger))
		postIDs, err = call(ctx, job)
	}
	run.FinishedAt = time.Now()

	if err != nil {
		run.Status = models.RunStatusFailed
		run.Error = err.Error()
		logger.Error("Job failed", zap.Error(err), zap.Duration("took", run.FinishedAt.Sub(run.StartedAt)))
		s.report(name, run.ID, err)
	} else {
		run.Status = models.RunStatusOK
		run.PostIDs = strings.Join(postIDs, ",")
		logger.Info("Job completed", zap.Strings("post_ids", postIDs), zap.Duration("took", run.FinishedAt.Sub(run.StartedAt)))
	}

	if err := s.recorder.Record(ctx, run); err != nil {
		logger.Warn("Failed to record job run", zap.Error(err))
	}

	return run
}

func call(ctx context.Context, job JobFunc) (ids []string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v\n%s", r, debug.Stack())
		}
	}()
	return job(ctx)
}

func (s *Scheduler) report(name, runID string, err error) {
	if s.hub == nil {
		return
	}
	s.hub.WithScope(func(scope *sentry.Scope) {
		scope.SetTag("job", name)
		scope.SetTag("run_id", runID)
		s.hub.CaptureException(err)
	})
}
