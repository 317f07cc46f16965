package sync

import (
	"context"
	"errors"
	"fmt"
	gosync "sync"

	"github.com/charmbracelet/log"
	"github.com/robfig/cron/v3"
)

// cronParser accepts standard five-field expressions and descriptors
// such as "@every 30m" or "@hourly".
var cronParser = cron.NewParser(
	cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor,
)

// ValidateSchedule reports whether spec is a usable cron expression.
func ValidateSchedule(spec string) error {
	if _, err := cronParser.Parse(spec); err != nil {
		return fmt.Errorf("invalid schedule %q: %w", spec, err)
	}
	return nil
}

// Scheduler triggers one job on a cron schedule. Ticks that arrive while
// the previous run is still going are skipped.
type Scheduler struct {
	syncer *Syncer
	job    Job
	spec   string
	logger *log.Logger

	cron      *cron.Cron
	entry     cron.EntryID
	startOnce gosync.Once
	stopOnce  gosync.Once
}

// NewScheduler validates spec and prepares a scheduler; nothing runs
// until Run is called.
func NewScheduler(syncer *Syncer, job Job, spec string, logger *log.Logger) (*Scheduler, error) {
	if syncer == nil {
		return nil, errors.New("scheduler requires a syncer")
	}
	if err := ValidateSchedule(spec); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = log.Default()
	}

	cl := cronLogger{logger: logger}
	return &Scheduler{
		syncer: syncer,
		job:    job,
		spec:   spec,
		logger: logger,
		cron: cron.New(
			cron.WithParser(cronParser),
			cron.WithLogger(cl),
			cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)),
		),
	}, nil
}

// Run performs an immediate sync, then keeps syncing on schedule until
// ctx is cancelled. It waits for an in-flight run before returning.
func (s *Scheduler) Run(ctx context.Context) error {
	var err error
	s.startOnce.Do(func() {
		s.entry, err = s.cron.AddFunc(s.spec, func() { s.tick(ctx) })
		if err != nil {
			return
		}
		s.tick(ctx)
		s.cron.Start()
		s.logger.Info("watching mailbox",
			"profile", s.job.Profile,
			"folder", s.job.Folder,
			"schedule", s.spec,
			"next", s.cron.Entry(s.entry).Next,
		)
	})
	if err != nil {
		return fmt.Errorf("scheduling %q: %w", s.spec, err)
	}

	<-ctx.Done()
	s.stop()
	return nil
}

func (s *Scheduler) tick(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}
	_, err := s.syncer.RunOnce(ctx, s.job)
	if errors.Is(err, ErrRunInProgress) {
		s.logger.Warn("skipping scheduled run; previous run still active")
	}
}

func (s *Scheduler) stop() {
	s.stopOnce.Do(func() {
		done := s.cron.Stop()
		<-done.Done()
		s.logger.Info("scheduler stopped")
	})
}

// cronLogger adapts the application logger to cron.Logger.
type cronLogger struct {
	logger *log.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.logger.Debug("cron: "+msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.logger.Error("cron: "+msg, append(keysAndValues, "err", err)...)
}
