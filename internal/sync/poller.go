// Package sync runs reconciliation passes against one mailbox and
// persists their results, either once or on a cron schedule.
package sync

import (
	"context"
	"errors"
	"fmt"
	gosync "sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/nhle/order-tracker/internal/model"
	"github.com/nhle/order-tracker/internal/store"
)

// SyncState represents the current state of the syncer.
type SyncState int

const (
	SyncIdle SyncState = iota
	SyncRunning
	SyncError
)

func (s SyncState) String() string {
	switch s {
	case SyncRunning:
		return "running"
	case SyncError:
		return "error"
	default:
		return "idle"
	}
}

// SyncStatus describes the most recent run.
type SyncStatus struct {
	State    SyncState
	LastSync time.Time
	LastRun  model.SyncRun
	Error    error
}

// ErrRunInProgress is returned when a run is requested while another one
// is still going.
var ErrRunInProgress = errors.New("a sync run is already in progress")

// Runner performs the mailbox sweeps. *reconcile.Engine implements it.
type Runner interface {
	RunOrderReconciliation(ctx context.Context, folder string) ([]model.Order, model.PhaseStatistics)
	CollectXboxCodes(ctx context.Context, folder string) ([]model.XboxCode, model.PhaseStatistics)
}

// Job selects what a run does.
type Job struct {
	Profile string
	Folder  string
	Orders  bool
	Xbox    bool
}

// Result is what one run produced, before and after persistence.
type Result struct {
	Run      model.SyncRun
	Orders   []model.Order
	Codes    []model.XboxCode
	NewCodes int

	// OrderStats and XboxStats split Run.Stats by sweep.
	OrderStats model.PhaseStatistics
	XboxStats  model.PhaseStatistics
}

// runTimeout is the maximum time allowed for a single run.
const runTimeout = 30 * time.Minute

// Syncer executes jobs one at a time and writes their results to the
// store. A nil store skips persistence.
type Syncer struct {
	runner Runner
	store  store.Store
	logger *log.Logger
	now    func() time.Time

	mu      gosync.Mutex
	running bool
	status  SyncStatus
}

// New creates a Syncer.
func New(runner Runner, s store.Store, logger *log.Logger) *Syncer {
	if logger == nil {
		logger = log.Default()
	}
	return &Syncer{
		runner: runner,
		store:  s,
		logger: logger,
		now:    time.Now,
	}
}

// Status returns a snapshot of the syncer state.
func (s *Syncer) Status() SyncStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

// RunOnce executes job. Overlapping calls fail fast with
// ErrRunInProgress. Mailbox problems are reported through the run
// statistics; only persistence failures are returned as errors.
func (s *Syncer) RunOnce(ctx context.Context, job Job) (Result, error) {
	if !s.begin() {
		return Result{}, ErrRunInProgress
	}

	ctx, cancel := context.WithTimeout(ctx, runTimeout)
	defer cancel()

	res := Result{
		Run: model.SyncRun{
			Profile:   job.Profile,
			Folder:    job.Folder,
			StartedAt: s.now(),
		},
		Orders: []model.Order{},
		Codes:  []model.XboxCode{},
	}

	if job.Orders {
		orders, stats := s.runner.RunOrderReconciliation(ctx, job.Folder)
		res.Orders = orders
		res.OrderStats = stats
		res.Run.Stats.Add(stats)
	}
	if job.Xbox {
		codes, stats := s.runner.CollectXboxCodes(ctx, job.Folder)
		res.Codes = codes
		res.XboxStats = stats
		res.Run.Stats.Add(stats)
	}
	res.Run.Orders = len(res.Orders)
	res.Run.Codes = len(res.Codes)
	res.Run.FinishedAt = s.now()

	err := s.persist(ctx, &res)
	s.finish(res.Run, err)

	if err != nil {
		s.logger.Error("sync run failed", "profile", job.Profile, "err", err)
		return res, err
	}

	s.logger.Info("sync run finished",
		"profile", job.Profile,
		"folder", job.Folder,
		"orders", res.Run.Orders,
		"codes", res.Run.Codes,
		"new_codes", res.NewCodes,
		"failed", res.Run.Stats.Failed,
		"took", res.Run.FinishedAt.Sub(res.Run.StartedAt).Round(time.Millisecond),
	)
	return res, nil
}

func (s *Syncer) persist(ctx context.Context, res *Result) error {
	if s.store == nil {
		return nil
	}
	// Results already gathered are kept even if the run was cancelled.
	ctx = context.WithoutCancel(ctx)

	if len(res.Orders) > 0 {
		if err := s.store.SaveOrders(ctx, res.Orders); err != nil {
			return fmt.Errorf("saving orders: %w", err)
		}
	}
	if len(res.Codes) > 0 {
		n, err := s.store.SaveXboxCodes(ctx, res.Codes)
		if err != nil {
			return fmt.Errorf("saving codes: %w", err)
		}
		res.NewCodes = n
	}

	id, err := s.store.RecordRun(ctx, res.Run)
	if err != nil {
		return err
	}
	res.Run.ID = id
	return nil
}

func (s *Syncer) begin() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return false
	}
	s.running = true
	s.status.State = SyncRunning
	return true
}

func (s *Syncer) finish(run model.SyncRun, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.running = false
	s.status.LastSync = run.FinishedAt
	s.status.LastRun = run
	s.status.Error = err
	if err != nil {
		s.status.State = SyncError
	} else {
		s.status.State = SyncIdle
	}
}
