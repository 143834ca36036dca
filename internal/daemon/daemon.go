package daemon

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gofrs/flock"

	"seopress/internal/config"
	"seopress/internal/logging"
	"seopress/internal/optimizer"
)

// CycleRunner executes one optimization cycle.
type CycleRunner interface {
	RunCycle(ctx context.Context) (optimizer.CycleReport, error)
}

// ErrLockHeld reports that another process holds the instance lock.
var ErrLockHeld = errors.New("another seopress instance is already running")

func lockFilePath(cfg *config.Config) string {
	return filepath.Join(cfg.Paths.StateDir, "seopress.lock")
}

// AcquireLock takes the cross-process instance lock that keeps two
// optimization runs from touching the same state. The returned release
// function must be called when the run finishes. Returns ErrLockHeld when
// another process holds it.
func AcquireLock(cfg *config.Config) (func(), error) {
	lock := flock.New(lockFilePath(cfg))
	ok, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return nil, ErrLockHeld
	}
	return func() { _ = lock.Unlock() }, nil
}

// Daemon schedules optimization cycles and enforces single-instance
// execution.
type Daemon struct {
	cfg      *config.Config
	logger   *slog.Logger
	runner   CycleRunner
	interval time.Duration

	lockPath string
	lock     *flock.Flock

	running atomic.Bool
	cancel  context.CancelFunc
	wg      sync.WaitGroup
}

// New constructs a daemon with initialized dependencies.
func New(cfg *config.Config, runner CycleRunner, logger *slog.Logger) (*Daemon, error) {
	if cfg == nil || runner == nil {
		return nil, errors.New("daemon requires config and cycle runner")
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	lockPath := lockFilePath(cfg)
	return &Daemon{
		cfg:      cfg,
		logger:   logging.NewComponentLogger(logger, "daemon"),
		runner:   runner,
		interval: time.Duration(cfg.Scheduler.IntervalMinutes) * time.Minute,
		lockPath: lockPath,
		lock:     flock.New(lockPath),
	}, nil
}

// Start acquires the instance lock and launches the scheduler loop. The
// first cycle runs immediately.
func (d *Daemon) Start(ctx context.Context) error {
	if d.running.Load() {
		return errors.New("daemon already running")
	}

	ok, err := d.lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return ErrLockHeld
	}

	runCtx, cancel := context.WithCancel(ctx)
	d.cancel = cancel
	d.running.Store(true)
	d.logger.Info("daemon started",
		logging.String("lock", d.lockPath),
		logging.Duration("interval", d.interval))

	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		d.loop(runCtx)
	}()
	return nil
}

func (d *Daemon) loop(ctx context.Context) {
	d.runCycle(ctx)

	ticker := time.NewTicker(d.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			d.runCycle(ctx)
		}
	}
}

func (d *Daemon) runCycle(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}
	report, err := d.runner.RunCycle(ctx)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return
		}
		d.logger.Error("cycle failed", logging.Error(err))
		return
	}
	d.logger.Info("cycle complete",
		logging.String(logging.FieldCycleID, report.CycleID),
		logging.Int("succeeded", report.Succeeded),
		logging.Int("failed", report.Failed))
}

// Stop halts the scheduler and releases the instance lock.
func (d *Daemon) Stop() {
	if !d.running.Load() {
		return
	}
	if d.cancel != nil {
		d.cancel()
		d.cancel = nil
	}
	d.wg.Wait()
	if err := d.lock.Unlock(); err != nil {
		d.logger.Warn("failed to release instance lock", logging.Error(err))
	}
	d.running.Store(false)
	d.logger.Info("daemon stopped")
}

// Running reports whether the scheduler loop is active.
func (d *Daemon) Running() bool {
	return d.running.Load()
}

// LockPath returns the instance lock file path.
func (d *Daemon) LockPath() string {
	return d.lockPath
}
