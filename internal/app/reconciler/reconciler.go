// Package reconciler drives the background sweeps that keep sessions and daily
// counters moving when no player command touches them.
package reconciler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"tutien/internal/app/cultivation"
)

type Sweeper interface {
	ReconcileExpired(ctx context.Context) (cultivation.SweepReport, error)
	ResetDailyCounters(ctx context.Context) (cultivation.SweepReport, error)
}

type Config struct {
	ExpirySchedule     string
	DailyResetSchedule string
	Location           *time.Location
	// JobTimeout caps a single sweep; zero means no cap.
	JobTimeout time.Duration
}

type Reconciler struct {
	cron    *cron.Cron
	sweeper Sweeper
	logger  *slog.Logger
	timeout time.Duration
}

func New(sweeper Sweeper, cfg Config, logger *slog.Logger) (*Reconciler, error) {
	if sweeper == nil {
		return nil, errors.New("reconciler: nil sweeper")
	}
	if logger == nil {
		logger = slog.Default()
	}
	loc := cfg.Location
	if loc == nil {
		loc = time.Local
	}
	cl := cronLogger{logger: logger}
	r := &Reconciler{
		cron: cron.New(
			cron.WithLocation(loc),
			cron.WithLogger(cl),
			cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)),
		),
		sweeper: sweeper,
		logger:  logger,
		timeout: cfg.JobTimeout,
	}
	if _, err := r.cron.AddFunc(cfg.ExpirySchedule, func() { r.run("expire_sessions", sweeper.ReconcileExpired) }); err != nil {
		return nil, fmt.Errorf("expiry schedule %q: %w", cfg.ExpirySchedule, err)
	}
	if _, err := r.cron.AddFunc(cfg.DailyResetSchedule, func() { r.run("reset_daily_counters", sweeper.ResetDailyCounters) }); err != nil {
		return nil, fmt.Errorf("daily reset schedule %q: %w", cfg.DailyResetSchedule, err)
	}
	return r, nil
}

func (r *Reconciler) Start() {
	r.cron.Start()
}

// Stop prevents new runs and waits for in-flight sweeps or ctx, whichever ends first.
func (r *Reconciler) Stop(ctx context.Context) error {
	done := r.cron.Stop()
	select {
	case <-done.Done():
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// RunOnce runs both sweeps immediately, used at startup to catch up on downtime.
func (r *Reconciler) RunOnce(ctx context.Context) error {
	_, errExpire := r.sweep(ctx, "expire_sessions", r.sweeper.ReconcileExpired)
	_, errReset := r.sweep(ctx, "reset_daily_counters", r.sweeper.ResetDailyCounters)
	return errors.Join(errExpire, errReset)
}

func (r *Reconciler) run(name string, fn func(context.Context) (cultivation.SweepReport, error)) {
	_, _ = r.sweep(context.Background(), name, fn)
}

func (r *Reconciler) sweep(ctx context.Context, name string, fn func(context.Context) (cultivation.SweepReport, error)) (cultivation.SweepReport, error) {
	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}
	started := time.Now()
	report, err := fn(ctx)
	attrs := []any{
		"job", name,
		"scanned", report.Scanned,
		"affected", report.Affected,
		"failed", report.Failed,
		"duration_ms", time.Since(started).Milliseconds(),
	}
	switch {
	case err != nil:
		r.logger.Error("sweep finished with errors", append(attrs, "err", err)...)
	case report.Affected > 0:
		r.logger.Info("sweep applied", attrs...)
	default:
		r.logger.Debug("sweep idle", attrs...)
	}
	return report, err
}

type cronLogger struct {
	logger *slog.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.logger.Debug("cron: "+msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.logger.Error("cron: "+msg, append(keysAndValues, "err", err)...)
}
