// Package maintenance runs periodic housekeeping jobs under a Redis lock so
// only one worker replica does the work per tick.
package maintenance

import (
	"context"
	"fmt"
	"time"

	"github.com/detailpro/detailpro-backend/pkg/logger"
	"github.com/detailpro/detailpro-backend/pkg/metrics"
)

const defaultInterval = time.Hour

// Job is one unit of housekeeping. Run reports how many rows it changed.
type Job interface {
	Name() string
	Run(ctx context.Context) (int64, error)
}

type RunnerParams struct {
	Logger   *logger.Logger
	Lock     Lock
	Metrics  *metrics.MaintenanceMetrics
	Interval time.Duration
	Jobs     []Job
}

// Runner executes its jobs in order on a fixed cadence.
type Runner struct {
	logg     *logger.Logger
	lock     Lock
	metrics  *metrics.MaintenanceMetrics
	interval time.Duration
	jobs     []Job
}

func NewRunner(params RunnerParams) (*Runner, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.Lock == nil {
		return nil, fmt.Errorf("lock required")
	}
	interval := params.Interval
	if interval <= 0 {
		interval = defaultInterval
	}
	jobs := make([]Job, 0, len(params.Jobs))
	for _, job := range params.Jobs {
		if job != nil {
			jobs = append(jobs, job)
		}
	}
	return &Runner{
		logg:     params.Logger,
		lock:     params.Lock,
		metrics:  params.Metrics,
		interval: interval,
		jobs:     jobs,
	}, nil
}

// Run ticks until ctx is canceled. The first cycle starts immediately.
func (r *Runner) Run(ctx context.Context) error {
	r.tick(ctx)
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			r.tick(ctx)
		}
	}
}

func (r *Runner) tick(ctx context.Context) {
	if err := r.RunOnce(ctx); err != nil {
		r.logg.Error(ctx, "maintenance cycle failed", err)
	}
}

// RunOnce executes one cycle if the lock is free. A failing job does not stop
// the jobs after it.
func (r *Runner) RunOnce(ctx context.Context) error {
	locked, err := r.lock.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("lock acquire: %w", err)
	}
	if !locked {
		r.logg.Info(ctx, "maintenance lock held elsewhere; skipping cycle")
		return nil
	}
	defer func() {
		if err := r.lock.Release(ctx); err != nil {
			r.logg.Error(ctx, "failed to release maintenance lock", err)
		}
	}()

	for _, job := range r.jobs {
		r.runJob(ctx, job)
	}
	return nil
}

func (r *Runner) runJob(ctx context.Context, job Job) {
	ctx = r.logg.WithFields(ctx, map[string]any{
		"job":   job.Name(),
		"event": "maintenance.job",
	})
	start := time.Now()
	affected, err := job.Run(ctx)
	elapsed := time.Since(start)
	r.metrics.ObserveDuration(job.Name(), elapsed)
	r.metrics.IncRun(job.Name(), err == nil)

	ctx = r.logg.WithFields(ctx, map[string]any{
		"duration_ms":   elapsed.Milliseconds(),
		"rows_affected": affected,
	})
	if err != nil {
		r.logg.Error(ctx, "job failed", err)
		return
	}
	r.metrics.AddAffected(job.Name(), affected)
	r.logg.Info(ctx, "job completed")
}
