package usecase

import (
	"context"
	"time"

	"github.com/AzielCF/az-autopost/core/config"
	domainJob "github.com/AzielCF/az-autopost/domains/job"
	"github.com/AzielCF/az-autopost/pkg/timeutils"
	"github.com/dustin/go-humanize"
	"github.com/sirupsen/logrus"
)

const (
	DefaultCoarseThreshold = 60 * time.Second
	DefaultCoarseInterval  = 30 * time.Second
	DefaultFineMinimum     = 500 * time.Millisecond
	DefaultInterJobDelay   = 5 * time.Second
)

// RunSummary is what a dispatcher run did, in execution order.
type RunSummary struct {
	Total     int
	Succeeded int
	Failed    int
	Results   []domainJob.ExecutionResult
}

// Dispatcher runs a batch in target-time order, one job at a time.
type Dispatcher struct {
	clock Clock
	cfg   config.SchedulerConfig
}

func NewDispatcher(rc *RunContext) *Dispatcher {
	clock := rc.Clock
	if clock == nil {
		clock = NewSystemClock()
	}
	return &Dispatcher{clock: clock, cfg: withSchedulerDefaults(rc.schedulerConfig())}
}

func withSchedulerDefaults(cfg config.SchedulerConfig) config.SchedulerConfig {
	if cfg.CoarseThreshold <= 0 {
		cfg.CoarseThreshold = DefaultCoarseThreshold
	}
	if cfg.CoarseInterval <= 0 {
		cfg.CoarseInterval = DefaultCoarseInterval
	}
	if cfg.FineMinimum <= 0 {
		cfg.FineMinimum = DefaultFineMinimum
	}
	if cfg.InterJobDelay < 0 {
		cfg.InterJobDelay = DefaultInterJobDelay
	}
	return cfg
}

// Run executes every job exactly once. A failed job never stops the run; only ctx
// cancellation does, in which case the remaining jobs are skipped and ctx.Err() is returned.
func (d *Dispatcher) Run(ctx context.Context, batch domainJob.Batch, executor domainJob.IJobExecutor) (RunSummary, error) {
	jobs := batch.Sorted()
	summary := RunSummary{Results: make([]domainJob.ExecutionResult, 0, len(jobs))}

	for i, j := range jobs {
		if err := d.waitUntil(ctx, j); err != nil {
			logrus.Warnf("[SCHEDULER] stopped before job %d of %d: %v", i+1, len(jobs), err)
			return summary, err
		}

		logrus.Infof("[SCHEDULER] posting now: %s (scheduled for %s)", j.ContentPath, j.TargetTime.Format(domainJob.ScheduleLayout))
		res := executor.Execute(ctx, j)
		summary.add(res)

		if err := d.clock.Sleep(ctx, d.cfg.InterJobDelay); err != nil {
			return summary, err
		}
	}

	logrus.Infof("[SCHEDULER] all scheduled jobs processed: %d succeeded, %d failed", summary.Succeeded, summary.Failed)
	return summary, nil
}

func (d *Dispatcher) waitUntil(ctx context.Context, j domainJob.Job) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		remaining := j.TargetTime.Sub(d.clock.Now())
		if remaining <= 0 {
			return nil
		}

		sleep := timeutils.MaxDuration(d.cfg.FineMinimum, remaining)
		if remaining > d.cfg.CoarseThreshold {
			logrus.Infof("[SCHEDULER] Waiting %s until %s to post '%s' (%s) ...",
				timeutils.Countdown(remaining), j.TargetTime.Format(domainJob.ScheduleLayout), j.FileName(), humanize.Time(j.TargetTime))
			sleep = d.cfg.CoarseInterval
		}

		if err := d.clock.Sleep(ctx, sleep); err != nil {
			return err
		}
	}
}

func (s *RunSummary) add(res domainJob.ExecutionResult) {
	s.Total++
	if res.Succeeded() {
		s.Succeeded++
	} else {
		s.Failed++
	}
	s.Results = append(s.Results, res)
}
