package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// CycleFunc runs one full watch cycle. It returns an error only when ctx is done.
type CycleFunc func(ctx context.Context) error

// CycleRunner runs cycles strictly one after another. The next cycle is
// scheduled from the moment the previous one finished, so cycles never overlap.
type CycleRunner struct {
	cycle    CycleFunc
	schedule cron.Schedule
	logger   *logrus.Entry

	cancel context.CancelFunc
	done   chan struct{}
	mu     sync.Mutex
}

// NewSchedule returns cron.Every(interval), or the parsed cronSpec when it is set.
func NewSchedule(interval time.Duration, cronSpec string) (cron.Schedule, error) {
	if cronSpec == "" {
		return cron.Every(interval), nil
	}
	sched, err := cron.ParseStandard(cronSpec)
	if err != nil {
		return nil, fmt.Errorf("invalid cycle cron spec %q: %w", cronSpec, err)
	}
	return sched, nil
}

func NewCycleRunner(cycle CycleFunc, schedule cron.Schedule, logger *logrus.Entry) *CycleRunner {
	return &CycleRunner{
		cycle:    cycle,
		schedule: schedule,
		logger:   logger,
	}
}

// Start launches the loop in the background. The first cycle runs immediately.
func (r *CycleRunner) Start(ctx context.Context) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.done != nil {
		return
	}

	ctx, r.cancel = context.WithCancel(ctx)
	r.done = make(chan struct{})
	r.logger.Info("Starting watch loop...")

	go func() {
		defer close(r.done)
		r.run(ctx)
	}()
}

func (r *CycleRunner) run(ctx context.Context) {
	for {
		if err := r.cycle(ctx); err != nil {
			r.logger.WithError(err).Info("Cycle interrupted")
			return
		}

		now := time.Now()
		next := r.schedule.Next(now)
		r.logger.Infof("Full cycle complete. Sleeping %s until %s.", next.Sub(now).Round(time.Millisecond), next.Format(time.RFC3339))

		timer := time.NewTimer(next.Sub(now))
		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-timer.C:
		}
	}
}

// Stop cancels the loop and waits for the running cycle to return.
func (r *CycleRunner) Stop() {
	r.mu.Lock()
	cancel, done := r.cancel, r.done
	r.mu.Unlock()
	if done == nil {
		return
	}

	r.logger.Info("Stopping watch loop...")
	cancel()
	<-done
	r.logger.Info("Watch loop gracefully stopped.")
}
