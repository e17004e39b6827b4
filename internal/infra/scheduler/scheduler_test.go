package scheduler

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixedDelay time.Duration

func (e fixedDelay) Next(t time.Time) time.Time { return t.Add(time.Duration(e)) }

func TestNewSchedule(t *testing.T) {
	base := time.Date(2026, time.June, 1, 10, 0, 0, 0, time.UTC)

	every, err := NewSchedule(300*time.Second, "")
	require.NoError(t, err)
	assert.True(t, base.Add(5*time.Minute).Equal(every.Next(base)))

	hourly, err := NewSchedule(time.Second, "0 * * * *")
	require.NoError(t, err)
	assert.True(t, base.Add(time.Hour).Equal(hourly.Next(base)))

	_, err = NewSchedule(time.Second, "not a spec")
	require.Error(t, err)
}

func TestCycleRunner_RunsSequentiallyUntilStopped(t *testing.T) {
	log, _ := test.NewNullLogger()
	var runs, running, overlapped atomic.Int32

	runner := NewCycleRunner(func(ctx context.Context) error {
		if running.Add(1) > 1 {
			overlapped.Store(1)
		}
		defer running.Add(-1)
		runs.Add(1)
		time.Sleep(2 * time.Millisecond)
		return nil
	}, fixedDelay(time.Millisecond), log.WithField("component", "scheduler"))

	runner.Start(context.Background())
	require.Eventually(t, func() bool { return runs.Load() >= 3 }, 2*time.Second, time.Millisecond)
	runner.Stop()

	stopped := runs.Load()
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, stopped, runs.Load())
	assert.Zero(t, overlapped.Load())
}

func TestCycleRunner_StopInterruptsCycle(t *testing.T) {
	log, _ := test.NewNullLogger()
	started := make(chan struct{})

	runner := NewCycleRunner(func(ctx context.Context) error {
		close(started)
		<-ctx.Done()
		return ctx.Err()
	}, fixedDelay(time.Hour), log.WithField("component", "scheduler"))

	runner.Start(context.Background())
	<-started

	finished := make(chan struct{})
	go func() {
		runner.Stop()
		close(finished)
	}()
	select {
	case <-finished:
	case <-time.After(time.Second):
		t.Fatal("Stop did not return")
	}
}

func TestCycleRunner_StopWithoutStart(t *testing.T) {
	log, _ := test.NewNullLogger()
	runner := NewCycleRunner(func(context.Context) error { return nil }, fixedDelay(time.Hour), log.WithField("component", "scheduler"))

	runner.Stop()
}
