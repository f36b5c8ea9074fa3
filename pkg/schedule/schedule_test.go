package schedule_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/bazinga/storefront/pkg/schedule"
)

func runFor(s *schedule.Scheduler, d time.Duration) {
	ctx, cancel := context.WithTimeout(context.Background(), d)
	defer cancel()
	s.Run(ctx)
}

func TestJobsRunRepeatedly(t *testing.T) {
	s := schedule.New(schedule.WithTick(5 * time.Millisecond))

	var runs atomic.Int32
	s.Every(10*time.Millisecond, "count", func(context.Context) error {
		runs.Add(1)
		return nil
	})

	runFor(s, 150*time.Millisecond)
	assert.GreaterOrEqual(t, runs.Load(), int32(3))
}

func TestJobsDoNotOverlap(t *testing.T) {
	s := schedule.New(schedule.WithTick(2 * time.Millisecond))

	var active, maxActive atomic.Int32
	s.Every(time.Millisecond, "slow", func(context.Context) error {
		n := active.Add(1)
		if n > maxActive.Load() {
			maxActive.Store(n)
		}
		time.Sleep(20 * time.Millisecond)
		active.Add(-1)
		return nil
	})

	runFor(s, 100*time.Millisecond)
	assert.Equal(t, int32(1), maxActive.Load())
}

func TestFailingJobsStayScheduled(t *testing.T) {
	s := schedule.New(schedule.WithTick(5 * time.Millisecond))

	var errRuns, panicRuns atomic.Int32
	s.Every(5*time.Millisecond, "fails", func(context.Context) error {
		errRuns.Add(1)
		return errors.New("boom")
	})
	s.Every(5*time.Millisecond, "panics", func(context.Context) error {
		panicRuns.Add(1)
		panic("boom")
	})

	runFor(s, 100*time.Millisecond)
	assert.GreaterOrEqual(t, errRuns.Load(), int32(2))
	assert.GreaterOrEqual(t, panicRuns.Load(), int32(2))
}

func TestList(t *testing.T) {
	s := schedule.New()
	s.Every(time.Hour, "reports:daily", func(context.Context) error { return nil })
	s.Every(time.Minute, "catalog:warm", func(context.Context) error { return nil })

	assert.Equal(t, []string{"catalog:warm  [every 1m0s]", "reports:daily  [every 1h0m0s]"}, s.List())
}

func TestNonPositiveIntervalPanics(t *testing.T) {
	assert.Panics(t, func() {
		schedule.New().Every(0, "bad", func(context.Context) error { return nil })
	})
}
