// Package schedule runs periodic background jobs inside the server process.
//
//	s := schedule.New()
//	s.Every(4*time.Minute, "catalog:warm", catalog.Warm)
//	go s.Run(ctx)
package schedule

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/bazinga/storefront/pkg/logger"
)

// Task is one run of a job. Errors are logged; the job stays scheduled.
type Task func(ctx context.Context) error

type entry struct {
	name     string
	interval time.Duration
	task     Task

	mu      sync.Mutex
	lastRun time.Time
	running bool
}

// Scheduler dispatches registered jobs whenever their interval has elapsed.
// A job never overlaps with its own previous run.
type Scheduler struct {
	tick time.Duration

	mu      sync.Mutex
	entries []*entry
	wg      sync.WaitGroup
}

type Option func(*Scheduler)

// WithTick sets how often due jobs are checked. The default is one second.
func WithTick(d time.Duration) Option {
	return func(s *Scheduler) { s.tick = d }
}

func New(opts ...Option) *Scheduler {
	s := &Scheduler{tick: time.Second}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Every registers task to run every interval, the first time on the first
// tick after Run starts.
func (s *Scheduler) Every(interval time.Duration, name string, task Task) {
	if interval <= 0 {
		panic(fmt.Sprintf("schedule: non-positive interval for %q", name))
	}
	s.mu.Lock()
	s.entries = append(s.entries, &entry{name: name, interval: interval, task: task})
	s.mu.Unlock()
}

// Run dispatches due jobs until ctx is cancelled, then waits for running
// jobs to return.
func (s *Scheduler) Run(ctx context.Context) {
	ticker := time.NewTicker(s.tick)
	defer ticker.Stop()

	logger.Info("schedule: started", "jobs", len(s.List()))
	for {
		select {
		case <-ctx.Done():
			s.wg.Wait()
			logger.Info("schedule: stopped")
			return
		case now := <-ticker.C:
			s.mu.Lock()
			current := append([]*entry(nil), s.entries...)
			s.mu.Unlock()

			for _, e := range current {
				s.dispatch(ctx, e, now)
			}
		}
	}
}

func (s *Scheduler) dispatch(ctx context.Context, e *entry, now time.Time) {
	e.mu.Lock()
	if e.running || (!e.lastRun.IsZero() && now.Sub(e.lastRun) < e.interval) {
		e.mu.Unlock()
		return
	}
	e.running = true
	e.lastRun = now
	e.mu.Unlock()

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		defer func() {
			if r := recover(); r != nil {
				logger.Error("schedule: job panicked", "job", e.name, "panic", r)
			}
			e.mu.Lock()
			e.running = false
			e.mu.Unlock()
		}()

		start := time.Now()
		if err := e.task(ctx); err != nil {
			logger.Error("schedule: job failed", "job", e.name, "error", err)
			return
		}
		logger.Debug("schedule: job finished", "job", e.name, "duration_ms", time.Since(start).Milliseconds())
	}()
}

// List describes the registered jobs, sorted by name.
func (s *Scheduler) List() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]string, 0, len(s.entries))
	for _, e := range s.entries {
		out = append(out, fmt.Sprintf("%s  [every %s]", e.name, e.interval))
	}
	sort.Strings(out)
	return out
}
