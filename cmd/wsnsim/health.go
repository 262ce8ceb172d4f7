package main

import (
	"context"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/dd0wney/wsn-resilience/pkg/experiment"
	"github.com/dd0wney/wsn-resilience/pkg/health"
	"github.com/dd0wney/wsn-resilience/pkg/report"
)

const pingTimeout = 2 * time.Second

// sweepTracker mirrors sweep progress for the health endpoints.
type sweepTracker struct {
	done  atomic.Int64
	total atomic.Int64

	mu  sync.Mutex
	ctx context.Context
}

// track wraps next so every progress report is recorded, and remembers ctx
// to report cancellation.
func (t *sweepTracker) track(ctx context.Context, next experiment.ProgressFunc) experiment.ProgressFunc {
	t.mu.Lock()
	t.ctx = ctx
	t.mu.Unlock()

	return func(done, total int) {
		t.done.Store(int64(done))
		t.total.Store(int64(total))
		if next != nil {
			next(done, total)
		}
	}
}

func (t *sweepTracker) state() health.SweepState {
	t.mu.Lock()
	ctx := t.ctx
	t.mu.Unlock()

	return health.SweepState{
		Done:      int(t.done.Load()),
		Total:     int(t.total.Load()),
		Cancelled: ctx != nil && ctx.Err() != nil,
	}
}

func memoryUsage() (alloc, sys uint64) {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	return m.Alloc, m.Sys
}

// newChecker registers the sweep and memory checks, and a readiness ping
// for every sink that can be pinged.
func newChecker(tracker *sweepTracker, sinks []report.Sink) *health.Checker {
	c := health.NewChecker()
	c.Register("sweep", health.SweepCheck(tracker.state))
	c.Register("memory", health.MemoryCheck(memoryUsage))

	c.RegisterReadiness("sweep", health.SweepCheck(tracker.state))
	for _, s := range sinks {
		if pg, ok := s.(*report.PostgresSink); ok {
			c.RegisterReadiness("postgres", health.PingCheck(pg.Ping, pingTimeout))
		}
	}
	return c
}
