package health

import (
	"context"
	"time"
)

// SweepState is a snapshot of a running sweep.
type SweepState struct {
	Done      int
	Total     int
	Cancelled bool
}

// SweepCheck reports sweep progress. A cancelled sweep is degraded: it is
// still finishing the runs it started.
func SweepCheck(state func() SweepState) CheckFunc {
	return func() Check {
		s := state()
		check := Check{
			Status: StatusHealthy,
			Details: map[string]any{
				"done":  s.Done,
				"total": s.Total,
			},
		}
		switch {
		case s.Cancelled:
			check.Status = StatusDegraded
			check.Message = "Cancelled, draining started runs"
		case s.Total > 0 && s.Done >= s.Total:
			check.Message = "Sweep complete"
		default:
			check.Message = "Sweep running"
		}
		return check
	}
}

// PingCheck reports whether a dependency answers ping within timeout.
func PingCheck(ping func(ctx context.Context) error, timeout time.Duration) CheckFunc {
	return func() Check {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		if err := ping(ctx); err != nil {
			return Check{Status: StatusUnhealthy, Message: err.Error()}
		}
		return Check{Status: StatusHealthy, Message: "Connected"}
	}
}

// MemoryCheck is degraded when more than 90% of the memory obtained from the
// OS is allocated.
func MemoryCheck(getUsage func() (alloc, sys uint64)) CheckFunc {
	return func() Check {
		alloc, sys := getUsage()
		check := Check{
			Status: StatusHealthy,
			Details: map[string]any{
				"alloc_bytes": alloc,
				"sys_bytes":   sys,
			},
			Message: "Memory usage normal",
		}
		if sys > 0 && float64(alloc)/float64(sys) > 0.9 {
			check.Status = StatusDegraded
			check.Message = "High memory usage"
		}
		return check
	}
}
