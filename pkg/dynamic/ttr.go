package dynamic

// TTREvent tracks one scheduled failure until connectivity returns to
// within epsilon of the LCC fraction measured just before it.
type TTREvent struct {
	StartStep   int
	BaselineLCC float64
	// RecoveredAt is set once, to the first step the baseline was re-attained.
	RecoveredAt *int
}

// Resolved reports whether the event has recovered.
func (e TTREvent) Resolved() bool {
	return e.RecoveredAt != nil
}

// Duration returns the number of steps to recovery.
func (e TTREvent) Duration() (int, bool) {
	if e.RecoveredAt == nil {
		return 0, false
	}
	return *e.RecoveredAt - e.StartStep, true
}

type ttrTracker struct {
	epsilon float64
	events  []TTREvent
}

func (t *ttrTracker) open(step int, baseline float64) {
	t.events = append(t.events, TTREvent{StartStep: step, BaselineLCC: baseline})
}

// resolve marks every open event whose threshold lcc meets. It returns the
// number of events resolved at this step.
func (t *ttrTracker) resolve(step int, lcc float64) int {
	resolved := 0
	for i := range t.events {
		ev := &t.events[i]
		if ev.RecoveredAt != nil {
			continue
		}
		if lcc >= max(0, ev.BaselineLCC*(1-t.epsilon)) {
			at := step
			ev.RecoveredAt = &at
			resolved++
		}
	}
	return resolved
}

// durations returns the recovery time of every resolved event.
func (t *ttrTracker) durations() []float64 {
	out := make([]float64, 0, len(t.events))
	for _, ev := range t.events {
		if d, ok := ev.Duration(); ok {
			out = append(out, float64(d))
		}
	}
	return out
}

// snapshot copies the events so callers cannot alter the tracker.
func (t *ttrTracker) snapshot() []TTREvent {
	out := make([]TTREvent, len(t.events))
	for i, ev := range t.events {
		out[i] = ev
		if ev.RecoveredAt != nil {
			at := *ev.RecoveredAt
			out[i].RecoveredAt = &at
		}
	}
	return out
}
