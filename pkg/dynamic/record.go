package dynamic

import (
	"math"
)

// StepRecord is the immutable snapshot emitted at the end of every step.
type StepRecord struct {
	Step              int
	LCC               float64
	OnlineFraction    float64
	SuccessfulPackets int
	TotalPackets      int
	DDRCumulative     float64
	DeliveredThisStep int
	// AlgebraicConnectivity is nil unless Params.ComputeAlgebraicConnectivity is set.
	AlgebraicConnectivity *float64
}

// Summary aggregates one run. Times are step indices; +Inf marks an event
// that never happened, and TTR mean/median are +Inf when no event resolved.
type Summary struct {
	DDRFinal          float64
	TimeToFirstDeath  float64
	TimeToLCCCollapse float64
	TTREventsCount    int
	TTRMean           float64
	TTRMedian         float64
}

// Result is everything a completed run produced.
type Result struct {
	Records []StepRecord
	Summary Summary
	Events  []TTREvent
	// DeadNodes is the number of energy-dead nodes at the end of the run.
	DeadNodes int
}

// LCCCollapseThreshold is the LCC fraction below which the network counts
// as collapsed.
const LCCCollapseThreshold = 0.5

func stepOrInf(step int) float64 {
	if step < 0 {
		return math.Inf(1)
	}
	return float64(step)
}
