// Package static runs sequential node-removal attacks against a topology
// and measures how connectivity and signal smoothness degrade.
package static

import (
	"math/rand/v2"

	"github.com/dd0wney/wsn-resilience/pkg/algorithms"
	"github.com/dd0wney/wsn-resilience/pkg/topology"
)

// SignalStream selects the PCG stream the smoothness signal is drawn from.
const SignalStream uint64 = 0x516e

// DefaultSignalSeed seeds the smoothness signal when none is configured.
const DefaultSignalSeed uint64 = 42

// Options tunes what an attack measures.
type Options struct {
	ComputeAlgebraicConnectivity bool
	SignalSeed                   uint64
}

// Measurement is the state of the network after Step removals. Step 0 is
// the intact graph.
type Measurement struct {
	Step                  int
	NodesRemovedFraction  float64
	LCC                   float64
	Smoothness            float64
	AlgebraicConnectivity *float64
}

// Result holds one attack: the removal order and n+1 measurements.
type Result struct {
	Strategy     Strategy
	Order        []int
	Measurements []Measurement
}

// Signal draws the fixed per-node signal used for smoothness, one uniform
// value in [0,1) per node id.
func Signal(n int, seed uint64) []float64 {
	rng := rand.New(rand.NewPCG(seed, SignalStream))
	signal := make([]float64, n)
	for i := range signal {
		signal[i] = rng.Float64()
	}
	return signal
}

// Attack removes the nodes of g one at a time in the strategy's order,
// measuring the largest component after each removal. g is not modified.
// rng is consumed only by the random strategy.
func Attack(g *topology.Graph, strategy Strategy, opts Options, rng *rand.Rand) (*Result, error) {
	order, err := RemovalOrder(g, strategy, rng)
	if err != nil {
		return nil, err
	}

	n := g.NodeCount()
	signal := Signal(n, opts.SignalSeed)
	removed := make([]bool, n)
	alive := func(id int) bool { return !removed[id] }

	res := &Result{
		Strategy:     strategy,
		Order:        order,
		Measurements: make([]Measurement, 0, n+1),
	}
	res.Measurements = append(res.Measurements, measure(g, alive, 0, signal, opts))
	for i, id := range order {
		removed[id] = true
		res.Measurements = append(res.Measurements, measure(g, alive, i+1, signal, opts))
	}
	return res, nil
}

func measure(g *topology.Graph, alive func(int) bool, step int, signal []float64, opts Options) Measurement {
	n := g.NodeCount()
	m := Measurement{Step: step}
	if n > 0 {
		m.NodesRemovedFraction = float64(step) / float64(n)
	}

	view := topology.BuildView(g, alive, nil)
	lcc := algorithms.LargestComponent(view)
	if len(lcc) > 0 {
		m.LCC = float64(len(lcc)) / float64(n)
		m.Smoothness = algorithms.Smoothness(view, lcc, func(id int) float64 { return signal[id] })
	}
	if opts.ComputeAlgebraicConnectivity {
		ac := algorithms.AlgebraicConnectivity(view, lcc)
		m.AlgebraicConnectivity = &ac
	}
	return m
}
