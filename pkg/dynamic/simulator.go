package dynamic

import (
	"errors"
	"fmt"
	"math/rand/v2"

	"github.com/dd0wney/wsn-resilience/pkg/logging"
	"github.com/dd0wney/wsn-resilience/pkg/stats"
	"github.com/dd0wney/wsn-resilience/pkg/topology"
)

// ErrEmptyTopology is returned when a run is requested on a graph with no nodes.
var ErrEmptyTopology = errors.New("topology has no nodes")

// RandomStream selects the PCG stream simulations draw from, keeping them
// independent of topology generation seeded with the same value.
const RandomStream uint64 = 0x5157

// Option configures a Simulator.
type Option func(*Simulator)

// WithLogger sets the logger used for debug events inside the step loop.
func WithLogger(logger logging.Logger) Option {
	return func(s *Simulator) {
		s.logger = logger
	}
}

// WithStepHook registers a function called with every record as it is emitted.
func WithStepHook(hook func(StepRecord)) Option {
	return func(s *Simulator) {
		s.hooks = append(s.hooks, hook)
	}
}

// Simulator runs one seeded, single-threaded degradation run. It owns all
// node and link state; the topology is only read.
type Simulator struct {
	params Params
	seed   uint64
	rng    *rand.Rand
	st     *state
	ttr    ttrTracker

	logger logging.Logger
	hooks  []func(StepRecord)

	step        int
	total       int
	successful  int
	firstDeath  int
	lccCollapse int
	records     []StepRecord
}

// New prepares a run over g. Every node starts online with full energy and
// every link up. Invalid params and empty graphs are rejected.
func New(g *topology.Graph, params Params, seed uint64, opts ...Option) (*Simulator, error) {
	if err := params.Validate(); err != nil {
		return nil, fmt.Errorf("dynamic params: %w", err)
	}
	if g == nil || g.NodeCount() == 0 {
		return nil, ErrEmptyTopology
	}

	s := &Simulator{
		params:      params,
		seed:        seed,
		rng:         rand.New(rand.NewPCG(seed, RandomStream)),
		st:          newState(g, params.InitialEnergy),
		ttr:         ttrTracker{epsilon: params.TTREpsilon},
		logger:      logging.NewNopLogger(),
		firstDeath:  -1,
		lccCollapse: -1,
		records:     make([]StepRecord, 0, params.Steps),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Done reports whether all configured steps have run.
func (s *Simulator) Done() bool {
	return s.step >= s.params.Steps
}

// Step advances the simulation by one step and returns its record.
func (s *Simulator) Step() StepRecord {
	t := s.step
	p := s.params
	total := len(s.st.nodes)

	// (a) scheduled failure, baseline captured first
	if p.NodeFailurePeriod > 0 && t > 0 && t%p.NodeFailurePeriod == 0 {
		baseline := LCCFraction(s.st.operationalView(), total)
		if victim, ok := s.st.failRandomNode(s.rng, p.NodeRecoverySteps); ok {
			s.ttr.open(t, baseline)
			if s.logger.Enabled(logging.DebugLevel) {
				s.logger.Debug("node failure injected",
					logging.Step(t), logging.NodeID(victim), logging.Float64("baseline_lcc", baseline))
			}
		}
	}

	// (b) link flapping, (c) recovery countdown
	s.st.stepLinkInstability(s.rng, p.LinkFlipProb, p.LinkDownSteps)
	s.st.stepRecoveries()

	// (d) delivery attempts; state is not modified until the drain below,
	// so one view serves every attempt
	delivered := 0
	var pathUsed []int
	if p.PacketRate > 0 {
		view := s.st.operationalView()
		for range p.PacketRate {
			ok, path := attemptPacket(view, s.rng)
			s.total++
			if ok {
				s.successful++
				delivered++
				pathUsed = path
			}
		}
	}

	// (e) energy, charging only the last delivered path
	died := s.st.drainEnergy(pathUsed, p)
	if len(died) > 0 {
		if s.firstDeath < 0 {
			s.firstDeath = t
		}
		if s.logger.Enabled(logging.DebugLevel) {
			s.logger.Debug("nodes depleted", logging.Step(t), logging.Count(len(died)))
		}
	}

	// (f) metrics
	view := s.st.operationalView()
	lcc := LCCFraction(view, total)
	if s.lccCollapse < 0 && lcc < LCCCollapseThreshold {
		s.lccCollapse = t
	}

	// (g) TTR resolution
	s.ttr.resolve(t, lcc)

	// (h) record
	rec := StepRecord{
		Step:              t,
		LCC:               lcc,
		OnlineFraction:    stats.Ratio(s.st.onlineCount(), total),
		SuccessfulPackets: s.successful,
		TotalPackets:      s.total,
		DDRCumulative:     stats.Ratio(s.successful, s.total),
		DeliveredThisStep: delivered,
	}
	if p.ComputeAlgebraicConnectivity {
		ac := SpectralConnectivity(view)
		rec.AlgebraicConnectivity = &ac
	}

	s.records = append(s.records, rec)
	for _, hook := range s.hooks {
		hook(rec)
	}
	s.step++
	return rec
}

// Run executes every remaining step and returns the result. There is no
// early exit: a collapsed network still produces a record per step.
func (s *Simulator) Run() *Result {
	for !s.Done() {
		s.Step()
	}
	return s.Result()
}

// Result returns the records so far and the summary over them.
func (s *Simulator) Result() *Result {
	durations := s.ttr.durations()
	dead := 0
	for i := range s.st.nodes {
		if s.st.nodes[i].Dead {
			dead++
		}
	}

	return &Result{
		Records: append([]StepRecord(nil), s.records...),
		Summary: Summary{
			DDRFinal:          stats.Ratio(s.successful, s.total),
			TimeToFirstDeath:  stepOrInf(s.firstDeath),
			TimeToLCCCollapse: stepOrInf(s.lccCollapse),
			TTREventsCount:    len(s.ttr.events),
			TTRMean:           stats.Mean(durations),
			TTRMedian:         stats.Median(durations),
		},
		Events:    s.ttr.snapshot(),
		DeadNodes: dead,
	}
}

// Seed returns the seed the run was created with.
func (s *Simulator) Seed() uint64 {
	return s.seed
}

// Nodes returns a copy of the current node states, indexed by node id.
func (s *Simulator) Nodes() []NodeState {
	return append([]NodeState(nil), s.st.nodes...)
}

// Links returns a copy of the current link states, indexed by edge index.
func (s *Simulator) Links() []LinkState {
	return append([]LinkState(nil), s.st.links...)
}

// Events returns a copy of the TTR events opened so far.
func (s *Simulator) Events() []TTREvent {
	return s.ttr.snapshot()
}
