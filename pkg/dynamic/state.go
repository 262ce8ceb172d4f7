package dynamic

import (
	"github.com/dd0wney/wsn-resilience/pkg/topology"
)

// NodeState is the mutable state of one node, addressed by node id.
type NodeState struct {
	Online       bool
	Dead         bool
	RecoverTimer int
	Energy       float64
}

// LinkState is the mutable state of one link, addressed by edge index.
type LinkState struct {
	Up        bool
	DownTimer int
}

// state is the arena of node and link state for one run.
// Invariants: Dead implies !Online and RecoverTimer == 0; DownTimer > 0
// implies !Up.
type state struct {
	graph *topology.Graph
	nodes []NodeState
	links []LinkState
}

func newState(g *topology.Graph, initialEnergy float64) *state {
	s := &state{
		graph: g,
		nodes: make([]NodeState, g.NodeCount()),
		links: make([]LinkState, g.EdgeCount()),
	}
	for i := range s.nodes {
		s.nodes[i] = NodeState{Online: true, Energy: initialEnergy}
	}
	for i := range s.links {
		s.links[i] = LinkState{Up: true}
	}
	return s
}

// operationalView returns the subgraph of online nodes and up links.
func (s *state) operationalView() *topology.View {
	return topology.BuildView(s.graph,
		func(id int) bool { return s.nodes[id].Online },
		func(edge int) bool { return s.links[edge].Up },
	)
}

func (s *state) onlineCount() int {
	count := 0
	for i := range s.nodes {
		if s.nodes[i].Online {
			count++
		}
	}
	return count
}

// kill marks a node dead. It reports false when the node already was.
func (s *state) kill(id int) bool {
	n := &s.nodes[id]
	if n.Dead {
		return false
	}
	n.Online = false
	n.Dead = true
	n.RecoverTimer = 0
	return true
}

// takeOffline forces a live node offline with a recovery timer.
func (s *state) takeOffline(id, recoverySteps int) {
	n := &s.nodes[id]
	n.Online = false
	if !n.Dead {
		n.RecoverTimer = recoverySteps
	}
}
