package dynamic

import (
	"math/rand/v2"
)

// drainEnergy applies the base drain to every online node, then charges the
// path: transmit cost for the sender and every relay, receive cost for the
// receiver. Nodes already offline are skipped. It returns the nodes that died
// during this call, in the order they died.
func (s *state) drainEnergy(path []int, p Params) []int {
	var died []int

	for id := range s.nodes {
		if !s.nodes[id].Online {
			continue
		}
		if s.charge(id, p.BaseEnergyDrain) {
			died = append(died, id)
		}
	}

	if len(path) < 2 {
		return died
	}

	last := len(path) - 1
	for _, id := range path[:last] {
		if s.nodes[id].Online && s.charge(id, p.TxEnergyCost) {
			died = append(died, id)
		}
	}
	if receiver := path[last]; s.nodes[receiver].Online && s.charge(receiver, p.RxEnergyCost) {
		died = append(died, receiver)
	}
	return died
}

// charge subtracts cost from an online node and kills it once its energy
// reaches zero. It reports whether the node died.
func (s *state) charge(id int, cost float64) bool {
	s.nodes[id].Energy -= cost
	if s.nodes[id].Energy <= 0 {
		return s.kill(id)
	}
	return false
}

// failRandomNode forces one uniformly chosen online, non-dead node offline
// with a recovery timer. It draws from rng only when a candidate exists.
func (s *state) failRandomNode(rng *rand.Rand, recoverySteps int) (int, bool) {
	candidates := make([]int, 0, len(s.nodes))
	for id := range s.nodes {
		if s.nodes[id].Online && !s.nodes[id].Dead {
			candidates = append(candidates, id)
		}
	}
	if len(candidates) == 0 {
		return 0, false
	}

	victim := candidates[rng.IntN(len(candidates))]
	s.takeOffline(victim, recoverySteps)
	return victim, true
}

// stepRecoveries counts down the timer of every offline, non-dead node and
// brings it back online when the timer reaches zero. It returns the number
// of nodes that rejoined.
func (s *state) stepRecoveries() int {
	rejoined := 0
	for id := range s.nodes {
		n := &s.nodes[id]
		if n.Online || n.Dead || n.RecoverTimer <= 0 {
			continue
		}
		n.RecoverTimer--
		if n.RecoverTimer == 0 {
			n.Online = true
			rejoined++
		}
	}
	return rejoined
}
