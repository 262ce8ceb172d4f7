package dynamic

import (
	"math/rand/v2"

	"github.com/dd0wney/wsn-resilience/pkg/algorithms"
	"github.com/dd0wney/wsn-resilience/pkg/topology"
)

// attemptPacket picks two distinct operational nodes uniformly at random and
// routes between them over the view. Too few nodes, a missing endpoint or a
// missing route are failed deliveries, not errors.
func attemptPacket(view *topology.View, rng *rand.Rand) (bool, []int) {
	nodes := view.Nodes()
	if len(nodes) < 2 {
		return false, nil
	}

	i := rng.IntN(len(nodes))
	j := rng.IntN(len(nodes) - 1)
	if j >= i {
		j++
	}

	path, err := algorithms.ShortestPath(view, nodes[i], nodes[j])
	if err != nil || path == nil {
		return false, nil
	}
	return true, path
}
