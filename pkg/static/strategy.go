package static

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"strings"

	"github.com/dd0wney/wsn-resilience/pkg/algorithms"
	"github.com/dd0wney/wsn-resilience/pkg/topology"
)

// ErrUnknownStrategy is returned for attack strategy names that are not supported.
var ErrUnknownStrategy = errors.New("unknown attack strategy")

// Strategy selects the order in which an attack removes nodes.
type Strategy string

const (
	// Random removes nodes in a uniformly shuffled order.
	Random Strategy = "random"
	// TargetedDegree removes the highest-degree nodes first.
	TargetedDegree Strategy = "targeted_degree"
	// TargetedCentrality removes the nodes with the highest betweenness first.
	TargetedCentrality Strategy = "targeted_centrality"
)

// Strategies lists every supported strategy in the order sweeps run them.
var Strategies = []Strategy{Random, TargetedDegree, TargetedCentrality}

// ParseStrategy accepts a strategy name case-insensitively.
func ParseStrategy(s string) (Strategy, error) {
	st := Strategy(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Strategies {
		if st == known {
			return st, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownStrategy, s)
}

// RemovalOrder returns every node of g in the order the strategy removes
// them. Targeted orders are computed once on the intact graph; ties keep
// ascending node id. Only Random draws from rng.
func RemovalOrder(g *topology.Graph, strategy Strategy, rng *rand.Rand) ([]int, error) {
	switch strategy {
	case Random:
		order := g.Nodes()
		rng.Shuffle(len(order), func(i, j int) {
			order[i], order[j] = order[j], order[i]
		})
		return order, nil
	case TargetedDegree:
		return rankedIDs(algorithms.RankNodes(g, algorithms.DegreeCentrality(g))), nil
	case TargetedCentrality:
		return rankedIDs(algorithms.RankNodes(g, algorithms.BetweennessCentrality(g))), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownStrategy, strategy)
	}
}

func rankedIDs(ranked []algorithms.RankedNode) []int {
	ids := make([]int, len(ranked))
	for i, r := range ranked {
		ids[i] = r.NodeID
	}
	return ids
}
