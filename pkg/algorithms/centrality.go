package algorithms

import (
	"sort"
)

// brandesCentrality runs a single O(VE) Brandes pass over an undirected graph
// and returns raw node betweenness. Every unordered pair is counted from both
// ends; BetweennessCentrality normalises for that.
func brandesCentrality(graph Graph) ([]float64, []int) {
	nodeIDs := graph.Nodes()
	bound := maxNodeID(nodeIDs)

	betweenness := make([]float64, bound)
	stack := make([]int, 0, len(nodeIDs))
	predecessors := make([][]int, bound)
	sigma := make([]float64, bound)
	distance := make([]int, bound)
	delta := make([]float64, bound)

	for _, source := range nodeIDs {
		stack = stack[:0]
		for _, nodeID := range nodeIDs {
			predecessors[nodeID] = predecessors[nodeID][:0]
			sigma[nodeID] = 0
			distance[nodeID] = -1
			delta[nodeID] = 0
		}
		sigma[source] = 1
		distance[source] = 0

		queue := []int{source}
		for head := 0; head < len(queue); head++ {
			v := queue[head]
			stack = append(stack, v)

			for _, w := range graph.Neighbors(v) {
				if distance[w] < 0 {
					queue = append(queue, w)
					distance[w] = distance[v] + 1
				}
				if distance[w] == distance[v]+1 {
					sigma[w] += sigma[v]
					predecessors[w] = append(predecessors[w], v)
				}
			}
		}

		// Back-propagation
		for i := len(stack) - 1; i >= 0; i-- {
			w := stack[i]
			for _, v := range predecessors[w] {
				delta[v] += (sigma[v] / sigma[w]) * (1 + delta[w])
			}
			if w != source {
				betweenness[w] += delta[w]
			}
		}
	}

	return betweenness, nodeIDs
}

// BetweennessCentrality computes normalised betweenness centrality for all
// nodes: how often a node lies on shortest paths between other nodes.
func BetweennessCentrality(graph Graph) map[int]float64 {
	raw, nodeIDs := brandesCentrality(graph)

	normFactor := 1.0
	if n := len(nodeIDs); n > 2 {
		normFactor = 1.0 / float64((n-1)*(n-2))
	}

	result := make(map[int]float64, len(nodeIDs))
	for _, nodeID := range nodeIDs {
		result[nodeID] = raw[nodeID] * normFactor
	}
	return result
}

// DegreeCentrality computes degree / (n-1) for all nodes.
func DegreeCentrality(graph Graph) map[int]float64 {
	nodeIDs := graph.Nodes()
	degree := make(map[int]float64, len(nodeIDs))
	for _, nodeID := range nodeIDs {
		if len(nodeIDs) > 1 {
			degree[nodeID] = float64(len(graph.Neighbors(nodeID))) / float64(len(nodeIDs)-1)
		} else {
			degree[nodeID] = 0
		}
	}
	return degree
}

// RankedNode holds a node with its centrality score.
type RankedNode struct {
	NodeID int     `json:"node_id"`
	Score  float64 `json:"score"`
}

// RankNodes orders every node by score descending. Equal scores keep the
// order graph.Nodes() returns, so rankings are deterministic.
func RankNodes(graph Graph, scores map[int]float64) []RankedNode {
	nodeIDs := graph.Nodes()
	ranked := make([]RankedNode, len(nodeIDs))
	for i, nodeID := range nodeIDs {
		ranked[i] = RankedNode{NodeID: nodeID, Score: scores[nodeID]}
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})
	return ranked
}
