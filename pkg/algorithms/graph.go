package algorithms

import "errors"

// ErrNodeNotFound is returned when a query names a node outside the graph.
var ErrNodeNotFound = errors.New("node not found")

// Graph is the read-only adjacency capability every algorithm in this
// package runs over. Both full topologies and operational views satisfy it.
type Graph interface {
	// Nodes returns the node ids present in the graph.
	Nodes() []int
	// Contains reports whether id is present.
	Contains(id int) bool
	// Neighbors returns the nodes adjacent to id.
	Neighbors(id int) []int
}

// maxNodeID returns one past the largest id in nodes so visit tracking can
// use a dense slice instead of a map.
func maxNodeID(nodes []int) int {
	bound := 0
	for _, id := range nodes {
		if id+1 > bound {
			bound = id + 1
		}
	}
	return bound
}
