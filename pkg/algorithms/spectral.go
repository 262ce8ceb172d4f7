package algorithms

import (
	"gonum.org/v1/gonum/mat"
)

// AlgebraicConnectivity returns the second-smallest eigenvalue of the
// Laplacian of the subgraph induced by nodes (the Fiedler value). It is 0
// when the subgraph has fewer than two nodes or is disconnected.
//
// The dense symmetric eigendecomposition is O(n^3) in the number of nodes.
func AlgebraicConnectivity(graph Graph, nodes []int) float64 {
	n := len(nodes)
	if n < 2 {
		return 0
	}

	laplacian, edges := inducedLaplacian(graph, nodes)
	if edges < n-1 {
		return 0
	}
	if !IsConnected(newInduced(graph, nodes)) {
		return 0
	}

	var eig mat.EigenSym
	if !eig.Factorize(laplacian, false) {
		return 0
	}
	// Values are ascending
	value := eig.Values(nil)[1]
	if value < 0 {
		return 0
	}
	return value
}

// inducedLaplacian builds the Laplacian of the subgraph induced by nodes,
// rows in the order given, and counts its edges.
func inducedLaplacian(graph Graph, nodes []int) (*mat.SymDense, int) {
	n := len(nodes)
	position := make(map[int]int, n)
	for i, id := range nodes {
		position[id] = i
	}

	l := mat.NewSymDense(n, nil)
	edges := 0
	for i, id := range nodes {
		for _, neighborID := range graph.Neighbors(id) {
			j, ok := position[neighborID]
			if !ok || j <= i || l.At(i, j) != 0 {
				continue
			}
			l.SetSym(i, j, -1)
			l.SetSym(i, i, l.At(i, i)+1)
			l.SetSym(j, j, l.At(j, j)+1)
			edges++
		}
	}
	return l, edges
}

// induced restricts a Graph to a node subset.
type induced struct {
	base    Graph
	nodes   []int
	members map[int]struct{}
}

func newInduced(base Graph, nodes []int) *induced {
	members := make(map[int]struct{}, len(nodes))
	for _, id := range nodes {
		members[id] = struct{}{}
	}
	return &induced{base: base, nodes: nodes, members: members}
}

func (g *induced) Nodes() []int { return g.nodes }

func (g *induced) Contains(id int) bool {
	_, ok := g.members[id]
	return ok
}

func (g *induced) Neighbors(id int) []int {
	if !g.Contains(id) {
		return nil
	}
	var out []int
	for _, neighborID := range g.base.Neighbors(id) {
		if g.Contains(neighborID) {
			out = append(out, neighborID)
		}
	}
	return out
}
