package topology

// View is an induced subgraph of a Graph: the nodes accepted by a node
// predicate and the edges between them accepted by an edge predicate.
// Node ids are the parent graph's ids. A View is a snapshot; it does not
// follow later changes to whatever state the predicates read.
type View struct {
	present   []bool
	nodes     []int
	neighbors [][]int
	edges     int
}

// BuildView derives the induced subgraph in O(nodes+edges). Either predicate
// may be nil, meaning "keep everything".
func BuildView(g *Graph, nodeAlive func(id int) bool, edgeAlive func(edge int) bool) *View {
	n := g.NodeCount()
	v := &View{
		present:   make([]bool, n),
		nodes:     make([]int, 0, n),
		neighbors: make([][]int, n),
	}

	for id := 0; id < n; id++ {
		if nodeAlive == nil || nodeAlive(id) {
			v.present[id] = true
			v.nodes = append(v.nodes, id)
		}
	}

	for _, id := range v.nodes {
		nbrs := g.neighbors[id]
		edges := g.edgeOf[id]
		var kept []int
		for i, other := range nbrs {
			if !v.present[other] {
				continue
			}
			if edgeAlive != nil && !edgeAlive(edges[i]) {
				continue
			}
			kept = append(kept, other)
			if id < other {
				v.edges++
			}
		}
		v.neighbors[id] = kept
	}

	return v
}

// NodeCount returns the number of nodes in the view
func (v *View) NodeCount() int {
	return len(v.nodes)
}

// EdgeCount returns the number of edges in the view
func (v *View) EdgeCount() int {
	return v.edges
}

// Nodes returns the view's node ids in ascending order. Callers must not modify it.
func (v *View) Nodes() []int {
	return v.nodes
}

// Contains reports whether id is part of the view
func (v *View) Contains(id int) bool {
	return id >= 0 && id < len(v.present) && v.present[id]
}

// Neighbors returns the neighbours of id inside the view.
func (v *View) Neighbors(id int) []int {
	if !v.Contains(id) {
		return nil
	}
	return v.neighbors[id]
}
