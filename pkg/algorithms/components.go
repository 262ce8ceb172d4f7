package algorithms

// Component is one connected component of a graph.
type Component struct {
	ID    int
	Nodes []int
	Size  int
}

// ComponentResult partitions a graph's nodes into connected components.
type ComponentResult struct {
	Components    []*Component
	NodeComponent map[int]int // Node ID -> Component ID
}

// Largest returns the biggest component, the first discovered on ties, or
// nil when the graph is empty.
func (r *ComponentResult) Largest() *Component {
	var best *Component
	for _, c := range r.Components {
		if best == nil || c.Size > best.Size {
			best = c
		}
	}
	return best
}

// ConnectedComponents finds all connected components with BFS, visiting
// start nodes in the order graph.Nodes() returns them.
func ConnectedComponents(graph Graph) *ComponentResult {
	nodeIDs := graph.Nodes()
	visited := make([]bool, maxNodeID(nodeIDs))
	nodeComponent := make(map[int]int, len(nodeIDs))
	components := make([]*Component, 0)

	for _, startNode := range nodeIDs {
		if visited[startNode] {
			continue
		}

		component := &Component{ID: len(components)}
		component.Nodes = bfsCollect(graph, startNode, visited, nil)
		for _, nodeID := range component.Nodes {
			nodeComponent[nodeID] = component.ID
		}
		component.Size = len(component.Nodes)
		components = append(components, component)
	}

	return &ComponentResult{
		Components:    components,
		NodeComponent: nodeComponent,
	}
}

// LargestComponent returns the nodes of the largest connected component
// without materialising the full partition. Ties keep the component found
// first. The result is nil for an empty graph.
func LargestComponent(graph Graph) []int {
	nodeIDs := graph.Nodes()
	visited := make([]bool, maxNodeID(nodeIDs))

	var largest, scratch []int
	for _, startNode := range nodeIDs {
		if visited[startNode] {
			continue
		}
		scratch = bfsCollect(graph, startNode, visited, scratch[:0])
		if len(scratch) > len(largest) {
			largest, scratch = scratch, largest
		}
		// A component larger than half the graph cannot be beaten
		if 2*len(largest) > len(nodeIDs) {
			break
		}
	}
	return largest
}

// IsConnected reports whether the graph is non-empty and has a single component.
func IsConnected(graph Graph) bool {
	nodeIDs := graph.Nodes()
	if len(nodeIDs) == 0 {
		return false
	}
	visited := make([]bool, maxNodeID(nodeIDs))
	return len(bfsCollect(graph, nodeIDs[0], visited, nil)) == len(nodeIDs)
}

// bfsCollect appends every node reachable from start to out, marking them in
// visited.
func bfsCollect(graph Graph, start int, visited []bool, out []int) []int {
	visited[start] = true
	out = append(out, start)
	for head := len(out) - 1; head < len(out); head++ {
		for _, neighborID := range graph.Neighbors(out[head]) {
			if neighborID < len(visited) && !visited[neighborID] {
				visited[neighborID] = true
				out = append(out, neighborID)
			}
		}
	}
	return out
}
