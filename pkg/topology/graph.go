package topology

import (
	"fmt"
)

// Point is a position in the unit square used by spatial models.
type Point struct {
	X float64
	Y float64
}

// Edge is an undirected link between two node indices. U < V always holds.
type Edge struct {
	U int
	V int
}

// Level identifies a tier in hierarchical topologies.
type Level int

const (
	LevelNone Level = iota - 1
	LevelSink
	LevelGateway
	LevelSensor
)

// String returns the label used by the hierarchical generator
func (l Level) String() string {
	switch l {
	case LevelSink:
		return "Sink"
	case LevelGateway:
		return "Gateway"
	case LevelSensor:
		return "Sensor"
	default:
		return "None"
	}
}

// Graph is an undirected simple graph stored as an arena: node ids are the
// indices 0..n-1 and edges are addressed by their position in Edges().
// The node and edge sets are fixed once a simulation starts.
type Graph struct {
	neighbors [][]int
	edgeOf    [][]int // parallel to neighbors: edge index of each adjacency entry
	edges     []Edge
	index     map[Edge]int

	positions []Point
	levels    []Level
}

// NewGraph creates a graph with n isolated nodes.
func NewGraph(n int) *Graph {
	if n < 0 {
		n = 0
	}
	return &Graph{
		neighbors: make([][]int, n),
		edgeOf:    make([][]int, n),
		edges:     make([]Edge, 0),
		index:     make(map[Edge]int),
	}
}

// NodeCount returns the number of nodes
func (g *Graph) NodeCount() int {
	return len(g.neighbors)
}

// EdgeCount returns the number of undirected edges
func (g *Graph) EdgeCount() int {
	return len(g.edges)
}

// AddNode appends a new isolated node and returns its id.
func (g *Graph) AddNode() int {
	g.neighbors = append(g.neighbors, nil)
	g.edgeOf = append(g.edgeOf, nil)
	if g.positions != nil {
		g.positions = append(g.positions, Point{})
	}
	if g.levels != nil {
		g.levels = append(g.levels, LevelNone)
	}
	return len(g.neighbors) - 1
}

// AddEdge adds the undirected edge u-v. Self-loops and duplicates are ignored
// and reported with false.
func (g *Graph) AddEdge(u, v int) (bool, error) {
	if !g.Contains(u) || !g.Contains(v) {
		return false, fmt.Errorf("edge %d-%d: %w", u, v, ErrNodeNotFound)
	}
	if u == v {
		return false, nil
	}
	key := edgeKey(u, v)
	if _, exists := g.index[key]; exists {
		return false, nil
	}

	idx := len(g.edges)
	g.edges = append(g.edges, key)
	g.index[key] = idx

	g.neighbors[u] = append(g.neighbors[u], v)
	g.edgeOf[u] = append(g.edgeOf[u], idx)
	g.neighbors[v] = append(g.neighbors[v], u)
	g.edgeOf[v] = append(g.edgeOf[v], idx)
	return true, nil
}

// RemoveEdge deletes u-v. Only generators use it, before any simulation
// state is attached to edge indices; it reindexes the edge list.
func (g *Graph) RemoveEdge(u, v int) bool {
	key := edgeKey(u, v)
	idx, ok := g.index[key]
	if !ok {
		return false
	}

	g.neighbors[u], g.edgeOf[u] = dropNeighbor(g.neighbors[u], g.edgeOf[u], v)
	g.neighbors[v], g.edgeOf[v] = dropNeighbor(g.neighbors[v], g.edgeOf[v], u)

	// Move the last edge into the freed slot
	last := len(g.edges) - 1
	delete(g.index, key)
	if idx != last {
		moved := g.edges[last]
		g.edges[idx] = moved
		g.index[moved] = idx
		g.retargetEdge(moved.U, last, idx)
		g.retargetEdge(moved.V, last, idx)
	}
	g.edges = g.edges[:last]
	return true
}

func (g *Graph) retargetEdge(node, from, to int) {
	for i, e := range g.edgeOf[node] {
		if e == from {
			g.edgeOf[node][i] = to
			return
		}
	}
}

func dropNeighbor(nbrs, edges []int, target int) ([]int, []int) {
	for i, n := range nbrs {
		if n == target {
			nbrs = append(nbrs[:i], nbrs[i+1:]...)
			edges = append(edges[:i], edges[i+1:]...)
			break
		}
	}
	return nbrs, edges
}

// HasEdge reports whether u-v exists
func (g *Graph) HasEdge(u, v int) bool {
	_, ok := g.index[edgeKey(u, v)]
	return ok
}

// EdgeIndex returns the index of u-v in Edges().
func (g *Graph) EdgeIndex(u, v int) (int, bool) {
	idx, ok := g.index[edgeKey(u, v)]
	return idx, ok
}

// Edges returns the edge list. Callers must not modify it.
func (g *Graph) Edges() []Edge {
	return g.edges
}

// Degree returns the number of neighbours of id
func (g *Graph) Degree(id int) int {
	if !g.Contains(id) {
		return 0
	}
	return len(g.neighbors[id])
}

// Nodes returns all node ids in ascending order.
func (g *Graph) Nodes() []int {
	ids := make([]int, len(g.neighbors))
	for i := range ids {
		ids[i] = i
	}
	return ids
}

// Contains reports whether id is a node of the graph
func (g *Graph) Contains(id int) bool {
	return id >= 0 && id < len(g.neighbors)
}

// Neighbors returns the adjacency list of id. Callers must not modify it.
func (g *Graph) Neighbors(id int) []int {
	if !g.Contains(id) {
		return nil
	}
	return g.neighbors[id]
}

// IncidentEdges returns the edge indices parallel to Neighbors(id).
func (g *Graph) IncidentEdges(id int) []int {
	if !g.Contains(id) {
		return nil
	}
	return g.edgeOf[id]
}

// SetPosition attaches a spatial coordinate to a node.
func (g *Graph) SetPosition(id int, p Point) {
	if !g.Contains(id) {
		return
	}
	if g.positions == nil {
		g.positions = make([]Point, len(g.neighbors))
	}
	g.positions[id] = p
}

// Position returns the coordinate of id and whether the graph is spatial.
func (g *Graph) Position(id int) (Point, bool) {
	if g.positions == nil || !g.Contains(id) {
		return Point{}, false
	}
	return g.positions[id], true
}

// SetLevel attaches a hierarchy level to a node.
func (g *Graph) SetLevel(id int, l Level) {
	if !g.Contains(id) {
		return
	}
	if g.levels == nil {
		g.levels = make([]Level, len(g.neighbors))
		for i := range g.levels {
			g.levels[i] = LevelNone
		}
	}
	g.levels[id] = l
}

// Level returns the hierarchy level of id, LevelNone for flat topologies.
func (g *Graph) Level(id int) Level {
	if g.levels == nil || !g.Contains(id) {
		return LevelNone
	}
	return g.levels[id]
}

// Clone returns a deep copy so independent runs never share adjacency.
func (g *Graph) Clone() *Graph {
	c := &Graph{
		neighbors: make([][]int, len(g.neighbors)),
		edgeOf:    make([][]int, len(g.edgeOf)),
		edges:     append([]Edge(nil), g.edges...),
		index:     make(map[Edge]int, len(g.index)),
	}
	for i := range g.neighbors {
		c.neighbors[i] = append([]int(nil), g.neighbors[i]...)
		c.edgeOf[i] = append([]int(nil), g.edgeOf[i]...)
	}
	for k, v := range g.index {
		c.index[k] = v
	}
	if g.positions != nil {
		c.positions = append([]Point(nil), g.positions...)
	}
	if g.levels != nil {
		c.levels = append([]Level(nil), g.levels...)
	}
	return c
}

func edgeKey(u, v int) Edge {
	if u > v {
		u, v = v, u
	}
	return Edge{U: u, V: v}
}
