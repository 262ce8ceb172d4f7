package algorithms

import (
	"errors"
	"testing"
)

// TestShortestPath_SameNode tests path from node to itself
func TestShortestPath_SameNode(t *testing.T) {
	g := pathGraph(3)

	path, err := ShortestPath(g, 1, 1)
	if err != nil {
		t.Fatalf("ShortestPath failed: %v", err)
	}
	if len(path) != 1 || path[0] != 1 {
		t.Errorf("Expected path [1], got %v", path)
	}
}

// TestShortestPath_DirectConnection tests a simple A-B path
func TestShortestPath_DirectConnection(t *testing.T) {
	g := pathGraph(2)

	path, err := ShortestPath(g, 0, 1)
	if err != nil {
		t.Fatalf("ShortestPath failed: %v", err)
	}
	if len(path) != 2 || path[0] != 0 || path[1] != 1 {
		t.Errorf("Expected path [0 1], got %v", path)
	}
}

// TestShortestPath_LinearPath tests both directions along a chain, including node 0
func TestShortestPath_LinearPath(t *testing.T) {
	g := pathGraph(6)

	tests := []struct {
		start, end int
		want       []int
	}{
		{0, 5, []int{0, 1, 2, 3, 4, 5}},
		{5, 0, []int{5, 4, 3, 2, 1, 0}},
		{1, 3, []int{1, 2, 3}},
		{0, 2, []int{0, 1, 2}},
	}

	for _, tt := range tests {
		path, err := ShortestPath(g, tt.start, tt.end)
		if err != nil {
			t.Fatalf("ShortestPath(%d, %d) failed: %v", tt.start, tt.end, err)
		}
		if len(path) != len(tt.want) {
			t.Fatalf("ShortestPath(%d, %d) = %v, want %v", tt.start, tt.end, path, tt.want)
		}
		for i := range path {
			if path[i] != tt.want[i] {
				t.Errorf("ShortestPath(%d, %d) = %v, want %v", tt.start, tt.end, path, tt.want)
				break
			}
		}
	}
}

// TestShortestPath_PrefersShortcut tests that a chord shortens the route
func TestShortestPath_PrefersShortcut(t *testing.T) {
	// Ring of 8 with chord 0-4
	g := cycleGraph(8)
	g[0] = append(g[0], 4)
	g[4] = append(g[4], 0)

	path, err := ShortestPath(g, 1, 5)
	if err != nil {
		t.Fatalf("ShortestPath failed: %v", err)
	}
	// 1-0-4-5 beats the ring route 1-2-3-4-5
	if len(path) != 4 {
		t.Errorf("Expected 4-node path through the chord, got %v", path)
	}
	assertValidPath(t, g, path, 1, 5)
}

// TestShortestPath_NoPath tests disconnected components
func TestShortestPath_NoPath(t *testing.T) {
	g := newAdjacency(4, [2]int{0, 1}, [2]int{2, 3})

	path, err := ShortestPath(g, 0, 3)
	if err != nil {
		t.Fatalf("ShortestPath failed: %v", err)
	}
	if path != nil {
		t.Errorf("Expected no path, got %v", path)
	}
}

// TestShortestPath_MissingEndpoint tests endpoints absent from the graph
func TestShortestPath_MissingEndpoint(t *testing.T) {
	g := pathGraph(3)

	if _, err := ShortestPath(g, 0, 9); !errors.Is(err, ErrNodeNotFound) {
		t.Errorf("Expected ErrNodeNotFound for missing end, got %v", err)
	}
	if _, err := ShortestPath(g, -1, 2); !errors.Is(err, ErrNodeNotFound) {
		t.Errorf("Expected ErrNodeNotFound for missing start, got %v", err)
	}
}

// TestShortestPath_MatchesBFSDistance checks path lengths against plain BFS
func TestShortestPath_MatchesBFSDistance(t *testing.T) {
	// 3x4 grid
	var edges [][2]int
	for r := 0; r < 3; r++ {
		for c := 0; c < 4; c++ {
			id := r*4 + c
			if c+1 < 4 {
				edges = append(edges, [2]int{id, id + 1})
			}
			if r+1 < 3 {
				edges = append(edges, [2]int{id, id + 4})
			}
		}
	}
	g := newAdjacency(12, edges...)

	for _, source := range g.Nodes() {
		dist := Distances(g, source)
		for _, target := range g.Nodes() {
			path, err := ShortestPath(g, source, target)
			if err != nil {
				t.Fatalf("ShortestPath(%d, %d) failed: %v", source, target, err)
			}
			if len(path)-1 != dist[target] {
				t.Errorf("ShortestPath(%d, %d) has %d hops, BFS distance is %d", source, target, len(path)-1, dist[target])
			}
			assertValidPath(t, g, path, source, target)
		}
	}
}

// TestDistances tests single-source hop distances
func TestDistances(t *testing.T) {
	g := starGraph(3)

	dist := Distances(g, 1)
	if dist[1] != 0 || dist[0] != 1 || dist[2] != 2 {
		t.Errorf("Unexpected distances %v", dist)
	}
	if Distances(g, 42) != nil {
		t.Error("Expected nil distances for missing source")
	}
}

func assertValidPath(t *testing.T, g adjacency, path []int, start, end int) {
	t.Helper()
	if len(path) == 0 || path[0] != start || path[len(path)-1] != end {
		t.Fatalf("Path %v does not run from %d to %d", path, start, end)
	}
	for i := 0; i+1 < len(path); i++ {
		linked := false
		for _, n := range g.Neighbors(path[i]) {
			if n == path[i+1] {
				linked = true
				break
			}
		}
		if !linked {
			t.Fatalf("Path %v uses missing edge %d-%d", path, path[i], path[i+1])
		}
	}
}
