package algorithms

import "sort"

// adjacency is a minimal Graph used by the tests in this package.
type adjacency map[int][]int

func newAdjacency(n int, edges ...[2]int) adjacency {
	g := make(adjacency, n)
	for i := 0; i < n; i++ {
		g[i] = nil
	}
	for _, e := range edges {
		g[e[0]] = append(g[e[0]], e[1])
		g[e[1]] = append(g[e[1]], e[0])
	}
	return g
}

func (g adjacency) Nodes() []int {
	ids := make([]int, 0, len(g))
	for id := range g {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

func (g adjacency) Contains(id int) bool {
	_, ok := g[id]
	return ok
}

func (g adjacency) Neighbors(id int) []int {
	return g[id]
}

func pathGraph(n int) adjacency {
	edges := make([][2]int, 0, n)
	for i := 0; i+1 < n; i++ {
		edges = append(edges, [2]int{i, i + 1})
	}
	return newAdjacency(n, edges...)
}

func cycleGraph(n int) adjacency {
	g := pathGraph(n)
	g[0] = append(g[0], n-1)
	g[n-1] = append(g[n-1], 0)
	return g
}

func completeGraph(n int) adjacency {
	var edges [][2]int
	for u := 0; u < n; u++ {
		for v := u + 1; v < n; v++ {
			edges = append(edges, [2]int{u, v})
		}
	}
	return newAdjacency(n, edges...)
}

func starGraph(leaves int) adjacency {
	edges := make([][2]int, 0, leaves)
	for i := 1; i <= leaves; i++ {
		edges = append(edges, [2]int{0, i})
	}
	return newAdjacency(leaves+1, edges...)
}
