package algorithms

// TriangleCountResult holds per-node triangle counts, the global count and
// the local clustering coefficients.
type TriangleCountResult struct {
	PerNode                map[int]int
	GlobalCount            int
	ClusteringCoefficients map[int]float64
	// AverageClustering is the mean local coefficient over all nodes, with
	// nodes of degree < 2 contributing 0.
	AverageClustering float64
	TopNodes          []RankedNode
}

// CountTriangles counts triangles in an undirected graph. For each node u it
// checks every pair (v,w) of u's neighbours; each triangle is seen once per
// participating node, so GlobalCount = sum(PerNode) / 3. Self-loops and
// repeated neighbours are ignored.
func CountTriangles(graph Graph) *TriangleCountResult {
	nodeIDs := graph.Nodes()

	neighborSets := make(map[int]map[int]bool, len(nodeIDs))
	for _, u := range nodeIDs {
		set := make(map[int]bool)
		for _, v := range graph.Neighbors(u) {
			if v != u && graph.Contains(v) {
				set[v] = true
			}
		}
		neighborSets[u] = set
	}

	perNode := make(map[int]int, len(nodeIDs))
	total := 0
	for _, u := range nodeIDs {
		nbrs := make([]int, 0, len(neighborSets[u]))
		for v := range neighborSets[u] {
			nbrs = append(nbrs, v)
		}

		count := 0
		for i := 0; i < len(nbrs); i++ {
			for j := i + 1; j < len(nbrs); j++ {
				if neighborSets[nbrs[i]][nbrs[j]] {
					count++
				}
			}
		}
		perNode[u] = count
		total += count
	}

	coefficients := make(map[int]float64, len(nodeIDs))
	scores := make(map[int]float64, len(nodeIDs))
	sum := 0.0
	for _, u := range nodeIDs {
		scores[u] = float64(perNode[u])
		k := len(neighborSets[u])
		if k < 2 {
			coefficients[u] = 0
			continue
		}
		coefficients[u] = float64(perNode[u]) / float64(k*(k-1)/2)
		sum += coefficients[u]
	}

	result := &TriangleCountResult{
		PerNode:                perNode,
		GlobalCount:            total / 3,
		ClusteringCoefficients: coefficients,
	}
	if len(nodeIDs) > 0 {
		result.AverageClustering = sum / float64(len(nodeIDs))
	}

	top := RankNodes(graph, scores)
	if len(top) > 10 {
		top = top[:10]
	}
	result.TopNodes = top
	return result
}
