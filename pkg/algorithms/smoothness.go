package algorithms

// Smoothness evaluates the Laplacian quadratic form x'Lx of a node signal
// over the subgraph induced by nodes, which equals the sum of squared signal
// differences across its edges. Lower values mean a smoother signal.
func Smoothness(graph Graph, nodes []int, signal func(id int) float64) float64 {
	if len(nodes) == 0 {
		return 0
	}
	sub := newInduced(graph, nodes)

	total := 0.0
	for _, u := range nodes {
		xu := signal(u)
		for _, v := range sub.Neighbors(u) {
			if u < v {
				d := xu - signal(v)
				total += d * d
			}
		}
	}
	return total
}
