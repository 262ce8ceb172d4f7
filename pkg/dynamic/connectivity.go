package dynamic

import (
	"github.com/dd0wney/wsn-resilience/pkg/algorithms"
	"github.com/dd0wney/wsn-resilience/pkg/topology"
)

// LCCFraction returns the share of all totalNodes that sit in the view's
// largest connected component. A view with nodes but no edges counts as a
// single isolated survivor, 1/totalNodes, however many nodes it holds.
func LCCFraction(view *topology.View, totalNodes int) float64 {
	if view.NodeCount() == 0 || totalNodes <= 0 {
		return 0
	}
	if view.EdgeCount() == 0 {
		return 1 / float64(totalNodes)
	}
	largest := algorithms.LargestComponent(view)
	if len(largest) == 0 {
		return 0
	}
	return float64(len(largest)) / float64(totalNodes)
}

// SpectralConnectivity returns the algebraic connectivity of the view's
// largest connected component, 0 when it is empty or degenerate.
func SpectralConnectivity(view *topology.View) float64 {
	if view.NodeCount() == 0 {
		return 0
	}
	largest := algorithms.LargestComponent(view)
	return algorithms.AlgebraicConnectivity(view, largest)
}
