package topology

import (
	"fmt"
	"math"
	"math/rand/v2"
	"strings"
)

// ModelType names a topology family
type ModelType string

const (
	ErdosRenyi      ModelType = "ER"
	BarabasiAlbert  ModelType = "BA"
	WattsStrogatz   ModelType = "WS"
	RandomGeometric ModelType = "RGG"
	Hierarchical    ModelType = "HIER"
	Complete        ModelType = "COMPLETE"
	Path            ModelType = "PATH"
)

// ModelTypes lists every supported model type
var ModelTypes = []ModelType{ErdosRenyi, BarabasiAlbert, WattsStrogatz, RandomGeometric, Hierarchical, Complete, Path}

// ParseModelType accepts a model type name case-insensitively.
func ParseModelType(s string) (ModelType, error) {
	mt := ModelType(strings.ToUpper(strings.TrimSpace(s)))
	for _, known := range ModelTypes {
		if mt == known {
			return mt, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownModel, s)
}

// ModelParams carries the optional knobs of every generator. Zero values
// select the defaults below.
type ModelParams struct {
	P                 *float64 `yaml:"p,omitempty"`
	M                 int      `yaml:"m,omitempty"`
	K                 int      `yaml:"k,omitempty"`
	Radius            float64  `yaml:"radius,omitempty"`
	NumGateways       int      `yaml:"num_gateways,omitempty"`
	SensorsPerGateway int      `yaml:"sensors_per_gateway,omitempty"`
}

const (
	DefaultBAEdges           = 3
	DefaultWSNeighbors       = 6
	DefaultWSRewireProb      = 0.1
	DefaultRGGRadius         = 0.075
	DefaultNumGateways       = 10
	DefaultSensorsPerGateway = 49
)

// Generate builds a topology of the given family. rng drives every random
// choice, so the same seed yields the same graph. Hierarchical topologies
// derive their size from the gateway parameters and ignore n.
func Generate(model ModelType, n int, params ModelParams, rng *rand.Rand) (*Graph, error) {
	switch model {
	case ErdosRenyi:
		p := math.Log(float64(n)) / float64(n)
		if params.P != nil {
			p = *params.P
		}
		return GenerateErdosRenyi(n, p, rng)
	case BarabasiAlbert:
		m := params.M
		if m == 0 {
			m = DefaultBAEdges
		}
		return GenerateBarabasiAlbert(n, m, rng)
	case WattsStrogatz:
		k := params.K
		if k == 0 {
			k = DefaultWSNeighbors
		}
		p := DefaultWSRewireProb
		if params.P != nil {
			p = *params.P
		}
		return GenerateWattsStrogatz(n, k, p, rng)
	case RandomGeometric:
		radius := params.Radius
		if radius == 0 {
			radius = DefaultRGGRadius
		}
		return GenerateRandomGeometric(n, radius, rng)
	case Hierarchical:
		gateways := params.NumGateways
		if gateways == 0 {
			gateways = DefaultNumGateways
		}
		sensors := params.SensorsPerGateway
		if sensors == 0 {
			sensors = DefaultSensorsPerGateway
		}
		return GenerateHierarchical(gateways, sensors)
	case Complete:
		return GenerateComplete(n), nil
	case Path:
		return GeneratePath(n), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownModel, model)
	}
}

// GenerateErdosRenyi builds G(n, p): every pair is linked independently with
// probability p, pairs visited in lexicographic order.
func GenerateErdosRenyi(n int, p float64, rng *rand.Rand) (*Graph, error) {
	if n < 0 {
		return nil, fmt.Errorf("%w: n=%d", ErrInvalidModelParams, n)
	}
	g := NewGraph(n)
	if p <= 0 {
		return g, nil
	}
	if p >= 1 {
		return GenerateComplete(n), nil
	}
	for u := 0; u < n; u++ {
		for v := u + 1; v < n; v++ {
			if rng.Float64() < p {
				g.AddEdge(u, v)
			}
		}
	}
	return g, nil
}

// GenerateBarabasiAlbert grows a preferential-attachment graph from a star
// of m+1 nodes; each new node attaches to m distinct existing nodes chosen
// proportionally to degree.
func GenerateBarabasiAlbert(n, m int, rng *rand.Rand) (*Graph, error) {
	if m < 1 || m >= n {
		return nil, fmt.Errorf("%w: barabasi-albert needs 1 <= m < n, got m=%d n=%d", ErrInvalidModelParams, m, n)
	}

	g := NewGraph(n)
	repeated := make([]int, 0, 2*n*m)
	for leaf := 1; leaf <= m; leaf++ {
		g.AddEdge(0, leaf)
		repeated = append(repeated, 0, leaf)
	}

	targets := make([]int, 0, m)
	chosen := make(map[int]struct{}, m)
	for source := m + 1; source < n; source++ {
		targets = targets[:0]
		clear(chosen)
		for len(targets) < m {
			x := repeated[rng.IntN(len(repeated))]
			if _, dup := chosen[x]; dup {
				continue
			}
			chosen[x] = struct{}{}
			targets = append(targets, x)
		}
		for _, t := range targets {
			g.AddEdge(source, t)
		}
		repeated = append(repeated, targets...)
		for i := 0; i < m; i++ {
			repeated = append(repeated, source)
		}
	}
	return g, nil
}

// GenerateWattsStrogatz builds a ring lattice where every node links to its
// k/2 nearest neighbours on each side, then rewires each lattice edge with
// probability p to a uniformly chosen endpoint.
func GenerateWattsStrogatz(n, k int, p float64, rng *rand.Rand) (*Graph, error) {
	if k > n {
		return nil, fmt.Errorf("%w: watts-strogatz needs k <= n, got k=%d n=%d", ErrInvalidModelParams, k, n)
	}
	if k == n {
		return GenerateComplete(n), nil
	}

	g := NewGraph(n)
	half := k / 2
	for j := 1; j <= half; j++ {
		for u := 0; u < n; u++ {
			g.AddEdge(u, (u+j)%n)
		}
	}

	for j := 1; j <= half; j++ {
		for u := 0; u < n; u++ {
			v := (u + j) % n
			if rng.Float64() >= p {
				continue
			}
			w := rng.IntN(n)
			saturated := false
			for w == u || g.HasEdge(u, w) {
				w = rng.IntN(n)
				if g.Degree(u) >= n-1 {
					saturated = true
					break
				}
			}
			if saturated {
				continue
			}
			g.RemoveEdge(u, v)
			g.AddEdge(u, w)
		}
	}
	return g, nil
}

// GenerateRandomGeometric scatters n nodes uniformly in the unit square and
// links every pair within radius of each other.
func GenerateRandomGeometric(n int, radius float64, rng *rand.Rand) (*Graph, error) {
	if n < 0 || radius < 0 {
		return nil, fmt.Errorf("%w: n=%d radius=%v", ErrInvalidModelParams, n, radius)
	}
	g := NewGraph(n)
	for id := 0; id < n; id++ {
		g.SetPosition(id, Point{X: rng.Float64(), Y: rng.Float64()})
	}

	r2 := radius * radius
	for u := 0; u < n; u++ {
		pu := g.positions[u]
		for v := u + 1; v < n; v++ {
			pv := g.positions[v]
			dx, dy := pu.X-pv.X, pu.Y-pv.Y
			if dx*dx+dy*dy <= r2 {
				g.AddEdge(u, v)
			}
		}
	}
	return g, nil
}

// GenerateHierarchical builds a two-level sensor field: node 0 is the sink,
// nodes 1..gateways are gateways linked to the sink and chained to each
// other, and each gateway owns sensorsPerGateway leaf sensors.
func GenerateHierarchical(gateways, sensorsPerGateway int) (*Graph, error) {
	if gateways < 1 || sensorsPerGateway < 0 {
		return nil, fmt.Errorf("%w: gateways=%d sensors_per_gateway=%d", ErrInvalidModelParams, gateways, sensorsPerGateway)
	}

	total := 1 + gateways + gateways*sensorsPerGateway
	g := NewGraph(total)
	g.SetLevel(0, LevelSink)

	for gw := 1; gw <= gateways; gw++ {
		g.SetLevel(gw, LevelGateway)
		g.AddEdge(0, gw)
	}
	for gw := 1; gw < gateways; gw++ {
		g.AddEdge(gw, gw+1)
	}

	next := gateways + 1
	for gw := 1; gw <= gateways; gw++ {
		for i := 0; i < sensorsPerGateway; i++ {
			g.SetLevel(next, LevelSensor)
			g.AddEdge(gw, next)
			next++
		}
	}
	return g, nil
}

// GenerateComplete links every pair of n nodes
func GenerateComplete(n int) *Graph {
	g := NewGraph(n)
	for u := 0; u < n; u++ {
		for v := u + 1; v < n; v++ {
			g.AddEdge(u, v)
		}
	}
	return g
}

// GeneratePath links node i to node i+1
func GeneratePath(n int) *Graph {
	g := NewGraph(n)
	for u := 0; u+1 < n; u++ {
		g.AddEdge(u, u+1)
	}
	return g
}
