package dynamic

import (
	"math/rand/v2"

	"github.com/dd0wney/wsn-resilience/pkg/topology"
)

// quietParams disables scheduled failures and flapping so tests enable only
// the mechanism under test.
func quietParams(steps int) Params {
	p := DefaultParams()
	p.Steps = steps
	p.NodeFailurePeriod = 0
	p.LinkFlipProb = 0
	return p
}

func testRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, RandomStream))
}

func mustGenerate(model topology.ModelType, n int, seed uint64) *topology.Graph {
	g, err := topology.Generate(model, n, topology.ModelParams{}, rand.New(rand.NewPCG(seed, 0)))
	if err != nil {
		panic(err)
	}
	return g
}
