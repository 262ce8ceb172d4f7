package dynamic

import (
	"github.com/dd0wney/wsn-resilience/pkg/validation"
)

// Params fully determines the behaviour of a run.
type Params struct {
	// Steps is the number of time steps simulated.
	Steps int `yaml:"steps" validate:"gte=0"`
	// PacketRate is the number of delivery attempts per step.
	PacketRate int `yaml:"packet_rate" validate:"gte=0"`
	// NodeFailurePeriod forces one random node offline every N steps; 0 disables it.
	NodeFailurePeriod int `yaml:"node_failure_period" validate:"gte=0"`
	// NodeRecoverySteps is how long a failed node stays offline.
	NodeRecoverySteps int `yaml:"node_recovery_steps" validate:"gte=0"`

	BaseEnergyDrain float64 `yaml:"base_energy_drain" validate:"gte=0"`
	TxEnergyCost    float64 `yaml:"tx_energy_cost" validate:"gte=0"`
	RxEnergyCost    float64 `yaml:"rx_energy_cost" validate:"gte=0"`
	InitialEnergy   float64 `yaml:"initial_energy" validate:"gt=0"`

	// LinkFlipProb is the per-step chance an up link goes down; 0 disables flapping.
	LinkFlipProb  float64 `yaml:"link_flip_prob" validate:"gte=0,lte=1"`
	LinkDownSteps int     `yaml:"link_down_steps" validate:"gte=0"`

	// TTREpsilon is the tolerated shortfall from the pre-failure LCC baseline.
	TTREpsilon float64 `yaml:"ttr_epsilon" validate:"gte=0,lte=1"`

	// ComputeAlgebraicConnectivity adds the Fiedler value of the LCC to every
	// record. It is cubic in the component size.
	ComputeAlgebraicConnectivity bool `yaml:"compute_algebraic_connectivity"`
}

// DefaultParams returns the parameters of the reference experiment.
func DefaultParams() Params {
	return Params{
		Steps:             1000,
		PacketRate:        1,
		NodeFailurePeriod: 100,
		NodeRecoverySteps: 20,
		BaseEnergyDrain:   0.05,
		TxEnergyCost:      0.05,
		RxEnergyCost:      0.02,
		InitialEnergy:     100,
		LinkFlipProb:      0,
		LinkDownSteps:     10,
		TTREpsilon:        0.02,
	}
}

// Validate rejects parameters that would produce degenerate output. A failed
// node must always get a recovery timer, and a flapped link must always come
// back, so the matching durations must be positive while those models are on.
func (p Params) Validate() error {
	if err := validation.Struct(p); err != nil {
		return err
	}
	return validation.NewConfigValidator("dynamic").
		When(p.NodeFailurePeriod > 0, func(cv *validation.ConfigValidator) {
			cv.Positive("node_recovery_steps", p.NodeRecoverySteps)
		}).
		When(p.LinkFlipProb > 0, func(cv *validation.ConfigValidator) {
			cv.Positive("link_down_steps", p.LinkDownSteps)
		}).
		Validate()
}
