package experiment

import (
	"github.com/dd0wney/wsn-resilience/pkg/config"
	"github.com/dd0wney/wsn-resilience/pkg/static"
)

// FromConfig derives both sweeps of an experiment configuration.
func FromConfig(cfg *config.Config) (DynamicSweep, StaticSweep) {
	models := make([]Model, len(cfg.Models))
	for i, m := range cfg.Models {
		models[i] = Model{Name: m.Name, Type: m.Type, Params: m.Params()}
	}

	sweep := Sweep{
		Models:   models,
		NumNodes: cfg.NumNodes,
		Runs:     cfg.RunsPerSetting,
		BaseSeed: cfg.BaseSeed,
		Workers:  cfg.Workers,
	}
	return DynamicSweep{Sweep: sweep, Params: cfg.Dynamic},
		StaticSweep{
			Sweep:      sweep,
			Strategies: cfg.Static.Strategies,
			Options:    staticOptions(cfg.Static),
		}
}

func staticOptions(sc config.StaticConfig) static.Options {
	return static.Options{
		ComputeAlgebraicConnectivity: sc.ComputeAlgebraicConnectivity,
		SignalSeed:                   sc.SignalSeed,
	}
}
