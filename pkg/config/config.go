// Package config loads experiment configuration from YAML files and
// environment variables.
package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/dd0wney/wsn-resilience/pkg/dynamic"
	"github.com/dd0wney/wsn-resilience/pkg/static"
	"github.com/dd0wney/wsn-resilience/pkg/topology"
	"github.com/dd0wney/wsn-resilience/pkg/validation"
)

// Config describes a full experiment: which topologies to build, how many
// seeded runs of each, and where the tables go.
type Config struct {
	// NumNodes is the size of every generated topology except hierarchical
	// ones, whose size follows from their gateway parameters.
	NumNodes int `yaml:"num_nodes" validate:"gte=1"`

	// RunsPerSetting is the number of seeded runs per model (and per
	// strategy for static sweeps). Run r uses seed BaseSeed+r.
	RunsPerSetting int    `yaml:"num_runs_per_setting" validate:"gte=1"`
	BaseSeed       uint64 `yaml:"base_seed"`

	// Workers bounds concurrent runs; 0 uses every CPU. The ceiling matches
	// parallel.MaxWorkers.
	Workers int `yaml:"workers" validate:"gte=0,lte=1024"`

	// Models are run in the order listed.
	Models []ModelConfig `yaml:"models" validate:"required,min=1,unique=Name,dive"`

	Dynamic dynamic.Params `yaml:"dynamic"`
	Static  StaticConfig   `yaml:"static"`
	Output  OutputConfig   `yaml:"output"`
	Metrics MetricsConfig  `yaml:"metrics"`
}

// ModelConfig names one topology family and its generator knobs. Zero
// values select the generator defaults.
type ModelConfig struct {
	Name              string             `yaml:"name" validate:"required"`
	Type              topology.ModelType `yaml:"model_type" validate:"required"`
	P                 *float64           `yaml:"p,omitempty" validate:"omitempty,gte=0,lte=1"`
	M                 int                `yaml:"m,omitempty" validate:"gte=0"`
	K                 int                `yaml:"k,omitempty" validate:"gte=0"`
	Radius            float64            `yaml:"radius,omitempty" validate:"gte=0"`
	NumGateways       int                `yaml:"num_gateways,omitempty" validate:"gte=0"`
	SensorsPerGateway int                `yaml:"sensors_per_gateway,omitempty" validate:"gte=0"`
}

// Params converts the knobs to generator parameters.
func (m ModelConfig) Params() topology.ModelParams {
	return topology.ModelParams{
		P:                 m.P,
		M:                 m.M,
		K:                 m.K,
		Radius:            m.Radius,
		NumGateways:       m.NumGateways,
		SensorsPerGateway: m.SensorsPerGateway,
	}
}

// StaticConfig configures attack sweeps.
type StaticConfig struct {
	Strategies                   []static.Strategy `yaml:"strategies" validate:"required,min=1,unique"`
	ComputeAlgebraicConnectivity bool              `yaml:"compute_algebraic_connectivity"`
	SignalSeed                   uint64            `yaml:"signal_seed"`
}

// OutputConfig names the result tables and optional remote sinks.
type OutputConfig struct {
	TimeSeries string `yaml:"timeseries" validate:"required"`
	Summary    string `yaml:"summary" validate:"required"`
	Static     string `yaml:"static" validate:"required"`

	// Compress writes snappy-framed files with a .sz suffix.
	Compress bool `yaml:"compress"`

	S3Bucket   string `yaml:"s3_bucket"`
	S3Prefix   string `yaml:"s3_prefix"`
	S3Region   string `yaml:"s3_region"`
	S3Endpoint string `yaml:"s3_endpoint" validate:"omitempty,url"`

	// Static S3 keys are only read from the environment.
	S3AccessKeyID     string `yaml:"-"`
	S3SecretAccessKey string `yaml:"-"`

	PostgresURL string `yaml:"postgres_url"`
}

// MetricsConfig controls Prometheus exposition.
type MetricsConfig struct {
	ListenAddr string `yaml:"listen_addr" validate:"omitempty,hostname_port"`
	Textfile   string `yaml:"textfile"`
}

// Default returns the reference experiment: five 200-node topology families,
// 100 runs each.
func Default() *Config {
	return &Config{
		NumNodes:       200,
		RunsPerSetting: 100,
		BaseSeed:       42,
		Models: []ModelConfig{
			{Name: "Erdos-Renyi", Type: topology.ErdosRenyi},
			{Name: "Barabasi-Albert", Type: topology.BarabasiAlbert, M: 2},
			{Name: "Watts-Strogatz", Type: topology.WattsStrogatz, K: 4, P: ptr(0.1)},
			{Name: "Random Geometric", Type: topology.RandomGeometric, Radius: 0.075},
			{Name: "Hierarchical", Type: topology.Hierarchical, NumGateways: 20, SensorsPerGateway: 9},
		},
		Dynamic: dynamic.DefaultParams(),
		Static: StaticConfig{
			Strategies:                   append([]static.Strategy(nil), static.Strategies...),
			ComputeAlgebraicConnectivity: true,
			SignalSeed:                   static.DefaultSignalSeed,
		},
		Output: OutputConfig{
			TimeSeries: "dynamic_timeseries.csv",
			Summary:    "dynamic_summary.csv",
			Static:     "static_analysis.csv",
		},
	}
}

func ptr[T any](v T) *T {
	return &v
}

// LoadFromFile reads a YAML file over the defaults, applies environment
// overrides and validates the result.
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	return Parse(data)
}

// Parse decodes YAML over the defaults, applies environment overrides and
// validates the result.
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}
	applyEnvOverrides(cfg)
	if err := cfg.Normalize(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Normalize canonicalises model type and strategy spellings.
func (c *Config) Normalize() error {
	cv := validation.NewConfigValidator("")
	for i := range c.Models {
		cv.Custom(fmt.Sprintf("models[%d].model_type", i), func() error {
			mt, err := topology.ParseModelType(string(c.Models[i].Type))
			if err == nil {
				c.Models[i].Type = mt
			}
			return err
		})
	}
	for i := range c.Static.Strategies {
		cv.Custom(fmt.Sprintf("static.strategies[%d]", i), func() error {
			st, err := static.ParseStrategy(string(c.Static.Strategies[i]))
			if err == nil {
				c.Static.Strategies[i] = st
			}
			return err
		})
	}
	return cv.Validate()
}

// Validate checks struct tags, then the rules that span fields.
func (c *Config) Validate() error {
	if err := validation.Struct(c); err != nil {
		return err
	}
	if err := c.Dynamic.Validate(); err != nil {
		return err
	}

	cv := validation.NewConfigValidator("")
	for i, m := range c.Models {
		field := fmt.Sprintf("models[%d]", i)
		cv.When(m.Type == topology.BarabasiAlbert && m.M > 0, func(cv *validation.ConfigValidator) {
			cv.Below(field+".m", m.M, "num_nodes", c.NumNodes)
		})
		cv.When(m.Type == topology.WattsStrogatz && m.K > 0, func(cv *validation.ConfigValidator) {
			cv.AtMost(field+".k", m.K, "num_nodes", c.NumNodes)
		})
	}
	cv.When(c.Output.S3Prefix != "" || c.Output.S3Endpoint != "", func(cv *validation.ConfigValidator) {
		cv.Required("output.s3_bucket", c.Output.S3Bucket)
	})
	cv.When(c.Output.S3AccessKeyID != "", func(cv *validation.ConfigValidator) {
		cv.Required("output.s3_secret_access_key", c.Output.S3SecretAccessKey)
	})
	return cv.Validate()
}

// applyEnvOverrides applies environment variable overrides to the config.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("WSNSIM_POSTGRES_URL"); v != "" {
		cfg.Output.PostgresURL = v
	}
	if v := os.Getenv("WSNSIM_S3_BUCKET"); v != "" {
		cfg.Output.S3Bucket = v
	}
	if v := os.Getenv("WSNSIM_S3_ACCESS_KEY_ID"); v != "" {
		cfg.Output.S3AccessKeyID = v
	}
	if v := os.Getenv("WSNSIM_S3_SECRET_ACCESS_KEY"); v != "" {
		cfg.Output.S3SecretAccessKey = v
	}
	if v := os.Getenv("WSNSIM_WORKERS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Workers = n
		}
	}
	if v := os.Getenv("WSNSIM_METRICS_ADDR"); v != "" {
		cfg.Metrics.ListenAddr = v
	}
}
