package config

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dd0wney/wsn-resilience/pkg/parallel"
	"github.com/dd0wney/wsn-resilience/pkg/static"
	"github.com/dd0wney/wsn-resilience/pkg/topology"
	"github.com/dd0wney/wsn-resilience/pkg/validation"
)

func TestDefault_IsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, 200, cfg.NumNodes)
	assert.Len(t, cfg.Models, 5)
	assert.Equal(t, topology.Hierarchical, cfg.Models[4].Type)
	assert.Equal(t, static.Strategies, cfg.Static.Strategies)
	require.NotNil(t, cfg.Models[2].P)
	assert.Equal(t, 0.1, *cfg.Models[2].P)
}

func TestLoadFromFile_ReferenceConfig(t *testing.T) {
	cfg, err := LoadFromFile(filepath.Join("..", "..", "configs", "reference.yaml"))
	require.NoError(t, err)

	def := Default()
	assert.Equal(t, def.Models, cfg.Models)
	assert.Equal(t, def.Dynamic, cfg.Dynamic)
	assert.Equal(t, def.Static, cfg.Static)
}

func TestParse_OverridesDefaults(t *testing.T) {
	cfg, err := Parse([]byte(`
num_nodes: 50
num_runs_per_setting: 3
models:
  - name: small-world
    model_type: ws
    k: 6
dynamic:
  steps: 250
  link_flip_prob: 0.01
static:
  strategies: [Random]
`))
	require.NoError(t, err)

	assert.Equal(t, 50, cfg.NumNodes)
	require.Len(t, cfg.Models, 1)
	assert.Equal(t, topology.WattsStrogatz, cfg.Models[0].Type, "model type is canonicalised")
	assert.Equal(t, 6, cfg.Models[0].Params().K)
	assert.Equal(t, 250, cfg.Dynamic.Steps)
	assert.Equal(t, 100.0, cfg.Dynamic.InitialEnergy, "unset fields keep defaults")
	assert.Equal(t, []static.Strategy{static.Random}, cfg.Static.Strategies)
}

func TestParse_Rejects(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"no models", "models: []"},
		{"unknown model type", "models: [{name: x, model_type: LATTICE}]"},
		{"duplicate model names", "models: [{name: a, model_type: ER}, {name: a, model_type: BA}]"},
		{"probability above one", "models: [{name: a, model_type: ER, p: 1.5}]"},
		{"ba m too large", "num_nodes: 3\nmodels: [{name: a, model_type: BA, m: 3}]"},
		{"zero runs", "num_runs_per_setting: 0"},
		{"unknown strategy", "static: {strategies: [pagerank]}"},
		{"flapping without down timer", "dynamic: {link_flip_prob: 0.1, link_down_steps: 0}"},
		{"prefix without bucket", "output: {s3_prefix: runs/}"},
		{"bad listen addr", "metrics: {listen_addr: nonsense}"},
		{"endpoint without bucket", "output: {s3_endpoint: 'http://localhost:9000'}"},
		{"too many workers", "workers: 5000"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			require.Error(t, err)
			assert.ErrorIs(t, err, validation.ErrInvalid)
		})
	}
}

func TestParse_WorkersCeiling(t *testing.T) {
	cfg, err := Parse([]byte(fmt.Sprintf("workers: %d", parallel.MaxWorkers)))
	require.NoError(t, err)
	assert.Equal(t, parallel.MaxWorkers, cfg.Workers)

	_, err = Parse([]byte(fmt.Sprintf("workers: %d", parallel.MaxWorkers+1)))
	assert.ErrorIs(t, err, validation.ErrInvalid)
}

func TestParse_MalformedYAML(t *testing.T) {
	_, err := Parse([]byte("num_nodes: [oops"))
	require.Error(t, err)
	assert.NotErrorIs(t, err, validation.ErrInvalid)
}

func TestLoadFromFile_Missing(t *testing.T) {
	_, err := LoadFromFile(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("WSNSIM_WORKERS", "3")
	t.Setenv("WSNSIM_S3_BUCKET", "results")
	t.Setenv("WSNSIM_POSTGRES_URL", "postgres://localhost/wsnsim")
	t.Setenv("WSNSIM_S3_ACCESS_KEY_ID", "minio")
	t.Setenv("WSNSIM_S3_SECRET_ACCESS_KEY", "minio-secret")

	cfg, err := Parse(nil)
	require.NoError(t, err)
	assert.Equal(t, 3, cfg.Workers)
	assert.Equal(t, "results", cfg.Output.S3Bucket)
	assert.Equal(t, "postgres://localhost/wsnsim", cfg.Output.PostgresURL)
	assert.Equal(t, "minio", cfg.Output.S3AccessKeyID)

	t.Setenv("WSNSIM_S3_SECRET_ACCESS_KEY", "")
	t.Setenv("WSNSIM_S3_ACCESS_KEY_ID", "only-id")
	_, err = Parse(nil)
	assert.ErrorIs(t, err, validation.ErrInvalid, "an access key needs its secret")
}
