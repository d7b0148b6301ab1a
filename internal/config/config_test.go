package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/utakatalp/match-simulator/internal/engine"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, "{}\n"))
	require.NoError(t, err)

	hybrid := engine.DefaultHybridParams()
	assert.Equal(t, ":8080", cfg.HTTP.Addr)
	assert.Equal(t, engine.StrategyHybrid, cfg.Sim.Strategy)
	assert.Equal(t, engine.DefaultK, cfg.Sim.K)
	assert.Equal(t, hybrid.DrawBias, cfg.Sim.DrawBias)
	assert.Equal(t, hybrid.EloFactor, cfg.Sim.EloFactor)
	assert.Equal(t, 10000, cfg.Sim.Runs)
	assert.Equal(t, 1.0, cfg.Rating.Alpha)
	assert.Equal(t, 100.0, cfg.Rating.Sigma)
	assert.True(t, cfg.Rebuild.Enabled)

	require.NoError(t, cfg.Validate())
}

func TestLoadOverrides(t *testing.T) {
	cfg, err := Load(writeConfig(t, `
http:
  addr: ":9191"
logging:
  level: debug
  format: text
sim:
  strategy: elo
  k: 32
  runs: 500
  seed: 99
rating:
  sigma: 150
`))
	require.NoError(t, err)

	assert.Equal(t, ":9191", cfg.HTTP.Addr)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, engine.StrategyElo, cfg.Sim.Strategy)
	assert.Equal(t, 32.0, cfg.Sim.K)
	assert.Equal(t, 500, cfg.Sim.Runs)
	assert.Equal(t, uint64(99), cfg.Sim.Seed)
	assert.Equal(t, 150.0, cfg.Rating.Sigma)
	require.NoError(t, cfg.Validate())
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("MATCHSIM_SIM_STRATEGY", "elo")
	t.Setenv("MATCHSIM_HTTP_ADDR", ":7070")

	cfg, err := Load(writeConfig(t, "{}\n"))
	require.NoError(t, err)
	assert.Equal(t, engine.StrategyElo, cfg.Sim.Strategy)
	assert.Equal(t, ":7070", cfg.HTTP.Addr)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	valid := func(t *testing.T) *Config {
		cfg, err := Load(writeConfig(t, "{}\n"))
		require.NoError(t, err)
		return cfg
	}

	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty addr", func(c *Config) { c.HTTP.Addr = "" }},
		{"empty database url", func(c *Config) { c.Database.URL = "" }},
		{"bad log level", func(c *Config) { c.Logging.Level = "loud" }},
		{"bad log format", func(c *Config) { c.Logging.Format = "xml" }},
		{"zero sigma", func(c *Config) { c.Rating.Sigma = 0 }},
		{"bad strategy", func(c *Config) { c.Sim.Strategy = "quantum" }},
		{"zero k", func(c *Config) { c.Sim.K = 0 }},
		{"draw bias too high", func(c *Config) { c.Sim.DrawBias = 1.5 }},
		{"negative elo factor", func(c *Config) { c.Sim.EloFactor = -1 }},
		{"zero runs", func(c *Config) { c.Sim.Runs = 0 }},
		{"rebuild without spec", func(c *Config) { c.Rebuild.Enabled = true; c.Rebuild.Spec = "" }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := valid(t)
			tc.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}
