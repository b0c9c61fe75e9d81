package main

import (
	"path/filepath"
	"testing"

	"github.com/san-kum/entropywalk/internal/config"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parsedRunCmd(t *testing.T, args ...string) *cobra.Command {
	t.Helper()
	env := viper.New()
	env.SetDefault("DATA", t.TempDir())
	env.SetDefault("LOG_LEVEL", "warn")

	root := newRootCmd(env)
	cmd, _, err := root.Find([]string{"run"})
	require.NoError(t, err)
	require.NoError(t, cmd.ParseFlags(args))
	return cmd
}

func TestResolveConfig_Defaults(t *testing.T) {
	cfg, err := resolveConfig(parsedRunCmd(t))
	require.NoError(t, err)

	require.Len(t, cfg.Populations, 2)
	assert.Equal(t, "pseudo", cfg.Populations[0].Source)
	assert.Equal(t, "hybrid", cfg.Populations[1].Source)
	assert.Equal(t, "warn", cfg.LogLevel)
}

func TestResolveConfig_FlagsOverridePreset(t *testing.T) {
	cmd := parsedRunCmd(t, "--preset", "bias", "--walkers", "4", "--ticks", "50", "--seed", "9")
	cfg, err := resolveConfig(cmd)
	require.NoError(t, err)

	assert.Equal(t, 50, cfg.Ticks)
	for i, p := range cfg.Populations {
		assert.Equal(t, 4, p.Walkers, p.Name)
		assert.Equal(t, uint64(9+i), p.Seed, p.Name)
	}
}

func TestResolveConfig_Sources(t *testing.T) {
	cmd := parsedRunCmd(t, "--sources", "pseudo,biased,pseudo", "--fault-every", "5")
	cfg, err := resolveConfig(cmd)
	require.NoError(t, err)

	require.Len(t, cfg.Populations, 3)
	assert.Equal(t, "biased-2", cfg.Populations[1].Name)
	assert.Equal(t, 5, cfg.Populations[2].FaultEvery)
	assert.Zero(t, cfg.Populations[0].FaultEvery)
}

func TestResolveConfig_Errors(t *testing.T) {
	_, err := resolveConfig(parsedRunCmd(t, "--preset", "nope"))
	assert.ErrorContains(t, err, "unknown preset")

	_, err = resolveConfig(parsedRunCmd(t, "--cell-size", "0"))
	assert.Error(t, err)
}

func TestResolveConfig_FileDataDir(t *testing.T) {
	file := config.DefaultConfig()
	file.DataDir = "runs"
	file.LogLevel = "debug"
	path := filepath.Join(t.TempDir(), "walk.yaml")
	require.NoError(t, config.Save(path, file))

	cfg, err := resolveConfig(parsedRunCmd(t, "--config", path))
	require.NoError(t, err)
	assert.Equal(t, "runs", cfg.DataDir)
	assert.Equal(t, "debug", cfg.LogLevel)

	cfg, err = resolveConfig(parsedRunCmd(t, "--config", path, "--data", "elsewhere", "--log-level", "error"))
	require.NoError(t, err)
	assert.Equal(t, "elsewhere", cfg.DataDir)
	assert.Equal(t, "error", cfg.LogLevel)
}

func TestResolveConfig_EnvFillsUnsetFileKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "walk.yaml")
	require.NoError(t, config.Save(path, config.DefaultConfig()))

	cmd := parsedRunCmd(t, "--config", path)
	cfg, err := resolveConfig(cmd)
	require.NoError(t, err)
	assert.Equal(t, dataDir, cfg.DataDir)
	assert.NotEqual(t, config.DefaultDataDir, cfg.DataDir)
	assert.Equal(t, "warn", cfg.LogLevel)
}
