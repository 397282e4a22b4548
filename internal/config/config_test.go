package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDefaultIsValid(t *testing.T) {
	require.NoError(t, Default().Validate())
}

func TestModelForDepth(t *testing.T) {
	cfg := Default()
	require.Equal(t, cfg.PrimaryAgent, cfg.ModelFor(0))
	require.Equal(t, cfg.SubAgent, cfg.ModelFor(1))
	require.Equal(t, cfg.SubAgent, cfg.ModelFor(5))
}

func TestValidateRejectsEmptyModelIDs(t *testing.T) {
	cfg := Default()
	cfg.PrimaryAgent = ""
	require.Error(t, cfg.Validate())

	cfg = Default()
	cfg.SubAgent = ""
	require.Error(t, cfg.Validate())
}

func TestValidateRejectsNegativeBounds(t *testing.T) {
	cases := []func(*Config){
		func(c *Config) { c.MaxDepth = -1 },
		func(c *Config) { c.MaxCallsPerSubagent = -1 },
		func(c *Config) { c.TruncateLen = -1 },
		func(c *Config) { c.MaxMoneySpent = -1 },
		func(c *Config) { c.MaxCompletionTokens = -1 },
		func(c *Config) { c.MaxPromptTokens = -1 },
	}
	for _, mutate := range cases {
		cfg := Default()
		mutate(&cfg)
		require.Error(t, cfg.Validate())
	}
}

func TestLoadEmptyPathReturnsDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	require.Equal(t, Default().PrimaryAgent, cfg.PrimaryAgent)
}

func TestLoadYAMLMergesOverDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "rlm.yaml")
	require.NoError(t, os.WriteFile(path, []byte("primary_agent: custom-model\nmax_depth: 7\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "custom-model", cfg.PrimaryAgent)
	require.Equal(t, 7, cfg.MaxDepth)
	// Untouched fields keep their defaults.
	require.Equal(t, Default().SubAgent, cfg.SubAgent)
}

func TestLoadJSON5MergesOverDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "rlm.json5")
	require.NoError(t, os.WriteFile(path, []byte("{ primary_agent: 'from-json5', max_calls_per_subagent: 9 }"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "from-json5", cfg.PrimaryAgent)
	require.Equal(t, 9, cfg.MaxCallsPerSubagent)
}

func TestLoadExpandsEnvVars(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "rlm.yaml")
	require.NoError(t, os.WriteFile(path, []byte("primary_agent: ${RLM_TEST_MODEL}\n"), 0o644))
	t.Setenv("RLM_TEST_MODEL", "env-model")

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "env-model", cfg.PrimaryAgent)
}

func TestAPIKeyResolvesFromEnv(t *testing.T) {
	t.Setenv("RLM_API_KEY", "")
	t.Setenv("OPENAI_API_KEY", "")
	_, err := APIKey()
	require.Error(t, err)

	t.Setenv("OPENAI_API_KEY", "sk-test")
	key, err := APIKey()
	require.NoError(t, err)
	require.Equal(t, "sk-test", key)

	t.Setenv("RLM_API_KEY", "sk-preferred")
	key, err = APIKey()
	require.NoError(t, err)
	require.Equal(t, "sk-preferred", key)
}
