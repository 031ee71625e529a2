package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())

	assert.True(t, cfg.IsRuleEnabled("repeated_query"))
	assert.True(t, cfg.IsRuleEnabled("blocking_async"))
	assert.True(t, cfg.IsRuleEnabled("inefficient_loop"))
	assert.True(t, cfg.IsRuleEnabled("memory_load"))
	assert.False(t, cfg.IsRuleEnabled("unknown_rule"))

	assert.Equal(t, 3, cfg.Rules.Loops.MaxNestingDepth)
}

func TestLoadConfigMissingPathFallsBackToDefault(t *testing.T) {
	cwd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	defer os.Chdir(cwd)

	cfg, err := LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig().Rules, cfg.Rules)
}

func TestSaveAndLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pyperfcheck.yml")

	cfg := DefaultConfig()
	cfg.Rules.Loops.MaxNestingDepth = 4
	cfg.Output.Format = "json"
	require.NoError(t, cfg.SaveConfig(path))

	loaded, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 4, loaded.Rules.Loops.MaxNestingDepth)
	assert.Equal(t, "json", loaded.Output.Format)
}

func TestLoadConfigPartialOverridesKeepDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "partial.yml")
	partial := []byte("rules:\n  async:\n    enabled: false\n")
	require.NoError(t, os.WriteFile(path, partial, 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.False(t, cfg.IsRuleEnabled("blocking_async"))
	assert.True(t, cfg.IsRuleEnabled("memory_load"))
}

func TestValidateRejectsBadFormat(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Output.Format = "xml"
	assert.Error(t, cfg.Validate())
}

func TestValidateRejectsShallowNestingThreshold(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Rules.Loops.MaxNestingDepth = 1
	assert.Error(t, cfg.Validate())
}
