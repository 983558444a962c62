package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmbeddedRulesMatchDefaults(t *testing.T) {
	cfg, err := parseRules(defaultRulesYAML)
	require.NoError(t, err)
	assert.Equal(t, DefaultRules(), cfg)
}

func TestLoadRules_CustomPathOverridesSomeKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rules.yaml")
	require.NoError(t, os.WriteFile(path, []byte("flipBackDelay: 250ms\nhintAfterMisses: 2\n"), 0o644))

	cfg, err := LoadRules(path)
	require.NoError(t, err)
	assert.Equal(t, 250*time.Millisecond, cfg.FlipBackDelay)
	assert.Equal(t, 2, cfg.HintAfterMisses)
	assert.Equal(t, 20*time.Second, cfg.InfectionPeriod)
}

func TestLoadRules_Errors(t *testing.T) {
	_, err := LoadRules(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("flipBackDelay: [oops"), 0o644))
	_, err = LoadRules(path)
	assert.Error(t, err)
}

func TestNormalizeRejectsZeroPeriods(t *testing.T) {
	cfg, err := parseRules([]byte("infectionPeriod: 0s\nrevealPercent: 0\n"))
	require.NoError(t, err)
	assert.Equal(t, 20*time.Second, cfg.InfectionPeriod)
	assert.Equal(t, 20, cfg.RevealPercent)
}

func TestLoadServerFromEnv(t *testing.T) {
	t.Setenv("TWINCLASH_HTTP_ADDR", ":9999")
	t.Setenv("TWINCLASH_TICK_MS", "50")
	t.Setenv("TWINCLASH_SSH_ADDR", "")

	cfg := LoadServer()
	assert.Equal(t, ":9999", cfg.HTTPAddr)
	assert.Equal(t, 50*time.Millisecond, cfg.Tick)
	assert.Empty(t, cfg.SSHAddr)

	t.Setenv("TWINCLASH_TICK_MS", "nope")
	assert.Equal(t, 100*time.Millisecond, LoadServer().Tick)
}
