package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempJSON(t *testing.T, data map[string]any) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "cfg.json")
	b, err := json.Marshal(data)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, b, 0o600))
	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg := &Config{}
	cfg.LoadDefaults()

	assert.Equal(t, "pad.db", cfg.DatabasePath)
	assert.Empty(t, cfg.RemoteBaseURL)
	assert.Equal(t, 3*time.Second, cfg.OnlineCheckInterval)
	assert.Equal(t, 30*time.Second, cfg.SyncOpTimeout)
	assert.Equal(t, 3*time.Second, cfg.HealthProbeTimeout)
	assert.Equal(t, 5, cfg.MaxRetries)
	assert.Equal(t, DropPolicyNotify, cfg.DropPolicy)
}

func Test_parseJson_SourcesAndPrecedence(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	path := writeTempJSON(t, map[string]any{
		"database_path":         "/tmp/other.db",
		"remote_base_url":       "https://pad.example",
		"online_check_interval": "10s",
		"sync_op_timeout":       "45s",
		"health_probe_timeout":  "5s",
		"max_retries":           8,
		"drop_policy":           "silent",
	})

	t.Run("loads from flags", func(t *testing.T) {
		os.Args = []string{"testbin", "-config", path}

		cfg := &Config{}
		cfg.LoadDefaults()
		parseJson(cfg)

		assert.Equal(t, "/tmp/other.db", cfg.DatabasePath)
		assert.Equal(t, "https://pad.example", cfg.RemoteBaseURL)
		assert.Equal(t, 10*time.Second, cfg.OnlineCheckInterval)
		assert.Equal(t, 45*time.Second, cfg.SyncOpTimeout)
		assert.Equal(t, 5*time.Second, cfg.HealthProbeTimeout)
		assert.Equal(t, 8, cfg.MaxRetries)
		assert.Equal(t, DropPolicySilent, cfg.DropPolicy)
	})

	t.Run("no config flag, no changes", func(t *testing.T) {
		os.Args = []string{"testbin"}

		cfg := &Config{DatabasePath: "keep.db", OnlineCheckInterval: 42 * time.Second}
		parseJson(cfg)

		assert.Equal(t, "keep.db", cfg.DatabasePath)
		assert.Equal(t, 42*time.Second, cfg.OnlineCheckInterval)
	})

	t.Run("absent fields keep defaults", func(t *testing.T) {
		partial := writeTempJSON(t, map[string]any{"remote_base_url": "https://pad.example"})
		os.Args = []string{"testbin", "-c", partial}

		cfg := &Config{}
		cfg.LoadDefaults()
		parseJson(cfg)

		assert.Equal(t, "https://pad.example", cfg.RemoteBaseURL)
		assert.Equal(t, "pad.db", cfg.DatabasePath)
		assert.Equal(t, 5, cfg.MaxRetries)
	})
}

func Test_parseFlags_OverridesJson(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	path := writeTempJSON(t, map[string]any{
		"database_path":         "/tmp/json.db",
		"online_check_interval": "10s",
	})
	os.Args = []string{"testbin", "-config", path, "-d", "/tmp/flag.db", "-i", "7"}

	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)

	assert.Equal(t, "/tmp/flag.db", cfg.DatabasePath)
	assert.Equal(t, 7*time.Second, cfg.OnlineCheckInterval)
}
