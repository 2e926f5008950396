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

func writeTempJSON(t *testing.T, dir, name string, data any) string {
	t.Helper()
	path := filepath.Join(dir, name)
	b, err := json.Marshal(data)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, b, 0o600))
	return path
}

func Test_parseJson_SourcesAndPrecedence(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	dir := t.TempDir()
	path := writeTempJSON(t, dir, "cfg.json", map[string]any{
		"server_addr":           "https://api.example",
		"production":            true,
		"store":                 "bolt",
		"store_path":            "/var/lib/pi/creds.bolt",
		"store_key":             "s3cret",
		"request_timeout":       "3s",
		"access_ttl":            "1h",
		"refresh_ttl":           "48h",
		"single_flight_refresh": true,
	})

	t.Run("loads from flag", func(t *testing.T) {
		os.Args = []string{"testbin", "-config", path}

		cfg := &Config{}
		cfg.LoadDefaults()
		parseJson(cfg)

		assert.Equal(t, "https://api.example", cfg.ServerAddr)
		assert.True(t, cfg.Production)
		assert.Equal(t, StoreBolt, cfg.Store)
		assert.Equal(t, "/var/lib/pi/creds.bolt", cfg.StorePath)
		assert.Equal(t, "s3cret", cfg.StoreKey)
		assert.Equal(t, 3*time.Second, cfg.RequestTimeout)
		assert.Equal(t, time.Hour, cfg.AccessTTL)
		assert.Equal(t, 48*time.Hour, cfg.RefreshTTL)
		assert.True(t, cfg.SingleFlightRefresh)
		// keys absent from the file keep their defaults
		assert.Equal(t, 24*time.Hour, cfg.CSRFTTL)
		assert.Equal(t, "/api/v1", cfg.APIBasePath)
	})

	t.Run("loads from env", func(t *testing.T) {
		os.Args = []string{"testbin"}
		t.Setenv(ConfigEnvVar, path)

		cfg := &Config{}
		parseJson(cfg)
		assert.Equal(t, "https://api.example", cfg.ServerAddr)
	})

	t.Run("no file → no changes", func(t *testing.T) {
		os.Args = []string{"testbin"}
		t.Setenv(ConfigEnvVar, "")

		cfg := &Config{ServerAddr: "defaults:1234"}
		parseJson(cfg)
		assert.Equal(t, "defaults:1234", cfg.ServerAddr)
	})

	t.Run("invalid JSON → panics", func(t *testing.T) {
		bad := filepath.Join(dir, "bad.json")
		require.NoError(t, os.WriteFile(bad, []byte(`{ nope`), 0o600))
		os.Args = []string{"testbin", "-c", bad}

		require.Panics(t, func() { parseJson(&Config{}) })
	})

	t.Run("missing file → panics", func(t *testing.T) {
		os.Args = []string{"testbin", "-c", filepath.Join(dir, "absent.json")}
		require.Panics(t, func() { parseJson(&Config{}) })
	})
}
