package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseJson(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	dir := t.TempDir()
	path := filepath.Join(dir, "server.json")
	require.NoError(t, os.WriteFile(path, []byte(`{
		"listen_addr": ":9999",
		"database_dsn": "postgres://u:p@db/pi",
		"access_token_ttl": "2m",
		"rotate_refresh_tokens": false
	}`), 0o600))

	t.Run("file values override defaults", func(t *testing.T) {
		os.Args = []string{"devserver", "-c", path}

		cfg := &Config{}
		cfg.LoadDefaults()
		parseJson(cfg)

		assert.Equal(t, ":9999", cfg.ListenAddr)
		assert.Equal(t, "postgres://u:p@db/pi", cfg.DatabaseDSN)
		assert.Equal(t, 2*time.Minute, cfg.AccessTokenTTL)
		assert.False(t, cfg.RotateRefreshTokens)
		assert.Equal(t, "secretKey", cfg.SecretKey)
		assert.Equal(t, 24*time.Hour, cfg.CSRFTokenTTL)
	})

	t.Run("env fallback", func(t *testing.T) {
		os.Args = []string{"devserver"}
		t.Setenv(ConfigEnvVar, path)

		cfg := &Config{}
		parseJson(cfg)
		assert.Equal(t, ":9999", cfg.ListenAddr)
	})

	t.Run("flags win over file", func(t *testing.T) {
		os.Args = []string{"devserver", "-c", path, "-a", ":7000"}
		t.Setenv(ConfigEnvVar, "")

		cfg := LoadConfig()
		assert.Equal(t, ":7000", cfg.ListenAddr)
		assert.Equal(t, "postgres://u:p@db/pi", cfg.DatabaseDSN)
	})

	t.Run("invalid JSON panics", func(t *testing.T) {
		bad := filepath.Join(dir, "bad.json")
		require.NoError(t, os.WriteFile(bad, []byte(`{`), 0o600))
		os.Args = []string{"devserver", "-config", bad}

		require.Panics(t, func() { parseJson(&Config{}) })
	})
}
