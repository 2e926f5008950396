package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	var c Config
	c.LoadDefaults()

	assert.Equal(t, "http://127.0.0.1:8080", c.ServerAddr)
	assert.Equal(t, "/api/v1", c.APIBasePath)
	assert.Equal(t, StoreJar, c.Store)
	assert.Equal(t, 10*time.Second, c.RequestTimeout)
	assert.Equal(t, 24*time.Hour, c.AccessTTL)
	assert.Equal(t, 7*24*time.Hour, c.RefreshTTL)
	assert.Equal(t, 24*time.Hour, c.CSRFTTL)
	assert.False(t, c.Production)
	assert.False(t, c.SingleFlightRefresh)
}

func TestLoadConfig_UsesDefaultsWithoutArgs(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })
	os.Args = []string{"testbin"}
	t.Setenv(ConfigEnvVar, "")

	cfg := LoadConfig()

	require.NotNil(t, cfg)
	assert.Equal(t, "http://127.0.0.1:8080", cfg.ServerAddr)
	assert.Equal(t, 10*time.Second, cfg.RequestTimeout)
}

func TestBaseURL(t *testing.T) {
	c := Config{ServerAddr: "https://api.example/", APIBasePath: "/api/v1"}
	assert.Equal(t, "https://api.example/api/v1", c.BaseURL())

	c.ServerAddr = "http://127.0.0.1:8080"
	assert.Equal(t, "http://127.0.0.1:8080/api/v1", c.BaseURL())
}

func TestStoreKey(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })
	os.Args = []string{"testbin", "-s", "bolt"}
	t.Setenv(ConfigEnvVar, "")
	t.Setenv(StoreKeyEnvVar, "hunter2")

	cfg := LoadConfig()
	assert.Equal(t, "hunter2", cfg.StoreKey)
	assert.True(t, cfg.Sealed())

	cfg.Store = StoreJar
	assert.False(t, cfg.Sealed(), "in-process stores are never sealed")

	cfg.Store = StoreSQLite
	cfg.StoreKey = ""
	assert.False(t, cfg.Sealed())
}
