package config

import (
	"os"
	"time"
)

// Store backend names accepted by Config.Store.
const (
	StoreMemory = "memory"
	StoreJar    = "jar"
	StoreSQLite = "sqlite"
	StoreBolt   = "bolt"
	StoreRedis  = "redis"
)

// Config holds runtime settings for the Policy Insight client.
//
// Fields:
//   - ServerAddr: scheme://host:port of the API server.
//   - APIBasePath: path prefix of every endpoint (normally "/api/v1").
//   - Production: marks persisted credential cookies Secure.
//   - Store / StorePath / RedisAddr / RedisPassword: credential store backend.
//   - StoreKey: passphrase sealing persisted tokens (sqlite, bolt, redis); empty stores them in clear.
//   - RequestTimeout: per-request timeout of the HTTP client.
//   - AccessTTL / RefreshTTL / CSRFTTL: lifetimes of persisted tokens.
//   - SingleFlightRefresh: coalesce concurrent token refreshes.
//   - LogLevel: debug, info, warn or error.
type Config struct {
	ServerAddr          string
	APIBasePath         string
	Production          bool
	Store               string
	StorePath           string
	RedisAddr           string
	RedisPassword       string
	StoreKey            string
	RequestTimeout      time.Duration
	AccessTTL           time.Duration
	RefreshTTL          time.Duration
	CSRFTTL             time.Duration
	SingleFlightRefresh bool
	LogLevel            string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerAddr = "http://127.0.0.1:8080"
	c.APIBasePath = "/api/v1"
	c.Production = false
	c.Store = StoreJar
	c.StorePath = "policyinsight.db"
	c.RedisAddr = "127.0.0.1:6379"
	c.RedisPassword = ""
	c.RequestTimeout = 10 * time.Second
	c.AccessTTL = 24 * time.Hour
	c.RefreshTTL = 7 * 24 * time.Hour
	c.CSRFTTL = 24 * time.Hour
	c.SingleFlightRefresh = false
	c.LogLevel = "info"
}

// BaseURL joins ServerAddr and APIBasePath.
func (c *Config) BaseURL() string {
	addr := c.ServerAddr
	for len(addr) > 0 && addr[len(addr)-1] == '/' {
		addr = addr[:len(addr)-1]
	}
	return addr + c.APIBasePath
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present) and command-line flags (if present). Later sources take
// precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseEnv(cfg)
	parseFlags(cfg)
	return cfg
}

// StoreKeyEnvVar supplies the store passphrase without writing it to a file.
const StoreKeyEnvVar = "POLICYINSIGHT_STORE_KEY"

func parseEnv(cfg *Config) {
	if k := os.Getenv(StoreKeyEnvVar); k != "" {
		cfg.StoreKey = k
	}
}

// Sealed reports whether persisted tokens are encrypted.
func (c *Config) Sealed() bool {
	switch c.Store {
	case StoreSQLite, StoreBolt, StoreRedis:
		return c.StoreKey != ""
	}
	return false
}
