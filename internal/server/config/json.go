package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/policyinsight/internal/flagx"
	"github.com/dmitrijs2005/policyinsight/internal/timex"
)

// ConfigEnvVar names the environment variable consulted when no -c/-config
// flag is given.
const ConfigEnvVar = "POLICYINSIGHT_SERVER_CONFIG"

// JsonConfig is the on-disk shape of the server configuration. Durations
// accept both "15m" strings and integer nanoseconds.
type JsonConfig struct {
	ListenAddr          *string         `json:"listen_addr"`
	DatabaseDSN         *string         `json:"database_dsn"`
	SecretKey           *string         `json:"secret_key"`
	AccessTokenTTL      *timex.Duration `json:"access_token_ttl"`
	RefreshTokenTTL     *timex.Duration `json:"refresh_token_ttl"`
	CSRFTokenTTL        *timex.Duration `json:"csrf_token_ttl"`
	RotateRefreshTokens *bool           `json:"rotate_refresh_tokens"`
	LogLevel            *string         `json:"log_level"`
}

// parseJson overlays config with the JSON file named by -c/-config or
// POLICYINSIGHT_SERVER_CONFIG. It panics when the file cannot be read or
// decoded.
func parseJson(config *Config) {
	path := flagx.ConfigPath(ConfigEnvVar)
	if path == "" {
		return
	}

	file, err := os.ReadFile(path)
	if err != nil {
		panic(err)
	}

	c := &JsonConfig{}
	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	if c.ListenAddr != nil {
		config.ListenAddr = *c.ListenAddr
	}
	if c.DatabaseDSN != nil {
		config.DatabaseDSN = *c.DatabaseDSN
	}
	if c.SecretKey != nil {
		config.SecretKey = *c.SecretKey
	}
	if c.AccessTokenTTL != nil {
		config.AccessTokenTTL = c.AccessTokenTTL.Duration
	}
	if c.RefreshTokenTTL != nil {
		config.RefreshTokenTTL = c.RefreshTokenTTL.Duration
	}
	if c.CSRFTokenTTL != nil {
		config.CSRFTokenTTL = c.CSRFTokenTTL.Duration
	}
	if c.RotateRefreshTokens != nil {
		config.RotateRefreshTokens = *c.RotateRefreshTokens
	}
	if c.LogLevel != nil {
		config.LogLevel = *c.LogLevel
	}
}
