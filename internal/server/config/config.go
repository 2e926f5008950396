// Package config handles configuration for the development API server,
// including defaults, JSON overlay, and command-line flags.
package config

import "time"

// Config holds runtime settings for the Policy Insight development server.
//
// Fields:
//   - ListenAddr: bind address of the HTTP listener.
//   - DatabaseDSN: PostgreSQL DSN (pgx). Empty keeps all data in memory.
//   - SecretKey: HMAC secret for signing JWTs (HS256). Do not use the default in prod.
//   - AccessTokenTTL / RefreshTokenTTL / CSRFTokenTTL: token lifetimes.
//   - RotateRefreshTokens: issue a new refresh token on every refresh.
//   - LogLevel: debug, info, warn or error.
type Config struct {
	ListenAddr          string
	DatabaseDSN         string
	SecretKey           string
	AccessTokenTTL      time.Duration
	RefreshTokenTTL     time.Duration
	CSRFTokenTTL        time.Duration
	RotateRefreshTokens bool
	LogLevel            string
}

// LoadDefaults populates Config with development defaults.
// NOTE: SecretKey must be overridden outside of local development.
func (c *Config) LoadDefaults() {
	c.ListenAddr = ":8080"
	c.DatabaseDSN = ""
	c.SecretKey = "secretKey"
	c.AccessTokenTTL = 15 * time.Minute
	c.RefreshTokenTTL = 7 * 24 * time.Hour
	c.CSRFTokenTTL = 24 * time.Hour
	c.RotateRefreshTokens = true
	c.LogLevel = "info"
}

// LoadConfig builds a Config by applying defaults, then overlaying values
// from an optional JSON file and finally from command-line flags.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
