package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/policyinsight/internal/flagx"
	"github.com/dmitrijs2005/policyinsight/internal/timex"
)

// ConfigEnvVar names the environment variable consulted when no -c/-config
// flag is given.
const ConfigEnvVar = "POLICYINSIGHT_CONFIG"

// JsonConfig is a DTO used exclusively for JSON unmarshalling. Pointer
// fields let a file override only the keys it mentions.
type JsonConfig struct {
	ServerAddr          *string         `json:"server_addr"`
	APIBasePath         *string         `json:"api_base_path"`
	Production          *bool           `json:"production"`
	Store               *string         `json:"store"`
	StorePath           *string         `json:"store_path"`
	RedisAddr           *string         `json:"redis_addr"`
	RedisPassword       *string         `json:"redis_password"`
	StoreKey            *string         `json:"store_key"`
	RequestTimeout      *timex.Duration `json:"request_timeout"`
	AccessTTL           *timex.Duration `json:"access_ttl"`
	RefreshTTL          *timex.Duration `json:"refresh_ttl"`
	CSRFTTL             *timex.Duration `json:"csrf_ttl"`
	SingleFlightRefresh *bool           `json:"single_flight_refresh"`
	LogLevel            *string         `json:"log_level"`
}

// parseJson overlays cfg with values from the JSON file named by -c/-config
// or POLICYINSIGHT_CONFIG. Read or decode failures panic; this only runs at
// startup.
func parseJson(cfg *Config) {
	path := flagx.ConfigPath(ConfigEnvVar)
	if path == "" {
		return
	}

	data, err := os.ReadFile(path)
	if err != nil {
		panic(err)
	}

	var jc JsonConfig
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	jc.apply(cfg)
}

func (jc *JsonConfig) apply(cfg *Config) {
	setString(&cfg.ServerAddr, jc.ServerAddr)
	setString(&cfg.APIBasePath, jc.APIBasePath)
	setString(&cfg.Store, jc.Store)
	setString(&cfg.StorePath, jc.StorePath)
	setString(&cfg.RedisAddr, jc.RedisAddr)
	setString(&cfg.RedisPassword, jc.RedisPassword)
	setString(&cfg.StoreKey, jc.StoreKey)
	setString(&cfg.LogLevel, jc.LogLevel)

	if jc.Production != nil {
		cfg.Production = *jc.Production
	}
	if jc.SingleFlightRefresh != nil {
		cfg.SingleFlightRefresh = *jc.SingleFlightRefresh
	}
	if jc.RequestTimeout != nil {
		cfg.RequestTimeout = jc.RequestTimeout.Duration
	}
	if jc.AccessTTL != nil {
		cfg.AccessTTL = jc.AccessTTL.Duration
	}
	if jc.RefreshTTL != nil {
		cfg.RefreshTTL = jc.RefreshTTL.Duration
	}
	if jc.CSRFTTL != nil {
		cfg.CSRFTTL = jc.CSRFTTL.Duration
	}
}

func setString(dst *string, src *string) {
	if src != nil {
		*dst = *src
	}
}
