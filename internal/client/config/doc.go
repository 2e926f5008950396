// Package config loads runtime configuration for the Policy Insight client.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file selected via -c/-config or POLICYINSIGHT_CONFIG.
//  3. POLICYINSIGHT_STORE_KEY, the passphrase sealing persisted tokens.
//  4. Command-line flags (see parseFlags), which override earlier values.
//
// # JSON schema
//
// Durations accept strings like "24h" or integer nanoseconds:
//
//	{
//	  "server_addr": "https://api.policyinsight.example",
//	  "production": true,
//	  "store": "sqlite",
//	  "store_path": "/home/me/.policyinsight/creds.db",
//	  "store_key": "correct horse battery staple",
//	  "request_timeout": "10s",
//	  "access_ttl": "24h",
//	  "refresh_ttl": "168h",
//	  "csrf_ttl": "24h",
//	  "single_flight_refresh": false,
//	  "log_level": "info"
//	}
package config
