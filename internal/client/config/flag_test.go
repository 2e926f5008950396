package config

import (
	"os"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func TestParseFlags(t *testing.T) {
	tests := []struct {
		name        string
		args        []string
		expectPanic bool
		expected    *Config
	}{
		{
			name: "address, sqlite path and timeout",
			args: []string{"cmd", "-a", "https://api.example", "-s", "sqlite", "-p", "/tmp/creds.db", "-t", "5"},
			expected: &Config{
				ServerAddr:     "https://api.example",
				Store:          StoreSQLite,
				StorePath:      "/tmp/creds.db",
				RequestTimeout: 5 * time.Second,
			},
		},
		{
			name: "redis address goes to RedisAddr",
			args: []string{"cmd", "-s", "redis", "-p", "cache:6379", "-t", "1"},
			expected: &Config{
				Store:          StoreRedis,
				RedisAddr:      "cache:6379",
				RequestTimeout: time.Second,
			},
		},
		{
			name: "production and log level",
			args: []string{"cmd", "-l", "debug", "-t", "2", "-prod"},
			expected: &Config{
				LogLevel:       "debug",
				Production:     true,
				RequestTimeout: 2 * time.Second,
			},
		},
		{
			name:        "bad timeout",
			args:        []string{"cmd", "-t", "abc"},
			expectPanic: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			origArgs := os.Args
			t.Cleanup(func() { os.Args = origArgs })
			os.Args = tt.args

			cfg := &Config{}
			if tt.expectPanic {
				require.Panics(t, func() { parseFlags(cfg) })
				return
			}
			require.NotPanics(t, func() { parseFlags(cfg) })
			if diff := cmp.Diff(tt.expected, cfg); diff != "" {
				t.Fatalf("config mismatch (-want +got):\n%s", diff)
			}
		})
	}
}
