package config

import (
	"flag"
	"os"
	"time"

	"github.com/dmitrijs2005/policyinsight/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags:
//
//	-a string   API server address (scheme://host:port)
//	-s string   credential store backend: memory, jar, sqlite, bolt, redis
//	-p string   store file path (sqlite, bolt) or redis address (redis)
//	-t int      request timeout in seconds
//	-l string   log level
//	-prod       production mode (Secure cookies)
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-s", "-p", "-t", "-l", "-prod"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.ServerAddr, "a", cfg.ServerAddr, "API server address")
	fs.StringVar(&cfg.Store, "s", cfg.Store, "credential store backend")
	storePath := fs.String("p", "", "store path or redis address")
	timeout := fs.Int("t", int(cfg.RequestTimeout.Seconds()), "request timeout (in seconds)")
	fs.StringVar(&cfg.LogLevel, "l", cfg.LogLevel, "log level")
	fs.BoolVar(&cfg.Production, "prod", cfg.Production, "production mode")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	if *storePath != "" {
		if cfg.Store == StoreRedis {
			cfg.RedisAddr = *storePath
		} else {
			cfg.StorePath = *storePath
		}
	}
	cfg.RequestTimeout = time.Duration(*timeout) * time.Second
}
