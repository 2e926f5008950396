package main

import (
	"context"
	"os"

	"github.com/dmitrijs2005/policyinsight/internal/buildinfo"
	"github.com/dmitrijs2005/policyinsight/internal/client/cli"
	"github.com/dmitrijs2005/policyinsight/internal/client/config"
	"github.com/dmitrijs2005/policyinsight/internal/logging"
)

func main() {

	buildinfo.PrintBuildData(os.Stdout)

	ctx := context.Background()

	cfg := config.LoadConfig()
	logger := logging.New(os.Stderr, cfg.LogLevel, false)

	app, err := cli.NewApp(ctx, cfg, logger)
	if err != nil {
		logger.Error(ctx, "failed to start client", "error", err)
		os.Exit(1)
	}

	app.Run(ctx)

}
