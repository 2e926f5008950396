package main

import (
	"context"
	"os"

	"github.com/dmitrijs2005/policyinsight/internal/buildinfo"
	"github.com/dmitrijs2005/policyinsight/internal/logging"
	"github.com/dmitrijs2005/policyinsight/internal/server"
	"github.com/dmitrijs2005/policyinsight/internal/server/config"
)

func main() {

	buildinfo.PrintBuildData(os.Stdout)

	ctx := context.Background()

	cfg := config.LoadConfig()
	logger := logging.New(os.Stdout, cfg.LogLevel, true)

	app, err := server.NewApp(ctx, cfg, logger)
	if err != nil {
		logger.Error(ctx, "failed to start server", "error", err)
		os.Exit(1)
	}

	if err := app.Run(ctx); err != nil {
		logger.Error(ctx, "server stopped with error", "error", err)
		os.Exit(1)
	}

}
