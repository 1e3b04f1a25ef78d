package main

import (
	"context"
	"log"
	"os"

	"github.com/dmitrijs2005/portalauth/internal/buildinfo"
	"github.com/dmitrijs2005/portalauth/internal/logging"
	"github.com/dmitrijs2005/portalauth/internal/server"
	"github.com/dmitrijs2005/portalauth/internal/server/config"
)

func main() {

	buildinfo.PrintBuildData(os.Stdout)

	ctx := context.Background()
	cfg := config.LoadConfig()
	logger := logging.NewLogger(cfg.LogLevel, "json", os.Stdout)

	app, err := server.NewApp(ctx, cfg, logger)
	if err != nil {
		log.Fatalf("%v", err)
	}

	if err := app.Run(ctx); err != nil {
		log.Fatalf("%v", err)
	}
}
