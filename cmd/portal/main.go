package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/dmitrijs2005/portalauth/internal/buildinfo"
	"github.com/dmitrijs2005/portalauth/internal/client/cli"
	"github.com/dmitrijs2005/portalauth/internal/client/config"
	"github.com/dmitrijs2005/portalauth/internal/logging"
)

func main() {

	buildinfo.PrintBuildData(os.Stdout)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg := config.LoadConfig()
	logger := logging.NewLogger(cfg.LogLevel, "text", os.Stderr)

	app, err := cli.NewApp(ctx, cfg, logger)
	if err != nil {
		log.Fatalf("%v", err)
		return
	}

	app.Run(ctx)

}
