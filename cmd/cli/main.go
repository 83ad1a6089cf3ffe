package main

import (
	"context"
	"log"
	"os"

	"github.com/dmitrijs2005/relate15/internal/buildinfo"
	"github.com/dmitrijs2005/relate15/internal/client/cli"
	"github.com/dmitrijs2005/relate15/internal/client/config"
	"github.com/dmitrijs2005/relate15/internal/logging"
)

func main() {

	buildinfo.PrintBuildData(os.Stdout)

	ctx := context.Background()

	cfg := config.LoadConfig()

	logger, err := logging.New(os.Stderr, cfg.LogLevel)
	if err != nil {
		log.Fatalf("%v", err)
	}

	app, err := cli.NewApp(ctx, cfg, logger)
	if err != nil {
		log.Fatalf("%v", err)
		return
	}

	app.Run(ctx)

}
