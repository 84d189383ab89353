package main

import (
	"context"
	"log"
	"log/slog"
	"os"

	"github.com/mkorolis/imagepoints/internal/buildinfo"
	"github.com/mkorolis/imagepoints/internal/client/auth"
	"github.com/mkorolis/imagepoints/internal/client/cli"
	"github.com/mkorolis/imagepoints/internal/client/config"
	"github.com/mkorolis/imagepoints/internal/logging"
)

func main() {
	buildinfo.PrintBuildData(os.Stdout)

	ctx := context.Background()
	cfg := config.LoadConfig()

	logger := logging.NewSlogLogger(slog.New(slog.NewTextHandler(os.Stderr, nil)))

	// one-time credential sources: -t flag wins over the env var
	launchToken := cfg.Token
	if launchToken == "" {
		launchToken = auth.ExtractFromEnv()
	}
	cfg.Token = ""

	app, err := cli.NewApp(ctx, cfg, logger)
	if err != nil {
		log.Fatalf("%v", err)
	}

	app.Run(ctx, launchToken)
}
