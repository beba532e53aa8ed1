package main

import (
	"context"
	"log"
	"log/slog"
	"os"

	"github.com/antonpav/pad/internal/buildinfo"
	"github.com/antonpav/pad/internal/cli"
	"github.com/antonpav/pad/internal/config"
	"github.com/antonpav/pad/internal/logging"
)

func main() {
	buildinfo.PrintBuildData(os.Stdout)

	ctx := context.Background()
	cfg := config.LoadConfig()
	logger := logging.NewText(os.Stderr, slog.LevelWarn)

	app, err := cli.NewApp(ctx, cfg, logger)
	if err != nil {
		log.Fatalf("error initializing app: %v", err)
	}
	defer app.Close()

	app.Run(ctx)
}
