package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/indrayudh19/Job-Mapper/internal/app"
	"github.com/indrayudh19/Job-Mapper/internal/config"
	"github.com/indrayudh19/Job-Mapper/internal/logging"
)

func main() {
	query := flag.String("query", "", "search query for a one-shot discovery run (empty uses default queries)")
	serve := flag.Bool("serve", false, "serve the semantic search read API")
	schedule := flag.Bool("schedule", false, "run discovery on the configured interval")
	flag.Parse()

	cfg := config.Load()
	logger := logging.New(cfg.Logging.Level)

	application, err := app.New(cfg, logger)
	if err != nil {
		logger.Error("startup failed", "error", err)
		os.Exit(1)
	}
	defer application.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	switch {
	case *serve:
		err = application.Serve(ctx)
	case *schedule:
		err = application.RunScheduled(ctx)
	default:
		err = application.RunOnce(ctx, *query)
	}

	if err != nil {
		logger.Error("application stopped", "error", err)
		os.Exit(1)
	}
}
