package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"TaxNewsletter/internal/app"
	"TaxNewsletter/internal/config"
	"TaxNewsletter/internal/logging"
)

func main() {
	serve := flag.Bool("serve", false, "run the HTTP API and recurring scheduler instead of a single pass")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg := config.Load()
	logger := logging.New(cfg.Logging.Level)

	application, err := app.New(ctx, cfg, logger)
	if err != nil {
		logger.Error("application setup failed", "error", err)
		os.Exit(1)
	}

	if *serve {
		err = application.Serve(ctx)
	} else {
		err = application.Run(ctx)
	}
	if err != nil {
		logger.Error("application stopped", "error", err)
		os.Exit(1)
	}
}
