package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"price_tracker/internal/application"
	"price_tracker/internal/config"
	"price_tracker/pkg/logx"
)

func main() {
	os.Exit(run())
}

func run() int {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("config load", logx.Error(err))
		return 1
	}

	log, closer := logx.NewLogger(logx.Options{
		Level:      cfg.Log.Level,
		File:       cfg.Log.File,
		MaxSizeMB:  cfg.Log.MaxSizeMB,
		MaxBackups: cfg.Log.MaxBackups,
	})
	defer closer.Close()

	slog.SetDefault(log)

	if err := application.Run(ctx, cfg, log); err != nil {
		log.Error("application failed", logx.Error(err))
		return 1
	}

	log.Info("application stopped")

	return 0
}
