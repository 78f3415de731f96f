package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/magabrotheeeer/gym-membership/internal/app/reminder"
	"github.com/magabrotheeeer/gym-membership/internal/config"
)

func main() {
	cfg := config.MustLoad()
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))

	logger.Info("starting reminder worker", slog.String("env", cfg.Env), slog.Duration("interval", cfg.Interval))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app, err := reminder.New(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to initialize reminder app", slog.Any("err", err))
		os.Exit(1)
	}

	if err := app.Run(ctx); err != nil {
		logger.Error("reminder app stopped with error", slog.Any("err", err))
		os.Exit(1)
	}

	logger.Info("reminder app stopped gracefully")
}
