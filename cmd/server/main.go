package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/vytor/mathflash/internal/app"
	"github.com/vytor/mathflash/internal/config"
	"github.com/vytor/mathflash/internal/logger"
)

func main() {
	cfg := config.Load()

	log := logger.New(
		logger.WithLevel(logger.ParseLevel(cfg.LogLevel)),
		logger.WithColors(true),
	)
	logger.SetDefault(log)

	log.Info("===========================================")
	log.Info("MathFlash Server Starting")
	log.Info("===========================================")
	if err := cfg.Validate(); err != nil {
		log.Error("invalid configuration: %v", err)
		os.Exit(1)
	}
	log.Debug("addr=%s", cfg.Addr)
	log.Debug("db_path=%s", cfg.DBPath)
	log.Debug("log_level=%s", cfg.LogLevel)
	log.Debug("default_difficulty=%s", cfg.DefaultDifficulty)
	log.Debug("default_puzzle_count=%d", cfg.DefaultPuzzleCount)
	log.Debug("session_idle_timeout_minutes=%d", cfg.SessionIdleMinutes)
	log.Debug("archive_worker_count=%d", cfg.ArchiveWorkerCount)
	log.Debug("archive_queue_size=%d", cfg.ArchiveQueueSize)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := app.Serve(ctx, cfg); err != nil {
		log.Error("server stopped with error: %v", err)
		os.Exit(1)
	}

	log.Info("===========================================")
	log.Info("MathFlash Server Stopped")
	log.Info("===========================================")
}
