// Package app wires the HTTP server, results archive and archive workers.
package app

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/vytor/mathflash/internal/api"
	"github.com/vytor/mathflash/internal/config"
	"github.com/vytor/mathflash/internal/db"
	"github.com/vytor/mathflash/internal/jobs"
	"github.com/vytor/mathflash/internal/logger"
	"github.com/vytor/mathflash/internal/repository/sqlite"
	"github.com/vytor/mathflash/internal/services"
	"github.com/vytor/mathflash/internal/worker"
)

const pruneInterval = time.Minute

// App owns the database, archive pool and services behind the HTTP server.
type App struct {
	cfg      config.Config
	database *db.DB
	pool     *worker.Pool
	Practice services.PracticeService
	Results  services.ResultService
	handler  http.Handler
}

// New opens the database and builds every component. Run starts them.
func New(cfg config.Config) (*App, error) {
	database, err := db.Open(cfg.DBPath)
	if err != nil {
		return nil, err
	}

	resultRepo := sqlite.NewResultRepository(database.DB)
	archivePool := worker.NewPool(cfg.ArchiveWorkerCount, cfg.ArchiveQueueSize)
	queue := jobs.NewWorkerQueue(archivePool, resultRepo)

	a := &App{
		cfg:      cfg,
		database: database,
		pool:     archivePool,
		Practice: services.NewPracticeService(queue),
		Results:  services.NewResultService(resultRepo),
	}
	srv := &api.Server{
		PracticeService:    a.Practice,
		ResultService:      a.Results,
		DB:                 database,
		DefaultDifficulty:  cfg.Difficulty(),
		DefaultPuzzleCount: cfg.DefaultPuzzleCount,
	}
	a.handler = srv.Routes()
	return a, nil
}

// Serve runs the HTTP server until ctx is cancelled, then shuts down gracefully.
func Serve(ctx context.Context, cfg config.Config) error {
	a, err := New(cfg)
	if err != nil {
		return err
	}
	return a.Run(ctx)
}

// Run serves HTTP until ctx is cancelled or the listener fails. Shutdown
// stops HTTP first, then ends and archives live sessions, then drains the
// archive pool and closes the database.
func (a *App) Run(ctx context.Context) error {
	log := logger.Default()
	defer func() {
		log.Debug("closing database connection")
		_ = a.database.Close()
	}()

	listener, err := net.Listen("tcp", a.cfg.Addr)
	if err != nil {
		return err
	}

	workerCtx, cancelWorkers := context.WithCancel(context.Background())
	defer cancelWorkers()
	a.pool.Start(workerCtx)

	httpServer := &http.Server{
		Handler:      a.handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		log.Info("HTTP server listening on %s", listener.Addr())
		if err := httpServer.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	idle := time.Duration(a.cfg.SessionIdleMinutes) * time.Minute
	ticker := time.NewTicker(pruneInterval)
	defer ticker.Stop()

	var runErr error
loop:
	for {
		select {
		case <-ctx.Done():
			log.Info("shutdown requested")
			break loop
		case err, ok := <-serveErr:
			if ok {
				log.Error("HTTP server error: %v", err)
				runErr = err
			}
			break loop
		case <-ticker.C:
			a.Practice.PruneIdle(ctx, idle)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	log.Debug("shutting down HTTP server")
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server shutdown error: %v", err)
	}

	if n := a.Practice.EndAll(context.Background()); n > 0 {
		log.Info("ended %d open sessions", n)
	}
	log.Debug("stopping archive pool")
	a.pool.Stop()
	return runErr
}
