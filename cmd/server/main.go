package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"gwi.com/symptoms-checker/internal/api"
	"gwi.com/symptoms-checker/internal/config"
	"gwi.com/symptoms-checker/internal/diagnosis"
	"gwi.com/symptoms-checker/internal/store"
	"gwi.com/symptoms-checker/pkg/logger"
)

const shutdownTimeout = 30 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	zlog, err := logger.New(logger.Config{
		Level:      cfg.LogLevel,
		Filename:   cfg.LogFilename,
		MaxSize:    cfg.LogMaxSize,
		MaxBackups: cfg.LogMaxBackups,
		MaxAge:     cfg.LogMaxAge,
		Compress:   cfg.LogCompress,
	})
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	err = run(ctx, cfg, zlog)
	stop()

	if err != nil {
		zlog.Error("Server stopped with error", zap.Error(err))
	}
	// Flush the buffered log file before any exit.
	_ = zlog.Sync()
	if err != nil {
		os.Exit(1)
	}
}

// run wires the server from cfg and serves until ctx is cancelled. Every
// resource it opens is released before it returns.
func run(ctx context.Context, cfg *config.Config, zlog *zap.Logger) error {
	diagnoser, err := diagnosis.New(ctx, cfg, zlog)
	if err != nil {
		return fmt.Errorf("failed to initialize diagnosis client: %w", err)
	}
	if closer, ok := diagnoser.(io.Closer); ok {
		defer closer.Close()
	}

	// A failed connection is logged and the server keeps running; inserts then fail.
	dbStore, err := store.Open(ctx, cfg.DatabaseDriver, cfg.DatabaseURL)
	if err != nil {
		zlog.Error("Database connection error, continuing without a database",
			zap.String("driver", cfg.DatabaseDriver), zap.Error(err))
		dbStore = store.Unavailable(err)
	} else {
		zlog.Info("Connected to database", zap.String("driver", cfg.DatabaseDriver))
	}
	defer dbStore.Close()

	apiHandler := api.NewAPIHandler(diagnoser, dbStore, zlog)
	router := api.NewRouter(apiHandler, api.RouterConfig{
		PublicDir:      cfg.PublicDir,
		AllowedOrigins: cfg.CORSAllowedOrigins,
	}, zlog)

	// No read/write timeouts: a slow upstream call or query holds only its own request.
	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		zlog.Info("Server running", zap.String("addr", "http://localhost"+cfg.Addr()), zap.String("public_dir", cfg.PublicDir))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- fmt.Errorf("could not listen on %s: %w", cfg.Addr(), err)
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		if err != nil {
			return err
		}
	case <-ctx.Done():
	}
	zlog.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	zlog.Info("Server exiting gracefully")
	return nil
}
