package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/soundlake/playlist-api/internal/config"
	httpserver "github.com/soundlake/playlist-api/internal/http"
	"github.com/soundlake/playlist-api/internal/logger"
	"github.com/soundlake/playlist-api/internal/repository"
	"github.com/soundlake/playlist-api/internal/store"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	zapLogger, err := logger.New(logger.Config{Level: cfg.LogLevel, Encoding: cfg.LogEncoding})
	if err != nil {
		log.Fatalf("logger error: %v", err)
	}
	defer func() { _ = zapLogger.Sync() }()

	if err := store.Migrate(cfg.DBURL, cfg.MigrationsPath, zapLogger); err != nil {
		zapLogger.Fatal("migrations failed", zap.Error(err))
	}

	dbCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	storeOpts := store.Options{
		MaxConns:               int32(cfg.DBMaxConns),
		MinConns:               int32(cfg.DBMinConns),
		MaxConnIdleTime:        time.Duration(cfg.DBMaxIdleSecs) * time.Second,
		MaxConnLifetime:        time.Duration(cfg.DBMaxLifeSecs) * time.Second,
		ConnTimeout:            time.Duration(cfg.DBConnTimeoutSecs) * time.Second,
		StatementCacheCapacity: cfg.DBStatementCache,
		Logger:                 zapLogger,
	}

	st, err := store.New(dbCtx, cfg.DBURL, storeOpts)
	if err != nil {
		zapLogger.Fatal("connect database", zap.Error(err))
	}
	defer st.Close()

	repo := repository.New(st)
	server := httpserver.New(cfg, st, repo, zapLogger)

	zapLogger.Info("playlist api listening", zap.String("port", cfg.Port))

	serverErrCh := make(chan error, 1)
	go func() {
		if err := server.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
			serverErrCh <- err
			return
		}
		serverErrCh <- nil
	}()

	select {
	case err := <-serverErrCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) && !errors.Is(err, context.Canceled) {
			zapLogger.Error("server error", zap.Error(err))
		}
	case <-ctx.Done():
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		zapLogger.Error("graceful shutdown error", zap.Error(err))
	}
}
