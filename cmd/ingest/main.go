// Command ingest normalizes a columnar playlist export and loads it into the
// songs table. It is the offline companion to cmd/server.
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/soundlake/playlist-api/internal/config"
	"github.com/soundlake/playlist-api/internal/ingest"
	"github.com/soundlake/playlist-api/internal/logger"
	"github.com/soundlake/playlist-api/internal/repository"
	"github.com/soundlake/playlist-api/internal/store"
)

func main() {
	var (
		input      = flag.String("input", "playlist.json", "path to the columnar JSON export")
		export     = flag.String("export", "", "optional path for a row-based JSON dump of the normalized records")
		migrations = flag.String("migrations", "db/migrations", "path to migration files")
	)
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	zapLogger, err := logger.New(logger.Config{Level: cfg.LogLevel, Encoding: cfg.LogEncoding})
	if err != nil {
		log.Fatalf("logger error: %v", err)
	}
	defer func() { _ = zapLogger.Sync() }()

	payload, err := os.ReadFile(*input)
	if err != nil {
		zapLogger.Fatal("read export file", zap.Error(err))
	}

	cols, err := ingest.Parse(payload)
	if err != nil {
		zapLogger.Fatal("parse export", zap.Error(err))
	}

	songs, err := ingest.Normalize(cols)
	if err != nil {
		zapLogger.Fatal("normalize export", zap.Error(err))
	}
	zapLogger.Info("normalized song records",
		zap.Int("attributes", len(cols)),
		zap.Int("songs", len(songs)))

	if *export != "" {
		if err := ingest.Export(songs, *export); err != nil {
			zapLogger.Fatal("export normalized records", zap.Error(err))
		}
		zapLogger.Info("normalized records exported", zap.String("path", *export))
	}

	if err := store.Migrate(cfg.DBURL, *migrations, zapLogger); err != nil {
		zapLogger.Fatal("migrations failed", zap.Error(err))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	storeOpts := store.Options{
		MaxConns:               int32(cfg.DBMaxConns),
		MinConns:               int32(cfg.DBMinConns),
		ConnTimeout:            time.Duration(cfg.DBConnTimeoutSecs) * time.Second,
		StatementCacheCapacity: cfg.DBStatementCache,
		Logger:                 zapLogger,
	}
	st, err := store.New(ctx, cfg.DBURL, storeOpts)
	if err != nil {
		zapLogger.Fatal("connect database", zap.Error(err))
	}
	defer st.Close()

	repo := repository.New(st)
	affected, err := repo.Songs.UpsertMany(ctx, songs)
	if err != nil {
		zapLogger.Fatal("load songs", zap.Error(err))
	}

	zapLogger.Info("ingestion complete",
		zap.Int("songs", len(songs)),
		zap.Int64("rows_affected", affected))
}
