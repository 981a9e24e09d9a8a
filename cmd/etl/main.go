package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	httpadapter "github.com/couchcryptid/disdrometer-etl/internal/adapter/http"
	kafkaadapter "github.com/couchcryptid/disdrometer-etl/internal/adapter/kafka"
	"github.com/couchcryptid/disdrometer-etl/internal/adapter/filesource"
	"github.com/couchcryptid/disdrometer-etl/internal/adapter/ledger"
	"github.com/couchcryptid/disdrometer-etl/internal/config"
	"github.com/couchcryptid/disdrometer-etl/internal/observability"
	"github.com/couchcryptid/disdrometer-etl/internal/pipeline"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	profile, reader, err := loadInstrument(cfg)
	if err != nil {
		logger.Error("failed to load instrument context", "error", err)
		os.Exit(1)
	}
	logger.Info("instrument context loaded",
		"station_id", profile.ID,
		"name", profile.Name,
		"conditional_matrix", cfg.ConditionalMatrixPath,
	)

	processed, err := ledger.Open(cfg.LedgerDir, nil)
	if err != nil {
		logger.Error("failed to open ledger", "error", err, "dir", cfg.LedgerDir)
		os.Exit(1)
	}

	source := filesource.New(cfg.InputDir, cfg.FilePattern, cfg.FileSettle, processed, nil, logger)
	writer := kafkaadapter.NewWriter(cfg, logger)
	transformer := pipeline.NewTransformer(reader, profile.ID, logger, metrics)

	p := pipeline.New(source, transformer, writer, logger, metrics, cfg.BatchSize, cfg.PollInterval)

	srv := httpadapter.NewServer(cfg.HTTPAddr, p, p, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Start HTTP server.
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	// Start ETL pipeline.
	done := make(chan struct{})
	go func() {
		defer close(done)
		if err := p.Run(ctx); err != nil {
			logger.Error("pipeline error", "error", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}

	select {
	case <-done:
	case <-shutdownCtx.Done():
		logger.Warn("pipeline did not stop before shutdown timeout")
	}

	if err := writer.Close(); err != nil {
		logger.Error("kafka writer close error", "error", err)
	}
	if err := processed.Close(); err != nil {
		logger.Error("ledger close error", "error", err)
	}

	logger.Info("shutdown complete")
}
