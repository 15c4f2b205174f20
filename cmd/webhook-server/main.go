// cmd/webhook-server/main.go
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"pension-webhook/internal/common/config"
	apperrors "pension-webhook/internal/common/errors"
	"pension-webhook/internal/common/logger"
	"pension-webhook/internal/common/metrics"
	"pension-webhook/internal/common/observability"
	"pension-webhook/internal/dataset"
	"pension-webhook/internal/lookup"
	"pension-webhook/internal/webhook"
)

// retryWithBackoff attempts to execute a function with exponential backoff.
// Errors classified as non-retryable stop immediately.
func retryWithBackoff(operation func() error, maxRetries int, initialDelay time.Duration, log *zap.Logger, operationName string) error {
	var err error
	delay := initialDelay
	if maxRetries < 1 {
		maxRetries = 1
	}

	for i := 0; i < maxRetries; i++ {
		err = operation()
		if err == nil {
			return nil
		}
		if !apperrors.Normalize(err).Retryable {
			return fmt.Errorf("%s failed: %w", operationName, err)
		}

		if i < maxRetries-1 {
			log.Warn(fmt.Sprintf("%s failed, retrying...", operationName),
				zap.Error(err),
				zap.Int("attempt", i+1),
				zap.Int("maxRetries", maxRetries),
				zap.Duration("nextRetryIn", delay),
			)
			time.Sleep(delay)
			delay *= 2 // Exponential backoff
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		bootLog := logger.New("info", "console")
		bootLog.Fatal("failed to load config", zap.Error(err))
	}

	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	defer zapLog.Sync()

	// Wrap zap logger with our logger interface
	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("starting pension webhook",
		zap.String("app", cfg.App.Name),
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Environment),
		zap.String("datasetSource", cfg.Dataset.Source),
	)

	obs, err := observability.New(cfg.App.Name)
	if err != nil {
		zapLog.Warn("otel metrics disabled", zap.Error(err))
	}
	defer obs.Shutdown()

	// --- Load dataset with retry ---
	retryDelay := config.GetDuration(cfg.Dataset.RetryDelay)

	var clients dataset.Clients
	err = retryWithBackoff(func() error {
		ctx, cancel := context.WithTimeout(context.Background(), config.GetDuration(cfg.Dataset.LoadTimeout))
		defer cancel()
		var err error
		clients, err = dataset.Connect(ctx, cfg)
		return err
	}, cfg.Dataset.MaxRetries, retryDelay, zapLog, "Dataset backend connection")
	if err != nil {
		zapLog.Fatal("dataset backend unavailable", zap.Error(err))
	}

	src, err := dataset.NewSource(cfg.Dataset, clients)
	if err != nil {
		zapLog.Fatal("failed to create dataset source", zap.Error(err))
	}

	var table *dataset.Table
	err = retryWithBackoff(func() error {
		ctx, cancel := context.WithTimeout(context.Background(), config.GetDuration(cfg.Dataset.LoadTimeout))
		defer cancel()
		var err error
		table, err = dataset.Load(ctx, src)
		if err != nil {
			metrics.DatasetLoadFailures.WithLabelValues(src.Name()).Inc()
		}
		return err
	}, cfg.Dataset.MaxRetries, retryDelay, zapLog, "Dataset load")
	if err != nil {
		zapLog.Fatal("dataset load failed", zap.Error(err))
	}
	if err := clients.Close(); err != nil {
		zapLog.Warn("failed to close dataset backend", zap.Error(err))
	}

	metrics.DatasetRecordsLoaded.WithLabelValues(table.Source()).Set(float64(table.Len()))
	zapLog.Info("dataset loaded", zap.String("source", table.Source()), zap.Int("records", table.Len()))

	// --- Lookup pipeline ---
	normalizer, err := lookup.NewNormalizer(cfg.Lookup.NamePattern)
	if err != nil {
		zapLog.Fatal("invalid lookup.name_pattern", zap.Error(err))
	}
	service := lookup.NewService(normalizer, lookup.NewResolver(table))

	handler := webhook.NewHandler(
		&webhook.Config{
			Timeout:      config.GetDuration(cfg.Server.WriteTimeout),
			MaxBodyBytes: webhook.LoadConfig().MaxBodyBytes,
		},
		service, log, obs,
	)
	server := webhook.NewServer(cfg.Server, handler, table, log)

	go func() {
		if err := server.Start(); err != nil {
			zapLog.Fatal("webhook server failed", zap.Error(err))
		}
	}()

	// --- Graceful shutdown ---
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigChan
	zapLog.Info("shutdown signal received", zap.String("signal", sig.String()))

	ctx, cancel := context.WithTimeout(context.Background(), config.GetDuration(cfg.Server.ShutdownTimeout))
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		zapLog.Error("graceful shutdown failed", zap.Error(err))
	}
	zapLog.Info("webhook server stopped")
}
