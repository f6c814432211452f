// cmd/api-server/main.go
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"wealth-advisor/internal/agent"
	"wealth-advisor/internal/common/config"
	"wealth-advisor/internal/common/database"
	"wealth-advisor/internal/common/logger"
	"wealth-advisor/internal/common/observability"
	"wealth-advisor/internal/llm"
	"wealth-advisor/internal/server"
	"wealth-advisor/internal/store/financial"
	"wealth-advisor/internal/store/profiles"
	"wealth-advisor/internal/tools"
)

// retryWithBackoff attempts to execute a function with exponential backoff
func retryWithBackoff(operation func() error, maxRetries int, initialDelay time.Duration, log *zap.Logger, operationName string) error {
	var err error
	delay := initialDelay

	for i := 0; i < maxRetries; i++ {
		err = operation()
		if err == nil {
			return nil
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
		zapLog := logger.New("info", "console")
		zapLog.Fatal("config load failed", zap.Error(err))
	}

	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	defer zapLog.Sync()

	// Wrap zap logger with our logger interface
	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("Starting wealth-advisor API server...")

	obs := observability.New(cfg.App.Name)
	defer obs.Shutdown()

	ctx := context.Background()

	// --- Init PostgreSQL with retry ---
	var pg *database.PostgresClient
	err = retryWithBackoff(func() error {
		var err error
		pg, err = database.NewPostgres(cfg.Database.Postgres)
		if err != nil {
			return err
		}
		return pg.Ping(ctx)
	}, 15, 2*time.Second, zapLog, "PostgreSQL connection")

	if err != nil {
		zapLog.Fatal("postgres failed after retries", zap.Error(err))
	}
	defer pg.Close()
	zapLog.Info("PostgreSQL connected successfully")

	// --- Init Redis with retry ---
	var redis *database.RedisClient
	err = retryWithBackoff(func() error {
		var err error
		redis, err = database.NewRedis(cfg.Database.Redis)
		if err != nil {
			return err
		}
		return redis.Ping(ctx)
	}, 10, 2*time.Second, zapLog, "Redis connection")

	if err != nil {
		zapLog.Fatal("redis failed after retries", zap.Error(err))
	}
	defer redis.Close()
	zapLog.Info("Redis connected successfully")

	// --- Stores ---
	financialStore := financial.NewStore(pg, log)
	profileStore := profiles.NewStore(redis, log)

	if cfg.Seed.Enabled {
		zapLog.Info("Seeding mock data on startup...")
		if err := financialStore.Seed(ctx); err != nil {
			zapLog.Fatal("financial data seeding failed", zap.Error(err))
		}
		if err := profileStore.Seed(ctx); err != nil {
			zapLog.Fatal("profile data seeding failed", zap.Error(err))
		}
	}

	// --- LLM client + tool set ---
	completer := llm.NewClient(cfg.LLM, log)

	registry := tools.NewRegistry(
		tools.NewFinancialDataTool(financialStore, obs, log),
		tools.NewClientProfileTool(profileStore, obs, log),
		tools.NewRiskAppetiteTool(profileStore, obs, log),
	)
	zapLog.Info("Tool registry initialized", zap.Strings("tools", registry.Names()))

	engine := agent.NewEngine(completer, registry, cfg.Agent, obs, log)
	normalizer := agent.NewNormalizer(cfg.Agent.StrictEnvelope, log)

	// --- HTTP server ---
	srv := server.New(cfg.Server, engine, normalizer, obs, log, map[string]server.Pinger{
		"postgres": financialStore,
		"redis":    profileStore,
	})

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	// --- Graceful shutdown ---
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		zapLog.Info("Shutdown signal received", zap.String("signal", sig.String()))
	case err := <-errCh:
		if err != nil {
			zapLog.Error("http server failed", zap.Error(err))
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("graceful shutdown failed", zap.Error(err))
	}

	zapLog.Info("Server stopped")
}
