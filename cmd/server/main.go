package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ferdian3456/envisiontech/internal/config"
	"github.com/ferdian3456/envisiontech/internal/observability"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	zapLog "go.uber.org/zap"
)

func main() {
	time.Local = time.UTC

	zap := config.NewZap(os.Getenv("LOG_LEVEL"))
	koanf := config.NewKoanf(zap, ".env")

	otelShutdown, err := observability.Init(context.Background(), config.LoadObservabilityConfig(koanf, "envisiontech"), zap)
	if err != nil {
		zap.Fatal("failed to initialize tracing", zapLog.Error(err))
	}

	var postgresql *pgxpool.Pool
	var rds *redis.Client

	if koanf.String("POSTGRES_URL") != "" && koanf.String("REDIS_URL") != "" {
		migrationsPath := config.StringOrDefault(koanf, "MIGRATIONS_PATH", "db/migrations")
		err = config.RunMigrations(koanf.String("POSTGRES_URL"), migrationsPath, zap)
		if err != nil {
			zap.Fatal("failed to migrate database", zapLog.Error(err))
		}

		postgresql = config.NewPostgresqlPool(koanf, zap)
		rds = config.NewRedisClient(koanf, zap)
	}

	fiber := config.NewFiber(zap)

	config.Server(&config.ServerConfig{
		Router:  fiber,
		DB:      postgresql,
		DBCache: rds,
		Log:     zap,
		Config:  koanf,
	})

	GO_SERVER_PORT := config.StringOrDefault(koanf, "GO_SERVER", ":5000")

	zap.Info("Server is running on: " + GO_SERVER_PORT)

	go func() {
		err := fiber.Listen(GO_SERVER_PORT)
		if err != nil {
			zap.Fatal("error starting server", zapLog.Error(err))
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	<-stop
	zap.Info("got one of stop signals")

	// Flush zap buffered log first then cancel the context for graceful shutdown
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	err = fiber.ShutdownWithContext(ctx)
	if err != nil {
		zap.Warn("timeout, forced kill!", zapLog.Error(err))
		_ = zap.Sync()
		os.Exit(1)
	}

	if postgresql != nil {
		postgresql.Close()
	}
	if rds != nil {
		_ = rds.Close()
	}

	err = otelShutdown(ctx)
	if err != nil {
		zap.Warn("failed to flush traces", zapLog.Error(err))
	}

	zap.Info("server has shut down gracefully")
	_ = zap.Sync()
}
