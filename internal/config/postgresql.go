package config

import (
	"context"
	"time"

	"github.com/exaring/otelpgx"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/knadh/koanf/v2"
	"go.uber.org/zap"
)

// NewPostgresqlPool connects to POSTGRES_URL. Pool bounds come from POSTGRES_MAX_CONNS and
// POSTGRES_MIN_CONNS; queries are traced through otelpgx.
func NewPostgresqlPool(config *koanf.Koanf, log *zap.Logger) *pgxpool.Pool {
	pgxConfig, err := pgxpool.ParseConfig(config.String("POSTGRES_URL"))
	if err != nil {
		log.Fatal("failed to parse postgresql config", zap.Error(err))
	}

	pgxConfig.MaxConns = int32(intOrDefault(config, "POSTGRES_MAX_CONNS", 10))
	pgxConfig.MinConns = int32(min(intOrDefault(config, "POSTGRES_MIN_CONNS", 2), int(pgxConfig.MaxConns)))
	pgxConfig.MaxConnLifetime = time.Hour
	pgxConfig.MaxConnIdleTime = 10 * time.Minute
	pgxConfig.HealthCheckPeriod = time.Minute
	pgxConfig.ConnConfig.Tracer = otelpgx.NewTracer()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := pgxpool.NewWithConfig(ctx, pgxConfig)
	if err != nil {
		log.Fatal("failed to create pgx pool", zap.Error(err))
	}

	err = pool.Ping(ctx)
	if err != nil {
		log.Fatal("failed to ping postgresql database", zap.Error(err))
	}

	log.Info("postgresql connected", zap.Int32("maxConns", pgxConfig.MaxConns))

	return pool
}
