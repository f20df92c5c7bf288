package setup

import (
	"context"
	"testing"

	"github.com/ferdian3456/envisiontech/internal/apptest"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

// SetupTestApp connects to the test containers and builds the service on postgres and redis.
func SetupTestApp(t *testing.T, pgURL, redisURL string) (*fiber.App, *pgxpool.Pool, *redis.Client) {
	t.Log("Setting up test application...")

	ctx := context.Background()

	t.Log("Connecting to test PostgreSQL...")
	dbPool, err := pgxpool.New(ctx, pgURL)
	if err != nil {
		t.Fatalf("failed to connect to test db: %v", err)
	}
	t.Cleanup(dbPool.Close)

	t.Log("Connecting to test Redis...")
	redisClient := redis.NewClient(&redis.Options{
		Addr: redisURL,
		DB:   0,
	})
	t.Cleanup(func() { _ = redisClient.Close() })

	if err := redisClient.Ping(ctx).Err(); err != nil {
		t.Fatalf("failed to connect to test redis: %v", err)
	}

	app := apptest.NewApp(dbPool, redisClient)

	t.Log("Test application setup completed successfully")

	return app, dbPool, redisClient
}
