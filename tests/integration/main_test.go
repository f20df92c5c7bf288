package integration

import (
	"context"
	"testing"

	"github.com/ferdian3456/envisiontech/tests/integration/setup"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

// startApp brings up postgres and redis, migrates, and returns the service wired to them.
func startApp(t *testing.T) (*fiber.App, *pgxpool.Pool, *redis.Client) {
	t.Helper()

	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	ctx := context.Background()

	t.Log("=== Starting Test Infrastructure ===")
	infra, err := setup.StartInfra(ctx, t)
	require.NoError(t, err)

	t.Cleanup(func() {
		t.Log("=== Cleaning Up Test Infrastructure ===")
		_ = infra.Terminate(ctx, t)
	})

	t.Log("=== Running Database Migrations ===")
	err = setup.RunMigration(infra.PgURL, t)
	require.NoError(t, err)

	t.Log("=== Setting Up Test Application ===")
	app, db, cache := setup.SetupTestApp(t, infra.PgURL, infra.RedisURL)

	t.Cleanup(func() {
		t.Log("=== Cleaning Up Database ===")
		setup.TruncateAllTables(t, db, ctx)
	})

	return app, db, cache
}
