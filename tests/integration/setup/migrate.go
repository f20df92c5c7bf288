package setup

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/ferdian3456/envisiontech/internal/config"

	"go.uber.org/zap"
)

// RunMigration applies db/migrations, found two levels above the integration folder.
func RunMigration(pgURL string, t *testing.T) error {
	t.Log("Running database migrations...")

	wd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("failed to get working directory: %w", err)
	}

	migrationPath := filepath.Join(wd, "..", "..", "db", "migrations")
	t.Logf("Migration path: %s", migrationPath)

	err = config.RunMigrations(pgURL, migrationPath, zap.NewNop())
	if err != nil {
		return err
	}

	t.Log("Database migrations completed successfully")
	return nil
}
