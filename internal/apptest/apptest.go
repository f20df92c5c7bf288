// Package apptest builds the HTTP service for tests, either on the in-memory repository
// or on real postgres and redis connections.
package apptest

import (
	"net/http"

	"github.com/ferdian3456/envisiontech/internal/config"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/knadh/koanf/v2"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const JWTSecretKey = "test-secret-key-for-jwt-token-generation"

func NewConfig() *koanf.Koanf {
	k := koanf.New(".")
	_ = k.Set("JWT_SECRET_KEY", JWTSecretKey)
	_ = k.Set("RATE_LIMIT_MAX", 100000)
	_ = k.Set("AUTH_RATE_LIMIT_MAX", 100000)
	return k
}

// NewApp wires every route. With nil db and cache the in-memory repository is used.
func NewApp(db *pgxpool.Pool, cache *redis.Client) *fiber.App {
	log := zap.NewNop()
	app := config.NewFiber(log)

	config.Server(&config.ServerConfig{
		Router:  app,
		DB:      db,
		DBCache: cache,
		Log:     log,
		Config:  NewConfig(),
	})

	return app
}

// RoundTripper serves http.Client requests straight from a fiber app.
type RoundTripper struct {
	App *fiber.App
}

func (rt RoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	return rt.App.Test(req, -1)
}

func NewHTTPClient(app *fiber.App) *http.Client {
	return &http.Client{Transport: RoundTripper{App: app}}
}
