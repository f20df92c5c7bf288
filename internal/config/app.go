package config

import (
	http "github.com/ferdian3456/envisiontech/internal/delivery/http"
	"github.com/ferdian3456/envisiontech/internal/delivery/http/middleware"
	"github.com/ferdian3456/envisiontech/internal/delivery/http/route"
	"github.com/ferdian3456/envisiontech/internal/exception"
	tracelog "github.com/ferdian3456/envisiontech/internal/middleware"
	"github.com/ferdian3456/envisiontech/internal/repository"
	"github.com/ferdian3456/envisiontech/internal/usecase"

	"github.com/gofiber/contrib/otelfiber"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/knadh/koanf/v2"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type ServerConfig struct {
	Router  *fiber.App
	DB      *pgxpool.Pool
	DBCache *redis.Client
	Log     *zap.Logger
	Config  *koanf.Koanf
}

// Server installs the middleware chain and every route. Without a database pool the
// service runs on the in-memory repository.
func Server(config *ServerConfig) {
	var userStore usecase.UserStore
	var tokenStore usecase.TokenStore
	var commentStore usecase.CommentStore

	if config.DB != nil && config.DBCache != nil {
		userStore = repository.NewUserRepository(config.Log, config.DB)
		commentStore = repository.NewCommentRepository(config.Log, config.DB)
		tokenStore = repository.NewTokenRepository(config.Log, config.DBCache)
	} else {
		config.Log.Warn("postgres or redis not configured, using in-memory storage")
		memory := repository.NewMemoryRepository()
		userStore = memory
		commentStore = memory
		tokenStore = memory
	}

	config.Router.Use(exception.Recovery(config.Log))
	config.Router.Use(otelfiber.Middleware())
	config.Router.Use(tracelog.TraceLoggerMiddleware(config.Log))
	config.Router.Use(compress.New(compress.Config{
		Level: compress.LevelBestSpeed,
	}))
	config.Router.Use(middleware.SetupCORS(config.Config.String("CORS_ALLOW_ORIGINS")))
	config.Router.Use(middleware.SetupRateLimiter(config.Log, intOrDefault(config.Config, "RATE_LIMIT_MAX", 100)))

	userUsecase := usecase.NewUserUsecase(userStore, tokenStore, config.Log, config.Config)
	userController := http.NewUserController(userUsecase, config.Log)

	commentUsecase := usecase.NewCommentUsecase(commentStore, config.Log)
	commentController := http.NewCommentController(commentUsecase, config.Log)

	contentUsecase := usecase.NewContentUsecase(config.Log)
	contentController := http.NewContentController(contentUsecase, config.Log)

	authMiddleware := middleware.NewAuthMiddleware(config.Log, userUsecase)

	routeConfig := route.RouteConfig{
		App:               config.Router,
		AuthMiddleware:    authMiddleware,
		AuthRateLimiter:   middleware.SetupAuthRateLimiter(config.Log, intOrDefault(config.Config, "AUTH_RATE_LIMIT_MAX", 5)),
		UserController:    userController,
		CommentController: commentController,
		ContentController: contentController,
	}

	routeConfig.SetupRoute()
}

func intOrDefault(config *koanf.Koanf, key string, fallback int) int {
	if !config.Exists(key) {
		return fallback
	}

	value := config.Int(key)
	if value <= 0 {
		return fallback
	}

	return value
}
