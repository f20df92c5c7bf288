package middleware

import (
	"time"

	"github.com/ferdian3456/envisiontech/internal/constant"
	"github.com/ferdian3456/envisiontech/internal/model"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"go.uber.org/zap"
)

// SetupRateLimiter limits every route except the health check to max requests per minute per IP.
func SetupRateLimiter(logger *zap.Logger, max int) fiber.Handler {
	return limiter.New(limiter.Config{
		Next: func(c *fiber.Ctx) bool {
			return c.Path() == "/"
		},
		Max:        max,
		Expiration: time.Minute,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			logger.Warn("Rate limit exceeded", zap.String("ip", c.IP()))
			return c.Status(fiber.StatusTooManyRequests).JSON(model.ErrorResponse{
				Error: "Rate limit exceeded, please try again later",
				Code:  constant.ERR_RATE_LIMIT_ERROR,
			})
		},
	})
}

// SetupAuthRateLimiter is the stricter limit for /register and /login.
func SetupAuthRateLimiter(logger *zap.Logger, max int) fiber.Handler {
	return limiter.New(limiter.Config{
		Max:        max,
		Expiration: 5 * time.Minute,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			logger.Warn("Auth rate limit exceeded", zap.String("ip", c.IP()))
			return c.Status(fiber.StatusTooManyRequests).JSON(model.ErrorResponse{
				Error: "Too many authentication attempts, please try again later",
				Code:  constant.ERR_RATE_LIMIT_ERROR,
			})
		},
	})
}
