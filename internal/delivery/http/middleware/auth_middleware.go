package middleware

import (
	"errors"

	"github.com/ferdian3456/envisiontech/internal/model"
	"github.com/ferdian3456/envisiontech/internal/usecase"
	"github.com/ferdian3456/envisiontech/internal/util"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type AuthMiddleware struct {
	Log         *zap.Logger
	UserUsecase *usecase.UserUsecase
}

func NewAuthMiddleware(zap *zap.Logger, userUsecase *usecase.UserUsecase) *AuthMiddleware {
	return &AuthMiddleware{
		Log:         zap,
		UserUsecase: userUsecase,
	}
}

// ProtectedRoute rejects requests without a live bearer token. On success the handler
// finds the caller in Locals "userId" (int64) and "tokenId" (string).
func (middleware *AuthMiddleware) ProtectedRoute() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		return middleware.authenticate(ctx)
	}
}

// OptionalRoute lets anonymous requests through but still rejects a bad token.
func (middleware *AuthMiddleware) OptionalRoute() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		if ctx.Get(fiber.HeaderAuthorization) == "" {
			return ctx.Next()
		}

		return middleware.authenticate(ctx)
	}
}

func (middleware *AuthMiddleware) authenticate(ctx *fiber.Ctx) error {
	var validationErr *model.ValidationError

	userId, tokenId, err := middleware.UserUsecase.Authenticate(ctx.UserContext(), ctx.Get(fiber.HeaderAuthorization))
	if err != nil {
		if errors.As(err, &validationErr) {
			return util.SendErrorResponseUnauthorized(ctx, err)
		}

		return util.SendErrorResponseInternalServer(ctx, middleware.Log, err)
	}

	ctx.Locals("userId", userId)
	ctx.Locals("tokenId", tokenId)

	middleware.Log.Debug("request authenticated", zap.Int64("userId", userId))

	return ctx.Next()
}

// ViewerId returns the authenticated user id, or nil for anonymous requests.
func ViewerId(ctx *fiber.Ctx) *int64 {
	userId, ok := ctx.Locals("userId").(int64)
	if !ok {
		return nil
	}

	return &userId
}
