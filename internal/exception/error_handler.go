package exception

import (
	"errors"
	"fmt"

	"github.com/ferdian3456/envisiontech/internal/constant"
	"github.com/ferdian3456/envisiontech/internal/model"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

func Recovery(log *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		defer func() {
			if r := recover(); r != nil {
				var errMsg string
				switch v := r.(type) {
				case error:
					errMsg = v.Error()
				case string:
					errMsg = v
				default:
					errMsg = fmt.Sprintf("%v", v)
				}

				log.Error("panic occurred and recovered",
					zap.String("error", errMsg),
					zap.String("method", c.Method()),
					zap.String("path", c.Path()),
				)

				_ = c.Status(fiber.StatusInternalServerError).JSON(model.ErrorResponse{
					Error: constant.ERR_INTERNAL_SERVER_ERROR_MESSAGE,
					Code:  constant.ERR_INTERNAL_SERVER_ERROR_CODE,
				})
			}
		}()

		return c.Next()
	}
}

// ErrorHandler answers errors that escape a handler, such as unknown routes, with the
// same {"error", "code"} envelope the controllers use.
func ErrorHandler(log *zap.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		status := fiber.StatusInternalServerError
		message := constant.ERR_INTERNAL_SERVER_ERROR_MESSAGE
		code := constant.ERR_INTERNAL_SERVER_ERROR_CODE

		var fiberErr *fiber.Error
		if errors.As(err, &fiberErr) {
			status = fiberErr.Code
			message = fiberErr.Message
			switch status {
			case fiber.StatusNotFound:
				code = constant.ERR_NOT_FOUND_ERROR
			case fiber.StatusMethodNotAllowed, fiber.StatusBadRequest, fiber.StatusRequestEntityTooLarge:
				code = constant.ERR_INVALID_REQUEST_BODY_ERROR_CODE
			}
		}

		if status >= fiber.StatusInternalServerError {
			log.Error("unhandled error", zap.Error(err), zap.String("path", c.Path()))
		}

		return c.Status(status).JSON(model.ErrorResponse{
			Error: message,
			Code:  code,
		})
	}
}
