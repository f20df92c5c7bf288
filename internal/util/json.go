package util

import (
	"errors"

	"github.com/ferdian3456/envisiontech/internal/constant"
	"github.com/ferdian3456/envisiontech/internal/middleware"
	"github.com/ferdian3456/envisiontech/internal/model"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

func ReadRequestBody(ctx *fiber.Ctx, result interface{}) error {
	err := ctx.BodyParser(result)
	if err != nil {
		return err
	}
	return nil
}

func SendSuccessResponseWithData(ctx *fiber.Ctx, data interface{}) error {
	err := ctx.Status(fiber.StatusOK).JSON(data)
	if err != nil {
		return err
	}

	return nil
}

func SendMessageResponse(ctx *fiber.Ctx, message string) error {
	return SendSuccessResponseWithData(ctx, model.MessageResponse{Message: message})
}

func SendErrorResponse(ctx *fiber.Ctx, error error) error {
	return sendError(ctx, fiber.StatusBadRequest, error)
}

func SendErrorResponseNotFound(ctx *fiber.Ctx, error error) error {
	return sendError(ctx, fiber.StatusNotFound, error)
}

func SendErrorResponseUnauthorized(ctx *fiber.Ctx, error error) error {
	return sendError(ctx, fiber.StatusUnauthorized, error)
}

func SendErrorResponseConflict(ctx *fiber.Ctx, error error) error {
	return sendError(ctx, fiber.StatusConflict, error)
}

// SendValidationError picks the status from the ValidationError code.
func SendValidationError(ctx *fiber.Ctx, validationErr *model.ValidationError) error {
	return sendError(ctx, StatusForCode(validationErr.Code), validationErr)
}

func StatusForCode(code string) int {
	switch code {
	case constant.ERR_NOT_FOUND_ERROR:
		return fiber.StatusNotFound
	case constant.ERR_UNAUTHORIZED_ERROR:
		return fiber.StatusUnauthorized
	case constant.ERR_CONFLICT_ERROR:
		return fiber.StatusConflict
	case constant.ERR_INTERNAL_SERVER_ERROR_CODE:
		return fiber.StatusInternalServerError
	default:
		return fiber.StatusBadRequest
	}
}

func SendErrorResponseInternalServer(ctx *fiber.Ctx, log *zap.Logger, error error) error {
	log = middleware.GetLoggerFromContext(ctx, log)
	log.Error("internal server error occured", zap.Error(error), zap.String("path", ctx.Path()))
	err := ctx.Status(fiber.StatusInternalServerError).JSON(model.ErrorResponse{
		Error: constant.ERR_INTERNAL_SERVER_ERROR_MESSAGE,
		Code:  constant.ERR_INTERNAL_SERVER_ERROR_CODE,
	})
	if err != nil {
		return err
	}

	return nil
}

func sendError(ctx *fiber.Ctx, status int, error error) error {
	response := model.ErrorResponse{Error: error.Error()}

	var validationErr *model.ValidationError
	if errors.As(error, &validationErr) {
		response.Code = validationErr.Code
	}

	err := ctx.Status(status).JSON(response)
	if err != nil {
		return err
	}

	return nil
}
