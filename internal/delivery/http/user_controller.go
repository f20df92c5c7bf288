package http

import (
	"errors"

	"github.com/ferdian3456/envisiontech/internal/constant"
	"github.com/ferdian3456/envisiontech/internal/model"
	"github.com/ferdian3456/envisiontech/internal/usecase"
	"github.com/ferdian3456/envisiontech/internal/util"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type UserController struct {
	UserUsecase *usecase.UserUsecase
	Log         *zap.Logger
}

func NewUserController(userUsecase *usecase.UserUsecase, zap *zap.Logger) *UserController {
	return &UserController{
		UserUsecase: userUsecase,
		Log:         zap,
	}
}

func (controller UserController) Register(ctx *fiber.Ctx) error {
	var payload model.UserRegisterRequest
	err := util.ReadRequestBody(ctx, &payload)
	if err != nil {
		return util.SendErrorResponse(ctx, &model.ValidationError{
			Code:    constant.ERR_INVALID_REQUEST_BODY_ERROR_CODE,
			Message: constant.ERR_INVALID_REQUEST_BODY_MESSAGE,
		})
	}

	var validationErr *model.ValidationError

	response, err := controller.UserUsecase.Register(ctx.UserContext(), payload)
	if err != nil {
		if errors.As(err, &validationErr) {
			return util.SendValidationError(ctx, validationErr)
		}

		return util.SendErrorResponseInternalServer(ctx, controller.Log, err)
	}

	return util.SendSuccessResponseWithData(ctx, response)
}

func (controller UserController) Login(ctx *fiber.Ctx) error {
	var payload model.UserLoginRequest
	err := util.ReadRequestBody(ctx, &payload)
	if err != nil {
		return util.SendErrorResponse(ctx, &model.ValidationError{
			Code:    constant.ERR_INVALID_REQUEST_BODY_ERROR_CODE,
			Message: constant.ERR_INVALID_REQUEST_BODY_MESSAGE,
		})
	}

	var validationErr *model.ValidationError

	response, err := controller.UserUsecase.Login(ctx.UserContext(), payload)
	if err != nil {
		if errors.As(err, &validationErr) {
			return util.SendValidationError(ctx, validationErr)
		}

		return util.SendErrorResponseInternalServer(ctx, controller.Log, err)
	}

	return util.SendSuccessResponseWithData(ctx, response)
}

func (controller UserController) Logout(ctx *fiber.Ctx) error {
	tokenId := ctx.Locals("tokenId").(string)

	err := controller.UserUsecase.Logout(ctx.UserContext(), tokenId)
	if err != nil {
		return util.SendErrorResponseInternalServer(ctx, controller.Log, err)
	}

	return util.SendMessageResponse(ctx, "OK")
}
