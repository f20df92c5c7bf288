package http

import (
	"errors"

	"github.com/ferdian3456/envisiontech/internal/constant"
	"github.com/ferdian3456/envisiontech/internal/delivery/http/middleware"
	"github.com/ferdian3456/envisiontech/internal/model"
	"github.com/ferdian3456/envisiontech/internal/usecase"
	"github.com/ferdian3456/envisiontech/internal/util"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type CommentController struct {
	CommentUsecase *usecase.CommentUsecase
	Log            *zap.Logger
}

func NewCommentController(commentUsecase *usecase.CommentUsecase, zap *zap.Logger) *CommentController {
	return &CommentController{
		CommentUsecase: commentUsecase,
		Log:            zap,
	}
}

func (controller CommentController) GetComments(ctx *fiber.Ctx) error {
	response, err := controller.CommentUsecase.GetComments(ctx.UserContext(), ctx.Query("offset"), ctx.Query("snapshot"), middleware.ViewerId(ctx))
	if err != nil {
		return util.SendErrorResponseInternalServer(ctx, controller.Log, err)
	}

	return util.SendSuccessResponseWithData(ctx, response)
}

func (controller CommentController) CreateComment(ctx *fiber.Ctx) error {
	userId := ctx.Locals("userId").(int64)

	var payload model.CommentCreateRequest
	err := util.ReadRequestBody(ctx, &payload)
	if err != nil {
		return util.SendErrorResponse(ctx, &model.ValidationError{
			Code:    constant.ERR_INVALID_REQUEST_BODY_ERROR_CODE,
			Message: constant.ERR_INVALID_REQUEST_BODY_MESSAGE,
		})
	}

	var validationErr *model.ValidationError

	response, err := controller.CommentUsecase.CreateComment(ctx.UserContext(), userId, payload)
	if err != nil {
		if errors.As(err, &validationErr) {
			return util.SendValidationError(ctx, validationErr)
		}

		return util.SendErrorResponseInternalServer(ctx, controller.Log, err)
	}

	return util.SendSuccessResponseWithData(ctx, response)
}

func (controller CommentController) GetReplies(ctx *fiber.Ctx) error {
	userId := ctx.Locals("userId").(int64)

	var validationErr *model.ValidationError

	response, err := controller.CommentUsecase.GetReplies(ctx.UserContext(), ctx.Params("id"), userId)
	if err != nil {
		if errors.As(err, &validationErr) {
			return util.SendValidationError(ctx, validationErr)
		}

		return util.SendErrorResponseInternalServer(ctx, controller.Log, err)
	}

	return util.SendSuccessResponseWithData(ctx, response)
}

func (controller CommentController) ToggleLike(ctx *fiber.Ctx) error {
	userId := ctx.Locals("userId").(int64)

	var validationErr *model.ValidationError

	err := controller.CommentUsecase.ToggleLike(ctx.UserContext(), ctx.Params("id"), userId)
	if err != nil {
		if errors.As(err, &validationErr) {
			return util.SendValidationError(ctx, validationErr)
		}

		return util.SendErrorResponseInternalServer(ctx, controller.Log, err)
	}

	return util.SendMessageResponse(ctx, "OK")
}
