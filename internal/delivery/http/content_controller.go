package http

import (
	"errors"

	"github.com/ferdian3456/envisiontech/internal/model"
	"github.com/ferdian3456/envisiontech/internal/usecase"
	"github.com/ferdian3456/envisiontech/internal/util"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type ContentController struct {
	ContentUsecase *usecase.ContentUsecase
	Log            *zap.Logger
}

func NewContentController(contentUsecase *usecase.ContentUsecase, zap *zap.Logger) *ContentController {
	return &ContentController{
		ContentUsecase: contentUsecase,
		Log:            zap,
	}
}

func (controller ContentController) GetUnits(ctx *fiber.Ctx) error {
	return util.SendSuccessResponseWithData(ctx, controller.ContentUsecase.GetUnits())
}

func (controller ContentController) GetCourses(ctx *fiber.Ctx) error {
	return util.SendSuccessResponseWithData(ctx, controller.ContentUsecase.GetCourses())
}

func (controller ContentController) GetPractice(ctx *fiber.Ctx) error {
	return util.SendSuccessResponseWithData(ctx, controller.ContentUsecase.GetPractice())
}

func (controller ContentController) GetBlog(ctx *fiber.Ctx) error {
	return util.SendSuccessResponseWithData(ctx, controller.ContentUsecase.GetBlog())
}

func (controller ContentController) GetPeople(ctx *fiber.Ctx) error {
	return util.SendSuccessResponseWithData(ctx, controller.ContentUsecase.GetPeople())
}

func (controller ContentController) GetPerson(ctx *fiber.Ctx) error {
	var validationErr *model.ValidationError

	response, err := controller.ContentUsecase.GetPerson(ctx.Params("name"))
	if err != nil {
		if errors.As(err, &validationErr) {
			return util.SendErrorResponseNotFound(ctx, err)
		}

		return util.SendErrorResponseInternalServer(ctx, controller.Log, err)
	}

	return util.SendSuccessResponseWithData(ctx, response)
}
