package route

import (
	"github.com/ferdian3456/envisiontech/internal/delivery/http"
	"github.com/ferdian3456/envisiontech/internal/delivery/http/middleware"

	"github.com/gofiber/fiber/v2"
)

type RouteConfig struct {
	App               *fiber.App
	AuthMiddleware    *middleware.AuthMiddleware
	AuthRateLimiter   fiber.Handler
	UserController    *http.UserController
	CommentController *http.CommentController
	ContentController *http.ContentController
}

func (c *RouteConfig) SetupRoute() {
	c.App.Get("/", func(ctx *fiber.Ctx) error {
		return ctx.SendString("Workin")
	})

	authHandlers := []fiber.Handler{}
	if c.AuthRateLimiter != nil {
		authHandlers = append(authHandlers, c.AuthRateLimiter)
	}

	c.App.Post("/register", append(authHandlers, c.UserController.Register)...)
	c.App.Post("/login", append(authHandlers, c.UserController.Login)...)
	c.App.Post("/logout", c.AuthMiddleware.ProtectedRoute(), c.UserController.Logout)

	c.App.Get("/comment", c.AuthMiddleware.OptionalRoute(), c.CommentController.GetComments)
	c.App.Post("/comment", c.AuthMiddleware.ProtectedRoute(), c.CommentController.CreateComment)
	c.App.Get("/replies/:id", c.AuthMiddleware.ProtectedRoute(), c.CommentController.GetReplies)
	c.App.Post("/like/:id", c.AuthMiddleware.ProtectedRoute(), c.CommentController.ToggleLike)

	c.App.Get("/units", c.ContentController.GetUnits)
	c.App.Get("/courses", c.ContentController.GetCourses)
	c.App.Get("/practice", c.ContentController.GetPractice)
	c.App.Get("/blog", c.ContentController.GetBlog)
	c.App.Get("/about", c.ContentController.GetPeople)
	c.App.Get("/about/:name", c.ContentController.GetPerson)
}
