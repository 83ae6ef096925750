package router

import (
	"github.com/gofiber/fiber/v2"

	"github.com/noah-isme/essay-api/internal/config"
	"github.com/noah-isme/essay-api/internal/handler"
	"github.com/noah-isme/essay-api/internal/observability"
)

// Dependencies groups router dependencies for registration.
type Dependencies struct {
	AuthHandler       *handler.AuthHandler
	AssignmentHandler *handler.AssignmentHandler
	EssayHandler      *handler.EssayHandler
	StudentHandler    *handler.StudentHandler
	AuthMiddleware    fiber.Handler
}

// Register wires the HTTP routes into the fiber application.
func Register(app *fiber.App, cfg config.Config, deps Dependencies) {
	app.Get("/metrics", observability.MetricsHandler())

	api := app.Group("/api/v1", func(c *fiber.Ctx) error {
		c.Set("X-Application", cfg.AppName)
		return c.Next()
	})
	api.Get("/health", handler.HealthCheck(cfg))

	authMiddleware := deps.AuthMiddleware
	if authMiddleware == nil {
		authMiddleware = func(c *fiber.Ctx) error { return c.Next() }
	}

	if deps.AuthHandler != nil {
		users := api.Group("/users")
		deps.AuthHandler.RegisterPublic(users)
		users.Use(authMiddleware)
		deps.AuthHandler.RegisterProtected(users)
	}

	if deps.AssignmentHandler != nil {
		assignments := api.Group("/assignments", authMiddleware)
		deps.AssignmentHandler.Register(assignments)
	}

	if deps.EssayHandler != nil {
		essays := api.Group("/essays", authMiddleware)
		deps.EssayHandler.Register(essays)
	}

	if deps.StudentHandler != nil {
		students := api.Group("/students", authMiddleware)
		deps.StudentHandler.Register(students)
	}
}
