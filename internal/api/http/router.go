package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/page-delivery-service/internal/api/http/handlers"
	"github.com/spec-kit/page-delivery-service/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Links          *handlers.LinksHandler
	Render         *handlers.RenderHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	authGroup := app.Group("/auth")
	authGroup.Post("/register", cfg.Auth.Register)
	authGroup.Post("/login", cfg.Auth.Login)

	// Link issuing requires a session; the render endpoint is authorized by
	// the delivery token alone.
	collections := app.Group("/collections", cfg.AuthMiddleware.Handle)
	collections.Post("/:collectionID/pages/:pageID/link", cfg.Links.Issue)

	app.Get("/render/:collectionID/:pageID", cfg.Render.Render)
}
