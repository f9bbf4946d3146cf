package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/bookmark-service/internal/api/http/handlers"
	"github.com/spec-kit/bookmark-service/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health            *handlers.HealthHandler
	Auth              *handlers.AuthHandler
	Federated         *handlers.FederatedHandler
	Bookmarks         *handlers.BookmarksHandler
	SessionMiddleware *auth.SessionMiddleware
	LoginPath         string
}

// RegisterRoutes wires HTTP routes. The session middleware runs on
// every route so public handlers can see a session when one exists;
// RequireSession gates the protected surface.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	app.Get("/health/metrics", cfg.Health.Metrics)

	app.Use(cfg.SessionMiddleware.Handle)

	authGroup := app.Group("/auth")
	authGroup.Get("/providers", cfg.Auth.Providers)
	authGroup.Post("/login", cfg.Auth.Login)
	authGroup.Get("/federated/login", cfg.Federated.Login)
	authGroup.Get("/federated/callback", cfg.Federated.Callback)

	authProtected := authGroup.Group("", auth.RequireSession(cfg.LoginPath))
	authProtected.Post("/logout", cfg.Auth.Logout)
	authProtected.Get("/session", cfg.Auth.Session)

	protected := app.Group("/bookmarks", auth.RequireSession(cfg.LoginPath))
	protected.Get("", cfg.Bookmarks.List)
}
