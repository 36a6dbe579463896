package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/spec-kit/contacts-service/internal/api/http/handlers"
	"github.com/spec-kit/contacts-service/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Users          *handlers.UsersHandler
	Contacts       *handlers.ContactsHandler
	AuthMiddleware *auth.AuthMiddleware
	Redis          *redis.Client
	ProfileLimit   int
	Logger         *zap.Logger
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	api := app.Group("/api")

	api.Get("/healthchecker", cfg.Health.Check)

	authGroup := api.Group("/auth")
	authGroup.Post("/register", cfg.Auth.Register)
	authGroup.Post("/login", cfg.Auth.Login)
	authGroup.Get("/confirmed_email/:token", cfg.Auth.ConfirmEmail)
	authGroup.Post("/request_email", cfg.Auth.RequestEmail)
	authGroup.Post("/reset_password", cfg.Auth.ResetPassword)
	authGroup.Get("/confirm_reset_password/:token", cfg.Auth.ConfirmResetPassword)

	users := api.Group("/users", cfg.AuthMiddleware.Handle)
	users.Get("/me",
		RateLimit(cfg.Redis, cfg.ProfileLimit, time.Minute, cfg.Logger),
		cfg.Users.Me)
	users.Patch("/avatar", auth.RequireAdmin(), cfg.Users.UpdateAvatar)

	contacts := api.Group("/contacts", cfg.AuthMiddleware.Handle)
	contacts.Get("/", cfg.Contacts.List)
	contacts.Post("/", cfg.Contacts.Create)
	contacts.Get("/search", cfg.Contacts.Search)
	contacts.Get("/birthdays", cfg.Contacts.Birthdays)
	contacts.Get("/:id", cfg.Contacts.Get)
	contacts.Put("/:id", cfg.Contacts.Update)
	contacts.Delete("/:id", cfg.Contacts.Delete)
}
