package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/shareit/internal/api/http/handlers"
	"github.com/spec-kit/shareit/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health   *handlers.HealthHandler
	Users    *handlers.UsersHandler
	Items    *handlers.ItemsHandler
	Bookings *handlers.BookingsHandler
	Requests *handlers.RequestsHandler
}

// RegisterRoutes wires HTTP routes. Static segments are registered before parameterised ones.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	app.Get("/health/metrics", cfg.Health.Metrics)

	users := app.Group("/users")
	users.Post("/", cfg.Users.Create)
	users.Get("/", cfg.Users.List)
	users.Get("/:id", cfg.Users.Get)
	users.Patch("/:id", cfg.Users.Update)
	users.Delete("/:id", cfg.Users.Delete)

	app.Get("/items/search", cfg.Items.Search)
	items := app.Group("/items", auth.RequireUser())
	items.Post("/", cfg.Items.Create)
	items.Get("/", cfg.Items.ListOwn)
	items.Get("/:id", cfg.Items.Get)
	items.Patch("/:id", cfg.Items.Update)
	items.Delete("/:id", cfg.Items.Delete)
	items.Post("/:id/comment", cfg.Items.AddComment)

	bookings := app.Group("/bookings", auth.RequireUser())
	bookings.Post("/", cfg.Bookings.Create)
	bookings.Get("/", cfg.Bookings.ListByBooker)
	bookings.Get("/owner", cfg.Bookings.ListByOwner)
	bookings.Get("/:id", cfg.Bookings.Get)
	bookings.Patch("/:id", cfg.Bookings.ChangeStatus)

	requests := app.Group("/requests", auth.RequireUser())
	requests.Post("/", cfg.Requests.Create)
	requests.Get("/", cfg.Requests.ListOwn)
	requests.Get("/all", cfg.Requests.ListOthers)
	requests.Get("/:id", cfg.Requests.Get)
}
