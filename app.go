package main

import (
	"time"

	"cartsvc/internal/handlers"
	"cartsvc/internal/logger"
	"cartsvc/internal/services"

	"github.com/gofiber/fiber/v2"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
)

// appServices are the services the HTTP layer is built on.
type appServices struct {
	carts   *services.CartService
	catalog *services.CatalogService
	orders  *services.OrderService
	log     *logger.Logger
}

// newApp builds the Fiber app with all routes registered.
func newApp(svc appServices) *fiber.App {
	app := fiber.New()

	app.Use(fiberlogger.New())

	apiV1 := app.Group("/api/v1")
	handlers.NewCartHandler(svc.carts, svc.log).RegisterRoutes(apiV1)
	handlers.NewCatalogHandler(svc.catalog).RegisterRoutes(apiV1)
	handlers.NewOrderHandler(svc.orders).RegisterRoutes(apiV1)

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"status": "healthy",
			"time":   time.Now().Format(time.RFC3339),
		})
	})

	return app
}
