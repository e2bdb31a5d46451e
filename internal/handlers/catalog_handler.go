package handlers

import (
	"strconv"

	"cartsvc/internal/services"

	"github.com/gofiber/fiber/v2"
)

// CatalogHandler exposes the menu items carts can be filled from.
type CatalogHandler struct {
	service *services.CatalogService
}

// NewCatalogHandler creates a new CatalogHandler.
func NewCatalogHandler(service *services.CatalogService) *CatalogHandler {
	return &CatalogHandler{
		service: service,
	}
}

// RegisterRoutes registers the catalog routes with the Fiber app.
func (h *CatalogHandler) RegisterRoutes(router fiber.Router) {
	router.Get("/menu-items", h.HandleListMenuItems)
}

// HandleListMenuItems lists menu items, optionally for one restaurant.
func (h *CatalogHandler) HandleListMenuItems(c *fiber.Ctx) error {
	var restaurantID int64
	if raw := c.Query("restaurant_id"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || id <= 0 {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"message": "restaurant_id must be a positive integer",
			})
		}
		restaurantID = id
	}
	items, err := h.service.ListMenuItems(restaurantID)
	if err != nil {
		return respondError(c, "Could not retrieve menu items", err)
	}
	return c.JSON(items)
}
