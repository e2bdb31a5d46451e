package handlers

import (
	"cartsvc/internal/logger"
	"cartsvc/internal/middleware"
	"cartsvc/internal/models"
	"cartsvc/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// CartHandler handles HTTP requests for carts.
type CartHandler struct {
	service  *services.CartService
	validate *validator.Validate
	log      *logger.Logger
}

// NewCartHandler creates a new CartHandler.
func NewCartHandler(service *services.CartService, log *logger.Logger) *CartHandler {
	return &CartHandler{
		service:  service,
		validate: validator.New(),
		log:      log,
	}
}

// CreateCartRequest is the body of POST /carts.
type CreateCartRequest struct {
	CustomerID   int64 `json:"customer_id" validate:"required,gt=0"`
	RestaurantID int64 `json:"restaurant_id" validate:"required,gt=0"`
}

// AddItemRequest is the body of POST /carts/:id/items.
type AddItemRequest struct {
	MenuItemID          int64  `json:"menu_item_id" validate:"required,gt=0"`
	Quantity            int    `json:"quantity" validate:"required,gt=0"`
	SpecialInstructions string `json:"special_instructions" validate:"omitempty,max=500"`
}

// UpdateQuantityRequest is the body of PATCH /carts/:id/items/:itemId.
type UpdateQuantityRequest struct {
	Quantity int `json:"quantity" validate:"required,gt=0"`
}

// cartResponse adds the derived subtotal to a cart.
type cartResponse struct {
	*models.Cart
	Subtotal string `json:"subtotal"`
}

func newCartResponse(cart *models.Cart) cartResponse {
	return cartResponse{Cart: cart, Subtotal: cart.Subtotal().StringFixed(2)}
}

// RegisterRoutes registers the cart routes. Every route requires an actor.
func (h *CartHandler) RegisterRoutes(router fiber.Router) {
	cartRoutes := router.Group("/carts", middleware.ActorRequired())
	cartRoutes.Post("/", h.HandleCreateCart)
	cartRoutes.Get("/:id", h.HandleGetCart)
	cartRoutes.Post("/:id/items", h.HandleAddItem)
	cartRoutes.Patch("/:id/items/:itemId", h.HandleUpdateItemQuantity)
	cartRoutes.Delete("/:id/items/:itemId", h.HandleRemoveItem)
	cartRoutes.Post("/:id/checkout", h.HandleCheckout)
	cartRoutes.Post("/:id/cancel", h.HandleCancel)
}

// HandleCreateCart starts a new cart.
func (h *CartHandler) HandleCreateCart(c *fiber.Ctx) error {
	var req CreateCartRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}
	if err := h.validate.Struct(req); err != nil {
		return respondValidation(c, err)
	}

	cart, err := h.service.CreateCart(c.UserContext(), req.CustomerID, req.RestaurantID, middleware.ActorID(c))
	if err != nil {
		h.log.Error("error creating cart", "error", err)
		return respondError(c, "Could not create cart", err)
	}
	return c.Status(fiber.StatusCreated).JSON(newCartResponse(cart))
}

// HandleGetCart returns a cart with its subtotal.
func (h *CartHandler) HandleGetCart(c *fiber.Ctx) error {
	cart, err := h.service.GetCart(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, "Could not retrieve cart", err)
	}
	return c.JSON(newCartResponse(cart))
}

// HandleAddItem adds a line to a cart.
func (h *CartHandler) HandleAddItem(c *fiber.Ctx) error {
	var req AddItemRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}
	if err := h.validate.Struct(req); err != nil {
		return respondValidation(c, err)
	}

	item, err := h.service.AddItem(c.UserContext(), c.Params("id"), services.AddItemInput{
		MenuItemID:          req.MenuItemID,
		Quantity:            req.Quantity,
		SpecialInstructions: req.SpecialInstructions,
	}, middleware.ActorID(c))
	if err != nil {
		h.log.Warn("error adding cart item", "cart_id", c.Params("id"), "error", err)
		return respondError(c, "Could not add item", err)
	}
	return c.Status(fiber.StatusCreated).JSON(item)
}

// HandleUpdateItemQuantity changes the quantity of a line.
func (h *CartHandler) HandleUpdateItemQuantity(c *fiber.Ctx) error {
	var req UpdateQuantityRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}
	if err := h.validate.Struct(req); err != nil {
		return respondValidation(c, err)
	}

	item, err := h.service.UpdateItemQuantity(c.UserContext(), c.Params("id"), c.Params("itemId"), req.Quantity, middleware.ActorID(c))
	if err != nil {
		h.log.Warn("error updating cart item", "cart_id", c.Params("id"), "item_id", c.Params("itemId"), "error", err)
		return respondError(c, "Could not update item", err)
	}
	return c.JSON(item)
}

// HandleRemoveItem removes a line from a cart.
func (h *CartHandler) HandleRemoveItem(c *fiber.Ctx) error {
	if err := h.service.RemoveItem(c.UserContext(), c.Params("id"), c.Params("itemId"), middleware.ActorID(c)); err != nil {
		h.log.Warn("error removing cart item", "cart_id", c.Params("id"), "item_id", c.Params("itemId"), "error", err)
		return respondError(c, "Could not remove item", err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// HandleCheckout finalizes a cart.
func (h *CartHandler) HandleCheckout(c *fiber.Ctx) error {
	cart, err := h.service.Checkout(c.UserContext(), c.Params("id"), middleware.ActorID(c))
	if err != nil {
		h.log.Warn("error checking out cart", "cart_id", c.Params("id"), "error", err)
		return respondError(c, "Could not check out cart", err)
	}
	return c.JSON(newCartResponse(cart))
}

// HandleCancel cancels a cart.
func (h *CartHandler) HandleCancel(c *fiber.Ctx) error {
	cart, err := h.service.Cancel(c.UserContext(), c.Params("id"), middleware.ActorID(c))
	if err != nil {
		h.log.Warn("error cancelling cart", "cart_id", c.Params("id"), "error", err)
		return respondError(c, "Could not cancel cart", err)
	}
	return c.JSON(newCartResponse(cart))
}
