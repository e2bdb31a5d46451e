package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"cartsvc/internal/events"
	"cartsvc/internal/logger"
	"cartsvc/internal/models"
	"cartsvc/internal/repositories"

	"github.com/shopspring/decimal"
)

// Catalog looks up menu items for price snapshots and availability.
type Catalog interface {
	GetMenuItem(ctx context.Context, menuItemID int64) (*models.MenuItem, error)
}

// EventPublisher publishes an encoded event; *rabbitmq.Client satisfies it.
type EventPublisher interface {
	Publish(exchange, routingKey string, body []byte) error
}

// AddItemInput carries the caller's side of an AddItem call. UnitPrice is
// only used when the service runs without a catalog.
type AddItemInput struct {
	MenuItemID          int64
	Quantity            int
	UnitPrice           decimal.Decimal
	SpecialInstructions string
}

// CartService runs cart operations against the repository: it loads the
// aggregate, applies one transition and saves it, retrying on version
// conflicts. Domain errors from the aggregate are returned unchanged.
type CartService struct {
	repo        repositories.CartRepository
	catalog     Catalog
	publisher   EventPublisher
	log         *logger.Logger
	now         func() time.Time
	maxAttempts int
}

// CartServiceOption configures a CartService.
type CartServiceOption func(*CartService)

// WithClock replaces time.Now as the source of audit timestamps.
func WithClock(now func() time.Time) CartServiceOption {
	return func(s *CartService) { s.now = now }
}

// WithMaxSaveAttempts bounds load/apply/save rounds per operation.
func WithMaxSaveAttempts(n int) CartServiceOption {
	return func(s *CartService) {
		if n > 0 {
			s.maxAttempts = n
		}
	}
}

// NewCartService creates a new CartService. catalog and publisher may be nil.
func NewCartService(repo repositories.CartRepository, catalog Catalog, publisher EventPublisher, log *logger.Logger, opts ...CartServiceOption) *CartService {
	s := &CartService{
		repo:        repo,
		catalog:     catalog,
		publisher:   publisher,
		log:         log,
		now:         func() time.Time { return time.Now().UTC() },
		maxAttempts: 3,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CreateCart starts a new empty cart for a customer at a restaurant.
func (s *CartService) CreateCart(ctx context.Context, customerID, restaurantID, actorID int64) (*models.Cart, error) {
	cart, err := models.NewCart(customerID, restaurantID, actorID, s.now())
	if err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, cart); err != nil {
		return nil, fmt.Errorf("failed to create cart in repository: %w", err)
	}
	s.log.Info("cart created", "cart_id", cart.ID, "customer_id", customerID, "restaurant_id", restaurantID)
	return cart, nil
}

// GetCart retrieves a cart by its ID.
func (s *CartService) GetCart(ctx context.Context, id string) (*models.Cart, error) {
	return s.repo.GetByID(ctx, id)
}

// AddItem adds a line to the cart. With a catalog configured the unit price
// comes from the catalog, and items that are unavailable or belong to another
// restaurant are rejected.
func (s *CartService) AddItem(ctx context.Context, cartID string, in AddItemInput, actorID int64) (*models.CartItem, error) {
	unitPrice := in.UnitPrice
	var menuItem *models.MenuItem
	if s.catalog != nil {
		var err error
		menuItem, err = s.catalog.GetMenuItem(ctx, in.MenuItemID)
		if err != nil {
			return nil, fmt.Errorf("menu item %d lookup failed: %w", in.MenuItemID, err)
		}
		if !menuItem.Available {
			return nil, fmt.Errorf("%w: menu item %d is not available", models.ErrInvalidState, in.MenuItemID)
		}
		unitPrice = menuItem.Price
	}

	var added models.CartItem
	_, err := s.mutate(ctx, cartID, func(cart *models.Cart, now time.Time) error {
		// Inactive carts fall through so AddItem reports the status error.
		if menuItem != nil && cart.Status == models.CartStatusActive && menuItem.RestaurantID != cart.RestaurantID {
			return fmt.Errorf("%w: menu item %d belongs to restaurant %d, cart %s is for restaurant %d",
				models.ErrInvalidArgument, menuItem.ID, menuItem.RestaurantID, cart.ID, cart.RestaurantID)
		}
		item, err := cart.AddItem(in.MenuItemID, in.Quantity, unitPrice, in.SpecialInstructions, actorID, now)
		if err != nil {
			return err
		}
		added = item
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.log.Debug("cart item added", "cart_id", cartID, "item_id", added.ID, "menu_item_id", added.MenuItemID, "quantity", added.Quantity)
	return &added, nil
}

// UpdateItemQuantity changes the quantity of one line.
func (s *CartService) UpdateItemQuantity(ctx context.Context, cartID, itemID string, quantity int, actorID int64) (*models.CartItem, error) {
	var updated models.CartItem
	_, err := s.mutate(ctx, cartID, func(cart *models.Cart, now time.Time) error {
		item, err := cart.UpdateItemQuantity(itemID, quantity, actorID, now)
		if err != nil {
			return err
		}
		updated = item
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

// RemoveItem drops one line from the cart.
func (s *CartService) RemoveItem(ctx context.Context, cartID, itemID string, actorID int64) error {
	_, err := s.mutate(ctx, cartID, func(cart *models.Cart, now time.Time) error {
		return cart.RemoveItem(itemID, actorID, now)
	})
	return err
}

// Checkout finalizes the cart and publishes a cart.checked_out event.
func (s *CartService) Checkout(ctx context.Context, cartID string, actorID int64) (*models.Cart, error) {
	cart, err := s.mutate(ctx, cartID, func(cart *models.Cart, now time.Time) error {
		return cart.Checkout(actorID, now)
	})
	if err != nil {
		return nil, err
	}
	s.log.Info("cart checked out", "cart_id", cart.ID, "subtotal", cart.Subtotal().StringFixed(2), "items", len(cart.Items))
	s.publish(events.CartCheckedOut, cart)
	return cart, nil
}

// Cancel abandons the cart and publishes a cart.cancelled event.
func (s *CartService) Cancel(ctx context.Context, cartID string, actorID int64) (*models.Cart, error) {
	cart, err := s.mutate(ctx, cartID, func(cart *models.Cart, now time.Time) error {
		return cart.Cancel(actorID, now)
	})
	if err != nil {
		return nil, err
	}
	s.log.Info("cart cancelled", "cart_id", cart.ID)
	s.publish(events.CartCancelled, cart)
	return cart, nil
}

// mutate loads the cart, applies fn and saves. fn runs on a fresh copy each
// round, so a failed precondition never reaches the store.
func (s *CartService) mutate(ctx context.Context, cartID string, fn func(cart *models.Cart, now time.Time) error) (*models.Cart, error) {
	for attempt := 1; ; attempt++ {
		cart, err := s.repo.GetByID(ctx, cartID)
		if err != nil {
			return nil, err
		}
		if err := fn(cart, s.now()); err != nil {
			return nil, err
		}
		err = s.repo.Save(ctx, cart)
		if err == nil {
			return cart, nil
		}
		if !errors.Is(err, repositories.ErrVersionConflict) || attempt >= s.maxAttempts {
			return nil, fmt.Errorf("failed to save cart %s: %w", cartID, err)
		}
		s.log.Warn("cart changed concurrently, retrying", "cart_id", cartID, "attempt", attempt)
	}
}

// publish sends a lifecycle event. The cart is already saved, so failures are
// logged rather than returned.
func (s *CartService) publish(eventType string, cart *models.Cart) {
	if s.publisher == nil {
		s.log.Debug("event publisher is not configured, skipping", "event", eventType, "cart_id", cart.ID)
		return
	}
	body, err := json.Marshal(events.NewCartEvent(eventType, cart))
	if err != nil {
		s.log.Error("failed to marshal cart event", "event", eventType, "cart_id", cart.ID, "error", err)
		return
	}
	if err := s.publisher.Publish(events.Exchange, eventType, body); err != nil {
		s.log.Warn("failed to publish cart event", "event", eventType, "cart_id", cart.ID, "error", err)
		return
	}
	s.log.Debug("published cart event", "event", eventType, "cart_id", cart.ID)
}
