package services

import (
	"encoding/json"
	"errors"
	"fmt"

	"cartsvc/internal/events"
	"cartsvc/internal/logger"
	"cartsvc/internal/models"
	"cartsvc/internal/repositories"

	"github.com/shopspring/decimal"
)

// OrderService turns checked-out carts into orders.
type OrderService struct {
	orderRepo repositories.OrderRepository
	log       *logger.Logger
}

// NewOrderService creates a new OrderService.
func NewOrderService(orderRepo repositories.OrderRepository, log *logger.Logger) *OrderService {
	return &OrderService{
		orderRepo: orderRepo,
		log:       log,
	}
}

// GetAllOrders retrieves all orders.
func (s *OrderService) GetAllOrders() ([]models.Order, error) {
	return s.orderRepo.GetAll()
}

// GetOrderByID retrieves a single order by its ID.
func (s *OrderService) GetOrderByID(id string) (*models.Order, error) {
	return s.orderRepo.GetByID(id)
}

// CreateFromCheckout creates the order for a cart.checked_out event. Delivery
// is at-least-once, so an event for a cart that already has an order returns
// the existing order.
func (s *OrderService) CreateFromCheckout(evt events.CartEvent) (*models.Order, error) {
	if evt.Type != events.CartCheckedOut || evt.Status != models.CartStatusCheckedOut {
		return nil, fmt.Errorf("%w: event %s of type %s with status %s is not a checkout", models.ErrInvalidArgument, evt.ID, evt.Type, evt.Status)
	}
	if len(evt.Items) == 0 {
		return nil, fmt.Errorf("%w: checkout event %s has no items", models.ErrInvalidArgument, evt.ID)
	}

	existing, err := s.orderRepo.GetByCartID(evt.CartID)
	if err == nil {
		s.log.Info("order already exists for cart", "cart_id", evt.CartID, "order_id", existing.ID)
		return existing, nil
	}
	if !errors.Is(err, models.ErrNotFound) {
		return nil, fmt.Errorf("failed to look up order for cart %s: %w", evt.CartID, err)
	}

	total := decimal.Zero
	items := make([]models.OrderItem, 0, len(evt.Items))
	for _, it := range evt.Items {
		if want := models.LineTotal(it.UnitPrice, it.Quantity); !it.TotalPrice.Equal(want) {
			return nil, fmt.Errorf("%w: item %s total %s, expected %s", models.ErrInvalidArgument, it.ItemID, it.TotalPrice, want)
		}
		items = append(items, models.OrderItem{
			MenuItemID:          it.MenuItemID,
			Quantity:            it.Quantity,
			SpecialInstructions: it.SpecialInstructions,
			UnitPrice:           it.UnitPrice,
			TotalPrice:          it.TotalPrice,
		})
		total = total.Add(it.TotalPrice)
	}
	if !total.Equal(evt.Subtotal) {
		return nil, fmt.Errorf("%w: event %s subtotal %s does not match items total %s", models.ErrInvalidArgument, evt.ID, evt.Subtotal, total)
	}

	order := &models.Order{
		CartID:       evt.CartID,
		CustomerID:   evt.CustomerID,
		RestaurantID: evt.RestaurantID,
		Items:        items,
		TotalAmount:  total,
		Status:       models.OrderStatusPending,
	}
	if err := s.orderRepo.Create(order); err != nil {
		if errors.Is(err, repositories.ErrDuplicateOrder) {
			// Another delivery of the same event won the race.
			return s.orderRepo.GetByCartID(evt.CartID)
		}
		return nil, fmt.Errorf("failed to create order in repository: %w", err)
	}
	s.log.Info("order created from cart", "order_id", order.ID, "cart_id", order.CartID, "total", order.TotalAmount.StringFixed(2))
	return order, nil
}

// HandleCheckoutMessage decodes a message body and creates its order.
// Malformed or non-checkout messages are logged and dropped, since
// redelivering them cannot succeed; storage errors are returned for retry.
func (s *OrderService) HandleCheckoutMessage(body []byte) error {
	var evt events.CartEvent
	if err := json.Unmarshal(body, &evt); err != nil {
		s.log.Error("dropping undecodable checkout message", "error", err)
		return nil
	}
	if _, err := s.CreateFromCheckout(evt); err != nil {
		if errors.Is(err, models.ErrInvalidArgument) {
			s.log.Error("dropping invalid checkout event", "event_id", evt.ID, "cart_id", evt.CartID, "error", err)
			return nil
		}
		return err
	}
	return nil
}
