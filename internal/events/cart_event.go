package events

import (
	"time"

	"cartsvc/internal/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Exchange is the AMQP topic exchange cart lifecycle events are published to.
const Exchange = "carts"

// Event types, also used as routing keys.
const (
	CartCheckedOut = "cart.checked_out"
	CartCancelled  = "cart.cancelled"
)

// CartEventItem is a cart line as carried by an event.
type CartEventItem struct {
	ItemID              string          `json:"item_id"`
	MenuItemID          int64           `json:"menu_item_id"`
	Quantity            int             `json:"quantity"`
	SpecialInstructions string          `json:"special_instructions,omitempty"`
	UnitPrice           decimal.Decimal `json:"unit_price"`
	TotalPrice          decimal.Decimal `json:"total_price"`
}

// CartEvent is the message published on a cart lifecycle transition. It holds
// a full snapshot so consumers never need to load the cart back.
type CartEvent struct {
	ID           string            `json:"id"`
	Type         string            `json:"type"`
	CartID       string            `json:"cart_id"`
	CustomerID   int64             `json:"customer_id"`
	RestaurantID int64             `json:"restaurant_id"`
	Status       models.CartStatus `json:"status"`
	Items        []CartEventItem   `json:"items"`
	Subtotal     decimal.Decimal   `json:"subtotal"`
	ActorID      int64             `json:"actor_id"`
	OccurredAt   time.Time         `json:"occurred_at"`
}

// NewCartEvent snapshots cart into an event of the given type.
func NewCartEvent(eventType string, cart *models.Cart) CartEvent {
	items := make([]CartEventItem, 0, len(cart.Items))
	for _, it := range cart.Items {
		items = append(items, CartEventItem{
			ItemID:              it.ID,
			MenuItemID:          it.MenuItemID,
			Quantity:            it.Quantity,
			SpecialInstructions: it.SpecialInstructions,
			UnitPrice:           it.UnitPrice,
			TotalPrice:          it.TotalPrice,
		})
	}
	return CartEvent{
		ID:           uuid.New().String(),
		Type:         eventType,
		CartID:       cart.ID,
		CustomerID:   cart.CustomerID,
		RestaurantID: cart.RestaurantID,
		Status:       cart.Status,
		Items:        items,
		Subtotal:     cart.Subtotal(),
		ActorID:      cart.UpdatedBy,
		OccurredAt:   cart.UpdatedAt,
	}
}
