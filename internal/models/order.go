package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderItem represents a single line within an order, copied from a cart line.
type OrderItem struct {
	ID                  uint            `json:"-" gorm:"primaryKey"`
	OrderID             string          `json:"-" gorm:"type:varchar(36);not null;index"`
	Position            int             `json:"-" gorm:"not null"`
	MenuItemID          int64           `json:"menu_item_id" gorm:"not null"`
	Quantity            int             `json:"quantity" gorm:"not null"`
	SpecialInstructions string          `json:"special_instructions,omitempty" gorm:"type:varchar(500)"`
	UnitPrice           decimal.Decimal `json:"unit_price" gorm:"type:decimal(10,2);not null"` // Price captured when added to the cart
	TotalPrice          decimal.Decimal `json:"total_price" gorm:"type:decimal(10,2);not null"`
}

// OrderStatusPending is the status of an order created from a checked-out cart.
const OrderStatusPending = "pending"

// Order represents a customer order created from a checked-out cart. There is
// at most one order per cart.
type Order struct {
	ID           string          `json:"id" gorm:"primaryKey;type:varchar(36)"`
	CartID       string          `json:"cart_id" gorm:"type:varchar(36);not null;uniqueIndex"`
	CustomerID   int64           `json:"customer_id" gorm:"not null;index"`
	RestaurantID int64           `json:"restaurant_id" gorm:"not null"`
	Items        []OrderItem     `json:"items" gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	TotalAmount  decimal.Decimal `json:"total_amount" gorm:"type:decimal(10,2);not null"`
	Status       string          `json:"status" gorm:"type:varchar(20);not null"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}
