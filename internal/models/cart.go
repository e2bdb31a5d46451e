package models

import (
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CartStatus is the lifecycle state of a cart.
type CartStatus string

const (
	CartStatusActive     CartStatus = "ACTIVE"
	CartStatusCheckedOut CartStatus = "CHECKED_OUT"
	CartStatusCancelled  CartStatus = "CANCELLED"
)

// IsTerminal reports whether no further transition is possible from s.
func (s CartStatus) IsTerminal() bool {
	return s == CartStatusCheckedOut || s == CartStatusCancelled
}

// MaxInstructionsLength bounds CartItem.SpecialInstructions, in characters.
const MaxInstructionsLength = 500

// Audit records who touched a row and when. The values are supplied by the
// caller of each mutating operation rather than filled in by the ORM.
type Audit struct {
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime:false"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime:false"`
	CreatedBy int64     `json:"created_by"`
	UpdatedBy int64     `json:"updated_by"`
}

func newAudit(actorID int64, now time.Time) Audit {
	return Audit{CreatedAt: now, UpdatedAt: now, CreatedBy: actorID, UpdatedBy: actorID}
}

func (a *Audit) touch(actorID int64, now time.Time) {
	a.UpdatedAt = now
	a.UpdatedBy = actorID
}

// CartItem is one line of a cart. CartID refers back to the owning cart by
// identifier only.
type CartItem struct {
	ID                  string          `json:"id" gorm:"primaryKey;type:varchar(36)"`
	CartID              string          `json:"cart_id" gorm:"type:varchar(36);not null;index"`
	Position            int             `json:"position" gorm:"not null"`
	MenuItemID          int64           `json:"menu_item_id" gorm:"not null"`
	Quantity            int             `json:"quantity" gorm:"not null"`
	SpecialInstructions string          `json:"special_instructions,omitempty" gorm:"type:varchar(500)"`
	UnitPrice           decimal.Decimal `json:"unit_price" gorm:"type:decimal(10,2);not null"`
	TotalPrice          decimal.Decimal `json:"total_price" gorm:"type:decimal(10,2);not null"`
	Audit
}

// Cart is a customer's in-progress order for a single restaurant. It owns its
// items; all changes go through the methods below so the pricing and status
// rules always hold.
type Cart struct {
	ID           string     `json:"id" gorm:"primaryKey;type:varchar(36)"`
	CustomerID   int64      `json:"customer_id" gorm:"not null;index"`
	RestaurantID int64      `json:"restaurant_id" gorm:"not null"`
	Status       CartStatus `json:"status" gorm:"type:varchar(20);not null"`
	Version      int64      `json:"version" gorm:"not null"`
	Items        []CartItem `json:"items" gorm:"foreignKey:CartID;constraint:OnDelete:CASCADE"`
	Audit
}

// NewCart creates an empty active cart.
func NewCart(customerID, restaurantID, actorID int64, now time.Time) (*Cart, error) {
	if customerID <= 0 {
		return nil, fmt.Errorf("%w: customer id must be positive, got %d", ErrInvalidArgument, customerID)
	}
	if restaurantID <= 0 {
		return nil, fmt.Errorf("%w: restaurant id must be positive, got %d", ErrInvalidArgument, restaurantID)
	}
	if actorID <= 0 {
		return nil, fmt.Errorf("%w: actor id must be positive, got %d", ErrInvalidArgument, actorID)
	}
	return &Cart{
		ID:           uuid.New().String(),
		CustomerID:   customerID,
		RestaurantID: restaurantID,
		Status:       CartStatusActive,
		Items:        []CartItem{},
		Audit:        newAudit(actorID, now),
	}, nil
}

func (c *Cart) requireActive(op string) error {
	if c.Status != CartStatusActive {
		return fmt.Errorf("%w: cannot %s cart %s in status %s", ErrInvalidState, op, c.ID, c.Status)
	}
	return nil
}

func (c *Cart) indexOf(itemID string) int {
	for i := range c.Items {
		if c.Items[i].ID == itemID {
			return i
		}
	}
	return -1
}

func (c *Cart) nextPosition() int {
	next := 1
	for _, it := range c.Items {
		if it.Position >= next {
			next = it.Position + 1
		}
	}
	return next
}

func validateQuantity(quantity int) error {
	if quantity <= 0 {
		return fmt.Errorf("%w: quantity must be positive, got %d", ErrInvalidArgument, quantity)
	}
	return nil
}

func validateLineTotal(total decimal.Decimal) error {
	if total.GreaterThan(MaxAmount) {
		return fmt.Errorf("%w: line total %s exceeds %s", ErrInvalidArgument, total.StringFixed(2), MaxAmount.StringFixed(2))
	}
	return nil
}

// Item returns a copy of the item with the given id.
func (c *Cart) Item(itemID string) (CartItem, bool) {
	i := c.indexOf(itemID)
	if i < 0 {
		return CartItem{}, false
	}
	return c.Items[i], true
}

// AddItem appends a new line. The unit price is a snapshot taken now and is
// rounded to cents. Adding a menu item that is already in the cart creates a
// separate line; lines are never merged.
func (c *Cart) AddItem(menuItemID int64, quantity int, unitPrice decimal.Decimal, instructions string, actorID int64, now time.Time) (CartItem, error) {
	if err := c.requireActive("add item to"); err != nil {
		return CartItem{}, err
	}
	if menuItemID <= 0 {
		return CartItem{}, fmt.Errorf("%w: menu item id must be positive, got %d", ErrInvalidArgument, menuItemID)
	}
	if err := validateQuantity(quantity); err != nil {
		return CartItem{}, err
	}
	if unitPrice.IsNegative() {
		return CartItem{}, fmt.Errorf("%w: unit price must not be negative, got %s", ErrInvalidArgument, unitPrice)
	}
	if utf8.RuneCountInString(instructions) > MaxInstructionsLength {
		return CartItem{}, fmt.Errorf("%w: special instructions longer than %d characters", ErrInvalidArgument, MaxInstructionsLength)
	}
	if actorID <= 0 {
		return CartItem{}, fmt.Errorf("%w: actor id must be positive, got %d", ErrInvalidArgument, actorID)
	}

	price := Round2(unitPrice)
	total := LineTotal(price, quantity)
	if err := validateLineTotal(total); err != nil {
		return CartItem{}, err
	}

	item := CartItem{
		ID:                  uuid.New().String(),
		CartID:              c.ID,
		Position:            c.nextPosition(),
		MenuItemID:          menuItemID,
		Quantity:            quantity,
		SpecialInstructions: instructions,
		UnitPrice:           price,
		TotalPrice:          total,
		Audit:               newAudit(actorID, now),
	}
	c.Items = append(c.Items, item)
	c.touch(actorID, now)
	return item, nil
}

// UpdateItemQuantity sets a new quantity on an existing line and reprices it.
// A zero quantity is rejected; use RemoveItem to drop a line.
func (c *Cart) UpdateItemQuantity(itemID string, quantity int, actorID int64, now time.Time) (CartItem, error) {
	if err := c.requireActive("update item in"); err != nil {
		return CartItem{}, err
	}
	i := c.indexOf(itemID)
	if i < 0 {
		return CartItem{}, fmt.Errorf("%w: item %s in cart %s", ErrNotFound, itemID, c.ID)
	}
	if err := validateQuantity(quantity); err != nil {
		return CartItem{}, err
	}
	if actorID <= 0 {
		return CartItem{}, fmt.Errorf("%w: actor id must be positive, got %d", ErrInvalidArgument, actorID)
	}
	total := LineTotal(c.Items[i].UnitPrice, quantity)
	if err := validateLineTotal(total); err != nil {
		return CartItem{}, err
	}

	item := &c.Items[i]
	item.Quantity = quantity
	item.TotalPrice = total
	item.touch(actorID, now)
	c.touch(actorID, now)
	return *item, nil
}

// RemoveItem drops a line from the cart.
func (c *Cart) RemoveItem(itemID string, actorID int64, now time.Time) error {
	if err := c.requireActive("remove item from"); err != nil {
		return err
	}
	i := c.indexOf(itemID)
	if i < 0 {
		return fmt.Errorf("%w: item %s in cart %s", ErrNotFound, itemID, c.ID)
	}
	if actorID <= 0 {
		return fmt.Errorf("%w: actor id must be positive, got %d", ErrInvalidArgument, actorID)
	}
	c.Items = append(c.Items[:i:i], c.Items[i+1:]...)
	c.touch(actorID, now)
	return nil
}

// Subtotal sums the line totals. It is always derived, never stored.
func (c *Cart) Subtotal() decimal.Decimal {
	sum := decimal.Zero
	for _, it := range c.Items {
		sum = sum.Add(it.TotalPrice)
	}
	return sum
}

// Checkout moves an active, non-empty cart to CHECKED_OUT.
func (c *Cart) Checkout(actorID int64, now time.Time) error {
	if err := c.requireActive("check out"); err != nil {
		return err
	}
	if len(c.Items) == 0 {
		return fmt.Errorf("%w: empty cart", ErrInvalidState)
	}
	if actorID <= 0 {
		return fmt.Errorf("%w: actor id must be positive, got %d", ErrInvalidArgument, actorID)
	}
	c.Status = CartStatusCheckedOut
	c.touch(actorID, now)
	return nil
}

// Cancel moves an active cart to CANCELLED. Cancelling a terminal cart fails.
func (c *Cart) Cancel(actorID int64, now time.Time) error {
	if err := c.requireActive("cancel"); err != nil {
		return err
	}
	if actorID <= 0 {
		return fmt.Errorf("%w: actor id must be positive, got %d", ErrInvalidArgument, actorID)
	}
	c.Status = CartStatusCancelled
	c.touch(actorID, now)
	return nil
}

// Validate checks a cart rebuilt from storage: known status, items owned by
// this cart, and every line priced per LineTotal.
func (c *Cart) Validate() error {
	switch c.Status {
	case CartStatusActive, CartStatusCheckedOut, CartStatusCancelled:
	default:
		return fmt.Errorf("%w: cart %s has unknown status %q", ErrInvalidState, c.ID, c.Status)
	}
	for _, it := range c.Items {
		if it.CartID != c.ID {
			return fmt.Errorf("%w: item %s belongs to cart %s, not %s", ErrInvalidState, it.ID, it.CartID, c.ID)
		}
		if it.Quantity <= 0 {
			return fmt.Errorf("%w: item %s has quantity %d", ErrInvalidState, it.ID, it.Quantity)
		}
		if want := LineTotal(it.UnitPrice, it.Quantity); !it.TotalPrice.Equal(want) {
			return fmt.Errorf("%w: item %s total %s, expected %s", ErrInvalidState, it.ID, it.TotalPrice, want)
		}
	}
	return nil
}

// Clone returns a deep copy; the items slice is not shared.
func (c *Cart) Clone() *Cart {
	cp := *c
	cp.Items = make([]CartItem, len(c.Items))
	copy(cp.Items, c.Items)
	return &cp
}
