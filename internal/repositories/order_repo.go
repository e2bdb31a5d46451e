package repositories

import (
	"errors"

	"cartsvc/internal/models"
)

// ErrDuplicateOrder is returned by Create when the cart already has an order.
var ErrDuplicateOrder = errors.New("order for cart already exists")

// OrderRepository defines the interface for order data access.
type OrderRepository interface {
	GetAll() ([]models.Order, error)
	GetByID(id string) (*models.Order, error)
	GetByCartID(cartID string) (*models.Order, error)
	Create(order *models.Order) error
}
