package repositories

import (
	"errors"
	"fmt"

	"cartsvc/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GORMOrderRepository is a GORM implementation of OrderRepository.
type GORMOrderRepository struct {
	db *gorm.DB
}

// NewGORMOrderRepository creates a new instance of GORMOrderRepository.
func NewGORMOrderRepository(db *gorm.DB) *GORMOrderRepository {
	return &GORMOrderRepository{
		db: db,
	}
}

func preloadOrderItems(db *gorm.DB) *gorm.DB {
	return db.Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") })
}

// GetAll retrieves all orders, oldest first.
func (r *GORMOrderRepository) GetAll() ([]models.Order, error) {
	var orders []models.Order
	if err := preloadOrderItems(r.db).Order("created_at, id").Find(&orders).Error; err != nil {
		return nil, fmt.Errorf("failed to get all orders: %w", err)
	}
	return orders, nil
}

// GetByID retrieves a single order by its ID.
func (r *GORMOrderRepository) GetByID(id string) (*models.Order, error) {
	return r.first("id = ?", id, fmt.Sprintf("order with ID %s", id))
}

// GetByCartID retrieves the order created from the given cart.
func (r *GORMOrderRepository) GetByCartID(cartID string) (*models.Order, error) {
	return r.first("cart_id = ?", cartID, fmt.Sprintf("order for cart %s", cartID))
}

func (r *GORMOrderRepository) first(query, arg, what string) (*models.Order, error) {
	var order models.Order
	if err := preloadOrderItems(r.db).First(&order, query, arg).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: %s", models.ErrNotFound, what)
		}
		return nil, fmt.Errorf("failed to get %s: %w", what, err)
	}
	return &order, nil
}

// Create inserts the order and its items. The unique index on cart_id backs
// the existence check when two consumers race.
func (r *GORMOrderRepository) Create(order *models.Order) error {
	if order.ID == "" {
		order.ID = uuid.New().String()
	}
	for i := range order.Items {
		order.Items[i].OrderID = order.ID
		order.Items[i].Position = i + 1
	}

	err := r.db.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.Order{}).Where("cart_id = ?", order.CartID).Count(&count).Error; err != nil {
			return fmt.Errorf("failed to check order for cart %s: %w", order.CartID, err)
		}
		if count > 0 {
			return fmt.Errorf("%w: cart %s", ErrDuplicateOrder, order.CartID)
		}
		if err := tx.Create(order).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return fmt.Errorf("%w: cart %s", ErrDuplicateOrder, order.CartID)
			}
			return fmt.Errorf("failed to create order: %w", err)
		}
		return nil
	})
	return err
}
