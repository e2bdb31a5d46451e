package repositories

import (
	"context"
	"errors"
	"fmt"

	"cartsvc/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GORMCartRepository is a GORM implementation of CartRepository.
type GORMCartRepository struct {
	db *gorm.DB
}

// NewGORMCartRepository creates a new instance of GORMCartRepository.
func NewGORMCartRepository(db *gorm.DB) *GORMCartRepository {
	return &GORMCartRepository{
		db: db,
	}
}

// Create inserts the cart and its items.
func (r *GORMCartRepository) Create(ctx context.Context, cart *models.Cart) error {
	if err := r.db.WithContext(ctx).Create(cart).Error; err != nil {
		return fmt.Errorf("failed to create cart: %w", err)
	}
	return nil
}

// GetByID loads a cart with its items in insertion order.
func (r *GORMCartRepository) GetByID(ctx context.Context, id string) (*models.Cart, error) {
	var cart models.Cart
	err := r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") }).
		First(&cart, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: cart with ID %s", models.ErrNotFound, id)
		}
		return nil, fmt.Errorf("failed to get cart by ID %s: %w", id, err)
	}
	if cart.Items == nil {
		cart.Items = []models.CartItem{}
	}
	if err := cart.Validate(); err != nil {
		return nil, fmt.Errorf("stored cart %s is inconsistent: %w", id, err)
	}
	return &cart, nil
}

// Save writes the cart header guarded by its version, then makes the stored
// items match cart.Items, all in one transaction.
func (r *GORMCartRepository) Save(ctx context.Context, cart *models.Cart) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Cart{}).
			Where("id = ? AND version = ?", cart.ID, cart.Version).
			Updates(map[string]interface{}{
				"status":     string(cart.Status),
				"version":    cart.Version + 1,
				"updated_at": cart.UpdatedAt,
				"updated_by": cart.UpdatedBy,
			})
		if res.Error != nil {
			return fmt.Errorf("failed to update cart: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			var count int64
			if err := tx.Model(&models.Cart{}).Where("id = ?", cart.ID).Count(&count).Error; err != nil {
				return fmt.Errorf("failed to check cart %s: %w", cart.ID, err)
			}
			if count == 0 {
				return fmt.Errorf("%w: cart with ID %s", models.ErrNotFound, cart.ID)
			}
			return fmt.Errorf("%w: cart %s is no longer at version %d", ErrVersionConflict, cart.ID, cart.Version)
		}

		ids := make([]string, 0, len(cart.Items))
		for _, it := range cart.Items {
			ids = append(ids, it.ID)
		}
		stale := tx.Where("cart_id = ?", cart.ID)
		if len(ids) > 0 {
			stale = stale.Where("id NOT IN ?", ids)
		}
		if err := stale.Delete(&models.CartItem{}).Error; err != nil {
			return fmt.Errorf("failed to delete removed cart items: %w", err)
		}
		if len(cart.Items) > 0 {
			if err := tx.Clauses(clause.OnConflict{UpdateAll: true}).Create(&cart.Items).Error; err != nil {
				return fmt.Errorf("failed to upsert cart items: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return err
	}
	cart.Version++
	return nil
}
