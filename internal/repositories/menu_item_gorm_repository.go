package repositories

import (
	"errors"
	"fmt"

	"cartsvc/internal/models"

	"gorm.io/gorm"
)

// GORMMenuItemRepository is a GORM implementation of MenuItemRepository.
type GORMMenuItemRepository struct {
	db *gorm.DB
}

// NewGORMMenuItemRepository creates a new instance of GORMMenuItemRepository.
func NewGORMMenuItemRepository(db *gorm.DB) *GORMMenuItemRepository {
	return &GORMMenuItemRepository{
		db: db,
	}
}

// GetAll retrieves all menu items from the database.
func (r *GORMMenuItemRepository) GetAll() ([]models.MenuItem, error) {
	var items []models.MenuItem
	if err := r.db.Order("id").Find(&items).Error; err != nil {
		return nil, fmt.Errorf("failed to get all menu items: %w", err)
	}
	return items, nil
}

// GetByID retrieves a single menu item by its ID from the database.
func (r *GORMMenuItemRepository) GetByID(id int64) (*models.MenuItem, error) {
	var item models.MenuItem
	if err := r.db.First(&item, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: menu item with ID %d", models.ErrNotFound, id)
		}
		return nil, fmt.Errorf("failed to get menu item by ID %d: %w", id, err)
	}
	return &item, nil
}

// Create creates a new menu item in the database.
func (r *GORMMenuItemRepository) Create(item *models.MenuItem) error {
	if err := r.db.Create(item).Error; err != nil {
		return fmt.Errorf("failed to create menu item: %w", err)
	}
	return nil
}
