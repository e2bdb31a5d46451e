package repositories

import (
	"cartsvc/internal/models"
)

// MenuItemRepository defines the interface for read access to the catalog.
// Create exists for seeding; catalog management lives elsewhere.
type MenuItemRepository interface {
	GetAll() ([]models.MenuItem, error)
	GetByID(id int64) (*models.MenuItem, error)
	Create(item *models.MenuItem) error
}
