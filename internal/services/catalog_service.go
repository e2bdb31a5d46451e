package services

import (
	"context"
	"fmt"

	"cartsvc/internal/models"
	"cartsvc/internal/repositories"

	"github.com/go-playground/validator/v10"
)

// CatalogService gives access to menu items.
type CatalogService struct {
	repo     repositories.MenuItemRepository
	validate *validator.Validate
}

// NewCatalogService creates a new CatalogService.
func NewCatalogService(repo repositories.MenuItemRepository) *CatalogService {
	return &CatalogService{
		repo:     repo,
		validate: validator.New(),
	}
}

// CreateMenuItem validates and stores a new menu item.
func (s *CatalogService) CreateMenuItem(item *models.MenuItem) error {
	if err := s.validate.Struct(item); err != nil {
		return fmt.Errorf("%w: menu item %q: %v", models.ErrInvalidArgument, item.Name, err)
	}
	if item.Price.IsNegative() || item.Price.GreaterThan(models.MaxAmount) {
		return fmt.Errorf("%w: menu item %q price %s out of range", models.ErrInvalidArgument, item.Name, item.Price)
	}
	item.Price = models.Round2(item.Price)
	return s.repo.Create(item)
}

// ListMenuItems returns the menu items of one restaurant, or all of them when
// restaurantID is zero.
func (s *CatalogService) ListMenuItems(restaurantID int64) ([]models.MenuItem, error) {
	items, err := s.repo.GetAll()
	if err != nil {
		return nil, err
	}
	if restaurantID == 0 {
		return items, nil
	}
	filtered := make([]models.MenuItem, 0, len(items))
	for _, it := range items {
		if it.RestaurantID == restaurantID {
			filtered = append(filtered, it)
		}
	}
	return filtered, nil
}

// GetMenuItem retrieves a single menu item. It implements Catalog.
func (s *CatalogService) GetMenuItem(_ context.Context, menuItemID int64) (*models.MenuItem, error) {
	return s.repo.GetByID(menuItemID)
}
