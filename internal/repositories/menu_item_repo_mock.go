package repositories

import (
	"fmt"
	"sort"
	"sync"

	"cartsvc/internal/models"
)

// MockMenuItemRepository is an in-memory implementation of MenuItemRepository.
type MockMenuItemRepository struct {
	items  map[int64]models.MenuItem
	nextID int64
	mu     sync.RWMutex
}

// NewMockMenuItemRepository creates a new instance of MockMenuItemRepository.
func NewMockMenuItemRepository() *MockMenuItemRepository {
	return &MockMenuItemRepository{
		items: make(map[int64]models.MenuItem),
	}
}

// GetAll returns all menu items ordered by ID.
func (r *MockMenuItemRepository) GetAll() ([]models.MenuItem, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	list := make([]models.MenuItem, 0, len(r.items))
	for _, it := range r.items {
		list = append(list, it)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].ID < list[j].ID })
	return list, nil
}

// GetByID returns a menu item by its ID.
func (r *MockMenuItemRepository) GetByID(id int64) (*models.MenuItem, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.items[id]
	if !ok {
		return nil, fmt.Errorf("%w: menu item with ID %d", models.ErrNotFound, id)
	}
	return &item, nil
}

// Create adds a menu item, assigning the next ID when none is set.
func (r *MockMenuItemRepository) Create(item *models.MenuItem) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if item.ID == 0 {
		r.nextID++
		item.ID = r.nextID
	} else if item.ID > r.nextID {
		r.nextID = item.ID
	}
	if _, ok := r.items[item.ID]; ok {
		return fmt.Errorf("menu item with ID %d already exists", item.ID)
	}
	r.items[item.ID] = *item
	return nil
}
