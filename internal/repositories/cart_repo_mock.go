package repositories

import (
	"context"
	"fmt"
	"sync"

	"cartsvc/internal/models"
)

// MockCartRepository is an in-memory implementation of CartRepository.
// Carts are copied on the way in and out so callers never share item slices.
type MockCartRepository struct {
	carts map[string]*models.Cart
	mu    sync.RWMutex
}

// NewMockCartRepository creates a new instance of MockCartRepository.
func NewMockCartRepository() *MockCartRepository {
	return &MockCartRepository{
		carts: make(map[string]*models.Cart),
	}
}

// Create stores a new cart.
func (r *MockCartRepository) Create(_ context.Context, cart *models.Cart) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.carts[cart.ID]; ok {
		return fmt.Errorf("cart with ID %s already exists", cart.ID)
	}
	r.carts[cart.ID] = cart.Clone()
	return nil
}

// GetByID returns a copy of the cart with the given ID.
func (r *MockCartRepository) GetByID(_ context.Context, id string) (*models.Cart, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	cart, ok := r.carts[id]
	if !ok {
		return nil, fmt.Errorf("%w: cart with ID %s", models.ErrNotFound, id)
	}
	return cart.Clone(), nil
}

// Save replaces the stored cart if its version still matches.
func (r *MockCartRepository) Save(_ context.Context, cart *models.Cart) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.carts[cart.ID]
	if !ok {
		return fmt.Errorf("%w: cart with ID %s", models.ErrNotFound, cart.ID)
	}
	if stored.Version != cart.Version {
		return fmt.Errorf("%w: cart %s is at version %d, not %d", ErrVersionConflict, cart.ID, stored.Version, cart.Version)
	}
	cart.Version++
	r.carts[cart.ID] = cart.Clone()
	return nil
}
