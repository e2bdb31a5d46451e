package repositories

import (
	"context"
	"errors"

	"cartsvc/internal/models"
)

// ErrVersionConflict is returned by Save when the stored cart changed since it
// was loaded. The caller should reload and reapply its change.
var ErrVersionConflict = errors.New("cart version conflict")

// CartRepository defines the interface for cart persistence. Implementations
// serialize writers per cart with the Version field: Save only succeeds when
// the stored version equals cart.Version, and increments it on success.
type CartRepository interface {
	Create(ctx context.Context, cart *models.Cart) error
	GetByID(ctx context.Context, id string) (*models.Cart, error)
	Save(ctx context.Context, cart *models.Cart) error
}
