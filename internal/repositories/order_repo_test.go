package repositories_test

import (
	"testing"

	"cartsvc/internal/models"
	"cartsvc/internal/repositories"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newOrder(cartID string) *models.Order {
	return &models.Order{
		CartID:       cartID,
		CustomerID:   7,
		RestaurantID: 5,
		Items: []models.OrderItem{
			{MenuItemID: 100, Quantity: 2, SpecialInstructions: "no onions", UnitPrice: decimal.RequireFromString("9.99"), TotalPrice: decimal.RequireFromString("19.98")},
			{MenuItemID: 200, Quantity: 1, UnitPrice: decimal.RequireFromString("3.50"), TotalPrice: decimal.RequireFromString("3.50")},
		},
		TotalAmount: decimal.RequireFromString("23.48"),
		Status:      models.OrderStatusPending,
	}
}

// orderRepositoryContract checks the behaviour every OrderRepository shares.
func orderRepositoryContract(t *testing.T, repo repositories.OrderRepository) {
	order := newOrder("cart-1")
	require.NoError(t, repo.Create(order))
	assert.NotEmpty(t, order.ID)
	assert.False(t, order.CreatedAt.IsZero())

	byID, err := repo.GetByID(order.ID)
	require.NoError(t, err)
	assert.Equal(t, "cart-1", byID.CartID)
	assert.Equal(t, int64(7), byID.CustomerID)
	assert.Equal(t, models.OrderStatusPending, byID.Status)
	assert.Equal(t, "23.48", byID.TotalAmount.StringFixed(2))
	require.Len(t, byID.Items, 2)
	assert.Equal(t, int64(100), byID.Items[0].MenuItemID)
	assert.Equal(t, "no onions", byID.Items[0].SpecialInstructions)
	assert.Equal(t, "19.98", byID.Items[0].TotalPrice.StringFixed(2))
	assert.Equal(t, int64(200), byID.Items[1].MenuItemID)

	byCart, err := repo.GetByCartID("cart-1")
	require.NoError(t, err)
	assert.Equal(t, order.ID, byCart.ID)
	assert.Len(t, byCart.Items, 2)

	err = repo.Create(newOrder("cart-1"))
	assert.ErrorIs(t, err, repositories.ErrDuplicateOrder)

	second := newOrder("cart-2")
	require.NoError(t, repo.Create(second))

	_, err = repo.GetByID("missing")
	assert.ErrorIs(t, err, models.ErrNotFound)
	_, err = repo.GetByCartID("cart-3")
	assert.ErrorIs(t, err, models.ErrNotFound)

	all, err := repo.GetAll()
	require.NoError(t, err)
	require.Len(t, all, 2)
	ids := []string{all[0].ID, all[1].ID}
	assert.ElementsMatch(t, []string{order.ID, second.ID}, ids)
}

func TestMockOrderRepository(t *testing.T) {
	orderRepositoryContract(t, repositories.NewMockOrderRepository())
}

func TestGORMOrderRepository(t *testing.T) {
	orderRepositoryContract(t, repositories.NewGORMOrderRepository(openTestDB(t)))
}

// Orders written through one repository are visible to a new one on the same
// database, as after a restart.
func TestGORMOrderRepository_SurvivesReopen(t *testing.T) {
	db := openTestDB(t)
	order := newOrder("cart-1")
	require.NoError(t, repositories.NewGORMOrderRepository(db).Create(order))

	reopened := repositories.NewGORMOrderRepository(db)
	got, err := reopened.GetByCartID("cart-1")
	require.NoError(t, err)
	assert.Equal(t, order.ID, got.ID)
	assert.Len(t, got.Items, 2)
}
