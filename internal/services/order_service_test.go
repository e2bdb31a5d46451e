package services_test

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"

	"cartsvc/internal/events"
	"cartsvc/internal/logger"
	"cartsvc/internal/models"
	"cartsvc/internal/repositories"
	"cartsvc/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockOrderRepository is a mock implementation of repositories.OrderRepository
type MockOrderRepository struct {
	mock.Mock
}

func (m *MockOrderRepository) GetAll() ([]models.Order, error) {
	args := m.Called()
	return args.Get(0).([]models.Order), args.Error(1)
}

func (m *MockOrderRepository) GetByID(id string) (*models.Order, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Order), args.Error(1)
}

func (m *MockOrderRepository) GetByCartID(cartID string) (*models.Order, error) {
	args := m.Called(cartID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Order), args.Error(1)
}

func (m *MockOrderRepository) Create(order *models.Order) error {
	args := m.Called(order)
	return args.Error(0)
}

func checkedOutEvent(t *testing.T) events.CartEvent {
	t.Helper()
	cart := activeCart(t)
	_, err := cart.AddItem(100, 2, dec("9.99"), "no onions", actorID, fixedNow)
	require.NoError(t, err)
	_, err = cart.AddItem(200, 1, dec("3.50"), "", actorID, fixedNow)
	require.NoError(t, err)
	require.NoError(t, cart.Checkout(actorID, fixedNow))
	return events.NewCartEvent(events.CartCheckedOut, cart)
}

func TestOrderService_CreateFromCheckout(t *testing.T) {
	repo := repositories.NewMockOrderRepository()
	svc := services.NewOrderService(repo, logger.Nop())
	evt := checkedOutEvent(t)

	order, err := svc.CreateFromCheckout(evt)
	require.NoError(t, err)

	assert.Equal(t, evt.CartID, order.CartID)
	assert.Equal(t, int64(7), order.CustomerID)
	assert.Equal(t, int64(5), order.RestaurantID)
	assert.Equal(t, models.OrderStatusPending, order.Status)
	assert.Equal(t, "23.48", order.TotalAmount.StringFixed(2))
	require.Len(t, order.Items, 2)
	assert.Equal(t, "no onions", order.Items[0].SpecialInstructions)

	fetched, err := svc.GetOrderByID(order.ID)
	require.NoError(t, err)
	assert.Equal(t, order.ID, fetched.ID)
}

func TestOrderService_CreateFromCheckout_IsIdempotent(t *testing.T) {
	repo := repositories.NewMockOrderRepository()
	svc := services.NewOrderService(repo, logger.Nop())
	evt := checkedOutEvent(t)

	first, err := svc.CreateFromCheckout(evt)
	require.NoError(t, err)
	second, err := svc.CreateFromCheckout(evt)
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	all, err := svc.GetAllOrders()
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestOrderService_CreateFromCheckout_RejectsBadEvents(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(evt *events.CartEvent)
	}{
		{"cancel event", func(evt *events.CartEvent) { evt.Type = events.CartCancelled }},
		{"active status", func(evt *events.CartEvent) { evt.Status = models.CartStatusActive }},
		{"no items", func(evt *events.CartEvent) { evt.Items = nil }},
		{"mispriced line", func(evt *events.CartEvent) { evt.Items[0].TotalPrice = dec("1.00") }},
		{"wrong subtotal", func(evt *events.CartEvent) { evt.Subtotal = dec("1.00") }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := services.NewOrderService(repositories.NewMockOrderRepository(), logger.Nop())
			evt := checkedOutEvent(t)
			tt.mutate(&evt)

			_, err := svc.CreateFromCheckout(evt)
			assert.ErrorIs(t, err, models.ErrInvalidArgument)
		})
	}
}

func TestOrderService_HandleCheckoutMessage(t *testing.T) {
	repo := repositories.NewMockOrderRepository()
	svc := services.NewOrderService(repo, logger.Nop())
	evt := checkedOutEvent(t)
	body, err := json.Marshal(evt)
	require.NoError(t, err)

	require.NoError(t, svc.HandleCheckoutMessage(body))
	require.NoError(t, svc.HandleCheckoutMessage(body))

	order, err := repo.GetByCartID(evt.CartID)
	require.NoError(t, err)
	assert.Equal(t, "23.48", order.TotalAmount.StringFixed(2))
	all, err := repo.GetAll()
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestOrderService_HandleCheckoutMessage_DropsPoisonMessages(t *testing.T) {
	repo := repositories.NewMockOrderRepository()
	svc := services.NewOrderService(repo, logger.Nop())

	assert.NoError(t, svc.HandleCheckoutMessage([]byte("{not json")))

	evt := checkedOutEvent(t)
	evt.Type = events.CartCancelled
	body, err := json.Marshal(evt)
	require.NoError(t, err)
	assert.NoError(t, svc.HandleCheckoutMessage(body))

	all, err := repo.GetAll()
	require.NoError(t, err)
	assert.Empty(t, all)
}

// End to end through the cart service: the published checkout event becomes
// an order.
func TestOrderService_FromCartServiceCheckout(t *testing.T) {
	ctx := context.Background()
	orders := services.NewOrderService(repositories.NewMockOrderRepository(), logger.Nop())
	publisher := publisherFunc(func(_, routingKey string, body []byte) error {
		if routingKey != events.CartCheckedOut {
			return nil
		}
		return orders.HandleCheckoutMessage(body)
	})
	carts := services.NewCartService(repositories.NewMockCartRepository(), nil, publisher, logger.Nop())

	cart, err := carts.CreateCart(ctx, 7, 5, actorID)
	require.NoError(t, err)
	_, err = carts.AddItem(ctx, cart.ID, services.AddItemInput{MenuItemID: 1, Quantity: 3, UnitPrice: dec("0.125")}, actorID)
	require.NoError(t, err)
	_, err = carts.Checkout(ctx, cart.ID, actorID)
	require.NoError(t, err)

	all, err := orders.GetAllOrders()
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, cart.ID, all[0].CartID)
	assert.Equal(t, "0.39", all[0].TotalAmount.StringFixed(2))
}

type publisherFunc func(exchange, routingKey string, body []byte) error

func (f publisherFunc) Publish(exchange, routingKey string, body []byte) error {
	return f(exchange, routingKey, body)
}

func TestOrderService_CreateFromCheckout_LosesRaceToConcurrentDelivery(t *testing.T) {
	repo := new(MockOrderRepository)
	svc := services.NewOrderService(repo, logger.Nop())
	evt := checkedOutEvent(t)
	existing := &models.Order{ID: "order-1", CartID: evt.CartID}

	repo.On("GetByCartID", evt.CartID).Return(nil, fmt.Errorf("%w: order for cart", models.ErrNotFound)).Once()
	repo.On("Create", mock.AnythingOfType("*models.Order")).
		Return(fmt.Errorf("%w: cart %s", repositories.ErrDuplicateOrder, evt.CartID)).Once()
	repo.On("GetByCartID", evt.CartID).Return(existing, nil).Once()

	order, err := svc.CreateFromCheckout(evt)
	require.NoError(t, err)
	assert.Equal(t, "order-1", order.ID)
	repo.AssertExpectations(t)
}
