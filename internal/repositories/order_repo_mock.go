package repositories

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"cartsvc/internal/models"

	"github.com/google/uuid"
)

// MockOrderRepository is an in-memory implementation of OrderRepository.
// At most one order exists per cart.
type MockOrderRepository struct {
	orders map[string]models.Order
	byCart map[string]string
	mu     sync.RWMutex
}

// NewMockOrderRepository creates a new instance of MockOrderRepository.
func NewMockOrderRepository() *MockOrderRepository {
	return &MockOrderRepository{
		orders: make(map[string]models.Order),
		byCart: make(map[string]string),
	}
}

// GetAll returns all orders, oldest first.
func (r *MockOrderRepository) GetAll() ([]models.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	orderList := make([]models.Order, 0, len(r.orders))
	for _, order := range r.orders {
		orderList = append(orderList, order)
	}
	sort.Slice(orderList, func(i, j int) bool { return orderList[i].CreatedAt.Before(orderList[j].CreatedAt) })
	return orderList, nil
}

// GetByID returns an order by its ID.
func (r *MockOrderRepository) GetByID(id string) (*models.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	order, ok := r.orders[id]
	if !ok {
		return nil, fmt.Errorf("%w: order with ID %s", models.ErrNotFound, id)
	}
	return &order, nil
}

// GetByCartID returns the order created from the given cart.
func (r *MockOrderRepository) GetByCartID(cartID string) (*models.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byCart[cartID]
	if !ok {
		return nil, fmt.Errorf("%w: order for cart %s", models.ErrNotFound, cartID)
	}
	order := r.orders[id]
	return &order, nil
}

// Create adds a new order.
func (r *MockOrderRepository) Create(order *models.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byCart[order.CartID]; ok {
		return fmt.Errorf("%w: cart %s", ErrDuplicateOrder, order.CartID)
	}
	if order.ID == "" {
		order.ID = uuid.New().String()
	}
	now := time.Now()
	order.CreatedAt = now
	order.UpdatedAt = now
	for i := range order.Items {
		order.Items[i].OrderID = order.ID
		order.Items[i].Position = i + 1
	}
	r.orders[order.ID] = *order
	r.byCart[order.CartID] = order.ID
	return nil
}
