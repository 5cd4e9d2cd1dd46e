package repositories

import (
	"fmt"
	"sync"
	"time"

	"tokotopup/internal/models"
	"tokotopup/internal/refs"
)

// MockOrderRepository is an in-memory implementation of OrderRepository.
// Orders are returned in insertion order.
type MockOrderRepository struct {
	orders []models.Order
	mu     sync.RWMutex
}

// NewMockOrderRepository creates a new instance of MockOrderRepository.
func NewMockOrderRepository() *MockOrderRepository {
	return &MockOrderRepository{}
}

// GetAll returns all orders.
func (r *MockOrderRepository) GetAll() ([]models.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	orderList := make([]models.Order, len(r.orders))
	copy(orderList, r.orders)
	return orderList, nil
}

// GetByID returns an order by its ID.
func (r *MockOrderRepository) GetByID(id string) (*models.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, order := range r.orders {
		if order.ID == id {
			return &order, nil
		}
	}
	return nil, fmt.Errorf("order with ID %s: %w", id, ErrOrderNotFound)
}

// Create adds a new order.
func (r *MockOrderRepository) Create(order *models.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if order.ID == "" {
		order.ID = refs.Generate(refs.DefaultLength)
	}
	if order.CreatedAt.IsZero() {
		order.CreatedAt = time.Now()
	}
	r.orders = append(r.orders, *order)
	return nil
}

// UpdateStatus updates the status of an order.
func (r *MockOrderRepository) UpdateStatus(id string, status string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range r.orders {
		if r.orders[i].ID == id {
			r.orders[i].Status = status
			return nil
		}
	}
	return fmt.Errorf("order with ID %s not found for status update: %w", id, ErrOrderNotFound)
}

// Delete removes an order.
func (r *MockOrderRepository) Delete(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	kept := r.orders[:0]
	for _, order := range r.orders {
		if order.ID != id {
			kept = append(kept, order)
		}
	}
	r.orders = kept
	return nil
}
