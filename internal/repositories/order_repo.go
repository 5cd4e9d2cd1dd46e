package repositories

import (
	"errors"

	"tokotopup/internal/models"
)

// ErrOrderNotFound is returned when no order has the requested ID.
var ErrOrderNotFound = errors.New("order not found")

// OrderRepository defines the interface for order data access.
type OrderRepository interface {
	GetAll() ([]models.Order, error)
	GetByID(id string) (*models.Order, error)
	Create(order *models.Order) error
	UpdateStatus(id string, status string) error
	// Delete removes the order with the given ID. Deleting a missing order is not an error.
	Delete(id string) error
}
