package repositories

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"tokotopup/internal/metrics"
	"tokotopup/internal/models"
	"tokotopup/internal/refs"
)

// GORMOrderRepository is a GORM implementation of OrderRepository.
type GORMOrderRepository struct {
	db *gorm.DB
}

// NewGORMOrderRepository creates a new instance of GORMOrderRepository.
func NewGORMOrderRepository(db *gorm.DB) *GORMOrderRepository {
	return &GORMOrderRepository{
		db: db,
	}
}

// GetAll retrieves all orders, oldest first.
func (r *GORMOrderRepository) GetAll() ([]models.Order, error) {
	orders := []models.Order{}
	err := r.db.Order("created_at asc").Find(&orders).Error
	metrics.ObserveStore("get_all", err)
	if err != nil {
		return nil, fmt.Errorf("failed to get all orders: %w", err)
	}
	return orders, nil
}

// GetByID retrieves a single order by its ID.
func (r *GORMOrderRepository) GetByID(id string) (*models.Order, error) {
	var order models.Order
	err := r.db.First(&order, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		metrics.ObserveStore("get", nil)
		return nil, fmt.Errorf("order with ID %s: %w", id, ErrOrderNotFound)
	}
	metrics.ObserveStore("get", err)
	if err != nil {
		return nil, fmt.Errorf("failed to get order by ID %s: %w", id, err)
	}
	return &order, nil
}

// Create inserts a new order.
func (r *GORMOrderRepository) Create(order *models.Order) error {
	if order.ID == "" {
		order.ID = refs.Generate(refs.DefaultLength)
	}
	err := r.db.Create(order).Error
	metrics.ObserveStore("create", err)
	if err != nil {
		return fmt.Errorf("failed to create order: %w", err)
	}
	return nil
}

// UpdateStatus updates the status of an order.
func (r *GORMOrderRepository) UpdateStatus(id string, status string) error {
	res := r.db.Model(&models.Order{}).Where("id = ?", id).Update("status", status)
	metrics.ObserveStore("update_status", res.Error)
	if res.Error != nil {
		return fmt.Errorf("failed to update order status: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("order with ID %s not found for status update: %w", id, ErrOrderNotFound)
	}
	return nil
}

// Delete deletes an order by its ID.
func (r *GORMOrderRepository) Delete(id string) error {
	err := r.db.Delete(&models.Order{}, "id = ?", id).Error
	metrics.ObserveStore("delete", err)
	if err != nil {
		return fmt.Errorf("failed to delete order: %w", err)
	}
	return nil
}
