package repositories

import (
	"plumbus/internal/models"
)

// OrderRepository defines the interface for order data access.
type OrderRepository interface {
	// CreateFromCart persists the order with its items and clears the source
	// cart's lines in a single transaction.
	CreateFromCart(order *models.Order, cartID string) error
	GetAllByUser(userID string) ([]models.Order, error)
	GetByID(id string) (*models.Order, error)
	UpdateStatus(id string, status string) error
}
