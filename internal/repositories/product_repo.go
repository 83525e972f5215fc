package repositories

import (
	"plumbus/internal/models"
)

// ProductListQuery narrows and orders a product listing. SortColumn must be
// one of the stored price columns; implementations whitelist it before
// building SQL.
type ProductListQuery struct {
	Search     string // case-insensitive substring on name or description
	SortColumn string // "price_shmeckles", "price_flurbos" or "price_credits"
	SortDesc   bool
}

// ProductRepository defines the interface for product data access.
type ProductRepository interface {
	GetAll(query ProductListQuery) ([]models.Product, error)
	GetByID(id string) (*models.Product, error)
	Create(product *models.Product) error
	Update(product *models.Product) error
	Delete(id string) error
	UpdateImageURL(id string, imageURL string) error
}
