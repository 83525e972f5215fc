package repositories

import (
	"fmt"
	"strings"

	"plumbus/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// priceColumns whitelists sortable columns so a query can never smuggle SQL
// through the ORDER BY clause.
var priceColumns = map[string]bool{
	"price_shmeckles": true,
	"price_flurbos":   true,
	"price_credits":   true,
}

// GORMProductRepository is a GORM implementation of ProductRepository.
type GORMProductRepository struct {
	db *gorm.DB
}

// NewGORMProductRepository creates a new instance of GORMProductRepository.
func NewGORMProductRepository(db *gorm.DB) *GORMProductRepository {
	return &GORMProductRepository{
		db: db,
	}
}

// GetAll retrieves products matching the query. Without an explicit sort the
// result keeps creation order.
func (r *GORMProductRepository) GetAll(query ProductListQuery) ([]models.Product, error) {
	tx := r.db.Preload("Category").Model(&models.Product{})

	if query.Search != "" {
		like := "%" + strings.ToLower(query.Search) + "%"
		tx = tx.Where("LOWER(name) LIKE ? OR LOWER(description) LIKE ?", like, like)
	}

	if query.SortColumn != "" {
		if !priceColumns[query.SortColumn] {
			return nil, fmt.Errorf("unsupported sort column %q", query.SortColumn)
		}
		direction := "asc"
		if query.SortDesc {
			direction = "desc"
		}
		tx = tx.Order(query.SortColumn + " " + direction)
	} else {
		tx = tx.Order("created_at asc")
	}

	var products []models.Product
	if err := tx.Find(&products).Error; err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	return products, nil
}

// GetByID retrieves a single product with its category preloaded.
func (r *GORMProductRepository) GetByID(id string) (*models.Product, error) {
	var product models.Product
	if err := r.db.Preload("Category").First(&product, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("product with ID %s: %w", id, gorm.ErrRecordNotFound)
		}
		return nil, fmt.Errorf("failed to get product by ID %s: %w", id, err)
	}
	return &product, nil
}

// Create creates a new product in the database.
func (r *GORMProductRepository) Create(product *models.Product) error {
	if product.ID == "" {
		product.ID = uuid.New().String()
	}
	if err := r.db.Create(product).Error; err != nil {
		return fmt.Errorf("failed to create product: %w", err)
	}
	return nil
}

// Update updates an existing product in the database.
func (r *GORMProductRepository) Update(product *models.Product) error {
	res := r.db.Save(product) // Save updates all fields, including zero values
	if res.Error != nil {
		return fmt.Errorf("failed to update product: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		// GORM's Save doesn't return ErrRecordNotFound if no rows were
		// affected by an update, so we check RowsAffected.
		return fmt.Errorf("product with ID %s: %w", product.ID, gorm.ErrRecordNotFound)
	}
	return nil
}

// Delete deletes a product by its ID from the database.
func (r *GORMProductRepository) Delete(id string) error {
	res := r.db.Delete(&models.Product{}, "id = ?", id)
	if res.Error != nil {
		return fmt.Errorf("failed to delete product: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("product with ID %s: %w", id, gorm.ErrRecordNotFound)
	}
	return nil
}

// UpdateImageURL sets only the image_url column of a product.
func (r *GORMProductRepository) UpdateImageURL(id string, imageURL string) error {
	res := r.db.Model(&models.Product{}).Where("id = ?", id).Update("image_url", imageURL)
	if res.Error != nil {
		return fmt.Errorf("failed to update image URL for product %s: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("product with ID %s: %w", id, gorm.ErrRecordNotFound)
	}
	return nil
}
