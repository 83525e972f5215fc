package services

import (
	"errors"
	"fmt"
	"log"

	"plumbus/internal/currency"
	"plumbus/internal/models"
	"plumbus/internal/notify"
	"plumbus/internal/repositories"
	"plumbus/internal/storage"

	"gorm.io/gorm"
)

// CatalogService handles business logic for products: listing, CRUD and the
// image attach/detach lifecycle.
type CatalogService struct {
	productRepo  repositories.ProductRepository
	categoryRepo repositories.CategoryRepository
	images       *storage.ImageStore
	events       notify.Events
}

// NewCatalogService creates a new CatalogService.
func NewCatalogService(
	productRepo repositories.ProductRepository,
	categoryRepo repositories.CategoryRepository,
	images *storage.ImageStore,
	events notify.Events,
) *CatalogService {
	return &CatalogService{
		productRepo:  productRepo,
		categoryRepo: categoryRepo,
		images:       images,
		events:       events,
	}
}

// ListProducts retrieves products, optionally filtered by a case-insensitive
// substring on name or description and sorted by a stored price column.
// Sorting only applies when both currencyName and sortOrder are supplied;
// either one alone leaves the listing in insertion order.
func (s *CatalogService) ListProducts(search, currencyName, sortOrder string) ([]models.Product, error) {
	query := repositories.ProductListQuery{Search: search}

	if currencyName != "" && sortOrder != "" {
		if !currency.Known(currency.Currency(currencyName)) {
			return nil, fmt.Errorf("%w: got %q", ErrInvalidCurrency, currencyName)
		}
		if sortOrder != "asc" && sortOrder != "desc" {
			return nil, fmt.Errorf("%w: got %q", ErrInvalidSortOrder, sortOrder)
		}
		// Sorting compares the raw stored price field, never a converted value.
		query.SortColumn = "price_" + currencyName
		query.SortDesc = sortOrder == "desc"
	}

	return s.productRepo.GetAll(query)
}

// GetProductByID retrieves a single product.
func (s *CatalogService) GetProductByID(id string) (*models.Product, error) {
	product, err := s.productRepo.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrProductNotFound, id)
		}
		return nil, err
	}
	return product, nil
}

// CreateProduct validates the referenced category, persists the product and
// emits a catalog notification.
func (s *CatalogService) CreateProduct(product *models.Product) error {
	if _, err := s.categoryRepo.GetByID(product.CategoryID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: %s", ErrCategoryNotFound, product.CategoryID)
		}
		return err
	}

	if err := s.productRepo.Create(product); err != nil {
		return err
	}

	s.events.Notify("catalog.product.created", map[string]any{
		"product_id": product.ID,
		"name":       product.Name,
		"price":      currency.Format(product.PriceShmeckles, currency.Shmeckles),
		"stock":      product.Stock,
	})
	return nil
}

// UpdateProduct replaces all mutable fields of an existing product,
// re-validating the category when it changed.
func (s *CatalogService) UpdateProduct(id string, data *models.Product) (*models.Product, error) {
	product, err := s.GetProductByID(id)
	if err != nil {
		return nil, err
	}

	if data.CategoryID != product.CategoryID {
		if _, err := s.categoryRepo.GetByID(data.CategoryID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, fmt.Errorf("%w: %s", ErrCategoryNotFound, data.CategoryID)
			}
			return nil, err
		}
	}

	product.Name = data.Name
	product.Description = data.Description
	product.PriceShmeckles = data.PriceShmeckles
	product.PriceFlurbos = data.PriceFlurbos
	product.PriceCredits = data.PriceCredits
	product.Stock = data.Stock
	product.CategoryID = data.CategoryID
	product.Category = nil

	if err := s.productRepo.Update(product); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrProductNotFound, id)
		}
		return nil, err
	}
	return s.GetProductByID(id)
}

// DeleteProduct removes a product by its ID.
func (s *CatalogService) DeleteProduct(id string) error {
	if err := s.productRepo.Delete(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: %s", ErrProductNotFound, id)
		}
		return err
	}
	return nil
}

// AttachImage stores the uploaded image and points the product at it. The
// sequence is write-new, update-DB, delete-old: a failure after the
// filesystem write can orphan the new blob, but the product never references
// a file that does not exist.
func (s *CatalogService) AttachImage(id string, data []byte, originalFilename string) (*models.Product, error) {
	product, err := s.GetProductByID(id)
	if err != nil {
		return nil, err
	}

	newURL, err := s.images.Save(data, originalFilename)
	if err != nil {
		return nil, err
	}

	oldURL := product.ImageURL
	if err := s.productRepo.UpdateImageURL(id, newURL); err != nil {
		// Known consistency gap: the freshly written blob is now orphaned.
		log.Printf("Image DB update failed for product %s, orphaned blob %s: %v", id, newURL, err)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrProductNotFound, id)
		}
		return nil, err
	}

	if oldURL != "" {
		if _, err := s.images.Delete(oldURL); err != nil {
			log.Printf("Failed to delete previous image %s for product %s: %v", oldURL, id, err)
		}
	}

	product.ImageURL = newURL
	return product, nil
}

// RemoveImage detaches and deletes the product's current image.
func (s *CatalogService) RemoveImage(id string) (*models.Product, error) {
	product, err := s.GetProductByID(id)
	if err != nil {
		return nil, err
	}
	if product.ImageURL == "" {
		return nil, fmt.Errorf("%w: %s", ErrNoImage, id)
	}

	oldURL := product.ImageURL
	if err := s.productRepo.UpdateImageURL(id, ""); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrProductNotFound, id)
		}
		return nil, err
	}

	if _, err := s.images.Delete(oldURL); err != nil {
		log.Printf("Failed to delete image %s for product %s: %v", oldURL, id, err)
	}

	product.ImageURL = ""
	return product, nil
}
