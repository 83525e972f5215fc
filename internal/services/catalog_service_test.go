package services_test

import (
	"fmt"
	"log"
	"os"
	"testing"

	"plumbus/internal/models"
	"plumbus/internal/repositories"
	"plumbus/internal/services"
	"plumbus/internal/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"
)

// TestMain is used to setup test environment
func TestMain(m *testing.M) {
	log.SetOutput(os.Stdout)
	code := m.Run()
	os.Exit(code)
}

func newCatalogService(t *testing.T) (*services.CatalogService, *MockProductRepository, *MockCategoryRepository, *storage.ImageStore, *MockEvents) {
	t.Helper()
	productRepo := new(MockProductRepository)
	categoryRepo := new(MockCategoryRepository)
	events := new(MockEvents)
	images, err := storage.NewImageStore(t.TempDir())
	assert.NoError(t, err)
	return services.NewCatalogService(productRepo, categoryRepo, images, events), productRepo, categoryRepo, images, events
}

func TestCatalogService_ListProducts(t *testing.T) {
	service, productRepo, _, _, _ := newCatalogService(t)

	expected := []models.Product{
		{ID: "1", Name: "Plumbus", PriceShmeckles: 6.5},
		{ID: "2", Name: "Portal Gun", PriceShmeckles: 9000},
	}

	// Currency and sort order together enable price sorting.
	productRepo.On("GetAll", repositories.ProductListQuery{
		SortColumn: "price_flurbos",
		SortDesc:   false,
	}).Return(expected, nil).Once()

	products, err := service.ListProducts("", "flurbos", "asc")
	assert.NoError(t, err)
	assert.Equal(t, expected, products)
	productRepo.AssertExpectations(t)

	// Currency alone leaves the listing unsorted.
	productRepo.On("GetAll", repositories.ProductListQuery{}).Return(expected, nil).Once()
	_, err = service.ListProducts("", "flurbos", "")
	assert.NoError(t, err)
	productRepo.AssertExpectations(t)

	// Search is passed through.
	productRepo.On("GetAll", repositories.ProductListQuery{Search: "plumbus"}).Return(expected[:1], nil).Once()
	products, err = service.ListProducts("plumbus", "", "")
	assert.NoError(t, err)
	assert.Len(t, products, 1)
	productRepo.AssertExpectations(t)
}

func TestCatalogService_ListProductsInvalidParams(t *testing.T) {
	service, productRepo, _, _, _ := newCatalogService(t)

	_, err := service.ListProducts("", "blemflarcks", "asc")
	assert.ErrorIs(t, err, services.ErrInvalidCurrency)

	_, err = service.ListProducts("", "flurbos", "sideways")
	assert.ErrorIs(t, err, services.ErrInvalidSortOrder)

	productRepo.AssertNotCalled(t, "GetAll", mock.Anything)
}

func TestCatalogService_GetProductByID(t *testing.T) {
	service, productRepo, _, _, _ := newCatalogService(t)

	expected := &models.Product{ID: "1", Name: "Plumbus", PriceShmeckles: 6.5, Stock: 100}

	productRepo.On("GetByID", "1").Return(expected, nil).Once()
	product, err := service.GetProductByID("1")
	assert.NoError(t, err)
	assert.Equal(t, expected, product)

	productRepo.On("GetByID", "99").Return(nil, fmt.Errorf("product with ID 99: %w", gorm.ErrRecordNotFound)).Once()
	product, err = service.GetProductByID("99")
	assert.ErrorIs(t, err, services.ErrProductNotFound)
	assert.Nil(t, product)
	productRepo.AssertExpectations(t)
}

func TestCatalogService_CreateProduct(t *testing.T) {
	service, productRepo, categoryRepo, _, events := newCatalogService(t)

	product := &models.Product{Name: "Plumbus", PriceShmeckles: 6.5, Stock: 100, CategoryID: "cat-1"}

	categoryRepo.On("GetByID", "cat-1").Return(&models.Category{ID: "cat-1", Name: "Gadgets"}, nil).Once()
	productRepo.On("Create", product).Return(nil).Once()
	events.On("Notify", "catalog.product.created", mock.Anything).Once()

	err := service.CreateProduct(product)
	assert.NoError(t, err)
	productRepo.AssertExpectations(t)
	categoryRepo.AssertExpectations(t)
	events.AssertExpectations(t)
}

func TestCatalogService_CreateProductUnknownCategory(t *testing.T) {
	service, productRepo, categoryRepo, _, events := newCatalogService(t)

	product := &models.Product{Name: "Plumbus", CategoryID: "nope"}

	categoryRepo.On("GetByID", "nope").Return(nil, fmt.Errorf("category with ID nope: %w", gorm.ErrRecordNotFound)).Once()

	err := service.CreateProduct(product)
	assert.ErrorIs(t, err, services.ErrCategoryNotFound)
	productRepo.AssertNotCalled(t, "Create", mock.Anything)
	events.AssertNotCalled(t, "Notify", mock.Anything, mock.Anything)
}

func TestCatalogService_UpdateProductNotFound(t *testing.T) {
	service, productRepo, _, _, _ := newCatalogService(t)

	productRepo.On("GetByID", "99").Return(nil, fmt.Errorf("product with ID 99: %w", gorm.ErrRecordNotFound)).Once()

	_, err := service.UpdateProduct("99", &models.Product{Name: "Ghost", CategoryID: "cat-1"})
	assert.ErrorIs(t, err, services.ErrProductNotFound)
}

func TestCatalogService_DeleteProduct(t *testing.T) {
	service, productRepo, _, _, _ := newCatalogService(t)

	productRepo.On("Delete", "1").Return(nil).Once()
	assert.NoError(t, service.DeleteProduct("1"))

	productRepo.On("Delete", "99").Return(fmt.Errorf("product with ID 99: %w", gorm.ErrRecordNotFound)).Once()
	assert.ErrorIs(t, service.DeleteProduct("99"), services.ErrProductNotFound)
	productRepo.AssertExpectations(t)
}

func TestCatalogService_AttachImageReplacesPrevious(t *testing.T) {
	service, productRepo, _, images, _ := newCatalogService(t)

	oldURL, err := images.Save([]byte("olddata"), "old.png")
	assert.NoError(t, err)

	product := &models.Product{ID: "1", Name: "Plumbus", ImageURL: oldURL}
	productRepo.On("GetByID", "1").Return(product, nil).Once()
	productRepo.On("UpdateImageURL", "1", mock.AnythingOfType("string")).Return(nil).Once()

	updated, err := service.AttachImage("1", []byte("newdata"), "new.webp")
	assert.NoError(t, err)
	assert.NotEqual(t, oldURL, updated.ImageURL)
	assert.True(t, images.Exists(updated.ImageURL))
	// The previous blob is removed once the database points at the new one.
	assert.False(t, images.Exists(oldURL))
	productRepo.AssertExpectations(t)
}

func TestCatalogService_AttachImageRejectsBadUpload(t *testing.T) {
	service, productRepo, _, _, _ := newCatalogService(t)

	product := &models.Product{ID: "1", Name: "Plumbus"}
	productRepo.On("GetByID", "1").Return(product, nil).Twice()

	_, err := service.AttachImage("1", []byte("MZ"), "virus.exe")
	assert.ErrorIs(t, err, storage.ErrUnsupportedMediaType)

	big := make([]byte, 6*1024*1024)
	_, err = service.AttachImage("1", big, "big.jpg")
	assert.ErrorIs(t, err, storage.ErrPayloadTooLarge)

	productRepo.AssertNotCalled(t, "UpdateImageURL", mock.Anything, mock.Anything)
}

func TestCatalogService_RemoveImage(t *testing.T) {
	service, productRepo, _, images, _ := newCatalogService(t)

	url, err := images.Save([]byte("imagedata"), "plumbus.jpg")
	assert.NoError(t, err)

	product := &models.Product{ID: "1", Name: "Plumbus", ImageURL: url}
	productRepo.On("GetByID", "1").Return(product, nil).Once()
	productRepo.On("UpdateImageURL", "1", "").Return(nil).Once()

	updated, err := service.RemoveImage("1")
	assert.NoError(t, err)
	assert.Empty(t, updated.ImageURL)
	assert.False(t, images.Exists(url))
	productRepo.AssertExpectations(t)
}

func TestCatalogService_RemoveImageWithoutImage(t *testing.T) {
	service, productRepo, _, _, _ := newCatalogService(t)

	productRepo.On("GetByID", "1").Return(&models.Product{ID: "1", Name: "Plumbus"}, nil).Once()

	_, err := service.RemoveImage("1")
	assert.ErrorIs(t, err, services.ErrNoImage)
	productRepo.AssertNotCalled(t, "UpdateImageURL", mock.Anything, mock.Anything)
}
