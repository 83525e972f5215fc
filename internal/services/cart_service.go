package services

import (
	"errors"
	"fmt"

	"plumbus/internal/models"
	"plumbus/internal/repositories"

	"gorm.io/gorm"
)

// CartService handles business logic for the per-user shopping cart.
type CartService struct {
	cartRepo    repositories.CartRepository
	productRepo repositories.ProductRepository
}

// NewCartService creates a new CartService.
func NewCartService(cartRepo repositories.CartRepository, productRepo repositories.ProductRepository) *CartService {
	return &CartService{
		cartRepo:    cartRepo,
		productRepo: productRepo,
	}
}

// GetOrCreateCart returns the user's cart, creating an empty one on first
// access. Two concurrent first-requests are arbitrated by the unique index
// on user_id: the losing writer re-fetches instead of erroring.
func (s *CartService) GetOrCreateCart(userID string) (*models.Cart, error) {
	cart, err := s.cartRepo.GetByUser(userID)
	if err == nil {
		cart.TotalPrice = cart.ComputeTotal()
		return cart, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	newCart := &models.Cart{UserID: userID}
	if createErr := s.cartRepo.Create(newCart); createErr != nil {
		if !errors.Is(createErr, gorm.ErrDuplicatedKey) {
			return nil, createErr
		}
		// Lost the creation race; the other writer's cart is authoritative.
	}

	cart, err = s.cartRepo.GetByUser(userID)
	if err != nil {
		return nil, err
	}
	cart.TotalPrice = cart.ComputeTotal()
	return cart, nil
}

// AddItem adds quantity of a product to the user's cart, merging into an
// existing line when present. The merge is an atomic conditional update
// bounded by the product's stock; inserting a new line races through the
// unique (cart_id, product_id) index and retries as a merge on conflict.
func (s *CartService) AddItem(userID, productID string, quantity int) (*models.Cart, error) {
	if quantity < 1 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidQuantity, quantity)
	}

	cart, err := s.GetOrCreateCart(userID)
	if err != nil {
		return nil, err
	}

	product, err := s.productRepo.GetByID(productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrProductNotFound, productID)
		}
		return nil, err
	}

	for attempt := 0; attempt < 2; attempt++ {
		merged, err := s.cartRepo.IncrementItemQuantity(cart.ID, productID, quantity)
		if err != nil {
			return nil, err
		}
		if merged {
			return s.reload(userID)
		}

		// No row updated: either the line doesn't exist yet, or merging
		// would exceed the available stock.
		exists, err := s.cartRepo.HasItem(cart.ID, productID)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, &InsufficientStockError{
				ProductName: product.Name,
				Requested:   quantity,
				Available:   product.Stock,
			}
		}

		if quantity > product.Stock {
			return nil, &InsufficientStockError{
				ProductName: product.Name,
				Requested:   quantity,
				Available:   product.Stock,
			}
		}

		insertErr := s.cartRepo.InsertItem(&models.CartItem{
			CartID:    cart.ID,
			ProductID: productID,
			Quantity:  quantity,
		})
		if insertErr == nil {
			return s.reload(userID)
		}
		if !errors.Is(insertErr, gorm.ErrDuplicatedKey) {
			return nil, insertErr
		}
		// A concurrent add created the line first; retry as a merge.
	}

	return nil, fmt.Errorf("failed to add product %s to cart after retry", productID)
}

// RemoveItem deletes one line from the user's cart.
func (s *CartService) RemoveItem(userID, itemID string) (*models.Cart, error) {
	cart, err := s.GetOrCreateCart(userID)
	if err != nil {
		return nil, err
	}

	if err := s.cartRepo.DeleteItem(cart.ID, itemID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrCartItemNotFound, itemID)
		}
		return nil, err
	}
	return s.reload(userID)
}

// ClearCart removes every line and returns the now-empty cart.
func (s *CartService) ClearCart(userID string) (*models.Cart, error) {
	cart, err := s.GetOrCreateCart(userID)
	if err != nil {
		return nil, err
	}

	if err := s.cartRepo.ClearItems(cart.ID); err != nil {
		return nil, err
	}
	return s.reload(userID)
}

func (s *CartService) reload(userID string) (*models.Cart, error) {
	cart, err := s.cartRepo.GetByUser(userID)
	if err != nil {
		return nil, err
	}
	cart.TotalPrice = cart.ComputeTotal()
	return cart, nil
}
