package services

import (
	"errors"
	"fmt"
)

// Domain errors raised by the service layer. Handlers map these to HTTP
// status codes; no raw infrastructure error crosses that boundary untyped.
var (
	ErrProductNotFound   = errors.New("product not found")
	ErrCategoryNotFound  = errors.New("category not found")
	ErrCategoryInUse     = errors.New("category still has products")
	ErrDuplicateCategory = errors.New("category with this name already exists")
	ErrCartItemNotFound  = errors.New("cart item not found")
	ErrOrderNotFound     = errors.New("order not found")
	ErrEmptyCart         = errors.New("cart is empty")
	ErrNoImage           = errors.New("product has no image")
	ErrInvalidCurrency   = errors.New("currency must be shmeckles, flurbos or credits")
	ErrInvalidSortOrder  = errors.New("sort_order must be asc or desc")
	ErrInvalidStatus     = errors.New("invalid order status")
	ErrInvalidQuantity   = errors.New("quantity must be at least 1")
	ErrEmailTaken        = errors.New("email already registered")
	ErrInvalidLogin      = errors.New("invalid credentials")
)

// InsufficientStockError carries the remaining available quantity so the
// handler can report it to the client.
type InsufficientStockError struct {
	ProductName string
	Requested   int
	Available   int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for %q: requested %d, available %d",
		e.ProductName, e.Requested, e.Available)
}
