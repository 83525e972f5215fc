package repositories

import (
	"plumbus/internal/models"
)

// CartRepository defines the interface for cart data access.
//
// IncrementItemQuantity and InsertItem are the two halves of the add-to-cart
// merge: the increment is an atomic conditional update that only succeeds
// while the merged quantity stays within the product's stock, and the insert
// relies on the unique (cart_id, product_id) index so concurrent first adds
// conflict instead of duplicating lines.
type CartRepository interface {
	GetByUser(userID string) (*models.Cart, error)
	Create(cart *models.Cart) error
	GetItem(cartID, itemID string) (*models.CartItem, error)
	HasItem(cartID, productID string) (bool, error)
	IncrementItemQuantity(cartID, productID string, quantity int) (bool, error)
	InsertItem(item *models.CartItem) error
	DeleteItem(cartID, itemID string) error
	ClearItems(cartID string) error
}
