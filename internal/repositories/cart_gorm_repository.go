package repositories

import (
	"fmt"

	"plumbus/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GORMCartRepository is a GORM implementation of CartRepository.
type GORMCartRepository struct {
	db *gorm.DB
}

// NewGORMCartRepository creates a new instance of GORMCartRepository.
func NewGORMCartRepository(db *gorm.DB) *GORMCartRepository {
	return &GORMCartRepository{
		db: db,
	}
}

// GetByUser retrieves a user's cart with items and their products eagerly
// loaded, items in insertion order.
func (r *GORMCartRepository) GetByUser(userID string) (*models.Cart, error) {
	var cart models.Cart
	err := r.db.
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("cart_items.created_at asc")
		}).
		Preload("Items.Product").
		First(&cart, "user_id = ?", userID).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("cart for user %s: %w", userID, gorm.ErrRecordNotFound)
		}
		return nil, fmt.Errorf("failed to get cart for user %s: %w", userID, err)
	}
	return &cart, nil
}

// Create inserts a new cart. A concurrent create for the same user surfaces
// as gorm.ErrDuplicatedKey via the unique index on user_id; the caller is
// expected to re-fetch in that case.
func (r *GORMCartRepository) Create(cart *models.Cart) error {
	if cart.ID == "" {
		cart.ID = uuid.New().String()
	}
	if err := r.db.Create(cart).Error; err != nil {
		return fmt.Errorf("failed to create cart: %w", err)
	}
	return nil
}

// GetItem retrieves one cart line, scoped to the cart so a user can never
// address another user's item.
func (r *GORMCartRepository) GetItem(cartID, itemID string) (*models.CartItem, error) {
	var item models.CartItem
	err := r.db.First(&item, "id = ? AND cart_id = ?", itemID, cartID).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("cart item %s: %w", itemID, gorm.ErrRecordNotFound)
		}
		return nil, fmt.Errorf("failed to get cart item %s: %w", itemID, err)
	}
	return &item, nil
}

// HasItem reports whether the cart already holds a line for the product.
func (r *GORMCartRepository) HasItem(cartID, productID string) (bool, error) {
	var count int64
	err := r.db.Model(&models.CartItem{}).
		Where("cart_id = ? AND product_id = ?", cartID, productID).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check cart item: %w", err)
	}
	return count > 0, nil
}

// IncrementItemQuantity merges quantity into an existing line in a single
// conditional UPDATE: it succeeds only if the line exists and the merged
// quantity stays within the product's current stock. Returns false when no
// row was updated, which means the line is missing or the stock check
// failed; the caller distinguishes the two with HasItem.
func (r *GORMCartRepository) IncrementItemQuantity(cartID, productID string, quantity int) (bool, error) {
	res := r.db.Exec(
		`UPDATE cart_items
		 SET quantity = quantity + ?, updated_at = CURRENT_TIMESTAMP
		 WHERE cart_id = ? AND product_id = ?
		   AND quantity + ? <= (
		     SELECT stock FROM products
		     WHERE products.id = cart_items.product_id AND products.deleted_at IS NULL
		   )`,
		quantity, cartID, productID, quantity,
	)
	if res.Error != nil {
		return false, fmt.Errorf("failed to increment cart item quantity: %w", res.Error)
	}
	return res.RowsAffected > 0, nil
}

// InsertItem inserts a new cart line. A concurrent insert for the same
// (cart, product) pair surfaces as gorm.ErrDuplicatedKey.
func (r *GORMCartRepository) InsertItem(item *models.CartItem) error {
	if item.ID == "" {
		item.ID = uuid.New().String()
	}
	if err := r.db.Create(item).Error; err != nil {
		return fmt.Errorf("failed to insert cart item: %w", err)
	}
	return nil
}

// DeleteItem removes one line from the cart.
func (r *GORMCartRepository) DeleteItem(cartID, itemID string) error {
	res := r.db.Delete(&models.CartItem{}, "id = ? AND cart_id = ?", itemID, cartID)
	if res.Error != nil {
		return fmt.Errorf("failed to delete cart item %s: %w", itemID, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("cart item %s: %w", itemID, gorm.ErrRecordNotFound)
	}
	return nil
}

// ClearItems removes every line from the cart.
func (r *GORMCartRepository) ClearItems(cartID string) error {
	if err := r.db.Delete(&models.CartItem{}, "cart_id = ?", cartID).Error; err != nil {
		return fmt.Errorf("failed to clear cart %s: %w", cartID, err)
	}
	return nil
}
