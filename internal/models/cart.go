package models

import "time"

// Cart is the single per-user shopping cart, created lazily on first access.
// The unique index on UserID is the arbiter for concurrent first-time access.
// Cart rows are hard-deleted (no soft delete) so the unique indexes here and
// on CartItem never collide with tombstones.
type Cart struct {
	ID         string     `json:"id" gorm:"primaryKey;type:varchar(36)"`
	UserID     string     `json:"user_id" gorm:"uniqueIndex;type:varchar(36);not null"`
	Items      []CartItem `json:"items" gorm:"foreignKey:CartID;constraint:OnDelete:CASCADE"`
	TotalPrice float64    `json:"total_price" gorm:"-"` // derived on read, never stored
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

// ComputeTotal sums quantity times the base-currency price across all items.
// Item products must be loaded.
func (c *Cart) ComputeTotal() float64 {
	var total float64
	for _, item := range c.Items {
		if item.Product != nil {
			total += item.Product.PriceShmeckles * float64(item.Quantity)
		}
	}
	return total
}

// CartItem is one product line in a cart. The unique (cart_id, product_id)
// index makes repeated adds merge into a single line instead of duplicating.
type CartItem struct {
	ID        string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	CartID    string    `json:"cart_id" gorm:"type:varchar(36);not null;uniqueIndex:idx_cart_product"`
	ProductID string    `json:"product_id" gorm:"type:varchar(36);not null;uniqueIndex:idx_cart_product"`
	Quantity  int       `json:"quantity" gorm:"not null" validate:"gte=1"`
	Product   *Product  `json:"product,omitempty" gorm:"foreignKey:ProductID"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
