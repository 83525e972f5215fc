package models

import "gorm.io/gorm"

// Product represents a product in the store. Prices are stored independently
// per currency; shmeckles is the base unit used for cart totals and order
// snapshots. Stock is the authoritative available count for cart adds.
type Product struct {
	ID             string    `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	Name           string    `json:"name" gorm:"type:varchar(100)" validate:"required,min=1,max=100"`
	Description    string    `json:"description" gorm:"type:varchar(500)" validate:"omitempty,max=500"`
	ImageURL       string    `json:"image_url" gorm:"type:varchar(500)" validate:"omitempty,max=500"`
	PriceShmeckles float64   `json:"price_shmeckles" validate:"gte=0"`
	PriceFlurbos   float64   `json:"price_flurbos" validate:"gte=0"`
	PriceCredits   float64   `json:"price_credits" validate:"gte=0"`
	Stock          int       `json:"stock" validate:"gte=0"`
	CategoryID     string    `json:"category_id" gorm:"type:varchar(36);not null" validate:"required"`
	Category       *Category `json:"category,omitempty" gorm:"foreignKey:CategoryID"`
	gorm.Model               // Embed gorm.Model for CreatedAt, UpdatedAt, DeletedAt
}
