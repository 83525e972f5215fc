package models

import "time"

// OrderItem is a snapshot of a product line at order time. FrozenName and
// FrozenPrice never change, even if the product is later edited or deleted.
type OrderItem struct {
	ID          string  `json:"id" gorm:"primaryKey;type:varchar(36)"`
	OrderID     string  `json:"order_id" gorm:"type:varchar(36);not null"`
	ProductID   string  `json:"product_id" gorm:"type:varchar(36);not null"`
	Quantity    int     `json:"quantity" gorm:"not null"`
	FrozenName  string  `json:"frozen_name" gorm:"type:varchar(100);not null"`
	FrozenPrice float64 `json:"frozen_price" gorm:"not null"` // shmeckles at order time
}

// Order is an immutable record of a placed cart. TotalAmount is computed at
// creation and frozen together with its items.
type Order struct {
	ID              string      `json:"id" gorm:"primaryKey;type:varchar(36)"`
	UserID          string      `json:"user_id" gorm:"type:varchar(36);not null;index"`
	Status          string      `json:"status" gorm:"type:varchar(50);not null;default:pending"`
	TotalAmount     float64     `json:"total_amount" gorm:"not null"`
	DeliveryAddress string      `json:"delivery_address" gorm:"type:varchar(500);not null" validate:"required,min=10,max=500"`
	Phone           string      `json:"phone" gorm:"type:varchar(20);not null" validate:"required,min=10,max=20"`
	Items           []OrderItem `json:"items" gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	CreatedAt       time.Time   `json:"created_at"`
	UpdatedAt       time.Time   `json:"updated_at"`
}
