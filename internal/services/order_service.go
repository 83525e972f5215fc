package services

import (
	"errors"
	"fmt"

	"plumbus/internal/currency"
	"plumbus/internal/models"
	"plumbus/internal/notify"
	"plumbus/internal/repositories"

	"gorm.io/gorm"
)

var validOrderStatuses = map[string]bool{
	"pending":    true,
	"processing": true,
	"shipped":    true,
	"delivered":  true,
	"cancelled":  true,
}

// OrderService converts carts into immutable orders.
type OrderService struct {
	orderRepo repositories.OrderRepository
	cartRepo  repositories.CartRepository
	userRepo  repositories.UserRepository
	events    notify.Events
}

// NewOrderService creates a new OrderService.
func NewOrderService(
	orderRepo repositories.OrderRepository,
	cartRepo repositories.CartRepository,
	userRepo repositories.UserRepository,
	events notify.Events,
) *OrderService {
	return &OrderService{
		orderRepo: orderRepo,
		cartRepo:  cartRepo,
		userRepo:  userRepo,
		events:    events,
	}
}

// CreateOrder snapshots the user's cart into an order with frozen line-item
// names and base-currency prices, persists it, clears the cart in the same
// transaction and emits an order notification.
func (s *OrderService) CreateOrder(userID, deliveryAddress, phone string) (*models.Order, error) {
	cart, err := s.cartRepo.GetByUser(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEmptyCart
		}
		return nil, err
	}
	if len(cart.Items) == 0 {
		return nil, ErrEmptyCart
	}

	var totalAmount float64
	items := make([]models.OrderItem, 0, len(cart.Items))
	for _, line := range cart.Items {
		if line.Product == nil {
			return nil, fmt.Errorf("cart line %s has no product loaded", line.ID)
		}
		items = append(items, models.OrderItem{
			ProductID:   line.ProductID,
			Quantity:    line.Quantity,
			FrozenName:  line.Product.Name,
			FrozenPrice: line.Product.PriceShmeckles,
		})
		totalAmount += line.Product.PriceShmeckles * float64(line.Quantity)
	}

	order := &models.Order{
		UserID:          userID,
		Status:          "pending",
		TotalAmount:     totalAmount,
		DeliveryAddress: deliveryAddress,
		Phone:           phone,
		Items:           items,
	}

	if err := s.orderRepo.CreateFromCart(order, cart.ID); err != nil {
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	userEmail := ""
	if user, err := s.userRepo.GetByID(userID); err == nil {
		userEmail = user.Email
	}
	s.events.Notify("order.created", map[string]any{
		"order_id":         order.ID,
		"user_email":       userEmail,
		"total_amount":     currency.Format(order.TotalAmount, currency.Shmeckles),
		"delivery_address": order.DeliveryAddress,
	})

	return order, nil
}

// GetOrdersByUser retrieves the user's orders, newest first.
func (s *OrderService) GetOrdersByUser(userID string) ([]models.Order, error) {
	return s.orderRepo.GetAllByUser(userID)
}

// GetOrderByID retrieves one of the user's orders. Another user's order is
// indistinguishable from a missing one.
func (s *OrderService) GetOrderByID(userID, orderID string) (*models.Order, error) {
	order, err := s.orderRepo.GetByID(orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrOrderNotFound, orderID)
		}
		return nil, err
	}
	if order.UserID != userID {
		return nil, fmt.Errorf("%w: %s", ErrOrderNotFound, orderID)
	}
	return order, nil
}

// UpdateOrderStatus moves an order to another status from the allow-set.
func (s *OrderService) UpdateOrderStatus(id string, status string) error {
	if !validOrderStatuses[status] {
		return fmt.Errorf("%w: %s", ErrInvalidStatus, status)
	}

	if err := s.orderRepo.UpdateStatus(id, status); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: %s", ErrOrderNotFound, id)
		}
		return fmt.Errorf("failed to update order status for order %s: %w", id, err)
	}
	return nil
}
