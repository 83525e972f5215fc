package services_test

import (
	"testing"

	"plumbus/internal/models"
	"plumbus/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func newOrderService() (*services.OrderService, *MockOrderRepository, *MockCartRepository, *MockUserRepository, *MockEvents) {
	orderRepo := new(MockOrderRepository)
	cartRepo := new(MockCartRepository)
	userRepo := new(MockUserRepository)
	events := new(MockEvents)
	return services.NewOrderService(orderRepo, cartRepo, userRepo, events), orderRepo, cartRepo, userRepo, events
}

func TestOrderService_CreateOrderFreezesPrices(t *testing.T) {
	service, orderRepo, cartRepo, userRepo, events := newOrderService()

	plumbus := &models.Product{ID: "prod-1", Name: "Plumbus", PriceShmeckles: 6.5}
	portalGun := &models.Product{ID: "prod-2", Name: "Portal Gun", PriceShmeckles: 9000}
	cart := cartWith(
		models.CartItem{ID: "item-1", ProductID: "prod-1", Quantity: 2, Product: plumbus},
		models.CartItem{ID: "item-2", ProductID: "prod-2", Quantity: 1, Product: portalGun},
	)

	cartRepo.On("GetByUser", "user-1").Return(cart, nil).Once()
	orderRepo.On("CreateFromCart", mock.AnythingOfType("*models.Order"), "cart-1").Return(nil).Once()
	userRepo.On("GetByID", "user-1").Return(&models.User{ID: "user-1", Email: "rick@c137.dev"}, nil).Once()
	events.On("Notify", "order.created", mock.Anything).Once()

	order, err := service.CreateOrder("user-1", "Dimension C-137, Earth, garage", "+1234567890")
	assert.NoError(t, err)
	assert.Equal(t, "pending", order.Status)
	assert.Equal(t, 9013.0, order.TotalAmount)
	assert.Len(t, order.Items, 2)
	assert.Equal(t, "Plumbus", order.Items[0].FrozenName)
	assert.Equal(t, 6.5, order.Items[0].FrozenPrice)
	assert.Equal(t, "Portal Gun", order.Items[1].FrozenName)
	orderRepo.AssertExpectations(t)
	events.AssertExpectations(t)
}

func TestOrderService_CreateOrderEmptyCart(t *testing.T) {
	service, orderRepo, cartRepo, _, events := newOrderService()

	cartRepo.On("GetByUser", "user-1").Return(cartWith(), nil).Once()

	_, err := service.CreateOrder("user-1", "Dimension C-137, Earth, garage", "+1234567890")
	assert.ErrorIs(t, err, services.ErrEmptyCart)

	// No cart row at all reads the same as an empty one.
	cartRepo.On("GetByUser", "user-2").Return(nil, notFound("cart for user user-2")).Once()
	_, err = service.CreateOrder("user-2", "Dimension C-137, Earth, garage", "+1234567890")
	assert.ErrorIs(t, err, services.ErrEmptyCart)

	orderRepo.AssertNotCalled(t, "CreateFromCart", mock.Anything, mock.Anything)
	events.AssertNotCalled(t, "Notify", mock.Anything, mock.Anything)
}

func TestOrderService_GetOrderByIDScopedToOwner(t *testing.T) {
	service, orderRepo, _, _, _ := newOrderService()

	order := &models.Order{ID: "order-1", UserID: "user-1", Status: "pending"}

	orderRepo.On("GetByID", "order-1").Return(order, nil).Twice()

	got, err := service.GetOrderByID("user-1", "order-1")
	assert.NoError(t, err)
	assert.Equal(t, "order-1", got.ID)

	// Someone else's order is reported as missing, not forbidden.
	_, err = service.GetOrderByID("user-2", "order-1")
	assert.ErrorIs(t, err, services.ErrOrderNotFound)

	orderRepo.On("GetByID", "ghost").Return(nil, notFound("order ghost")).Once()
	_, err = service.GetOrderByID("user-1", "ghost")
	assert.ErrorIs(t, err, services.ErrOrderNotFound)
	orderRepo.AssertExpectations(t)
}

func TestOrderService_UpdateOrderStatus(t *testing.T) {
	service, orderRepo, _, _, _ := newOrderService()

	orderRepo.On("UpdateStatus", "order-1", "shipped").Return(nil).Once()
	assert.NoError(t, service.UpdateOrderStatus("order-1", "shipped"))

	err := service.UpdateOrderStatus("order-1", "teleported")
	assert.ErrorIs(t, err, services.ErrInvalidStatus)

	orderRepo.On("UpdateStatus", "ghost", "cancelled").Return(notFound("order ghost")).Once()
	err = service.UpdateOrderStatus("ghost", "cancelled")
	assert.ErrorIs(t, err, services.ErrOrderNotFound)
	orderRepo.AssertExpectations(t)
}
