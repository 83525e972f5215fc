package services_test

import (
	"testing"

	"plumbus/internal/models"
	"plumbus/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"golang.org/x/crypto/bcrypt"
)

func TestAuthService_RegisterUserHashesPassword(t *testing.T) {
	userRepo := new(MockUserRepository)
	service := services.NewAuthService(userRepo, "test_jwt_secret")

	userRepo.On("GetByEmail", "morty@c137.dev").Return(nil, notFound("user")).Once()
	userRepo.On("Create", mock.MatchedBy(func(u *models.User) bool {
		return u.Email == "morty@c137.dev" &&
			bcrypt.CompareHashAndPassword([]byte(u.Password), []byte("awwgeez")) == nil
	})).Return(nil).Once()

	err := service.RegisterUser(&models.User{Email: "morty@c137.dev", Password: "awwgeez"})
	assert.NoError(t, err)
	userRepo.AssertExpectations(t)
}

func TestAuthService_RegisterUserEmailTaken(t *testing.T) {
	userRepo := new(MockUserRepository)
	service := services.NewAuthService(userRepo, "test_jwt_secret")

	userRepo.On("GetByEmail", "rick@c137.dev").Return(&models.User{ID: "user-1", Email: "rick@c137.dev"}, nil).Once()

	err := service.RegisterUser(&models.User{Email: "rick@c137.dev", Password: "wubbalubba"})
	assert.ErrorIs(t, err, services.ErrEmailTaken)
	userRepo.AssertNotCalled(t, "Create", mock.Anything)

	// Concurrent registration slips past the pre-check and loses to the
	// unique index instead.
	userRepo.On("GetByEmail", "rick@c137.dev").Return(nil, notFound("user")).Once()
	userRepo.On("Create", mock.AnythingOfType("*models.User")).Return(duplicated("user")).Once()

	err = service.RegisterUser(&models.User{Email: "rick@c137.dev", Password: "wubbalubba"})
	assert.ErrorIs(t, err, services.ErrEmailTaken)
	userRepo.AssertExpectations(t)
}

func TestAuthService_LoginUser(t *testing.T) {
	userRepo := new(MockUserRepository)
	service := services.NewAuthService(userRepo, "test_jwt_secret")

	hash, err := bcrypt.GenerateFromPassword([]byte("wubbalubba"), bcrypt.MinCost)
	assert.NoError(t, err)
	user := &models.User{ID: "user-1", Email: "rick@c137.dev", Password: string(hash)}

	userRepo.On("GetByEmail", "rick@c137.dev").Return(user, nil).Twice()

	token, err := service.LoginUser("rick@c137.dev", "wubbalubba")
	assert.NoError(t, err)
	assert.NotEmpty(t, token)

	claims, err := service.ValidateToken(token)
	assert.NoError(t, err)
	assert.Equal(t, "user-1", claims["user_id"])
	assert.Equal(t, "rick@c137.dev", claims["email"])

	_, err = service.LoginUser("rick@c137.dev", "wrong")
	assert.ErrorIs(t, err, services.ErrInvalidLogin)

	// Unknown email and wrong password are indistinguishable.
	userRepo.On("GetByEmail", "nobody@c137.dev").Return(nil, notFound("user")).Once()
	_, err = service.LoginUser("nobody@c137.dev", "whatever")
	assert.ErrorIs(t, err, services.ErrInvalidLogin)
	userRepo.AssertExpectations(t)
}

func TestAuthService_ValidateTokenRejectsForgery(t *testing.T) {
	userRepo := new(MockUserRepository)
	service := services.NewAuthService(userRepo, "test_jwt_secret")
	forger := services.NewAuthService(userRepo, "some_other_secret")

	hash, err := bcrypt.GenerateFromPassword([]byte("wubbalubba"), bcrypt.MinCost)
	assert.NoError(t, err)
	userRepo.On("GetByEmail", "rick@c137.dev").Return(&models.User{ID: "user-1", Email: "rick@c137.dev", Password: string(hash)}, nil).Once()

	forged, err := forger.LoginUser("rick@c137.dev", "wubbalubba")
	assert.NoError(t, err)

	_, err = service.ValidateToken(forged)
	assert.Error(t, err)

	_, err = service.ValidateToken("not.a.token")
	assert.Error(t, err)
}
