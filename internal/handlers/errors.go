package handlers

import (
	"errors"
	"fmt"
	"log"

	"plumbus/internal/services"
	"plumbus/internal/storage"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// respondDomainError maps a service-layer error to an HTTP response. Every
// typed domain error has a status here; anything unrecognized is a 500 so no
// raw infrastructure error leaks with a misleading code.
func respondDomainError(c *fiber.Ctx, err error) error {
	var stockErr *services.InsufficientStockError
	if errors.As(err, &stockErr) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message":   "Insufficient stock",
			"error":     stockErr.Error(),
			"available": stockErr.Available,
		})
	}

	status := fiber.StatusInternalServerError
	switch {
	case errors.Is(err, services.ErrProductNotFound),
		errors.Is(err, services.ErrCategoryNotFound),
		errors.Is(err, services.ErrCartItemNotFound),
		errors.Is(err, services.ErrOrderNotFound):
		status = fiber.StatusNotFound
	case errors.Is(err, services.ErrDuplicateCategory),
		errors.Is(err, services.ErrCategoryInUse),
		errors.Is(err, services.ErrEmptyCart),
		errors.Is(err, services.ErrNoImage),
		errors.Is(err, services.ErrInvalidCurrency),
		errors.Is(err, services.ErrInvalidSortOrder),
		errors.Is(err, services.ErrInvalidStatus),
		errors.Is(err, services.ErrInvalidQuantity),
		errors.Is(err, storage.ErrUnsupportedMediaType),
		errors.Is(err, storage.ErrPayloadTooLarge):
		status = fiber.StatusBadRequest
	case errors.Is(err, services.ErrEmailTaken):
		status = fiber.StatusConflict
	case errors.Is(err, services.ErrInvalidLogin):
		status = fiber.StatusUnauthorized
	}

	if status == fiber.StatusInternalServerError {
		log.Printf("Unhandled service error: %v", err)
		return c.Status(status).JSON(fiber.Map{
			"message": "Internal server error",
		})
	}
	return c.Status(status).JSON(fiber.Map{
		"message": err.Error(),
	})
}

// respondValidationError renders validator failures field by field.
func respondValidationError(c *fiber.Ctx, status int, err error) error {
	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		return c.Status(status).JSON(fiber.Map{
			"message": "Validation failed",
			"error":   err.Error(),
		})
	}
	errorMessages := make(map[string]string)
	for _, e := range validationErrors {
		errorMessages[e.Field()] = fmt.Sprintf("Field '%s' failed on the '%s' tag", e.Field(), e.Tag())
	}
	return c.Status(status).JSON(fiber.Map{
		"message": "Validation failed",
		"errors":  errorMessages,
	})
}

func respondBadBody(c *fiber.Ctx, err error) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"message": "Invalid request body",
		"error":   err.Error(),
	})
}
