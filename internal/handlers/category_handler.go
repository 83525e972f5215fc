package handlers

import (
	"log"

	"plumbus/internal/models"
	"plumbus/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// CategoryHandler handles HTTP requests for categories.
type CategoryHandler struct {
	service  *services.CategoryService
	validate *validator.Validate
}

// NewCategoryHandler creates a new CategoryHandler.
func NewCategoryHandler(service *services.CategoryService) *CategoryHandler {
	return &CategoryHandler{
		service:  service,
		validate: validator.New(),
	}
}

// RegisterRoutes registers the category routes with the Fiber app.
func (h *CategoryHandler) RegisterRoutes(router fiber.Router) {
	categoryRoutes := router.Group("/categories")
	categoryRoutes.Get("/", h.HandleListCategories)
	categoryRoutes.Get("/:id", h.HandleGetCategory)
	categoryRoutes.Post("/", h.HandleCreateCategory)
	categoryRoutes.Put("/:id", h.HandleUpdateCategory)
	categoryRoutes.Delete("/:id", h.HandleDeleteCategory)
}

// HandleListCategories lists all categories.
func (h *CategoryHandler) HandleListCategories(c *fiber.Ctx) error {
	categories, err := h.service.GetAllCategories()
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(categories)
}

// HandleGetCategory retrieves a single category by its ID.
func (h *CategoryHandler) HandleGetCategory(c *fiber.Ctx) error {
	category, err := h.service.GetCategoryByID(c.Params("id"))
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(category)
}

// HandleCreateCategory creates a new category.
func (h *CategoryHandler) HandleCreateCategory(c *fiber.Ctx) error {
	var category models.Category
	if err := c.BodyParser(&category); err != nil {
		log.Printf("Error parsing create category request body: %v", err)
		return respondBadBody(c, err)
	}

	if err := h.validate.Struct(category); err != nil {
		return respondValidationError(c, fiber.StatusBadRequest, err)
	}

	if err := h.service.CreateCategory(&category); err != nil {
		return respondDomainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(category)
}

// HandleUpdateCategory replaces the mutable fields of a category.
func (h *CategoryHandler) HandleUpdateCategory(c *fiber.Ctx) error {
	var data models.Category
	if err := c.BodyParser(&data); err != nil {
		log.Printf("Error parsing update category request body: %v", err)
		return respondBadBody(c, err)
	}
	data.ID = ""

	if err := h.validate.Struct(data); err != nil {
		return respondValidationError(c, fiber.StatusBadRequest, err)
	}

	category, err := h.service.UpdateCategory(c.Params("id"), &data)
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(category)
}

// HandleDeleteCategory removes a category that no product references.
func (h *CategoryHandler) HandleDeleteCategory(c *fiber.Ctx) error {
	if err := h.service.DeleteCategory(c.Params("id")); err != nil {
		return respondDomainError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
