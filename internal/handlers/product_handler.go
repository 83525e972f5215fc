package handlers

import (
	"io"
	"log"

	"plumbus/internal/models"
	"plumbus/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// ProductHandler handles HTTP requests for the product catalog.
type ProductHandler struct {
	catalog  *services.CatalogService
	validate *validator.Validate
}

// NewProductHandler creates a new ProductHandler.
func NewProductHandler(catalog *services.CatalogService) *ProductHandler {
	return &ProductHandler{
		catalog:  catalog,
		validate: validator.New(),
	}
}

// RegisterRoutes registers the product routes with the Fiber app.
func (h *ProductHandler) RegisterRoutes(router fiber.Router) {
	productRoutes := router.Group("/products")
	productRoutes.Get("/", h.HandleListProducts)
	productRoutes.Get("/:id", h.HandleGetProduct)
	productRoutes.Post("/", h.HandleCreateProduct)
	productRoutes.Put("/:id", h.HandleUpdateProduct)
	productRoutes.Delete("/:id", h.HandleDeleteProduct)
	productRoutes.Post("/:id/upload-image", h.HandleUploadImage)
	productRoutes.Delete("/:id/image", h.HandleRemoveImage)
}

// HandleListProducts lists products with optional search and price sorting.
func (h *ProductHandler) HandleListProducts(c *fiber.Ctx) error {
	products, err := h.catalog.ListProducts(
		c.Query("search"),
		c.Query("currency"),
		c.Query("sort_order"),
	)
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(products)
}

// HandleGetProduct retrieves a single product by its ID.
func (h *ProductHandler) HandleGetProduct(c *fiber.Ctx) error {
	product, err := h.catalog.GetProductByID(c.Params("id"))
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(product)
}

// HandleCreateProduct creates a new product.
func (h *ProductHandler) HandleCreateProduct(c *fiber.Ctx) error {
	var product models.Product
	if err := c.BodyParser(&product); err != nil {
		log.Printf("Error parsing create product request body: %v", err)
		return respondBadBody(c, err)
	}

	if err := h.validate.Struct(product); err != nil {
		return respondValidationError(c, fiber.StatusUnprocessableEntity, err)
	}

	if err := h.catalog.CreateProduct(&product); err != nil {
		return respondDomainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(product)
}

// HandleUpdateProduct replaces the mutable fields of a product.
func (h *ProductHandler) HandleUpdateProduct(c *fiber.Ctx) error {
	var data models.Product
	if err := c.BodyParser(&data); err != nil {
		log.Printf("Error parsing update product request body: %v", err)
		return respondBadBody(c, err)
	}
	data.ID = "" // the path parameter is authoritative

	if err := h.validate.Struct(data); err != nil {
		return respondValidationError(c, fiber.StatusUnprocessableEntity, err)
	}

	product, err := h.catalog.UpdateProduct(c.Params("id"), &data)
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(product)
}

// HandleDeleteProduct removes a product.
func (h *ProductHandler) HandleDeleteProduct(c *fiber.Ctx) error {
	if err := h.catalog.DeleteProduct(c.Params("id")); err != nil {
		return respondDomainError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// HandleUploadImage attaches an uploaded image file to a product, replacing
// any previous one.
func (h *ProductHandler) HandleUploadImage(c *fiber.Ctx) error {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "A 'file' form field is required",
			"error":   err.Error(),
		})
	}

	file, err := fileHeader.Open()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Could not open uploaded file",
			"error":   err.Error(),
		})
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Could not read uploaded file",
			"error":   err.Error(),
		})
	}

	product, err := h.catalog.AttachImage(c.Params("id"), data, fileHeader.Filename)
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(fiber.Map{
		"id":  product.ID,
		"url": product.ImageURL,
	})
}

// HandleRemoveImage detaches and deletes a product's current image.
func (h *ProductHandler) HandleRemoveImage(c *fiber.Ctx) error {
	product, err := h.catalog.RemoveImage(c.Params("id"))
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(product)
}
