package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/streadway/amqp"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"plumbus/internal/config"
	"plumbus/internal/handlers"
	"plumbus/internal/middleware"
	"plumbus/internal/models"
	"plumbus/internal/notify"
	"plumbus/internal/repositories"
	"plumbus/internal/services"
	"plumbus/internal/storage"
	"plumbus/pkg/rabbitmq"
)

func main() {
	cfg := config.Load()

	// --- Database ---
	// TranslateError turns driver-specific unique violations into
	// gorm.ErrDuplicatedKey, which the cart and registration races rely on.
	db, err := gorm.Open(postgres.Open(cfg.DatabaseDSN), &gorm.Config{TranslateError: true})
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	if err := AutoMigrate(db); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}
	if cfg.SeedData {
		seedCatalog(db)
	}

	// --- Image blob store ---
	images, err := storage.NewImageStore(cfg.UploadDir)
	if err != nil {
		log.Fatalf("Failed to initialize image store: %v", err)
	}

	// --- RabbitMQ client and notification worker ---
	mqClient, err := rabbitmq.NewClient(rabbitmq.Config{URL: cfg.RabbitMQURL})
	if err != nil {
		log.Fatalf("Failed to initialize RabbitMQ client: %v", err)
	}
	defer mqClient.Close()

	notifier := notify.NewNotifier(mqClient, cfg.NotifyBuffer)
	defer notifier.Close()

	// --- Fiber app ---
	app, _ := NewApp(db, images, notifier, cfg)

	// --- Shop events consumer ---
	// Drains the notification queue and hands events to the outbound chat
	// client. Here we log them; delivery is an external collaborator.
	if err := mqClient.Consume(func(msg amqp.Delivery) error {
		log.Printf("Shop event %s (tag %d): %s", msg.Type, msg.DeliveryTag, string(msg.Body))
		return nil
	}); err != nil {
		log.Printf("Failed to start shop events consumer: %v", err)
	}

	// --- Start HTTP server ---
	log.Printf("Starting server on port %s", cfg.AppPort)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := app.Listen(cfg.AppPort); err != nil {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	<-quit
	log.Println("Shutting down server...")

	if err := app.Shutdown(); err != nil {
		log.Printf("Error during Fiber shutdown: %v", err)
	}

	log.Println("Server gracefully stopped")
}

// seedCatalog populates an empty database with some initial catalog data.
func seedCatalog(db *gorm.DB) {
	categoryRepo := repositories.NewGORMCategoryRepository(db)
	productRepo := repositories.NewGORMProductRepository(db)

	var count int64
	if err := db.Model(&models.Product{}).Count(&count).Error; err != nil {
		log.Printf("Error checking for existing products: %v", err)
		return
	}
	if count > 0 {
		return // already seeded
	}

	gadgets := models.Category{Name: "Gadgets", Description: "Interdimensional hardware"}
	if err := categoryRepo.Create(&gadgets); err != nil {
		log.Printf("Error seeding category %s: %v", gadgets.Name, err)
		return
	}

	products := []models.Product{
		{Name: "Plumbus", Description: "Everyone has one", PriceShmeckles: 6.5, PriceFlurbos: 4.23, PriceCredits: 4.81, Stock: 100, CategoryID: gadgets.ID},
		{Name: "Portal Gun", Description: "Opens portals to other dimensions", PriceShmeckles: 9000, PriceFlurbos: 5850, PriceCredits: 6660, Stock: 1, CategoryID: gadgets.ID},
		{Name: "Microverse Battery", Description: "Contains a universe", PriceShmeckles: 250, PriceFlurbos: 162.5, PriceCredits: 185, Stock: 10, CategoryID: gadgets.ID},
	}
	for i := range products {
		if err := productRepo.Create(&products[i]); err != nil {
			log.Printf("Error seeding product %s: %v", products[i].Name, err)
		} else {
			log.Printf("Seeded product: %s (ID: %s)", products[i].Name, products[i].ID)
		}
	}
}

// AutoMigrate creates or updates the schema for every model.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Category{},
		&models.Product{},
		&models.Cart{},
		&models.CartItem{},
		&models.Order{},
		&models.OrderItem{},
	)
}

// NewApp wires repositories, services and handlers into a Fiber app. The
// auth service is returned as well so callers can mint or validate tokens.
func NewApp(db *gorm.DB, images *storage.ImageStore, notifier notify.Events, cfg config.Config) (*fiber.App, *services.AuthService) {
	// --- Repositories ---
	productRepo := repositories.NewGORMProductRepository(db)
	categoryRepo := repositories.NewGORMCategoryRepository(db)
	cartRepo := repositories.NewGORMCartRepository(db)
	orderRepo := repositories.NewGORMOrderRepository(db)
	userRepo := repositories.NewGORMUserRepository(db)

	// --- Services ---
	catalogService := services.NewCatalogService(productRepo, categoryRepo, images, notifier)
	categoryService := services.NewCategoryService(categoryRepo)
	cartService := services.NewCartService(cartRepo, productRepo)
	orderService := services.NewOrderService(orderRepo, cartRepo, userRepo, notifier)
	authService := services.NewAuthService(userRepo, cfg.JWTSecret)

	// --- Handlers ---
	productHandler := handlers.NewProductHandler(catalogService)
	categoryHandler := handlers.NewCategoryHandler(categoryService)
	cartHandler := handlers.NewCartHandler(cartService)
	orderHandler := handlers.NewOrderHandler(orderService)
	authHandler := handlers.NewAuthHandler(authService)

	app := fiber.New(fiber.Config{
		// Above the image size limit so oversized uploads get a domain
		// error from the image store instead of a bare 413.
		BodyLimit: 2 * storage.MaxFileSize,
	})
	app.Use(logger.New()) // Request logger

	// Uploaded product images are served directly from the blob directory.
	app.Static(storage.PublicPrefix, cfg.UploadDir)

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"status": "healthy",
			"time":   time.Now().Format(time.RFC3339),
		})
	})

	apiV1 := app.Group("/api/v1")

	// Authentication routes (public)
	authHandler.RegisterRoutes(apiV1)

	// Everything else requires a valid token.
	protected := apiV1.Group("", middleware.AuthRequired(authService))
	productHandler.RegisterRoutes(protected)
	categoryHandler.RegisterRoutes(protected)
	cartHandler.RegisterRoutes(protected)
	orderHandler.RegisterRoutes(protected)

	return app, authService
}
