package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/streadway/amqp"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"therawking/internal/config"
	"therawking/internal/handlers"
	"therawking/internal/models"
	"therawking/internal/payments"
	"therawking/internal/repositories"
	"therawking/internal/services"
	"therawking/pkg/rabbitmq"
)

func main() {
	cfg := config.Load()

	// --- Storage ---
	// Postgres when a DSN is configured, local sqlite file otherwise.
	var dialector gorm.Dialector
	if cfg.DatabaseDSN != "" {
		dialector = postgres.Open(cfg.DatabaseDSN)
	} else {
		log.Println("DATABASE_DSN not set, using local sqlite database")
		dialector = sqlite.Open("therawking.db")
	}
	db, err := gorm.Open(dialector, &gorm.Config{})
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	if err := db.AutoMigrate(&models.Product{}, &models.Order{}, &models.OrderItem{}, &models.Subscriber{}); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	// --- RabbitMQ (optional) ---
	// Event publication is best-effort; a missing broker must never block
	// checkout, so failure here only logs.
	var mqClient *rabbitmq.Client
	if client, err := rabbitmq.NewClient(rabbitmq.Config{URL: cfg.RabbitMQURL}); err != nil {
		log.Printf("Warning: RabbitMQ unavailable, events will not be published: %v", err)
	} else {
		mqClient = client
		defer mqClient.Close()
	}

	// --- Repositories ---
	productRepo := repositories.NewGORMProductRepository(db)
	orderRepo := repositories.NewGORMOrderRepository(db)
	subscriberRepo := repositories.NewGORMSubscriberRepository(db)

	// --- Payment gateway ---
	if cfg.StripeSecretKey == "" {
		log.Println("Warning: STRIPE_SECRET_KEY not set, checkout session creation will fail")
	}
	gateway := payments.NewStripeClient(cfg.StripeSecretKey, cfg.GatewayTimeout)

	// --- Services ---
	catalogService := services.NewCatalogService(productRepo)
	checkoutService := newCheckoutService(orderRepo, productRepo, gateway, mqClient, cfg)
	webhookService := services.NewWebhookService(orderRepo, cfg.StripeWebhookSecret)
	subscriberService := services.NewSubscriberService(subscriberRepo)

	if cfg.StripeWebhookSecret == "" {
		log.Println("Warning: STRIPE_WEBHOOK_SECRET not set, webhook events will be accepted unverified")
	}

	seedProducts(catalogService)

	// --- Handlers ---
	productHandler := handlers.NewProductHandler(catalogService)
	checkoutHandler := handlers.NewCheckoutHandler(checkoutService)
	webhookHandler := handlers.NewWebhookHandler(webhookService)
	subscribeHandler := handlers.NewSubscribeHandler(subscriberService)

	// --- Fiber app ---
	app := fiber.New()
	app.Use(logger.New())
	app.Use(cors.New())

	api := app.Group("/api")
	productHandler.RegisterRoutes(api)
	checkoutHandler.RegisterRoutes(api)
	webhookHandler.RegisterRoutes(api)
	subscribeHandler.RegisterRoutes(api)

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"status": "healthy",
			"time":   time.Now().Format(time.RFC3339),
		})
	})

	// --- Reconciliation audit consumer ---
	// Dangling gateway sessions (order persistence failed after the session
	// was created) land on this queue. For now they are logged so an operator
	// can reconcile them against the provider dashboard.
	if mqClient != nil {
		if err := mqClient.ConsumeReconciliationEvents(func(msg amqp.Delivery) error {
			log.Printf("Reconciliation audit event (tag %d): %s", msg.DeliveryTag, string(msg.Body))
			return nil
		}); err != nil {
			log.Printf("Warning: failed to start reconciliation consumer: %v", err)
		}
	}

	// --- Start HTTP server ---
	log.Printf("Starting server on %s", cfg.AppPort)

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

// newCheckoutService wires the checkout service, keeping the nil-publisher
// case (no broker) out of the service itself.
func newCheckoutService(
	orderRepo repositories.OrderRepository,
	productRepo repositories.ProductRepository,
	gateway payments.Gateway,
	mqClient *rabbitmq.Client,
	cfg config.Config,
) *services.CheckoutService {
	var publisher services.EventPublisher
	if mqClient != nil {
		publisher = mqClient
	}
	return services.NewCheckoutService(orderRepo, productRepo, gateway, publisher, cfg.FrontendOrigin)
}

// seedProducts populates an empty catalog with the launch lineup.
func seedProducts(catalog *services.CatalogService) {
	count, err := catalog.CountProducts()
	if err != nil {
		log.Printf("Warning: could not check catalog size, skipping seed: %v", err)
		return
	}
	if count > 0 {
		return
	}

	products := []models.Product{
		{
			Title:       "Lunar Phase Tee",
			Description: "Premium cotton tee featuring the moon phases in subtle reflective ink.",
			Price:       32.0,
			Currency:    "usd",
			Images:      []string{"https://images.unsplash.com/photo-1520975693411-b2f4a45f66f6?q=80&w=1200&auto=format&fit=crop"},
			Sizes:       []string{"S", "M", "L", "XL"},
			InStock:     true,
			Featured:    true,
			Color:       "Black",
			Tag:         "New",
		},
		{
			Title:       "Moonrise Oversized Tee",
			Description: "Oversized fit with gradient moonrise graphic - ultra-soft and breathable.",
			Price:       38.0,
			Currency:    "usd",
			Images:      []string{"https://images.unsplash.com/photo-1520975655913-61e5d1e0b5f4?q=80&w=1200&auto=format&fit=crop"},
			Sizes:       []string{"S", "M", "L", "XL"},
			InStock:     true,
			Featured:    true,
			Color:       "Midnight Blue",
			Tag:         "Limited",
		},
		{
			Title:       "Eclipse Minimal Tee",
			Description: "Clean eclipse ring chest print. Minimal. Bold. Cosmic.",
			Price:       29.0,
			Currency:    "usd",
			Images:      []string{"https://images.unsplash.com/photo-1491553895911-0055eca6402d?q=80&w=1200&auto=format&fit=crop"},
			Sizes:       []string{"S", "M", "L", "XL"},
			InStock:     true,
			Color:       "Charcoal",
		},
	}

	for i := range products {
		if err := catalog.CreateProduct(&products[i]); err != nil {
			log.Printf("Error seeding product %s: %v", products[i].Title, err)
		} else {
			log.Printf("Seeded product: %s (ID: %s)", products[i].Title, products[i].ID)
		}
	}
}
