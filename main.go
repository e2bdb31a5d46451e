package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/streadway/amqp"

	"cartsvc/internal/config"
	"cartsvc/internal/database"
	"cartsvc/internal/events"
	"cartsvc/internal/logger"
	"cartsvc/internal/models"
	"cartsvc/internal/repositories"
	"cartsvc/internal/services"
	"cartsvc/pkg/rabbitmq"
)

// checkoutQueue receives cart.checked_out events for order creation.
const checkoutQueue = "cart_checkout_queue"

func main() {
	// --- Configuration ---
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	log, err := logger.New(cfg.LogMode)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	// --- Database ---
	db, err := database.Open(cfg.DBDriver, cfg.DatabaseDSN)
	if err != nil {
		log.Fatal("failed to open database", "error", err)
	}
	if err := database.Migrate(db); err != nil {
		log.Fatal("failed to migrate database", "error", err)
	}

	// --- RabbitMQ ---
	mqClient, err := rabbitmq.NewClient(rabbitmq.Config{
		URL:      cfg.RabbitMQURL,
		Exchange: events.Exchange,
		Logger:   log.SugaredLogger,
	})
	if err != nil {
		log.Fatal("failed to initialize RabbitMQ client", "error", err)
	}
	defer mqClient.Close()

	// --- Repositories ---
	menuRepo := repositories.NewGORMMenuItemRepository(db)
	orderRepo := repositories.NewGORMOrderRepository(db)
	var cartRepo repositories.CartRepository = repositories.NewGORMCartRepository(db)

	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		defer rdb.Close()
		pingCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		err := rdb.Ping(pingCtx).Err()
		cancel()
		if err != nil {
			log.Fatal("failed to connect to redis", "addr", cfg.RedisAddr, "error", err)
		}
		cartRepo = repositories.NewCachedCartRepository(cartRepo, rdb, cfg.CartCacheTTL, log.With("component", "cart_cache"))
		log.Info("cart cache enabled", "addr", cfg.RedisAddr, "ttl", cfg.CartCacheTTL)
	}

	// --- Services ---
	catalogService := services.NewCatalogService(menuRepo)
	if cfg.SeedCatalog {
		seedMenuItems(catalogService, log)
	}
	cartService := services.NewCartService(cartRepo, catalogService, mqClient, log.With("component", "cart_service"),
		services.WithMaxSaveAttempts(cfg.CartSaveAttempts))
	orderService := services.NewOrderService(orderRepo, log.With("component", "order_service"))

	app := newApp(appServices{
		carts:   cartService,
		catalog: catalogService,
		orders:  orderService,
		log:     log,
	})

	// --- Checkout consumer ---
	err = mqClient.Consume(checkoutQueue, events.CartCheckedOut, func(msg amqp.Delivery) error {
		return orderService.HandleCheckoutMessage(msg.Body)
	})
	if err != nil {
		log.Fatal("failed to start checkout consumer", "error", err)
	}

	// --- Start HTTP Server ---
	log.Info("starting server", "port", cfg.AppPort)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := app.Listen(cfg.AppPort); err != nil {
			log.Fatal("server failed to start", "error", err)
		}
	}()

	<-quit
	log.Info("shutting down server")

	if err := app.Shutdown(); err != nil {
		log.Error("error during Fiber shutdown", "error", err)
	}
	log.Info("server gracefully stopped")
}

// seedMenuItems populates an empty catalog with a few items.
func seedMenuItems(catalog *services.CatalogService, log *logger.Logger) {
	existing, err := catalog.ListMenuItems(0)
	if err != nil {
		log.Error("error reading catalog before seeding", "error", err)
		return
	}
	if len(existing) > 0 {
		return
	}

	items := []models.MenuItem{
		{RestaurantID: 5, Name: "Margherita Pizza", Description: "Tomato, mozzarella, basil", Price: decimal.RequireFromString("9.99"), Available: true},
		{RestaurantID: 5, Name: "Garlic Bread", Description: "With herb butter", Price: decimal.RequireFromString("3.50"), Available: true},
		{RestaurantID: 5, Name: "Tiramisu", Description: "Seasonal", Price: decimal.RequireFromString("5.25"), Available: false},
		{RestaurantID: 7, Name: "Pad Thai", Description: "Rice noodles, peanuts", Price: decimal.RequireFromString("11.40"), Available: true},
	}
	for i := range items {
		if err := catalog.CreateMenuItem(&items[i]); err != nil {
			log.Error("error seeding menu item", "name", items[i].Name, "error", err)
			continue
		}
		log.Info("seeded menu item", "name", items[i].Name, "id", items[i].ID)
	}
}
