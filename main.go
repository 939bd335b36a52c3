package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"order-service/cart"
	"order-service/controllers"
	"order-service/database"
	"order-service/kafka"
	"order-service/logger"
	"order-service/models"
	"order-service/notifier"
	"order-service/payment"
	"order-service/providers"
	"order-service/repository"
	"order-service/routes"
	"order-service/services"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func main() {
	cfg, err := LoadConfig()
	if err != nil {
		panic("config load failed: " + err.Error())
	}

	logger.Initialize(cfg.Env)
	defer logger.Log.Sync()
	log := logger.Log

	// Database
	db, err := database.ConnectPostgres(cfg.PostgresDSN, log,
		&models.Order{},
		&models.OrderItem{},
		&models.OrderHistory{},
		&models.Inventory{},
	)
	if err != nil {
		log.Fatal("DB connection failed", zap.Error(err))
	}

	// Redis (cart storage shared with the cart service)
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	if err := redisClient.Ping(context.Background()).Err(); err != nil {
		log.Fatal("Redis connection failed", zap.Error(err))
	}

	// Kafka
	producer := kafka.NewProducer(cfg.KafkaBrokers, cfg.KafkaTopic, log)
	defer producer.Close()

	// Shipping provider
	var shippingProvider providers.ShippingProvider
	switch cfg.ShippingProvider {
	case "shippo":
		shippingProvider = providers.NewShippoProvider(cfg.ShippoAPIKey)
	default:
		shippingProvider = providers.NewStaticProvider()
	}

	// Notifier (non-fatal; order flow works without email)
	var orderNotifier notifier.Notifier
	smtpNotifier, err := notifier.NewSMTPNotifier(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass)
	if err != nil {
		log.Warn("SMTP notifier disabled", zap.Error(err))
		orderNotifier = notifier.NewNoopNotifier()
	} else {
		orderNotifier = smtpNotifier
	}

	// Dependency injection
	orderRepo := repository.NewGormOrderRepository(db)
	inventoryRepo := repository.NewGormInventoryRepository(db)
	inventoryService := services.NewInventoryService(inventoryRepo, log)
	gateway := payment.NewStripeGateway(cfg.StripeSecretKey, cfg.StripeWebhookSecret)
	orderService := services.NewOrderService(
		orderRepo,
		inventoryService,
		services.NewProductClient(cfg.ProductServiceURL),
		cart.NewRedisProvider(redisClient, 0),
		shippingProvider,
		gateway,
		orderNotifier,
		producer,
		cfg.WarehouseAddress,
		log,
	)

	orderController := controllers.NewOrderController(orderService)
	inventoryController := controllers.NewInventoryController(inventoryService)
	webhookController := controllers.NewWebhookController(orderService, gateway, log)

	// Router
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(logger.RequestLogger())

	// Request timeout
	r.Use(func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 30*time.Second)
		defer cancel()
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	})

	routes.RegisterRoutes(r, cfg.JWTSecret, orderController, inventoryController, webhookController)

	// HTTP server
	srv := &http.Server{Addr: ":" + cfg.Port, Handler: r}
	go func() {
		log.Info("Order service started", zap.String("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("server failed", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Initiating graceful shutdown...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server shutdown error", zap.Error(err))
	}

	if err := redisClient.Close(); err != nil {
		log.Error("Redis close error", zap.Error(err))
	}
	if err := database.Close(db); err != nil {
		log.Error("Database close error", zap.Error(err))
	}

	log.Info("Order service stopped gracefully")
}
