package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"order-service/models"

	"github.com/joho/godotenv"
)

type Config struct {
	Env  string
	Port string

	PostgresDSN string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	KafkaBrokers []string
	KafkaTopic   string

	StripeSecretKey     string
	StripeWebhookSecret string

	SMTPHost string
	SMTPPort string
	SMTPUser string
	SMTPPass string

	ShippingProvider string
	ShippoAPIKey     string

	ProductServiceURL string
	JWTSecret         string

	WarehouseAddress models.Address
}

func LoadConfig() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Env:  getEnv("APP_ENV", "development"),
		Port: getEnv("PORT", "8084"),

		RedisAddr:     getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		RedisDB:       getEnvInt("REDIS_DB", 0),

		KafkaBrokers: strings.Split(getEnv("KAFKA_BROKERS", "localhost:9092"), ","),
		KafkaTopic:   getEnv("KAFKA_ORDER_TOPIC", "order-events"),

		StripeSecretKey:     os.Getenv("STRIPE_SECRET_KEY"),
		StripeWebhookSecret: os.Getenv("STRIPE_WEBHOOK_SECRET"),

		SMTPHost: os.Getenv("SMTP_HOST"),
		SMTPPort: getEnv("SMTP_PORT", "587"),
		SMTPUser: os.Getenv("SMTP_USER"),
		SMTPPass: os.Getenv("SMTP_PASS"),

		ShippingProvider: getEnv("SHIPPING_PROVIDER", "static"),
		ShippoAPIKey:     os.Getenv("SHIPPO_API_KEY"),

		ProductServiceURL: getEnv("PRODUCT_SERVICE_URL", "http://localhost:8081"),
		JWTSecret:         strings.TrimSpace(os.Getenv("JWT_SECRET")),

		WarehouseAddress: models.Address{
			Name:       getEnv("WAREHOUSE_NAME", "Main Warehouse"),
			Street1:    getEnv("WAREHOUSE_STREET1", ""),
			City:       getEnv("WAREHOUSE_CITY", ""),
			State:      getEnv("WAREHOUSE_STATE", ""),
			PostalCode: getEnv("WAREHOUSE_POSTAL_CODE", ""),
			Country:    getEnv("WAREHOUSE_COUNTRY", "US"),
		},
	}

	dbUser := os.Getenv("POSTGRES_USER")
	dbPassword := os.Getenv("POSTGRES_PASSWORD")
	dbName := os.Getenv("POSTGRES_DB")
	if dbUser == "" {
		return nil, fmt.Errorf("POSTGRES_USER not set")
	}
	if dbPassword == "" {
		return nil, fmt.Errorf("POSTGRES_PASSWORD not set")
	}
	if dbName == "" {
		return nil, fmt.Errorf("POSTGRES_DB not set")
	}
	cfg.PostgresDSN = fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=%s",
		getEnv("POSTGRES_HOST", "localhost"),
		dbUser,
		dbPassword,
		dbName,
		getEnv("POSTGRES_PORT", "5432"),
		getEnv("POSTGRES_SSLMODE", "disable"),
		getEnv("POSTGRES_TIMEZONE", "UTC"),
	)

	if cfg.StripeSecretKey == "" {
		return nil, fmt.Errorf("STRIPE_SECRET_KEY not set")
	}
	if cfg.StripeWebhookSecret == "" {
		return nil, fmt.Errorf("STRIPE_WEBHOOK_SECRET not set")
	}
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET not set")
	}
	if cfg.ShippingProvider == "shippo" && cfg.ShippoAPIKey == "" {
		return nil, fmt.Errorf("SHIPPO_API_KEY not set")
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return fallback
}
