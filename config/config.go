package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

type Config struct {
	Port string
	Env  string

	MongoURI string
	MongoDB  string
	RedisURL string

	JWTSecret string

	RazorpayKeyID         string
	RazorpayKeySecret     string
	RazorpayWebhookSecret string

	ShippingBaseURL  string
	ShippingEmail    string
	ShippingPassword string

	OrderEventsTopicARN string

	AllowedOrigins string
}

// LoadConfig reads configuration from the environment. Store credentials are
// required at boot; gateway secrets are validated per-request so a missing
// secret fails closed as service-unavailable instead of crashing the process.
func LoadConfig() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Port: getEnv("PORT", "8080"),
		Env:  getEnv("ENV", "development"),

		MongoURI: os.Getenv("MONGO_URI"),
		MongoDB:  getEnv("MONGO_DB", "storefront"),
		RedisURL: getEnv("REDIS_URL", "redis://localhost:6379/0"),

		JWTSecret: os.Getenv("JWT_SECRET"),

		RazorpayKeyID:         os.Getenv("RAZORPAY_KEY_ID"),
		RazorpayKeySecret:     os.Getenv("RAZORPAY_KEY_SECRET"),
		RazorpayWebhookSecret: os.Getenv("RAZORPAY_WEBHOOK_SECRET"),

		ShippingBaseURL:  getEnv("SHIPPING_API_BASE_URL", "https://apiv2.shiprocket.in"),
		ShippingEmail:    os.Getenv("SHIPPING_API_EMAIL"),
		ShippingPassword: os.Getenv("SHIPPING_API_PASSWORD"),

		OrderEventsTopicARN: getEnv("ORDER_EVENTS_TOPIC_ARN", "arn:aws:sns:eu-west-2:000000000000:order-events"),

		AllowedOrigins: getEnv("ALLOWED_ORIGINS", "http://localhost:3000"),
	}

	if cfg.MongoURI == "" {
		return nil, fmt.Errorf("missing required environment variable MONGO_URI")
	}
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("missing required environment variable JWT_SECRET")
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}
