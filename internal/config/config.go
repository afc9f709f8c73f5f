package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Storage drivers
const (
	StorageMongo  = "mongo"
	StorageMemory = "memory"
)

// Config holds all configuration for the application
// Following 12-factor app principles, all config is loaded from environment variables
type Config struct {
	Server    ServerConfig
	Storage   StorageConfig
	Vapi      VapiConfig
	Orders    OrdersConfig
	Messaging MessagingConfig
	CORS      CORSConfig
	LogLevel  string
	LogFormat string
}

type ServerConfig struct {
	Port            string
	Host            string
	ReadTimeout     int
	WriteTimeout    int
	ShutdownTimeout int
}

type StorageConfig struct {
	Driver   string
	MongoURI string
	Database string
	Timeout  int
}

// VapiConfig configures the voice assistant integration.
type VapiConfig struct {
	PrivateKey     string // shared secret expected as bearer token on webhooks
	PublicKey      string // client key handed to the browser SDK
	UnmatchedItems string // "zero" or "reject"
}

type OrdersConfig struct {
	StatusPolicy string // "forward" or "any"
}

type MessagingConfig struct {
	AMQPURL  string
	Exchange string
}

type CORSConfig struct {
	AllowedOrigins []string
}

// Load reads configuration from environment variables.
// A .env file in the working directory is applied first when present.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to read .env file: %w", err)
	}

	cfg := &Config{
		Server: ServerConfig{
			Port:            getEnv("PORT", "8080"),
			Host:            getEnv("HOST", "0.0.0.0"),
			ReadTimeout:     getEnvAsInt("READ_TIMEOUT", 15),
			WriteTimeout:    getEnvAsInt("WRITE_TIMEOUT", 15),
			ShutdownTimeout: getEnvAsInt("SHUTDOWN_TIMEOUT", 30),
		},
		Storage: StorageConfig{
			Driver:   strings.ToLower(getEnv("STORAGE_DRIVER", StorageMongo)),
			MongoURI: getEnv("MONGO_URI", "mongodb://localhost:27017"),
			Database: getEnv("MONGO_DATABASE", "restaurant"),
			Timeout:  getEnvAsInt("MONGO_TIMEOUT", 10),
		},
		Vapi: VapiConfig{
			PrivateKey:     getEnv("VAPI_PRIVATE_KEY", ""),
			PublicKey:      getEnv("VAPI_PUBLIC_KEY", ""),
			UnmatchedItems: strings.ToLower(getEnv("VAPI_UNMATCHED_ITEMS", "zero")),
		},
		Orders: OrdersConfig{
			StatusPolicy: strings.ToLower(getEnv("ORDER_STATUS_POLICY", "forward")),
		},
		Messaging: MessagingConfig{
			AMQPURL:  getEnv("AMQP_URL", ""),
			Exchange: getEnv("AMQP_EXCHANGE", "orders_topic"),
		},
		CORS: CORSConfig{
			AllowedOrigins: getEnvAsSlice("CORS_ALLOWED_ORIGINS", []string{"*"}),
		},
		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "json"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("PORT is required")
	}

	switch c.Storage.Driver {
	case StorageMongo:
		if c.Storage.MongoURI == "" {
			return fmt.Errorf("MONGO_URI is required for the mongo storage driver")
		}
		if c.Storage.Database == "" {
			return fmt.Errorf("MONGO_DATABASE is required for the mongo storage driver")
		}
		if c.Vapi.PrivateKey == "" {
			return fmt.Errorf("VAPI_PRIVATE_KEY is required")
		}
	case StorageMemory:
	default:
		return fmt.Errorf("invalid storage driver: %s (must be mongo or memory)", c.Storage.Driver)
	}

	if c.Vapi.UnmatchedItems != "zero" && c.Vapi.UnmatchedItems != "reject" {
		return fmt.Errorf("invalid VAPI_UNMATCHED_ITEMS: %s (must be zero or reject)", c.Vapi.UnmatchedItems)
	}

	if c.Orders.StatusPolicy != "forward" && c.Orders.StatusPolicy != "any" {
		return fmt.Errorf("invalid ORDER_STATUS_POLICY: %s (must be forward or any)", c.Orders.StatusPolicy)
	}

	validLogLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLogLevels[strings.ToLower(c.LogLevel)] {
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", c.LogLevel)
	}

	return nil
}

// Helper functions for reading environment variables

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsSlice(key string, defaultValue []string) []string {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	parts := strings.Split(valueStr, ",")
	values := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			values = append(values, p)
		}
	}
	return values
}
