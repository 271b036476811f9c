package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Server            ServerConfig
	Redis             RedisConfig
	Kafka             KafkaConfig
	CatalogService    ServiceConfig
	SettlementService ServiceConfig
	Cart              CartConfig
	Features          FeatureFlags
}

type ServerConfig struct {
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

type KafkaConfig struct {
	Brokers  []string
	POSTopic string
}

type ServiceConfig struct {
	BaseURL string
	Timeout time.Duration
	APIKey  string
}

type CartConfig struct {
	// StorageKey is the key the cart snapshot lives under. One key per
	// terminal; the default matches a single-terminal deployment.
	StorageKey string
}

type FeatureFlags struct {
	EnablePOSEvents       bool
	EnableCartPersistence bool
}

func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Port:         getEnvInt("SERVER_PORT", 8084),
			ReadTimeout:  time.Duration(getEnvInt("SERVER_READ_TIMEOUT", 30)) * time.Second,
			WriteTimeout: time.Duration(getEnvInt("SERVER_WRITE_TIMEOUT", 30)) * time.Second,
		},
		Redis: RedisConfig{
			Host:     getEnvString("REDIS_HOST", "localhost"),
			Port:     getEnvInt("REDIS_PORT", 6379),
			Password: getEnvString("REDIS_PASSWORD", ""),
			DB:       getEnvInt("REDIS_DB", 0),
		},
		Kafka: KafkaConfig{
			Brokers:  strings.Split(getEnvString("KAFKA_BROKERS", "localhost:9092"), ","),
			POSTopic: getEnvString("KAFKA_POS_TOPIC", "pos.events"),
		},
		CatalogService: ServiceConfig{
			BaseURL: getEnvString("CATALOG_SERVICE_URL", "http://localhost:8085"),
			Timeout: time.Duration(getEnvInt("CATALOG_SERVICE_TIMEOUT", 10)) * time.Second,
			APIKey:  getEnvString("CATALOG_SERVICE_API_KEY", ""),
		},
		SettlementService: ServiceConfig{
			BaseURL: getEnvString("SETTLEMENT_SERVICE_URL", "http://localhost:8083"),
			Timeout: time.Duration(getEnvInt("SETTLEMENT_SERVICE_TIMEOUT", 30)) * time.Second,
			APIKey:  getEnvString("SETTLEMENT_SERVICE_API_KEY", ""),
		},
		Cart: CartConfig{
			StorageKey: getEnvString("CART_STORAGE_KEY", "cart"),
		},
		Features: FeatureFlags{
			EnablePOSEvents:       getEnvBool("ENABLE_POS_EVENTS", true),
			EnableCartPersistence: getEnvBool("ENABLE_CART_PERSISTENCE", true),
		},
	}
}

func getEnvString(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}
