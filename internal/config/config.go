package config

import (
	"os"
	"strconv"
)

type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Provider  ProviderConfig
	Ingestion IngestionConfig
}

type ServerConfig struct {
	Port string
	Host string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// ProviderConfig configures the external odds provider client.
type ProviderConfig struct {
	BaseURL string
	APIKey  string
	Timeout int
}

// IngestionConfig bounds how many records a single upload call may create.
// The event/selection caps mirror the historical per-call limits but are
// tunable per environment.
type IngestionConfig struct {
	MaxEventsPerCall     int
	MaxSelectionsPerCall int
}

func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Port: getEnv("PORT", "8080"),
			Host: getEnv("HOST", "localhost"),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", "postgres"),
			DBName:   getEnv("DB_NAME", "sports_book"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		Provider: ProviderConfig{
			BaseURL: getEnv("PROVIDER_API_URL", "https://api.the-odds-api.com"),
			APIKey:  getEnv("PROVIDER_API_KEY", ""),
			Timeout: getEnvAsInt("PROVIDER_API_TIMEOUT", 30),
		},
		Ingestion: IngestionConfig{
			MaxEventsPerCall:     getEnvAsInt("INGEST_MAX_EVENTS", 3),
			MaxSelectionsPerCall: getEnvAsInt("INGEST_MAX_SELECTIONS", 2),
		},
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func (c *Config) DatabaseURL() string {
	// If DATABASE_URL is set, use it directly
	if databaseURL := os.Getenv("DATABASE_URL"); databaseURL != "" {
		return databaseURL
	}

	// Otherwise, construct from individual components
	return "postgres://" + c.Database.User + ":" + c.Database.Password +
		"@" + c.Database.Host + ":" + c.Database.Port +
		"/" + c.Database.DBName + "?sslmode=" + c.Database.SSLMode
}
