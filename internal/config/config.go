package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	// Server
	Port string

	// Database
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	// Portfolio defaults
	BaseCurrency            string
	DividendWithholdingRate float64

	// Market data
	MarketDataBaseURL string
}

var appConfig *Config

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if not already loaded
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found")
	}

	// Get values from environment variables with defaults
	config := &Config{
		// Server
		Port: getEnv("PORT", "8080"),

		// Database
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "networth"),
		DBPassword: getEnv("DB_PASSWORD", "networth"),
		DBName:     getEnv("DB_NAME", "networth"),
		DBSSLMode:  getEnv("DB_SSLMODE", "disable"),

		// Portfolio defaults
		BaseCurrency: getEnv("BASE_CURRENCY", "USD"),

		// Market data
		MarketDataBaseURL: getEnv("MARKET_DATA_BASE_URL", "https://query1.finance.yahoo.com"),
	}

	rateStr := getEnv("DIVIDEND_WITHHOLDING_RATE", "0.30")
	rate, err := strconv.ParseFloat(rateStr, 64)
	if err != nil || rate < 0 || rate >= 1 {
		log.Printf("Warning: invalid DIVIDEND_WITHHOLDING_RATE value '%s', falling back to 0.30\n", rateStr)
		rate = 0.30
	}
	config.DividendWithholdingRate = rate

	appConfig = config
	return config, nil
}

// Get returns the application configuration
func Get() *Config {
	if appConfig == nil {
		var err error
		appConfig, err = Load()
		if err != nil {
			log.Fatalf("Failed to load configuration: %v", err)
		}
	}
	return appConfig
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
