package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	// Server configuration
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration

	// Database configuration
	DatabaseURL string

	// Auth configuration
	JWTSecret            string
	JWTAccessExpiration  time.Duration
	JWTRefreshExpiration time.Duration

	// Logging configuration
	LogFormat string // "json" or "pretty"
	LogLevel  string

	// CORS configuration
	CORSAllowedOrigins []string
}

// LoadConfig loads the application configuration from environment variables
func LoadConfig() (*Config, error) {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found or error loading .env file. Using environment variables.")
	}

	config := &Config{
		Port:         getEnvInt("PORT", 8080),
		ReadTimeout:  time.Duration(getEnvInt("READ_TIMEOUT", 15)) * time.Second,
		WriteTimeout: time.Duration(getEnvInt("WRITE_TIMEOUT", 15)) * time.Second,

		DatabaseURL: os.Getenv("POSTGRES_DB_URL"),

		JWTSecret:            os.Getenv("JWT_SECRET"),
		JWTAccessExpiration:  time.Duration(getEnvInt("JWT_ACCESS_EXPIRATION", 900)) * time.Second,
		JWTRefreshExpiration: time.Duration(getEnvInt("JWT_REFRESH_EXPIRATION", 604800)) * time.Second,

		LogFormat: getEnvString("LOG_FORMAT", "json"),
		LogLevel:  getEnvString("LOG_LEVEL", "info"),

		CORSAllowedOrigins: getEnvStringSlice("CORS_ALLOWED_ORIGINS", []string{"*"}),
	}

	validateConfig(config)

	return config, nil
}

// validateConfig logs warnings for missing critical configuration
func validateConfig(config *Config) {
	if config.DatabaseURL == "" {
		log.Println("Warning: No POSTGRES_DB_URL provided. Falling back to in-memory storage; data will not survive restarts.")
	}

	if config.JWTSecret == "" {
		log.Println("Warning: No JWT_SECRET provided. Authenticated endpoints will reject all requests.")
	}
}

// getEnvInt gets an integer from an environment variable with a default value
func getEnvInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		log.Printf("Invalid value for %s: %s, using default: %d", key, valueStr, defaultValue)
		return defaultValue
	}

	return value
}

// getEnvString gets a string from an environment variable with a default value
func getEnvString(key string, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

// getEnvStringSlice gets a string slice from a comma-separated environment variable
func getEnvStringSlice(key string, defaultValue []string) []string {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	parts := strings.Split(valueStr, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}
