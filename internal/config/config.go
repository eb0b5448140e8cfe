package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	// Server configuration
	Server ServerConfig

	// Database configuration
	Database DatabaseConfig

	// Razorpay payment gateway configuration
	Razorpay RazorpayConfig

	// Email notification configuration (Resend)
	Email EmailConfig

	// WhatsApp notification configuration (Twilio)
	WhatsApp WhatsAppConfig

	// CORS configuration
	CORS CORSConfig
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port        string
	Environment string // development, staging, production
	LogLevel    string // debug, info, warn, error
}

// DatabaseConfig holds database-related configuration
type DatabaseConfig struct {
	URL                string
	MaxConnections     int
	MaxIdleConnections int
	ConnMaxLifetime    time.Duration
}

// RazorpayConfig holds Razorpay credentials.
// KeyID is public and safe to expose to clients; KeySecret signs payment
// receipts and must never leave the server.
type RazorpayConfig struct {
	KeyID     string
	KeySecret string
	APIURL    string
}

// EmailConfig holds Resend configuration. All fields optional - email
// notifications are skipped when the API key is absent.
type EmailConfig struct {
	APIKey      string
	FromAddress string
	TeamAddress string
	APIURL      string
}

// WhatsAppConfig holds Twilio WhatsApp configuration. All fields optional -
// WhatsApp notifications are skipped when credentials are absent.
type WhatsAppConfig struct {
	AccountSID string
	AuthToken  string
	FromNumber string // Format: whatsapp:+14155238886
	TeamNumber string // Format: whatsapp:+1234567890
	APIURL     string
}

// CORSConfig holds CORS-related configuration
type CORSConfig struct {
	AllowedOrigins []string
	AllowedMethods []string
	AllowedHeaders []string
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists (for local development)
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	config := &Config{
		Server: ServerConfig{
			Port:        getEnv("PORT", "8080"),
			Environment: getEnv("ENVIRONMENT", "development"),
			LogLevel:    getEnv("LOG_LEVEL", "info"),
		},
		Database: DatabaseConfig{
			URL:                getEnv("DATABASE_URL", ""),
			MaxConnections:     getEnvAsInt("DATABASE_MAX_CONNECTIONS", 10),
			MaxIdleConnections: getEnvAsInt("DATABASE_MAX_IDLE_CONNECTIONS", 5),
			ConnMaxLifetime:    time.Duration(getEnvAsInt("DATABASE_CONN_MAX_LIFETIME", 300)) * time.Second,
		},
		Razorpay: RazorpayConfig{
			KeyID:     getEnv("RAZORPAY_KEY_ID", ""),
			KeySecret: getEnv("RAZORPAY_KEY_SECRET", ""),
			APIURL:    getEnv("RAZORPAY_API_URL", "https://api.razorpay.com"),
		},
		Email: EmailConfig{
			APIKey:      getEnv("RESEND_API_KEY", ""),
			FromAddress: getEnv("RESEND_FROM_EMAIL", "FixIt Studio <notifications@fixit.studio>"),
			TeamAddress: getEnv("TEAM_EMAIL", "team@fixit.studio"),
			APIURL:      getEnv("RESEND_API_URL", "https://api.resend.com"),
		},
		WhatsApp: WhatsAppConfig{
			AccountSID: getEnv("TWILIO_ACCOUNT_SID", ""),
			AuthToken:  getEnv("TWILIO_AUTH_TOKEN", ""),
			FromNumber: getEnv("TWILIO_WHATSAPP_NUMBER", ""),
			TeamNumber: getEnv("TEAM_WHATSAPP_NUMBER", ""),
			APIURL:     getEnv("TWILIO_API_URL", "https://api.twilio.com"),
		},
		CORS: CORSConfig{
			AllowedOrigins: getEnvAsSlice("CORS_ALLOWED_ORIGINS", []string{"*"}),
			AllowedMethods: getEnvAsSlice("CORS_ALLOWED_METHODS", []string{"GET", "POST", "OPTIONS"}),
			AllowedHeaders: getEnvAsSlice("CORS_ALLOWED_HEADERS", []string{"Content-Type", "Authorization"}),
		},
	}

	return config, nil
}

// Warnings reports missing configuration that will degrade the service.
// The process still starts: the dependent endpoints answer with a
// configuration error instead of crashing at boot.
func (c *Config) Warnings() []string {
	var warnings []string

	if c.Database.URL == "" {
		warnings = append(warnings, "DATABASE_URL is not set - consultation submissions will be rejected")
	}
	if c.Razorpay.KeyID == "" || c.Razorpay.KeySecret == "" {
		warnings = append(warnings, "RAZORPAY_KEY_ID / RAZORPAY_KEY_SECRET are not set - payment endpoints will fail")
	}
	if c.Email.APIKey == "" {
		warnings = append(warnings, "RESEND_API_KEY is not set - email notifications will be skipped")
	}
	if c.WhatsApp.AccountSID == "" || c.WhatsApp.AuthToken == "" {
		warnings = append(warnings, "TWILIO_ACCOUNT_SID / TWILIO_AUTH_TOKEN are not set - WhatsApp notifications will be skipped")
	}

	return warnings
}

// Helper functions to get environment variables

func getEnv(key string, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		log.Printf("Invalid integer value for %s, using default: %d", key, defaultValue)
		return defaultValue
	}
	return value
}

func getEnvAsSlice(key string, defaultValue []string) []string {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	var result []string
	for _, v := range strings.Split(valueStr, ",") {
		trimmed := strings.TrimSpace(v)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}
	if len(result) == 0 {
		return defaultValue
	}
	return result
}
