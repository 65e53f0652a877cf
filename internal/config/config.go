// Package config handles application configuration from environment variables
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	// Server settings
	Port     string
	Env      string // "development", "staging", "production"
	LogLevel string

	// Database
	DatabaseURL string // PostgreSQL connection string (optional, uses in-memory if not set)

	// Billing settings
	PlanDays            int           // subscription period length in days
	ReminderWindowDays  int           // days before dueAt during which reminders go out
	ReconcileInterval   time.Duration // background reconciliation cadence
	PaymentInstructions string        // free-form text inserted into reminder/pause mails

	// Mail settings (optional; absence degrades to skipped sends)
	SMTPHost          string
	SMTPPort          int
	SMTPUsername      string
	SMTPPassword      string
	SMTPTLSSkipVerify bool // accept self-signed relay certificates
	MailFrom          string

	// Notifications
	OperatorEmail string // internal operator address (optional)

	// Security
	AdminSecret string // Admin API secret

	// Tracing
	OTLPEndpoint string
}

const (
	DefaultPort               = "8080"
	DefaultEnv                = "development"
	DefaultLogLevel           = "info"
	DefaultPlanDays           = 30
	DefaultReminderWindowDays = 3
	DefaultSMTPPort           = 587
	DefaultReconcileInterval  = time.Hour
)

// Load reads configuration from environment variables
// It loads .env file if present (for local development)
func Load() (*Config, error) {
	// Load .env file if it exists (ignore error if not present)
	_ = godotenv.Load()

	cfg := &Config{
		Port:                getEnv("PORT", DefaultPort),
		Env:                 getEnv("ENV", DefaultEnv),
		LogLevel:            getEnv("LOG_LEVEL", DefaultLogLevel),
		DatabaseURL:         os.Getenv("DATABASE_URL"), // Optional, uses in-memory if not set
		PlanDays:            getEnvInt("PLAN_DAYS", DefaultPlanDays),
		ReminderWindowDays:  getEnvInt("REMINDER_WINDOW_DAYS", DefaultReminderWindowDays),
		ReconcileInterval:   getEnvDuration("RECONCILE_INTERVAL", DefaultReconcileInterval),
		PaymentInstructions: os.Getenv("PAYMENT_INSTRUCTIONS"),
		SMTPHost:            os.Getenv("SMTP_HOST"),
		SMTPPort:            getEnvInt("SMTP_PORT", DefaultSMTPPort),
		SMTPUsername:        os.Getenv("SMTP_USERNAME"),
		SMTPPassword:        os.Getenv("SMTP_PASSWORD"),
		SMTPTLSSkipVerify:   getEnvBool("SMTP_TLS_SKIP_VERIFY", false),
		MailFrom:            os.Getenv("MAIL_FROM"),
		OperatorEmail:       os.Getenv("OPERATOR_EMAIL"),
		AdminSecret:         os.Getenv("ADMIN_SECRET"),
		OTLPEndpoint:        os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks that all configuration values are usable
func (c *Config) Validate() error {
	if c.PlanDays <= 0 {
		return fmt.Errorf("PLAN_DAYS must be positive, got %d", c.PlanDays)
	}
	if c.ReminderWindowDays < 0 {
		return fmt.Errorf("REMINDER_WINDOW_DAYS must not be negative, got %d", c.ReminderWindowDays)
	}
	if c.ReconcileInterval < time.Minute {
		return fmt.Errorf("RECONCILE_INTERVAL must be at least 1m, got %s", c.ReconcileInterval)
	}
	if c.IsProduction() && c.AdminSecret == "" {
		return fmt.Errorf("ADMIN_SECRET is required in production")
	}
	return nil
}

// MailConfigured returns true if outbound mail credentials are present
func (c *Config) MailConfigured() bool {
	return c.SMTPHost != "" && c.MailFrom != ""
}

// IsDevelopment returns true if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// Helper functions

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
