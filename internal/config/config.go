package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	App       AppConfig
	Database  DatabaseConfig
	JWT       JWTConfig
	CORS      CORSConfig
	RateLimit RateLimitConfig
	Printer   PrinterConfig
	Fiscal    FiscalConfig
	POS       POSConfig
}

// AppConfig holds application-level configuration
type AppConfig struct {
	Name        string
	Environment string
	Port        int
	LogLevel    string
}

// DatabaseConfig holds database connection configuration
type DatabaseConfig struct {
	Host            string
	Port            int
	User            string
	Password        string
	Name            string
	SSLMode         string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// JWTConfig holds JWT token configuration
type JWTConfig struct {
	Secret        string
	AccessExpiry  time.Duration
	RefreshExpiry time.Duration
}

// CORSConfig holds CORS configuration
type CORSConfig struct {
	AllowedOrigins []string
	AllowedMethods []string
	AllowedHeaders []string
}

// RateLimitConfig holds rate limiting configuration
type RateLimitConfig struct {
	RequestsPerSecond float64
	Burst             int
	// PINAttemptsPerMinute throttles the cashier PIN endpoint separately.
	PINAttemptsPerMinute float64
	PINBurst             int
}

// PrinterConfig holds receipt printer configuration
type PrinterConfig struct {
	Type      string // usb, network, or none
	USBPath   string
	Address   string
	CharWidth int
}

// FiscalConfig holds fiscal gateway configuration
type FiscalConfig struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
}

// POSConfig holds point-of-sale behaviour configuration
type POSConfig struct {
	Currency        string
	CompanyID       string
	SearchDebounce  time.Duration
	IdempotencyTTL  time.Duration
	DisplayIdleText string
}

// Load reads configuration from environment variables and config file
func Load() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")

	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	cfg := &Config{
		App: AppConfig{
			Name:        viper.GetString("app.name"),
			Environment: viper.GetString("app.environment"),
			Port:        viper.GetInt("app.port"),
			LogLevel:    viper.GetString("app.log_level"),
		},
		Database: DatabaseConfig{
			Host:            viper.GetString("database.host"),
			Port:            viper.GetInt("database.port"),
			User:            viper.GetString("database.user"),
			Password:        viper.GetString("database.password"),
			Name:            viper.GetString("database.name"),
			SSLMode:         viper.GetString("database.sslmode"),
			MaxOpenConns:    viper.GetInt("database.max_open_conns"),
			MaxIdleConns:    viper.GetInt("database.max_idle_conns"),
			ConnMaxLifetime: viper.GetDuration("database.conn_max_lifetime"),
		},
		JWT: JWTConfig{
			Secret:        viper.GetString("jwt.secret"),
			AccessExpiry:  viper.GetDuration("jwt.access_expiry"),
			RefreshExpiry: viper.GetDuration("jwt.refresh_expiry"),
		},
		CORS: CORSConfig{
			AllowedOrigins: viper.GetStringSlice("cors.allowed_origins"),
			AllowedMethods: viper.GetStringSlice("cors.allowed_methods"),
			AllowedHeaders: viper.GetStringSlice("cors.allowed_headers"),
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond:    viper.GetFloat64("rate_limit.requests_per_second"),
			Burst:                viper.GetInt("rate_limit.burst"),
			PINAttemptsPerMinute: viper.GetFloat64("rate_limit.pin_attempts_per_minute"),
			PINBurst:             viper.GetInt("rate_limit.pin_burst"),
		},
		Printer: PrinterConfig{
			Type:      viper.GetString("printer.type"),
			USBPath:   viper.GetString("printer.usb_path"),
			Address:   viper.GetString("printer.address"),
			CharWidth: viper.GetInt("printer.char_width"),
		},
		Fiscal: FiscalConfig{
			BaseURL: viper.GetString("fiscal.base_url"),
			APIKey:  viper.GetString("fiscal.api_key"),
			Timeout: viper.GetDuration("fiscal.timeout"),
		},
		POS: POSConfig{
			Currency:        viper.GetString("pos.currency"),
			CompanyID:       viper.GetString("pos.company_id"),
			SearchDebounce:  viper.GetDuration("pos.search_debounce"),
			IdempotencyTTL:  viper.GetDuration("pos.idempotency_ttl"),
			DisplayIdleText: viper.GetString("pos.display_idle_text"),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func setDefaults() {
	viper.SetDefault("app.name", "fiscalpos-api")
	viper.SetDefault("app.environment", "development")
	viper.SetDefault("app.port", 8080)
	viper.SetDefault("app.log_level", "info")

	viper.SetDefault("database.host", "localhost")
	viper.SetDefault("database.port", 5432)
	viper.SetDefault("database.user", "postgres")
	viper.SetDefault("database.password", "postgres")
	viper.SetDefault("database.name", "fiscalpos")
	viper.SetDefault("database.sslmode", "disable")
	viper.SetDefault("database.max_open_conns", 25)
	viper.SetDefault("database.max_idle_conns", 5)
	viper.SetDefault("database.conn_max_lifetime", "5m")

	viper.SetDefault("jwt.secret", "change-me-in-production")
	viper.SetDefault("jwt.access_expiry", "15m")
	viper.SetDefault("jwt.refresh_expiry", "168h")

	viper.SetDefault("cors.allowed_origins", []string{"*"})
	viper.SetDefault("cors.allowed_methods", []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"})
	viper.SetDefault("cors.allowed_headers", []string{"Origin", "Content-Type", "Authorization", "Idempotency-Key"})

	viper.SetDefault("rate_limit.requests_per_second", 20)
	viper.SetDefault("rate_limit.burst", 40)
	viper.SetDefault("rate_limit.pin_attempts_per_minute", 10)
	viper.SetDefault("rate_limit.pin_burst", 5)

	viper.SetDefault("printer.type", "none")
	viper.SetDefault("printer.usb_path", "/dev/usb/lp0")
	viper.SetDefault("printer.address", "")
	viper.SetDefault("printer.char_width", 48)

	viper.SetDefault("fiscal.base_url", "")
	viper.SetDefault("fiscal.api_key", "")
	viper.SetDefault("fiscal.timeout", "15s")

	viper.SetDefault("pos.currency", "USD")
	viper.SetDefault("pos.company_id", "")
	viper.SetDefault("pos.search_debounce", "300ms")
	viper.SetDefault("pos.idempotency_ttl", "24h")
	viper.SetDefault("pos.display_idle_text", "Welcome")
}

func (c *Config) validate() error {
	if c.App.Environment == "production" && c.JWT.Secret == "change-me-in-production" {
		return fmt.Errorf("jwt.secret must be set in production")
	}
	if c.Fiscal.Timeout <= 0 {
		return fmt.Errorf("fiscal.timeout must be positive")
	}
	return nil
}

// DSN returns the PostgreSQL connection string
func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Name, c.SSLMode,
	)
}

// IsProduction returns true if running in production environment
func (c *AppConfig) IsProduction() bool {
	return c.Environment == "production"
}
