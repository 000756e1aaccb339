package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents the client configuration
type Config struct {
	API       APIConfig       `yaml:"api"`
	Session   SessionConfig   `yaml:"session"`
	Payment   PaymentConfig   `yaml:"payment"`
	Booking   BookingConfig   `yaml:"booking"`
	Log       LogConfig       `yaml:"log"`
	Scheduler SchedulerConfig `yaml:"scheduler"`
}

// APIConfig contains backend connection settings
type APIConfig struct {
	BaseURL        string `yaml:"base_url"`
	WebSocketURL   string `yaml:"ws_url"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
	// Consecutive transport failures before the circuit opens.
	BreakerFailures     int `yaml:"breaker_failures"`
	BreakerResetSeconds int `yaml:"breaker_reset_seconds"`
}

// SessionConfig contains durable credential storage settings
type SessionConfig struct {
	Path   string `yaml:"path"`   // SQLite file; empty means ~/.campusrent/session.db
	Secret string `yaml:"secret"` // passphrase sealing the stored credential
}

// PaymentConfig contains payment provider checkout settings
type PaymentConfig struct {
	KeyID          string `yaml:"key_id"`
	Currency       string `yaml:"currency"`
	MerchantName   string `yaml:"merchant_name"`
	CheckoutURL    string `yaml:"checkout_url"`
	CallbackHost   string `yaml:"callback_host"`
	CallbackPort   int    `yaml:"callback_port"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
}

// BookingConfig contains booking flow UI settings
type BookingConfig struct {
	RedirectDelayMillis int `yaml:"redirect_delay_ms"`
}

// LogConfig contains logging settings
type LogConfig struct {
	Level  string `yaml:"level"`  // "debug", "info", "warn", "error"
	Format string `yaml:"format"` // "json" or "text"
}

// SchedulerConfig contains cron schedules for the watch command
type SchedulerConfig struct {
	RefreshBookings     string `yaml:"refresh_bookings"`
	CheckPendingReturns string `yaml:"check_pending_returns"`
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	return &Config{
		API: APIConfig{
			BaseURL: "http://localhost:5000",
		},
	}
}

// Load reads configuration from a YAML file. A missing file is not an
// error: defaults are used and environment overrides still apply.
func Load(configPath string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(configPath)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	case errors.Is(err, os.ErrNotExist):
	default:
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Override with environment variables if present
	cfg.overrideWithEnv()

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// overrideWithEnv overrides config values with environment variables
func (c *Config) overrideWithEnv() {
	if val := os.Getenv("CAMPUSRENT_API_URL"); val != "" {
		c.API.BaseURL = val
	}
	if val := os.Getenv("CAMPUSRENT_WS_URL"); val != "" {
		c.API.WebSocketURL = val
	}
	if val := os.Getenv("CAMPUSRENT_API_TIMEOUT"); val != "" {
		fmt.Sscanf(val, "%d", &c.API.TimeoutSeconds)
	}

	if val := os.Getenv("CAMPUSRENT_SESSION_PATH"); val != "" {
		c.Session.Path = val
	}
	if val := os.Getenv("CAMPUSRENT_SESSION_SECRET"); val != "" {
		c.Session.Secret = val
	}

	if val := os.Getenv("CAMPUSRENT_PAYMENT_KEY_ID"); val != "" {
		c.Payment.KeyID = val
	}
	if val := os.Getenv("CAMPUSRENT_CALLBACK_PORT"); val != "" {
		fmt.Sscanf(val, "%d", &c.Payment.CallbackPort)
	}

	if val := os.Getenv("CAMPUSRENT_LOG_LEVEL"); val != "" {
		c.Log.Level = val
	}
	if val := os.Getenv("CAMPUSRENT_LOG_FORMAT"); val != "" {
		c.Log.Format = val
	}

	// Set defaults for log if not configured
	if c.Log.Level == "" {
		c.Log.Level = "warn"
	}
	if c.Log.Format == "" {
		c.Log.Format = "text"
	}
}

// Validate checks if the configuration is valid and fills defaults
func (c *Config) Validate() error {
	// API validation
	if c.API.BaseURL == "" {
		return fmt.Errorf("api base url is required")
	}
	u, err := url.Parse(c.API.BaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("invalid api base url: %q", c.API.BaseURL)
	}
	if c.API.WebSocketURL == "" {
		ws := *u
		ws.Scheme = "ws"
		if u.Scheme == "https" {
			ws.Scheme = "wss"
		}
		ws.Path = "/ws/chat"
		c.API.WebSocketURL = ws.String()
	}
	if c.API.TimeoutSeconds < 0 {
		return fmt.Errorf("invalid api timeout: %d", c.API.TimeoutSeconds)
	}
	if c.API.TimeoutSeconds == 0 {
		c.API.TimeoutSeconds = 20
	}
	if c.API.BreakerFailures == 0 {
		c.API.BreakerFailures = 3
	}
	if c.API.BreakerResetSeconds == 0 {
		c.API.BreakerResetSeconds = 10
	}

	// Payment validation
	if c.Payment.CallbackPort < 0 || c.Payment.CallbackPort > 65535 {
		return fmt.Errorf("invalid payment callback port: %d", c.Payment.CallbackPort)
	}
	if c.Payment.Currency == "" {
		c.Payment.Currency = "INR"
	}
	if c.Payment.MerchantName == "" {
		c.Payment.MerchantName = "Campus Rentals"
	}
	if c.Payment.CheckoutURL == "" {
		c.Payment.CheckoutURL = c.API.BaseURL + "/checkout"
	}
	if c.Payment.CallbackHost == "" {
		c.Payment.CallbackHost = "127.0.0.1"
	}
	if c.Payment.TimeoutSeconds == 0 {
		c.Payment.TimeoutSeconds = 600
	}

	// Session defaults
	if c.Session.Path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("session path is required: %w", err)
		}
		c.Session.Path = filepath.Join(home, ".campusrent", "session.db")
	}

	if c.Booking.RedirectDelayMillis == 0 {
		c.Booking.RedirectDelayMillis = 2000
	}

	// Scheduler defaults
	if c.Scheduler.RefreshBookings == "" {
		c.Scheduler.RefreshBookings = "0 */5 * * * *" // every 5 minutes
	}
	if c.Scheduler.CheckPendingReturns == "" {
		c.Scheduler.CheckPendingReturns = "0 */15 * * * *" // every 15 minutes
	}

	return nil
}

// RequestTimeout returns the per-request backend timeout.
func (c *Config) RequestTimeout() time.Duration {
	return time.Duration(c.API.TimeoutSeconds) * time.Second
}

// PaymentTimeout bounds how long a checkout may stay open.
func (c *Config) PaymentTimeout() time.Duration {
	return time.Duration(c.Payment.TimeoutSeconds) * time.Second
}

// RedirectDelay is the pause between booking confirmation and the
// redirect to the booking list.
func (c *Config) RedirectDelay() time.Duration {
	return time.Duration(c.Booking.RedirectDelayMillis) * time.Millisecond
}

// GetCallbackAddress returns the payment callback listener address
func (c *Config) GetCallbackAddress() string {
	return fmt.Sprintf("%s:%d", c.Payment.CallbackHost, c.Payment.CallbackPort)
}

// DefaultConfigPath returns ~/.campusrent/config.yaml.
func DefaultConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home directory: %w", err)
	}
	return filepath.Join(home, ".campusrent", "config.yaml"), nil
}
