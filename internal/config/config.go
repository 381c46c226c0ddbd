package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config represents the application configuration
type Config struct {
	// API contains API server configuration
	API APIConfig
	// Auth contains authentication configuration
	Auth AuthConfig
	// Database contains database configuration
	Database DatabaseConfig
	// SMS contains SMS delivery configuration
	SMS SMSConfig
	// Timezone contains timezone catalog and preference settings
	Timezone TimezoneConfig
	// Sweep contains end-of-contest sweep settings
	Sweep SweepConfig

	// Rate Limiting Configuration
	RateLimit struct {
		Requests int // Number of requests allowed per window
		Window   int // Time window in seconds
		Burst    int // Maximum burst size
	}
}

// DatabaseConfig contains database connection settings
type DatabaseConfig struct {
	// Host is the database server hostname
	Host string
	// Port is the database server port
	Port int
	// User is the database username
	User string
	// Password is the database password
	Password string
	// DBName is the database name
	DBName string
	// SSLMode is the SSL mode for the database connection
	SSLMode string
	// MigrationsPath is the path to database migrations
	MigrationsPath string
}

// APIConfig contains API server settings
type APIConfig struct {
	// Port is the server port to listen on
	Port string
}

// AuthConfig contains authentication settings
type AuthConfig struct {
	// JWTSecret is the secret key used to sign JWT tokens
	JWTSecret string
	// JWTExpiration is the JWT token expiration time in hours
	JWTExpiration int
	// AdminToken is a static bearer token accepted for admin access,
	// used by operational tooling
	AdminToken string
	// OTPLength is the number of digits in a one-time code
	OTPLength int
	// OTPExpiration is how long a one-time code stays valid
	OTPExpiration time.Duration
	// OTPRequestsPerHour limits code requests per phone number
	OTPRequestsPerHour int
}

// SMSConfig contains SMS delivery settings
type SMSConfig struct {
	// AccountSID is the Twilio account identifier
	AccountSID string
	// AuthToken is the Twilio auth token
	AuthToken string
	// FromNumber is the E.164 sender number
	FromNumber string
	// TestMode logs messages instead of delivering them
	TestMode bool
}

// TimezoneConfig contains timezone catalog and preference settings
type TimezoneConfig struct {
	// Default is the zone served when an admin has no preference
	Default string
	// SnapshotPath is the local fallback file for admin preferences
	SnapshotPath string
	// CacheTTL is how long catalog entries stay cached
	CacheTTL time.Duration
}

// SweepConfig contains end-of-contest sweep settings
type SweepConfig struct {
	// Schedule in cron format (e.g. "*/15 * * * *" for every 15 minutes)
	Schedule string
	// Enabled determines if the sweep runs on schedule
	Enabled bool
}

// LoadFromEnv retrieves configuration from environment variables
func (c *Config) LoadFromEnv() error {
	c.API = APIConfig{
		Port: getEnvOrDefault("API_PORT", "8080"),
	}
	c.Database = DatabaseConfig{
		Host:           getEnvOrDefault("DB_HOST", "localhost"),
		Port:           getEnvAsInt("DB_PORT", 5432),
		User:           getEnvOrDefault("DB_USER", "postgres"),
		Password:       getEnvOrDefault("DB_PASSWORD", "postgres"),
		DBName:         getEnvOrDefault("DB_NAME", "contestlet"),
		SSLMode:        getEnvOrDefault("DB_SSL_MODE", "disable"),
		MigrationsPath: "migrations",
	}
	c.Auth = AuthConfig{
		JWTSecret:          os.Getenv("JWT_SECRET"),
		JWTExpiration:      getEnvAsInt("JWT_EXPIRATION_HOURS", 24),
		AdminToken:         os.Getenv("ADMIN_TOKEN"),
		OTPLength:          getEnvAsInt("OTP_LENGTH", 6),
		OTPExpiration:      time.Duration(getEnvAsInt("OTP_EXPIRATION_MINUTES", 5)) * time.Minute,
		OTPRequestsPerHour: getEnvAsInt("OTP_REQUESTS_PER_HOUR", 5),
	}
	c.SMS = SMSConfig{
		AccountSID: os.Getenv("TWILIO_ACCOUNT_SID"),
		AuthToken:  os.Getenv("TWILIO_AUTH_TOKEN"),
		FromNumber: os.Getenv("TWILIO_FROM_NUMBER"),
		TestMode:   getEnvAsBool("SMS_TEST_MODE", true),
	}
	c.Timezone = TimezoneConfig{
		Default:      getEnvOrDefault("TIMEZONE_DEFAULT", "UTC"),
		SnapshotPath: getEnvOrDefault("TIMEZONE_SNAPSHOT_PATH", ".contestlet/timezone_prefs.json"),
		CacheTTL:     time.Duration(getEnvAsInt("TIMEZONE_CACHE_TTL_SECONDS", 60)) * time.Second,
	}
	c.Sweep = SweepConfig{
		Schedule: getEnvOrDefault("SWEEP_SCHEDULE", "*/15 * * * *"),
		Enabled:  getEnvAsBool("SWEEP_ENABLED", false),
	}

	// Load rate limit configuration
	c.RateLimit.Requests = getEnvAsInt("RATE_LIMIT_REQUESTS", 1000)
	c.RateLimit.Window = getEnvAsInt("RATE_LIMIT_WINDOW", 60)
	c.RateLimit.Burst = getEnvAsInt("RATE_LIMIT_BURST", 50)

	// Validate required fields
	if c.Auth.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}

	return nil
}

// getEnvAsInt retrieves an environment variable and converts it to an integer
func getEnvAsInt(key string, defaultVal int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return defaultVal
}

// getEnvAsBool retrieves an environment variable and converts it to a boolean
func getEnvAsBool(key string, defaultVal bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return defaultVal
}

func getEnvOrDefault(key string, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}
