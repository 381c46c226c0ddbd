package config

import (
	"testing"
	"time"

	"github.com/joho/godotenv"
	"github.com/stretchr/testify/require"
)

// LoadTestConfig loads configuration for testing
func LoadTestConfig(t *testing.T) *Config {
	t.Helper()

	err := godotenv.Load("../../.env.test")
	require.NoError(t, err, "Failed to load .env.test file")

	cfg := &Config{}
	err = cfg.LoadFromEnv()
	require.NoError(t, err, "Failed to load config")
	return cfg
}

// TestLoadFromEnv tests loading configuration from environment variables
func TestLoadFromEnv(t *testing.T) {
	// Load test environment
	err := godotenv.Load("../../.env.test")
	require.NoError(t, err, "Failed to load .env.test file")

	cfg := &Config{}
	err = cfg.LoadFromEnv()
	require.NoError(t, err)

	// Verify configuration values
	require.Equal(t, "8080", cfg.API.Port)
	require.Equal(t, "localhost", cfg.Database.Host)
	require.Equal(t, 5432, cfg.Database.Port)
	require.Equal(t, "postgres", cfg.Database.User)
	require.Equal(t, "postgres", cfg.Database.Password)
	require.Equal(t, "contestlet_test", cfg.Database.DBName)
	require.Equal(t, "disable", cfg.Database.SSLMode)
	require.Equal(t, "test_secret_key", cfg.Auth.JWTSecret)
	require.Equal(t, 24, cfg.Auth.JWTExpiration)
	require.Equal(t, "test-admin-token", cfg.Auth.AdminToken)
	require.Equal(t, 6, cfg.Auth.OTPLength)
	require.Equal(t, 5*time.Minute, cfg.Auth.OTPExpiration)
	require.True(t, cfg.SMS.TestMode)
	require.Equal(t, "UTC", cfg.Timezone.Default)
	require.Equal(t, time.Minute, cfg.Timezone.CacheTTL)
	require.Equal(t, "*/15 * * * *", cfg.Sweep.Schedule)
	require.False(t, cfg.Sweep.Enabled)
}
