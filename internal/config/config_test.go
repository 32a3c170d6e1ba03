package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "page-delivery-service", cfg.App.Name)
	assert.Equal(t, "8080", cfg.App.Port)
	assert.Equal(t, "info", cfg.Logger.Level)
	assert.Equal(t, 12, cfg.Auth.BcryptCost)

	// The signing secret and delivery base intentionally have no defaults.
	assert.Empty(t, cfg.Delivery.SigningSecret)
	assert.Empty(t, cfg.Delivery.BaseURL)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("APP_PORT", "9090")
	t.Setenv("LINK_SIGNING_SECRET", "s3cret")
	t.Setenv("DELIVERY_BASE_URL", "https://cdn.example.com")
	t.Setenv("AUTH_ACCESS_TOKEN_TTL_MINUTES", "15")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.App.Port)
	assert.Equal(t, "s3cret", cfg.Delivery.SigningSecret)
	assert.Equal(t, "https://cdn.example.com", cfg.Delivery.BaseURL)
	assert.Equal(t, 15, cfg.Auth.AccessTokenTTLMinutes)
}

func TestLoad_InvalidRedisDB(t *testing.T) {
	t.Setenv("REDIS_DB", "not-a-number")

	_, err := Load()
	assert.Error(t, err)
}

func TestAppConfig_Addr(t *testing.T) {
	app := AppConfig{Host: "127.0.0.1", Port: "8081"}
	assert.Equal(t, "127.0.0.1:8081", app.Addr())
}

func TestAppConfig_RequestTimeout(t *testing.T) {
	assert.Zero(t, AppConfig{RequestTimeoutSeconds: 0}.RequestTimeout())
	assert.Equal(t, "30s", AppConfig{RequestTimeoutSeconds: 30}.RequestTimeout().String())
}
