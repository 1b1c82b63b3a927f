package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_FromEnv(t *testing.T) {
	viper.Reset()
	t.Setenv("PORT", "9090")
	t.Setenv("JWT_EXPIRY_DURATION", "30m")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example ,")
	t.Setenv("VERSION_CREATE_MAX_ATTEMPTS", "5")
	t.Setenv("SMTP_HOST", "smtp.example.org")
	t.Setenv("SMTP_FROM", "Editorial <no-reply@example.org>")
	t.Setenv("PORTAL_BASE_URL", "https://portal.example.org/")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, 30*time.Minute, cfg.JWTExpiryDuration)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSAllowedOrigins)
	assert.Equal(t, 5, cfg.VersionCreateMaxAttempts)
	assert.True(t, cfg.SMTP.Enabled())
	assert.Equal(t, 587, cfg.SMTP.Port)
	assert.Equal(t, "https://portal.example.org", cfg.PortalBaseURL)
	assert.False(t, cfg.BootstrapAdmin.Enabled())
}

func TestLoadConfig_BootstrapAdmin(t *testing.T) {
	viper.Reset()
	t.Setenv("BOOTSTRAP_ADMIN_USERNAME", "root")
	t.Setenv("BOOTSTRAP_ADMIN_PASSWORD", "change-me-now")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.True(t, cfg.BootstrapAdmin.Enabled())
	assert.Equal(t, "root", cfg.BootstrapAdmin.Username)
}

func TestLoadConfig_Fallbacks(t *testing.T) {
	viper.Reset()
	t.Setenv("JWT_EXPIRY_DURATION", "soon")
	t.Setenv("VERSION_CREATE_MAX_ATTEMPTS", "0")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, time.Hour, cfg.JWTExpiryDuration)
	assert.Equal(t, 3, cfg.VersionCreateMaxAttempts)
	assert.Equal(t, defaultJWTSecret, cfg.JWTSecret)
	assert.False(t, cfg.SMTP.Enabled())
}

func TestLoadConfig_StorageDriver(t *testing.T) {
	viper.Reset()
	t.Setenv("STORAGE_DRIVER", "Memory")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, StorageDriverMemory, cfg.StorageDriver)

	viper.Reset()
	t.Setenv("STORAGE_DRIVER", "mysql")
	_, err = LoadConfig()
	assert.ErrorContains(t, err, "unsupported STORAGE_DRIVER")
}
