package config

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const defaultJWTSecret = "a-very-secret-key-should-be-longer-and-random"

// Storage drivers accepted by STORAGE_DRIVER.
const (
	StorageDriverPostgres = "postgres"
	StorageDriverMemory   = "memory"
)

// Config holds application configuration.
type Config struct {
	StorageDriver     string // "postgres" or "memory"
	DatabaseURL       string
	Port              string
	IsProduction      bool
	EnableDBCheck     bool
	LogLevel          string
	JWTSecret         string
	JWTExpiryDuration time.Duration
	JWTIssuer         string

	CORSAllowedOrigins []string
	LoginRateLimit     string // limiter format, e.g. "10-M"
	MigrationsPath     string

	// VersionCreateMaxAttempts bounds retries when two writers race for the same version number.
	VersionCreateMaxAttempts int

	SMTP          SMTPConfig
	PortalBaseURL string

	// BootstrapAdmin, when Username and Password are set, is ensured at startup.
	BootstrapAdmin BootstrapAdminConfig
}

// BootstrapAdminConfig names the operator account seeded as site admin.
type BootstrapAdminConfig struct {
	Username string
	Password string
	Email    string
}

// Enabled reports whether a bootstrap account is configured.
func (b BootstrapAdminConfig) Enabled() bool {
	return b.Username != "" && b.Password != ""
}

// SMTPConfig configures reviewer invitation mail. An empty Host disables delivery.
type SMTPConfig struct {
	Host          string
	Port          int
	User          string
	Pass          string
	From          string
	SkipTLSVerify bool
}

// Enabled reports whether enough is configured to dial a server.
func (s SMTPConfig) Enabled() bool {
	return s.Host != "" && s.From != ""
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	viper.SetDefault("STORAGE_DRIVER", StorageDriverPostgres)
	viper.SetDefault("PGSQL_URL", "")
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("IS_PRODUCTION", false)
	viper.SetDefault("ENABLE_DB_CHECK", false)
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("JWT_SECRET", defaultJWTSecret)
	viper.SetDefault("JWT_EXPIRY_DURATION", "1h")
	viper.SetDefault("JWT_ISSUER", "editorial-workflow")
	viper.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:3000")
	viper.SetDefault("LOGIN_RATE_LIMIT", "10-M")
	viper.SetDefault("MIGRATIONS_PATH", "file://migrations")
	viper.SetDefault("VERSION_CREATE_MAX_ATTEMPTS", 3)
	viper.SetDefault("SMTP_HOST", "")
	viper.SetDefault("SMTP_PORT", 587)
	viper.SetDefault("SMTP_USER", "")
	viper.SetDefault("SMTP_PASS", "")
	viper.SetDefault("SMTP_FROM", "")
	viper.SetDefault("SMTP_SKIP_TLS_VERIFY", false)
	viper.SetDefault("PORTAL_BASE_URL", "http://localhost:3000")
	viper.SetDefault("BOOTSTRAP_ADMIN_USERNAME", "")
	viper.SetDefault("BOOTSTRAP_ADMIN_PASSWORD", "")
	viper.SetDefault("BOOTSTRAP_ADMIN_EMAIL", "")

	viper.AutomaticEnv()

	cfg := &Config{
		StorageDriver:            strings.ToLower(viper.GetString("STORAGE_DRIVER")),
		DatabaseURL:              viper.GetString("PGSQL_URL"),
		Port:                     viper.GetString("PORT"),
		IsProduction:             viper.GetBool("IS_PRODUCTION"),
		EnableDBCheck:            viper.GetBool("ENABLE_DB_CHECK"),
		LogLevel:                 viper.GetString("LOG_LEVEL"),
		JWTSecret:                viper.GetString("JWT_SECRET"),
		JWTIssuer:                viper.GetString("JWT_ISSUER"),
		LoginRateLimit:           viper.GetString("LOGIN_RATE_LIMIT"),
		MigrationsPath:           viper.GetString("MIGRATIONS_PATH"),
		VersionCreateMaxAttempts: viper.GetInt("VERSION_CREATE_MAX_ATTEMPTS"),
		PortalBaseURL:            strings.TrimRight(viper.GetString("PORTAL_BASE_URL"), "/"),
		SMTP: SMTPConfig{
			Host:          viper.GetString("SMTP_HOST"),
			Port:          viper.GetInt("SMTP_PORT"),
			User:          viper.GetString("SMTP_USER"),
			Pass:          viper.GetString("SMTP_PASS"),
			From:          viper.GetString("SMTP_FROM"),
			SkipTLSVerify: viper.GetBool("SMTP_SKIP_TLS_VERIFY"),
		},
		BootstrapAdmin: BootstrapAdminConfig{
			Username: viper.GetString("BOOTSTRAP_ADMIN_USERNAME"),
			Password: viper.GetString("BOOTSTRAP_ADMIN_PASSWORD"),
			Email:    viper.GetString("BOOTSTRAP_ADMIN_EMAIL"),
		},
	}

	switch cfg.StorageDriver {
	case StorageDriverPostgres, StorageDriverMemory:
	default:
		return nil, fmt.Errorf("unsupported STORAGE_DRIVER %q: use %s or %s", cfg.StorageDriver, StorageDriverPostgres, StorageDriverMemory)
	}

	if cfg.StorageDriver == StorageDriverPostgres && cfg.DatabaseURL == "" {
		log.Println("Warning: PGSQL_URL environment variable not set.")
	}

	if cfg.Port == "" {
		cfg.Port = "8080"
		log.Printf("Warning: PORT environment variable not set. Defaulting to %s\n", cfg.Port)
	}

	if cfg.JWTSecret == "" || cfg.JWTSecret == defaultJWTSecret {
		cfg.JWTSecret = defaultJWTSecret // !! CHANGE IN PRODUCTION !!
		log.Println("Warning: JWT_SECRET environment variable not set. Using default insecure key.")
	}

	// Load JWT Expiry Duration (e.g., "60m", "1h")
	jwtExpiryStr := viper.GetString("JWT_EXPIRY_DURATION")
	jwtExpiryDuration, err := time.ParseDuration(jwtExpiryStr)
	if err != nil {
		jwtExpiryDuration = time.Hour
		if jwtExpiryStr != "" {
			log.Printf("Warning: Invalid value for JWT_EXPIRY_DURATION ('%s'). Defaulting to %s.\n", jwtExpiryStr, jwtExpiryDuration.String())
		}
	}
	cfg.JWTExpiryDuration = jwtExpiryDuration

	for _, origin := range strings.Split(viper.GetString("CORS_ALLOWED_ORIGINS"), ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			cfg.CORSAllowedOrigins = append(cfg.CORSAllowedOrigins, origin)
		}
	}

	if cfg.VersionCreateMaxAttempts < 1 {
		log.Printf("Warning: VERSION_CREATE_MAX_ATTEMPTS must be positive. Defaulting to 3.\n")
		cfg.VersionCreateMaxAttempts = 3
	}

	if cfg.SMTP.Port == 0 {
		cfg.SMTP.Port = 587
	}
	if !cfg.SMTP.Enabled() {
		log.Println("Warning: SMTP_HOST/SMTP_FROM not set. Reviewer invitations will only be logged.")
	}

	return cfg, nil
}
