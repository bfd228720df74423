// Package config loads runtime settings from .env, config.yml and the environment.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const defaultJWTSecret = "your-secret-key-change-this-in-production"

// Config holds application configuration values loaded from file or environment variables.
type Config struct {
	Env                 string        `mapstructure:"APP_ENV"`
	Port                string        `mapstructure:"PORT"`
	DBDriver            string        `mapstructure:"DB_DRIVER"`
	DatabaseURL         string        `mapstructure:"DATABASE_URL"`
	DBHost              string        `mapstructure:"DB_HOST"`
	DBPort              string        `mapstructure:"DB_PORT"`
	DBUser              string        `mapstructure:"DB_USER"`
	DBPassword          string        `mapstructure:"DB_PASSWORD"`
	DBName              string        `mapstructure:"DB_NAME"`
	DBSSLMode           string        `mapstructure:"DB_SSLMODE"`
	SQLitePath          string        `mapstructure:"SQLITE_PATH"`
	JWTSecret           string        `mapstructure:"JWT_SECRET"`
	JWTExpiration       time.Duration `mapstructure:"JWT_EXPIRATION"`
	RedisURL            string        `mapstructure:"REDIS_URL"`
	StorageDriver       string        `mapstructure:"STORAGE_DRIVER"`
	UploadDir           string        `mapstructure:"UPLOAD_DIR"`
	PublicBaseURL       string        `mapstructure:"PUBLIC_BASE_URL"`
	GCSBucketPrefix     string        `mapstructure:"GCS_BUCKET_PREFIX"`
	GCSCredentialsFile  string        `mapstructure:"GCS_CREDENTIALS_FILE"`
	SubmitRatePerMinute int           `mapstructure:"SUBMIT_RATE_PER_MINUTE"`
	TracingEnabled      bool          `mapstructure:"TRACING_ENABLED"`
	AllowedOrigins      string        `mapstructure:"ALLOWED_ORIGINS"`
	TrustedProxies      string        `mapstructure:"TRUSTED_PROXIES"`
}

// LoadConfig reads .env (if present), then config.yml, then the environment.
func LoadConfig() (*Config, error) {
	// .env is optional; real environment variables win.
	_ = godotenv.Load()

	v := viper.New()
	v.AddConfigPath(".")
	v.AddConfigPath("..")
	v.SetConfigName("config")
	v.SetConfigType("yml")
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config into struct: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("PORT", "8080")
	v.SetDefault("DB_DRIVER", "postgres")
	v.SetDefault("DATABASE_URL", "")
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "story_cms")
	v.SetDefault("DB_SSLMODE", "disable")
	v.SetDefault("SQLITE_PATH", "story-cms.db")
	v.SetDefault("JWT_SECRET", defaultJWTSecret)
	v.SetDefault("JWT_EXPIRATION", 24*time.Hour)
	v.SetDefault("REDIS_URL", "")
	v.SetDefault("STORAGE_DRIVER", "local")
	v.SetDefault("UPLOAD_DIR", "./uploads")
	v.SetDefault("PUBLIC_BASE_URL", "http://localhost:8080")
	v.SetDefault("GCS_BUCKET_PREFIX", "")
	v.SetDefault("GCS_CREDENTIALS_FILE", "")
	v.SetDefault("SUBMIT_RATE_PER_MINUTE", 5)
	v.SetDefault("TRACING_ENABLED", false)
	v.SetDefault("ALLOWED_ORIGINS", "*")
	v.SetDefault("TRUSTED_PROXIES", "")
}

// IsProduction reports whether APP_ENV names a production deployment.
func (c *Config) IsProduction() bool {
	return c.Env == "production" || c.Env == "prod"
}

// Origins splits ALLOWED_ORIGINS on commas.
func (c *Config) Origins() []string {
	return splitList(c.AllowedOrigins)
}

// Proxies splits TRUSTED_PROXIES on commas. Empty means X-Forwarded-For is
// ignored and the client IP is the peer address.
func (c *Config) Proxies() []string {
	return splitList(c.TrustedProxies)
}

func splitList(raw string) []string {
	var out []string
	for _, o := range strings.Split(raw, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}

// Validate ensures that required configuration values are present.
func (c *Config) Validate() error {
	if c.Port == "" {
		return errors.New("PORT is required")
	}
	if c.JWTSecret == "" {
		return errors.New("JWT_SECRET is required")
	}
	if c.JWTExpiration <= 0 {
		return errors.New("JWT_EXPIRATION must be positive")
	}

	switch c.DBDriver {
	case "postgres", "sqlite":
	default:
		return fmt.Errorf("DB_DRIVER must be postgres or sqlite, got %q", c.DBDriver)
	}

	switch c.StorageDriver {
	case "local":
		if c.UploadDir == "" {
			return errors.New("UPLOAD_DIR is required for the local storage driver")
		}
	case "gcs":
	default:
		return fmt.Errorf("STORAGE_DRIVER must be local or gcs, got %q", c.StorageDriver)
	}

	if c.SubmitRatePerMinute < 0 {
		return errors.New("SUBMIT_RATE_PER_MINUTE cannot be negative")
	}

	if c.IsProduction() {
		if c.JWTSecret == defaultJWTSecret {
			return errors.New("JWT_SECRET must be changed from the default value in production")
		}
		if len(c.JWTSecret) < 32 {
			return errors.New("JWT_SECRET must be at least 32 characters in production")
		}
		if c.DBDriver == "sqlite" {
			return errors.New("DB_DRIVER sqlite is not supported in production")
		}
	}

	return nil
}
