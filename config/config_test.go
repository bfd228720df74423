package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	return &Config{
		Env:           "development",
		Port:          "8080",
		DBDriver:      "sqlite",
		SQLitePath:    "test.db",
		JWTSecret:     defaultJWTSecret,
		JWTExpiration: time.Hour,
		StorageDriver: "local",
		UploadDir:     "./uploads",
	}
}

func TestValidate(t *testing.T) {
	t.Run("development accepts the default secret", func(t *testing.T) {
		assert.NoError(t, validConfig().Validate())
	})

	t.Run("production rejects the default secret", func(t *testing.T) {
		cfg := validConfig()
		cfg.Env = "production"
		cfg.DBDriver = "postgres"
		assert.ErrorContains(t, cfg.Validate(), "JWT_SECRET")
	})

	t.Run("production rejects sqlite", func(t *testing.T) {
		cfg := validConfig()
		cfg.Env = "production"
		cfg.JWTSecret = "0123456789abcdef0123456789abcdef"
		assert.ErrorContains(t, cfg.Validate(), "sqlite")
	})

	t.Run("unknown storage driver", func(t *testing.T) {
		cfg := validConfig()
		cfg.StorageDriver = "s3"
		assert.Error(t, cfg.Validate())
	})

	t.Run("unknown db driver", func(t *testing.T) {
		cfg := validConfig()
		cfg.DBDriver = "mysql"
		assert.Error(t, cfg.Validate())
	})
}

func TestLoadConfigFromEnv(t *testing.T) {
	t.Setenv("PORT", "9999")
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("SUBMIT_RATE_PER_MINUTE", "12")
	t.Setenv("ALLOWED_ORIGINS", "http://a.test, http://b.test")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "9999", cfg.Port)
	assert.Equal(t, "sqlite", cfg.DBDriver)
	assert.Equal(t, 12, cfg.SubmitRatePerMinute)
	assert.Equal(t, 24*time.Hour, cfg.JWTExpiration)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.Origins())
	assert.Empty(t, cfg.Proxies())
}

func TestProxies(t *testing.T) {
	cfg := validConfig()
	cfg.TrustedProxies = "10.0.0.0/8, ,192.168.1.1"
	assert.Equal(t, []string{"10.0.0.0/8", "192.168.1.1"}, cfg.Proxies())
}

func TestDSN(t *testing.T) {
	cfg := validConfig()
	cfg.DBHost, cfg.DBUser, cfg.DBPassword, cfg.DBName, cfg.DBPort, cfg.DBSSLMode = "db", "u", "p", "n", "5432", "disable"
	assert.Equal(t, "host=db user=u password=p dbname=n port=5432 sslmode=disable", cfg.DSN())

	cfg.DatabaseURL = "postgres://x"
	assert.Equal(t, "postgres://x", cfg.DSN())
}
