package config

import (
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_MemoryDriverDefaults(t *testing.T) {
	t.Setenv("STORAGE_DRIVER", "memory")
	t.Setenv("JWT_SECRET_KEY", "secret")
	t.Setenv("DB_PASSWORD", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, StorageDriverMemory, cfg.Database.Driver)
	assert.Equal(t, 8080, cfg.App.Port)
	assert.Equal(t, 500, cfg.Payroll.PageSize)
	assert.Equal(t, 5*time.Minute, cfg.Redis.PlanTTL)
	assert.Empty(t, cfg.Redis.Host)
}

func TestLoad_PostgresRequiresPassword(t *testing.T) {
	t.Setenv("STORAGE_DRIVER", "postgres")
	t.Setenv("JWT_SECRET_KEY", "secret")
	t.Setenv("DB_PASSWORD", "")

	_, err := Load()
	assert.ErrorContains(t, err, "DB_PASSWORD")
}

func TestValidate(t *testing.T) {
	valid := Config{
		Database: DatabaseConfig{Driver: StorageDriverMemory},
		Redis:    RedisConfig{PlanTTL: time.Minute},
		JWT:      JWTConfig{Secret: "s", AccessExpiration: "1h"},
		Payroll:  PayrollConfig{PageSize: 10},
	}
	require.NoError(t, valid.Validate())

	cases := map[string]func(c *Config){
		"unknown driver":  func(c *Config) { c.Database.Driver = "sqlite" },
		"missing secret":  func(c *Config) { c.JWT.Secret = "" },
		"bad expiration":  func(c *Config) { c.JWT.AccessExpiration = "soon" },
		"zero page size":  func(c *Config) { c.Payroll.PageSize = 0 },
		"zero plan cache": func(c *Config) { c.Redis.PlanTTL = 0 },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			c := valid
			mutate(&c)
			assert.Error(t, c.Validate())
		})
	}
}

func TestSlogLevel(t *testing.T) {
	c := Config{App: AppConfig{LogLevel: "DEBUG"}}
	assert.Equal(t, slog.LevelDebug, c.SlogLevel())
	c.App.LogLevel = "nonsense"
	assert.Equal(t, slog.LevelInfo, c.SlogLevel())
}
