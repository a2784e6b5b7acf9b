package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_DefaultsAndEnv(t *testing.T) {
	t.Setenv("COMPLIMENT_JWT_SECRET", "s3cret")
	t.Setenv("COMPLIMENT_DATABASE_DRIVER", "sqlite")
	t.Setenv("COMPLIMENT_SERVER_PORT", "9090")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "s3cret", cfg.JWT.Secret)
	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, ":9090", cfg.Server.Addr())
	assert.Equal(t, 24*time.Hour, cfg.JWT.Expire)
	assert.Equal(t, 10*time.Minute, cfg.Redis.OwnerTTL)
}

func TestValidate(t *testing.T) {
	cfg := &Config{
		Database: DatabaseConfig{Driver: "mysql"},
		JWT:      JWTConfig{Secret: "x", Expire: time.Hour},
	}
	assert.Error(t, cfg.Validate())

	cfg.Database.Driver = "postgres"
	assert.NoError(t, cfg.Validate())

	cfg.JWT.Secret = ""
	assert.Error(t, cfg.Validate())
}
