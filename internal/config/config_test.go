package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig("")
	require.NoError(t, err)

	assert.Equal(t, "social-go", cfg.AppName)
	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "postgres", cfg.Database.Type)
	assert.Equal(t, 15*time.Minute, cfg.Auth.JWTExpiry)
	assert.Equal(t, 8, cfg.Password.MinLength)
	assert.InDelta(t, 50.0, cfg.Password.MinEntropy, 0.001)
	assert.Equal(t, int64(2<<20), cfg.Avatar.MaxSizeBytes)
	assert.ElementsMatch(t, []string{"image/jpeg", "image/png", "image/gif"}, cfg.Avatar.AllowedTypes)
	assert.Empty(t, cfg.Kafka.Brokers, "kafka is disabled by default")
	assert.Equal(t, "social-go", cfg.TwoFactor.Issuer)
}

func TestLoadConfig_EnvOverride(t *testing.T) {
	t.Setenv("SERVER_PORT", "9999")
	t.Setenv("DATABASE_TYPE", "sqlite")

	cfg, err := LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, "9999", cfg.Server.Port)
	assert.Equal(t, "sqlite", cfg.Database.Type)
}
