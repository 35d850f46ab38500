package config_test

import (
	"testing"

	"github.com/MatheusPrusch77/CRUD-RESTFUL-API/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("ENV", "unit")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "unit", cfg.Env)
	assert.Equal(t, "3000", cfg.Server.Port)
	assert.Equal(t, "https://viacep.com.br", cfg.CEP.BaseURL)
	assert.Equal(t, 10, cfg.CEP.TimeoutSeconds)
	assert.Equal(t, "none", cfg.Events.Driver)
	assert.Equal(t, 10, cfg.Client.PollIntervalSeconds)
	assert.False(t, cfg.Telemetry.Enabled)
	assert.Equal(t, 25, cfg.Database.MaxOpenConns)
	assert.Equal(t, 10, cfg.Database.MaxIdleConns)
	assert.Equal(t, 300, cfg.Database.ConnMaxLifetime)
	assert.Equal(t, 60, cfg.Database.ConnMaxIdleTime)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("ENV", "unit")
	t.Setenv("PORT", "8081")
	t.Setenv("DB_HOST", "db.internal")
	t.Setenv("DB_PASSWORD", "s3cret")
	t.Setenv("EVENTS_DRIVER", "nats")
	t.Setenv("CEP_BASE_URL", "http://cep.local")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "8081", cfg.Server.Port)
	assert.Equal(t, "db.internal", cfg.Database.Host)
	assert.Equal(t, "s3cret", cfg.Database.Password)
	assert.Equal(t, "nats", cfg.Events.Driver)
	assert.Equal(t, "http://cep.local", cfg.CEP.BaseURL)
}
