package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromViper_Defaults(t *testing.T) {
	cfg, err := fromViper(viper.New())
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.App.Env)
	assert.Equal(t, "postgres", cfg.DB.Driver)
	assert.Equal(t, "postgres://postgres:@localhost:5432/stock_engine?sslmode=disable", cfg.DB.ConnectionString())
	assert.Equal(t, "0.0.0.0:8080", cfg.HTTP.Addr())
	assert.Equal(t, 3, cfg.Engine.MaxRetries)
	assert.Equal(t, 25*time.Millisecond, cfg.Engine.RetryBackoff)
	assert.True(t, cfg.Engine.RequireReady)

	assert.Equal(t, 25, cfg.DB.MaxConns)
	assert.Equal(t, 2, cfg.DB.MinConns)
	assert.Equal(t, time.Hour, cfg.DB.MaxConnLifetime)
	assert.Equal(t, 30*time.Minute, cfg.DB.MaxConnIdleTime)
	assert.Equal(t, time.Minute, cfg.DB.HealthCheckPeriod)
	assert.False(t, cfg.DB.ForceIPv4)
}

func TestFromViper_Overrides(t *testing.T) {
	v := viper.New()
	v.Set("DB_DRIVER", "MEMORY")
	v.Set("DATABASE_URL", "postgres://u:p@db:5432/x")
	v.Set("HTTP_PORT", "9090")
	v.Set("ENGINE_MAX_RETRIES", "7")
	v.Set("ENGINE_RETRY_BACKOFF_MS", 100)
	v.Set("ENGINE_REQUIRE_READY", "false")
	v.Set("DB_MAX_CONNS", "10")
	v.Set("DB_MIN_CONNS", "4")
	v.Set("DB_MAX_CONN_LIFETIME_MIN", 15)
	v.Set("DB_FORCE_IPV4", "true")

	cfg, err := fromViper(v)
	require.NoError(t, err)

	assert.Equal(t, "memory", cfg.DB.Driver)
	assert.Equal(t, "postgres://u:p@db:5432/x", cfg.DB.ConnectionString())
	assert.Equal(t, 9090, cfg.HTTP.Port)
	assert.Equal(t, 7, cfg.Engine.MaxRetries)
	assert.Equal(t, 100*time.Millisecond, cfg.Engine.RetryBackoff)
	assert.False(t, cfg.Engine.RequireReady)
	assert.Equal(t, 10, cfg.DB.MaxConns)
	assert.Equal(t, 4, cfg.DB.MinConns)
	assert.Equal(t, 15*time.Minute, cfg.DB.MaxConnLifetime)
	assert.True(t, cfg.DB.ForceIPv4)
}

func TestFromViper_Invalidos(t *testing.T) {
	v := viper.New()
	v.Set("DB_DRIVER", "sqlite")
	_, err := fromViper(v)
	assert.Error(t, err)

	v = viper.New()
	v.Set("ENGINE_MAX_RETRIES", -1)
	_, err = fromViper(v)
	assert.Error(t, err)

	v = viper.New()
	v.Set("DB_MAX_CONNS", 2)
	v.Set("DB_MIN_CONNS", 5)
	_, err = fromViper(v)
	assert.Error(t, err)

	v = viper.New()
	v.Set("DB_MAX_CONNS", 0)
	_, err = fromViper(v)
	assert.Error(t, err)
}

func TestDSN_EscapaPassword(t *testing.T) {
	c := DBConfig{User: "app", Password: "p@ss:wd", Host: "db", Port: 5432, DBName: "inv", SSLMode: "require"}
	assert.Equal(t, "postgres://app:p%40ss%3Awd@db:5432/inv?sslmode=require", c.DSN())
}
