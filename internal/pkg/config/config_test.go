package config

import (
	"context"
	"testing"
	"time"

	"github.com/sethvargo/go-envconfig"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadWith_Defaults(t *testing.T) {
	cfg, err := LoadWith(context.Background(), envconfig.MapLookuper(map[string]string{}))
	require.NoError(t, err)

	assert.Equal(t, "3000", cfg.Port)
	assert.Equal(t, "http://localhost:8080/api", cfg.API.BaseURL)
	assert.Equal(t, 15*time.Second, cfg.API.Timeout)
	assert.Equal(t, StorageFile, cfg.Storage.Driver)
	assert.Equal(t, ".research-tracker/session.json", cfg.Storage.Path)
	assert.Equal(t, "research-tracker", cfg.Storage.Namespace)
	assert.True(t, cfg.IsDevelopment())
}

func TestLoadWith_Overrides(t *testing.T) {
	cfg, err := LoadWith(context.Background(), envconfig.MapLookuper(map[string]string{
		"PORT":           "9000",
		"ENV":            "production",
		"API_BASE_URL":   "https://tracker.example.org/api",
		"API_TIMEOUT":    "3s",
		"STORAGE_DRIVER": "redis",
		"STORAGE_TTL":    "12h",
		"REDIS_ADDR":     "cache:6380",
		"REDIS_DB":       "2",
	}))
	require.NoError(t, err)

	assert.Equal(t, "9000", cfg.Port)
	assert.False(t, cfg.IsDevelopment())
	assert.Equal(t, 3*time.Second, cfg.API.Timeout)
	assert.Equal(t, StorageRedis, cfg.Storage.Driver)
	assert.Equal(t, 12*time.Hour, cfg.Storage.TTL)
	assert.Equal(t, "cache:6380", cfg.Redis.Addr)
	assert.Equal(t, 2, cfg.Redis.DB)
}

func TestLoadWith_Invalid(t *testing.T) {
	cases := map[string]map[string]string{
		"relative api url": {"API_BASE_URL": "/api"},
		"unknown driver":   {"STORAGE_DRIVER": "sqlite"},
		"negative ttl":     {"STORAGE_TTL": "-1s"},
		"bad duration":     {"API_TIMEOUT": "soon"},
	}
	for name, env := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := LoadWith(context.Background(), envconfig.MapLookuper(env))
			assert.Error(t, err)
		})
	}
}
