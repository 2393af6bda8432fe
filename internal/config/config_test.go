package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PabloGalante/farum-oracle/internal/config"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("ORACLE_MODE", "")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, config.ModeLocal, cfg.Mode)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "memory", cfg.StorageBackend)
	assert.True(t, cfg.UseMockGateway)
	assert.Equal(t, 30*time.Second, cfg.GatewayTimeout)
	assert.Equal(t, 800*time.Millisecond, cfg.ActionDelay)
	assert.Empty(t, cfg.RedisAddr)
}

func TestLoad_GCP(t *testing.T) {
	t.Setenv("ORACLE_MODE", "gcp")
	t.Setenv("ORACLE_GCP_PROJECT", "oracle-prod")
	t.Setenv("ORACLE_STORAGE_BACKEND", "Firestore")
	t.Setenv("ORACLE_GATEWAY_TIMEOUT", "5s")
	t.Setenv("ORACLE_ACTION_DELAY", "0s")
	t.Setenv("ORACLE_REDIS_ADDR", "localhost:6379")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, config.ModeGCP, cfg.Mode)
	assert.False(t, cfg.UseMockGateway)
	assert.Equal(t, "firestore", cfg.StorageBackend)
	assert.Equal(t, 5*time.Second, cfg.GatewayTimeout)
	assert.Zero(t, cfg.ActionDelay)
	assert.Equal(t, "localhost:6379", cfg.RedisAddr)
}

func TestLoad_Errors(t *testing.T) {
	cases := map[string]map[string]string{
		"gcp without project":       {"ORACLE_MODE": "gcp", "ORACLE_GCP_PROJECT": ""},
		"firestore without project": {"ORACLE_MODE": "local", "ORACLE_GCP_PROJECT": "", "ORACLE_STORAGE_BACKEND": "firestore"},
		"unknown storage":           {"ORACLE_STORAGE_BACKEND": "postgres"},
		"bad timeout":               {"ORACLE_GATEWAY_TIMEOUT": "soon"},
		"negative delay":            {"ORACLE_ACTION_DELAY": "-1s"},
	}
	for name, env := range cases {
		t.Run(name, func(t *testing.T) {
			for k, v := range env {
				t.Setenv(k, v)
			}
			_, err := config.Load()
			assert.Error(t, err)
		})
	}
}
