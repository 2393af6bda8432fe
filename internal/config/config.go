package config

import (
	"fmt"
	"os"
	"strings"
	"time"
)

type Mode string

const (
	ModeLocal Mode = "local"
	ModeGCP   Mode = "gcp"
)

type Config struct {
	Mode Mode

	Port     string
	LogLevel string

	GCPProjectID string
	GCPLocation  string
	ModelName    string

	StorageBackend string // "memory" or "firestore"
	UseMockGateway bool   // true = use mock even on GCP

	BackendURL     string        // oracle backend for forecasts and synastry; empty = mock
	GatewayTimeout time.Duration // per gateway call
	RedisAddr      string        // empty disables the forecast cache

	PersonasFile string        // empty = embedded catalog
	ActionDelay  time.Duration // welcome -> primary action
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getBoolEnv(key string, def bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	if v == "1" || v == "true" || v == "TRUE" {
		return true
	}
	return false
}

func getDurationEnv(key string, def time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, v, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("invalid %s %q: must not be negative", key, v)
	}
	return d, nil
}

// Load reads all env vars and builds the config
func Load() (*Config, error) {
	var mode Mode
	switch getEnv("ORACLE_MODE", "local") {
	case "gcp":
		mode = ModeGCP
	default:
		mode = ModeLocal
	}

	cfg := &Config{
		Mode: mode,

		Port:     getEnv("ORACLE_PORT", "8080"),
		LogLevel: getEnv("ORACLE_LOG_LEVEL", "info"),

		GCPProjectID: getEnv("ORACLE_GCP_PROJECT", ""),
		GCPLocation:  getEnv("ORACLE_GCP_LOCATION", "us-central1"),
		ModelName:    getEnv("ORACLE_MODEL_NAME", "gemini-2.5-flash-lite"),

		StorageBackend: strings.ToLower(getEnv("ORACLE_STORAGE_BACKEND", "memory")),
		UseMockGateway: getBoolEnv("ORACLE_USE_MOCK_GATEWAY", mode == ModeLocal),

		BackendURL: getEnv("ORACLE_BACKEND_URL", ""),
		RedisAddr:  getEnv("ORACLE_REDIS_ADDR", ""),

		PersonasFile: getEnv("ORACLE_PERSONAS_FILE", ""),
	}

	var err error
	if cfg.GatewayTimeout, err = getDurationEnv("ORACLE_GATEWAY_TIMEOUT", 30*time.Second); err != nil {
		return nil, err
	}
	if cfg.ActionDelay, err = getDurationEnv("ORACLE_ACTION_DELAY", 800*time.Millisecond); err != nil {
		return nil, err
	}

	switch cfg.StorageBackend {
	case "memory", "firestore":
	default:
		return nil, fmt.Errorf("unknown ORACLE_STORAGE_BACKEND %q", cfg.StorageBackend)
	}

	// Minimal validation in GCP mode
	if cfg.Mode == ModeGCP && cfg.GCPProjectID == "" {
		return nil, fmt.Errorf("ORACLE_GCP_PROJECT must be set in gcp mode")
	}
	if cfg.StorageBackend == "firestore" && cfg.GCPProjectID == "" {
		return nil, fmt.Errorf("ORACLE_GCP_PROJECT is required for the firestore storage backend")
	}

	return cfg, nil
}
