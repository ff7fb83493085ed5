package app

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig()
	require.NoError(t, err)

	require.Equal(t, "dev", cfg.Env)
	require.Equal(t, ":8080", cfg.Addr)
	require.Equal(t, "sqlite", cfg.StoreDriver)
	require.Equal(t, 1000, cfg.AuditLogCap)
	require.Equal(t, 24*time.Hour, cfg.TokenTTL)
	require.NotEmpty(t, cfg.JWTSecret) // dev fallback
}

func TestLoadConfigSecretRequiredOutsideDev(t *testing.T) {
	t.Setenv("ENV", "prod")

	_, err := LoadConfig()
	require.Error(t, err)

	t.Setenv("JWT_SECRET", "0123456789abcdef0123456789abcdef")
	cfg, err := LoadConfig()
	require.NoError(t, err)
	require.Equal(t, "prod", cfg.Env)
}

func TestLoadConfigRejectsUnknownDriver(t *testing.T) {
	t.Setenv("STORE_DRIVER", "postgres")

	_, err := LoadConfig()
	require.Error(t, err)
}

func TestLoadConfigOverrides(t *testing.T) {
	t.Setenv("ADDR", ":9999")
	t.Setenv("TOKEN_TTL", "1h")
	t.Setenv("AUDIT_LOG_CAP", "250")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	require.Equal(t, ":9999", cfg.Addr)
	require.Equal(t, time.Hour, cfg.TokenTTL)
	require.Equal(t, 250, cfg.AuditLogCap)
}
