package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/jrsteele09/docdash/internal/config"
	"github.com/stretchr/testify/require"
)

func TestLoad_FromEnvironment(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("ENV", "PROD")
	t.Setenv("SESSION_SECRET", "a-very-long-production-secret")
	t.Setenv("IDENTITY_ROOT", "https://id.example.com/")
	t.Setenv("SESSION_MAX_AGE", "2h")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example.com,https://b.example.com")

	cfg, err := config.Load("")
	require.NoError(t, err)
	require.Equal(t, ":9090", cfg.GetPort())
	require.False(t, cfg.IsDev())
	require.Equal(t, "https://id.example.com", cfg.GetIdentityRoot())
	require.Equal(t, 2*time.Hour, cfg.GetSessionMaxAge())
	require.True(t, cfg.GetAllowedOrigins().IsAllowedOrigin("https://b.example.com"))
	require.Equal(t, "/login", cfg.GetRouteTable().Login)
}

func TestLoad_SecretRequiredOutsideDev(t *testing.T) {
	t.Setenv("ENV", "PROD")
	t.Setenv("SESSION_SECRET", "")

	_, err := config.Load("")
	require.Error(t, err)
	require.Contains(t, err.Error(), "SESSION_SECRET")
}

func TestLoad_UnknownRevocationBackend(t *testing.T) {
	t.Setenv("SESSION_REVOCATION", "etcd")

	_, err := config.Load("")
	require.Error(t, err)
	require.Contains(t, err.Error(), "SESSION_REVOCATION")
}

func TestLoadRouteTable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "routes.yaml")
	require.NoError(t, os.WriteFile(path, []byte("protected:\n  - /dashboard\n  - /reports\nlanding: /reports\n"), 0o600))

	table, err := config.LoadRouteTable(path)
	require.NoError(t, err)
	require.Equal(t, []string{"/dashboard", "/reports"}, table.Protected)
	require.Equal(t, "/reports", table.Landing)
	require.Equal(t, "/login", table.Login, "omitted keys keep defaults")
	require.Equal(t, config.DefaultRouteTable().Public, table.Public)
}

func TestDefault(t *testing.T) {
	cfg := config.Default()
	require.Equal(t, ":8080", cfg.GetPort())
	require.True(t, cfg.IsDev())
	require.Equal(t, 7*24*time.Hour, cfg.GetRefreshCookieDefaultTTL())
	require.Equal(t, 15*time.Minute, cfg.GetAuthReadyTTL())
	require.Equal(t, 24*time.Hour, cfg.GetMirrorAccessTTL())
	require.Equal(t, 30*24*time.Hour, cfg.GetMirrorRefreshTTL())
	require.Equal(t, "session-token", cfg.GetSessionCookieName())
}
