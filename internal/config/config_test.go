package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/yutingli1123/plumasphere-go/internal/config"
)

func TestDefaults(t *testing.T) {
	t.Setenv("PLUMA_DATA_DIR", t.TempDir())

	cfg, err := config.New()
	require.NoError(t, err)
	require.Equal(t, "PlumaSphere", cfg.AppName)
	require.Equal(t, "http://localhost:8080", cfg.APIBaseURL)
	require.Equal(t, "ws://localhost:8080", cfg.WSBaseURL)
	require.Equal(t, 30*time.Second, cfg.HTTPTimeout)
	require.Equal(t, 1, cfg.LogLevel)
}

func TestEnvironmentOverrides(t *testing.T) {
	t.Setenv("PLUMA_API_BASE_URL", "https://blog.example.com")
	t.Setenv("PLUMA_WS_BASE_URL", "wss://blog.example.com")
	t.Setenv("PLUMA_HTTP_TIMEOUT", "5s")
	t.Setenv("PLUMA_LOG_LEVEL", "0")
	t.Setenv("PLUMA_DATA_DIR", "/tmp/pluma-test")

	cfg, err := config.New()
	require.NoError(t, err)
	require.Equal(t, "https://blog.example.com", cfg.APIBaseURL)
	require.Equal(t, "wss://blog.example.com", cfg.WSBaseURL)
	require.Equal(t, 5*time.Second, cfg.HTTPTimeout)
	require.Equal(t, 0, cfg.LogLevel)
	require.Equal(t, "/tmp/pluma-test", cfg.DataDir)
}
