package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "wardkeep.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestLoad_OverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
secret: app-secret
fingerprint: test-env
idle_timeout: 15m
rate_limit:
  max_requests: 10
  window: 30s
audit:
  capacity: 50
  webhook_url: https://alerts.example.com/hook
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "app-secret", cfg.Secret)
	assert.Equal(t, 15*time.Minute, cfg.IdleTimeout.Std())
	assert.Equal(t, 24*time.Hour, cfg.SessionTimeout.Std(), "default retained")
	assert.Equal(t, 10, cfg.RateLimit.MaxRequests)
	assert.Equal(t, 30*time.Second, cfg.RateLimit.Window.Std())
	assert.Equal(t, 50, cfg.Audit.Capacity)
	assert.Equal(t, "https://alerts.example.com/hook", cfg.Audit.WebhookURL)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestLoad_MalformedYAML(t *testing.T) {
	path := writeConfig(t, "secret: [unclosed")
	_, err := Load(path)
	assert.Error(t, err)
}

func TestVerify(t *testing.T) {
	valid := Default()
	valid.Secret = "s"
	valid.Fingerprint = "fp"
	require.NoError(t, valid.Verify())

	t.Run("missing secret", func(t *testing.T) {
		cfg := valid
		cfg.Secret = ""
		assert.Error(t, cfg.Verify())
	})

	t.Run("missing fingerprint", func(t *testing.T) {
		cfg := valid
		cfg.Fingerprint = ""
		assert.Error(t, cfg.Verify())
	})

	t.Run("idle timeout exceeding session timeout", func(t *testing.T) {
		cfg := valid
		cfg.IdleTimeout = cfg.SessionTimeout + Duration(time.Hour)
		assert.Error(t, cfg.Verify())
	})

	t.Run("non-positive rate limit", func(t *testing.T) {
		cfg := valid
		cfg.RateLimit.MaxRequests = 0
		assert.Error(t, cfg.Verify())
	})

	t.Run("non-positive audit capacity", func(t *testing.T) {
		cfg := valid
		cfg.Audit.Capacity = -1
		assert.Error(t, cfg.Verify())
	})
}
