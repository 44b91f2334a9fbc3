package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	t.Setenv("ANALYSIS_ENDPOINT", "")
	t.Setenv("PORT", "")

	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 60*time.Second, cfg.Analysis.Timeout)
	assert.Empty(t, cfg.Analysis.Endpoint)
	assert.False(t, cfg.Minio.Enabled)
}

func TestLoadYAMLThenEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	yml := `
server:
  port: 9000
  corsOrigins: ["http://localhost:3000"]
analysis:
  endpoint: http://yaml-host:8000
  timeout: 10s
  mockLatency: 1500ms
minio:
  enabled: true
  endpoint: localhost:9000
  bucketName: uploads
`
	require.NoError(t, os.WriteFile(path, []byte(yml), 0o600))
	t.Setenv("ANALYSIS_ENDPOINT", "http://env-host:8000")
	t.Setenv("PORT", "")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 9000, cfg.Server.Port)
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.Server.CORSOrigins)
	assert.Equal(t, "http://env-host:8000", cfg.Analysis.Endpoint)
	assert.Equal(t, 10*time.Second, cfg.Analysis.Timeout)
	assert.Equal(t, 1500*time.Millisecond, cfg.Analysis.MockLatency)
	assert.True(t, cfg.Minio.Enabled)
	assert.Equal(t, "uploads", cfg.Minio.BucketName)
	assert.Equal(t, 30, cfg.RateLimit.Capacity)
}

func TestLoadRejectsBadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server: [unclosed"), 0o600))
	_, err := Load(path)
	assert.Error(t, err)
}

func TestApplyEnv(t *testing.T) {
	env := map[string]string{
		"OPENAI_API_KEY":     "sk-test",
		"ASSISTANT_BASE_URL": "http://llm.local/v1",
		"ASSISTANT_MODEL":    "gpt-4o-mini",
		"LOG_MODE":           "production",
		"PORT":               "7070",
		"CORS_ORIGINS":       "http://a,http://b",
	}
	cfg := Default()
	cfg.applyEnv(func(k string) string { return env[k] })

	assert.Equal(t, "sk-test", cfg.Assistant.APIKey)
	assert.Equal(t, "http://llm.local/v1", cfg.Assistant.BaseURL)
	assert.Equal(t, "gpt-4o-mini", cfg.Assistant.Model)
	assert.Equal(t, "production", cfg.Log.Mode)
	assert.Equal(t, 7070, cfg.Server.Port)
	assert.Equal(t, []string{"http://a", "http://b"}, cfg.Server.CORSOrigins)
}

func TestApplyEnvIgnoresBadPort(t *testing.T) {
	cfg := Default()
	cfg.applyEnv(func(k string) string {
		if k == "PORT" {
			return "eighty"
		}
		return ""
	})
	assert.Equal(t, 8080, cfg.Server.Port)
}
