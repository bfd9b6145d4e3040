package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_FromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `
env: dev
http:
  port: "9090"
ai:
  api_key: test-key
  text_backend: sdk
  timeout: 30s
database:
  driver: postgres
  dsn: host=localhost dbname=carousel
session:
  store: redis
  ttl: 30m
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, EnvDev, cfg.Env)
	assert.Equal(t, "9090", cfg.HTTP.Port)
	assert.Equal(t, "test-key", cfg.AI.APIKey)
	assert.Equal(t, "sdk", cfg.AI.TextBackend)
	assert.Equal(t, 30*time.Second, cfg.AI.Timeout)
	assert.Equal(t, "postgres", cfg.Database.Driver)
	assert.Equal(t, "redis", cfg.Session.Store)
	assert.Equal(t, 30*time.Minute, cfg.Session.TTL)

	// defaults
	assert.Equal(t, "gemini-2.0-flash-preview-image-generation", cfg.AI.ImageModel)
	assert.Equal(t, "Deepak Bagada", cfg.AI.Signature)
	assert.Equal(t, 30, cfg.Task.LogRetentionDays)
}

func TestLoad_InvalidBackend(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("ai:\n  text_backend: grpc\n"), 0o600))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}
