package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoad(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("GCP_BUCKET_NAME", "test-bucket")
	t.Setenv("GCP_SA_CREDENTIALS", `{"type":"service_account"}`)
	t.Setenv("STORAGE_PATH", "/var/spool/uploads")

	cfg := Load()

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, "test-bucket", cfg.Storage.Bucket)
	assert.Equal(t, `{"type":"service_account"}`, cfg.Storage.CredentialsJSON)
	assert.Equal(t, "/var/spool/uploads", cfg.Storage.SpoolDir)
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("GCP_BUCKET_NAME", "")
	t.Setenv("GCP_SA_CREDENTIALS", "")
	t.Setenv("STORAGE_PATH", "")

	cfg := Load()

	assert.Equal(t, "8080", cfg.Port)
	assert.Empty(t, cfg.Storage.Bucket)
	assert.Empty(t, cfg.Storage.CredentialsJSON)
	assert.Equal(t, "/tmp/", cfg.Storage.SpoolDir)
}

func TestGetEnv(t *testing.T) {
	t.Setenv("TEST_ENV_VAR", "value")

	assert.Equal(t, "value", getEnv("TEST_ENV_VAR", "default"))
	assert.Equal(t, "default", getEnv("NON_EXISTENT_VAR", "default"))
}
