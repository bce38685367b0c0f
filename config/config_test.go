package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetWebConfigDefaults(t *testing.T) {
	for _, key := range []string{"CAMDASH_PORT", "CAMDASH_SESSION_MAX_AGE", "CAMDASH_LISTEN", "CAMDASH_SECRET", "CAMDASH_DEVICE_URL"} {
		t.Setenv(key, "")
	}

	cfg, err := GetWebConfig()
	require.NoError(t, err)
	assert.Equal(t, defaultPort, cfg.Port)
	assert.Equal(t, defaultSessionMaxAge, cfg.SessionMaxAge)
	assert.Empty(t, cfg.Listen)
	assert.Empty(t, cfg.Secret)
}

func TestGetWebConfigFromEnv(t *testing.T) {
	t.Setenv("CAMDASH_PORT", "9090")
	t.Setenv("CAMDASH_SESSION_MAX_AGE", "15")
	t.Setenv("CAMDASH_SECRET", "s3cr3t")
	t.Setenv("CAMDASH_DEVICE_URL", "http://camera.local/command")

	cfg, err := GetWebConfig()
	require.NoError(t, err)
	assert.Equal(t, 9090, cfg.Port)
	assert.Equal(t, 15, cfg.SessionMaxAge)
	assert.Equal(t, "s3cr3t", cfg.Secret)
	assert.Equal(t, "http://camera.local/command", cfg.DeviceURL)
}

func TestGetWebConfigInvalid(t *testing.T) {
	tests := map[string][2]string{
		"port not a number": {"CAMDASH_PORT", "http"},
		"port out of range": {"CAMDASH_PORT", "70000"},
		"zero max age":      {"CAMDASH_SESSION_MAX_AGE", "0"},
	}
	for name, kv := range tests {
		t.Run(name, func(t *testing.T) {
			t.Setenv(kv[0], kv[1])
			_, err := GetWebConfig()
			assert.Error(t, err)
		})
	}
}

func TestLoadEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.env")
	require.NoError(t, os.WriteFile(path, []byte("CAMDASH_TEST_FROM_FILE=yes\nCAMDASH_TEST_PRESET=file\n"), 0o600))
	t.Setenv("CAMDASH_TEST_PRESET", "env")
	t.Cleanup(func() { _ = os.Unsetenv("CAMDASH_TEST_FROM_FILE") })

	require.NoError(t, LoadEnv(path))
	assert.Equal(t, "yes", os.Getenv("CAMDASH_TEST_FROM_FILE"))
	assert.Equal(t, "env", os.Getenv("CAMDASH_TEST_PRESET"))

	assert.NoError(t, LoadEnv(filepath.Join(t.TempDir(), "missing.env")))
}

func TestDatabaseConfig(t *testing.T) {
	t.Setenv("CAMDASH_DB_FOLDER", "/tmp/camdash-test")
	cfg := GetDefaultDatabaseConfig()
	assert.Equal(t, "/tmp/camdash-test/camdash.db", cfg.Path)
	assert.NoError(t, cfg.ValidateConfig())
	assert.Contains(t, cfg.GetDSN(), "_journal_mode=WAL")

	assert.Error(t, (&DatabaseConfig{}).ValidateConfig())
}

func TestNameAndVersion(t *testing.T) {
	assert.Equal(t, "camdash", GetName())
	assert.NotEmpty(t, GetVersion())
}
