package configuration

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// isolateConfig runs the test from an empty directory with no config file and no aliases set.
func isolateConfig(t *testing.T) {
	t.Helper()
	t.Chdir(t.TempDir())
	t.Setenv("CONFIG_FILE_PATH", "")
	for envKey := range EnvAliases {
		if _, ok := os.LookupEnv(envKey); ok {
			t.Setenv(envKey, "")
			require.NoError(t, os.Unsetenv(envKey))
		}
	}
}

func TestLoad_Defaults(t *testing.T) {
	isolateConfig(t)

	config, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "development", config.App.Environment)
	assert.Equal(t, 3000, config.App.Port)
	assert.Equal(t, []string{"http://localhost:3000"}, config.App.AllowedOrigins)
	assert.Equal(t, "memory", config.Cache.Type)
	assert.Equal(t, "none", config.Activity.Type)
	assert.Equal(t, 600, config.Stats.RetentionSeconds)
	assert.False(t, config.Backend.Configured())
	assert.False(t, config.Moderation.Enabled())
}

func TestLoad_EnvAliases(t *testing.T) {
	isolateConfig(t)
	t.Setenv("NEXT_PUBLIC_API_BASE_URL", "https://backend.example.com/")
	t.Setenv("GOOGLE_API_KEY", "google-key")

	config, err := Load()
	require.NoError(t, err)

	assert.True(t, config.Backend.Configured())
	assert.Equal(t, "https://backend.example.com", config.Backend.BaseURL, "trailing slash is trimmed")
	assert.Equal(t, "google-key", config.Moderation.GoogleAPIKey)
	assert.True(t, config.Moderation.Enabled())
}

func TestLoad_NestedEnvAndArrays(t *testing.T) {
	isolateConfig(t)
	t.Setenv("APP__ENVIRONMENT", "production")
	t.Setenv("APP__PORT", "8443")
	t.Setenv("APP__ALLOWED_ORIGINS", "https://admin.example.com, https://staff.example.com")

	config, err := Load()
	require.NoError(t, err)

	assert.True(t, config.App.IsProduction())
	assert.Equal(t, 8443, config.App.Port)
	assert.Equal(t, []string{"https://admin.example.com", "https://staff.example.com"}, config.App.AllowedOrigins)
}

func TestLoad_YAMLFile(t *testing.T) {
	isolateConfig(t)
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := []byte(`
backend:
  base_url: http://localhost:4000
activity:
  type: filesystem
  filesystem:
    directory: /tmp/activity
`)
	require.NoError(t, os.WriteFile(path, content, 0600))
	t.Setenv("CONFIG_FILE_PATH", path)

	config, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:4000", config.Backend.BaseURL)
	require.NotNil(t, config.Activity.Filesystem)
	assert.Equal(t, "/tmp/activity", config.Activity.Filesystem.Directory)
}

func TestLoad_InvalidValues(t *testing.T) {
	t.Run("rejects an unknown cache type", func(t *testing.T) {
		isolateConfig(t)
		t.Setenv("CACHE__TYPE", "memcached")

		_, err := Load()
		require.Error(t, err)
	})

	t.Run("rejects a malformed backend url", func(t *testing.T) {
		isolateConfig(t)
		t.Setenv("NEXT_PUBLIC_API_BASE_URL", "not a url")

		_, err := Load()
		require.Error(t, err)
	})

	t.Run("requires a directory for the filesystem activity index", func(t *testing.T) {
		isolateConfig(t)
		t.Setenv("ACTIVITY__TYPE", "filesystem")

		_, err := Load()
		require.Error(t, err)
	})
}
