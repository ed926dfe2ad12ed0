package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileIsEmpty(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "config.json"))
	require.NoError(t, err)
	assert.Equal(t, &Config{}, cfg)
}

func TestLoadMalformedFileErrors(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.json")
	in := &Config{
		APIEndpoint: "http://tasks.example.com",
		Theme:       "light",
		PageSize:    25,
		Logging:     &LoggingConfig{Level: "debug"},
	}
	require.NoError(t, in.Save(path))

	out, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, in, out)
}

func TestDefaults(t *testing.T) {
	cfg := &Config{}

	assert.Equal(t, "http://localhost:3001", cfg.GetAPIEndpoint())
	assert.Equal(t, "dark", cfg.GetTheme())
	assert.Equal(t, 10, cfg.GetPageSize())

	lc := cfg.GetLogging()
	assert.Equal(t, "info", lc.Level)
	assert.NotEmpty(t, lc.File)
}

func TestEndpointEnvOverride(t *testing.T) {
	t.Setenv(EnvAPIEndpoint, "http://override.example.com")

	cfg := &Config{APIEndpoint: "http://configured.example.com"}
	assert.Equal(t, "http://override.example.com", cfg.GetAPIEndpoint())
}
