package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yml"))
	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.Addr)
	assert.Equal(t, 12, cfg.PageSize)
	assert.Equal(t, 5*time.Second, cfg.FetchTimeout)
	assert.Equal(t, "templates", cfg.TemplatesDir)
	require.NoError(t, cfg.Validate())
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "marketchoice.yml")
	data := `
addr: ":9000"
database_url: "https://demo.firebaseio.com"
page_size: 6
fetch_timeout: 2s
dev: true
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, ":9000", cfg.Addr)
	assert.Equal(t, "https://demo.firebaseio.com", cfg.DatabaseURL)
	assert.Equal(t, 6, cfg.PageSize)
	assert.Equal(t, 2*time.Second, cfg.FetchTimeout)
	assert.True(t, cfg.Dev)
	// Untouched keys keep their defaults.
	assert.Equal(t, "content", cfg.ContentDir)
}

func TestLoadEnvOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "marketchoice.yml")
	require.NoError(t, os.WriteFile(path, []byte(`database_url: "https://file.firebaseio.com"`), 0o600))

	t.Setenv("MARKETCHOICE_DATABASE_URL", "https://env.firebaseio.com")
	t.Setenv("MARKETCHOICE_PAGE_SIZE", "24")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "https://env.firebaseio.com", cfg.DatabaseURL)
	assert.Equal(t, 24, cfg.PageSize)
}

func TestLoadPortOverride(t *testing.T) {
	t.Setenv("PORT", "7777")
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yml"))
	require.NoError(t, err)
	assert.Equal(t, ":7777", cfg.Addr)
}

func TestValidate(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())

	cfg = DefaultConfig()
	cfg.Addr = ""
	assert.Error(t, cfg.Validate())

	cfg = DefaultConfig()
	cfg.PageSize = 0
	assert.Error(t, cfg.Validate())

	cfg = DefaultConfig()
	cfg.LoadRetries = -1
	assert.Error(t, cfg.Validate())
}
