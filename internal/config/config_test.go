// Public domain.

package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/astrolabs/difphot/internal/bhtom"
	"github.com/astrolabs/difphot/internal/config"
)

var vars = []string{
	"BHTOM_API_BASE_URL",
	"BHTOM_API_TOKEN",
	"BHTOM_CSRF_TOKEN",
	"BHTOM_HTTP_TIMEOUT",
}

// unsetAll unsets the variables for the duration of the test.
func unsetAll(t *testing.T) {
	for _, v := range vars {
		t.Setenv(v, "")
		os.Unsetenv(v)
	}
}

func TestLoadDefaults(t *testing.T) {
	unsetAll(t)
	t.Setenv("BHTOM_API_TOKEN", " abc ")
	cfg, err := config.Load("")
	require.NoError(t, err)
	assert.Equal(t, config.Env{
		BaseURL:     bhtom.DefaultBaseURL,
		Token:       "abc",
		HTTPTimeout: time.Minute,
	}, cfg)
	c := cfg.Client()
	assert.Equal(t, "abc", c.Token)
	assert.Equal(t, time.Minute, c.HTTP.Timeout)
}

func TestLoadRequiresToken(t *testing.T) {
	unsetAll(t)
	_, err := config.Load(filepath.Join(t.TempDir(), ".env"))
	assert.EqualError(t, err, "BHTOM_API_TOKEN is required")
}

func TestLoadTimeout(t *testing.T) {
	unsetAll(t)
	t.Setenv("BHTOM_API_TOKEN", "abc")
	t.Setenv("BHTOM_HTTP_TIMEOUT", "90s")
	cfg, err := config.Load("")
	require.NoError(t, err)
	assert.Equal(t, 90*time.Second, cfg.HTTPTimeout)

	for _, bad := range []string{"soon", "-1s"} {
		t.Setenv("BHTOM_HTTP_TIMEOUT", bad)
		_, err = config.Load("")
		assert.Error(t, err, bad)
	}
}

func TestLoadEnvFile(t *testing.T) {
	unsetAll(t)
	fn := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(fn, []byte(`# test
BHTOM_API_TOKEN=fromfile
BHTOM_CSRF_TOKEN=csrf
BHTOM_API_BASE_URL=http://localhost:8000/api/
`), 0644))
	t.Setenv("BHTOM_CSRF_TOKEN", "fromenv")
	cfg, err := config.Load(fn)
	require.NoError(t, err)
	assert.Equal(t, "fromfile", cfg.Token)
	assert.Equal(t, "fromenv", cfg.CSRF)
	assert.Equal(t, "http://localhost:8000/api/", cfg.BaseURL)
}
