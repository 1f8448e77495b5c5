package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	t.Setenv("JWT_KEY", "secret")
	t.Setenv("ALLOWED_ORIGINS", "http://localhost:3000,https://example.com")
	t.Setenv("PORT", "8080")
	t.Setenv("GRID_MAX", "25")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "secret", cfg.JWTKey)
	assert.Equal(t, []string{"http://localhost:3000", "https://example.com"}, cfg.AllowedOrigins)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, 25, cfg.GridMax)
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("JWT_KEY", "secret")
	t.Setenv("ALLOWED_ORIGINS", "http://localhost:3000")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, DEFAULT_PORT, cfg.Port)
	assert.Equal(t, DEFAULT_GRID_MAX, cfg.GridMax)
	assert.False(t, cfg.Debug)
}

func TestLoad_MissingRequired(t *testing.T) {
	t.Setenv("JWT_KEY", "")
	t.Setenv("ALLOWED_ORIGINS", "http://localhost:3000")
	_, err := Load()
	assert.Error(t, err)

	t.Setenv("JWT_KEY", "secret")
	t.Setenv("ALLOWED_ORIGINS", "")
	_, err = Load()
	assert.Error(t, err)
}

func TestLoad_BadGridMax(t *testing.T) {
	t.Setenv("JWT_KEY", "secret")
	t.Setenv("ALLOWED_ORIGINS", "http://localhost:3000")

	for _, raw := range []string{"zero", "-3", "0"} {
		t.Setenv("GRID_MAX", raw)
		_, err := Load()
		assert.Error(t, err, "GRID_MAX=%s", raw)
	}
}
