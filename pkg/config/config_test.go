package config_test

import (
	"os"
	"testing"

	"github.com/agorski/portalchess/pkg/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_DefaultsPortTo3000(t *testing.T) {
	t.Setenv("PORT", "placeholder")
	require.NoError(t, os.Unsetenv("PORT"))

	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, 3000, cfg.Port)
}

func TestLoad_ReadsPortFromEnvironment(t *testing.T) {
	t.Setenv("PORT", "8080")

	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, 8080, cfg.Port)
}

func TestLoad_RejectsNonNumericPort(t *testing.T) {
	t.Setenv("PORT", "not-a-number")

	_, err := config.Load()
	assert.Error(t, err)
}
