package config

import (
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(viper.New(), "nonexistent.yaml")
	require.NoError(t, err)
	assert.Equal(t, 25, cfg.MaxServers)
	assert.Equal(t, "127.0.0.1", cfg.Host)
	assert.Equal(t, 5000, cfg.Port)
	assert.Equal(t, 100, cfg.HistoryLimit)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestLoadEnvOverridesDefault(t *testing.T) {
	t.Setenv("HTTPMOCK_MAX_SERVERS", "7")
	cfg, err := Load(viper.New(), "nonexistent.yaml")
	require.NoError(t, err)
	assert.Equal(t, 7, cfg.MaxServers)
}
