// internal/config/config_test.go
package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.Addr)
	assert.Equal(t, 1000, cfg.StartingMoney)
	assert.Equal(t, 10, cfg.SmallBlind)
	assert.Equal(t, 30*time.Second, cfg.ActionTimeout)
	assert.Equal(t, 72*time.Hour, cfg.TokenExpire)
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("ADDR", ":9999")
	t.Setenv("SMALL_BLIND", "25")
	t.Setenv("ACTION_TIMEOUT", "5s")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, ":9999", cfg.Addr)
	assert.Equal(t, 25, cfg.SmallBlind)
	assert.Equal(t, 5*time.Second, cfg.ActionTimeout)
}
