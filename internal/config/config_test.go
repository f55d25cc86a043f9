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

	assert.Equal(t, "127.0.0.1:8500", cfg.ListenAddr())
	assert.Equal(t, 20*time.Second, cfg.TurnDuration())
	assert.False(t, cfg.NetworkDebug)
	assert.False(t, cfg.GameDebug)
	assert.False(t, cfg.LobbyDebug)
	assert.Empty(t, cfg.RedisAddr)
	assert.Empty(t, cfg.DatabaseURL)
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("ADDR", "0.0.0.0")
	t.Setenv("PORT", "9000")
	t.Setenv("TURN_SECONDS", "45")
	t.Setenv("GAME_DEBUG", "true")
	t.Setenv("REDIS_ADDR", "localhost:6379")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0:9000", cfg.ListenAddr())
	assert.Equal(t, 45*time.Second, cfg.TurnDuration())
	assert.True(t, cfg.GameDebug)
	assert.False(t, cfg.NetworkDebug)
	assert.Equal(t, "localhost:6379", cfg.RedisAddr)
}

func TestLoadRejectsGarbage(t *testing.T) {
	t.Setenv("PORT", "not-a-port")
	_, err := Load()
	assert.Error(t, err)
}
