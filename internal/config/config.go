// internal/config/config.go
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds every runtime setting, parsed from the environment. The
// three debug toggles gate diagnostic output only; they never change game
// semantics.
type Config struct {
	Addr        string `env:"ADDR" envDefault:"127.0.0.1"`
	Port        int    `env:"PORT" envDefault:"8500"`
	TurnSeconds int    `env:"TURN_SECONDS" envDefault:"20"`

	NetworkDebug bool `env:"NETWORK_DEBUG" envDefault:"false"`
	GameDebug    bool `env:"GAME_DEBUG" envDefault:"false"`
	LobbyDebug   bool `env:"LOBBY_DEBUG" envDefault:"false"`

	// RedisAddr switches the display-name registry to Redis when set.
	RedisAddr string `env:"REDIS_ADDR"`
	RedisDB   int    `env:"REDIS_DB" envDefault:"0"`

	// DatabaseURL enables win-count persistence when set.
	DatabaseURL string `env:"DATABASE_URL"`
}

// Load parses the configuration from the environment.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}
	return cfg, nil
}

// ListenAddr returns the host:port pair to bind.
func (c Config) ListenAddr() string {
	return fmt.Sprintf("%s:%d", c.Addr, c.Port)
}

// TurnDuration returns the per-turn deadline.
func (c Config) TurnDuration() time.Duration {
	return time.Duration(c.TurnSeconds) * time.Second
}
