// cmd/server/main.go
package main

import (
	"context"
	"log"
	"net/http"

	_ "github.com/joho/godotenv/autoload"
	"github.com/sirupsen/logrus"

	"github.com/unohall/server/internal/config"
	"github.com/unohall/server/internal/database"
	"github.com/unohall/server/internal/handlers"
	"github.com/unohall/server/internal/middleware"
	"github.com/unohall/server/internal/registry"
	"github.com/unohall/server/internal/room"
)

// newLogger builds a logger whose debug output is gated by a toggle.
// Toggles only affect verbosity, never behavior.
func newLogger(debug bool) *logrus.Logger {
	logger := logrus.New()
	if debug {
		logger.SetLevel(logrus.DebugLevel)
	} else {
		logger.SetLevel(logrus.InfoLevel)
	}
	return logger
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	netLog := newLogger(cfg.NetworkDebug)
	gameLog := newLogger(cfg.GameDebug)
	lobbyLog := newLogger(cfg.LobbyDebug)

	if cfg.DatabaseURL != "" {
		if err := database.Connect(context.Background(), cfg.DatabaseURL); err != nil {
			log.Fatalf("database: %v", err)
		}
		netLog.Info("win-count persistence enabled")
	}

	var names registry.Registry
	if cfg.RedisAddr != "" {
		redisNames, err := registry.NewRedisRegistry(cfg.RedisAddr, cfg.RedisDB)
		if err != nil {
			log.Fatalf("redis: %v", err)
		}
		names = redisNames
		netLog.Infof("display names backed by Redis at %s", cfg.RedisAddr)
	} else {
		names = registry.NewMemoryRegistry()
	}

	rooms := room.NewStore(cfg.TurnDuration(), lobbyLog, gameLog)
	rooms.OnWin = func(name string) {
		if err := database.RecordWin(context.Background(), name); err != nil {
			gameLog.Warnf("failed to record win for '%s': %v", name, err)
		}
	}

	srv := handlers.NewServer(rooms, names, netLog)

	mux := http.NewServeMux()
	mux.Handle("/ws", middleware.LogMiddleware(netLog)(http.HandlerFunc(
		handlers.WSHandler(netLog, srv),
	)))

	addr := cfg.ListenAddr()
	netLog.Infof("Running on %s", addr)
	if err := http.ListenAndServe(addr, mux); err != nil {
		log.Fatalf("server exited: %v", err)
	}
}
