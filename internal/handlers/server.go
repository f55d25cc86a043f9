// internal/handlers/server.go
package handlers

import (
	"github.com/sirupsen/logrus"
	"github.com/unohall/server/internal/game"
	"github.com/unohall/server/internal/models"
	"github.com/unohall/server/internal/registry"
	"github.com/unohall/server/internal/room"
)

// Server bundles the shared state every connection dispatches against: the
// room store and the display-name registry, each with its own
// synchronization independent of per-engine locks.
type Server struct {
	Rooms *room.Store
	Names registry.Registry
	Log   *logrus.Logger
}

// NewServer wires a dispatch server over the given stores.
func NewServer(rooms *room.Store, names registry.Registry, log *logrus.Logger) *Server {
	return &Server{
		Rooms: rooms,
		Names: names,
		Log:   log,
	}
}

// currentRoom resolves the room the player occupies, nil if none.
func (s *Server) currentRoom(p *models.Player) *room.Room {
	name := p.RoomName()
	if name == "" {
		return nil
	}
	r, ok := s.Rooms.Get(name)
	if !ok {
		return nil
	}
	return r
}

// currentGame resolves the live uno engine for the player's room, nil if
// the player is not in a room or no game is running.
func (s *Server) currentGame(p *models.Player) *game.UnoGame {
	r := s.currentRoom(p)
	if r == nil {
		return nil
	}
	return r.UnoGame()
}
