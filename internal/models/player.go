// internal/models/player.go
package models

import (
	"log"
	"sync"

	"github.com/google/uuid"
	"github.com/unohall/server/internal/card"
)

// Player is one connected user. Name is empty until a display name has been
// claimed. Hand and the per-turn flags belong to the live game engine and
// are guarded by its lock; the room field is guarded by the player's own
// mutex since it is read from the connection goroutine.
type Player struct {
	ID   uuid.UUID
	Name string

	// Per-game transient state, owned by the engine while a game is live.
	Hand         []card.Card
	TurnOver     bool
	HasDrawnCard bool

	// Out carries every message destined for this player's connection.
	Out chan Message

	mu   sync.Mutex
	room string
}

// NewPlayer builds a player with a buffered outbound queue.
func NewPlayer(name string) *Player {
	return &Player{
		ID:   uuid.New(),
		Name: name,
		Out:  make(chan Message, 32),
	}
}

// Send pushes a message onto the player's outbound queue without blocking.
// Messages to a closed or saturated queue are dropped and logged.
func (p *Player) Send(data interface{}, route string) {
	select {
	case p.Out <- Message{Route: route, Data: data}:
	default:
		log.Printf("player %s: outbound queue full, dropped message on route %q", p.Name, route)
	}
}

// SetRoom records the room the player currently occupies ("" for none).
func (p *Player) SetRoom(name string) {
	p.mu.Lock()
	p.room = name
	p.mu.Unlock()
}

// RoomName returns the name of the room the player occupies, or "".
func (p *Player) RoomName() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.room
}
