// internal/room/store.go
package room

import (
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/unohall/server/internal/models"
)

// Store manages the process-wide set of rooms in memory. It has its own
// lock, independent of per-room and per-engine locks.
type Store struct {
	mu    sync.Mutex
	rooms map[string]*Room

	TurnDuration time.Duration
	Log          *logrus.Logger
	GameLog      *logrus.Logger

	// OnWin is installed on every created room.
	OnWin func(name string)
}

// NewStore returns an empty in-memory room store.
func NewStore(turnDuration time.Duration, log, gameLog *logrus.Logger) *Store {
	return &Store{
		rooms:        make(map[string]*Room),
		TurnDuration: turnDuration,
		Log:          log,
		GameLog:      gameLog,
	}
}

// Create builds a room with host as its sole member. Fails if the name is
// already taken. The room deletes itself from the store once empty.
func (s *Store) Create(name string, host *models.Player) (*Room, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.rooms[name]; exists {
		return nil, false
	}
	r := NewRoom(name, host, s.TurnDuration, s.Log, s.GameLog)
	r.OnEmpty = s.Delete
	r.OnWin = s.OnWin
	s.rooms[name] = r
	return r, true
}

// Get retrieves a room by name.
func (s *Store) Get(name string) (*Room, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.rooms[name]
	return r, ok
}

// Delete removes a room from the store.
func (s *Store) Delete(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.rooms, name)
}

// List returns every room's listing summary keyed by room name.
func (s *Store) List() map[string]Summary {
	s.mu.Lock()
	rooms := make([]*Room, 0, len(s.rooms))
	for _, r := range s.rooms {
		rooms = append(rooms, r)
	}
	s.mu.Unlock()

	// Summaries take per-room locks, so build them outside the store lock.
	out := make(map[string]Summary, len(rooms))
	for _, r := range rooms {
		out[r.Name()] = r.Summary()
	}
	return out
}
