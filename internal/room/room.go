// internal/room/room.go
package room

import (
	"math/rand"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/unohall/server/internal/game"
	"github.com/unohall/server/internal/models"
)

// Game is the capability set a room requires of a live game instance. New
// game types can be added without touching room logic.
type Game interface {
	Stop()
	PlayerLeft(p *models.Player)
}

// Room is a named, joinable group of players with exactly one host and an
// idle/playing state. While playing it owns exactly one live game engine.
type Room struct {
	mu sync.Mutex

	name    string
	players []*models.Player // insertion order is seating order
	host    *models.Player
	playing bool
	game    Game

	turnDuration time.Duration
	log          *logrus.Logger
	gameLog      *logrus.Logger

	// OnEmpty is called after the last player leaves; the store uses it to
	// tear the room down.
	OnEmpty func(name string)

	// OnWin is called with the winner's name when a game ends with a win.
	OnWin func(name string)
}

// NewRoom creates an idle room with host as its sole member.
func NewRoom(name string, host *models.Player, turnDuration time.Duration, log, gameLog *logrus.Logger) *Room {
	host.SetRoom(name)
	r := &Room{
		name:         name,
		players:      []*models.Player{host},
		host:         host,
		turnDuration: turnDuration,
		log:          log,
		gameLog:      gameLog,
	}
	log.Debugf("lobby '%s' created by '%s'", name, host.Name)
	return r
}

// Name returns the room's unique name.
func (r *Room) Name() string { return r.name }

// Summary is the serialized room listing entry.
type Summary struct {
	Host        string `json:"host"`
	PlayerCount int    `json:"playerCount"`
	Playing     bool   `json:"playing"`
}

// Summary returns the room's listing entry.
func (r *Room) Summary() Summary {
	r.mu.Lock()
	defer r.mu.Unlock()
	return Summary{
		Host:        r.host.Name,
		PlayerCount: len(r.players),
		Playing:     r.playing,
	}
}

func (r *Room) indexOfLocked(p *models.Player) int {
	for i, pl := range r.players {
		if pl == p {
			return i
		}
	}
	return -1
}

func (r *Room) playerNamesLocked() []string {
	names := make([]string, 0, len(r.players))
	for _, p := range r.players {
		names = append(names, p.Name)
	}
	return names
}

// Join adds p to the roster. Allowed only while idle and only if p is not
// already present. Existing members learn the new name; the joiner receives
// the current roster and host.
func (r *Room) Join(p *models.Player) {
	r.mu.Lock()

	ok := false
	if !r.playing && r.indexOfLocked(p) < 0 {
		p.SetRoom(r.name)
		models.Broadcast(p.Name, "lobby_user_join", r.players)
		r.players = append(r.players, p)
		p.Send(r.playerNamesLocked(), "lobby_players")
		p.Send(r.host.Name, "lobby_host")
		ok = true
		r.log.Debugf("player '%s' joined lobby '%s'", p.Name, r.name)
	}

	r.mu.Unlock()
	p.Send(ok, "lobby_join")
}

// Leave removes p from the roster. If a game is live the engine's
// player-left hook runs before the roster mutation. A roster shrinking to
// one force-stops the game; an empty roster tears the room down; a
// departing host is replaced by a random remaining member.
func (r *Room) Leave(p *models.Player) {
	r.mu.Lock()

	ok := false
	idx := r.indexOfLocked(p)
	if idx >= 0 {
		if r.playing && r.game != nil {
			r.game.PlayerLeft(p)
		}

		p.SetRoom("")
		r.players = append(r.players[:idx], r.players[idx+1:]...)
		models.Broadcast(idx, "lobby_user_leave", r.players)
		ok = true
		r.log.Debugf("player '%s' left lobby '%s'", p.Name, r.name)

		if r.playing && len(r.players) <= 1 {
			r.log.Debugf("too few players in '%s', stopping game", r.name)
			r.stopLocked()
		}

		if len(r.players) == 0 {
			r.stopLocked()
			onEmpty := r.OnEmpty
			r.mu.Unlock()
			r.log.Debugf("lobby '%s' is empty, deleting", r.name)
			if onEmpty != nil {
				onEmpty(r.name)
			}
			p.Send(true, "lobby_leave")
			return
		}

		if p == r.host {
			r.host = r.players[rand.Intn(len(r.players))]
			models.Broadcast(r.host.Name, "lobby_host", r.players)
			r.log.Debugf("lobby '%s' has new host '%s'", r.name, r.host.Name)
		}
	}

	r.mu.Unlock()
	p.Send(ok, "lobby_leave")
}

// Kick removes the roster member named target, host only.
func (r *Room) Kick(target string, issuer *models.Player) {
	r.mu.Lock()
	var victim *models.Player
	if issuer == r.host {
		for _, p := range r.players {
			if p.Name == target {
				victim = p
				break
			}
		}
	}
	r.mu.Unlock()

	ok := false
	if victim != nil {
		r.Leave(victim)
		ok = true
	}
	issuer.Send(ok, "lobby_kick")
}

// Start transitions the room to playing and constructs a game engine.
// Host only, idle only, at least two players.
func (r *Room) Start(p *models.Player) {
	r.mu.Lock()

	ok := false
	if p == r.host && !r.playing && len(r.players) >= 2 {
		r.playing = true
		models.Broadcast(true, "lobby_playing", r.players)

		seating := make([]*models.Player, len(r.players))
		copy(seating, r.players)
		g := game.NewUnoGame(seating, r.turnDuration, r.gameLog)
		g.OnGameEnd = func(winner *models.Player) {
			if r.OnWin != nil {
				r.OnWin(winner.Name)
			}
			r.ForceStop()
		}
		r.game = g
		g.Begin()
		ok = true
		r.log.Debugf("game started in lobby '%s'", r.name)
	}

	r.mu.Unlock()
	p.Send(ok, "lobby_start")
}

// Stop stops the running game on behalf of a player. Host only, playing
// only. Internal/forced stops go through ForceStop instead.
func (r *Room) Stop(p *models.Player) {
	r.mu.Lock()

	ok := false
	if p == r.host && r.playing {
		r.stopLocked()
		ok = true
	}

	r.mu.Unlock()
	p.Send(ok, "lobby_stop")
}

// ForceStop unconditionally stops any running game. Used on win detection
// and room evacuation.
func (r *Room) ForceStop() {
	r.mu.Lock()
	r.stopLocked()
	r.mu.Unlock()
}

func (r *Room) stopLocked() {
	if !r.playing {
		return
	}
	r.playing = false
	r.game.Stop()
	r.game = nil
	models.Broadcast(false, "lobby_playing", r.players)
	r.log.Debugf("lobby '%s' stopped", r.name)
}

// UnoGame returns the live engine if the room is playing one, else nil.
func (r *Room) UnoGame() *game.UnoGame {
	r.mu.Lock()
	defer r.mu.Unlock()
	g, _ := r.game.(*game.UnoGame)
	return g
}
