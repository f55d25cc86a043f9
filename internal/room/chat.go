// internal/room/chat.go
package room

import (
	"flag"
	"io"
	"strings"

	"github.com/unohall/server/internal/card"
	"github.com/unohall/server/internal/models"
)

// cheatPrefix marks a chat message as an administrative directive instead of
// a relay.
const cheatPrefix = "/debug"

// ChatMessage relays text from p to the whole roster, unless it carries the
// reserved administrative prefix, in which case it is parsed as a cheat
// directive and executed against the live game.
func (r *Room) ChatMessage(text string, p *models.Player) {
	ok := true
	if strings.HasPrefix(text, cheatPrefix) {
		ok = r.handleCheat(strings.TrimPrefix(text, cheatPrefix), p)
	} else {
		r.mu.Lock()
		models.Broadcast(map[string]interface{}{
			"player":  p.Name,
			"message": text,
		}, "lobby_chat_message", r.players)
		r.mu.Unlock()
	}
	p.Send(ok, "lobby_chat")
}

// handleCheat grants specific cards directly to a roster member, bypassing
// the draw pile: -f face, -c color, -a amount, -p target player name
// (defaulting to the sender). Only honored while the sender is in a running
// uno game of this room.
func (r *Room) handleCheat(args string, p *models.Player) bool {
	g := r.UnoGame()
	if g == nil {
		return false
	}

	fs := flag.NewFlagSet("debug", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	face := fs.Int("f", 0, "card face")
	col := fs.Int("c", int(card.ColorNone), "card color")
	amount := fs.Int("a", 1, "number of cards")
	targetName := fs.String("p", "", "target player name")
	if err := fs.Parse(strings.Fields(args)); err != nil {
		return false
	}

	target := p
	if *targetName != "" {
		target = r.findPlayer(*targetName)
		if target == nil {
			return false
		}
	}

	for i := 0; i < *amount; i++ {
		if !g.GiveSpecific(card.Face(*face), card.Color(*col), target) {
			return false
		}
	}
	r.log.Debugf("granted %d card(s) face=%d color=%d to '%s'", *amount, *face, *col, target.Name)
	return true
}

func (r *Room) findPlayer(name string) *models.Player {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.players {
		if p.Name == name {
			return p
		}
	}
	return nil
}
