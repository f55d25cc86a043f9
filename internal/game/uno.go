// internal/game/uno.go
package game

import (
	"math/rand"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/unohall/server/internal/card"
	"github.com/unohall/server/internal/models"
)

// OnGameEndFunc handles a finished game; the room uses it to stop itself
// and record the winner.
type OnGameEndFunc func(winner *models.Player)

// UnoGame is the live turn-based state machine for one room's game.
//
// A single mutex guards every mutation: player actions, the administrative
// grant path, timer expiry and teardown all pass through the same critical
// section, so no two mutating actions on one game can interleave. Engines
// for different rooms run fully independently. The lock is held across
// outbound broadcasts; sends are non-blocking so this never stalls.
type UnoGame struct {
	mu sync.Mutex

	players   []*models.Player
	current   *models.Player
	pile      *card.Pile
	discard   []card.Card
	direction Direction

	// chosenColor overrides the colorless top card once a wildcard's color
	// has been picked; pendingColor blocks all plays and draws until the
	// active player picks.
	chosenColor  card.Color
	pendingColor bool

	turnDuration time.Duration
	turnTimer    *time.Timer
	turnID       int

	stopped bool

	rng *rand.Rand
	log *logrus.Logger

	// OnGameEnd is invoked (outside the engine lock) when a player empties
	// their hand.
	OnGameEnd OnGameEndFunc
}

// Direction is the seating traversal order. Wire values are fixed by the
// client protocol.
type Direction int

const (
	CounterClockwise Direction = 1
	Clockwise        Direction = 2
)

// NewUnoGame builds an engine for the given seating order. Begin must be
// called to deal and start the turn cycle.
func NewUnoGame(players []*models.Player, turnDuration time.Duration, log *logrus.Logger) *UnoGame {
	return &UnoGame{
		players:      players,
		pile:         card.NewPile(),
		direction:    Clockwise,
		chosenColor:  card.ColorNone,
		turnDuration: turnDuration,
		rng:          rand.New(rand.NewSource(time.Now().UnixNano())),
		log:          log,
	}
}

// Begin deals seven cards to every player, seeds the discard stack with one
// regular card, makes the first seated player active and starts the turn
// timer. The initial discard card and the active player are broadcast to
// the whole room.
func (g *UnoGame) Begin() {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.discard = []card.Card{card.Regular[g.rng.Intn(len(card.Regular))]}

	for _, p := range g.players {
		p.TurnOver = true
		p.HasDrawnCard = false
		p.Hand = make([]card.Card, 0, 7)
		for i := 0; i < 7; i++ {
			p.Hand = append(p.Hand, g.pile.Draw())
		}
		p.Send(p.Hand, "uno_give_card")
	}

	g.current = g.players[0]
	g.current.TurnOver = false

	models.Broadcast(g.discard[0], "uno_card_stack", g.players)
	models.Broadcast(g.current.Name, "uno_turn", g.players)

	g.resetTurnTimerLocked()
}

// resetTurnTimerLocked cancels any pending timer and arms a new one for the
// current turn. The callback re-acquires the engine lock and checks the
// turn generation so a stale timer firing concurrently with a player action
// never produces an inconsistent transition.
func (g *UnoGame) resetTurnTimerLocked() {
	if g.turnTimer != nil {
		g.turnTimer.Stop()
	}
	turnID := g.turnID
	g.turnTimer = time.AfterFunc(g.turnDuration, func() {
		g.mu.Lock()
		defer g.mu.Unlock()
		if g.stopped || g.turnID != turnID {
			return
		}
		g.log.Debugf("turn time of %s expired for '%s'", g.turnDuration, g.current.Name)
		if g.pendingColor {
			// The active player never picked; pick for them.
			g.resolveColorLocked(card.Color(g.rng.Intn(4)))
			return
		}
		g.endTurnLocked(1)
	})
}

func (g *UnoGame) indexOfLocked(p *models.Player) int {
	for i, pl := range g.players {
		if pl == p {
			return i
		}
	}
	return -1
}

// nextPlayerLocked computes the player inc seats away from the current one
// in the current direction.
func (g *UnoGame) nextPlayerLocked(inc int) *models.Player {
	idx := g.indexOfLocked(g.current)
	off := inc
	if g.direction == CounterClockwise {
		off = -inc
	}
	n := len(g.players)
	return g.players[((idx+off)%n+n)%n]
}

// endTurnLocked passes the turn inc seats ahead, resets the outgoing
// player's draw allowance, re-arms the timer and broadcasts the new active
// player.
func (g *UnoGame) endTurnLocked(inc int) {
	next := g.nextPlayerLocked(inc)

	g.current.TurnOver = true
	g.current.HasDrawnCard = false
	next.TurnOver = false
	g.current = next

	g.turnID++
	g.resetTurnTimerLocked()

	g.log.Debugf("next player: '%s'", next.Name)
	models.Broadcast(g.current.Name, "uno_turn", g.players)
}

func (g *UnoGame) changeDirectionLocked() {
	if g.direction == Clockwise {
		g.direction = CounterClockwise
	} else {
		g.direction = Clockwise
	}
	models.Broadcast(g.direction, "uno_direction", g.players)
	g.log.Debugf("direction changed to %d", g.direction)
}

// giveCardsLocked draws count cards from the pile into p's hand and sends
// them to p only.
func (g *UnoGame) giveCardsLocked(count int, p *models.Player) {
	cards := make([]card.Card, 0, count)
	for i := 0; i < count; i++ {
		cards = append(cards, g.pile.Draw())
	}
	p.Hand = append(p.Hand, cards...)
	p.Send(cards, "uno_give_card")
}

// canPlayLocked applies the legality predicate against the current discard
// top, refined by the chosen color when the top is a wildcard whose color
// has been picked.
func (g *UnoGame) canPlayLocked(c card.Card) bool {
	top := g.discard[len(g.discard)-1]
	if !card.CanPlayOver(top, c) {
		return false
	}
	if top.Wildcard() && g.chosenColor != card.ColorNone && !c.Wildcard() && c.Color != g.chosenColor {
		return false
	}
	return true
}

func (g *UnoGame) hasLegalMoveLocked(p *models.Player) bool {
	for _, c := range p.Hand {
		if g.canPlayLocked(c) {
			return true
		}
	}
	return false
}

// PlayCard attempts to play the card at cardIdx from p's hand. Exactly one
// outcome boolean is reported back to p regardless of the branch taken.
func (g *UnoGame) PlayCard(cardIdx int, p *models.Player) bool {
	g.mu.Lock()

	ok := false
	var winner *models.Player

	if !g.stopped && p == g.current && !g.pendingColor && cardIdx >= 0 && cardIdx < len(p.Hand) {
		c := p.Hand[cardIdx]
		g.log.Debugf("'%s' played: %s", p.Name, c)

		if g.canPlayLocked(c) {
			g.discard = append(g.discard, c)
			g.chosenColor = card.ColorNone
			models.Broadcast(c, "uno_card_stack", g.players)

			switch c.Face {
			case card.Rotate:
				// With two players reversing returns the turn to the same
				// player, so the turn does not pass and they may draw again.
				if len(g.players) != 2 {
					g.changeDirectionLocked()
					g.endTurnLocked(1)
				} else {
					p.HasDrawnCard = false
				}
			case card.Block:
				// Same repeat-turn shape with two players.
				if len(g.players) != 2 {
					g.endTurnLocked(2)
				} else {
					p.HasDrawnCard = false
				}
			case card.TakeTwo:
				g.giveCardsLocked(2, g.nextPlayerLocked(1))
				g.endTurnLocked(1)
			case card.TakeFour:
				g.giveCardsLocked(4, g.nextPlayerLocked(1))
				g.pendingColor = true
			case card.PickColor:
				g.pendingColor = true
			default:
				g.endTurnLocked(1)
			}

			p.Hand = append(p.Hand[:cardIdx], p.Hand[cardIdx+1:]...)
			models.Broadcast(map[string]interface{}{
				"player": p.Name,
				"count":  len(p.Hand),
			}, "uno_card_count", g.players, p)
			ok = true

			if len(p.Hand) == 0 {
				winner = p
				models.Broadcast(p.Name, "uno_win", g.players)
			}
		} else {
			g.log.Warnf("card does not fit on top of stack, is the client desynchronized? (player: '%s')", p.Name)
		}
	}

	onEnd := g.OnGameEnd
	g.mu.Unlock()

	p.Send(ok, "uno_play_card")
	if winner != nil && onEnd != nil {
		onEnd(winner)
	}
	return ok
}

// DrawCard grants p one card from the pile if it is their turn, they have
// not drawn yet and hold no legal move. If the drawn card still leaves no
// legal move the turn ends; otherwise the turn continues and further draws
// are blocked until it passes.
func (g *UnoGame) DrawCard(p *models.Player) bool {
	g.mu.Lock()

	ok := false
	if !g.stopped && p == g.current && !g.pendingColor &&
		!p.HasDrawnCard && !g.hasLegalMoveLocked(p) {

		g.giveCardsLocked(1, p)
		if !g.hasLegalMoveLocked(p) {
			g.endTurnLocked(1)
		} else {
			p.HasDrawnCard = true
		}
		ok = true
		g.log.Debugf("player '%s' drew card %s", p.Name, p.Hand[len(p.Hand)-1])
	}

	g.mu.Unlock()
	p.Send(ok, "uno_draw_card")
	return ok
}

// ChooseColor resolves a pending wildcard color choice by the active
// player. The chosen color constrains the next play and the turn passes.
func (g *UnoGame) ChooseColor(col card.Color, p *models.Player) bool {
	g.mu.Lock()

	ok := false
	if !g.stopped && g.pendingColor && p == g.current && card.ValidColor(col) {
		g.resolveColorLocked(col)
		ok = true
	}

	g.mu.Unlock()
	p.Send(ok, "uno_pick_color")
	return ok
}

func (g *UnoGame) resolveColorLocked(col card.Color) {
	g.chosenColor = col
	g.pendingColor = false
	models.Broadcast(col, "uno_color", g.players)
	g.log.Debugf("color chosen: %d", col)
	g.endTurnLocked(1)
}

// GiveSpecific appends the catalog card matching face and color to p's hand,
// bypassing the draw pile. Administrative path only.
func (g *UnoGame) GiveSpecific(face card.Face, col card.Color, p *models.Player) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.stopped || g.indexOfLocked(p) < 0 {
		return false
	}
	c, found := card.Find(face, col)
	if !found {
		return false
	}
	p.Hand = append(p.Hand, c)
	p.Send([]card.Card{c}, "uno_give_card")
	return true
}

// Sync resends p's full current hand. Recovery path for a desynchronized
// client; game state is untouched.
func (g *UnoGame) Sync(p *models.Player) {
	g.mu.Lock()
	hand := make([]card.Card, len(p.Hand))
	copy(hand, p.Hand)
	g.mu.Unlock()
	p.Send(hand, "uno_sync")
}

// Stop cancels the turn timer and clears every player's per-game state.
// Idempotent.
func (g *UnoGame) Stop() {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.stopped {
		return
	}
	g.stopped = true
	if g.turnTimer != nil {
		g.turnTimer.Stop()
	}
	for _, p := range g.players {
		p.Hand = nil
		p.TurnOver = false
		p.HasDrawnCard = false
	}
}

// PlayerLeft removes a player from the seating order, first forcing the
// turn onward if it was theirs so the game never waits on a player who is
// gone. Called by the room before the roster mutation.
func (g *UnoGame) PlayerLeft(p *models.Player) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.stopped {
		return
	}
	idx := g.indexOfLocked(p)
	if idx < 0 {
		return
	}
	if p == g.current {
		if g.pendingColor {
			g.resolveColorLocked(card.Color(g.rng.Intn(4)))
		} else {
			g.endTurnLocked(1)
		}
	}
	g.players = append(g.players[:idx], g.players[idx+1:]...)
}

// CurrentPlayer returns the active player.
func (g *UnoGame) CurrentPlayer() *models.Player {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.current
}

// TopOfDiscard returns the card currently defining legality.
func (g *UnoGame) TopOfDiscard() card.Card {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.discard[len(g.discard)-1]
}
