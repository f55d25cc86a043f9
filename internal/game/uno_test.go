// internal/game/uno_test.go
package game

import (
	"fmt"
	"io"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/unohall/server/internal/card"
	"github.com/unohall/server/internal/models"
)

func quietLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

// newTestGame deals a started game for n players with a timer long enough to
// never fire during the test.
func newTestGame(t *testing.T, n int, dur time.Duration) (*UnoGame, []*models.Player) {
	t.Helper()
	players := make([]*models.Player, 0, n)
	for i := 0; i < n; i++ {
		players = append(players, models.NewPlayer(fmt.Sprintf("p%d", i)))
	}
	g := NewUnoGame(players, dur, quietLogger())
	g.Begin()
	t.Cleanup(g.Stop)
	for _, p := range players {
		drain(p)
	}
	return g, players
}

// drain empties a player's outbound queue and returns the messages.
func drain(p *models.Player) []models.Message {
	var out []models.Message
	for {
		select {
		case m := <-p.Out:
			out = append(out, m)
		default:
			return out
		}
	}
}

func routeData(msgs []models.Message, route string) []interface{} {
	var out []interface{}
	for _, m := range msgs {
		if m.Route == route {
			out = append(out, m.Data)
		}
	}
	return out
}

// rig replaces the discard top and the active player's hand so a play is
// deterministic.
func rig(g *UnoGame, top card.Card, hand ...card.Card) {
	g.mu.Lock()
	g.discard = []card.Card{top}
	g.chosenColor = card.ColorNone
	g.current.Hand = append([]card.Card{}, hand...)
	g.mu.Unlock()
}

func TestBeginDealsSevenEach(t *testing.T) {
	players := []*models.Player{
		models.NewPlayer("a"), models.NewPlayer("b"), models.NewPlayer("c"),
	}
	g := NewUnoGame(players, time.Minute, quietLogger())
	g.Begin()
	defer g.Stop()

	top := g.TopOfDiscard()
	assert.LessOrEqual(t, int(top.Face), 9, "initial discard card must be regular")
	assert.True(t, card.ValidColor(top.Color))

	assert.Same(t, players[0], g.CurrentPlayer(), "first seated player starts")

	for _, p := range players {
		require.Len(t, p.Hand, 7)
		msgs := drain(p)
		assert.Len(t, routeData(msgs, "uno_give_card"), 1)
		assert.Len(t, routeData(msgs, "uno_card_stack"), 1)
		assert.Equal(t, []interface{}{"a"}, routeData(msgs, "uno_turn"))
	}
}

func TestTurnRotation(t *testing.T) {
	g, players := newTestGame(t, 4, time.Minute)

	// Clockwise visits every seat once per cycle, in order.
	for _, want := range []*models.Player{players[1], players[2], players[3], players[0]} {
		g.mu.Lock()
		g.endTurnLocked(1)
		g.mu.Unlock()
		assert.Same(t, want, g.CurrentPlayer())
	}

	g.mu.Lock()
	g.direction = CounterClockwise
	g.mu.Unlock()
	for _, want := range []*models.Player{players[3], players[2], players[1], players[0]} {
		g.mu.Lock()
		g.endTurnLocked(1)
		g.mu.Unlock()
		assert.Same(t, want, g.CurrentPlayer())
	}
}

func TestPlayCardOutOfTurn(t *testing.T) {
	g, players := newTestGame(t, 3, time.Minute)
	rig(g, card.Card{Face: 5, Color: card.Red}, card.Card{Face: 5, Color: card.Blue})

	assert.False(t, g.PlayCard(0, players[1]))
	assert.Same(t, players[0], g.CurrentPlayer())
	msgs := drain(players[1])
	assert.Equal(t, []interface{}{false}, routeData(msgs, "uno_play_card"))
}

func TestPlayCardIllegal(t *testing.T) {
	g, players := newTestGame(t, 3, time.Minute)
	rig(g, card.Card{Face: 5, Color: card.Red},
		card.Card{Face: 7, Color: card.Blue}, card.Card{Face: 5, Color: card.Red})

	assert.False(t, g.PlayCard(0, players[0]), "no color or face match")
	assert.Len(t, players[0].Hand, 2, "rejected play must not mutate the hand")
	assert.Equal(t, card.Card{Face: 5, Color: card.Red}, g.TopOfDiscard())
	assert.Same(t, players[0], g.CurrentPlayer(), "rejected play holds the turn")

	assert.False(t, g.PlayCard(5, players[0]), "index out of range")
	assert.False(t, g.PlayCard(-1, players[0]))
}

func TestPlayCardNumeral(t *testing.T) {
	g, players := newTestGame(t, 3, time.Minute)
	rig(g, card.Card{Face: 5, Color: card.Red},
		card.Card{Face: 7, Color: card.Red}, card.Card{Face: 2, Color: card.Blue})
	drain(players[1])
	drain(players[2])

	require.True(t, g.PlayCard(0, players[0]))
	assert.Len(t, players[0].Hand, 1, "exactly one card leaves the hand")
	assert.Equal(t, card.Card{Face: 7, Color: card.Red}, g.TopOfDiscard())
	assert.Same(t, players[1], g.CurrentPlayer())

	// Spectators learn the new stack top, the hand count and the next turn.
	msgs := drain(players[1])
	assert.Len(t, routeData(msgs, "uno_card_stack"), 1)
	assert.Equal(t, []interface{}{"p1"}, routeData(msgs, "uno_turn"))
	counts := routeData(msgs, "uno_card_count")
	require.Len(t, counts, 1)
	assert.Equal(t, map[string]interface{}{"player": "p0", "count": 1}, counts[0])

	// The actor gets the outcome but not their own count echo.
	msgs = drain(players[0])
	assert.Equal(t, []interface{}{true}, routeData(msgs, "uno_play_card"))
	assert.Empty(t, routeData(msgs, "uno_card_count"))
}

func TestRotateReversesDirection(t *testing.T) {
	g, players := newTestGame(t, 3, time.Minute)
	rig(g, card.Card{Face: 5, Color: card.Red},
		card.Card{Face: card.Rotate, Color: card.Red}, card.Card{Face: 2, Color: card.Blue})

	require.True(t, g.PlayCard(0, players[0]))
	assert.Same(t, players[2], g.CurrentPlayer(), "reversal passes to the other neighbor")

	msgs := drain(players[1])
	assert.Equal(t, []interface{}{CounterClockwise}, routeData(msgs, "uno_direction"))
}

func TestRotateTwoPlayersHoldsTurn(t *testing.T) {
	g, players := newTestGame(t, 2, time.Minute)
	players[0].HasDrawnCard = true
	rig(g, card.Card{Face: 5, Color: card.Red},
		card.Card{Face: card.Rotate, Color: card.Red}, card.Card{Face: 2, Color: card.Blue})

	require.True(t, g.PlayCard(0, players[0]))
	assert.Same(t, players[0], g.CurrentPlayer(), "with two players the turn snaps back")
	assert.False(t, players[0].HasDrawnCard, "the repeated turn allows a fresh draw")
	assert.Empty(t, routeData(drain(players[1]), "uno_direction"))
}

func TestBlockSkipsNext(t *testing.T) {
	g, players := newTestGame(t, 3, time.Minute)
	rig(g, card.Card{Face: 5, Color: card.Red},
		card.Card{Face: card.Block, Color: card.Red}, card.Card{Face: 2, Color: card.Blue})

	require.True(t, g.PlayCard(0, players[0]))
	assert.Same(t, players[2], g.CurrentPlayer())
}

func TestBlockTwoPlayersHoldsTurn(t *testing.T) {
	g, players := newTestGame(t, 2, time.Minute)
	rig(g, card.Card{Face: 5, Color: card.Red},
		card.Card{Face: card.Block, Color: card.Red}, card.Card{Face: 2, Color: card.Blue})

	require.True(t, g.PlayCard(0, players[0]))
	assert.Same(t, players[0], g.CurrentPlayer())
}

func TestTakeTwoPenalizesNext(t *testing.T) {
	g, players := newTestGame(t, 3, time.Minute)
	rig(g, card.Card{Face: 5, Color: card.Red},
		card.Card{Face: card.TakeTwo, Color: card.Red}, card.Card{Face: 2, Color: card.Blue})
	before := len(players[1].Hand)

	require.True(t, g.PlayCard(0, players[0]))
	assert.Len(t, players[1].Hand, before+2)
	assert.Same(t, players[1], g.CurrentPlayer(), "penalized player still takes the next turn")
	assert.Len(t, routeData(drain(players[1]), "uno_give_card"), 1)
}

func TestTakeFourHoldsTurnForColorChoice(t *testing.T) {
	g, players := newTestGame(t, 3, time.Minute)
	rig(g, card.Card{Face: 5, Color: card.Red},
		card.Card{Face: card.TakeFour, Color: card.ColorNone}, card.Card{Face: 2, Color: card.Blue})
	before := len(players[1].Hand)

	require.True(t, g.PlayCard(0, players[0]))
	assert.Len(t, players[1].Hand, before+4)
	assert.Same(t, players[0], g.CurrentPlayer(), "the turn is held until a color is picked")

	// Every action but the actor's color pick is refused while pending.
	assert.False(t, g.PlayCard(0, players[0]))
	assert.False(t, g.DrawCard(players[0]))
	assert.False(t, g.ChooseColor(card.Blue, players[1]), "only the actor may pick")
	assert.False(t, g.ChooseColor(card.Color(9), players[0]), "color must be valid")

	drain(players[1])
	require.True(t, g.ChooseColor(card.Blue, players[0]))
	assert.Same(t, players[1], g.CurrentPlayer())
	msgs := drain(players[1])
	assert.Equal(t, []interface{}{card.Blue}, routeData(msgs, "uno_color"))

	// The chosen color now constrains legality on the colorless top.
	g.mu.Lock()
	players[1].Hand = []card.Card{{Face: 3, Color: card.Red}, {Face: 3, Color: card.Blue}}
	g.mu.Unlock()
	assert.False(t, g.PlayCard(0, players[1]), "wrong color on a resolved wildcard")
	require.True(t, g.PlayCard(1, players[1]))
}

func TestPickColorHoldsTurn(t *testing.T) {
	g, players := newTestGame(t, 3, time.Minute)
	rig(g, card.Card{Face: 5, Color: card.Red},
		card.Card{Face: card.PickColor, Color: card.ColorNone}, card.Card{Face: 2, Color: card.Blue})
	before := len(players[1].Hand)

	require.True(t, g.PlayCard(0, players[0]))
	assert.Len(t, players[1].Hand, before, "PickColor carries no penalty")
	assert.Same(t, players[0], g.CurrentPlayer())

	require.True(t, g.ChooseColor(card.Green, players[0]))
	assert.Same(t, players[1], g.CurrentPlayer())
}

func TestDrawCardRules(t *testing.T) {
	g, players := newTestGame(t, 3, time.Minute)
	rig(g, card.Card{Face: 5, Color: card.Red}, card.Card{Face: 5, Color: card.Blue})

	assert.False(t, g.DrawCard(players[0]), "a player holding a legal move may not draw")
	assert.False(t, g.DrawCard(players[1]), "only the active player may draw")

	rig(g, card.Card{Face: 5, Color: card.Red}, card.Card{Face: 7, Color: card.Blue})
	require.True(t, g.DrawCard(players[0]))
	assert.Len(t, players[0].Hand, 2, "exactly one card is granted")

	// Either the draw produced a legal move and the turn continues with
	// further draws blocked, or it did not and the turn has passed.
	if g.CurrentPlayer() == players[0] {
		assert.True(t, players[0].HasDrawnCard)
		assert.False(t, g.DrawCard(players[0]), "one draw per turn")
	} else {
		assert.Same(t, players[1], g.CurrentPlayer())
	}
}

func TestWinEndsGame(t *testing.T) {
	g, players := newTestGame(t, 2, time.Minute)

	var winner *models.Player
	g.OnGameEnd = func(p *models.Player) {
		winner = p
		g.Stop()
	}

	rig(g, card.Card{Face: 5, Color: card.Red}, card.Card{Face: 5, Color: card.Blue})
	require.True(t, g.PlayCard(0, players[0]))

	require.Same(t, players[0], winner)
	assert.Equal(t, []interface{}{"p0"}, routeData(drain(players[1]), "uno_win"))

	// The stopped engine refuses everything.
	assert.False(t, g.PlayCard(0, players[1]))
	assert.False(t, g.DrawCard(players[1]))
}

func TestGiveSpecific(t *testing.T) {
	g, players := newTestGame(t, 2, time.Minute)
	before := len(players[1].Hand)

	require.True(t, g.GiveSpecific(card.TakeTwo, card.Green, players[1]))
	assert.Equal(t, card.Card{Face: card.TakeTwo, Color: card.Green}, players[1].Hand[before])

	assert.False(t, g.GiveSpecific(card.TakeFour, card.Green, players[1]), "not a catalog card")
	assert.False(t, g.GiveSpecific(5, card.Red, models.NewPlayer("stranger")))
}

func TestSyncResendsHand(t *testing.T) {
	g, players := newTestGame(t, 2, time.Minute)

	g.Sync(players[1])
	msgs := routeData(drain(players[1]), "uno_sync")
	require.Len(t, msgs, 1)
	hand, ok := msgs[0].([]card.Card)
	require.True(t, ok)
	assert.Equal(t, players[1].Hand, hand)
	assert.Len(t, players[1].Hand, 7, "sync must not mutate state")
}

func TestPlayerLeftPassesTurn(t *testing.T) {
	g, players := newTestGame(t, 3, time.Minute)

	g.PlayerLeft(players[0])
	assert.Same(t, players[1], g.CurrentPlayer())

	g.mu.Lock()
	n := len(g.players)
	g.mu.Unlock()
	assert.Equal(t, 2, n)

	// A non-active leaver never moves the turn.
	g.PlayerLeft(players[2])
	assert.Same(t, players[1], g.CurrentPlayer())
}

func TestTurnTimerAdvancesTurn(t *testing.T) {
	g, players := newTestGame(t, 3, 40*time.Millisecond)

	require.Eventually(t, func() bool {
		return g.CurrentPlayer() != players[0]
	}, time.Second, 5*time.Millisecond, "an idle turn must expire onward")
}

func TestTurnTimerResolvesPendingColor(t *testing.T) {
	g, players := newTestGame(t, 3, 60*time.Millisecond)
	rig(g, card.Card{Face: 5, Color: card.Red},
		card.Card{Face: card.PickColor, Color: card.ColorNone}, card.Card{Face: 2, Color: card.Blue})

	require.True(t, g.PlayCard(0, players[0]))
	require.Eventually(t, func() bool {
		g.mu.Lock()
		defer g.mu.Unlock()
		return !g.pendingColor && g.chosenColor != card.ColorNone
	}, time.Second, 5*time.Millisecond, "an unanswered color choice is made for the player")
	assert.NotSame(t, players[0], g.CurrentPlayer())
}

func TestStopIsIdempotent(t *testing.T) {
	g, players := newTestGame(t, 2, time.Minute)

	g.Stop()
	g.Stop()
	assert.Nil(t, players[0].Hand)
	assert.False(t, g.PlayCard(0, players[0]))
}
