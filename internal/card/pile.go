// internal/card/pile.go
package card

import (
	"math/rand"
	"time"
)

// minPileSize is the lower bound the pile is refilled to before every draw.
const minPileSize = 30

// Pile is a lazily replenished source of random cards for deals, draws and
// penalty grants. It is not safe for concurrent use; the owning game engine
// serializes access to it.
type Pile struct {
	cards []Card
	rng   *rand.Rand
}

// NewPile returns an empty pile. The first draw fills it.
func NewPile() *Pile {
	return &Pile{
		rng: rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// refill appends uniformly-random catalog cards until the minimum size is
// met. Uniform over the full catalog, not frequency-weighted.
func (p *Pile) refill() {
	for len(p.cards) < minPileSize {
		p.cards = append(p.cards, Catalog[p.rng.Intn(len(Catalog))])
	}
}

// Draw refills the pile, removes and returns its first card, then tops the
// pile back up so the minimum holds after every draw.
func (p *Pile) Draw() Card {
	p.refill()
	c := p.cards[0]
	p.cards = p.cards[1:]
	p.refill()
	return c
}

// Size returns the number of cards currently in the pile.
func (p *Pile) Size() int {
	return len(p.cards)
}
