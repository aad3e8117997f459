// Package deck holds the draw and discard piles.
package deck

import (
	"errors"
	"fmt"
	"math/rand/v2"

	"github.com/magefree/deal-server-go/internal/game/cards"
)

// ErrExhausted is returned when a draw finds both piles empty. With a fixed
// card population this only happens when cards leak out of circulation.
var ErrExhausted = errors.New("draw and discard piles are both empty")

// Deck is the draw pile plus the discard pile. The top of the draw pile is
// index 0.
type Deck struct {
	Draw    []cards.Card
	Discard []cards.Card

	rng *rand.PCG
}

// New shuffles the catalog into a fresh draw pile using the given seed.
func New(catalog *cards.Catalog, seed uint64) *Deck {
	d := &Deck{
		Draw:    catalog.Cards(),
		Discard: make([]cards.Card, 0, catalog.Size()),
		rng:     rand.NewPCG(seed, seed^0x9e3779b97f4a7c15),
	}
	d.shuffle()
	return d
}

// NewOrdered builds a deck with a fixed draw order and no shuffle on
// construction. Refills still shuffle.
func NewOrdered(draw []cards.Card, seed uint64) *Deck {
	pile := make([]cards.Card, len(draw))
	copy(pile, draw)
	return &Deck{
		Draw:    pile,
		Discard: make([]cards.Card, 0),
		rng:     rand.NewPCG(seed, seed^0x9e3779b97f4a7c15),
	}
}

func (d *Deck) shuffle() {
	r := rand.New(d.rng)
	r.Shuffle(len(d.Draw), func(i, j int) {
		d.Draw[i], d.Draw[j] = d.Draw[j], d.Draw[i]
	})
}

// DrawOne pops the top card. An empty draw pile is refilled from the
// reshuffled discard pile first. The second return value reports whether a
// refill happened.
func (d *Deck) DrawOne() (cards.Card, bool, error) {
	refilled := false
	if len(d.Draw) == 0 {
		if len(d.Discard) == 0 {
			return cards.Card{}, false, ErrExhausted
		}
		d.Draw = d.Discard
		d.Discard = make([]cards.Card, 0, cap(d.Draw))
		d.shuffle()
		refilled = true
	}

	card := d.Draw[0]
	d.Draw = d.Draw[1:]
	return card, refilled, nil
}

// DrawN draws n cards. On error the cards drawn so far are returned along
// with the error.
func (d *Deck) DrawN(n int) ([]cards.Card, int, error) {
	out := make([]cards.Card, 0, n)
	refills := 0
	for i := 0; i < n; i++ {
		card, refilled, err := d.DrawOne()
		if err != nil {
			return out, refills, fmt.Errorf("draw %d of %d: %w", i+1, n, err)
		}
		if refilled {
			refills++
		}
		out = append(out, card)
	}
	return out, refills, nil
}

// PutDiscard appends a card to the discard pile.
func (d *Deck) PutDiscard(card cards.Card) {
	d.Discard = append(d.Discard, card)
}

// Size returns the total number of cards held by both piles.
func (d *Deck) Size() int {
	return len(d.Draw) + len(d.Discard)
}

// DiscardCounts returns the discard pile as per-id counts.
func (d *Deck) DiscardCounts() [cards.NumIDs]int {
	var counts [cards.NumIDs]int
	for _, card := range d.Discard {
		counts[card.ID]++
	}
	return counts
}

// Clone deep-copies the deck, including the RNG position.
func (d *Deck) Clone() *Deck {
	out := &Deck{
		Draw:    append([]cards.Card(nil), d.Draw...),
		Discard: append([]cards.Card(nil), d.Discard...),
	}
	if d.rng != nil {
		src := *d.rng
		out.rng = &src
	}
	return out
}
