// Package property implements colour-bound property sets and their rent.
package property

import (
	"fmt"

	"github.com/magefree/deal-server-go/internal/game/cards"
)

// Set is an ordered, colour-bound container of property cards.
type Set struct {
	Colour   cards.Colour
	Capacity int
	Cards    []cards.Card
	House    bool
	Hotel    bool
}

// NewSet creates an empty set for colour with the colour's capacity.
func NewSet(colour cards.Colour) *Set {
	return &Set{
		Colour:   colour,
		Capacity: colour.Capacity(),
		Cards:    make([]cards.Card, 0, colour.Capacity()),
	}
}

// Size returns the number of cards in the set.
func (s *Set) Size() int {
	return len(s.Cards)
}

// IsEmpty reports whether the set holds no cards.
func (s *Set) IsEmpty() bool {
	return len(s.Cards) == 0
}

// IsCompleted reports whether the set is full. Wild sets never complete.
func (s *Set) IsCompleted() bool {
	if s.Colour == cards.Wild {
		return false
	}
	return len(s.Cards) >= s.Capacity
}

// IsOnlyWild reports whether every card in the set is wild. An empty set is
// vacuously only-wild.
func (s *Set) IsOnlyWild() bool {
	for _, card := range s.Cards {
		if !card.IsWild() {
			return false
		}
	}
	return true
}

// HasNatural reports whether the set holds at least one non-wild card.
func (s *Set) HasNatural() bool {
	return !s.IsEmpty() && !s.IsOnlyWild()
}

// CanAdd reports whether card may be appended: it must be a property whose
// colours include the set colour (or be wild), a wild card may not found a
// set, and a completed set takes nothing more.
func (s *Set) CanAdd(card cards.Card) bool {
	if card.Kind != cards.KindProperty {
		return false
	}
	if card.IsWild() && s.IsEmpty() {
		return false
	}
	if !card.Fits(s.Colour) {
		return false
	}
	return !s.IsCompleted()
}

// Add appends card if CanAdd allows it.
func (s *Set) Add(card cards.Card) error {
	if !s.CanAdd(card) {
		return fmt.Errorf("cannot add %s to %s set of size %d", card.Name, s.Colour, s.Size())
	}
	s.Cards = append(s.Cards, card)
	return nil
}

// IndexOf returns the position of the first card with id, or -1.
func (s *Set) IndexOf(id int) int {
	for i, card := range s.Cards {
		if card.ID == id {
			return i
		}
	}
	return -1
}

// Remove takes the first card with id out of the set, preserving order.
func (s *Set) Remove(id int) (cards.Card, bool) {
	idx := s.IndexOf(id)
	if idx < 0 {
		return cards.Card{}, false
	}
	card := s.Cards[idx]
	s.Cards = append(s.Cards[:idx], s.Cards[idx+1:]...)
	return card, true
}

// Clear empties the set and returns its cards in order. House and hotel
// flags travel with the cards, so they are cleared too.
func (s *Set) Clear() []cards.Card {
	out := s.Cards
	s.Cards = make([]cards.Card, 0, s.Capacity)
	s.House = false
	s.Hotel = false
	return out
}

// IDs returns the card ids in set order.
func (s *Set) IDs() []int {
	ids := make([]int, len(s.Cards))
	for i, card := range s.Cards {
		ids[i] = card.ID
	}
	return ids
}

// Clone deep-copies the set.
func (s *Set) Clone() *Set {
	out := *s
	out.Cards = append(make([]cards.Card, 0, s.Capacity), s.Cards...)
	return &out
}

func (s *Set) String() string {
	return fmt.Sprintf("%s%v", s.Colour, s.Cards)
}
