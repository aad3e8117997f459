// Package player holds per-seat holdings: hand, money pile and property
// sets.
package player

import (
	"errors"
	"fmt"

	"github.com/magefree/deal-server-go/internal/game/cards"
	"github.com/magefree/deal-server-go/internal/game/property"
)

// SlotsPerColour is the number of property set slots each colour starts with.
const SlotsPerColour = 2

// ErrNoSlot is returned when a colour/set index pair does not exist.
var ErrNoSlot = errors.New("no such property slot")

// State is one seat's holdings. The zero value is not usable; call New.
type State struct {
	Seat  int
	Name  string
	Hand  []cards.Card
	Money []cards.Card
	Sets  [cards.NumColours][]*property.Set
}

// New creates an empty player with SlotsPerColour empty sets per colour.
func New(seat int, name string) *State {
	p := &State{
		Seat:  seat,
		Name:  name,
		Hand:  make([]cards.Card, 0, 8),
		Money: make([]cards.Card, 0, 4),
	}
	for _, colour := range cards.BoardColours() {
		slots := make([]*property.Set, SlotsPerColour)
		for i := range slots {
			slots[i] = property.NewSet(colour)
		}
		p.Sets[colour] = slots
	}
	return p
}

// AddToHand puts cards into the hand.
func (p *State) AddToHand(in ...cards.Card) {
	p.Hand = append(p.Hand, in...)
}

// HasCard reports whether the hand holds a card with id.
func (p *State) HasCard(id int) bool {
	for _, card := range p.Hand {
		if card.ID == id {
			return true
		}
	}
	return false
}

// TakeFromHand removes one card with id from the hand.
func (p *State) TakeFromHand(id int) (cards.Card, bool) {
	for i, card := range p.Hand {
		if card.ID == id {
			p.Hand = append(p.Hand[:i], p.Hand[i+1:]...)
			return card, true
		}
	}
	return cards.Card{}, false
}

// HandCounts returns the hand as per-id counts.
func (p *State) HandCounts() [cards.NumIDs]int {
	var counts [cards.NumIDs]int
	for _, card := range p.Hand {
		counts[card.ID]++
	}
	return counts
}

// HandOfKind returns the hand cards of the given kind.
func (p *State) HandOfKind(kind cards.Kind) []cards.Card {
	var out []cards.Card
	for _, card := range p.Hand {
		if card.Kind == kind {
			out = append(out, card)
		}
	}
	return out
}

// AddMoney banks a card on the money pile.
func (p *State) AddMoney(card cards.Card) {
	p.Money = append(p.Money, card)
}

// TakeMoney removes one money pile card with id.
func (p *State) TakeMoney(id int) (cards.Card, bool) {
	for i, card := range p.Money {
		if card.ID == id {
			p.Money = append(p.Money[:i], p.Money[i+1:]...)
			return card, true
		}
	}
	return cards.Card{}, false
}

// HasMoney reports whether the money pile is non-empty.
func (p *State) HasMoney() bool {
	return len(p.Money) > 0
}

// MoneyTotal sums the money pile.
func (p *State) MoneyTotal() int {
	total := 0
	for _, card := range p.Money {
		total += card.Value
	}
	return total
}

// MoneyCounts returns the money pile as per-id counts.
func (p *State) MoneyCounts() [cards.NumIDs]int {
	var counts [cards.NumIDs]int
	for _, card := range p.Money {
		counts[card.ID]++
	}
	return counts
}

// Slot returns the set at colour and index.
func (p *State) Slot(colour cards.Colour, index int) (*property.Set, error) {
	if !colour.Valid() {
		return nil, fmt.Errorf("%w: colour %d", ErrNoSlot, int(colour))
	}
	slots := p.Sets[colour]
	if index < 0 || index >= len(slots) {
		return nil, fmt.Errorf("%w: %s set %d of %d", ErrNoSlot, colour, index, len(slots))
	}
	return slots[index], nil
}

// AppendSlot adds an empty set for colour and returns its index.
func (p *State) AppendSlot(colour cards.Colour) int {
	p.Sets[colour] = append(p.Sets[colour], property.NewSet(colour))
	return len(p.Sets[colour]) - 1
}

// MaxSlots returns the largest slot count over all colours.
func (p *State) MaxSlots() int {
	most := 0
	for _, slots := range p.Sets {
		if len(slots) > most {
			most = len(slots)
		}
	}
	return most
}

// PlaceProperty puts a received property into the first slot that accepts
// it, scanning the card's colours in order. If none does, a new slot of the
// card's first colour is appended. A wild card that fits nowhere is an
// error since it cannot found a set.
func (p *State) PlaceProperty(card cards.Card) (cards.Colour, int, error) {
	if card.Kind != cards.KindProperty {
		return cards.Wild, -1, fmt.Errorf("place %s: not a property", card.Name)
	}

	colours := card.Colours
	if card.IsWild() {
		colours = cards.BoardColours()
	}
	for _, colour := range colours {
		for i, set := range p.Sets[colour] {
			if set.CanAdd(card) {
				set.Cards = append(set.Cards, card)
				return colour, i, nil
			}
		}
	}

	if card.IsWild() {
		return cards.Wild, -1, fmt.Errorf("place %s: %w", card.Name, ErrNoSlot)
	}
	colour := card.Colours[0]
	idx := p.AppendSlot(colour)
	if err := p.Sets[colour][idx].Add(card); err != nil {
		return colour, idx, err
	}
	return colour, idx, nil
}

// HasProperty reports whether any set on the board is non-empty.
func (p *State) HasProperty() bool {
	return p.countSets(func(s *property.Set) bool { return !s.IsEmpty() }) > 0
}

// HasStealable reports whether any set holds at least one natural card.
func (p *State) HasStealable() bool {
	return p.countSets((*property.Set).HasNatural) > 0
}

// HasCompletedSet reports whether any set on the board is completed.
func (p *State) HasCompletedSet() bool {
	return p.countSets((*property.Set).IsCompleted) > 0
}

// ColoursOnBoard lists colours with at least one set holding a natural card.
func (p *State) ColoursOnBoard() []cards.Colour {
	var out []cards.Colour
	for _, colour := range cards.BoardColours() {
		for _, set := range p.Sets[colour] {
			if set.HasNatural() {
				out = append(out, colour)
				break
			}
		}
	}
	return out
}

// CompletedColours counts distinct colours with at least one completed set.
func (p *State) CompletedColours() int {
	n := 0
	for _, colour := range cards.BoardColours() {
		for _, set := range p.Sets[colour] {
			if set.IsCompleted() {
				n++
				break
			}
		}
	}
	return n
}

// PropertyCount returns the number of property cards on the board.
func (p *State) PropertyCount() int {
	n := 0
	for _, slots := range p.Sets {
		for _, set := range slots {
			n += set.Size()
		}
	}
	return n
}

// CardCount returns every card the player holds: hand, money and board.
func (p *State) CardCount() int {
	return len(p.Hand) + len(p.Money) + p.PropertyCount()
}

func (p *State) countSets(pred func(*property.Set) bool) int {
	n := 0
	for _, slots := range p.Sets {
		for _, set := range slots {
			if pred(set) {
				n++
			}
		}
	}
	return n
}

// Clone deep-copies the player.
func (p *State) Clone() *State {
	out := &State{
		Seat:  p.Seat,
		Name:  p.Name,
		Hand:  append(make([]cards.Card, 0, cap(p.Hand)), p.Hand...),
		Money: append(make([]cards.Card, 0, cap(p.Money)), p.Money...),
	}
	for colour, slots := range p.Sets {
		cloned := make([]*property.Set, len(slots))
		for i, set := range slots {
			cloned[i] = set.Clone()
		}
		out.Sets[colour] = cloned
	}
	return out
}

func (p *State) String() string {
	return fmt.Sprintf("%s(seat %d, hand %d, money %d, properties %d)",
		p.Name, p.Seat, len(p.Hand), p.MoneyTotal(), p.PropertyCount())
}
