package game

import (
	"github.com/magefree/deal-server-go/internal/game/cards"
	"github.com/magefree/deal-server-go/internal/game/player"
	"github.com/magefree/deal-server-go/internal/game/rules"
)

// SetView is the public view of one property slot.
type SetView struct {
	Colour    cards.Colour
	Index     int
	CardIDs   []int
	Completed bool
	Rent      int
	House     bool
	Hotel     bool
}

// SeatView is what every seat may see of a player. The hand is reduced to
// its size.
type SeatView struct {
	Seat          int
	Name          string
	HandSize      int
	Money         [cards.NumIDs]int
	MoneyTotal    int
	Sets          []SetView
	CompletedSets int
}

// Observation is the game as seen from one seat.
type Observation struct {
	Seat         int
	Turn         int
	ActiveSeat   int
	DecidingSeat int
	ActionsLeft  int
	Winner       int

	Hand      [cards.NumIDs]int
	Self      SeatView
	Opponents []SeatView // seating order after Seat

	Discard  [cards.NumIDs]int
	DrawPile int
	Context  rules.ActionContext

	// Mask is set only when Seat must decide next.
	Mask *rules.Mask
}

// Observe returns the observation for seat.
func (e *Engine) Observe(seat int) (Observation, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	s := e.state
	p, err := s.Player(seat)
	if err != nil {
		return Observation{}, err
	}

	obs := Observation{
		Seat:         seat,
		Turn:         s.Order.Turn,
		ActiveSeat:   s.Order.Active(),
		DecidingSeat: s.DecidingSeat(),
		ActionsLeft:  s.ActionsLeft[seat],
		Winner:       s.Winner,
		Hand:         p.HandCounts(),
		Self:         seatView(p),
		Discard:      s.Deck.DiscardCounts(),
		DrawPile:     len(s.Deck.Draw),
		Context:      s.Context.Clone(),
	}
	for _, other := range s.Order.After(seat) {
		obs.Opponents = append(obs.Opponents, seatView(s.Players[other]))
	}
	if obs.DecidingSeat == seat && e.fatal == nil && !s.Over() {
		mask := rules.ComputeMask(s)
		obs.Mask = &mask
	}
	return obs, nil
}

func seatView(p *player.State) SeatView {
	v := SeatView{
		Seat:          p.Seat,
		Name:          p.Name,
		HandSize:      len(p.Hand),
		Money:         p.MoneyCounts(),
		MoneyTotal:    p.MoneyTotal(),
		CompletedSets: p.CompletedColours(),
	}
	for _, colour := range cards.BoardColours() {
		for i, set := range p.Sets[colour] {
			v.Sets = append(v.Sets, SetView{
				Colour:    colour,
				Index:     i,
				CardIDs:   set.IDs(),
				Completed: set.IsCompleted(),
				Rent:      set.Rent(),
				House:     set.House,
				Hotel:     set.Hotel,
			})
		}
	}
	return v
}

// Set returns the view of colour's slot idx.
func (v SeatView) Set(colour cards.Colour, idx int) (SetView, bool) {
	for _, set := range v.Sets {
		if set.Colour == colour && set.Index == idx {
			return set, true
		}
	}
	return SetView{}, false
}
