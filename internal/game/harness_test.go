package game

import (
	"testing"

	"github.com/magefree/deal-server-go/internal/game/cards"
	"github.com/magefree/deal-server-go/internal/game/deck"
	"github.com/magefree/deal-server-go/internal/game/player"
	"github.com/magefree/deal-server-go/internal/game/property"
	"github.com/magefree/deal-server-go/internal/game/rules"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

// harness builds a game with hand-placed holdings. Every card it places is
// pulled from the draw pile, so the population stays conserved. The draw
// pile keeps catalog definition order, lowest ids first.
type harness struct {
	t     *testing.T
	opts  Options
	state *rules.GameState
}

func newHarness(t *testing.T, players int, catalog *cards.Catalog) *harness {
	t.Helper()
	opts := DefaultOptions()
	opts.Players = players
	opts.Catalog = catalog.Name
	opts.Seed = 7

	state := &rules.GameState{
		Players:     make([]*player.State, players),
		Order:       rules.NewTurnOrder(players),
		Deck:        deck.NewOrdered(catalog.Cards(), opts.Seed),
		Context:     rules.NewActionContext(0),
		ActionsLeft: make([]int, players),
		Settings:    opts.settings(),
		Winner:      rules.NoSelection,
		CatalogSize: catalog.Size(),
	}
	for seat := range state.Players {
		state.Players[seat] = player.New(seat, opts.seatName(seat))
		state.ActionsLeft[seat] = opts.ActionsPerTurn
	}
	return &harness{t: t, opts: opts, state: state}
}

func (h *harness) with(fn func(*Options)) *harness {
	fn(&h.opts)
	h.state.Settings = h.opts.settings()
	return h
}

func (h *harness) pull(id int) cards.Card {
	h.t.Helper()
	pile := h.state.Deck.Draw
	for i, card := range pile {
		if card.ID == id {
			h.state.Deck.Draw = append(pile[:i], pile[i+1:]...)
			return card
		}
	}
	h.t.Fatalf("card %d is not in the draw pile", id)
	return cards.Card{}
}

func (h *harness) hand(seat int, ids ...int) *harness {
	h.t.Helper()
	for _, id := range ids {
		h.state.Players[seat].AddToHand(h.pull(id))
	}
	return h
}

func (h *harness) bank(seat int, ids ...int) *harness {
	h.t.Helper()
	for _, id := range ids {
		h.state.Players[seat].AddMoney(h.pull(id))
	}
	return h
}

// place appends cards to a slot directly, bypassing CanAdd.
func (h *harness) place(seat int, colour cards.Colour, idx int, ids ...int) *harness {
	h.t.Helper()
	p := h.state.Players[seat]
	for len(p.Sets[colour]) <= idx {
		p.AppendSlot(colour)
	}
	set := p.Sets[colour][idx]
	for _, id := range ids {
		set.Cards = append(set.Cards, h.pull(id))
	}
	return h
}

func (h *harness) slot(seat int, colour cards.Colour, idx int) *property.Set {
	return h.state.Players[seat].Sets[colour][idx]
}

func (h *harness) engine() *Engine {
	return newEngine(h.state, h.opts, zaptest.NewLogger(h.t))
}

func submitAll(t *testing.T, e *Engine, choices ...rules.Choice) {
	t.Helper()
	for i, choice := range choices {
		require.NoError(t, e.Submit(choice), "choice %d at stage %s", i, e.Stage())
	}
}

func collectEvents(e *Engine) *[]rules.Event {
	var events []rules.Event
	e.Events().Subscribe(func(evt rules.Event) {
		events = append(events, evt)
	})
	return &events
}

func countEvents(events []rules.Event, eventType rules.EventType) int {
	n := 0
	for _, evt := range events {
		if evt.Type == eventType {
			n++
		}
	}
	return n
}
