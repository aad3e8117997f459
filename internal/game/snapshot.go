package game

import (
	"fmt"
	"strings"

	"github.com/magefree/deal-server-go/internal/game/cards"
	"github.com/magefree/deal-server-go/internal/game/player"
	"github.com/magefree/deal-server-go/internal/game/rules"
)

// Snapshot is a read-only deep copy of the game for renderers and tests.
// Mutating it has no effect on the engine.
type Snapshot struct {
	GameID       string
	Turn         int
	ActiveSeat   int
	DecidingSeat int
	Stage        rules.Stage
	Context      rules.ActionContext
	ActionsLeft  []int
	Winner       int
	Players      []*player.State
	DrawPile     int
	Discard      []cards.Card
}

// Snapshot copies the current state.
func (e *Engine) Snapshot() Snapshot {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.snapshotLocked()
}

func (e *Engine) snapshotLocked() Snapshot {
	s := e.state.Clone()
	return Snapshot{
		GameID:       e.gameID,
		Turn:         s.Order.Turn,
		ActiveSeat:   s.Order.Active(),
		DecidingSeat: s.DecidingSeat(),
		Stage:        s.Context.Stage,
		Context:      s.Context,
		ActionsLeft:  s.ActionsLeft,
		Winner:       s.Winner,
		Players:      s.Players,
		DrawPile:     len(s.Deck.Draw),
		Discard:      s.Deck.Discard,
	}
}

// CardCount counts every card the snapshot accounts for.
func (s Snapshot) CardCount() int {
	n := s.DrawPile + len(s.Discard)
	for _, p := range s.Players {
		n += p.CardCount()
	}
	return n
}

// String renders the snapshot as a few lines of text.
func (s Snapshot) String() string {
	var buf strings.Builder
	fmt.Fprintf(&buf, "turn %d seat %d %s", s.Turn, s.ActiveSeat, s.Stage)
	if s.Context.Kind != rules.ActionNone {
		fmt.Fprintf(&buf, " (%s)", s.Context.Kind)
	}
	if s.Winner != rules.NoSelection {
		fmt.Fprintf(&buf, " won by seat %d", s.Winner)
	}
	buf.WriteString("\n")
	for _, p := range s.Players {
		fmt.Fprintf(&buf, "  %s actions=%d\n", p, s.ActionsLeft[p.Seat])
		for _, card := range p.Hand {
			fmt.Fprintf(&buf, "    hand %s\n", card.Describe())
		}
		for _, colour := range cards.BoardColours() {
			for i, set := range p.Sets[colour] {
				if set.IsEmpty() {
					continue
				}
				fmt.Fprintf(&buf, "    %s[%d] %v completed=%t rent=%d\n", colour, i, set.IDs(), set.IsCompleted(), set.Rent())
			}
		}
	}
	fmt.Fprintf(&buf, "  draw=%d discard=%d", s.DrawPile, len(s.Discard))
	return buf.String()
}
