package rules

import (
	"fmt"
	"strings"

	"github.com/magefree/deal-server-go/internal/game/deck"
	"github.com/magefree/deal-server-go/internal/game/player"
)

// SettlementMode selects how debts are paid.
type SettlementMode int

const (
	// SettlementAuto picks the payment deterministically.
	SettlementAuto SettlementMode = iota
	// SettlementInteractive opens CHOOSE_PAYMENT for the payer.
	SettlementInteractive
)

func (m SettlementMode) String() string {
	if m == SettlementInteractive {
		return "interactive"
	}
	return "auto"
}

// ParseSettlement parses a configuration value.
func ParseSettlement(value string) (SettlementMode, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", "auto":
		return SettlementAuto, nil
	case "interactive":
		return SettlementInteractive, nil
	default:
		return SettlementAuto, fmt.Errorf("unknown settlement mode %q", value)
	}
}

// Settings are the table rules fixed for a game.
type Settings struct {
	ActionsPerTurn int
	DrawPerTurn    int
	SetsToWin      int
	Settlement     SettlementMode
}

// DefaultSettings returns the standard table rules.
func DefaultSettings() Settings {
	return Settings{
		ActionsPerTurn: 3,
		DrawPerTurn:    2,
		SetsToWin:      3,
		Settlement:     SettlementAuto,
	}
}

// GameState is the complete, explicit state of a game.
type GameState struct {
	Players     []*player.State
	Order       TurnOrder
	Deck        *deck.Deck
	Context     ActionContext
	ActionsLeft []int
	Settings    Settings
	Winner      int
	CatalogSize int
}

// Player returns the player at seat.
func (s *GameState) Player(seat int) (*player.State, error) {
	if seat < 0 || seat >= len(s.Players) {
		return nil, fmt.Errorf("%w: seat %d", ErrMissingTarget, seat)
	}
	return s.Players[seat], nil
}

// Actor returns the player constructing the current action.
func (s *GameState) Actor() *player.State {
	return s.Players[s.Context.Actor]
}

// Opponents returns the actor's opponents in seating order, starting after
// the actor.
func (s *GameState) Opponents() []int {
	return s.Order.After(s.Context.Actor)
}

// DecidingSeat returns the seat that must submit the next choice: the payer
// during CHOOSE_PAYMENT, otherwise the actor.
func (s *GameState) DecidingSeat() int {
	if s.Context.Stage == StageChoosePayment {
		if debt, ok := s.Context.CurrentDebt(); ok {
			return debt.From
		}
	}
	return s.Context.Actor
}

// CardCount counts every card in play: both piles plus every player's
// holdings.
func (s *GameState) CardCount() int {
	n := 0
	if s.Deck != nil {
		n += s.Deck.Size()
	}
	for _, p := range s.Players {
		n += p.CardCount()
	}
	return n
}

// Over reports whether a seat has won.
func (s *GameState) Over() bool {
	return s.Winner != NoSelection
}

// Clone deep-copies the state.
func (s *GameState) Clone() *GameState {
	out := &GameState{
		Players:     make([]*player.State, len(s.Players)),
		Order:       s.Order.Clone(),
		Context:     s.Context.Clone(),
		ActionsLeft: append([]int(nil), s.ActionsLeft...),
		Settings:    s.Settings,
		Winner:      s.Winner,
		CatalogSize: s.CatalogSize,
	}
	for i, p := range s.Players {
		out.Players[i] = p.Clone()
	}
	if s.Deck != nil {
		out.Deck = s.Deck.Clone()
	}
	return out
}
