package rules

import (
	"errors"

	"github.com/magefree/deal-server-go/internal/game/deck"
)

var (
	// ErrIllegalChoice rejects a submission the current mask does not allow.
	// The game state is left untouched.
	ErrIllegalChoice = errors.New("illegal choice")

	// ErrDeckExhausted is fatal: a draw found both piles empty.
	ErrDeckExhausted = deck.ErrExhausted

	// ErrMissingTarget is fatal: a seat, colour, set or card referenced by
	// the context does not exist.
	ErrMissingTarget = errors.New("missing target")

	// ErrGameOver rejects submissions after a seat has won.
	ErrGameOver = errors.New("game over")
)

// IsFatal reports whether err leaves the game unusable.
func IsFatal(err error) bool {
	return errors.Is(err, ErrDeckExhausted) || errors.Is(err, ErrMissingTarget)
}
