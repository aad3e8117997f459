package game

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"sync"

	"github.com/google/uuid"
	"github.com/magefree/deal-server-go/internal/game/cards"
	"github.com/magefree/deal-server-go/internal/game/deck"
	"github.com/magefree/deal-server-go/internal/game/player"
	"github.com/magefree/deal-server-go/internal/game/rules"
	"github.com/magefree/deal-server-go/internal/game/watchers"
	"go.uber.org/zap"
)

const (
	MinPlayers = 2
	MaxPlayers = 5
)

// Options configures a new game.
type Options struct {
	Players        int
	Names          []string
	Catalog        string
	Settlement     rules.SettlementMode
	ActionsPerTurn int
	StartingHand   int
	DrawPerTurn    int
	SetsToWin      int
	// Seed drives every shuffle. Zero picks a random seed, which is then
	// recorded in the engine's options.
	Seed uint64
}

// DefaultOptions returns the standard four-player table.
func DefaultOptions() Options {
	return Options{
		Players:        4,
		Catalog:        cards.CatalogStandard,
		Settlement:     rules.SettlementAuto,
		ActionsPerTurn: 3,
		StartingHand:   5,
		DrawPerTurn:    2,
		SetsToWin:      3,
	}
}

// Validate checks the options for a playable table.
func (o Options) Validate() error {
	if o.Players < MinPlayers || o.Players > MaxPlayers {
		return fmt.Errorf("players must be between %d and %d, got %d", MinPlayers, MaxPlayers, o.Players)
	}
	if len(o.Names) > 0 && len(o.Names) != o.Players {
		return fmt.Errorf("got %d names for %d players", len(o.Names), o.Players)
	}
	if o.ActionsPerTurn < 1 {
		return fmt.Errorf("actions per turn must be positive, got %d", o.ActionsPerTurn)
	}
	if o.StartingHand < 0 || o.DrawPerTurn < 0 || o.SetsToWin < 0 {
		return fmt.Errorf("starting hand, draw per turn and sets to win must not be negative")
	}
	return nil
}

func (o Options) settings() rules.Settings {
	return rules.Settings{
		ActionsPerTurn: o.ActionsPerTurn,
		DrawPerTurn:    o.DrawPerTurn,
		SetsToWin:      o.SetsToWin,
		Settlement:     o.Settlement,
	}
}

func (o Options) seatName(seat int) string {
	if seat < len(o.Names) && o.Names[seat] != "" {
		return o.Names[seat]
	}
	return fmt.Sprintf("player-%d", seat)
}

// Engine runs one game. It is safe for concurrent use; submissions are
// serialized and readers never observe a half-applied commit.
type Engine struct {
	logger *zap.Logger
	mu     sync.RWMutex

	gameID string
	opts   Options
	state  *rules.GameState

	// fatal poisons the engine once a commit fails irrecoverably.
	fatal error

	bus      *rules.EventBus
	watchers *rules.WatcherRegistry
	renderer Renderer

	accepted []rules.Choice
}

// NewEngine builds the catalog, shuffles it, deals the starting hands and
// lets the first seat draw.
func NewEngine(opts Options, logger *zap.Logger) (*Engine, error) {
	if err := opts.Validate(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	catalog, err := cards.ByName(opts.Catalog)
	if err != nil {
		return nil, err
	}
	if opts.Seed == 0 {
		opts.Seed = rand.Uint64()
	}

	state := &rules.GameState{
		Players:     make([]*player.State, opts.Players),
		Order:       rules.NewTurnOrder(opts.Players),
		Deck:        deck.New(catalog, opts.Seed),
		ActionsLeft: make([]int, opts.Players),
		Settings:    opts.settings(),
		Winner:      rules.NoSelection,
		CatalogSize: catalog.Size(),
	}
	for seat := range state.Players {
		state.Players[seat] = player.New(seat, opts.seatName(seat))
		state.ActionsLeft[seat] = opts.ActionsPerTurn
	}

	var events []rules.Event
	for _, p := range state.Players {
		drawn, err := drawInto(state, p, opts.StartingHand)
		events = append(events, drawn...)
		if err != nil {
			return nil, fmt.Errorf("deal to seat %d: %w", p.Seat, err)
		}
	}
	first := state.Order.Active()
	drawn, err := drawInto(state, state.Players[first], opts.DrawPerTurn)
	events = append(events, drawn...)
	if err != nil {
		return nil, fmt.Errorf("opening draw: %w", err)
	}
	state.Context = rules.NewActionContext(first)

	e := newEngine(state, opts, logger)
	e.bus.PublishBatch(append([]rules.Event{rules.NewEvent(rules.EventGameStarted, first, rules.NoSelection)}, events...))

	if e.logger != nil {
		names := make([]string, len(state.Players))
		for i, p := range state.Players {
			names[i] = p.Name
		}
		e.logger.Info("deal engine started game",
			zap.String("game_id", e.gameID),
			zap.Strings("players", names),
			zap.String("catalog", catalog.Name),
			zap.Uint64("seed", opts.Seed),
			zap.String("settlement", opts.Settlement.String()),
		)
	}
	return e, nil
}

// newEngine wraps a prepared state.
func newEngine(state *rules.GameState, opts Options, logger *zap.Logger) *Engine {
	e := &Engine{
		logger:   logger,
		gameID:   uuid.NewString(),
		opts:     opts,
		state:    state,
		bus:      rules.NewEventBus(),
		watchers: rules.NewWatcherRegistry(),
	}
	watchers.RegisterDefaults(e.watchers)
	e.watchers.Attach(e.bus)
	return e
}

// GameID returns the engine's unique game id.
func (e *Engine) GameID() string {
	return e.gameID
}

// Options returns the options the game was built with, including the seed
// actually used.
func (e *Engine) Options() Options {
	return e.opts
}

// Events returns the bus the engine publishes to after each accepted
// submission.
func (e *Engine) Events() *rules.EventBus {
	return e.bus
}

// Watchers returns the engine's watcher registry.
func (e *Engine) Watchers() *rules.WatcherRegistry {
	return e.watchers
}

// SetRenderer installs a hook that receives a snapshot after every accepted
// submission. Pass nil to remove it.
func (e *Engine) SetRenderer(r Renderer) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.renderer = r
}

// Mask returns the legality of every candidate for the open stage.
func (e *Engine) Mask() rules.Mask {
	e.mu.RLock()
	defer e.mu.RUnlock()
	if e.fatal != nil {
		return rules.Mask{Stage: e.state.Context.Stage, Seat: rules.NoSelection}
	}
	return rules.ComputeMask(e.state)
}

// Stage returns the open decision stage.
func (e *Engine) Stage() rules.Stage {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.state.Context.Stage
}

// DecidingSeat returns the seat whose choice is awaited: the actor, or the
// payer while a debt is being settled.
func (e *Engine) DecidingSeat() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.state.DecidingSeat()
}

// GameOver reports the winning seat once the game has ended.
func (e *Engine) GameOver() (int, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.state.Winner, e.state.Over()
}

// Err returns the fatal error that stopped the engine, if any.
func (e *Engine) Err() error {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.fatal
}

// Submit validates choice against the open stage and applies it. An
// illegal choice is rejected with rules.ErrIllegalChoice and leaves the
// state untouched. Deck exhaustion and missing targets are fatal: the
// engine keeps returning that error.
func (e *Engine) Submit(choice rules.Choice) error {
	e.mu.Lock()

	if e.fatal != nil {
		err := e.fatal
		e.mu.Unlock()
		return err
	}
	if e.state.Over() {
		e.mu.Unlock()
		return fmt.Errorf("game %s won by seat %d: %w", e.gameID, e.state.Winner, rules.ErrGameOver)
	}

	before := e.state.Context
	next := e.state.Clone()
	events, err := advance(next, choice)
	if err != nil {
		if rules.IsFatal(err) {
			e.fatal = fmt.Errorf("game %s: %w", e.gameID, err)
			if e.logger != nil {
				e.logger.Error("fatal error committing action",
					zap.String("game_id", e.gameID),
					zap.String("kind", before.Kind.String()),
					zap.Int("actor", before.Actor),
					zap.Error(err),
				)
			}
			err = e.fatal
		}
		e.mu.Unlock()
		return err
	}

	e.state = next
	e.accepted = append(e.accepted, choice)
	e.logTransition(before, events)

	renderer := e.renderer
	var snap Snapshot
	if renderer != nil {
		snap = e.snapshotLocked()
	}
	e.mu.Unlock()

	e.bus.PublishBatch(events)
	if renderer != nil {
		renderer.Render(snap)
	}
	return nil
}

func (e *Engine) logTransition(before rules.ActionContext, events []rules.Event) {
	if e.logger == nil {
		return
	}
	for _, evt := range events {
		switch evt.Type {
		case rules.EventActionCommitted:
			e.logger.Debug("action committed",
				zap.String("game_id", e.gameID),
				zap.String("kind", evt.Kind.String()),
				zap.Int("actor", evt.Seat),
				zap.Int("turn", evt.Turn),
				zap.Int("actions_left", e.state.ActionsLeft[evt.Seat]),
			)
		case rules.EventTurnAdvanced:
			e.logger.Debug("seat changed",
				zap.String("game_id", e.gameID),
				zap.Int("from", before.Actor),
				zap.Int("to", evt.Seat),
				zap.Int("turn", evt.Turn),
			)
		case rules.EventGameWon:
			e.logger.Info("game won",
				zap.String("game_id", e.gameID),
				zap.Int("winner", evt.Seat),
				zap.Int("turn", evt.Turn),
				zap.Int("completed_sets", evt.Amount),
			)
		}
	}
}

// Accepted returns every choice the engine has accepted, in order.
func (e *Engine) Accepted() []rules.Choice {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return append([]rules.Choice(nil), e.accepted...)
}

// Turn returns the current turn number.
func (e *Engine) Turn() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.state.Order.Turn
}

// IsIllegal reports whether err is a rejected submission.
func IsIllegal(err error) bool {
	return errors.Is(err, rules.ErrIllegalChoice)
}
