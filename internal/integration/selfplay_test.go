package integration

import (
	"errors"
	"math/rand/v2"
	"os"
	"path/filepath"
	"testing"

	"github.com/magefree/deal-server-go/internal/config"
	"github.com/magefree/deal-server-go/internal/game"
	"github.com/magefree/deal-server-go/internal/game/cards"
	"github.com/magefree/deal-server-go/internal/game/rules"
	"github.com/magefree/deal-server-go/internal/game/watchers"
	"github.com/magefree/deal-server-go/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

const selfPlayConfig = `
game:
  players: 3
  names: [alice, bob, carol]
  catalog: standard
  settlement: interactive
  seed: 42
logging:
  level: debug
replay:
  max_turns: 60
`

func loadConfig(t *testing.T) *config.Config {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(selfPlayConfig), 0o644))

	cfg, err := config.Load(path)
	require.NoError(t, err)
	return cfg
}

// selfPlay samples uniformly from the legal choices until the game ends, the
// turn cap is hit or the deck runs dry.
func selfPlay(t *testing.T, e *game.Engine, seed uint64, maxTurns int) {
	t.Helper()
	rng := rand.New(rand.NewPCG(seed, 1))
	for e.Turn() <= maxTurns {
		if _, over := e.GameOver(); over {
			return
		}
		choices := e.Mask().Choices()
		require.NotEmpty(t, choices, "stage %s offered no choices", e.Stage())

		err := e.Submit(choices[rng.IntN(len(choices))])
		if errors.Is(err, rules.ErrDeckExhausted) {
			return
		}
		require.NoError(t, err)
	}
}

func TestSelfPlayReplayRoundTrip(t *testing.T) {
	logger := zaptest.NewLogger(t)
	cfg := loadConfig(t)

	opts, err := cfg.GameOptions()
	require.NoError(t, err)
	assert.Equal(t, rules.SettlementInteractive, opts.Settlement)

	engine, err := game.NewEngine(opts, logger)
	require.NoError(t, err)
	renders := 0
	engine.SetRenderer(game.RendererFunc(func(game.Snapshot) { renders++ }))

	selfPlay(t, engine, opts.Seed, cfg.Replay.MaxTurns)
	require.NotEmpty(t, engine.Accepted())
	assert.Equal(t, len(engine.Accepted()), renders)

	catalog, err := cards.ByName(opts.Catalog)
	require.NoError(t, err)
	assert.Equal(t, catalog.Size(), engine.Snapshot().CardCount())

	replay, err := engine.Replay()
	require.NoError(t, err)

	dir := t.TempDir()
	require.NoError(t, replay.SaveToFile(dir))
	loaded, err := game.LoadReplayFromFile(dir, engine.GameID())
	require.NoError(t, err)
	assert.Equal(t, replay.Size(), loaded.Size())
	require.NoError(t, loaded.Verify(logger))

	rebuilt, err := loaded.Rebuild(-1, logger)
	require.NoError(t, err)
	want, err := engine.Checksum()
	require.NoError(t, err)
	got, err := rebuilt.Checksum()
	require.NoError(t, err)
	assert.Equal(t, want, got)

	record, err := repository.NewMatchRecord(engine)
	require.NoError(t, err)
	assert.Equal(t, []string{"alice", "bob", "carol"}, record.Players)
	assert.Equal(t, len(engine.Accepted()), record.Choices)
	assert.Equal(t, uint64(42), record.Seed)
	assert.Equal(t, "interactive", record.Settlement)
	assert.Equal(t, want, record.Checksum)
}

func TestSelfPlayWatchersMatchEvents(t *testing.T) {
	cfg := loadConfig(t)
	opts, err := cfg.GameOptions()
	require.NoError(t, err)
	opts.Settlement = rules.SettlementAuto
	opts.Seed = 1234

	engine, err := game.NewEngine(opts, zaptest.NewLogger(t))
	require.NoError(t, err)

	committed := make(map[int]int)
	taken := 0
	engine.Events().Subscribe(func(evt rules.Event) {
		switch evt.Type {
		case rules.EventActionCommitted:
			committed[evt.Seat]++
		case rules.EventPropertyStolen, rules.EventPropertiesSwapped:
			taken++
		case rules.EventSetStolen:
			taken += evt.Amount
		}
	})

	selfPlay(t, engine, opts.Seed, cfg.Replay.MaxTurns)

	actions, ok := engine.Watchers().GetWatcher("ActionsWatcher").(*watchers.ActionsWatcher)
	require.True(t, ok)
	steals, ok := engine.Watchers().GetWatcher("StealWatcher").(*watchers.StealWatcher)
	require.True(t, ok)

	takenTotal, lostTotal := 0, 0
	for seat := 0; seat < opts.Players; seat++ {
		assert.Equal(t, committed[seat], actions.Total(seat), "seat %d", seat)
		takenTotal += steals.Taken(seat)
		lostTotal += steals.Lost(seat)
	}
	assert.Equal(t, taken, takenTotal)
	assert.Equal(t, takenTotal, lostTotal)
}

func TestSelfPlayIsDeterministic(t *testing.T) {
	cfg := loadConfig(t)
	opts, err := cfg.GameOptions()
	require.NoError(t, err)

	checksums := make([]string, 2)
	for i := range checksums {
		engine, err := game.NewEngine(opts, zaptest.NewLogger(t))
		require.NoError(t, err)
		selfPlay(t, engine, opts.Seed, 20)

		checksums[i], err = engine.Checksum()
		require.NoError(t, err)
	}
	assert.Equal(t, checksums[0], checksums[1])
}
