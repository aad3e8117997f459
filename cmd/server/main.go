package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"math/rand/v2"
	"os"
	"os/signal"
	"syscall"

	"github.com/magefree/deal-server-go/internal/config"
	"github.com/magefree/deal-server-go/internal/game"
	"github.com/magefree/deal-server-go/internal/game/rules"
	"github.com/magefree/deal-server-go/internal/game/watchers"
	"github.com/magefree/deal-server-go/internal/repository"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	configPath = flag.String("config", "config/config.yaml", "path to configuration file")
	games      = flag.Int("games", 1, "number of self-play games to run")
	verify     = flag.Bool("verify", false, "re-run each saved replay and compare checksums")
	recent     = flag.Int("recent", 0, "log the latest archived matches after playing")
	version    = "dev" // set via ldflags during build
)

func main() {
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger, err := initLogger(cfg.Logging)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("starting deal self-play driver",
		zap.String("version", version),
		zap.String("config", *configPath),
		zap.Int("games", *games),
	)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	var store *repository.MatchStore
	if cfg.Database.Enabled() {
		db, err := repository.NewDB(ctx, cfg.Database, logger)
		if err != nil {
			logger.Fatal("failed to connect to database", zap.Error(err))
		}
		defer db.Close()

		store = repository.NewMatchStore(db, logger)
		if err := store.EnsureSchema(ctx); err != nil {
			logger.Fatal("failed to prepare match archive", zap.Error(err))
		}
	} else {
		logger.Info("database url not configured; match archive disabled")
	}

	opts, err := cfg.GameOptions()
	if err != nil {
		logger.Fatal("invalid game options", zap.Error(err))
	}

	for i := 0; i < *games; i++ {
		if ctx.Err() != nil {
			break
		}
		if err := runGame(ctx, cfg, opts, store, logger); err != nil {
			logger.Error("self-play game failed", zap.Int("game", i), zap.Error(err))
		}
		// Only the first game uses a configured seed.
		opts.Seed = 0
	}

	if store != nil && *recent > 0 {
		if err := logRecent(ctx, store, *recent, logger); err != nil {
			logger.Error("failed to list archived matches", zap.Error(err))
		}
	}

	logger.Info("deal self-play driver stopped")
}

// runGame plays one game by sampling uniformly from the legal choices of
// every stage until a seat wins, the turn cap is hit or the context ends.
func runGame(ctx context.Context, cfg *config.Config, opts game.Options, store *repository.MatchStore, logger *zap.Logger) error {
	engine, err := game.NewEngine(opts, logger)
	if err != nil {
		return err
	}
	engine.SetRenderer(game.NewLogRenderer(logger))

	rng := rand.New(rand.NewPCG(engine.Options().Seed, uint64(opts.Players)))
	for engine.Turn() <= cfg.Replay.MaxTurns {
		if _, over := engine.GameOver(); over || ctx.Err() != nil {
			break
		}
		choices := engine.Mask().Choices()
		if len(choices) == 0 {
			return fmt.Errorf("no legal choice at stage %s", engine.Stage())
		}
		if err := engine.Submit(choices[rng.IntN(len(choices))]); err != nil {
			if errors.Is(err, rules.ErrDeckExhausted) {
				logger.Warn("deck exhausted; ending game", zap.String("game_id", engine.GameID()))
				break
			}
			return err
		}
	}

	winner, over := engine.GameOver()
	fields := []zap.Field{
		zap.String("game_id", engine.GameID()),
		zap.Bool("won", over),
		zap.Int("turns", engine.Turn()),
		zap.Int("choices", len(engine.Accepted())),
	}
	if over {
		fields = append(fields, zap.Int("winner", winner))
	}
	if w, ok := engine.Watchers().GetWatcher("StealWatcher").(*watchers.StealWatcher); ok && over {
		fields = append(fields, zap.Int("winner_steals", w.Taken(winner)))
	}
	logger.Info("self-play game finished", fields...)

	if cfg.Replay.Directory != "" {
		replay, err := engine.Replay()
		if err != nil {
			return err
		}
		if err := replay.SaveToFile(cfg.Replay.Directory); err != nil {
			return err
		}
		logger.Info("saved replay",
			zap.String("path", game.Filename(cfg.Replay.Directory, engine.GameID())),
		)
		if *verify {
			loaded, err := game.LoadReplayFromFile(cfg.Replay.Directory, engine.GameID())
			if err != nil {
				return err
			}
			if err := loaded.Verify(logger); err != nil {
				return err
			}
		}
	}

	if store != nil {
		record, err := repository.NewMatchRecord(engine)
		if err != nil {
			return err
		}
		if err := store.Save(ctx, record); err != nil {
			return err
		}
	}
	return nil
}

func logRecent(ctx context.Context, store *repository.MatchStore, limit int, logger *zap.Logger) error {
	matches, err := store.Recent(ctx, limit)
	if err != nil {
		return err
	}
	for _, m := range matches {
		fields := []zap.Field{
			zap.String("game_id", m.GameID),
			zap.Strings("players", m.Players),
			zap.Int("turns", m.Turns),
			zap.Time("finished_at", m.FinishedAt),
		}
		if m.HasWinner() {
			fields = append(fields, zap.Int("winner", m.Winner))
		}
		logger.Info("archived match", fields...)
	}
	return nil
}

// initLogger initializes the zap logger based on configuration
func initLogger(cfg config.LoggingConfig) (*zap.Logger, error) {
	var level zapcore.Level
	switch cfg.Level {
	case "debug":
		level = zapcore.DebugLevel
	case "info":
		level = zapcore.InfoLevel
	case "warn":
		level = zapcore.WarnLevel
	case "error":
		level = zapcore.ErrorLevel
	default:
		level = zapcore.InfoLevel
	}

	var zapCfg zap.Config
	if cfg.Format == "json" {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
		zapCfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}

	zapCfg.Level = zap.NewAtomicLevelAt(level)

	return zapCfg.Build()
}
