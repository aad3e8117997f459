// Package config loads the server configuration from an optional YAML file
// and DEAL_* environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/magefree/deal-server-go/internal/game"
	"github.com/magefree/deal-server-go/internal/game/cards"
	"github.com/magefree/deal-server-go/internal/game/rules"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override, e.g. DEAL_GAME_PLAYERS.
const EnvPrefix = "DEAL"

// Config is the complete server configuration.
type Config struct {
	Game     GameConfig     `mapstructure:"game"`
	Logging  LoggingConfig  `mapstructure:"logging"`
	Database DatabaseConfig `mapstructure:"database"`
	Replay   ReplayConfig   `mapstructure:"replay"`
}

// GameConfig holds the table rules.
type GameConfig struct {
	Players        int      `mapstructure:"players"`
	Names          []string `mapstructure:"names"`
	Catalog        string   `mapstructure:"catalog"`
	Settlement     string   `mapstructure:"settlement"`
	ActionsPerTurn int      `mapstructure:"actions_per_turn"`
	StartingHand   int      `mapstructure:"starting_hand"`
	DrawPerTurn    int      `mapstructure:"draw_per_turn"`
	SetsToWin      int      `mapstructure:"sets_to_win"`
	Seed           uint64   `mapstructure:"seed"`
}

// LoggingConfig selects the log level and encoding.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// DatabaseConfig points at the match archive. An empty URL disables it.
type DatabaseConfig struct {
	URL            string        `mapstructure:"url"`
	MaxConns       int32         `mapstructure:"max_conns"`
	ConnectTimeout time.Duration `mapstructure:"connect_timeout"`
}

// Enabled reports whether an archive database is configured.
func (c DatabaseConfig) Enabled() bool {
	return c.URL != ""
}

// ReplayConfig controls replay files and the self-play driver's turn cap.
type ReplayConfig struct {
	Directory string `mapstructure:"directory"`
	MaxTurns  int    `mapstructure:"max_turns"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("game.players", 4)
	v.SetDefault("game.names", []string{})
	v.SetDefault("game.catalog", cards.CatalogStandard)
	v.SetDefault("game.settlement", rules.SettlementAuto.String())
	v.SetDefault("game.actions_per_turn", 3)
	v.SetDefault("game.starting_hand", 5)
	v.SetDefault("game.draw_per_turn", 2)
	v.SetDefault("game.sets_to_win", 3)
	v.SetDefault("game.seed", 0)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")

	v.SetDefault("database.url", "")
	v.SetDefault("database.max_conns", 4)
	v.SetDefault("database.connect_timeout", 5*time.Second)

	v.SetDefault("replay.directory", "")
	v.SetDefault("replay.max_turns", 500)
}

// Load reads the configuration. A missing file at path is not an error;
// defaults and environment overrides still apply.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			v.SetConfigFile(path)
			if err := v.ReadInConfig(); err != nil {
				return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
			}
		} else if !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("failed to stat config file %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects out-of-range values.
func (c *Config) Validate() error {
	if _, err := c.GameOptions(); err != nil {
		return fmt.Errorf("invalid game config: %w", err)
	}

	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid logging level %q", c.Logging.Level)
	}
	switch c.Logging.Format {
	case "json", "console":
	default:
		return fmt.Errorf("invalid logging format %q", c.Logging.Format)
	}

	if c.Database.Enabled() && c.Database.MaxConns < 1 {
		return fmt.Errorf("database max_conns must be positive, got %d", c.Database.MaxConns)
	}
	if c.Replay.MaxTurns < 1 {
		return fmt.Errorf("replay max_turns must be positive, got %d", c.Replay.MaxTurns)
	}
	return nil
}

// GameOptions maps the game section onto engine options.
func (c *Config) GameOptions() (game.Options, error) {
	settlement, err := rules.ParseSettlement(c.Game.Settlement)
	if err != nil {
		return game.Options{}, err
	}
	if _, err := cards.ByName(c.Game.Catalog); err != nil {
		return game.Options{}, err
	}

	opts := game.Options{
		Players:        c.Game.Players,
		Catalog:        c.Game.Catalog,
		Settlement:     settlement,
		ActionsPerTurn: c.Game.ActionsPerTurn,
		StartingHand:   c.Game.StartingHand,
		DrawPerTurn:    c.Game.DrawPerTurn,
		SetsToWin:      c.Game.SetsToWin,
		Seed:           c.Game.Seed,
	}
	if len(c.Game.Names) > 0 {
		opts.Names = append([]string(nil), c.Game.Names...)
	}
	if err := opts.Validate(); err != nil {
		return game.Options{}, err
	}
	return opts, nil
}
