package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/magefree/deal-server-go/internal/game"
	"github.com/magefree/deal-server-go/internal/game/rules"
	"go.uber.org/zap"
)

// ErrMatchNotFound is returned when no archived match has the requested id.
var ErrMatchNotFound = errors.New("match not found")

// Querier is the subset of pgxpool.Pool the store needs.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// MatchRecord summarizes one finished or abandoned match.
type MatchRecord struct {
	ID         uuid.UUID
	GameID     string
	Players    []string
	Winner     int // rules.NoSelection when nobody won
	Turns      int
	Choices    int
	Seed       uint64
	Catalog    string
	Settlement string
	Checksum   string
	FinishedAt time.Time
}

// NewMatchRecord summarizes the engine's current game.
func NewMatchRecord(e *game.Engine) (MatchRecord, error) {
	checksum, err := e.Checksum()
	if err != nil {
		return MatchRecord{}, err
	}
	snap := e.Snapshot()
	opts := e.Options()

	players := make([]string, len(snap.Players))
	for i, p := range snap.Players {
		players[i] = p.Name
	}
	winner, over := e.GameOver()
	if !over {
		winner = rules.NoSelection
	}

	return MatchRecord{
		ID:         uuid.New(),
		GameID:     e.GameID(),
		Players:    players,
		Winner:     winner,
		Turns:      snap.Turn,
		Choices:    len(e.Accepted()),
		Seed:       opts.Seed,
		Catalog:    opts.Catalog,
		Settlement: opts.Settlement.String(),
		Checksum:   checksum,
		FinishedAt: time.Now().UTC(),
	}, nil
}

// HasWinner reports whether the match ended with a winner.
func (m MatchRecord) HasWinner() bool {
	return m.Winner != rules.NoSelection
}

const schema = `
CREATE TABLE IF NOT EXISTS matches (
	id          UUID PRIMARY KEY,
	game_id     TEXT NOT NULL,
	players     TEXT[] NOT NULL,
	winner      INTEGER NOT NULL,
	turns       INTEGER NOT NULL,
	choices     INTEGER NOT NULL,
	seed        BIGINT NOT NULL,
	catalog     TEXT NOT NULL,
	settlement  TEXT NOT NULL,
	checksum    TEXT NOT NULL,
	finished_at TIMESTAMPTZ NOT NULL
)`

const matchColumns = `id, game_id, players, winner, turns, choices, seed, catalog, settlement, checksum, finished_at`

// MatchStore reads and writes archived matches.
type MatchStore struct {
	db     Querier
	logger *zap.Logger
}

// NewMatchStore creates a store over db.
func NewMatchStore(db Querier, logger *zap.Logger) *MatchStore {
	return &MatchStore{db: db, logger: logger}
}

// EnsureSchema creates the matches table if it is missing.
func (s *MatchStore) EnsureSchema(ctx context.Context) error {
	if _, err := s.db.Exec(ctx, schema); err != nil {
		return fmt.Errorf("failed to create matches table: %w", err)
	}
	return nil
}

// Save inserts a match record.
func (s *MatchStore) Save(ctx context.Context, m MatchRecord) error {
	if m.ID == uuid.Nil {
		return fmt.Errorf("match record for game %s has no id", m.GameID)
	}
	_, err := s.db.Exec(ctx,
		`INSERT INTO matches (`+matchColumns+`) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		m.ID, m.GameID, m.Players, m.Winner, m.Turns, m.Choices,
		int64(m.Seed), m.Catalog, m.Settlement, m.Checksum, m.FinishedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save match %s: %w", m.ID, err)
	}

	if s.logger != nil {
		s.logger.Info("archived match",
			zap.String("match_id", m.ID.String()),
			zap.String("game_id", m.GameID),
			zap.Int("winner", m.Winner),
			zap.Int("turns", m.Turns),
		)
	}
	return nil
}

// Get loads a match by id.
func (s *MatchStore) Get(ctx context.Context, id uuid.UUID) (MatchRecord, error) {
	row := s.db.QueryRow(ctx, `SELECT `+matchColumns+` FROM matches WHERE id = $1`, id)
	m, err := scanMatch(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return MatchRecord{}, fmt.Errorf("%w: %s", ErrMatchNotFound, id)
	}
	if err != nil {
		return MatchRecord{}, fmt.Errorf("failed to load match %s: %w", id, err)
	}
	return m, nil
}

// Recent returns the latest matches, newest first.
func (s *MatchStore) Recent(ctx context.Context, limit int) ([]MatchRecord, error) {
	rows, err := s.db.Query(ctx, `SELECT `+matchColumns+` FROM matches ORDER BY finished_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list matches: %w", err)
	}
	defer rows.Close()

	var out []MatchRecord
	for rows.Next() {
		m, err := scanMatch(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan match: %w", err)
		}
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list matches: %w", err)
	}
	return out, nil
}

func scanMatch(row pgx.Row) (MatchRecord, error) {
	var m MatchRecord
	var seed int64
	err := row.Scan(&m.ID, &m.GameID, &m.Players, &m.Winner, &m.Turns, &m.Choices,
		&seed, &m.Catalog, &m.Settlement, &m.Checksum, &m.FinishedAt)
	if err != nil {
		return MatchRecord{}, err
	}
	m.Seed = uint64(seed)
	return m, nil
}
