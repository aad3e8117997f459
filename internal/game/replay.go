package game

import (
	"compress/gzip"
	"encoding/gob"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/magefree/deal-server-go/internal/game/rules"
	"go.uber.org/zap"
)

// ErrReplayMismatch is returned when a replayed game diverges from the
// recording.
var ErrReplayMismatch = errors.New("replay diverged from recording")

const replayVersion = 1

// Replay is a recorded game: the options it was built with (seed included)
// and every accepted choice. Re-running the choices reproduces the game
// exactly.
type Replay struct {
	GameID   string
	Options  Options
	Choices  []rules.Choice
	Checksum string // checksum after the last choice
	mu       sync.RWMutex
}

// NewReplay creates an empty replay for a game.
func NewReplay(gameID string, opts Options) *Replay {
	return &Replay{
		GameID:  gameID,
		Options: opts,
		Choices: make([]rules.Choice, 0),
	}
}

// Replay returns the recording of the game so far.
func (e *Engine) Replay() (*Replay, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	checksum, err := computeChecksum(e.state)
	if err != nil {
		return nil, err
	}
	r := NewReplay(e.gameID, e.opts)
	r.Choices = append(r.Choices, e.accepted...)
	r.Checksum = checksum
	return r, nil
}

// RecordChoice appends an accepted choice.
func (r *Replay) RecordChoice(choice rules.Choice) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.Choices = append(r.Choices, choice)
}

// Size returns the number of recorded choices.
func (r *Replay) Size() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.Choices)
}

// Rebuild creates a fresh engine from the recorded options and submits the
// first n choices. A negative n submits all of them.
func (r *Replay) Rebuild(n int, logger *zap.Logger) (*Engine, error) {
	r.mu.RLock()
	choices := append([]rules.Choice(nil), r.Choices...)
	opts := r.Options
	r.mu.RUnlock()

	if opts.Seed == 0 {
		return nil, fmt.Errorf("replay %s has no seed", r.GameID)
	}
	if n < 0 || n > len(choices) {
		n = len(choices)
	}

	e, err := NewEngine(opts, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to rebuild engine: %w", err)
	}
	for i, choice := range choices[:n] {
		if err := e.Submit(choice); err != nil {
			return nil, fmt.Errorf("%w: choice %d: %v", ErrReplayMismatch, i, err)
		}
	}
	return e, nil
}

// Verify re-runs the whole recording and compares the final checksum.
func (r *Replay) Verify(logger *zap.Logger) error {
	e, err := r.Rebuild(-1, logger)
	if err != nil {
		return err
	}
	got, err := e.Checksum()
	if err != nil {
		return err
	}
	if r.Checksum != "" && got != r.Checksum {
		return fmt.Errorf("%w: checksum %s, recorded %s", ErrReplayMismatch, got, r.Checksum)
	}

	if logger != nil {
		logger.Info("replay verified",
			zap.String("game_id", r.GameID),
			zap.Int("choices", r.Size()),
			zap.String("checksum", got),
		)
	}
	return nil
}

// replayMetadata heads a saved replay file.
type replayMetadata struct {
	GameID      string
	Timestamp   time.Time
	Version     int
	Options     Options
	Checksum    string
	ChoiceCount int
}

// Filename returns the path a replay for gameID is saved under.
func Filename(directory, gameID string) string {
	return filepath.Join(directory, fmt.Sprintf("%s.replay", gameID))
}

// SaveToFile writes the replay to <directory>/<game id>.replay as gob over
// gzip.
func (r *Replay) SaveToFile(directory string) error {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if err := os.MkdirAll(directory, 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	file, err := os.Create(Filename(directory, r.GameID))
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer file.Close()

	gzipWriter := gzip.NewWriter(file)
	defer gzipWriter.Close()

	encoder := gob.NewEncoder(gzipWriter)
	metadata := replayMetadata{
		GameID:      r.GameID,
		Timestamp:   time.Now(),
		Version:     replayVersion,
		Options:     r.Options,
		Checksum:    r.Checksum,
		ChoiceCount: len(r.Choices),
	}
	if err := encoder.Encode(&metadata); err != nil {
		return fmt.Errorf("failed to encode metadata: %w", err)
	}
	for i, choice := range r.Choices {
		if err := encoder.Encode(choice); err != nil {
			return fmt.Errorf("failed to encode choice %d: %w", i, err)
		}
	}
	return nil
}

// LoadReplayFromFile reads a replay written by SaveToFile.
func LoadReplayFromFile(directory, gameID string) (*Replay, error) {
	file, err := os.Open(Filename(directory, gameID))
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	gzipReader, err := gzip.NewReader(file)
	if err != nil {
		return nil, fmt.Errorf("failed to create gzip reader: %w", err)
	}
	defer gzipReader.Close()

	decoder := gob.NewDecoder(gzipReader)

	var metadata replayMetadata
	if err := decoder.Decode(&metadata); err != nil {
		return nil, fmt.Errorf("failed to decode metadata: %w", err)
	}
	if metadata.Version != replayVersion {
		return nil, fmt.Errorf("unsupported replay version: %d", metadata.Version)
	}

	replay := NewReplay(metadata.GameID, metadata.Options)
	replay.Checksum = metadata.Checksum
	for i := 0; i < metadata.ChoiceCount; i++ {
		var choice rules.Choice
		if err := decoder.Decode(&choice); err != nil {
			return nil, fmt.Errorf("failed to decode choice %d: %w", i, err)
		}
		replay.Choices = append(replay.Choices, choice)
	}
	return replay, nil
}
