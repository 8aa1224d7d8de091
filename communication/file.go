package communication

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"chainreaction/game"

	"github.com/rs/zerolog/log"
)

// FileCommunicator shares snapshots through a text file read and written by both sides.
type FileCommunicator struct {
	path string
}

func NewFileCommunicator(path string) *FileCommunicator {
	return &FileCommunicator{path: path}
}

func (fc *FileCommunicator) Path() string { return fc.path }

func (fc *FileCommunicator) Load() (*game.Snapshot, error) {
	f, err := os.Open(fc.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %w", game.ErrNotFound, err)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open game state: %w", err)
	}
	defer f.Close()

	snap, err := game.ReadSnapshot(f)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", fc.path, err)
	}
	return snap, nil
}

// Save writes to a temporary file in the same directory and renames it over the old snapshot,
// so readers never see a partial file.
func (fc *FileCommunicator) Save(gs *game.GameState, label string) error {
	dir := filepath.Dir(fc.path)
	tmp, err := os.CreateTemp(dir, filepath.Base(fc.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temporary game state: %w", err)
	}
	defer os.Remove(tmp.Name()) // No-op after a successful rename

	if err := game.WriteSnapshot(tmp, gs, label); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write game state: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write game state: %w", err)
	}
	if err := os.Rename(tmp.Name(), fc.path); err != nil {
		return fmt.Errorf("failed to replace game state: %w", err)
	}

	log.Debug().Str("path", fc.path).Msgf("saved %q after %d moves", label, gs.MoveCount())
	return nil
}
