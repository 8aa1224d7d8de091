package communication

import "chainreaction/game"

// Communicator is an interface that abstracts where game snapshots are exchanged.
type Communicator interface {
	// Load returns the latest snapshot, or an error wrapping game.ErrNotFound if there is none.
	Load() (*game.Snapshot, error)
	// Save publishes gs under label, replacing the previous snapshot.
	Save(gs *game.GameState, label string) error
}
