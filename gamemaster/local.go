package gamemaster

import (
	"errors"
	"fmt"

	"chainreaction/communication"
	"chainreaction/game"
)

var (
	ErrGameOver    = errors.New("game is over - no moves allowed")
	ErrIllegalMove = errors.New("illegal move")
)

// Session is a game whose state lives behind a Communicator. Every move is saved, and the
// state is reloaded before each turn so another process may take part.
type Session struct {
	comm communication.Communicator
}

func NewSession(comm communication.Communicator) *Session {
	return &Session{comm: comm}
}

// Init starts a new rows x cols game and saves it as "Game Start".
func (s *Session) Init(rows, cols int) (*game.GameState, error) {
	gs := game.NewGameState(rows, cols)
	if err := s.comm.Save(gs, "Game Start"); err != nil {
		return nil, fmt.Errorf("failed to save new game: %w", err)
	}
	return gs, nil
}

// State loads the latest saved state.
func (s *Session) State() (*game.GameState, error) {
	snap, err := s.comm.Load()
	if err != nil {
		return nil, err
	}
	return snap.State, nil
}

// Play applies move for player on the latest saved state and saves the result under label.
func (s *Session) Play(move game.Move, player game.Player, label string) (*game.GameState, error) {
	gs, err := s.State()
	if err != nil {
		return nil, err
	}
	if gs.Over() {
		return gs, ErrGameOver
	}
	if !gs.MakeMove(move.Row, move.Col, player) {
		return gs, fmt.Errorf("%w: %s at %s", ErrIllegalMove, player, move)
	}
	if err := s.comm.Save(gs, label); err != nil {
		return nil, fmt.Errorf("failed to save move: %w", err)
	}
	return gs, nil
}

// Finish saves the final state as "Game Over".
func (s *Session) Finish() (*game.GameState, error) {
	gs, err := s.State()
	if err != nil {
		return nil, err
	}
	if err := s.comm.Save(gs, "Game Over"); err != nil {
		return nil, fmt.Errorf("failed to save final state: %w", err)
	}
	return gs, nil
}
