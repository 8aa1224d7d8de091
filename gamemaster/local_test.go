package gamemaster

import (
	"fmt"
	"strings"
	"testing"

	"chainreaction/game"

	"github.com/stretchr/testify/require"
)

// memoryCommunicator keeps the latest snapshot as text, like the state file.
type memoryCommunicator struct {
	content string
	labels  []string
}

func (m *memoryCommunicator) Load() (*game.Snapshot, error) {
	if m.content == "" {
		return nil, fmt.Errorf("%w: memory is empty", game.ErrNotFound)
	}
	return game.ParseSnapshot(m.content)
}

func (m *memoryCommunicator) Save(gs *game.GameState, label string) error {
	m.content = gs.Format(label)
	m.labels = append(m.labels, label)
	return nil
}

func (m *memoryCommunicator) label() string {
	return strings.TrimSuffix(strings.SplitN(m.content, "\n", 2)[0], ":")
}

func TestSession(t *testing.T) {
	t.Run("init saves the start", func(t *testing.T) {
		comm := &memoryCommunicator{}
		gs, err := NewSession(comm).Init(3, 4)

		require.NoError(t, err)
		require.Equal(t, 3, gs.Rows())
		require.Equal(t, "Game Start", comm.label())
	})

	t.Run("play reloads and saves", func(t *testing.T) {
		comm := &memoryCommunicator{}
		s := NewSession(comm)
		_, err := s.Init(3, 3)
		require.NoError(t, err)

		_, err = s.Play(game.Move{Row: 0, Col: 0}, game.Red, "Human Move (Red)")
		require.NoError(t, err)

		// Another process moves in between
		other := game.NewGameState(3, 3)
		require.True(t, other.MakeMove(0, 0, game.Red))
		require.True(t, other.MakeMove(2, 2, game.Blue))
		require.NoError(t, comm.Save(other, "Move Processed"))

		gs, err := s.Play(game.Move{Row: 0, Col: 0}, game.Red, "Human Move (Red)")
		require.NoError(t, err)
		require.Equal(t, 3, gs.MoveCount())
		require.Equal(t, game.Cell{Orbs: 1, Owner: game.Blue}, gs.Cell(2, 2))
		require.Equal(t, []string{"Game Start", "Human Move (Red)", "Move Processed", "Human Move (Red)"}, comm.labels)
	})

	t.Run("illegal move is not saved", func(t *testing.T) {
		comm := &memoryCommunicator{}
		s := NewSession(comm)
		_, err := s.Init(3, 3)
		require.NoError(t, err)
		_, err = s.Play(game.Move{Row: 1, Col: 1}, game.Red, "Human Move")
		require.NoError(t, err)

		_, err = s.Play(game.Move{Row: 1, Col: 1}, game.Blue, "Human Move")
		require.ErrorIs(t, err, ErrIllegalMove)
		_, err = s.Play(game.Move{Row: 5, Col: 1}, game.Blue, "Human Move")
		require.ErrorIs(t, err, ErrIllegalMove)
		require.Len(t, comm.labels, 2)
	})

	t.Run("no moves after the game is over", func(t *testing.T) {
		comm := &memoryCommunicator{}
		require.NoError(t, comm.Save(game.NewGameState(2, 2), "Game Start"))
		s := NewSession(comm)
		for _, m := range []game.Move{{Row: 0, Col: 0}, {Row: 1, Col: 1}, {Row: 0, Col: 0}, {Row: 1, Col: 1}} {
			gs, err := s.State()
			require.NoError(t, err)
			_, err = s.Play(m, gs.CurrentPlayer(), "Move")
			require.NoError(t, err)
		}

		_, err := s.Play(game.Move{Row: 0, Col: 0}, game.Red, "Move")
		require.ErrorIs(t, err, ErrGameOver)

		gs, err := s.Finish()
		require.NoError(t, err)
		require.True(t, gs.Over())
		require.Equal(t, game.Blue, gs.Winner())
		require.Equal(t, "Game Over", comm.label())
	})

	t.Run("nothing saved yet", func(t *testing.T) {
		_, err := NewSession(&memoryCommunicator{}).State()
		require.ErrorIs(t, err, game.ErrNotFound)
	})
}
