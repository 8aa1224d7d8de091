package game

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFormat(t *testing.T) {
	t.Run("new game", func(t *testing.T) {
		gs := NewGameState(2, 3)

		want := "Game Start:\n" +
			"LastPlayer: Blue\n" +
			"MoveCount: 0\n" +
			"GameOver: False\n" +
			"Board:\n" +
			"⚫ ⚫ ⚫\n" +
			"⚫ ⚫ ⚫"
		require.Equal(t, want, gs.Format("Game Start"))
	})

	t.Run("game in progress", func(t *testing.T) {
		gs := scenarioA(t)

		want := "Human Move:\n" +
			"LastPlayer: Red\n" +
			"MoveCount: 3\n" +
			"GameOver: False\n" +
			"Board:\n" +
			"⚫ 🔴1 ⚫\n" +
			"🔴1 ⚫ ⚫\n" +
			"⚫ ⚫ 🔵1"
		require.Equal(t, want, gs.Format("Human Move"))
	})

	t.Run("finished game names the winner", func(t *testing.T) {
		gs := scenarioB(t)

		text := gs.Format("Game Over")
		require.Contains(t, text, "GameOver: True\nWinner: Red\nBoard:")
		require.Contains(t, text, "LastPlayer: Blue", "The winner keeps the turn so the last mover reads as its opponent")
	})

	t.Run("writer", func(t *testing.T) {
		gs := scenarioA(t)
		var buf bytes.Buffer

		require.NoError(t, WriteSnapshot(&buf, gs, "AI Smart Move"))
		require.Equal(t, gs.Format("AI Smart Move"), buf.String())
	})
}

func TestParseSnapshotRoundTrip(t *testing.T) {
	for name, gs := range map[string]*GameState{
		"new":      NewGameState(4, 3),
		"scenario": scenarioA(t),
		"finished": scenarioB(t),
	} {
		t.Run(name, func(t *testing.T) {
			snap, err := ReadSnapshot(strings.NewReader(gs.Format("Move Processed")))
			require.NoError(t, err)

			require.Equal(t, "Move Processed", snap.Label)
			require.Equal(t, gs.Rows(), snap.State.Rows())
			require.Equal(t, gs.Cols(), snap.State.Cols())
			require.Equal(t, gs.Key(), snap.State.Key(), "Grid and side to move should survive the round trip")
			require.Equal(t, gs.CurrentPlayer(), snap.State.CurrentPlayer())
			require.Equal(t, gs.MoveCount(), snap.State.MoveCount())
			require.Equal(t, gs.Over(), snap.State.Over())
			require.Equal(t, gs.Winner(), snap.State.Winner())
		})
	}
}

func TestParseSnapshot(t *testing.T) {
	t.Run("glyph without a count holds one orb", func(t *testing.T) {
		snap, err := ParseSnapshot("State:\nBoard:\n🔴 ⚫\n⚫ 🔵3")
		require.NoError(t, err)

		require.Equal(t, Cell{Orbs: 1, Owner: Red}, snap.State.Cell(0, 0))
		require.Equal(t, Cell{Orbs: 3, Owner: Blue}, snap.State.Cell(1, 1))
	})

	t.Run("legacy numeric tokens", func(t *testing.T) {
		snap, err := ParseSnapshot("Legacy:\n0 2R 0\n1B 0 0\n0 0 0")
		require.NoError(t, err)

		require.Equal(t, Cell{Orbs: 2, Owner: Red}, snap.State.Cell(0, 1))
		require.Equal(t, Cell{Orbs: 1, Owner: Blue}, snap.State.Cell(1, 0))
		require.Equal(t, Cell{}, snap.State.Cell(2, 2))
	})

	t.Run("without a header the turn is derived from the orbs", func(t *testing.T) {
		snap, err := ParseSnapshot("Game State:\n🔴1 ⚫ ⚫\n⚫ ⚫ ⚫\n⚫ ⚫ 🔵2")
		require.NoError(t, err)

		require.Equal(t, 3, snap.State.MoveCount())
		require.Equal(t, Blue, snap.State.CurrentPlayer(), "Odd totals mean Blue moves")

		snap, err = ParseSnapshot("Game State:\nBoard:\n🔴1 ⚫\n⚫ 🔵1")
		require.NoError(t, err)
		require.Equal(t, 2, snap.State.MoveCount())
		require.Equal(t, Red, snap.State.CurrentPlayer())
	})

	t.Run("header move count is trusted and the last player decides the turn", func(t *testing.T) {
		text := "Human Move:\nLastPlayer: Blue\nMoveCount: 12\nBoard:\n🔴1 ⚫\n⚫ 🔵1"
		snap, err := ParseSnapshot(text)
		require.NoError(t, err)

		require.Equal(t, 12, snap.State.MoveCount())
		require.Equal(t, Red, snap.State.CurrentPlayer())

		snap, err = ParseSnapshot(strings.Replace(text, "LastPlayer: Blue", "LastPlayer: RED", 1))
		require.NoError(t, err)
		require.Equal(t, Blue, snap.State.CurrentPlayer(), "Player names are matched without case")
	})

	t.Run("header without last player falls back to the board", func(t *testing.T) {
		snap, err := ParseSnapshot("Game State:\nMoveCount: 40\nBoard:\n🔴1 ⚫\n⚫ ⚫")
		require.NoError(t, err)

		require.Equal(t, 1, snap.State.MoveCount())
		require.Equal(t, Blue, snap.State.CurrentPlayer())
	})

	t.Run("outcome is re-derived from the board", func(t *testing.T) {
		lying := "Game Over:\nLastPlayer: Red\nMoveCount: 5\nGameOver: True\nWinner: Red\nBoard:\n🔴1 ⚫\n⚫ 🔵1"
		snap, err := ParseSnapshot(lying)
		require.NoError(t, err)
		require.False(t, snap.State.Over())
		require.Equal(t, None, snap.State.Winner())

		hiding := "Move:\nLastPlayer: Blue\nMoveCount: 5\nGameOver: False\nBoard:\n⚫ ⚫\n⚫ 🔵5"
		snap, err = ParseSnapshot(hiding)
		require.NoError(t, err)
		require.True(t, snap.State.Over())
		require.Equal(t, Blue, snap.State.Winner())
	})

	t.Run("request fields are collected", func(t *testing.T) {
		text := "Human Move Request:\nPlayer: RED\nRow: 1\nCol: 0\nLastPlayer: Blue\nMoveCount: 0\nGameOver: False\nBoard:\n⚫ ⚫\n⚫ ⚫"
		snap, err := ParseSnapshot(text)
		require.NoError(t, err)

		require.Equal(t, "Human Move Request", snap.Label)
		player, ok := snap.Field(KeyPlayer)
		require.True(t, ok)
		require.Equal(t, "RED", player)
		row, _ := snap.Field(KeyRow)
		require.Equal(t, "1", row)
		_, ok = snap.Field(KeyWinner)
		require.False(t, ok)
		require.Equal(t, Red, snap.State.CurrentPlayer())
	})

	t.Run("AI move request line after the board", func(t *testing.T) {
		gs := scenarioA(t)
		snap, err := ParseSnapshot(gs.Format("Move Processed") + "\nAI_MOVE_REQUEST:Blue")
		require.NoError(t, err)

		require.Equal(t, "Move Processed", snap.Label)
		require.True(t, snap.AIMoveRequested())
		side, ok := snap.Field(KeyAIMoveRequest)
		require.True(t, ok)
		require.Equal(t, "Blue", side)
		require.Equal(t, gs.Key(), snap.State.Key())
		require.Equal(t, 3, snap.State.Rows())
	})

	t.Run("AI move request as the label", func(t *testing.T) {
		snap, err := ParseSnapshot("AI_MOVE_REQUEST:Red\nBoard:\n🔴1 ⚫\n⚫ ⚫")
		require.NoError(t, err)
		require.Equal(t, KeyAIMoveRequest, snap.Label)
		require.True(t, snap.AIMoveRequested())

		snap, err = ParseSnapshot(NewGameState(2, 2).Format(KeyAIMoveRequest))
		require.NoError(t, err)
		require.True(t, snap.AIMoveRequested())

		snap, err = ParseSnapshot(NewGameState(2, 2).Format("Move Processed"))
		require.NoError(t, err)
		require.False(t, snap.AIMoveRequested())
	})

	t.Run("windows line endings and surrounding blank lines", func(t *testing.T) {
		snap, err := ParseSnapshot("\r\nState:\r\nBoard:\r\n🔴1 ⚫\r\n⚫ ⚫\r\n\r\n")
		require.NoError(t, err)
		require.Equal(t, Cell{Orbs: 1, Owner: Red}, snap.State.Cell(0, 0))
	})
}

func TestParseSnapshotErrors(t *testing.T) {
	for name, text := range map[string]string{
		"empty":                  "   \n",
		"header only":            "State:\nLastPlayer: Red\nMoveCount: 1",
		"no rows after board":    "State:\nBoard:\n",
		"inconsistent rows":      "State:\nBoard:\n⚫ ⚫ ⚫\n⚫ ⚫",
		"unknown token":          "State:\nBoard:\n⚫ X\n⚫ ⚫",
		"owned cell with zero":   "State:\nBoard:\n🔴0 ⚫\n⚫ ⚫",
		"legacy without count":   "State:\nBoard:\nR 0\n0 0",
		"bad orb count":          "State:\nBoard:\n🔵x ⚫\n⚫ ⚫",
		"bad move count":         "State:\nMoveCount: many\nBoard:\n⚫ ⚫\n⚫ ⚫",
		"board smaller than 2x2": "State:\nBoard:\n⚫ ⚫",
	} {
		t.Run(name, func(t *testing.T) {
			snap, err := ParseSnapshot(text)

			require.Nil(t, snap)
			var parseErr *ParseError
			require.True(t, errors.As(err, &parseErr), "expected a ParseError, got %v", err)
			require.False(t, errors.Is(err, ErrNotFound))
		})
	}

	t.Run("line numbers point at the bad row", func(t *testing.T) {
		_, err := ParseSnapshot("State:\nBoard:\n⚫ ⚫\n⚫ ?")

		var parseErr *ParseError
		require.ErrorAs(t, err, &parseErr)
		require.Equal(t, 4, parseErr.Line)
		require.Contains(t, err.Error(), "line 4")
	})

	t.Run("line numbers skip a request line", func(t *testing.T) {
		_, err := ParseSnapshot("State:\nBoard:\nAI_MOVE_REQUEST:Red\n⚫ ⚫\n⚫ ?")

		var parseErr *ParseError
		require.ErrorAs(t, err, &parseErr)
		require.Equal(t, 5, parseErr.Line)
	})
}

func TestCellString(t *testing.T) {
	require.Equal(t, "⚫", Cell{}.String())
	require.Equal(t, "🔴1", Cell{Orbs: 1, Owner: Red}.String())
	require.Equal(t, "🔵12", Cell{Orbs: 12, Owner: Blue}.String())
}
