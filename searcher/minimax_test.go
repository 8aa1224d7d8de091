package searcher

import (
	"math"
	"testing"
	"time"

	"chainreaction/game"

	"github.com/stretchr/testify/require"
	"golang.org/x/exp/rand"
)

/**
Tests alpha-beta minimax with a transposition table
- equivalence: same move and score as an exhaustive minimax without pruning or caching
- tactics: takes an immediate win
- budgets: node and time caps still produce a legal move
- isolation: the caller's state is never modified
*/

// plainMinimax explores the full tree on copies of the state, in the same move order and
// with the same tie-breaking as Minimax.
func plainMinimax(gs *game.GameState, player game.Player, h game.Heuristic, depth int, maximizing bool) (float64, game.Move, bool) {
	if depth == 0 || gs.Over() {
		if !gs.Over() {
			return h.Evaluate(gs, player), game.Move{}, false
		}
		switch gs.Winner() {
		case player:
			return WinScore, game.Move{}, false
		case game.None:
			return DrawScore, game.Move{}, false
		default:
			return LossScore, game.Move{}, false
		}
	}

	side := player
	if !maximizing {
		side = player.Opponent()
	}
	moves := gs.ValidMoves(side)
	if len(moves) == 0 {
		if side == player {
			return LossScore, game.Move{}, false
		}
		return WinScore, game.Move{}, false
	}
	orderMoves(gs, moves)

	best := math.Inf(-1)
	if !maximizing {
		best = math.Inf(1)
	}
	var bestMove game.Move
	for _, move := range moves {
		child := gs.Copy()
		child.MakeMove(move.Row, move.Col, side)
		score, _, _ := plainMinimax(child, player, h, depth-1, !maximizing)
		if (maximizing && score > best) || (!maximizing && score < best) {
			best, bestMove = score, move
		}
	}
	return best, bestMove, true
}

// randomPosition plays n random legal moves from an empty board.
func randomPosition(t *testing.T, rng *rand.Rand, rows, cols, n int) *game.GameState {
	t.Helper()
	gs := game.NewGameState(rows, cols)
	for i := 0; i < n && !gs.Over(); i++ {
		moves := gs.ValidMoves(gs.CurrentPlayer())
		m := moves[rng.Intn(len(moves))]
		require.True(t, gs.MakeMove(m.Row, m.Col, gs.CurrentPlayer()))
	}
	return gs
}

func TestMinimaxMatchesExhaustiveSearch(t *testing.T) {
	rng := rand.New(rand.NewSource(3))

	positions := []*game.GameState{game.NewGameState(3, 3)}
	for i := 0; i < 12; i++ {
		gs := randomPosition(t, rng, 3+rng.Intn(2), 3+rng.Intn(2), 2+rng.Intn(14))
		if !gs.Over() {
			positions = append(positions, gs)
		}
	}

	for _, gs := range positions {
		for _, h := range game.Heuristics {
			for depth := 1; depth <= 3; depth++ {
				player := gs.CurrentPlayer()
				m := NewMinimax(player, WithDepth(depth), WithHeuristic(h))

				gotScore, gotMove, gotFound := m.searchRoot(gs)
				wantScore, wantMove, wantFound := plainMinimax(gs.Copy(), player, h, depth, true)

				require.Equal(t, wantFound, gotFound)
				require.Equal(t, wantMove, gotMove, "%s depth %d on\n%s", h, depth, gs.Format("position"))
				require.InDelta(t, wantScore, gotScore, 1e-9, "%s depth %d on\n%s", h, depth, gs.Format("position"))
				require.False(t, m.metrics.Complete().BudgetExceeded)
			}
		}
	}
}

func TestMinimaxBestMove(t *testing.T) {
	t.Run("takes an immediate win", func(t *testing.T) {
		// Red's centre at 3/4 captures Blue's two remaining cells
		gs := game.NewGameState(3, 3)
		for _, m := range []game.Move{{Row: 0, Col: 0}, {Row: 2, Col: 2}, {Row: 0, Col: 0}, {Row: 1, Col: 1}, {Row: 0, Col: 1}, {Row: 1, Col: 1}, {Row: 0, Col: 1}, {Row: 2, Col: 2}} {
			require.True(t, gs.MakeMove(m.Row, m.Col, gs.CurrentPlayer()))
		}
		m := NewMinimax(game.Red, WithDepth(1), WithHeuristic(game.OrbCount))

		move, ok := m.BestMove(gs)

		require.True(t, ok)
		require.Equal(t, game.Move{Row: 1, Col: 1}, move)

		score, _, _ := m.searchRoot(gs)
		require.Equal(t, WinScore, score)
	})

	t.Run("does not modify the given state", func(t *testing.T) {
		rng := rand.New(rand.NewSource(5))
		gs := randomPosition(t, rng, 4, 4, 10)
		before := gs.Copy()

		_, ok := NewMinimax(gs.CurrentPlayer(), WithDepth(3)).BestMove(gs)

		require.True(t, ok)
		require.Equal(t, before.Key(), gs.Key())
		require.Equal(t, before.MoveCount(), gs.MoveCount())
	})

	t.Run("no move once the game is over", func(t *testing.T) {
		gs := game.NewGameState(2, 2)
		for _, m := range []game.Move{{Row: 0, Col: 0}, {Row: 1, Col: 1}, {Row: 0, Col: 0}} {
			require.True(t, gs.MakeMove(m.Row, m.Col, gs.CurrentPlayer()))
		}
		// Red's corner exploded into (0, 1) and (1, 0), Blue still holds (1, 1)
		require.False(t, gs.Over())
		require.True(t, gs.MakeMove(1, 1, game.Blue)) // Blue's corner captures both Red cells
		require.True(t, gs.Over())

		_, ok := NewMinimax(game.Red).BestMove(gs)
		require.False(t, ok)
	})

	t.Run("move is legal for the searching side", func(t *testing.T) {
		rng := rand.New(rand.NewSource(9))
		for i := 0; i < 10; i++ {
			gs := randomPosition(t, rng, 5, 5, rng.Intn(20))
			if gs.Over() {
				continue
			}
			player := gs.CurrentPlayer()
			move, ok := NewMinimax(player, WithDepth(2), WithHeuristic(game.Heuristics[i%len(game.Heuristics)])).BestMove(gs)

			require.True(t, ok)
			require.True(t, gs.IsValidMove(move.Row, move.Col, player))
		}
	})

	t.Run("metrics", func(t *testing.T) {
		m := NewMinimax(game.Red, WithDepth(3), WithHeuristic(game.OrbCount))

		_, ok := m.BestMove(game.NewGameState(3, 3))
		require.True(t, ok)

		metric := m.Metric()
		require.Equal(t, "minimax", metric.Agent)
		require.Equal(t, 3, metric.Depth)
		require.Equal(t, "orb_count", metric.Heuristic)
		require.Greater(t, metric.Nodes, 9)
		require.LessOrEqual(t, metric.CacheHits, metric.Nodes)
		require.Greater(t, metric.MovesConsidered, 0)
		require.False(t, metric.BudgetExceeded)
	})
}

func TestMinimaxBudgets(t *testing.T) {
	t.Run("node cap", func(t *testing.T) {
		gs := game.NewGameState(6, 6)
		m := NewMinimax(game.Red, WithDepth(4), WithMaxNodes(50))

		move, ok := m.BestMove(gs)

		require.True(t, ok, "A move is returned even when the search is cut short")
		require.True(t, gs.IsValidMove(move.Row, move.Col, game.Red))
		require.True(t, m.Metric().BudgetExceeded)
		require.LessOrEqual(t, m.Metric().Nodes, 60)
	})

	t.Run("time cap", func(t *testing.T) {
		gs := game.NewGameState(8, 8)
		m := NewMinimax(game.Blue, WithDepth(6), WithDuration(time.Nanosecond))

		move, ok := m.BestMove(gs)

		require.True(t, ok)
		require.True(t, gs.IsValidMove(move.Row, move.Col, game.Blue))
		require.True(t, m.Metric().BudgetExceeded)
	})
}

func TestMinimaxOptions(t *testing.T) {
	m := NewMinimax(game.Blue)
	require.Equal(t, game.Blue, m.Player())
	require.Equal(t, 3, m.Depth())
	require.Equal(t, game.Combined, m.Heuristic())

	m = NewMinimax(game.Red, WithDepth(0), WithDuration(-1), WithMaxNodes(0))
	require.Equal(t, 3, m.Depth(), "Non-positive options keep the defaults")

	require.Panics(t, func() { NewMinimax(game.None) })
}
