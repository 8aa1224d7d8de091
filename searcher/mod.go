package searcher

import (
	"chainreaction/experiments/metrics"
	"chainreaction/game"
)

// Agent picks moves for one side of the board.
type Agent interface {
	Player() game.Player
	// BestMove returns a legal move for the agent's player, or false if there is none. The
	// given state is never modified.
	BestMove(state *game.GameState) (game.Move, bool)
	// Metric describes the most recent BestMove call
	Metric() metrics.SearchMetric
}

func mustBeSide(player game.Player) {
	if player != game.Red && player != game.Blue {
		panic("agent must play Red or Blue")
	}
}
