package engine

import (
	"fmt"
	"time"

	"chainreaction/experiments/metrics"
	"chainreaction/game"
	"chainreaction/meta"
	"chainreaction/searcher"

	"github.com/rs/zerolog/log"
)

type LocalOption func(e *LocalEngine)

// LocalEngine plays two agents against each other in process.
type LocalEngine struct {
	State    *game.GameState
	Agents   map[game.Player]searcher.Agent
	maxTurns int
	observer func(step int, move game.Move, state *game.GameState)
}

// WithMaxTurns caps the number of moves played.
func WithMaxTurns(turns int) LocalOption {
	return func(e *LocalEngine) {
		if turns > 0 {
			e.maxTurns = turns
		}
	}
}

// WithObserver is called after every move with the resulting state.
func WithObserver(observer func(step int, move game.Move, state *game.GameState)) LocalOption {
	return func(e *LocalEngine) {
		e.observer = observer
	}
}

// Local sets up a new rows x cols game. agents must hold one Red and one Blue agent.
func Local(rows, cols int, agents []searcher.Agent, options ...LocalOption) *LocalEngine {
	if len(agents) != 2 {
		panic("need exactly two agents")
	}
	e := &LocalEngine{
		State:    game.NewGameState(rows, cols),
		Agents:   make(map[game.Player]searcher.Agent, 2),
		maxTurns: meta.MaxTurns,
	}
	for _, agent := range agents {
		e.Agents[agent.Player()] = agent
	}
	if e.Agents[game.Red] == nil || e.Agents[game.Blue] == nil {
		panic("agents must play opposite sides")
	}
	for _, option := range options {
		option(e)
	}
	return e
}

// Run executes the game loop until a winner is found, the turn cap is hit, or the side to move
// has no move.
func (e *LocalEngine) Run() (string, metrics.GameMetric, []metrics.MoveMetric) {
	gameMetric := metrics.GameMetric{
		StartingPlayer: e.State.CurrentPlayer().String(),
		StartTime:      time.Now(),
	}
	var moveMetrics []metrics.MoveMetric

	log.Info().Msgf("%s is starting on a %dx%d board", e.State.CurrentPlayer(), e.State.Rows(), e.State.Cols())

	for step := 1; !e.State.Over() && step <= e.maxTurns; step++ {
		player := e.State.CurrentPlayer()
		agent := e.Agents[player]

		move, ok := agent.BestMove(e.State)
		if !ok {
			log.Warn().Msgf("%s has no move at step %d", player, step)
			break
		}
		if !e.State.MakeMove(move.Row, move.Col, player) {
			panic(fmt.Sprintf("agent for %s returned illegal move %s", player, move))
		}

		moveMetrics = append(moveMetrics, metrics.MoveMetric{
			Step:         step,
			Player:       player.String(),
			Row:          move.Row,
			Col:          move.Col,
			SearchMetric: agent.Metric(),
		})
		if e.observer != nil {
			e.observer(step, move, e.State)
		}
	}

	winner := ""
	if e.State.Winner() != game.None {
		winner = e.State.Winner().String()
		log.Info().Msgf("game ended after %d moves, %s wins", e.State.MoveCount(), winner)
	} else {
		log.Info().Msgf("stopped after %d moves without a winner", e.State.MoveCount())
	}

	gameMetric.EndTime = time.Now()
	gameMetric.Duration = gameMetric.EndTime.Sub(gameMetric.StartTime)
	gameMetric.Winner = winner
	gameMetric.TotalMoves = e.State.MoveCount()
	gameMetric.RedOrbs = e.State.Orbs(game.Red)
	gameMetric.BlueOrbs = e.State.Orbs(game.Blue)
	return winner, gameMetric, moveMetrics
}
