package searcher

import (
	"math"
	"time"

	"chainreaction/experiments/metrics"
	"chainreaction/game"
	"chainreaction/meta"

	"github.com/rs/zerolog/log"
)

type Option func(m *Minimax)

// Minimax is a depth-limited alpha-beta search with a transposition table. The root always
// maximizes for the agent's player; the opponent minimizes. A Minimax instance must not be
// used by more than one goroutine at a time.
type Minimax struct {
	player    game.Player
	depth     int
	heuristic game.Heuristic
	duration  time.Duration
	maxNodes  int

	// Per search
	table   *table
	undo    []game.Undo // One journal per ply
	start   time.Time
	nodes   int
	metrics metrics.Collector
	last    metrics.SearchMetric
}

func WithDepth(depth int) Option {
	return func(m *Minimax) {
		if depth > 0 {
			m.depth = depth
		}
	}
}

func WithHeuristic(heuristic game.Heuristic) Option {
	return func(m *Minimax) {
		m.heuristic = heuristic
	}
}

func WithDuration(duration time.Duration) Option {
	return func(m *Minimax) {
		if duration > 0 {
			m.duration = duration
		}
	}
}

func WithMaxNodes(nodes int) Option {
	return func(m *Minimax) {
		if nodes > 0 {
			m.maxNodes = nodes
		}
	}
}

func NewMinimax(player game.Player, options ...Option) *Minimax {
	mustBeSide(player)
	m := &Minimax{ // Default values
		player:    player,
		depth:     meta.DefaultDepth,
		heuristic: game.Combined,
		duration:  meta.MaxSearchTime,
		maxNodes:  meta.MaxNodes,
		metrics:   metrics.NewCollector(),
	}
	for _, option := range options {
		option(m)
	}
	return m
}

func (m *Minimax) Player() game.Player          { return m.player }
func (m *Minimax) Depth() int                   { return m.depth }
func (m *Minimax) Heuristic() game.Heuristic    { return m.heuristic }
func (m *Minimax) Metric() metrics.SearchMetric { return m.last }

// BestMove searches state to the configured depth and returns the first move achieving the
// best score. When the budget runs out before any root move is scored, the first move in
// search order is returned.
func (m *Minimax) BestMove(state *game.GameState) (game.Move, bool) {
	m.metrics.Start("minimax", m.depth, m.heuristic.String())
	if state.Over() {
		m.last = m.metrics.Complete()
		return game.Move{}, false
	}
	moves := state.ValidMoves(m.player)
	if len(moves) == 0 {
		m.last = m.metrics.Complete()
		return game.Move{}, false
	}

	score, move, found := m.searchRoot(state)
	if !found {
		move = orderMoves(state, moves)[0]
		log.Warn().Str("player", m.player.String()).Msg("search budget exhausted before any move was scored")
	}

	m.last = m.metrics.Complete()
	log.Debug().
		Str("player", m.player.String()).
		Str("heuristic", m.heuristic.String()).
		Int("depth", m.depth).
		Int("nodes", m.last.Nodes).
		Int("pruned", m.last.Pruned).
		Int("cache_hits", m.last.CacheHits).
		Float64("hit_rate", m.last.HitRate()).
		Int("entries", m.table.len()).
		Float64("score", score).
		Dur("duration", m.last.Duration).
		Msgf("search chose %s", move)
	return move, true
}

// searchRoot resets the per-search state and searches a copy of state from the maximizing root.
func (m *Minimax) searchRoot(state *game.GameState) (float64, game.Move, bool) {
	m.table = newTable()
	m.nodes = 0
	m.start = time.Now()
	if len(m.undo) < m.depth {
		m.undo = make([]game.Undo, m.depth)
	}
	return m.search(state.Copy(), m.depth, math.Inf(-1), math.Inf(1), true)
}

func (m *Minimax) exhausted() bool {
	return m.nodes > m.maxNodes || time.Since(m.start) > m.duration
}

// search returns the score of gs for m.player and, for interior nodes, the move that
// achieved it. gs is restored before returning.
func (m *Minimax) search(gs *game.GameState, depth int, alpha, beta float64, maximizing bool) (float64, game.Move, bool) {
	m.nodes++
	m.metrics.AddNode()
	if m.exhausted() {
		m.metrics.SetBudgetExceeded()
		return m.heuristic.Evaluate(gs, m.player), game.Move{}, false
	}

	key := gs.Key()
	if e, ok := m.table.probe(key, depth, alpha, beta); ok {
		m.metrics.AddCacheHit()
		return e.score, e.move, e.found
	}

	if depth == 0 || gs.Over() {
		score := m.evaluate(gs)
		m.table.store(key, entry{score: score, depth: depth, bound: boundExact})
		return score, game.Move{}, false
	}

	side := m.player
	if !maximizing {
		side = m.player.Opponent()
	}
	moves := gs.ValidMoves(side)
	if len(moves) == 0 {
		// The side to move is stuck and loses
		score := WinScore
		if side == m.player {
			score = LossScore
		}
		m.table.store(key, entry{score: score, depth: depth, bound: boundExact})
		return score, game.Move{}, false
	}
	orderMoves(gs, moves)

	undo := &m.undo[m.depth-depth]
	alphaOrig, betaOrig := alpha, beta
	best := math.Inf(-1)
	if !maximizing {
		best = math.Inf(1)
	}
	var bestMove game.Move
	found := false

	for i, move := range moves {
		if m.exhausted() {
			m.metrics.SetBudgetExceeded()
			break
		}
		m.metrics.AddMoveConsidered()

		gs.Apply(move, side, undo)
		score, _, _ := m.search(gs, depth-1, alpha, beta, !maximizing)
		gs.Undo(undo)

		if maximizing {
			if score > best {
				best, bestMove, found = score, move, true
			}
			alpha = math.Max(alpha, score)
		} else {
			if score < best {
				best, bestMove, found = score, move, true
			}
			beta = math.Min(beta, score)
		}
		if beta <= alpha {
			m.metrics.AddPruned(len(moves) - i - 1)
			break
		}
	}

	m.table.store(key, entry{
		score: best,
		depth: depth,
		bound: boundFor(best, alphaOrig, betaOrig),
		move:  bestMove,
		found: found,
	})
	return best, bestMove, found
}

// evaluate scores a leaf: decided games by outcome, anything else by the heuristic.
func (m *Minimax) evaluate(gs *game.GameState) float64 {
	if !gs.Over() {
		return m.heuristic.Evaluate(gs, m.player)
	}
	switch gs.Winner() {
	case m.player:
		return WinScore
	case game.None:
		return DrawScore
	default:
		return LossScore
	}
}
