package searcher

import (
	"time"

	"chainreaction/experiments/metrics"
	"chainreaction/game"

	"github.com/rs/zerolog/log"
	"golang.org/x/exp/rand"
)

type RandomOption func(r *Random)

// Random plays a uniformly random legal move. It does no search.
type Random struct {
	player  game.Player
	rng     *rand.Rand
	metrics metrics.Collector
	last    metrics.SearchMetric
}

// WithSeed makes the move sequence reproducible.
func WithSeed(seed uint64) RandomOption {
	return func(r *Random) {
		r.rng = rand.New(rand.NewSource(seed))
	}
}

func NewRandom(player game.Player, options ...RandomOption) *Random {
	mustBeSide(player)
	r := &Random{
		player:  player,
		rng:     rand.New(rand.NewSource(uint64(time.Now().UnixNano()))),
		metrics: metrics.NewCollector(),
	}
	for _, option := range options {
		option(r)
	}
	return r
}

func (r *Random) Player() game.Player          { return r.player }
func (r *Random) Metric() metrics.SearchMetric { return r.last }

func (r *Random) BestMove(state *game.GameState) (game.Move, bool) {
	r.metrics.Start("random", 0, "")
	defer func() { r.last = r.metrics.Complete() }()

	if state.Over() {
		return game.Move{}, false
	}
	moves := state.ValidMoves(r.player)
	if len(moves) == 0 {
		return game.Move{}, false
	}
	r.metrics.AddMoveConsidered()

	move := moves[r.rng.Intn(len(moves))]
	log.Debug().Str("player", r.player.String()).Msgf("random agent chose %s", move)
	return move, true
}
