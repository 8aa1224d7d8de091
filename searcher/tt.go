package searcher

import "chainreaction/game"

type bound uint8

const (
	boundExact bound = iota
	boundLower       // Fail high: the true score is at least score
	boundUpper       // Fail low: the true score is at most score
)

type entry struct {
	score float64
	depth int
	bound bound
	move  game.Move
	found bool // move is set
}

// table caches search results for the lifetime of one BestMove call.
type table struct {
	entries map[game.StateKey]entry
}

func newTable() *table {
	return &table{entries: make(map[game.StateKey]entry)}
}

// probe returns a cached result that decides the node for the window (alpha, beta) at the
// requested depth.
func (t *table) probe(key game.StateKey, depth int, alpha, beta float64) (entry, bool) {
	e, ok := t.entries[key]
	if !ok || e.depth < depth {
		return entry{}, false
	}
	switch e.bound {
	case boundExact:
		return e, true
	case boundLower:
		return e, e.score >= beta
	case boundUpper:
		return e, e.score <= alpha
	}
	return entry{}, false
}

func (t *table) store(key game.StateKey, e entry) {
	t.entries[key] = e
}

func (t *table) len() int {
	return len(t.entries)
}

// boundFor classifies a score found with the window (alpha, beta).
func boundFor(score, alpha, beta float64) bound {
	switch {
	case score <= alpha:
		return boundUpper
	case score >= beta:
		return boundLower
	default:
		return boundExact
	}
}
