package searcher

import (
	"cmp"

	"chainreaction/game"

	"golang.org/x/exp/slices"
)

// orderMoves sorts moves in place, cells closest to exploding first. Moves with equal
// orbs-to-critical-mass ratios keep their relative order.
func orderMoves(gs *game.GameState, moves []game.Move) []game.Move {
	g := gs.Grid()
	slices.SortStableFunc(moves, func(a, b game.Move) int {
		// a.orbs/a.cm vs b.orbs/b.cm without division
		ra := g.Cell(a.Row, a.Col).Orbs * g.CriticalMass(b.Row, b.Col)
		rb := g.Cell(b.Row, b.Col).Orbs * g.CriticalMass(a.Row, a.Col)
		return cmp.Compare(rb, ra)
	})
	return moves
}
