package game

import (
	"encoding/binary"

	"chainreaction/meta"

	"github.com/rs/zerolog/log"
)

// GameState is the full position of a game: the grid, the side to move, and the outcome.
// Only MakeMove/Apply/Undo mutate it.
type GameState struct {
	grid          *Grid
	currentPlayer Player
	moveCount     int
	over          bool
	winner        Player
	journal       *Undo // Non-nil while a journaled move is being applied
}

// NewGameState initializes an empty board with Red to move.
func NewGameState(rows, cols int) *GameState {
	return &GameState{
		grid:          NewGrid(rows, cols),
		currentPlayer: Red,
	}
}

func (gs *GameState) Grid() *Grid            { return gs.grid }
func (gs *GameState) Rows() int              { return gs.grid.rows }
func (gs *GameState) Cols() int              { return gs.grid.cols }
func (gs *GameState) CurrentPlayer() Player  { return gs.currentPlayer }
func (gs *GameState) MoveCount() int         { return gs.moveCount }
func (gs *GameState) Over() bool             { return gs.over }
func (gs *GameState) Winner() Player         { return gs.winner }
func (gs *GameState) Cell(row, col int) Cell { return gs.grid.Cell(row, col) }

// Copy returns a deep copy that shares no mutable storage with gs.
func (gs *GameState) Copy() *GameState {
	return &GameState{
		grid:          gs.grid.Copy(),
		currentPlayer: gs.currentPlayer,
		moveCount:     gs.moveCount,
		over:          gs.over,
		winner:        gs.winner,
	}
}

// IsValidMove checks that (row, col) is on the board and is empty or already owned by player.
func (gs *GameState) IsValidMove(row, col int, player Player) bool {
	if !gs.grid.InBounds(row, col) {
		return false
	}
	owner := gs.grid.Cell(row, col).Owner
	return owner == None || owner == player
}

// ValidMoves lists every legal placement for player in row-major order.
func (gs *GameState) ValidMoves(player Player) []Move {
	moves := make([]Move, 0, len(gs.grid.cells))
	for i, cell := range gs.grid.cells {
		if cell.Owner == None || cell.Owner == player {
			row, col := gs.grid.position(i)
			moves = append(moves, Move{Row: row, Col: col})
		}
	}
	return moves
}

// Score returns the total orbs held by each side.
func (gs *GameState) Score() map[Player]int {
	red, blue := gs.grid.orbs()
	return map[Player]int{Red: red, Blue: blue}
}

// Orbs returns the total orbs held by player.
func (gs *GameState) Orbs(player Player) int {
	red, blue := gs.grid.orbs()
	switch player {
	case Red:
		return red
	case Blue:
		return blue
	default:
		return 0
	}
}

// MakeMove places an orb for player at (row, col) and resolves the resulting chain reaction.
// It returns false without touching the state if the game is over or the placement is illegal.
func (gs *GameState) MakeMove(row, col int, player Player) bool {
	return gs.Apply(Move{Row: row, Col: col}, player, nil)
}

// Apply is MakeMove with an optional undo journal. When u is non-nil every mutation is
// recorded so that Undo(u) restores the exact previous state.
func (gs *GameState) Apply(m Move, player Player, u *Undo) bool {
	if gs.over || !gs.IsValidMove(m.Row, m.Col, player) {
		return false
	}
	if u != nil {
		u.reset(gs)
		gs.journal = u
		defer func() { gs.journal = nil }()
	}

	i := gs.grid.index(m.Row, m.Col)
	gs.record(i)
	gs.grid.cells[i].Orbs++
	gs.grid.cells[i].Owner = player
	gs.moveCount++

	gs.resolveExplosions()
	gs.checkWinCondition()

	if !gs.over {
		gs.currentPlayer = gs.currentPlayer.Opponent()
	}
	return true
}

// resolveExplosions explodes every critical cell, pass by pass, until the grid is stable,
// one side is eliminated, or the pass ceiling is reached.
func (gs *GameState) resolveExplosions() {
	var exploding []int
	passes := 0
	for ; passes < meta.MaxCascadePasses; passes++ {
		exploding = exploding[:0]
		for i, cell := range gs.grid.cells {
			if cell.Owner != None && cell.Orbs >= len(gs.grid.neighbors[i]) {
				exploding = append(exploding, i)
			}
		}
		if len(exploding) == 0 {
			return
		}

		for _, i := range exploding {
			gs.explode(i)
		}

		if gs.eliminatedDuringCascade() {
			return
		}
	}
	log.Warn().Int("passes", passes).Msg("explosion cascade stopped at the pass ceiling")
}

// explode removes critical-mass orbs from cell i and hands one to each neighbour, which
// changes owner to the exploding side.
func (gs *GameState) explode(i int) {
	cells := gs.grid.cells
	neighbors := gs.grid.neighbors[i]
	owner := cells[i].Owner

	gs.record(i)
	cells[i].Orbs -= len(neighbors)
	if cells[i].Orbs <= 0 {
		cells[i] = Cell{}
	}

	for _, n := range neighbors {
		gs.record(n)
		cells[n].Orbs++
		cells[n].Owner = owner
	}
}

// eliminatedDuringCascade stops a cascade once one side has been wiped out. It only fires
// after the third placement, one move later than checkWinCondition.
func (gs *GameState) eliminatedDuringCascade() bool {
	red, blue := gs.grid.orbs()
	if red+blue == 0 || gs.moveCount <= 2 {
		return false
	}
	return (red == 0 && blue > 0) || (blue == 0 && red > 0)
}

// checkWinCondition ends the game when exactly one side still has orbs, once both sides
// have placed at least once.
func (gs *GameState) checkWinCondition() {
	red, blue := gs.grid.orbs()
	if red+blue == 0 || gs.moveCount < 2 {
		return
	}
	switch {
	case red > 0 && blue == 0:
		gs.over = true
		gs.winner = Red
	case blue > 0 && red == 0:
		gs.over = true
		gs.winner = Blue
	}
}

func (gs *GameState) record(i int) {
	if gs.journal != nil {
		gs.journal.cells = append(gs.journal.cells, cellChange{index: i, previous: gs.grid.cells[i]})
	}
}

// Undo is a journal of the mutations made by one Apply call. The zero value is ready to use
// and its buffer is reused across calls.
type Undo struct {
	cells         []cellChange
	currentPlayer Player
	moveCount     int
	over          bool
	winner        Player
}

type cellChange struct {
	index    int
	previous Cell
}

func (u *Undo) reset(gs *GameState) {
	u.cells = u.cells[:0]
	u.currentPlayer = gs.currentPlayer
	u.moveCount = gs.moveCount
	u.over = gs.over
	u.winner = gs.winner
}

// Undo reverts the move recorded in u.
func (gs *GameState) Undo(u *Undo) {
	for i := len(u.cells) - 1; i >= 0; i-- {
		change := u.cells[i]
		gs.grid.cells[change.index] = change.previous
	}
	u.cells = u.cells[:0]
	gs.currentPlayer = u.currentPlayer
	gs.moveCount = u.moveCount
	gs.over = u.over
	gs.winner = u.winner
}

// StateKey canonically encodes the grid contents and the side to move.
type StateKey string

// Key returns the canonical encoding used by the search cache. Two states share a key iff
// every cell and the side to move are equal.
func (gs *GameState) Key() StateKey {
	buf := make([]byte, 0, 2*len(gs.grid.cells)+1)
	buf = append(buf, byte(gs.currentPlayer))
	for _, cell := range gs.grid.cells {
		buf = append(buf, byte(cell.Owner))
		buf = binary.AppendUvarint(buf, uint64(cell.Orbs))
	}
	return StateKey(buf)
}
