package game

import "fmt"

// Cell holds the orbs placed on one square. An owned cell always holds at least one orb.
type Cell struct {
	Orbs  int
	Owner Player
}

// Empty reports whether no player owns the cell.
func (c Cell) Empty() bool {
	return c.Owner == None
}

// Grid is a fixed rows x cols board. Cells are stored row-major; neighbour lists and
// critical masses are computed once at construction and never change.
type Grid struct {
	rows      int
	cols      int
	cells     []Cell
	neighbors [][]int // Orthogonal in-bounds neighbour indices per cell
}

// NewGrid creates an empty grid. Boards smaller than 2x2 are not playable.
func NewGrid(rows, cols int) *Grid {
	if rows < 2 || cols < 2 {
		panic(fmt.Sprintf("grid must be at least 2x2, got %dx%d", rows, cols))
	}
	g := &Grid{
		rows:      rows,
		cols:      cols,
		cells:     make([]Cell, rows*cols),
		neighbors: make([][]int, rows*cols),
	}
	for row := 0; row < rows; row++ {
		for col := 0; col < cols; col++ {
			adjacent := make([]int, 0, 4)
			for _, d := range directions {
				r, c := row+d[0], col+d[1]
				if g.InBounds(r, c) {
					adjacent = append(adjacent, g.index(r, c))
				}
			}
			g.neighbors[g.index(row, col)] = adjacent
		}
	}
	return g
}

var directions = [4][2]int{{-1, 0}, {1, 0}, {0, -1}, {0, 1}}

func (g *Grid) Rows() int { return g.rows }
func (g *Grid) Cols() int { return g.cols }

// InBounds checks whether (row, col) lies on the board.
func (g *Grid) InBounds(row, col int) bool {
	return row >= 0 && row < g.rows && col >= 0 && col < g.cols
}

func (g *Grid) index(row, col int) int {
	return row*g.cols + col
}

func (g *Grid) position(i int) (row, col int) {
	return i / g.cols, i % g.cols
}

// Cell returns the cell at (row, col).
func (g *Grid) Cell(row, col int) Cell {
	return g.cells[g.index(row, col)]
}

// CriticalMass is the number of orthogonal neighbours of (row, col): 2 on corners, 3 on
// edges and 4 inside.
func (g *Grid) CriticalMass(row, col int) int {
	return len(g.neighbors[g.index(row, col)])
}

// Neighbors returns the in-bounds orthogonal neighbours of (row, col).
func (g *Grid) Neighbors(row, col int) []Move {
	adjacent := g.neighbors[g.index(row, col)]
	moves := make([]Move, len(adjacent))
	for i, n := range adjacent {
		r, c := g.position(n)
		moves[i] = Move{Row: r, Col: c}
	}
	return moves
}

// Copy returns an independent grid. Neighbour tables are immutable and shared.
func (g *Grid) Copy() *Grid {
	cells := make([]Cell, len(g.cells))
	copy(cells, g.cells)
	return &Grid{
		rows:      g.rows,
		cols:      g.cols,
		cells:     cells,
		neighbors: g.neighbors,
	}
}

// set overwrites a cell without journaling. Used by loaders.
func (g *Grid) set(row, col int, cell Cell) {
	g.cells[g.index(row, col)] = cell
}

// orbs tallies the orbs owned by each side.
func (g *Grid) orbs() (red, blue int) {
	for _, cell := range g.cells {
		switch cell.Owner {
		case Red:
			red += cell.Orbs
		case Blue:
			blue += cell.Orbs
		}
	}
	return red, blue
}
