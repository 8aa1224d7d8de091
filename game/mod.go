package game

// Player identifies a side of the board. None marks an empty cell.
type Player int

const (
	None Player = iota
	Red         // Side A, always moves first
	Blue        // Side B
)

func (p Player) String() string {
	switch p {
	case Red:
		return "Red"
	case Blue:
		return "Blue"
	default:
		return "Empty"
	}
}

// Opponent returns the other side. None has no opponent.
func (p Player) Opponent() Player {
	switch p {
	case Red:
		return Blue
	case Blue:
		return Red
	default:
		return None
	}
}

// Evaluate scores a state from the perspective of one player.
type Evaluate func(gs *GameState, player Player) float64
