package game

import (
	"fmt"
	"math"
)

// Heuristic selects one of the static evaluation functions. Scores are always relative to
// the perspective player passed to Evaluate, positive meaning favourable.
type Heuristic int

const (
	OrbCount Heuristic = iota
	ExplosionPotential
	StrategicControl
	GrowthPotential
	ThreatAnalysis
	Tempo
	Combined
)

var heuristicNames = [...]string{
	OrbCount:           "orb_count",
	ExplosionPotential: "explosion_potential",
	StrategicControl:   "strategic_control",
	GrowthPotential:    "growth_potential",
	ThreatAnalysis:     "threat_analysis",
	Tempo:              "tempo",
	Combined:           "combined_v2",
}

// Heuristics lists every heuristic in menu order.
var Heuristics = []Heuristic{OrbCount, ExplosionPotential, StrategicControl, GrowthPotential, ThreatAnalysis, Tempo, Combined}

func (h Heuristic) String() string {
	if h < 0 || int(h) >= len(heuristicNames) {
		return fmt.Sprintf("Heuristic(%d)", int(h))
	}
	return heuristicNames[h]
}

// ParseHeuristic resolves a heuristic by its configuration name, e.g. "threat_analysis".
func ParseHeuristic(name string) (Heuristic, error) {
	for h, n := range heuristicNames {
		if n == name {
			return Heuristic(h), nil
		}
	}
	return 0, fmt.Errorf("unknown heuristic %q", name)
}

// Evaluate scores gs from player's point of view.
func (h Heuristic) Evaluate(gs *GameState, player Player) float64 {
	switch h {
	case OrbCount:
		return EvaluateOrbCount(gs, player)
	case ExplosionPotential:
		return EvaluateExplosionPotential(gs, player)
	case StrategicControl:
		return EvaluateStrategicControl(gs, player)
	case GrowthPotential:
		return EvaluateGrowthPotential(gs, player)
	case ThreatAnalysis:
		return EvaluateThreatAnalysis(gs, player)
	case Tempo:
		return EvaluateTempo(gs, player)
	case Combined:
		return EvaluateCombined(gs, player)
	default:
		panic(fmt.Sprintf("unexpected heuristic %d", int(h)))
	}
}

// EvaluateOrbCount is the plain material difference.
func EvaluateOrbCount(gs *GameState, player Player) float64 {
	return float64(gs.Orbs(player) - gs.Orbs(player.Opponent()))
}

// EvaluateExplosionPotential rewards own cells one orb short of exploding, more so when they
// border opponent cells that an explosion would convert, and penalizes the opponent's.
func EvaluateExplosionPotential(gs *GameState, player Player) float64 {
	g := gs.grid
	opponent := player.Opponent()
	score := 0.0

	for i, cell := range g.cells {
		critical := len(g.neighbors[i])
		switch cell.Owner {
		case player:
			if cell.Orbs == critical-1 {
				score += 50
			}
			bonus := 0.0
			for _, n := range g.neighbors[i] {
				neighbor := g.cells[n]
				if neighbor.Owner == opponent && neighbor.Orbs > 0 {
					bonus += 15 // Conversion
				} else if neighbor.Owner == player {
					bonus += 5 // Reinforcement
				}
			}
			score += bonus * (float64(cell.Orbs) / float64(critical))
		case opponent:
			if cell.Orbs == critical-1 {
				score -= 60
			}
		}
	}
	return score
}

// EvaluateStrategicControl rewards cells near the centre and the choke points next to corners.
func EvaluateStrategicControl(gs *GameState, player Player) float64 {
	g := gs.grid
	opponent := player.Opponent()
	centerRow, centerCol := g.rows/2, g.cols/2
	score := 0.0

	for i, cell := range g.cells {
		row, col := g.position(i)
		dist := math.Pow(float64(abs(row-centerRow)+abs(col-centerCol)), 1.5)

		switch cell.Owner {
		case player:
			score += math.Max(0, 20-2*dist)
			if g.isChokePoint(row, col) {
				score += 30
			}
		case opponent:
			score -= math.Max(0, 15-2*dist)
		}
	}
	return score
}

// isChokePoint reports whether (row, col) is an edge cell orthogonally adjacent to a corner.
func (g *Grid) isChokePoint(row, col int) bool {
	last, lastCol := g.rows-1, g.cols-1
	return (row == 0 && col == 1) || (row == 1 && col == 0) ||
		(row == 0 && col == lastCol-1) || (row == 1 && col == lastCol) ||
		(row == last-1 && col == 0) || (row == last && col == 1) ||
		(row == last-1 && col == lastCol) || (row == last && col == lastCol-1)
}

// EvaluateGrowthPotential values the empty frontier around player's cells by position,
// discounted by how close adjacent opponent cells are to exploding into it.
func EvaluateGrowthPotential(gs *GameState, player Player) float64 {
	g := gs.grid
	opponent := player.Opponent()

	frontier := make([]bool, len(g.cells))
	for i, cell := range g.cells {
		if cell.Owner != player {
			continue
		}
		for _, n := range g.neighbors[i] {
			if g.cells[n].Owner == None {
				frontier[n] = true
			}
		}
	}

	score := 0.0
	for i, isFrontier := range frontier {
		if !isFrontier {
			continue
		}
		safety := 0.0
		for _, n := range g.neighbors[i] {
			neighbor := g.cells[n]
			if neighbor.Owner == opponent {
				safety -= float64(neighbor.Orbs) / float64(len(g.neighbors[n])) * 40
			}
		}

		var value float64
		switch len(g.neighbors[i]) {
		case 2:
			value = 25 // Corner
		case 3:
			value = 15 // Edge
		default:
			value = 5
		}
		score += math.Max(0, value+safety)
	}
	return score
}

// EvaluateThreatAnalysis penalizes opponent cells about to explode, especially uncontested
// ones, and rewards own cells backed by friendly orbs.
func EvaluateThreatAnalysis(gs *GameState, player Player) float64 {
	g := gs.grid
	opponent := player.Opponent()
	score := 0.0
	immediate, potential := 0, 0

	for i, cell := range g.cells {
		critical := len(g.neighbors[i])
		switch cell.Owner {
		case opponent:
			if cell.Orbs == critical-1 {
				immediate++
				contested := false
				for _, n := range g.neighbors[i] {
					if g.cells[n].Owner == player {
						contested = true
						break
					}
				}
				if contested {
					score -= 25
				} else {
					score -= 50
				}
			} else if float64(cell.Orbs) >= float64(critical)*0.7 {
				potential++
				score -= 20 * (float64(cell.Orbs) / float64(critical))
			}
		case player:
			backing := 0
			for _, n := range g.neighbors[i] {
				if g.cells[n].Owner == player {
					backing += g.cells[n].Orbs
				}
			}
			score += math.Min(30, float64(backing*2))
		}
	}

	density := float64(immediate*3+potential) / float64(max(1, len(g.cells)))
	return score - 100*density
}

// EvaluateTempo measures initiative: cells two orbs from exploding, development ratio, and a
// material-heavy blend once the board fills up.
func EvaluateTempo(gs *GameState, player Player) float64 {
	g := gs.grid
	opponent := player.Opponent()
	forcing, opponentForcing := 0, 0
	development, opponentDevelopment := 0, 0

	for i, cell := range g.cells {
		critical := len(g.neighbors[i])
		switch cell.Owner {
		case player:
			development += cell.Orbs
			if cell.Orbs == critical-2 {
				forcing++
			}
		case opponent:
			opponentDevelopment += cell.Orbs
			if cell.Orbs == critical-2 {
				opponentForcing++
			}
		}
	}

	score := float64(forcing-opponentForcing) * 40
	ratio := float64(development) / float64(max(1, opponentDevelopment))
	if ratio > 0 {
		score += math.Log(ratio) * 30
	}

	if development+opponentDevelopment > 2*len(g.cells) {
		score += EvaluateOrbCount(gs, player) * 0.5
		score += EvaluateExplosionPotential(gs, player) * 0.3
	}
	return score
}

type weighted struct {
	weight   float64
	evaluate Evaluate
}

var (
	// Terms in each phase are summed in the same fixed order: explosion, strategic control,
	// growth, threat, tempo, orb count.
	earlyGame = []weighted{
		{0.4, EvaluateStrategicControl},
		{0.3, EvaluateGrowthPotential},
		{0.1, EvaluateThreatAnalysis},
		{0.2, EvaluateTempo},
	}
	midGame = []weighted{
		{0.3, EvaluateExplosionPotential},
		{0.2, EvaluateStrategicControl},
		{0.3, EvaluateThreatAnalysis},
		{0.2, EvaluateTempo},
	}
	lateGame = []weighted{
		{0.5, EvaluateExplosionPotential},
		{0.3, EvaluateThreatAnalysis},
		{0.2, EvaluateOrbCount},
	}
)

// EvaluateCombined blends the other heuristics with weights chosen by game phase. Heuristics
// with no weight in the current phase are not computed.
func EvaluateCombined(gs *GameState, player Player) float64 {
	phase := lateGame
	switch {
	case gs.moveCount < 10:
		phase = earlyGame
	case gs.moveCount < 30:
		phase = midGame
	}

	score := 0.0
	for _, w := range phase {
		// Rounding each product keeps the sum free of fused multiply-adds
		score += float64(w.weight * w.evaluate(gs, player))
	}
	return score
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
