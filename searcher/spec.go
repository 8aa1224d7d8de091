package searcher

import (
	"fmt"
	"strings"
	"time"

	"chainreaction/game"
	"chainreaction/meta"
)

// Kind selects the agent implementation.
type Kind int

const (
	Smart Kind = iota // Minimax
	RandomKind
)

func (k Kind) String() string {
	switch k {
	case Smart:
		return "Smart"
	case RandomKind:
		return "Random"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// ParseKind accepts "Smart" (or "Minimax") and "Random", ignoring case.
func ParseKind(name string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "smart", "minimax":
		return Smart, nil
	case "random":
		return RandomKind, nil
	default:
		return 0, fmt.Errorf("unknown AI type %q", name)
	}
}

// DepthFor maps a difficulty name to a search depth. Unknown names get the Medium depth.
func DepthFor(difficulty string) int {
	switch difficulty {
	case "Easy":
		return 2
	case "Medium":
		return 3
	case "Hard":
		return 4
	default:
		return meta.DefaultDepth
	}
}

// Spec is everything needed to build an agent for either side.
type Spec struct {
	Kind      Kind
	Depth     int
	Heuristic game.Heuristic
	Duration  time.Duration // Zero means meta.MaxSearchTime
	MaxNodes  int           // Zero means meta.MaxNodes
	Seed      uint64        // Random agents only; zero means time-seeded
}

func (s Spec) String() string {
	if s.Kind == RandomKind {
		return s.Kind.String()
	}
	return fmt.Sprintf("%s(depth=%d, heuristic=%s)", s.Kind, s.Depth, s.Heuristic)
}

// New builds the agent described by spec for player.
func New(player game.Player, spec Spec) Agent {
	switch spec.Kind {
	case RandomKind:
		var options []RandomOption
		if spec.Seed != 0 {
			options = append(options, WithSeed(spec.Seed))
		}
		return NewRandom(player, options...)
	case Smart:
		return NewMinimax(player,
			WithDepth(spec.Depth),
			WithHeuristic(spec.Heuristic),
			WithDuration(spec.Duration),
			WithMaxNodes(spec.MaxNodes),
		)
	default:
		panic(fmt.Sprintf("unexpected agent kind %d", int(spec.Kind)))
	}
}
