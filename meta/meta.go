// meta/meta.go
package meta

import "time"

// MaxCascadePasses bounds a single explosion cascade.
const MaxCascadePasses = 1_000_000

// MaxTurns caps the number of placements in an engine-driven game.
const MaxTurns = 1000

// DefaultDepth is the search depth for Medium difficulty.
const DefaultDepth = 3

// MaxNodes caps the nodes visited by one search.
const MaxNodes = 750_000

// MaxSearchTime caps the wall-clock time of one search.
const MaxSearchTime = 25 * time.Second

// Board limits offered by the interactive console.
const (
	MinBoardSize = 3
	MaxBoardSize = 10
)

// File names shared with the frontend bridge.
const (
	GameStateFile = "improved_gamestate.txt"
	ConfigFile    = "backend_config.json"
)
