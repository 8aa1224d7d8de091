package player

import (
	"fmt"
	"io"
	"strings"
	"time"

	"chainreaction/communication"
	"chainreaction/game"
	"chainreaction/gamemaster"
	"chainreaction/meta"
	"chainreaction/searcher"

	"github.com/rs/zerolog/log"
)

type Mode int

const (
	UserVsUser Mode = iota + 1
	UserVsAI
	AIvsAI
)

func (m Mode) String() string {
	switch m {
	case UserVsUser:
		return "User vs User"
	case UserVsAI:
		return "User vs AI"
	case AIvsAI:
		return "AI vs AI"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// DefaultHeuristic is offered to a smart AI of player that was given no heuristic.
func DefaultHeuristic(player game.Player) game.Heuristic {
	if player == game.Red {
		return game.GrowthPotential
	}
	return game.ThreatAnalysis
}

// Setup is the configuration of one console game. A nil spec marks a human side.
type Setup struct {
	Rows  int
	Cols  int
	Mode  Mode
	Depth int
	Red   *searcher.Spec
	Blue  *searcher.Spec
}

func (s Setup) Spec(player game.Player) *searcher.Spec {
	if player == game.Red {
		return s.Red
	}
	return s.Blue
}

func aiName(spec searcher.Spec) string {
	if spec.Kind == searcher.RandomKind {
		return "Random AI"
	}
	return "Smart AI (Minimax)"
}

type ConsoleOption func(c *Console)

// WithAgentFactory replaces how agents are built for AI sides.
func WithAgentFactory(newAgent func(game.Player, searcher.Spec) searcher.Agent) ConsoleOption {
	return func(c *Console) {
		c.newAgent = newAgent
	}
}

// Console runs an interactive game. The state is kept behind comm and reloaded before every
// turn.
type Console struct {
	prompter *Prompter
	session  *gamemaster.Session
	newAgent func(game.Player, searcher.Spec) searcher.Agent
}

func NewConsole(in io.Reader, out io.Writer, comm communication.Communicator, options ...ConsoleOption) *Console {
	c := &Console{
		prompter: NewPrompter(in, out),
		session:  gamemaster.NewSession(comm),
		newAgent: searcher.New,
	}
	for _, option := range options {
		option(c)
	}
	return c
}

// Run asks for a setup and plays the game.
func (c *Console) Run() (*game.GameState, error) {
	setup, err := c.Configure()
	if err != nil {
		return nil, err
	}
	return c.Play(setup)
}

// Configure asks for board size, mode, search depth and the AI of each computer side.
func (c *Console) Configure() (Setup, error) {
	p := c.prompter
	p.Printf("Chain Reaction\n%s\n", strings.Repeat("=", 60))

	var setup Setup
	var err error
	sizePrompt := fmt.Sprintf("(%d-%d): ", meta.MinBoardSize, meta.MaxBoardSize)
	if setup.Rows, err = p.Int("Enter number of rows "+sizePrompt, meta.MinBoardSize, meta.MaxBoardSize); err != nil {
		return setup, err
	}
	if setup.Cols, err = p.Int("Enter number of columns "+sizePrompt, meta.MinBoardSize, meta.MaxBoardSize); err != nil {
		return setup, err
	}

	p.Printf("\nGame Mode Selection:\n1. %s\n2. %s\n3. %s\n", UserVsUser, UserVsAI, AIvsAI)
	mode, err := p.Int("Select game mode (1-3): ", 1, 3)
	if err != nil {
		return setup, err
	}
	setup.Mode = Mode(mode)

	p.Printf("\nSmart AI Difficulty Configuration:\n2 - Easy (Fast)\n3 - Medium (Balanced)\n4 - Hard (Strategic)\n")
	if setup.Depth, err = p.Int("Select Smart AI depth (2-4): ", 2, 4); err != nil {
		return setup, err
	}

	switch setup.Mode {
	case UserVsAI:
		if setup.Blue, err = c.configureAI(game.Blue, setup.Depth); err != nil {
			return setup, err
		}
	case AIvsAI:
		if setup.Red, err = c.configureAI(game.Red, setup.Depth); err != nil {
			return setup, err
		}
		if setup.Blue, err = c.configureAI(game.Blue, setup.Depth); err != nil {
			return setup, err
		}
	}
	return setup, nil
}

func (c *Console) configureAI(player game.Player, depth int) (*searcher.Spec, error) {
	p := c.prompter
	p.Printf("\n%s AI Type:\n1 - Smart AI (Strategic Minimax)\n2 - Random AI (Makes random moves)\n", player)
	choice, err := p.Int(fmt.Sprintf("Select %s AI type (1-2): ", player), 1, 2)
	if err != nil {
		return nil, err
	}
	if choice == 2 {
		return &searcher.Spec{Kind: searcher.RandomKind}, nil
	}

	p.Printf("\n%s Smart AI Heuristic Selection:\n", player)
	for i, h := range game.Heuristics {
		p.Printf("%d - %s\n", i+1, h)
	}
	def := DefaultHeuristic(player)
	choice, err = p.IntOr(fmt.Sprintf("Select %s AI heuristic (1-%d, Enter for %s): ", player, len(game.Heuristics), def), 1, len(game.Heuristics), int(def)+1)
	if err != nil {
		return nil, err
	}
	return &searcher.Spec{Kind: searcher.Smart, Depth: depth, Heuristic: game.Heuristics[choice-1]}, nil
}

// Play runs the game loop until the game is over or an AI has no move, then saves the final
// state.
func (c *Console) Play(setup Setup) (*game.GameState, error) {
	p := c.prompter
	if _, err := c.session.Init(setup.Rows, setup.Cols); err != nil {
		return nil, err
	}
	start := time.Now()
	p.Printf("\nStarting %s game on a %dx%d grid!\n%s\n", setup.Mode, setup.Rows, setup.Cols, strings.Repeat("=", 60))

	for {
		gs, err := c.session.State()
		if err != nil {
			return nil, fmt.Errorf("failed to load game state: %w", err)
		}
		if gs.Over() {
			break
		}
		c.display(gs)

		player := gs.CurrentPlayer()
		spec := setup.Spec(player)
		var move game.Move
		var label string
		if spec == nil {
			if move, err = p.Move(gs, player); err != nil {
				return nil, err
			}
			label = "Human Move"
			if setup.Mode == UserVsUser {
				label = fmt.Sprintf("Human Move (%s)", player)
			}
		} else {
			name := aiName(*spec)
			p.Printf("\n%s (%s) is thinking...\n", name, player)
			agent := c.newAgent(player, *spec)
			var ok bool
			if move, ok = agent.BestMove(gs); !ok {
				p.Printf("%s (%s) could not find a valid move!\n", name, player)
				break
			}
			p.Printf("%s (%s) plays: %d, %d\n", name, player, move.Row, move.Col)
			label = name + " Move"
			if setup.Mode == AIvsAI {
				label = fmt.Sprintf("%s Move (%s)", name, player)
			}
		}

		if _, err := c.session.Play(move, player, label); err != nil {
			return nil, err
		}
	}

	gs, err := c.session.Finish()
	if err != nil {
		return nil, err
	}
	c.display(gs)
	p.Printf("\n%s\nGAME OVER!\n", strings.Repeat("=", 50))
	if gs.Winner() != game.None {
		p.Printf("Winner: %s Player!\n", gs.Winner())
	} else {
		p.Printf("It's a draw!\n")
	}
	p.Printf("Final Scores - Red: %d, Blue: %d\n", gs.Orbs(game.Red), gs.Orbs(game.Blue))
	p.Printf("Game duration: %.1f seconds\n", time.Since(start).Seconds())

	log.Info().Msgf("console game finished after %d moves", gs.MoveCount())
	return gs, nil
}

func (c *Console) display(gs *game.GameState) {
	p := c.prompter
	p.Printf("\nCurrent Board:\n")
	for row := 0; row < gs.Rows(); row++ {
		cells := make([]string, gs.Cols())
		for col := range cells {
			cells[col] = gs.Cell(row, col).String()
		}
		p.Printf("%s\n", strings.Join(cells, " "))
	}
	p.Printf("\nScores - Red: %d, Blue: %d\nCurrent Player: %s\n", gs.Orbs(game.Red), gs.Orbs(game.Blue), gs.CurrentPlayer())
}
