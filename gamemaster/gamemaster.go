package gamemaster

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"chainreaction/communication"
	"chainreaction/config"
	"chainreaction/game"
	"chainreaction/meta"
	"chainreaction/searcher"

	"github.com/rs/zerolog/log"
)

// Bridge commands, one per line.
const (
	CommandAIMove        = "ai_move"
	CommandProcessMove   = "process_move"
	CommandProcessAIMove = "process_ai_move"
	CommandExit          = "exit"
)

// Request labels written by the frontend.
const (
	LabelAITurnRequest    = "AI Turn Request"
	LabelHumanMoveRequest = "Human Move Request"
	LabelAIMoveRequest    = game.KeyAIMoveRequest
	LabelMoveProcessed    = "Move Processed"
)

// ErrNoRequest means the snapshot does not carry the request the command expects.
var ErrNoRequest = errors.New("no matching request found")

type Option func(gm *GameMaster)

// GameMaster answers frontend requests exchanged through a Communicator.
type GameMaster struct {
	Communicator communication.Communicator
	loadConfig   func() (*config.Config, error)
	newAgent     func(game.Player, searcher.Spec) searcher.Agent
}

// WithConfigLoader replaces how the config is read. It is called once per command.
func WithConfigLoader(load func() (*config.Config, error)) Option {
	return func(gm *GameMaster) {
		gm.loadConfig = load
	}
}

// WithAgentFactory replaces how agents are built from the config.
func WithAgentFactory(newAgent func(game.Player, searcher.Spec) searcher.Agent) Option {
	return func(gm *GameMaster) {
		gm.newAgent = newAgent
	}
}

// NewGameMaster initializes a new GameMaster.
func NewGameMaster(comm communication.Communicator, options ...Option) *GameMaster {
	gm := &GameMaster{
		Communicator: comm,
		loadConfig:   func() (*config.Config, error) { return config.Load(meta.ConfigFile) },
		newAgent:     searcher.New,
	}
	for _, option := range options {
		option(gm)
	}
	return gm
}

// Run handles commands from r until exit or EOF. Failed commands are logged and the loop
// continues.
func (gm *GameMaster) Run(r io.Reader) error {
	log.Info().Msg("bridge mode started")
	defer log.Info().Msg("bridge mode ended")

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		command := strings.TrimSpace(scanner.Text())
		if command == CommandExit {
			return nil
		}
		gm.Handle(command)
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("failed to read command: %w", err)
	}
	return nil
}

// Handle runs one command and reports whether it succeeded.
func (gm *GameMaster) Handle(command string) bool {
	var err error
	switch command {
	case "":
		return true
	case CommandAIMove:
		err = gm.AIMove()
		logResult(err, "AI move completed", "AI move failed")
	case CommandProcessMove:
		err = gm.ProcessMove()
		logResult(err, "human move processed", "human move processing failed")
	case CommandProcessAIMove:
		err = gm.ProcessAIMove()
		logResult(err, "AI move processed", "AI move processing failed")
	default:
		log.Warn().Msgf("unknown command: %s", command)
		return false
	}
	return err == nil
}

func logResult(err error, success, failure string) {
	if err != nil {
		log.Error().Err(err).Msg(failure)
		return
	}
	log.Info().Msg(success)
}

// AIMove plays the configured AI if the snapshot is an AI turn request. Any other snapshot is
// left untouched.
func (gm *GameMaster) AIMove() error {
	snap, err := gm.Communicator.Load()
	if err != nil {
		return err
	}
	if snap.Label != LabelAITurnRequest {
		return nil
	}
	cfg, err := gm.loadConfig()
	if err != nil {
		return err
	}
	if err := gm.playAI(snap.State, cfg); err != nil {
		return err
	}
	return gm.Communicator.Save(snap.State, fmt.Sprintf("AI %s Move", cfg.Label()))
}

// ProcessMove applies the move described by a human move request.
func (gm *GameMaster) ProcessMove() error {
	snap, err := gm.Communicator.Load()
	if err != nil {
		return err
	}
	if snap.Label != LabelHumanMoveRequest {
		return fmt.Errorf("%w: expected %q, got %q", ErrNoRequest, LabelHumanMoveRequest, snap.Label)
	}

	player, row, col, err := humanMove(snap)
	if err != nil {
		return err
	}
	gs := snap.State
	log.Debug().Msgf("making move: %s at (%d, %d), current player: %s", player, row, col, gs.CurrentPlayer())
	if !gs.MakeMove(row, col, player) {
		return fmt.Errorf("invalid move: %s at (%d, %d)", player, row, col)
	}

	log.Debug().Msgf("move successful, total orbs: %d, game over: %t", gs.Orbs(game.Red)+gs.Orbs(game.Blue), gs.Over())
	return gm.Communicator.Save(gs, LabelMoveProcessed)
}

// ProcessAIMove plays the configured AI for an AI move request. The request may be the label
// or a line anywhere in the file; the side it names is ignored in favour of the side to move.
func (gm *GameMaster) ProcessAIMove() error {
	snap, err := gm.Communicator.Load()
	if err != nil {
		return err
	}
	if !snap.AIMoveRequested() {
		return fmt.Errorf("%w: expected an %s line", ErrNoRequest, LabelAIMoveRequest)
	}
	cfg, err := gm.loadConfig()
	if err != nil {
		return err
	}
	if err := gm.playAI(snap.State, cfg); err != nil {
		return err
	}
	return gm.Communicator.Save(snap.State, fmt.Sprintf("%s AI Move", cfg.Label()))
}

// playAI lets the configured agent of the side to move play one move on gs.
func (gm *GameMaster) playAI(gs *game.GameState, cfg *config.Config) error {
	player := gs.CurrentPlayer()
	spec := cfg.Resolve(player)
	agent := gm.newAgent(player, spec)
	log.Debug().Msgf("created %s for %s", spec, player)

	move, ok := agent.BestMove(gs)
	if !ok {
		return fmt.Errorf("AI could not find a valid move for %s", player)
	}
	if !gs.MakeMove(move.Row, move.Col, player) {
		return fmt.Errorf("AI move failed: %s at %s", player, move)
	}
	log.Info().Msgf("AI move successful: %s at %s", player, move)
	return nil
}

// humanMove reads the Player, Row and Col request fields. "RED" means Red, anything else Blue.
func humanMove(snap *game.Snapshot) (game.Player, int, int, error) {
	name, okPlayer := snap.Field(game.KeyPlayer)
	rowText, okRow := snap.Field(game.KeyRow)
	colText, okCol := snap.Field(game.KeyCol)
	if !okPlayer || !okRow || !okCol {
		return game.None, 0, 0, errors.New("invalid human move request format")
	}

	row, err := strconv.Atoi(rowText)
	if err != nil {
		return game.None, 0, 0, fmt.Errorf("invalid row %q: %w", rowText, err)
	}
	col, err := strconv.Atoi(colText)
	if err != nil {
		return game.None, 0, 0, fmt.Errorf("invalid col %q: %w", colText, err)
	}

	player := game.Blue
	if name == "RED" {
		player = game.Red
	}
	return player, row, col, nil
}
