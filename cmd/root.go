package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"chainreaction/communication"
	"chainreaction/config"
	"chainreaction/gamemaster"
	"chainreaction/meta"
	"chainreaction/player"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

type rootOptions struct {
	logLevel   string
	logJSON    bool
	envFile    string
	stateFile  string
	configFile string
	bridgeMode bool
}

// NewRootCommand builds the command tree. Without a subcommand it plays in the console, or
// runs the bridge with --bridge-mode.
func NewRootCommand() *cobra.Command {
	opts := &rootOptions{}
	root := &cobra.Command{
		Use:           "chainreaction",
		Short:         "Chain Reaction with minimax and random AI players",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := setupLogger(cmd.ErrOrStderr(), opts.logLevel, opts.logJSON); err != nil {
				return err
			}
			return config.LoadEnv(opts.envFile)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.bridgeMode {
				return runBridge(cmd, opts)
			}
			return runPlay(cmd, opts)
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&opts.logLevel, "log-level", "info", "log level (trace, debug, info, warn, error)")
	flags.BoolVar(&opts.logJSON, "log-json", false, "log JSON lines instead of console output")
	flags.StringVar(&opts.envFile, "env", ".env", "environment file loaded before the config")
	flags.StringVar(&opts.stateFile, "state", meta.GameStateFile, "game state file shared with the frontend")
	flags.StringVar(&opts.configFile, "config", meta.ConfigFile, "AI configuration written by the frontend")
	root.Flags().BoolVar(&opts.bridgeMode, "bridge-mode", false, "same as the bridge command")

	root.AddCommand(
		&cobra.Command{
			Use:   "play",
			Short: "Play an interactive game in the terminal",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return runPlay(cmd, opts)
			},
		},
		&cobra.Command{
			Use:   "bridge",
			Short: "Answer frontend requests read line by line from stdin",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return runBridge(cmd, opts)
			},
		},
		newExperimentCommand(),
	)
	return root
}

// Execute runs the command line and exits non-zero on failure.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := NewRootCommand().ExecuteContext(ctx); err != nil {
		log.Error().Err(err).Msg("command failed")
		stop()
		os.Exit(1)
	}
}

func setupLogger(w io.Writer, level string, json bool) error {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		return fmt.Errorf("invalid log level: %w", err)
	}
	zerolog.SetGlobalLevel(lvl)
	if json {
		log.Logger = zerolog.New(w).With().Timestamp().Logger()
	} else {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: w, TimeFormat: time.TimeOnly})
	}
	return nil
}

func runPlay(cmd *cobra.Command, opts *rootOptions) error {
	comm := communication.NewFileCommunicator(opts.stateFile)
	c := player.NewConsole(cmd.InOrStdin(), cmd.OutOrStdout(), comm)
	_, err := c.Run()
	if err == nil {
		cmd.Printf("Game state saved to: %s\n", opts.stateFile)
	}
	return err
}

func runBridge(cmd *cobra.Command, opts *rootOptions) error {
	comm := communication.NewFileCommunicator(opts.stateFile)
	gm := gamemaster.NewGameMaster(comm, gamemaster.WithConfigLoader(func() (*config.Config, error) {
		return config.Load(opts.configFile)
	}))
	return gm.Run(cmd.InOrStdin())
}
