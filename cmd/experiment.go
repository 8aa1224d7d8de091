package cmd

import (
	"chainreaction/experiments"
	"chainreaction/experiments/metrics"

	"github.com/spf13/cobra"
)

type experimentOptions struct {
	games       int
	rows        int
	cols        int
	seed        uint64
	concurrency int
	out         string

	// match only
	red, blue metrics.AgentConfig
}

func (o *experimentOptions) options(cmd *cobra.Command) []experiments.Option {
	options := []experiments.Option{
		experiments.WithGames(o.games),
		experiments.WithBoard(o.rows, o.cols),
		experiments.WithConcurrency(o.concurrency),
		experiments.WithOutput(o.out),
	}
	if cmd.Flags().Changed("seed") {
		options = append(options, experiments.WithSeed(o.seed))
	}
	return options
}

func newExperimentCommand() *cobra.Command {
	opts := &experimentOptions{}
	cmd := &cobra.Command{
		Use:   "experiment",
		Short: "Run AI tournaments and write CSV results",
	}

	flags := cmd.PersistentFlags()
	flags.IntVar(&opts.games, "games", experiments.NumGames, "games per match up")
	flags.IntVar(&opts.rows, "rows", experiments.BoardSize, "board rows")
	flags.IntVar(&opts.cols, "cols", experiments.BoardSize, "board columns")
	flags.Uint64Var(&opts.seed, "seed", 0, "seed for the random agents")
	flags.IntVar(&opts.concurrency, "concurrency", 0, "games played at once (default: number of CPUs)")
	flags.StringVar(&opts.out, "out", "experiments", "output directory")

	match := &cobra.Command{
		Use:   "match",
		Short: "Play two configured agents against each other",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return experiments.RunMatch(cmd.Context(), opts.red, opts.blue, opts.options(cmd)...)
		},
	}
	opts.red.ID, opts.blue.ID = 1, 2
	for _, side := range []struct {
		name   string
		config *metrics.AgentConfig
	}{{"red", &opts.red}, {"blue", &opts.blue}} {
		mf := match.Flags()
		mf.StringVar(&side.config.Kind, side.name+"-kind", "Smart", side.name+" agent kind (Smart or Random)")
		mf.IntVar(&side.config.Depth, side.name+"-depth", 3, side.name+" search depth")
		mf.StringVar(&side.config.Heuristic, side.name+"-heuristic", "combined_v2", side.name+" heuristic")
		mf.DurationVar(&side.config.Duration, side.name+"-time", experiments.TimeBudget, side.name+" time per move")
		mf.IntVar(&side.config.MaxNodes, side.name+"-nodes", 0, side.name+" node cap per move (default 750000)")
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "heuristics",
			Short: "Every heuristic at depth 2 against the random agent",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return experiments.RunHeuristicExperiment(cmd.Context(), opts.options(cmd)...)
			},
		},
		&cobra.Command{
			Use:   "depth",
			Short: "Deeper combined_v2 searches against depth 1",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return experiments.RunDepthExperiment(cmd.Context(), opts.options(cmd)...)
			},
		},
		match,
	)
	return cmd
}
