package experiments

import (
	"context"
	"fmt"
	"runtime"
	"time"

	"chainreaction/engine"
	"chainreaction/experiments/metrics"
	"chainreaction/game"
	"chainreaction/searcher"

	"github.com/rs/zerolog/log"
	"golang.org/x/exp/rand"
	"golang.org/x/sync/errgroup"
)

const (
	NumGames   = 20 // Per match up
	BoardSize  = 5
	TimeBudget = 2 * time.Second
)

var baseline = metrics.AgentConfig{ID: 0, Kind: "Random"}

// RunHeuristicExperiment pairs a depth-2 agent for every heuristic against the random baseline.
func RunHeuristicExperiment(ctx context.Context, options ...Option) error {
	configs := []metrics.AgentConfig{baseline}
	matchUps := [][2]metrics.AgentConfig{}
	for i, h := range game.Heuristics {
		config := metrics.AgentConfig{ID: i + 1, Kind: "Smart", Depth: 2, Heuristic: h.String(), Duration: TimeBudget}
		configs = append(configs, config)
		matchUps = append(matchUps, [2]metrics.AgentConfig{config, baseline})
	}
	return runExperiment(ctx, "heuristics", configs, matchUps, options...)
}

// RunDepthExperiment pairs deeper combined_v2 agents against a depth-1 combined_v2 agent.
func RunDepthExperiment(ctx context.Context, options ...Option) error {
	shallow := metrics.AgentConfig{ID: 1, Kind: "Smart", Depth: 1, Heuristic: game.Combined.String(), Duration: TimeBudget}
	configs := []metrics.AgentConfig{shallow}
	matchUps := [][2]metrics.AgentConfig{}
	for depth := 2; depth <= 4; depth++ {
		config := metrics.AgentConfig{ID: depth, Kind: "Smart", Depth: depth, Heuristic: game.Combined.String(), Duration: TimeBudget}
		configs = append(configs, config)
		matchUps = append(matchUps, [2]metrics.AgentConfig{config, shallow})
	}
	return runExperiment(ctx, "depth", configs, matchUps, options...)
}

// RunMatch plays two configurations against each other.
func RunMatch(ctx context.Context, config1, config2 metrics.AgentConfig, options ...Option) error {
	configs := []metrics.AgentConfig{config1, config2}
	return runExperiment(ctx, "match", configs, [][2]metrics.AgentConfig{{config1, config2}}, options...)
}

type Option func(r *runner)

type runner struct {
	games       int
	rows        int
	cols        int
	seed        uint64
	concurrency int
	writer      []metrics.WriterOption
}

func WithGames(games int) Option {
	return func(r *runner) {
		if games > 0 {
			r.games = games
		}
	}
}

func WithBoard(rows, cols int) Option {
	return func(r *runner) {
		r.rows, r.cols = rows, cols
	}
}

// WithSeed makes the random agents reproducible.
func WithSeed(seed uint64) Option {
	return func(r *runner) {
		r.seed = seed
	}
}

// WithConcurrency limits the number of games played at once.
func WithConcurrency(n int) Option {
	return func(r *runner) {
		if n > 0 {
			r.concurrency = n
		}
	}
}

// WithOutput writes results under root instead of ./experiments.
func WithOutput(root string) Option {
	return func(r *runner) {
		r.writer = append(r.writer, metrics.WithRoot(root))
	}
}

type job struct {
	id        int
	red, blue metrics.AgentConfig
	seed      uint64
}

type result struct {
	game  metrics.GameRecord
	moves []metrics.MoveRecord
}

func runExperiment(ctx context.Context, name string, configs []metrics.AgentConfig, matchUps [][2]metrics.AgentConfig, options ...Option) error {
	r := &runner{
		games:       NumGames,
		rows:        BoardSize,
		cols:        BoardSize,
		seed:        uint64(time.Now().UnixNano()),
		concurrency: runtime.NumCPU(),
	}
	for _, option := range options {
		option(r)
	}

	// Agents alternate sides so neither always starts
	rng := rand.New(rand.NewSource(r.seed))
	jobs := []job{}
	for _, matchUp := range matchUps {
		for i := 0; i < r.games; i++ {
			j := job{id: len(jobs) + 1, red: matchUp[0], blue: matchUp[1], seed: rng.Uint64()}
			if i%2 == 1 {
				j.red, j.blue = j.blue, j.red
			}
			jobs = append(jobs, j)
		}
	}

	log.Info().Msgf("starting %s experiment with %d games...", name, len(jobs))
	startedAt := time.Now()

	results := make([]result, len(jobs))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(r.concurrency)
	for i, j := range jobs {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			res, err := r.runGame(j)
			if err != nil {
				return err
			}
			results[i] = res
			log.Info().Msgf("completed game %d of %d with winner: %q", j.id, len(jobs), res.game.Winner)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return fmt.Errorf("failed to run %s experiment: %w", name, err)
	}

	log.Info().Msgf("completed %s experiment", name)
	logSummary(matchUps, results)

	writer, err := metrics.NewWriter(name, r.writer...)
	if err != nil {
		return fmt.Errorf("failed to create experiment writer: %w", err)
	}
	err = writer.WriteSetup(metrics.Setup{
		Name:         name,
		Rows:         r.rows,
		Cols:         r.cols,
		GamesPerPair: r.games,
		Seed:         r.seed,
		StartedAt:    startedAt,
	})
	if err != nil {
		return err
	}
	if err := writer.WriteAgentConfigs(configs); err != nil {
		return err
	}

	gameRecords := make([]metrics.GameRecord, 0, len(results))
	moveRecords := []metrics.MoveRecord{}
	for _, res := range results {
		gameRecords = append(gameRecords, res.game)
		moveRecords = append(moveRecords, res.moves...)
	}
	if err := writer.WriteGameRecords(gameRecords); err != nil {
		return err
	}
	if err := writer.WriteMoveRecords(moveRecords); err != nil {
		return err
	}
	log.Info().Str("dir", writer.Dir()).Msg("stored experiment records")
	return nil
}

// runGame plays a single game of j on its own board and agents.
func (r *runner) runGame(j job) (result, error) {
	red, err := toSpec(j.red, j.seed)
	if err != nil {
		return result{}, err
	}
	blue, err := toSpec(j.blue, j.seed+1)
	if err != nil {
		return result{}, err
	}

	e := engine.Local(r.rows, r.cols, []searcher.Agent{
		searcher.New(game.Red, red),
		searcher.New(game.Blue, blue),
	})
	_, gameMetric, moveMetrics := e.Run()

	res := result{game: metrics.GameRecord{ID: j.id, Agent1: j.red.ID, Agent2: j.blue.ID, GameMetric: gameMetric}}
	for _, mm := range moveMetrics {
		res.moves = append(res.moves, metrics.MoveRecord{Game: j.id, MoveMetric: mm})
	}
	return res, nil
}

func toSpec(config metrics.AgentConfig, seed uint64) (searcher.Spec, error) {
	kind, err := searcher.ParseKind(config.Kind)
	if err != nil {
		return searcher.Spec{}, fmt.Errorf("agent %d: %w", config.ID, err)
	}
	spec := searcher.Spec{Kind: kind, Depth: config.Depth, Duration: config.Duration, MaxNodes: config.MaxNodes, Seed: seed}
	if kind == searcher.Smart {
		spec.Heuristic = game.Combined
		if config.Heuristic != "" {
			if spec.Heuristic, err = game.ParseHeuristic(config.Heuristic); err != nil {
				return searcher.Spec{}, fmt.Errorf("agent %d: %w", config.ID, err)
			}
		}
	}
	return spec, nil
}

func logSummary(matchUps [][2]metrics.AgentConfig, results []result) {
	for _, matchUp := range matchUps {
		a, b := matchUp[0].ID, matchUp[1].ID
		wins := map[int]int{}
		games := 0
		for _, res := range results {
			gr := res.game
			if !(gr.Agent1 == a && gr.Agent2 == b) && !(gr.Agent1 == b && gr.Agent2 == a) {
				continue
			}
			games++
			switch gr.Winner {
			case game.Red.String():
				wins[gr.Agent1]++
			case game.Blue.String():
				wins[gr.Agent2]++
			}
		}
		log.Info().Msgf("agent %d vs agent %d: %d-%d over %d games", a, b, wins[a], wins[b], games)
	}
}
