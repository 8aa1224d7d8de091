package metrics

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/google/uuid"
)

type GameRecord struct {
	ID     int
	Agent1 int // AgentConfig.ID of the Red player
	Agent2 int // AgentConfig.ID of the Blue player
	GameMetric
}

type MoveRecord struct {
	Game int // GameRecord.ID
	MoveMetric
}

// Setup describes one experiment run.
type Setup struct {
	RunID        string    `json:"run_id"`
	Name         string    `json:"name"`
	Rows         int       `json:"rows"`
	Cols         int       `json:"cols"`
	GamesPerPair int       `json:"games_per_pair"`
	Seed         uint64    `json:"seed"`
	StartedAt    time.Time `json:"started_at"`
}

type WriterOption func(w *Writer)

type Writer struct {
	root    string
	runID   string
	baseDir string
}

// WithRoot changes the directory experiment runs are written under.
func WithRoot(root string) WriterOption {
	return func(w *Writer) {
		w.root = root
	}
}

// NewWriter creates <root>/<name>/<timestamp>-<run id> for the results of one run.
func NewWriter(name string, options ...WriterOption) (*Writer, error) {
	w := &Writer{
		root:  "experiments",
		runID: uuid.NewString(),
	}
	for _, option := range options {
		option(w)
	}

	// Subfolder named by current timestamp
	timestamp := time.Now().UTC().Format("20060102T150405Z")
	w.baseDir = filepath.Join(w.root, name, timestamp+"-"+w.runID)
	err := os.MkdirAll(w.baseDir, 0755)
	if err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}
	return w, nil
}

func (w *Writer) RunID() string { return w.runID }
func (w *Writer) Dir() string   { return w.baseDir }

func (w *Writer) WriteSetup(setup Setup) error {
	setup.RunID = w.runID
	data, err := json.MarshalIndent(setup, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode setup: %w", err)
	}
	err = os.WriteFile(filepath.Join(w.baseDir, "setup.json"), data, 0644)
	if err != nil {
		return fmt.Errorf("failed to write setup file: %w", err)
	}
	return nil
}

func (w *Writer) WriteAgentConfigs(configs []AgentConfig) error {
	header := []string{"id", "kind", "depth", "heuristic", "duration", "max_nodes"}
	rows := make([][]string, 0, len(configs))
	for _, config := range configs {
		rows = append(rows, []string{
			strconv.Itoa(config.ID),
			config.Kind,
			strconv.Itoa(config.Depth),
			config.Heuristic,
			config.Duration.String(),
			strconv.Itoa(config.MaxNodes),
		})
	}
	return w.writeCSV("agent_configs.csv", "agent configs", header, rows)
}

func (w *Writer) WriteGameRecords(records []GameRecord) error {
	header := []string{"id", "agent1", "agent2", "starting_player", "winner", "start_time", "end_time", "duration", "total_moves", "red_orbs", "blue_orbs"}
	rows := make([][]string, 0, len(records))
	for _, record := range records {
		rows = append(rows, []string{
			strconv.Itoa(record.ID),
			strconv.Itoa(record.Agent1),
			strconv.Itoa(record.Agent2),
			record.StartingPlayer,
			record.Winner,
			record.StartTime.Format(time.RFC3339),
			record.EndTime.Format(time.RFC3339),
			record.Duration.String(),
			strconv.Itoa(record.TotalMoves),
			strconv.Itoa(record.RedOrbs),
			strconv.Itoa(record.BlueOrbs),
		})
	}
	return w.writeCSV("game_records.csv", "game records", header, rows)
}

func (w *Writer) WriteMoveRecords(records []MoveRecord) error {
	header := []string{"game", "step", "player", "row", "col", "agent", "depth", "heuristic", "duration", "nodes", "pruned", "moves_considered", "cache_hits", "budget_exceeded"}
	rows := make([][]string, 0, len(records))
	for _, record := range records {
		rows = append(rows, []string{
			strconv.Itoa(record.Game),
			strconv.Itoa(record.Step),
			record.Player,
			strconv.Itoa(record.Row),
			strconv.Itoa(record.Col),
			record.Agent,
			strconv.Itoa(record.Depth),
			record.Heuristic,
			record.Duration.String(),
			strconv.Itoa(record.Nodes),
			strconv.Itoa(record.Pruned),
			strconv.Itoa(record.MovesConsidered),
			strconv.Itoa(record.CacheHits),
			strconv.FormatBool(record.BudgetExceeded),
		})
	}
	return w.writeCSV("move_records.csv", "move records", header, rows)
}

func (w *Writer) writeCSV(file, what string, header []string, rows [][]string) error {
	f, err := os.Create(filepath.Join(w.baseDir, file))
	if err != nil {
		return fmt.Errorf("failed to create %s file: %w", what, err)
	}
	defer f.Close()

	writer := csv.NewWriter(f)
	err = writer.Write(header)
	if err != nil {
		return fmt.Errorf("failed to write %s header: %w", what, err)
	}
	err = writer.WriteAll(rows) // Flushes
	if err != nil {
		return fmt.Errorf("failed to write %s rows: %w", what, err)
	}
	return nil
}
