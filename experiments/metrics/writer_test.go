package metrics

import (
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	return rows
}

func TestWriter(t *testing.T) {
	root := t.TempDir()
	w, err := NewWriter("depth", WithRoot(root))
	require.NoError(t, err)

	t.Run("run directory", func(t *testing.T) {
		rel, err := filepath.Rel(filepath.Join(root, "depth"), w.Dir())
		require.NoError(t, err)
		require.False(t, strings.Contains(rel, string(filepath.Separator)), "One directory per run")
		require.True(t, strings.HasSuffix(rel, w.RunID()))
	})

	t.Run("setup", func(t *testing.T) {
		require.NoError(t, w.WriteSetup(Setup{Name: "depth", Rows: 5, Cols: 5, GamesPerPair: 2}))

		data, err := os.ReadFile(filepath.Join(w.Dir(), "setup.json"))
		require.NoError(t, err)
		var setup Setup
		require.NoError(t, json.Unmarshal(data, &setup))
		require.Equal(t, w.RunID(), setup.RunID)
		require.Equal(t, 5, setup.Rows)
	})

	t.Run("agent configs", func(t *testing.T) {
		configs := []AgentConfig{
			{ID: 1, Kind: "Smart", Depth: 3, Heuristic: "tempo", Duration: time.Second, MaxNodes: 100},
			{ID: 2, Kind: "Random"},
		}
		require.NoError(t, w.WriteAgentConfigs(configs))

		rows := readCSV(t, filepath.Join(w.Dir(), "agent_configs.csv"))
		require.Len(t, rows, 3)
		require.Equal(t, []string{"1", "Smart", "3", "tempo", "1s", "100"}, rows[1])
		require.Equal(t, "Random", rows[2][1])
	})

	t.Run("game and move records", func(t *testing.T) {
		games := []GameRecord{{ID: 1, Agent1: 1, Agent2: 2, GameMetric: GameMetric{StartingPlayer: "Red", Winner: "Blue", TotalMoves: 17, BlueOrbs: 17}}}
		moves := []MoveRecord{{Game: 1, MoveMetric: MoveMetric{
			Step: 1, Player: "Red", Row: 2, Col: 0,
			SearchMetric: SearchMetric{Agent: "minimax", Depth: 3, Nodes: 40, CacheHits: 4, BudgetExceeded: true},
		}}}
		require.NoError(t, w.WriteGameRecords(games))
		require.NoError(t, w.WriteMoveRecords(moves))

		gameRows := readCSV(t, filepath.Join(w.Dir(), "game_records.csv"))
		require.Len(t, gameRows, 2)
		require.Equal(t, "Blue", gameRows[1][4])
		require.Equal(t, "17", gameRows[1][8])

		moveRows := readCSV(t, filepath.Join(w.Dir(), "move_records.csv"))
		require.Len(t, moveRows, 2)
		require.Equal(t, []string{"1", "1", "Red", "2", "0", "minimax", "3", "", "0s", "40", "0", "0", "4", "true"}, moveRows[1])
	})
}

func TestSearchMetricRates(t *testing.T) {
	require.Zero(t, SearchMetric{}.HitRate())
	require.Zero(t, SearchMetric{}.PruneRate())
	require.Equal(t, 0.25, SearchMetric{Nodes: 8, CacheHits: 2}.HitRate())
	require.Equal(t, 2.0, SearchMetric{MovesConsidered: 3, Pruned: 6}.PruneRate())
}

func TestCollector(t *testing.T) {
	c := NewCollector()
	c.Start("minimax", 2, "tempo")
	c.AddNode()
	c.AddNode()
	c.AddPruned(3)
	c.AddMoveConsidered()
	c.AddCacheHit()
	c.SetBudgetExceeded()

	metric := c.Complete()
	require.Equal(t, SearchMetric{
		Agent: "minimax", Depth: 2, Heuristic: "tempo",
		Duration: metric.Duration, Nodes: 2, Pruned: 3, MovesConsidered: 1, CacheHits: 1, BudgetExceeded: true,
	}, metric)

	c.Start("random", 0, "")
	require.Zero(t, c.Complete().Nodes, "Start resets the counters")
}
