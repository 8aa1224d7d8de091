package metrics

import (
	"time"
)

type SearchMetric struct {
	Agent           string // "minimax" or "random"
	Depth           int
	Heuristic       string
	Duration        time.Duration
	Nodes           int
	Pruned          int
	MovesConsidered int
	CacheHits       int
	BudgetExceeded  bool
}

// HitRate is the share of visited nodes answered from the transposition table.
func (m SearchMetric) HitRate() float64 {
	if m.Nodes == 0 {
		return 0
	}
	return float64(m.CacheHits) / float64(m.Nodes)
}

// PruneRate relates pruned siblings to the moves actually expanded.
func (m SearchMetric) PruneRate() float64 {
	if m.MovesConsidered == 0 {
		return 0
	}
	return float64(m.Pruned) / float64(m.MovesConsidered)
}

type MoveMetric struct {
	Step   int
	Player string
	Row    int
	Col    int
	SearchMetric
}

type GameMetric struct {
	StartingPlayer string
	Winner         string // Empty if the turn cap was hit
	StartTime      time.Time
	EndTime        time.Time
	Duration       time.Duration
	TotalMoves     int
	RedOrbs        int
	BlueOrbs       int
}

// AgentConfig describes one contestant of an experiment.
type AgentConfig struct {
	ID        int
	Kind      string // "Smart" or "Random"
	Depth     int
	Heuristic string
	Duration  time.Duration
	MaxNodes  int
}

// Collector accumulates the counters of one search. A collector is owned by a single search
// and is not safe for concurrent use.
type Collector interface {
	Start(agent string, depth int, heuristic string)
	AddNode()
	AddPruned(n int)
	AddMoveConsidered()
	AddCacheHit()
	SetBudgetExceeded()
	Complete() SearchMetric
}

type collector struct {
	metric    SearchMetric
	startTime time.Time
}

func NewCollector() Collector {
	return &collector{}
}

func (m *collector) Start(agent string, depth int, heuristic string) {
	m.metric = SearchMetric{Agent: agent, Depth: depth, Heuristic: heuristic}
	m.startTime = time.Now()
}

func (m *collector) AddNode() {
	m.metric.Nodes++
}

func (m *collector) AddPruned(n int) {
	m.metric.Pruned += n
}

func (m *collector) AddMoveConsidered() {
	m.metric.MovesConsidered++
}

func (m *collector) AddCacheHit() {
	m.metric.CacheHits++
}

func (m *collector) SetBudgetExceeded() {
	m.metric.BudgetExceeded = true
}

func (m *collector) Complete() SearchMetric {
	metric := m.metric
	metric.Duration = time.Since(m.startTime)
	return metric
}
