package engine

import "chainreaction/experiments/metrics"

type Engine interface {
	// Run plays a game till there's a winner or the turn cap is reached
	Run() (winner string, gameMetric metrics.GameMetric, moveMetrics []metrics.MoveMetric)
}
var _ Engine = (*LocalEngine)(nil)
