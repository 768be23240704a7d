package experiments

import (
	"goban/experiments/metrics"
	"goban/meta"
)

// Throughput measures episodes per search as goroutines are added. Each
// matchup uses the same config for both players for the same playing
// strength and similar game length.
func Throughput() meta.Config {
	config := meta.Default()
	config.Name = "throughput"
	config.Games = 1
	config.Agents = nil
	config.MatchUps = nil
	for i, goroutines := range []int{1, 2, 4, 8, 16, 32, 64, 128} {
		agent := metrics.AgentConfig{ID: i + 1, Goroutines: goroutines, Duration: meta.TimeBudget}
		config.Agents = append(config.Agents, agent)
		config.MatchUps = append(config.MatchUps, [2]int{agent.ID, agent.ID})
	}
	return config
}
