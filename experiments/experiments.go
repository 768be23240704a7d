package experiments

import (
	"context"
	"fmt"

	"goban/engine"
	"goban/experiments/metrics"
	"goban/game"
	"goban/meta"
	"goban/searcher"
	"goban/searcher/agent"

	"github.com/rs/zerolog/log"
)

var parallelConfigs = []metrics.AgentConfig{
	{ID: 1, Goroutines: 1, Duration: meta.TimeBudget},
	{ID: 2, Goroutines: 4, Duration: meta.TimeBudget},
	{ID: 3, Goroutines: 8, Duration: meta.TimeBudget},
	{ID: 4, Goroutines: 16, Duration: meta.TimeBudget},
	{ID: 5, Goroutines: 32, Duration: meta.TimeBudget},
}

// Parallelization pairs each parallel agent against the sequential baseline,
// once with each color.
func Parallelization() meta.Config {
	config := meta.Default()
	config.Name = "parallelization"
	baseline := metrics.AgentConfig{ID: 0, Goroutines: 1, Duration: meta.TimeBudget}
	config.Agents = append([]metrics.AgentConfig{baseline}, parallelConfigs...)
	config.MatchUps = nil
	for _, agent := range parallelConfigs {
		config.MatchUps = append(config.MatchUps, [2]int{baseline.ID, agent.ID}, [2]int{agent.ID, baseline.ID})
	}
	return config
}

// Heuristics pairs the tactical rollout policy against the uniform one at the
// same budget.
func Heuristics() meta.Config {
	config := meta.Default()
	config.Name = "heuristics"
	config.OpeningMoves = 2
	return config
}

var presets = map[string]func() meta.Config{
	"parallelization": Parallelization,
	"heuristics":      Heuristics,
	"throughput":      Throughput,
}

// Preset returns a named built-in experiment.
func Preset(name string) (meta.Config, bool) {
	preset, ok := presets[name]
	if !ok {
		return meta.Config{}, false
	}
	return preset(), true
}

// Run plays every matchup of config and stores the agent configs, game records
// and move records under config.OutputDir. It returns the directory written.
func Run(ctx context.Context, config meta.Config) (string, error) {
	if err := config.Validate(); err != nil {
		return "", err
	}

	// Run a number of games for each matchup
	count := 0
	gameRecords := []metrics.GameRecord{}
	moveRecords := []metrics.MoveRecord{}

	log.Info().Msgf("starting %s experiment...", config.Name)

	for mi, matchUp := range config.MatchUps {
		config1, _ := config.Agent(matchUp[0])
		config2, _ := config.Agent(matchUp[1])

		log.Info().Msgf("starting matchup %d of %d between black=%+v and white=%+v...", mi+1, len(config.MatchUps), config1, config2)

		for i := 0; i < config.Games; i++ {
			log.Info().Msgf("starting matchup %d of %d game %d of %d...", mi+1, len(config.MatchUps), i+1, config.Games)

			winner, gameMetric, moveMetrics, err := runGame(ctx, config, config1, config2)
			if err != nil {
				return "", fmt.Errorf("matchup %d game %d: %w", mi+1, i+1, err)
			}
			count++
			gameRecords = append(gameRecords, metrics.GameRecord{
				ID:         count,
				Agent1:     config1.ID,
				Agent2:     config2.ID,
				GameMetric: gameMetric,
			})
			for _, mm := range moveMetrics {
				moveRecords = append(moveRecords, metrics.MoveRecord{
					Game:       count,
					MoveMetric: mm,
				})
			}

			log.Info().Msgf("completed matchup %d of %d game %d with winner: %v", mi+1, len(config.MatchUps), i+1, winner)
		}
		log.Info().Msgf("completed matchup %d of %d", mi+1, len(config.MatchUps))
	}

	log.Info().Msgf("completed %s experiment", config.Name)

	return store(config, gameRecords, moveRecords)
}

func store(config meta.Config, gameRecords []metrics.GameRecord, moveRecords []metrics.MoveRecord) (string, error) {
	writer, err := metrics.NewWriter(config.OutputDir, config.Name)
	if err != nil {
		return "", fmt.Errorf("failed to create experiment writer: %w", err)
	}

	err = writer.WriteAgentConfigs(config.Agents)
	if err != nil {
		return "", fmt.Errorf("failed to store agent configs: %w", err)
	}
	log.Info().Msg("stored agent configs")

	err = writer.WriteGameRecords(gameRecords)
	if err != nil {
		return "", fmt.Errorf("failed to write game records: %w", err)
	}
	log.Info().Msg("stored game records")

	err = writer.WriteMoveRecords(moveRecords)
	if err != nil {
		return "", fmt.Errorf("failed to write move records: %w", err)
	}
	log.Info().Msg("stored move records")
	return writer.Dir(), nil
}

// runGame plays a single game between two agents and returns the winner
func runGame(ctx context.Context, config meta.Config, black, white metrics.AgentConfig) (game.Color, metrics.GameMetric, []metrics.MoveMetric, error) {
	blackAgent, err := createAgent(config, black)
	if err != nil {
		return game.Empty, metrics.GameMetric{}, nil, err
	}
	whiteAgent, err := createAgent(config, white)
	if err != nil {
		return game.Empty, metrics.GameMetric{}, nil, err
	}

	e := engine.NewLocalEngine(config.BoardSize, blackAgent, whiteAgent,
		engine.WithKomi(config.Komi),
		engine.WithMaxMoves(config.MaxMoves),
		engine.WithRandomOpening(config.OpeningMoves),
	)
	return e.Run(ctx)
}

func createAgent(config meta.Config, agentConfig metrics.AgentConfig) (agent.Agent, error) {
	mcts, err := createMCTS(config, agentConfig)
	if err != nil {
		return nil, err
	}
	if agentConfig.Temperature > 0 {
		return agent.NewTrainingAgent(mcts, agentConfig.Temperature, 0), nil
	}
	return agent.NewEvaluationAgent(mcts), nil
}

func createMCTS(config meta.Config, agentConfig metrics.AgentConfig) (*searcher.MCTS, error) {
	heuristics, err := meta.ParseHeuristics(agentConfig.Heuristics)
	if err != nil {
		return nil, err
	}
	exhaustion, err := searcher.ParseExhaustionPolicy(config.Exhaustion)
	if err != nil {
		return nil, err
	}

	options := []searcher.Option{
		searcher.WithKomi(config.Komi),
		searcher.WithHeuristics(heuristics),
		searcher.WithExhaustionPolicy(exhaustion),
	}
	if agentConfig.Episodes > 0 {
		options = append(options, searcher.WithEpisodes(agentConfig.Episodes))
	}
	if agentConfig.Duration > 0 {
		options = append(options, searcher.WithDuration(agentConfig.Duration))
	}
	if agentConfig.MaxRolloutMoves > 0 {
		options = append(options, searcher.WithMaxRolloutMoves(agentConfig.MaxRolloutMoves))
	}

	options = append(options, searcher.WithMetrics())
	return searcher.NewMCTS(agentConfig.Goroutines, options...), nil
}
