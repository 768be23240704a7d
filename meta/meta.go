// meta/meta.go
package meta

import (
	"fmt"
	"os"
	"time"

	"goban/experiments/metrics"
	"goban/searcher"

	"gopkg.in/yaml.v3"
)

// GO_ROUTINES defines the number of goroutines to use.
const GO_ROUTINES = 8

// EPISODES defines the number of episodes for MCTS.
const EPISODES = 150

// BOARD_SIZE is the edge of the board experiments play on.
const BOARD_SIZE = 9

// KOMI is given to White.
const KOMI = 7.5

// MAX_MOVES ends a self-play game that never sees two passes in a row.
const MAX_MOVES = 300

// GAMES is the number of games per matchup.
const GAMES = 10

// Config describes one experiment: the agents taking part and who plays whom.
type Config struct {
	Name         string                `yaml:"name"`
	OutputDir    string                `yaml:"output_dir"`
	BoardSize    int                   `yaml:"board_size"`
	Komi         float64               `yaml:"komi"`
	Games        int                   `yaml:"games"` // Per matchup
	MaxMoves     int                   `yaml:"max_moves"`
	OpeningMoves int                   `yaml:"opening_moves"` // Played at random
	Exhaustion   string                `yaml:"exhaustion"`    // "fail" or "score"
	Agents       []metrics.AgentConfig `yaml:"agents"`
	MatchUps     [][2]int              `yaml:"matchups"` // Agent IDs, Black first
}

// Default is the configuration every loaded file is laid over.
func Default() Config {
	return Config{
		Name:       "default",
		OutputDir:  "results",
		BoardSize:  BOARD_SIZE,
		Komi:       KOMI,
		Games:      GAMES,
		MaxMoves:   MAX_MOVES,
		Exhaustion: searcher.ScoreOnExhaustion.String(),
		Agents: []metrics.AgentConfig{
			{ID: 1, Goroutines: GO_ROUTINES, Episodes: EPISODES, Heuristics: "default"},
			{ID: 2, Goroutines: GO_ROUTINES, Episodes: EPISODES, Heuristics: "uniform"},
		},
		MatchUps: [][2]int{{1, 2}, {2, 1}},
	}
}

// Load reads a YAML experiment file. Fields missing from the file keep their
// defaults; agents and matchups given in the file replace the default ones.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config: %w", err)
	}

	config := Default()
	err = yaml.Unmarshal(data, &config)
	if err != nil {
		return Config{}, fmt.Errorf("failed to parse config %s: %w", path, err)
	}

	err = config.Validate()
	if err != nil {
		return Config{}, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return config, nil
}

func (c Config) Validate() error {
	if c.BoardSize < 1 || c.BoardSize > 19 {
		return fmt.Errorf("board size %d out of range 1..19", c.BoardSize)
	}
	if c.Games < 1 {
		return fmt.Errorf("need at least one game per matchup, got %d", c.Games)
	}
	if _, err := searcher.ParseExhaustionPolicy(c.Exhaustion); err != nil {
		return err
	}

	ids := make(map[int]bool, len(c.Agents))
	for _, agent := range c.Agents {
		if ids[agent.ID] {
			return fmt.Errorf("duplicate agent %d", agent.ID)
		}
		ids[agent.ID] = true
		if agent.Goroutines < 1 {
			return fmt.Errorf("agent %d needs at least one goroutine", agent.ID)
		}
		if agent.Episodes <= 0 && agent.Duration <= 0 {
			return fmt.Errorf("agent %d needs episodes or a duration", agent.ID)
		}
		if agent.Temperature < 0 {
			return fmt.Errorf("agent %d has a negative temperature", agent.ID)
		}
		if _, err := ParseHeuristics(agent.Heuristics); err != nil {
			return fmt.Errorf("agent %d: %w", agent.ID, err)
		}
	}
	for _, matchUp := range c.MatchUps {
		for _, id := range matchUp {
			if !ids[id] {
				return fmt.Errorf("matchup %v names unknown agent %d", matchUp, id)
			}
		}
	}
	return nil
}

// Agent looks up an agent by ID.
func (c Config) Agent(id int) (metrics.AgentConfig, bool) {
	for _, agent := range c.Agents {
		if agent.ID == id {
			return agent, true
		}
	}
	return metrics.AgentConfig{}, false
}

// ParseHeuristics maps a heuristics name to its weights. The empty name is
// the default.
func ParseHeuristics(name string) (searcher.Heuristics, error) {
	switch name {
	case "", "default":
		return searcher.DefaultHeuristics(), nil
	case "uniform":
		return searcher.UniformHeuristics(), nil
	default:
		return searcher.Heuristics{}, fmt.Errorf("unknown heuristics %q", name)
	}
}

// TimeBudget is the search duration of the preset experiments.
const TimeBudget = 10 * time.Millisecond
