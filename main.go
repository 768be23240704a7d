package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"strings"

	"goban/experiments"
	"goban/game"
	"goban/meta"
	"goban/searcher"
	"goban/utils"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	configPath := flag.String("config", "", "YAML experiment file")
	experiment := flag.String("experiment", "", "Built-in experiment: parallelization, heuristics or throughput")
	output := flag.String("out", "", "Directory for experiment results")
	position := flag.String("evaluate", "", "Diagram file of a position to search instead of running an experiment")
	color := flag.String("color", "black", "Player to move in the evaluated position")
	komi := flag.Float64("komi", meta.KOMI, "Komi of the evaluated position")
	simulations := flag.Int("simulations", meta.EPISODES*10, "Episodes for the evaluated position")
	debug := flag.Bool("debug", false, "Debug logging")
	flag.Parse()

	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if *debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}

	if *position != "" {
		evaluate(*position, *color, *komi, *simulations)
		return
	}

	config := meta.Default()
	switch {
	case *configPath != "":
		var err error
		config, err = meta.Load(*configPath)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to load experiment")
		}
	case *experiment != "":
		var ok bool
		config, ok = experiments.Preset(*experiment)
		if !ok {
			log.Fatal().Msgf("unknown experiment %q", *experiment)
		}
	}
	if *output != "" {
		config.OutputDir = *output
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	dir, err := experiments.Run(ctx, config)
	if err != nil {
		log.Fatal().Err(err).Msgf("%s experiment failed", config.Name)
	}
	log.Info().Msgf("results stored in %s", dir)
}

func evaluate(path, color string, komi float64, simulations int) {
	data, err := os.ReadFile(path)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to read position")
	}
	board, err := game.ParseDiagram(strings.Split(strings.TrimSpace(string(data)), "\n"))
	if err != nil {
		log.Fatal().Err(err).Msg("failed to parse position")
	}
	i := utils.FindIndex([]string{game.Black.String(), game.White.String()}, color)
	if i < 0 {
		log.Fatal().Msgf("unknown color %q", color)
	}
	toMove := game.Black + game.Color(i)

	result, err := searcher.Evaluate(board, toMove, komi, simulations)
	if err != nil {
		log.Fatal().Err(err).Msg("search failed")
	}
	log.Info().
		Str("move", result.Move.String()).
		Float64("value", result.Value).
		Float64("score", result.Score).
		Int("visits", result.Visits).
		Msg("best move")
}
