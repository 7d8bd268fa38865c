package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/mincheolkk/atdd-subway-path/internal/generator"
)

func main() {
	cfg := generator.DefaultConfig()
	var (
		lines          = flag.Int("lines", cfg.NumLines, "number of lines to generate")
		stationsOnLine = flag.Int("stations-per-line", cfg.StationsPerLine, "number of stations on each line")
		transferChance = flag.Float64("transfer-chance", cfg.TransferChance, "probability that a stop reuses a station from another line")
		minDistance    = flag.Int64("min-distance", cfg.MinDistance, "minimum section distance")
		maxDistance    = flag.Int64("max-distance", cfg.MaxDistance, "maximum section distance")
		seed           = flag.Int64("seed", cfg.Seed, "random seed for deterministic generation")
		output         = flag.String("output", "seed-data/network.yaml", "file to write; a .json extension selects JSON")
		writeStdout    = flag.Bool("stdout", false, "write the YAML dataset to stdout instead of a file")
	)
	flag.Parse()

	genCfg := generator.Config{
		NumLines:        *lines,
		StationsPerLine: *stationsOnLine,
		TransferChance:  clampProbability(*transferChance),
		MinDistance:     *minDistance,
		MaxDistance:     *maxDistance,
		Seed:            *seed,
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	network, err := generator.New(genCfg).Generate(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "generation failed: %v\n", err)
		os.Exit(1)
	}

	if *writeStdout {
		if err := generator.Encode(os.Stdout, network, generator.FormatYAML); err != nil {
			fmt.Fprintf(os.Stderr, "failed to write dataset to stdout: %v\n", err)
			os.Exit(1)
		}
		return
	}

	if err := generator.WriteNetwork(network, *output); err != nil {
		fmt.Fprintf(os.Stderr, "failed to write dataset: %v\n", err)
		os.Exit(1)
	}

	fmt.Fprintf(os.Stdout, "Generated %d stations on %d lines into %s\n", len(network.Stations), len(network.Lines), *output)
}

func clampProbability(value float64) float64 {
	if value < 0 {
		return 0
	}
	if value > 1 {
		return 1
	}
	return value
}
