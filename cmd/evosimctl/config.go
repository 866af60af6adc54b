package main

import (
	"flag"
	"fmt"

	"evosim/internal/config"
)

// runFlags mirrors the ini keys a run can override from the command line.
type runFlags struct {
	configPath       string
	runID            string
	seed             int64
	generations      int
	animals          int
	food             int
	generationLength int
	visionCells      int
	selection        string
	crossover        string
	mutation         string
	mutationChance   float64
	mutationCoeff    float64
	storeKind        string
	dbPath           string
	metricsAddr      string
}

func registerRunFlags(fs *flag.FlagSet) *runFlags {
	def := config.Default()
	f := &runFlags{}
	fs.StringVar(&f.configPath, "config", "", "optional ini config path")
	fs.StringVar(&f.runID, "run-id", "", "explicit run id (default: generated uuid)")
	fs.Int64Var(&f.seed, "seed", def.Run.Seed, "rng seed")
	fs.IntVar(&f.generations, "gens", def.Run.Generations, "generations to evolve")
	fs.IntVar(&f.animals, "animals", def.World.Animals, "animals per generation")
	fs.IntVar(&f.food, "food", def.World.Food, "food items in the world")
	fs.IntVar(&f.generationLength, "generation-length", def.World.GenerationLength, "steps per generation")
	fs.IntVar(&f.visionCells, "vision-cells", def.Vision.Cells, "eye cells per animal")
	fs.StringVar(&f.selection, "selection", def.Evolution.Selection, "selection method")
	fs.StringVar(&f.crossover, "crossover", def.Evolution.Crossover, "crossover method")
	fs.StringVar(&f.mutation, "mutation", def.Evolution.Mutation, "mutation method")
	fs.Float64Var(&f.mutationChance, "mutation-chance", def.Evolution.MutationChance, "per-gene mutation probability")
	fs.Float64Var(&f.mutationCoeff, "mutation-coeff", def.Evolution.MutationCoefficient, "mutation magnitude coefficient")
	fs.StringVar(&f.storeKind, "store", def.Storage.Kind, "store backend: memory|sqlite")
	fs.StringVar(&f.dbPath, "db-path", def.Storage.Path, "sqlite database path")
	fs.StringVar(&f.metricsAddr, "metrics-addr", def.Metrics.Addr, "serve prometheus metrics on this address while running")
	return f
}

// resolveRunConfig loads the ini file (or defaults) and applies only the flags
// that were set explicitly.
func resolveRunConfig(fs *flag.FlagSet, f *runFlags) (config.File, error) {
	cfg := config.Default()
	if f.configPath != "" {
		loaded, err := config.Load(f.configPath)
		if err != nil {
			return config.File{}, err
		}
		cfg = loaded
	}

	fs.Visit(func(fl *flag.Flag) {
		switch fl.Name {
		case "run-id":
			cfg.Run.ID = f.runID
		case "seed":
			cfg.Run.Seed = f.seed
		case "gens":
			cfg.Run.Generations = f.generations
		case "animals":
			cfg.World.Animals = f.animals
		case "food":
			cfg.World.Food = f.food
		case "generation-length":
			cfg.World.GenerationLength = f.generationLength
		case "vision-cells":
			cfg.Vision.Cells = f.visionCells
		case "selection":
			cfg.Evolution.Selection = f.selection
		case "crossover":
			cfg.Evolution.Crossover = f.crossover
		case "mutation":
			cfg.Evolution.Mutation = f.mutation
		case "mutation-chance":
			cfg.Evolution.MutationChance = f.mutationChance
		case "mutation-coeff":
			cfg.Evolution.MutationCoefficient = f.mutationCoeff
		case "store":
			cfg.Storage.Kind = f.storeKind
		case "db-path":
			cfg.Storage.Path = f.dbPath
		case "metrics-addr":
			cfg.Metrics.Addr = f.metricsAddr
		}
	})

	if err := cfg.Validate(); err != nil {
		return config.File{}, fmt.Errorf("invalid run config: %w", err)
	}
	return cfg, nil
}
