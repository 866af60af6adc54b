package config

import (
	"fmt"
	"strings"

	"gopkg.in/ini.v1"

	"evosim/internal/evo"
	"evosim/internal/sim"
	"evosim/internal/storage"
)

const (
	DefaultSeed        int64 = 1
	DefaultGenerations       = 10
	DefaultSQLitePath        = "evosim.db"
)

// File is the ini representation of a run: one struct per section.
type File struct {
	World     WorldSection
	Vision    VisionSection
	Evolution EvolutionSection
	Run       RunSection
	Storage   StorageSection
	Metrics   MetricsSection
}

type WorldSection struct {
	Animals          int     `ini:"animals"`
	Food             int     `ini:"food"`
	ObstaclesPerEdge int     `ini:"obstacles_per_edge"`
	ObstacleSpacing  float64 `ini:"obstacle_spacing"`
	CaptureRadius    float64 `ini:"capture_radius"`
	GenerationLength int     `ini:"generation_length"`
	SpeedMin         float64 `ini:"speed_min"`
	SpeedMax         float64 `ini:"speed_max"`
	SpeedAccel       float64 `ini:"speed_accel"`
	RotationAccel    float64 `ini:"rotation_accel"`
	InitialSpeed     float64 `ini:"initial_speed"`
	OffspringSpeed   float64 `ini:"offspring_speed"`
}

type VisionSection struct {
	Range float64 `ini:"range"`
	Angle float64 `ini:"angle"`
	Cells int     `ini:"cells"`
}

type EvolutionSection struct {
	Selection           string  `ini:"selection"`
	Crossover           string  `ini:"crossover"`
	Mutation            string  `ini:"mutation"`
	MutationChance      float64 `ini:"mutation_chance"`
	MutationCoefficient float64 `ini:"mutation_coefficient"`
}

type RunSection struct {
	ID          string `ini:"id"`
	Seed        int64  `ini:"seed"`
	Generations int    `ini:"generations"`
}

type StorageSection struct {
	Kind string `ini:"kind"`
	Path string `ini:"path"`
}

// MetricsSection enables the prometheus endpoint when Addr is set.
type MetricsSection struct {
	Addr string `ini:"addr"`
}

func Default() File {
	d := sim.DefaultConfig()
	return File{
		World: WorldSection{
			Animals:          d.Animals,
			Food:             d.Food,
			ObstaclesPerEdge: d.ObstaclesPerEdge,
			ObstacleSpacing:  float64(d.ObstacleSpacing),
			CaptureRadius:    float64(d.CaptureRadius),
			GenerationLength: d.GenerationLength,
			SpeedMin:         float64(d.SpeedMin),
			SpeedMax:         float64(d.SpeedMax),
			SpeedAccel:       float64(d.SpeedAccel),
			RotationAccel:    float64(d.RotationAccel),
			InitialSpeed:     float64(d.InitialSpeed),
			OffspringSpeed:   float64(d.OffspringSpeed),
		},
		Vision: VisionSection{
			Range: float64(d.Vision.Range),
			Angle: float64(d.Vision.Angle),
			Cells: d.Vision.Cells,
		},
		Evolution: EvolutionSection{
			Selection:           d.Selection,
			Crossover:           d.Crossover,
			Mutation:            d.Mutation,
			MutationChance:      float64(d.MutationChance),
			MutationCoefficient: float64(d.MutationCoefficient),
		},
		Run: RunSection{
			Seed:        DefaultSeed,
			Generations: DefaultGenerations,
		},
		Storage: StorageSection{
			Kind: storage.DefaultStoreKind(),
			Path: DefaultSQLitePath,
		},
	}
}

// Load reads an ini file on top of the defaults. Keys that are absent keep
// their default value.
func Load(path string) (File, error) {
	src, err := ini.LoadSources(loadOptions(), path)
	if err != nil {
		return File{}, fmt.Errorf("load config file %q: %w", path, err)
	}
	return fromIni(src)
}

func Parse(data []byte) (File, error) {
	src, err := ini.LoadSources(loadOptions(), data)
	if err != nil {
		return File{}, fmt.Errorf("parse config: %w", err)
	}
	return fromIni(src)
}

func loadOptions() ini.LoadOptions {
	return ini.LoadOptions{
		IgnoreInlineComment:         true,
		UnescapeValueCommentSymbols: true,
	}
}

func fromIni(src *ini.File) (File, error) {
	f := Default()
	sections := []struct {
		name   string
		target any
	}{
		{name: "world", target: &f.World},
		{name: "vision", target: &f.Vision},
		{name: "evolution", target: &f.Evolution},
		{name: "run", target: &f.Run},
		{name: "storage", target: &f.Storage},
		{name: "metrics", target: &f.Metrics},
	}
	for _, section := range sections {
		if !src.HasSection(section.name) {
			continue
		}
		if err := src.Section(section.name).StrictMapTo(section.target); err != nil {
			return File{}, fmt.Errorf("map [%s] section: %w", section.name, err)
		}
	}

	f.Evolution.Selection = strings.TrimSpace(f.Evolution.Selection)
	f.Evolution.Crossover = strings.TrimSpace(f.Evolution.Crossover)
	f.Evolution.Mutation = strings.TrimSpace(f.Evolution.Mutation)
	f.Storage.Kind = strings.TrimSpace(f.Storage.Kind)
	return f, f.Validate()
}

func (f File) Validate() error {
	if err := f.SimConfig().Validate(); err != nil {
		return err
	}
	if _, err := evo.ResolveSelection(f.Evolution.Selection); err != nil {
		return err
	}
	if _, err := evo.ResolveCrossover(f.Evolution.Crossover); err != nil {
		return err
	}
	if _, err := evo.ResolveMutation(f.Evolution.Mutation, evo.MutationParams{
		Chance:      float32(f.Evolution.MutationChance),
		Coefficient: float32(f.Evolution.MutationCoefficient),
	}); err != nil {
		return err
	}
	if f.Run.Generations <= 0 {
		return fmt.Errorf("run generations must be positive, got %d", f.Run.Generations)
	}
	switch f.Storage.Kind {
	case "memory":
	case "sqlite":
		if f.Storage.Path == "" {
			return fmt.Errorf("sqlite storage requires a path")
		}
	default:
		return fmt.Errorf("unsupported store backend: %s", f.Storage.Kind)
	}
	return nil
}

func (f File) SimConfig() sim.Config {
	return sim.Config{
		Animals:             f.World.Animals,
		Food:                f.World.Food,
		ObstaclesPerEdge:    f.World.ObstaclesPerEdge,
		ObstacleSpacing:     float32(f.World.ObstacleSpacing),
		CaptureRadius:       float32(f.World.CaptureRadius),
		GenerationLength:    f.World.GenerationLength,
		Vision:              sim.NewVision(float32(f.Vision.Range), float32(f.Vision.Angle), f.Vision.Cells),
		SpeedMin:            float32(f.World.SpeedMin),
		SpeedMax:            float32(f.World.SpeedMax),
		SpeedAccel:          float32(f.World.SpeedAccel),
		RotationAccel:       float32(f.World.RotationAccel),
		InitialSpeed:        float32(f.World.InitialSpeed),
		OffspringSpeed:      float32(f.World.OffspringSpeed),
		Selection:           f.Evolution.Selection,
		Crossover:           f.Evolution.Crossover,
		Mutation:            f.Evolution.Mutation,
		MutationChance:      float32(f.Evolution.MutationChance),
		MutationCoefficient: float32(f.Evolution.MutationCoefficient),
	}
}
