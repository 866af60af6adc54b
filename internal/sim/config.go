package sim

import (
	"errors"
	"fmt"
	"math"

	"evosim/internal/evo"
)

const (
	DefaultVisionRange       float32 = 0.25
	DefaultVisionAngle       float32 = math.Pi + math.Pi/4
	DefaultVisionCells               = 18
	DefaultSpeedMin          float32 = 0.001
	DefaultSpeedMax          float32 = 0.005
	DefaultSpeedAccel        float32 = 0.2
	DefaultRotationAccel     float32 = math.Pi / 2
	DefaultGenerationLength          = 2000
	DefaultAnimals                   = 50
	DefaultFood                      = 30
	DefaultObstaclesPerEdge          = 99
	DefaultObstacleSpacing   float32 = 0.01
	DefaultCaptureRadius     float32 = 0.009
	DefaultInitialSpeed      float32 = 0.0005
	DefaultOffspringSpeed    float32 = 0.001
	DefaultMutationChance    float32 = 0.01
	DefaultMutationCoeff     float32 = 0.3
)

// Config holds the world, motion and evolution parameters of a simulation.
type Config struct {
	Animals          int
	Food             int
	ObstaclesPerEdge int
	ObstacleSpacing  float32
	CaptureRadius    float32
	GenerationLength int

	Vision Vision

	SpeedMin       float32
	SpeedMax       float32
	SpeedAccel     float32
	RotationAccel  float32
	InitialSpeed   float32
	OffspringSpeed float32

	Selection           string
	Crossover           string
	Mutation            string
	MutationChance      float32
	MutationCoefficient float32
}

func DefaultConfig() Config {
	return Config{
		Animals:             DefaultAnimals,
		Food:                DefaultFood,
		ObstaclesPerEdge:    DefaultObstaclesPerEdge,
		ObstacleSpacing:     DefaultObstacleSpacing,
		CaptureRadius:       DefaultCaptureRadius,
		GenerationLength:    DefaultGenerationLength,
		Vision:              DefaultVision(),
		SpeedMin:            DefaultSpeedMin,
		SpeedMax:            DefaultSpeedMax,
		SpeedAccel:          DefaultSpeedAccel,
		RotationAccel:       DefaultRotationAccel,
		InitialSpeed:        DefaultInitialSpeed,
		OffspringSpeed:      DefaultOffspringSpeed,
		Selection:           evo.RouletteWheel{}.Name(),
		Crossover:           evo.UniformCrossover{}.Name(),
		Mutation:            evo.GaussianMutation{}.Name(),
		MutationChance:      DefaultMutationChance,
		MutationCoefficient: DefaultMutationCoeff,
	}
}

func (c Config) Validate() error {
	if c.Animals <= 0 {
		return fmt.Errorf("animals must be positive, got %d", c.Animals)
	}
	if c.Food < 0 {
		return fmt.Errorf("food must be non-negative, got %d", c.Food)
	}
	if c.ObstaclesPerEdge < 0 {
		return fmt.Errorf("obstacles per edge must be non-negative, got %d", c.ObstaclesPerEdge)
	}
	if c.CaptureRadius < 0 {
		return fmt.Errorf("capture radius must be non-negative, got %v", c.CaptureRadius)
	}
	if c.GenerationLength < 0 {
		return fmt.Errorf("generation length must be non-negative, got %d", c.GenerationLength)
	}
	if err := c.Vision.Validate(); err != nil {
		return fmt.Errorf("vision: %w", err)
	}
	if c.SpeedMin > c.SpeedMax {
		return fmt.Errorf("speed band is inverted: min=%v max=%v", c.SpeedMin, c.SpeedMax)
	}
	if c.SpeedAccel < 0 || c.RotationAccel < 0 {
		return errors.New("acceleration bounds must be non-negative")
	}
	if !(c.MutationChance >= 0 && c.MutationChance <= 1) {
		return fmt.Errorf("mutation chance must be within [0, 1], got %v", c.MutationChance)
	}
	return nil
}
