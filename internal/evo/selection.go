package evo

import (
	"fmt"
	"math"
	"math/rand"
)

// SelectionMethod picks one parent from a frozen population.
type SelectionMethod interface {
	Name() string
	Select(rng *rand.Rand, population []Individual) Individual
}

// RouletteWheel picks individuals with probability proportional to fitness.
// When every fitness is zero the pick falls back to a uniform choice.
type RouletteWheel struct{}

func (RouletteWheel) Name() string {
	return "roulette"
}

func (RouletteWheel) Select(rng *rand.Rand, population []Individual) Individual {
	if len(population) == 0 {
		panic("Empty population!")
	}

	total := 0.0
	for i, individual := range population {
		fitness := float64(individual.Fitness())
		if fitness < 0 || math.IsNaN(fitness) || math.IsInf(fitness, 0) {
			panic(fmt.Sprintf("invalid roulette weight at index %d: %v", i, fitness))
		}
		total += fitness
	}
	if total == 0 {
		return population[rng.Intn(len(population))]
	}

	target := rng.Float64() * total
	cumulative := 0.0
	for _, individual := range population {
		cumulative += float64(individual.Fitness())
		if target < cumulative {
			return individual
		}
	}
	// Rounding can leave target at the very top of the wheel.
	for i := len(population) - 1; i >= 0; i-- {
		if population[i].Fitness() > 0 {
			return population[i]
		}
	}
	return population[len(population)-1]
}
