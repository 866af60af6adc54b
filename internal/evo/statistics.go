package evo

import (
	"cmp"
	"math"
	"slices"
)

// Statistics is a snapshot of one generation's fitness distribution.
type Statistics struct {
	MinFitness float32 `json:"min_fitness"`
	MaxFitness float32 `json:"max_fitness"`
	AvgFitness float32 `json:"avg_fitness"`
}

// Analyze panics on an empty population. NaN fitness compares equal to its
// neighbours while sorting instead of aborting.
func Analyze[I Individual](population []I) Statistics {
	if len(population) == 0 {
		panic("cannot analyze an empty population")
	}

	fitnesses := make([]float32, len(population))
	for i, individual := range population {
		fitnesses[i] = individual.Fitness()
	}
	slices.SortStableFunc(fitnesses, comparePartial)

	var sum float32
	for _, fitness := range fitnesses {
		sum += fitness
	}

	return Statistics{
		MinFitness: fitnesses[0],
		MaxFitness: fitnesses[len(fitnesses)-1],
		AvgFitness: sum / float32(len(fitnesses)),
	}
}

func comparePartial(a, b float32) int {
	if math.IsNaN(float64(a)) || math.IsNaN(float64(b)) {
		return 0
	}
	return cmp.Compare(a, b)
}
