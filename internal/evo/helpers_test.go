package evo

import (
	"math/rand"
)

// scriptedSource replays a fixed cycle of Int63 values so that Float64 draws
// return exactly the requested fractions.
type scriptedSource struct {
	values []int64
	next   int
}

func (s *scriptedSource) Int63() int64 {
	v := s.values[s.next%len(s.values)]
	s.next++
	return v
}

func (s *scriptedSource) Seed(int64) {}

func scriptedRand(fractions ...float64) *rand.Rand {
	values := make([]int64, len(fractions))
	for i, f := range fractions {
		values[i] = int64(f * (1 << 63))
	}
	return rand.New(&scriptedSource{values: values})
}

func scoredPopulation(fitness ...float32) []ScoredChromosome {
	population := make([]ScoredChromosome, len(fitness))
	for i, f := range fitness {
		population[i] = ScoredChromosome{
			Genes: NewChromosome([]float32{float32(i), float32(i) + 0.5, float32(i) + 0.25}),
			Score: f,
		}
	}
	return population
}

func asIndividuals(population []ScoredChromosome) []Individual {
	out := make([]Individual, len(population))
	for i, individual := range population {
		out[i] = individual
	}
	return out
}
