package evo

import (
	"errors"
	"math/rand"
)

// GeneticAlgorithm breeds a new generation from a frozen parent population
// using one selection, one crossover and one mutation strategy.
type GeneticAlgorithm[I Individual] struct {
	selection SelectionMethod
	crossover Crossover
	mutation  Mutation
	create    Factory[I]
}

func NewGeneticAlgorithm[I Individual](
	create func(Chromosome) I,
	selection SelectionMethod,
	crossover Crossover,
	mutation Mutation,
) (*GeneticAlgorithm[I], error) {
	if create == nil {
		return nil, errors.New("individual factory is required")
	}
	if selection == nil {
		return nil, errors.New("selection method is required")
	}
	if crossover == nil {
		return nil, errors.New("crossover method is required")
	}
	if mutation == nil {
		return nil, errors.New("mutation method is required")
	}
	return &GeneticAlgorithm[I]{
		selection: selection,
		crossover: crossover,
		mutation:  mutation,
		create:    create,
	}, nil
}

func (ga *GeneticAlgorithm[I]) Selection() SelectionMethod { return ga.selection }
func (ga *GeneticAlgorithm[I]) Crossover() Crossover       { return ga.crossover }
func (ga *GeneticAlgorithm[I]) Mutation() Mutation         { return ga.mutation }

// Evolve returns a population of the same size plus the statistics of the
// input population. Every child is bred from the same parents; no offspring
// is eligible as a parent within this call.
func (ga *GeneticAlgorithm[I]) Evolve(rng *rand.Rand, population []I) ([]I, Statistics) {
	if len(population) == 0 {
		panic("cannot evolve an empty population")
	}

	statistics := Analyze(population)

	parents := make([]Individual, len(population))
	for i, individual := range population {
		parents[i] = individual
	}

	next := make([]I, 0, len(population))
	for range population {
		parentOne := ga.selection.Select(rng, parents).Chromosome()
		parentTwo := ga.selection.Select(rng, parents).Chromosome()

		child := ga.crossover.Crossover(rng, parentOne, parentTwo)
		ga.mutation.Mutate(rng, &child)

		next = append(next, ga.create(child))
	}
	return next, statistics
}
