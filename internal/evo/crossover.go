package evo

import (
	"fmt"
	"math/rand"
)

// Crossover combines two equal-length parents into one child.
type Crossover interface {
	Name() string
	Crossover(rng *rand.Rand, parentOne, parentTwo Chromosome) Chromosome
}

// UniformCrossover takes each gene from either parent with equal probability,
// drawing one fair coin per gene in genome order.
type UniformCrossover struct{}

func (UniformCrossover) Name() string {
	return "uniform"
}

func (UniformCrossover) Crossover(rng *rand.Rand, parentOne, parentTwo Chromosome) Chromosome {
	if parentOne.Len() != parentTwo.Len() {
		panic(fmt.Sprintf("crossover parents differ in length: %d != %d", parentOne.Len(), parentTwo.Len()))
	}

	genes := make([]float32, parentOne.Len())
	for i := range genes {
		if coin(rng) {
			genes[i] = parentOne.genes[i]
		} else {
			genes[i] = parentTwo.genes[i]
		}
	}
	return Chromosome{genes: genes}
}

func coin(rng *rand.Rand) bool {
	return rng.Float64() < 0.5
}
