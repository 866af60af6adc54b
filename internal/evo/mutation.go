package evo

import (
	"fmt"
	"math/rand"
)

// Mutation perturbs a uniquely owned child chromosome in place.
type Mutation interface {
	Name() string
	Mutate(rng *rand.Rand, child *Chromosome)
}

// GaussianMutation nudges each gene with probability Chance by up to
// Coefficient in a random direction.
type GaussianMutation struct {
	chance      float32
	coefficient float32
}

// NewGaussianMutation panics when chance is outside [0, 1].
func NewGaussianMutation(chance, coefficient float32) GaussianMutation {
	if !(chance >= 0 && chance <= 1) {
		panic(fmt.Sprintf("mutation chance must be within [0, 1], got %v", chance))
	}
	return GaussianMutation{chance: chance, coefficient: coefficient}
}

func (GaussianMutation) Name() string {
	return "gaussian"
}

func (m GaussianMutation) Chance() float32 {
	return m.chance
}

func (m GaussianMutation) Coefficient() float32 {
	return m.coefficient
}

// Mutate draws, per gene and in this order: a sign, the apply decision, and
// when applied the magnitude u in [0, 1).
func (m GaussianMutation) Mutate(rng *rand.Rand, child *Chromosome) {
	child.Update(func(_ int, gene float32) float32 {
		sign := float32(1)
		if coin(rng) {
			sign = -1
		}
		if rng.Float64() < float64(m.chance) {
			gene += sign * m.coefficient * rng.Float32()
		}
		return gene
	})
}
