package sim

import (
	"fmt"
	"math/rand"

	"evosim/internal/evo"
	"evosim/internal/nn"
)

// Brain maps a vision reading to a speed delta and a rotation delta.
type Brain struct {
	network *nn.Network
}

// Topology derives the network shape from the vision sensor: one input per
// cell, twice as many hidden neurons, two outputs.
func Topology(vision Vision) []nn.LayerTopology {
	return []nn.LayerTopology{
		{Neurons: vision.Cells},
		{Neurons: vision.Cells * 2},
		{Neurons: 2},
	}
}

func RandomBrain(rng *rand.Rand, vision Vision) *Brain {
	return &Brain{network: nn.Randomize(rng, Topology(vision))}
}

func BrainFromChromosome(chromosome evo.Chromosome, vision Vision) (*Brain, error) {
	network, err := nn.FromWeights(Topology(vision), chromosome.Genes())
	if err != nil {
		return nil, fmt.Errorf("rebuild brain: %w", err)
	}
	return &Brain{network: network}, nil
}

func (b *Brain) Chromosome() evo.Chromosome {
	return evo.NewChromosome(b.network.Weights())
}

func (b *Brain) Propagate(inputs []float32) []float32 {
	return b.network.Propagate(inputs)
}
