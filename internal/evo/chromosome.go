package evo

import "iter"

// Chromosome is a flat, ordered sequence of genes. Gene order is meaningful:
// it mirrors the flattened parameter vector of a network.
type Chromosome struct {
	genes []float32
}

// NewChromosome copies genes into a new chromosome, preserving order.
func NewChromosome(genes []float32) Chromosome {
	owned := make([]float32, len(genes))
	copy(owned, genes)
	return Chromosome{genes: owned}
}

// CollectChromosome builds a chromosome from any finite gene sequence.
func CollectChromosome(seq iter.Seq[float32]) Chromosome {
	var genes []float32
	for gene := range seq {
		genes = append(genes, gene)
	}
	return Chromosome{genes: genes}
}

func (c Chromosome) Len() int {
	return len(c.genes)
}

func (c Chromosome) At(i int) float32 {
	return c.genes[i]
}

// All yields genes in order without exposing the backing storage.
func (c Chromosome) All() iter.Seq2[int, float32] {
	return func(yield func(int, float32) bool) {
		for i, gene := range c.genes {
			if !yield(i, gene) {
				return
			}
		}
	}
}

// Values yields gene values in order.
func (c Chromosome) Values() iter.Seq[float32] {
	return func(yield func(float32) bool) {
		for _, gene := range c.genes {
			if !yield(gene) {
				return
			}
		}
	}
}

// Update rewrites every gene in order with fn's result.
func (c *Chromosome) Update(fn func(i int, gene float32) float32) {
	for i, gene := range c.genes {
		c.genes[i] = fn(i, gene)
	}
}

// Genes returns a copy of the gene sequence.
func (c Chromosome) Genes() []float32 {
	out := make([]float32, len(c.genes))
	copy(out, c.genes)
	return out
}

func (c Chromosome) Clone() Chromosome {
	return NewChromosome(c.genes)
}
