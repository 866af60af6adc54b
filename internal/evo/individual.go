package evo

// Individual is anything that carries a chromosome and a non-negative fitness.
// Fresh individuals built from a chromosome start with zero fitness.
type Individual interface {
	Chromosome() Chromosome
	Fitness() float32
}

// Factory materializes a fresh individual from a bred chromosome.
type Factory[I Individual] func(Chromosome) I

// ScoredChromosome is the minimal Individual: a chromosome with a fitness.
type ScoredChromosome struct {
	Genes Chromosome
	Score float32
}

func NewScoredChromosome(chromosome Chromosome) ScoredChromosome {
	return ScoredChromosome{Genes: chromosome}
}

func (s ScoredChromosome) Chromosome() Chromosome {
	return s.Genes
}

func (s ScoredChromosome) Fitness() float32 {
	return s.Score
}
