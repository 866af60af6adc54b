package evo

import (
	"errors"
	"fmt"
	"sort"
	"sync"
)

var (
	ErrStrategyExists   = errors.New("strategy already registered")
	ErrStrategyNotFound = errors.New("strategy not found")
)

// MutationParams carries the tunables shared by mutation strategies.
type MutationParams struct {
	Chance      float32
	Coefficient float32
}

type (
	SelectionFactory func() SelectionMethod
	CrossoverFactory func() Crossover
	MutationFactory  func(params MutationParams) (Mutation, error)
)

type strategyRegistry[F any] struct {
	kind string
	mu   sync.RWMutex
	m    map[string]F
}

func newStrategyRegistry[F any](kind string) *strategyRegistry[F] {
	return &strategyRegistry[F]{kind: kind, m: make(map[string]F)}
}

func (r *strategyRegistry[F]) register(name string, factory F) error {
	if name == "" {
		return fmt.Errorf("%s strategy name is required", r.kind)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.m[name]; exists {
		return fmt.Errorf("%w: %s %s", ErrStrategyExists, r.kind, name)
	}
	r.m[name] = factory
	return nil
}

func (r *strategyRegistry[F]) resolve(name string) (F, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	factory, ok := r.m[name]
	if !ok {
		var zero F
		return zero, fmt.Errorf("%w: %s %s", ErrStrategyNotFound, r.kind, name)
	}
	return factory, nil
}

func (r *strategyRegistry[F]) names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.m))
	for name := range r.m {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

var (
	selectionRegistry = newStrategyRegistry[SelectionFactory]("selection")
	crossoverRegistry = newStrategyRegistry[CrossoverFactory]("crossover")
	mutationRegistry  = newStrategyRegistry[MutationFactory]("mutation")
)

func init() {
	mustRegister(RegisterSelection(RouletteWheel{}.Name(), func() SelectionMethod { return RouletteWheel{} }))
	mustRegister(RegisterCrossover(UniformCrossover{}.Name(), func() Crossover { return UniformCrossover{} }))
	mustRegister(RegisterMutation(GaussianMutation{}.Name(), func(params MutationParams) (Mutation, error) {
		if !(params.Chance >= 0 && params.Chance <= 1) {
			return nil, fmt.Errorf("mutation chance must be within [0, 1], got %v", params.Chance)
		}
		return NewGaussianMutation(params.Chance, params.Coefficient), nil
	}))
}

func mustRegister(err error) {
	if err != nil {
		panic(err)
	}
}

func RegisterSelection(name string, factory SelectionFactory) error {
	if factory == nil {
		return errors.New("selection factory is required")
	}
	return selectionRegistry.register(name, factory)
}

func RegisterCrossover(name string, factory CrossoverFactory) error {
	if factory == nil {
		return errors.New("crossover factory is required")
	}
	return crossoverRegistry.register(name, factory)
}

func RegisterMutation(name string, factory MutationFactory) error {
	if factory == nil {
		return errors.New("mutation factory is required")
	}
	return mutationRegistry.register(name, factory)
}

func ResolveSelection(name string) (SelectionMethod, error) {
	factory, err := selectionRegistry.resolve(name)
	if err != nil {
		return nil, err
	}
	return factory(), nil
}

func ResolveCrossover(name string) (Crossover, error) {
	factory, err := crossoverRegistry.resolve(name)
	if err != nil {
		return nil, err
	}
	return factory(), nil
}

func ResolveMutation(name string, params MutationParams) (Mutation, error) {
	factory, err := mutationRegistry.resolve(name)
	if err != nil {
		return nil, err
	}
	mutation, err := factory(params)
	if err != nil {
		return nil, fmt.Errorf("%s mutation: %w", name, err)
	}
	return mutation, nil
}

func ListSelections() []string { return selectionRegistry.names() }
func ListCrossovers() []string { return crossoverRegistry.names() }
func ListMutations() []string  { return mutationRegistry.names() }
