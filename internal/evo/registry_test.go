package evo

import (
	"errors"
	"slices"
	"testing"
)

func TestBuiltinStrategiesResolve(t *testing.T) {
	selection, err := ResolveSelection("roulette")
	if err != nil {
		t.Fatalf("resolve selection: %v", err)
	}
	if selection.Name() != "roulette" {
		t.Fatalf("unexpected selection: %s", selection.Name())
	}

	crossover, err := ResolveCrossover("uniform")
	if err != nil {
		t.Fatalf("resolve crossover: %v", err)
	}
	if crossover.Name() != "uniform" {
		t.Fatalf("unexpected crossover: %s", crossover.Name())
	}

	mutation, err := ResolveMutation("gaussian", MutationParams{Chance: 0.01, Coefficient: 0.3})
	if err != nil {
		t.Fatalf("resolve mutation: %v", err)
	}
	gaussian, ok := mutation.(GaussianMutation)
	if !ok {
		t.Fatalf("unexpected mutation type %T", mutation)
	}
	if gaussian.Chance() != 0.01 || gaussian.Coefficient() != 0.3 {
		t.Fatalf("unexpected mutation params: %+v", gaussian)
	}
}

func TestResolveUnknownStrategy(t *testing.T) {
	if _, err := ResolveSelection("tournament"); !errors.Is(err, ErrStrategyNotFound) {
		t.Fatalf("expected ErrStrategyNotFound, got: %v", err)
	}
}

func TestResolveMutationRejectsInvalidChance(t *testing.T) {
	if _, err := ResolveMutation("gaussian", MutationParams{Chance: 2}); err == nil {
		t.Fatal("expected invalid chance error")
	}
}

func TestRegisterDuplicateStrategy(t *testing.T) {
	err := RegisterCrossover("uniform", func() Crossover { return UniformCrossover{} })
	if !errors.Is(err, ErrStrategyExists) {
		t.Fatalf("expected ErrStrategyExists, got: %v", err)
	}
	if !slices.Contains(ListCrossovers(), "uniform") {
		t.Fatalf("expected uniform in %v", ListCrossovers())
	}
}
