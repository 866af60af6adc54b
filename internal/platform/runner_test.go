package platform

import (
	"context"
	"errors"
	"math"
	"path/filepath"
	"testing"
	"time"

	"evosim/internal/model"
	"evosim/internal/sim"
	"evosim/internal/storage"
	"evosim/internal/telemetry"
)

func smallSimConfig() sim.Config {
	cfg := sim.DefaultConfig()
	cfg.Animals = 6
	cfg.Food = 4
	cfg.ObstaclesPerEdge = 5
	cfg.GenerationLength = 5
	return cfg
}

func newTestRunner(t *testing.T, store storage.Store, metrics *telemetry.Metrics) *Runner {
	t.Helper()
	fixed := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	runner := NewRunner(Config{Store: store, Metrics: metrics, Now: func() time.Time { return fixed }})
	if err := runner.Init(context.Background()); err != nil {
		t.Fatalf("init runner: %v", err)
	}
	return runner
}

func TestRunnerRecordsEveryGeneration(t *testing.T) {
	store := storage.NewMemoryStore()
	metrics := telemetry.NewMetrics()
	runner := newTestRunner(t, store, metrics)

	var observed []int
	result, err := runner.Run(context.Background(), RunRequest{
		RunID:       "run-a",
		Seed:        11,
		Generations: 3,
		Sim:         smallSimConfig(),
		Observer: func(record model.GenerationRecord) {
			observed = append(observed, record.Generation)
		},
	})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if result.Run.Status != model.RunStatusCompleted || result.Run.Completed != 3 {
		t.Fatalf("unexpected run record: %+v", result.Run)
	}
	if len(result.Generations) != 3 || len(observed) != 3 {
		t.Fatalf("records=%d observed=%d want=3", len(result.Generations), len(observed))
	}
	for i, record := range result.Generations {
		if record.Generation != i+1 || observed[i] != i+1 {
			t.Fatalf("generation %d numbered %d (observed %d)", i, record.Generation, observed[i])
		}
		if record.MinFitness > record.AvgFitness || record.AvgFitness > record.MaxFitness {
			t.Fatalf("inconsistent record: %+v", record)
		}
		if want := int(math.Round(float64(record.AvgFitness) * 6)); record.FoodEaten != want {
			t.Fatalf("generation %d food eaten=%d want=%d", record.Generation, record.FoodEaten, want)
		}
	}

	stored, ok, err := store.GetGenerations(context.Background(), "run-a")
	if err != nil || !ok || len(stored) != 3 {
		t.Fatalf("stored generations: ok=%t len=%d err=%v", ok, len(stored), err)
	}
	run, ok, err := store.GetRun(context.Background(), "run-a")
	if err != nil || !ok {
		t.Fatalf("stored run: ok=%t err=%v", ok, err)
	}
	if run.Status != model.RunStatusCompleted || run.Animals != 6 || run.GenerationLength != 5 {
		t.Fatalf("unexpected stored run: %+v", run)
	}
	if got := len(runner.ActiveRuns()); got != 0 {
		t.Fatalf("active runs after completion: %d", got)
	}
}

func TestRunnerIsDeterministicForSeed(t *testing.T) {
	run := func(id string) []model.GenerationRecord {
		runner := newTestRunner(t, storage.NewMemoryStore(), nil)
		result, err := runner.Run(context.Background(), RunRequest{RunID: id, Seed: 5, Generations: 2, Sim: smallSimConfig()})
		if err != nil {
			t.Fatalf("run %s: %v", id, err)
		}
		return result.Generations
	}
	a, b := run("a"), run("b")
	for i := range a {
		if a[i].MinFitness != b[i].MinFitness || a[i].AvgFitness != b[i].AvgFitness || a[i].MaxFitness != b[i].MaxFitness {
			t.Fatalf("generation %d diverged: %+v vs %+v", i, a[i], b[i])
		}
	}
}

func TestRunnerStopsOnContextCancel(t *testing.T) {
	store := storage.NewMemoryStore()
	runner := newTestRunner(t, store, nil)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	result, err := runner.Run(ctx, RunRequest{
		RunID:       "cancel-me",
		Seed:        3,
		Generations: 10,
		Sim:         smallSimConfig(),
		Observer:    func(model.GenerationRecord) { cancel() },
	})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if result.Run.Status != model.RunStatusCancelled || result.Run.Completed != 1 {
		t.Fatalf("unexpected run after cancel: %+v", result.Run)
	}
	stored, _, err := store.GetRun(context.Background(), "cancel-me")
	if err != nil {
		t.Fatalf("get run: %v", err)
	}
	if stored.Status != model.RunStatusCancelled || stored.Error == "" {
		t.Fatalf("cancelled status not persisted: %+v", stored)
	}
}

func TestRunnerStopRun(t *testing.T) {
	runner := newTestRunner(t, storage.NewMemoryStore(), nil)

	var stopErr error
	result, err := runner.Run(context.Background(), RunRequest{
		RunID:       "stop-me",
		Seed:        4,
		Generations: 5,
		Sim:         smallSimConfig(),
		Observer: func(record model.GenerationRecord) {
			if record.Generation == 2 {
				stopErr = runner.StopRun("stop-me")
			}
		},
	})
	if stopErr != nil {
		t.Fatalf("stop run: %v", stopErr)
	}
	if !errors.Is(err, context.Canceled) || result.Run.Completed != 2 {
		t.Fatalf("expected cancellation after two generations: completed=%d err=%v", result.Run.Completed, err)
	}
	if err := runner.StopRun("stop-me"); !errors.Is(err, ErrRunNotActive) {
		t.Fatalf("expected ErrRunNotActive, got %v", err)
	}
}

func TestRunnerRejectsInvalidRequests(t *testing.T) {
	ctx := context.Background()

	uninitialized := NewRunner(Config{Store: storage.NewMemoryStore()})
	if _, err := uninitialized.Run(ctx, RunRequest{Generations: 1, Sim: smallSimConfig()}); !errors.Is(err, ErrNotInitialized) {
		t.Fatalf("expected ErrNotInitialized, got %v", err)
	}
	if err := NewRunner(Config{}).Init(ctx); err == nil {
		t.Fatal("expected missing store error")
	}

	runner := newTestRunner(t, storage.NewMemoryStore(), nil)
	if _, err := runner.Run(ctx, RunRequest{Generations: 0, Sim: smallSimConfig()}); err == nil {
		t.Fatal("expected generations error")
	}
	bad := smallSimConfig()
	bad.Animals = 0
	if _, err := runner.Run(ctx, RunRequest{Generations: 1, Sim: bad}); err == nil {
		t.Fatal("expected simulation config error")
	}

	for _, id := range []string{"../x", "a/b", ".."} {
		if _, err := runner.Run(ctx, RunRequest{RunID: id, Generations: 1, Sim: smallSimConfig()}); err == nil {
			t.Fatalf("expected run id %q to be rejected", id)
		}
	}
	if runs, err := runner.store.ListRuns(ctx); err != nil || len(runs) != 0 {
		t.Fatalf("rejected run ids were stored: runs=%+v err=%v", runs, err)
	}

	if _, err := runner.Run(ctx, RunRequest{RunID: "dup", Generations: 1, Sim: smallSimConfig()}); err != nil {
		t.Fatalf("first run: %v", err)
	}
	if _, err := runner.Run(ctx, RunRequest{RunID: "dup", Generations: 1, Sim: smallSimConfig()}); !errors.Is(err, ErrRunExists) {
		t.Fatalf("expected ErrRunExists, got %v", err)
	}
}

func TestRunnerGeneratesRunIDAndPersistsToSQLite(t *testing.T) {
	store := storage.NewSQLiteStore(filepath.Join(t.TempDir(), "runs.db"))
	defer storage.CloseIfSupported(store)
	metrics := telemetry.NewMetrics()
	runner := newTestRunner(t, store, metrics)

	result, err := runner.Run(context.Background(), RunRequest{Seed: 8, Generations: 2, Sim: smallSimConfig()})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if result.Run.ID == "" {
		t.Fatal("expected generated run id")
	}

	stored, ok, err := store.GetGenerations(context.Background(), result.Run.ID)
	if err != nil || !ok || len(stored) != 2 {
		t.Fatalf("stored generations: ok=%t len=%d err=%v", ok, len(stored), err)
	}
	for i := range stored {
		if stored[i].Generation != result.Generations[i].Generation || stored[i].MaxFitness != result.Generations[i].MaxFitness {
			t.Fatalf("generation %d mismatch: %+v vs %+v", i, stored[i], result.Generations[i])
		}
	}
	runs, err := store.ListRuns(context.Background())
	if err != nil || len(runs) != 1 || runs[0].Status != model.RunStatusCompleted {
		t.Fatalf("unexpected runs: %+v err=%v", runs, err)
	}
}
