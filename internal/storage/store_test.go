package storage

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"evosim/internal/model"
)

func storesUnderTest(t *testing.T) map[string]Store {
	t.Helper()
	return map[string]Store{
		"memory": NewMemoryStore(),
		"sqlite": NewSQLiteStore(filepath.Join(t.TempDir(), "evosim.db")),
	}
}

func initStore(t *testing.T, store Store) {
	t.Helper()
	if err := store.Init(context.Background()); err != nil {
		t.Fatalf("init: %v", err)
	}
	t.Cleanup(func() {
		_ = CloseIfSupported(store)
	})
}

func sampleRun(id string, created time.Time) model.RunRecord {
	return model.RunRecord{
		VersionedRecord:  CurrentVersion(),
		ID:               id,
		Seed:             42,
		Animals:          50,
		Food:             30,
		GenerationLength: 2000,
		Generations:      3,
		Status:           model.RunStatusRunning,
		CreatedAt:        created,
		UpdatedAt:        created,
	}
}

func TestStoreRunRoundTrip(t *testing.T) {
	for name, store := range storesUnderTest(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			initStore(t, store)

			base := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
			second := sampleRun("run-b", base.Add(time.Minute))
			first := sampleRun("run-a", base)
			if err := store.SaveRun(ctx, second); err != nil {
				t.Fatalf("save run: %v", err)
			}
			if err := store.SaveRun(ctx, first); err != nil {
				t.Fatalf("save run: %v", err)
			}

			first.Status = model.RunStatusCompleted
			first.Completed = 3
			if err := store.SaveRun(ctx, first); err != nil {
				t.Fatalf("update run: %v", err)
			}

			loaded, ok, err := store.GetRun(ctx, "run-a")
			if err != nil {
				t.Fatalf("get run: %v", err)
			}
			if !ok {
				t.Fatal("expected persisted run")
			}
			if loaded.Status != model.RunStatusCompleted || loaded.Completed != 3 || loaded.Seed != 42 {
				t.Fatalf("unexpected run loaded: %+v", loaded)
			}

			runs, err := store.ListRuns(ctx)
			if err != nil {
				t.Fatalf("list runs: %v", err)
			}
			if len(runs) != 2 || runs[0].ID != "run-a" || runs[1].ID != "run-b" {
				t.Fatalf("unexpected run order: %+v", runs)
			}

			if _, ok, err := store.GetRun(ctx, "missing"); err != nil || ok {
				t.Fatalf("expected missing run, ok=%t err=%v", ok, err)
			}
		})
	}
}

func TestStoreGenerationsRoundTrip(t *testing.T) {
	for name, store := range storesUnderTest(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			initStore(t, store)

			if err := store.SaveRun(ctx, sampleRun("run-1", time.Now().UTC())); err != nil {
				t.Fatalf("save run: %v", err)
			}
			for generation := 1; generation <= 3; generation++ {
				record := model.GenerationRecord{
					VersionedRecord: CurrentVersion(),
					RunID:           "run-1",
					Generation:      generation,
					MinFitness:      0,
					MaxFitness:      float32(generation * 2),
					AvgFitness:      float32(generation),
				}
				if err := store.AppendGeneration(ctx, record); err != nil {
					t.Fatalf("append generation %d: %v", generation, err)
				}
			}

			records, ok, err := store.GetGenerations(ctx, "run-1")
			if err != nil {
				t.Fatalf("get generations: %v", err)
			}
			if !ok || len(records) != 3 {
				t.Fatalf("unexpected generations: ok=%t %+v", ok, records)
			}
			if records[2].Generation != 3 || records[2].MaxFitness != 6 || records[2].AvgFitness != 3 {
				t.Fatalf("unexpected last generation: %+v", records[2])
			}

			if err := store.DeleteRun(ctx, "run-1"); err != nil {
				t.Fatalf("delete run: %v", err)
			}
			if _, ok, err := store.GetGenerations(ctx, "run-1"); err != nil || ok {
				t.Fatalf("expected generations removed, ok=%t err=%v", ok, err)
			}
			if _, ok, err := store.GetRun(ctx, "run-1"); err != nil || ok {
				t.Fatalf("expected run removed, ok=%t err=%v", ok, err)
			}
		})
	}
}

func TestStoreAppendGenerationReplacesDuplicate(t *testing.T) {
	for name, store := range storesUnderTest(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			initStore(t, store)

			appends := []struct {
				generation int
				max        float32
			}{
				{generation: 2, max: 4},
				{generation: 1, max: 1},
				{generation: 1, max: 9},
			}
			for _, tc := range appends {
				record := model.GenerationRecord{RunID: "dup", Generation: tc.generation, MaxFitness: tc.max}
				if err := store.AppendGeneration(ctx, record); err != nil {
					t.Fatalf("append generation %d: %v", tc.generation, err)
				}
			}

			records, ok, err := store.GetGenerations(ctx, "dup")
			if err != nil || !ok {
				t.Fatalf("get generations: ok=%t err=%v", ok, err)
			}
			if len(records) != 2 {
				t.Fatalf("expected one record per generation, got %+v", records)
			}
			if records[0].Generation != 1 || records[1].Generation != 2 {
				t.Fatalf("expected generation order, got %+v", records)
			}
			if records[0].MaxFitness != 9 {
				t.Fatalf("expected latest write to win, got %+v", records[0])
			}
		})
	}
}

func TestStoreRequiresInit(t *testing.T) {
	ctx := context.Background()
	if err := NewMemoryStore().SaveRun(ctx, sampleRun("r", time.Now())); err == nil {
		t.Fatal("expected uninitialized memory store error")
	}
	if err := NewSQLiteStore(filepath.Join(t.TempDir(), "x.db")).SaveRun(ctx, sampleRun("r", time.Now())); err == nil {
		t.Fatal("expected uninitialized sqlite store error")
	}
	if err := NewSQLiteStore("").Init(ctx); err == nil {
		t.Fatal("expected missing path error")
	}
}

func TestStoreStampsUnversionedRecords(t *testing.T) {
	for name, store := range storesUnderTest(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			initStore(t, store)

			run := sampleRun("bare", time.Now().UTC())
			run.VersionedRecord = model.VersionedRecord{}
			if err := store.SaveRun(ctx, run); err != nil {
				t.Fatalf("save run: %v", err)
			}
			if err := store.AppendGeneration(ctx, model.GenerationRecord{RunID: "bare", Generation: 1}); err != nil {
				t.Fatalf("append generation: %v", err)
			}

			loaded, ok, err := store.GetRun(ctx, "bare")
			if err != nil || !ok {
				t.Fatalf("get run: ok=%t err=%v", ok, err)
			}
			if loaded.VersionedRecord != CurrentVersion() {
				t.Fatalf("run not stamped: %+v", loaded.VersionedRecord)
			}
			records, ok, err := store.GetGenerations(ctx, "bare")
			if err != nil || !ok || records[0].VersionedRecord != CurrentVersion() {
				t.Fatalf("generation not stamped: ok=%t err=%v records=%+v", ok, err, records)
			}
		})
	}
}
