package platform

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"evosim/internal/evo"
	"evosim/internal/model"
	"evosim/internal/sim"
	"evosim/internal/storage"
	"evosim/internal/telemetry"
)

var (
	ErrNotInitialized = errors.New("runner is not initialized")
	ErrRunExists      = errors.New("run already exists")
	ErrRunNotActive   = errors.New("run is not active")
)

type Config struct {
	Store   storage.Store
	Metrics *telemetry.Metrics
	Now     func() time.Time
}

// RunRequest describes one simulation run. Observer, when set, is called
// synchronously after every generation record has been persisted.
type RunRequest struct {
	RunID       string
	Seed        int64
	Generations int
	Sim         sim.Config
	Observer    func(model.GenerationRecord)
}

type RunResult struct {
	Run         model.RunRecord
	Generations []model.GenerationRecord
}

// Runner drives simulations to completion and records every generation
// boundary in its store.
type Runner struct {
	store   storage.Store
	metrics *telemetry.Metrics
	now     func() time.Time

	mu      sync.Mutex
	started bool
	active  map[string]context.CancelFunc
}

func NewRunner(cfg Config) *Runner {
	now := cfg.Now
	if now == nil {
		now = func() time.Time { return time.Now().UTC() }
	}
	return &Runner{
		store:   cfg.Store,
		metrics: cfg.Metrics,
		now:     now,
		active:  make(map[string]context.CancelFunc),
	}
}

func (r *Runner) Init(ctx context.Context) error {
	if r.store == nil {
		return fmt.Errorf("store is required")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.started {
		return nil
	}
	if err := r.store.Init(ctx); err != nil {
		return err
	}
	r.started = true
	return nil
}

func (r *Runner) Started() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.started
}

// Run steps a fresh simulation until req.Generations generations have been
// evolved. A cancelled context stops the run after the current step; the
// partial run is stored with status cancelled and the context error returned.
func (r *Runner) Run(ctx context.Context, req RunRequest) (RunResult, error) {
	if !r.Started() {
		return RunResult{}, ErrNotInitialized
	}
	if req.Generations <= 0 {
		return RunResult{}, fmt.Errorf("generations must be positive, got %d", req.Generations)
	}
	if req.RunID == "" {
		req.RunID = uuid.NewString()
	}
	if err := model.ValidateRunID(req.RunID); err != nil {
		return RunResult{}, err
	}
	if _, ok, err := r.store.GetRun(ctx, req.RunID); err != nil {
		return RunResult{}, err
	} else if ok {
		return RunResult{}, fmt.Errorf("%w: %s", ErrRunExists, req.RunID)
	}

	rng := rand.New(rand.NewSource(req.Seed))
	simulation, err := sim.New(rng, req.Sim)
	if err != nil {
		return RunResult{}, fmt.Errorf("create simulation: %w", err)
	}

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	if err := r.registerRun(req.RunID, cancel); err != nil {
		return RunResult{}, err
	}
	defer r.unregisterRun(req.RunID)

	createdAt := r.now()
	run := model.RunRecord{
		ID:                  req.RunID,
		Seed:                req.Seed,
		Animals:             req.Sim.Animals,
		Food:                req.Sim.Food,
		GenerationLength:    req.Sim.GenerationLength,
		VisionCells:         req.Sim.Vision.Cells,
		MutationChance:      req.Sim.MutationChance,
		MutationCoefficient: req.Sim.MutationCoefficient,
		Generations:         req.Generations,
		Status:              model.RunStatusRunning,
		CreatedAt:           createdAt,
		UpdatedAt:           createdAt,
	}
	if err := r.store.SaveRun(ctx, run); err != nil {
		return RunResult{}, err
	}

	result := RunResult{}
	for run.Completed < req.Generations {
		if err := runCtx.Err(); err != nil {
			return r.finish(ctx, run, result, model.RunStatusCancelled, err)
		}

		statistics, err := simulation.StepForward(rng)
		if err != nil {
			return r.finish(ctx, run, result, model.RunStatusFailed, err)
		}
		if r.metrics != nil {
			r.metrics.ObserveStep()
		}
		if statistics == nil {
			continue
		}

		record := generationRecord(run.ID, simulation, *statistics)
		if err := r.store.AppendGeneration(ctx, record); err != nil {
			return r.finish(ctx, run, result, model.RunStatusFailed, err)
		}
		result.Generations = append(result.Generations, record)
		run.Completed++
		if r.metrics != nil {
			r.metrics.ObserveGeneration(record)
		}
		if req.Observer != nil {
			req.Observer(record)
		}
	}
	return r.finish(ctx, run, result, model.RunStatusCompleted, nil)
}

func (r *Runner) finish(ctx context.Context, run model.RunRecord, result RunResult, status model.RunStatus, runErr error) (RunResult, error) {
	run.Status = status
	run.UpdatedAt = r.now()
	if runErr != nil {
		run.Error = runErr.Error()
	}
	// Written even when ctx is already done.
	if err := r.store.SaveRun(context.WithoutCancel(ctx), run); err != nil {
		return RunResult{}, errors.Join(runErr, err)
	}
	result.Run = run
	return result, runErr
}

func generationRecord(runID string, simulation *sim.Simulation, statistics evo.Statistics) model.GenerationRecord {
	return model.GenerationRecord{
		RunID:            runID,
		Generation:       simulation.Generation(),
		MinFitness:       statistics.MinFitness,
		MaxFitness:       statistics.MaxFitness,
		AvgFitness:       statistics.AvgFitness,
		ObstacleContacts: simulation.LastObstacleContacts(),
		FoodEaten:        simulation.LastFoodEaten(),
	}
}

// StopRun cancels an active run. The run records the generations completed so
// far and ends with status cancelled.
func (r *Runner) StopRun(runID string) error {
	r.mu.Lock()
	cancel, ok := r.active[runID]
	r.mu.Unlock()
	if !ok {
		return fmt.Errorf("%w: %s", ErrRunNotActive, runID)
	}
	cancel()
	return nil
}

func (r *Runner) ActiveRuns() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	ids := make([]string, 0, len(r.active))
	for id := range r.active {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

func (r *Runner) registerRun(runID string, cancel context.CancelFunc) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.active[runID]; exists {
		return fmt.Errorf("%w: %s", ErrRunExists, runID)
	}
	r.active[runID] = cancel
	return nil
}

func (r *Runner) unregisterRun(runID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.active, runID)
}
