package evosim

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"path/filepath"
	"time"

	"evosim/internal/model"
	"evosim/internal/platform"
	"evosim/internal/sim"
	"evosim/internal/stats"
	"evosim/internal/storage"
	"evosim/internal/telemetry"
)

const (
	defaultExportsDir = "exports"
	defaultDBPath     = "evosim.db"
	defaultRunsLimit  = 20
)

// SimConfig is the world, vision and evolution configuration of a run.
type SimConfig = sim.Config

func DefaultSimConfig() SimConfig {
	return sim.DefaultConfig()
}

type Options struct {
	StoreKind  string
	DBPath     string
	ExportsDir string

	// EnableMetrics registers prometheus collectors served by MetricsHandler.
	EnableMetrics bool
}

type Client struct {
	store   storage.Store
	runner  *platform.Runner
	metrics *telemetry.Metrics

	exportsDir string
}

type RunRequest struct {
	RunID       string
	Seed        int64
	Generations int

	// Config defaults to DefaultSimConfig when nil.
	Config       *SimConfig
	OnGeneration func(GenerationItem)
}

type GenerationItem struct {
	Generation       int     `json:"generation"`
	MinFitness       float32 `json:"min_fitness"`
	AvgFitness       float32 `json:"avg_fitness"`
	MaxFitness       float32 `json:"max_fitness"`
	ObstacleContacts int     `json:"obstacle_contacts"`
	FoodEaten        int     `json:"food_eaten"`
}

type RunSummary struct {
	RunID       string
	Status      string
	Generations []GenerationItem
	Summary     stats.Summary
}

type RunsRequest struct {
	Limit int
}

type RunItem struct {
	RunID        string `json:"run_id"`
	CreatedAtUTC string `json:"created_at_utc"`
	Seed         int64  `json:"seed"`
	Animals      int    `json:"animals"`
	Generations  int    `json:"generations"`
	Completed    int    `json:"completed"`
	Status       string `json:"status"`
	Error        string `json:"error,omitempty"`
}

type GenerationsRequest struct {
	RunID  string
	Latest bool
	Limit  int
}

type ExportRequest struct {
	RunID  string
	Latest bool
	OutDir string
}

type ExportSummary struct {
	RunID     string
	Directory string
}

func New(opts Options) (*Client, error) {
	storeKind := opts.StoreKind
	if storeKind == "" {
		storeKind = storage.DefaultStoreKind()
	}
	dbPath := opts.DBPath
	if dbPath == "" {
		dbPath = defaultDBPath
	}
	exportsDir := opts.ExportsDir
	if exportsDir == "" {
		exportsDir = defaultExportsDir
	}

	store, err := storage.NewStore(storeKind, dbPath)
	if err != nil {
		return nil, err
	}

	var metrics *telemetry.Metrics
	if opts.EnableMetrics {
		metrics = telemetry.NewMetrics()
	}
	return &Client{
		store:      store,
		metrics:    metrics,
		exportsDir: exportsDir,
	}, nil
}

func (c *Client) Close() error {
	return storage.CloseIfSupported(c.store)
}

func (c *Client) Init(ctx context.Context) error {
	_, err := c.ensureRunner(ctx)
	return err
}

// MetricsHandler returns the prometheus exposition handler, or nil when the
// client was created without metrics.
func (c *Client) MetricsHandler() http.Handler {
	if c.metrics == nil {
		return nil
	}
	return c.metrics.Handler()
}

func (c *Client) Run(ctx context.Context, req RunRequest) (RunSummary, error) {
	if req.Generations <= 0 {
		return RunSummary{}, errors.New("generations must be positive")
	}
	cfg := sim.DefaultConfig()
	if req.Config != nil {
		cfg = *req.Config
	}

	runner, err := c.ensureRunner(ctx)
	if err != nil {
		return RunSummary{}, err
	}

	var observer func(model.GenerationRecord)
	if req.OnGeneration != nil {
		observer = func(record model.GenerationRecord) {
			req.OnGeneration(toGenerationItem(record))
		}
	}
	result, runErr := runner.Run(ctx, platform.RunRequest{
		RunID:       req.RunID,
		Seed:        req.Seed,
		Generations: req.Generations,
		Sim:         cfg,
		Observer:    observer,
	})
	if result.Run.ID == "" {
		return RunSummary{}, runErr
	}

	summary := RunSummary{
		RunID:       result.Run.ID,
		Status:      string(result.Run.Status),
		Generations: toGenerationItems(result.Generations),
	}
	if len(result.Generations) > 0 {
		summary.Summary, err = stats.Summarize(result.Generations)
		if err != nil {
			return RunSummary{}, err
		}
	}
	return summary, runErr
}

// Runs lists stored runs, newest first.
func (c *Client) Runs(ctx context.Context, req RunsRequest) ([]RunItem, error) {
	if req.Limit <= 0 {
		req.Limit = defaultRunsLimit
	}
	if _, err := c.ensureRunner(ctx); err != nil {
		return nil, err
	}

	runs, err := c.store.ListRuns(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]RunItem, 0, min(len(runs), req.Limit))
	for i := len(runs) - 1; i >= 0 && len(out) < req.Limit; i-- {
		run := runs[i]
		out = append(out, RunItem{
			RunID:        run.ID,
			CreatedAtUTC: run.CreatedAt.UTC().Format(time.RFC3339),
			Seed:         run.Seed,
			Animals:      run.Animals,
			Generations:  run.Generations,
			Completed:    run.Completed,
			Status:       string(run.Status),
			Error:        run.Error,
		})
	}
	return out, nil
}

func (c *Client) Generations(ctx context.Context, req GenerationsRequest) ([]GenerationItem, error) {
	if req.Limit < 0 {
		return nil, errors.New("limit must be >= 0")
	}
	runID, err := c.resolveRunID(ctx, req.RunID, req.Latest)
	if err != nil {
		return nil, err
	}

	records, ok, err := c.store.GetGenerations(ctx, runID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("generations not found for run id: %s", runID)
	}
	if req.Limit > 0 && len(records) > req.Limit {
		records = records[:req.Limit]
	}
	return toGenerationItems(records), nil
}

func (c *Client) Export(ctx context.Context, req ExportRequest) (ExportSummary, error) {
	if req.OutDir == "" {
		req.OutDir = c.exportsDir
	}
	runID, err := c.resolveRunID(ctx, req.RunID, req.Latest)
	if err != nil {
		return ExportSummary{}, err
	}

	run, ok, err := c.store.GetRun(ctx, runID)
	if err != nil {
		return ExportSummary{}, err
	}
	if !ok {
		return ExportSummary{}, fmt.Errorf("run not found: %s", runID)
	}
	records, _, err := c.store.GetGenerations(ctx, runID)
	if err != nil {
		return ExportSummary{}, err
	}

	dir, err := stats.WriteRunArtifacts(req.OutDir, stats.RunArtifacts{Run: run, Generations: records})
	if err != nil {
		return ExportSummary{}, err
	}
	return ExportSummary{RunID: runID, Directory: filepath.Clean(dir)}, nil
}

func (c *Client) resolveRunID(ctx context.Context, runID string, latest bool) (string, error) {
	if runID != "" && latest {
		return "", errors.New("use either run id or latest")
	}
	if runID == "" && !latest {
		return "", errors.New("run id or latest is required")
	}
	if _, err := c.ensureRunner(ctx); err != nil {
		return "", err
	}
	if runID != "" {
		return runID, nil
	}

	runs, err := c.store.ListRuns(ctx)
	if err != nil {
		return "", err
	}
	if len(runs) == 0 {
		return "", errors.New("no runs available")
	}
	return runs[len(runs)-1].ID, nil
}

func (c *Client) ensureRunner(ctx context.Context) (*platform.Runner, error) {
	if c.runner != nil {
		return c.runner, nil
	}
	r := platform.NewRunner(platform.Config{Store: c.store, Metrics: c.metrics})
	if err := r.Init(ctx); err != nil {
		return nil, err
	}
	c.runner = r
	return c.runner, nil
}

func toGenerationItem(record model.GenerationRecord) GenerationItem {
	return GenerationItem{
		Generation:       record.Generation,
		MinFitness:       record.MinFitness,
		AvgFitness:       record.AvgFitness,
		MaxFitness:       record.MaxFitness,
		ObstacleContacts: record.ObstacleContacts,
		FoodEaten:        record.FoodEaten,
	}
}

func toGenerationItems(records []model.GenerationRecord) []GenerationItem {
	out := make([]GenerationItem, 0, len(records))
	for _, record := range records {
		out = append(out, toGenerationItem(record))
	}
	return out
}
