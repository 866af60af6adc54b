package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/mattn/go-isatty"

	"evosim/internal/config"
	"evosim/internal/evo"
	"evosim/internal/storage"
	"evosim/pkg/evosim"
)

const exportsDir = "exports"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return usageError("missing command")
	}

	switch args[0] {
	case "run":
		return runRun(ctx, args[1:])
	case "runs":
		return runRuns(ctx, args[1:])
	case "generations":
		return runGenerations(ctx, args[1:])
	case "export":
		return runExport(ctx, args[1:])
	case "strategies":
		return runStrategies(ctx, args[1:])
	default:
		return usageError(fmt.Sprintf("unknown command: %s", args[0]))
	}
}

func runRun(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("run", flag.ContinueOnError)
	flags := registerRunFlags(fs)
	progress := fs.Bool("progress", false, "print every generation even when stdout is not a terminal")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := resolveRunConfig(fs, flags)
	if err != nil {
		return err
	}

	client, err := evosim.New(evosim.Options{
		StoreKind:     cfg.Storage.Kind,
		DBPath:        cfg.Storage.Path,
		EnableMetrics: cfg.Metrics.Addr != "",
	})
	if err != nil {
		return err
	}
	defer func() {
		_ = client.Close()
	}()

	if cfg.Metrics.Addr != "" {
		shutdown, err := serveMetrics(cfg.Metrics.Addr, client.MetricsHandler())
		if err != nil {
			return err
		}
		defer shutdown()
	}

	showProgress := *progress || isTerminal(os.Stdout)
	simCfg := cfg.SimConfig()
	started := time.Now()
	summary, err := client.Run(ctx, evosim.RunRequest{
		RunID:       cfg.Run.ID,
		Seed:        cfg.Run.Seed,
		Generations: cfg.Run.Generations,
		Config:      &simCfg,
		OnGeneration: func(item evosim.GenerationItem) {
			if !showProgress {
				return
			}
			fmt.Printf("%s generation min=%.3f avg=%.3f max=%.3f obstacle_contacts=%s\n",
				humanize.Ordinal(item.Generation),
				item.MinFitness,
				item.AvgFitness,
				item.MaxFitness,
				humanize.Comma(int64(item.ObstacleContacts)),
			)
		},
	})
	if err != nil {
		if errors.Is(err, context.Canceled) && summary.RunID != "" {
			fmt.Printf("run cancelled run_id=%s completed=%d/%d\n", summary.RunID, len(summary.Generations), cfg.Run.Generations)
		}
		return err
	}

	steps := int64(len(summary.Generations)) * int64(simCfg.GenerationLength+1)
	fmt.Printf("run completed run_id=%s generations=%d steps=%s best_max=%.3f final_avg=%.3f improvement=%.3f elapsed=%s\n",
		summary.RunID,
		summary.Summary.Generations,
		humanize.Comma(steps),
		summary.Summary.BestMax,
		summary.Summary.FinalAvg,
		summary.Summary.Improvement,
		time.Since(started).Round(time.Millisecond),
	)
	return nil
}

func runRuns(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("runs", flag.ContinueOnError)
	storeKind := fs.String("store", storage.DefaultStoreKind(), "store backend: memory|sqlite")
	dbPath := fs.String("db-path", config.DefaultSQLitePath, "sqlite database path")
	limit := fs.Int("limit", 20, "max runs to list")
	jsonOut := fs.Bool("json", false, "emit runs list as JSON")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *limit <= 0 {
		return errors.New("limit must be > 0")
	}

	client, err := newClient(ctx, *storeKind, *dbPath)
	if err != nil {
		return err
	}
	defer func() {
		_ = client.Close()
	}()

	runs, err := client.Runs(ctx, evosim.RunsRequest{Limit: *limit})
	if err != nil {
		return err
	}
	if *jsonOut {
		return writeJSON(runs)
	}
	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}
	for _, r := range runs {
		age := r.CreatedAtUTC
		if created, err := time.Parse(time.RFC3339, r.CreatedAtUTC); err == nil {
			age = humanize.Time(created)
		}
		line := fmt.Sprintf("run_id=%s created=%q seed=%d animals=%d gens=%d/%d status=%s",
			r.RunID, age, r.Seed, r.Animals, r.Completed, r.Generations, r.Status)
		if r.Error != "" {
			line += fmt.Sprintf(" error=%q", r.Error)
		}
		fmt.Println(line)
	}
	return nil
}

func runGenerations(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("generations", flag.ContinueOnError)
	storeKind := fs.String("store", storage.DefaultStoreKind(), "store backend: memory|sqlite")
	dbPath := fs.String("db-path", config.DefaultSQLitePath, "sqlite database path")
	runID := fs.String("run-id", "", "run id")
	latest := fs.Bool("latest", false, "use the most recent run")
	limit := fs.Int("limit", 0, "max generations to show (0 shows all)")
	jsonOut := fs.Bool("json", false, "emit generations as JSON")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *runID != "" && *latest {
		return errors.New("use either --run-id or --latest, not both")
	}

	client, err := newClient(ctx, *storeKind, *dbPath)
	if err != nil {
		return err
	}
	defer func() {
		_ = client.Close()
	}()

	items, err := client.Generations(ctx, evosim.GenerationsRequest{RunID: *runID, Latest: *latest, Limit: *limit})
	if err != nil {
		return err
	}
	if *jsonOut {
		return writeJSON(items)
	}
	for _, item := range items {
		fmt.Printf("generation=%d min=%.3f avg=%.3f max=%.3f obstacle_contacts=%d food_eaten=%d\n",
			item.Generation, item.MinFitness, item.AvgFitness, item.MaxFitness, item.ObstacleContacts, item.FoodEaten)
	}
	return nil
}

func runExport(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("export", flag.ContinueOnError)
	storeKind := fs.String("store", storage.DefaultStoreKind(), "store backend: memory|sqlite")
	dbPath := fs.String("db-path", config.DefaultSQLitePath, "sqlite database path")
	runID := fs.String("run-id", "", "run id")
	latest := fs.Bool("latest", false, "export the most recent run")
	outDir := fs.String("out", exportsDir, "export output directory")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *runID != "" && *latest {
		return errors.New("use either --run-id or --latest, not both")
	}
	if *runID == "" && !*latest {
		return errors.New("export requires --run-id or --latest")
	}

	client, err := newClient(ctx, *storeKind, *dbPath)
	if err != nil {
		return err
	}
	defer func() {
		_ = client.Close()
	}()

	exported, err := client.Export(ctx, evosim.ExportRequest{RunID: *runID, Latest: *latest, OutDir: *outDir})
	if err != nil {
		return err
	}
	fmt.Printf("exported run_id=%s to=%s\n", exported.RunID, exported.Directory)
	return nil
}

func runStrategies(_ context.Context, args []string) error {
	fs := flag.NewFlagSet("strategies", flag.ContinueOnError)
	if err := fs.Parse(args); err != nil {
		return err
	}
	fmt.Printf("selection=%s\n", strings.Join(evo.ListSelections(), ","))
	fmt.Printf("crossover=%s\n", strings.Join(evo.ListCrossovers(), ","))
	fmt.Printf("mutation=%s\n", strings.Join(evo.ListMutations(), ","))
	return nil
}

func newClient(ctx context.Context, storeKind, dbPath string) (*evosim.Client, error) {
	client, err := evosim.New(evosim.Options{StoreKind: storeKind, DBPath: dbPath})
	if err != nil {
		return nil, err
	}
	if err := client.Init(ctx); err != nil {
		_ = client.Close()
		return nil, err
	}
	return client, nil
}

// serveMetrics listens before returning so address errors surface as the
// command's error.
func serveMetrics(addr string, handler http.Handler) (func(), error) {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("metrics listener: %w", err)
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", handler)
	server := &http.Server{Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		_ = server.Serve(listener)
	}()
	fmt.Printf("serving metrics on http://%s/metrics\n", listener.Addr())
	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = server.Shutdown(ctx)
	}, nil
}

func isTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

func writeJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func usageError(msg string) error {
	return fmt.Errorf("%s\nusage: evosimctl <run|runs|generations|export|strategies> [flags]", msg)
}
