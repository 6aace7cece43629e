package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/simonsobs/mapcat/internal/app"
	"github.com/simonsobs/mapcat/internal/config"
	"github.com/simonsobs/mapcat/internal/constants"
	"github.com/simonsobs/mapcat/internal/coverage"
	"github.com/simonsobs/mapcat/internal/domain"
	httpapp "github.com/simonsobs/mapcat/internal/http"
	"github.com/simonsobs/mapcat/internal/logger"
	"github.com/simonsobs/mapcat/internal/raster"
	"github.com/simonsobs/mapcat/internal/store"
	"github.com/simonsobs/mapcat/internal/worker"
)

const usage = `usage: mapcat <command> [flags]

commands:
  coverage   compute sky coverage for every map that has none
  register   add a depth-1 map (and its TODs) to the catalog
  import     attach processing, pointing, pipeline and coadd records from a JSON manifest
  obs        list the depth-1 maps each obs id went into
  reset      rewrite or delete time-domain processing statuses
  serve      run the catalog query API
`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Configuration error: %v\n", err)
		os.Exit(1)
	}

	appLogger := logger.New(logger.Config{
		Level:  cfg.LogLevel,
		Format: cfg.LogFormat,
	})

	db, err := store.Open(cfg.DBDriver, cfg.DBDSN)
	if err != nil {
		appLogger.Error("Failed to init DB", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cmd, args := os.Args[1], os.Args[2:]
	switch cmd {
	case "coverage":
		err = runCoverage(ctx, cfg, db, appLogger, args)
	case "register":
		err = runRegister(ctx, cfg, db, appLogger, args)
	case "import":
		err = runImport(ctx, db, appLogger, args)
	case "obs":
		err = runObs(ctx, db, appLogger, args)
	case "reset":
		err = runReset(ctx, db, appLogger, args)
	case "serve":
		err = runServe(ctx, cfg, db, appLogger, args)
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n\n%s", cmd, usage)
		os.Exit(2)
	}

	if err != nil {
		appLogger.Error("Command failed", "command", cmd, "error", err)
		db.Close()
		os.Exit(1)
	}
}

func newReconciler(cfg *config.Config, db *store.DB, log *logger.Logger) *coverage.Reconciler {
	rec := coverage.NewReconciler(db, raster.FITSLoader{Root: cfg.DepthOneParent}, log)
	rec.Workers = cfg.WorkerCount()
	return rec
}

func runCoverage(ctx context.Context, cfg *config.Config, db *store.DB, log *logger.Logger, args []string) error {
	fs := flag.NewFlagSet("coverage", flag.ExitOnError)
	watch := fs.Duration("watch", 0, "repeat the pass on this interval until interrupted")
	var recompute []int64
	fs.Func("recompute", "comma-separated map ids whose coverage is dropped and resolved again", func(v string) error {
		ids, err := parseIDs(v)
		recompute = append(recompute, ids...)
		return err
	})
	if err := fs.Parse(args); err != nil {
		return err
	}

	rec := newReconciler(cfg, db, log)

	if len(recompute) > 0 {
		report, err := rec.Recompute(ctx, recompute)
		if err != nil {
			return err
		}
		if len(report.Failed) > 0 {
			return fmt.Errorf("%d of %d maps failed", len(report.Failed), report.Pending)
		}
		return nil
	}

	if *watch > 0 {
		w := worker.NewWorker(rec, *watch, log)
		w.Start()
		<-ctx.Done()
		w.Stop()
		return nil
	}

	report, err := rec.Reconcile(ctx)
	if err != nil {
		return err
	}
	if len(report.Failed) > 0 {
		return fmt.Errorf("%d of %d maps failed", len(report.Failed), report.Pending)
	}
	return nil
}

func runRegister(ctx context.Context, cfg *config.Config, db *store.DB, log *logger.Logger, args []string) error {
	fs := flag.NewFlagSet("register", flag.ExitOnError)
	var meta app.Metadata
	fs.StringVar(&meta.TubeSlot, "tube", "", "tube slot or array (required)")
	fs.StringVar(&meta.Frequency, "freq", "", "frequency band, e.g. f090 (required)")
	fs.Float64Var(&meta.CTime, "ctime", 0, "mean unix time of the map")
	fs.Float64Var(&meta.StartTime, "start", 0, "start unix time")
	fs.Float64Var(&meta.StopTime, "stop", 0, "stop unix time")
	fs.StringVar(&meta.Telescope, "telescope", "", "telescope the TODs were taken with (required with -obs)")
	fs.Func("obs", "comma-separated obs ids of the TODs in the map", func(v string) error {
		for _, id := range strings.Split(v, ",") {
			if id = strings.TrimSpace(id); id != "" {
				meta.ObsIDs = append(meta.ObsIDs, id)
			}
		}
		return nil
	})
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() == 0 {
		return fmt.Errorf("register needs at least one map base path relative to %s", cfg.DepthOneParent)
	}
	if len(meta.ObsIDs) > 0 && fs.NArg() > 1 {
		return fmt.Errorf("-obs applies to a single map, got %d", fs.NArg())
	}

	svc := app.NewRegisterService(db, cfg.DepthOneParent, log)
	for _, base := range fs.Args() {
		if _, err := svc.Register(ctx, base, meta); err != nil {
			return fmt.Errorf("register %s: %w", base, err)
		}
	}
	return nil
}

func runReset(ctx context.Context, db *store.DB, log *logger.Logger, args []string) error {
	fs := flag.NewFlagSet("reset", flag.ExitOnError)
	var filter domain.ResetFilter

	fs.Func("maps", "comma-separated map ids", func(v string) error {
		ids, err := parseIDs(v)
		filter.MapIDs = append(filter.MapIDs, ids...)
		return err
	})
	fs.Func("start", "only maps with ctime at or after this unix time", func(v string) error {
		f, err := strconv.ParseFloat(v, 64)
		filter.StartTime = &f
		return err
	})
	fs.Func("end", "only maps with ctime at or before this unix time", func(v string) error {
		f, err := strconv.ParseFloat(v, 64)
		filter.EndTime = &f
		return err
	})
	from := fs.String("from", "", "only entries currently in this status")
	to := fs.String("to", "", "new status (failed, completed, permafail); empty deletes the entries")
	if err := fs.Parse(args); err != nil {
		return err
	}
	filter.FromStatus = domain.ProcessingStatusValue(*from)

	n, err := app.NewResetService(db, log).Reset(ctx, filter, domain.ProcessingStatusValue(*to))
	if err != nil {
		return err
	}
	fmt.Printf("%d processing entries updated\n", n)
	return nil
}

func runImport(ctx context.Context, db *store.DB, log *logger.Logger, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("import needs exactly one manifest path")
	}
	f, err := os.Open(args[0])
	if err != nil {
		return err
	}
	defer f.Close()

	manifest, err := app.DecodeManifest(f)
	if err != nil {
		return err
	}
	sum, err := app.NewImportService(db, log).Import(ctx, manifest)
	if err != nil {
		return err
	}
	return json.NewEncoder(os.Stdout).Encode(sum)
}

// obsLists is the JSON printed by the obs command: map names per obs id.
type obsLists struct {
	Maps    map[string][]string `json:"maps"`
	Missing []string            `json:"missing"`
}

func runObs(ctx context.Context, db *store.DB, log *logger.Logger, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("obs needs at least one obs id")
	}

	found, missing, err := app.NewObsService(db, log).BuildObsLists(ctx, args)
	if err != nil {
		return err
	}

	out := obsLists{Maps: make(map[string][]string, len(found)), Missing: missing}
	if out.Missing == nil {
		out.Missing = []string{}
	}
	for obsID, maps := range found {
		for _, m := range maps {
			out.Maps[obsID] = append(out.Maps[obsID], m.MapName)
		}
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

func parseIDs(v string) ([]int64, error) {
	var ids []int64
	for _, part := range strings.Split(v, ",") {
		id, err := strconv.ParseInt(strings.TrimSpace(part), 10, 64)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func runServe(ctx context.Context, cfg *config.Config, db *store.DB, log *logger.Logger, args []string) error {
	fs := flag.NewFlagSet("serve", flag.ExitOnError)
	watch := fs.Duration("watch", 0, "also run coverage passes on this interval")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if *watch > 0 {
		w := worker.NewWorker(newReconciler(cfg, db, log), *watch, log)
		w.Start()
		defer w.Stop()
	}

	r := chi.NewRouter()
	r.Use(log.AccessMiddleware)
	r.Use(middleware.Recoverer)

	h := httpapp.NewHandler(db, log)
	h.RegisterRoutes(r)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("Server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
	}

	log.Info("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), constants.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	log.Info("Server exiting")
	return nil
}
