// Package coverage keeps the sky coverage table in step with the catalog:
// every map without coverage rows gets its tiles resolved and stored.
package coverage

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/simonsobs/mapcat/internal/domain"
	"github.com/simonsobs/mapcat/internal/logger"
	"github.com/simonsobs/mapcat/internal/raster"
	"github.com/simonsobs/mapcat/internal/sky"
)

// Store is the persistence the reconciler needs. SaveCoverage must write
// all records for a map atomically.
type Store interface {
	ListMapsWithoutCoverage(ctx context.Context) ([]domain.MapSummary, error)
	SaveCoverage(ctx context.Context, records []domain.CoverageRecord) error
	DeleteCoverage(ctx context.Context, mapID int64) (int64, error)
}

// MapFailure records why one map could not be covered in a pass.
type MapFailure struct {
	MapID   int64
	MapName string
	Err     error
}

// Report summarises a reconcile pass.
type Report struct {
	RunID     string
	Pending   int // maps without coverage at the start of the pass
	Processed int // maps whose coverage was written
	Empty     int // maps with no observed tiles; nothing written, retried next pass
	Tiles     int
	Failed    []MapFailure
}

type Reconciler struct {
	Store   Store
	Loader  raster.Loader
	Logger  *logger.Logger
	Workers int // concurrent raster loads; persistence is always serial
}

func NewReconciler(store Store, loader raster.Loader, log *logger.Logger) *Reconciler {
	return &Reconciler{Store: store, Loader: loader, Logger: log, Workers: 1}
}

type resolution struct {
	records []domain.CoverageRecord
	err     error
}

// Reconcile covers every map that has no coverage rows yet. Failures are
// isolated per map and collected in the report; only a failure to list the
// pending maps, or ctx ending, aborts the pass.
func (r *Reconciler) Reconcile(ctx context.Context) (*Report, error) {
	report := &Report{RunID: uuid.New().String()}
	log := r.Logger.WithComponent("coverage").WithRun(report.RunID)

	maps, err := r.Store.ListMapsWithoutCoverage(ctx)
	if err != nil {
		return report, fmt.Errorf("failed to list maps without coverage: %w", err)
	}
	report.Pending = len(maps)
	log.Info("Coverage pass started", "pending", len(maps), "workers", r.workers())

	results := r.resolveAll(ctx, maps)

	for i, m := range maps {
		if err := ctx.Err(); err != nil {
			log.Warn("Coverage pass cancelled", "processed", report.Processed)
			return report, err
		}

		var res resolution
		select {
		case res = <-results[i]:
		case <-ctx.Done():
			log.Warn("Coverage pass cancelled", "processed", report.Processed)
			return report, ctx.Err()
		}

		mlog := log.WithMap(m.MapID, m.MapName)

		if res.err == nil && len(res.records) == 0 {
			report.Empty++
			mlog.Info("No observed tiles, map left pending")
			continue
		}
		if res.err == nil {
			if err := r.Store.SaveCoverage(ctx, res.records); err != nil {
				res.err = fmt.Errorf("failed to save coverage: %w", err)
			}
		}
		if res.err != nil {
			report.Failed = append(report.Failed, MapFailure{MapID: m.MapID, MapName: m.MapName, Err: res.err})
			mlog.Warn("Coverage failed", "error", res.err)
			continue
		}

		report.Processed++
		report.Tiles += len(res.records)
		mlog.Debug("Coverage saved", "tiles", len(res.records))
	}

	log.Info("Coverage pass finished",
		"processed", report.Processed,
		"tiles", report.Tiles,
		"empty", report.Empty,
		"failed", len(report.Failed))
	return report, nil
}

// Recompute drops the coverage of the given maps and runs a pass, so their
// tiles are resolved again from the current time rasters. Other pending
// maps are covered by the same pass.
func (r *Reconciler) Recompute(ctx context.Context, mapIDs []int64) (*Report, error) {
	log := r.Logger.WithComponent("coverage")
	for _, id := range mapIDs {
		n, err := r.Store.DeleteCoverage(ctx, id)
		if err != nil {
			return &Report{}, fmt.Errorf("failed to drop coverage for map %d: %w", id, err)
		}
		log.Debug("Coverage dropped", "map_id", id, "rows", n)
	}
	return r.Reconcile(ctx)
}

// resolveAll fans raster loading and tiling out over the worker pool. Each
// map's result arrives on its own buffered channel so the caller can persist
// in catalog order.
func (r *Reconciler) resolveAll(ctx context.Context, maps []domain.MapSummary) []chan resolution {
	out := make([]chan resolution, len(maps))
	for i := range out {
		out[i] = make(chan resolution, 1)
	}

	jobs := make(chan int)
	go func() {
		defer close(jobs)
		for i := range maps {
			select {
			case jobs <- i:
			case <-ctx.Done():
				return
			}
		}
	}()

	for w := 0; w < r.workers(); w++ {
		go func() {
			for i := range jobs {
				if err := ctx.Err(); err != nil {
					out[i] <- resolution{err: err}
					continue
				}
				records, err := r.Resolve(maps[i])
				out[i] <- resolution{records: records, err: err}
			}
		}()
	}
	return out
}

// Resolve loads a map's time raster and returns the coverage records it
// should have. Maps lying wholly within one turn of RA are wrapped onto the
// grid; maps straddling RA 0 and tiles off the grid in declination are a
// data integrity error.
func (r *Reconciler) Resolve(m domain.MapSummary) ([]domain.CoverageRecord, error) {
	if m.TimePath == nil || *m.TimePath == "" {
		return nil, fmt.Errorf("%w: map has no time map path", domain.ErrRasterLoad)
	}

	tmap, err := r.Loader.Load(*m.TimePath)
	if err != nil {
		if !errors.Is(err, domain.ErrRasterLoad) {
			err = fmt.Errorf("%w: %w", domain.ErrRasterLoad, err)
		}
		return nil, err
	}

	tiles, err := sky.Resolve(tmap)
	if err != nil {
		return nil, err
	}

	raw := tiles
	tiles, ok := sky.WrapRA(tiles)
	if !ok {
		return nil, fmt.Errorf("%w: map straddles RA 0 (tile x from %d to %d)",
			domain.ErrDataIntegrity, raw[0].X, raw[len(raw)-1].X)
	}

	records := make([]domain.CoverageRecord, 0, len(tiles))
	for _, t := range tiles {
		if !t.InGrid() {
			return nil, fmt.Errorf("%w: tile (%d,%d) is off the %dx%d sky grid",
				domain.ErrDataIntegrity, t.X, t.Y, sky.GridWidth, sky.GridHeight)
		}
		records = append(records, domain.CoverageRecord{MapID: m.MapID, X: t.X, Y: t.Y})
	}
	return records, nil
}

func (r *Reconciler) workers() int {
	if r.Workers < 1 {
		return 1
	}
	return r.Workers
}
