package store

import (
	"context"
	"fmt"

	"github.com/simonsobs/mapcat/internal/domain"
)

// ListMapsWithoutCoverage returns every map that has no sky coverage rows.
func (db *DB) ListMapsWithoutCoverage(ctx context.Context) ([]domain.MapSummary, error) {
	query := `SELECT m.map_id, m.map_name, m.time_path
		FROM depth_one_maps m
		LEFT JOIN depth_one_sky_coverage c ON c.map_id = m.map_id
		WHERE c.map_id IS NULL
		ORDER BY m.map_id ASC`

	var maps []domain.MapSummary
	err := db.selectAll(ctx, &maps, query)
	return maps, err
}

// InsertCoverage adds coverage rows. A duplicate (map_id, x, y) is an error.
func (db *DB) InsertCoverage(ctx context.Context, records []domain.CoverageRecord) error {
	query := `INSERT INTO depth_one_sky_coverage (map_id, x, y) VALUES (?, ?, ?)`
	for _, r := range records {
		if _, err := db.exec(ctx, query, r.MapID, r.X, r.Y); err != nil {
			return fmt.Errorf("failed to insert coverage for %s: %w", r, err)
		}
	}
	return nil
}

// SaveCoverage writes all of a map's coverage rows in one transaction.
func (db *DB) SaveCoverage(ctx context.Context, records []domain.CoverageRecord) error {
	if len(records) == 0 {
		return nil
	}
	return db.RunInTx(ctx, func(tx *DB) error {
		return tx.InsertCoverage(ctx, records)
	})
}

func (db *DB) ListCoverage(ctx context.Context, mapID int64) ([]domain.CoverageRecord, error) {
	var records []domain.CoverageRecord
	err := db.selectAll(ctx, &records, `SELECT map_id, x, y FROM depth_one_sky_coverage WHERE map_id = ? ORDER BY x, y`, mapID)
	return records, err
}

func (db *DB) CountCoverage(ctx context.Context, mapID int64) (int, error) {
	var n int
	err := db.get(ctx, &n, `SELECT COUNT(*) FROM depth_one_sky_coverage WHERE map_id = ?`, mapID)
	return n, err
}

// CountAllCoverage counts coverage rows across every map.
func (db *DB) CountAllCoverage(ctx context.Context) (int, error) {
	var n int
	err := db.get(ctx, &n, `SELECT COUNT(*) FROM depth_one_sky_coverage`)
	return n, err
}

// DeleteCoverage drops a map's coverage so the next reconcile pass recomputes it.
func (db *DB) DeleteCoverage(ctx context.Context, mapID int64) (int64, error) {
	return db.exec(ctx, `DELETE FROM depth_one_sky_coverage WHERE map_id = ?`, mapID)
}

// ListMapsInTile returns the maps whose coverage includes tile (x, y).
func (db *DB) ListMapsInTile(ctx context.Context, x, y int) ([]*domain.DepthOneMap, error) {
	query := `SELECT m.map_id, m.map_name, m.map_path, m.ivar_path, m.time_path, m.tube_slot, m.frequency, m.ctime, m.start_time, m.stop_time
		FROM depth_one_maps m
		JOIN depth_one_sky_coverage c ON c.map_id = m.map_id
		WHERE c.x = ? AND c.y = ?
		ORDER BY m.ctime ASC`

	var maps []*domain.DepthOneMap
	err := db.selectAll(ctx, &maps, query, x, y)
	return maps, err
}
