package store

import (
	"context"
	"fmt"

	"github.com/simonsobs/mapcat/internal/domain"
)

const todColumns = `tod_id, obs_id, pwv, ctime, start_time, stop_time, nsamples, telescope, telescope_flavor,
	tube_slot, tube_flavor, frequency, scan_type, subtype, wafer_count, duration, az_center, az_throw,
	el_center, el_throw, roll_center, roll_throw, wafer_slots_list, stream_ids_list`

// CreateTOD inserts t and sets t.ID from the database.
func (db *DB) CreateTOD(ctx context.Context, t *domain.TOD) error {
	query := `INSERT INTO tod_depth_one (obs_id, pwv, ctime, start_time, stop_time, nsamples, telescope,
		telescope_flavor, tube_slot, tube_flavor, frequency, scan_type, subtype, wafer_count, duration,
		az_center, az_throw, el_center, el_throw, roll_center, roll_throw, wafer_slots_list, stream_ids_list)
		VALUES (:obs_id, :pwv, :ctime, :start_time, :stop_time, :nsamples, :telescope,
		:telescope_flavor, :tube_slot, :tube_flavor, :frequency, :scan_type, :subtype, :wafer_count, :duration,
		:az_center, :az_throw, :el_center, :el_throw, :roll_center, :roll_throw, :wafer_slots_list, :stream_ids_list)
		RETURNING tod_id`

	id, err := db.insertNamedReturningID(ctx, query, t)
	if err != nil {
		return fmt.Errorf("failed to create tod %s: %w", t.ObsID, err)
	}
	t.ID = id
	return nil
}

// LinkTODToMap records that the TOD went into the map. Linking twice is an error.
func (db *DB) LinkTODToMap(ctx context.Context, todID, mapID int64) error {
	_, err := db.exec(ctx, `INSERT INTO link_tod_to_depth_one_map (tod_id, map_id) VALUES (?, ?)`, todID, mapID)
	if err != nil {
		return fmt.Errorf("failed to link tod %d to map %d: %w", todID, mapID, err)
	}
	return nil
}

func (db *DB) ListTODsForMap(ctx context.Context, mapID int64) ([]*domain.TOD, error) {
	query := `SELECT ` + prefixColumns("t.", todColumns) + `
		FROM tod_depth_one t
		JOIN link_tod_to_depth_one_map l ON l.tod_id = t.tod_id
		WHERE l.map_id = ?
		ORDER BY t.ctime, t.tod_id`

	var out []*domain.TOD
	err := db.selectAll(ctx, &out, query, mapID)
	return out, err
}

// MapsContainingObs returns the maps built from any TOD with the given obs id,
// ordered by map id. An obs id with no TOD rows is ErrNotFound; a TOD that
// went into no map yields an empty list.
func (db *DB) MapsContainingObs(ctx context.Context, obsID string) ([]*domain.DepthOneMap, error) {
	var n int
	if err := db.get(ctx, &n, `SELECT COUNT(*) FROM tod_depth_one WHERE obs_id = ?`, obsID); err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, fmt.Errorf("obs %s: %w", obsID, domain.ErrNotFound)
	}

	query := `SELECT DISTINCT ` + prefixColumns("m.", mapColumns) + `
		FROM depth_one_maps m
		JOIN link_tod_to_depth_one_map l ON l.map_id = m.map_id
		JOIN tod_depth_one t ON t.tod_id = l.tod_id
		WHERE t.obs_id = ?
		ORDER BY m.map_id`

	var maps []*domain.DepthOneMap
	err := db.selectAll(ctx, &maps, query, obsID)
	return maps, err
}
