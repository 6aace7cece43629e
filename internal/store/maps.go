package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/simonsobs/mapcat/internal/domain"
)

const mapColumns = `map_id, map_name, map_path, ivar_path, time_path, tube_slot, frequency, ctime, start_time, stop_time`

// CreateMap inserts m and sets m.MapID from the database.
func (db *DB) CreateMap(ctx context.Context, m *domain.DepthOneMap) error {
	query := `INSERT INTO depth_one_maps (map_name, map_path, ivar_path, time_path, tube_slot, frequency, ctime, start_time, stop_time)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?) RETURNING map_id`

	id, err := db.insertReturningID(ctx, query,
		m.MapName, m.MapPath, m.IvarPath, m.TimePath, m.TubeSlot, m.Frequency, m.CTime, m.StartTime, m.StopTime)
	if err != nil {
		return fmt.Errorf("failed to create map %s: %w", m.MapName, err)
	}
	m.MapID = id
	return nil
}

func (db *DB) GetMap(ctx context.Context, id int64) (*domain.DepthOneMap, error) {
	var m domain.DepthOneMap
	err := db.get(ctx, &m, `SELECT `+mapColumns+` FROM depth_one_maps WHERE map_id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("map %d: %w", id, domain.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (db *DB) GetMapByName(ctx context.Context, name string) (*domain.DepthOneMap, error) {
	var m domain.DepthOneMap
	err := db.get(ctx, &m, `SELECT `+mapColumns+` FROM depth_one_maps WHERE map_name = ?`, name)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("map %q: %w", name, domain.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (db *DB) ListMaps(ctx context.Context, limit int) ([]*domain.DepthOneMap, error) {
	var maps []*domain.DepthOneMap
	err := db.selectAll(ctx, &maps, `SELECT `+mapColumns+` FROM depth_one_maps ORDER BY ctime DESC LIMIT ?`, limit)
	return maps, err
}

// DeleteMap removes a map; coverage, processing, residual, pipeline and link
// rows go with it. Linked TODs and coadds are kept.
func (db *DB) DeleteMap(ctx context.Context, id int64) error {
	n, err := db.exec(ctx, `DELETE FROM depth_one_maps WHERE map_id = ?`, id)
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("map %d: %w", id, domain.ErrNotFound)
	}
	return nil
}
