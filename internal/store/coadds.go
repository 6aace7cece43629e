package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/simonsobs/mapcat/internal/domain"
)

const coaddColumns = `coadd_id, coadd_name, coadd_type, map_path, ivar_path, rho_path, kappa_path,
	start_time_path, mean_time_path, end_time_path, frequency, ctime, start_time, stop_time`

func (db *DB) CreateDepthOneCoadd(ctx context.Context, c *domain.DepthOneCoadd) error {
	query := `INSERT INTO depth_one_coadds (coadd_name, coadd_type, map_path, ivar_path, rho_path, kappa_path,
		start_time_path, mean_time_path, end_time_path, frequency, ctime, start_time, stop_time)
		VALUES (:coadd_name, :coadd_type, :map_path, :ivar_path, :rho_path, :kappa_path,
		:start_time_path, :mean_time_path, :end_time_path, :frequency, :ctime, :start_time, :stop_time)
		RETURNING coadd_id`

	id, err := db.insertNamedReturningID(ctx, query, c)
	if err != nil {
		return fmt.Errorf("failed to create coadd %s: %w", c.CoaddName, err)
	}
	c.ID = id
	return nil
}

func (db *DB) GetDepthOneCoadd(ctx context.Context, id int64) (*domain.DepthOneCoadd, error) {
	var c domain.DepthOneCoadd
	err := db.get(ctx, &c, `SELECT `+coaddColumns+` FROM depth_one_coadds WHERE coadd_id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("coadd %d: %w", id, domain.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (db *DB) LinkMapToCoadd(ctx context.Context, mapID, coaddID int64) error {
	_, err := db.exec(ctx, `INSERT INTO link_depth_one_map_to_coadd (map_id, coadd_id) VALUES (?, ?)`, mapID, coaddID)
	if err != nil {
		return fmt.Errorf("failed to link map %d to coadd %d: %w", mapID, coaddID, err)
	}
	return nil
}

// ListCoaddsForMap returns the coadds a map went into.
func (db *DB) ListCoaddsForMap(ctx context.Context, mapID int64) ([]*domain.DepthOneCoadd, error) {
	query := `SELECT ` + prefixColumns("c.", coaddColumns) + `
		FROM depth_one_coadds c
		JOIN link_depth_one_map_to_coadd l ON l.coadd_id = c.coadd_id
		WHERE l.map_id = ?
		ORDER BY c.coadd_id`

	var out []*domain.DepthOneCoadd
	err := db.selectAll(ctx, &out, query, mapID)
	return out, err
}

// ListMapsInCoadd returns the maps that make up a coadd, oldest first.
func (db *DB) ListMapsInCoadd(ctx context.Context, coaddID int64) ([]*domain.DepthOneMap, error) {
	query := `SELECT ` + prefixColumns("m.", mapColumns) + `
		FROM depth_one_maps m
		JOIN link_depth_one_map_to_coadd l ON l.map_id = m.map_id
		WHERE l.coadd_id = ?
		ORDER BY m.ctime, m.map_id`

	var out []*domain.DepthOneMap
	err := db.selectAll(ctx, &out, query, coaddID)
	return out, err
}
