package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/simonsobs/mapcat/internal/domain"
)

const atomicMapColumns = `atomic_map_id, obs_id, telescope, freq_channel, wafer, ctime, split_label,
	map_path, ivar_path, valid, split_detail, prefix_path, elevation, azimuth, pwv, dpwv,
	total_weight_qu, mean_weight_qu, median_weight_qu, leakage_avg, noise_avg, ampl_2f_avg,
	gain_avg, tau_avg, f_hwp, roll_angle, scan_speed, scan_acc, sun_distance, ambient_temperature,
	uv, ra_center, dec_center, number_dets, moon_distance, wind_speed, wind_direction, rqu_avg`

const atomicCoaddColumns = `coadd_id, coadd_name, prefix_path, platform, "interval", start_time, stop_time,
	freq_channel, geom_file_path, split_label`

func (db *DB) CreateAtomicMap(ctx context.Context, a *domain.AtomicMap) error {
	query := `INSERT INTO atomic_maps (obs_id, telescope, freq_channel, wafer, ctime, split_label,
		map_path, ivar_path, valid, split_detail, prefix_path, elevation, azimuth, pwv, dpwv,
		total_weight_qu, mean_weight_qu, median_weight_qu, leakage_avg, noise_avg, ampl_2f_avg,
		gain_avg, tau_avg, f_hwp, roll_angle, scan_speed, scan_acc, sun_distance, ambient_temperature,
		uv, ra_center, dec_center, number_dets, moon_distance, wind_speed, wind_direction, rqu_avg)
		VALUES (:obs_id, :telescope, :freq_channel, :wafer, :ctime, :split_label,
		:map_path, :ivar_path, :valid, :split_detail, :prefix_path, :elevation, :azimuth, :pwv, :dpwv,
		:total_weight_qu, :mean_weight_qu, :median_weight_qu, :leakage_avg, :noise_avg, :ampl_2f_avg,
		:gain_avg, :tau_avg, :f_hwp, :roll_angle, :scan_speed, :scan_acc, :sun_distance, :ambient_temperature,
		:uv, :ra_center, :dec_center, :number_dets, :moon_distance, :wind_speed, :wind_direction, :rqu_avg)
		RETURNING atomic_map_id`

	id, err := db.insertNamedReturningID(ctx, query, a)
	if err != nil {
		return fmt.Errorf("failed to create atomic map %s/%s: %w", a.ObsID, a.Wafer, err)
	}
	a.ID = id
	return nil
}

func (db *DB) CreateAtomicMapCoadd(ctx context.Context, c *domain.AtomicMapCoadd) error {
	query := `INSERT INTO atomic_map_coadds (coadd_name, prefix_path, platform, "interval", start_time, stop_time,
		freq_channel, geom_file_path, split_label)
		VALUES (:coadd_name, :prefix_path, :platform, :interval, :start_time, :stop_time,
		:freq_channel, :geom_file_path, :split_label)
		RETURNING coadd_id`

	id, err := db.insertNamedReturningID(ctx, query, c)
	if err != nil {
		return fmt.Errorf("failed to create atomic coadd %s: %w", c.CoaddName, err)
	}
	c.ID = id
	return nil
}

func (db *DB) GetAtomicMapCoadd(ctx context.Context, id int64) (*domain.AtomicMapCoadd, error) {
	var c domain.AtomicMapCoadd
	err := db.get(ctx, &c, `SELECT `+atomicCoaddColumns+` FROM atomic_map_coadds WHERE coadd_id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("atomic coadd %d: %w", id, domain.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (db *DB) LinkAtomicMapToCoadd(ctx context.Context, atomicMapID, coaddID int64) error {
	_, err := db.exec(ctx, `INSERT INTO link_atomic_map_to_coadd (atomic_map_id, coadd_id) VALUES (?, ?)`, atomicMapID, coaddID)
	if err != nil {
		return fmt.Errorf("failed to link atomic map %d to coadd %d: %w", atomicMapID, coaddID, err)
	}
	return nil
}

// LinkChildCoadd nests child under parent, e.g. a daily coadd in a weekly one.
func (db *DB) LinkChildCoadd(ctx context.Context, parentID, childID int64) error {
	if parentID == childID {
		return fmt.Errorf("atomic coadd %d cannot contain itself", parentID)
	}
	_, err := db.exec(ctx, `INSERT INTO link_coadd_map_to_coadd (parent_coadd_id, child_coadd_id) VALUES (?, ?)`, parentID, childID)
	if err != nil {
		return fmt.Errorf("failed to link coadd %d under %d: %w", childID, parentID, err)
	}
	return nil
}

func (db *DB) ListAtomicMapsInCoadd(ctx context.Context, coaddID int64) ([]*domain.AtomicMap, error) {
	query := `SELECT ` + prefixColumns("a.", atomicMapColumns) + `
		FROM atomic_maps a
		JOIN link_atomic_map_to_coadd l ON l.atomic_map_id = a.atomic_map_id
		WHERE l.coadd_id = ?
		ORDER BY a.ctime, a.atomic_map_id`

	var out []*domain.AtomicMap
	err := db.selectAll(ctx, &out, query, coaddID)
	return out, err
}

func (db *DB) ListChildCoadds(ctx context.Context, parentID int64) ([]*domain.AtomicMapCoadd, error) {
	query := `SELECT ` + prefixColumns("c.", atomicCoaddColumns) + `
		FROM atomic_map_coadds c
		JOIN link_coadd_map_to_coadd l ON l.child_coadd_id = c.coadd_id
		WHERE l.parent_coadd_id = ?
		ORDER BY c.start_time, c.coadd_id`

	var out []*domain.AtomicMapCoadd
	err := db.selectAll(ctx, &out, query, parentID)
	return out, err
}
