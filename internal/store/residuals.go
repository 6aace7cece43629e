package store

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/simonsobs/mapcat/internal/domain"
)

func (db *DB) CreatePointingResidual(ctx context.Context, r *domain.PointingResidual) error {
	query := `INSERT INTO depth_one_pointing_residuals (map_id, ra_offset, dec_offset)
		VALUES (?, ?, ?) RETURNING pointing_residual_id`

	id, err := db.insertReturningID(ctx, query, r.MapID, r.RAOffset, r.DecOffset)
	if err != nil {
		return fmt.Errorf("failed to create pointing residual for map %d: %w", r.MapID, err)
	}
	r.ID = id
	return nil
}

func (db *DB) ListPointingResiduals(ctx context.Context, mapID int64) ([]*domain.PointingResidual, error) {
	var out []*domain.PointingResidual
	err := db.selectAll(ctx, &out, `SELECT pointing_residual_id, map_id, ra_offset, dec_offset
		FROM depth_one_pointing_residuals WHERE map_id = ? ORDER BY pointing_residual_id`, mapID)
	return out, err
}

// CreatePipelineInformation stores pipeline provenance for a map. A non-nil
// PreprocessInfo must be valid JSON.
func (db *DB) CreatePipelineInformation(ctx context.Context, p *domain.PipelineInformation) error {
	if p.PreprocessInfo != nil && !json.Valid([]byte(*p.PreprocessInfo)) {
		return fmt.Errorf("preprocess info for map %d is not valid JSON", p.MapID)
	}

	query := `INSERT INTO pipeline_information (map_id, sotodlib_version, map_maker, preprocess_info)
		VALUES (?, ?, ?, ?) RETURNING pipeline_information_id`

	id, err := db.insertReturningID(ctx, query, p.MapID, p.SotodlibVersion, p.MapMaker, p.PreprocessInfo)
	if err != nil {
		return fmt.Errorf("failed to create pipeline information for map %d: %w", p.MapID, err)
	}
	p.ID = id
	return nil
}

func (db *DB) ListPipelineInformation(ctx context.Context, mapID int64) ([]*domain.PipelineInformation, error) {
	var out []*domain.PipelineInformation
	err := db.selectAll(ctx, &out, `SELECT pipeline_information_id, map_id, sotodlib_version, map_maker, preprocess_info
		FROM pipeline_information WHERE map_id = ? ORDER BY pipeline_information_id`, mapID)
	return out, err
}
