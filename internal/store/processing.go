package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/simonsobs/mapcat/internal/domain"
)

func (db *DB) CreateProcessingStatus(ctx context.Context, ps *domain.ProcessingStatus) error {
	query := `INSERT INTO time_domain_processing (map_id, processing_start, processing_end, processing_status)
		VALUES (?, ?, ?, ?) RETURNING processing_status_id`

	id, err := db.insertReturningID(ctx, query, ps.MapID, ps.ProcessingStart, ps.ProcessingEnd, ps.Status)
	if err != nil {
		return fmt.Errorf("failed to create processing status for map %d: %w", ps.MapID, err)
	}
	ps.ID = id
	return nil
}

// FindProcessingStatuses returns the entries matching every set field of f.
func (db *DB) FindProcessingStatuses(ctx context.Context, f domain.ResetFilter) ([]*domain.ProcessingStatus, error) {
	var (
		where []string
		args  []interface{}
	)

	query := `SELECT p.processing_status_id, p.map_id, p.processing_start, p.processing_end, p.processing_status
		FROM time_domain_processing p`

	if f.StartTime != nil || f.EndTime != nil {
		query += ` JOIN depth_one_maps m ON m.map_id = p.map_id`
		if f.StartTime != nil {
			where = append(where, "m.ctime >= ?")
			args = append(args, *f.StartTime)
		}
		if f.EndTime != nil {
			where = append(where, "m.ctime <= ?")
			args = append(args, *f.EndTime)
		}
	}
	if len(f.MapIDs) > 0 {
		where = append(where, "p.map_id IN (?)")
		args = append(args, f.MapIDs)
	}
	if f.FromStatus != "" {
		where = append(where, "p.processing_status = ?")
		args = append(args, f.FromStatus)
	}
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY p.processing_status_id ASC"

	query, args, err := sqlx.In(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to expand filter: %w", err)
	}

	var out []*domain.ProcessingStatus
	err = db.selectAll(ctx, &out, query, args...)
	return out, err
}

func (db *DB) ListProcessingStatuses(ctx context.Context, mapID int64) ([]*domain.ProcessingStatus, error) {
	return db.FindProcessingStatuses(ctx, domain.ResetFilter{MapIDs: []int64{mapID}})
}

func (db *DB) SetProcessingStatus(ctx context.Context, ids []int64, status domain.ProcessingStatusValue) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	query, args, err := sqlx.In(`UPDATE time_domain_processing SET processing_status = ? WHERE processing_status_id IN (?)`, status, ids)
	if err != nil {
		return 0, err
	}
	return db.exec(ctx, query, args...)
}

func (db *DB) DeleteProcessingStatuses(ctx context.Context, ids []int64) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	query, args, err := sqlx.In(`DELETE FROM time_domain_processing WHERE processing_status_id IN (?)`, ids)
	if err != nil {
		return 0, err
	}
	return db.exec(ctx, query, args...)
}
