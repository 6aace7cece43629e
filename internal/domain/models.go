package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrDataIntegrity marks map data that cannot produce a valid tile set:
	// non-finite or inverted bounding boxes, declinations outside [-90, 90],
	// and tiles that fall off the sky grid.
	ErrDataIntegrity = errors.New("data integrity error")
	// ErrRasterLoad marks a time raster that is missing or unreadable.
	ErrRasterLoad = errors.New("raster load error")
	ErrNotFound   = errors.New("not found")
	// ErrInvalidStatus is returned for processing statuses outside ValidResetStatuses.
	ErrInvalidStatus = errors.New("invalid processing status")
)

// DepthOneMap is a single depth-1 map product as stored in the catalog.
// Paths are relative to the configured depth-one parent directory.
type DepthOneMap struct {
	MapID     int64   `json:"map_id" db:"map_id"`
	MapName   string  `json:"map_name" db:"map_name"`
	MapPath   string  `json:"map_path" db:"map_path"`
	IvarPath  *string `json:"ivar_path,omitempty" db:"ivar_path"`
	TimePath  *string `json:"time_path,omitempty" db:"time_path"`
	TubeSlot  string  `json:"tube_slot" db:"tube_slot"`
	Frequency string  `json:"frequency" db:"frequency"`
	CTime     float64 `json:"ctime" db:"ctime"`
	StartTime float64 `json:"start_time" db:"start_time"`
	StopTime  float64 `json:"stop_time" db:"stop_time"`
}

// MapSummary is the slice of a map the coverage reconciler works from.
// The bounding box is not stored; it comes from the time raster's geometry.
type MapSummary struct {
	MapID    int64   `json:"map_id" db:"map_id"`
	MapName  string  `json:"map_name" db:"map_name"`
	TimePath *string `json:"time_path,omitempty" db:"time_path"`
}

// CoverageRecord ties a map to one 10x10 degree sky tile.
type CoverageRecord struct {
	MapID int64 `json:"map_id" db:"map_id"`
	X     int   `json:"x" db:"x"`
	Y     int   `json:"y" db:"y"`
}

func (r CoverageRecord) String() string {
	return fmt.Sprintf("map %d tile (%d,%d)", r.MapID, r.X, r.Y)
}

type ProcessingStatusValue string

const (
	StatusRunning   ProcessingStatusValue = "running"
	StatusFailed    ProcessingStatusValue = "failed"
	StatusCompleted ProcessingStatusValue = "completed"
	// StatusPermafail tells the pipeline never to retry the map.
	StatusPermafail ProcessingStatusValue = "permafail"
)

// ValidResetStatuses lists the statuses an operator may reset entries to.
var ValidResetStatuses = []ProcessingStatusValue{StatusFailed, StatusCompleted, StatusPermafail}

func IsValidResetStatus(s ProcessingStatusValue) bool {
	for _, v := range ValidResetStatuses {
		if v == s {
			return true
		}
	}
	return false
}

// ProcessingStatus tracks a time-domain pipeline run over a depth-1 map.
type ProcessingStatus struct {
	ID              int64                 `json:"processing_status_id" db:"processing_status_id"`
	MapID           int64                 `json:"map_id" db:"map_id"`
	ProcessingStart *float64              `json:"processing_start,omitempty" db:"processing_start"`
	ProcessingEnd   *float64              `json:"processing_end,omitempty" db:"processing_end"`
	Status          ProcessingStatusValue `json:"processing_status" db:"processing_status"`
}

// PointingResidual is the measured point-source offset for a map, in radians.
type PointingResidual struct {
	ID        int64    `json:"pointing_residual_id" db:"pointing_residual_id"`
	MapID     int64    `json:"map_id" db:"map_id"`
	RAOffset  *float64 `json:"ra_offset,omitempty" db:"ra_offset"`
	DecOffset *float64 `json:"dec_offset,omitempty" db:"dec_offset"`
}

// ResetFilter selects processing status entries. Zero values match everything.
type ResetFilter struct {
	MapIDs     []int64
	StartTime  *float64 // inclusive lower bound on the map's ctime
	EndTime    *float64 // inclusive upper bound on the map's ctime
	FromStatus ProcessingStatusValue
}

// PipelineInformation records the software that produced a map.
// PreprocessInfo holds the preprocessing configuration as JSON text.
type PipelineInformation struct {
	ID              int64   `json:"pipeline_information_id" db:"pipeline_information_id"`
	MapID           int64   `json:"map_id" db:"map_id"`
	SotodlibVersion *string `json:"sotodlib_version,omitempty" db:"sotodlib_version"`
	MapMaker        *string `json:"map_maker,omitempty" db:"map_maker"`
	PreprocessInfo  *string `json:"preprocess_info,omitempty" db:"preprocess_info"`
}
