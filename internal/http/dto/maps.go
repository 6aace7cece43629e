package dto

import (
	"github.com/simonsobs/mapcat/internal/domain"
	"github.com/simonsobs/mapcat/internal/sky"
)

type MapResponse struct {
	MapID     int64   `json:"map_id"`
	MapName   string  `json:"map_name"`
	MapPath   string  `json:"map_path"`
	IvarPath  *string `json:"ivar_path,omitempty"`
	TimePath  *string `json:"time_path,omitempty"`
	TubeSlot  string  `json:"tube_slot"`
	Frequency string  `json:"frequency"`
	CTime     float64 `json:"ctime"`
	StartTime float64 `json:"start_time"`
	StopTime  float64 `json:"stop_time"`
}

func NewMapResponse(m *domain.DepthOneMap) MapResponse {
	return MapResponse{
		MapID:     m.MapID,
		MapName:   m.MapName,
		MapPath:   m.MapPath,
		IvarPath:  m.IvarPath,
		TimePath:  m.TimePath,
		TubeSlot:  m.TubeSlot,
		Frequency: m.Frequency,
		CTime:     m.CTime,
		StartTime: m.StartTime,
		StopTime:  m.StopTime,
	}
}

func NewMapListResponse(maps []*domain.DepthOneMap) []MapResponse {
	out := make([]MapResponse, 0, len(maps))
	for _, m := range maps {
		out = append(out, NewMapResponse(m))
	}
	return out
}

// TileResponse is a grid tile plus its sky bounds in degrees.
type TileResponse struct {
	X      int     `json:"x"`
	Y      int     `json:"y"`
	DecMin float64 `json:"dec_min"`
	DecMax float64 `json:"dec_max"`
	RAMin  float64 `json:"ra_min"`
	RAMax  float64 `json:"ra_max"`
}

func NewTileResponse(x, y int) TileResponse {
	decMin, raMax, decMax, raMin := sky.Tile{X: x, Y: y}.Bounds().Degrees()
	return TileResponse{X: x, Y: y, DecMin: decMin, DecMax: decMax, RAMin: raMin, RAMax: raMax}
}

type CoverageResponse struct {
	MapID int64          `json:"map_id"`
	Tiles []TileResponse `json:"tiles"`
}

func NewCoverageResponse(mapID int64, records []domain.CoverageRecord) CoverageResponse {
	resp := CoverageResponse{MapID: mapID, Tiles: make([]TileResponse, 0, len(records))}
	for _, r := range records {
		resp.Tiles = append(resp.Tiles, NewTileResponse(r.X, r.Y))
	}
	return resp
}

type PendingResponse struct {
	Count int                 `json:"count"`
	Maps  []domain.MapSummary `json:"maps"`
}

func NewPendingResponse(maps []domain.MapSummary) PendingResponse {
	if maps == nil {
		maps = []domain.MapSummary{}
	}
	return PendingResponse{Count: len(maps), Maps: maps}
}

type ErrorResponse struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields,omitempty"`
}

// MapDetailResponse is a map with everything attached to it in the catalog.
type MapDetailResponse struct {
	MapResponse
	CoverageTiles       int                           `json:"coverage_tiles"`
	TODs                []*domain.TOD                 `json:"tods"`
	Coadds              []*domain.DepthOneCoadd       `json:"coadds"`
	ProcessingStatuses  []*domain.ProcessingStatus    `json:"processing_statuses"`
	PointingResiduals   []*domain.PointingResidual    `json:"pointing_residuals"`
	PipelineInformation []*domain.PipelineInformation `json:"pipeline_information"`
}

// nonNil keeps empty lists as [] rather than null in responses.
func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}

func NewMapDetailResponse(m *domain.DepthOneMap, tiles int, tods []*domain.TOD, coadds []*domain.DepthOneCoadd,
	statuses []*domain.ProcessingStatus, residuals []*domain.PointingResidual, info []*domain.PipelineInformation) MapDetailResponse {
	return MapDetailResponse{
		MapResponse:         NewMapResponse(m),
		CoverageTiles:       tiles,
		TODs:                nonNil(tods),
		Coadds:              nonNil(coadds),
		ProcessingStatuses:  nonNil(statuses),
		PointingResiduals:   nonNil(residuals),
		PipelineInformation: nonNil(info),
	}
}

type ObsMapsResponse struct {
	ObsID string        `json:"obs_id"`
	Maps  []MapResponse `json:"maps"`
}

type CoaddResponse struct {
	*domain.DepthOneCoadd
	Maps []MapResponse `json:"maps"`
}

type AtomicCoaddResponse struct {
	*domain.AtomicMapCoadd
	AtomicMaps []*domain.AtomicMap      `json:"atomic_maps"`
	Children   []*domain.AtomicMapCoadd `json:"children"`
}

func NewAtomicCoaddResponse(c *domain.AtomicMapCoadd, maps []*domain.AtomicMap, children []*domain.AtomicMapCoadd) AtomicCoaddResponse {
	return AtomicCoaddResponse{AtomicMapCoadd: c, AtomicMaps: nonNil(maps), Children: nonNil(children)}
}

type HealthResponse struct {
	Status       string `json:"status"`
	CoverageRows int    `json:"coverage_rows"`
	PendingMaps  int    `json:"pending_maps"`
}
