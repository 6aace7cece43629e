package app

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/simonsobs/mapcat/internal/domain"
	"github.com/simonsobs/mapcat/internal/logger"
	"github.com/simonsobs/mapcat/internal/store"
)

// Manifest carries pipeline products to attach to registered maps. Maps are
// referenced by name so manifests can be written before ids are known.
type Manifest struct {
	ProcessingStatuses  []ProcessingEntry    `json:"processing_statuses"`
	PointingResiduals   []ResidualEntry      `json:"pointing_residuals"`
	PipelineInformation []PipelineEntry      `json:"pipeline_information"`
	DepthOneCoadds      []DepthOneCoaddEntry `json:"depth_one_coadds"`
	AtomicCoadds        []AtomicCoaddEntry   `json:"atomic_coadds"`
}

type ProcessingEntry struct {
	MapName         string                       `json:"map_name"`
	ProcessingStart *float64                     `json:"processing_start"`
	ProcessingEnd   *float64                     `json:"processing_end"`
	Status          domain.ProcessingStatusValue `json:"processing_status"`
}

type ResidualEntry struct {
	MapName   string   `json:"map_name"`
	RAOffset  *float64 `json:"ra_offset"`
	DecOffset *float64 `json:"dec_offset"`
}

type PipelineEntry struct {
	MapName         string          `json:"map_name"`
	SotodlibVersion *string         `json:"sotodlib_version"`
	MapMaker        *string         `json:"map_maker"`
	PreprocessInfo  json.RawMessage `json:"preprocess_info"`
}

type DepthOneCoaddEntry struct {
	domain.DepthOneCoadd
	MapNames []string `json:"map_names"`
}

type AtomicCoaddEntry struct {
	domain.AtomicMapCoadd
	AtomicMaps []domain.AtomicMap `json:"atomic_maps"`
	// Children are coadd names from earlier entries of the same manifest.
	Children []string `json:"children"`
}

// ImportSummary counts the rows an import created.
type ImportSummary struct {
	ProcessingStatuses  int `json:"processing_statuses"`
	PointingResiduals   int `json:"pointing_residuals"`
	PipelineInformation int `json:"pipeline_information"`
	DepthOneCoadds      int `json:"depth_one_coadds"`
	AtomicCoadds        int `json:"atomic_coadds"`
	AtomicMaps          int `json:"atomic_maps"`
}

type ImportService struct {
	Repo   *store.DB
	Logger *logger.Logger
}

func NewImportService(repo *store.DB, log *logger.Logger) *ImportService {
	return &ImportService{Repo: repo, Logger: log.WithComponent("import")}
}

// DecodeManifest reads a manifest, rejecting unknown fields.
func DecodeManifest(r io.Reader) (*Manifest, error) {
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	var m Manifest
	if err := dec.Decode(&m); err != nil {
		return nil, fmt.Errorf("failed to decode manifest: %w", err)
	}
	return &m, nil
}

// Import writes the whole manifest in one transaction; any bad entry,
// including an unknown map name, rolls everything back.
func (s *ImportService) Import(ctx context.Context, m *Manifest) (*ImportSummary, error) {
	sum := &ImportSummary{}

	err := s.Repo.RunInTx(ctx, func(tx *store.DB) error {
		ids := make(map[string]int64)
		lookup := func(name string) (int64, error) {
			if id, ok := ids[name]; ok {
				return id, nil
			}
			dm, err := tx.GetMapByName(ctx, name)
			if err != nil {
				return 0, err
			}
			ids[name] = dm.MapID
			return dm.MapID, nil
		}

		for _, e := range m.ProcessingStatuses {
			if e.Status == "" {
				return fmt.Errorf("processing status for %s is empty", e.MapName)
			}
			id, err := lookup(e.MapName)
			if err != nil {
				return err
			}
			ps := &domain.ProcessingStatus{MapID: id, ProcessingStart: e.ProcessingStart, ProcessingEnd: e.ProcessingEnd, Status: e.Status}
			if err := tx.CreateProcessingStatus(ctx, ps); err != nil {
				return err
			}
			sum.ProcessingStatuses++
		}

		for _, e := range m.PointingResiduals {
			id, err := lookup(e.MapName)
			if err != nil {
				return err
			}
			if err := tx.CreatePointingResidual(ctx, &domain.PointingResidual{MapID: id, RAOffset: e.RAOffset, DecOffset: e.DecOffset}); err != nil {
				return err
			}
			sum.PointingResiduals++
		}

		for _, e := range m.PipelineInformation {
			id, err := lookup(e.MapName)
			if err != nil {
				return err
			}
			p := &domain.PipelineInformation{MapID: id, SotodlibVersion: e.SotodlibVersion, MapMaker: e.MapMaker}
			if len(e.PreprocessInfo) > 0 && string(e.PreprocessInfo) != "null" {
				info := string(e.PreprocessInfo)
				p.PreprocessInfo = &info
			}
			if err := tx.CreatePipelineInformation(ctx, p); err != nil {
				return err
			}
			sum.PipelineInformation++
		}

		for i := range m.DepthOneCoadds {
			e := &m.DepthOneCoadds[i]
			if err := tx.CreateDepthOneCoadd(ctx, &e.DepthOneCoadd); err != nil {
				return err
			}
			for _, name := range e.MapNames {
				id, err := lookup(name)
				if err != nil {
					return err
				}
				if err := tx.LinkMapToCoadd(ctx, id, e.DepthOneCoadd.ID); err != nil {
					return err
				}
			}
			sum.DepthOneCoadds++
		}

		coadds := make(map[string]int64)
		for i := range m.AtomicCoadds {
			e := &m.AtomicCoadds[i]
			if err := tx.CreateAtomicMapCoadd(ctx, &e.AtomicMapCoadd); err != nil {
				return err
			}
			coadds[e.CoaddName] = e.AtomicMapCoadd.ID

			for j := range e.AtomicMaps {
				am := &e.AtomicMaps[j]
				if err := tx.CreateAtomicMap(ctx, am); err != nil {
					return err
				}
				if err := tx.LinkAtomicMapToCoadd(ctx, am.ID, e.AtomicMapCoadd.ID); err != nil {
					return err
				}
				sum.AtomicMaps++
			}
			for _, child := range e.Children {
				childID, ok := coadds[child]
				if !ok {
					return fmt.Errorf("atomic coadd %s: child %q: %w", e.CoaddName, child, domain.ErrNotFound)
				}
				if err := tx.LinkChildCoadd(ctx, e.AtomicMapCoadd.ID, childID); err != nil {
					return err
				}
			}
			sum.AtomicCoadds++
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.Logger.Info("Manifest imported",
		"processing_statuses", sum.ProcessingStatuses,
		"pointing_residuals", sum.PointingResiduals,
		"pipeline_information", sum.PipelineInformation,
		"depth_one_coadds", sum.DepthOneCoadds,
		"atomic_coadds", sum.AtomicCoadds,
		"atomic_maps", sum.AtomicMaps)
	return sum, nil
}
