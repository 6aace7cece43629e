package app

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/simonsobs/mapcat/internal/constants"
	"github.com/simonsobs/mapcat/internal/domain"
	"github.com/simonsobs/mapcat/internal/logger"
	"github.com/simonsobs/mapcat/internal/store"
)

// MapFiles are the mapmaker products sharing one base name, relative to the
// depth-one parent directory. Missing optional products are nil.
type MapFiles struct {
	Name     string
	MapPath  string
	IvarPath *string
	TimePath *string
}

// Metadata is the per-map information not recoverable from file names.
type Metadata struct {
	TubeSlot  string
	Frequency string
	CTime     float64
	StartTime float64
	StopTime  float64

	// Telescope and ObsIDs describe the TODs the map was made from. Each obs
	// id becomes a TOD row linked to the map.
	Telescope string
	ObsIDs    []string
}

type RegisterService struct {
	Repo   *store.DB
	Root   string
	Logger *logger.Logger
}

func NewRegisterService(repo *store.DB, root string, log *logger.Logger) *RegisterService {
	return &RegisterService{Repo: repo, Root: root, Logger: log.WithComponent("register")}
}

// FindFiles resolves the products for base (a path with or without the
// _map.fits suffix, relative to Root). The intensity map must exist.
func (s *RegisterService) FindFiles(base string) (*MapFiles, error) {
	base = strings.TrimSuffix(base, constants.SuffixMap)

	rel := func(suffix string) (string, bool) {
		p := base + suffix
		if _, err := os.Stat(filepath.Join(s.Root, p)); err != nil {
			return "", false
		}
		return filepath.ToSlash(p), true
	}

	mapPath, ok := rel(constants.SuffixMap)
	if !ok {
		return nil, fmt.Errorf("no %s for %s under %s", constants.SuffixMap, base, s.Root)
	}

	files := &MapFiles{Name: filepath.Base(base), MapPath: mapPath}
	if p, ok := rel(constants.SuffixIvar); ok {
		files.IvarPath = &p
	}
	if p, ok := rel(constants.SuffixTime); ok {
		files.TimePath = &p
	}
	return files, nil
}

// Register adds the map at base to the catalog. The new map has no coverage
// and is picked up by the next reconcile pass.
func (s *RegisterService) Register(ctx context.Context, base string, meta Metadata) (*domain.DepthOneMap, error) {
	if meta.TubeSlot == "" || meta.Frequency == "" {
		return nil, fmt.Errorf("tube slot and frequency are required")
	}
	if meta.StopTime < meta.StartTime {
		return nil, fmt.Errorf("stop time %v is before start time %v", meta.StopTime, meta.StartTime)
	}

	ctimes := make([]float64, len(meta.ObsIDs))
	seen := make(map[string]bool, len(meta.ObsIDs))
	for i, id := range meta.ObsIDs {
		if seen[id] {
			return nil, fmt.Errorf("obs id %s given twice", id)
		}
		seen[id] = true
		ct, err := ObsCTime(id)
		if err != nil {
			return nil, err
		}
		ctimes[i] = ct
	}
	if len(meta.ObsIDs) > 0 && meta.Telescope == "" {
		return nil, fmt.Errorf("telescope is required when obs ids are given")
	}

	files, err := s.FindFiles(base)
	if err != nil {
		return nil, err
	}

	m := &domain.DepthOneMap{
		MapName:   files.Name,
		MapPath:   files.MapPath,
		IvarPath:  files.IvarPath,
		TimePath:  files.TimePath,
		TubeSlot:  meta.TubeSlot,
		Frequency: meta.Frequency,
		CTime:     meta.CTime,
		StartTime: meta.StartTime,
		StopTime:  meta.StopTime,
	}
	err = s.Repo.RunInTx(ctx, func(tx *store.DB) error {
		if err := tx.CreateMap(ctx, m); err != nil {
			return err
		}
		for i, id := range meta.ObsIDs {
			tod := &domain.TOD{
				ObsID:     id,
				CTime:     ctimes[i],
				Telescope: meta.Telescope,
				TubeSlot:  meta.TubeSlot,
				Frequency: meta.Frequency,
			}
			if err := tx.CreateTOD(ctx, tod); err != nil {
				return err
			}
			if err := tx.LinkTODToMap(ctx, tod.ID, m.MapID); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	log := s.Logger.WithMap(m.MapID, m.MapName)
	if m.TimePath == nil {
		log.Warn("Map registered without a time map; coverage cannot be computed", "tods", len(meta.ObsIDs))
	} else {
		log.Info("Map registered", "tods", len(meta.ObsIDs))
	}
	return m, nil
}
