package app

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/simonsobs/mapcat/internal/domain"
	"github.com/simonsobs/mapcat/internal/logger"
	"github.com/simonsobs/mapcat/internal/store"
)

// ObsCTime reads the unix time embedded in an obs id of the form
// obs_<ctime>_<platform>_<suffix>.
func ObsCTime(obsID string) (float64, error) {
	rest, ok := strings.CutPrefix(obsID, "obs_")
	if !ok || len(rest) < 10 {
		return 0, fmt.Errorf("malformed obs id %q", obsID)
	}
	ctime, err := strconv.ParseFloat(rest[:10], 64)
	if err != nil || (len(rest) > 10 && rest[10] != '_') {
		return 0, fmt.Errorf("malformed obs id %q", obsID)
	}
	return ctime, nil
}

// ObsService answers which depth-1 maps an observation went into, for
// planning map-making runs.
type ObsService struct {
	Repo   *store.DB
	Logger *logger.Logger
}

func NewObsService(repo *store.DB, log *logger.Logger) *ObsService {
	return &ObsService{Repo: repo, Logger: log.WithComponent("obs")}
}

func (s *ObsService) MapsContainingObs(ctx context.Context, obsID string) ([]*domain.DepthOneMap, error) {
	return s.Repo.MapsContainingObs(ctx, obsID)
}

// BuildObsLists maps each obs id to the maps containing it. Obs ids that are
// unknown or went into no map are returned in missing, in input order.
// Duplicated ids are looked up once.
func (s *ObsService) BuildObsLists(ctx context.Context, obsIDs []string) (map[string][]*domain.DepthOneMap, []string, error) {
	found := make(map[string][]*domain.DepthOneMap)
	var missing []string

	err := s.Repo.RunInTx(ctx, func(tx *store.DB) error {
		seen := make(map[string]bool, len(obsIDs))
		for _, id := range obsIDs {
			if seen[id] {
				continue
			}
			seen[id] = true

			maps, err := tx.MapsContainingObs(ctx, id)
			if errors.Is(err, domain.ErrNotFound) || (err == nil && len(maps) == 0) {
				missing = append(missing, id)
				continue
			}
			if err != nil {
				return fmt.Errorf("failed to look up obs %s: %w", id, err)
			}
			found[id] = maps
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	s.Logger.Debug("Obs lists built", "requested", len(obsIDs), "found", len(found), "missing", len(missing))
	return found, missing, nil
}
