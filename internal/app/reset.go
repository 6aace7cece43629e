package app

import (
	"context"
	"fmt"

	"github.com/simonsobs/mapcat/internal/domain"
	"github.com/simonsobs/mapcat/internal/logger"
	"github.com/simonsobs/mapcat/internal/store"
)

// ResetService rewrites or clears time-domain processing entries so the
// pipeline picks the selected maps up again.
type ResetService struct {
	Repo   *store.DB
	Logger *logger.Logger
}

func NewResetService(repo *store.DB, log *logger.Logger) *ResetService {
	return &ResetService{Repo: repo, Logger: log.WithComponent("reset")}
}

// Reset applies to every entry matching filter. With an empty status the
// entries are deleted, otherwise they are set to status. The whole reset is
// one transaction. It returns the number of entries touched.
func (s *ResetService) Reset(ctx context.Context, filter domain.ResetFilter, status domain.ProcessingStatusValue) (int, error) {
	if status != "" && !domain.IsValidResetStatus(status) {
		return 0, fmt.Errorf("%w: %q (want one of %v)", domain.ErrInvalidStatus, status, domain.ValidResetStatuses)
	}
	if filter.StartTime != nil && filter.EndTime != nil && *filter.StartTime > *filter.EndTime {
		return 0, fmt.Errorf("start time %v is after end time %v", *filter.StartTime, *filter.EndTime)
	}

	var touched int64
	err := s.Repo.RunInTx(ctx, func(tx *store.DB) error {
		entries, err := tx.FindProcessingStatuses(ctx, filter)
		if err != nil {
			return fmt.Errorf("failed to find processing statuses: %w", err)
		}

		ids := make([]int64, len(entries))
		for i, e := range entries {
			ids[i] = e.ID
		}

		if status == "" {
			touched, err = tx.DeleteProcessingStatuses(ctx, ids)
		} else {
			touched, err = tx.SetProcessingStatus(ctx, ids, status)
		}
		return err
	})
	if err != nil {
		return 0, err
	}

	if status == "" {
		s.Logger.Info("Processing statuses deleted", "count", touched)
	} else {
		s.Logger.Info("Processing statuses reset", "count", touched, "status", status)
	}
	return int(touched), nil
}
